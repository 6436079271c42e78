// Package signal is the real-time gateway: it terminates WebSocket
// connections, authenticates peers, tracks room membership and relays
// WebRTC negotiation payloads between the two parties of a call.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/arslan3373/client-doctor-project/internal/app"
	"github.com/arslan3373/client-doctor-project/internal/auth"
	"github.com/arslan3373/client-doctor-project/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Conn is an indirection over *websocket.Conn to ease testing.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(mt int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
	Close() error
}

// Options are the transport knobs of the gateway.
type Options struct {
	MaxRoomPeers int
	ReadLimit    int64
	PongWait     time.Duration
	PingPeriod   time.Duration
	WriteWait    time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxRoomPeers <= 0 {
		o.MaxRoomPeers = 2
	}
	if o.ReadLimit <= 0 {
		o.ReadLimit = 64 * 1024
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.PingPeriod <= 0 {
		o.PingPeriod = (o.PongWait * 9) / 10
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	return o
}

// Gateway owns the room membership table and the set of live peer
// connections. All mutations of the table happen in its handlers.
type Gateway struct {
	rooms    *app.RoomTable
	verifier auth.Verifier
	opts     Options

	mu    sync.RWMutex
	peers map[domain.PeerID]*peerConn
}

func NewGateway(rooms *app.RoomTable, verifier auth.Verifier, opts Options) *Gateway {
	return &Gateway{
		rooms:    rooms,
		verifier: verifier,
		opts:     opts.withDefaults(),
		peers:    make(map[domain.PeerID]*peerConn),
	}
}

// peerConn is one connected real-time endpoint. Its id stays empty until the
// peer announces itself with join-room.
type peerConn struct {
	claims *auth.Claims
	sock   Conn
	send   chan []byte

	mu     sync.RWMutex
	closed bool
	id     domain.PeerID
	room   domain.RoomID
}

func newPeerConn(claims *auth.Claims, sock Conn) *peerConn {
	return &peerConn{
		claims: claims,
		sock:   sock,
		send:   make(chan []byte, 32),
	}
}

func (p *peerConn) trySend(data []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return errors.New("connection closed")
	}
	select {
	case p.send <- data:
		return nil
	default:
		return ErrBackpressure
	}
}

func (p *peerConn) close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.send)
	p.mu.Unlock()
	_ = p.sock.Close()
}

func (p *peerConn) identity() (domain.PeerID, domain.RoomID) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.id, p.room
}

func (p *peerConn) setIdentity(id domain.PeerID, room domain.RoomID) {
	p.mu.Lock()
	p.id = id
	p.room = room
	p.mu.Unlock()
}

func (p *peerConn) clearRoom() {
	p.mu.Lock()
	p.room = ""
	p.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWS authenticates the bearer credential and upgrades the connection.
// The token comes from the query string because browser WebSocket clients
// cannot set an Authorization header on the handshake.
func (g *Gateway) HandleWS(ctx context.Context, c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
		return
	}
	claims, err := g.verifier.Verify(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "signal").Str("user", claims.UserID).Str("session", claims.SessionID).Msg("new WS connection")

	p := newPeerConn(claims, ws)
	ctx, cancel := context.WithCancel(ctx)
	go g.writePump(ctx, cancel, p)
	go g.readPump(ctx, cancel, p)
}

// dropPeer runs the implicit-disconnect path: membership cleanup plus a
// notification to whoever remains. Safe to call more than once.
func (g *Gateway) dropPeer(p *peerConn) {
	id, room := p.identity()
	if id != "" {
		g.mu.Lock()
		if g.peers[id] == p {
			delete(g.peers, id)
		}
		g.mu.Unlock()
	}
	if id != "" && room != "" {
		remaining, ok := g.rooms.RemoveMember(room, id)
		if ok {
			g.notify(remaining, peerDisconnectedEvent{Type: evPeerDisconnected, PeerID: id})
		}
		p.clearRoom()
		log.Info().Str("module", "signal").Str("peer", string(id)).Str("room", string(room)).Msg("peer disconnected")
	}
	p.close()
}

// lookupPeer returns the live connection registered under id.
func (g *Gateway) lookupPeer(id domain.PeerID) (*peerConn, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.peers[id]
	return p, ok
}

// notify fans an event out to the given peers. Ordering per target follows
// from the single write pump per connection.
func (g *Gateway) notify(targets []domain.PeerID, v any) {
	for _, id := range targets {
		if p, ok := g.lookupPeer(id); ok {
			g.sendJSON(p, v)
		}
	}
}
