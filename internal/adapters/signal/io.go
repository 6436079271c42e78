package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (g *Gateway) writePump(ctx context.Context, cancel context.CancelFunc, p *peerConn) {
	ticker := time.NewTicker(g.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		cancel()
		p.close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-p.send:
			_ = p.sock.SetWriteDeadline(time.Now().Add(g.opts.WriteWait))
			if !ok {
				_ = p.sock.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.sock.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = p.sock.SetWriteDeadline(time.Now().Add(g.opts.WriteWait))
			if err := p.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads client messages until the connection dies, then runs the
// implicit-disconnect cleanup. A missed pong deadline surfaces as a read
// error, so a silent connection gets the same treatment as an explicit leave.
func (g *Gateway) readPump(ctx context.Context, cancel context.CancelFunc, p *peerConn) {
	defer func() {
		cancel()
		g.dropPeer(p)
	}()

	p.sock.SetReadLimit(g.opts.ReadLimit)
	_ = p.sock.SetReadDeadline(time.Now().Add(g.opts.PongWait))
	p.sock.SetPongHandler(func(string) error {
		return p.sock.SetReadDeadline(time.Now().Add(g.opts.PongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := p.sock.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "signal").Msg("readPump read error")
				}
				return
			}
			g.dispatch(p, data)
		}
	}
}

func (g *Gateway) dispatch(p *peerConn, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		g.sendError(p, "bad payload")
		return
	}

	switch env.Type {
	case evJoinRoom:
		g.handleJoinRoom(p, data)
	case evLeaveRoom:
		g.handleLeaveRoom(p)
	case evEndCall:
		g.handleEndCall(p)
	case evSignal:
		g.handleSignalRelay(p, data)
	case evICECandidate:
		g.handleCandidateRelay(p, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
		g.sendError(p, "unknown event type")
	}
}

func (g *Gateway) sendJSON(p *peerConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	if err := p.trySend(b); err != nil {
		id, _ := p.identity()
		log.Warn().Err(err).Str("module", "signal").Str("peer", string(id)).Msg("send dropped")
	}
}

// sendError reports a failure back to the sender only; other room members
// are never affected by one peer's bad request.
func (g *Gateway) sendError(p *peerConn, msg string) {
	g.sendJSON(p, errorEvent{Type: evError, Error: msg})
}
