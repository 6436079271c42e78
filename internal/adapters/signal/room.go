package signal

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/arslan3373/client-doctor-project/internal/domain"
)

func (g *Gateway) handleJoinRoom(p *peerConn, data []byte) {
	var req joinRoomPayload
	if err := json.Unmarshal(data, &req); err != nil {
		g.sendError(p, "bad payload")
		return
	}
	if req.RoomID == "" || req.PeerID == "" {
		g.sendError(p, "roomId and peerId are required")
		return
	}
	if id, _ := p.identity(); id != "" {
		g.sendError(p, "already in a room")
		return
	}

	// Claim the peer id before touching the room so relays can resolve the
	// target as soon as others learn about it.
	g.mu.Lock()
	if _, taken := g.peers[req.PeerID]; taken {
		g.mu.Unlock()
		g.sendError(p, "peer id already in use")
		return
	}
	g.peers[req.PeerID] = p
	g.mu.Unlock()

	others, err := g.rooms.AddMember(req.RoomID, req.PeerID, func(current []domain.PeerID) error {
		if len(current) >= g.opts.MaxRoomPeers {
			return fmt.Errorf("room is full")
		}
		return nil
	})
	if err != nil {
		g.mu.Lock()
		delete(g.peers, req.PeerID)
		g.mu.Unlock()
		g.sendError(p, err.Error())
		return
	}
	p.setIdentity(req.PeerID, req.RoomID)

	log.Info().Str("module", "signal").Str("peer", string(req.PeerID)).Str("room", string(req.RoomID)).Bool("initiator", req.IsInitiator).Msg("peer joined room")

	// The joiner gets the current member list; everyone already present
	// learns about the newcomer.
	g.sendJSON(p, peersEvent{Type: evPeers, Peers: others})
	g.notify(others, peerConnectedEvent{Type: evPeerConnected, PeerID: req.PeerID})
}

// handleLeaveRoom removes the caller from its room without closing the
// connection. Remaining members are told the peer is gone.
func (g *Gateway) handleLeaveRoom(p *peerConn) {
	id, room := p.identity()
	if id == "" || room == "" {
		g.sendError(p, "not in a room")
		return
	}
	g.leaveRoom(p, id, room, peerDisconnectedEvent{Type: evPeerDisconnected, PeerID: id})
}

// handleEndCall announces the end of the call to the other members and then
// leaves. The connection stays open so the client can join another call.
func (g *Gateway) handleEndCall(p *peerConn) {
	id, room := p.identity()
	if id == "" || room == "" {
		g.sendError(p, "not in a room")
		return
	}
	log.Info().Str("module", "signal").Str("peer", string(id)).Str("room", string(room)).Msg("call ended by peer")
	g.leaveRoom(p, id, room, callEndedEvent{Type: evCallEnded, PeerID: id})
}

func (g *Gateway) leaveRoom(p *peerConn, id domain.PeerID, room domain.RoomID, event any) {
	remaining, ok := g.rooms.RemoveMember(room, id)
	if ok {
		g.notify(remaining, event)
	}
	g.mu.Lock()
	if g.peers[id] == p {
		delete(g.peers, id)
	}
	g.mu.Unlock()
	p.setIdentity("", "")
}
