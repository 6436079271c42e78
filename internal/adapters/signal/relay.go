package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/arslan3373/client-doctor-project/internal/domain"
)

// resolveTarget finds the live connection of a relay target and checks it
// shares the sender's room. Relays never cross room boundaries.
func (g *Gateway) resolveTarget(p *peerConn, to domain.PeerID) (*peerConn, bool) {
	from, room := p.identity()
	if from == "" || room == "" {
		g.sendError(p, "join a room first")
		return nil, false
	}
	target, ok := g.lookupPeer(to)
	if !ok {
		g.sendError(p, "peer not found")
		return nil, false
	}
	_, targetRoom := target.identity()
	if targetRoom != room {
		g.sendError(p, "peer is not in your room")
		return nil, false
	}
	return target, true
}

// handleSignalRelay forwards an opaque SDP envelope to its target, tagged
// with the sender's id. The payload is never inspected.
func (g *Gateway) handleSignalRelay(p *peerConn, data []byte) {
	var req signalPayload
	if err := json.Unmarshal(data, &req); err != nil || req.To == "" {
		g.sendError(p, "bad payload")
		return
	}
	target, ok := g.resolveTarget(p, req.To)
	if !ok {
		return
	}
	from, _ := p.identity()
	g.sendJSON(target, signalPayload{Type: evSignal, From: from, Signal: req.Signal})
	log.Debug().Str("module", "signal").Str("from", string(from)).Str("to", string(req.To)).Msg("relayed signal")
}

func (g *Gateway) handleCandidateRelay(p *peerConn, data []byte) {
	var req candidatePayload
	if err := json.Unmarshal(data, &req); err != nil || req.To == "" {
		g.sendError(p, "bad payload")
		return
	}
	target, ok := g.resolveTarget(p, req.To)
	if !ok {
		return
	}
	from, _ := p.identity()
	g.sendJSON(target, candidatePayload{Type: evICECandidate, From: from, Candidate: req.Candidate})
}
