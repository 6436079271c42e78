package signal

import (
	"encoding/json"

	"github.com/arslan3373/client-doctor-project/internal/domain"
)

// Canonical event names of the signaling contract. The gateway speaks one
// set of names in both directions.
const (
	evJoinRoom         = "join-room"
	evLeaveRoom        = "leave-room"
	evEndCall          = "end-call"
	evSignal           = "signal"
	evICECandidate     = "ice-candidate"
	evPeers            = "peers"
	evPeerConnected    = "peer-connected"
	evPeerDisconnected = "peer-disconnected"
	evCallEnded        = "call-ended"
	evError            = "error"
)

type envelope struct {
	Type string `json:"type"`
}

type joinRoomPayload struct {
	Type        string        `json:"type"`
	RoomID      domain.RoomID `json:"roomId"`
	PeerID      domain.PeerID `json:"peerId"`
	IsInitiator bool          `json:"isInitiator,omitempty"` // advisory only
}

type leavePayload struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
	PeerID domain.PeerID `json:"peerId"`
}

// signalPayload carries an opaque SDP offer/answer envelope. The gateway
// never inspects Signal.
type signalPayload struct {
	Type   string          `json:"type"`
	To     domain.PeerID   `json:"to,omitempty"`
	From   domain.PeerID   `json:"from,omitempty"`
	Signal json.RawMessage `json:"signal"`
}

type candidatePayload struct {
	Type      string          `json:"type"`
	To        domain.PeerID   `json:"to,omitempty"`
	From      domain.PeerID   `json:"from,omitempty"`
	Candidate json.RawMessage `json:"candidate"`
}

type peersEvent struct {
	Type  string          `json:"type"`
	Peers []domain.PeerID `json:"peers"`
}

type peerConnectedEvent struct {
	Type   string        `json:"type"`
	PeerID domain.PeerID `json:"peerId"`
}

type peerDisconnectedEvent struct {
	Type   string        `json:"type"`
	PeerID domain.PeerID `json:"peerId"`
}

type callEndedEvent struct {
	Type   string        `json:"type"`
	PeerID domain.PeerID `json:"peerId"`
}

type errorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
