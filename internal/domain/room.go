package domain

type (
	// RoomID keys the ephemeral signaling group of one call. Callers
	// typically pass the session id, but the room table does not require it.
	RoomID string
	// PeerID identifies one connected real-time endpoint.
	PeerID string
)
