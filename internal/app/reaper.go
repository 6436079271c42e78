package app

import (
	"github.com/rs/zerolog/log"
)

// RoomReaper periodically evicts rooms left with an empty member set. The
// table deletes empty rooms eagerly on RemoveMember, so a sweep normally
// finds nothing; it exists to recover from a code path that crashed between
// emptying a room and deleting it.
type RoomReaper struct {
	Table *RoomTable
}

func NewRoomReaper(table *RoomTable) *RoomReaper {
	return &RoomReaper{Table: table}
}

// Sweep removes all empty rooms and returns how many were evicted. It is
// idempotent and has no effect on populated or already-removed rooms.
func (r *RoomReaper) Sweep() int {
	reaped := r.Table.ReapEmpty()
	for _, id := range reaped {
		log.Warn().Str("module", "app.reaper").Str("room", string(id)).Msg("evicted dangling empty room")
	}
	if len(reaped) > 0 {
		log.Info().Str("module", "app.reaper").Int("evicted", len(reaped)).Msg("sweep complete")
	}
	return len(reaped)
}
