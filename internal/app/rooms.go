package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/arslan3373/client-doctor-project/internal/domain"
)

// roomEntry holds one room's member set behind its own lock, so membership
// churn in one room never blocks another.
type roomEntry struct {
	mu      sync.Mutex
	members map[domain.PeerID]struct{}
	// gone is set once the table has decided to delete this entry; late
	// writers must re-fetch instead of resurrecting it.
	gone bool
}

func (e *roomEntry) snapshot() []domain.PeerID {
	out := make([]domain.PeerID, 0, len(e.members))
	for p := range e.members {
		out = append(out, p)
	}
	return out
}

// RoomTable maps room ids to the set of currently connected peers. Rooms are
// never created explicitly: they spring into existence on first AddMember and
// are deleted as soon as their member set empties. The table imposes no
// member cap of its own; callers express policy through the add guard.
type RoomTable struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*roomEntry
}

func NewRoomTable() *RoomTable {
	return &RoomTable{rooms: make(map[domain.RoomID]*roomEntry)}
}

func (t *RoomTable) getOrCreate(id domain.RoomID) *roomEntry {
	t.mu.RLock()
	e, ok := t.rooms[id]
	t.mu.RUnlock()
	if ok {
		return e
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok = t.rooms[id]; ok {
		return e
	}
	e = &roomEntry{members: make(map[domain.PeerID]struct{})}
	t.rooms[id] = e
	return e
}

// AddMember inserts peer into the room, creating the room if needed. The
// guard, if non-nil, sees the members present before insertion and may veto
// the join; guard and insert run under the room's lock, so two racing joins
// cannot both slip past it. The returned slice holds the other members at
// insert time.
func (t *RoomTable) AddMember(id domain.RoomID, peer domain.PeerID, guard func(current []domain.PeerID) error) ([]domain.PeerID, error) {
	for {
		e := t.getOrCreate(id)
		e.mu.Lock()
		if e.gone {
			e.mu.Unlock()
			continue // entry was deleted between fetch and lock; retry
		}
		others := e.snapshot()
		if guard != nil {
			if err := guard(others); err != nil {
				e.mu.Unlock()
				return nil, err
			}
		}
		e.members[peer] = struct{}{}
		e.mu.Unlock()
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("peer", string(peer)).Int("others", len(others)).Msg("member joined")
		return others, nil
	}
}

// RemoveMember deletes peer from the room. When the member set empties the
// room entry is dropped immediately. It returns the remaining members and
// whether the peer was actually present.
func (t *RoomTable) RemoveMember(id domain.RoomID, peer domain.PeerID) ([]domain.PeerID, bool) {
	t.mu.RLock()
	e, ok := t.rooms[id]
	t.mu.RUnlock()
	if !ok {
		return nil, false
	}

	e.mu.Lock()
	if _, present := e.members[peer]; !present {
		e.mu.Unlock()
		return nil, false
	}
	delete(e.members, peer)
	remaining := e.snapshot()
	empty := len(e.members) == 0
	if empty {
		e.gone = true
	}
	e.mu.Unlock()

	if empty {
		t.mu.Lock()
		if t.rooms[id] == e {
			delete(t.rooms, id)
		}
		t.mu.Unlock()
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room emptied and removed")
	} else {
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("peer", string(peer)).Msg("member left")
	}
	return remaining, true
}

// Members returns the current member set, or ok=false when the room does not
// exist. An empty room never exists for callers of this method.
func (t *RoomTable) Members(id domain.RoomID) ([]domain.PeerID, bool) {
	t.mu.RLock()
	e, ok := t.rooms[id]
	t.mu.RUnlock()
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gone || len(e.members) == 0 {
		return nil, false
	}
	return e.snapshot(), true
}

// Rooms lists all room ids currently in the table.
func (t *RoomTable) Rooms() []domain.RoomID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.RoomID, 0, len(t.rooms))
	for id := range t.rooms {
		out = append(out, id)
	}
	return out
}

// ReapEmpty removes every room whose member set is empty and returns their
// ids. RemoveMember already deletes empty rooms eagerly, so this is a safety
// net for any code path that left a dangling entry; it is idempotent and a
// no-op on rooms that are gone or populated.
func (t *RoomTable) ReapEmpty() []domain.RoomID {
	t.mu.Lock()
	defer t.mu.Unlock()
	var reaped []domain.RoomID
	for id, e := range t.rooms {
		e.mu.Lock()
		if len(e.members) == 0 {
			e.gone = true
			delete(t.rooms, id)
			reaped = append(reaped, id)
		}
		e.mu.Unlock()
	}
	return reaped
}
