package app

import (
	"fmt"
	"testing"

	"github.com/arslan3373/client-doctor-project/internal/domain"
)

func TestRoomTable_FirstJoinCreatesRoom(t *testing.T) {
	tbl := NewRoomTable()

	others, err := tbl.AddMember("r1", "peer-a", nil)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if len(others) != 0 {
		t.Errorf("first joiner should see no other members, got %v", others)
	}

	members, ok := tbl.Members("r1")
	if !ok || len(members) != 1 {
		t.Fatalf("expected 1 member in r1, got %v (ok=%v)", members, ok)
	}
}

func TestRoomTable_SecondJoinSeesFirst(t *testing.T) {
	tbl := NewRoomTable()
	if _, err := tbl.AddMember("r1", "peer-a", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	others, err := tbl.AddMember("r1", "peer-b", nil)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if len(others) != 1 || others[0] != "peer-a" {
		t.Errorf("expected existing member peer-a, got %v", others)
	}
}

func TestRoomTable_GuardVetoesJoin(t *testing.T) {
	tbl := NewRoomTable()
	full := func(current []domain.PeerID) error {
		if len(current) >= 2 {
			return fmt.Errorf("room is full")
		}
		return nil
	}

	for _, p := range []domain.PeerID{"a", "b"} {
		if _, err := tbl.AddMember("r1", p, full); err != nil {
			t.Fatalf("add %s failed: %v", p, err)
		}
	}
	if _, err := tbl.AddMember("r1", "c", full); err == nil {
		t.Fatal("third join should have been vetoed by the guard")
	}
	members, _ := tbl.Members("r1")
	if len(members) != 2 {
		t.Errorf("vetoed join must not change membership, got %v", members)
	}
}

func TestRoomTable_EmptyRoomIsGone(t *testing.T) {
	tbl := NewRoomTable()
	tbl.AddMember("r1", "peer-a", nil)
	tbl.AddMember("r1", "peer-b", nil)

	remaining, ok := tbl.RemoveMember("r1", "peer-a")
	if !ok || len(remaining) != 1 || remaining[0] != "peer-b" {
		t.Fatalf("expected peer-b to remain, got %v (ok=%v)", remaining, ok)
	}

	remaining, ok = tbl.RemoveMember("r1", "peer-b")
	if !ok || len(remaining) != 0 {
		t.Fatalf("expected empty remaining, got %v (ok=%v)", remaining, ok)
	}

	if _, ok := tbl.Members("r1"); ok {
		t.Error("room with zero members must not be queryable")
	}
	if len(tbl.Rooms()) != 0 {
		t.Errorf("expected no rooms, got %v", tbl.Rooms())
	}
}

func TestRoomTable_RemoveUnknownPeerOrRoom(t *testing.T) {
	tbl := NewRoomTable()
	if _, ok := tbl.RemoveMember("ghost", "x"); ok {
		t.Error("removing from an unknown room must report absence")
	}

	tbl.AddMember("r1", "peer-a", nil)
	if _, ok := tbl.RemoveMember("r1", "stranger"); ok {
		t.Error("removing an absent peer must report absence")
	}
	if _, ok := tbl.Members("r1"); !ok {
		t.Error("failed removal must not delete the room")
	}
}

func TestRoomTable_RejoinAfterEmptyRecreatesRoom(t *testing.T) {
	tbl := NewRoomTable()
	tbl.AddMember("r1", "peer-a", nil)
	tbl.RemoveMember("r1", "peer-a")

	if _, err := tbl.AddMember("r1", "peer-a", nil); err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	members, ok := tbl.Members("r1")
	if !ok || len(members) != 1 {
		t.Errorf("expected fresh room with 1 member, got %v (ok=%v)", members, ok)
	}
}

func TestRoomReaper_RemovesDanglingEmptyRoom(t *testing.T) {
	tbl := NewRoomTable()
	tbl.AddMember("busy", "peer-a", nil)

	// Simulate a cleanup path that emptied a room but crashed before
	// deleting the entry.
	tbl.mu.Lock()
	tbl.rooms["dangling"] = &roomEntry{members: make(map[domain.PeerID]struct{})}
	tbl.mu.Unlock()

	reaper := NewRoomReaper(tbl)
	if n := reaper.Sweep(); n != 1 {
		t.Errorf("expected 1 room reaped, got %d", n)
	}
	if _, ok := tbl.Members("dangling"); ok {
		t.Error("dangling room should be gone after sweep")
	}
	if members, ok := tbl.Members("busy"); !ok || len(members) != 1 {
		t.Errorf("populated room must survive the sweep, got %v (ok=%v)", members, ok)
	}

	// Idempotent: a second sweep finds nothing.
	if n := reaper.Sweep(); n != 0 {
		t.Errorf("expected no-op second sweep, got %d", n)
	}
}
