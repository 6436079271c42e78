package app

import (
	"errors"
	"testing"

	"github.com/arslan3373/client-doctor-project/internal/domain"
)

func TestParticipantPolicy_ScheduleIsDoctorOnly(t *testing.T) {
	p := ParticipantPolicy{}

	if err := p.Authorize(Caller{ID: "doc-1", Role: domain.RoleDoctor}, nil, ActionSchedule); err != nil {
		t.Errorf("doctor must be allowed to schedule, got %v", err)
	}
	err := p.Authorize(Caller{ID: "pat-1", Role: domain.RolePatient}, nil, ActionSchedule)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("patient scheduling: expected ErrForbidden, got %v", err)
	}
}

func TestParticipantPolicy_LifecycleBelongsToOwningDoctor(t *testing.T) {
	p := ParticipantPolicy{}
	s := mustSession(t, "doc-1", "pat-1")

	for _, action := range []Action{ActionStart, ActionEnd, ActionCancel} {
		if err := p.Authorize(Caller{ID: "doc-1", Role: domain.RoleDoctor}, s, action); err != nil {
			t.Errorf("owning doctor rejected for action %d: %v", action, err)
		}
		err := p.Authorize(Caller{ID: "doc-2", Role: domain.RoleDoctor}, s, action)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("other doctor action %d: expected ErrForbidden, got %v", action, err)
		}
		err = p.Authorize(Caller{ID: "pat-1", Role: domain.RolePatient}, s, action)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("patient action %d: expected ErrForbidden, got %v", action, err)
		}
	}
}

func TestParticipantPolicy_JoinAndReadForParticipantsOnly(t *testing.T) {
	p := ParticipantPolicy{}
	s := mustSession(t, "doc-1", "pat-1")

	for _, action := range []Action{ActionJoin, ActionRead} {
		if err := p.Authorize(Caller{ID: "doc-1", Role: domain.RoleDoctor}, s, action); err != nil {
			t.Errorf("doctor rejected for action %d: %v", action, err)
		}
		if err := p.Authorize(Caller{ID: "pat-1", Role: domain.RolePatient}, s, action); err != nil {
			t.Errorf("patient rejected for action %d: %v", action, err)
		}
		// A patient who is not on this session is not a participant.
		err := p.Authorize(Caller{ID: "pat-2", Role: domain.RolePatient}, s, action)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("non-participant action %d: expected ErrForbidden, got %v", action, err)
		}
	}
}
