package app

import (
	"fmt"

	"github.com/arslan3373/client-doctor-project/internal/domain"
)

// Caller is the verified identity behind a request: an opaque subject id plus
// the role resolved by the identity verifier.
type Caller struct {
	ID   domain.UserID
	Role domain.Role
}

// Action names an operation checked by the access policy.
type Action int

const (
	ActionSchedule Action = iota
	ActionStart
	ActionEnd
	ActionCancel
	ActionJoin
	ActionRead
)

// AccessPolicy is the single authorization rule set consulted by every
// control-surface and real-time action.
type AccessPolicy interface {
	Authorize(caller Caller, s *domain.Session, action Action) error
}

// ParticipantPolicy implements the rules of the video core: scheduling and
// lifecycle transitions belong to the session's doctor, reads and joins to
// either participant.
type ParticipantPolicy struct{}

func (ParticipantPolicy) Authorize(caller Caller, s *domain.Session, action Action) error {
	switch action {
	case ActionSchedule:
		if caller.Role != domain.RoleDoctor {
			return fmt.Errorf("%w: only doctors can schedule video calls", domain.ErrForbidden)
		}
		return nil
	case ActionStart, ActionEnd, ActionCancel:
		if caller.Role != domain.RoleDoctor {
			return fmt.Errorf("%w: only doctors can perform this action", domain.ErrForbidden)
		}
		if s == nil || s.DoctorID != caller.ID {
			return fmt.Errorf("%w: not the doctor of this session", domain.ErrForbidden)
		}
		return nil
	case ActionJoin, ActionRead:
		if s == nil || !s.IsParticipant(caller.ID) {
			return fmt.Errorf("%w: not a participant of this session", domain.ErrForbidden)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown action", domain.ErrForbidden)
	}
}
