package app

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/arslan3373/client-doctor-project/internal/domain"
)

// SessionRegistry is the in-memory store of video-call sessions. It is owned
// exclusively by the signaling gateway process; there is no external writer.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[domain.SessionID]*domain.Session)}
}

// Create stores a freshly built session.
func (r *SessionRegistry) Create(s *domain.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.SessionID] = s
	log.Info().Str("module", "app.registry").Str("session", string(s.SessionID)).Str("doctor", string(s.DoctorID)).Str("patient", string(s.PatientID)).Msg("session created")
}

// Get returns a copy of the session, or ErrNotFound.
func (r *SessionRegistry) Get(id domain.SessionID) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	return s.Clone(), nil
}

// Update applies mutate to the stored session while holding the registry
// lock, so at most one mutation per session is ever in flight. The mutator
// must either fully apply or leave the session untouched. On success the
// updated session is returned as a copy.
func (r *SessionRegistry) Update(id domain.SessionID, mutate func(*domain.Session) error) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	if err := mutate(s); err != nil {
		return nil, err
	}
	log.Info().Str("module", "app.registry").Str("session", string(id)).Str("status", string(s.Status)).Msg("session updated")
	return s.Clone(), nil
}

// ListByParticipant returns copies of every session the user takes part in,
// as doctor or as patient.
func (r *SessionRegistry) ListByParticipant(id domain.UserID) []*domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Session, 0)
	for _, s := range r.sessions {
		if s.IsParticipant(id) {
			out = append(out, s.Clone())
		}
	}
	return out
}
