// Package http is the control surface of the video-call core: scheduling
// and lifecycle of sessions, plus handing out join credentials for the
// real-time channel.
package http

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/arslan3373/client-doctor-project/internal/app"
	"github.com/arslan3373/client-doctor-project/internal/auth"
	"github.com/arslan3373/client-doctor-project/internal/domain"
)

// VideoHandler serves the session endpoints. Every authorization decision
// goes through the access policy.
type VideoHandler struct {
	registry    *app.SessionRegistry
	policy      app.AccessPolicy
	tokens      *auth.TokenManager
	joinURLBase string
}

func NewVideoHandler(registry *app.SessionRegistry, policy app.AccessPolicy, tokens *auth.TokenManager, joinURLBase string) *VideoHandler {
	return &VideoHandler{
		registry:    registry,
		policy:      policy,
		tokens:      tokens,
		joinURLBase: joinURLBase,
	}
}

type scheduleRequest struct {
	AppointmentID string    `json:"appointmentId" binding:"required"`
	PatientID     string    `json:"patientId" binding:"required"`
	ScheduledTime time.Time `json:"scheduledTime" binding:"required"`
	Duration      int       `json:"duration" binding:"required"`
}

type sessionIDRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// Schedule creates a session in the scheduled state. Doctor-only.
func (h *VideoHandler) Schedule(c *gin.Context) {
	caller, ok := GetCallerFromContext(c)
	if !ok {
		Unauthorized(c, "Missing caller identity")
		return
	}
	if err := h.policy.Authorize(caller, nil, app.ActionSchedule); err != nil {
		FromDomainError(c, err)
		return
	}

	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FromDomainError(c, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err))
		return
	}

	s, err := domain.NewSession(req.AppointmentID, caller.ID, domain.UserID(req.PatientID), req.ScheduledTime, req.Duration)
	if err != nil {
		FromDomainError(c, err)
		return
	}
	h.registry.Create(s)

	Created(c, "Video call scheduled successfully", gin.H{"session": s})
}

// Start transitions a scheduled session to in-progress and generates the
// meeting details. Only the session's doctor may start it.
func (h *VideoHandler) Start(c *gin.Context) {
	caller, req, ok := h.bindSessionAction(c)
	if !ok {
		return
	}
	id := domain.SessionID(req.SessionID)

	s, err := h.registry.Get(id)
	if err != nil {
		FromDomainError(c, err)
		return
	}
	if err := h.policy.Authorize(caller, s, app.ActionStart); err != nil {
		FromDomainError(c, err)
		return
	}

	details := domain.MeetingDetails{
		MeetingID: uuid.NewString(),
		Password:  generatePassword(6),
		JoinURL:   fmt.Sprintf("%s/%s", h.joinURLBase, id),
	}
	updated, err := h.registry.Update(id, func(s *domain.Session) error {
		return s.Start(details, time.Now())
	})
	if err != nil {
		FromDomainError(c, err)
		return
	}

	log.Info().Str("module", "http.video").Str("session", string(id)).Str("doctor", string(caller.ID)).Msg("video call started")
	Success(c, "Video call started successfully", gin.H{"meetingDetails": updated.MeetingDetails})
}

// Join hands a participant the meeting details plus a short-lived token for
// the signaling connection. The session must be in progress.
func (h *VideoHandler) Join(c *gin.Context) {
	caller, req, ok := h.bindSessionAction(c)
	if !ok {
		return
	}
	id := domain.SessionID(req.SessionID)

	s, err := h.registry.Get(id)
	if err != nil {
		FromDomainError(c, err)
		return
	}
	if err := h.policy.Authorize(caller, s, app.ActionJoin); err != nil {
		FromDomainError(c, err)
		return
	}
	if !s.Joinable() {
		FromDomainError(c, fmt.Errorf("%w: session is not active (status %q)", domain.ErrInvalidState, s.Status))
		return
	}

	role, _ := s.RoleOf(caller.ID)
	authToken, err := h.tokens.IssueJoinToken(caller.ID, s.SessionID, role)
	if err != nil {
		FromDomainError(c, err)
		return
	}

	Success(c, "Join successful", gin.H{
		"meetingDetails": s.MeetingDetails,
		"authToken":      authToken,
	})
}

// End transitions an in-progress session to completed. Doctor-only.
func (h *VideoHandler) End(c *gin.Context) {
	caller, req, ok := h.bindSessionAction(c)
	if !ok {
		return
	}
	id := domain.SessionID(req.SessionID)

	s, err := h.registry.Get(id)
	if err != nil {
		FromDomainError(c, err)
		return
	}
	if err := h.policy.Authorize(caller, s, app.ActionEnd); err != nil {
		FromDomainError(c, err)
		return
	}

	updated, err := h.registry.Update(id, func(s *domain.Session) error {
		return s.End(time.Now())
	})
	if err != nil {
		FromDomainError(c, err)
		return
	}

	log.Info().Str("module", "http.video").Str("session", string(id)).Str("doctor", string(caller.ID)).Msg("video call ended")
	Success(c, "Video call ended successfully", gin.H{"session": updated})
}

// Cancel drops a still-scheduled session. Doctor-only.
func (h *VideoHandler) Cancel(c *gin.Context) {
	caller, req, ok := h.bindSessionAction(c)
	if !ok {
		return
	}
	id := domain.SessionID(req.SessionID)

	s, err := h.registry.Get(id)
	if err != nil {
		FromDomainError(c, err)
		return
	}
	if err := h.policy.Authorize(caller, s, app.ActionCancel); err != nil {
		FromDomainError(c, err)
		return
	}

	updated, err := h.registry.Update(id, func(s *domain.Session) error {
		return s.Cancel(time.Now())
	})
	if err != nil {
		FromDomainError(c, err)
		return
	}

	Success(c, "Video call cancelled successfully", gin.H{"session": updated})
}

// GetSession returns one session to its doctor or patient.
func (h *VideoHandler) GetSession(c *gin.Context) {
	caller, ok := GetCallerFromContext(c)
	if !ok {
		Unauthorized(c, "Missing caller identity")
		return
	}
	id := domain.SessionID(c.Param("sessionId"))

	s, err := h.registry.Get(id)
	if err != nil {
		FromDomainError(c, err)
		return
	}
	if err := h.policy.Authorize(caller, s, app.ActionRead); err != nil {
		FromDomainError(c, err)
		return
	}

	Success(c, "Session retrieved successfully", gin.H{"session": s})
}

// MySessions lists every session where the caller is doctor or patient.
func (h *VideoHandler) MySessions(c *gin.Context) {
	caller, ok := GetCallerFromContext(c)
	if !ok {
		Unauthorized(c, "Missing caller identity")
		return
	}
	sessions := h.registry.ListByParticipant(caller.ID)
	Success(c, "Sessions retrieved successfully", gin.H{"sessions": sessions})
}

func (h *VideoHandler) bindSessionAction(c *gin.Context) (app.Caller, sessionIDRequest, bool) {
	caller, ok := GetCallerFromContext(c)
	if !ok {
		Unauthorized(c, "Missing caller identity")
		return app.Caller{}, sessionIDRequest{}, false
	}
	var req sessionIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		FromDomainError(c, fmt.Errorf("%w: sessionId is required", domain.ErrInvalidArgument))
		return app.Caller{}, sessionIDRequest{}, false
	}
	return caller, req, true
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// generatePassword builds the short join secret attached to the meeting
// details. It is opaque to this service.
func generatePassword(n int) string {
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			// crypto/rand failing means the platform is broken; fall back
			// to a fixed char rather than abort a call setup.
			out[i] = 'x'
			continue
		}
		out[i] = passwordAlphabet[idx.Int64()]
	}
	return string(out)
}
