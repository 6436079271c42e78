// Package domain contains the entities of the video-call core and their
// transition rules. No transport or storage logic lives here.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type (
	SessionID string
	UserID    string
)

type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// SessionStatus is the lifecycle state of a video consultation.
type SessionStatus string

const (
	StatusScheduled  SessionStatus = "scheduled"
	StatusInProgress SessionStatus = "in-progress"
	StatusCompleted  SessionStatus = "completed"
	StatusCancelled  SessionStatus = "cancelled"
)

// MeetingDetails are generated when a session starts and handed to
// participants on join. The password is opaque to this service.
type MeetingDetails struct {
	MeetingID string `json:"meetingId"`
	Password  string `json:"password"`
	JoinURL   string `json:"joinUrl"`
}

// Session is the business record of one scheduled, active or past video
// consultation between a doctor and a patient. DoctorID and PatientID are
// fixed at creation and never change.
type Session struct {
	SessionID       SessionID       `json:"sessionId"`
	AppointmentID   string          `json:"appointmentId"`
	DoctorID        UserID          `json:"doctorId"`
	PatientID       UserID          `json:"patientId"`
	ScheduledTime   time.Time       `json:"scheduledTime"`
	DurationMinutes int             `json:"duration"`
	Status          SessionStatus   `json:"status"`
	MeetingDetails  *MeetingDetails `json:"meetingDetails,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	StartedAt       *time.Time      `json:"startedAt,omitempty"`
	EndedAt         *time.Time      `json:"endedAt,omitempty"`
}

// NewSession creates a session in the scheduled state. It validates the
// fields a caller could get wrong; authorization is not its concern.
func NewSession(appointmentID string, doctorID, patientID UserID, scheduledTime time.Time, durationMinutes int) (*Session, error) {
	if appointmentID == "" || doctorID == "" || patientID == "" || scheduledTime.IsZero() {
		return nil, fmt.Errorf("%w: missing required fields", ErrInvalidArgument)
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidArgument)
	}
	now := time.Now()
	return &Session{
		SessionID:       SessionID(uuid.NewString()),
		AppointmentID:   appointmentID,
		DoctorID:        doctorID,
		PatientID:       patientID,
		ScheduledTime:   scheduledTime,
		DurationMinutes: durationMinutes,
		Status:          StatusScheduled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// IsParticipant reports whether the given user is the session's doctor or
// patient.
func (s *Session) IsParticipant(id UserID) bool {
	return s.DoctorID == id || s.PatientID == id
}

// RoleOf returns the session-scoped role of a participant.
func (s *Session) RoleOf(id UserID) (Role, bool) {
	switch id {
	case s.DoctorID:
		return RoleDoctor, true
	case s.PatientID:
		return RolePatient, true
	}
	return "", false
}

// Start transitions scheduled -> in-progress, attaching meeting details and
// stamping StartedAt. A second Start fails with ErrInvalidState; the session
// stays in-progress.
func (s *Session) Start(details MeetingDetails, now time.Time) error {
	if s.Status != StatusScheduled {
		return fmt.Errorf("%w: cannot start session in status %q", ErrInvalidState, s.Status)
	}
	s.Status = StatusInProgress
	s.MeetingDetails = &details
	s.StartedAt = &now
	s.UpdatedAt = now
	return nil
}

// End transitions in-progress -> completed and stamps EndedAt. Ending twice
// fails with ErrInvalidState.
func (s *Session) End(now time.Time) error {
	if s.Status != StatusInProgress {
		return fmt.Errorf("%w: cannot end session in status %q", ErrInvalidState, s.Status)
	}
	s.Status = StatusCompleted
	s.EndedAt = &now
	s.UpdatedAt = now
	return nil
}

// Cancel transitions scheduled -> cancelled. Sessions already started or
// finished cannot be cancelled.
func (s *Session) Cancel(now time.Time) error {
	if s.Status != StatusScheduled {
		return fmt.Errorf("%w: cannot cancel session in status %q", ErrInvalidState, s.Status)
	}
	s.Status = StatusCancelled
	s.UpdatedAt = now
	return nil
}

// Joinable reports whether participants may currently request join
// credentials. Only an in-progress session is joinable.
func (s *Session) Joinable() bool {
	return s.Status == StatusInProgress
}

// Clone returns a copy safe to hand outside the registry lock.
func (s *Session) Clone() *Session {
	out := *s
	if s.MeetingDetails != nil {
		md := *s.MeetingDetails
		out.MeetingDetails = &md
	}
	if s.StartedAt != nil {
		t := *s.StartedAt
		out.StartedAt = &t
	}
	if s.EndedAt != nil {
		t := *s.EndedAt
		out.EndedAt = &t
	}
	return &out
}
