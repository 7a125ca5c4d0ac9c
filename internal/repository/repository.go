package repository

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned by mutations that reference a session id
// with no matching open session. Callers treat it as a data-consistency
// error, never as a successful close.
var ErrSessionNotFound = errors.New("no open session with that id")

type CreateSessionInput struct {
	GuildID      string
	UserID       string
	DepartmentID string
	ClockIn      time.Time
}

type CloseSessionInput struct {
	SessionID string
	ClockOut  time.Time
}

// CloseSessionResult reports the final accounting of a closed session.
type CloseSessionResult struct {
	Session    *Session
	Worked     time.Duration
	BreakTotal time.Duration
}

// ClosedSessionFilter narrows ListClosedSessions. GuildID is required;
// UserID and DepartmentID are optional exact matches. When both window
// bounds are set the filter keeps sessions whose ClockOut lies in the
// half-open window [ClosedAtOrAfter, ClosedBefore).
type ClosedSessionFilter struct {
	GuildID         string
	UserID          string
	DepartmentID    string
	ClosedAtOrAfter *time.Time
	ClosedBefore    *time.Time
}

// Matches reports whether a closed session passes the filter. Shared by
// store implementations that filter in memory.
func (f ClosedSessionFilter) Matches(s *Session) bool {
	if s.ClockOut == nil || s.Duration == nil {
		return false
	}
	if s.GuildID != f.GuildID {
		return false
	}
	if f.UserID != "" && s.UserID != f.UserID {
		return false
	}
	if f.DepartmentID != "" && s.DepartmentID != f.DepartmentID {
		return false
	}
	if f.ClosedAtOrAfter != nil && s.ClockOut.Before(*f.ClosedAtOrAfter) {
		return false
	}
	if f.ClosedBefore != nil && !s.ClockOut.Before(*f.ClosedBefore) {
		return false
	}
	return true
}

// SessionRepository is the authoritative store of work sessions. At most
// one session per (guild, user, department) may be active at any time;
// FindActiveSession returning nil, nil is the precondition callers check
// before CreateSession.
type SessionRepository interface {
	FindActiveSession(ctx context.Context, guildID, userID, departmentID string) (*Session, error)
	CreateSession(ctx context.Context, input CreateSessionInput) (*Session, error)
	StartBreak(ctx context.Context, sessionID string, at time.Time) (*Session, error)
	EndBreak(ctx context.Context, sessionID string, at time.Time) (*Session, error)
	CloseSession(ctx context.Context, input CloseSessionInput) (*CloseSessionResult, error)
}

// SessionReader serves aggregation queries over closed sessions only.
type SessionReader interface {
	ListClosedSessions(ctx context.Context, filter ClosedSessionFilter) ([]Session, error)
}

type Repository interface {
	SessionRepository
	SessionReader
}
