package repository

import (
	"errors"
	"time"
)

var (
	ErrSessionClosed  = errors.New("session is already closed")
	ErrAlreadyOnBreak = errors.New("session is already on break")
	ErrNotOnBreak     = errors.New("session is not on break")
)

// Session is one continuous work engagement for a user in a department
// within a guild. A session with a nil ClockOut is active; Duration is set
// exactly once, at close.
type Session struct {
	ID           string
	GuildID      string
	UserID       string
	DepartmentID string
	ClockIn      time.Time
	ClockOut     *time.Time
	Duration     *time.Duration
	OnBreak      bool
	BreakStart   *time.Time
	TotalBreak   time.Duration
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s *Session) IsActive() bool {
	return s.ClockOut == nil
}

// StartBreak marks the session as paused at the given instant.
func (s *Session) StartBreak(at time.Time) error {
	if !s.IsActive() {
		return ErrSessionClosed
	}
	if s.OnBreak {
		return ErrAlreadyOnBreak
	}
	s.OnBreak = true
	s.BreakStart = &at
	return nil
}

// EndBreak folds the current break into TotalBreak. Breaks never shrink
// TotalBreak: a non-positive span contributes nothing.
func (s *Session) EndBreak(at time.Time) error {
	if !s.IsActive() {
		return ErrSessionClosed
	}
	if !s.OnBreak || s.BreakStart == nil {
		return ErrNotOnBreak
	}
	if span := at.Sub(*s.BreakStart); span > 0 {
		s.TotalBreak += span
	}
	s.OnBreak = false
	s.BreakStart = nil
	return nil
}

// CloseOut ends the session at the given instant. A break still in progress
// is ended first and folded into TotalBreak. The worked duration is
// clockOut - clockIn - totalBreak, floored at zero.
func (s *Session) CloseOut(at time.Time) error {
	if !s.IsActive() {
		return ErrSessionClosed
	}
	if s.OnBreak {
		if err := s.EndBreak(at); err != nil {
			return err
		}
	}
	worked := at.Sub(s.ClockIn) - s.TotalBreak
	if worked < 0 {
		worked = 0
	}
	s.ClockOut = &at
	s.Duration = &worked
	return nil
}
