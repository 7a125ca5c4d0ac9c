package repository

import (
	"errors"
	"testing"
	"time"
)

func openSession(clockIn time.Time) *Session {
	return &Session{
		ID:           "sess-1",
		GuildID:      "guild-1",
		UserID:       "user-1",
		DepartmentID: "dept-1",
		ClockIn:      clockIn,
	}
}

func TestSession_BreakThenClose(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := openSession(t0)

	if err := s.StartBreak(t0.Add(1 * time.Second)); err != nil {
		t.Fatalf("start break: %v", err)
	}
	if !s.OnBreak || s.BreakStart == nil {
		t.Fatal("session must be on break with a break start")
	}
	if err := s.EndBreak(t0.Add(4 * time.Second)); err != nil {
		t.Fatalf("end break: %v", err)
	}
	if s.OnBreak || s.BreakStart != nil {
		t.Fatal("break end must clear break state")
	}
	if s.TotalBreak != 3*time.Second {
		t.Fatalf("total break = %v, want 3s", s.TotalBreak)
	}

	if err := s.CloseOut(t0.Add(10 * time.Second)); err != nil {
		t.Fatalf("close: %v", err)
	}
	if s.Duration == nil || *s.Duration != 7*time.Second {
		t.Fatalf("duration = %v, want 7s", s.Duration)
	}
}

func TestSession_CloseEndsRunningBreak(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := openSession(t0)
	if err := s.StartBreak(t0.Add(2 * time.Second)); err != nil {
		t.Fatalf("start break: %v", err)
	}
	if err := s.CloseOut(t0.Add(10 * time.Second)); err != nil {
		t.Fatalf("close: %v", err)
	}
	if s.OnBreak || s.BreakStart != nil {
		t.Fatal("close must force the break to end")
	}
	if s.TotalBreak != 8*time.Second {
		t.Fatalf("total break = %v, want 8s", s.TotalBreak)
	}
	if *s.Duration != 2*time.Second {
		t.Fatalf("duration = %v, want 2s", *s.Duration)
	}
}

func TestSession_DurationFloorsAtZero(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := openSession(t0)
	s.TotalBreak = time.Hour
	if err := s.CloseOut(t0.Add(10 * time.Minute)); err != nil {
		t.Fatalf("close: %v", err)
	}
	if *s.Duration != 0 {
		t.Fatalf("duration = %v, want 0", *s.Duration)
	}
}

func TestSession_WorkedPlusBreakAccountsForElapsed(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := openSession(t0)
	_ = s.StartBreak(t0.Add(1 * time.Minute))
	_ = s.EndBreak(t0.Add(21 * time.Minute))
	if err := s.CloseOut(t0.Add(60 * time.Minute)); err != nil {
		t.Fatalf("close: %v", err)
	}
	elapsed := s.ClockOut.Sub(s.ClockIn)
	floored := elapsed - *s.Duration - s.TotalBreak
	if floored != 0 {
		t.Fatalf("worked + break must equal elapsed when nothing floors, off by %v", floored)
	}
}

func TestSession_InvalidTransitions(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := openSession(t0)

	if err := s.EndBreak(t0.Add(time.Second)); !errors.Is(err, ErrNotOnBreak) {
		t.Fatalf("end break without break = %v, want ErrNotOnBreak", err)
	}
	if err := s.StartBreak(t0.Add(time.Second)); err != nil {
		t.Fatalf("start break: %v", err)
	}
	if err := s.StartBreak(t0.Add(2 * time.Second)); !errors.Is(err, ErrAlreadyOnBreak) {
		t.Fatalf("double break start = %v, want ErrAlreadyOnBreak", err)
	}
	if err := s.CloseOut(t0.Add(3 * time.Second)); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.CloseOut(t0.Add(4 * time.Second)); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("double close = %v, want ErrSessionClosed", err)
	}
	if err := s.StartBreak(t0.Add(4 * time.Second)); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("break after close = %v, want ErrSessionClosed", err)
	}
}
