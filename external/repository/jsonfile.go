package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lunarlane/punchclock/internal/repository"
)

const storeSchemaVersion = 1

// storeDocument is the whole persisted collection. Older files may omit
// version and the break fields; encoding/json defaults them to zero values,
// which normalize turns into a current-version document.
type storeDocument struct {
	Version  int             `json:"version"`
	Sessions []sessionRecord `json:"sessions"`
}

type sessionRecord struct {
	ID           string `json:"id"`
	GuildID      string `json:"guildId"`
	UserID       string `json:"userId"`
	DepartmentID string `json:"departmentId"`
	ClockIn      int64  `json:"clockIn"`
	ClockOut     *int64 `json:"clockOut"`
	Duration     *int64 `json:"duration"`
	OnBreak      bool   `json:"onBreak"`
	BreakStart   *int64 `json:"breakStart"`
	TotalBreak   int64  `json:"totalBreak"`
	CreatedAt    int64  `json:"createdAt,omitempty"`
	UpdatedAt    int64  `json:"updatedAt,omitempty"`
}

// FileRepository keeps every session in one JSON document and rewrites the
// whole file on each mutation (temp file + rename, so readers never observe
// a partial write). A missing or corrupt file degrades to an empty
// collection instead of failing the caller.
type FileRepository struct {
	path string

	mu  sync.Mutex
	doc storeDocument
}

func NewFileRepository(path string) (repository.Repository, error) {
	r := &FileRepository{path: path}
	doc, err := loadDocument(path)
	if err != nil {
		slog.Error("session store file is unreadable; starting from an empty collection", "error", err, "path", path)
		doc = storeDocument{Version: storeSchemaVersion}
	}
	r.doc = doc
	return r, nil
}

func loadDocument(path string) (storeDocument, error) {
	doc := storeDocument{Version: storeSchemaVersion}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, err
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return storeDocument{Version: storeSchemaVersion}, fmt.Errorf("session store file is corrupt: %w", err)
	}
	doc.normalize()
	return doc, nil
}

// normalize upgrades legacy documents at the load boundary: absent version
// becomes the current one and absent break fields keep their zero defaults.
func (d *storeDocument) normalize() {
	if d.Version == 0 {
		d.Version = storeSchemaVersion
	}
	for i := range d.Sessions {
		rec := &d.Sessions[i]
		if rec.OnBreak && rec.BreakStart == nil {
			rec.OnBreak = false
		}
		if rec.CreatedAt == 0 {
			rec.CreatedAt = rec.ClockIn
		}
		if rec.UpdatedAt == 0 {
			rec.UpdatedAt = rec.CreatedAt
		}
	}
}

// save rewrites the whole document. A write failure is logged for operators
// but not returned: the in-memory mutation already happened and the caller
// still reports its computed result.
func (r *FileRepository) save() {
	b, err := json.MarshalIndent(r.doc, "", "  ")
	if err != nil {
		slog.Error("failed to encode session store", "error", err, "path", r.path)
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		slog.Error("failed to create session store directory", "error", err, "path", r.path)
		return
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		slog.Error("failed to write session store", "error", err, "path", tmp)
		return
	}
	if err := os.Rename(tmp, r.path); err != nil {
		slog.Error("failed to replace session store", "error", err, "path", r.path)
	}
}

func (r *FileRepository) FindActiveSession(_ context.Context, guildID, userID, departmentID string) (*repository.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.doc.Sessions {
		rec := &r.doc.Sessions[i]
		if rec.ClockOut == nil && rec.GuildID == guildID && rec.UserID == userID && rec.DepartmentID == departmentID {
			return recordToSession(rec), nil
		}
	}
	return nil, nil
}

func (r *FileRepository) CreateSession(_ context.Context, input repository.CreateSessionInput) (*repository.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := input.ClockIn.UnixMilli()
	rec := sessionRecord{
		ID:           uuid.NewString(),
		GuildID:      input.GuildID,
		UserID:       input.UserID,
		DepartmentID: input.DepartmentID,
		ClockIn:      input.ClockIn.UnixMilli(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.doc.Sessions = append(r.doc.Sessions, rec)
	r.save()
	return recordToSession(&r.doc.Sessions[len(r.doc.Sessions)-1]), nil
}

func (r *FileRepository) StartBreak(_ context.Context, sessionID string, at time.Time) (*repository.Session, error) {
	return r.mutateOpenSession(sessionID, func(s *repository.Session) error {
		return s.StartBreak(at)
	})
}

func (r *FileRepository) EndBreak(_ context.Context, sessionID string, at time.Time) (*repository.Session, error) {
	return r.mutateOpenSession(sessionID, func(s *repository.Session) error {
		return s.EndBreak(at)
	})
}

func (r *FileRepository) CloseSession(_ context.Context, input repository.CloseSessionInput) (*repository.CloseSessionResult, error) {
	s, err := r.mutateOpenSession(input.SessionID, func(s *repository.Session) error {
		return s.CloseOut(input.ClockOut)
	})
	if err != nil {
		return nil, err
	}
	return &repository.CloseSessionResult{
		Session:    s,
		Worked:     *s.Duration,
		BreakTotal: s.TotalBreak,
	}, nil
}

func (r *FileRepository) mutateOpenSession(sessionID string, mutate func(*repository.Session) error) (*repository.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.doc.Sessions {
		rec := &r.doc.Sessions[i]
		if rec.ID != sessionID || rec.ClockOut != nil {
			continue
		}
		s := recordToSession(rec)
		if err := mutate(s); err != nil {
			return nil, err
		}
		s.UpdatedAt = time.Now()
		*rec = sessionToRecord(s)
		r.save()
		return s, nil
	}
	return nil, repository.ErrSessionNotFound
}

func (r *FileRepository) ListClosedSessions(_ context.Context, filter repository.ClosedSessionFilter) ([]repository.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []repository.Session
	for i := range r.doc.Sessions {
		s := recordToSession(&r.doc.Sessions[i])
		if filter.Matches(s) {
			list = append(list, *s)
		}
	}
	return list, nil
}

func recordToSession(rec *sessionRecord) *repository.Session {
	s := &repository.Session{
		ID:           rec.ID,
		GuildID:      rec.GuildID,
		UserID:       rec.UserID,
		DepartmentID: rec.DepartmentID,
		ClockIn:      time.UnixMilli(rec.ClockIn).UTC(),
		OnBreak:      rec.OnBreak,
		TotalBreak:   time.Duration(rec.TotalBreak) * time.Millisecond,
		CreatedAt:    time.UnixMilli(rec.CreatedAt).UTC(),
		UpdatedAt:    time.UnixMilli(rec.UpdatedAt).UTC(),
	}
	if rec.ClockOut != nil {
		t := time.UnixMilli(*rec.ClockOut).UTC()
		s.ClockOut = &t
	}
	if rec.Duration != nil {
		d := time.Duration(*rec.Duration) * time.Millisecond
		s.Duration = &d
	}
	if rec.BreakStart != nil {
		t := time.UnixMilli(*rec.BreakStart).UTC()
		s.BreakStart = &t
	}
	return s
}

func sessionToRecord(s *repository.Session) sessionRecord {
	rec := sessionRecord{
		ID:           s.ID,
		GuildID:      s.GuildID,
		UserID:       s.UserID,
		DepartmentID: s.DepartmentID,
		ClockIn:      s.ClockIn.UnixMilli(),
		OnBreak:      s.OnBreak,
		TotalBreak:   s.TotalBreak.Milliseconds(),
		CreatedAt:    s.CreatedAt.UnixMilli(),
		UpdatedAt:    s.UpdatedAt.UnixMilli(),
	}
	if s.ClockOut != nil {
		ms := s.ClockOut.UnixMilli()
		rec.ClockOut = &ms
	}
	if s.Duration != nil {
		ms := s.Duration.Milliseconds()
		rec.Duration = &ms
	}
	if s.BreakStart != nil {
		ms := s.BreakStart.UnixMilli()
		rec.BreakStart = &ms
	}
	return rec
}
