package aggregate

import (
	"context"
	"sort"
	"time"

	"github.com/lunarlane/punchclock/internal/repository"
	"github.com/lunarlane/punchclock/internal/timeutil"
)

// Engine computes worked-hour totals over closed sessions. Windows are
// half-open [start, end) and bucket sessions by the period in which they
// ended, so all windowing keys off ClockOut.
type Engine struct {
	reader repository.SessionReader
}

func NewEngine(reader repository.SessionReader) *Engine {
	return &Engine{reader: reader}
}

// UserTotal is one row of a department breakdown.
type UserTotal struct {
	UserID string
	Total  time.Duration
}

func (e *Engine) UserTotalAllTime(ctx context.Context, guildID, userID string) (time.Duration, error) {
	return e.sum(ctx, repository.ClosedSessionFilter{GuildID: guildID, UserID: userID})
}

func (e *Engine) UserTotalInRange(ctx context.Context, guildID, userID string, r timeutil.Range) (time.Duration, error) {
	return e.sum(ctx, repository.ClosedSessionFilter{
		GuildID:         guildID,
		UserID:          userID,
		ClosedAtOrAfter: &r.Start,
		ClosedBefore:    &r.End,
	})
}

func (e *Engine) DepartmentTotalInRange(ctx context.Context, guildID, departmentID string, r timeutil.Range) (time.Duration, error) {
	return e.sum(ctx, repository.ClosedSessionFilter{
		GuildID:         guildID,
		DepartmentID:    departmentID,
		ClosedAtOrAfter: &r.Start,
		ClosedBefore:    &r.End,
	})
}

// DepartmentTotalsByUser returns per-user totals for a department within the
// window, sorted descending by total. Ties order by user id so repeated
// queries return the same sequence.
func (e *Engine) DepartmentTotalsByUser(ctx context.Context, guildID, departmentID string, r timeutil.Range) ([]UserTotal, error) {
	sessions, err := e.reader.ListClosedSessions(ctx, repository.ClosedSessionFilter{
		GuildID:         guildID,
		DepartmentID:    departmentID,
		ClosedAtOrAfter: &r.Start,
		ClosedBefore:    &r.End,
	})
	if err != nil {
		return nil, err
	}
	byUser := make(map[string]time.Duration)
	for i := range sessions {
		byUser[sessions[i].UserID] += *sessions[i].Duration
	}
	totals := make([]UserTotal, 0, len(byUser))
	for userID, total := range byUser {
		totals = append(totals, UserTotal{UserID: userID, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total != totals[j].Total {
			return totals[i].Total > totals[j].Total
		}
		return totals[i].UserID < totals[j].UserID
	})
	return totals, nil
}

func (e *Engine) sum(ctx context.Context, filter repository.ClosedSessionFilter) (time.Duration, error) {
	sessions, err := e.reader.ListClosedSessions(ctx, filter)
	if err != nil {
		return 0, err
	}
	var total time.Duration
	for i := range sessions {
		total += *sessions[i].Duration
	}
	return total, nil
}
