package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lunarlane/punchclock/internal/repository"
)

const sessionColumns = `id, guild_id, user_id, department_id, clock_in, clock_out,
	duration_ms, on_break, break_start, total_break_ms, created_at, updated_at`

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) FindActiveSession(ctx context.Context, guildID, userID, departmentID string) (*repository.Session, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM shift_sessions
		 WHERE guild_id = $1 AND user_id = $2 AND department_id = $3 AND clock_out IS NULL
		 LIMIT 1`,
		guildID, userID, departmentID)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) CreateSession(ctx context.Context, input repository.CreateSessionInput) (*repository.Session, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO shift_sessions (guild_id, user_id, department_id, clock_in)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+sessionColumns,
		input.GuildID, input.UserID, input.DepartmentID, input.ClockIn)
	return scanSession(row)
}

func (r *PostgresRepository) StartBreak(ctx context.Context, sessionID string, at time.Time) (*repository.Session, error) {
	return r.mutateOpenSession(ctx, sessionID, func(s *repository.Session) error {
		return s.StartBreak(at)
	})
}

func (r *PostgresRepository) EndBreak(ctx context.Context, sessionID string, at time.Time) (*repository.Session, error) {
	return r.mutateOpenSession(ctx, sessionID, func(s *repository.Session) error {
		return s.EndBreak(at)
	})
}

func (r *PostgresRepository) CloseSession(ctx context.Context, input repository.CloseSessionInput) (*repository.CloseSessionResult, error) {
	s, err := r.mutateOpenSession(ctx, input.SessionID, func(s *repository.Session) error {
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

// mutateOpenSession loads the open session under a row lock, applies the
// model mutation, and writes the full break/close state back.
func (r *PostgresRepository) mutateOpenSession(ctx context.Context, sessionID string, mutate func(*repository.Session) error) (*repository.Session, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	row := tx.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM shift_sessions
		 WHERE id = $1 AND clock_out IS NULL
		 FOR UPDATE`,
		sessionID)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrSessionNotFound
		}
		return nil, err
	}
	if err := mutate(s); err != nil {
		return nil, err
	}

	var durationMS *int64
	if s.Duration != nil {
		ms := s.Duration.Milliseconds()
		durationMS = &ms
	}
	_, err = tx.Exec(ctx,
		`UPDATE shift_sessions
		 SET clock_out = $2, duration_ms = $3, on_break = $4, break_start = $5,
		     total_break_ms = $6, updated_at = NOW()
		 WHERE id = $1`,
		s.ID, s.ClockOut, durationMS, s.OnBreak, s.BreakStart, s.TotalBreak.Milliseconds())
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) ListClosedSessions(ctx context.Context, filter repository.ClosedSessionFilter) ([]repository.Session, error) {
	query := `SELECT ` + sessionColumns + `
		 FROM shift_sessions
		 WHERE guild_id = $1 AND clock_out IS NOT NULL`
	args := []any{filter.GuildID}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += ` AND user_id = $` + strconv.Itoa(len(args))
	}
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		query += ` AND department_id = $` + strconv.Itoa(len(args))
	}
	if filter.ClosedAtOrAfter != nil {
		args = append(args, *filter.ClosedAtOrAfter)
		query += ` AND clock_out >= $` + strconv.Itoa(len(args))
	}
	if filter.ClosedBefore != nil {
		args = append(args, *filter.ClosedBefore)
		query += ` AND clock_out < $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY clock_out ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

func scanSession(row pgx.Row) (*repository.Session, error) {
	var (
		s            repository.Session
		durationMS   *int64
		totalBreakMS int64
	)
	err := row.Scan(&s.ID, &s.GuildID, &s.UserID, &s.DepartmentID, &s.ClockIn, &s.ClockOut,
		&durationMS, &s.OnBreak, &s.BreakStart, &totalBreakMS, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if durationMS != nil {
		d := time.Duration(*durationMS) * time.Millisecond
		s.Duration = &d
	}
	s.TotalBreak = time.Duration(totalBreakMS) * time.Millisecond
	return &s, nil
}
