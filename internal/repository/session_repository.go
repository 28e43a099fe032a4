package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"focustracker/internal/model"
)

type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
	loc *time.Location
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now, loc: time.Local}
}

// WithClock overrides the clock and the zone used to bucket sessions by day.
func (r *SessionRepository) WithClock(now func() time.Time, loc *time.Location) *SessionRepository {
	if now != nil {
		r.now = now
	}
	if loc != nil {
		r.loc = loc
	}
	return r
}

// RecordSession stores one completed work segment. The category is stored as
// a literal name and is not required to exist in categories.
func (r *SessionRepository) RecordSession(ctx context.Context, category string, durationSeconds, distractions int) error {
	completedAt := r.now()
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO sessions (id, category, duration_seconds, distractions, completed_at, day)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		category,
		durationSeconds,
		distractions,
		formatTime(completedAt),
		formatDay(completedAt, r.loc),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// AggregateTotals sums sessions completed at or after since. A zero since
// covers all history.
func (r *SessionRepository) AggregateTotals(ctx context.Context, since time.Time) (model.Totals, error) {
	var totals model.Totals
	err := r.db.QueryRowContext(
		ctx,
		`SELECT COALESCE(SUM(duration_seconds), 0), COALESCE(SUM(distractions), 0), COUNT(1)
		 FROM sessions
		 WHERE completed_at >= ?`,
		sinceBound(since),
	).Scan(&totals.TotalDurationSeconds, &totals.TotalDistractions, &totals.TotalSessions)
	if err != nil {
		return model.Totals{}, fmt.Errorf("aggregate totals: %w", err)
	}
	return totals, nil
}

// AggregateToday returns the focused seconds for the local day containing now.
func (r *SessionRepository) AggregateToday(ctx context.Context, now time.Time) (int, error) {
	var total int
	err := r.db.QueryRowContext(
		ctx,
		`SELECT COALESCE(SUM(duration_seconds), 0) FROM sessions WHERE day = ?`,
		formatDay(now, r.loc),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("aggregate today: %w", err)
	}
	return total, nil
}

// AggregateByCategory returns per-category totals, largest first. Categories
// that were deleted after recording keep their totals with an empty color.
func (r *SessionRepository) AggregateByCategory(ctx context.Context, since time.Time) ([]model.CategoryTotal, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT s.category, SUM(s.duration_seconds) AS total, COALESCE(c.color, '')
		 FROM sessions s
		 LEFT JOIN categories c ON c.name = s.category
		 WHERE s.completed_at >= ?
		 GROUP BY s.category
		 ORDER BY total DESC, s.category ASC`,
		sinceBound(since),
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate by category: %w", err)
	}
	defer rows.Close()

	totals := []model.CategoryTotal{}
	for rows.Next() {
		var total model.CategoryTotal
		if err := rows.Scan(&total.Name, &total.TotalDurationSeconds, &total.Color); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	return totals, nil
}

// AggregateLastNDays returns one entry per local day, oldest first, ending
// with the day containing now. Days without sessions are reported as zero.
func (r *SessionRepository) AggregateLastNDays(ctx context.Context, now time.Time, n int) ([]model.DailyTotal, error) {
	if n <= 0 {
		return []model.DailyTotal{}, nil
	}

	today := startOfDay(now, r.loc)
	first := today.AddDate(0, 0, -(n - 1))

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT day, SUM(duration_seconds)
		 FROM sessions
		 WHERE day >= ? AND day <= ?
		 GROUP BY day`,
		first.Format(dayLayout),
		today.Format(dayLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate daily totals: %w", err)
	}
	defer rows.Close()

	byDay := make(map[string]int, n)
	for rows.Next() {
		var day string
		var total int
		if err := rows.Scan(&day, &total); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		byDay[day] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily totals: %w", err)
	}

	days := make([]model.DailyTotal, 0, n)
	for i := 0; i < n; i++ {
		day := first.AddDate(0, 0, i)
		days = append(days, model.DailyTotal{
			Date:                 day,
			TotalDurationSeconds: byDay[day.Format(dayLayout)],
		})
	}
	return days, nil
}

func (r *SessionRepository) ListSessions(ctx context.Context, limit int) ([]model.FocusSession, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, category, duration_seconds, distractions, completed_at
		 FROM sessions
		 ORDER BY completed_at DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.FocusSession, 0, limit)
	for rows.Next() {
		session, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(s scanner) (*model.FocusSession, error) {
	session := model.FocusSession{}
	var completedAt string
	err := s.Scan(
		&session.ID,
		&session.Category,
		&session.DurationSeconds,
		&session.Distractions,
		&completedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	parsed, err := parseTime(completedAt)
	if err != nil {
		return nil, fmt.Errorf("parse session completed_at: %w", err)
	}
	session.CompletedAt = parsed
	return &session, nil
}

func sinceBound(since time.Time) string {
	if since.IsZero() {
		return ""
	}
	return formatTime(since)
}
