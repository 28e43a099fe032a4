package service

import (
	"context"
	"log/slog"
	"time"

	apperrors "focustracker/internal/errors"
	"focustracker/internal/model"
	"focustracker/internal/repository"
)

type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"

	DefaultActivityDays = 7
	MaxActivityDays     = 90
)

type ReportService struct {
	sessions *repository.SessionRepository
	now      func() time.Time
	loc      *time.Location
	logger   *slog.Logger
}

type Summary struct {
	Period                 Period                `json:"period"`
	Since                  *time.Time            `json:"since,omitempty"`
	TotalDurationSeconds   int                   `json:"totalDurationSeconds"`
	TotalDistractions      int                   `json:"totalDistractions"`
	TotalSessions          int                   `json:"totalSessions"`
	AverageSessionSeconds  float64               `json:"averageSessionSeconds"`
	TodayDurationSeconds   int                   `json:"todayDurationSeconds"`
	MostProductiveCategory string                `json:"mostProductiveCategory,omitempty"`
	Categories             []model.CategoryTotal `json:"categories"`
}

func NewReportService(sessions *repository.SessionRepository, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{sessions: sessions, now: time.Now, loc: time.Local, logger: logger}
}

// WithClock overrides the clock and zone used to resolve periods and days.
func (s *ReportService) WithClock(now func() time.Time, loc *time.Location) *ReportService {
	if now != nil {
		s.now = now
	}
	if loc != nil {
		s.loc = loc
	}
	return s
}

func ParsePeriod(raw string) (Period, bool) {
	switch Period(raw) {
	case "", PeriodWeek:
		return PeriodWeek, true
	case PeriodMonth:
		return PeriodMonth, true
	case PeriodAll:
		return PeriodAll, true
	default:
		return "", false
	}
}

// PeriodStart returns the first instant covered by period, counted from
// local midnight. PeriodAll returns the zero time.
func PeriodStart(period Period, now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	switch period {
	case PeriodWeek:
		return today.AddDate(0, 0, -7)
	case PeriodMonth:
		return today.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}

func (s *ReportService) Summary(ctx context.Context, rawPeriod string) (*Summary, *apperrors.APIError) {
	period, ok := ParsePeriod(rawPeriod)
	if !ok {
		return nil, apperrors.BadRequest("invalid_period", "period must be week, month or all")
	}

	now := s.now()
	since := PeriodStart(period, now, s.loc)

	totals, err := s.sessions.AggregateTotals(ctx, since)
	if err != nil {
		s.logger.Error("aggregate totals", "period", period, "error", err)
		return nil, apperrors.Internal("failed to build report")
	}
	today, err := s.sessions.AggregateToday(ctx, now)
	if err != nil {
		s.logger.Error("aggregate today", "error", err)
		return nil, apperrors.Internal("failed to build report")
	}
	categories, err := s.sessions.AggregateByCategory(ctx, since)
	if err != nil {
		s.logger.Error("aggregate by category", "period", period, "error", err)
		return nil, apperrors.Internal("failed to build report")
	}

	for i := range categories {
		if categories[i].Color == "" {
			categories[i].Color = Palette[i%len(Palette)]
		}
	}

	summary := &Summary{
		Period:               period,
		TotalDurationSeconds: totals.TotalDurationSeconds,
		TotalDistractions:    totals.TotalDistractions,
		TotalSessions:        totals.TotalSessions,
		TodayDurationSeconds: today,
		Categories:           categories,
	}
	if !since.IsZero() {
		summary.Since = &since
	}
	if totals.TotalSessions > 0 {
		summary.AverageSessionSeconds = float64(totals.TotalDurationSeconds) / float64(totals.TotalSessions)
	}
	if len(categories) > 0 {
		summary.MostProductiveCategory = categories[0].Name
	}
	return summary, nil
}

func (s *ReportService) Daily(ctx context.Context, days int) ([]model.DailyTotal, *apperrors.APIError) {
	if days == 0 {
		days = DefaultActivityDays
	}
	if days < 1 || days > MaxActivityDays {
		return nil, apperrors.BadRequest("invalid_days", "days must be between 1 and 90")
	}

	totals, err := s.sessions.AggregateLastNDays(ctx, s.now(), days)
	if err != nil {
		s.logger.Error("aggregate daily totals", "days", days, "error", err)
		return nil, apperrors.Internal("failed to build report")
	}
	return totals, nil
}

func (s *ReportService) Recent(ctx context.Context, limit int) ([]model.FocusSession, *apperrors.APIError) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	sessions, err := s.sessions.ListSessions(ctx, limit)
	if err != nil {
		s.logger.Error("list sessions", "error", err)
		return nil, apperrors.Internal("failed to list sessions")
	}
	return sessions, nil
}
