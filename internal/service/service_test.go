package service

import (
	"context"
	"database/sql"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"focustracker/internal/db"
	"focustracker/internal/focus"
	"focustracker/internal/lifecycle"
	"focustracker/internal/model"
	"focustracker/internal/repository"
	"focustracker/internal/settings"
	"focustracker/internal/ticker"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "focus.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	if err := db.Migrate(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database
}

func TestNormalizeCategoryName(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "  Deep Work  ", want: "Deep Work"},
		{raw: "   ", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "abcdefghijklmnopqrstuvwxyz1234", want: "abcdefghijklmnopqrstuvwxyz1234"},
		{raw: "abcdefghijklmnopqrstuvwxyz12345", wantErr: true},
		{raw: "çalışma", want: "çalışma"},
	}
	for _, tt := range tests {
		got, err := NormalizeCategoryName(tt.raw)
		if tt.wantErr {
			if err != ErrInvalidCategoryName {
				t.Fatalf("%q: expected ErrInvalidCategoryName, got %v", tt.raw, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("%q: expected %q, got %q (%v)", tt.raw, tt.want, got, err)
		}
	}
}

func TestCategoryServicePolicy(t *testing.T) {
	ctx := context.Background()
	categories := NewCategoryService(repository.NewCategoryRepository(newTestDB(t)), nil)

	created, apiErr := categories.Create(ctx, "  Writing ", "")
	if apiErr != nil {
		t.Fatalf("create: %+v", apiErr)
	}
	if created.Name != "Writing" || created.Color != Palette[4] {
		t.Fatalf("unexpected category: %+v", created)
	}

	if _, apiErr := categories.Create(ctx, "Writing", ""); apiErr == nil || apiErr.Status != http.StatusConflict {
		t.Fatalf("expected duplicate conflict, got %+v", apiErr)
	}
	if _, apiErr := categories.Create(ctx, " ", ""); apiErr == nil || apiErr.Code != "invalid_category_name" {
		t.Fatalf("expected invalid name, got %+v", apiErr)
	}

	updated, apiErr := categories.Update(ctx, created.ID, "Essays", "")
	if apiErr != nil {
		t.Fatalf("update: %+v", apiErr)
	}
	if updated.Color != created.Color {
		t.Fatalf("expected color kept, got %s", updated.Color)
	}
	if _, apiErr := categories.Update(ctx, 999, "Nope", ""); apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected not found, got %+v", apiErr)
	}

	list, apiErr := categories.List(ctx)
	if apiErr != nil {
		t.Fatalf("list: %+v", apiErr)
	}
	for _, category := range list[:len(list)-1] {
		if apiErr := categories.Delete(ctx, category.ID); apiErr != nil {
			t.Fatalf("delete %s: %+v", category.Name, apiErr)
		}
	}

	last := list[len(list)-1]
	if apiErr := categories.Delete(ctx, last.ID); apiErr == nil || apiErr.Code != "last_category" {
		t.Fatalf("expected last_category, got %+v", apiErr)
	}
	if apiErr := categories.Delete(ctx, 12345); apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected not found, got %+v", apiErr)
	}
}

func TestReportServiceSummary(t *testing.T) {
	ctx := context.Background()
	loc := time.UTC
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, loc)
	recordedAt := now

	database := newTestDB(t)
	sessions := repository.NewSessionRepository(database).WithClock(func() time.Time { return recordedAt }, loc)
	reports := NewReportService(sessions, nil).WithClock(func() time.Time { return now }, loc)

	for _, rec := range []struct {
		at       time.Time
		category string
		seconds  int
	}{
		{now.AddDate(0, 0, -20), "Reading", 3000},
		{now.AddDate(0, 0, -3), "Coding", 1500},
		{now.AddDate(0, 0, -3), "Archived", 600},
		{now.Add(-time.Hour), "Coding", 1500},
	} {
		recordedAt = rec.at
		if err := sessions.RecordSession(ctx, rec.category, rec.seconds, 1); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	week, apiErr := reports.Summary(ctx, "week")
	if apiErr != nil {
		t.Fatalf("week summary: %+v", apiErr)
	}
	if week.TotalSessions != 3 || week.TotalDurationSeconds != 3600 || week.TotalDistractions != 3 {
		t.Fatalf("unexpected week summary: %+v", week)
	}
	if week.AverageSessionSeconds != 1200 || week.TodayDurationSeconds != 1500 {
		t.Fatalf("unexpected averages: %+v", week)
	}
	if week.MostProductiveCategory != "Coding" {
		t.Fatalf("expected Coding, got %s", week.MostProductiveCategory)
	}
	if week.Since == nil || !week.Since.Equal(time.Date(2026, 5, 13, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected since: %v", week.Since)
	}
	for _, category := range week.Categories {
		if category.Color == "" {
			t.Fatalf("expected palette color for %s", category.Name)
		}
	}

	month, apiErr := reports.Summary(ctx, "month")
	if apiErr != nil {
		t.Fatalf("month summary: %+v", apiErr)
	}
	if month.TotalSessions != 4 || month.MostProductiveCategory != "Coding" {
		t.Fatalf("unexpected month summary: %+v", month)
	}

	all, apiErr := reports.Summary(ctx, "all")
	if apiErr != nil {
		t.Fatalf("all summary: %+v", apiErr)
	}
	if all.Since != nil || all.TotalSessions != 4 {
		t.Fatalf("unexpected all summary: %+v", all)
	}

	if _, apiErr := reports.Summary(ctx, "year"); apiErr == nil || apiErr.Code != "invalid_period" {
		t.Fatalf("expected invalid_period, got %+v", apiErr)
	}

	days, apiErr := reports.Daily(ctx, 0)
	if apiErr != nil {
		t.Fatalf("daily: %+v", apiErr)
	}
	if len(days) != DefaultActivityDays || days[3].TotalDurationSeconds != 2100 || days[6].TotalDurationSeconds != 1500 {
		t.Fatalf("unexpected daily totals: %+v", days)
	}
	if _, apiErr := reports.Daily(ctx, 91); apiErr == nil {
		t.Fatal("expected invalid days")
	}
}

func TestReportServiceEmpty(t *testing.T) {
	reports := NewReportService(repository.NewSessionRepository(newTestDB(t)), nil)
	summary, apiErr := reports.Summary(context.Background(), "")
	if apiErr != nil {
		t.Fatalf("summary: %+v", apiErr)
	}
	if summary.Period != PeriodWeek || summary.AverageSessionSeconds != 0 || summary.MostProductiveCategory != "" {
		t.Fatalf("unexpected empty summary: %+v", summary)
	}
	if summary.Categories == nil {
		t.Fatal("expected empty categories slice, not nil")
	}
}

type timerFixture struct {
	service    *TimerService
	categories *CategoryService
	machine    *focus.Machine
	ticker     *ticker.Manual
	sessions   *repository.SessionRepository
	path       string
}

func newTimerFixture(t *testing.T, workSeconds int) timerFixture {
	t.Helper()
	database := newTestDB(t)
	sessions := repository.NewSessionRepository(database)
	manual := ticker.NewManual()

	cfg := model.DefaultSessionConfig()
	cfg.WorkDurationSeconds = workSeconds
	cfg.ShortBreakDurationSeconds = 2
	machine := focus.New(cfg, focus.Options{
		Ticker:   manual,
		Recorder: focus.NewRecorder(sessions, nil),
	})
	t.Cleanup(machine.Close)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	categories := NewCategoryService(repository.NewCategoryRepository(database), nil)
	service := NewTimerService(TimerServiceOptions{
		Machine:      machine,
		Monitor:      lifecycle.NewMonitor(machine, nil),
		Categories:   categories,
		Settings:     settings.Default(),
		SettingsPath: path,
	})
	return timerFixture{service: service, categories: categories, machine: machine, ticker: manual, sessions: sessions, path: path}
}

func TestTimerServiceRecordsCompletedWork(t *testing.T) {
	ctx := context.Background()
	fx := newTimerFixture(t, 3)

	if _, apiErr := fx.service.Toggle(); apiErr == nil || apiErr.Code != "missing_category" || apiErr.Status != http.StatusUnprocessableEntity {
		t.Fatalf("expected missing_category, got %+v", apiErr)
	}
	if _, apiErr := fx.service.SelectCategory(ctx, "Gardening"); apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected unknown category to be rejected, got %+v", apiErr)
	}
	if _, apiErr := fx.service.SelectCategory(ctx, " Reading "); apiErr != nil {
		t.Fatalf("select: %+v", apiErr)
	}
	view, apiErr := fx.service.Toggle()
	if apiErr != nil {
		t.Fatalf("toggle: %+v", apiErr)
	}
	if !view.Running || view.Remaining != "00:03" {
		t.Fatalf("unexpected view: %+v", view)
	}

	result, apiErr := fx.service.ReportLifecycle("background")
	if apiErr != nil {
		t.Fatalf("lifecycle: %+v", apiErr)
	}
	if result.Signal != lifecycle.SignalBackgrounded || result.State.Distractions != 1 {
		t.Fatalf("unexpected lifecycle result: %+v", result)
	}
	result, _ = fx.service.ReportLifecycle("active")
	if !result.State.AwaitingResume {
		t.Fatal("expected resume prompt after foregrounding")
	}
	if _, apiErr := fx.service.Resume(true); apiErr != nil {
		t.Fatalf("resume: %+v", apiErr)
	}

	fx.ticker.FireN(3)

	state := fx.service.State()
	if state.Phase != focus.PhaseExpired || state.PendingDecision == nil {
		t.Fatalf("expected expired with decision, got %+v", state)
	}

	totals, err := fx.sessions.AggregateTotals(ctx, time.Time{})
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.TotalSessions != 1 || totals.TotalDurationSeconds != 3 || totals.TotalDistractions != 1 {
		t.Fatalf("unexpected totals: %+v", totals)
	}

	view, apiErr = fx.service.Choose(string(focus.ActionStartShortBreak))
	if apiErr != nil {
		t.Fatalf("choose: %+v", apiErr)
	}
	if view.Kind != model.KindShortBreak || !view.Running {
		t.Fatalf("expected running short break, got %+v", view)
	}
	if _, apiErr := fx.service.Choose("long_break"); apiErr == nil || apiErr.Code != "invalid_state" {
		t.Fatalf("expected invalid_state, got %+v", apiErr)
	}
}

func TestTimerServiceAdjustDurationSavesSettings(t *testing.T) {
	fx := newTimerFixture(t, 60)

	if _, apiErr := fx.service.AdjustWorkDuration(0); apiErr == nil || apiErr.Code != "invalid_duration" {
		t.Fatalf("expected invalid_duration, got %+v", apiErr)
	}

	view, apiErr := fx.service.AdjustWorkDuration(45)
	if apiErr != nil {
		t.Fatalf("adjust: %+v", apiErr)
	}
	if view.RemainingSeconds != 45*60 {
		t.Fatalf("expected remaining reloaded, got %d", view.RemainingSeconds)
	}

	saved, err := settings.Load(fx.path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if saved.WorkMinutes != 45 {
		t.Fatalf("expected saved work minutes 45, got %d", saved.WorkMinutes)
	}

	if _, apiErr := fx.service.ReportLifecycle("asleep"); apiErr == nil || apiErr.Code != "invalid_app_state" {
		t.Fatalf("expected invalid_app_state, got %+v", apiErr)
	}
}

func TestTimerServiceSelectedCategoryDeletedWhileIdle(t *testing.T) {
	ctx := context.Background()
	fx := newTimerFixture(t, 2)

	if _, apiErr := fx.service.SelectCategory(ctx, "Reading"); apiErr != nil {
		t.Fatalf("select: %+v", apiErr)
	}

	list, apiErr := fx.categories.List(ctx)
	if apiErr != nil {
		t.Fatalf("list: %+v", apiErr)
	}
	var readingID int64
	for _, category := range list {
		if category.Name == "Reading" {
			readingID = category.ID
		}
	}
	if readingID == 0 {
		t.Fatal("expected seeded Reading category")
	}
	if apiErr := fx.categories.Delete(ctx, readingID); apiErr != nil {
		t.Fatalf("delete: %+v", apiErr)
	}

	if _, apiErr := fx.service.SelectCategory(ctx, "Reading"); apiErr == nil || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected deleted category to be rejected, got %+v", apiErr)
	}
	if got := fx.service.State().Category; got != "Reading" {
		t.Fatalf("expected selection to stay Reading, got %q", got)
	}

	if _, apiErr := fx.service.Toggle(); apiErr != nil {
		t.Fatalf("toggle: %+v", apiErr)
	}
	fx.ticker.FireN(2)

	sessions, err := fx.sessions.ListSessions(ctx, 10)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Category != "Reading" || sessions[0].DurationSeconds != 2 {
		t.Fatalf("expected one Reading session recorded by name, got %+v", sessions)
	}
	if state := fx.service.State(); state.CompletedWorkCycles != 1 {
		t.Fatalf("expected cycle to advance, got %d", state.CompletedWorkCycles)
	}
}
