package focus

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SessionStore is the persistence operation the recorder needs.
type SessionStore interface {
	RecordSession(ctx context.Context, category string, durationSeconds, distractions int) error
}

// SessionRecorder persists a completed work segment.
type SessionRecorder interface {
	Record(category string, durationSeconds, distractions int) error
}

const defaultRecordTimeout = 5 * time.Second

// Recorder adapts a SessionStore into a SessionRecorder. Writes are
// synchronous and never retried.
type Recorder struct {
	store   SessionStore
	timeout time.Duration
	logger  *slog.Logger
}

func NewRecorder(store SessionStore, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		store:   store,
		timeout: defaultRecordTimeout,
		logger:  logger,
	}
}

func (r *Recorder) Record(category string, durationSeconds, distractions int) error {
	if category == "" {
		return ErrNoCategorySelected
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := r.store.RecordSession(ctx, category, durationSeconds, distractions); err != nil {
		return fmt.Errorf("record session: %w", err)
	}

	r.logger.Info("session recorded",
		"category", category,
		"duration_seconds", durationSeconds,
		"distractions", distractions,
	)
	return nil
}
