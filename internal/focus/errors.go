package focus

import "errors"

var (
	// ErrMissingCategory is returned when a work segment is started without a category.
	ErrMissingCategory = errors.New("select a category before starting a work session")
	// ErrInvalidState is returned when an operation is not allowed in the current state.
	ErrInvalidState = errors.New("operation not allowed in the current timer state")
	// ErrNoCategorySelected marks a work segment that expired without a category.
	// Starting requires a category, so seeing this means an invariant was broken.
	ErrNoCategorySelected = errors.New("work segment expired without a category")
	// ErrDurationOutOfRange is returned for work durations outside 1-180 minutes.
	ErrDurationOutOfRange = errors.New("work duration must be between 1 and 180 minutes")
)
