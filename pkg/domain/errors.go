package domain

import "errors"

// ErrGoalUnavailable is returned when the goal grid cannot be obtained or has an unusable shape.
// It is fatal for a run.
var ErrGoalUnavailable = errors.New("goal unavailable")

// ErrInvalidGrid is returned when a grid is empty or not rectangular.
var ErrInvalidGrid = errors.New("invalid grid")

// ErrUnrecognizedContent is returned when a cell token matches no known pattern.
// The cell is treated as empty and the run continues.
var ErrUnrecognizedContent = errors.New("unrecognized content")

// ErrDeliveryFailed is returned when a creation call exhausted its retry budget.
// The cell is abandoned and the run continues.
var ErrDeliveryFailed = errors.New("delivery failed")

// ErrCandidateRequired is returned when no candidate identity was configured.
var ErrCandidateRequired = errors.New("candidate id is required")
