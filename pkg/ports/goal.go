package ports

import (
	"context"

	"github.com/aretw0/megaverse/pkg/domain"
)

// GoalSource produces the target layout for a run.
type GoalSource interface {
	// FetchGoal returns a validated grid.
	// Failures wrap domain.ErrGoalUnavailable.
	FetchGoal(ctx context.Context) (domain.Grid, error)
}

// GoalSourceFunc adapts a function to GoalSource.
type GoalSourceFunc func(ctx context.Context) (domain.Grid, error)

// FetchGoal calls f(ctx).
func (f GoalSourceFunc) FetchGoal(ctx context.Context) (domain.Grid, error) {
	return f(ctx)
}
