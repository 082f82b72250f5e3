package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/megaverse/pkg/domain"
)

// Goal implements ports.GoalSource over a fixed grid.
type Goal struct {
	grid domain.Grid
}

// NewGoal creates a goal source that always returns a copy of grid.
func NewGoal(grid domain.Grid) *Goal {
	return &Goal{grid: grid}
}

// FetchGoal returns the grid after validating it.
func (g *Goal) FetchGoal(ctx context.Context) (domain.Grid, error) {
	if err := g.grid.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGoalUnavailable, err)
	}
	out := make(domain.Grid, len(g.grid))
	for i, row := range g.grid {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}
