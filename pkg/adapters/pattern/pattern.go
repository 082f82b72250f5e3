// Package pattern synthesizes fixed goal layouts without any remote call.
package pattern

import (
	"context"
	"fmt"

	"github.com/aretw0/megaverse/pkg/domain"
)

const (
	// DefaultSize is the side of the square map used by the first challenge phase.
	DefaultSize = 11
	// DefaultMargin is the number of empty rows/columns kept on every edge.
	DefaultMargin = 2
)

// Cross implements ports.GoalSource: an X of POLYANETs drawn strictly inside a padded frame.
type Cross struct {
	Size   int
	Margin int
}

// NewCross returns the default 11×11 cross with a two-cell margin.
func NewCross() *Cross {
	return &Cross{Size: DefaultSize, Margin: DefaultMargin}
}

// Marked reports whether cell (row, column) holds an entity.
func (c *Cross) Marked(row, column int) bool {
	last := c.Size - 1
	if row < c.Margin || row > last-c.Margin || column < c.Margin || column > last-c.Margin {
		return false
	}
	return row == column || row+column == last
}

// Grid builds the pattern.
func (c *Cross) Grid() (domain.Grid, error) {
	if c.Size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", domain.ErrInvalidGrid, c.Size)
	}
	if c.Margin < 0 {
		return nil, fmt.Errorf("%w: margin must not be negative, got %d", domain.ErrInvalidGrid, c.Margin)
	}
	grid := domain.NewGrid(c.Size, c.Size)
	for row := range grid {
		for column := range grid[row] {
			if c.Marked(row, column) {
				grid[row][column] = domain.TokenPolyanet
			}
		}
	}
	return grid, nil
}

// FetchGoal returns the synthesized grid.
func (c *Cross) FetchGoal(ctx context.Context) (domain.Grid, error) {
	grid, err := c.Grid()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGoalUnavailable, err)
	}
	return grid, nil
}
