package crossmint

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aretw0/megaverse/pkg/domain"
)

// GoalResponse is the body of GET /api/map/{candidateId}/goal.
type GoalResponse struct {
	Goal domain.Grid `json:"goal"`
}

// FetchGoal issues a single GET for the candidate's goal and validates its shape.
// It does not retry: a missing goal is fatal for the run.
func (c *Client) FetchGoal(ctx context.Context) (domain.Grid, error) {
	target := c.endpoint("api", "map", c.candidateID, "goal")

	status, data, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGoalUnavailable, err)
	}
	c.logger.Debug("goal response", "status", status, "body", string(data))

	var body GoalResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("%w: decode goal: %w", domain.ErrGoalUnavailable, err)
	}
	if body.Goal == nil {
		return nil, fmt.Errorf("%w: response has no goal", domain.ErrGoalUnavailable)
	}
	if err := body.Goal.Validate(); err != nil {
		return nil, fmt.Errorf("%w: malformed goal: %w", domain.ErrGoalUnavailable, err)
	}

	c.logger.Info("goal fetched", "rows", body.Goal.Rows(), "columns", body.Goal.Columns())
	return body.Goal, nil
}
