package crossmint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/megaverse/pkg/domain"
)

// Deliver posts the request to /api/{route}, retrying failed attempts with exponential
// backoff and jitter. The create operation is assumed idempotent per (route, coordinate),
// so a replay after an ambiguous failure is not deduplicated.
func (c *Client) Deliver(ctx context.Context, req domain.CreationRequest) (*domain.Receipt, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	target := c.endpoint("api", string(req.Route))
	logger := c.logger.With("route", req.Route, "row", req.Row, "column", req.Column)

	var lastErr error
	attempt := 0
	for ; ; attempt++ {
		c.fireDelivery(ctx, c.hooks.OnDeliveryAttempt, domain.EventDeliveryAttempt, &domain.DeliveryEvent{Request: req, Attempt: attempt})

		started := time.Now()
		status, body, err := c.do(ctx, http.MethodPost, target, payload)
		elapsed := time.Since(started)

		if err == nil {
			logger.Info("delivered", "attempt", attempt, "status", status, "response", string(body))
			c.fireDelivery(ctx, c.hooks.OnDeliveryResult, domain.EventDeliveryResult, &domain.DeliveryEvent{
				Request: req, Attempt: attempt, StatusCode: status, Duration: elapsed,
			})
			return &domain.Receipt{Request: req, Attempts: attempt + 1, StatusCode: status, Body: body}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		if !c.policy.ShouldRetry(attempt) {
			break
		}

		delay := c.policy.Delay(attempt, c.rng)
		logger.Warn("delivery attempt failed, retrying",
			"attempt", attempt, "retry", attempt+1, "delay", delay.Round(time.Millisecond), "error", err)
		c.fireDelivery(ctx, c.hooks.OnDeliveryRetry, domain.EventDeliveryRetry, &domain.DeliveryEvent{
			Request: req, Attempt: attempt, StatusCode: status, Delay: delay, Duration: elapsed, Err: err,
		})

		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	attempts := attempt + 1
	logger.Error("delivery abandoned", "attempts", attempts, "error", lastErr)
	c.fireDelivery(ctx, c.hooks.OnDeliveryResult, domain.EventDeliveryResult, &domain.DeliveryEvent{
		Request: req, Attempt: attempt, StatusCode: statusOf(lastErr), Err: lastErr,
	})
	return nil, fmt.Errorf("%w: %s after %d attempts: %w", domain.ErrDeliveryFailed, req, attempts, lastErr)
}

func (c *Client) fireDelivery(ctx context.Context, hook func(context.Context, *domain.DeliveryEvent), typ domain.EventType, e *domain.DeliveryEvent) {
	if hook == nil {
		return
	}
	e.Timestamp = time.Now()
	e.Type = typ
	hook(ctx, e)
}

func statusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
