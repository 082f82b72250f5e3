package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/megaverse/pkg/domain"
)

// Interpreter maps cell tokens to intents. It never fails: unrecognized tokens
// become domain.NoEntity and are reported as warnings.
type Interpreter struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	runID  string
}

// NewInterpreter creates an interpreter. A nil logger discards warnings.
func NewInterpreter(logger *slog.Logger, hooks domain.LifecycleHooks) *Interpreter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Interpreter{logger: logger, hooks: hooks}
}

// Interpret returns the intent for a token.
func (i *Interpreter) Interpret(token string) domain.Intent {
	intent, err := domain.ParseToken(token)
	if err != nil {
		i.logger.Warn("unrecognized cell content", "token", token, "error", err)
	}
	return intent
}

// InterpretCell interprets the token found at a coordinate and fires the cell hooks.
func (i *Interpreter) InterpretCell(ctx context.Context, at domain.Coordinate, token string) domain.Intent {
	intent, err := domain.ParseToken(token)
	event := &domain.CellEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventCellInterpreted, RunID: i.runID},
		Coordinate: at,
		Token:      token,
		Intent:     intent,
		Err:        err,
	}

	if err != nil {
		i.logger.Warn("unrecognized cell content", "row", at.Row, "column", at.Column, "token", token, "error", err)
		if i.hooks.OnUnrecognized != nil {
			unrecognized := *event
			unrecognized.Type = domain.EventUnrecognized
			i.hooks.OnUnrecognized(ctx, &unrecognized)
		}
	}
	if i.hooks.OnCellInterpreted != nil {
		i.hooks.OnCellInterpreted(ctx, event)
	}
	return intent
}
