package runtime_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/megaverse/internal/runtime"
	"github.com/aretw0/megaverse/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCapturingInterpreter(hooks domain.LifecycleHooks) (*runtime.Interpreter, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return runtime.NewInterpreter(logger, hooks), &buf
}

func TestInterpreter_Interpret(t *testing.T) {
	t.Run("Known Tokens", func(t *testing.T) {
		interp, logs := newCapturingInterpreter(domain.LifecycleHooks{})

		assert.Equal(t, domain.NoEntity{}, interp.Interpret("SPACE"))
		assert.Equal(t, domain.SimpleEntity{Route: domain.RoutePolyanets}, interp.Interpret("POLYANET"))
		assert.Equal(t,
			domain.AttributedEntity{Route: domain.RouteComeths, Attribute: domain.AttributeDirection, Value: "up"},
			interp.Interpret("UP_COMETH"))
		assert.Equal(t,
			domain.AttributedEntity{Route: domain.RouteSoloons, Attribute: domain.AttributeColor, Value: "red"},
			interp.Interpret("RED_SOLOON"))
		assert.Empty(t, logs.String(), "known tokens emit no warnings")
	})

	for _, token := range []string{"SIDEWAYS_COMETH", "FOO_BAR", "NEBULA"} {
		t.Run("Warns On "+token, func(t *testing.T) {
			interp, logs := newCapturingInterpreter(domain.LifecycleHooks{})

			var intent domain.Intent
			assert.NotPanics(t, func() { intent = interp.Interpret(token) })
			assert.Equal(t, domain.NoEntity{}, intent)
			assert.Contains(t, logs.String(), "level=WARN")
			assert.Contains(t, logs.String(), token)
		})
	}
}

func TestInterpreter_InterpretCellHooks(t *testing.T) {
	var interpreted, unrecognized []*domain.CellEvent
	hooks := domain.LifecycleHooks{
		OnCellInterpreted: func(_ context.Context, e *domain.CellEvent) { interpreted = append(interpreted, e) },
		OnUnrecognized:    func(_ context.Context, e *domain.CellEvent) { unrecognized = append(unrecognized, e) },
	}
	interp, logs := newCapturingInterpreter(hooks)
	ctx := context.Background()

	interp.InterpretCell(ctx, domain.Coordinate{Row: 0, Column: 1}, "POLYANET")
	intent := interp.InterpretCell(ctx, domain.Coordinate{Row: 2, Column: 3}, "GREEN_SOLOON")

	assert.Equal(t, domain.NoEntity{}, intent)
	require.Len(t, interpreted, 2)
	require.Len(t, unrecognized, 1)
	assert.Equal(t, domain.EventCellInterpreted, interpreted[0].Type)
	assert.NoError(t, interpreted[0].Err)
	assert.Equal(t, domain.EventUnrecognized, unrecognized[0].Type)
	assert.Equal(t, domain.Coordinate{Row: 2, Column: 3}, unrecognized[0].Coordinate)
	assert.ErrorIs(t, unrecognized[0].Err, domain.ErrUnrecognizedContent)
	assert.Contains(t, logs.String(), "row=2 column=3")
}
