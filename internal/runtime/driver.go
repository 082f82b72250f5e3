package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/megaverse/pkg/domain"
	"github.com/aretw0/megaverse/pkg/ports"
)

// Driver walks a goal grid and delivers one creation request per entity cell.
// Deliveries are strictly sequential in row-major order.
type Driver struct {
	candidateID string
	dispatcher  ports.Dispatcher
	interpreter *Interpreter
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	runID       string
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) DriverOption {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithLifecycleHooks registers cell-level observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) DriverOption {
	return func(d *Driver) {
		d.hooks = hooks
	}
}

// WithRunID tags events and the report with a run identifier.
func WithRunID(id string) DriverOption {
	return func(d *Driver) {
		d.runID = id
	}
}

// NewDriver creates a driver issuing requests on behalf of candidateID.
func NewDriver(candidateID string, dispatcher ports.Dispatcher, opts ...DriverOption) *Driver {
	d := &Driver{
		candidateID: candidateID,
		dispatcher:  dispatcher,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.interpreter = NewInterpreter(d.logger, d.hooks)
	d.interpreter.runID = d.runID
	return d
}

// Synchronize interprets every cell and delivers the resulting requests, one at a time.
// A failed delivery is logged and counted; the walk always covers the whole grid.
// Only an invalid grid or a done context end it early.
func (d *Driver) Synchronize(ctx context.Context, grid domain.Grid) (domain.Report, error) {
	report := domain.Report{RunID: d.runID}
	if err := grid.Validate(); err != nil {
		return report, err
	}
	report.Rows, report.Columns = grid.Rows(), grid.Columns()
	started := time.Now()

	d.logger.Info("synchronization started", "rows", report.Rows, "columns", report.Columns)

	for row := range grid {
		for column := range grid[row] {
			if err := ctx.Err(); err != nil {
				return d.finish(report, started), err
			}

			at := domain.Coordinate{Row: row, Column: column}
			intent := d.interpreter.InterpretCell(ctx, at, grid[row][column])

			req, ok := domain.NewCreationRequest(d.candidateID, at, intent)
			if !ok {
				if grid[row][column] == domain.TokenSpace {
					report.Empty++
				} else {
					report.Unrecognized++
				}
				continue
			}

			report.Requests++
			if _, err := d.dispatcher.Deliver(ctx, req); err != nil {
				if ctx.Err() != nil && !errors.Is(err, domain.ErrDeliveryFailed) {
					return d.finish(report, started), ctx.Err()
				}
				report.Failed++
				report.Failures = append(report.Failures, req)
				d.logger.Error("cell abandoned", "row", row, "column", column, "route", req.Route, "error", err)
				continue
			}
			report.Delivered++
		}
	}

	report = d.finish(report, started)
	d.logger.Info("synchronization finished",
		"requests", report.Requests,
		"delivered", report.Delivered,
		"failed", report.Failed,
		"unrecognized", report.Unrecognized,
		"duration", report.Duration.Round(time.Millisecond),
	)
	return report, nil
}

func (d *Driver) finish(report domain.Report, started time.Time) domain.Report {
	report.Duration = time.Since(started)
	return report
}

// Plan interprets the grid without delivering anything and returns the requests that
// Synchronize would issue, in order.
func (d *Driver) Plan(ctx context.Context, grid domain.Grid) ([]domain.CreationRequest, error) {
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	var plan []domain.CreationRequest
	for _, at := range grid.Cells() {
		intent := d.interpreter.InterpretCell(ctx, at, grid.At(at))
		if req, ok := domain.NewCreationRequest(d.candidateID, at, intent); ok {
			plan = append(plan, req)
		}
	}
	return plan, nil
}
