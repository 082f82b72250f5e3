package megaverse

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/megaverse/internal/runtime"
	"github.com/aretw0/megaverse/pkg/domain"
	"github.com/aretw0/megaverse/pkg/ports"
	"github.com/google/uuid"
)

// Version is the release version, overridden at build time with -ldflags.
var Version = "0.1.0-dev"

// DefaultLockTTL bounds how long a crashed run can hold the candidate lock.
const DefaultLockTTL = 15 * time.Minute

// Synchronizer is the high-level entry point of the library.
// It fetches a goal and drives it into the remote map, one cell at a time.
type Synchronizer struct {
	candidateID string
	goal        ports.GoalSource
	dispatcher  ports.Dispatcher
	locker      ports.DistributedLocker
	lockTTL     time.Duration
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	runID       string
}

// Option defines a functional option for configuring the Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Synchronizer) {
		s.hooks = hooks
	}
}

// WithLocker serializes runs for the same candidate across processes.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(s *Synchronizer) {
		s.locker = locker
		s.lockTTL = ttl
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(s *Synchronizer) {
		s.runID = id
	}
}

// New creates a Synchronizer. The candidate identity is passed explicitly and is
// stamped on every creation request.
func New(candidateID string, goal ports.GoalSource, dispatcher ports.Dispatcher, opts ...Option) (*Synchronizer, error) {
	if strings.TrimSpace(candidateID) == "" {
		return nil, domain.ErrCandidateRequired
	}
	if goal == nil {
		return nil, fmt.Errorf("goal source is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}

	s := &Synchronizer{
		candidateID: candidateID,
		goal:        goal,
		dispatcher:  dispatcher,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	if s.lockTTL <= 0 {
		s.lockTTL = DefaultLockTTL
	}
	s.logger = s.logger.With("run_id", s.runID, "candidate", candidateID)
	return s, nil
}

// RunID returns the identifier attached to logs and events of this synchronizer.
func (s *Synchronizer) RunID() string {
	return s.runID
}

// Run fetches the goal and synchronizes it. Only a goal failure, a lock failure or a
// done context return an error; per-cell problems are reported in the Report.
func (s *Synchronizer) Run(ctx context.Context) (domain.Report, error) {
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, s.candidateID, s.lockTTL)
		if err != nil {
			return domain.Report{RunID: s.runID}, fmt.Errorf("lock candidate %s: %w", s.candidateID, err)
		}
		defer func() {
			// The run context may already be canceled; release with a fresh one.
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := unlock(releaseCtx); err != nil {
				s.logger.Warn("failed to release candidate lock", "error", err)
			}
		}()
	}

	grid, err := s.goal.FetchGoal(ctx)
	if err != nil {
		return domain.Report{RunID: s.runID}, err
	}
	return s.Synchronize(ctx, grid)
}

// Synchronize drives an already obtained grid.
func (s *Synchronizer) Synchronize(ctx context.Context, grid domain.Grid) (domain.Report, error) {
	return s.driver().Synchronize(ctx, grid)
}

// Plan fetches the goal and returns the creation requests a run would issue, without sending any.
func (s *Synchronizer) Plan(ctx context.Context) (domain.Grid, []domain.CreationRequest, error) {
	grid, err := s.goal.FetchGoal(ctx)
	if err != nil {
		return nil, nil, err
	}
	plan, err := s.driver().Plan(ctx, grid)
	return grid, plan, err
}

func (s *Synchronizer) driver() *runtime.Driver {
	return runtime.NewDriver(s.candidateID, s.dispatcher,
		runtime.WithLogger(s.logger),
		runtime.WithLifecycleHooks(s.hooks),
		runtime.WithRunID(s.runID),
	)
}
