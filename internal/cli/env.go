package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/megaverse"
	"github.com/aretw0/megaverse/internal/config"
	"github.com/aretw0/megaverse/internal/logging"
	"github.com/aretw0/megaverse/pkg/adapters/crossmint"
	"github.com/aretw0/megaverse/pkg/adapters/memory"
	"github.com/aretw0/megaverse/pkg/adapters/redis"
	"github.com/aretw0/megaverse/pkg/domain"
	"github.com/aretw0/megaverse/pkg/observability"
	"github.com/aretw0/megaverse/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// dryRunCandidate stands in for the candidate when nothing is sent.
const dryRunCandidate = "dry-run"

// Options carries the global command-line flags. Non-empty values override the config.
type Options struct {
	ConfigPath  string
	CandidateID string
	BaseURL     string
	LogLevel    string
	LogFormat   string
	RedisAddr   string
	MetricsAddr string
	DryRun      bool
}

// LoadConfig reads the config file and environment, then applies flag overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return cfg, err
	}
	override(&cfg.CandidateID, opts.CandidateID)
	override(&cfg.BaseURL, opts.BaseURL)
	override(&cfg.LogLevel, opts.LogLevel)
	override(&cfg.LogFormat, opts.LogFormat)
	override(&cfg.RedisAddr, opts.RedisAddr)
	override(&cfg.MetricsAddr, opts.MetricsAddr)
	return cfg, cfg.Validate()
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Env is the wiring shared by commands: config, logger, metrics and output.
type Env struct {
	Config   config.Config
	Logger   *slog.Logger
	DryRun   bool
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Stdout   io.Writer
}

// NewEnv resolves the configuration and builds the logger and metrics registry.
func NewEnv(opts Options) (*Env, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	return &Env{
		Config:   cfg,
		Logger:   logging.New(level, cfg.LogFormat),
		DryRun:   opts.DryRun,
		Registry: reg,
		Metrics:  metrics,
		Stdout:   os.Stdout,
	}, nil
}

// Client builds the remote map client. A candidate identifier is required.
func (e *Env) Client() (*crossmint.Client, error) {
	if err := e.Config.RequireCandidate(); err != nil {
		return nil, err
	}
	return crossmint.New(e.Config.BaseURL, e.Config.CandidateID,
		crossmint.WithTimeout(e.Config.RequestTimeout),
		crossmint.WithPolicy(e.Config.Policy()),
		crossmint.WithLogger(e.Logger),
		crossmint.WithLifecycleHooks(e.Metrics.Hooks()),
	)
}

// Dispatcher returns remote unless the run is a dry run, in which case requests are only recorded.
func (e *Env) Dispatcher(remote ports.Dispatcher) ports.Dispatcher {
	if e.DryRun || remote == nil {
		return memory.NewRecorder()
	}
	return remote
}

// Candidate returns the configured candidate, or a placeholder on dry runs.
func (e *Env) Candidate() (string, error) {
	if err := e.Config.RequireCandidate(); err != nil {
		if e.DryRun {
			return dryRunCandidate, nil
		}
		return "", err
	}
	return e.Config.CandidateID, nil
}

// Synchronizer wires goal and dispatcher into a synchronizer. When a redis address is
// configured, runs for the same candidate are serialized through a redis lock; the
// returned cleanup closes that connection.
func (e *Env) Synchronizer(ctx context.Context, goal ports.GoalSource, dispatcher ports.Dispatcher) (*megaverse.Synchronizer, func(), error) {
	candidate, err := e.Candidate()
	if err != nil {
		return nil, nil, err
	}

	opts := []megaverse.Option{
		megaverse.WithLogger(e.Logger),
		megaverse.WithLifecycleHooks(debugHooks(e.Logger).Merge(e.Metrics.Hooks())),
	}
	cleanup := func() {}
	if e.Config.RedisAddr != "" && !e.DryRun {
		client, err := redis.Dial(ctx, e.Config.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { _ = client.Close() }
		opts = append(opts, megaverse.WithLocker(redis.NewLocker(client, redis.DefaultPrefix), e.Config.LockTTL))
	}

	s, err := megaverse.New(candidate, goal, dispatcher, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return s, cleanup, nil
}

// Run executes one synchronization pass. When a metrics address is configured the
// Prometheus endpoint is served for the duration of the run.
func (e *Env) Run(ctx context.Context, s *megaverse.Synchronizer) (domain.Report, error) {
	g, gctx := errgroup.WithContext(ctx)
	runCtx, stop := context.WithCancel(gctx)
	defer stop()

	if e.Config.MetricsAddr != "" {
		g.Go(func() error {
			return e.serveMetrics(runCtx)
		})
	}

	var report domain.Report
	g.Go(func() error {
		defer stop()
		var err error
		report, err = s.Run(runCtx)
		return err
	})

	err := g.Wait()
	return report, err
}

func (e *Env) serveMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler(e.Registry))
	srv := &http.Server{Addr: e.Config.MetricsAddr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		e.Logger.Info("metrics server listening", "addr", e.Config.MetricsAddr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func debugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCellInterpreted: func(ctx context.Context, e *domain.CellEvent) {
			logger.Debug("cell interpreted", "row", e.Row, "column", e.Column, "token", e.Token)
		},
	}
}
