package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vk/playbookgrid/internal/config"
	"github.com/vk/playbookgrid/internal/ctxlog"
	"github.com/vk/playbookgrid/internal/ids"
	"github.com/vk/playbookgrid/internal/playbook"
	"github.com/vk/playbookgrid/internal/publish"
	"github.com/vk/playbookgrid/internal/telemetry"
	"github.com/vk/playbookgrid/internal/validator"
)

var (
	// ErrTooManySteps is returned for blueprints above the step ceiling.
	ErrTooManySteps = errors.New("blueprint exceeds the step ceiling")
	// ErrRunMismatch is returned when a run belongs to another blueprint.
	ErrRunMismatch = errors.New("run does not belong to blueprint")
)

// App encapsulates the application's dependencies and configuration.
type App struct {
	logger    *slog.Logger
	config    *Config
	loader    config.Loader
	cache     *PlanCache
	projector telemetry.Projector
	newRunID  func() ids.RunID
	dial      func(ctx context.Context, opts publish.SocketOptions) (publish.Publisher, error)
}

// Option customizes an App.
type Option func(*App)

// WithClock sets the clock used for draft runs and elapsed time.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.projector.Now = now }
}

// WithRunIDs sets the generator for draft run ids.
func WithRunIDs(next func() ids.RunID) Option {
	return func(a *App) { a.newRunID = next }
}

// WithDialer replaces the Socket.IO dialer used for publishing.
func WithDialer(dial func(ctx context.Context, opts publish.SocketOptions) (publish.Publisher, error)) Option {
	return func(a *App) { a.dial = dial }
}

// NewApp is the constructor for the application. It builds its own isolated
// logger writing to logW.
func NewApp(logW io.Writer, cfg *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	a := &App{
		logger: logger,
		config: cfg,
		loader: loader,
		cache:  NewPlanCache(),
		newRunID: func() ids.RunID {
			return ids.RunID(uuid.NewString())
		},
		dial: func(ctx context.Context, opts publish.SocketOptions) (publish.Publisher, error) {
			return publish.DialSocket(ctx, opts)
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	logger.Debug("App configured.", "workers", cfg.Workers, "max_steps", cfg.MaxSteps)
	return a
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Cache returns the application's plan cache.
func (a *App) Cache() *PlanCache {
	return a.cache
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

func (a *App) now() time.Time {
	if a.projector.Now != nil {
		return a.projector.Now()
	}
	return time.Now()
}

// loadBlueprint reads, validates and size-checks a blueprint file.
func (a *App) loadBlueprint(ctx context.Context, path string) (*playbook.Blueprint, error) {
	raw, err := a.loader.LoadBlueprint(ctx, path)
	if err != nil {
		return nil, err
	}
	if len(raw.Steps) > a.config.MaxSteps {
		return nil, fmt.Errorf("%w: %s has %d steps, limit is %d", ErrTooManySteps, path, len(raw.Steps), a.config.MaxSteps)
	}
	bp, err := validator.ParseBlueprint(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid blueprint %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Blueprint validated.", "blueprint_id", bp.ID, "step_count", len(bp.Steps))
	return bp, nil
}

// loadRun reads a run file, or creates a draft run when path is empty.
func (a *App) loadRun(ctx context.Context, path string, bp *playbook.Blueprint) (*playbook.Run, error) {
	if path == "" {
		run := playbook.NewDraftRun(a.newRunID(), bp.ID, "playbookgrid", a.now().UTC())
		ctxlog.FromContext(ctx).Debug("Created draft run.", "run_id", run.ID)
		return run, nil
	}
	raw, err := a.loader.LoadRun(ctx, path)
	if err != nil {
		return nil, err
	}
	run, err := validator.ParseRun(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid run %s: %w", path, err)
	}
	if run.BlueprintID != bp.ID {
		return nil, fmt.Errorf("%w: run %s targets %s, not %s", ErrRunMismatch, run.ID, run.BlueprintID, bp.ID)
	}
	return run, nil
}

func (a *App) logAdvisories(ctx context.Context, bp *playbook.Blueprint, violations []playbook.Violation) {
	logger := ctxlog.FromContext(ctx).With("blueprint_id", bp.ID)
	for _, v := range violations {
		switch v.Severity {
		case playbook.ViolationWarn:
			logger.Warn("Constraint warning.", "key", v.Key, "step_id", v.StepID, "message", v.Message)
		case playbook.ViolationInfo:
			logger.Debug("Constraint note.", "key", v.Key, "step_id", v.StepID, "message", v.Message)
		}
	}
}
