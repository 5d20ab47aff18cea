package app

import (
	"context"
	"slices"

	"github.com/vk/playbookgrid/internal/playbook"
	"golang.org/x/sync/errgroup"
)

// PlanRequest names the inputs of one plan.
type PlanRequest struct {
	BlueprintPath string
	// RunPath is optional; without it a draft run is attached.
	RunPath   string
	Overrides *playbook.SchedulingOverrides
}

// PlanResult is the per-file outcome of PlanAll.
type PlanResult struct {
	Path string
	Plan *playbook.ExecutionPlan
	Err  error
}

// Plan loads a blueprint and its run and returns the execution plan.
func (a *App) Plan(ctx context.Context, req PlanRequest) (*playbook.ExecutionPlan, error) {
	ctx = a.context(ctx)
	logger := a.logger.With("path", req.BlueprintPath)

	bp, err := a.loadBlueprint(ctx, req.BlueprintPath)
	if err != nil {
		return nil, err
	}
	run, err := a.loadRun(ctx, req.RunPath, bp)
	if err != nil {
		return nil, err
	}

	cached, err := a.cache.Plan(ctx, bp, req.Overrides)
	if err != nil {
		logger.Debug("Planning failed.", "blueprint_id", bp.ID, "error", err)
		return nil, err
	}

	plan := *cached
	plan.Run = run
	plan.Order = slices.Clone(cached.Order)
	logger.Info("Execution plan built.",
		"blueprint_id", bp.ID,
		"run_id", run.ID,
		"step_count", len(plan.Order),
	)
	return &plan, nil
}

// PlanAll plans every path concurrently, at most Config.Workers at a time.
// Results are returned in input order; a failure for one path does not stop
// the others.
func (a *App) PlanAll(ctx context.Context, paths []string, overrides *playbook.SchedulingOverrides) []PlanResult {
	results := make([]PlanResult, len(paths))

	var g errgroup.Group
	g.SetLimit(a.config.Workers)
	for i, path := range paths {
		g.Go(func() error {
			results[i].Path = path
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Plan, results[i].Err = a.Plan(ctx, PlanRequest{BlueprintPath: path, Overrides: overrides})
			return nil
		})
	}
	_ = g.Wait()

	a.logger.Info("Batch planning finished.", "blueprint_count", len(paths), "failed_count", countFailed(results))
	return results
}

func countFailed(results []PlanResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
