package app

import (
	"context"

	"github.com/vk/playbookgrid/internal/gate"
	"github.com/vk/playbookgrid/internal/ids"
	"github.com/vk/playbookgrid/internal/playbook"
)

// ValidationReport is the outcome of validating one blueprint file.
type ValidationReport struct {
	Path        string                     `json:"path"`
	BlueprintID ids.BlueprintID            `json:"blueprintId"`
	Context     playbook.ConstraintContext `json:"context"`
	Gate        playbook.GateResult        `json:"gate"`
}

// ConstraintContext is the gate context Validate checks bp against.
func (a *App) ConstraintContext(bp *playbook.Blueprint) playbook.ConstraintContext {
	return playbook.ConstraintContext{
		Service:           bp.Service,
		TimeBudgetMinutes: a.config.TimeBudgetMinutes,
		ActiveWorkload:    a.config.ActiveWorkload,
		RiskTier:          bp.RiskTier,
	}
}

// Validate loads a blueprint and runs the constraint gate over it. Load and
// parse failures are returned as errors; gate findings are in the report.
func (a *App) Validate(ctx context.Context, path string) (*ValidationReport, error) {
	ctx = a.context(ctx)
	logger := a.logger.With("path", path)
	logger.Debug("Validating blueprint.")

	bp, err := a.loadBlueprint(ctx, path)
	if err != nil {
		return nil, err
	}

	cctx := a.ConstraintContext(bp)
	result := gate.CanBlueprintRun(bp, cctx)
	a.logAdvisories(ctx, bp, result.Violations)
	logger.Info("Blueprint validated.",
		"blueprint_id", bp.ID,
		"ok", result.OK,
		"violation_count", len(result.Violations),
	)

	return &ValidationReport{
		Path:        path,
		BlueprintID: bp.ID,
		Context:     cctx,
		Gate:        result,
	}, nil
}
