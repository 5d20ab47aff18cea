package gate

import (
	"fmt"

	"github.com/vk/playbookgrid/internal/ids"
	"github.com/vk/playbookgrid/internal/playbook"
)

// CanBlueprintRun aggregates the violations of every step, in blueprint
// order, and appends the blueprint-level findings.
func CanBlueprintRun(bp *playbook.Blueprint, cctx playbook.ConstraintContext) playbook.GateResult {
	var out []playbook.Violation
	for _, step := range bp.Steps {
		out = append(out, stepViolations(step, cctx)...)
	}

	for _, step := range bp.Steps {
		if len(step.DependsOn) > cctx.ActiveWorkload {
			out = append(out, playbook.Violation{
				Key: KeyDependencyOverhead,
				Message: fmt.Sprintf("step %s has %d dependencies, more than the active workload of %d",
					step.ID, len(step.DependsOn), cctx.ActiveWorkload),
				Severity: playbook.ViolationWarn,
				StepID:   step.ID,
			})
		}
	}

	if stuck := simulateSchedule(bp.Steps); len(stuck) > 0 {
		out = append(out, playbook.Violation{
			Key: KeyUnschedulable,
			Message: fmt.Sprintf("no step is ready while %d remain (%v); the dependency graph has a cycle or a dangling reference",
				len(stuck), ids.StepIDStrings(stuck)),
			Severity: playbook.ViolationError,
		})
	}

	if bp.Version <= 0 {
		out = append(out, playbook.Violation{
			Key:      KeyInvalidVersion,
			Message:  fmt.Sprintf("blueprint version must be at least 1, got %d", bp.Version),
			Severity: playbook.ViolationError,
		})
	}

	estimated := bp.EstimatedMinutes()
	if estimated > cctx.TimeBudgetMinutes {
		out = append(out, playbook.Violation{
			Key: KeyTotalTimeBudget,
			Message: fmt.Sprintf("blueprint estimates %.1f minutes, over the %.0f minute budget",
				estimated, cctx.TimeBudgetMinutes),
			Severity: playbook.ViolationWarn,
		})
	}

	if limit := 2 * cctx.RiskTier.MaxConcurrency(); len(bp.Steps) > limit {
		out = append(out, playbook.Violation{
			Key: KeyStepCount,
			Message: fmt.Sprintf("blueprint has %d steps, more than twice the tier %s concurrency (%d)",
				len(bp.Steps), cctx.RiskTier, limit),
			Severity: playbook.ViolationInfo,
		})
	}

	if weighted := estimated / cctx.RiskTier.SeverityWeight(); weighted > riskCapMinutes {
		out = append(out, playbook.Violation{
			Key: KeyRiskCap,
			Message: fmt.Sprintf("severity-weighted duration %.1f minutes exceeds the %d minute risk cap",
				weighted, riskCapMinutes),
			Severity: playbook.ViolationInfo,
		})
	}

	return playbook.NewGateResult(out)
}

// simulateSchedule greedily removes one ready step per iteration, first in
// blueprint order, and returns the steps left when nothing is ready. A nil
// result means every step could be scheduled.
func simulateSchedule(steps []playbook.StepTemplate) []ids.StepID {
	remaining := make([]playbook.StepTemplate, len(steps))
	copy(remaining, steps)
	completed := make(map[ids.StepID]struct{}, len(steps))

	for len(remaining) > 0 {
		next := -1
		for i, step := range remaining {
			if dependenciesMet(step, completed) {
				next = i
				break
			}
		}
		if next < 0 {
			stuck := make([]ids.StepID, len(remaining))
			for i, step := range remaining {
				stuck[i] = step.ID
			}
			return ids.SortStepIDs(stuck)
		}
		completed[remaining[next].ID] = struct{}{}
		remaining = append(remaining[:next], remaining[next+1:]...)
	}
	return nil
}

func dependenciesMet(step playbook.StepTemplate, completed map[ids.StepID]struct{}) bool {
	for _, dep := range step.DependsOn {
		if _, ok := completed[dep]; !ok {
			return false
		}
	}
	return true
}
