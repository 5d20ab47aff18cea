package gate

import (
	"fmt"

	"github.com/vk/playbookgrid/internal/playbook"
)

// CanStepRun checks a single step against the context's risk tier.
//
//	projected = expectedLatency * riskMultiplier[kind]
//	tolerance = timeBudget[tier]
//	capacity  = maxConcurrency[tier] * budgetUnits[kind]
func CanStepRun(step playbook.StepTemplate, cctx playbook.ConstraintContext) playbook.GateResult {
	return playbook.NewGateResult(stepViolations(step, cctx))
}

func stepViolations(step playbook.StepTemplate, cctx playbook.ConstraintContext) []playbook.Violation {
	var out []playbook.Violation
	add := func(key string, severity playbook.ViolationSeverity, format string, args ...any) {
		out = append(out, playbook.Violation{
			Key:      key,
			Message:  fmt.Sprintf(format, args...),
			Severity: severity,
			StepID:   step.ID,
		})
	}

	projected := step.ExpectedLatencyMinutes * step.Kind.RiskMultiplier()
	tolerance := cctx.RiskTier.TimeBudgetMinutes()
	capacity := cctx.RiskTier.MaxConcurrency() * step.Kind.BudgetUnits()

	if projected > tolerance {
		add(KeyTimeBudget, playbook.ViolationWarn,
			"step %s projects %.1f minutes, over the %.0f minute budget of tier %s",
			step.ID, projected, tolerance, cctx.RiskTier)
	}
	if step.AutomationLevel > capacity {
		add(KeyAutomationCapacity, playbook.ViolationError,
			"step %s automation level %d exceeds capacity %d for %s steps under tier %s",
			step.ID, step.AutomationLevel, capacity, step.Kind, cctx.RiskTier)
	}
	if step.ExpectedLatencyMinutes <= 0 {
		add(KeyNonPositiveLatency, playbook.ViolationError,
			"step %s expected latency must be positive, got %v", step.ID, step.ExpectedLatencyMinutes)
	}
	if len(step.Actions) == 0 {
		add(KeyNoActions, playbook.ViolationWarn, "step %s has no actions", step.ID)
	}
	return out
}
