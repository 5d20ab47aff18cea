package playbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSchedulingConfig(t *testing.T) {
	low := DefaultSchedulingConfig(TierLow)
	assert.Equal(t, ParallelismSequential, low.Parallelism)
	assert.Equal(t, 6, low.MaxParallelSteps)
	assert.False(t, low.AutoEscalate)
	assert.Equal(t, RollbackManual, low.RollbackPolicy)

	critical := DefaultSchedulingConfig(TierCritical)
	assert.Equal(t, 1, critical.MaxParallelSteps)
	assert.True(t, critical.AutoEscalate)
}

func TestSchedulingOverridesMerge(t *testing.T) {
	base := DefaultSchedulingConfig(TierMedium)

	t.Run("nil overrides keep the base", func(t *testing.T) {
		var o *SchedulingOverrides
		assert.Equal(t, base, o.Merge(base))
		assert.Equal(t, "-", o.Fingerprint())
	})

	t.Run("set fields replace the base", func(t *testing.T) {
		parallelism := ParallelismAggressive
		maxParallel := 7
		escalate := true
		o := &SchedulingOverrides{Parallelism: &parallelism, MaxParallelSteps: &maxParallel, AutoEscalate: &escalate}
		merged := o.Merge(base)
		assert.Equal(t, ParallelismAggressive, merged.Parallelism)
		assert.Equal(t, 7, merged.MaxParallelSteps)
		assert.True(t, merged.AutoEscalate)
		assert.Equal(t, base.RollbackPolicy, merged.RollbackPolicy)
		assert.Equal(t, "aggressive|7|true|-", o.Fingerprint())
	})

	t.Run("non-positive max parallel is ignored", func(t *testing.T) {
		zero := 0
		o := &SchedulingOverrides{MaxParallelSteps: &zero}
		assert.Equal(t, base.MaxParallelSteps, o.Merge(base).MaxParallelSteps)
	})
}

func TestGateResult(t *testing.T) {
	result := NewGateResult(nil)
	assert.True(t, result.OK)
	assert.NotNil(t, result.Violations)

	result = NewGateResult([]Violation{
		{Key: "time-budget", Severity: ViolationWarn, StepID: "a"},
		{Key: "automation-capacity", Severity: ViolationError, StepID: "a"},
		{Key: "step-count", Severity: ViolationInfo},
	})
	assert.False(t, result.OK)
	assert.True(t, result.HasErrors())
	assert.Len(t, result.Errors(), 1)
	assert.Len(t, result.Warnings(), 1)
	assert.Equal(t, "[error] automation-capacity (a): ", result.Errors()[0].String())
}

func TestConstraintContextFingerprint(t *testing.T) {
	ctx := ConstraintContext{Service: "payments", TimeBudgetMinutes: 120, ActiveWorkload: 9, RiskTier: TierHigh}
	assert.Equal(t, "payments|120|9|high", ctx.Fingerprint())
	ctx.TimeBudgetMinutes = 90.5
	assert.Equal(t, "payments|90.5|9|high", ctx.Fingerprint())
}

func TestDefaultSeverityVector(t *testing.T) {
	v := DefaultSeverityVector()
	assert.Equal(t, SeverityVector{Minor: 0.34, Major: 0.33, Catastrophic: 0.33}, v)
	assert.InDelta(t, 1.0, v.Sum(), 1e-9)

	v.Minor = 1
	assert.Equal(t, 0.34, DefaultSeverityVector().Minor, "callers get a fresh copy")
}
