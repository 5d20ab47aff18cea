package telemetry

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/playbookgrid/internal/ids"
	"github.com/vk/playbookgrid/internal/playbook"
)

var started = time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

var approx = cmp.Comparer(func(a, b float64) bool { return a-b < 1e-9 && b-a < 1e-9 })

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func runWith(outcomes map[ids.StepID]playbook.OutcomeStatus) *playbook.Run {
	run := playbook.NewDraftRun("run-7", "db-failover", "oncall", started)
	run.Status = playbook.RunActive
	for id, status := range outcomes {
		run.OutcomeByStep[id] = playbook.StepOutcome{Status: status}
	}
	return run
}

func TestSummarizePlan(t *testing.T) {
	p := Projector{Now: fixedClock(started.Add(90 * time.Second))}

	testCases := []struct {
		name     string
		plan     *playbook.ExecutionPlan
		expected playbook.PlanSummary
	}{
		{
			name:     "nil plan is neutral",
			plan:     nil,
			expected: playbook.PlanSummary{Confidence: 1},
		},
		{
			name:     "plan without a run is neutral",
			plan:     &playbook.ExecutionPlan{},
			expected: playbook.PlanSummary{Confidence: 1},
		},
		{
			name:     "empty outcome map still reports elapsed time",
			plan:     &playbook.ExecutionPlan{Run: runWith(nil)},
			expected: playbook.PlanSummary{ElapsedMinutes: 1.5, Confidence: 1},
		},
		{
			name: "mixed outcomes",
			plan: &playbook.ExecutionPlan{Run: runWith(map[ids.StepID]playbook.OutcomeStatus{
				"a": playbook.OutcomePassed,
				"b": playbook.OutcomePassed,
				"c": playbook.OutcomeFailed,
				"d": playbook.OutcomeRunning,
			})},
			expected: playbook.PlanSummary{
				CompletionRatio: 0.5,
				ElapsedMinutes:  1.5,
				FailureRatio:    0.25,
				Confidence:      0.75,
			},
		},
		{
			name: "confidence is floored",
			plan: &playbook.ExecutionPlan{Run: runWith(map[ids.StepID]playbook.OutcomeStatus{
				"a": playbook.OutcomeFailed,
			})},
			expected: playbook.PlanSummary{
				ElapsedMinutes: 1.5,
				FailureRatio:   1,
				Confidence:     0.05,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.SummarizePlan(tc.plan)
			assert.InDelta(t, tc.expected.CompletionRatio, got.CompletionRatio, 1e-9)
			assert.InDelta(t, tc.expected.ElapsedMinutes, got.ElapsedMinutes, 1e-9)
			assert.InDelta(t, tc.expected.FailureRatio, got.FailureRatio, 1e-9)
			assert.InDelta(t, tc.expected.Confidence, got.Confidence, 1e-9)
		})
	}
}

func TestSummarizePlan_ClockBeforeStartIsNotNegative(t *testing.T) {
	p := Projector{Now: fixedClock(started.Add(-time.Hour))}
	got := p.SummarizePlan(&playbook.ExecutionPlan{Run: runWith(nil)})
	assert.Zero(t, got.ElapsedMinutes)
	assert.GreaterOrEqual(t, got.Confidence, 0.05)
	assert.LessOrEqual(t, got.Confidence, 1.0)
}

func TestBuildProjection(t *testing.T) {
	run := runWith(map[ids.StepID]playbook.OutcomeStatus{
		"triage":  playbook.OutcomePassed,
		"fence":   playbook.OutcomeFailed,
		"promote": playbook.OutcomePending,
		"smoke":   playbook.OutcomeRunning,
		"status":  playbook.OutcomeSkipped,
	})
	order := []ids.StepID{"triage", "fence", "smoke", "promote", "status"}

	got := BuildProjection(run, order)

	active := ids.StepID("smoke")
	expected := playbook.Projection{
		RunID:          "run-7",
		BlueprintID:    "db-failover",
		ActiveStep:     &active,
		CompletedSteps: []ids.StepID{"triage"},
		FailedSteps:    []ids.StepID{"fence"},
		Confidence:     0.8,
	}
	if diff := cmp.Diff(expected, got, approx); diff != "" {
		t.Errorf("projection mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildProjection_Degraded(t *testing.T) {
	t.Run("empty order has zero confidence", func(t *testing.T) {
		got := BuildProjection(runWith(nil), nil)
		assert.Nil(t, got.ActiveStep)
		assert.Zero(t, got.Confidence)
		assert.Empty(t, got.CompletedSteps)
	})

	t.Run("nil run with an order is fully confident", func(t *testing.T) {
		got := BuildProjection(nil, []ids.StepID{"a", "b"})
		assert.Nil(t, got.ActiveStep)
		assert.Equal(t, 1.0, got.Confidence)
		assert.Empty(t, got.RunID)
	})
}

func TestProjectSignal(t *testing.T) {
	testCases := []struct {
		name     string
		run      *playbook.Run
		expected playbook.ReadinessSignal
	}{
		{
			name: "healthy run names the first step",
			run: runWith(map[ids.StepID]playbook.OutcomeStatus{
				"verify": playbook.OutcomePassed,
				"assess": playbook.OutcomePassed,
				"notify": playbook.OutcomeRunning,
			}),
			expected: playbook.ReadinessSignal{
				StepID:     "assess",
				Score:      90,
				Confidence: 0.96,
				Evidence:   []string{"assess:passed", "verify:passed"},
			},
		},
		{
			name: "one failure",
			run: runWith(map[ids.StepID]playbook.OutcomeStatus{
				"assess":  playbook.OutcomePassed,
				"restore": playbook.OutcomeFailed,
			}),
			expected: playbook.ReadinessSignal{
				StepID:     "restore",
				Score:      60,
				Confidence: 0.85,
				Evidence:   []string{"assess:passed", "restore:failed"},
			},
		},
		{
			name: "many failures hit the floors",
			run: runWith(map[ids.StepID]playbook.OutcomeStatus{
				"e": playbook.OutcomeFailed,
				"d": playbook.OutcomeFailed,
				"c": playbook.OutcomeFailed,
				"b": playbook.OutcomeFailed,
				"a": playbook.OutcomeFailed,
			}),
			expected: playbook.ReadinessSignal{
				StepID:     "a",
				Score:      20,
				Confidence: 0.35,
				Evidence:   []string{"a:failed", "b:failed", "c:failed", "d:failed", "e:failed"},
			},
		},
		{
			name: "nil run degrades to defaults",
			run:  nil,
			expected: playbook.ReadinessSignal{
				Score:      90,
				Confidence: 0.96,
				Evidence:   []string{},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ProjectSignal(tc.run)
			if diff := cmp.Diff(tc.expected, got, approx); diff != "" {
				t.Errorf("signal mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildSnapshot(t *testing.T) {
	run := runWith(map[ids.StepID]playbook.OutcomeStatus{"a": playbook.OutcomePassed})
	plan := &playbook.ExecutionPlan{Run: run, BlueprintID: "db-failover", Order: []ids.StepID{"a", "b"}}

	t.Run("no windows means no signal", func(t *testing.T) {
		snap := BuildSnapshot(plan, nil)
		assert.Same(t, run, snap.Run)
		assert.NotNil(t, snap.Windows)
		assert.Empty(t, snap.Windows)
		assert.Nil(t, snap.Signal)
		assert.Equal(t, []ids.StepID{"a"}, snap.Projection.CompletedSteps)
	})

	t.Run("windows attach the readiness signal", func(t *testing.T) {
		windows := []playbook.ProgressWindow{{
			Label: "first-hour", From: started, To: started.Add(time.Hour), CompletionRatio: 0.5,
		}}
		snap := BuildSnapshot(plan, windows)
		require.NotNil(t, snap.Signal)
		assert.Equal(t, ids.StepID("a"), snap.Signal.StepID)
		assert.Equal(t, windows, snap.Windows)
	})

	t.Run("nil plan", func(t *testing.T) {
		snap := BuildSnapshot(nil, nil)
		assert.Nil(t, snap.Run)
		assert.Zero(t, snap.Projection.Confidence)
	})
}
