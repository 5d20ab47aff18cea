package telemetry

import (
	"fmt"
	"math"
	"time"

	"github.com/vk/playbookgrid/internal/ids"
	"github.com/vk/playbookgrid/internal/playbook"
)

const (
	minConfidence = 0.05

	healthyScore      = 90
	failingScoreBase  = 80
	failingScoreStep  = 20
	failingScoreFloor = 20

	healthyConfidence      = 0.96
	failingConfidenceStep  = 0.15
	failingConfidenceFloor = 0.35
)

// Projector computes telemetry views. Now is the clock used for elapsed time;
// a nil Now means time.Now.
type Projector struct {
	Now func() time.Time
}

var defaultProjector = Projector{}

// SummarizePlan is Projector.SummarizePlan using the wall clock.
func SummarizePlan(plan *playbook.ExecutionPlan) playbook.PlanSummary {
	return defaultProjector.SummarizePlan(plan)
}

// BuildProjection is Projector.BuildProjection.
func BuildProjection(run *playbook.Run, order []ids.StepID) playbook.Projection {
	return defaultProjector.BuildProjection(run, order)
}

// ProjectSignal is Projector.ProjectSignal.
func ProjectSignal(run *playbook.Run) playbook.ReadinessSignal {
	return defaultProjector.ProjectSignal(run)
}

// BuildSnapshot is Projector.BuildSnapshot.
func BuildSnapshot(plan *playbook.ExecutionPlan, windows []playbook.ProgressWindow) playbook.TelemetrySnapshot {
	return defaultProjector.BuildSnapshot(plan, windows)
}

func (p Projector) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// SummarizePlan computes completion and failure ratios over the outcomes of
// the plan's run, the minutes elapsed since the run started, and a
// confidence of 1 - failureRatio clamped to [0.05, 1].
func (p Projector) SummarizePlan(plan *playbook.ExecutionPlan) playbook.PlanSummary {
	summary := playbook.PlanSummary{Confidence: 1}
	if plan == nil || plan.Run == nil {
		return summary
	}
	run := plan.Run

	if !run.StartedAt.IsZero() {
		summary.ElapsedMinutes = math.Max(0, p.now().Sub(run.StartedAt).Minutes())
	}

	total := len(run.OutcomeByStep)
	if total == 0 {
		return summary
	}
	var passed, failed int
	for _, outcome := range run.OutcomeByStep {
		switch outcome.Status {
		case playbook.OutcomePassed:
			passed++
		case playbook.OutcomeFailed:
			failed++
		}
	}
	summary.CompletionRatio = float64(passed) / float64(total)
	summary.FailureRatio = float64(failed) / float64(total)
	summary.Confidence = clamp(1-summary.FailureRatio, minConfidence, 1)
	return summary
}

// BuildProjection walks order and reports the first open step as active,
// plus the passed and failed steps in plan order.
func (p Projector) BuildProjection(run *playbook.Run, order []ids.StepID) playbook.Projection {
	projection := playbook.Projection{
		CompletedSteps: []ids.StepID{},
		FailedSteps:    []ids.StepID{},
	}
	if run != nil {
		projection.RunID = run.ID
		projection.BlueprintID = run.BlueprintID
	}

	for _, id := range order {
		outcome, ok := lookupOutcome(run, id)
		if !ok {
			continue
		}
		switch {
		case outcome.Status.IsOpen():
			if projection.ActiveStep == nil {
				active := id
				projection.ActiveStep = &active
			}
		case outcome.Status == playbook.OutcomePassed:
			projection.CompletedSteps = append(projection.CompletedSteps, id)
		case outcome.Status == playbook.OutcomeFailed:
			projection.FailedSteps = append(projection.FailedSteps, id)
		}
	}

	if len(order) > 0 {
		projection.Confidence = 1 - float64(len(projection.FailedSteps))/float64(len(order))
	}
	return projection
}

// ProjectSignal scores run health. Outcomes are visited in ascending step id
// order: the signal names the first failed step, or the first step when
// nothing failed.
func (p Projector) ProjectSignal(run *playbook.Run) playbook.ReadinessSignal {
	signal := playbook.ReadinessSignal{
		Score:      healthyScore,
		Confidence: healthyConfidence,
		Evidence:   []string{},
	}

	var firstFailed ids.StepID
	failures := 0
	for _, id := range run.SortedStepIDs() {
		outcome := run.OutcomeByStep[id]
		if signal.StepID == "" {
			signal.StepID = id
		}
		switch outcome.Status {
		case playbook.OutcomeFailed:
			if failures == 0 {
				firstFailed = id
			}
			failures++
			signal.Evidence = append(signal.Evidence, fmt.Sprintf("%s:%s", id, outcome.Status))
		case playbook.OutcomePassed:
			signal.Evidence = append(signal.Evidence, fmt.Sprintf("%s:%s", id, outcome.Status))
		}
	}

	if failures > 0 {
		signal.StepID = firstFailed
		signal.Score = math.Max(failingScoreFloor, failingScoreBase-failingScoreStep*float64(failures))
		signal.Confidence = math.Max(failingConfidenceFloor, 1-failingConfidenceStep*float64(failures))
	}
	return signal
}

// BuildSnapshot bundles the plan's run with the supplied windows and its
// projection. The readiness signal is only attached when there is at least
// one window.
func (p Projector) BuildSnapshot(plan *playbook.ExecutionPlan, windows []playbook.ProgressWindow) playbook.TelemetrySnapshot {
	var (
		run   *playbook.Run
		order []ids.StepID
	)
	if plan != nil {
		run = plan.Run
		order = plan.Order
	}
	if windows == nil {
		windows = []playbook.ProgressWindow{}
	}

	snapshot := playbook.TelemetrySnapshot{
		Run:        run,
		Windows:    windows,
		Projection: p.BuildProjection(run, order),
	}
	if len(windows) > 0 {
		signal := p.ProjectSignal(run)
		snapshot.Signal = &signal
	}
	return snapshot
}

func lookupOutcome(run *playbook.Run, id ids.StepID) (playbook.StepOutcome, bool) {
	if run == nil {
		return playbook.StepOutcome{}, false
	}
	outcome, ok := run.OutcomeByStep[id]
	return outcome, ok
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
