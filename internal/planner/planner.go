package planner

import (
	"container/heap"
	"context"

	"github.com/vk/playbookgrid/internal/ctxlog"
	"github.com/vk/playbookgrid/internal/gate"
	"github.com/vk/playbookgrid/internal/ids"
	"github.com/vk/playbookgrid/internal/playbook"
)

const (
	defaultTimeBudgetMinutes = 120
	defaultActiveWorkload    = 9
)

// Options carries the optional inputs of BuildExecutionPlan.
type Options struct {
	// ActiveRun is attached to the plan as is. It may be nil.
	ActiveRun *playbook.Run
	// Overrides are merged onto the blueprint tier's default scheduling config.
	Overrides *playbook.SchedulingOverrides
}

// DefaultContext is the constraint context the planner gates a blueprint with.
func DefaultContext(bp *playbook.Blueprint) playbook.ConstraintContext {
	return playbook.ConstraintContext{
		Service:           bp.Service,
		TimeBudgetMinutes: defaultTimeBudgetMinutes,
		ActiveWorkload:    defaultActiveWorkload,
		RiskTier:          bp.RiskTier,
	}
}

// BuildExecutionPlan gates bp with DefaultContext and then orders its steps.
// It returns *InfeasibleError if the gate reports an error-severity
// violation and *UnschedulableError if the scheduler gets stuck. No partial
// plan is returned.
func BuildExecutionPlan(ctx context.Context, bp *playbook.Blueprint, opts Options) (*playbook.ExecutionPlan, error) {
	logger := ctxlog.FromContext(ctx).With("blueprint_id", bp.ID)
	logger.Debug("Planner: Checking feasibility.", "step_count", len(bp.Steps))

	result := gate.CanBlueprintRun(bp, DefaultContext(bp))
	if !result.OK {
		return nil, &InfeasibleError{BlueprintID: bp.ID, Violations: result.Violations}
	}
	logger.Debug("Planner: Feasibility check passed.", "violation_count", len(result.Violations))

	order, err := schedule(bp)
	if err != nil {
		return nil, err
	}
	logger.Debug("Planner: Scheduling complete.", "order", ids.StepIDStrings(order))

	return &playbook.ExecutionPlan{
		Run:         opts.ActiveRun,
		BlueprintID: bp.ID,
		Order:       order,
		RiskProfile: SeverityVector(bp.Steps),
		Merged:      opts.Overrides.Merge(playbook.DefaultSchedulingConfig(bp.RiskTier)),
	}, nil
}

// schedule repeatedly picks the lowest-risk ready step until none remain.
// Scores are computed once; a step joins the ready queue when its last
// dependency is scheduled.
func schedule(bp *playbook.Blueprint) ([]ids.StepID, error) {
	pending := make(map[ids.StepID]int, len(bp.Steps))
	dependents := make(map[ids.StepID][]ids.StepID, len(bp.Steps))
	scores := make(map[ids.StepID]float64, len(bp.Steps))
	ready := make(readyQueue, 0, len(bp.Steps))

	for _, step := range bp.Steps {
		scores[step.ID] = StepRisk(step)
		pending[step.ID] = len(step.DependsOn)
		for _, dep := range step.DependsOn {
			dependents[dep] = append(dependents[dep], step.ID)
		}
		if len(step.DependsOn) == 0 {
			ready = append(ready, readyStep{id: step.ID, score: scores[step.ID]})
		}
	}
	heap.Init(&ready)

	order := make([]ids.StepID, 0, len(bp.Steps))
	for ready.Len() > 0 {
		next := heap.Pop(&ready).(readyStep)
		order = append(order, next.id)
		delete(pending, next.id)
		for _, id := range dependents[next.id] {
			pending[id]--
			if pending[id] == 0 {
				heap.Push(&ready, readyStep{id: id, score: scores[id]})
			}
		}
	}

	if len(pending) > 0 {
		stuck := make([]ids.StepID, 0, len(pending))
		for id := range pending {
			stuck = append(stuck, id)
		}
		return nil, &UnschedulableError{BlueprintID: bp.ID, Remaining: ids.SortStepIDs(stuck)}
	}
	return order, nil
}

type readyStep struct {
	id    ids.StepID
	score float64
}

// readyQueue is a min-heap ordered by score, then step id.
type readyQueue []readyStep

func (q readyQueue) Len() int { return len(q) }

func (q readyQueue) Less(i, j int) bool {
	if q[i].score != q[j].score {
		return q[i].score < q[j].score
	}
	return q[i].id < q[j].id
}

func (q readyQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *readyQueue) Push(x any) { *q = append(*q, x.(readyStep)) }

func (q *readyQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
