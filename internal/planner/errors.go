package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/playbookgrid/internal/ids"
	"github.com/vk/playbookgrid/internal/playbook"
)

var (
	// ErrInfeasible is wrapped by InfeasibleError.
	ErrInfeasible = errors.New("blueprint is not feasible")
	// ErrUnschedulable is wrapped by UnschedulableError.
	ErrUnschedulable = errors.New("blueprint cannot be scheduled")
)

// InfeasibleError is returned when the constraint gate rejects a blueprint.
// It carries the full violation list, advisory findings included.
type InfeasibleError struct {
	BlueprintID ids.BlueprintID
	Violations  []playbook.Violation
}

func (e *InfeasibleError) Error() string {
	var messages []string
	for _, v := range e.Violations {
		if v.Severity == playbook.ViolationError {
			messages = append(messages, v.Message)
		}
	}
	return fmt.Sprintf("blueprint %s is infeasible: %s", e.BlueprintID, strings.Join(messages, "; "))
}

func (e *InfeasibleError) Unwrap() error { return ErrInfeasible }

// UnschedulableError is returned when no step is ready while some remain.
type UnschedulableError struct {
	BlueprintID ids.BlueprintID
	Remaining   []ids.StepID
}

func (e *UnschedulableError) Error() string {
	return fmt.Sprintf("blueprint %s is unschedulable: no ready step among %v",
		e.BlueprintID, ids.StepIDStrings(e.Remaining))
}

func (e *UnschedulableError) Unwrap() error { return ErrUnschedulable }
