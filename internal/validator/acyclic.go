// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package validator

import (
	"github.com/vk/playbookgrid/internal/ids"
	"github.com/vk/playbookgrid/internal/playbook"
)

type color uint8

const (
	white color = iota // unvisited
	grey               // on the current traversal path
	black              // finished, known to be cycle-free
)

// frame is one level of the explicit DFS stack: the step being expanded and
// the position of the next dependency to follow.
type frame struct {
	step int
	next int
}

// EnsureAcyclic checks that the dependency relation of steps has no cycle.
// It returns a *CycleError naming the step at which the cycle closes.
//
// Roots are visited in slice order and dependencies in declared order, so
// the reported step is deterministic. Every step is expanded exactly once,
// giving O(steps + edges) time. Dependencies that do not name a step in the
// slice are ignored here; resolution is reported separately.
func EnsureAcyclic(steps []playbook.StepTemplate) error {
	index := make(map[ids.StepID]int, len(steps))
	for i, step := range steps {
		if _, dup := index[step.ID]; !dup {
			index[step.ID] = i
		}
	}

	colors := make([]color, len(steps))
	stack := make([]frame, 0, len(steps))

	for root := range steps {
		if colors[root] != white {
			continue
		}
		colors[root] = grey
		stack = append(stack, frame{step: root})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			deps := steps[top.step].DependsOn
			if top.next == len(deps) {
				colors[top.step] = black
				stack = stack[:len(stack)-1]
				continue
			}

			dep := deps[top.next]
			top.next++
			target, ok := index[dep]
			if !ok {
				continue
			}
			switch colors[target] {
			case grey:
				return &CycleError{Step: steps[target].ID}
			case white:
				colors[target] = grey
				stack = append(stack, frame{step: target})
			}
		}
	}
	return nil
}
