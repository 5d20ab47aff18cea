// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Blueprint and StepTemplate structures. Both are
// immutable once produced by the validator: consumers borrow them for a
// single computation and never write to them.
package playbook

import (
	"time"

	"github.com/vk/playbookgrid/internal/ids"
)

// StepTemplate is a single remediation step inside a blueprint.
type StepTemplate struct {
	ID                     ids.StepID        `json:"id"`
	Title                  string            `json:"title"`
	Kind                   StepKind          `json:"kind"`
	Scope                  Scope             `json:"scope"`
	Owner                  string            `json:"owner"`
	DependsOn              []ids.StepID      `json:"dependsOn"`
	ExpectedLatencyMinutes float64           `json:"expectedLatencyMinutes"`
	RiskDelta              float64           `json:"riskDelta"`
	AutomationLevel        int               `json:"automationLevel"`
	Metadata               map[string]string `json:"metadata,omitempty"`
	Actions                []string          `json:"actions"`
}

// MaxAutomationLevel is the upper bound of StepTemplate.AutomationLevel.
const MaxAutomationLevel = 10

// TimelineWindow bounds when a blueprint or run is expected to be active.
// A zero EndsAt means the window is open-ended.
type TimelineWindow struct {
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt,omitempty"`
}

// OpenEnded reports whether the window has no end.
func (w TimelineWindow) OpenEnded() bool {
	return w.EndsAt.IsZero()
}

// Blueprint is the static definition of a recovery playbook.
type Blueprint struct {
	ID        ids.BlueprintID `json:"id"`
	Title     string          `json:"title"`
	Service   string          `json:"service"`
	Severity  Severity        `json:"severity"`
	RiskTier  RiskTier        `json:"riskTier"`
	Timeline  TimelineWindow  `json:"timeline"`
	Owner     string          `json:"owner"`
	Labels    []string        `json:"labels"`
	Steps     []StepTemplate  `json:"steps"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Version   int             `json:"version"`
}

// StepIDs returns the step ids in blueprint order.
func (b *Blueprint) StepIDs() []ids.StepID {
	out := make([]ids.StepID, len(b.Steps))
	for i, step := range b.Steps {
		out[i] = step.ID
	}
	return out
}

// StepIndex maps every step id to its position in the step list.
func (b *Blueprint) StepIndex() map[ids.StepID]int {
	index := make(map[ids.StepID]int, len(b.Steps))
	for i, step := range b.Steps {
		index[step.ID] = i
	}
	return index
}

// Step looks up a step by id.
func (b *Blueprint) Step(id ids.StepID) (StepTemplate, bool) {
	for _, step := range b.Steps {
		if step.ID == id {
			return step, true
		}
	}
	return StepTemplate{}, false
}

// EstimatedMinutes is the sum of every step's expected latency.
func (b *Blueprint) EstimatedMinutes() float64 {
	var total float64
	for _, step := range b.Steps {
		total += step.ExpectedLatencyMinutes
	}
	return total
}
