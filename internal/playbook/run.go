// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Run and StepOutcome structures along with their
// status enumerations. The state machines are owned by the external
// actuator:
//
//	step:  pending -> running -> passed | failed | skipped
//	run:   draft -> active <-> paused -> completed | aborted
package playbook

import (
	"time"

	"github.com/vk/playbookgrid/internal/ids"
)

// RunStatus is the lifecycle state of a Run.
type RunStatus string

const (
	RunDraft     RunStatus = "draft"
	RunActive    RunStatus = "active"
	RunPaused    RunStatus = "paused"
	RunCompleted RunStatus = "completed"
	RunAborted   RunStatus = "aborted"
)

var allRunStatuses = []RunStatus{RunDraft, RunActive, RunPaused, RunCompleted, RunAborted}

// ParseRunStatus parses a run status name.
func ParseRunStatus(raw string) (RunStatus, error) {
	return parseEnum("run status", raw, allRunStatuses)
}

func (s RunStatus) String() string { return string(s) }

// Valid reports whether s is one of the known run statuses.
func (s RunStatus) Valid() bool { return containsEnum(s, allRunStatuses) }

// IsTerminal reports whether the run can no longer change.
func (s RunStatus) IsTerminal() bool {
	return s == RunCompleted || s == RunAborted
}

func (s RunStatus) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *RunStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseRunStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// OutcomeStatus is the lifecycle state of a single step within a run.
type OutcomeStatus string

const (
	OutcomePending OutcomeStatus = "pending"
	OutcomeRunning OutcomeStatus = "running"
	OutcomePassed  OutcomeStatus = "passed"
	OutcomeFailed  OutcomeStatus = "failed"
	OutcomeSkipped OutcomeStatus = "skipped"
)

var allOutcomeStatuses = []OutcomeStatus{OutcomePending, OutcomeRunning, OutcomePassed, OutcomeFailed, OutcomeSkipped}

// ParseOutcomeStatus parses a step outcome status name.
func ParseOutcomeStatus(raw string) (OutcomeStatus, error) {
	return parseEnum("outcome status", raw, allOutcomeStatuses)
}

func (s OutcomeStatus) String() string { return string(s) }

// Valid reports whether s is one of the known outcome statuses.
func (s OutcomeStatus) Valid() bool { return containsEnum(s, allOutcomeStatuses) }

// IsOpen reports whether the step has not finished yet.
func (s OutcomeStatus) IsOpen() bool {
	return s == OutcomePending || s == OutcomeRunning
}

func (s OutcomeStatus) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *OutcomeStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseOutcomeStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// StepOutcome is the actuator-reported state of one step in a run.
type StepOutcome struct {
	Status     OutcomeStatus  `json:"status"`
	Attempts   int            `json:"attempts"`
	StartedAt  *time.Time     `json:"startedAt,omitempty"`
	FinishedAt *time.Time     `json:"finishedAt,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
	Next       []ids.StepID   `json:"next,omitempty"`
}

// Run is a live execution attempt against a blueprint.
type Run struct {
	ID            ids.RunID                  `json:"id"`
	BlueprintID   ids.BlueprintID            `json:"blueprintId"`
	TriggeredBy   string                     `json:"triggeredBy"`
	StartedAt     time.Time                  `json:"startedAt"`
	Timeline      TimelineWindow             `json:"timeline"`
	Status        RunStatus                  `json:"status"`
	OutcomeByStep map[ids.StepID]StepOutcome `json:"outcomeByStep"`
	Notes         []string                   `json:"notes,omitempty"`
}

// NewDraftRun returns an empty run in draft state targeting blueprint.
func NewDraftRun(id ids.RunID, blueprint ids.BlueprintID, triggeredBy string, startedAt time.Time) *Run {
	return &Run{
		ID:            id,
		BlueprintID:   blueprint,
		TriggeredBy:   triggeredBy,
		StartedAt:     startedAt,
		Timeline:      TimelineWindow{StartsAt: startedAt},
		Status:        RunDraft,
		OutcomeByStep: make(map[ids.StepID]StepOutcome),
	}
}

// SortedStepIDs returns the ids present in the outcome map in ascending order.
func (r *Run) SortedStepIDs() []ids.StepID {
	if r == nil {
		return nil
	}
	out := make([]ids.StepID, 0, len(r.OutcomeByStep))
	for id := range r.OutcomeByStep {
		out = append(out, id)
	}
	return ids.SortStepIDs(out)
}
