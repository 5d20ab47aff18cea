// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the derived, read-only views of a run in progress.
package playbook

import (
	"time"

	"github.com/vk/playbookgrid/internal/ids"
)

// PlanSummary condenses the outcome map of a plan's run.
type PlanSummary struct {
	CompletionRatio float64 `json:"completionRatio"`
	ElapsedMinutes  float64 `json:"elapsedMinutes"`
	FailureRatio    float64 `json:"failureRatio"`
	Confidence      float64 `json:"confidence"`
}

// Projection is the run's progress seen through a plan order.
type Projection struct {
	RunID          ids.RunID       `json:"runId"`
	BlueprintID    ids.BlueprintID `json:"blueprintId"`
	ActiveStep     *ids.StepID     `json:"activeStep"`
	CompletedSteps []ids.StepID    `json:"completedSteps"`
	FailedSteps    []ids.StepID    `json:"failedSteps"`
	Confidence     float64         `json:"confidence"`
}

// ReadinessSignal is a compact, recomputed summary of current run health.
type ReadinessSignal struct {
	StepID     ids.StepID `json:"stepId"`
	Score      float64    `json:"score"`
	Confidence float64    `json:"confidence"`
	Evidence   []string   `json:"evidence"`
}

// ProgressWindow is a host-supplied time slice of run progress.
type ProgressWindow struct {
	Label           string    `json:"label"`
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	CompletionRatio float64   `json:"completionRatio"`
}

// TelemetrySnapshot bundles everything a dashboard needs for one refresh.
type TelemetrySnapshot struct {
	Run        *Run             `json:"run"`
	Windows    []ProgressWindow `json:"windows"`
	Projection Projection       `json:"projection"`
	Signal     *ReadinessSignal `json:"signal,omitempty"`
}
