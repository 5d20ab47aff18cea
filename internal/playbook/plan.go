// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the ExecutionPlan produced by the planner, together with
// its scheduling configuration and normalized severity vector.
package playbook

import (
	"strconv"
	"strings"

	"github.com/vk/playbookgrid/internal/ids"
)

// ParallelismPreference expresses how eagerly independent steps may overlap.
type ParallelismPreference string

const (
	ParallelismSequential ParallelismPreference = "sequential"
	ParallelismBalanced   ParallelismPreference = "balanced"
	ParallelismAggressive ParallelismPreference = "aggressive"
)

var allParallelism = []ParallelismPreference{ParallelismSequential, ParallelismBalanced, ParallelismAggressive}

// ParseParallelism parses a parallelism preference name.
func ParseParallelism(raw string) (ParallelismPreference, error) {
	return parseEnum("parallelism", raw, allParallelism)
}

func (p ParallelismPreference) MarshalText() ([]byte, error) { return []byte(p), nil }

func (p *ParallelismPreference) UnmarshalText(text []byte) error {
	parsed, err := ParseParallelism(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// RollbackPolicy controls what happens to completed steps when a run aborts.
type RollbackPolicy string

const (
	RollbackManual    RollbackPolicy = "manual"
	RollbackAutomatic RollbackPolicy = "automatic"
	RollbackNone      RollbackPolicy = "none"
)

var allRollbackPolicies = []RollbackPolicy{RollbackManual, RollbackAutomatic, RollbackNone}

// ParseRollbackPolicy parses a rollback policy name.
func ParseRollbackPolicy(raw string) (RollbackPolicy, error) {
	return parseEnum("rollback policy", raw, allRollbackPolicies)
}

func (p RollbackPolicy) MarshalText() ([]byte, error) { return []byte(p), nil }

func (p *RollbackPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseRollbackPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// SchedulingConfig is the merged scheduling preference attached to a plan.
type SchedulingConfig struct {
	Parallelism      ParallelismPreference `json:"parallelism"`
	MaxParallelSteps int                   `json:"maxParallelSteps"`
	AutoEscalate     bool                  `json:"autoEscalate"`
	RollbackPolicy   RollbackPolicy        `json:"rollbackPolicy"`
}

// DefaultSchedulingConfig is the baseline for a tier before overrides.
func DefaultSchedulingConfig(tier RiskTier) SchedulingConfig {
	maxParallel := tier.MaxConcurrency()
	if maxParallel < 1 {
		maxParallel = 1
	}
	return SchedulingConfig{
		Parallelism:      ParallelismSequential,
		MaxParallelSteps: maxParallel,
		AutoEscalate:     tier.AtLeast(TierHigh),
		RollbackPolicy:   RollbackManual,
	}
}

// SchedulingOverrides carries caller preferences; nil fields keep the default.
type SchedulingOverrides struct {
	Parallelism      *ParallelismPreference `json:"parallelism,omitempty"`
	MaxParallelSteps *int                   `json:"maxParallelSteps,omitempty"`
	AutoEscalate     *bool                  `json:"autoEscalate,omitempty"`
	RollbackPolicy   *RollbackPolicy        `json:"rollbackPolicy,omitempty"`
}

// Merge overlays the non-nil overrides onto base and returns the result.
func (o *SchedulingOverrides) Merge(base SchedulingConfig) SchedulingConfig {
	if o == nil {
		return base
	}
	merged := base
	if o.Parallelism != nil {
		merged.Parallelism = *o.Parallelism
	}
	if o.MaxParallelSteps != nil && *o.MaxParallelSteps > 0 {
		merged.MaxParallelSteps = *o.MaxParallelSteps
	}
	if o.AutoEscalate != nil {
		merged.AutoEscalate = *o.AutoEscalate
	}
	if o.RollbackPolicy != nil {
		merged.RollbackPolicy = *o.RollbackPolicy
	}
	return merged
}

// Fingerprint is a stable key for the overrides, suitable for memoization.
func (o *SchedulingOverrides) Fingerprint() string {
	if o == nil {
		return "-"
	}
	parts := []string{"-", "-", "-", "-"}
	if o.Parallelism != nil {
		parts[0] = string(*o.Parallelism)
	}
	if o.MaxParallelSteps != nil {
		parts[1] = strconv.Itoa(*o.MaxParallelSteps)
	}
	if o.AutoEscalate != nil {
		parts[2] = strconv.FormatBool(*o.AutoEscalate)
	}
	if o.RollbackPolicy != nil {
		parts[3] = string(*o.RollbackPolicy)
	}
	return strings.Join(parts, "|")
}

// SeverityVector is the normalized minor/major/catastrophic weighting of a
// blueprint's steps. Its components sum to 1.
type SeverityVector struct {
	Minor        float64 `json:"minor"`
	Major        float64 `json:"major"`
	Catastrophic float64 `json:"catastrophic"`
}

const (
	defaultMinorWeight        = 0.34
	defaultMajorWeight        = 0.33
	defaultCatastrophicWeight = 0.33
)

// DefaultSeverityVector returns the fixed fallback used when every step
// weight is zero. It is a compatibility constant, not a computed equilibrium.
func DefaultSeverityVector() SeverityVector {
	return SeverityVector{
		Minor:        defaultMinorWeight,
		Major:        defaultMajorWeight,
		Catastrophic: defaultCatastrophicWeight,
	}
}

// Sum returns the total of the three components.
func (v SeverityVector) Sum() float64 {
	return v.Minor + v.Major + v.Catastrophic
}

// ExecutionPlan is the planner's output: a total, dependency-respecting step
// order plus the blueprint's risk profile. Run may be nil when the plan was
// built ahead of any run.
type ExecutionPlan struct {
	Run         *Run             `json:"runbook"`
	BlueprintID ids.BlueprintID  `json:"blueprintId"`
	Order       []ids.StepID     `json:"order"`
	RiskProfile SeverityVector   `json:"riskProfile"`
	Merged      SchedulingConfig `json:"merged"`
}
