// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the records produced by the constraint gate. They are
// plain values so callers can render the full list, not just a verdict.
package playbook

import (
	"fmt"
	"strconv"

	"github.com/vk/playbookgrid/internal/ids"
)

// ViolationSeverity grades a constraint finding. Only ViolationError blocks
// planning; info and warn are advisory.
type ViolationSeverity string

const (
	ViolationInfo  ViolationSeverity = "info"
	ViolationWarn  ViolationSeverity = "warn"
	ViolationError ViolationSeverity = "error"
)

var allViolationSeverities = []ViolationSeverity{ViolationInfo, ViolationWarn, ViolationError}

// ParseViolationSeverity parses a violation severity name.
func ParseViolationSeverity(raw string) (ViolationSeverity, error) {
	return parseEnum("violation severity", raw, allViolationSeverities)
}

func (s ViolationSeverity) String() string { return string(s) }

func (s ViolationSeverity) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *ViolationSeverity) UnmarshalText(text []byte) error {
	parsed, err := ParseViolationSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Violation is a single finding of the constraint gate. StepID is empty for
// blueprint-level findings.
type Violation struct {
	Key      string            `json:"key"`
	Message  string            `json:"message"`
	Severity ViolationSeverity `json:"severity"`
	StepID   ids.StepID        `json:"stepId,omitempty"`
}

func (v Violation) String() string {
	if v.StepID != "" {
		return fmt.Sprintf("[%s] %s (%s): %s", v.Severity, v.Key, v.StepID, v.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", v.Severity, v.Key, v.Message)
}

// GateResult is the verdict of a feasibility check. OK is true iff no
// violation has severity error.
type GateResult struct {
	OK         bool        `json:"ok"`
	Violations []Violation `json:"violations"`
}

// NewGateResult derives OK from the violation list.
func NewGateResult(violations []Violation) GateResult {
	if violations == nil {
		violations = []Violation{}
	}
	return GateResult{OK: !hasErrors(violations), Violations: violations}
}

// HasErrors reports whether any violation has severity error.
func (r GateResult) HasErrors() bool {
	return hasErrors(r.Violations)
}

// Errors returns the blocking violations.
func (r GateResult) Errors() []Violation {
	return r.filter(ViolationError)
}

// Warnings returns the warn-level violations.
func (r GateResult) Warnings() []Violation {
	return r.filter(ViolationWarn)
}

func (r GateResult) filter(severity ViolationSeverity) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == severity {
			out = append(out, v)
		}
	}
	return out
}

func hasErrors(violations []Violation) bool {
	for _, v := range violations {
		if v.Severity == ViolationError {
			return true
		}
	}
	return false
}

// ConstraintContext is the operational situation a blueprint is gated
// against.
type ConstraintContext struct {
	Service           string   `json:"service"`
	TimeBudgetMinutes float64  `json:"timeBudgetMinutes"`
	ActiveWorkload    int      `json:"activeWorkload"`
	RiskTier          RiskTier `json:"riskTier"`
}

// Fingerprint is a stable key for the context, suitable for memoization.
func (c ConstraintContext) Fingerprint() string {
	return c.Service + "|" +
		strconv.FormatFloat(c.TimeBudgetMinutes, 'g', -1, 64) + "|" +
		strconv.Itoa(c.ActiveWorkload) + "|" +
		string(c.RiskTier)
}
