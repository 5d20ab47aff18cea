// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the blueprint-level Severity and RiskTier enumerations
// and the per-tier budgets that tighten as the tier escalates.
package playbook

// Severity is the incident impact class a blueprint is written for.
type Severity string

const (
	SeverityMinor        Severity = "minor"
	SeverityMajor        Severity = "major"
	SeverityCatastrophic Severity = "catastrophic"
)

var allSeverities = []Severity{SeverityMinor, SeverityMajor, SeverityCatastrophic}

// ParseSeverity parses a severity name.
func ParseSeverity(raw string) (Severity, error) {
	return parseEnum("severity", raw, allSeverities)
}

func (s Severity) String() string { return string(s) }

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool { return containsEnum(s, allSeverities) }

func (s Severity) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// RiskTier is the operational policy knob that controls time budgets and
// concurrency capacity.
type RiskTier string

const (
	TierNone     RiskTier = "none"
	TierLow      RiskTier = "low"
	TierMedium   RiskTier = "medium"
	TierHigh     RiskTier = "high"
	TierCritical RiskTier = "critical"
)

var allRiskTiers = []RiskTier{TierNone, TierLow, TierMedium, TierHigh, TierCritical}

// AllRiskTiers returns every known tier from least to most strict.
func AllRiskTiers() []RiskTier {
	return append([]RiskTier(nil), allRiskTiers...)
}

// ParseRiskTier parses a risk tier name.
func ParseRiskTier(raw string) (RiskTier, error) {
	return parseEnum("risk tier", raw, allRiskTiers)
}

func (t RiskTier) String() string { return string(t) }

// Valid reports whether t is one of the known tiers.
func (t RiskTier) Valid() bool { return containsEnum(t, allRiskTiers) }

func (t RiskTier) MarshalText() ([]byte, error) { return []byte(t), nil }

func (t *RiskTier) UnmarshalText(text []byte) error {
	parsed, err := ParseRiskTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Rank orders tiers from 0 (none) to 4 (critical); unknown tiers rank -1.
func (t RiskTier) Rank() int {
	for i, candidate := range allRiskTiers {
		if candidate == t {
			return i
		}
	}
	return -1
}

// AtLeast reports whether t is as strict as other or stricter.
func (t RiskTier) AtLeast(other RiskTier) bool {
	return t.Rank() >= other.Rank()
}

// TimeBudgetMinutes is the per-step minute tolerance under this tier.
func (t RiskTier) TimeBudgetMinutes() float64 {
	switch t {
	case TierNone:
		return 240
	case TierLow:
		return 180
	case TierMedium:
		return 120
	case TierHigh:
		return 60
	case TierCritical:
		return 30
	}
	return 0
}

// MaxConcurrency is the number of steps this tier allows in flight at once.
func (t RiskTier) MaxConcurrency() int {
	switch t {
	case TierNone:
		return 8
	case TierLow:
		return 6
	case TierMedium:
		return 4
	case TierHigh:
		return 2
	case TierCritical:
		return 1
	}
	return 0
}

// SeverityWeight maps the tier onto a 1..3 scale used by the risk cap note.
func (t RiskTier) SeverityWeight() float64 {
	switch t {
	case TierNone, TierLow:
		return 1
	case TierMedium:
		return 2
	case TierHigh, TierCritical:
		return 3
	}
	return 1
}
