// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines StepKind and Scope together with the per-kind policy
// tables consulted by the constraint gate and the execution planner.
package playbook

// StepKind is the closed set of remediation step categories.
type StepKind string

const (
	KindAssess     StepKind = "assess"
	KindNotify     StepKind = "notify"
	KindIsolate    StepKind = "isolate"
	KindRestore    StepKind = "restore"
	KindVerify     StepKind = "verify"
	KindPostmortem StepKind = "postmortem"
)

var allStepKinds = []StepKind{KindAssess, KindNotify, KindIsolate, KindRestore, KindVerify, KindPostmortem}

// AllStepKinds returns every known step kind in canonical order.
func AllStepKinds() []StepKind {
	return append([]StepKind(nil), allStepKinds...)
}

// ParseStepKind parses a step kind name.
func ParseStepKind(raw string) (StepKind, error) {
	return parseEnum("step kind", raw, allStepKinds)
}

func (k StepKind) String() string { return string(k) }

// Valid reports whether k is one of the known kinds.
func (k StepKind) Valid() bool { return containsEnum(k, allStepKinds) }

func (k StepKind) MarshalText() ([]byte, error) { return []byte(k), nil }

func (k *StepKind) UnmarshalText(text []byte) error {
	parsed, err := ParseStepKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// RiskMultiplier scales a step's expected latency into projected minutes.
// Containment and restoration work tends to overrun, notification rarely does.
func (k StepKind) RiskMultiplier() float64 {
	switch k {
	case KindAssess:
		return 1.0
	case KindNotify:
		return 0.6
	case KindIsolate:
		return 1.6
	case KindRestore:
		return 1.8
	case KindVerify:
		return 1.1
	case KindPostmortem:
		return 0.5
	}
	return 0
}

// BudgetUnits is the automation capacity one concurrency slot grants a step
// of this kind.
func (k StepKind) BudgetUnits() int {
	switch k {
	case KindAssess, KindNotify, KindVerify, KindPostmortem:
		return 3
	case KindIsolate, KindRestore:
		return 2
	}
	return 0
}

// Weight is the kind factor of the scheduler's risk score.
func (k StepKind) Weight() float64 {
	switch k {
	case KindAssess:
		return 1.2
	case KindNotify:
		return 0.8
	case KindIsolate:
		return 2.5
	case KindRestore:
		return 2.2
	case KindVerify:
		return 1.4
	case KindPostmortem:
		return 0.6
	}
	return 0
}

// Scope describes the blast radius a step operates on.
type Scope string

const (
	ScopeService Scope = "service"
	ScopeCluster Scope = "cluster"
	ScopeRegion  Scope = "region"
	ScopeGlobal  Scope = "global"
)

var allScopes = []Scope{ScopeService, ScopeCluster, ScopeRegion, ScopeGlobal}

// ParseScope parses a scope name.
func ParseScope(raw string) (Scope, error) {
	return parseEnum("scope", raw, allScopes)
}

func (s Scope) String() string { return string(s) }

// Valid reports whether s is one of the known scopes.
func (s Scope) Valid() bool { return containsEnum(s, allScopes) }

func (s Scope) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *Scope) UnmarshalText(text []byte) error {
	parsed, err := ParseScope(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
