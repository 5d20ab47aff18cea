// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package playbook provides the Go representation of incident-recovery
// playbooks and of the values derived from them.
//
// # Core Concepts
//
//   - Blueprint: the static definition of a recovery playbook. It owns an
//     ordered list of StepTemplates, a severity and a RiskTier.
//
//   - StepTemplate: one unit of remediation work (assess, notify, isolate,
//     restore, verify, postmortem) with its dependencies, expected latency and
//     automation level.
//
//   - Run: a live execution attempt against a blueprint, tracked through one
//     StepOutcome per step. Runs are written by an external actuator; this
//     repository only reads them.
//
//   - ExecutionPlan, Projection, ReadinessSignal, TelemetrySnapshot: values
//     computed from the above. They are always freshly allocated and never
//     alias the blueprint or run they were derived from.
//
// The closed enumerations (StepKind, RiskTier, ...) carry their policy tables
// as exhaustive switches, so adding a new kind or tier is a compile-visible
// change at the single place its weights are defined.
package playbook
