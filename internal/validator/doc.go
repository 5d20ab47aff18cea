// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package validator is the parse boundary of the planner. It turns loose
// config documents into the strongly typed playbook model and proves that a
// blueprint's step-dependency graph is a DAG.
//
// Validation happens in three stages, each only reached when the previous one
// is clean:
//
//  1. Schema: field shapes and ranges. Every issue is collected into a single
//     SchemaError so an author can fix the whole document in one pass.
//  2. Resolution: every dependency id must name another step of the same
//     blueprint. Misses are reported together in a DependencyError.
//  3. Acyclicity: EnsureAcyclic runs an explicitly stacked depth-first search
//     and names the step where a cycle closes in a CycleError.
package validator
