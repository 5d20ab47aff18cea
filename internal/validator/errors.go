// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/playbookgrid/internal/ids"
)

var (
	// ErrSchema matches every *SchemaError.
	ErrSchema = errors.New("schema validation failed")
	// ErrDependency matches every *DependencyError and *CycleError.
	ErrDependency = errors.New("dependency resolution failed")
	// ErrCycle matches every *CycleError.
	ErrCycle = errors.New("dependency cycle detected")
)

// Issue is a single schema problem at a field path such as `steps[2].kind`.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return i.Field + ": " + i.Message
}

// SchemaError aggregates every schema issue found in a document.
type SchemaError struct {
	Issues []Issue
}

func (e *SchemaError) Error() string {
	if len(e.Issues) == 0 {
		return ErrSchema.Error()
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return ErrSchema.Error() + ": " + strings.Join(parts, "; ")
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// Add records an issue; blank messages are ignored.
func (e *SchemaError) Add(field, message string) {
	if strings.TrimSpace(message) == "" {
		return
	}
	e.Issues = append(e.Issues, Issue{Field: field, Message: message})
}

// Addf records a formatted issue.
func (e *SchemaError) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// OrNil returns nil when no issue was recorded.
func (e *SchemaError) OrNil() error {
	if e == nil || len(e.Issues) == 0 {
		return nil
	}
	return e
}

// UnresolvedDependency names a dependency id that matches no step.
type UnresolvedDependency struct {
	Step    ids.StepID `json:"step"`
	Missing ids.StepID `json:"missing"`
}

// DependencyError lists every unresolved dependency of a blueprint, in
// blueprint order.
type DependencyError struct {
	Unresolved []UnresolvedDependency
}

func (e *DependencyError) Error() string {
	parts := make([]string, len(e.Unresolved))
	for i, u := range e.Unresolved {
		parts[i] = fmt.Sprintf("step '%s' depends on unknown step '%s'", u.Step, u.Missing)
	}
	return ErrDependency.Error() + ": " + strings.Join(parts, "; ")
}

func (e *DependencyError) Is(target error) bool {
	return target == ErrDependency
}

// CycleError reports the step at which a dependency cycle was closed.
type CycleError struct {
	Step ids.StepID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected involving step '%s'", e.Step)
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCycle || target == ErrDependency
}
