// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package validator

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/vk/playbookgrid/internal/config"
	"github.com/vk/playbookgrid/internal/ids"
	"github.com/vk/playbookgrid/internal/playbook"
)

// ParseBlueprint validates a raw blueprint document and returns the typed
// blueprint. It returns a *SchemaError, a *DependencyError or a *CycleError,
// in that order of precedence.
func ParseBlueprint(raw *config.RawBlueprint) (*playbook.Blueprint, error) {
	issues := &SchemaError{}
	if raw == nil {
		issues.Add("", "blueprint document is empty")
		return nil, issues
	}

	bp := &playbook.Blueprint{
		Title:   strings.TrimSpace(raw.Title),
		Service: strings.TrimSpace(raw.Service),
		Owner:   strings.TrimSpace(raw.Owner),
		Version: raw.Version,
	}

	var err error
	if bp.ID, err = ids.ParseBlueprintID(raw.ID); err != nil {
		issues.Add("id", err.Error())
	}
	requireText(issues, "title", bp.Title)
	requireText(issues, "service", bp.Service)
	if bp.Severity, err = playbook.ParseSeverity(raw.Severity); err != nil {
		issues.Add("severity", err.Error())
	}
	if bp.RiskTier, err = playbook.ParseRiskTier(raw.RiskTier); err != nil {
		issues.Add("riskTier", err.Error())
	}
	if raw.Timeline != nil {
		bp.Timeline = parseTimeline(issues, "timeline", raw.Timeline)
	}
	bp.Labels = parseLabels(issues, raw.Labels)

	bp.CreatedAt = parseTimestamp(issues, "createdAt", raw.CreatedAt)
	bp.UpdatedAt = parseTimestamp(issues, "updatedAt", raw.UpdatedAt)
	if !bp.CreatedAt.IsZero() && !bp.UpdatedAt.IsZero() && bp.UpdatedAt.Before(bp.CreatedAt) {
		issues.Add("updatedAt", "must not be before createdAt")
	}
	if raw.Version < 1 {
		issues.Addf("version", "must be a positive integer, got %d", raw.Version)
	}

	bp.Steps = make([]playbook.StepTemplate, 0, len(raw.Steps))
	seen := make(map[ids.StepID]int, len(raw.Steps))
	for i, rs := range raw.Steps {
		step := parseStep(issues, fmt.Sprintf("steps[%d]", i), rs)
		if step.ID != "" {
			if first, dup := seen[step.ID]; dup {
				issues.Addf(fmt.Sprintf("steps[%d].id", i), "duplicate step id %q (first declared at steps[%d])", step.ID, first)
			} else {
				seen[step.ID] = i
			}
		}
		bp.Steps = append(bp.Steps, step)
	}

	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	if err := ResolveDependencies(bp.Steps); err != nil {
		return nil, err
	}
	if err := EnsureAcyclic(bp.Steps); err != nil {
		return nil, err
	}
	return bp, nil
}

// ResolveDependencies checks that every dependency names a step in steps.
func ResolveDependencies(steps []playbook.StepTemplate) error {
	known := make(map[ids.StepID]struct{}, len(steps))
	for _, step := range steps {
		known[step.ID] = struct{}{}
	}
	var unresolved []UnresolvedDependency
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := known[dep]; !ok {
				unresolved = append(unresolved, UnresolvedDependency{Step: step.ID, Missing: dep})
			}
		}
	}
	if len(unresolved) > 0 {
		return &DependencyError{Unresolved: unresolved}
	}
	return nil
}

func parseStep(issues *SchemaError, path string, rs config.RawStep) playbook.StepTemplate {
	step := playbook.StepTemplate{
		Title:                  strings.TrimSpace(rs.Title),
		Owner:                  strings.TrimSpace(rs.Owner),
		ExpectedLatencyMinutes: rs.ExpectedLatencyMinutes,
		RiskDelta:              rs.RiskDelta,
		AutomationLevel:        rs.AutomationLevel,
	}

	var err error
	if step.ID, err = ids.ParseStepID(rs.ID); err != nil {
		issues.Add(path+".id", err.Error())
	}
	requireText(issues, path+".title", step.Title)
	if step.Kind, err = playbook.ParseStepKind(rs.Kind); err != nil {
		issues.Add(path+".kind", err.Error())
	}
	if step.Scope, err = playbook.ParseScope(rs.Scope); err != nil {
		issues.Add(path+".scope", err.Error())
	}

	if math.IsNaN(rs.ExpectedLatencyMinutes) || math.IsInf(rs.ExpectedLatencyMinutes, 0) || rs.ExpectedLatencyMinutes <= 0 {
		issues.Addf(path+".expectedLatencyMinutes", "must be a positive number of minutes, got %v", rs.ExpectedLatencyMinutes)
	}
	if math.IsNaN(rs.RiskDelta) || math.IsInf(rs.RiskDelta, 0) {
		issues.Add(path+".riskDelta", "must be a finite number")
	}
	if rs.AutomationLevel < 0 || rs.AutomationLevel > playbook.MaxAutomationLevel {
		issues.Addf(path+".automationLevel", "must be between 0 and %d, got %d", playbook.MaxAutomationLevel, rs.AutomationLevel)
	}

	step.DependsOn = make([]ids.StepID, 0, len(rs.DependsOn))
	seenDeps := make(map[ids.StepID]struct{}, len(rs.DependsOn))
	for j, rawDep := range rs.DependsOn {
		dep, err := ids.ParseStepID(rawDep)
		if err != nil {
			issues.Add(fmt.Sprintf("%s.dependsOn[%d]", path, j), err.Error())
			continue
		}
		if dep == step.ID {
			issues.Addf(fmt.Sprintf("%s.dependsOn[%d]", path, j), "step %q cannot depend on itself", dep)
			continue
		}
		if _, dup := seenDeps[dep]; dup {
			continue
		}
		seenDeps[dep] = struct{}{}
		step.DependsOn = append(step.DependsOn, dep)
	}

	if len(rs.Metadata) > 0 {
		step.Metadata = make(map[string]string, len(rs.Metadata))
		for k, v := range rs.Metadata {
			step.Metadata[k] = v
		}
	}

	step.Actions = make([]string, 0, len(rs.Actions))
	for j, action := range rs.Actions {
		action = strings.TrimSpace(action)
		if action == "" {
			issues.Add(fmt.Sprintf("%s.actions[%d]", path, j), "action cannot be empty")
			continue
		}
		step.Actions = append(step.Actions, action)
	}
	return step
}

func parseLabels(issues *SchemaError, raw []string) []string {
	set := make(map[string]struct{}, len(raw))
	for i, label := range raw {
		label = strings.TrimSpace(label)
		if label == "" {
			issues.Add(fmt.Sprintf("labels[%d]", i), "label cannot be empty")
			continue
		}
		set[label] = struct{}{}
	}
	labels := make([]string, 0, len(set))
	for label := range set {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

func parseTimeline(issues *SchemaError, path string, raw *config.RawTimeline) playbook.TimelineWindow {
	window := playbook.TimelineWindow{
		StartsAt: parseTimestamp(issues, path+".startsAt", raw.StartsAt),
	}
	if strings.TrimSpace(raw.EndsAt) != "" {
		window.EndsAt = parseTimestamp(issues, path+".endsAt", raw.EndsAt)
		if !window.StartsAt.IsZero() && !window.EndsAt.IsZero() && window.EndsAt.Before(window.StartsAt) {
			issues.Add(path+".endsAt", "must not be before startsAt")
		}
	}
	return window
}

// parseTimestamp reads a required RFC 3339 timestamp and normalizes it to UTC.
func parseTimestamp(issues *SchemaError, field, raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		issues.Add(field, "timestamp is required")
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		issues.Addf(field, "invalid RFC 3339 timestamp %q", raw)
		return time.Time{}
	}
	return ts.UTC()
}

func requireText(issues *SchemaError, field, value string) {
	if value == "" {
		issues.Add(field, "cannot be empty")
	}
}
