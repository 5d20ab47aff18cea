// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package validator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vk/playbookgrid/internal/config"
	"github.com/vk/playbookgrid/internal/ids"
	"github.com/vk/playbookgrid/internal/playbook"
)

// ParseRun validates a raw run-state document and returns the typed run.
// Outcome keys are validated as step ids but are not checked against any
// blueprint; the telemetry projector tolerates unknown steps.
func ParseRun(raw *config.RawRun) (*playbook.Run, error) {
	issues := &SchemaError{}
	if raw == nil {
		issues.Add("", "run document is empty")
		return nil, issues
	}

	run := &playbook.Run{
		TriggeredBy: strings.TrimSpace(raw.TriggeredBy),
	}

	var err error
	if run.ID, err = ids.ParseRunID(raw.ID); err != nil {
		issues.Add("id", err.Error())
	}
	if run.BlueprintID, err = ids.ParseBlueprintID(raw.BlueprintID); err != nil {
		issues.Add("blueprintId", err.Error())
	}
	requireText(issues, "triggeredBy", run.TriggeredBy)
	run.StartedAt = parseTimestamp(issues, "startedAt", raw.StartedAt)
	if raw.Timeline != nil {
		run.Timeline = parseTimeline(issues, "timeline", raw.Timeline)
	} else {
		run.Timeline = playbook.TimelineWindow{StartsAt: run.StartedAt}
	}
	if run.Status, err = playbook.ParseRunStatus(raw.Status); err != nil {
		issues.Add("status", err.Error())
	}

	run.OutcomeByStep = make(map[ids.StepID]playbook.StepOutcome, len(raw.OutcomeByStep))
	keys := make([]string, 0, len(raw.OutcomeByStep))
	for key := range raw.OutcomeByStep {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		path := fmt.Sprintf("outcomeByStep[%s]", key)
		stepID, err := ids.ParseStepID(key)
		if err != nil {
			issues.Add(path, err.Error())
			continue
		}
		if _, dup := run.OutcomeByStep[stepID]; dup {
			issues.Addf(path, "duplicate outcome for step %q", stepID)
			continue
		}
		run.OutcomeByStep[stepID] = parseOutcome(issues, path, raw.OutcomeByStep[key])
	}

	for _, note := range raw.Notes {
		if note = strings.TrimSpace(note); note != "" {
			run.Notes = append(run.Notes, note)
		}
	}

	if err := issues.OrNil(); err != nil {
		return nil, err
	}
	return run, nil
}

func parseOutcome(issues *SchemaError, path string, raw config.RawOutcome) playbook.StepOutcome {
	outcome := playbook.StepOutcome{Attempts: raw.Attempts}

	var err error
	if outcome.Status, err = playbook.ParseOutcomeStatus(raw.Status); err != nil {
		issues.Add(path+".status", err.Error())
	}
	if raw.Attempts < 0 {
		issues.Addf(path+".attempts", "must not be negative, got %d", raw.Attempts)
	}
	outcome.StartedAt = parseOptionalTimestamp(issues, path+".startedAt", raw.StartedAt)
	outcome.FinishedAt = parseOptionalTimestamp(issues, path+".finishedAt", raw.FinishedAt)
	if outcome.StartedAt != nil && outcome.FinishedAt != nil && outcome.FinishedAt.Before(*outcome.StartedAt) {
		issues.Add(path+".finishedAt", "must not be before startedAt")
	}

	if len(raw.Detail) > 0 {
		outcome.Detail = make(map[string]any, len(raw.Detail))
		for k, v := range raw.Detail {
			outcome.Detail[k] = v
		}
	}
	for j, rawNext := range raw.Next {
		next, err := ids.ParseStepID(rawNext)
		if err != nil {
			issues.Add(fmt.Sprintf("%s.next[%d]", path, j), err.Error())
			continue
		}
		outcome.Next = append(outcome.Next, next)
	}
	return outcome
}

func parseOptionalTimestamp(issues *SchemaError, field, raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	ts := parseTimestamp(issues, field, raw)
	if ts.IsZero() {
		return nil
	}
	return &ts
}
