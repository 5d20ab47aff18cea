// This file translates the HCL schema structs into the format-agnostic raw
// documents defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/vk/playbookgrid/internal/config"
	"github.com/vk/playbookgrid/internal/ctxlog"
)

func translateBlueprint(ctx context.Context, b *blueprintBlock) (*config.RawBlueprint, error) {
	ctx, logger := ctxlog.With(ctx, "blueprint_id", b.ID)
	logger.Debug("Translating HCL blueprint to raw config model.", "step_count", len(b.Steps))

	raw := &config.RawBlueprint{
		ID:        b.ID,
		Title:     b.Title,
		Service:   b.Service,
		Severity:  b.Severity,
		RiskTier:  b.RiskTier,
		Timeline:  translateTimeline(b.Timeline),
		Owner:     b.Owner,
		Labels:    b.Labels,
		Steps:     make([]config.RawStep, 0, len(b.Steps)),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
		Version:   b.Version,
	}

	for _, s := range b.Steps {
		stepCtx, _ := ctxlog.With(ctx, "step_id", s.ID)
		step, err := translateStep(stepCtx, s)
		if err != nil {
			return nil, err
		}
		raw.Steps = append(raw.Steps, step)
	}
	return raw, nil
}

func translateStep(ctx context.Context, s *stepBlock) (config.RawStep, error) {
	metadataVal, err := evalOptional(ctx, s.Metadata, "metadata")
	if err != nil {
		return config.RawStep{}, fmt.Errorf("in step '%s': %w", s.ID, err)
	}
	metadata, err := decodeStringMap(metadataVal)
	if err != nil {
		return config.RawStep{}, fmt.Errorf("in step '%s', attribute 'metadata': %w", s.ID, err)
	}

	return config.RawStep{
		ID:                     s.ID,
		Title:                  s.Title,
		Kind:                   s.Kind,
		Scope:                  s.Scope,
		Owner:                  s.Owner,
		DependsOn:              s.DependsOn,
		ExpectedLatencyMinutes: s.ExpectedLatencyMinutes,
		RiskDelta:              s.RiskDelta,
		AutomationLevel:        s.AutomationLevel,
		Metadata:               metadata,
		Actions:                s.Actions,
	}, nil
}

func translateRun(ctx context.Context, r *runBlock) (*config.RawRun, error) {
	logger := ctxlog.FromContext(ctx).With("run_id", r.ID)
	logger.Debug("Translating HCL run to raw config model.", "outcome_count", len(r.Outcomes))

	raw := &config.RawRun{
		ID:            r.ID,
		BlueprintID:   r.BlueprintID,
		TriggeredBy:   r.TriggeredBy,
		StartedAt:     r.StartedAt,
		Timeline:      translateTimeline(r.Timeline),
		Status:        r.Status,
		OutcomeByStep: make(map[string]config.RawOutcome, len(r.Outcomes)),
		Notes:         r.Notes,
	}

	for _, o := range r.Outcomes {
		if _, dup := raw.OutcomeByStep[o.StepID]; dup {
			return nil, fmt.Errorf("duplicate outcome block for step '%s'", o.StepID)
		}
		detailVal, err := evalOptional(ctx, o.Detail, "detail")
		if err != nil {
			return nil, fmt.Errorf("in outcome '%s': %w", o.StepID, err)
		}
		detail, err := decodeObject(detailVal)
		if err != nil {
			return nil, fmt.Errorf("in outcome '%s', attribute 'detail': %w", o.StepID, err)
		}
		raw.OutcomeByStep[o.StepID] = config.RawOutcome{
			Status:     o.Status,
			Attempts:   o.Attempts,
			StartedAt:  o.StartedAt,
			FinishedAt: o.FinishedAt,
			Detail:     detail,
			Next:       o.Next,
		}
	}
	return raw, nil
}

func translateTimeline(t *timelineBlock) *config.RawTimeline {
	if t == nil {
		return nil
	}
	return &config.RawTimeline{StartsAt: t.StartsAt, EndsAt: t.EndsAt}
}
