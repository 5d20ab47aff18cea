package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/playbookgrid/internal/playbook"
	"github.com/vk/playbookgrid/internal/publish"
)

// ErrMissingRun is returned by Project when no run file is given.
var ErrMissingRun = errors.New("a run file is required for projection")

// ProjectRequest names the inputs of a projection.
type ProjectRequest struct {
	BlueprintPath string
	RunPath       string
	Windows       []playbook.ProgressWindow
}

// ProjectionReport bundles the plan with its derived telemetry.
type ProjectionReport struct {
	Plan      *playbook.ExecutionPlan    `json:"plan"`
	Summary   playbook.PlanSummary       `json:"summary"`
	Snapshot  playbook.TelemetrySnapshot `json:"snapshot"`
	Published bool                       `json:"published"`
}

// Project plans a blueprint against a run, derives its telemetry and, when a
// publish URL is configured, emits the snapshot to the dashboard.
func (a *App) Project(ctx context.Context, req ProjectRequest) (*ProjectionReport, error) {
	if req.RunPath == "" {
		return nil, ErrMissingRun
	}
	plan, err := a.Plan(ctx, PlanRequest{BlueprintPath: req.BlueprintPath, RunPath: req.RunPath})
	if err != nil {
		return nil, err
	}

	windows := make([]playbook.ProgressWindow, len(req.Windows))
	for i, w := range req.Windows {
		w.CompletionRatio = windowCompletion(plan.Run, w)
		windows[i] = w
	}

	report := &ProjectionReport{
		Plan:     plan,
		Summary:  a.projector.SummarizePlan(plan),
		Snapshot: a.projector.BuildSnapshot(plan, windows),
	}
	a.logger.Info("Telemetry projected.",
		"run_id", plan.Run.ID,
		"completion_ratio", report.Summary.CompletionRatio,
		"confidence", report.Summary.Confidence,
	)

	if a.config.PublishURL == "" {
		return report, nil
	}
	if err := a.publish(ctx, report.Snapshot); err != nil {
		return nil, err
	}
	report.Published = true
	return report, nil
}

func (a *App) publish(ctx context.Context, snapshot playbook.TelemetrySnapshot) error {
	ctx = a.context(ctx)
	pub, err := a.dial(ctx, publish.SocketOptions{
		URL:                a.config.PublishURL,
		Namespace:          a.config.PublishNamespace,
		Event:              a.config.PublishEvent,
		Timeout:            a.config.PublishTimeout,
		AckEvent:           a.config.PublishAckEvent,
		InsecureSkipVerify: a.config.PublishInsecureSkipVerify,
	})
	if err != nil {
		return fmt.Errorf("failed to connect snapshot publisher: %w", err)
	}
	defer pub.Close()

	if err := pub.Publish(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to publish snapshot: %w", err)
	}
	a.logger.Info("Snapshot published.", "url", a.config.PublishURL, "event", a.config.PublishEvent)
	return nil
}

// windowCompletion is the share of the run's outcomes that had passed by the
// end of w.
func windowCompletion(run *playbook.Run, w playbook.ProgressWindow) float64 {
	if run == nil || len(run.OutcomeByStep) == 0 {
		return 0
	}
	passed := 0
	for _, outcome := range run.OutcomeByStep {
		if outcome.Status == playbook.OutcomePassed && outcome.FinishedAt != nil && !outcome.FinishedAt.After(w.To) {
			passed++
		}
	}
	return float64(passed) / float64(len(run.OutcomeByStep))
}
