package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vk/playbookgrid/internal/app"
	"github.com/vk/playbookgrid/internal/playbook"
	"github.com/vk/playbookgrid/internal/publish"
)

func newValidateCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <blueprint>",
		Short: "Parse a blueprint and run the constraint gate over it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := s.app.Validate(cmd.Context(), args[0])
			if err != nil {
				return exitError(err)
			}
			if err := s.writeJSON(report); err != nil {
				return err
			}
			if !report.Gate.OK {
				return &ExitError{
					Code:    ExitValidation,
					Message: fmt.Sprintf("blueprint %s failed %d constraint checks", report.BlueprintID, len(report.Gate.Errors())),
				}
			}
			return nil
		},
	}
}

type planFlags struct {
	run          string
	parallelism  string
	maxParallel  int
	autoEscalate bool
	rollback     string
}

// overrides builds scheduling overrides from the flags the user set.
func (f *planFlags) overrides(cmd *cobra.Command) (*playbook.SchedulingOverrides, error) {
	var o playbook.SchedulingOverrides
	set := false
	if cmd.Flags().Changed("parallelism") {
		p, err := playbook.ParseParallelism(f.parallelism)
		if err != nil {
			return nil, err
		}
		o.Parallelism, set = &p, true
	}
	if cmd.Flags().Changed("max-parallel") {
		n := f.maxParallel
		o.MaxParallelSteps, set = &n, true
	}
	if cmd.Flags().Changed("auto-escalate") {
		b := f.autoEscalate
		o.AutoEscalate, set = &b, true
	}
	if cmd.Flags().Changed("rollback") {
		r, err := playbook.ParseRollbackPolicy(f.rollback)
		if err != nil {
			return nil, err
		}
		o.RollbackPolicy, set = &r, true
	}
	if !set {
		return nil, nil
	}
	return &o, nil
}

// batchResult is the JSON shape of one PlanAll entry.
type batchResult struct {
	Path  string                  `json:"path"`
	Plan  *playbook.ExecutionPlan `json:"plan,omitempty"`
	Error string                  `json:"error,omitempty"`
}

func newPlanCmd(s *state) *cobra.Command {
	f := &planFlags{}
	cmd := &cobra.Command{
		Use:   "plan <blueprint>...",
		Short: "Build execution plans for one or more blueprints",
		Long: "Build execution plans. A single blueprint prints one plan object; several\n" +
			"blueprints, or a directory, are planned concurrently and print an array.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := f.overrides(cmd)
			if err != nil {
				return &ExitError{Code: ExitUsage, Message: err.Error()}
			}

			if len(args) == 1 && !isDir(args[0]) {
				plan, err := s.app.Plan(cmd.Context(), app.PlanRequest{
					BlueprintPath: args[0],
					RunPath:       f.run,
					Overrides:     overrides,
				})
				if err != nil {
					return exitError(err)
				}
				return s.writeJSON(plan)
			}

			if f.run != "" {
				return &ExitError{Code: ExitUsage, Message: "--run can only be used with a single blueprint"}
			}
			paths, err := s.loader.FindBlueprintFiles(args...)
			if err != nil {
				return exitError(err)
			}
			results := s.app.PlanAll(cmd.Context(), paths, overrides)

			out := make([]batchResult, len(results))
			var firstErr error
			for i, r := range results {
				out[i] = batchResult{Path: r.Path, Plan: r.Plan}
				if r.Err != nil {
					out[i].Error = r.Err.Error()
					if firstErr == nil {
						firstErr = r.Err
					}
				}
			}
			if err := s.writeJSON(out); err != nil {
				return err
			}
			if firstErr != nil {
				return exitError(firstErr)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.run, "run", "", "Run-state file to attach; a draft run is created when omitted.")
	flags.StringVar(&f.parallelism, "parallelism", "", "Parallelism override: sequential, balanced or aggressive.")
	flags.IntVar(&f.maxParallel, "max-parallel", 0, "Maximum parallel steps override; values below 1 are ignored.")
	flags.BoolVar(&f.autoEscalate, "auto-escalate", false, "Auto-escalation override.")
	flags.StringVar(&f.rollback, "rollback", "", "Rollback policy override: manual, automatic or none.")
	return cmd
}

func newProjectCmd(s *state) *cobra.Command {
	var (
		runPath     string
		windowSpecs []string
		snapshotOut string
	)
	cmd := &cobra.Command{
		Use:   "project <blueprint>",
		Short: "Project run telemetry through the blueprint's plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			windows := make([]playbook.ProgressWindow, 0, len(windowSpecs))
			for _, spec := range windowSpecs {
				w, err := parseWindow(spec)
				if err != nil {
					return &ExitError{Code: ExitUsage, Message: err.Error()}
				}
				windows = append(windows, w)
			}

			report, err := s.app.Project(cmd.Context(), app.ProjectRequest{
				BlueprintPath: args[0],
				RunPath:       runPath,
				Windows:       windows,
			})
			if err != nil {
				return exitError(err)
			}

			if snapshotOut != "" {
				file, err := os.Create(snapshotOut)
				if err != nil {
					return &ExitError{Code: ExitFailure, Message: err.Error()}
				}
				pub := publish.NewWriterPublisher(file, true)
				err = pub.Publish(cmd.Context(), report.Snapshot)
				if closeErr := pub.Close(); err == nil {
					err = closeErr
				}
				if err != nil {
					return &ExitError{Code: ExitFailure, Message: err.Error()}
				}
			}
			return s.writeJSON(report)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&runPath, "run", "", "Run-state file (required).")
	flags.StringArrayVar(&windowSpecs, "window", nil, "Progress window as label=from/to with RFC 3339 bounds; repeatable.")
	flags.StringVar(&snapshotOut, "snapshot-out", "", "Also write the telemetry snapshot as JSON to this file.")
	return cmd
}

// parseWindow parses "label=from/to".
func parseWindow(spec string) (playbook.ProgressWindow, error) {
	label, bounds, ok := strings.Cut(spec, "=")
	if !ok || label == "" {
		return playbook.ProgressWindow{}, fmt.Errorf("invalid window %q: expected label=from/to", spec)
	}
	fromRaw, toRaw, ok := strings.Cut(bounds, "/")
	if !ok {
		return playbook.ProgressWindow{}, fmt.Errorf("invalid window %q: expected label=from/to", spec)
	}
	from, err := time.Parse(time.RFC3339, fromRaw)
	if err != nil {
		return playbook.ProgressWindow{}, fmt.Errorf("invalid window %q start: %w", spec, err)
	}
	to, err := time.Parse(time.RFC3339, toRaw)
	if err != nil {
		return playbook.ProgressWindow{}, fmt.Errorf("invalid window %q end: %w", spec, err)
	}
	if to.Before(from) {
		return playbook.ProgressWindow{}, fmt.Errorf("invalid window %q: end is before start", spec)
	}
	return playbook.ProgressWindow{Label: label, From: from.UTC(), To: to.UTC()}, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
