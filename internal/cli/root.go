package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vk/playbookgrid/internal/app"
	"github.com/vk/playbookgrid/internal/config"
)

const envPrefix = "PLAYBOOKGRID"

// state is shared by the commands of one root command instance.
type state struct {
	out     io.Writer
	errOut  io.Writer
	loader  config.Loader
	opts    []app.Option
	v       *viper.Viper
	cfgFile string
	app     *app.App
}

func newRootCmd(out, errOut io.Writer, loader config.Loader, opts ...app.Option) *cobra.Command {
	s := &state{out: out, errOut: errOut, loader: loader, opts: opts, v: viper.New()}

	root := &cobra.Command{
		Use:           "playbookgrid",
		Short:         "Validate, plan and project incident-recovery playbooks.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.initialize(cmd)
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	defaults := app.DefaultConfig()
	flags := root.PersistentFlags()
	flags.StringVarP(&s.cfgFile, "config", "c", "", "config file (default is ./playbookgrid.yaml if present)")
	flags.String("log-level", defaults.LogLevel, "Logging level: debug, info, warn or error.")
	flags.String("log-format", defaults.LogFormat, "Log output format: text or json.")
	flags.Int("workers", defaults.Workers, "Number of blueprints planned concurrently.")
	flags.Int("max-steps", defaults.MaxSteps, "Reject blueprints with more steps than this.")
	flags.Float64("time-budget-minutes", defaults.TimeBudgetMinutes, "Time budget of the validation context.")
	flags.Int("active-workload", defaults.ActiveWorkload, "Active workload of the validation context.")
	flags.String("publish-url", "", "Socket.IO dashboard URL; snapshots are published when set.")
	flags.String("publish-namespace", "", "Socket.IO namespace for snapshots.")
	flags.String("publish-event", defaults.PublishEvent, "Event name snapshots are emitted under.")
	flags.Duration("publish-timeout", defaults.PublishTimeout, "Connect and acknowledgement timeout.")
	flags.String("publish-ack-event", "", "Event the dashboard replies with; awaited after every snapshot when set.")
	flags.Bool("publish-insecure-skip-verify", false, "Skip TLS certificate verification when publishing.")

	root.AddCommand(
		newValidateCmd(s),
		newPlanCmd(s),
		newProjectCmd(s),
		newVersionCmd(),
	)
	return root
}

// initialize reads configuration with flags > environment > config file >
// defaults precedence and builds the App.
func (s *state) initialize(cmd *cobra.Command) error {
	v := s.v
	defaults := app.DefaultConfig()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("max_steps", defaults.MaxSteps)
	v.SetDefault("time_budget_minutes", defaults.TimeBudgetMinutes)
	v.SetDefault("active_workload", defaults.ActiveWorkload)
	v.SetDefault("publish_url", "")
	v.SetDefault("publish_namespace", "")
	v.SetDefault("publish_event", defaults.PublishEvent)
	v.SetDefault("publish_timeout", defaults.PublishTimeout)
	v.SetDefault("publish_ack_event", "")
	v.SetDefault("publish_insecure_skip_verify", false)

	if s.cfgFile != "" {
		v.SetConfigFile(s.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("playbookgrid")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return &ExitError{Code: ExitUsage, Message: fmt.Sprintf("error reading config file: %v", err)}
		}
	}

	// Flags are bound under their snake_case keys so they override the file
	// and the environment only when set.
	for key := range configKeys {
		f := cmd.Flags().Lookup(strings.ReplaceAll(key, "_", "-"))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return &ExitError{Code: ExitUsage, Message: err.Error()}
		}
	}

	var raw app.Config
	if err := v.Unmarshal(&raw); err != nil {
		return &ExitError{Code: ExitUsage, Message: fmt.Sprintf("failed to unmarshal config: %v", err)}
	}
	raw.LogLevel = strings.ToLower(raw.LogLevel)
	raw.LogFormat = strings.ToLower(raw.LogFormat)

	cfg, err := app.NewConfig(raw)
	if err != nil {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	s.app = app.NewApp(s.errOut, cfg, s.loader, s.opts...)
	return nil
}

var configKeys = map[string]struct{}{
	"log_level":                    {},
	"log_format":                   {},
	"workers":                      {},
	"max_steps":                    {},
	"time_budget_minutes":          {},
	"active_workload":              {},
	"publish_url":                  {},
	"publish_namespace":            {},
	"publish_event":                {},
	"publish_timeout":              {},
	"publish_ack_event":            {},
	"publish_insecure_skip_verify": {},
}

func (s *state) writeJSON(v any) error {
	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("failed to write output: %v", err)}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Printing the version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
