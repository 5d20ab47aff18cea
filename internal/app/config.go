package app

import (
	"errors"
	"fmt"
	"time"
)

// Defaults for Config fields.
const (
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
	DefaultWorkers           = 4
	DefaultMaxSteps          = 500
	DefaultTimeBudgetMinutes = 120
	DefaultActiveWorkload    = 9
	DefaultPublishEvent      = "snapshot"
	DefaultPublishTimeout    = 15 * time.Second
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	Workers  int `mapstructure:"workers"`   // batch planning parallelism
	MaxSteps int `mapstructure:"max_steps"` // step ceiling

	// Gate context used by Validate.
	TimeBudgetMinutes float64 `mapstructure:"time_budget_minutes"`
	ActiveWorkload    int     `mapstructure:"active_workload"`

	PublishURL       string        `mapstructure:"publish_url"`
	PublishNamespace string        `mapstructure:"publish_namespace"`
	PublishEvent     string        `mapstructure:"publish_event"`
	PublishTimeout   time.Duration `mapstructure:"publish_timeout"`
	// PublishAckEvent, when set, is awaited after every snapshot emit.
	PublishAckEvent           string `mapstructure:"publish_ack_event"`
	PublishInsecureSkipVerify bool   `mapstructure:"publish_insecure_skip_verify"`
}

// DefaultConfig returns a Config with every field at its default.
func DefaultConfig() Config {
	return Config{
		LogLevel:          DefaultLogLevel,
		LogFormat:         DefaultLogFormat,
		Workers:           DefaultWorkers,
		MaxSteps:          DefaultMaxSteps,
		TimeBudgetMinutes: DefaultTimeBudgetMinutes,
		ActiveWorkload:    DefaultActiveWorkload,
		PublishEvent:      DefaultPublishEvent,
		PublishTimeout:    DefaultPublishTimeout,
	}
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", cfg.LogLevel))
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json; got %q", cfg.LogFormat))
	}
	if cfg.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1; got %d", cfg.Workers))
	}
	if cfg.MaxSteps < 1 {
		errs = append(errs, fmt.Errorf("max_steps must be at least 1; got %d", cfg.MaxSteps))
	}
	if cfg.TimeBudgetMinutes <= 0 {
		errs = append(errs, fmt.Errorf("time_budget_minutes must be positive; got %v", cfg.TimeBudgetMinutes))
	}
	if cfg.ActiveWorkload < 0 {
		errs = append(errs, fmt.Errorf("active_workload cannot be negative; got %d", cfg.ActiveWorkload))
	}
	if cfg.PublishURL != "" {
		if cfg.PublishEvent == "" {
			errs = append(errs, errors.New("publish_event is required when publish_url is set"))
		}
		if cfg.PublishAckEvent != "" && cfg.PublishAckEvent == cfg.PublishEvent {
			errs = append(errs, fmt.Errorf("publish_ack_event must differ from publish_event %q", cfg.PublishEvent))
		}
		if cfg.PublishTimeout <= 0 {
			errs = append(errs, fmt.Errorf("publish_timeout must be positive; got %v", cfg.PublishTimeout))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
