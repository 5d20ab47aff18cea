package config

// RawBlueprint is the format-agnostic representation of a blueprint document
// before validation.
type RawBlueprint struct {
	ID        string       `json:"id" yaml:"id"`
	Title     string       `json:"title" yaml:"title"`
	Service   string       `json:"service" yaml:"service"`
	Severity  string       `json:"severity" yaml:"severity"`
	RiskTier  string       `json:"riskTier" yaml:"riskTier"`
	Timeline  *RawTimeline `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	Owner     string       `json:"owner" yaml:"owner"`
	Labels    []string     `json:"labels,omitempty" yaml:"labels,omitempty"`
	Steps     []RawStep    `json:"steps" yaml:"steps"`
	CreatedAt string       `json:"createdAt" yaml:"createdAt"`
	UpdatedAt string       `json:"updatedAt" yaml:"updatedAt"`
	Version   int          `json:"version" yaml:"version"`
}

// RawStep is the format-agnostic representation of a single step.
type RawStep struct {
	ID                     string            `json:"id" yaml:"id"`
	Title                  string            `json:"title" yaml:"title"`
	Kind                   string            `json:"kind" yaml:"kind"`
	Scope                  string            `json:"scope" yaml:"scope"`
	Owner                  string            `json:"owner" yaml:"owner"`
	DependsOn              []string          `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
	ExpectedLatencyMinutes float64           `json:"expectedLatencyMinutes" yaml:"expectedLatencyMinutes"`
	RiskDelta              float64           `json:"riskDelta" yaml:"riskDelta"`
	AutomationLevel        int               `json:"automationLevel" yaml:"automationLevel"`
	Metadata               map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Actions                []string          `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// RawTimeline is a pair of RFC 3339 timestamps. EndsAt may be empty.
type RawTimeline struct {
	StartsAt string `json:"startsAt" yaml:"startsAt"`
	EndsAt   string `json:"endsAt,omitempty" yaml:"endsAt,omitempty"`
}

// RawRun is the format-agnostic representation of a run-state document as
// exported by the run-state store.
type RawRun struct {
	ID            string                `json:"id" yaml:"id"`
	BlueprintID   string                `json:"blueprintId" yaml:"blueprintId"`
	TriggeredBy   string                `json:"triggeredBy" yaml:"triggeredBy"`
	StartedAt     string                `json:"startedAt" yaml:"startedAt"`
	Timeline      *RawTimeline          `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	Status        string                `json:"status" yaml:"status"`
	OutcomeByStep map[string]RawOutcome `json:"outcomeByStep" yaml:"outcomeByStep"`
	Notes         []string              `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// RawOutcome is the format-agnostic representation of one step outcome.
type RawOutcome struct {
	Status     string         `json:"status" yaml:"status"`
	Attempts   int            `json:"attempts" yaml:"attempts"`
	StartedAt  string         `json:"startedAt,omitempty" yaml:"startedAt,omitempty"`
	FinishedAt string         `json:"finishedAt,omitempty" yaml:"finishedAt,omitempty"`
	Detail     map[string]any `json:"detail,omitempty" yaml:"detail,omitempty"`
	Next       []string       `json:"next,omitempty" yaml:"next,omitempty"`
}
