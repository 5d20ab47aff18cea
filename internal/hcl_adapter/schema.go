// This file contains the gohcl schema structs for blueprint and run files.
// They mirror the raw config shapes with HCL naming conventions.

package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// blueprintFileRoot decodes the top level of a blueprint .hcl file.
type blueprintFileRoot struct {
	Blueprints []*blueprintBlock `hcl:"blueprint,block"`
}

type blueprintBlock struct {
	ID        string         `hcl:"id,label"`
	Title     string         `hcl:"title"`
	Service   string         `hcl:"service"`
	Severity  string         `hcl:"severity"`
	RiskTier  string         `hcl:"risk_tier"`
	Owner     string         `hcl:"owner,optional"`
	Labels    []string       `hcl:"labels,optional"`
	CreatedAt string         `hcl:"created_at"`
	UpdatedAt string         `hcl:"updated_at"`
	Version   int            `hcl:"version"`
	Timeline  *timelineBlock `hcl:"timeline,block"`
	Steps     []*stepBlock   `hcl:"step,block"`
}

type timelineBlock struct {
	StartsAt string `hcl:"starts_at"`
	EndsAt   string `hcl:"ends_at,optional"`
}

type stepBlock struct {
	ID                     string         `hcl:"id,label"`
	Title                  string         `hcl:"title"`
	Kind                   string         `hcl:"kind"`
	Scope                  string         `hcl:"scope"`
	Owner                  string         `hcl:"owner,optional"`
	DependsOn              []string       `hcl:"depends_on,optional"`
	ExpectedLatencyMinutes float64        `hcl:"expected_latency_minutes"`
	RiskDelta              float64        `hcl:"risk_delta,optional"`
	AutomationLevel        int            `hcl:"automation_level,optional"`
	Actions                []string       `hcl:"actions,optional"`
	Metadata               hcl.Expression `hcl:"metadata,optional"`
}

// runFileRoot decodes the top level of a run .hcl file.
type runFileRoot struct {
	Runs []*runBlock `hcl:"run,block"`
}

type runBlock struct {
	ID          string          `hcl:"id,label"`
	BlueprintID string          `hcl:"blueprint_id"`
	TriggeredBy string          `hcl:"triggered_by"`
	StartedAt   string          `hcl:"started_at"`
	Status      string          `hcl:"status"`
	Notes       []string        `hcl:"notes,optional"`
	Timeline    *timelineBlock  `hcl:"timeline,block"`
	Outcomes    []*outcomeBlock `hcl:"outcome,block"`
}

type outcomeBlock struct {
	StepID     string         `hcl:"step,label"`
	Status     string         `hcl:"status"`
	Attempts   int            `hcl:"attempts,optional"`
	StartedAt  string         `hcl:"started_at,optional"`
	FinishedAt string         `hcl:"finished_at,optional"`
	Next       []string       `hcl:"next,optional"`
	Detail     hcl.Expression `hcl:"detail,optional"`
}
