package validator

import (
	"github.com/vk/playbookgrid/internal/config"
)

func rawStep(id, kind string, deps ...string) config.RawStep {
	return config.RawStep{
		ID:                     id,
		Title:                  "Step " + id,
		Kind:                   kind,
		Scope:                  "service",
		Owner:                  "sre",
		DependsOn:              deps,
		ExpectedLatencyMinutes: 10,
		AutomationLevel:        2,
		Actions:                []string{"run " + id},
	}
}

func rawBlueprint(steps ...config.RawStep) *config.RawBlueprint {
	return &config.RawBlueprint{
		ID:        "bp-db-failover",
		Title:     "Database failover",
		Service:   "payments",
		Severity:  "major",
		RiskTier:  "medium",
		Owner:     "team-db",
		Labels:    []string{"db", "failover"},
		Steps:     steps,
		CreatedAt: "2026-01-02T10:00:00Z",
		UpdatedAt: "2026-01-03T10:00:00Z",
		Version:   1,
	}
}
