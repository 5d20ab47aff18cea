package system

import (
	"context"
	"testing"

	"github.com/vk/playbookgrid/internal/app"
	"github.com/vk/playbookgrid/internal/ids"
)

// Test for: a fan-in step is scheduled after all of its prerequisites.
func TestDagConcurrency_FanInSynchronization(t *testing.T) {
	// --- Arrange ---
	hcl := `
		blueprint "fan-in" {
			title      = "Fan in"
			service    = "payments"
			severity   = "major"
			risk_tier  = "low"
			created_at = "2025-03-01T00:00:00Z"
			updated_at = "2025-03-01T00:00:00Z"
			version    = 1

			step "d" {
				title                    = "Verify"
				kind                     = "verify"
				scope                    = "service"
				depends_on               = ["a", "b", "c"]
				expected_latency_minutes = 1
				actions                  = ["verify"]
			}
			step "a" {
				title                    = "Assess"
				kind                     = "assess"
				scope                    = "service"
				expected_latency_minutes = 4
				actions                  = ["assess"]
			}
			step "b" {
				title                    = "Restore"
				kind                     = "restore"
				scope                    = "service"
				expected_latency_minutes = 2
				actions                  = ["restore"]
			}
			step "c" {
				title                    = "Notify"
				kind                     = "notify"
				scope                    = "service"
				expected_latency_minutes = 1
				actions                  = ["notify"]
			}
		}
	`
	testApp := newTestApp(t)

	// --- Act ---
	plan, err := testApp.Plan(context.Background(), app.PlanRequest{BlueprintPath: writeBlueprint(t, hcl)})
	if err != nil {
		t.Fatalf("Plan() returned an unexpected error: %v", err)
	}

	// --- Assert ---
	idx := indexOf(plan.Order)
	for _, prereq := range []ids.StepID{"a", "b", "c"} {
		if idx[prereq] > idx["d"] {
			t.Errorf("fan-in synchronization failed: step d was scheduled before %s", prereq)
		}
	}
	if got := len(plan.Order); got != 4 {
		t.Fatalf("expected 4 scheduled steps, got %d", got)
	}
	if plan.Order[3] != "d" {
		t.Errorf("expected d to be scheduled last, got order %v", plan.Order)
	}
}
