package system

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vk/playbookgrid/internal/app"
	"github.com/vk/playbookgrid/internal/ids"
)

// Test for: fanned-out siblings become ready together and are ordered by risk.
func TestDagConcurrency_FanOutOrderedByRisk(t *testing.T) {
	// --- Arrange ---
	hcl := `
		blueprint "fan-out" {
			title      = "Fan out"
			service    = "search"
			severity   = "minor"
			risk_tier  = "low"
			created_at = "2025-03-01T00:00:00Z"
			updated_at = "2025-03-01T00:00:00Z"
			version    = 1

			step "root" {
				title                    = "Assess"
				kind                     = "assess"
				scope                    = "service"
				expected_latency_minutes = 1
				actions                  = ["assess"]
			}
			step "slow" {
				title                    = "Slow restore"
				kind                     = "restore"
				scope                    = "service"
				depends_on               = ["root"]
				expected_latency_minutes = 20
				actions                  = ["restore"]
			}
			step "quick" {
				title                    = "Quick notify"
				kind                     = "notify"
				scope                    = "service"
				depends_on               = ["root"]
				expected_latency_minutes = 1
				actions                  = ["page"]
			}
		}
	`
	testApp := newTestApp(t)

	// --- Act ---
	first, err := testApp.Plan(context.Background(), app.PlanRequest{BlueprintPath: writeBlueprint(t, hcl)})
	if err != nil {
		t.Fatalf("Plan() returned an unexpected error: %v", err)
	}

	// --- Assert ---
	want := []ids.StepID{"root", "quick", "slow"}
	if diff := cmp.Diff(want, first.Order); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}
