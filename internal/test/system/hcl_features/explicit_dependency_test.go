package system

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vk/playbookgrid/internal/app"
	"github.com/vk/playbookgrid/internal/ids"
)

// Test for: depends_on in HCL overrides declaration order when scheduling.
func TestHCLFeatures_ExplicitDependency(t *testing.T) {
	// --- Arrange ---
	hcl := `
		blueprint "explicit" {
			title      = "Explicit dependencies"
			service    = "payments"
			severity   = "major"
			risk_tier  = "low"
			created_at = "2025-03-01T00:00:00Z"
			updated_at = "2025-03-01T00:00:00Z"
			version    = 1

			step "third" {
				title                    = "Third"
				kind                     = "assess"
				scope                    = "service"
				depends_on               = ["second"]
				expected_latency_minutes = 1
				actions                  = ["third"]
			}
			step "second" {
				title                    = "Second"
				kind                     = "assess"
				scope                    = "service"
				depends_on               = ["first"]
				expected_latency_minutes = 1
				actions                  = ["second"]
			}
			step "first" {
				title                    = "First"
				kind                     = "restore"
				scope                    = "service"
				expected_latency_minutes = 30
				actions                  = ["first"]
			}
		}
	`
	path := filepath.Join(t.TempDir(), "main.hcl")
	if err := os.WriteFile(path, []byte(hcl), 0600); err != nil {
		t.Fatalf("failed to write hcl file: %v", err)
	}
	cfg := app.DefaultConfig()
	testApp, _ := app.SetupAppTest(t, &cfg)

	// --- Act ---
	plan, err := testApp.Plan(context.Background(), app.PlanRequest{BlueprintPath: path})

	// --- Assert ---
	if err != nil {
		t.Fatalf("Plan() returned an unexpected error: %v", err)
	}
	want := []ids.StepID{"first", "second", "third"}
	if diff := cmp.Diff(want, plan.Order); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}
