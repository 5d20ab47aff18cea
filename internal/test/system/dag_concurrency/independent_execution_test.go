package system

import (
	"context"
	"sync"
	"testing"

	"github.com/vk/playbookgrid/internal/app"
)

// Test for: concurrent planning of the same blueprint is deduplicated and
// every caller sees the same order.
func TestDagConcurrency_IndependentCallersShareOnePlan(t *testing.T) {
	// --- Arrange ---
	hcl := `
		blueprint "shared" {
			title      = "Shared"
			service    = "payments"
			severity   = "minor"
			risk_tier  = "none"
			created_at = "2025-03-01T00:00:00Z"
			updated_at = "2025-03-01T00:00:00Z"
			version    = 7

			step "x" {
				title                    = "X"
				kind                     = "assess"
				scope                    = "service"
				expected_latency_minutes = 1
				actions                  = ["x"]
			}
			step "y" {
				title                    = "Y"
				kind                     = "assess"
				scope                    = "service"
				expected_latency_minutes = 1
				actions                  = ["y"]
			}
		}
	`
	path := writeBlueprint(t, hcl)
	testApp := newTestApp(t)

	// --- Act ---
	const callers = 16
	orders := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			plan, err := testApp.Plan(context.Background(), app.PlanRequest{BlueprintPath: path})
			if err != nil {
				t.Errorf("Plan() returned an unexpected error: %v", err)
				return
			}
			for _, id := range plan.Order {
				orders[i] += string(id) + ","
			}
		}(i)
	}
	wg.Wait()

	// --- Assert ---
	for i, order := range orders {
		if order != "x,y," {
			t.Errorf("caller %d got order %q, want %q", i, order, "x,y,")
		}
	}
	if n := testApp.Cache().Len(); n != 1 {
		t.Errorf("expected one cached plan, got %d", n)
	}
}
