package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vk/playbookgrid/internal/app"
)

// writeBlueprint writes hcl to a temporary main.hcl and returns its path.
func writeBlueprint(t *testing.T, hcl string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.hcl")
	if err := os.WriteFile(path, []byte(hcl), 0600); err != nil {
		t.Fatalf("failed to write hcl file: %v", err)
	}
	return path
}

// indexOf returns the position of every step in order.
func indexOf[T comparable](order []T) map[T]int {
	idx := make(map[T]int, len(order))
	for i, id := range order {
		idx[id] = i
	}
	return idx
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cfg := app.DefaultConfig()
	testApp, _ := app.SetupAppTest(t, &cfg)
	return testApp
}
