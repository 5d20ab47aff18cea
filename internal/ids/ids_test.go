// internal/ids/ids_test.go
package ids

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStepID(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expectErr bool
		expected  StepID
	}{
		{name: "simple token", raw: "assess-db", expected: "assess-db"},
		{name: "dotted and namespaced", raw: "db.primary:isolate_1", expected: "db.primary:isolate_1"},
		{name: "surrounding whitespace is trimmed", raw: "  notify  ", expected: "notify"},
		{name: "error - empty string", raw: "", expectErr: true},
		{name: "error - whitespace only", raw: "   ", expectErr: true},
		{name: "error - leading separator", raw: "-assess", expectErr: true},
		{name: "error - inner space", raw: "assess db", expectErr: true},
		{name: "error - too long", raw: strings.Repeat("a", maxLength+1), expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ParseStepID(tc.raw)
			if tc.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "step identifier")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, id)
		})
	}
}

func TestParseBlueprintAndRunID(t *testing.T) {
	bp, err := ParseBlueprintID("bp-42")
	require.NoError(t, err)
	assert.Equal(t, "bp-42", bp.String())

	run, err := ParseRunID("run:2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, "run:2026-10-19", run.String())

	_, err = ParseRunID("bad id")
	assert.ErrorContains(t, err, "invalid run identifier format")
}

func TestSortStepIDs(t *testing.T) {
	sorted := SortStepIDs([]StepID{"c", "a", "b"})
	assert.Equal(t, []StepID{"a", "b", "c"}, sorted)
	assert.Equal(t, []string{"a", "b", "c"}, StepIDStrings(sorted))
}
