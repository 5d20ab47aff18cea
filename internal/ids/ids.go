// internal/ids/ids.go
package ids

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// tokenRegex matches the canonical identifier format shared by every id kind.
var tokenRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.:-]*$`)

// maxLength bounds identifiers so they stay usable as log fields and map keys.
const maxLength = 128

// BlueprintID identifies a recovery blueprint.
type BlueprintID string

// StepID identifies a step inside a single blueprint.
type StepID string

// RunID identifies one execution attempt of a blueprint.
type RunID string

// String returns the raw identifier.
func (id BlueprintID) String() string { return string(id) }

// String returns the raw identifier.
func (id StepID) String() string { return string(id) }

// String returns the raw identifier.
func (id RunID) String() string { return string(id) }

// ParseBlueprintID validates raw and returns it as a BlueprintID.
func ParseBlueprintID(raw string) (BlueprintID, error) {
	token, err := parseToken("blueprint", raw)
	return BlueprintID(token), err
}

// ParseStepID validates raw and returns it as a StepID.
func ParseStepID(raw string) (StepID, error) {
	token, err := parseToken("step", raw)
	return StepID(token), err
}

// ParseRunID validates raw and returns it as a RunID.
func ParseRunID(raw string) (RunID, error) {
	token, err := parseToken("run", raw)
	return RunID(token), err
}

func parseToken(kind, raw string) (string, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return "", fmt.Errorf("%s identifier cannot be empty", kind)
	}
	if len(token) > maxLength {
		return "", fmt.Errorf("%s identifier %q exceeds %d characters", kind, token, maxLength)
	}
	if !tokenRegex.MatchString(token) {
		return "", fmt.Errorf("invalid %s identifier format: %q", kind, token)
	}
	return token, nil
}

// SortStepIDs sorts ids in place in ascending lexical order and returns them.
func SortStepIDs(stepIDs []StepID) []StepID {
	sort.Slice(stepIDs, func(i, j int) bool { return stepIDs[i] < stepIDs[j] })
	return stepIDs
}

// StepIDStrings converts step ids to plain strings, e.g. for log fields.
func StepIDStrings(stepIDs []StepID) []string {
	out := make([]string, len(stepIDs))
	for i, id := range stepIDs {
		out[i] = string(id)
	}
	return out
}
