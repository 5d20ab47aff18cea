// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file contains the shared parsing helper used by every string-backed
// enumeration in the package.
package playbook

import (
	"fmt"
	"strings"
)

// parseEnum matches raw case-insensitively against the allowed values.
func parseEnum[T ~string](kind, raw string, allowed []T) (T, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, candidate := range allowed {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	names := make([]string, len(allowed))
	for i, candidate := range allowed {
		names[i] = string(candidate)
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q: must be one of %s", kind, raw, strings.Join(names, ", "))
}

func containsEnum[T ~string](value T, allowed []T) bool {
	for _, candidate := range allowed {
		if candidate == value {
			return true
		}
	}
	return false
}
