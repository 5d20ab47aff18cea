package config

import (
	"context"
)

// Loader is the interface for a format-specific document loader.
type Loader interface {
	// LoadBlueprint reads a single blueprint document from path.
	LoadBlueprint(ctx context.Context, path string) (*RawBlueprint, error)

	// LoadRun reads a single run-state document from path.
	LoadRun(ctx context.Context, path string) (*RawRun, error)

	// FindBlueprintFiles expands files and directories into the sorted list of
	// blueprint documents the loader understands.
	FindBlueprintFiles(paths ...string) ([]string, error)
}
