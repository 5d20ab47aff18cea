package hcl_adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/playbookgrid/internal/config"
	"github.com/vk/playbookgrid/internal/ctxlog"
	"github.com/vk/playbookgrid/internal/fsutil"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files whose extension is not one of
// .hcl, .json, .yaml or .yml.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var supportedExtensions = map[string]struct{}{
	".hcl":  {},
	".json": {},
	".yaml": {},
	".yml":  {},
}

var extensions = []string{".hcl", ".json", ".yaml", ".yml"}

// Loader is the file-based implementation of the config.Loader interface.
// It dispatches on file extension.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadBlueprint reads a single blueprint document.
func (l *Loader) LoadBlueprint(ctx context.Context, path string) (*config.RawBlueprint, error) {
	logger := ctxlog.FromContext(ctx).With("path", path)
	logger.Debug("Loading blueprint file.")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		raw *config.RawBlueprint
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		raw, err = l.loadBlueprintHCL(ctx, path)
	case ".json":
		raw = &config.RawBlueprint{}
		err = decodeJSONFile(path, raw)
	case ".yaml", ".yml":
		raw = &config.RawBlueprint{}
		err = decodeYAMLFile(path, raw)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Blueprint file loaded.", "blueprint_id", raw.ID, "step_count", len(raw.Steps))
	return raw, nil
}

// LoadRun reads a single run-state document.
func (l *Loader) LoadRun(ctx context.Context, path string) (*config.RawRun, error) {
	logger := ctxlog.FromContext(ctx).With("path", path)
	logger.Debug("Loading run file.")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		raw *config.RawRun
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		raw, err = l.loadRunHCL(ctx, path)
	case ".json":
		raw = &config.RawRun{}
		err = decodeJSONFile(path, raw)
	case ".yaml", ".yml":
		raw = &config.RawRun{}
		err = decodeYAMLFile(path, raw)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Run file loaded.", "run_id", raw.ID, "outcome_count", len(raw.OutcomeByStep))
	return raw, nil
}

func (l *Loader) loadBlueprintHCL(ctx context.Context, path string) (*config.RawBlueprint, error) {
	hclFile, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root blueprintFileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	if len(root.Blueprints) != 1 {
		return nil, fmt.Errorf("HCL file %s must contain exactly one blueprint block, found %d", path, len(root.Blueprints))
	}
	return translateBlueprint(ctx, root.Blueprints[0])
}

func (l *Loader) loadRunHCL(ctx context.Context, path string) (*config.RawRun, error) {
	hclFile, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root runFileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	if len(root.Runs) != 1 {
		return nil, fmt.Errorf("HCL file %s must contain exactly one run block, found %d", path, len(root.Runs))
	}
	return translateRun(ctx, root.Runs[0])
}

func decodeJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode JSON file %s: %w", path, err)
	}
	return nil
}

func decodeYAMLFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}
	return nil
}

// FindBlueprintFiles walks all given paths and returns a sorted, de-duplicated
// list of every supported file found. Paths that do not exist are skipped.
func (l *Loader) FindBlueprintFiles(paths ...string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := supportedExtensions[strings.ToLower(filepath.Ext(p))]; !ok {
			return
		}
		if _, wasSeen := seen[p]; wasSeen {
			return
		}
		seen[p] = struct{}{}
		allFiles = append(allFiles, p)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // A configured path that does not exist is not an error.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			add(filepath.Clean(path))
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, extensions...)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			add(p)
		}
	}
	sort.Strings(allFiles)
	return allFiles, nil
}
