package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/megaverse/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk shape of a goal file; it mirrors the remote goal response.
type Document struct {
	Goal domain.Grid `yaml:"goal" json:"goal"`
}

// Goal implements ports.GoalSource over a local YAML or JSON file.
type Goal struct {
	Path string
}

// New creates a goal source reading from path.
func New(path string) *Goal {
	return &Goal{Path: path}
}

// FetchGoal reads and validates the goal grid.
func (g *Goal) FetchGoal(ctx context.Context) (domain.Grid, error) {
	data, err := os.ReadFile(g.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGoalUnavailable, err)
	}

	var doc Document
	if isJSON(g.Path) {
		err = json.Unmarshal(data, &doc)
	} else {
		// YAML is a superset of JSON, so unknown extensions still parse either way.
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %w", domain.ErrGoalUnavailable, filepath.Base(g.Path), err)
	}
	if doc.Goal == nil {
		return nil, fmt.Errorf("%w: %s has no goal", domain.ErrGoalUnavailable, filepath.Base(g.Path))
	}
	if err := doc.Goal.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGoalUnavailable, err)
	}
	return doc.Goal, nil
}

// Save writes the grid to path atomically, choosing the format from the extension.
// It writes to a temporary file first, syncs it, and then renames it over the destination.
func Save(path string, grid domain.Grid) error {
	if err := grid.Validate(); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	doc := Document{Goal: grid}
	if isJSON(path) {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal goal: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure goal directory: %w", err)
	}

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-goal-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Windows cannot rename over an existing file.
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing goal file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
