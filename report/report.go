package report

// This file contains run report persistence: the record of a build or
// clean pass written to a JSON or YAML file.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/perfgo/covfix/model"
	"gopkg.in/yaml.v3"
)

// Format is a report encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from the file extension. Anything that is
// not .yaml or .yml is written as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Write stores run at path, creating parent directories as needed.
func Write(path string, run *model.Run) error {
	var (
		data []byte
		err  error
	)
	switch FormatFor(path) {
	case FormatYAML:
		data, err = yaml.Marshal(run)
	default:
		data, err = json.MarshalIndent(run, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}

	return nil
}

// Load reads a report written by Write.
func Load(path string) (*model.Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var run model.Run
	switch FormatFor(path) {
	case FormatYAML:
		err = yaml.Unmarshal(data, &run)
	default:
		err = json.Unmarshal(data, &run)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse run report %s: %w", path, err)
	}

	return &run, nil
}
