package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Report is the machine-readable summary of one run.
type Report struct {
	RunID         string              `yaml:"run_id"`
	Root          string              `yaml:"root"`
	Input         string              `yaml:"input"`
	Output        string              `yaml:"output,omitempty"`
	Vertices      int                 `yaml:"vertices"`
	Edges         int                 `yaml:"edges"`
	Focus         int                 `yaml:"focus"`
	SubgraphEdges int                 `yaml:"subgraph_edges"`
	Supersteps    int                 `yaml:"supersteps"`
	Messages      int64               `yaml:"messages"`
	Forced        int64               `yaml:"forced"`
	Duration      time.Duration       `yaml:"duration"`
	Labels        map[string][]string `yaml:"labels,omitempty"`
}

// writeReport encodes r as YAML to path, or to the app output for "-".
func (app *App) writeReport(path string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if path == "-" {
		_, err = app.outW.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
