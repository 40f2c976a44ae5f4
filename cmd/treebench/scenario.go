package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one reproducible treebench run: how to synthesize the tree and
// which operations to replay against it.
type Scenario struct {
	Name  string    `yaml:"name"`
	Seed  int64     `yaml:"seed"`
	Tree  TreeShape `yaml:"tree"`
	Steps []Step    `yaml:"steps"`
}

// TreeShape controls the synthetic tree generator.
type TreeShape struct {
	// Depth is the number of levels below the root.
	Depth int `yaml:"depth"`
	// Branching is the number of children per materialized node.
	Branching int `yaml:"branching"`
	// LazyRatio in [0,1] is the fraction of nodes generated without
	// materialized children, resolved on demand by the bench provider.
	LazyRatio float64 `yaml:"lazyRatio"`
	// LoadDelayMs simulates provider latency per lazy resolution.
	LoadDelayMs int `yaml:"loadDelayMs"`
}

// Step is a single scripted operation.
type Step struct {
	// Op is one of: expand, collapse, toggle, range, resolve, insert,
	// remove, move, sort, expand-all, scan.
	Op string `yaml:"op"`
	// Node targets one node by generated ID (0 means the root).
	Node uint64 `yaml:"node,omitempty"`
	// Target is the destination parent for move.
	Target uint64 `yaml:"target,omitempty"`
	// Offset/Limit parameterize range; Index parameterizes resolve,
	// insert and move.
	Offset int `yaml:"offset,omitempty"`
	Limit  int `yaml:"limit,omitempty"`
	Index  int `yaml:"index,omitempty"`
	// Repeat replays the step this many times (default 1).
	Repeat int `yaml:"repeat,omitempty"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	return &sc, nil
}

func (s *Scenario) validate() error {
	if s.Tree.Depth < 0 {
		return fmt.Errorf("tree.depth must be >= 0, got %d", s.Tree.Depth)
	}
	if s.Tree.Branching < 0 {
		return fmt.Errorf("tree.branching must be >= 0, got %d", s.Tree.Branching)
	}
	if s.Tree.LazyRatio < 0 || s.Tree.LazyRatio > 1 {
		return fmt.Errorf("tree.lazyRatio must be in [0,1], got %g", s.Tree.LazyRatio)
	}
	for i, step := range s.Steps {
		if !validOps[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if step.Repeat < 0 {
			return fmt.Errorf("steps[%d]: repeat must be >= 0", i)
		}
	}
	return nil
}

var validOps = map[string]bool{
	"expand":     true,
	"collapse":   true,
	"toggle":     true,
	"range":      true,
	"resolve":    true,
	"insert":     true,
	"remove":     true,
	"move":       true,
	"sort":       true,
	"expand-all": true,
	"scan":       true,
}
