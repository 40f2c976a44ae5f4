package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initOut string

func init() {
	cmd := newInitCmd()
	cmd.Flags().StringVarP(&initOut, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(cmd)
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Emit a starter scenario file",
		Long: `The init command writes a commented starter scenario that exercises
expansion, lazy loading, windowed scans and structural churn.

Example:
  treebench init -o scenarios/starter.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeStarterScenario()
		},
	}
}

func writeStarterScenario() error {
	sc := Scenario{
		Name: "starter",
		Seed: 42,
		Tree: TreeShape{
			Depth:       4,
			Branching:   10,
			LazyRatio:   0.3,
			LoadDelayMs: 0,
		},
		Steps: []Step{
			{Op: "expand", Node: 0},
			{Op: "expand-all"},
			{Op: "scan", Limit: 200},
			{Op: "range", Offset: 0, Limit: 50, Repeat: 100},
			{Op: "sort", Node: 0},
			{Op: "collapse", Node: 0},
			{Op: "toggle", Node: 0},
		},
	}
	raw, err := yaml.Marshal(&sc)
	if err != nil {
		return err
	}
	if initOut == "" {
		fmt.Print(string(raw))
		return nil
	}
	if err := os.WriteFile(initOut, raw, 0o644); err != nil {
		return err
	}
	printInfo("Wrote %s\n", initOut)
	return nil
}
