package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/provider"
	"github.com/joshuapare/treekit/treemetrics"
)

var runMetrics bool

func init() {
	cmd := newRunCmd()
	cmd.Flags().BoolVar(&runMetrics, "metrics", false, "Dump engine metrics after the run")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Replay a scenario against a fresh engine",
		Long: `The run command synthesizes the scenario's tree, replays its steps in
order and reports wall time, visible-space size and epoch movement.

Example:
  treebench run scenarios/deep-chain.yaml
  treebench run scenarios/churn.yaml --metrics --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(args[0])
		},
	}
}

// RunReport summarizes one scenario replay.
type RunReport struct {
	Scenario     string        `json:"scenario"`
	Steps        int           `json:"steps"`
	Loads        int           `json:"loads"`
	RowsReturned int           `json:"rowsReturned"`
	Elapsed      time.Duration `json:"elapsedNs"`
	VisibleCount int           `json:"visibleCount"`
	Epoch        uint64        `json:"epoch"`
	Valid        bool          `json:"valid"`
}

// runState carries mutable bookkeeping across the steps of one replay,
// keeping RunReport a pure output value.
type runState struct {
	report  *RunReport
	inserts uint64
}

func runScenario(path string) error {
	sc, err := LoadScenario(path)
	if err != nil {
		return err
	}
	printVerbose("Loaded scenario %q: depth=%d branching=%d lazy=%.2f steps=%d\n",
		sc.Name, sc.Tree.Depth, sc.Tree.Branching, sc.Tree.LazyRatio, len(sc.Steps))

	gen := newGenerator(sc.Tree, sc.Seed)
	rootSpec := gen.Build()

	reg := prometheus.NewRegistry()
	var opts []tree.Option
	if runMetrics {
		opts = append(opts, tree.WithHooks(treemetrics.New(reg)))
	}
	eng, err := tree.New(rootSpec, opts...)
	if err != nil {
		return fmt.Errorf("building tree: %w", err)
	}

	delay := time.Duration(sc.Tree.LoadDelayMs) * time.Millisecond
	loads := 0
	resolvers := provider.NewRegistry(provider.ResolverFunc(
		func(_ context.Context, id tree.NodeID) ([]tree.ChildSpec, error) {
			if delay > 0 {
				time.Sleep(delay)
			}
			loads++
			return gen.ResolveChildren(id)
		}))

	report := &RunReport{Scenario: sc.Name}
	st := &runState{report: report}
	start := time.Now()
	for i, step := range sc.Steps {
		repeat := step.Repeat
		if repeat == 0 {
			repeat = 1
		}
		for r := 0; r < repeat; r++ {
			if err := applyStep(eng, resolvers, step, st); err != nil {
				return fmt.Errorf("steps[%d] (%s): %w", i, step.Op, err)
			}
		}
	}
	report.Elapsed = time.Since(start)
	report.Steps = len(sc.Steps)
	report.Loads = loads
	report.VisibleCount = eng.TotalVisibleCount()
	report.Epoch = uint64(eng.Epoch())

	// A run that leaves the store inconsistent is a failed run no matter
	// how fast it was.
	if verr := eng.Validate(); verr != nil {
		return fmt.Errorf("tree invariants violated after run:\n%w", verr)
	}
	report.Valid = true

	if jsonOut {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		printInfo("scenario:  %s\n", report.Scenario)
		printInfo("steps:     %d (%d lazy loads)\n", report.Steps, report.Loads)
		printInfo("rows:      %d\n", report.RowsReturned)
		printInfo("visible:   %d\n", report.VisibleCount)
		printInfo("epoch:     %d\n", report.Epoch)
		printInfo("elapsed:   %s\n", report.Elapsed)
	}
	if runMetrics {
		return dumpMetrics(reg)
	}
	return nil
}

// targetID maps a scenario node number to an engine ID; 0 addresses the
// root, which the generator always numbers 1.
func targetID(n uint64) tree.NodeID {
	if n == 0 {
		return 1
	}
	return tree.NodeID(n)
}

func applyStep(eng *tree.Engine, resolvers *provider.Registry, step Step, st *runState) error {
	ctx := context.Background()
	switch step.Op {
	case "expand":
		return expandOne(ctx, eng, resolvers, targetID(step.Node))
	case "collapse":
		_, err := eng.Collapse(targetID(step.Node))
		return err
	case "toggle":
		needsLoad, err := eng.Toggle(targetID(step.Node))
		if err != nil || !needsLoad {
			return err
		}
		return resolvers.Trigger(ctx, eng, targetID(step.Node))
	case "range":
		views, err := eng.Range(step.Offset, step.Limit)
		st.report.RowsReturned += len(views)
		return err
	case "resolve":
		_, _, err := eng.ResolveIndex(step.Index)
		return err
	case "insert":
		st.inserts++
		id := tree.NodeID(1_000_000 + st.inserts)
		return eng.InsertNode(targetID(step.Node), tree.ChildSpec{
			ID:    id,
			Label: fmt.Sprintf("inserted-%d", id),
			Leaf:  true,
		}, step.Index)
	case "remove":
		_, err := eng.RemoveNode(targetID(step.Node))
		return err
	case "move":
		return eng.MoveNode(targetID(step.Node), targetID(step.Target), step.Index)
	case "sort":
		return eng.SortChildren(targetID(step.Node))
	case "expand-all":
		return expandAll(ctx, eng, resolvers)
	case "scan":
		return scanAll(eng, step.Limit, st.report)
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

func expandOne(ctx context.Context, eng *tree.Engine, resolvers *provider.Registry, id tree.NodeID) error {
	needsLoad, err := eng.Expand(id)
	if err != nil || !needsLoad {
		return err
	}
	return resolvers.Trigger(ctx, eng, id)
}

// expandAll expands every visible expandable node, round after round, until
// the projection stops growing.
func expandAll(ctx context.Context, eng *tree.Engine, resolvers *provider.Registry) error {
	for {
		changed := false
		for i := 0; i < eng.TotalVisibleCount(); i++ {
			id, _, err := eng.ResolveIndex(i)
			if err != nil {
				return err
			}
			if !eng.CanExpand(id) {
				continue
			}
			if err := expandOne(ctx, eng, resolvers, id); err != nil {
				return err
			}
			changed = true
		}
		if !changed {
			return nil
		}
	}
}

// scanAll pages the full visible space with limit-sized windows.
func scanAll(eng *tree.Engine, limit int, report *RunReport) error {
	if limit <= 0 {
		limit = 100
	}
	for offset := 0; offset < eng.TotalVisibleCount(); offset += limit {
		views, err := eng.Range(offset, limit)
		if err != nil {
			return err
		}
		report.RowsReturned += len(views)
	}
	return nil
}

func dumpMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				printInfo("%s%s %g\n", mf.GetName(), labelSuffix(m.GetLabel()), m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				printInfo("%s%s %g\n", mf.GetName(), labelSuffix(m.GetLabel()), m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				printInfo("%s%s count=%d sum=%g\n", mf.GetName(), labelSuffix(m.GetLabel()), h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}
	return nil
}

func labelSuffix(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	out := "{"
	for i, lp := range pairs {
		if i > 0 {
			out += ","
		}
		out += lp.GetName() + "=" + lp.GetValue()
	}
	return out + "}"
}
