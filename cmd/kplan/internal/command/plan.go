package command

import (
	"fmt"
	"io"
	"strings"

	"github.com/birdayz/kplan"
	"github.com/birdayz/kplan/kgraph"
	"github.com/birdayz/kplan/kloop"
	"github.com/birdayz/kplan/kplanfile"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type action int

const (
	actionPrune action = iota
	actionSources
	actionPrepare
)

func (a action) String() string {
	switch a {
	case actionPrune:
		return "prune"
	case actionSources:
		return "sources"
	case actionPrepare:
		return "prepare"
	default:
		return "unknown"
	}
}

func (a action) short() string {
	switch a {
	case actionPrune:
		return "Prune operators that do not contribute to a sink"
	case actionSources:
		return "List the top-level sources reachable from the sinks"
	default:
		return "Prune the plan and isolate its loops"
	}
}

func newPlanCommand(opts *options, a action) *cobra.Command {
	return &cobra.Command{
		Use:   a.String() + " FILE...",
		Short: a.short(),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFiles(cmd.OutOrStdout(), opts.logger(cmd), a, args)
		},
	}
}

// runFiles processes every file concurrently, each with its own plan, and
// writes the reports in argument order.
func runFiles(w io.Writer, log logr.Logger, a action, paths []string) error {
	reports := make([]string, len(paths))

	var eg errgroup.Group
	for i, path := range paths {
		eg.Go(func() error {
			report, err := runFile(log.WithValues("file", path), a, path)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, report := range reports {
		if _, err := io.WriteString(w, report); err != nil {
			return err
		}
	}
	return nil
}

func runFile(log logr.Logger, a action, path string) (string, error) {
	f, err := kplanfile.Load(path)
	if err != nil {
		return "", err
	}

	isolator := kloop.New(kloop.WithLogr(log.WithName("kloop")))
	plan, err := f.Build(kplan.WithLogr(log.WithName("kplan")), kplan.WithLoopIsolator(isolator))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s\n", path)

	switch a {
	case actionPrune:
		plan.Prune()
		writeEdges(&sb, plan.Graph())
	case actionSources:
		writeOperators(&sb, "sources", plan.Graph(), plan.CollectReachableTopLevelSources())
	case actionPrepare:
		if err := plan.Prepare(); err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
		for _, loop := range isolator.Loops() {
			writeOperators(&sb, loopName(plan.Graph(), loop.ID), plan.Graph(), loop.Members)
		}
		order, err := plan.TopologicalOrder()
		if err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
		writeOperators(&sb, "order", plan.Graph(), order)
		writeEdges(&sb, plan.Graph())
	}
	log.V(1).Info("Processed plan", "action", a.String(), "operators", plan.Graph().Len())
	return sb.String(), nil
}

func loopName(g *kgraph.Graph, id kgraph.OperatorID) string {
	op, _ := g.Operator(id)
	return op.Name
}

func writeOperators(w io.Writer, label string, g *kgraph.Graph, ids []kgraph.OperatorID) {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		op, _ := g.Operator(id)
		names = append(names, op.Name)
	}
	fmt.Fprintf(w, "%s: %s\n", label, strings.Join(names, ", "))
}

func writeEdges(w io.Writer, g *kgraph.Graph) {
	fmt.Fprintln(w, "edges:")
	for _, e := range g.Edges() {
		from, _ := g.Operator(e.From.Op)
		to, _ := g.Operator(e.To.Op)
		fmt.Fprintf(w, "  %s.%s -> %s.%s\n",
			from.Name, from.Outputs[e.From.Index].Name,
			to.Name, to.Inputs[e.To.Index].Name)
	}
}
