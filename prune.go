package kplan

import (
	"github.com/birdayz/kplan/kgraph"
	"github.com/birdayz/kplan/ktraverse"
)

// Prune disconnects every operator that does not (indirectly) contribute to
// a sink. It runs at most once per plan.
//
// Nested sub-plans of composite operators are not pruned.
func (p *Plan) Prune() {
	if p.pruned {
		return
	}
	sinks := p.Sinks()

	reachable := make(map[kgraph.OperatorID]bool)
	ktraverse.Upstream(p.graph).
		WithCallback(func(op *kgraph.Operator, _ *kgraph.InputSlot, _ *kgraph.OutputSlot) {
			reachable[op.ID] = true
			if !op.IsElementary() {
				p.warn("Not considering nested operators during plan pruning", "operator", op.Name, "id", op.ID)
			}
		}).
		Traverse(sinks...)

	ktraverse.Upstream(p.graph).
		WithCallback(func(op *kgraph.Operator, _ *kgraph.InputSlot, _ *kgraph.OutputSlot) {
			p.pruneUnreachableSuccessors(op, reachable)
		}).
		Traverse(sinks...)

	p.pruned = true
}

func (p *Plan) pruneUnreachableSuccessors(op *kgraph.Operator, reachable map[kgraph.OperatorID]bool) {
	for _, out := range op.Outputs {
		// Consumers returns a copy, disconnecting while iterating is safe.
		for _, in := range out.Consumers() {
			if reachable[in.Op] {
				continue
			}
			if p.graph.Disconnect(out.Ref(), in) {
				succ, _ := p.graph.Operator(in.Op)
				p.warn("Pruning unreachable operator from plan",
					"operator", succ.Name, "id", succ.ID, "producer", op.Name)
			}
		}
	}
}

// warn logs a pruning diagnostic. logr has no warning level, so the events
// carry a severity key and the "prune" logger name instead.
func (p *Plan) warn(msg string, keysAndValues ...any) {
	p.log.WithName("prune").Info(msg, append([]any{"severity", "warning"}, keysAndValues...)...)
}
