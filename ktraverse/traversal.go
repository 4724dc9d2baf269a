// Package ktraverse walks a kgraph.Graph along slot connections.
//
// A Traversal starts from a set of operators and follows edges either
// upstream (input slot -> producer, towards the sources) or downstream
// (output slot -> consumers, towards the sinks). Each operator is visited at
// most once, so traversals terminate on cyclic graphs as well.
//
// Composite operators are visited like any other operator, but the walk
// does not descend into their nested sub-plan.
package ktraverse

import (
	"github.com/birdayz/kplan/kgraph"
)

// Direction in which edges are followed.
type Direction int

const (
	// DirectionUpstream follows input slots to their producers.
	DirectionUpstream Direction = iota
	// DirectionDownstream follows output slots to their consumers.
	DirectionDownstream
)

func (d Direction) String() string {
	switch d {
	case DirectionUpstream:
		return "Upstream"
	case DirectionDownstream:
		return "Downstream"
	default:
		return "Unknown"
	}
}

// Callback is invoked once per visited operator. For start operators in and
// out are nil; otherwise they are the input/output slot pair of the edge
// that led to op.
type Callback func(op *kgraph.Operator, in *kgraph.InputSlot, out *kgraph.OutputSlot)

// Traversal is a reusable walk configuration.
type Traversal struct {
	graph     *kgraph.Graph
	direction Direction
	callback  Callback
}

// New creates a traversal over g in the given direction.
func New(g *kgraph.Graph, direction Direction) *Traversal {
	return &Traversal{graph: g, direction: direction}
}

// Upstream creates a traversal walking towards the sources.
func Upstream(g *kgraph.Graph) *Traversal {
	return New(g, DirectionUpstream)
}

// Downstream creates a traversal walking towards the sinks.
func Downstream(g *kgraph.Graph) *Traversal {
	return New(g, DirectionDownstream)
}

// WithCallback sets the per-visit callback.
func (t *Traversal) WithCallback(cb Callback) *Traversal {
	t.callback = cb
	return t
}

// Direction returns the direction edges are followed in.
func (t *Traversal) Direction() Direction {
	return t.direction
}

type step struct {
	op  *kgraph.Operator
	in  *kgraph.InputSlot
	out *kgraph.OutputSlot
}

// Traverse walks breadth-first from the start operators. Unknown IDs are
// ignored.
func (t *Traversal) Traverse(start ...kgraph.OperatorID) *Result {
	res := newResult(t.graph)
	queue := make([]step, 0, len(start))

	for _, id := range start {
		if op, ok := t.graph.Operator(id); ok && res.mark(op) {
			queue = append(queue, step{op: op})
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if t.callback != nil {
			t.callback(cur.op, cur.in, cur.out)
		}

		switch t.direction {
		case DirectionUpstream:
			for _, in := range cur.op.Inputs {
				ref, ok := in.Producer()
				if !ok {
					continue
				}
				out, _ := t.graph.OutputSlot(ref)
				next, _ := t.graph.Operator(ref.Op)
				if res.mark(next) {
					queue = append(queue, step{op: next, in: in, out: out})
				}
			}
		case DirectionDownstream:
			for _, out := range cur.op.Outputs {
				for _, ref := range out.Consumers() {
					in, _ := t.graph.InputSlot(ref)
					next, _ := t.graph.Operator(ref.Op)
					if res.mark(next) {
						queue = append(queue, step{op: next, in: in, out: out})
					}
				}
			}
		}
	}

	return res
}
