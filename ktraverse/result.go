package ktraverse

import (
	"github.com/birdayz/kplan/kgraph"
)

// Result holds the operators reached by a traversal.
type Result struct {
	graph   *kgraph.Graph
	order   []kgraph.OperatorID
	visited map[kgraph.OperatorID]bool
}

func newResult(g *kgraph.Graph) *Result {
	return &Result{
		graph:   g,
		order:   make([]kgraph.OperatorID, 0),
		visited: make(map[kgraph.OperatorID]bool),
	}
}

// mark records op and reports whether it was seen for the first time.
func (r *Result) mark(op *kgraph.Operator) bool {
	if r.visited[op.ID] {
		return false
	}
	r.visited[op.ID] = true
	r.order = append(r.order, op.ID)
	return true
}

// Visited returns the reached operators in visit order.
func (r *Result) Visited() []kgraph.OperatorID {
	ids := make([]kgraph.OperatorID, len(r.order))
	copy(ids, r.order)
	return ids
}

// Contains reports whether id was reached.
func (r *Result) Contains(id kgraph.OperatorID) bool {
	return r.visited[id]
}

// Len returns the number of reached operators.
func (r *Result) Len() int {
	return len(r.order)
}

// Matching returns the reached operators satisfying pred, in visit order.
func (r *Result) Matching(pred func(*kgraph.Operator) bool) []kgraph.OperatorID {
	var ids []kgraph.OperatorID
	for _, id := range r.order {
		op, _ := r.graph.Operator(id)
		if pred(op) {
			ids = append(ids, id)
		}
	}
	return ids
}
