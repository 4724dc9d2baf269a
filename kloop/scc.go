package kloop

import (
	"slices"

	"github.com/birdayz/kplan/kgraph"
	"github.com/birdayz/kplan/ktraverse"
)

// Cycles returns the cyclic strongly connected components among the
// top-level operators reachable upstream from sinks. Components and their
// members are ordered by ascending operator ID.
func Cycles(g *kgraph.Graph, sinks []kgraph.OperatorID) [][]kgraph.OperatorID {
	res := ktraverse.Upstream(g).Traverse(sinks...)

	nodes := res.Matching((*kgraph.Operator).IsTopLevel)
	slices.Sort(nodes)

	in := make(map[kgraph.OperatorID]bool, len(nodes))
	for _, id := range nodes {
		in[id] = true
	}

	t := &tarjan{
		graph:   g,
		member:  in,
		index:   make(map[kgraph.OperatorID]int, len(nodes)),
		lowlink: make(map[kgraph.OperatorID]int, len(nodes)),
		onStack: make(map[kgraph.OperatorID]bool, len(nodes)),
	}
	for _, id := range nodes {
		if _, seen := t.index[id]; !seen {
			t.strongConnect(id)
		}
	}

	var cycles [][]kgraph.OperatorID
	for _, comp := range t.components {
		if len(comp) > 1 || t.hasSelfLoop(comp[0]) {
			slices.Sort(comp)
			cycles = append(cycles, comp)
		}
	}
	slices.SortFunc(cycles, func(a, b []kgraph.OperatorID) int {
		return int(a[0] - b[0])
	})
	return cycles
}

// tarjan computes strongly connected components (Tarjan, 1972) over the
// downstream edges between member operators.
type tarjan struct {
	graph  *kgraph.Graph
	member map[kgraph.OperatorID]bool

	counter    int
	index      map[kgraph.OperatorID]int
	lowlink    map[kgraph.OperatorID]int
	onStack    map[kgraph.OperatorID]bool
	stack      []kgraph.OperatorID
	components [][]kgraph.OperatorID
}

func (t *tarjan) successors(id kgraph.OperatorID) []kgraph.OperatorID {
	op, _ := t.graph.Operator(id)
	var next []kgraph.OperatorID
	for _, out := range op.Outputs {
		for _, ref := range out.Consumers() {
			if t.member[ref.Op] {
				next = append(next, ref.Op)
			}
		}
	}
	return next
}

func (t *tarjan) hasSelfLoop(id kgraph.OperatorID) bool {
	return slices.Contains(t.successors(id), id)
}

func (t *tarjan) strongConnect(v kgraph.OperatorID) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.successors(v) {
		if _, seen := t.index[w]; !seen {
			t.strongConnect(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.index[w])
		}
	}

	if t.lowlink[v] != t.index[v] {
		return
	}

	var comp []kgraph.OperatorID
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		comp = append(comp, w)
		if w == v {
			break
		}
	}
	t.components = append(t.components, comp)
}
