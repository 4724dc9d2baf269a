package kgraph

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// insertSorted inserts an item into a sorted slice maintaining sort order.
func insertSorted(ids []OperatorID, id OperatorID) []OperatorID {
	idx := sort.Search(len(ids), func(i int) bool {
		return ids[i] >= id
	})
	return slices.Insert(ids, idx, id)
}

// TopologicalOrder orders the given operators so that every producer comes
// before its consumers, considering only edges between them. Ties are broken
// by ascending ID (Kahn's algorithm). Returns ErrCycleDetected if the
// operators contain a cycle.
func (g *Graph) TopologicalOrder(ids []OperatorID) ([]OperatorID, error) {
	inDegree := make(map[OperatorID]int, len(ids))
	for _, id := range ids {
		if _, ok := g.Operator(id); !ok {
			return nil, fmt.Errorf("%w: %d", ErrOperatorNotFound, id)
		}
		inDegree[id] = 0
	}
	for id := range inDegree {
		for _, succ := range g.successors(id, inDegree) {
			inDegree[succ]++
		}
	}

	queue := make([]OperatorID, 0, len(inDegree))
	for id, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}
	slices.Sort(queue)

	result := make([]OperatorID, 0, len(inDegree))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		result = append(result, id)

		for _, succ := range g.successors(id, inDegree) {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = insertSorted(queue, succ)
			}
		}
	}

	if len(result) != len(inDegree) {
		var stuck []string
		for id, degree := range inDegree {
			if degree > 0 {
				stuck = append(stuck, g.ops[id].String())
			}
		}
		slices.Sort(stuck)
		return nil, fmt.Errorf("%w: %s", ErrCycleDetected, strings.Join(stuck, ", "))
	}
	return result, nil
}

// successors lists the consumers of id within members, one entry per edge.
func (g *Graph) successors(id OperatorID, members map[OperatorID]int) []OperatorID {
	var succ []OperatorID
	for _, out := range g.ops[id].Outputs {
		for _, in := range out.occupied {
			if _, ok := members[in.Op]; ok {
				succ = append(succ, in.Op)
			}
		}
	}
	return succ
}
