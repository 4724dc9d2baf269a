package ktraverse

import (
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kplan/kgraph"
)

func addOp(t testing.TB, g *kgraph.Graph, name string, inputs, outputs int) kgraph.OperatorID {
	t.Helper()
	spec := kgraph.OperatorSpec{Name: name}
	for i := 0; i < inputs; i++ {
		spec.Inputs = append(spec.Inputs, kgraph.SlotSpec{Name: fmt.Sprintf("in%d", i)})
	}
	for i := 0; i < outputs; i++ {
		spec.Outputs = append(spec.Outputs, kgraph.SlotSpec{Name: fmt.Sprintf("out%d", i)})
	}
	id, err := g.AddOperator(spec)
	assert.NoError(t, err)
	return id
}

// source -> map -> sink, plus map -> dead
func chain(t *testing.T) (g *kgraph.Graph, src, mp, sink, dead kgraph.OperatorID) {
	g = kgraph.NewGraph()
	src = addOp(t, g, "source", 0, 1)
	mp = addOp(t, g, "map", 1, 1)
	sink = addOp(t, g, "sink", 1, 0)
	dead = addOp(t, g, "dead", 1, 0)
	g.MustConnect(kgraph.Output(src, 0), kgraph.Input(mp, 0))
	g.MustConnect(kgraph.Output(mp, 0), kgraph.Input(sink, 0))
	g.MustConnect(kgraph.Output(mp, 0), kgraph.Input(dead, 0))
	return g, src, mp, sink, dead
}

func TestUpstream(t *testing.T) {
	g, src, mp, sink, dead := chain(t)

	res := Upstream(g).Traverse(sink)
	assert.Equal(t, []kgraph.OperatorID{sink, mp, src}, res.Visited())
	assert.False(t, res.Contains(dead))
	assert.Equal(t, 3, res.Len())
}

func TestDownstream(t *testing.T) {
	g, src, mp, sink, dead := chain(t)

	res := Downstream(g).Traverse(src)
	assert.Equal(t, []kgraph.OperatorID{src, mp, sink, dead}, res.Visited())
	assert.Equal(t, DirectionDownstream, Downstream(g).Direction())
}

func TestTraverseSkipsUnoccupiedInputs(t *testing.T) {
	g := kgraph.NewGraph()
	join := addOp(t, g, "join", 2, 0)
	left := addOp(t, g, "left", 0, 1)
	g.MustConnect(kgraph.Output(left, 0), kgraph.Input(join, 0))

	res := Upstream(g).Traverse(join)
	assert.Equal(t, []kgraph.OperatorID{join, left}, res.Visited())
}

func TestTraverseStartSet(t *testing.T) {
	t.Run("empty start", func(t *testing.T) {
		g, _, _, _, _ := chain(t)
		res := Upstream(g).Traverse()
		assert.Equal(t, 0, res.Len())
	})

	t.Run("duplicates and unknown ids", func(t *testing.T) {
		g, src, mp, sink, _ := chain(t)
		res := Upstream(g).Traverse(sink, sink, 100, kgraph.NoOperator)
		assert.Equal(t, []kgraph.OperatorID{sink, mp, src}, res.Visited())
	})

	t.Run("shared upstream visited once", func(t *testing.T) {
		g, src, mp, sink, dead := chain(t)
		visits := map[kgraph.OperatorID]int{}
		Upstream(g).
			WithCallback(func(op *kgraph.Operator, _ *kgraph.InputSlot, _ *kgraph.OutputSlot) {
				visits[op.ID]++
			}).
			Traverse(sink, dead)
		assert.Equal(t, map[kgraph.OperatorID]int{sink: 1, dead: 1, mp: 1, src: 1}, visits)
	})
}

func TestCallbackReceivesEdge(t *testing.T) {
	g, src, mp, sink, _ := chain(t)

	type visit struct {
		op  kgraph.OperatorID
		in  *kgraph.InputRef
		out *kgraph.OutputRef
	}
	var visits []visit
	Upstream(g).
		WithCallback(func(op *kgraph.Operator, in *kgraph.InputSlot, out *kgraph.OutputSlot) {
			v := visit{op: op.ID}
			if in != nil {
				ref := in.Ref()
				v.in = &ref
			}
			if out != nil {
				ref := out.Ref()
				v.out = &ref
			}
			visits = append(visits, v)
		}).
		Traverse(sink)

	assert.Equal(t, 3, len(visits))
	assert.Equal(t, sink, visits[0].op)
	assert.Zero(t, visits[0].in)
	assert.Zero(t, visits[0].out)

	assert.Equal(t, mp, visits[1].op)
	assert.Equal(t, kgraph.Input(sink, 0), *visits[1].in)
	assert.Equal(t, kgraph.Output(mp, 0), *visits[1].out)

	assert.Equal(t, src, visits[2].op)
	assert.Equal(t, kgraph.Input(mp, 0), *visits[2].in)
	assert.Equal(t, kgraph.Output(src, 0), *visits[2].out)
}

func TestTraverseTerminatesOnCycles(t *testing.T) {
	// a -> b -> c -> a, a also feeds sink through a side output.
	g := kgraph.NewGraph()
	a := addOp(t, g, "a", 1, 2)
	b := addOp(t, g, "b", 1, 1)
	c := addOp(t, g, "c", 1, 1)
	sink := addOp(t, g, "sink", 1, 0)
	g.MustConnect(kgraph.Output(a, 0), kgraph.Input(b, 0))
	g.MustConnect(kgraph.Output(b, 0), kgraph.Input(c, 0))
	g.MustConnect(kgraph.Output(c, 0), kgraph.Input(a, 0))
	g.MustConnect(kgraph.Output(a, 1), kgraph.Input(sink, 0))

	visits := map[kgraph.OperatorID]int{}
	res := Upstream(g).
		WithCallback(func(op *kgraph.Operator, _ *kgraph.InputSlot, _ *kgraph.OutputSlot) {
			visits[op.ID]++
		}).
		Traverse(sink)

	assert.Equal(t, 4, res.Len())
	for _, id := range []kgraph.OperatorID{sink, a, b, c} {
		assert.True(t, res.Contains(id))
		assert.Equal(t, 1, visits[id])
	}

	down := Downstream(g).Traverse(b)
	assert.Equal(t, []kgraph.OperatorID{b, c, a, sink}, down.Visited())
}

func TestCompositeIsVisitedNotDescended(t *testing.T) {
	g := kgraph.NewGraph()
	src := addOp(t, g, "source", 0, 1)
	loop := g.MustAddOperator(kgraph.OperatorSpec{
		Name:    "loop",
		Kind:    kgraph.KindLoop,
		Inputs:  []kgraph.SlotSpec{{Name: "in0"}},
		Outputs: []kgraph.SlotSpec{{Name: "out0"}},
	})
	body := addOp(t, g, "body", 0, 0)
	assert.NoError(t, g.Nest(body, loop))
	sink := addOp(t, g, "sink", 1, 0)
	g.MustConnect(kgraph.Output(src, 0), kgraph.Input(loop, 0))
	g.MustConnect(kgraph.Output(loop, 0), kgraph.Input(sink, 0))

	var composites []kgraph.OperatorID
	res := Upstream(g).
		WithCallback(func(op *kgraph.Operator, _ *kgraph.InputSlot, _ *kgraph.OutputSlot) {
			if !op.IsElementary() {
				composites = append(composites, op.ID)
			}
		}).
		Traverse(sink)

	assert.Equal(t, []kgraph.OperatorID{loop}, composites)
	assert.False(t, res.Contains(body))
	assert.Equal(t, []kgraph.OperatorID{sink, loop, src}, res.Visited())
}

func TestMatching(t *testing.T) {
	g, src, _, sink, _ := chain(t)

	res := Upstream(g).Traverse(sink)
	assert.Equal(t, []kgraph.OperatorID{src}, res.Matching((*kgraph.Operator).IsSource))
	assert.Equal(t, []kgraph.OperatorID{sink}, res.Matching((*kgraph.Operator).IsSink))
	assert.Equal(t, 0, len(res.Matching(func(*kgraph.Operator) bool { return false })))
}
