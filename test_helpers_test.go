package kplan

import (
	"fmt"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kplan/kgraph"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// addTestOperator adds an elementary operator with the given number of
// input and output slots.
func addTestOperator(t testing.TB, g *kgraph.Graph, name string, inputs, outputs int) kgraph.OperatorID {
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

func connect(g *kgraph.Graph, from kgraph.OperatorID, out int, to kgraph.OperatorID, in int) {
	g.MustConnect(kgraph.Output(from, out), kgraph.Input(to, in))
}

// pipeline is source -> map -> sink.
type pipeline struct {
	g              *kgraph.Graph
	source, mapper kgraph.OperatorID
	sink           kgraph.OperatorID
}

func newPipeline(t testing.TB) pipeline {
	g := kgraph.NewGraph()
	p := pipeline{g: g}
	p.source = addTestOperator(t, g, "source", 0, 1)
	p.mapper = addTestOperator(t, g, "map", 1, 1)
	p.sink = addTestOperator(t, g, "sink", 1, 0)
	connect(g, p.source, 0, p.mapper, 0)
	connect(g, p.mapper, 0, p.sink, 0)
	return p
}

// logSink records every log line written through it.
type logSink struct {
	lines []string
}

func (s *logSink) logger() logr.Logger {
	return funcr.New(func(prefix, args string) {
		s.lines = append(s.lines, prefix+" "+args)
	}, funcr.Options{})
}

func (s *logSink) count(substr string) int {
	n := 0
	for _, line := range s.lines {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}
