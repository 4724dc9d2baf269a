// Package kgraph provides the operator/slot graph model of a logical plan.
//
// # Overview
//
// A plan is a directed graph of operators. Operators do not point at each
// other directly; they own ordered lists of slots, and edges run from an
// output slot to an input slot:
//
//   - **Output slot**: may feed any number of input slots (fan-out).
//   - **Input slot**: is fed by at most one output slot (its producer).
//
// All operators live in a Graph arena and are addressed by OperatorID. Slots
// are addressed by index pairs (OutputRef, InputRef), so edges never hold
// owning references and the graph may contain cycles without lifetime issues.
//
// # Basic Usage
//
//	g := kgraph.NewGraph()
//
//	src := g.MustAddOperator(kgraph.OperatorSpec{
//	    Name:    "source",
//	    Outputs: []kgraph.SlotSpec{{Name: "out", Type: cty.String}},
//	})
//	sink := g.MustAddOperator(kgraph.OperatorSpec{
//	    Name:   "sink",
//	    Inputs: []kgraph.SlotSpec{{Name: "in", Type: cty.String}},
//	})
//
//	err := g.Connect(kgraph.Output(src, 0), kgraph.Input(sink, 0))
//
// # Classification
//
// Operators are tagged by Kind rather than arranged in a type hierarchy:
//
//   - IsSource: the operator has no input slots
//   - IsSink: the operator has no output slots
//   - IsElementary: the operator has no nested sub-plan (KindElementary)
//   - IsTopLevel: the operator is not nested inside a composite
//
// # Edges
//
// Connect and Disconnect are the only way to mutate edges. Both update the
// producer and the consumer side, so an edge exists iff it is recorded on
// both. Validate checks that invariant.
//
// # Thread Safety
//
// Graph is NOT safe for concurrent use. Plans are built from a single
// goroutine and treated as read-only once prepared.
package kgraph
