// Package kplan holds the plan graph: the set of sinks of a logical plan and
// the preparation steps run on it before optimization.
//
// A Plan is built on top of a kgraph.Graph. Callers add operators and wire
// slots on the graph, register the terminal operators as sinks, and call
// Prepare. Prepare prunes every branch that does not lead to a sink and then
// hands the plan to a LoopIsolator. After pruning no more sinks can be added.
//
// Plan is NOT safe for concurrent use.
package kplan

import (
	"fmt"

	"github.com/birdayz/kplan/kgraph"
	"github.com/birdayz/kplan/kloop"
	"github.com/birdayz/kplan/ktraverse"
	"github.com/go-logr/logr"
	"github.com/tidwall/btree"
)

// LoopIsolator rewrites the cyclic regions of a pruned plan into composite
// loop operators so that the top-level graph becomes acyclic.
type LoopIsolator interface {
	IsolateLoops(g *kgraph.Graph, sinks []kgraph.OperatorID) error
}

// Plan is a logical plan rooted at its sinks.
type Plan struct {
	graph *kgraph.Graph
	sinks *btree.BTreeG[kgraph.OperatorID]

	loopsIsolated bool
	pruned        bool

	log      logr.Logger
	isolator LoopIsolator
}

// New creates a plan over g with the given sinks.
func New(g *kgraph.Graph, sinks []kgraph.OperatorID, opts ...Option) (*Plan, error) {
	p := &Plan{
		graph: g,
		sinks: btree.NewBTreeG(func(a, b kgraph.OperatorID) bool {
			return a < b
		}),
		log: logr.Discard(),
	}

	for _, opt := range opts {
		opt(p)
	}
	if p.isolator == nil {
		p.isolator = kloop.New(kloop.WithLogr(p.log.WithName("kloop")))
	}

	for _, sink := range sinks {
		if err := p.AddSink(sink); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// MustNew is like New but panics on error.
func MustNew(g *kgraph.Graph, sinks []kgraph.OperatorID, opts ...Option) *Plan {
	p, err := New(g, sinks, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Graph returns the operator graph the plan is built on.
func (p *Plan) Graph() *kgraph.Graph {
	return p.graph
}

// AddSink registers a top-level sink operator. Sinks can only be added
// before the plan is pruned or loop-isolated.
func (p *Plan) AddSink(id kgraph.OperatorID) error {
	if p.loopsIsolated || p.pruned {
		return fmt.Errorf("%w: too late to add sink %d", ErrInvalidState, id)
	}
	if err := p.validateSink(id); err != nil {
		return err
	}
	p.sinks.Set(id)
	return nil
}

// ReplaceSink swaps oldSink for newSink if oldSink is a current sink and
// does nothing otherwise. newSink has to be top-level only when it is
// registered. Unlike AddSink this is allowed at any point of the lifecycle;
// keeping the plan consistent is up to the caller.
func (p *Plan) ReplaceSink(oldSink, newSink kgraph.OperatorID) error {
	if oldSink == newSink {
		return nil
	}
	old, ok := p.graph.Operator(oldSink)
	if !ok || !old.IsSink() {
		return fmt.Errorf("%w: %d is not a sink", ErrValidation, oldSink)
	}
	repl, ok := p.graph.Operator(newSink)
	if !ok || !repl.IsSink() {
		return fmt.Errorf("%w: %d is not a sink", ErrValidation, newSink)
	}
	if !p.IsSink(oldSink) {
		return nil
	}
	if err := p.validateSink(newSink); err != nil {
		return err
	}
	p.sinks.Delete(oldSink)
	p.sinks.Set(newSink)
	return nil
}

func (p *Plan) validateSink(id kgraph.OperatorID) error {
	op, ok := p.graph.Operator(id)
	if !ok {
		return fmt.Errorf("%w: %w: %d", ErrValidation, kgraph.ErrOperatorNotFound, id)
	}
	if !op.IsSink() {
		return fmt.Errorf("%w: %s is not a sink", ErrValidation, op)
	}
	if !op.IsTopLevel() {
		return fmt.Errorf("%w: %s is nested", ErrValidation, op)
	}
	return nil
}

// Sinks returns the sinks in ascending ID order.
func (p *Plan) Sinks() []kgraph.OperatorID {
	return p.sinks.Items()
}

// IsSink reports whether id is a registered sink.
func (p *Plan) IsSink(id kgraph.OperatorID) bool {
	_, ok := p.sinks.Get(id)
	return ok
}

// Reachable returns every operator reachable upstream from the sinks.
func (p *Plan) Reachable() []kgraph.OperatorID {
	return ktraverse.Upstream(p.graph).Traverse(p.Sinks()...).Visited()
}

// CollectReachableTopLevelSources returns the top-level source operators
// reachable from the sinks.
func (p *Plan) CollectReachableTopLevelSources() []kgraph.OperatorID {
	return ktraverse.Upstream(p.graph).
		Traverse(p.Sinks()...).
		Matching(func(op *kgraph.Operator) bool {
			return op.IsSource() && op.IsTopLevel()
		})
}

// Prepare prunes the plan and isolates its loops, unless loops are already
// isolated.
func (p *Plan) Prepare() error {
	if p.loopsIsolated {
		return nil
	}
	p.Prune()

	if err := p.isolator.IsolateLoops(p.graph, p.Sinks()); err != nil {
		return fmt.Errorf("failed to isolate loops: %w", err)
	}
	p.SetLoopsIsolated()
	return nil
}

// IsLoopsIsolated tells whether loops of the plan have been isolated.
func (p *Plan) IsLoopsIsolated() bool {
	return p.loopsIsolated
}

// SetLoopsIsolated marks the loops of the plan as isolated.
func (p *Plan) SetLoopsIsolated() {
	p.loopsIsolated = true
}

// IsPruned tells whether the plan has been pruned.
func (p *Plan) IsPruned() bool {
	return p.pruned
}

// TopologicalOrder returns the reachable top-level operators with producers
// before consumers. It fails with kgraph.ErrCycleDetected while loops are
// not isolated yet.
func (p *Plan) TopologicalOrder() ([]kgraph.OperatorID, error) {
	ids := ktraverse.Upstream(p.graph).
		Traverse(p.Sinks()...).
		Matching((*kgraph.Operator).IsTopLevel)
	return p.graph.TopologicalOrder(ids)
}
