// Package kloop rewrites cyclic regions of a plan into loop operators.
//
// Every cyclic strongly connected component among the top-level operators
// reachable from the sinks is moved into a new composite operator of kind
// kgraph.KindLoop. Edges entering the component are rerouted through new
// input slots of the loop operator, edges leaving it through new output
// slots. Afterwards the top-level graph is acyclic.
package kloop

import (
	"fmt"

	"github.com/birdayz/kplan/kgraph"
	"github.com/go-logr/logr"
)

// Loop describes an isolated cycle.
type Loop struct {
	ID      kgraph.OperatorID
	Members []kgraph.OperatorID

	// Inlets maps each loop input slot to the member input slot it feeds.
	Inlets map[kgraph.InputRef]kgraph.InputRef
	// Outlets maps each loop output slot to the member output slot it exposes.
	Outlets map[kgraph.OutputRef]kgraph.OutputRef
}

// Option configures an Isolator.
type Option func(*Isolator)

// WithLogr sets the logger.
func WithLogr(log logr.Logger) Option {
	return func(i *Isolator) {
		i.log = log
	}
}

// Isolator is the default loop isolator.
type Isolator struct {
	log   logr.Logger
	loops []*Loop
}

// New creates a new Isolator.
func New(opts ...Option) *Isolator {
	i := &Isolator{
		log: logr.Discard(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Loops returns the loops created so far.
func (i *Isolator) Loops() []*Loop {
	return i.loops
}

// IsolateLoops encapsulates every cycle reachable from sinks.
func (i *Isolator) IsolateLoops(g *kgraph.Graph, sinks []kgraph.OperatorID) error {
	for _, members := range Cycles(g, sinks) {
		loop, err := isolate(g, members)
		if err != nil {
			return err
		}
		op, _ := g.Operator(loop.ID)
		i.log.Info("Isolated loop", "loop", op.Name, "members", len(members),
			"inlets", len(loop.Inlets), "outlets", len(loop.Outlets))
		i.loops = append(i.loops, loop)
	}
	return nil
}

func isolate(g *kgraph.Graph, members []kgraph.OperatorID) (*Loop, error) {
	inside := make(map[kgraph.OperatorID]bool, len(members))
	for _, id := range members {
		inside[id] = true
	}

	id, err := g.AddOperator(kgraph.OperatorSpec{Name: loopName(g), Kind: kgraph.KindLoop})
	if err != nil {
		return nil, err
	}
	loop := &Loop{
		ID:      id,
		Members: members,
		Inlets:  make(map[kgraph.InputRef]kgraph.InputRef),
		Outlets: make(map[kgraph.OutputRef]kgraph.OutputRef),
	}

	for _, m := range members {
		op, _ := g.Operator(m)

		for _, in := range op.Inputs {
			producer, ok := in.Producer()
			if !ok || inside[producer.Op] {
				continue
			}
			outer, err := g.AddInput(id, kgraph.SlotSpec{Name: fmt.Sprintf("in%d", len(loop.Inlets)), Type: in.Type})
			if err != nil {
				return nil, err
			}
			g.Disconnect(producer, in.Ref())
			if err := g.Connect(producer, outer); err != nil {
				return nil, fmt.Errorf("rerouting %s into loop: %w", producer, err)
			}
			loop.Inlets[outer] = in.Ref()
		}

		for _, out := range op.Outputs {
			var external []kgraph.InputRef
			for _, ref := range out.Consumers() {
				if !inside[ref.Op] {
					external = append(external, ref)
				}
			}
			if len(external) == 0 {
				continue
			}
			outer, err := g.AddOutput(id, kgraph.SlotSpec{Name: fmt.Sprintf("out%d", len(loop.Outlets)), Type: out.Type})
			if err != nil {
				return nil, err
			}
			for _, ref := range external {
				g.Disconnect(out.Ref(), ref)
				if err := g.Connect(outer, ref); err != nil {
					return nil, fmt.Errorf("rerouting %s out of loop: %w", ref, err)
				}
			}
			loop.Outlets[outer] = out.Ref()
		}
	}

	for _, m := range members {
		if err := g.Nest(m, id); err != nil {
			return nil, err
		}
	}
	return loop, nil
}

func loopName(g *kgraph.Graph) string {
	for n := 0; ; n++ {
		name := fmt.Sprintf("loop-%d", n)
		if _, exists := g.Lookup(name); !exists {
			return name
		}
	}
}

// Nop leaves the graph untouched.
type Nop struct{}

// IsolateLoops implements the loop isolator contract without rewriting anything.
func (Nop) IsolateLoops(*kgraph.Graph, []kgraph.OperatorID) error {
	return nil
}
