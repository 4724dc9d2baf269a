package kgraph

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/multierr"
)

// Graph is the arena owning every operator of a plan.
// Operators are never removed; pruning only drops edges.
type Graph struct {
	ops    []*Operator
	byName map[string]OperatorID
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		ops:    make([]*Operator, 0),
		byName: make(map[string]OperatorID),
	}
}

// AddOperator adds a detached, top-level operator to the graph.
func (g *Graph) AddOperator(spec OperatorSpec) (OperatorID, error) {
	if err := validateName(spec.Name); err != nil {
		return NoOperator, err
	}
	if _, exists := g.byName[spec.Name]; exists {
		return NoOperator, fmt.Errorf("%w: %q", ErrOperatorAlreadyExists, spec.Name)
	}
	if err := validateSlotNames(spec.Inputs); err != nil {
		return NoOperator, fmt.Errorf("operator %q inputs: %w", spec.Name, err)
	}
	if err := validateSlotNames(spec.Outputs); err != nil {
		return NoOperator, fmt.Errorf("operator %q outputs: %w", spec.Name, err)
	}

	id := OperatorID(len(g.ops))
	op := &Operator{
		ID:      id,
		Name:    spec.Name,
		Kind:    spec.Kind,
		Inputs:  make([]*InputSlot, 0, len(spec.Inputs)),
		Outputs: make([]*OutputSlot, 0, len(spec.Outputs)),
		Parent:  NoOperator,
	}
	for _, s := range spec.Inputs {
		op.Inputs = append(op.Inputs, &InputSlot{Name: s.Name, Type: slotType(s.Type), Owner: id, Index: len(op.Inputs)})
	}
	for _, s := range spec.Outputs {
		op.Outputs = append(op.Outputs, &OutputSlot{Name: s.Name, Type: slotType(s.Type), Owner: id, Index: len(op.Outputs)})
	}

	g.ops = append(g.ops, op)
	g.byName[spec.Name] = id
	return id, nil
}

// MustAddOperator is like AddOperator but panics on error.
func (g *Graph) MustAddOperator(spec OperatorSpec) OperatorID {
	id, err := g.AddOperator(spec)
	if err != nil {
		panic(err)
	}
	return id
}

// Len returns the number of operators in the arena.
func (g *Graph) Len() int {
	return len(g.ops)
}

// Operator returns the operator with the given ID.
func (g *Graph) Operator(id OperatorID) (*Operator, bool) {
	if id < 0 || int(id) >= len(g.ops) {
		return nil, false
	}
	return g.ops[id], true
}

// Lookup returns the operator with the given name.
func (g *Graph) Lookup(name string) (*Operator, bool) {
	id, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	return g.ops[id], true
}

// Operators returns all operators in ID order.
func (g *Graph) Operators() []*Operator {
	return slices.Clone(g.ops)
}

// InputSlot resolves an input reference.
func (g *Graph) InputSlot(ref InputRef) (*InputSlot, bool) {
	op, ok := g.Operator(ref.Op)
	if !ok || ref.Index < 0 || ref.Index >= len(op.Inputs) {
		return nil, false
	}
	return op.Inputs[ref.Index], true
}

// OutputSlot resolves an output reference.
func (g *Graph) OutputSlot(ref OutputRef) (*OutputSlot, bool) {
	op, ok := g.Operator(ref.Op)
	if !ok || ref.Index < 0 || ref.Index >= len(op.Outputs) {
		return nil, false
	}
	return op.Outputs[ref.Index], true
}

// AddInput appends an input slot to an existing operator.
func (g *Graph) AddInput(id OperatorID, spec SlotSpec) (InputRef, error) {
	op, ok := g.Operator(id)
	if !ok {
		return InputRef{}, fmt.Errorf("%w: %d", ErrOperatorNotFound, id)
	}
	if err := validateName(spec.Name); err != nil {
		return InputRef{}, err
	}
	slot := &InputSlot{Name: spec.Name, Type: slotType(spec.Type), Owner: id, Index: len(op.Inputs)}
	op.Inputs = append(op.Inputs, slot)
	return slot.Ref(), nil
}

// AddOutput appends an output slot to an existing operator.
func (g *Graph) AddOutput(id OperatorID, spec SlotSpec) (OutputRef, error) {
	op, ok := g.Operator(id)
	if !ok {
		return OutputRef{}, fmt.Errorf("%w: %d", ErrOperatorNotFound, id)
	}
	if err := validateName(spec.Name); err != nil {
		return OutputRef{}, err
	}
	slot := &OutputSlot{Name: spec.Name, Type: slotType(spec.Type), Owner: id, Index: len(op.Outputs)}
	op.Outputs = append(op.Outputs, slot)
	return slot.Ref(), nil
}

// Nest moves a top-level operator into the sub-plan of a composite.
func (g *Graph) Nest(child, parent OperatorID) error {
	c, ok := g.Operator(child)
	if !ok {
		return fmt.Errorf("%w: child %d", ErrOperatorNotFound, child)
	}
	p, ok := g.Operator(parent)
	if !ok {
		return fmt.Errorf("%w: parent %d", ErrOperatorNotFound, parent)
	}
	if p.IsElementary() {
		return fmt.Errorf("%w: %s is elementary", ErrInvalidNesting, p)
	}
	if !c.IsTopLevel() {
		return fmt.Errorf("%w: %s is already nested", ErrInvalidNesting, c)
	}
	for anc := p; ; {
		if anc.ID == child {
			return fmt.Errorf("%w: %s would contain itself", ErrInvalidNesting, c)
		}
		if anc.IsTopLevel() {
			break
		}
		anc = g.ops[anc.Parent]
	}

	c.Parent = parent
	p.Inner = append(p.Inner, child)
	return nil
}

// Connect establishes the edge out -> in. Reconnecting the same pair is a
// no-op; an input fed by another producer must be disconnected first.
func (g *Graph) Connect(out OutputRef, in InputRef) error {
	o, ok := g.OutputSlot(out)
	if !ok {
		return fmt.Errorf("%w: output %s", ErrSlotNotFound, out)
	}
	i, ok := g.InputSlot(in)
	if !ok {
		return fmt.Errorf("%w: input %s", ErrSlotNotFound, in)
	}
	if i.occupied {
		if i.producer == out {
			return nil
		}
		return fmt.Errorf("%w: %s is fed by %s, cannot connect %s",
			ErrAlreadyOccupied, in, i.producer, out)
	}

	o.occupied = append(o.occupied, in)
	i.producer = out
	i.occupied = true
	return nil
}

// MustConnect is like Connect but panics on error.
func (g *Graph) MustConnect(out OutputRef, in InputRef) {
	if err := g.Connect(out, in); err != nil {
		panic(err)
	}
}

// Disconnect removes the edge out -> in. It reports whether an edge was removed.
func (g *Graph) Disconnect(out OutputRef, in InputRef) bool {
	o, ok := g.OutputSlot(out)
	if !ok {
		return false
	}
	i, ok := g.InputSlot(in)
	if !ok || !i.occupied || i.producer != out {
		return false
	}

	if idx := o.indexOf(in); idx >= 0 {
		o.occupied = slices.Delete(o.occupied, idx, idx+1)
	}
	i.producer = OutputRef{}
	i.occupied = false
	return true
}

// Producer returns the output slot feeding in.
func (g *Graph) Producer(in InputRef) (OutputRef, bool) {
	i, ok := g.InputSlot(in)
	if !ok {
		return OutputRef{}, false
	}
	return i.Producer()
}

// Consumers returns the input slots fed by out in connection order.
func (g *Graph) Consumers(out OutputRef) []InputRef {
	o, ok := g.OutputSlot(out)
	if !ok {
		return nil
	}
	return o.Consumers()
}

// Edges returns all edges, ordered by producer and then consumer.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, op := range g.ops {
		for _, out := range op.Outputs {
			consumers := out.Consumers()
			slices.SortFunc(consumers, compareInputs)
			for _, in := range consumers {
				edges = append(edges, Edge{From: out.Ref(), To: in})
			}
		}
	}
	return edges
}

// Validate checks that every edge is recorded on both of its sides and that
// nesting links are symmetric. All violations are reported.
func (g *Graph) Validate() error {
	var errs error
	for _, op := range g.ops {
		for _, in := range op.Inputs {
			if !in.occupied {
				continue
			}
			out, ok := g.OutputSlot(in.producer)
			if !ok {
				errs = multierr.Append(errs, fmt.Errorf("%w: %s fed by missing %s", ErrInconsistentEdge, in.Ref(), in.producer))
				continue
			}
			if out.indexOf(in.Ref()) < 0 {
				errs = multierr.Append(errs, fmt.Errorf("%w: %s does not list %s", ErrInconsistentEdge, out.Ref(), in.Ref()))
			}
		}
		for _, out := range op.Outputs {
			for _, ref := range out.occupied {
				in, ok := g.InputSlot(ref)
				if !ok || !in.occupied || in.producer != out.Ref() {
					errs = multierr.Append(errs, fmt.Errorf("%w: %s lists %s which is not fed by it", ErrInconsistentEdge, out.Ref(), ref))
				}
			}
		}
		if !op.IsTopLevel() {
			parent, ok := g.Operator(op.Parent)
			if !ok || !slices.Contains(parent.Inner, op.ID) {
				errs = multierr.Append(errs, fmt.Errorf("%w: %s is not listed by its parent", ErrInvalidNesting, op))
			}
		}
	}
	return errs
}

func compareInputs(a, b InputRef) int {
	if c := cmp.Compare(a.Op, b.Op); c != 0 {
		return c
	}
	return cmp.Compare(a.Index, b.Index)
}

func validateSlotNames(specs []SlotSpec) error {
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if err := validateName(s.Name); err != nil {
			return err
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate slot %q", ErrInvalidName, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}
