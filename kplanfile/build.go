package kplanfile

import (
	"fmt"

	"github.com/birdayz/kplan"
	"github.com/birdayz/kplan/kgraph"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/multierr"
)

// Build creates the operators of f in a new graph, connects them and
// registers the sink operators in a new plan. All problems found in the
// description are reported together.
func (f *File) Build(opts ...kplan.Option) (*kplan.Plan, error) {
	g := kgraph.NewGraph()

	var errs error
	for _, decl := range f.Operators {
		spec := kgraph.OperatorSpec{Name: decl.Name, Kind: decl.Kind}
		for _, in := range decl.Inputs {
			spec.Inputs = append(spec.Inputs, kgraph.SlotSpec{Name: in.Name, Type: in.Type})
		}
		for _, out := range decl.Outputs {
			spec.Outputs = append(spec.Outputs, kgraph.SlotSpec{Name: out.Name, Type: out.Type})
		}
		if _, err := g.AddOperator(spec); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return nil, fmt.Errorf("%s: %w", f.Filename, errs)
	}

	for _, decl := range f.Operators {
		if decl.Parent == "" {
			continue
		}
		op, _ := g.Lookup(decl.Name)
		parent, ok := g.Lookup(decl.Parent)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: operator %q has unknown parent %q", ErrUnknownReference, decl.Name, decl.Parent))
			continue
		}
		errs = multierr.Append(errs, g.Nest(op.ID, parent.ID))
	}

	for _, decl := range f.Operators {
		op, _ := g.Lookup(decl.Name)
		for i, in := range decl.Inputs {
			if in.From == "" {
				continue
			}
			errs = multierr.Append(errs, connect(g, op.Inputs[i], in.From))
		}
	}

	var sinks []kgraph.OperatorID
	for _, decl := range f.Operators {
		if decl.Sink {
			op, _ := g.Lookup(decl.Name)
			sinks = append(sinks, op.ID)
		}
	}
	if errs != nil {
		return nil, fmt.Errorf("%s: %w", f.Filename, errs)
	}

	plan, err := kplan.New(g, sinks, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Filename, err)
	}
	return plan, nil
}

func connect(g *kgraph.Graph, in *kgraph.InputSlot, from string) error {
	owner, _ := g.Operator(in.Owner)

	opName, slotName, err := parseReference(from)
	if err != nil {
		return fmt.Errorf("input %s.%s: %w", owner.Name, in.Name, err)
	}
	producer, ok := g.Lookup(opName)
	if !ok {
		return fmt.Errorf("%w: input %s.%s references unknown operator %q", ErrUnknownReference, owner.Name, in.Name, opName)
	}

	var out *kgraph.OutputSlot
	for _, candidate := range producer.Outputs {
		if candidate.Name == slotName {
			out = candidate
			break
		}
	}
	if out == nil {
		return fmt.Errorf("%w: input %s.%s references unknown output %q", ErrUnknownReference, owner.Name, in.Name, from)
	}

	if !compatible(out, in) {
		return fmt.Errorf("%w: %s produces %s but %s.%s expects %s",
			ErrTypeMismatch, from, out.Type.FriendlyName(), owner.Name, in.Name, in.Type.FriendlyName())
	}
	return g.Connect(out.Ref(), in.Ref())
}

func compatible(out *kgraph.OutputSlot, in *kgraph.InputSlot) bool {
	if out.Type.Equals(cty.DynamicPseudoType) || in.Type.Equals(cty.DynamicPseudoType) {
		return true
	}
	return out.Type.Equals(in.Type)
}
