package kgraph

import (
	"fmt"
	"strings"
)

// OperatorID is the stable arena index of an operator.
type OperatorID int

// NoOperator is the parent of top-level operators.
const NoOperator OperatorID = -1

// Kind tags how an operator is structured.
type Kind int

const (
	// KindElementary operators have no nested sub-plan.
	KindElementary Kind = iota
	// KindLoop operators encapsulate an isolated cycle.
	KindLoop
	// KindSubplan operators encapsulate an arbitrary nested sub-plan.
	KindSubplan
)

func (k Kind) String() string {
	switch k {
	case KindElementary:
		return "Elementary"
	case KindLoop:
		return "Loop"
	case KindSubplan:
		return "Subplan"
	default:
		return "Unknown"
	}
}

// IsComposite reports whether operators of this kind own a nested sub-plan.
func (k Kind) IsComposite() bool {
	return k == KindLoop || k == KindSubplan
}

// OperatorSpec declares an operator when it is added to a Graph.
type OperatorSpec struct {
	Name    string
	Kind    Kind
	Inputs  []SlotSpec
	Outputs []SlotSpec
}

// Operator is a node of the plan graph.
type Operator struct {
	ID   OperatorID
	Name string
	Kind Kind

	Inputs  []*InputSlot
	Outputs []*OutputSlot

	// Parent is the enclosing composite, NoOperator for top-level operators.
	Parent OperatorID

	// Inner holds the nested operators of a composite in nesting order.
	Inner []OperatorID
}

// IsSource reports whether the operator consumes nothing.
func (o *Operator) IsSource() bool {
	return len(o.Inputs) == 0
}

// IsSink reports whether the operator produces nothing.
func (o *Operator) IsSink() bool {
	return len(o.Outputs) == 0
}

// IsElementary reports whether the operator has no nested sub-plan.
func (o *Operator) IsElementary() bool {
	return !o.Kind.IsComposite()
}

// IsTopLevel reports whether the operator is not nested in a composite.
func (o *Operator) IsTopLevel() bool {
	return o.Parent == NoOperator
}

func (o *Operator) String() string {
	return fmt.Sprintf("%s[%d]", o.Name, o.ID)
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, " \t\n\r") {
		return fmt.Errorf("%w: %q cannot contain whitespace", ErrInvalidName, name)
	}
	return nil
}
