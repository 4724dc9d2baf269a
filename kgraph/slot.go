package kgraph

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// SlotSpec declares a slot when an operator is added to a Graph.
// A zero Type is treated as cty.DynamicPseudoType.
type SlotSpec struct {
	Name string
	Type cty.Type
}

// InputRef addresses an input slot by owner and index.
type InputRef struct {
	Op    OperatorID
	Index int
}

// Input returns a reference to the i-th input slot of op.
func Input(op OperatorID, i int) InputRef {
	return InputRef{Op: op, Index: i}
}

func (r InputRef) String() string {
	return fmt.Sprintf("%d.in[%d]", r.Op, r.Index)
}

// OutputRef addresses an output slot by owner and index.
type OutputRef struct {
	Op    OperatorID
	Index int
}

// Output returns a reference to the i-th output slot of op.
func Output(op OperatorID, i int) OutputRef {
	return OutputRef{Op: op, Index: i}
}

func (r OutputRef) String() string {
	return fmt.Sprintf("%d.out[%d]", r.Op, r.Index)
}

// InputSlot consumes the data of at most one output slot.
type InputSlot struct {
	Name  string
	Type  cty.Type
	Owner OperatorID
	Index int

	producer OutputRef
	occupied bool
}

// Ref returns the address of the slot.
func (s *InputSlot) Ref() InputRef {
	return InputRef{Op: s.Owner, Index: s.Index}
}

// Producer returns the output slot feeding this slot, if any.
func (s *InputSlot) Producer() (OutputRef, bool) {
	return s.producer, s.occupied
}

// IsOccupied reports whether a producer is connected.
func (s *InputSlot) IsOccupied() bool {
	return s.occupied
}

// OutputSlot feeds any number of input slots.
type OutputSlot struct {
	Name  string
	Type  cty.Type
	Owner OperatorID
	Index int

	// Consumers in connection order.
	occupied []InputRef
}

// Ref returns the address of the slot.
func (s *OutputSlot) Ref() OutputRef {
	return OutputRef{Op: s.Owner, Index: s.Index}
}

// Consumers returns a copy of the connected input slots in connection order.
func (s *OutputSlot) Consumers() []InputRef {
	consumers := make([]InputRef, len(s.occupied))
	copy(consumers, s.occupied)
	return consumers
}

func (s *OutputSlot) indexOf(in InputRef) int {
	for i, ref := range s.occupied {
		if ref == in {
			return i
		}
	}
	return -1
}

// Edge is a connection from an output slot to an input slot.
type Edge struct {
	From OutputRef
	To   InputRef
}

func (e Edge) String() string {
	return e.From.String() + " -> " + e.To.String()
}

func slotType(t cty.Type) cty.Type {
	if t == cty.NilType {
		return cty.DynamicPseudoType
	}
	return t
}
