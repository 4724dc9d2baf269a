package kgraph

import (
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/zclconf/go-cty/cty"
)

// addTestOperator adds an elementary operator with the given number of
// string-typed input and output slots.
func addTestOperator(t testing.TB, g *Graph, name string, inputs, outputs int) OperatorID {
	t.Helper()
	spec := OperatorSpec{Name: name}
	for i := 0; i < inputs; i++ {
		spec.Inputs = append(spec.Inputs, SlotSpec{Name: fmt.Sprintf("in%d", i), Type: cty.String})
	}
	for i := 0; i < outputs; i++ {
		spec.Outputs = append(spec.Outputs, SlotSpec{Name: fmt.Sprintf("out%d", i), Type: cty.String})
	}
	id, err := g.AddOperator(spec)
	assert.NoError(t, err)
	return id
}
