// Package kplanfile loads plan descriptions written in HCL.
//
// A description declares operators, their slots and the producer of every
// connected input slot:
//
//	operator "source" {
//	  output "out" { type = string }
//	}
//
//	operator "length" {
//	  input "in" {
//	    from = "source.out"
//	    type = string
//	  }
//	  output "out" { type = number }
//	}
//
//	operator "sink" {
//	  input "in" { from = "length.out" }
//	  sink = true
//	}
//
// Slot types use HCL type constraint syntax. A missing type matches any
// other type. Operators may set kind ("elementary", "loop", "subplan") and
// parent, the name of the composite operator they are nested in.
package kplanfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/birdayz/kplan/kgraph"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Sentinel errors for common failure cases.
var (
	ErrDecode           = errors.New("failed to decode plan description")
	ErrUnknownReference = errors.New("unknown reference")
	ErrTypeMismatch     = errors.New("type mismatch")
)

// File is a decoded plan description.
type File struct {
	Filename  string
	Operators []*OperatorDecl
}

// OperatorDecl declares one operator.
type OperatorDecl struct {
	Name    string
	Kind    kgraph.Kind
	Parent  string
	Sink    bool
	Inputs  []InputDecl
	Outputs []SlotDecl
}

// SlotDecl declares a slot.
type SlotDecl struct {
	Name string
	Type cty.Type
}

// InputDecl declares an input slot and, optionally, its producer.
type InputDecl struct {
	SlotDecl
	// From references the producer as "<operator>.<output>".
	From string
}

// Load reads and decodes a plan description file.
func Load(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return Decode(path, src)
}

// Decode parses and decodes a plan description.
func Decode(filename string, src []byte) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w %s: %s", ErrDecode, filename, diags.Error())
	}

	var schema fileSchema
	diags = gohcl.DecodeBody(file.Body, nil, &schema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w %s: %s", ErrDecode, filename, diags.Error())
	}

	f := &File{Filename: filename}
	for _, block := range schema.Operators {
		decl, diags := decodeOperator(block)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%w %s: %s", ErrDecode, filename, diags.Error())
		}
		f.Operators = append(f.Operators, decl)
	}
	return f, nil
}

func decodeOperator(block *operatorBlock) (*OperatorDecl, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	decl := &OperatorDecl{Name: block.Name}

	if block.Kind != nil {
		var name string
		diags = append(diags, gohcl.DecodeExpression(block.Kind.Expr, nil, &name)...)
		kind, err := parseKind(name)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid operator kind",
				Detail:   fmt.Sprintf("operator %q: %s", block.Name, err),
				Subject:  block.Kind.Expr.Range().Ptr(),
			})
		}
		decl.Kind = kind
	}
	if block.Parent != nil {
		decl.Parent = *block.Parent
	}
	if block.Sink != nil {
		decl.Sink = *block.Sink
	}

	for _, in := range block.Inputs {
		typ, typeDiags := decodeType(in.Type)
		diags = append(diags, typeDiags...)
		input := InputDecl{SlotDecl: SlotDecl{Name: in.Name, Type: typ}}
		if in.From != nil {
			input.From = *in.From
		}
		decl.Inputs = append(decl.Inputs, input)
	}
	for _, out := range block.Outputs {
		typ, typeDiags := decodeType(out.Type)
		diags = append(diags, typeDiags...)
		decl.Outputs = append(decl.Outputs, SlotDecl{Name: out.Name, Type: typ})
	}
	return decl, diags
}

func decodeType(attr *hcl.Attribute) (cty.Type, hcl.Diagnostics) {
	if attr == nil {
		return cty.DynamicPseudoType, nil
	}
	return typeexpr.TypeConstraint(attr.Expr)
}

func parseKind(s string) (kgraph.Kind, error) {
	switch strings.ToLower(s) {
	case "", "elementary":
		return kgraph.KindElementary, nil
	case "loop":
		return kgraph.KindLoop, nil
	case "subplan":
		return kgraph.KindSubplan, nil
	default:
		return kgraph.KindElementary, fmt.Errorf("unknown kind %q (expected elementary, loop or subplan)", s)
	}
}

func parseReference(ref string) (op, slot string, err error) {
	op, slot, ok := strings.Cut(ref, ".")
	if !ok || op == "" || slot == "" || strings.Contains(slot, ".") {
		return "", "", fmt.Errorf("%w: %q is not of the form <operator>.<output>", ErrUnknownReference, ref)
	}
	return op, slot, nil
}
