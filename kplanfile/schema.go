package kplanfile

import (
	"github.com/hashicorp/hcl/v2"
)

// fileSchema is the HCL layout of a plan description file.
type fileSchema struct {
	Operators []*operatorBlock `hcl:"operator,block"`
}

type operatorBlock struct {
	Name    string         `hcl:"name,label"`
	Kind    *hcl.Attribute `hcl:"kind,optional"`
	Parent  *string        `hcl:"parent,optional"`
	Sink    *bool          `hcl:"sink,optional"`
	Inputs  []*inputBlock  `hcl:"input,block"`
	Outputs []*outputBlock `hcl:"output,block"`
}

type inputBlock struct {
	Name string         `hcl:"name,label"`
	From *string        `hcl:"from,optional"`
	Type *hcl.Attribute `hcl:"type,optional"`
}

type outputBlock struct {
	Name string         `hcl:"name,label"`
	Type *hcl.Attribute `hcl:"type,optional"`
}
