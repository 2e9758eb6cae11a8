// Package constant provides leaf node types that emit a configured
// value: the graph-side way to introduce literals into a flow.
package constant

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/schema"
)

// Module registers the constant node types.
type Module struct{}

// Register contributes ConstantNumber, ConstantBool, and ConstantString.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterType(&schema.Definition{
		Type:        "ConstantNumber",
		Description: "Emits a configured number.",
		Inputs: []*schema.InputSpec{
			{Name: "Value", Type: cty.Number, Default: cty.Zero},
		},
		Outputs: []*schema.OutputSpec{
			{Name: "Number", Type: cty.Number},
		},
	}, passthrough("Value", "Number"))

	r.RegisterType(&schema.Definition{
		Type:        "ConstantBool",
		Description: "Emits a configured boolean.",
		Inputs: []*schema.InputSpec{
			{Name: "Value", Type: cty.Bool, Default: cty.False, Select: []cty.Value{cty.True, cty.False}},
		},
		Outputs: []*schema.OutputSpec{
			{Name: "Boolean", Type: cty.Bool},
		},
	}, passthrough("Value", "Boolean"))

	r.RegisterType(&schema.Definition{
		Type:        "ConstantString",
		Description: "Emits a configured string.",
		Inputs: []*schema.InputSpec{
			{Name: "Value", Type: cty.String, Default: cty.StringVal("")},
		},
		Outputs: []*schema.OutputSpec{
			{Name: "String", Type: cty.String},
		},
	}, passthrough("Value", "String"))
}

func passthrough(input, output string) node.RunFunc {
	return func(ctx context.Context, n *node.Base) error {
		v, err := n.ValueOf(input)
		if err != nil {
			return err
		}
		return n.SetOutput(output, v)
	}
}
