// Package math provides arithmetic leaf node types over number slots.
package math

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/schema"
)

// Module registers the arithmetic node types.
type Module struct{}

// Register contributes Add, Multiply, and Double.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterType(&schema.Definition{
		Type:        "Add",
		Description: "Emits the sum of its two inputs.",
		Inputs: []*schema.InputSpec{
			{Name: "A", Type: cty.Number},
			{Name: "B", Type: cty.Number},
		},
		Outputs: []*schema.OutputSpec{
			{Name: "Sum", Type: cty.Number},
		},
	}, binary("A", "B", "Sum", cty.Value.Add))

	r.RegisterType(&schema.Definition{
		Type:        "Multiply",
		Description: "Emits the product of its two inputs.",
		Inputs: []*schema.InputSpec{
			{Name: "A", Type: cty.Number},
			{Name: "B", Type: cty.Number},
		},
		Outputs: []*schema.OutputSpec{
			{Name: "Product", Type: cty.Number},
		},
	}, binary("A", "B", "Product", cty.Value.Multiply))

	r.RegisterType(&schema.Definition{
		Type:        "Double",
		Description: "Emits twice its input.",
		Inputs: []*schema.InputSpec{
			{Name: "X", Type: cty.Number},
		},
		Outputs: []*schema.OutputSpec{
			{Name: "Y", Type: cty.Number},
		},
	}, func(ctx context.Context, n *node.Base) error {
		x, err := n.ValueOf("X")
		if err != nil {
			return err
		}
		return n.SetOutput("Y", x.Multiply(cty.NumberIntVal(2)))
	})
}

func binary(a, b, out string, op func(cty.Value, cty.Value) cty.Value) node.RunFunc {
	return func(ctx context.Context, n *node.Base) error {
		left, err := n.ValueOf(a)
		if err != nil {
			return err
		}
		right, err := n.ValueOf(b)
		if err != nil {
			return err
		}
		return n.SetOutput(out, op(left, right))
	}
}
