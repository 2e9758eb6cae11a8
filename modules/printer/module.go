// Package printer provides a leaf node type that logs the value flowing
// through it and passes it along unchanged.
package printer

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/schema"
)

// Module registers the Print node type.
type Module struct{}

// Register contributes Print.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterType(&schema.Definition{
		Type:        "Print",
		Description: "Logs its input and passes it through.",
		Inputs: []*schema.InputSpec{
			{Name: "Value", Type: cty.DynamicPseudoType},
		},
		Outputs: []*schema.OutputSpec{
			{Name: "Value", Type: cty.DynamicPseudoType},
		},
	}, run)
}

func run(ctx context.Context, n *node.Base) error {
	v, err := n.ValueOf("Value")
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("🖨️ print", "node", n.ID(), "value", v.GoString())
	return n.SetOutput("Value", v)
}
