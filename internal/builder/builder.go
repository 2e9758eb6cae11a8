// Package builder constructs a live graph from a config model: it
// instantiates every declared node through the registry, seeds argument
// values into the nodes' input slots, and wires the declared
// connections between pins.
package builder

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/config"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/graph"
	"github.com/vk/flowgrid/internal/registry"
)

// Build constructs a complete graph from a config model.
func Build(ctx context.Context, model *config.Model, r *registry.Registry) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting graph construction.")
	g := graph.New()

	// First pass: instantiate and seed all nodes.
	for _, decl := range model.Nodes {
		n, err := r.Instantiate(ctx, decl.Type, decl.Name, g)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", decl.Name, err)
		}
		if decl.Position != cty.NilVal {
			n.SetPosition(decl.Position)
		}

		// Arguments become input defaults: they survive the per-round
		// input reset performed by prepare, the way a value typed into
		// an editor field would.
		for name, v := range decl.Arguments {
			s, err := n.InputSlot(name)
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", decl.Name, err)
			}
			if err := s.SetDefault(v); err != nil {
				return nil, fmt.Errorf("node %q: %w", decl.Name, err)
			}
		}

		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: node creation complete.", "node_count", len(model.Nodes))

	// Second pass: wire connections.
	for _, c := range model.Connections {
		if err := g.ConnectByID(c.From, c.To); err != nil {
			return nil, fmt.Errorf("connection %s -> %s: %w", c.From, c.To, err)
		}
	}
	logger.Debug("Build: node linking complete.", "connection_count", len(model.Connections))

	return g, nil
}
