package registry

import (
	"context"
	"fmt"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/node"
)

// Instantiate clones the named type's merged slot templates into a fresh
// node bound to the given graph. The variant is decided by the type's
// ancestry: descendants of Switch and Loop become the corresponding
// control nodes, everything else is a plain node running its handler.
func (r *Registry) Instantiate(ctx context.Context, typeName, id string, g node.Graph) (node.Node, error) {
	if id == "" {
		return nil, fmt.Errorf("node id cannot be empty")
	}

	res, err := r.Resolve(typeName)
	if err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("instantiating node", "type", typeName, "id", id, "kind", int(res.Kind))

	switch res.Kind {
	case KindSwitch:
		return node.NewSwitch(id, typeName, g, res.Inputs, res.Outputs)
	case KindLoop:
		return node.NewLoop(id, typeName, g, res.Inputs, res.Outputs)
	default:
		return node.NewBase(id, typeName, g, res.Inputs, res.Outputs, res.Run), nil
	}
}
