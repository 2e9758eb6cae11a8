package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of a graph
// definition.
type Model struct {
	Nodes       []*NodeDecl
	Connections []*ConnectionDecl
}

// NodeDecl declares one node instance: its registered type, its
// graph-unique name, argument values applied to its input slots as
// defaults, and an opaque editor position.
type NodeDecl struct {
	Type      string
	Name      string
	Arguments map[string]cty.Value
	// Position is carried through to snapshot export, never interpreted.
	Position cty.Value
}

// ConnectionDecl declares one directed edge between two canonical pin
// ids, e.g. "loop0:OLoopBody" -> "double0:IX".
type ConnectionDecl struct {
	From string
	To   string
}

// Loader turns definition files into the agnostic model.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}
