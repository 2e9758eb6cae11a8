package hcl

import "github.com/hashicorp/hcl/v2"

// argsBlock represents the content of the 'arguments' block within a
// node block.
type argsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// nodeBlock represents a `node` block from a user's graph file: one
// instance of a registered node type.
type nodeBlock struct {
	Type      string         `hcl:"type,label"`
	Name      string         `hcl:"name,label"`
	Position  hcl.Expression `hcl:"position,optional"`
	Arguments *argsBlock     `hcl:"arguments,block"`
}

// connectBlock represents a `connect` block: a directed edge between two
// canonical pin ids.
type connectBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// graphFile represents the top-level structure of a user's graph file.
type graphFile struct {
	Nodes       []*nodeBlock    `hcl:"node,block"`
	Connections []*connectBlock `hcl:"connect,block"`
}
