package node

// Connection describes one directed edge leaving an output slot of some
// node and feeding an input slot of the target node.
type Connection struct {
	OutputName  string
	Target      Node
	TargetInput string
}

// Producer identifies the output slot feeding an input slot.
type Producer struct {
	Source     Node
	OutputName string
}

// Graph is the connection index a node consults while propagating values
// and exporting snapshots. The concrete container lives in the graph
// package; nodes only depend on these three query shapes.
type Graph interface {
	// ConnectionsFrom returns all edges leaving any output of n.
	ConnectionsFrom(n Node) []Connection

	// ConnectionsOfOutput returns the edges leaving one specific output of n.
	ConnectionsOfOutput(n Node, outputName string) []Connection

	// ConnectionOfInput returns the single producer of an ordinary input
	// of n, if any.
	ConnectionOfInput(n Node, inputName string) (Producer, bool)
}
