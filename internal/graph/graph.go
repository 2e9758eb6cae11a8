// Package graph is the container for node instances and the directed
// connections between their pins. It answers the connection-lookup
// queries nodes issue while propagating values: edges leaving a node,
// edges leaving one output, and the producer of an input.
package graph

import (
	"fmt"
	"sync"

	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/pinid"
)

// connection is one directed edge, output pin to input pin.
type connection struct {
	from *node.Pin
	to   *node.Pin
}

// Graph stores nodes in insertion order and the connection index.
//
// Execution is single-threaded, but the index is also read by snapshot
// export and diagnostics, so access is guarded.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]node.Node
	order []string
	conns []connection
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]node.Node),
	}
}

// AddNode adds a node instance to the graph. The node's id must be
// unique within the graph.
func (g *Graph) AddNode(n node.Node) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, exists := g.nodes[n.ID()]; exists {
		return fmt.Errorf("node id %q already present in graph", n.ID())
	}
	g.nodes[n.ID()] = n
	g.order = append(g.order, n.ID())
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (node.Node, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []node.Node {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	out := make([]node.Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Connect creates a directed edge from an output pin to an input pin.
// Fan-out from one output is unrestricted; an ordinary input accepts at
// most one producer. Only inputs that declare multi-producer support
// (the Control input of control nodes) may take more.
func (g *Graph) Connect(from, to *node.Pin) error {
	if from.Direction() != pinid.DirOutput {
		return fmt.Errorf("connection source %q is not an output pin", from)
	}
	if to.Direction() != pinid.DirInput {
		return fmt.Errorf("connection target %q is not an input pin", to)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, exists := g.nodes[from.Node().ID()]; !exists {
		return fmt.Errorf("source node not found: %s", from.Node().ID())
	}
	if _, exists := g.nodes[to.Node().ID()]; !exists {
		return fmt.Errorf("destination node not found: %s", to.Node().ID())
	}

	for _, c := range g.conns {
		if c.from == from && c.to == to {
			return fmt.Errorf("connection %s -> %s already exists", from, to)
		}
		if c.to == to && !to.Node().AllowsMultipleProducers(to.Name()) {
			return fmt.Errorf("input pin %s already has a producer (%s)", to, c.from)
		}
	}

	g.conns = append(g.conns, connection{from: from, to: to})
	return nil
}

// ConnectByID resolves two canonical pin ids and connects them.
func (g *Graph) ConnectByID(fromID, toID string) error {
	from, err := g.pin(fromID)
	if err != nil {
		return err
	}
	to, err := g.pin(toID)
	if err != nil {
		return err
	}
	return g.Connect(from, to)
}

func (g *Graph) pin(rawID string) (*node.Pin, error) {
	addr, err := pinid.Parse(rawID)
	if err != nil {
		return nil, err
	}

	g.mutex.RLock()
	n, ok := g.nodes[addr.Node]
	g.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("pin %q: node not found", rawID)
	}

	if addr.Dir == pinid.DirOutput {
		return n.OutputPin(addr.Slot)
	}
	return n.InputPin(addr.Slot)
}

// ConnectionsFrom returns all edges leaving any output of n.
func (g *Graph) ConnectionsFrom(n node.Node) []node.Connection {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var out []node.Connection
	for _, c := range g.conns {
		if c.from.Node().ID() != n.ID() {
			continue
		}
		out = append(out, node.Connection{
			OutputName:  c.from.Name(),
			Target:      c.to.Node(),
			TargetInput: c.to.Name(),
		})
	}
	return out
}

// ConnectionsOfOutput returns the edges leaving one specific output of n.
func (g *Graph) ConnectionsOfOutput(n node.Node, outputName string) []node.Connection {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var out []node.Connection
	for _, c := range g.conns {
		if c.from.Node().ID() != n.ID() || c.from.Name() != outputName {
			continue
		}
		out = append(out, node.Connection{
			OutputName:  c.from.Name(),
			Target:      c.to.Node(),
			TargetInput: c.to.Name(),
		})
	}
	return out
}

// ConnectionOfInput returns the single producer of an ordinary input of
// n, if any. For multi-producer inputs the first producer is reported.
func (g *Graph) ConnectionOfInput(n node.Node, inputName string) (node.Producer, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	for _, c := range g.conns {
		if c.to.Node().ID() != n.ID() || c.to.Name() != inputName {
			continue
		}
		return node.Producer{Source: c.from.Node(), OutputName: c.from.Name()}, true
	}
	return node.Producer{}, false
}

// Snapshot exports every node's snapshot, keyed by node id.
func (g *Graph) Snapshot() (map[string]*node.Snapshot, error) {
	out := make(map[string]*node.Snapshot, len(g.order))
	for _, n := range g.Nodes() {
		snap, err := n.Snapshot()
		if err != nil {
			return nil, fmt.Errorf("snapshot of node %q: %w", n.ID(), err)
		}
		out[n.ID()] = snap
	}
	return out, nil
}
