package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/graph"
	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/schema"
)

// testRegistry carries an incrementer and a failing type alongside the
// builtins.
func testRegistry() *registry.Registry {
	r := registry.New()
	r.RegisterType(&schema.Definition{
		Type:    "Inc",
		Inputs:  []*schema.InputSpec{{Name: "X", Type: cty.Number}},
		Outputs: []*schema.OutputSpec{{Name: "Y", Type: cty.Number}},
	}, func(ctx context.Context, n *node.Base) error {
		x, err := n.ValueOf("X")
		if err != nil {
			return err
		}
		return n.SetOutput("Y", x.Add(cty.NumberIntVal(1)))
	})
	r.RegisterType(&schema.Definition{
		Type:   "Boom",
		Inputs: []*schema.InputSpec{{Name: "X", Type: cty.Number, Default: cty.Zero}},
	}, func(ctx context.Context, n *node.Base) error {
		return errors.New("boom")
	})
	return r
}

func addNode(t *testing.T, r *registry.Registry, g *graph.Graph, typeName, id string) node.Node {
	t.Helper()
	n, err := r.Instantiate(context.Background(), typeName, id, g)
	require.NoError(t, err)
	require.NoError(t, g.AddNode(n))
	return n
}

// seed installs a slot default, the same mechanism the builder uses for
// graph-file arguments, so the value survives the round's Prepare.
func seed(t *testing.T, n node.Node, input string, v cty.Value) {
	t.Helper()
	s, err := n.InputSlot(input)
	require.NoError(t, err)
	require.NoError(t, s.SetDefault(v))
}

func output(t *testing.T, n node.Node, name string) cty.Value {
	t.Helper()
	s, err := n.OutputSlot(name)
	require.NoError(t, err)
	v, err := s.Get(false)
	require.NoError(t, err)
	return v
}

func TestRun_PlainChain(t *testing.T) {
	r := testRegistry()
	g := graph.New()
	first := addNode(t, r, g, "Inc", "first")
	last := addNode(t, r, g, "Inc", "second")
	require.NoError(t, g.ConnectByID("first:OY", "second:IX"))
	seed(t, first, "X", cty.NumberIntVal(5))

	require.NoError(t, New(g).Run(context.Background()))

	assert.True(t, output(t, last, "Y").RawEquals(cty.NumberIntVal(7)))
	assert.Equal(t, 0, first.Remaining())
	assert.Equal(t, 0, last.Remaining())
}

func TestRun_EmptyGraph(t *testing.T) {
	assert.NoError(t, New(graph.New()).Run(context.Background()))
}

func TestRun_DrainsWithPendingNode(t *testing.T) {
	r := testRegistry()
	g := graph.New()
	orphan := addNode(t, r, g, "Inc", "orphan")

	// An input that is never satisfied leaves the node pending; the
	// round still drains cleanly.
	require.NoError(t, New(g).Run(context.Background()))
	assert.Equal(t, 1, orphan.Remaining())
}

func TestRun_NodeErrorAborts(t *testing.T) {
	r := testRegistry()
	g := graph.New()
	addNode(t, r, g, "Boom", "b")

	err := New(g).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `node "b" run failed`)
	assert.Contains(t, err.Error(), "boom")
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := testRegistry()
	g := graph.New()
	n := addNode(t, r, g, "Inc", "n")
	seed(t, n, "X", cty.Zero)

	err := New(g).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// End-to-end loop round: the body increments the threaded value once per
// iteration, then the tail increments the final value once more.
func TestRun_LoopRound(t *testing.T) {
	r := testRegistry()
	g := graph.New()
	l := addNode(t, r, g, registry.TypeLoop, "loop")
	addNode(t, r, g, "Inc", "body")
	tail := addNode(t, r, g, "Inc", "tail")

	require.NoError(t, g.ConnectByID("loop:OLoopBody", "body:IX"))
	require.NoError(t, g.ConnectByID("body:OY", "loop:IControl"))
	require.NoError(t, g.ConnectByID("loop:OFinal", "tail:IX"))
	seed(t, l, node.SlotIterations, cty.NumberIntVal(4))
	seed(t, l, node.SlotStart, cty.NumberIntVal(0))

	require.NoError(t, New(g).Run(context.Background()))

	assert.True(t, output(t, tail, "Y").RawEquals(cty.NumberIntVal(5)))
	assert.Equal(t, 0, l.Remaining())
}

// End-to-end switch round: the taken branch transforms the Start value,
// rejoins through Control, and the result leaves on Final.
func TestRun_SwitchRound(t *testing.T) {
	r := testRegistry()
	g := graph.New()
	sw := addNode(t, r, g, registry.TypeSwitch, "sw")
	addNode(t, r, g, "Inc", "onTrue")
	addNode(t, r, g, "Inc", "onFalse")
	tail := addNode(t, r, g, "Inc", "tail")

	require.NoError(t, g.ConnectByID("sw:OTrue", "onTrue:IX"))
	require.NoError(t, g.ConnectByID("sw:OFalse", "onFalse:IX"))
	require.NoError(t, g.ConnectByID("onTrue:OY", "sw:IControl"))
	require.NoError(t, g.ConnectByID("onFalse:OY", "sw:IControl"))
	require.NoError(t, g.ConnectByID("sw:OFinal", "tail:IX"))
	seed(t, sw, node.SlotSwitch, cty.True)
	seed(t, sw, node.SlotStart, cty.NumberIntVal(7))

	require.NoError(t, New(g).Run(context.Background()))

	// 7 incremented on the true branch, then once more after the rejoin.
	assert.True(t, output(t, tail, "Y").RawEquals(cty.NumberIntVal(9)))

	// The untaken branch never ran.
	onFalse, ok := g.Node("onFalse")
	require.True(t, ok)
	y, err := onFalse.OutputSlot("Y")
	require.NoError(t, err)
	assert.False(t, y.HasValue())
	assert.Equal(t, 1, onFalse.Remaining())
}
