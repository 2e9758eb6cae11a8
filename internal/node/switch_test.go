package node

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/schema"
)

func newTestSwitch(t *testing.T, id string, g Graph) *Switch {
	t.Helper()
	s, err := NewSwitch(id, "Switch", g,
		[]*schema.InputSpec{
			inSpec(SlotStart, cty.DynamicPseudoType, cty.NilVal),
			inSpec(SlotControl, cty.DynamicPseudoType, cty.NilVal),
			inSpec(SlotSwitch, cty.Bool, cty.NilVal),
		},
		[]*schema.OutputSpec{
			outSpec(SlotFinal, cty.DynamicPseudoType),
			outSpec(SlotTrue, cty.DynamicPseudoType),
			outSpec(SlotFalse, cty.DynamicPseudoType),
		})
	require.NoError(t, err)
	return s
}

func TestNewSwitch_RequiresControlSlots(t *testing.T) {
	g := &stubGraph{}
	_, err := NewSwitch("s", "Switch", g,
		[]*schema.InputSpec{inSpec(SlotStart, cty.DynamicPseudoType, cty.NilVal)},
		[]*schema.OutputSpec{outSpec(SlotFinal, cty.DynamicPseudoType)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownSlot)
}

func TestSwitch_OnlyControlAcceptsFanIn(t *testing.T) {
	g := &stubGraph{}
	s := newTestSwitch(t, "s", g)
	assert.True(t, s.AllowsMultipleProducers(SlotControl))
	assert.False(t, s.AllowsMultipleProducers(SlotStart))
	assert.False(t, s.AllowsMultipleProducers(SlotSwitch))
}

// Full dispatch-then-rejoin pass: with Switch true the Start value goes
// out on True only, the node stays live until Control arrives, and the
// rejoin forwards Control on Final.
func TestSwitch_DispatchAndRejoin(t *testing.T) {
	g := &stubGraph{}
	s := newTestSwitch(t, "s", g)
	onTrue := doubler("onTrue", g)
	onFalse := doubler("onFalse", g)
	after := doubler("after", g)
	g.connect(s, SlotTrue, onTrue, "X")
	g.connect(s, SlotFalse, onFalse, "X")
	g.connect(s, SlotFinal, after, "X")
	ctx := context.Background()

	require.NoError(t, s.SetInput(SlotSwitch, cty.True, false))
	assert.False(t, s.Check(ctx), "Start still missing")

	require.NoError(t, s.SetInput(SlotStart, cty.NumberIntVal(7), false))
	require.True(t, s.Check(ctx), "Control must not gate the dispatch")

	require.NoError(t, s.Run(ctx))
	require.NoError(t, s.Notify(ctx))

	// Only the taken branch received the Start value.
	v, err := onTrue.ValueOf("X")
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(7)))
	assert.False(t, onFalse.Check(ctx))
	assert.False(t, after.Check(ctx))

	// The node still owes an execution but waits for the rejoin signal.
	assert.Equal(t, 1, s.Remaining())
	assert.False(t, s.Check(ctx))

	require.NoError(t, s.SetInput(SlotControl, cty.NumberIntVal(9), false))
	require.True(t, s.Check(ctx))
	require.NoError(t, s.Run(ctx))
	require.NoError(t, s.Notify(ctx))

	v, err = after.ValueOf("X")
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(9)))
	assert.Equal(t, 0, s.Remaining())
	assert.False(t, s.Check(ctx), "the node is spent after the rejoin")
}

func TestSwitch_FalseBranch(t *testing.T) {
	g := &stubGraph{}
	s := newTestSwitch(t, "s", g)
	onTrue := doubler("onTrue", g)
	onFalse := doubler("onFalse", g)
	g.connect(s, SlotTrue, onTrue, "X")
	g.connect(s, SlotFalse, onFalse, "X")
	ctx := context.Background()

	require.NoError(t, s.SetInput(SlotSwitch, cty.False, false))
	require.NoError(t, s.SetInput(SlotStart, cty.NumberIntVal(4), false))
	require.True(t, s.Check(ctx))
	require.NoError(t, s.Run(ctx))
	require.NoError(t, s.Notify(ctx))

	v, err := onFalse.ValueOf("X")
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(4)))
	assert.False(t, onTrue.Check(ctx))
}

func TestSwitch_PrepareRestartsDispatch(t *testing.T) {
	g := &stubGraph{}
	s := newTestSwitch(t, "s", g)
	ctx := context.Background()

	require.NoError(t, s.SetInput(SlotSwitch, cty.True, false))
	require.NoError(t, s.SetInput(SlotStart, cty.NumberIntVal(1), false))
	require.NoError(t, s.Run(ctx))
	require.NoError(t, s.Notify(ctx))
	require.False(t, s.Check(ctx), "awaiting rejoin")

	s.Prepare()
	assert.Equal(t, 1, s.Remaining())
	assert.False(t, s.Check(ctx), "back in dispatch with inputs cleared")

	require.NoError(t, s.SetInput(SlotSwitch, cty.True, false))
	require.NoError(t, s.SetInput(SlotStart, cty.NumberIntVal(2), false))
	assert.True(t, s.Check(ctx))
}

func TestSwitch_RunRejectsNonBoolCondition(t *testing.T) {
	g := &stubGraph{}
	s, err := NewSwitch("s", "Switch", g,
		[]*schema.InputSpec{
			inSpec(SlotStart, cty.DynamicPseudoType, cty.NilVal),
			inSpec(SlotControl, cty.DynamicPseudoType, cty.NilVal),
			inSpec(SlotSwitch, cty.DynamicPseudoType, cty.NilVal),
		},
		[]*schema.OutputSpec{
			outSpec(SlotFinal, cty.DynamicPseudoType),
			outSpec(SlotTrue, cty.DynamicPseudoType),
			outSpec(SlotFalse, cty.DynamicPseudoType),
		})
	require.NoError(t, err)

	require.NoError(t, s.SetInput(SlotSwitch, cty.NumberIntVal(3), false))
	require.NoError(t, s.SetInput(SlotStart, cty.NumberIntVal(1), false))
	assert.Error(t, s.Run(context.Background()))
}
