package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/pinid"
)

func TestInputSlot_SetAndGet(t *testing.T) {
	s := newSlot("X", pinid.DirInput, cty.Number, nil, cty.NilVal, nil)

	require.NoError(t, s.Set(cty.NumberIntVal(5), false))
	assert.True(t, s.HasValue())

	v, err := s.Get(false)
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(5)))
}

func TestInputSlot_DoubleSetFails(t *testing.T) {
	s := newSlot("X", pinid.DirInput, cty.Number, nil, cty.NilVal, nil)
	require.NoError(t, s.Set(cty.NumberIntVal(5), false))

	err := s.Set(cty.NumberIntVal(6), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputAlreadySet)

	// The stored value is untouched by the failed write.
	v, err := s.Get(false)
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(5)))
}

func TestInputSlot_OverrideWins(t *testing.T) {
	s := newSlot("X", pinid.DirInput, cty.Number, nil, cty.NilVal, nil)
	require.NoError(t, s.Set(cty.NumberIntVal(5), false))
	require.NoError(t, s.Set(cty.NumberIntVal(7), true))

	v, err := s.Get(false)
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(7)))
}

func TestSlot_GetFallsBackToDefault(t *testing.T) {
	s := newSlot("X", pinid.DirInput, cty.Number, nil, cty.NumberIntVal(10), nil)

	v, err := s.Get(false)
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(10)))
	assert.False(t, s.HasValue(), "reading the default must not mark the slot as set")
}

func TestSlot_GetWithoutValueOrDefault(t *testing.T) {
	s := newSlot("X", pinid.DirInput, cty.Number, nil, cty.NilVal, nil)

	_, err := s.Get(false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInputNotAvailable)

	v, err := s.Get(true)
	require.NoError(t, err)
	assert.Equal(t, cty.NilVal, v, "allowMissing returns the explicit no-value marker")
}

func TestOutputSlot_SetAlwaysOverwrites(t *testing.T) {
	s := newSlot("Y", pinid.DirOutput, cty.Number, nil, cty.NilVal, nil)

	require.NoError(t, s.Set(cty.NumberIntVal(1), false))
	require.NoError(t, s.Set(cty.NumberIntVal(2), false))

	v, err := s.Get(false)
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(2)))
}

func TestSlot_SetConvertsToDeclaredType(t *testing.T) {
	s := newSlot("X", pinid.DirInput, cty.Number, nil, cty.NilVal, nil)

	require.NoError(t, s.Set(cty.StringVal("42"), false))
	v, err := s.Get(false)
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(42)))
}

func TestSlot_SetRejectsUnconvertibleValue(t *testing.T) {
	s := newSlot("X", pinid.DirInput, cty.Number, nil, cty.NilVal, nil)

	err := s.Set(cty.StringVal("not a number"), false)
	require.Error(t, err)
	assert.False(t, s.HasValue())
}

func TestSlot_ResetIsIdempotent(t *testing.T) {
	s := newSlot("X", pinid.DirInput, cty.Number, nil, cty.NumberIntVal(3), nil)
	require.NoError(t, s.Set(cty.NumberIntVal(9), false))

	s.Reset()
	assert.False(t, s.HasValue())

	// Resetting an already-reset slot is a no-op.
	s.Reset()
	assert.False(t, s.HasValue())

	// The default survives resets.
	v, err := s.Get(false)
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(3)))
}

func TestSlot_SetDefault(t *testing.T) {
	s := newSlot("X", pinid.DirInput, cty.Number, nil, cty.NilVal, nil)

	require.NoError(t, s.SetDefault(cty.StringVal("12")))
	v, err := s.Get(false)
	require.NoError(t, err)
	assert.True(t, v.RawEquals(cty.NumberIntVal(12)))

	require.Error(t, s.SetDefault(cty.StringVal("nope")))

	require.NoError(t, s.SetDefault(cty.NilVal))
	_, err = s.Get(false)
	assert.ErrorIs(t, err, ErrInputNotAvailable)
}
