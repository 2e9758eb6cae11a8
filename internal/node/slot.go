package node

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/flowgrid/internal/pinid"
)

// Slot is a named, typed value holder attached to a node. Input slots are
// single-write-until-reset; output slots accept every write. A slot
// carries its declared default separately from the per-round value, so
// Reset never disturbs the default.
type Slot struct {
	name  string
	dir   pinid.Direction
	typ   cty.Type
	hints []string
	sel   []cty.Value

	// def is cty.NilVal when no default exists.
	def cty.Value

	hasValue bool
	value    cty.Value

	owner Node
}

func newSlot(name string, dir pinid.Direction, typ cty.Type, hints []string, def cty.Value, sel []cty.Value) *Slot {
	return &Slot{
		name:  name,
		dir:   dir,
		typ:   typ,
		hints: hints,
		sel:   sel,
		def:   def,
		value: cty.NilVal,
	}
}

// Name returns the slot's name, unique within its node and direction.
func (s *Slot) Name() string { return s.name }

// Direction reports whether this is an input or an output slot.
func (s *Slot) Direction() pinid.Direction { return s.dir }

// Type returns the declared value type.
func (s *Slot) Type() cty.Type { return s.typ }

// Hints returns the declared hint tags, led by the type's friendly name.
func (s *Slot) Hints() []string { return s.hints }

// Select returns the declared enumerated choices, if any.
func (s *Slot) Select() []cty.Value { return s.sel }

// Default returns the declared default, cty.NilVal when none exists.
func (s *Slot) Default() cty.Value { return s.def }

// HasValue reports whether this round's value has been supplied.
func (s *Slot) HasValue() bool { return s.hasValue }

// Available reports whether a read would succeed: either an explicit
// value was supplied or a default exists.
func (s *Slot) Available() bool { return s.hasValue || s.def != cty.NilVal }

// Get returns the slot's value, falling back to the declared default.
// With neither present it fails with ErrInputNotAvailable unless
// allowMissing is set, in which case cty.NilVal is returned as the
// explicit no-value marker.
func (s *Slot) Get(allowMissing bool) (cty.Value, error) {
	if s.hasValue {
		return s.value, nil
	}
	if s.def != cty.NilVal {
		return s.def, nil
	}
	if allowMissing {
		return cty.NilVal, nil
	}
	return cty.NilVal, fmt.Errorf("%w: %s %q of node %q has no value and no default",
		ErrInputNotAvailable, s.dir, s.name, ownerID(s.owner))
}

// Set stores a value after coercing it to the declared type. An input
// slot that already holds a value rejects the write with
// ErrInputAlreadySet unless override is set; output slots always accept.
func (s *Slot) Set(v cty.Value, override bool) error {
	if s.dir == pinid.DirInput && s.hasValue && !override {
		return fmt.Errorf("%w: input %q of node %q", ErrInputAlreadySet, s.name, ownerID(s.owner))
	}
	if v == cty.NilVal {
		return fmt.Errorf("cannot set %s %q of node %q to the no-value marker", s.dir, s.name, ownerID(s.owner))
	}
	converted, err := convert.Convert(v, s.typ)
	if err != nil {
		return fmt.Errorf("value for %s %q of node %q cannot convert to %s: %w",
			s.dir, s.name, ownerID(s.owner), s.typ.FriendlyName(), err)
	}
	s.value = converted
	s.hasValue = true
	return nil
}

// SetDefault replaces the declared default after coercing it to the
// declared type. Passing cty.NilVal clears the default.
func (s *Slot) SetDefault(v cty.Value) error {
	if v == cty.NilVal {
		s.def = cty.NilVal
		return nil
	}
	converted, err := convert.Convert(v, s.typ)
	if err != nil {
		return fmt.Errorf("default for %s %q of node %q cannot convert to %s: %w",
			s.dir, s.name, ownerID(s.owner), s.typ.FriendlyName(), err)
	}
	s.def = converted
	return nil
}

// Reset clears this round's value, leaving the default untouched.
// Resetting an already-reset slot is a no-op.
func (s *Slot) Reset() {
	s.hasValue = false
	s.value = cty.NilVal
}

func ownerID(n Node) string {
	if n == nil {
		return "<detached>"
	}
	return n.ID()
}
