package node

import "github.com/vk/flowgrid/internal/pinid"

// Pin is the stable, addressable identity of one slot of one node
// instance. Pins are created once at node construction, derived
// deterministically from the node id, direction, and slot name, and are
// the only legitimate endpoints of connections. They are immutable after
// creation.
type Pin struct {
	id   pinid.Address
	slot *Slot
	node Node
}

func newPin(nodeID string, slot *Slot) *Pin {
	return &Pin{
		id:   pinid.New(nodeID, slot.Direction(), slot.Name()),
		slot: slot,
	}
}

// ID returns the pin's structured address.
func (p *Pin) ID() pinid.Address { return p.id }

// String returns the canonical string form of the pin's address.
func (p *Pin) String() string { return p.id.String() }

// Name returns the bound slot's name.
func (p *Pin) Name() string { return p.slot.Name() }

// Direction reports the bound slot's direction.
func (p *Pin) Direction() pinid.Direction { return p.slot.Direction() }

// Slot returns the bound slot.
func (p *Pin) Slot() *Slot { return p.slot }

// Node returns the owning node.
func (p *Pin) Node() Node { return p.node }
