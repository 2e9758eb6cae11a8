package pinid

// Direction distinguishes input pins from output pins.
type Direction int

const (
	// DirInput marks the pin of an input slot.
	DirInput Direction = iota
	// DirOutput marks the pin of an output slot.
	DirOutput
)

// Marker returns the single-character direction marker used in the
// canonical string format.
func (d Direction) Marker() string {
	if d == DirOutput {
		return "O"
	}
	return "I"
}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	if d == DirOutput {
		return "output"
	}
	return "input"
}

// Address is the structured representation of a unique pin identifier.
type Address struct {
	Node string
	Dir  Direction
	Slot string
}

// New creates an Address from its parts.
func New(node string, dir Direction, slot string) Address {
	return Address{Node: node, Dir: dir, Slot: slot}
}
