package pinid

import (
	"fmt"
	"strings"
)

// Parse creates an Address by parsing its canonical string representation.
func Parse(rawID string) (Address, error) {
	if rawID == "" {
		return Address{}, fmt.Errorf("pin identifier cannot be empty")
	}

	// Node ids may not contain ':', so the last separator is the only one.
	sep := strings.LastIndex(rawID, ":")
	if sep < 0 {
		return Address{}, fmt.Errorf("invalid pin identifier %q: missing ':' separator", rawID)
	}

	node := rawID[:sep]
	rest := rawID[sep+1:]
	if node == "" {
		return Address{}, fmt.Errorf("invalid pin identifier %q: empty node id", rawID)
	}
	if strings.Contains(node, ":") {
		return Address{}, fmt.Errorf("invalid pin identifier %q: node id contains ':'", rawID)
	}
	if len(rest) < 2 {
		return Address{}, fmt.Errorf("invalid pin identifier %q: missing direction marker or slot name", rawID)
	}

	var dir Direction
	switch rest[0] {
	case 'I':
		dir = DirInput
	case 'O':
		dir = DirOutput
	default:
		return Address{}, fmt.Errorf("invalid pin identifier %q: unknown direction marker %q", rawID, string(rest[0]))
	}

	return Address{Node: node, Dir: dir, Slot: rest[1:]}, nil
}
