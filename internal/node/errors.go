package node

import "errors"

var (
	// ErrInputNotAvailable reports a slot read with neither an explicit
	// value nor a usable default. Drivers treat it as "not ready yet".
	ErrInputNotAvailable = errors.New("input not available")

	// ErrInputAlreadySet reports a second, non-overriding write to an
	// input slot. It signals a protocol violation by the caller.
	ErrInputAlreadySet = errors.New("input already set")

	// ErrUnknownSlot reports a lookup of an undeclared input or output
	// name, indicating a mismatched graph definition.
	ErrUnknownSlot = errors.New("unknown slot")
)
