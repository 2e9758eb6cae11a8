/*
Package pinid provides a structured, type-safe representation for pin
identifiers, based on the canonical format `<node>:<direction><slot>`.

The direction marker is a single character, `I` for input pins and `O`
for output pins, e.g. `loop0:OLoopBody` or `double0:IX`.

This package enforces the identifier schema and centralizes all
formatting and parsing logic. Pin ids are derived deterministically from
the owning node's id, the pin's direction, and the slot name, so the
same node always yields the same addresses for the lifetime of a graph.
*/
package pinid
