// Package schema defines the format-agnostic declarations of node types:
// ordered input and output slot templates with cty types, defaults, and
// editor hints, plus the single-inheritance relationship between types.
// Declarations are static data; the registry package composes them across
// the type hierarchy and the node package clones them into live slots at
// instantiation time.
package schema
