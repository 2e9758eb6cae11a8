// Package registry is the central catalogue of node types. It stores
// each type's slot declarations and run handler, composes declarations
// across the single-inheritance hierarchy (ordered, name-keyed,
// inherited templates first), caches the merged result once per type,
// and instantiates graph-bound node variants from it.
//
// The control-flow family (Control, Switch, Loop) and the empty base
// type are pre-registered by New, so their shared slots always come out
// of the same merge path user types go through.
package registry
