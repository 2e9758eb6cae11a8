// Package config defines the format-agnostic model of a graph
// definition: the nodes to instantiate, the argument values seeded into
// their inputs, and the connections between their pins. Concrete file
// formats implement the Loader interface; the HCL implementation lives
// in the hcl package.
package config
