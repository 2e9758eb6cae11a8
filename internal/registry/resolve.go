package registry

import (
	"fmt"
	"log/slog"

	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/schema"
)

// Kind is the closed set of node variants a resolved type instantiates.
type Kind int

const (
	KindPlain Kind = iota
	KindSwitch
	KindLoop
)

// Resolved is a type's fully merged template set: the ordered input and
// output declarations of the whole ancestor chain (inherited first), the
// variant the type instantiates, and the nearest run handler in the
// chain. Computed once per type and cached.
type Resolved struct {
	Type        string
	Description string
	Kind        Kind
	Inputs      []*schema.InputSpec
	Outputs     []*schema.OutputSpec
	Run         node.RunFunc
}

// Resolve returns the merged template set for the named type.
func (r *Registry) Resolve(typeName string) (*Resolved, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(typeName)
}

func (r *Registry) resolveLocked(typeName string) (*Resolved, error) {
	if cached, ok := r.resolved[typeName]; ok {
		return cached, nil
	}

	chain, err := r.ancestorChain(typeName)
	if err != nil {
		return nil, err
	}

	res := &Resolved{Type: typeName}

	inputIndex := make(map[string]int)
	outputIndex := make(map[string]int)
	for _, reg := range chain {
		switch reg.def.Type {
		case TypeSwitch:
			res.Kind = KindSwitch
		case TypeLoop:
			res.Kind = KindLoop
		}
		for _, in := range reg.def.Inputs {
			if i, exists := inputIndex[in.Name]; exists {
				// Last write wins, but an inherited name being shadowed
				// is almost always a declaration mistake.
				slog.Warn("Node type re-declares an inherited input; overriding.",
					"type", typeName, "input", in.Name)
				res.Inputs[i] = in
				continue
			}
			inputIndex[in.Name] = len(res.Inputs)
			res.Inputs = append(res.Inputs, in)
		}
		for _, out := range reg.def.Outputs {
			if i, exists := outputIndex[out.Name]; exists {
				slog.Warn("Node type re-declares an inherited output; overriding.",
					"type", typeName, "output", out.Name)
				res.Outputs[i] = out
				continue
			}
			outputIndex[out.Name] = len(res.Outputs)
			res.Outputs = append(res.Outputs, out)
		}
	}

	res.Description = chain[len(chain)-1].def.Description

	// The nearest handler in the chain wins, mirroring method override.
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].run != nil {
			res.Run = chain[i].run
			break
		}
	}

	r.resolved[typeName] = res
	return res, nil
}

// ancestorChain returns the registrations from the root ancestor down to
// the named type itself.
func (r *Registry) ancestorChain(typeName string) ([]*registeredType, error) {
	var chain []*registeredType
	seen := make(map[string]bool)
	name := typeName
	for name != "" {
		if seen[name] {
			return nil, fmt.Errorf("node type %q has a cyclic ancestry", typeName)
		}
		seen[name] = true

		reg, ok := r.types[name]
		if !ok {
			if name == typeName {
				return nil, fmt.Errorf("unknown node type %q", typeName)
			}
			return nil, fmt.Errorf("node type %q extends unknown type %q", typeName, name)
		}
		chain = append([]*registeredType{reg}, chain...)
		name = reg.def.Extends
	}
	return chain, nil
}
