package registry

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/schema"
)

// Names of the built-in node types every registry carries.
const (
	TypeNode    = "Node"
	TypeControl = "Control"
	TypeSwitch  = "Switch"
	TypeLoop    = "Loop"
)

// Module is the interface leaf-node packages implement to contribute
// their node types to a registry.
type Module interface {
	Register(r *Registry)
}

// registeredType pairs a type's declaration with its Go run handler.
type registeredType struct {
	def *schema.Definition
	run node.RunFunc
}

// Registry holds all registered node types for a single application
// instance, plus the cache of per-type merged templates.
type Registry struct {
	mu       sync.Mutex
	types    map[string]*registeredType
	resolved map[string]*Resolved
}

// New creates a Registry pre-populated with the built-in base and
// control-flow types.
func New() *Registry {
	r := &Registry{
		types:    make(map[string]*registeredType),
		resolved: make(map[string]*Resolved),
	}
	registerBuiltins(r)
	return r
}

// RegisterType adds a node type declaration and its optional run
// handler. Registration problems are programmer errors and panic, in
// line with the rule that the compiled-in catalogue must be coherent at
// startup.
func (r *Registry) RegisterType(def *schema.Definition, run node.RunFunc) {
	if err := def.Normalize(); err != nil {
		panic(fmt.Sprintf("registry: invalid node type declaration: %v", err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[def.Type]; exists {
		panic(fmt.Sprintf("registry: node type %q already registered", def.Type))
	}
	slog.Debug("Registering node type.", "type", def.Type, "extends", def.Extends)
	r.types[def.Type] = &registeredType{def: def, run: run}
}

// TypeNames returns the names of every registered type.
func (r *Registry) TypeNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	return names
}

func registerBuiltins(r *Registry) {
	r.RegisterType(&schema.Definition{
		Type:        TypeNode,
		Description: "Base node with no declared slots.",
	}, nil)

	r.RegisterType(&schema.Definition{
		Type:        TypeControl,
		Extends:     TypeNode,
		Description: "Base of the control-flow family: re-entry input and finalize output.",
		Inputs: []*schema.InputSpec{
			{Name: node.SlotStart, Type: cty.DynamicPseudoType},
			{Name: node.SlotControl, Type: cty.DynamicPseudoType},
		},
		Outputs: []*schema.OutputSpec{
			{Name: node.SlotFinal, Type: cty.DynamicPseudoType},
		},
	}, nil)

	r.RegisterType(&schema.Definition{
		Type:        TypeSwitch,
		Extends:     TypeControl,
		Description: "Conditional branch: routes Start to True or False, rejoins on Control.",
		Inputs: []*schema.InputSpec{
			{Name: node.SlotSwitch, Type: cty.Bool},
		},
		Outputs: []*schema.OutputSpec{
			{Name: node.SlotTrue, Type: cty.DynamicPseudoType},
			{Name: node.SlotFalse, Type: cty.DynamicPseudoType},
		},
	}, nil)

	r.RegisterType(&schema.Definition{
		Type:        TypeLoop,
		Extends:     TypeControl,
		Description: "Bounded iteration: re-dispatches LoopBody per Control signal.",
		Inputs: []*schema.InputSpec{
			{Name: node.SlotIterations, Type: cty.Number},
		},
		Outputs: []*schema.OutputSpec{
			{Name: node.SlotLoopBody, Type: cty.DynamicPseudoType},
		},
	}, nil)
}
