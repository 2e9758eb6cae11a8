package node

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/pinid"
	"github.com/vk/flowgrid/internal/schema"
)

// Names of the fixed slots shared by the control-node family and by the
// concrete Switch and Loop types.
const (
	SlotStart      = "Start"
	SlotControl    = "Control"
	SlotFinal      = "Final"
	SlotSwitch     = "Switch"
	SlotTrue       = "True"
	SlotFalse      = "False"
	SlotIterations = "Iterations"
	SlotLoopBody   = "LoopBody"
)

// RunFunc is the computation a plain node performs between reading its
// inputs and writing its outputs.
type RunFunc func(ctx context.Context, n *Base) error

// Node is the closed contract shared by the plain node and the
// control-flow variants. The external driver applies Prepare once per
// round, then repeatedly admits nodes through Check and applies the
// Run/Notify pair; everything else is slot and pin access.
type Node interface {
	ID() string
	TypeName() string

	Prepare()
	Check(ctx context.Context) bool
	Run(ctx context.Context) error
	Notify(ctx context.Context) error

	SetInput(name string, v cty.Value, override bool) error
	ValueOf(name string) (cty.Value, error)
	InputSlot(name string) (*Slot, error)
	OutputSlot(name string) (*Slot, error)
	InputNames() []string
	OutputNames() []string
	InputPin(name string) (*Pin, error)
	OutputPin(name string) (*Pin, error)

	// AllowsMultipleProducers reports whether the named input accepts
	// more than one incoming connection. Only the Control input of
	// control-flow nodes does.
	AllowsMultipleProducers(inputName string) bool

	Remaining() int
	Position() cty.Value
	SetPosition(v cty.Value)
	Snapshot() (*Snapshot, error)
}

// Base is the plain node and the embedded core of the control variants.
// It owns the slot and pin maps and implements the default readiness,
// execution, and propagation rules.
type Base struct {
	id       string
	typeName string
	graph    Graph

	inputs      []*Slot
	outputs     []*Slot
	inputIndex  map[string]int
	outputIndex map[string]int
	inputPins   map[string]*Pin
	outputPins  map[string]*Pin

	// remaining counts executions still owed this round: 1 for ordinary
	// nodes, more while a control node owes re-entries, 0 when finished.
	remaining int

	// position is an opaque payload carried for snapshot export only.
	position cty.Value

	run RunFunc

	// self is the outermost variant; pins, slots, and graph queries must
	// reference it rather than the embedded Base.
	self Node
}

// NewBase instantiates a plain node from resolved slot templates. Each
// template is cloned into a fresh slot so every instance has independent
// state. The run function may be nil, leaving Run a no-op placeholder.
func NewBase(id, typeName string, g Graph, inputs []*schema.InputSpec, outputs []*schema.OutputSpec, run RunFunc) *Base {
	b := newBase(id, typeName, g, inputs, outputs, run)
	b.attach(b)
	return b
}

func newBase(id, typeName string, g Graph, inputs []*schema.InputSpec, outputs []*schema.OutputSpec, run RunFunc) *Base {
	b := &Base{
		id:          id,
		typeName:    typeName,
		graph:       g,
		inputIndex:  make(map[string]int, len(inputs)),
		outputIndex: make(map[string]int, len(outputs)),
		inputPins:   make(map[string]*Pin, len(inputs)),
		outputPins:  make(map[string]*Pin, len(outputs)),
		remaining:   1,
		run:         run,
	}
	for i, spec := range inputs {
		s := newSlot(spec.Name, pinid.DirInput, spec.Type, spec.Hints, spec.Default, spec.Select)
		b.inputs = append(b.inputs, s)
		b.inputIndex[spec.Name] = i
		b.inputPins[spec.Name] = newPin(id, s)
	}
	for i, spec := range outputs {
		s := newSlot(spec.Name, pinid.DirOutput, spec.Type, spec.Hints, spec.Default, spec.Select)
		b.outputs = append(b.outputs, s)
		b.outputIndex[spec.Name] = i
		b.outputPins[spec.Name] = newPin(id, s)
	}
	return b
}

// attach binds slots and pins to the outermost variant.
func (b *Base) attach(self Node) {
	b.self = self
	for _, s := range b.inputs {
		s.owner = self
	}
	for _, s := range b.outputs {
		s.owner = self
	}
	for _, p := range b.inputPins {
		p.node = self
	}
	for _, p := range b.outputPins {
		p.node = self
	}
}

// ID returns the caller-supplied, graph-unique node id.
func (b *Base) ID() string { return b.id }

// TypeName returns the node type this instance was cloned from.
func (b *Base) TypeName() string { return b.typeName }

// Remaining returns the executions still owed this round.
func (b *Base) Remaining() int { return b.remaining }

// Position returns the opaque position payload, cty.NilVal when unset.
func (b *Base) Position() cty.Value { return b.position }

// SetPosition stores the opaque position payload. The core never
// interprets it.
func (b *Base) SetPosition(v cty.Value) { b.position = v }

// Prepare resets the node to its pre-round state: one execution owed and
// every input slot cleared. Defaults survive.
func (b *Base) Prepare() {
	b.remaining = 1
	for _, in := range b.inputs {
		in.Reset()
	}
}

// Check is the sole admission gate: true only while an execution is owed
// and every declared input can satisfy a read, from an explicit value or
// a default. It never raises for "not ready"; it reports and returns
// false.
func (b *Base) Check(ctx context.Context) bool {
	if b.remaining <= 0 {
		return false
	}
	for _, in := range b.inputs {
		if !in.Available() {
			ctxlog.FromContext(ctx).Debug("prerequisites not met", "node", b.id, "input", in.Name())
			return false
		}
	}
	return true
}

// Run reads inputs and writes outputs. The base behavior delegates to
// the attached handler and is a placeholder without one. Run never
// mutates the executions-owed counter.
func (b *Base) Run(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("executing node", "node", b.id, "type", b.typeName)
	if b.run == nil {
		return nil
	}
	return b.run(ctx, b)
}

// Notify pushes each connected output's value, or its default when the
// output was never written this round, into the successor's input slot,
// then consumes this node's inputs and decrements the owed counter.
// Outputs with neither value nor default propagate nothing.
func (b *Base) Notify(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for _, con := range b.graph.ConnectionsFrom(b.self) {
		out, err := b.OutputSlot(con.OutputName)
		if err != nil {
			return err
		}
		v, err := out.Get(true)
		if err != nil {
			return err
		}
		if v == cty.NilVal {
			logger.Debug("output has no value or default, skipping propagation",
				"node", b.id, "output", con.OutputName)
			continue
		}
		if err := con.Target.SetInput(con.TargetInput, v, false); err != nil {
			return err
		}
		logger.Debug("propagated value",
			"from", b.id, "output", con.OutputName,
			"to", con.Target.ID(), "input", con.TargetInput)
	}
	for _, in := range b.inputs {
		in.Reset()
	}
	b.remaining--
	return nil
}

// SetInput writes a value into the named input slot.
func (b *Base) SetInput(name string, v cty.Value, override bool) error {
	s, err := b.InputSlot(name)
	if err != nil {
		return err
	}
	return s.Set(v, override)
}

// SetOutput writes a value into the named output slot. Run handlers use
// this to publish results; output writes always succeed type permitting.
func (b *Base) SetOutput(name string, v cty.Value) error {
	s, err := b.OutputSlot(name)
	if err != nil {
		return err
	}
	return s.Set(v, false)
}

// ValueOf reads the named input with read-through-default semantics.
func (b *Base) ValueOf(name string) (cty.Value, error) {
	s, err := b.InputSlot(name)
	if err != nil {
		return cty.NilVal, err
	}
	return s.Get(false)
}

// InputSlot returns the named input slot handle.
func (b *Base) InputSlot(name string) (*Slot, error) {
	i, ok := b.inputIndex[name]
	if !ok {
		return nil, fmt.Errorf("%w: node %q has no input %q", ErrUnknownSlot, b.id, name)
	}
	return b.inputs[i], nil
}

// OutputSlot returns the named output slot handle.
func (b *Base) OutputSlot(name string) (*Slot, error) {
	i, ok := b.outputIndex[name]
	if !ok {
		return nil, fmt.Errorf("%w: node %q has no output %q", ErrUnknownSlot, b.id, name)
	}
	return b.outputs[i], nil
}

// InputNames returns the input slot names in declaration order,
// inherited templates first.
func (b *Base) InputNames() []string {
	names := make([]string, len(b.inputs))
	for i, s := range b.inputs {
		names[i] = s.Name()
	}
	return names
}

// OutputNames returns the output slot names in declaration order.
func (b *Base) OutputNames() []string {
	names := make([]string, len(b.outputs))
	for i, s := range b.outputs {
		names[i] = s.Name()
	}
	return names
}

// InputPin returns the pin addressing the named input slot.
func (b *Base) InputPin(name string) (*Pin, error) {
	p, ok := b.inputPins[name]
	if !ok {
		return nil, fmt.Errorf("%w: node %q has no input %q", ErrUnknownSlot, b.id, name)
	}
	return p, nil
}

// OutputPin returns the pin addressing the named output slot.
func (b *Base) OutputPin(name string) (*Pin, error) {
	p, ok := b.outputPins[name]
	if !ok {
		return nil, fmt.Errorf("%w: node %q has no output %q", ErrUnknownSlot, b.id, name)
	}
	return p, nil
}

// AllowsMultipleProducers is false for every input of a plain node.
func (b *Base) AllowsMultipleProducers(string) bool { return false }

// propagateOutput pushes one output's value across its connections,
// skipping when the output holds neither value nor default. The control
// variants use it to propagate a single selected output.
func (b *Base) propagateOutput(ctx context.Context, outputName string) error {
	out, err := b.OutputSlot(outputName)
	if err != nil {
		return err
	}
	v, err := out.Get(true)
	if err != nil {
		return err
	}
	if v == cty.NilVal {
		ctxlog.FromContext(ctx).Debug("output has no value or default, skipping propagation",
			"node", b.id, "output", outputName)
		return nil
	}
	for _, con := range b.graph.ConnectionsOfOutput(b.self, outputName) {
		if err := con.Target.SetInput(con.TargetInput, v, false); err != nil {
			return err
		}
	}
	return nil
}
