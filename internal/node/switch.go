package node

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/schema"
)

// switchPhase is the explicit two-state machine of the if/else node.
type switchPhase int

const (
	// switchDispatch: evaluate the condition and fan out one branch.
	switchDispatch switchPhase = iota
	// switchAwaitRejoin: wait for the taken branch to signal Control.
	switchAwaitRejoin
)

// Switch is the conditional branch-and-rejoin control node. During
// dispatch it routes the Start value to the True or False output
// depending on the Switch input and propagates only the selected branch.
// It then holds its owed execution until a downstream node of the taken
// branch writes the Control input, at which point it emits that value on
// Final and rejoins the main flow.
//
// The node that creates a branch is the only node permitted to rejoin
// it; Control is therefore the sole multi-producer input.
type Switch struct {
	Base
	phase switchPhase
}

// NewSwitch instantiates a Switch from resolved slot templates. The
// templates must include the control-family slots plus Switch, True,
// and False.
func NewSwitch(id, typeName string, g Graph, inputs []*schema.InputSpec, outputs []*schema.OutputSpec) (*Switch, error) {
	s := &Switch{Base: *newBase(id, typeName, g, inputs, outputs, nil)}
	s.attach(s)
	if err := requireSlots(s, []string{SlotStart, SlotControl, SlotSwitch}, []string{SlotFinal, SlotTrue, SlotFalse}); err != nil {
		return nil, err
	}
	return s, nil
}

// AllowsMultipleProducers permits fan-in on the Control input only.
func (s *Switch) AllowsMultipleProducers(inputName string) bool {
	return inputName == SlotControl
}

// Prepare resets the node and returns it to the dispatch phase.
func (s *Switch) Prepare() {
	s.Base.Prepare()
	s.phase = switchDispatch
}

// Check admits the node in dispatch when every input except Control is
// satisfiable, and in await-rejoin as soon as Control holds a value.
func (s *Switch) Check(ctx context.Context) bool {
	switch s.phase {
	case switchAwaitRejoin:
		control, err := s.InputSlot(SlotControl)
		if err != nil {
			return false
		}
		return control.HasValue()
	default:
		if s.remaining <= 0 {
			return false
		}
		for _, in := range s.inputs {
			if in.Name() == SlotControl {
				continue
			}
			if !in.Available() {
				ctxlog.FromContext(ctx).Debug("prerequisites not met", "node", s.id, "input", in.Name())
				return false
			}
		}
		return true
	}
}

// Run writes the Start value to the selected branch output during
// dispatch, and the Control value to Final during rejoin.
func (s *Switch) Run(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("executing node", "node", s.id, "type", s.typeName, "rejoining", s.phase == switchAwaitRejoin)

	if s.phase == switchAwaitRejoin {
		v, err := s.ValueOf(SlotControl)
		if err != nil {
			return err
		}
		return s.SetOutput(SlotFinal, v)
	}

	cond, err := s.condition()
	if err != nil {
		return err
	}
	start, err := s.ValueOf(SlotStart)
	if err != nil {
		return err
	}
	selected := SlotFalse
	if cond {
		selected = SlotTrue
	}
	return s.SetOutput(selected, start)
}

// Notify propagates only the selected branch during dispatch and flips
// to the await-rejoin phase, leaving the owed execution in place. During
// rejoin it propagates Final, consumes the inputs, and settles the owed
// execution.
func (s *Switch) Notify(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	if s.phase == switchAwaitRejoin {
		if err := s.propagateOutput(ctx, SlotFinal); err != nil {
			return err
		}
		for _, in := range s.inputs {
			in.Reset()
		}
		s.phase = switchDispatch
		s.remaining--
		logger.Debug("branch rejoined", "node", s.id)
		return nil
	}

	cond, err := s.condition()
	if err != nil {
		return err
	}
	selected := SlotFalse
	if cond {
		selected = SlotTrue
	}
	if err := s.propagateOutput(ctx, selected); err != nil {
		return err
	}
	s.phase = switchAwaitRejoin
	logger.Debug("branch dispatched, awaiting rejoin", "node", s.id, "branch", selected)
	return nil
}

func (s *Switch) condition() (bool, error) {
	v, err := s.ValueOf(SlotSwitch)
	if err != nil {
		return false, err
	}
	if v.IsNull() || v.Type() != cty.Bool {
		return false, fmt.Errorf("condition of node %q is not a usable bool", s.id)
	}
	return v.True(), nil
}

func requireSlots(n Node, inputs, outputs []string) error {
	for _, name := range inputs {
		if _, err := n.InputSlot(name); err != nil {
			return fmt.Errorf("control node %q is missing a required slot: %w", n.ID(), err)
		}
	}
	for _, name := range outputs {
		if _, err := n.OutputSlot(name); err != nil {
			return fmt.Errorf("control node %q is missing a required slot: %w", n.ID(), err)
		}
	}
	return nil
}
