package node

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/schema"
)

// loopState is the explicit state machine of the bounded-iteration node.
type loopState int

const (
	// loopNotStarted: no iteration cycle has begun this round.
	loopNotStarted loopState = iota
	// loopIterating: the body is being re-dispatched per Control signal.
	loopIterating
	// loopFinishing: the last body pass completed, Final is owed next.
	loopFinishing
)

// Loop is the bounded-iteration control node. On its first admission it
// reads Iterations, takes on that many owed re-entries plus the final
// pass, and emits the Start value on LoopBody. Each time the body
// subgraph completes it signals Control, and the loop re-dispatches the
// latest Control value on LoopBody, force-resetting the body successors
// so the same nodes can execute again. When only the final pass remains
// it emits the Control value on Final instead and rejoins the main flow.
type Loop struct {
	Base
	state loopState
}

// NewLoop instantiates a Loop from resolved slot templates. The
// templates must include the control-family slots plus Iterations and
// LoopBody.
func NewLoop(id, typeName string, g Graph, inputs []*schema.InputSpec, outputs []*schema.OutputSpec) (*Loop, error) {
	l := &Loop{Base: *newBase(id, typeName, g, inputs, outputs, nil)}
	l.attach(l)
	if err := requireSlots(l, []string{SlotStart, SlotControl, SlotIterations}, []string{SlotFinal, SlotLoopBody}); err != nil {
		return nil, err
	}
	return l, nil
}

// AllowsMultipleProducers permits fan-in on the Control input only.
func (l *Loop) AllowsMultipleProducers(inputName string) bool {
	return inputName == SlotControl
}

// Prepare resets the node and returns it to the not-started state.
func (l *Loop) Prepare() {
	l.Base.Prepare()
	l.state = loopNotStarted
}

// Check admits the first cycle when every input except Control is
// satisfiable, and each later cycle as soon as the body has signalled
// Control.
func (l *Loop) Check(ctx context.Context) bool {
	switch l.state {
	case loopIterating, loopFinishing:
		control, err := l.InputSlot(SlotControl)
		if err != nil {
			return false
		}
		return control.HasValue()
	default:
		if l.remaining <= 0 {
			return false
		}
		for _, in := range l.inputs {
			if in.Name() == SlotControl {
				continue
			}
			if !in.Available() {
				ctxlog.FromContext(ctx).Debug("prerequisites not met", "node", l.id, "input", in.Name())
				return false
			}
		}
		return true
	}
}

// Run starts the iteration cycle on first admission, re-emits the latest
// Control value on LoopBody while iterations remain, and emits the
// Control value on Final for the last pass.
func (l *Loop) Run(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("executing node", "node", l.id, "type", l.typeName, "state", int(l.state), "remaining", l.remaining)

	switch l.state {
	case loopIterating:
		v, err := l.ValueOf(SlotControl)
		if err != nil {
			return err
		}
		return l.SetOutput(SlotLoopBody, v)

	case loopFinishing:
		v, err := l.ValueOf(SlotControl)
		if err != nil {
			return err
		}
		return l.SetOutput(SlotFinal, v)

	default:
		count, err := l.iterations()
		if err != nil {
			return err
		}
		start, err := l.ValueOf(SlotStart)
		if err != nil {
			return err
		}
		l.remaining = count + 1
		if l.remaining > 1 {
			l.state = loopIterating
		} else {
			// Zero iterations: the body is never dispatched and the
			// final pass is owed immediately.
			l.state = loopFinishing
		}
		return l.SetOutput(SlotLoopBody, start)
	}
}

// Notify re-triggers the body subgraph while iterations remain: every
// LoopBody successor is prepared for a fresh pass and its input is
// force-set, which is the mechanism that lets the same downstream nodes
// run once per iteration. Control is reset unconditionally because it is
// multi-producer and must not block the next admission. On the final
// pass Final propagates normally and the owed counter settles to zero.
func (l *Loop) Notify(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	if l.state == loopIterating {
		if err := l.dispatchBody(ctx); err != nil {
			return err
		}
		l.remaining--
		l.resetControl()
		if l.remaining == 1 {
			l.state = loopFinishing
		}
		logger.Debug("loop body dispatched", "node", l.id, "remaining", l.remaining)
		return nil
	}

	if err := l.propagateOutput(ctx, SlotFinal); err != nil {
		return err
	}
	l.remaining--
	l.resetControl()
	l.state = loopNotStarted
	logger.Debug("loop finished", "node", l.id)
	return nil
}

// dispatchBody force-resets and re-triggers every LoopBody successor.
func (l *Loop) dispatchBody(ctx context.Context) error {
	out, err := l.OutputSlot(SlotLoopBody)
	if err != nil {
		return err
	}
	v, err := out.Get(true)
	if err != nil {
		return err
	}
	if v == cty.NilVal {
		ctxlog.FromContext(ctx).Debug("loop body output has no value, skipping dispatch", "node", l.id)
		return nil
	}
	for _, con := range l.graph.ConnectionsOfOutput(l.self, SlotLoopBody) {
		con.Target.Prepare()
		if err := con.Target.SetInput(con.TargetInput, v, true); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) resetControl() {
	if control, err := l.InputSlot(SlotControl); err == nil {
		control.Reset()
	}
}

// iterations reads and validates the bound of the loop.
func (l *Loop) iterations() (int, error) {
	v, err := l.ValueOf(SlotIterations)
	if err != nil {
		return 0, err
	}
	var count int
	if err := gocty.FromCtyValue(v, &count); err != nil {
		return 0, fmt.Errorf("iteration count of node %q: %w", l.id, err)
	}
	if count < 0 {
		return 0, fmt.Errorf("iteration count of node %q is negative: %d", l.id, count)
	}
	return count, nil
}
