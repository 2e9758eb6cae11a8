package node

import (
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/vk/flowgrid/internal/pinid"
)

// SlotSnapshot is the exported state of one slot: its name, declared
// type name, current resolved value (JSON null when none), and default.
type SlotSnapshot struct {
	Name    string          `json:"name"`
	Type    string          `json:"type"`
	Value   json.RawMessage `json:"value"`
	Default json.RawMessage `json:"default"`
}

// Snapshot is the minimal data-extraction contract the core supports for
// persistence collaborators. The position payload is opaque to the core.
type Snapshot struct {
	Class             string              `json:"class"`
	Position          json.RawMessage     `json:"position,omitempty"`
	Inputs            []SlotSnapshot      `json:"inputs"`
	InputConnections  map[string]string   `json:"inputConnections"`
	Outputs           []SlotSnapshot      `json:"outputs"`
	OutputConnections map[string][]string `json:"outputConnections"`
}

// Snapshot exports the node's declared slots, their current state, and
// the pin ids of its producers and consumers.
func (b *Base) Snapshot() (*Snapshot, error) {
	snap := &Snapshot{
		Class:             b.typeName,
		InputConnections:  make(map[string]string),
		OutputConnections: make(map[string][]string),
	}

	if b.position != cty.NilVal {
		raw, err := marshalValue(b.position)
		if err != nil {
			return nil, fmt.Errorf("node %q: position: %w", b.id, err)
		}
		snap.Position = raw
	}

	for _, in := range b.inputs {
		resolved, err := in.Get(true)
		if err != nil {
			return nil, err
		}
		ss, err := slotSnapshot(in, resolved)
		if err != nil {
			return nil, fmt.Errorf("node %q: input %q: %w", b.id, in.Name(), err)
		}
		snap.Inputs = append(snap.Inputs, ss)

		if prod, ok := b.graph.ConnectionOfInput(b.self, in.Name()); ok {
			snap.InputConnections[in.Name()] = pinid.New(prod.Source.ID(), pinid.DirOutput, prod.OutputName).String()
		}
	}

	for _, out := range b.outputs {
		// Outputs export only what was written this round, not defaults.
		written := cty.NilVal
		if out.HasValue() {
			var err error
			written, err = out.Get(true)
			if err != nil {
				return nil, err
			}
		}
		ss, err := slotSnapshot(out, written)
		if err != nil {
			return nil, fmt.Errorf("node %q: output %q: %w", b.id, out.Name(), err)
		}
		snap.Outputs = append(snap.Outputs, ss)

		ids := make([]string, 0)
		for _, con := range b.graph.ConnectionsOfOutput(b.self, out.Name()) {
			ids = append(ids, pinid.New(con.Target.ID(), pinid.DirInput, con.TargetInput).String())
		}
		snap.OutputConnections[out.Name()] = ids
	}

	return snap, nil
}

func slotSnapshot(s *Slot, value cty.Value) (SlotSnapshot, error) {
	rawValue, err := marshalValue(value)
	if err != nil {
		return SlotSnapshot{}, err
	}
	rawDefault, err := marshalValue(s.Default())
	if err != nil {
		return SlotSnapshot{}, err
	}
	return SlotSnapshot{
		Name:    s.Name(),
		Type:    s.Type().FriendlyName(),
		Value:   rawValue,
		Default: rawDefault,
	}, nil
}

// marshalValue serializes a cty value, encoding the no-value marker as
// JSON null.
func marshalValue(v cty.Value) (json.RawMessage, error) {
	if v == cty.NilVal {
		return json.RawMessage("null"), nil
	}
	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
