package schema

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// InputSpec declares a single input slot template of a node type.
type InputSpec struct {
	Name        string
	Type        cty.Type
	Description string
	Hints       []string
	// Default is the declared fallback value. cty.NilVal means the input
	// has no default and must be satisfied explicitly.
	Default cty.Value
	// Select optionally enumerates the values an editor should offer.
	Select []cty.Value
}

// OutputSpec declares a single output slot template of a node type.
type OutputSpec struct {
	Name        string
	Type        cty.Type
	Description string
	Hints       []string
	Default     cty.Value
	Select      []cty.Value
}

// Definition declares a node type: its own slot templates and, optionally,
// the ancestor type whose templates it inherits.
type Definition struct {
	Type        string
	Extends     string
	Description string
	Inputs      []*InputSpec
	Outputs     []*OutputSpec
}

// Normalize validates the spec and fills derived fields: an unset type
// becomes `any`, the type's friendly name is prepended to the hint list,
// and a declared default is coerced to the declared type. A null default
// is discarded, matching the rule that only usable defaults count.
func (s *InputSpec) Normalize() error {
	typ, hints, def, err := normalize(s.Name, s.Type, s.Hints, s.Default)
	if err != nil {
		return err
	}
	s.Type, s.Hints, s.Default = typ, hints, def
	return nil
}

// Normalize is the output-side counterpart of InputSpec.Normalize.
func (s *OutputSpec) Normalize() error {
	typ, hints, def, err := normalize(s.Name, s.Type, s.Hints, s.Default)
	if err != nil {
		return err
	}
	s.Type, s.Hints, s.Default = typ, hints, def
	return nil
}

func normalize(name string, typ cty.Type, hints []string, def cty.Value) (cty.Type, []string, cty.Value, error) {
	if name == "" {
		return cty.NilType, nil, cty.NilVal, fmt.Errorf("slot template has no name")
	}
	if typ == cty.NilType {
		typ = cty.DynamicPseudoType
	}

	withType := append([]string{typ.FriendlyName()}, hints...)

	if def != cty.NilVal {
		if def.IsNull() {
			def = cty.NilVal
		} else {
			converted, err := convert.Convert(def, typ)
			if err != nil {
				return cty.NilType, nil, cty.NilVal, fmt.Errorf("default for slot %q cannot convert to %s: %w", name, typ.FriendlyName(), err)
			}
			def = converted
		}
	}

	return typ, withType, def, nil
}

// Normalize applies Normalize to every slot template of the definition.
func (d *Definition) Normalize() error {
	if d.Type == "" {
		return fmt.Errorf("node type definition has no type name")
	}
	for _, in := range d.Inputs {
		if err := in.Normalize(); err != nil {
			return fmt.Errorf("type %q: %w", d.Type, err)
		}
	}
	for _, out := range d.Outputs {
		if err := out.Normalize(); err != nil {
			return fmt.Errorf("type %q: %w", d.Type, err)
		}
	}
	return nil
}
