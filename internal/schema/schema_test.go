package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestInputSpecNormalize(t *testing.T) {
	testCases := []struct {
		name    string
		spec    InputSpec
		wantErr bool
		check   func(t *testing.T, s InputSpec)
	}{
		{
			name: "fills any for an unset type",
			spec: InputSpec{Name: "X"},
			check: func(t *testing.T, s InputSpec) {
				assert.Equal(t, cty.DynamicPseudoType, s.Type)
			},
		},
		{
			name: "prepends type name to hints",
			spec: InputSpec{Name: "X", Type: cty.Number, Hints: []string{"seconds"}},
			check: func(t *testing.T, s InputSpec) {
				assert.Equal(t, []string{"number", "seconds"}, s.Hints)
			},
		},
		{
			name: "coerces default to declared type",
			spec: InputSpec{Name: "X", Type: cty.Number, Default: cty.StringVal("8")},
			check: func(t *testing.T, s InputSpec) {
				assert.True(t, s.Default.RawEquals(cty.NumberIntVal(8)))
			},
		},
		{
			name: "discards null default",
			spec: InputSpec{Name: "X", Type: cty.Number, Default: cty.NullVal(cty.Number)},
			check: func(t *testing.T, s InputSpec) {
				assert.Equal(t, cty.NilVal, s.Default)
			},
		},
		{
			name:    "rejects unconvertible default",
			spec:    InputSpec{Name: "X", Type: cty.Number, Default: cty.StringVal("oops")},
			wantErr: true,
		},
		{
			name:    "rejects missing name",
			spec:    InputSpec{Type: cty.Number},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Normalize()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, tc.spec)
		})
	}
}

func TestOutputSpecNormalize(t *testing.T) {
	s := OutputSpec{Name: "Y", Type: cty.Bool, Default: cty.True}
	require.NoError(t, s.Normalize())
	assert.Equal(t, []string{"bool"}, s.Hints)
	assert.True(t, s.Default.RawEquals(cty.True))
}

func TestDefinitionNormalize(t *testing.T) {
	d := Definition{
		Type:    "Example",
		Inputs:  []*InputSpec{{Name: "X", Type: cty.Number}},
		Outputs: []*OutputSpec{{Name: "Y"}},
	}
	require.NoError(t, d.Normalize())
	assert.Equal(t, cty.DynamicPseudoType, d.Outputs[0].Type)

	bad := Definition{
		Type:   "Bad",
		Inputs: []*InputSpec{{Name: "X", Type: cty.Number, Default: cty.StringVal("oops")}},
	}
	err := bad.Normalize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `type "Bad"`)

	unnamed := Definition{}
	assert.Error(t, unnamed.Normalize())
}
