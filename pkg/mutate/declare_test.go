package mutate

import (
	"testing"

	"github.com/aretw0/moedit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertComponent(t *testing.T) {
	tests := []struct {
		name string
		text string
		comp domain.Component
		opts []Option
		want string
	}{
		{
			name: "Before equation line",
			text: "model M\n  Real x;\nequation\n  der(x) = 1;\nend M;",
			comp: domain.Component{Type: "Modelica.Blocks.Interfaces.RealInput", Name: "kkk"},
			want: "model M\n  Real x;\n  Modelica.Blocks.Interfaces.RealInput kkk;\nequation\n  der(x) = 1;\nend M;",
		},
		{
			name: "With arguments and indented marker",
			text: "    model M\n      Real x;\n    equation\n    end M;",
			comp: domain.Component{Type: "HeatCapacitor", Name: "C1", Args: "C=10"},
			want: "    model M\n      Real x;\n      HeatCapacitor C1(C=10);\n    equation\n    end M;",
		},
		{
			name: "Tab indentation",
			text: "model M\nequation\nend M;",
			comp: domain.Component{Type: "Real", Name: "y"},
			opts: []Option{WithIndent("\t")},
			want: "model M\n\tReal y;\nequation\nend M;",
		},
		{
			name: "Uses the last marker",
			text: "model M\ninitial equation\n  x = 0;\nequation\nend M;",
			comp: domain.Component{Type: "Real", Name: "y"},
			want: "model M\ninitial equation\n  x = 0;\n  Real y;\nequation\nend M;",
		},
		{
			name: "Marker inline",
			text: "model M Real x; equation end M;",
			comp: domain.Component{Type: "Real", Name: "y"},
			want: "model M Real x; Real y;\nequation end M;",
		},
		{
			name: "CRLF line endings",
			text: "model M\r\nequation\r\nend M;",
			comp: domain.Component{Type: "Real", Name: "y"},
			want: "model M\r\n  Real y;\r\nequation\r\nend M;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InsertComponent(tt.text, tt.comp, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInsertComponent_NoAnchor(t *testing.T) {
	_, err := InsertComponent("model M\n  Real x;\nend M;", domain.Component{Type: "Real", Name: "y"})
	assert.ErrorIs(t, err, domain.ErrAnchorNotFound)
	assert.True(t, domain.IsNotFound(err))

	// "initial equation" alone is not an anchor.
	_, err = InsertComponent("model M\ninitial equation\nend M;", domain.Component{Type: "Real", Name: "y"})
	assert.ErrorIs(t, err, domain.ErrAnchorNotFound)
}

func TestInsertComponent_IgnoresMarkersInStringsAndComments(t *testing.T) {
	text := "model M\n  Real x;\nequation\n  der(x) = 1;\n" +
		"  annotation(Documentation(info=\"<html>The equation is trivial.</html>\"));\nend M;"

	got, err := InsertComponent(text, domain.Component{Type: "Real", Name: "y"})
	require.NoError(t, err)
	assert.Equal(t, "model M\n  Real x;\n  Real y;\nequation\n  der(x) = 1;\n"+
		"  annotation(Documentation(info=\"<html>The equation is trivial.</html>\"));\nend M;", got)

	text = "model M\nequation\n  x = 1; // equation here\nend M;"
	got, err = InsertComponent(text, domain.Component{Type: "Real", Name: "y"})
	require.NoError(t, err)
	assert.Equal(t, "model M\n  Real y;\nequation\n  x = 1; // equation here\nend M;", got)

	// Only a doc string mentions the keyword.
	_, err = InsertComponent("model M \"the equation of state\"\n  Real x;\nend M;", domain.Component{Type: "Real", Name: "y"})
	assert.ErrorIs(t, err, domain.ErrAnchorNotFound)
}

func TestInsertComponent_InvalidArgument(t *testing.T) {
	_, err := InsertComponent("model M\nequation\nend M;", domain.Component{Name: "y"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestInsertParameter(t *testing.T) {
	text := "model M\n  Real x;\nequation\nend M;"

	got, err := InsertParameter(text, domain.Parameter{
		Type:       "Modelica.SIunits.Area",
		Name:       "A_w",
		Value:      "336/2",
		Annotation: "Area of external wall",
	})
	require.NoError(t, err)
	assert.Equal(t, "model M\n  Real x;\n  parameter Modelica.SIunits.Area A_w = 336/2 \"Area of external wall\";\nequation\nend M;", got)

	got, err = InsertParameter(text, domain.Parameter{Type: "Real", Name: "k", Value: "1"})
	require.NoError(t, err)
	assert.Equal(t, "model M\n  Real x;\n  parameter Real k = 1;\nequation\nend M;", got)

	_, err = InsertParameter("model M\nend M;", domain.Parameter{Type: "Real", Name: "k", Value: "1"})
	assert.ErrorIs(t, err, domain.ErrAnchorNotFound)
}

func TestInsertThenEditParameter_IdempotentOnValue(t *testing.T) {
	text := "model M\nequation\nend M;"
	inserted, err := InsertParameter(text, domain.Parameter{Type: "Real", Name: "k", Value: "1", Annotation: "gain"})
	require.NoError(t, err)

	once, err := EditParameter(inserted, "k", "42")
	require.NoError(t, err)
	twice, err := EditParameter(once, "k", "42")
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Contains(t, once, `parameter Real k = 42 "gain";`)
}
