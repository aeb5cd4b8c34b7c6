package mutate

import (
	"testing"

	"github.com/aretw0/moedit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditParameter(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		param string
		value string
		want  string
	}{
		{
			name:  "Keeps description",
			text:  "  parameter Modelica.SIunits.Area A_z = 50 \"Zone area\";\n",
			param: "A_z",
			value: "100",
			want:  "  parameter Modelica.SIunits.Area A_z = 100 \"Zone area\";\n",
		},
		{
			name:  "Keeps modifiers",
			text:  `parameter Real k(unit="W/K") = 2.5;`,
			param: "k",
			value: "3",
			want:  `parameter Real k(unit="W/K") = 3;`,
		},
		{
			name:  "Keeps annotation",
			text:  `parameter Real g = 9.81 annotation(Dialog(group="Env"));`,
			param: "g",
			value: "9.80665",
			want:  `parameter Real g = 9.80665 annotation(Dialog(group="Env"));`,
		},
		{
			name:  "Only the named parameter",
			text:  "parameter Real a = 1;\nparameter Real ab = 2;\n",
			param: "a",
			value: "7",
			want:  "parameter Real a = 7;\nparameter Real ab = 2;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EditParameter(tt.text, tt.param, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEditParameter_Failures(t *testing.T) {
	_, err := EditParameter("parameter Real a = 1;", "b", "2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// A plain variable is not a parameter.
	_, err = EditParameter("Real b = 1;", "b", "2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// k is only a modifier of per; the declaration must stay intact.
	_, err = EditParameter("  parameter Data.Generic per(k = 3);\n", "k", "5")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = EditParameter("parameter Real a = 1;", "a", " ")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestEditParameter_Duplicates(t *testing.T) {
	text := "parameter Real A_z = 1;\nparameter Real A_z = 2;\n"

	_, err := EditParameter(text, "A_z", "3")
	assert.ErrorIs(t, err, domain.ErrAmbiguous)

	got, err := EditParameter(text, "A_z", "3", WithAllowDuplicates())
	require.NoError(t, err)
	assert.Equal(t, "parameter Real A_z = 3;\nparameter Real A_z = 3;\n", got)
}
