package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/moedit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.Path
		wantErr bool
	}{
		{in: "Example.G.R4C3", want: domain.Path{"Example", "G", "R4C3"}},
		{in: " Example . G ", want: domain.Path{"Example", "G"}},
		{in: "R4C3", want: domain.Path{"R4C3"}},
		{in: "", wantErr: true},
		{in: "Example..R4C3", wantErr: true},
		{in: "Example.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParsePath(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPath_Helpers(t *testing.T) {
	p := domain.MustParsePath("Example.G.R4C3")

	assert.Equal(t, "Example.G.R4C3", p.String())
	assert.Equal(t, "R4C3", p.Leaf())
	assert.Equal(t, domain.Path{"Example", "G"}, p.Parent())
	assert.Equal(t, "Example.G.R4C3_New", p.Sibling("R4C3_New").String())
	assert.Equal(t, "Example.G.R4C3", p.String(), "Sibling must not alias the receiver")

	assert.Equal(t, "", domain.Path{}.Leaf())
	assert.Panics(t, func() { domain.MustParsePath("") })
}

func TestSpan_In(t *testing.T) {
	doc := "package P\n  model M\n  end M;\nend P;"
	span := domain.Span{Text: "model M\n  end M;", Offset: 12}

	assert.True(t, span.In(doc))
	assert.Equal(t, 28, span.End())
	assert.False(t, span.In(doc[:20]))

	span.Offset = 11
	assert.False(t, span.In(doc))
}

func TestEditError(t *testing.T) {
	err := domain.NewEditError("resolve", domain.ErrNotFound, "H", "in scope Example")
	wrapped := fmt.Errorf("step failed: %w", err)

	assert.Equal(t, `resolve: "H" not found (in scope Example)`, err.Error())
	assert.ErrorIs(t, wrapped, domain.ErrNotFound)
	assert.True(t, domain.IsNotFound(wrapped))

	target, ok := domain.FailedTarget(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "H", target)

	anchor := domain.NewEditError("add_connection", domain.ErrAnchorNotFound, "equation", "")
	assert.Equal(t, `add_connection: "equation" anchor not found`, anchor.Error())
	assert.True(t, domain.IsNotFound(anchor))

	assert.False(t, domain.IsNotFound(domain.NewEditError("clone", domain.ErrAmbiguous, "M", "")))
	_, ok = domain.FailedTarget(errors.New("boom"))
	assert.False(t, ok)
}

func TestDeclarations(t *testing.T) {
	assert.Equal(t, "HeatCapacitor C1(C=10);", domain.Component{Type: "HeatCapacitor", Name: "C1", Args: "C=10"}.Declaration())
	assert.Equal(t, "Real x;", domain.Component{Type: "Real", Name: "x"}.Declaration())
	assert.Error(t, domain.Component{Name: "x"}.Validate())

	p := domain.Parameter{Type: "Modelica.SIunits.Area", Name: "A_w", Value: "336/2", Annotation: "Area of external wall"}
	assert.Equal(t, `parameter Modelica.SIunits.Area A_w = 336/2 "Area of external wall";`, p.Declaration())
	assert.Error(t, domain.Parameter{Type: "Real", Name: "x"}.Validate())

	c := domain.Connection{A: "a.p", B: "b.n"}
	assert.Equal(t, "connect(a.p, b.n);", c.Statement())
	assert.NoError(t, c.Validate())
	assert.Error(t, domain.Connection{A: "a"}.Validate())
}
