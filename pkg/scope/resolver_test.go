package scope_test

import (
	"strings"
	"testing"

	"github.com/aretw0/moedit/internal/testutils"
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_NestedLeaf(t *testing.T) {
	doc := testutils.ExampleModel

	span, err := scope.Resolve(doc, domain.MustParsePath("Example.G.R4C3"))
	require.NoError(t, err)

	assert.Equal(t, "R4C3", span.Name)
	assert.Equal(t, "model", span.Keyword)
	assert.True(t, strings.HasPrefix(span.Text, "model R4C3 "), "span should start with its start marker")
	assert.True(t, strings.HasSuffix(span.Text, "end R4C3;"), "span should end with its end marker")
	assert.Equal(t, span.Text, doc[span.Offset:span.End()], "span must be a literal substring at its offset")
	assert.True(t, span.In(doc))
}

func TestResolve_EveryLeafInFixture(t *testing.T) {
	doc := testutils.ExampleModel
	for _, p := range []string{"Example.G.R4C3", "Example.G.R2C2", "Example.Standalone"} {
		t.Run(p, func(t *testing.T) {
			path := domain.MustParsePath(p)
			span, err := scope.Resolve(doc, path)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(span.Text, "model "+path.Leaf()))
			assert.True(t, strings.HasSuffix(span.Text, "end "+path.Leaf()+";"))
			assert.Equal(t, span.Text, doc[span.Offset:span.End()])
		})
	}
}

func TestResolve_NotFoundNamesSegment(t *testing.T) {
	tests := []struct {
		path    string
		segment string
	}{
		{"Nope.G.R4C3", "Nope"},
		{"Example.X.R4C3", "X"},
		{"Example.G.Missing", "Missing"},
		{"Example.R4C3", "R4C3"}, // exists, but only one level deeper
		{"Example.G", "G"},       // G is a package, not a model
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := scope.Resolve(testutils.ExampleModel, domain.MustParsePath(tt.path))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrNotFound)
			assert.True(t, domain.IsNotFound(err))

			target, ok := domain.FailedTarget(err)
			require.True(t, ok)
			assert.Equal(t, tt.segment, target)
		})
	}
}

func TestResolve_Ambiguous(t *testing.T) {
	doc := `package P
  model Dup
    Real a;
  end Dup;
  model Dup
    Real b;
  end Dup;
end P;`

	_, err := scope.Resolve(doc, domain.MustParsePath("P.Dup"))
	assert.ErrorIs(t, err, domain.ErrAmbiguous)

	span, err := scope.Resolve(doc, domain.MustParsePath("P.Dup"), scope.WithAllowDuplicates())
	require.NoError(t, err)
	assert.Contains(t, span.Text, "Real a;")
}

func TestResolve_SameNameAtDifferentLevelsIsNotAmbiguous(t *testing.T) {
	doc := `package P
  package Sub
    model M
      Real nested;
    end M;
  end Sub;
  model M
    Real top;
  end M;
end P;`

	span, err := scope.Resolve(doc, domain.MustParsePath("P.M"))
	require.NoError(t, err)
	assert.Contains(t, span.Text, "Real top;")
	assert.NotContains(t, span.Text, "nested")

	span, err = scope.Resolve(doc, domain.MustParsePath("P.Sub.M"))
	require.NoError(t, err)
	assert.Contains(t, span.Text, "Real nested;")
}

func TestResolve_UnscannableScopeFallsBackToPattern(t *testing.T) {
	// "end X;" without an opener makes the outline scanner fail.
	doc := "package P\n  end X;\n  model M\n  end M;\nend P;"

	span, err := scope.Resolve(doc, domain.MustParsePath("P.M"))
	require.NoError(t, err)
	assert.Equal(t, "model M\n  end M;", span.Text)
}

func TestResolve_Trace(t *testing.T) {
	var trace domain.Trace
	_, err := scope.Resolve(testutils.ExampleModel, domain.MustParsePath("Example.G.R4C3"), scope.WithTrace(&trace))
	require.NoError(t, err)
	require.Len(t, trace, 3)
	assert.Equal(t, "package", trace[0].Keyword)
	assert.Equal(t, "model", trace[2].Keyword)
	for _, step := range trace {
		assert.True(t, step.Matched)
		assert.NotEmpty(t, step.Pattern)
		assert.GreaterOrEqual(t, step.Offset, 0)
	}

	trace = nil
	_, err = scope.Resolve(testutils.ExampleModel, domain.MustParsePath("Example.Q.R4C3"), scope.WithTrace(&trace))
	require.Error(t, err)
	require.Len(t, trace, 2, "resolution must stop at the failing segment")
	assert.False(t, trace[1].Matched)
	assert.Equal(t, -1, trace[1].Offset)
}

func TestLocate_ReturnsUntouchedDocument(t *testing.T) {
	doc := domain.Document{ID: "Example.mo", Text: testutils.ExampleModel}
	span, got, err := scope.Locate(doc, domain.MustParsePath("Example.G.R2C2"))
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	assert.Equal(t, span.Text, got.Text[span.Offset:span.End()])
}
