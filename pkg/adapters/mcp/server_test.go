package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/moedit"
	"github.com/aretw0/moedit/internal/testutils"
	"github.com/aretw0/moedit/pkg/adapters/memory"
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()

	store := memory.NewStore(domain.Document{ID: "Example.mo", Text: testutils.ExampleModel})
	ed, err := moedit.New(moedit.WithStore(store))
	require.NoError(t, err)
	return NewServer(ed), store
}

func TestResolveBlock(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleResolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"document": "Example.mo",
		"path":     "Example.G.R4C3",
	})
	require.NoError(t, err)
	assert.Equal(t, "R4C3", resp.Span.Name)
	assert.True(t, resp.Span.In(testutils.ExampleModel))

	resp, err = s.handleResolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"text": testutils.ExampleModel,
		"path": "Example.G.Nope",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.Len(t, resp.Trace, 3)
	assert.False(t, resp.Trace[2].Matched)

	_, err = s.handleResolve(ctx, mcp.CallToolRequest{}, map[string]interface{}{"path": "A.B"})
	assert.Error(t, err)
}

func TestApplySteps(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	steps := `[{"op":"clone","target":"Example.G.R2C2","name":"R2C2_B"},{"op":"set_parameter","target":"Example.G.R2C2_B","name":"A_z","value":"20"}]`

	resp, err := s.handleApply(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"document": "Example.mo",
		"output":   "Example2.mo",
		"steps":    steps,
	})
	require.NoError(t, err)
	assert.Equal(t, "Example2.mo", resp.Document)
	assert.Len(t, resp.Report.Steps, 2)

	saved, err := store.Load(ctx, "Example2.mo")
	require.NoError(t, err)
	assert.Contains(t, saved.Text, "model R2C2_B\n      parameter Real A_z = 20;")

	resp, err = s.handleApply(ctx, mcp.CallToolRequest{}, map[string]interface{}{
		"text":  "package P\n  model M\n  equation\n  end M;\nend P;\n",
		"steps": `[{"op":"add_connection","target":"P.M","connect":["a","b"]}]`,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Document)
	assert.Contains(t, resp.Text, "    connect(a, b);")

	_, err = s.handleApply(ctx, mcp.CallToolRequest{}, map[string]interface{}{"text": "x", "steps": "{"})
	assert.Error(t, err)
}

func TestOutlineAndDocumentsResource(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleOutline(ctx, mcp.CallToolRequest{}, map[string]interface{}{"document": "Example.mo"})
	require.NoError(t, err)
	require.Len(t, resp.Blocks, 1)
	assert.Equal(t, "Example", resp.Blocks[0].Name)

	contents, err := s.readDocuments(ctx, mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	var ids []string
	require.NoError(t, json.Unmarshal([]byte(text.Text), &ids))
	assert.Equal(t, []string{"Example.mo"}, ids)
}
