package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/aretw0/moedit/internal/testutils"
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "moedit version dev")
}

func TestCloneThenResolve(t *testing.T) {
	dir := t.TempDir()
	src := testutils.WriteDocument(t, dir, "Example.mo", testutils.ExampleModel)

	out, err := run(t, "clone", "Example.G.R4C3", "R4C3_New", "--dir", dir, "--file", "Example.mo", "--out", "Example1.mo")
	require.NoError(t, err)
	assert.Contains(t, out, "| 1 | clone | `Example.G.R4C3` |")
	assert.Contains(t, out, "wrote Example1.mo")

	assert.Equal(t, testutils.ExampleModel, testutils.ReadDocument(t, src), "input is untouched")
	assert.Contains(t, testutils.ReadDocument(t, filepath.Join(dir, "Example1.mo")), "end R4C3_New;")

	out, err = run(t, "resolve", "Example.G.R4C3_New", "--dir", dir, "--file", "Example1.mo")
	require.NoError(t, err)
	assert.Contains(t, out, "model R4C3_New \"Four resistances, three capacities\"")
}

func TestApplyPlan(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteDocument(t, dir, "Example.mo", testutils.ExampleModel)
	planPath := testutils.WriteDocument(t, dir, "steps.yaml", `
input: Example.mo
steps:
  - op: add_connection
    target: Example.Standalone
    connect: [a, b]
`)

	_, err := run(t, "apply", planPath, "--dir", dir, "--file", "Example.mo", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, testutils.ReadDocument(t, filepath.Join(dir, "Example.mo")), "  equation\n    connect(a, b);\n  end Standalone;")
}

func TestResolve_NotFound(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteDocument(t, dir, "Example.mo", testutils.ExampleModel)

	_, err := run(t, "resolve", "Example.H.R4C3", "--dir", dir, "--file", "Example.mo")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtend_OwnerInSamePackage(t *testing.T) {
	dir := t.TempDir()
	src := testutils.WriteDocument(t, dir, "Example.mo", testutils.ExampleModel)

	_, err := run(t, "extend", "Example.G.R4C3", "R4C3", "--owner", "R2C2", "--dir", dir, "--file", "Example.mo", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, testutils.ReadDocument(t, src), "    model R2C2\n      extends R4C3;\n")
}
