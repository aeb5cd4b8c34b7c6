package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/moedit/internal/testutils"
	"github.com/aretw0/moedit/pkg/adapters/file"
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunDocumentStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_PreservesBytes(t *testing.T) {
	dir := t.TempDir()
	path := testutils.WriteDocument(t, dir, "models/Example.mo", testutils.ExampleModel)
	require.NoError(t, os.Chmod(path, 0600))

	store := file.New(dir)
	ctx := context.Background()

	doc, err := store.Load(ctx, "models/Example.mo")
	require.NoError(t, err)
	assert.Equal(t, testutils.ExampleModel, doc.Text)

	doc.Text += "\r\n// trailing\r\n"
	require.NoError(t, store.Save(ctx, doc))
	assert.Equal(t, doc.Text, testutils.ReadDocument(t, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "permissions of the replaced file are kept")

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "models"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_List(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteDocument(t, dir, "b.mo", "package B end B;")
	testutils.WriteDocument(t, dir, "sub/a.mo", "package A end A;")
	testutils.WriteDocument(t, dir, "notes.txt", "ignored")
	testutils.WriteDocument(t, dir, ".hidden/c.mo", "ignored")

	ids, err := file.New(dir).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b.mo", "sub/a.mo"}, ids)

	ids, err = file.New(filepath.Join(dir, "missing")).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_RejectsEscapingIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "../outside.mo", "/etc/passwd", "a/../../b.mo"} {
		_, err := store.Load(ctx, id)
		assert.Error(t, err, id)
		assert.NotErrorIs(t, err, domain.ErrDocumentNotFound, id)
	}
}
