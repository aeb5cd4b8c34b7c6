package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/moedit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDocumentStoreContract runs a suite of tests to verify that a DocumentStore
// implementation adheres to the defined interface contract.
func RunDocumentStoreContract(t *testing.T, store DocumentStore) {
	ctx := context.Background()
	id := "contract-" + time.Now().Format("20060102150405") + ".mo"
	text := "package P\n  model M\n  equation\n  end M;\nend P;\n"

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, domain.Document{ID: id, Text: text})
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, id, loaded.ID)
		assert.Equal(t, text, loaded.Text, "text must round trip byte for byte")
	})

	t.Run("Overwrite", func(t *testing.T) {
		updated := text + "// edited\n"
		require.NoError(t, store.Save(ctx, domain.Document{ID: id, Text: updated}))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, updated, loaded.Text)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.Document{ID: id, Text: text}))

		err := store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound, "Load after Delete should return ErrDocumentNotFound")

		assert.NoError(t, store.Delete(ctx, id), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := "list-1-" + id
		id2 := "list-2-" + id
		_ = store.Save(ctx, domain.Document{ID: id1, Text: text})
		_ = store.Save(ctx, domain.Document{ID: id2, Text: text})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
