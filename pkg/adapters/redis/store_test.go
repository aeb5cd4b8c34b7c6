package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/moedit/internal/testutils"
	"github.com/aretw0/moedit/pkg/adapters/redis"
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunDocumentStoreContract(t, store)
}

func TestRedisStore_KeyLayout(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("test:"))
	ctx := context.Background()

	doc := domain.Document{ID: "lib/Example.mo", Text: testutils.ExampleModel}
	require.NoError(t, store.Save(ctx, doc))

	raw, err := mr.Get("test:doc:lib/Example.mo")
	require.NoError(t, err)
	assert.Equal(t, testutils.ExampleModel, raw, "text is stored verbatim")

	members, err := mr.ZMembers("test:index")
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/Example.mo"}, members)

	require.NoError(t, store.Delete(ctx, doc.ID))
	assert.False(t, mr.Exists("test:doc:lib/Example.mo"))
	assert.False(t, mr.Exists("test:index"), "empty index is removed with its last member")
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	id := "doc-ttl.mo"

	// 1. Save
	require.NoError(t, store.Save(ctx, domain.Document{ID: id, Text: "package P end P;"}))

	// 2. Verify List (immediately)
	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, id)

	// 3. Fast Forward time in miniredis (for Key Expiration)
	mr.FastForward(2 * time.Second)

	// 4. Verify Load (should fail)
	_, err = store.Load(ctx, id)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	// 5. Verify List (lazily cleaned up)
	// The index score is wall-clock based, so real time has to pass too.
	time.Sleep(1200 * time.Millisecond)

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids, id, "Expired document should be removed from List")
}
