package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := New(&Config{Backend: "memory", TTL: time.Minute})
	require.NoError(t, err)
	return store
}

func TestNew(t *testing.T) {
	t.Run("NilConfig", func(t *testing.T) {
		_, err := New(nil)
		assert.ErrorIs(t, err, ErrConfigNil)
	})

	t.Run("UnknownBackend", func(t *testing.T) {
		_, err := New(&Config{Backend: "etcd"})
		assert.ErrorIs(t, err, ErrBackendUnknown)
	})

	t.Run("DefaultBackendIsMemory", func(t *testing.T) {
		store, err := New(&Config{})
		require.NoError(t, err)
		assert.NotNil(t, store)
	})
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	history := []Message{
		{Role: "user", Content: "How many vacation days do I get?"},
		{Role: "model", Content: "In the US you get 15 vacation days per year."},
	}
	require.NoError(t, store.Save(ctx, "s1", history))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, history, loaded)
}

func TestMemoryStoreMissingSession(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s1", []Message{{Role: "user", Content: "hi"}}))
	require.NoError(t, store.Delete(ctx, "s1"))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestMemoryStoreCopies(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	history := []Message{{Role: "user", Content: "hi"}}
	require.NoError(t, store.Save(ctx, "s1", history))

	// 保存后修改调用方切片不应影响存储内容
	history[0].Content = "mutated"

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "hi", loaded[0].Content)

	// 加载后修改返回值同样不应影响存储内容
	loaded[0].Content = "mutated again"
	reloaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "hi", reloaded[0].Content)
}
