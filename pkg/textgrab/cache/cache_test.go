package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheGetPut(t *testing.T) {
	c, err := New(10)
	require.NoError(t, err)

	_, ok := c.Get("/a.bin")
	assert.False(t, ok)

	c.Put("/a.bin", false)
	c.Put("/b.txt", true)

	verdict, ok := c.Get("/a.bin")
	assert.True(t, ok)
	assert.False(t, verdict)

	verdict, ok = c.Get("/b.txt")
	assert.True(t, ok)
	assert.True(t, verdict)
}

func TestCacheStats(t *testing.T) {
	c, err := New(10)
	require.NoError(t, err)

	c.Get("/miss") // miss
	c.Put("/hit", true)
	c.Get("/hit") // hit
	c.Get("/hit") // hit

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Size)
}

func TestCacheBounded(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Put("/one", true)
	c.Put("/two", true)
	c.Put("/three", true)

	// Oldest entry is evicted; size never exceeds the bound.
	assert.LessOrEqual(t, c.Stats().Size, int64(2))
	_, ok := c.Get("/one")
	assert.False(t, ok)
}

func TestCacheClear(t *testing.T) {
	c, err := New(10)
	require.NoError(t, err)

	c.Put("/x", true)
	c.Get("/x")
	require.NoError(t, c.Clear())

	stats := c.Stats()
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
	assert.Zero(t, stats.Size)

	_, ok := c.Get("/x")
	assert.False(t, ok)
}

func TestCacheDefaultSize(t *testing.T) {
	c, err := New(0)
	require.NoError(t, err)

	c.Put("/x", true)
	assert.Equal(t, int64(1), c.Stats().Size)
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get("/unknown")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put("/text.rnd", true))
	require.NoError(t, store.Put("/blob.rnd", false))

	verdict, err := store.Get("/text.rnd")
	require.NoError(t, err)
	assert.True(t, verdict)

	verdict, err = store.Get("/blob.rnd")
	require.NoError(t, err)
	assert.False(t, verdict)
}

func TestStoreClear(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put("/x", true))
	require.NoError(t, store.Clear())

	_, err = store.Get("/x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCacheWithStorePromotion(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	c, err := New(10)
	require.NoError(t, err)
	c.WithStore(store)

	c.Put("/persisted", true)

	// A fresh in-memory cache over the same store finds the verdict.
	c2, err := New(10)
	require.NoError(t, err)
	c2.WithStore(store)

	verdict, ok := c2.Get("/persisted")
	assert.True(t, ok)
	assert.True(t, verdict)
	assert.Equal(t, int64(1), c2.Stats().Hits)
}
