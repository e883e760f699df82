package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyDistinguishesParts(t *testing.T) {
	a := Key("gemini", "m", "prompt", "text")
	assert.Equal(t, a, Key("gemini", "m", "prompt", "text"))
	assert.NotEqual(t, a, Key("gemini", "mp", "rompt", "text"))
	assert.NotEqual(t, a, Key("openai", "m", "prompt", "text"))
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", "home", time.Minute))
	require.NoError(t, m.Set(ctx, "forever", "back", 0))

	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "home", v)

	now = now.Add(2 * time.Minute)
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok)

	_, ok, _ = m.Get(ctx, "forever")
	assert.True(t, ok)

	require.NoError(t, m.Close())
	_, ok, _ = m.Get(ctx, "forever")
	assert.False(t, ok)
}

func TestMemoryEvictsOldestWhenFull(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(3)

	for _, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, m.Set(ctx, k, "v-"+k, 0))
	}
	assert.Equal(t, 3, m.Len())

	for _, k := range []string{"a", "b"} {
		_, ok, _ := m.Get(ctx, k)
		assert.False(t, ok, "key %s", k)
	}
	v, ok, _ := m.Get(ctx, "e")
	require.True(t, ok)
	assert.Equal(t, "v-e", v)
}

func TestMemorySweepsUnreadExpiredEntries(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(3)
	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "old", "x", 0))
	require.NoError(t, m.Set(ctx, "stale1", "x", time.Minute))
	require.NoError(t, m.Set(ctx, "stale2", "x", time.Minute))
	now = now.Add(2 * time.Minute)

	require.NoError(t, m.Set(ctx, "fresh", "y", time.Minute))
	assert.Equal(t, 2, m.Len(), "expired entries go before live ones")

	_, ok, _ := m.Get(ctx, "old")
	assert.True(t, ok)
}

func TestMemoryOverwriteKeepsSize(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)
	require.NoError(t, m.Set(ctx, "a", "1", 0))
	require.NoError(t, m.Set(ctx, "b", "1", 0))
	require.NoError(t, m.Set(ctx, "a", "2", 0))
	assert.Equal(t, 2, m.Len())

	v, ok, _ := m.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, "2", v)
	_, ok, _ = m.Get(ctx, "b")
	assert.True(t, ok)
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	require.NoError(t, c.Set(context.Background(), "k", "v", time.Minute))
	_, ok, err := c.Get(context.Background(), "k")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}
	addr := os.Getenv("DEVICELY_TEST_REDIS")
	if addr == "" {
		t.Skip("DEVICELY_TEST_REDIS not set")
	}

	ctx := context.Background()
	r, err := NewRedis(ctx, RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer r.Close()

	key := Key("test", "model", "prompt", time.Now().String())
	_, ok, err := r.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, key, "launch chrome", time.Minute))
	v, ok, err := r.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "launch chrome", v)
}
