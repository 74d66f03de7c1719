package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewCache(Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_KV(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "session:tok", "1", time.Minute))
	v, err := c.Get(ctx, "session:tok")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx, "session:tok")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisCache_SetNXAndCompareAndDelete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "spawn:lock:tpl", "owner-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "spawn:lock:tpl", "owner-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	released, err := c.CompareAndDelete(ctx, "spawn:lock:tpl", "owner-b")
	require.NoError(t, err)
	assert.False(t, released)

	released, err = c.CompareAndDelete(ctx, "spawn:lock:tpl", "owner-a")
	require.NoError(t, err)
	assert.True(t, released)

	exists, err := c.Exists(ctx, "spawn:lock:tpl")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisCache_Expire(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.Expire(ctx, "missing", time.Second), ErrNotFound)
	require.NoError(t, c.Set(ctx, "k", "v", 0))
	assert.NoError(t, c.Expire(ctx, "k", time.Second))
}

func TestRedisCache_Hash(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.HSet(ctx, "table:pending", "monster:1:delete", `{"op":"delete"}`))
	require.NoError(t, c.HSet(ctx, "table:pending", "npc:2:update", `{"op":"update"}`))

	n, err := c.HLen(ctx, "table:pending")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	v, err := c.HGet(ctx, "table:pending", "npc:2:update")
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":"update"}`, v)

	require.NoError(t, c.HDel(ctx, "table:pending", "npc:2:update"))
	_, err = c.HGet(ctx, "table:pending", "npc:2:update")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := c.HGetAll(ctx, "table:pending")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRedisPubSub(t *testing.T) {
	mr := miniredis.RunT(t)
	ps, err := NewPubSub(Config{Addr: mr.Addr()}, 16)
	require.NoError(t, err)
	ctx := context.Background()

	ch, cancel, err := ps.Subscribe(ctx, "table:events")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, ps.Publish(ctx, "table:events", `{"type":"combat_started"}`))

	select {
	case msg := <-ch:
		assert.Equal(t, "table:events", msg.Channel)
		assert.JSONEq(t, `{"type":"combat_started"}`, msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for redis message")
	}
}

func TestNewCache_Unreachable(t *testing.T) {
	_, err := NewCache(Config{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
