package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

// clientContract ejercita el contrato común a todos los backends.
func clientContract(t *testing.T, c Client) {
	t.Helper()
	ctx := context.Background()

	// Miss limpio.
	_, err := c.Get(ctx, "absent")
	require.True(t, IsNotFound(err))

	// Set + Get.
	require.NoError(t, c.Set(ctx, "k1", "v1", time.Minute))
	got, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, "v1", got)

	// Overwrite.
	require.NoError(t, c.Set(ctx, "k1", "v2", time.Minute))
	got, err = c.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, "v2", got)

	// Delete vuelve al miss.
	require.NoError(t, c.Delete(ctx, "k1"))
	_, err = c.Get(ctx, "k1")
	require.True(t, IsNotFound(err))

	// Delete sobre key inexistente no es error.
	require.NoError(t, c.Delete(ctx, "absent"))

	require.NoError(t, c.Ping(ctx))
}

func TestMemoryClientContract(t *testing.T) {
	c := NewMemory("test", time.Minute)
	defer c.Close()
	clientContract(t, c)
}

func TestRedisClientContract(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedis(Config{Driver: "redis", Addr: mr.Addr(), Prefix: "test"})
	require.NoError(t, err)
	defer c.Close()

	clientContract(t, c)
}

func TestRedisClientPrefixesKeys(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedis(Config{Driver: "redis", Addr: mr.Addr(), Prefix: "authcore"})
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "revoked:abc", "1", time.Minute))

	// La key física lleva el prefijo; así dos despliegues comparten redis
	// sin pisarse.
	require.True(t, mr.Exists("authcore:revoked:abc"))
	require.False(t, mr.Exists("revoked:abc"))
}

func TestRedisClientExpiry(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedis(Config{Driver: "redis", Addr: mr.Addr()})
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", "1", time.Second))

	mr.FastForward(2 * time.Second)

	_, err = c.Get(ctx, "short")
	require.True(t, IsNotFound(err))
}

func TestRedisBackendExposure(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedis(Config{Driver: "redis", Addr: mr.Addr()})
	require.NoError(t, err)
	defer c.Close()

	rdb, ok := RedisBackend(c)
	require.True(t, ok)
	require.NotNil(t, rdb)

	// Un backend en memoria no expone redis.
	_, ok = RedisBackend(NewMemory("", 0))
	require.False(t, ok)
}

func TestNewSelectsDriver(t *testing.T) {
	mem, err := New(Config{Driver: "memory"})
	require.NoError(t, err)
	defer mem.Close()
	_, ok := RedisBackend(mem)
	require.False(t, ok)

	mr := miniredis.RunT(t)
	redisCli, err := New(Config{Driver: "redis", Addr: mr.Addr()})
	require.NoError(t, err)
	defer redisCli.Close()
	_, ok = RedisBackend(redisCli)
	require.True(t, ok)
}
