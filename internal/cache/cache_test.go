package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	Client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { Client = nil })
}

func TestNextGlobalNumber(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	first, err := NextGlobalNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "HS-00001", first)

	second, err := NextGlobalNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "HS-00002", second)
}

func TestNextGroupNumberPerGroup(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	a, err := NextGroupNumber(ctx, 1, "jpr")
	require.NoError(t, err)
	assert.Equal(t, "JPR-0001", a)

	// Another group keeps its own sequence.
	b, err := NextGroupNumber(ctx, 2, "DEL")
	require.NoError(t, err)
	assert.Equal(t, "DEL-0001", b)

	a2, err := NextGroupNumber(ctx, 1, "JPR")
	require.NoError(t, err)
	assert.Equal(t, "JPR-0002", a2)
}

func TestViews(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()

	assert.Zero(t, Views(ctx, "HS-00001"))
	require.NoError(t, BumpViews(ctx, "HS-00001"))
	require.NoError(t, BumpViews(ctx, "HS-00001"))
	assert.EqualValues(t, 2, Views(ctx, "HS-00001"))
}

func TestNilClientDegrades(t *testing.T) {
	Client = nil
	ctx := context.Background()

	_, err := NextGlobalNumber(ctx)
	assert.Error(t, err)
	assert.NoError(t, BumpViews(ctx, "HS-00001"))
	assert.Zero(t, Views(ctx, "HS-00001"))
}
