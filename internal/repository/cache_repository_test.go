package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
)

type cachedSummary struct {
	Pending int    `json:"pending"`
	Role    string `json:"role"`
}

func TestCacheSetAndGet(t *testing.T) {
	server, client := newRedis(t)
	repo := NewCacheRepository(client, nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "dashboard:u1", cachedSummary{Pending: 3, Role: "teacher"}, 2*time.Minute))
	assert.Equal(t, 2*time.Minute, server.TTL("dashboard:u1"))

	var got cachedSummary
	require.NoError(t, repo.Get(ctx, "dashboard:u1", &got))
	assert.Equal(t, cachedSummary{Pending: 3, Role: "teacher"}, got)
}

func TestCacheGetMiss(t *testing.T) {
	server, client := newRedis(t)
	repo := NewCacheRepository(client, nil)
	ctx := context.Background()

	var got cachedSummary
	assert.ErrorIs(t, repo.Get(ctx, "dashboard:absent", &got), appErrors.ErrCacheMiss)

	require.NoError(t, repo.Set(ctx, "dashboard:u1", cachedSummary{Pending: 1}, time.Minute))
	server.FastForward(2 * time.Minute)
	assert.ErrorIs(t, repo.Get(ctx, "dashboard:u1", &got), appErrors.ErrCacheMiss)
}

func TestCacheDropsUndecodableEntry(t *testing.T) {
	server, client := newRedis(t)
	repo := NewCacheRepository(client, nil)

	require.NoError(t, server.Set("dashboard:u1", "{not json"))

	var got cachedSummary
	assert.ErrorIs(t, repo.Get(context.Background(), "dashboard:u1", &got), appErrors.ErrCacheMiss)
	assert.False(t, server.Exists("dashboard:u1"))
}

func TestCacheDeleteByPattern(t *testing.T) {
	server, client := newRedis(t)
	repo := NewCacheRepository(client, nil)
	ctx := context.Background()

	// more keys than one scan batch
	for i := 0; i < scanBatch+25; i++ {
		require.NoError(t, server.Set(fmt.Sprintf("dashboard:hod:%d", i), "{}"))
	}
	require.NoError(t, server.Set("dashboard:student:u1", "{}"))

	require.NoError(t, repo.DeleteByPattern(ctx, "dashboard:hod:*"))

	assert.Equal(t, []string{"dashboard:student:u1"}, server.Keys())
}

func TestCacheSurfacesRedisErrors(t *testing.T) {
	server, client := newRedis(t)
	repo := NewCacheRepository(client, nil)
	ctx := context.Background()

	server.SetError("ERR backend down")

	var got cachedSummary
	err := repo.Get(ctx, "dashboard:u1", &got)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.ErrorContains(t, repo.Set(ctx, "dashboard:u1", got, time.Minute), "redis set")
	assert.ErrorContains(t, repo.DeleteByPattern(ctx, "dashboard:*"), "redis scan")
}

func TestCacheWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var got cachedSummary
	assert.ErrorIs(t, repo.Get(ctx, "dashboard:u1", &got), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "dashboard:u1", got, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "dashboard:*"))
	assert.NoError(t, repo.Close())
}
