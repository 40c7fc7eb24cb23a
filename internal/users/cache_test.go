package users_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proshop-store/proshop-api/internal/platform/httpx"
	"github.com/proshop-store/proshop-api/internal/users"
)

func newCacheFixture(t *testing.T) (*users.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return users.NewCache(client, time.Minute), mr
}

func testUser() *users.User {
	now := time.Now().UTC().Truncate(time.Second)
	return &users.User{
		ID:           uuid.New(),
		Name:         "Alice",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$fakefakefakefakefakefa",
		ResetToken:   "pending-reset",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCacheFetchLoadsOnce(t *testing.T) {
	cache, _ := newCacheFixture(t)
	user := testUser()

	var calls atomic.Int32
	loader := func(ctx context.Context) (*users.User, error) {
		calls.Add(1)
		return user, nil
	}

	first, err := cache.Fetch(context.Background(), user.ID, loader)
	require.NoError(t, err)
	assert.Equal(t, user.ID, first.ID)

	second, err := cache.Fetch(context.Background(), user.ID, loader)
	require.NoError(t, err)
	assert.Equal(t, user.ID, second.ID)

	assert.Equal(t, int32(1), calls.Load(), "second fetch must be served from redis")
}

func TestCacheRoundTripKeepsHiddenFields(t *testing.T) {
	cache, _ := newCacheFixture(t)
	user := testUser()

	loader := func(ctx context.Context) (*users.User, error) { return user, nil }
	_, err := cache.Fetch(context.Background(), user.ID, loader)
	require.NoError(t, err)

	cached, err := cache.Fetch(context.Background(), user.ID, func(ctx context.Context) (*users.User, error) {
		t.Fatal("loader must not run on a warm cache")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, user.PasswordHash, cached.PasswordHash)
	assert.Equal(t, user.ResetToken, cached.ResetToken)
}

func TestCacheInvalidateForcesReload(t *testing.T) {
	cache, _ := newCacheFixture(t)
	user := testUser()

	var calls atomic.Int32
	loader := func(ctx context.Context) (*users.User, error) {
		calls.Add(1)
		return user, nil
	}

	_, err := cache.Fetch(context.Background(), user.ID, loader)
	require.NoError(t, err)

	cache.Invalidate(context.Background(), user.ID)

	_, err = cache.Fetch(context.Background(), user.ID, loader)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCacheLoaderErrorPropagates(t *testing.T) {
	cache, _ := newCacheFixture(t)

	_, err := cache.Fetch(context.Background(), uuid.New(), func(ctx context.Context) (*users.User, error) {
		return nil, httpx.ErrNotFound
	})
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestCacheNilClientDegrades(t *testing.T) {
	cache := users.NewCache(nil, time.Minute)
	user := testUser()

	var calls atomic.Int32
	loader := func(ctx context.Context) (*users.User, error) {
		calls.Add(1)
		return user, nil
	}

	for i := 0; i < 2; i++ {
		got, err := cache.Fetch(context.Background(), user.ID, loader)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	}
	assert.Equal(t, int32(2), calls.Load(), "without redis every fetch goes to the loader")
}

func TestCacheRedisDownDegrades(t *testing.T) {
	cache, mr := newCacheFixture(t)
	user := testUser()
	mr.Close()

	got, err := cache.Fetch(context.Background(), user.ID, func(ctx context.Context) (*users.User, error) {
		return user, nil
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}
