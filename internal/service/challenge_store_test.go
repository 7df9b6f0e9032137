package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryChallengeStore_PutGet(t *testing.T) {
	store := NewMemoryChallengeStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a@b.com", "123456", time.Minute))

	code, ok, err := store.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "123456", code)
}

func TestMemoryChallengeStore_GetUnknownEmail(t *testing.T) {
	store := NewMemoryChallengeStore()

	_, ok, err := store.Get(context.Background(), "nobody@b.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryChallengeStore_PutOverwritesPriorCode(t *testing.T) {
	store := NewMemoryChallengeStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a@b.com", "111111", time.Minute))
	require.NoError(t, store.Put(ctx, "a@b.com", "222222", time.Minute))

	code, ok, err := store.Get(ctx, "a@b.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "222222", code)
}

func TestMemoryChallengeStore_ExpiredEntryEvicted(t *testing.T) {
	now := time.Now()
	store := &memoryChallengeStore{
		entries: make(map[string]challengeEntry),
		now:     func() time.Time { return now },
	}
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a@b.com", "123456", 5*time.Minute))

	now = now.Add(5*time.Minute + time.Second)
	_, ok, err := store.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.False(t, ok, "expired code must not be returned")

	// Eviction happened; a fresh Put works as usual.
	require.NoError(t, store.Put(ctx, "a@b.com", "654321", 5*time.Minute))
	code, ok, _ := store.Get(ctx, "a@b.com")
	require.True(t, ok)
	assert.Equal(t, "654321", code)
}

func TestMemoryChallengeStore_Delete(t *testing.T) {
	store := NewMemoryChallengeStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a@b.com", "123456", time.Minute))
	require.NoError(t, store.Delete(ctx, "a@b.com"))

	_, ok, err := store.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.False(t, ok)
}
