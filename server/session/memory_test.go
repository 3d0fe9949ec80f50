package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	require.NoError(t, store.Put(ctx, New("t1", now)))
	session, ok, err := store.Get(ctx, "t1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "t1", session.Token)
	assert.Equal(t, now, session.CreatedAt)

	later := now.Add(time.Minute)
	require.NoError(t, store.Touch(ctx, "t1", later))
	session, _, _ = store.Get(ctx, "t1")
	assert.Equal(t, later, session.LastSeen)
	assert.Equal(t, now, session.CreatedAt)

	require.NoError(t, store.Touch(ctx, "missing", later))
	_, ok, _ = store.Get(ctx, "missing")
	assert.False(t, ok)

	deleted, err := store.Delete(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, _ = store.Delete(ctx, "t1")
	assert.False(t, deleted)
	_, ok, _ = store.Get(ctx, "t1")
	assert.False(t, ok)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := fmt.Sprintf("t%d", i)
			_ = store.Put(ctx, New(token, time.Now()))
			_, _, _ = store.Get(ctx, token)
			_ = store.Touch(ctx, token, time.Now())
			if i%2 == 0 {
				_, _ = store.Delete(ctx, token)
			}
		}(i)
	}
	wg.Wait()
	count, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, count)
}

func TestMemoryStore_Expire(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	require.NoError(t, store.Put(ctx, New("stale", now.Add(-time.Hour))))
	require.NoError(t, store.Put(ctx, New("fresh", now)))

	expired, err := store.Expire(ctx, now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"stale"}, expired)
	_, ok, _ := store.Get(ctx, "fresh")
	assert.True(t, ok)
}
