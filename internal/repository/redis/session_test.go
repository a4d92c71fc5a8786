package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cmlabs-hris/hr-admin-backend-go/internal/domain/session"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (session.Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return NewSessionStore(client), mr
}

func TestSessionStore_SetGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, session.SessionKey("acc-1"), "token-a", time.Hour))

	value, err := store.Get(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "token-a", value)

	ttl, err := store.TTL(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)
}

func TestSessionStore_LastWriterWins(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "acc-1", "first", time.Hour))
	require.NoError(t, store.Set(ctx, "acc-1", "second", 2*time.Hour))

	value, err := store.Get(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "second", value)

	ttl, err := store.TTL(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, ttl)
}

func TestSessionStore_Expiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, session.OTPKey("a@b.com"), "payload", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "a@b.comotp")
	assert.ErrorIs(t, err, session.ErrNotFound)

	_, err = store.TTL(ctx, "a@b.comotp")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, session.SessionKey("acc-1"), "token", time.Hour))
	require.NoError(t, store.Set(ctx, session.PrivilegeKey("acc-1"), "{}", time.Hour))

	require.NoError(t, store.Delete(ctx, "acc-1", "acc-1privileges", "missing"))
	assert.False(t, mr.Exists("acc-1"))
	assert.False(t, mr.Exists("acc-1privileges"))

	require.NoError(t, store.Delete(ctx))
}

func TestSessionStore_UpdateReplaceKeepsTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a@b.comotp", "v1", 5*time.Minute))
	mr.FastForward(2 * time.Minute)

	err := store.Update(ctx, "a@b.comotp", func(current string) (string, session.Op, error) {
		assert.Equal(t, "v1", current)
		return "v2", session.Replace, nil
	})
	require.NoError(t, err)

	value, err := store.Get(ctx, "a@b.comotp")
	require.NoError(t, err)
	assert.Equal(t, "v2", value)

	ttl, err := store.TTL(ctx, "a@b.comotp")
	require.NoError(t, err)
	assert.Equal(t, 3*time.Minute, ttl)
}

func TestSessionStore_UpdateRemoveAndKeep(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))

	require.NoError(t, store.Update(ctx, "k", func(string) (string, session.Op, error) {
		return "ignored", session.Keep, nil
	}))
	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	require.NoError(t, store.Update(ctx, "k", func(string) (string, session.Op, error) {
		return "", session.Remove, nil
	}))
	assert.False(t, mr.Exists("k"))

	err = store.Update(ctx, "k", func(string) (string, session.Op, error) {
		t.Fatal("fn must not run for a missing key")
		return "", session.Keep, nil
	})
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_UpdateFnError(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	err := store.Update(ctx, "k", func(string) (string, session.Op, error) {
		return "x", session.Replace, boom
	})
	assert.ErrorIs(t, err, boom)

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}

func TestSessionStore_UpdateRemoveIsSingleUse(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "a@b.comotp", "code", time.Minute))

	var (
		wg      sync.WaitGroup
		winners atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Update(ctx, "a@b.comotp", func(string) (string, session.Op, error) {
				return "", session.Remove, nil
			})
			if err == nil {
				winners.Add(1)
				return
			}
			assert.ErrorIs(t, err, session.ErrNotFound)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}
