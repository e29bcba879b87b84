package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunbun/assistant/pkg/adapters/redis"
	"github.com/sunbun/assistant/pkg/domain"
	"github.com/sunbun/assistant/pkg/ports"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestClient(t)
	store := redis.NewFromClient(client)
	ports.RunStateStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newTestClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	threadID := "thread-ttl"
	state := domain.NewState(threadID)
	state.AppendMessage(domain.NewAssistant("hello"))

	require.NoError(t, store.Save(ctx, threadID, state))

	threads, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, threads, threadID)

	// Expire the key in miniredis.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, threadID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// The index prune uses time.Now() scores, so wait past the TTL in real
	// time before expecting lazy cleanup to kick in.
	time.Sleep(1200 * time.Millisecond)

	threads, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, threads)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newTestClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	threadID := "my-thread"

	require.NoError(t, store.Save(ctx, threadID, domain.NewState(threadID)))

	assert.True(t, mr.Exists("custom:app:my-thread"), "expected key with custom prefix")
	assert.True(t, mr.Exists("custom:app:index"), "expected index with custom prefix")

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, threadID)
}

func TestRedisLocker_MutualExclusion(t *testing.T) {
	_, client := newTestClient(t)
	locker := redis.NewLocker(client, "custom:app:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "t1", 5*time.Second)
	require.NoError(t, err)

	// A second acquisition must block until the first is released.
	blockedCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(blockedCtx, "t1", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	unlock2, err := locker.Lock(ctx, "t1", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}
