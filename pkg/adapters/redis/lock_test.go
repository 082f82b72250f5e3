package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/megaverse/pkg/adapters/redis"
	"github.com/aretw0/megaverse/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLocker_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunLockerContract(t, redis.NewLocker(client, "test:", redis.WithPollInterval(10*time.Millisecond)))
}

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:lock:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "candidate-1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:lock:candidate-1"), "Lock key should be set in Redis")
	assert.Equal(t, "test:lock:lock:candidate-1", locker.Key("candidate-1"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:lock:candidate-1"), "Lock key should be removed after unlock")
}

func TestRedisLocker_TTL(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, redis.DefaultPrefix, redis.WithPollInterval(10*time.Millisecond))
	ctx := context.Background()

	stale, err := locker.Lock(ctx, "candidate-1", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	fresh, err := locker.Lock(ctx, "candidate-1", time.Minute)
	require.NoError(t, err, "expired lock should be acquirable")

	// The stale holder's token no longer matches; the fresh lock survives.
	require.NoError(t, stale(ctx))
	assert.True(t, mr.Exists(locker.Key("candidate-1")))

	require.NoError(t, fresh(ctx))
	assert.False(t, mr.Exists(locker.Key("candidate-1")))
}

func TestRedisLocker_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	locker := redis.NewLocker(client, "test:")
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = locker.Lock(ctx, "k", time.Second)
	assert.Error(t, err)
}

func TestDial(t *testing.T) {
	mr, _ := newClient(t)
	client, err := redis.Dial(context.Background(), mr.Addr())
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	_, err = redis.Dial(context.Background(), "127.0.0.1:1")
	assert.Error(t, err)
}
