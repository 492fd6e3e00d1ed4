package repository

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStoreForTest(t *testing.T) (*miniredis.Miniredis, *RedisOTPStore) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return m, NewRedisOTPStore(client)
}

func TestRedisOTPStore_PutGetRoundTrip(t *testing.T) {
	_, store := newRedisStoreForTest(t)
	ctx := context.Background()

	session := newSession("s1", "alice@edutrack.io", time.Now().Add(5*time.Minute))
	session.Code = "482913"
	session.Attempts = 2
	require.NoError(t, store.Put(ctx, session))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	// The code must survive the trip even though the model hides it from
	// API responses; a dropped code would make every verify a mismatch
	assert.Equal(t, "482913", got.Code)
	assert.Equal(t, "alice@edutrack.io", got.Email)
	assert.Equal(t, 2, got.Attempts)
	assert.WithinDuration(t, session.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestRedisOTPStore_GetMissing(t *testing.T) {
	_, store := newRedisStoreForTest(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisOTPStore_Delete(t *testing.T) {
	_, store := newRedisStoreForTest(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, newSession("s1", "alice@edutrack.io", time.Now().Add(5*time.Minute))))
	require.NoError(t, store.Delete(ctx, "s1"))

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Absent id is a no-op, not an error
	assert.NoError(t, store.Delete(ctx, "s1"))
}

func TestRedisOTPStore_DeleteByEmail(t *testing.T) {
	_, store := newRedisStoreForTest(t)
	ctx := context.Background()
	expiry := time.Now().Add(5 * time.Minute)

	require.NoError(t, store.Put(ctx, newSession("s1", "alice@edutrack.io", expiry)))
	require.NoError(t, store.Put(ctx, newSession("s2", "alice@edutrack.io", expiry)))
	require.NoError(t, store.Put(ctx, newSession("s3", "bob@edutrack.io", expiry)))

	require.NoError(t, store.DeleteByEmail(ctx, "alice@edutrack.io"))

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(ctx, "s2")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(ctx, "s3")
	assert.NoError(t, err)
}

func TestRedisOTPStore_TTLEviction(t *testing.T) {
	m, store := newRedisStoreForTest(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, newSession("s1", "alice@edutrack.io", time.Now().Add(time.Minute))))

	m.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisOTPStore_SweepTrimsStaleIndex(t *testing.T) {
	m, store := newRedisStoreForTest(t)
	ctx := context.Background()

	// Same address so the index set outlives the short-lived entry
	require.NoError(t, store.Put(ctx, newSession("dead", "alice@edutrack.io", time.Now().Add(time.Minute))))
	require.NoError(t, store.Put(ctx, newSession("live", "alice@edutrack.io", time.Now().Add(10*time.Minute))))

	m.FastForward(2 * time.Minute)

	removed, err := store.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = store.Get(ctx, "live")
	assert.NoError(t, err)
}
