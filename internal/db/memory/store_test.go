package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/edsapi/internal/db"
)

func TestStore_SetGet(t *testing.T) {
	s, err := NewStore(10)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestStore_GetMissing(t *testing.T) {
	s, err := NewStore(10)
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, db.ErrKeyNotFound)
}

func TestStore_TTLExpiry(t *testing.T) {
	now := time.Unix(1_000, 0)
	s, err := NewStore(10)
	require.NoError(t, err)
	s.WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, s.SetWithTTL(ctx, "k", []byte("v"), time.Minute))

	now = now.Add(59 * time.Second)
	_, err = s.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, db.ErrKeyNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestStore_LRUEviction(t *testing.T) {
	s, err := NewStore(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.Set(ctx, "b", []byte("2")))
	require.NoError(t, s.Set(ctx, "c", []byte("3")))

	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, db.ErrKeyNotFound)
	assert.Equal(t, 2, s.Len())
}

func TestStore_ValuesAreCopied(t *testing.T) {
	s, err := NewStore(10)
	require.NoError(t, err)
	ctx := context.Background()

	buf := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'X'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestStore_Del(t *testing.T) {
	s, err := NewStore(10)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Del(ctx, "k"))
	require.NoError(t, s.Del(ctx, "k"))

	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, db.ErrKeyNotFound)
}

func TestStore_Close(t *testing.T) {
	s, err := NewStore(0)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.WaitForReady(ctx, time.Second))

	s.Close()
	assert.ErrorIs(t, s.Ping(ctx), db.ErrClosed)
	assert.ErrorIs(t, s.Set(ctx, "k", nil), db.ErrClosed)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, db.ErrClosed)
}
