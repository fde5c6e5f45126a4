package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emarket/emarket-api/internal/domains/users/ports"
)

func TestSessionStore_SaveAndResolve(t *testing.T) {
	store := NewSessionStore(0)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "token-1", 42))
	userID, err := store.Resolve(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	_, err = store.Resolve(ctx, "unknown")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore(0)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "token-1", 42))
	require.NoError(t, store.Delete(ctx, "token-1"))
	_, err := store.Resolve(ctx, "token-1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestSessionStore_ExpiryAndPurge(t *testing.T) {
	store := NewSessionStore(time.Nanosecond)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "token-1", 42))
	time.Sleep(time.Millisecond)

	_, err := store.Resolve(ctx, "token-1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	require.NoError(t, store.PurgeExpired(ctx))
	store.mu.RLock()
	_, remains := store.sessions["token-1"]
	store.mu.RUnlock()
	assert.False(t, remains)
}
