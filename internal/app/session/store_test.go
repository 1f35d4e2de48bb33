package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduportal/internal/pkg/apperrors"
)

func storeBackends(t *testing.T) map[string]Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(time.Hour),
		"redis":  NewRedisStore(client, time.Hour),
	}
}

func TestStore_CreateGetUpdateDelete(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now().UTC()

			require.NoError(t, store.Create(ctx, New("abc", now)))

			s, err := store.Get(ctx, "abc")
			require.NoError(t, err)
			assert.Equal(t, StateLanding, s.State)

			updated, err := store.Update(ctx, "abc", func(s *Session) error {
				return s.SelectRole("teacher", now)
			})
			require.NoError(t, err)
			assert.Equal(t, StateAuthenticating, updated.State)

			s, err = store.Get(ctx, "abc")
			require.NoError(t, err)
			assert.Equal(t, int64(1), s.Epoch)

			require.NoError(t, store.Delete(ctx, "abc"))
			_, err = store.Get(ctx, "abc")
			assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		})
	}
}

func TestStore_UpdateErrorLeavesSessionUntouched(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now().UTC()
			require.NoError(t, store.Create(ctx, New("abc", now)))

			_, err := store.Update(ctx, "abc", func(s *Session) error {
				s.State = StateAdmin
				return apperrors.ErrInvalidTransition
			})
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

			s, err := store.Get(ctx, "abc")
			require.NoError(t, err)
			assert.Equal(t, StateLanding, s.State)

			_, err = store.Update(ctx, "missing", func(s *Session) error { return nil })
			assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		})
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, New("abc", time.Now())))

	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestMemoryStore_ConcurrentUpdates(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, New("abc", time.Now())))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "abc", func(s *Session) error {
				s.Epoch++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(50), s.Epoch)
}
