package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every backend shares against an open store.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		val, ok, err := s.Get(ctx, "nonexistent")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, val)
	})

	t.Run("put get overwrite", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "k", []byte(`{"timestamp":1,"content":1}`)))
		require.NoError(t, s.Put(ctx, "k", []byte(`{"timestamp":2,"content":2}`)))

		val, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"timestamp":2,"content":2}`, string(val))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "gone", []byte("x")))
		require.NoError(t, s.Delete(ctx, "gone"))
		require.NoError(t, s.Delete(ctx, "gone"))

		_, ok, err := s.Get(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("keys are distinct", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "alice_profile", []byte("a")))
		require.NoError(t, s.Put(ctx, "bob_profile", []byte("b")))

		a, _, err := s.Get(ctx, "alice_profile")
		require.NoError(t, err)
		b, _, err := s.Get(ctx, "bob_profile")
		require.NoError(t, err)
		assert.Equal(t, "a", string(a))
		assert.Equal(t, "b", string(b))
	})

	t.Run("concurrent use", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := fmt.Sprintf("c%d", i%4)
				assert.NoError(t, s.Put(ctx, key, []byte(key)))
				val, ok, err := s.Get(ctx, key)
				assert.NoError(t, err)
				if ok {
					assert.Equal(t, key, string(val))
				}
			}(i)
		}
		wg.Wait()
	})
}

// exerciseClosed checks that every operation fails with ErrClosed.
func exerciseClosed(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, _, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Put(ctx, "k", []byte("v")), ErrClosed)
	assert.ErrorIs(t, s.Delete(ctx, "k"), ErrClosed)
}

func TestClosedStores(t *testing.T) {
	tests := []Store{
		NewMemory(),
		NewFile(t.TempDir()),
		NewMemcache("127.0.0.1:11211"),
		NewObject(ObjectConfig{Endpoint: "localhost:9000", Bucket: "b"}),
		NewSQL("postgres://localhost/db", ""),
	}

	for _, s := range tests {
		t.Run(s.Name(), func(t *testing.T) {
			exerciseClosed(t, s)
			assert.NoError(t, s.Close())
		})
	}
}
