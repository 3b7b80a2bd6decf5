package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	s := NewMemory()
	require.NoError(t, s.Open(context.Background()))
	defer s.Close()

	exerciseStore(t, s)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Open(ctx))

	value := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", value))
	value[0] = 'x'

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestMemory_CloseDropsRecords(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	require.NoError(t, s.Open(ctx))
	require.NoError(t, s.Put(ctx, "k", []byte("v")))
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Close())
	exerciseClosed(t, s)

	require.NoError(t, s.Open(ctx))
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
