package store

import (
	"context"
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process Store. Records never expire and are lost on Close.
type Memory struct {
	mu    sync.RWMutex
	items *gocache.Cache
}

// NewMemory creates a memory store. Call Open before use.
func NewMemory() *Memory {
	return &Memory{}
}

// Name returns "memory".
func (m *Memory) Name() string { return "memory" }

// Open allocates the backing map. Opening an open store is a no-op.
func (m *Memory) Open(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.items == nil {
		m.items = gocache.New(gocache.NoExpiration, 0)
	}
	return nil
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	items, err := m.open()
	if err != nil {
		return nil, false, err
	}

	v, ok := items.Get(key)
	if !ok {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Put stores a copy of value under key.
func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	items, err := m.open()
	if err != nil {
		return err
	}

	items.Set(key, append([]byte(nil), value...), gocache.NoExpiration)
	return nil
}

// Delete removes key.
func (m *Memory) Delete(_ context.Context, key string) error {
	items, err := m.open()
	if err != nil {
		return err
	}

	items.Delete(key)
	return nil
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	items, err := m.open()
	if err != nil {
		return 0
	}
	return items.ItemCount()
}

// Close drops every record.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.items != nil {
		m.items.Flush()
		m.items = nil
	}
	return nil
}

func (m *Memory) open() (*gocache.Cache, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.items == nil {
		return nil, ErrClosed
	}
	return m.items, nil
}

var _ Store = (*Memory)(nil)
