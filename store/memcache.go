package store

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/bradfitz/gomemcache/memcache"
)

// maxMemcacheKey is the memcached protocol limit on key length.
const maxMemcacheKey = 250

// Memcache stores records in memcached. Items carry no memcached expiry.
type Memcache struct {
	servers []string

	mu sync.RWMutex
	mc *memcache.Client
}

// NewMemcache creates a memcached store for the given "host:port" servers.
func NewMemcache(servers ...string) *Memcache {
	return &Memcache{servers: servers}
}

// Name returns "memcache".
func (m *Memcache) Name() string { return "memcache" }

// Open connects to the servers and pings them.
func (m *Memcache) Open(_ context.Context) error {
	if len(m.servers) == 0 {
		return fmt.Errorf("%w: no memcache servers configured", ErrClosed)
	}

	mc := memcache.New(m.servers...)
	if err := mc.Ping(); err != nil {
		return fmt.Errorf("%w: memcache ping: %v", ErrRead, err)
	}

	m.mu.Lock()
	m.mc = mc
	m.mu.Unlock()
	return nil
}

// Get returns the item stored under key.
func (m *Memcache) Get(_ context.Context, key string) ([]byte, bool, error) {
	mc, err := m.client()
	if err != nil {
		return nil, false, err
	}

	item, err := mc.Get(MemcacheKey(key))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return item.Value, true, nil
}

// Put sets the item for key.
func (m *Memcache) Put(_ context.Context, key string, value []byte) error {
	mc, err := m.client()
	if err != nil {
		return err
	}

	if err := mc.Set(&memcache.Item{Key: MemcacheKey(key), Value: value}); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Delete removes the item for key.
func (m *Memcache) Delete(_ context.Context, key string) error {
	mc, err := m.client()
	if err != nil {
		return err
	}

	err = mc.Delete(MemcacheKey(key))
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return fmt.Errorf("%w: %v", ErrDelete, err)
	}
	return nil
}

// Close drops the client.
func (m *Memcache) Close() error {
	m.mu.Lock()
	m.mc = nil
	m.mu.Unlock()
	return nil
}

func (m *Memcache) client() (*memcache.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.mc == nil {
		return nil, ErrClosed
	}
	return m.mc, nil
}

// MemcacheKey returns key when memcached accepts it verbatim, and an MD5
// derived key otherwise (too long, or containing spaces or control bytes).
func MemcacheKey(key string) string {
	if legalMemcacheKey(key) {
		return key
	}
	sum := md5.Sum([]byte(key))
	return "reqcache:" + hex.EncodeToString(sum[:])
}

func legalMemcacheKey(key string) bool {
	if key == "" || len(key) > maxMemcacheKey {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] <= ' ' || key[i] == 0x7f {
			return false
		}
	}
	return true
}

var _ Store = (*Memcache)(nil)
