package store

import (
	"fmt"
	"strings"
)

// Backend names accepted by New.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendMemcache = "memcache"
	BackendObject   = "object"
	BackendSQL      = "sql"
)

// ValidBackends lists the backend names accepted by New.
var ValidBackends = []string{BackendMemory, BackendFile, BackendMemcache, BackendObject, BackendSQL}

// Config selects and configures a backend.
type Config struct {
	// Backend is one of ValidBackends.
	Backend string `mapstructure:"backend"`

	// Dir is the root directory of the file backend.
	Dir string `mapstructure:"dir"`

	// Servers lists memcached "host:port" addresses.
	Servers []string `mapstructure:"servers"`

	// Object configures the object backend.
	Object ObjectConfig `mapstructure:"object"`

	// DSN and Table configure the sql backend.
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

// Validate checks that the backend is known and has its required settings.
func (c Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case BackendMemory:
		return nil
	case BackendFile:
		if c.Dir == "" {
			return fmt.Errorf("store: file backend requires dir")
		}
	case BackendMemcache:
		if len(c.Servers) == 0 {
			return fmt.Errorf("store: memcache backend requires servers")
		}
	case BackendObject:
		return c.Object.Validate()
	case BackendSQL:
		if c.DSN == "" {
			return fmt.Errorf("store: sql backend requires dsn")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	return nil
}

// New creates the configured backend. The store still has to be opened.
func New(cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch strings.ToLower(cfg.Backend) {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFile(cfg.Dir), nil
	case BackendMemcache:
		return NewMemcache(cfg.Servers...), nil
	case BackendObject:
		return NewObject(cfg.Object), nil
	default:
		return NewSQL(cfg.DSN, cfg.Table), nil
	}
}
