package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jonwraymond/reqcache/observe"
	"github.com/jonwraymond/reqcache/store"
)

type ConfigTestSuite struct {
	suite.Suite
	tempDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	s.tempDir = s.T().TempDir()
	s.T().Chdir(s.tempDir)
}

func (s *ConfigTestSuite) write(name, content string) string {
	path := filepath.Join(s.tempDir, name)
	require.NoError(s.T(), os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := Load("")
	require.NoError(s.T(), err)

	assert.Equal(s.T(), store.BackendFile, cfg.Store.Backend)
	assert.Equal(s.T(), DefaultStoreDir(), cfg.Store.Dir)
	assert.Equal(s.T(), store.DefaultSQLTable, cfg.Store.Table)
	assert.Zero(s.T(), cfg.Cache.DefaultMaxAge)
	assert.False(s.T(), cfg.Cache.SerializeKeys)
	assert.Equal(s.T(), "sub", cfg.Auth.PrincipalClaim)
	assert.Equal(s.T(), "reqcache", cfg.Observe.ServiceName)
	assert.Equal(s.T(), "info", cfg.Observe.Logging.Level)
	assert.True(s.T(), cfg.Observe.Logging.Enabled)
}

func (s *ConfigTestSuite) TestYAMLFile() {
	path := s.write("reqcache.yaml", `
store:
  backend: memcache
  servers:
    - cache-1:11211
    - cache-2:11211
cache:
  default_max_age: 10m
  max_max_age: 1h
  serialize_keys: true
auth:
  issuer: https://id.example.com
  tenant_claim: org
  secret: s3cr3t
observe:
  logging:
    level: debug
`)

	cfg, err := Load(path)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), store.BackendMemcache, cfg.Store.Backend)
	assert.Equal(s.T(), []string{"cache-1:11211", "cache-2:11211"}, cfg.Store.Servers)
	assert.Equal(s.T(), 10*time.Minute, cfg.Cache.DefaultMaxAge)
	assert.Equal(s.T(), time.Hour, cfg.Cache.Policy().MaxMaxAge)
	assert.True(s.T(), cfg.Cache.SerializeKeys)
	assert.Equal(s.T(), "https://id.example.com", cfg.Auth.Issuer)
	assert.Equal(s.T(), "org", cfg.Auth.TenantClaim)
	assert.Equal(s.T(), "debug", cfg.Observe.Logging.Level)

	key, err := cfg.Auth.KeyProvider().GetKey(context.Background(), "")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), []byte("s3cr3t"), key)
}

func (s *ConfigTestSuite) TestConfigInWorkingDirectory() {
	s.write("config.json", `{"store":{"backend":"memory"}}`)

	cfg, err := Load("")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), store.BackendMemory, cfg.Store.Backend)
}

func (s *ConfigTestSuite) TestEnvironmentOverrides() {
	path := s.write("reqcache.toml", `
[store]
backend = "memory"
`)
	s.T().Setenv("REQCACHE_STORE_BACKEND", "sql")
	s.T().Setenv("REQCACHE_STORE_DSN", "postgres://cache@localhost/cache?sslmode=disable")
	s.T().Setenv("REQCACHE_CACHE_DEFAULT_MAX_AGE", "90s")
	s.T().Setenv("REQCACHE_OBSERVE_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), store.BackendSQL, cfg.Store.Backend)
	assert.Equal(s.T(), "postgres://cache@localhost/cache?sslmode=disable", cfg.Store.DSN)
	assert.Equal(s.T(), 90*time.Second, cfg.Cache.DefaultMaxAge)
	assert.Equal(s.T(), "warn", cfg.Observe.Logging.Level)
}

func (s *ConfigTestSuite) TestInvalid() {
	tests := map[string]struct {
		content string
		wantErr error
	}{
		"unknown backend": {"store:\n  backend: redis\n", store.ErrUnknownBackend},
		"bad log level":   {"observe:\n  logging:\n    level: loud\n", observe.ErrInvalidLogLevel},
		"default above max": {"cache:\n  default_max_age: 2h\n  max_max_age: 1h\n", ErrInvalidCache},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			_, err := Load(s.write("bad.yaml", tt.content))
			assert.ErrorIs(s.T(), err, tt.wantErr)
		})
	}
}

func (s *ConfigTestSuite) TestMalformedFile() {
	_, err := Load(s.write("broken.yaml", "store: [\n"))
	assert.Error(s.T(), err)
}

func (s *ConfigTestSuite) TestMissingExplicitFile() {
	_, err := Load(filepath.Join(s.tempDir, "nope.yaml"))
	assert.Error(s.T(), err)
}
