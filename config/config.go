// Package config loads reqcache settings from a file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonwraymond/reqcache/auth"
	"github.com/jonwraymond/reqcache/cache"
	"github.com/jonwraymond/reqcache/observe"
	"github.com/jonwraymond/reqcache/store"
)

// EnvPrefix prefixes every environment override, e.g. REQCACHE_STORE_BACKEND.
const EnvPrefix = "REQCACHE"

// ErrInvalidCache indicates inconsistent cache settings.
var ErrInvalidCache = errors.New("config: invalid cache settings")

// Config stores all configuration of reqcache.
type Config struct {
	Store   store.Config   `mapstructure:"store"`
	Cache   CacheConfig    `mapstructure:"cache"`
	Auth    AuthConfig     `mapstructure:"auth"`
	Observe observe.Config `mapstructure:"observe"`
}

// CacheConfig configures the orchestrator.
type CacheConfig struct {
	DefaultMaxAge time.Duration `mapstructure:"default_max_age"`
	MaxMaxAge     time.Duration `mapstructure:"max_max_age"`
	SerializeKeys bool          `mapstructure:"serialize_keys"`
}

// Policy returns the staleness policy.
func (c CacheConfig) Policy() cache.Policy {
	return cache.Policy{DefaultMaxAge: c.DefaultMaxAge, MaxMaxAge: c.MaxMaxAge}
}

// AuthConfig configures identity tokens.
type AuthConfig struct {
	auth.JWTConfig `mapstructure:",squash"`

	// Secret is the HMAC key tokens are signed with.
	Secret string `mapstructure:"secret"`
}

// KeyProvider returns the signing key provider.
func (a AuthConfig) KeyProvider() auth.KeyProvider {
	return auth.NewStaticKeyProvider([]byte(a.Secret))
}

// DefaultStoreDir returns the default root of the file backend.
func DefaultStoreDir() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "reqcache")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", store.BackendFile)
	v.SetDefault("store.dir", DefaultStoreDir())
	v.SetDefault("store.servers", []string{})
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.table", store.DefaultSQLTable)
	v.SetDefault("store.object.endpoint", "")
	v.SetDefault("store.object.access_key", "")
	v.SetDefault("store.object.secret_key", "")
	v.SetDefault("store.object.bucket", "reqcache")
	v.SetDefault("store.object.prefix", "")
	v.SetDefault("store.object.region", "")
	v.SetDefault("store.object.use_ssl", false)

	v.SetDefault("cache.default_max_age", "0s")
	v.SetDefault("cache.max_max_age", "0s")
	v.SetDefault("cache.serialize_keys", false)

	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("auth.principal_claim", "sub")
	v.SetDefault("auth.tenant_claim", "")
	v.SetDefault("auth.roles_claim", "")
	v.SetDefault("auth.secret", "")

	obs := observe.DefaultConfig()
	v.SetDefault("observe.service_name", obs.ServiceName)
	v.SetDefault("observe.version", obs.Version)
	v.SetDefault("observe.tracing.enabled", obs.Tracing.Enabled)
	v.SetDefault("observe.tracing.exporter", obs.Tracing.Exporter)
	v.SetDefault("observe.tracing.sample_pct", obs.Tracing.SamplePct)
	v.SetDefault("observe.metrics.enabled", obs.Metrics.Enabled)
	v.SetDefault("observe.metrics.exporter", obs.Metrics.Exporter)
	v.SetDefault("observe.logging.enabled", obs.Logging.Enabled)
	v.SetDefault("observe.logging.level", obs.Logging.Level)
}

// Load reads configuration from path, or from config.{yaml,toml,json} in the
// working directory or the user config directory when path is empty. A
// missing file is not an error. Environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "reqcache"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return err
	}

	if c.Cache.DefaultMaxAge < 0 || c.Cache.MaxMaxAge < 0 {
		return fmt.Errorf("%w: max ages must not be negative", ErrInvalidCache)
	}
	if c.Cache.MaxMaxAge > 0 && c.Cache.DefaultMaxAge > c.Cache.MaxMaxAge {
		return fmt.Errorf("%w: default_max_age %v exceeds max_max_age %v",
			ErrInvalidCache, c.Cache.DefaultMaxAge, c.Cache.MaxMaxAge)
	}

	return c.Observe.Validate()
}
