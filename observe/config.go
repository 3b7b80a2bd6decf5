package observe

import (
	"fmt"
	"slices"

	"github.com/jonwraymond/reqcache/observe/exporters"
)

// Config selects exporters and the log level.
type Config struct {
	ServiceName string        `mapstructure:"service_name"`
	Version     string        `mapstructure:"version"`
	Tracing     TracingConfig `mapstructure:"tracing"`
	Metrics     MetricsConfig `mapstructure:"metrics"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

type TracingConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Exporter  string  `mapstructure:"exporter"`
	SamplePct float64 `mapstructure:"sample_pct"` // fraction of traces kept, 0..1
}

type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Exporter string `mapstructure:"exporter"`
}

type LoggingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
}

// DefaultConfig logs at info and exports nothing.
func DefaultConfig() Config {
	return Config{
		ServiceName: "reqcache",
		Tracing:     TracingConfig{Exporter: exporters.None, SamplePct: 1},
		Metrics:     MetricsConfig{Exporter: exporters.None},
		Logging:     LoggingConfig{Enabled: true, Level: LevelInfo.String()},
	}
}

// LogLevels lists the accepted logging.level values. Empty means info.
var LogLevels = []string{"debug", "info", "warn", "error", ""}

// Validate checks the enabled sections only.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return ErrMissingServiceName
	}

	if t := c.Tracing; t.Enabled {
		if !slices.Contains(exporters.TracingExporters, t.Exporter) {
			return fmt.Errorf("%w %q, want one of %q", ErrInvalidTracingExporter, t.Exporter, exporters.TracingExporters)
		}
		if t.SamplePct < 0 || t.SamplePct > 1 {
			return fmt.Errorf("%w, got %v", ErrInvalidSamplePct, t.SamplePct)
		}
	}

	if m := c.Metrics; m.Enabled && !slices.Contains(exporters.MetricsExporters, m.Exporter) {
		return fmt.Errorf("%w %q, want one of %q", ErrInvalidMetricsExporter, m.Exporter, exporters.MetricsExporters)
	}

	if l := c.Logging; l.Enabled && !slices.Contains(LogLevels, l.Level) {
		return fmt.Errorf("%w %q", ErrInvalidLogLevel, l.Level)
	}

	return nil
}
