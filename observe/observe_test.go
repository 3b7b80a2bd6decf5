package observe

import (
	"context"
	"errors"
	"testing"
)

func validConfig() Config {
	return Config{
		ServiceName: "reqcache",
		Tracing:     TracingConfig{Exporter: "none", SamplePct: 1},
		Metrics:     MetricsConfig{Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"empty exporters and level", func(c *Config) {
			c.Tracing.Exporter, c.Metrics.Exporter, c.Logging.Level = "", "", ""
		}, nil},
		{"missing service name", func(c *Config) { c.ServiceName = "" }, ErrMissingServiceName},
		{"unknown tracing exporter", func(c *Config) { c.Tracing.Enabled, c.Tracing.Exporter = true, "zipkin" }, ErrInvalidTracingExporter},
		{"sample pct above 1", func(c *Config) { c.Tracing.Enabled, c.Tracing.SamplePct = true, 1.5 }, ErrInvalidSamplePct},
		{"negative sample pct", func(c *Config) { c.Tracing.Enabled, c.Tracing.SamplePct = true, -0.1 }, ErrInvalidSamplePct},
		{"unknown metrics exporter", func(c *Config) { c.Metrics.Enabled, c.Metrics.Exporter = true, "statsd" }, ErrInvalidMetricsExporter},
		{"unknown log level", func(c *Config) { c.Logging.Level = "trace" }, ErrInvalidLogLevel},
		{"disabled sections are not checked", func(c *Config) {
			c.Tracing.Exporter, c.Metrics.Exporter = "zipkin", "statsd"
			c.Logging.Enabled, c.Logging.Level = false, "trace"
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewObserver_Disabled(t *testing.T) {
	obs, err := NewObserver(context.Background(), validConfig())
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	if obs.Tracer() == nil || obs.Meter() == nil || obs.Logger() == nil {
		t.Fatal("observer components must not be nil")
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestNewObserver_Enabled(t *testing.T) {
	cfg := validConfig()
	cfg.Tracing.Enabled = true
	cfg.Metrics.Enabled = true
	cfg.Logging.Enabled = false

	obs, err := NewObserver(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	if _, ok := obs.Logger().(*noopLogger); !ok {
		t.Error("disabled logging should yield a no-op logger")
	}

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver failed: %v", err)
	}
	_, span := mw.Tracer().StartSpan(context.Background(), SpanRequest, RequestMeta{Key: "k"})
	if !span.SpanContext().IsValid() {
		t.Error("expected a recording span with tracing enabled")
	}
	mw.Tracer().EndSpan(span, nil)
	mw.Metrics().RecordEvent(context.Background(), RequestMeta{}, EventHit)

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestNewObserver_InvalidConfig(t *testing.T) {
	cfg := validConfig()
	cfg.ServiceName = ""
	if _, err := NewObserver(context.Background(), cfg); !errors.Is(err, ErrMissingServiceName) {
		t.Fatalf("expected ErrMissingServiceName, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Tracing.Enabled || cfg.Metrics.Enabled {
		t.Error("exporters should be disabled by default")
	}
	if !cfg.Logging.Enabled || cfg.Logging.Level != "info" {
		t.Errorf("expected info logging, got %+v", cfg.Logging)
	}
}

func TestObserver_ShutdownTwice(t *testing.T) {
	cfg := validConfig()
	cfg.Tracing.Enabled = true

	obs, err := NewObserver(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Fatalf("first Shutdown failed: %v", err)
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown failed: %v", err)
	}
}
