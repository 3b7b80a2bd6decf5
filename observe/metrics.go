package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Event is a notable step of a cached request.
type Event string

const (
	EventHit              Event = "hit"
	EventMiss             Event = "miss"
	EventStale            Event = "stale"
	EventCorrupt          Event = "corrupt"
	EventDelivered        Event = "delivered"
	EventSuppressed       Event = "suppressed"
	EventError            Event = "error"
	EventStoreReadFailed  Event = "store_read_failed"
	EventStoreWriteFailed Event = "store_write_failed"
)

// Metrics records request metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordEvent counts one request event.
	RecordEvent(ctx context.Context, meta RequestMeta, event Event)

	// RecordFetch records a fetch with duration and error status.
	RecordFetch(ctx context.Context, meta RequestMeta, duration time.Duration, err error)
}

type metricsImpl struct {
	events       metric.Int64Counter
	fetchCount   metric.Int64Counter
	fetchErrors  metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates OpenTelemetry backed Metrics with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	events, err := meter.Int64Counter(
		"reqcache.events",
		metric.WithDescription("Cached request events by kind"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	fetchCount, err := meter.Int64Counter(
		"reqcache.fetch.total",
		metric.WithDescription("Total number of fetches"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	fetchErrors, err := meter.Int64Counter(
		"reqcache.fetch.errors",
		metric.WithDescription("Total number of failed fetches"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"reqcache.fetch.duration_ms",
		metric.WithDescription("Fetch duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		events:       events,
		fetchCount:   fetchCount,
		fetchErrors:  fetchErrors,
		durationHist: durationHist,
	}, nil
}

// RecordEvent counts a request event. The key is left out of the
// attributes to keep cardinality bounded.
func (m *metricsImpl) RecordEvent(ctx context.Context, meta RequestMeta, event Event) {
	m.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache.backend", meta.Backend),
		attribute.String("cache.event", string(event)),
	))
}

// RecordFetch records metrics for a fetch.
func (m *metricsImpl) RecordFetch(ctx context.Context, meta RequestMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("cache.backend", meta.Backend))

	m.fetchCount.Add(ctx, 1, opt)
	if err != nil {
		m.fetchErrors.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// NopMetrics returns metrics that record nothing.
func NopMetrics() Metrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) RecordEvent(ctx context.Context, meta RequestMeta, event Event) {}

func (noopMetrics) RecordFetch(ctx context.Context, meta RequestMeta, duration time.Duration, err error) {
}
