package observe

import (
	"context"
	"time"

	"github.com/bool64/stats"
)

// Stats metric names.
const (
	MetricPrefix      = "reqcache_"
	MetricFetch       = "reqcache_fetch"
	MetricFetchFailed = "reqcache_fetch_failed"
	MetricFetchMs     = "reqcache_fetch_ms"
)

type statsMetrics struct {
	tracker stats.Tracker
}

// NewStatsMetrics reports metrics to a github.com/bool64/stats tracker.
// Events are counted as "reqcache_<event>".
func NewStatsMetrics(tracker stats.Tracker) Metrics {
	if tracker == nil {
		return NopMetrics()
	}
	return &statsMetrics{tracker: tracker}
}

func (s *statsMetrics) RecordEvent(ctx context.Context, meta RequestMeta, event Event) {
	s.tracker.Add(ctx, MetricPrefix+string(event), 1, "backend", meta.Backend)
}

func (s *statsMetrics) RecordFetch(ctx context.Context, meta RequestMeta, duration time.Duration, err error) {
	s.tracker.Add(ctx, MetricFetch, 1, "backend", meta.Backend)
	if err != nil {
		s.tracker.Add(ctx, MetricFetchFailed, 1, "backend", meta.Backend)
	}
	s.tracker.Add(ctx, MetricFetchMs, float64(duration.Milliseconds()), "backend", meta.Backend)
}

// MultiMetrics fans out to several Metrics.
func MultiMetrics(ms ...Metrics) Metrics {
	return multiMetrics(ms)
}

type multiMetrics []Metrics

func (mm multiMetrics) RecordEvent(ctx context.Context, meta RequestMeta, event Event) {
	for _, m := range mm {
		m.RecordEvent(ctx, meta, event)
	}
}

func (mm multiMetrics) RecordFetch(ctx context.Context, meta RequestMeta, duration time.Duration, err error) {
	for _, m := range mm {
		m.RecordFetch(ctx, meta, duration, err)
	}
}
