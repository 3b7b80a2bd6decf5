// Package observe provides observability primitives for cached requests.
//
// It is a pure instrumentation library: no caching, no transport, no I/O
// beyond exporter setup. The cache client consumes its Logger, Metrics and
// Tracer; NewObserver wires them to OpenTelemetry exporters.
package observe
