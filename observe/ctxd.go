package observe

import (
	"context"

	"github.com/bool64/ctxd"
)

// ctxdLogger forwards to a github.com/bool64/ctxd logger.
type ctxdLogger struct {
	l    ctxd.Logger
	base []interface{}
}

// NewCtxdLogger adapts a ctxd.Logger to Logger.
func NewCtxdLogger(l ctxd.Logger) Logger {
	if l == nil {
		return NopLogger()
	}
	return &ctxdLogger{l: l}
}

func (c *ctxdLogger) WithRequest(meta RequestMeta) Logger {
	base := append([]interface{}(nil), c.base...)
	if meta.Key != "" {
		base = append(base, "cache.key", meta.Key)
	}
	if meta.Backend != "" {
		base = append(base, "cache.backend", meta.Backend)
	}
	if meta.RequestID != "" {
		base = append(base, "request_id", meta.RequestID)
	}

	return &ctxdLogger{l: c.l, base: base}
}

func (c *ctxdLogger) Info(ctx context.Context, msg string, fields ...Field) {
	c.l.Info(ctx, msg, c.keysAndValues(fields)...)
}

func (c *ctxdLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	c.l.Warn(ctx, msg, c.keysAndValues(fields)...)
}

func (c *ctxdLogger) Error(ctx context.Context, msg string, fields ...Field) {
	c.l.Error(ctx, msg, c.keysAndValues(fields)...)
}

func (c *ctxdLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	c.l.Debug(ctx, msg, c.keysAndValues(fields)...)
}

func (c *ctxdLogger) keysAndValues(fields []Field) []interface{} {
	kv := make([]interface{}, 0, len(c.base)+2*len(fields))
	kv = append(kv, c.base...)
	for _, f := range fields {
		if isRedactedField(f.Key) {
			kv = append(kv, f.Key, "[REDACTED]")
		} else {
			kv = append(kv, f.Key, f.Value)
		}
	}
	return kv
}
