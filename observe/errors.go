package observe

import "errors"

var (
	ErrMissingServiceName     = errors.New("observe: service name is required")
	ErrInvalidSamplePct       = errors.New("observe: sample_pct must be within [0, 1]")
	ErrInvalidTracingExporter = errors.New("observe: invalid tracing exporter")
	ErrInvalidMetricsExporter = errors.New("observe: invalid metrics exporter")
	ErrInvalidLogLevel        = errors.New("observe: invalid log level")
)

// RedactedFields are log field keys whose values are never written. Cached
// content and identity tokens may carry user data.
var RedactedFields = []string{
	"content",
	"password",
	"secret",
	"token",
	"api_key",
	"credential",
}
