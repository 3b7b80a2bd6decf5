package health

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status ranks a check outcome. Larger is worse, so the status of a set of
// checks is the maximum of its members.
type Status int

const (
	StatusHealthy Status = iota
	StatusDegraded
	StatusUnhealthy
)

var statusNames = [...]string{"healthy", "degraded", "unhealthy"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// MarshalText writes the status name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of one check.
type Result struct {
	Status  Status
	Message string

	// Details carries checker specific values such as the backend name.
	Details map[string]any

	Duration  time.Duration
	Timestamp time.Time

	// Error is set for unhealthy results.
	Error error
}

func newResult(status Status, message string, err error) Result {
	return Result{Status: status, Message: message, Error: err, Timestamp: time.Now()}
}

// Healthy reports a usable component.
func Healthy(message string) Result { return newResult(StatusHealthy, message, nil) }

// Degraded reports a usable but impaired component.
func Degraded(message string) Result { return newResult(StatusDegraded, message, nil) }

// Unhealthy reports an unusable component.
func Unhealthy(message string, err error) Result { return newResult(StatusUnhealthy, message, err) }

// WithDetails returns r with details set.
func (r Result) WithDetails(details map[string]any) Result {
	r.Details = details
	return r
}

// WithDuration returns r with the check duration set.
func (r Result) WithDuration(d time.Duration) Result {
	r.Duration = d
	return r
}

// MarshalJSON writes r with the duration in milliseconds and the error as
// text.
func (r Result) MarshalJSON() ([]byte, error) {
	out := struct {
		Status     Status         `json:"status"`
		Message    string         `json:"message,omitempty"`
		Details    map[string]any `json:"details,omitempty"`
		DurationMS int64          `json:"duration_ms"`
		CheckedAt  time.Time      `json:"checked_at"`
		Error      string         `json:"error,omitempty"`
	}{
		Status:     r.Status,
		Message:    r.Message,
		Details:    r.Details,
		DurationMS: r.Duration.Milliseconds(),
		CheckedAt:  r.Timestamp,
	}
	if r.Error != nil {
		out.Error = r.Error.Error()
	}
	return json.Marshal(out)
}

// Checker checks one component.
//
// Contract:
// - Concurrency: Check may be called concurrently with other checkers.
// - Context: Check must honor cancellation and report it as unhealthy.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc returns a Checker called name that runs fn.
func NewCheckerFunc(name string, fn func(context.Context) Result) *CheckerFunc {
	return &CheckerFunc{name: name, fn: fn}
}

func (f *CheckerFunc) Name() string { return f.name }

func (f *CheckerFunc) Check(ctx context.Context) Result { return f.fn(ctx) }

// Report holds the results of a set of checks.
type Report struct {
	Status Status            `json:"status"`
	Checks map[string]Result `json:"checks"`
}

// Err returns ErrNoCheckers for an empty report and ErrCheckFailed when any
// check is unhealthy.
func (r Report) Err() error {
	switch {
	case len(r.Checks) == 0:
		return ErrNoCheckers
	case r.Status == StatusUnhealthy:
		return ErrCheckFailed
	default:
		return nil
	}
}

// Run runs the checkers concurrently and folds their results into a report.
// An empty report is unhealthy.
func Run(ctx context.Context, checkers ...Checker) Report {
	report := Report{Checks: make(map[string]Result, len(checkers))}
	if len(checkers) == 0 {
		report.Status = StatusUnhealthy
		return report
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, c := range checkers {
		g.Go(func() error {
			res := c.Check(ctx)

			mu.Lock()
			report.Checks[c.Name()] = res
			report.Status = max(report.Status, res.Status)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return report
}
