package cache

import "time"

// Policy configures record staleness.
type Policy struct {
	// DefaultMaxAge is used when a request leaves MaxAge unset.
	// If zero, records without a request max age never go stale.
	DefaultMaxAge time.Duration

	// MaxMaxAge is the maximum allowed max age. Request max ages are clamped to this.
	// If zero, no maximum is enforced.
	MaxMaxAge time.Duration
}

// DefaultPolicy returns the default policy: records never go stale unless a
// request sets a max age.
func DefaultPolicy() Policy {
	return Policy{}
}

// EffectiveMaxAge returns the max age to use, applying defaults and clamping.
// A result of zero means unset.
func (p Policy) EffectiveMaxAge(override time.Duration) time.Duration {
	maxAge := override
	if maxAge <= 0 {
		maxAge = p.DefaultMaxAge
	}
	if maxAge <= 0 {
		return 0
	}

	if p.MaxMaxAge > 0 && maxAge > p.MaxMaxAge {
		maxAge = p.MaxMaxAge
	}

	return maxAge
}

// Usable reports whether rec may be served at now under maxAge.
// An unset (zero or negative) maxAge makes every record usable.
func Usable(rec Record, maxAge time.Duration, now time.Time) bool {
	if maxAge <= 0 {
		return true
	}
	return rec.Age(now) <= maxAge
}
