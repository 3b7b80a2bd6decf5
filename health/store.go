package health

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/reqcache/store"
)

// StoreCheckerConfig configures a StoreChecker.
type StoreCheckerConfig struct {
	// SlowThreshold marks the store degraded when the round trip takes longer.
	// Default: 500ms
	SlowThreshold time.Duration

	// KeyPrefix prefixes the sample key. Default: "__reqcache_health_"
	KeyPrefix string
}

// StoreChecker checks a store with a write, a read and a delete.
type StoreChecker struct {
	store  store.Store
	config StoreCheckerConfig
}

// NewStoreChecker creates a checker for st. The store must be open.
func NewStoreChecker(st store.Store, config StoreCheckerConfig) *StoreChecker {
	if config.SlowThreshold <= 0 {
		config.SlowThreshold = 500 * time.Millisecond
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "__reqcache_health_"
	}
	return &StoreChecker{store: st, config: config}
}

// Name returns "store:<backend>".
func (c *StoreChecker) Name() string {
	return "store:" + c.store.Name()
}

// Check writes a sample record, reads it back and deletes it.
func (c *StoreChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	start := time.Now()
	key := c.config.KeyPrefix + uuid.NewString()
	sample := []byte(`{"timestamp":` + strconv.FormatInt(start.UnixMilli(), 10) + `,"content":null}`)

	details := map[string]any{
		"backend": c.store.Name(),
	}

	if err := c.roundTrip(ctx, key, sample); err != nil {
		return Unhealthy("store check failed", err).
			WithDetails(details).
			WithDuration(time.Since(start))
	}

	elapsed := time.Since(start)
	details["latency_ms"] = elapsed.Milliseconds()

	if elapsed > c.config.SlowThreshold {
		return Degraded(fmt.Sprintf("store check took %v", elapsed)).
			WithDetails(details).
			WithDuration(elapsed)
	}

	return Healthy("store is reachable").
		WithDetails(details).
		WithDuration(elapsed)
}

func (c *StoreChecker) roundTrip(ctx context.Context, key string, sample []byte) error {
	if err := c.store.Put(ctx, key, sample); err != nil {
		return err
	}

	got, ok, err := c.store.Get(ctx, key)
	if err != nil {
		_ = c.store.Delete(ctx, key)
		return err
	}
	if !ok || !bytes.Equal(got, sample) {
		_ = c.store.Delete(ctx, key)
		return ErrRoundTripMismatch
	}

	return c.store.Delete(ctx, key)
}

// Ensure StoreChecker implements Checker
var _ Checker = (*StoreChecker)(nil)
