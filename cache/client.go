package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/reqcache/observe"
	"github.com/jonwraymond/reqcache/store"
)

// Config configures a Client.
type Config struct {
	// Store persists records. Required.
	Store store.Store

	// Identity reports the current user for identity-bound keys.
	Identity IdentityProvider

	// Keyer derives final keys, NewIdentityKeyer(Identity) by default.
	Keyer Keyer

	// Policy configures staleness, DefaultPolicy by default.
	Policy Policy

	// SerializeKeys runs calls for the same final key one at a time.
	// Without it, overlapping calls for one key race and the last write wins.
	SerializeKeys bool

	// Logger, Metrics and Tracer default to no-ops.
	Logger  observe.Logger
	Metrics observe.Metrics
	Tracer  observe.Tracer

	// Now returns the current time, time.Now by default.
	Now func() time.Time
}

// Client runs cached requests against one store.
//
// Contract:
// - Concurrency: safe for concurrent use; the store is shared by all calls.
// - Lifecycle: Open before use, Close when done.
type Client struct {
	store  store.Store
	keyer  Keyer
	policy Policy
	locks  *keyLocks
	mw     *observe.Middleware
	now    func() time.Time
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.Store == nil {
		return nil, ErrNilStore
	}

	c := &Client{
		store:  cfg.Store,
		keyer:  cfg.Keyer,
		policy: cfg.Policy,
		mw:     observe.NewMiddleware(cfg.Tracer, cfg.Metrics, cfg.Logger),
		now:    cfg.Now,
	}
	if c.keyer == nil {
		c.keyer = NewIdentityKeyer(cfg.Identity)
	}
	if c.now == nil {
		c.now = time.Now
	}
	if cfg.SerializeKeys {
		c.locks = &keyLocks{}
	}

	return c, nil
}

// Open opens the underlying store.
func (c *Client) Open(ctx context.Context) error {
	return c.store.Open(ctx)
}

// Close closes the underlying store.
func (c *Client) Close() error {
	return c.store.Close()
}

// Store returns the underlying store.
func (c *Client) Store() store.Store {
	return c.store
}

// Key returns the final storage key for a logical key.
func (c *Client) Key(ctx context.Context, logicalKey string, bindIdentity bool) (string, error) {
	return c.keyer.Key(ctx, logicalKey, bindIdentity)
}

// Remove deletes the record of a logical key.
func (c *Client) Remove(ctx context.Context, logicalKey string, bindIdentity bool) error {
	key, err := c.keyer.Key(ctx, logicalKey, bindIdentity)
	if err != nil {
		return err
	}

	if c.locks != nil {
		defer c.locks.lock(key)()
	}

	if err := c.store.Delete(ctx, key); err != nil {
		c.mw.Logger().WithRequest(observe.RequestMeta{Key: key, Backend: c.store.Name()}).
			Warn(ctx, "failed to remove cache record", observe.F("error", err))
		return err
	}

	return nil
}

// Request describes one cached request.
type Request[T any] struct {
	// Key is the logical cache key.
	Key string

	// BindIdentity scopes the key to the current identity.
	BindIdentity bool

	// Fetch loads fresh data. Without it the call only reads the cache.
	Fetch FetchFunc

	// Decode turns content into T, DecodeJSON[T] by default.
	Decode DecodeFunc[T]

	// OnSuccess receives the cached result (fromCache) and the fresh one.
	OnSuccess func(data T, fromCache bool)

	// OnError receives the failure message when nothing else was delivered.
	OnError func(message string)

	// MaxAge bounds the age of a served cached record. Zero means unset.
	MaxAge time.Duration
}

// Do runs req: it delivers a usable cached result, then fetches, persists and
// delivers the fresh result unless it equals the cached one. A call produces
// one or two OnSuccess deliveries, or exactly one OnError.
//
// The returned error is non-nil only for precondition failures (invalid key,
// unavailable identity); no callback fires in that case.
func Do[T any](ctx context.Context, c *Client, req Request[T]) error {
	key, err := c.keyer.Key(ctx, req.Key, req.BindIdentity)
	if err != nil {
		return err
	}

	if c.locks != nil {
		defer c.locks.lock(key)()
	}

	meta := observe.RequestMeta{
		Key:       key,
		Backend:   c.store.Name(),
		RequestID: uuid.NewString(),
	}

	ctx, span := c.mw.Tracer().StartSpan(ctx, observe.SpanRequest, meta)

	r := &call[T]{
		c:      c,
		req:    req,
		key:    key,
		meta:   meta,
		log:    c.mw.Logger().WithRequest(meta),
		decode: req.Decode,
	}
	if r.decode == nil {
		r.decode = DecodeJSON[T]()
	}

	r.readCache(ctx)
	outcome := r.fetch(ctx)

	c.mw.Tracer().EndSpan(span, outcome)
	return nil
}

// call holds the state of one Do.
type call[T any] struct {
	c      *Client
	req    Request[T]
	decode DecodeFunc[T]
	key    string
	meta   observe.RequestMeta
	log    observe.Logger

	// delivered is set once a cached result reached OnSuccess; cached holds
	// its content for duplicate suppression.
	delivered bool
	cached    Value
}

func (r *call[T]) event(ctx context.Context, ev observe.Event) {
	r.c.mw.Metrics().RecordEvent(ctx, r.meta, ev)
	trace.SpanFromContext(ctx).AddEvent(string(ev))
}

func (r *call[T]) readCache(ctx context.Context) {
	data, ok, err := r.c.store.Get(ctx, r.key)
	if err != nil {
		r.event(ctx, observe.EventStoreReadFailed)
		r.log.Warn(ctx, "cache read failed", observe.F("error", err))
		return
	}
	if !ok {
		r.event(ctx, observe.EventMiss)
		r.log.Debug(ctx, "cache miss")
		return
	}

	rec, err := DecodeRecord(data)
	if err != nil {
		r.event(ctx, observe.EventCorrupt)
		r.discard(ctx, "discarding corrupt cache record", err)
		return
	}

	maxAge := r.c.policy.EffectiveMaxAge(r.req.MaxAge)
	if !Usable(rec, maxAge, r.c.now()) {
		r.event(ctx, observe.EventStale)
		r.discard(ctx, "discarding expired cache record", nil,
			observe.F("age", rec.Age(r.c.now())),
			observe.F("max_age", maxAge))
		return
	}

	value, err := r.decode(rec.Content)
	if err != nil {
		r.event(ctx, observe.EventCorrupt)
		r.discard(ctx, "discarding undecodable cache record", err)
		return
	}

	r.event(ctx, observe.EventHit)
	r.log.Debug(ctx, "cache hit", observe.F("age", rec.Age(r.c.now())))

	r.delivered = true
	r.cached = rec.Content
	r.success(ctx, value, true)
}

// discard deletes the record of the call's key.
func (r *call[T]) discard(ctx context.Context, msg string, cause error, fields ...observe.Field) {
	if cause != nil {
		fields = append(fields, observe.F("error", cause))
	}
	r.log.Debug(ctx, msg, fields...)

	if err := r.c.store.Delete(ctx, r.key); err != nil {
		r.log.Warn(ctx, "failed to delete cache record", observe.F("error", err))
	}
}

func (r *call[T]) fetch(ctx context.Context) error {
	if r.req.Fetch == nil {
		if r.delivered {
			return nil
		}
		return r.fail(ctx, MessageCacheMissing)
	}

	// A non-success envelope is a failed fetch for telemetry too.
	fetch := observe.WrapFetch(r.c.mw, r.meta, func(ctx context.Context) (*Envelope, error) {
		env, err := r.req.Fetch(ctx)
		if err == nil && !env.Succeeded() {
			return env, &RequestError{Message: env.FailureMessage()}
		}
		return env, err
	})

	env, err := fetch(ctx)
	if err != nil {
		return r.fetchFailed(ctx, err.Error())
	}

	value, err := r.decode(env.Content)
	if err != nil {
		return r.fetchFailed(ctx, err.Error())
	}

	r.persist(ctx, env.Content)

	if r.delivered && Equal(r.cached, env.Content) {
		r.event(ctx, observe.EventSuppressed)
		r.log.Debug(ctx, "fresh content equals cached content")
		return nil
	}

	r.success(ctx, value, false)
	return nil
}

// fetchFailed reports a fetch failure unless a cached result was delivered.
func (r *call[T]) fetchFailed(ctx context.Context, msg string) error {
	if r.delivered {
		r.log.Debug(ctx, "fetch failed, cached result already delivered", observe.F("reason", msg))
		return nil
	}
	return r.fail(ctx, msg)
}

// persist writes content as the key's record. Failures are logged only.
func (r *call[T]) persist(ctx context.Context, content Value) {
	data, err := EncodeRecord(NewRecord(r.c.now(), content))
	if err != nil {
		r.event(ctx, observe.EventStoreWriteFailed)
		r.log.Warn(ctx, "failed to encode cache record", observe.F("error", err))
		return
	}

	if err := r.c.store.Put(ctx, r.key, data); err != nil {
		r.event(ctx, observe.EventStoreWriteFailed)
		r.log.Warn(ctx, "failed to write cache record", observe.F("error", err))
	}
}

func (r *call[T]) success(ctx context.Context, value T, fromCache bool) {
	r.event(ctx, observe.EventDelivered)
	if r.req.OnSuccess != nil {
		r.req.OnSuccess(value, fromCache)
	}
}

func (r *call[T]) fail(ctx context.Context, msg string) error {
	r.event(ctx, observe.EventError)
	r.log.Debug(ctx, "request failed", observe.F("reason", msg))
	if r.req.OnError != nil {
		r.req.OnError(msg)
	}
	return &RequestError{Message: msg}
}
