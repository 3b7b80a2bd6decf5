package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/reqcache/cache"
	"github.com/jonwraymond/reqcache/health"
)

const fetchTimeout = 30 * time.Second

// delivery is one output line.
type delivery struct {
	Key       string      `json:"key"`
	FromCache bool        `json:"from_cache"`
	Data      cache.Value `json:"data"`
	Error     string      `json:"error,omitempty"`
}

// printer writes JSON lines, one call at a time.
type printer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newPrinter(w io.Writer) *printer {
	return &printer{enc: json.NewEncoder(w)}
}

func (p *printer) print(v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enc.Encode(v)
}

// stream runs one request and prints every delivery. A failed request is
// printed and returned.
func (a *app) stream(ctx context.Context, out *printer, req cache.Request[cache.Value]) error {
	req.Decode = cache.DecodeValue

	var failed error
	for res, err := range cache.Stream(ctx, a.client, req) {
		line := delivery{Key: req.Key, FromCache: res.FromCache, Data: res.Data}
		if err != nil {
			line.Error = err.Error()
			failed = fmt.Errorf("%s: %w", req.Key, err)
		}
		if err := out.print(line); err != nil {
			return err
		}
	}
	return failed
}

func httpClient() *http.Client {
	return &http.Client{Timeout: fetchTimeout}
}

func cmdGet(ctx context.Context, opts *options, args []string, w io.Writer) (err error) {
	if len(args) != 2 {
		return fmt.Errorf("%w: get <key> <url>", errUsage)
	}

	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(ctx); err == nil {
			err = cerr
		}
	}()

	return a.stream(ctx, newPrinter(w), cache.Request[cache.Value]{
		Key:          args[0],
		BindIdentity: opts.bindIdentity,
		Fetch:        httpFetch(httpClient(), args[1]),
		MaxAge:       opts.maxAge,
	})
}

func cmdGetMany(ctx context.Context, opts *options, args []string, w io.Writer) (err error) {
	if len(args) < 2 {
		return fmt.Errorf("%w: get-many <url> <key>...", errUsage)
	}

	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(ctx); err == nil {
			err = cerr
		}
	}()

	url, keys := args[0], args[1:]
	out := newPrinter(w)
	fetch := httpFetch(httpClient(), url)

	var g errgroup.Group
	if opts.parallel > 0 {
		g.SetLimit(opts.parallel)
	}
	for _, key := range keys {
		g.Go(func() error {
			return a.stream(ctx, out, cache.Request[cache.Value]{Key: key, Fetch: fetch})
		})
	}
	return g.Wait()
}

func cmdRemove(ctx context.Context, opts *options, args []string, _ io.Writer) (err error) {
	if len(args) != 1 {
		return fmt.Errorf("%w: remove <key>", errUsage)
	}

	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(ctx); err == nil {
			err = cerr
		}
	}()

	return a.client.Remove(ctx, args[0], opts.bindIdentity)
}

func cmdHealth(ctx context.Context, opts *options, args []string, w io.Writer) (err error) {
	if len(args) != 0 {
		return fmt.Errorf("%w: health takes no arguments", errUsage)
	}

	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(ctx); err == nil {
			err = cerr
		}
	}()

	report := health.Run(ctx, health.NewStoreChecker(a.client.Store(), health.StoreCheckerConfig{}))
	if err := newPrinter(w).print(report); err != nil {
		return err
	}
	return report.Err()
}
