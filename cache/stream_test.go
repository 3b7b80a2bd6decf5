package cache

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect[T any](seq iter.Seq2[Result[T], error]) ([]Result[T], []error) {
	var (
		results []Result[T]
		errs    []error
	)
	for res, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

func TestStream_CachedThenFresh(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "profile", time.Minute, `{"name":"Al"}`)

	seq := Stream(context.Background(), f.client, Request[profile]{
		Key:   "profile",
		Fetch: fetchJSON(t, `{"name":"Bo"}`, nil),
	})

	results, errs := collect(seq)
	assert.Empty(t, errs)
	assert.Equal(t, []Result[profile]{
		{Data: profile{Name: "Al"}, FromCache: true},
		{Data: profile{Name: "Bo"}, FromCache: false},
	}, results)
}

func TestStream_TerminalRequestError(t *testing.T) {
	f := newFixture(t, nil)

	seq := Stream(context.Background(), f.client, Request[profile]{
		Key:   "profile",
		Fetch: fetchErr(errors.New("connection refused")),
	})

	results, errs := collect(seq)
	assert.Empty(t, results)
	require.Len(t, errs, 1)

	var reqErr *RequestError
	require.ErrorAs(t, errs[0], &reqErr)
	assert.Equal(t, "connection refused", reqErr.Message)
}

func TestStream_PreconditionError(t *testing.T) {
	f := newFixture(t, nil)

	seq := Stream(context.Background(), f.client, Request[profile]{Key: "profile", BindIdentity: true})

	results, errs := collect(seq)
	assert.Empty(t, results)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrIdentityUnavailable)
}

func TestStream_IsLazy(t *testing.T) {
	f := newFixture(t, nil)
	calls := 0

	seq := Stream(context.Background(), f.client, Request[profile]{
		Key:   "profile",
		Fetch: fetchJSON(t, `{"name":"Al"}`, &calls),
	})
	assert.Zero(t, calls, "nothing runs before iteration")

	results, _ := collect(seq)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, calls)
}

func TestStream_NotRestartable(t *testing.T) {
	f := newFixture(t, nil)
	calls := 0

	seq := Stream(context.Background(), f.client, Request[profile]{
		Key:   "profile",
		Fetch: fetchJSON(t, `{"name":"Al"}`, &calls),
	})

	first, _ := collect(seq)
	second, errs := collect(seq)

	assert.Len(t, first, 1)
	assert.Empty(t, second)
	assert.Empty(t, errs)
	assert.Equal(t, 1, calls)
}

func TestStream_BreakStillPersists(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "profile", time.Minute, `{"name":"Al"}`)

	seq := Stream(context.Background(), f.client, Request[profile]{
		Key:   "profile",
		Fetch: fetchJSON(t, `{"name":"Bo"}`, nil),
	})

	seen := 0
	for res, err := range seq {
		require.NoError(t, err)
		assert.True(t, res.FromCache)
		seen++
		break
	}
	assert.Equal(t, 1, seen)

	rec, ok := f.record(t, "profile")
	require.True(t, ok)
	name, _ := rec.Content.Get("name")
	s, _ := name.AsString()
	assert.Equal(t, "Bo", s, "the call completes after the consumer stops")
}

func TestStream_CallbacksStillFire(t *testing.T) {
	f := newFixture(t, nil)

	var r recorder[profile]
	req := r.request("profile", fetchJSON(t, `{"name":"Al"}`, nil))

	results, _ := collect(Stream(context.Background(), f.client, req))
	assert.Len(t, results, 1)
	assert.Len(t, r.successes, 1)
}
