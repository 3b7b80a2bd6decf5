package cache

import (
	"context"
	"iter"
	"sync/atomic"
)

// Result is one delivery of a streamed request.
type Result[T any] struct {
	Data      T
	FromCache bool
}

// Stream runs req lazily when the returned sequence is ranged over. It yields
// up to two results, a cached one followed by a fresh one, and ends with a
// non-nil error when the request failed: a *RequestError for failures that Do
// reports through OnError, or the precondition error returned by Do.
//
// The sequence runs once; ranging over it again yields nothing. Breaking out
// of the loop stops delivery but the call still completes, fresh content is
// persisted all the same. Callbacks set on req fire as with Do.
func Stream[T any](ctx context.Context, c *Client, req Request[T]) iter.Seq2[Result[T], error] {
	var started atomic.Bool

	return func(yield func(Result[T], error) bool) {
		if !started.CompareAndSwap(false, true) {
			return
		}

		open := true
		emit := func(res Result[T], err error) {
			if open && !yield(res, err) {
				open = false
			}
		}

		onSuccess, onError := req.OnSuccess, req.OnError
		req.OnSuccess = func(data T, fromCache bool) {
			if onSuccess != nil {
				onSuccess(data, fromCache)
			}
			emit(Result[T]{Data: data, FromCache: fromCache}, nil)
		}
		req.OnError = func(msg string) {
			if onError != nil {
				onError(msg)
			}
			emit(Result[T]{}, &RequestError{Message: msg})
		}

		if err := Do(ctx, c, req); err != nil {
			emit(Result[T]{}, err)
		}
	}
}
