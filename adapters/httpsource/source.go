// Copyright 2025 samber.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://github.com/samber/ro/blob/main/licenses/LICENSE.apache.md
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package reactorhttp implements the fromPromise/fromAsync source adapters
// over a one-shot HTTP fetch: a goroutine runs the request and pushes its
// outcome through the returned Observable exactly once.
package reactorhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/flowbase/reactor"
)

// Promise represents a value that settles exactly once, in the future. fn
// runs once per Observable subscription, started by FromAsync/
// FromAsyncWithError, not by NewPromise itself.
type Promise[T any] struct {
	fn func(ctx context.Context) (T, error)
}

// NewPromise wraps fn as a Promise. fn is not invoked until the returned
// Promise is adapted to an Observable and subscribed.
func NewPromise[T any](fn func(ctx context.Context) (T, error)) *Promise[T] {
	return &Promise[T]{fn: fn}
}

// FromAsync adapts a Promise to an Observable that emits nothing until fn
// settles: on fulfill it emits the value once and completes; on reject it
// logs the error via reactor.OnUnhandledError and completes without
// emitting, the "silent" variant described for promise adapters. Teardown
// before settlement suppresses the emission entirely.
func FromAsync[T any](p *Promise[T]) reactor.Observable[T] {
	return reactor.NewObservable(func(destination reactor.Observer[T]) reactor.Teardown {
		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			value, err := p.fn(ctx)
			if ctx.Err() != nil {
				return
			}

			if err != nil {
				reactor.OnUnhandledError(ctx, &reactor.AdapterError{Adapter: "http", Err: err})
				destination.CompleteWithContext(ctx)
				return
			}

			destination.NextWithContext(ctx, value)
			destination.CompleteWithContext(ctx)
		}()

		return cancel
	})
}

// FromAsyncWithError is the "with error" variant of FromAsync: a rejection
// is surfaced as an Error notification instead of being logged and
// swallowed.
func FromAsyncWithError[T any](p *Promise[T]) reactor.Observable[T] {
	return reactor.NewObservable(func(destination reactor.Observer[T]) reactor.Teardown {
		ctx, cancel := context.WithCancel(context.Background())

		go func() {
			value, err := p.fn(ctx)
			if ctx.Err() != nil {
				return
			}

			if err != nil {
				destination.ErrorWithContext(ctx, &reactor.AdapterError{Adapter: "http", Err: err})
				return
			}

			destination.NextWithContext(ctx, value)
			destination.CompleteWithContext(ctx)
		}()

		return cancel
	})
}

// FromPromise is an alias for FromAsync kept for readers coming from the
// promise-adapter naming used in §6.
func FromPromise[T any](p *Promise[T]) reactor.Observable[T] {
	return FromAsync(p)
}

// Request wraps an *http.Request as a Promise of its *http.Response. A
// status code >= 400 is not treated as a rejection; callers inspect
// resp.StatusCode themselves. Callers must close resp.Body.
func Request(req *http.Request, client *http.Client) *Promise[*http.Response] {
	if client == nil {
		client = http.DefaultClient
	}

	return NewPromise(func(ctx context.Context) (*http.Response, error) {
		return client.Do(req.WithContext(ctx))
	})
}

// RequestJSON decodes the JSON body of a Request's response into T,
// surfacing a decode failure as an Error notification.
func RequestJSON[T any](req *http.Request, client *http.Client) reactor.Observable[T] {
	return NewAsyncFunc(func(ctx context.Context) (T, error) {
		var zero T

		res, err := Request(req, client).fn(ctx)
		if err != nil {
			return zero, err
		}
		defer res.Body.Close()

		var t T
		if err := json.NewDecoder(res.Body).Decode(&t); err != nil {
			return zero, err
		}

		return t, nil
	})
}

// NewAsyncFunc is a convenience combining NewPromise and FromAsyncWithError
// for the common case of an inline async function.
func NewAsyncFunc[T any](fn func(ctx context.Context) (T, error)) reactor.Observable[T] {
	return FromAsyncWithError(NewPromise(fn))
}

// Memoize adapts a Promise into an Observable that runs fn at most once no
// matter how many times it is subscribed: the first subscription starts fn,
// and every subscriber -- whether it arrives before or after fn settles --
// receives the same resolved value, or the same error, exactly once. This
// matches how a JS-style promise behaves when awaited from multiple places.
//
// Internally this replays the settled outcome through a reactor.AsyncSubject,
// which is built for exactly this "0 or 1 value, then done" shape.
func Memoize[T any](p *Promise[T]) reactor.Observable[T] {
	subject := reactor.NewAsyncSubject[T]()

	var once sync.Once

	return reactor.NewObservable(func(destination reactor.Observer[T]) reactor.Teardown {
		once.Do(func() {
			go func() {
				ctx := context.Background()

				value, err := p.fn(ctx)
				if err != nil {
					subject.ErrorWithContext(ctx, &reactor.AdapterError{Adapter: "http", Err: err})
					return
				}

				subject.NextWithContext(ctx, value)
				subject.CompleteWithContext(ctx)
			}()
		})

		sub := subject.Subscribe(destination)

		return sub.Unsubscribe
	})
}
