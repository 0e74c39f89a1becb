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

package reactor

import (
	"context"
	"time"
)

// Of creates an Observable that emits some values you specify, then completes.
func Of[T any](values ...T) Observable[T] {
	return newUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		for _, v := range values {
			destination.NextWithContext(ctx, v)
		}

		destination.CompleteWithContext(ctx)

		return nil
	})
}

// Just is an alias for Of.
func Just[T any](values ...T) Observable[T] {
	return Of(values...)
}

// Timer creates an Observable that emits a single value after a specified
// duration, then completes. Subscribing blocks the calling goroutine until the
// timer fires or the subscriber's context is done; in the latter case the
// context's error is emitted instead.
func Timer(duration time.Duration) Observable[time.Duration] {
	return newUnsafeObservableWithContext(func(ctx context.Context, destination Observer[time.Duration]) Teardown {
		timer := time.NewTimer(duration)

		select {
		case <-timer.C:
			destination.NextWithContext(ctx, duration)
			destination.CompleteWithContext(ctx)
		case <-ctx.Done():
			if ctx.Err() != nil {
				destination.ErrorWithContext(ctx, ctx.Err())
				break
			}

			timer.Stop()
			destination.CompleteWithContext(ctx)
		}

		return nil
	})
}

// Interval creates an Observable that emits an infinite sequence of ascending
// integers, with a constant interval between them. The first value is not
// emitted immediately, but after the first interval has passed.
func Interval(interval time.Duration) Observable[int64] {
	return NewObservableWithContext(func(ctx context.Context, destination Observer[int64]) Teardown {
		ticker := time.NewTicker(interval)
		done := make(chan struct{})

		go recoverUnhandledError(func() {
			defer destination.CompleteWithContext(ctx)
			value := int64(0)

			for {
				select {
				case <-done:
					return
				case <-ctx.Done():
					return
				case _, ok := <-ticker.C:
					if ok {
						destination.NextWithContext(ctx, value)
						value++
					}
				}
			}
		})

		return func() {
			ticker.Stop()
			close(done)
		}
	})
}

// FromSlice creates an Observable from one or more slices. Values are emitted
// in slice order, then the Observable completes.
func FromSlice[T any](collections ...[]T) Observable[T] {
	return newUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		for _, collection := range collections {
			for _, value := range collection {
				destination.NextWithContext(ctx, value)
			}
		}

		destination.CompleteWithContext(ctx)

		return nil
	})
}

// Empty creates an Observable that emits no values and completes immediately.
func Empty[T any]() Observable[T] {
	return newUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		destination.CompleteWithContext(ctx)

		return nil
	})
}

// Never creates an Observable that emits no values and never completes.
func Never() Observable[struct{}] {
	return newUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[struct{}]) Teardown {
		done := make(chan struct{})

		go func() {
			select {
			case <-subscriberCtx.Done():
				if subscriberCtx.Err() != nil {
					destination.ErrorWithContext(subscriberCtx, subscriberCtx.Err())
					return
				}

				destination.CompleteWithContext(subscriberCtx)
			case <-done:
			}
		}()

		return func() {
			close(done)
		}
	})
}

// Throw creates an Observable that emits an error immediately, without any
// value.
func Throw[T any](err error) Observable[T] {
	// `nil` is a valid value for `err`
	return newUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		destination.ErrorWithContext(ctx, err)

		return nil
	})
}

// Defer waits until an Observer subscribes, then calls factory to build the
// Observable for that subscriber. Useful for sources whose behavior depends
// on state that isn't available at creation time (e.g. the adapters in
// adapters/httpsource and adapters/websocket).
func Defer[T any](factory func() Observable[T]) Observable[T] {
	return newUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		sub := factory().SubscribeWithContext(ctx, destination)

		return sub.Unsubscribe
	})
}

// Future waits until an Observer subscribes, then runs factory in its own
// goroutine and emits either its value or its error. Grounds the
// promise-to-observable adapter shape described for fromPromise/fromAsync.
func Future[T any](factory func() (T, error)) Observable[T] {
	return newUnsafeObservableWithContext(func(ctx context.Context, destination Observer[T]) Teardown {
		go func() {
			v, err := factory()
			if err != nil {
				destination.ErrorWithContext(ctx, err)
				return
			}

			destination.NextWithContext(ctx, v)
			destination.CompleteWithContext(ctx)
		}()

		return nil
	})
}

// Merge subscribes to every source Observable concurrently and emits all of
// their values as they arrive, maintaining per-source order. It completes
// once every source has completed.
func Merge[T any](sources ...Observable[T]) Observable[T] {
	return MergeAll[T]()(Just(sources...))
}

// Concat subscribes to each source Observable in turn, only moving to the
// next one after the previous one completes.
func Concat[T any](obs ...Observable[T]) Observable[T] {
	return ConcatAll[T]()(Just(obs...))
}
