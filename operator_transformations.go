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
	"sync"
)

// Map applies project to each item emitted by an Observable and emits the result.
func Map[T, R any](project func(item T) R) func(Observable[T]) Observable[R] {
	return MapWithContext(func(ctx context.Context, v T) (context.Context, R) {
		return ctx, project(v)
	})
}

// MapWithContext is the context-propagating variant of Map.
func MapWithContext[T, R any](project func(ctx context.Context, item T) (context.Context, R)) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return newUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[R]) Teardown {
			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						newCtx, result := project(ctx, value)
						destination.NextWithContext(newCtx, result)
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// MapErr applies project to each item emitted by an Observable. A non-nil
// error raises an OperatorError on the same push instead of emitting a
// value; like any Error notification it ends the subscription, so later
// source items are not forwarded.
func MapErr[T, R any](project func(item T) (R, error)) func(Observable[T]) Observable[R] {
	return MapErrWithContext(func(ctx context.Context, v T) (R, context.Context, error) {
		r, err := project(v)
		return r, ctx, err
	})
}

// MapErrWithContext is the context-propagating variant of MapErr.
func MapErrWithContext[T, R any](project func(ctx context.Context, item T) (R, context.Context, error)) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return newUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[R]) Teardown {
			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						result, newCtx, err := project(ctx, value)
						if err != nil {
							destination.ErrorWithContext(newCtx, &OperatorError{Operator: "mapErr", Err: err})
							return
						}

						destination.NextWithContext(newCtx, result)
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// Scan applies an accumulator function over the source Observable, starting
// from seed, and emits each intermediate accumulator value as it is
// produced. This is the conventional operator-library fold: seed is not
// itself emitted, it is folded into the result of the first source
// emission. ScanReactive (reactive.go) is the variant used over a Reactive
// source, where seed must be emitted synchronously at subscribe time,
// distinct from the source's own current-value replay.
func Scan[T, R any](reduce func(accumulator R, item T) R, seed R) func(Observable[T]) Observable[R] {
	return ScanWithContext(func(ctx context.Context, accumulator R, item T) (context.Context, R) {
		return ctx, reduce(accumulator, item)
	}, seed)
}

// ScanWithContext is the context-propagating variant of Scan.
func ScanWithContext[T, R any](reduce func(ctx context.Context, accumulator R, item T) (context.Context, R), seed R) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return newUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[R]) Teardown {
			accumulator := seed

			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						ctx, accumulator = reduce(ctx, accumulator, value)
						destination.NextWithContext(ctx, accumulator)
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// SwitchMap projects each source item into an inner Observable and keeps at
// most one inner subscription active: a new source emission unsubscribes
// the previous inner (if still running) before subscribing to the new one.
// The resulting Observable completes once the source has completed and the
// last inner it produced has completed.
func SwitchMap[T, R any](project func(item T) Observable[R]) func(Observable[T]) Observable[R] {
	return SwitchMapWithContext(func(ctx context.Context, v T) (context.Context, Observable[R]) {
		return ctx, project(v)
	})
}

// SwitchMapWithContext is the context-propagating variant of SwitchMap.
func SwitchMapWithContext[T, R any](project func(ctx context.Context, item T) (context.Context, Observable[R])) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[R]) Teardown {
			var mu sync.Mutex

			var innerSub Subscription

			sourceDone := false
			innerDone := true
			generation := 0

			complete := func(ctx context.Context) {
				if sourceDone && innerDone {
					destination.CompleteWithContext(ctx)
				}
			}

			outerSub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						mu.Lock()
						generation++
						gen := generation
						prev := innerSub
						innerDone = false
						mu.Unlock()

						if prev != nil {
							prev.Unsubscribe()
						}

						innerCtx, inner := project(ctx, value)

						sub := inner.SubscribeWithContext(
							innerCtx,
							NewObserverWithContext(
								destination.NextWithContext,
								destination.ErrorWithContext,
								func(completeCtx context.Context) {
									mu.Lock()
									current := gen == generation
									if current {
										innerDone = true
									}
									mu.Unlock()

									if current {
										complete(completeCtx)
									}
								},
							),
						)

						mu.Lock()
						innerSub = sub
						mu.Unlock()
					},
					destination.ErrorWithContext,
					func(ctx context.Context) {
						mu.Lock()
						sourceDone = true
						done := innerDone
						mu.Unlock()

						if done {
							complete(ctx)
						}
					},
				),
			)

			return func() {
				outerSub.Unsubscribe()

				mu.Lock()
				prev := innerSub
				mu.Unlock()

				if prev != nil {
					prev.Unsubscribe()
				}
			}
		})
	}
}
