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

//nolint:nestif,funlen,gocyclo
package reactor

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/flowbase/reactor/internal/xatomic"
	"github.com/samber/lo"
)

// MergeAll subscribes to an Observable of Observables and, for every inner
// Observable, emits its values as they arrive, maintaining per-inner order.
// It completes once the outer and every inner Observable have completed.
func MergeAll[T any]() func(Observable[Observable[T]]) Observable[T] {
	return func(sources Observable[Observable[T]]) Observable[T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			var parentCtx context.Context
			var parentCtxMu sync.Mutex

			subscriptions := NewSubscription(nil)

			// default value is not 0, because it counts the outer Observable `sources`
			subscriptionsCount := int32(1)

			onDone := func() {
				newCount := atomic.AddInt32(&subscriptionsCount, -1)

				if newCount == 0 {
					parentCtxMu.Lock()
					destination.CompleteWithContext(parentCtx)
					parentCtxMu.Unlock()
				}
			}

			subscriptions.AddUnsubscribable(
				sources.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, source Observable[T]) {
							atomic.AddInt32(&subscriptionsCount, 1)

							subscriptions.AddUnsubscribable(
								source.SubscribeWithContext(
									ctx,
									NewObserverWithContext(
										destination.NextWithContext,
										destination.ErrorWithContext,
										func(_ context.Context) {
											onDone()
										},
									),
								),
							)
						},
						destination.ErrorWithContext,
						func(ctx context.Context) {
							parentCtxMu.Lock()
							parentCtx = ctx
							parentCtxMu.Unlock()

							onDone()
						},
					),
				),
			)

			return subscriptions.Unsubscribe
		})
	}
}

// MergeMap projects each source item into an inner Observable and keeps all
// inner subscriptions concurrently active, emitting their values merged in
// arrival order. Teardown unsubscribes from every still-active inner.
func MergeMap[T, R any](projection func(item T) Observable[R]) func(Observable[T]) Observable[R] {
	return MergeMapWithContext(func(ctx context.Context, item T) (context.Context, Observable[R]) {
		return ctx, projection(item)
	})
}

// MergeMapWithContext is the context-propagating variant of MergeMap.
func MergeMapWithContext[T, R any](projection func(ctx context.Context, item T) (context.Context, Observable[R])) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return MergeAll[R]()(
			NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[Observable[R]]) Teardown {
				sub := source.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, value T) {
							destination.NextWithContext(projection(ctx, value))
						},
						destination.ErrorWithContext,
						destination.CompleteWithContext,
					),
				)

				return sub.Unsubscribe
			}),
		)
	}
}

// CombineLatest combines the source Observable's values with the latest
// value of other. It emits only once both have produced at least one value;
// thereafter every emission from either side produces a fresh pair.
func CombineLatest[A, B any](other Observable[B]) func(Observable[A]) Observable[lo.Tuple2[A, B]] {
	return func(source Observable[A]) Observable[lo.Tuple2[A, B]] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[lo.Tuple2[A, B]]) Teardown {
			var valueA xatomic.Pointer[A]
			var valueB xatomic.Pointer[B]

			// 0: not done, 1: partially done, 2: torn down, 3: error
			var status int32

			onUpdate := func(ctx context.Context, a *A, b *B) {
				if atomic.LoadInt32(&status) < 2 {
					if a == nil {
						a = valueA.Load()
					}

					if b == nil {
						b = valueB.Load()
					}

					if a != nil && b != nil {
						destination.NextWithContext(ctx, lo.T2(*a, *b))
					}
				}
			}

			onCompleted := func(ctx context.Context) {
				if atomic.LoadInt32(&status) == 2 {
					destination.CompleteWithContext(ctx)
				}
			}

			subscriptions := NewSubscription(nil)

			subscriptions.AddUnsubscribable(
				source.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, v A) {
							valueA.Store(&v)
							onUpdate(ctx, &v, nil)
						},
						func(ctx context.Context, err error) {
							atomic.StoreInt32(&status, 3)
							destination.ErrorWithContext(ctx, err)
						},
						func(ctx context.Context) {
							atomic.AddInt32(&status, 1)
							onCompleted(ctx)
						},
					),
				),
			)

			subscriptions.AddUnsubscribable(
				other.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, v B) {
							valueB.Store(&v)
							onUpdate(ctx, nil, &v)
						},
						func(ctx context.Context, err error) {
							atomic.StoreInt32(&status, 3)
							destination.ErrorWithContext(ctx, err)
						},
						func(ctx context.Context) {
							atomic.AddInt32(&status, 1)
							onCompleted(ctx)
						},
					),
				),
			)

			return func() {
				atomic.StoreInt32(&status, 2)
				subscriptions.Unsubscribe()
			}
		})
	}
}

// WithLatestFrom emits only on source emissions, and only once other has
// produced at least one value; the emitted pair is (sourceValue,
// latestOtherValue). Emissions from other never trigger output on their
// own — unlike CombineLatest, which is symmetric in both sources.
func WithLatestFrom[A, B any](other Observable[B]) func(Observable[A]) Observable[lo.Tuple2[A, B]] {
	return func(source Observable[A]) Observable[lo.Tuple2[A, B]] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[lo.Tuple2[A, B]]) Teardown {
			var valueB xatomic.Pointer[B]

			var torn int32

			subscriptions := NewSubscription(nil)

			subscriptions.AddUnsubscribable(
				other.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(_ context.Context, v B) {
							valueB.Store(&v)
						},
						func(ctx context.Context, err error) {
							if atomic.LoadInt32(&torn) == 0 {
								destination.ErrorWithContext(ctx, err)
							}
						},
						func(_ context.Context) {},
					),
				),
			)

			subscriptions.AddUnsubscribable(
				source.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, a A) {
							if b := valueB.Load(); b != nil {
								destination.NextWithContext(ctx, lo.T2(a, *b))
							}
						},
						destination.ErrorWithContext,
						destination.CompleteWithContext,
					),
				),
			)

			return func() {
				atomic.StoreInt32(&torn, 1)
				subscriptions.Unsubscribe()
			}
		})
	}
}

// ConcatWith concatenates the source Observable with others, subscribing to
// each in turn only after the previous one completes.
func ConcatWith[T any](obs ...Observable[T]) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return ConcatAll[T]()(Just(append([]Observable[T]{source}, obs...)...))
	}
}

// ConcatAll subscribes to an Observable of Observables sequentially: the
// next inner Observable is subscribed only once the previous one completes.
func ConcatAll[T any]() func(Observable[Observable[T]]) Observable[T] {
	return func(sources Observable[Observable[T]]) Observable[T] {
		return newUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			subscriptions := NewSubscription(nil)

			subscriptions.AddUnsubscribable(
				sources.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, source Observable[T]) {
							sub := source.SubscribeWithContext(
								ctx,
								NewObserverWithContext(
									destination.NextWithContext,
									func(ctx context.Context, err error) {
										subscriptions.Unsubscribe()
										destination.ErrorWithContext(ctx, err)
									},
									func(_ context.Context) {},
								),
							)

							// `subscriptions` cancels `sub` when it unsubscribes
							// but `sub` cannot unsubscribe `subscriptions`
							subscriptions.AddUnsubscribable(sub)
							sub.Wait()
						},
						func(ctx context.Context, err error) {
							subscriptions.Unsubscribe()
							destination.ErrorWithContext(ctx, err)
						},
						destination.CompleteWithContext,
					),
				),
			)

			return subscriptions.Unsubscribe
		})
	}
}

// ConcatMap projects each source item into an inner Observable and queues
// them: only one inner is ever active, and the next queued inner is not
// subscribed until the current one completes. Unlike SwitchMap, no inner is
// ever abandoned early; unlike MergeMap, inners never run concurrently.
func ConcatMap[T, R any](project func(item T) Observable[R]) func(Observable[T]) Observable[R] {
	return ConcatMapWithContext(func(ctx context.Context, v T) (context.Context, Observable[R]) {
		return ctx, project(v)
	})
}

// ConcatMapWithContext is the context-propagating variant of ConcatMap.
func ConcatMapWithContext[T, R any](project func(ctx context.Context, item T) (context.Context, Observable[R])) func(Observable[T]) Observable[R] {
	return func(source Observable[T]) Observable[R] {
		return ConcatAll[R]()(
			newUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[Observable[R]]) Teardown {
				sub := source.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, value T) {
							innerCtx, inner := project(ctx, value)
							destination.NextWithContext(innerCtx, inner)
						},
						destination.ErrorWithContext,
						destination.CompleteWithContext,
					),
				)

				return sub.Unsubscribe
			}),
		)
	}
}

// StartWith emits prefixes, in order, before forwarding the source's own
// emissions. When source is itself a BehaviorSubject-style observable that
// replays its current value at subscribe, both emissions are seen by the
// downstream subscriber — prefixes first, then the source's replay.
func StartWith[T any](prefixes ...T) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return newUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			for i := range prefixes {
				destination.NextWithContext(subscriberCtx, prefixes[i])
			}

			sub := source.SubscribeWithContext(subscriberCtx, destination)

			return sub.Unsubscribe
		})
	}
}

// Pairwise emits [previous, current] for every source value from the second
// one onward; the first value is buffered but not emitted on its own.
func Pairwise[T any]() func(Observable[T]) Observable[[]T] {
	return func(source Observable[T]) Observable[[]T] {
		return newUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[[]T]) Teardown {
			count := int64(0)

			var last T

			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						if count > 0 {
							destination.NextWithContext(ctx, []T{last, value})
						}

						count++
						last = value
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

type zipDestination interface {
	ErrorWithContext(context.Context, error)
	CompleteWithContext(context.Context)
}

func zipInnerSubscription[T any](subscriberCtx context.Context, obs Observable[T], mu *sync.Mutex, values *[]*T, completed *bool, onUpdate func(context.Context), destination zipDestination, subscriptions Subscription) {
	subscriptions.AddUnsubscribable(
		obs.SubscribeWithContext(
			subscriberCtx,
			NewObserverWithContext(
				func(ctx context.Context, v T) {
					mu.Lock()
					*values = append(*values, &v)
					mu.Unlock()

					onUpdate(ctx)
				},
				func(ctx context.Context, err error) {
					mu.Lock()
					*completed = true
					mu.Unlock()

					destination.ErrorWithContext(ctx, err)
					subscriptions.Unsubscribe()
				},
				func(ctx context.Context) {
					mu.Lock()
					*completed = true

					if len(*values) == 0 {
						mu.Unlock()
						destination.CompleteWithContext(ctx)
					} else {
						mu.Unlock()
					}

					subscriptions.Unsubscribe()
				},
			),
		),
	)
}

// Zip maintains one FIFO buffer per source; whenever both buffers are
// non-empty it shifts one value from each and emits the pair. It completes
// once either source has completed and its buffer has drained.
func Zip[A, B any](other Observable[B]) func(Observable[A]) Observable[lo.Tuple2[A, B]] {
	return func(source Observable[A]) Observable[lo.Tuple2[A, B]] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[lo.Tuple2[A, B]]) Teardown {
			var mu sync.Mutex

			var valueA []*A
			var valueB []*B

			var completedA bool
			var completedB bool

			onUpdate := func(ctx context.Context) {
				mu.Lock()

				if len(valueA) > 0 && len(valueB) > 0 {
					a := valueA[0]
					b := valueB[0]
					valueA = valueA[1:]
					valueB = valueB[1:]

					mu.Unlock()

					destination.NextWithContext(ctx, lo.T2(*a, *b))

					mu.Lock()

					if (completedA && len(valueA) == 0) ||
						(completedB && len(valueB) == 0) {
						destination.CompleteWithContext(ctx)
					}
				}

				mu.Unlock()
			}

			subscriptions := NewSubscription(nil)
			zipInnerSubscription(subscriberCtx, source, &mu, &valueA, &completedA, onUpdate, destination, subscriptions)
			zipInnerSubscription(subscriberCtx, other, &mu, &valueB, &completedB, onUpdate, destination, subscriptions)

			return func() {
				subscriptions.Unsubscribe()

				mu.Lock()
				completedA = true
				completedB = true
				valueA = nil
				valueB = nil
				mu.Unlock()
			}
		})
	}
}
