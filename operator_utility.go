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
	"time"

	"github.com/samber/lo"
	"github.com/flowbase/reactor/internal/xsync"
)

// Tap performs side effects for notifications from the source Observable
// without modifying the emitted items. A panic inside onNext is recovered and
// turned into an error: onError receives it and it is forwarded downstream as
// an Error notification. A panic inside onError or onComplete is recovered and
// reported through OnUnhandledError. None of these panics reaches the caller
// of the triggering Set.
func Tap[T any](onNext func(value T), onError func(err error), onComplete func()) func(Observable[T]) Observable[T] {
	return TapWithContext(
		func(_ context.Context, value T) { onNext(value) },
		func(_ context.Context, err error) { onError(err) },
		func(_ context.Context) { onComplete() },
	)
}

// TapWithContext is the context-propagating variant of Tap.
func TapWithContext[T any](onNext func(ctx context.Context, value T), onError func(ctx context.Context, err error), onComplete func(ctx context.Context)) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return newUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						onNext(ctx, value)
						destination.NextWithContext(ctx, value)
					},
					func(ctx context.Context, err error) {
						onError(ctx, err)
						destination.ErrorWithContext(ctx, err)
					},
					func(ctx context.Context) {
						onComplete(ctx)
						destination.CompleteWithContext(ctx)
					},
				),
			)

			return sub.Unsubscribe
		})
	}
}

// TapOnError performs a side effect only for the Error notification,
// leaving Next and Complete notifications untouched.
func TapOnError[T any](onError func(err error)) func(Observable[T]) Observable[T] {
	return TapOnErrorWithContext[T](func(_ context.Context, err error) { onError(err) })
}

// TapOnErrorWithContext is the context-propagating variant of TapOnError.
func TapOnErrorWithContext[T any](onError func(ctx context.Context, err error)) func(Observable[T]) Observable[T] {
	return TapWithContext[T](
		func(context.Context, T) {},
		onError,
		func(context.Context) {},
	)
}

// Delay queues each source notification on a timer and re-emits it after
// duration has elapsed. Teardown cancels the pending queue: values already
// queued but not yet due are dropped, never reaching destination.
//
// A double mutex protects ordering: muQueue guards the pending queue so new
// values can be pushed while a previous one is being delivered, muNext
// serializes the actual delivery to destination so that two timers firing
// back to back cannot interleave their calls to Next/Error/Complete.
func Delay[T any](duration time.Duration) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			muQueue := xsync.NewMutexWithSpinlock()
			muNext := sync.Mutex{}
			queue := []lo.Tuple2[context.Context, Notification[T]]{}

			consume := func() {
				muQueue.Lock()

				if len(queue) == 0 {
					muQueue.Unlock()
					return
				}

				first := queue[0]
				queue = queue[1:]

				muNext.Lock()
				muQueue.Unlock()

				_ = processNotificationWithObserverAndContext(first.A, first.B, destination)

				muNext.Unlock()
			}

			produce := func(ctx context.Context, notif Notification[T]) {
				muQueue.Lock()
				queue = append(queue, lo.T2(ctx, notif))
				muQueue.Unlock()

				time.AfterFunc(duration, consume)
			}

			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						produce(ctx, NewNotificationNext(value))
					},
					func(ctx context.Context, err error) {
						produce(ctx, NewNotificationError[T](err))
					},
					func(ctx context.Context) {
						produce(ctx, NewNotificationComplete[T]())
					},
				),
			)

			return func() {
				sub.Unsubscribe()

				muQueue.Lock()
				queue = []lo.Tuple2[context.Context, Notification[T]]{}
				muQueue.Unlock()
			}
		})
	}
}

// Sample holds the most recently emitted source value and, on every
// notifier emission, re-emits it if at least one source value has arrived
// since subscribe. Unlike a throttle, it never clears the held value after
// emitting: an unchanged latest value is emitted again on every subsequent
// tick, it is not deduplicated against the previous tick's output.
func Sample[T, N any](notifier Observable[N]) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return NewObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			var last lo.Tuple2[context.Context, T]

			var hasValue bool

			mu := xsync.NewMutexWithSpinlock()

			subscriptions := NewSubscription(nil)

			subscriptions.AddUnsubscribable(
				source.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, value T) {
							mu.Lock()
							last = lo.T2(ctx, value)
							hasValue = true
							mu.Unlock()
						},
						destination.ErrorWithContext,
						destination.CompleteWithContext,
					),
				),
			)

			subscriptions.AddUnsubscribable(
				notifier.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(_ context.Context, _ N) {
							mu.Lock()
							cOpy := last
							ok := hasValue
							mu.Unlock()

							if ok {
								destination.NextWithContext(cOpy.A, cOpy.B)
							}
						},
						destination.ErrorWithContext,
						destination.CompleteWithContext,
					),
				),
			)

			return subscriptions.Unsubscribe
		})
	}
}
