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

// CatchError intercepts a source error, unsubscribes from the source and
// invokes handler to obtain a fallback Observable whose emissions are then
// forwarded as if they were the source's own. Teardown releases whichever
// of source/fallback is still active.
func CatchError[T any](handler func(err error) Observable[T]) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return newUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			subscriptions := NewSubscription(nil)

			subscriptions.AddUnsubscribable(
				source.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						destination.NextWithContext,
						func(ctx context.Context, err error) {
							subscriptions.AddUnsubscribable(
								handler(err).SubscribeWithContext(ctx, destination),
							)
						},
						destination.CompleteWithContext,
					),
				),
			)

			return subscriptions.Unsubscribe
		})
	}
}

// RetryConfig configures Retry.
type RetryConfig struct {
	// MaxRetries bounds the number of resubscriptions attempted after an
	// error. Zero means unlimited.
	MaxRetries uint64
	// Delay is waited before each resubscription.
	Delay time.Duration
	// ResetOnSuccess resets the retry counter as soon as the source emits a
	// value, so only consecutive failures count toward MaxRetries.
	ResetOnSuccess bool
}

// Retry resubscribes to the source up to maxRetries times after an error;
// a maxRetries of zero retries without limit. A successful resubscription
// resets the counter. Once the retry budget is exhausted, the last error is
// surfaced on the error channel.
func Retry[T any](maxRetries uint64) func(Observable[T]) Observable[T] {
	return RetryWithConfig[T](RetryConfig{
		MaxRetries:     maxRetries,
		ResetOnSuccess: true,
	})
}

// RetryWithConfig is the configurable variant of Retry.
func RetryWithConfig[T any](opts RetryConfig) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return newUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			subscriptions := NewSubscription(nil)
			retries := uint64(0)

			for !subscriptions.IsClosed() {
				select {
				case <-subscriberCtx.Done():
					destination.ErrorWithContext(subscriberCtx, subscriberCtx.Err())
					return subscriptions.Unsubscribe
				default:
				}

				var shouldRetry bool
				var lastErr error

				sub := source.SubscribeWithContext(
					subscriberCtx,
					NewObserverWithContext(
						func(ctx context.Context, value T) {
							if opts.ResetOnSuccess {
								retries = 0
							}
							destination.NextWithContext(ctx, value)
						},
						func(_ context.Context, err error) {
							lastErr = err
							retries++
							shouldRetry = opts.MaxRetries == 0 || retries <= opts.MaxRetries
						},
						destination.CompleteWithContext,
					),
				)

				subscriptions.AddUnsubscribable(sub)
				sub.Wait()

				if lastErr != nil {
					if shouldRetry {
						if opts.Delay > 0 {
							select {
							case <-time.After(opts.Delay):
							case <-subscriberCtx.Done():
								destination.ErrorWithContext(subscriberCtx, subscriberCtx.Err())
								return subscriptions.Unsubscribe
							}
						}
						continue
					}
					destination.ErrorWithContext(subscriberCtx, lastErr)
				}
				break
			}

			return subscriptions.Unsubscribe
		})
	}
}
