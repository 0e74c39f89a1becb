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

import "context"

// Filter emits only the items from an Observable that pass predicate.
func Filter[T any](predicate func(item T) bool) func(Observable[T]) Observable[T] {
	return FilterWithContext(func(ctx context.Context, v T) (context.Context, bool) {
		return ctx, predicate(v)
	})
}

// FilterWithContext is the context-propagating variant of Filter.
func FilterWithContext[T any](predicate func(ctx context.Context, item T) (context.Context, bool)) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return newUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			sub := source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						ctx, ok := predicate(ctx, value)
						if ok {
							destination.NextWithContext(ctx, value)
						}
					},
					destination.ErrorWithContext,
					destination.CompleteWithContext,
				),
			)

			return sub.Unsubscribe
		})
	}
}

// TakeWhile emits items emitted by an Observable so long as predicate holds.
// On the first item for which predicate is false, it unsubscribes from the
// source and completes: that subscription never emits again, even if a
// later source value would have passed predicate.
func TakeWhile[T any](predicate func(item T) bool) func(Observable[T]) Observable[T] {
	return TakeWhileWithContext(func(ctx context.Context, v T) (context.Context, bool) {
		return ctx, predicate(v)
	})
}

// TakeWhileWithContext is the context-propagating variant of TakeWhile.
func TakeWhileWithContext[T any](predicate func(ctx context.Context, item T) (context.Context, bool)) func(Observable[T]) Observable[T] {
	return func(source Observable[T]) Observable[T] {
		return newUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[T]) Teardown {
			skipping := false

			var sub Subscription

			sub = source.SubscribeWithContext(
				subscriberCtx,
				NewObserverWithContext(
					func(ctx context.Context, value T) {
						if skipping {
							return
						}

						if currentCtx, ok := predicate(ctx, value); ok {
							destination.NextWithContext(currentCtx, value)
						} else {
							skipping = true
							destination.CompleteWithContext(currentCtx)

							if sub != nil {
								sub.Unsubscribe()
							}
						}
					},
					func(ctx context.Context, err error) {
						if !skipping {
							destination.ErrorWithContext(ctx, err)
						}
					},
					func(ctx context.Context) {
						if !skipping {
							destination.CompleteWithContext(ctx)
						}
					},
				),
			)

			return sub.Unsubscribe
		})
	}
}
