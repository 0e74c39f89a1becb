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

// Reactive is a mutable, observable cell. It behaves like a BehaviorSubject
// that also exposes its current value synchronously through Get, without
// going through a subscription.
//
// Every callback added through Subscribe is invoked once, synchronously,
// with the value held at subscription time, then again for every
// subsequent Set.
type Reactive[T any] interface {
	Observable[T]

	// Get returns the value currently held by the cell.
	Get() T

	// Set updates the held value and synchronously notifies every current
	// subscriber.
	Set(value T)

	// SetWithContext is the context-propagating variant of Set.
	SetWithContext(ctx context.Context, value T)
}

var _ Reactive[int] = (*reactiveImpl[int])(nil)

// NewReactive creates a Reactive cell holding initial.
func NewReactive[T any](initial T) Reactive[T] {
	return &reactiveImpl[T]{
		subject: NewBehaviorSubject(initial),
		current: initial,
	}
}

type reactiveImpl[T any] struct {
	mu      sync.RWMutex
	current T
	subject Subject[T]
}

// Implements Observable.
func (r *reactiveImpl[T]) Subscribe(destination Observer[T]) Subscription {
	return r.subject.Subscribe(destination)
}

// Implements Observable.
func (r *reactiveImpl[T]) SubscribeWithContext(ctx context.Context, destination Observer[T]) Subscription {
	return r.subject.SubscribeWithContext(ctx, destination)
}

func (r *reactiveImpl[T]) Get() T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.current
}

func (r *reactiveImpl[T]) Set(value T) {
	r.SetWithContext(context.Background(), value)
}

func (r *reactiveImpl[T]) SetWithContext(ctx context.Context, value T) {
	r.mu.Lock()
	r.current = value
	r.mu.Unlock()

	r.subject.NextWithContext(ctx, value)
}

// derivedReactive wraps a Reactive produced by MapReactive or FilterReactive.
// Its upstream subscription is created eagerly, at derivation time, and
// released once the derived cell's subscriber count returns to zero; a
// later subscriber reconnects it on demand.
type derivedReactive[T any] struct {
	*reactiveImpl[T]

	mu       sync.Mutex
	refCount int
	upstream Subscription
	connect  func() Subscription
}

func newDerivedReactive[T any](initial T, connect func() Subscription) *derivedReactive[T] {
	d := &derivedReactive[T]{
		reactiveImpl: &reactiveImpl[T]{
			subject: NewBehaviorSubject(initial),
			current: initial,
		},
		connect: connect,
	}

	d.upstream = connect()

	return d
}

func (d *derivedReactive[T]) Subscribe(destination Observer[T]) Subscription {
	return d.SubscribeWithContext(context.Background(), destination)
}

func (d *derivedReactive[T]) SubscribeWithContext(ctx context.Context, destination Observer[T]) Subscription {
	d.mu.Lock()
	d.refCount++
	if d.upstream == nil {
		d.upstream = d.connect()
	}
	d.mu.Unlock()

	sub := d.reactiveImpl.SubscribeWithContext(ctx, destination)

	sub.Add(func() {
		d.mu.Lock()
		defer d.mu.Unlock()

		d.refCount--
		if d.refCount <= 0 && d.upstream != nil {
			d.upstream.Unsubscribe()
			d.upstream = nil
		}
	})

	return sub
}

// MapReactive derives a new Reactive whose value is fn applied to source's
// current value, kept in sync with every subsequent Set on source. The
// upstream subscription to source is created eagerly and released when the
// derived cell's last subscriber unsubscribes.
func MapReactive[T, R any](source Reactive[T], fn func(T) R) Reactive[R] {
	var derived *derivedReactive[R]

	derived = newDerivedReactive(fn(source.Get()), func() Subscription {
		return source.SubscribeWithContext(context.Background(), NewObserver(
			func(value T) {
				derived.SetWithContext(context.Background(), fn(value))
			},
			func(err error) {},
			func() {},
		))
	})

	return derived
}

// FilterReactive derives a new Reactive that only updates when pred holds
// for the upstream value; updates that do not satisfy pred are dropped and
// the derived cell keeps its previous value. The upstream subscription to
// source is created eagerly and released when the derived cell's last
// subscriber unsubscribes.
func FilterReactive[T any](source Reactive[T], pred func(T) bool) Reactive[T] {
	seed := source.Get()
	if !pred(seed) {
		var zero T
		seed = zero
	}

	var derived *derivedReactive[T]

	derived = newDerivedReactive(seed, func() Subscription {
		return source.SubscribeWithContext(context.Background(), NewObserver(
			func(value T) {
				if pred(value) {
					derived.SetWithContext(context.Background(), value)
				}
			},
			func(err error) {},
			func() {},
		))
	})

	return derived
}

// ScanReactive folds every genuine update of source (every SetWithContext
// call after subscription) into an accumulator seeded with seed, emitting
// seed itself synchronously to every new subscriber.
//
// source's own subscribe-time replay of its current value is treated as
// the baseline that seed already represents: it establishes bookkeeping
// but is not folded through reduce and produces no emission of its own.
// Only values observed strictly after subscription are genuine folds. This
// is what makes scanning a Reactive holding 0 with seed 0, observed through
// Set(1); Set(2); Set(3), produce exactly [0, 1, 3, 6] regardless of the
// Reactive's initial value.
func ScanReactive[T, R any](source Reactive[T], reduce func(accumulator R, item T) R, seed R) Observable[R] {
	return newUnsafeObservableWithContext(func(subscriberCtx context.Context, destination Observer[R]) Teardown {
		accumulator := seed
		seenReplay := false

		destination.NextWithContext(subscriberCtx, seed)

		sub := source.SubscribeWithContext(
			subscriberCtx,
			NewObserverWithContext(
				func(ctx context.Context, value T) {
					if !seenReplay {
						seenReplay = true
						return
					}

					accumulator = reduce(accumulator, value)
					destination.NextWithContext(ctx, accumulator)
				},
				destination.ErrorWithContext,
				destination.CompleteWithContext,
			),
		)

		return sub.Unsubscribe
	})
}
