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

// Package reactortestify implements testing.AssertSpec against a
// *assert.Assertions instead of a *testing.T, for suites built around
// testify's assertion object rather than the bare standard-library type.
package reactortestify

import (
	"context"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/flowbase/reactor"
	"github.com/flowbase/reactor/testing"
)

type testifySpec[T any] struct {
	is         *assert.Assertions
	assertions []testifyAssertion[T]
	source     reactor.Observable[T]
}

type testifyAssertion[T any] struct {
	notification reactor.Notification[T]
	msgAndArgs   []any
}

// New creates an AssertSpec backed by a testify *assert.Assertions.
//
// Inspired by Flux.
func New[T any](is *assert.Assertions) testing.AssertSpec[T] {
	return &testifySpec[T]{is: is}
}

func (t *testifySpec[T]) popAssertion() (testifyAssertion[T], bool) {
	if len(t.assertions) == 0 {
		return testifyAssertion[T]{}, false
	}

	assertion := t.assertions[0]
	t.assertions = t.assertions[1:]

	return assertion, true
}

func (t *testifySpec[T]) hasErrorOrCompletionNotification() bool {
	_, ok := lo.Find(t.assertions, func(assertion testifyAssertion[T]) bool {
		return assertion.notification.Kind == reactor.KindError || assertion.notification.Kind == reactor.KindComplete
	})

	return ok
}

func (t *testifySpec[T]) Source(source reactor.Observable[T]) testing.AssertSpec[T] {
	t.source = source
	return t
}

func (t *testifySpec[T]) ExpectNext(value T, msgAndArgs ...any) testing.AssertSpec[T] {
	t.assertions = append(t.assertions, testifyAssertion[T]{
		notification: reactor.NewNotificationNext(value),
		msgAndArgs:   msgAndArgs,
	})

	return t
}

func (t *testifySpec[T]) ExpectNextSeq(values ...T) testing.AssertSpec[T] {
	for i := range values {
		t.assertions = append(t.assertions, testifyAssertion[T]{
			notification: reactor.NewNotificationNext(values[i]),
			msgAndArgs:   []any{"expected '%v' value", (any)(values[i])},
		})
	}

	return t
}

func (t *testifySpec[T]) ExpectError(err error, msgAndArgs ...any) testing.AssertSpec[T] {
	if t.hasErrorOrCompletionNotification() {
		t.is.Fail("cannot have multiple error or completion notifications")
	}

	t.assertions = append(t.assertions, testifyAssertion[T]{
		notification: reactor.NewNotificationError[T](err),
		msgAndArgs:   msgAndArgs,
	})

	return t
}

func (t *testifySpec[T]) ExpectComplete(msgAndArgs ...any) testing.AssertSpec[T] {
	if t.hasErrorOrCompletionNotification() {
		t.is.Fail("cannot have multiple error or completion notifications")
	}

	t.assertions = append(t.assertions, testifyAssertion[T]{
		notification: reactor.NewNotificationComplete[T](),
		msgAndArgs:   msgAndArgs,
	})

	return t
}

func (t *testifySpec[T]) Verify() {
	t.VerifyWithContext(context.Background())
}

func (t *testifySpec[T]) VerifyWithContext(ctx context.Context) {
	t.source.SubscribeWithContext(
		ctx,
		reactor.NewObserverWithContext(
			func(ctx context.Context, value T) {
				assertion, ok := t.popAssertion()

				ok = ok && t.is.Equal(reactor.KindNext, assertion.notification.Kind, "expected '%s' notification, got 'Next'", assertion.notification.Kind)
				ok = ok && t.is.Equal(assertion.notification.Value, value, assertion.msgAndArgs...)
				_ = ok
			},
			func(ctx context.Context, err error) {
				assertion, ok := t.popAssertion()

				ok = ok && t.is.Equal(reactor.KindError, assertion.notification.Kind, "expected '%s' notification, got 'Error'", assertion.notification.Kind)
				ok = ok && t.is.Equal(assertion.notification.Err, err, assertion.msgAndArgs...)
				_ = ok
			},
			func(ctx context.Context) {
				assertion, ok := t.popAssertion()

				ok = ok && t.is.Equal(reactor.KindComplete, assertion.notification.Kind, "expected '%s' notification, got 'Complete'", assertion.notification.Kind)
				_ = ok
			},
		),
	)
}
