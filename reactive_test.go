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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReactiveGetSet(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	r := NewReactive(1)
	is.Equal(1, r.Get())

	r.Set(2)
	is.Equal(2, r.Get())
}

func TestReactiveSubscribeReplaysCurrentValue(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	r := NewReactive(10)

	var received []int
	sub := r.Subscribe(NewObserver(
		func(v int) { received = append(received, v) },
		func(error) {},
		func() {},
	))
	defer sub.Unsubscribe()

	r.Set(20)
	r.Set(30)

	is.Equal([]int{10, 20, 30}, received)
}

func TestMapReactive(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	r := NewReactive(1)
	doubled := MapReactive(r, func(v int) int { return v * 2 })

	is.Equal(2, doubled.Get())

	r.Set(5)
	is.Equal(10, doubled.Get())
}

func TestFilterReactive(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	r := NewReactive(1)
	evens := FilterReactive(r, func(v int) bool { return v%2 == 0 })

	is.Equal(0, evens.Get()) // seed didn't satisfy predicate: zero value

	r.Set(3)
	is.Equal(0, evens.Get()) // still dropped

	r.Set(4)
	is.Equal(4, evens.Get())
}

// TestScanReactiveSumsUpdates exercises the documented scan-over-a-Reactive
// scenario: a cell seeded at 0, observed through Set(1); Set(2); Set(3),
// produces exactly [0, 1, 3, 6].
func TestScanReactiveSumsUpdates(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	r := NewReactive(0)

	sums := ScanReactive(r, func(acc, item int) int { return acc + item }, 0)

	var received []int
	sub := sums.Subscribe(NewObserver(
		func(v int) { received = append(received, v) },
		func(error) {},
		func() {},
	))
	defer sub.Unsubscribe()

	r.Set(1)
	r.Set(2)
	r.Set(3)

	is.Equal([]int{0, 1, 3, 6}, received)
}
