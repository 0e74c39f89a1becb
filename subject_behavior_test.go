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

func TestBehaviorSubjectReplaysCurrentValueToNewSubscriber(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	subject := NewBehaviorSubject(42)

	var firstReceived, secondReceived []int

	sub1 := subject.Subscribe(NewObserver(
		func(v int) { firstReceived = append(firstReceived, v) },
		func(error) {},
		func() {},
	))
	defer sub1.Unsubscribe()

	subject.Next(7)

	sub2 := subject.Subscribe(NewObserver(
		func(v int) { secondReceived = append(secondReceived, v) },
		func(error) {},
		func() {},
	))
	defer sub2.Unsubscribe()

	subject.Next(9)

	is.Equal([]int{42, 7, 9}, firstReceived)
	is.Equal([]int{7, 9}, secondReceived)
}

func TestShareRefCountsSubscriptions(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	subscribeCount := 0

	source := NewObservable(func(observer Observer[int]) Teardown {
		subscribeCount++
		observer.Next(1)

		return nil
	})

	shared := Pipe1(source, Share[int]())

	sub1 := shared.Subscribe(NoopObserver[int]())
	sub2 := shared.Subscribe(NoopObserver[int]())

	is.Equal(1, subscribeCount)

	sub1.Unsubscribe()
	sub2.Unsubscribe()

	_ = shared.Subscribe(NoopObserver[int]())

	is.Equal(2, subscribeCount)
}
