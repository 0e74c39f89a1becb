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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOperatorMap(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	double := func(v int) int { return v * 2 }

	values, err := Collect(Map(double)(Just(1, 2, 3)))
	is.Equal([]int{2, 4, 6}, values)
	is.NoError(err)

	values, err = Collect(Map(double)(Throw[int](assert.AnError)))
	is.Equal([]int{}, values)
	is.ErrorIs(err, assert.AnError)
}

func TestOperatorScan(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	sum := func(acc, item int) int { return acc + item }

	values, err := Collect(Scan(sum, 0)(Just(1, 2, 3)))
	is.Equal([]int{1, 3, 6}, values)
	is.NoError(err)
}

func TestOperatorMapErr(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	boom := errors.New("boom")

	project := func(v int) (int, error) {
		if v == 2 {
			return 0, boom
		}

		return v * 10, nil
	}

	values, err := Collect(MapErr(project)(Just(1, 2, 3)))
	is.Equal([]int{10}, values)

	var opErr *OperatorError
	is.ErrorAs(err, &opErr)
	is.Equal("mapErr", opErr.Operator)
	is.ErrorIs(err, boom)
}

func TestOperatorSwitchMap(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	values, err := Collect(
		SwitchMap(func(v int) Observable[int] {
			return Just(v, v*10)
		})(Just(1, 2)),
	)

	is.Equal([]int{1, 10, 2, 20}, values)
	is.NoError(err)
}

// TestOperatorConcatMap proves inners are serialized rather than merged:
// item 1's inner is delayed, so if it ran concurrently with item 2's inner,
// 20 would arrive before 1/10. ConcatMap must wait for the first inner to
// fully complete before starting the second.
func TestOperatorConcatMap(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 300*time.Millisecond)
	is := assert.New(t)

	values, err := Collect(
		ConcatMap(func(v int) Observable[int] {
			inner := Just(v, v*10)
			if v == 1 {
				inner = Pipe1(inner, Delay[int](30*time.Millisecond))
			}

			return inner
		})(Just(1, 2)),
	)

	is.Equal([]int{1, 10, 2, 20}, values)
	is.NoError(err)
}

func TestOperatorConcatMapPropagatesSourceError(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	values, err := Collect(
		ConcatMap(func(v int) Observable[int] {
			return Just(v)
		})(Pipe1(Just(1, 2), ConcatWith[int](Throw[int](assert.AnError)))),
	)

	is.Equal([]int{1, 2}, values)
	is.ErrorIs(err, assert.AnError)
}
