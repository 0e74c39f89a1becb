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

func TestOperatorFilter(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	even := func(v int) bool { return v%2 == 0 }

	values, err := Collect(Filter(even)(Just(1, 2, 3, 4, 5)))
	is.Equal([]int{2, 4}, values)
	is.NoError(err)

	values, err = Collect(Filter(even)(Empty[int]()))
	is.Equal([]int{}, values)
	is.NoError(err)
}

func TestOperatorTapOnError(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	var captured error

	_, err := Collect(
		Pipe1(
			Throw[int](assert.AnError),
			TapOnError[int](func(e error) { captured = e }),
		),
	)

	is.ErrorIs(err, assert.AnError)
	is.ErrorIs(captured, assert.AnError)
}
