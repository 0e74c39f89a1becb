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

package reactortestify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowbase/reactor"
)

func TestExpectNextSeqThenComplete(t *testing.T) {
	t.Parallel()

	New[int](assert.New(t)).
		Source(reactor.Just(1, 2, 3)).
		ExpectNextSeq(1, 2, 3).
		ExpectComplete().
		Verify()
}

func TestExpectError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	New[int](assert.New(t)).
		Source(reactor.Throw[int](boom)).
		ExpectError(boom).
		Verify()
}
