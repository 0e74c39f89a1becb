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

package reactorzerolog

import (
	"bufio"
	"os"

	"github.com/rs/zerolog"

	"github.com/flowbase/reactor"
)

func ExampleLog() {
	buff := bufio.NewWriter(os.Stdout)
	logger := zerolog.New(buff).With().Logger()
	defer buff.Flush()

	observable := reactor.Pipe1(
		reactor.Just(1, 2, 3),
		Log[int](&logger, zerolog.InfoLevel),
	)

	sub := observable.Subscribe(reactor.NoopObserver[int]())
	defer sub.Unsubscribe()

	// Output:
	// {"level":"info","message":"reactor.Next: 1"}
	// {"level":"info","message":"reactor.Next: 2"}
	// {"level":"info","message":"reactor.Next: 3"}
	// {"level":"info","message":"reactor.Complete"}
}

func ExampleLogWithNotification() {
	buff := bufio.NewWriter(os.Stdout)
	logger := zerolog.New(buff).With().Logger()
	defer buff.Flush()

	observable := reactor.Pipe1(
		reactor.Just("a", "b"),
		LogWithNotification[string](&logger, zerolog.InfoLevel),
	)

	sub := observable.Subscribe(reactor.NoopObserver[string]())
	defer sub.Unsubscribe()

	// Output:
	// {"level":"info","value":"a","message":"reactor.Next"}
	// {"level":"info","value":"b","message":"reactor.Next"}
	// {"level":"info","message":"reactor.Complete"}
}
