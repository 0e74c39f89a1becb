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

package reactorslog

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/flowbase/reactor"
)

// timeFilterWriter strips the time= field slog prepends, so example output
// stays deterministic.
type timeFilterWriter struct {
	w io.Writer
}

func (w *timeFilterWriter) Write(p []byte) (int, error) {
	line := string(p)
	if idx := strings.Index(line, "time="); idx != -1 {
		rest := line[idx:]
		if sp := strings.Index(rest, " "); sp != -1 {
			line = line[:idx] + rest[sp+1:]
		} else {
			line = line[:idx]
		}
	}

	return w.w.Write([]byte(line))
}

func ExampleLog() {
	buff := bufio.NewWriter(os.Stdout)
	logger := slog.New(slog.NewTextHandler(&timeFilterWriter{w: buff}, &slog.HandlerOptions{Level: slog.LevelInfo}))
	defer buff.Flush()

	observable := reactor.Pipe1(
		reactor.Just(1, 2, 3),
		Log[int](logger, slog.LevelInfo),
	)

	sub := observable.Subscribe(reactor.NoopObserver[int]())
	defer sub.Unsubscribe()

	// Output:
	// level=INFO msg="reactor.Next: 1"
	// level=INFO msg="reactor.Next: 2"
	// level=INFO msg="reactor.Next: 3"
	// level=INFO msg=reactor.Complete
}

func ExampleLogWithNotification() {
	buff := bufio.NewWriter(os.Stdout)
	logger := slog.New(slog.NewTextHandler(&timeFilterWriter{w: buff}, &slog.HandlerOptions{Level: slog.LevelDebug}))
	defer buff.Flush()

	observable := reactor.Pipe1(
		reactor.Just("hello", "world"),
		LogWithNotification[string](logger, slog.LevelDebug),
	)

	sub := observable.Subscribe(reactor.NoopObserver[string]())
	defer sub.Unsubscribe()

	// Output:
	// level=DEBUG msg=reactor.Next value=hello
	// level=DEBUG msg=reactor.Next value=world
	// level=DEBUG msg=reactor.Complete
}
