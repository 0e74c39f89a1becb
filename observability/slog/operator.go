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

// Package reactorslog wires a log/slog.Logger into an observable pipeline
// and into the two package-level logging hooks, reactor.OnUnhandledError
// and reactor.OnReadinessWarning.
package reactorslog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flowbase/reactor"
)

func Log[T any](logger *slog.Logger, level slog.Level) func(reactor.Observable[T]) reactor.Observable[T] {
	return reactor.TapWithContext(
		func(ctx context.Context, value T) {
			logger.Log(ctx, level, fmt.Sprintf("reactor.Next: %v", value))
		},
		func(ctx context.Context, err error) {
			logger.Log(ctx, level, fmt.Sprintf("reactor.Error: %s", err.Error()))
		},
		func(ctx context.Context) {
			logger.Log(ctx, level, "reactor.Complete")
		},
	)
}

func LogWithNotification[T any](logger *slog.Logger, level slog.Level) func(reactor.Observable[T]) reactor.Observable[T] {
	return reactor.TapWithContext(
		func(ctx context.Context, value T) {
			logger.LogAttrs(ctx, level, "reactor.Next", slog.Any("value", value))
		},
		func(ctx context.Context, err error) {
			logger.LogAttrs(ctx, level, "reactor.Error", slog.Any("error", err))
		},
		func(ctx context.Context) {
			logger.LogAttrs(ctx, level, "reactor.Complete")
		},
	)
}

// OnUnhandledError returns a reactor.OnUnhandledError-compatible hook.
func OnUnhandledError(logger *slog.Logger) func(ctx context.Context, err error) {
	return func(ctx context.Context, err error) {
		logger.ErrorContext(ctx, "reactor: unhandled error", "error", err)
	}
}

// OnReadinessWarning returns a reactor.OnReadinessWarning-compatible hook.
func OnReadinessWarning(logger *slog.Logger) func(ctx context.Context, collection, operation, message string) {
	return func(ctx context.Context, collection, operation, message string) {
		logger.WarnContext(ctx, message, "collection", collection, "operation", operation)
	}
}
