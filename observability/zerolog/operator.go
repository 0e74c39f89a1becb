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

// Package reactorzerolog wires a *zerolog.Logger into an observable
// pipeline (via Log/LogWithNotification) and into the two package-level
// logging hooks, reactor.OnUnhandledError and reactor.OnReadinessWarning.
package reactorzerolog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/flowbase/reactor"
)

func Log[T any](logger *zerolog.Logger, level zerolog.Level) func(reactor.Observable[T]) reactor.Observable[T] {
	return reactor.TapWithContext(
		func(ctx context.Context, value T) {
			logger.WithLevel(level).Msgf("reactor.Next: %v", value)
		},
		func(ctx context.Context, err error) {
			logger.WithLevel(level).Msgf("reactor.Error: %s", err.Error())
		},
		func(ctx context.Context) {
			logger.WithLevel(level).Msgf("reactor.Complete")
		},
	)
}

func LogWithNotification[T any](logger *zerolog.Logger, level zerolog.Level) func(reactor.Observable[T]) reactor.Observable[T] {
	return reactor.TapWithContext(
		func(ctx context.Context, value T) {
			logger.WithLevel(level).Any("value", value).Msgf("reactor.Next")
		},
		func(ctx context.Context, err error) {
			logger.WithLevel(level).Err(err).Msgf("reactor.Error")
		},
		func(ctx context.Context) {
			logger.WithLevel(level).Msgf("reactor.Complete")
		},
	)
}

func FatalOnError[T any](logger *zerolog.Logger) func(reactor.Observable[T]) reactor.Observable[T] {
	return reactor.TapOnErrorWithContext[T](
		func(ctx context.Context, err error) {
			logger.Fatal().Err(err).Msgf("reactor.Error")
		},
	)
}

// OnUnhandledError returns a reactor.OnUnhandledError-compatible hook that
// logs to logger instead of the standard library logger.
func OnUnhandledError(logger *zerolog.Logger) func(ctx context.Context, err error) {
	return func(ctx context.Context, err error) {
		logger.Error().Err(err).Msg("reactor: unhandled error")
	}
}

// OnReadinessWarning returns a reactor.OnReadinessWarning-compatible hook
// that logs to logger instead of the standard library logger.
func OnReadinessWarning(logger *zerolog.Logger) func(ctx context.Context, collection, operation, message string) {
	return func(ctx context.Context, collection, operation, message string) {
		logger.Warn().
			Str("collection", collection).
			Str("operation", operation).
			Msg(message)
	}
}
