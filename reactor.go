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
	"context"
	"fmt"
	"log"
)

var (
	// By default, the library ignores unhandled errors and dropped
	// notifications. Override these variables to plug in your own error
	// handling, e.g. a structured logger from the observability/ subpackages:
	//
	// 	reactor.OnUnhandledError = func(ctx context.Context, err error) {
	// 		logger.Error(ctx, "unhandled error", err)
	// 	}
	//
	// OnUnhandledError and OnDroppedNotification are called synchronously
	// from the goroutine that emits the error or the notification. A slow
	// callback slows down the whole pipeline.

	// OnUnhandledError is called when an error is emitted by an Observable
	// and no error handler is registered.
	OnUnhandledError = IgnoreOnUnhandledError
	// OnDroppedNotification is called when a notification is emitted by an
	// Observable and no notification handler is registered.
	OnDroppedNotification = IgnoreOnDroppedNotification
)

// IgnoreOnUnhandledError is the default implementation of OnUnhandledError.
func IgnoreOnUnhandledError(ctx context.Context, err error) {}

// IgnoreOnDroppedNotification is the default implementation of OnDroppedNotification.
func IgnoreOnDroppedNotification(ctx context.Context, notification fmt.Stringer) {}

// DefaultOnUnhandledError logs the error using the standard library logger.
// Useful during development; production code should set OnUnhandledError to
// an adapter from the observability/ subpackages instead.
func DefaultOnUnhandledError(ctx context.Context, err error) {
	if err != nil {
		// bearer:disable go_lang_logger_leak
		log.Printf("reactor: unhandled error: %s\n", err.Error())
	}
}

var _ fmt.Stringer = (*Notification[int])(nil) // see below

// DefaultOnDroppedNotification logs the dropped notification using the
// standard library logger.
//
// Since we cannot assign a generic callback to OnDroppedNotification, we use
// a fmt.Stringer instead of a Notification[T any].
func DefaultOnDroppedNotification(ctx context.Context, notification fmt.Stringer) {
	// bearer:disable go_lang_logger_leak
	log.Printf("reactor: dropped notification: %s\n", notification.String())
}
