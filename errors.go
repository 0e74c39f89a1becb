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
	"errors"
	"fmt"

	"github.com/samber/lo"
)

func recoverValueToError(e any) error {
	if err, ok := e.(error); ok {
		return err
	}

	return fmt.Errorf("unexpected error: %v", e)
}

func recoverUnhandledError(cb func()) {
	lo.TryCatchWithErrorValue(
		func() error {
			cb()
			return nil
		},
		func(e any) {
			err := recoverValueToError(e)
			OnUnhandledError(context.TODO(), err)
		},
	)
}

var (
	//nolint:revive
	ErrConnectableObservableMissingConnectorFactory = errors.New("reactor.ConnectableObservable: missing connector factory")

	// ErrCollectionNotReady names the not-ready state of a collection.
	// Insert/Update/Delete and their Try variants do not return it: on a
	// collection that is not ready they report a warning through
	// OnReadinessWarning and proceed.
	ErrCollectionNotReady = errors.New("reactor.Collection: not ready")

	// ErrMigrationGap is the Err of the *MigrationError that
	// DefineCollectionWithMigrations panics with when the supplied migration
	// table has no entry for some version in [1, SchemaVersion-1].
	ErrMigrationGap = errors.New("reactor.Migration: missing version in migration table")
)

// ValidationError wraps a Schema rejection. Collection operations surface
// it unchanged so callers can inspect the underlying schema error.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "reactor.Validation: " + e.Err.Error()
	}

	return fmt.Sprintf("reactor.Validation: %s: %s", e.Field, e.Err.Error())
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DuplicateIDError is returned by Insert/TryInsert when the id already
// exists in the collection.
type DuplicateIDError struct {
	ID any
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("reactor.Collection: duplicate id %v", e.ID)
}

// MissingIDError is returned by Update/Delete and their Try variants when
// no document with the given id exists.
type MissingIDError struct {
	ID any
}

func (e *MissingIDError) Error() string {
	return fmt.Sprintf("reactor.Collection: missing id %v", e.ID)
}

// MigrationError wraps a failure raised while running a single migration
// step, tagging it with the version transition that failed.
type MigrationError struct {
	FromVersion int
	ToVersion   int
	Err         error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("reactor.Migration: v%d -> v%d: %s", e.FromVersion, e.ToVersion, e.Err.Error())
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

// OperatorError wraps a panic or unexpected failure recovered while
// running a pipeline operator, tagging it with the operator's name.
type OperatorError struct {
	Operator string
	Err      error
}

func (e *OperatorError) Error() string {
	return fmt.Sprintf("reactor.Operator(%s): %s", e.Operator, e.Err.Error())
}

func (e *OperatorError) Unwrap() error {
	return e.Err
}

// AdapterError wraps a failure originating from a source adapter (a
// websocket connection, an HTTP round trip, a persistence backend), so
// callers can distinguish transport failures from schema or collection
// failures.
type AdapterError struct {
	Adapter string
	Err     error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("reactor.Adapter(%s): %s", e.Adapter, e.Err.Error())
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

func newUnsubscriptionError(err error) error {
	return &unsubscriptionError{
		err: err,
	}
}

type unsubscriptionError struct {
	err error
}

func (e *unsubscriptionError) Error() string {
	return "reactor.Subscription: " + e.err.Error()
}

func (e *unsubscriptionError) Unwrap() error {
	return e.err
}

func newObservableError(err error) error {
	return &observableError{
		err: err,
	}
}

type observableError struct {
	err error
}

func (e *observableError) Error() string {
	return "reactor.Observable: " + e.err.Error()
}

func (e *observableError) Unwrap() error {
	return e.err
}

func newObserverError(err error) error {
	return &observerError{
		err: err,
	}
}

type observerError struct {
	err error
}

func (e *observerError) Error() string {
	err := "<nil>"
	if e.err != nil {
		err = e.err.Error()
	}

	return "reactor.Observer: " + err
}

func (e *observerError) Unwrap() error {
	return e.err
}

func newPipeError(msg string, args ...any) error {
	return &pipeError{
		err: fmt.Errorf(msg, args...),
	}
}

type pipeError struct {
	err error
}

func (e *pipeError) Error() string {
	return "reactor.Pipe: " + e.err.Error()
}

func (e *pipeError) Unwrap() error {
	return e.err
}
