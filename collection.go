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
	"sync"
	"time"
)

// ReadinessState is the lifecycle stage of a Collection.
type ReadinessState int

const (
	ReadinessInitializing ReadinessState = iota
	ReadinessReady
	ReadinessError
	ReadinessDisconnected
)

func (s ReadinessState) String() string {
	switch s {
	case ReadinessInitializing:
		return "initializing"
	case ReadinessReady:
		return "ready"
	case ReadinessError:
		return "error"
	case ReadinessDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Readiness reports a Collection's current lifecycle state.
type Readiness struct {
	State     ReadinessState
	Err       error
	LastCheck time.Time
}

// Result is the outcome of a Try* collection operation: never an error
// return, always an explicit ok/data/err triple, mirroring the source's
// {ok:true,data} | {ok:false,error} shape.
type Result[T any] struct {
	OK   bool
	Data T
	Err  error
}

// OnReadinessWarning is called when a collection operation runs against a
// collection that has not reached ReadinessReady. Warnings are deduplicated
// per (message, operation) pair by the collection itself; this hook only
// controls where the (already-deduplicated) warning is delivered.
var OnReadinessWarning = DefaultOnReadinessWarning

// DefaultOnReadinessWarning logs the warning using the standard library
// logger. Production code should point OnReadinessWarning at an adapter
// from the observability/ subpackages instead.
func DefaultOnReadinessWarning(ctx context.Context, collection, operation, message string) {
	// bearer:disable go_lang_logger_leak
	log.Printf("reactor: collection %q not ready for %s: %s\n", collection, operation, message)
}

// Collection is a named, schema-validated, in-memory set of records keyed
// by id, with live and filtered observable views.
type Collection[T any] interface {
	Name() string
	Schema() Schema[T]

	// Insert validates and appends item, throwing on a validation or
	// duplicate-id failure.
	Insert(item any) (T, error)
	// TryInsert is the non-throwing variant of Insert.
	TryInsert(item any) Result[T]
	// ValidateInsert validates item and checks for a duplicate id without
	// mutating the collection.
	ValidateInsert(item any) (T, error)

	// Update locates the record by id, merges patch onto it, validates the
	// result, and replaces it in place. Throws on a missing-id or
	// validation failure.
	Update(id any, patch map[string]any) (T, error)
	// TryUpdate is the non-throwing variant of Update.
	TryUpdate(id any, patch map[string]any) Result[T]

	// Delete removes the record with the given id. Throws on missing id.
	Delete(id any) (T, error)
	// TryDelete is the non-throwing variant of Delete.
	TryDelete(id any) Result[T]

	// GetAll returns a defensive copy of the collection's documents in
	// insertion order.
	GetAll() []T
	// Live returns the observable reflecting the collection's documents
	// after every successful mutation.
	Live() Observable[[]T]
	// Where returns an observable whose value is the subsequence of
	// documents matching filter, recomputed after any successful mutation.
	Where(filter map[string]any) Observable[[]T]
	// Find is an alias for Where.
	Find(filter map[string]any) Observable[[]T]
	// FindOne returns the first document matching filter, non-reactively.
	FindOne(filter map[string]any) (T, bool)

	Readiness() Readiness
	// SetReady transitions the collection to ReadinessReady. Called by
	// source adapters performing asynchronous initial state loading.
	SetReady()
	// SetError transitions the collection to ReadinessError.
	SetError(err error)
}

var _ Collection[struct{}] = (*collectionImpl[struct{}])(nil)

type collectionImpl[T any] struct {
	name   string
	schema Schema[T]
	idOf   func(T) any

	mu   sync.Mutex
	docs []T
	live Subject[[]T]

	readiness Readiness
	warned    map[[2]string]struct{}
}

// DefineCollection registers a new Collection in the process-wide registry
// under name and returns it. Re-definition under the same name replaces the
// registry entry but does not affect handles already held by callers of a
// prior DefineCollection: they keep observing the original instance.
// GetCollection(name) after a re-definition returns the new instance.
func DefineCollection[T any](name string, schema Schema[T], idOf func(T) any) Collection[T] {
	c := &collectionImpl[T]{
		name:   name,
		schema: schema,
		idOf:   idOf,
		docs:   []T{},
		live:   NewBehaviorSubject[[]T]([]T{}),
		readiness: Readiness{
			State:     ReadinessInitializing,
			LastCheck: time.Now(),
		},
		warned: map[[2]string]struct{}{},
	}

	c.readiness = Readiness{State: ReadinessReady, LastCheck: time.Now()}

	registerCollection(name, c)
	registerSchema(name, schema)

	return c
}

func (c *collectionImpl[T]) Name() string {
	return c.name
}

func (c *collectionImpl[T]) Schema() Schema[T] {
	return c.schema
}

func (c *collectionImpl[T]) Readiness() Readiness {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.readiness
}

func (c *collectionImpl[T]) SetReady() {
	c.mu.Lock()
	c.readiness = Readiness{State: ReadinessReady, LastCheck: time.Now()}
	c.mu.Unlock()
}

func (c *collectionImpl[T]) SetError(err error) {
	c.mu.Lock()
	c.readiness = Readiness{State: ReadinessError, Err: err, LastCheck: time.Now()}
	c.mu.Unlock()
}

// warnIfNotReady emits a deduplicated readiness warning and always returns,
// never blocking the calling operation.
func (c *collectionImpl[T]) warnIfNotReady(operation string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.readiness.State == ReadinessReady {
		return
	}

	message := fmt.Sprintf("collection is %s", c.readiness.State)
	key := [2]string{message, operation}

	if _, seen := c.warned[key]; seen {
		return
	}

	c.warned[key] = struct{}{}
	OnReadinessWarning(context.Background(), c.name, operation, message)
}

func (c *collectionImpl[T]) indexOfLocked(id any) int {
	for i, d := range c.docs {
		if c.idOf(d) == id {
			return i
		}
	}

	return -1
}

func (c *collectionImpl[T]) emitLocked() {
	snapshot := make([]T, len(c.docs))
	copy(snapshot, c.docs)
	c.live.Next(snapshot)
}

func (c *collectionImpl[T]) ValidateInsert(item any) (T, error) {
	var zero T

	parsed, err := c.schema.Parse(item)
	if err != nil {
		return zero, err
	}

	id := c.idOf(parsed)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOfLocked(id) >= 0 {
		return zero, &DuplicateIDError{ID: id}
	}

	return parsed, nil
}

func (c *collectionImpl[T]) Insert(item any) (T, error) {
	c.warnIfNotReady("insert")

	var zero T

	parsed, err := c.schema.Parse(item)
	if err != nil {
		return zero, err
	}

	id := c.idOf(parsed)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOfLocked(id) >= 0 {
		return zero, &DuplicateIDError{ID: id}
	}

	c.docs = append(c.docs, parsed)
	c.emitLocked()

	return parsed, nil
}

func (c *collectionImpl[T]) TryInsert(item any) Result[T] {
	data, err := c.Insert(item)
	return Result[T]{OK: err == nil, Data: data, Err: err}
}

func (c *collectionImpl[T]) Update(id any, patch map[string]any) (T, error) {
	c.warnIfNotReady("update")

	var zero T

	c.mu.Lock()

	index := c.indexOfLocked(id)
	if index < 0 {
		c.mu.Unlock()
		return zero, &MissingIDError{ID: id}
	}

	existing := c.docs[index]
	c.mu.Unlock()

	merged := mergePatch(existing, patch)

	parsed, err := c.schema.Parse(merged)
	if err != nil {
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// re-locate: a concurrent delete could have removed the record while
	// schema.Parse ran; the single-threaded cooperative model means this
	// only matters if Parse itself re-entered the collection.
	index = c.indexOfLocked(id)
	if index < 0 {
		return zero, &MissingIDError{ID: id}
	}

	c.docs[index] = parsed
	c.emitLocked()

	return parsed, nil
}

func (c *collectionImpl[T]) TryUpdate(id any, patch map[string]any) Result[T] {
	data, err := c.Update(id, patch)
	return Result[T]{OK: err == nil, Data: data, Err: err}
}

func (c *collectionImpl[T]) Delete(id any) (T, error) {
	c.warnIfNotReady("delete")

	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	index := c.indexOfLocked(id)
	if index < 0 {
		return zero, &MissingIDError{ID: id}
	}

	removed := c.docs[index]
	c.docs = append(c.docs[:index], c.docs[index+1:]...)
	c.emitLocked()

	return removed, nil
}

func (c *collectionImpl[T]) TryDelete(id any) Result[T] {
	data, err := c.Delete(id)
	return Result[T]{OK: err == nil, Data: data, Err: err}
}

func (c *collectionImpl[T]) GetAll() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make([]T, len(c.docs))
	copy(snapshot, c.docs)

	return snapshot
}

func (c *collectionImpl[T]) Live() Observable[[]T] {
	return c.live.AsObservable()
}
