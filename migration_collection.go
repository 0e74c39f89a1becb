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
	"sync"
)

// MigrationConfig configures DefineCollectionWithMigrations. Migration
// steps in Table operate on the collection's own record type T: unlike a
// dynamically-shaped source object, a Go struct already carries every field
// introduced across schema versions, so a migration step's job is to
// populate or rename those fields on a T value rather than reshape an
// untyped blob.
type MigrationConfig[T any] struct {
	Name          string
	Schema        Schema[T]
	IDOf          func(T) any
	SchemaVersion int
	Table         MigrationTable[T]
	ErrorStrategy ErrorStrategy

	// InitialVersion is the schema version InitialData was persisted at.
	InitialVersion int
	InitialData    []T
}

// CollectionWithMigrations is a Collection augmented with schema-migration
// operations, returned by DefineCollectionWithMigrations.
type CollectionWithMigrations[T any] interface {
	Collection[T]

	// MigrateToVersion runs the collection's migration table against every
	// current document, advancing (or, if dryRun, simulating advancing)
	// the collection to target.
	MigrateToVersion(target int, dryRun bool) (MigrationResult[T], error)
	// GetCurrentVersion returns the schema version the collection's
	// documents currently satisfy.
	GetCurrentVersion() int
	// GetMigrationStatus returns the outcome of the most recent migration
	// run (construction-time or MigrateToVersion).
	GetMigrationStatus() MigrationResult[T]
}

var _ CollectionWithMigrations[struct{}] = (*collectionWithMigrationsImpl[struct{}])(nil)

type collectionWithMigrationsImpl[T any] struct {
	*collectionImpl[T]

	mu             sync.Mutex
	table          MigrationTable[T]
	schemaVersion  int
	errorStrategy  ErrorStrategy
	currentVersion int
	lastStatus     MigrationResult[T]
}

// DefineCollectionWithMigrations validates that config.Table covers every
// version between 1 and config.SchemaVersion-1, panicking with
// ErrMigrationGap at construction time (fail-fast) if it does not. It then
// registers the collection exactly as DefineCollection does and, if
// InitialData was persisted at an older version, runs the migration table
// eagerly before the collection becomes visible to callers.
func DefineCollectionWithMigrations[T any](config MigrationConfig[T]) CollectionWithMigrations[T] {
	validateMigrationTable(config.Table, config.SchemaVersion)

	base := DefineCollection(config.Name, config.Schema, config.IDOf).(*collectionImpl[T])

	cm := &collectionWithMigrationsImpl[T]{
		collectionImpl: base,
		table:          config.Table,
		schemaVersion:  config.SchemaVersion,
		errorStrategy:  config.ErrorStrategy,
		currentVersion: config.InitialVersion,
	}

	if config.InitialVersion >= config.SchemaVersion || len(config.InitialData) == 0 {
		base.mu.Lock()
		base.docs = append([]T{}, config.InitialData...)
		base.emitLocked()
		base.mu.Unlock()

		cm.currentVersion = config.SchemaVersion

		return cm
	}

	migrated := make([]T, 0, len(config.InitialData))

	var lastResult MigrationResult[T]

	for _, raw := range config.InitialData {
		result, err := RunMigrations(context.Background(), raw, config.InitialVersion, config.SchemaVersion, config.Table, config.ErrorStrategy)
		lastResult = result

		if err != nil {
			base.SetError(err)
			cm.lastStatus = result

			return cm
		}

		if result.Success {
			migrated = append(migrated, result.Data)
		}
	}

	cm.lastStatus = lastResult

	if lastResult.Success {
		base.mu.Lock()
		base.docs = migrated
		base.emitLocked()
		base.mu.Unlock()

		cm.currentVersion = config.SchemaVersion
	}

	return cm
}

func validateMigrationTable[T any](table MigrationTable[T], schemaVersion int) {
	for v := 1; v < schemaVersion; v++ {
		if _, ok := table[v]; !ok {
			panic(&MigrationError{FromVersion: v, ToVersion: v + 1, Err: ErrMigrationGap})
		}
	}
}

func (cm *collectionWithMigrationsImpl[T]) MigrateToVersion(target int, dryRun bool) (MigrationResult[T], error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	strategy := cm.errorStrategy
	if dryRun {
		strategy = ErrorStrategyDryRun
	}

	docs := cm.GetAll()
	migrated := make([]T, 0, len(docs))

	var lastResult MigrationResult[T]

	for _, doc := range docs {
		result, err := RunMigrations(context.Background(), doc, cm.currentVersion, target, cm.table, strategy)
		lastResult = result

		if err != nil {
			cm.lastStatus = result
			return result, err
		}

		migrated = append(migrated, result.Data)
	}

	cm.lastStatus = lastResult

	if !dryRun && lastResult.Success {
		cm.collectionImpl.mu.Lock()
		cm.collectionImpl.docs = migrated
		cm.collectionImpl.emitLocked()
		cm.collectionImpl.mu.Unlock()

		cm.currentVersion = target
	}

	return lastResult, nil
}

func (cm *collectionWithMigrationsImpl[T]) GetCurrentVersion() int {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	return cm.currentVersion
}

func (cm *collectionWithMigrationsImpl[T]) GetMigrationStatus() MigrationResult[T] {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	return cm.lastStatus
}
