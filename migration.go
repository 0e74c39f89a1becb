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
	"time"
)

// Meta is the versioning envelope attached to persisted or in-flight data.
type Meta struct {
	Version    int
	MigratedAt time.Time
}

// VersionedData pairs a value with the schema version it was last written
// or migrated at.
type VersionedData[T any] struct {
	Meta Meta
	Data T
}

// MigrationStep describes advancing data from its source version to the
// next one.
type MigrationStep[T any] struct {
	Migrate      func(data T) (T, error)
	Description  string
	ValidateWith Schema[T]
}

// MigrationTable maps a source version v to the step advancing it to v+1.
// For a target schema version V, entries must exist for every v in
// [1..V-1].
type MigrationTable[T any] map[int]MigrationStep[T]

// ErrorStrategy controls how RunMigrations reacts to a failed step.
type ErrorStrategy int

const (
	// ErrorStrategyThrow returns the failure as a non-nil error.
	ErrorStrategyThrow ErrorStrategy = iota
	// ErrorStrategyWarn records the error, marks the result unsuccessful,
	// and preserves the pre-failure data, without returning an error.
	ErrorStrategyWarn
	// ErrorStrategyFallback behaves like ErrorStrategyWarn but annotates
	// the warning as a fallback.
	ErrorStrategyFallback
	// ErrorStrategyDryRun executes every migration step but never mutates
	// the caller's data; warnings are prefixed "[DRY RUN]".
	ErrorStrategyDryRun
)

// MigrationResult is the outcome of RunMigrations.
type MigrationResult[T any] struct {
	Success           bool
	Data              T
	Version           int
	MigrationsApplied []int
	Errors            []error
	Warnings          []string
}

var errBackwardMigration = errors.New("backwards migration not supported")

// RunMigrations advances data from fromVersion to toVersion by applying
// every step in table in order, returning a non-nil error only when
// strategy is ErrorStrategyThrow and a step failed.
func RunMigrations[T any](ctx context.Context, data T, fromVersion, toVersion int, table MigrationTable[T], strategy ErrorStrategy) (MigrationResult[T], error) {
	if fromVersion == toVersion {
		return MigrationResult[T]{Success: true, Data: data, Version: toVersion}, nil
	}

	if fromVersion > toVersion {
		return failMigration(data, fromVersion, strategy, &MigrationError{
			FromVersion: fromVersion,
			ToVersion:   toVersion,
			Err:         errBackwardMigration,
		})
	}

	current := data
	applied := make([]int, 0, toVersion-fromVersion)
	warnings := []string(nil)
	dryRun := strategy == ErrorStrategyDryRun

	for v := fromVersion; v < toVersion; v++ {
		step, ok := table[v]
		if !ok {
			return failMigration(data, v, strategy, &MigrationError{
				FromVersion: v,
				ToVersion:   v + 1,
				Err:         fmt.Errorf("missing migration from v%d to v%d", v, v+1),
			})
		}

		migrated, err := step.Migrate(current)
		if err != nil {
			return failMigration(data, v, strategy, &MigrationError{FromVersion: v, ToVersion: v + 1, Err: err})
		}

		if step.ValidateWith != nil {
			if _, ok, issues := step.ValidateWith.SafeParse(migrated); !ok {
				return failMigration(data, v, strategy, &MigrationError{
					FromVersion: v,
					ToVersion:   v + 1,
					Err:         newSchemaIssueError(issues),
				})
			}
		}

		current = migrated
		applied = append(applied, v)

		if dryRun {
			warnings = append(warnings, fmt.Sprintf("[DRY RUN] migrated v%d -> v%d", v, v+1))
		}
	}

	result := MigrationResult[T]{
		Success:           true,
		Version:           toVersion,
		MigrationsApplied: applied,
		Warnings:          warnings,
	}

	if dryRun {
		result.Data = data // caller's data is never mutated in a dry run
	} else {
		result.Data = current
	}

	return result, nil
}

func failMigration[T any](original T, atVersion int, strategy ErrorStrategy, err error) (MigrationResult[T], error) {
	result := MigrationResult[T]{
		Success: false,
		Data:    original,
		Version: atVersion,
		Errors:  []error{err},
	}

	switch strategy {
	case ErrorStrategyWarn:
		result.Warnings = []string{err.Error()}
		return result, nil
	case ErrorStrategyFallback:
		result.Warnings = []string{"[FALLBACK] " + err.Error()}
		return result, nil
	case ErrorStrategyDryRun:
		result.Warnings = []string{"[DRY RUN] " + err.Error()}
		return result, nil
	case ErrorStrategyThrow:
		return result, err
	default:
		return result, err
	}
}
