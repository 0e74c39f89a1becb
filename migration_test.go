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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testDocV3 struct {
	ID       string
	Name     string
	Nickname string
}

func testDocIDOf(d testDocV3) any { return d.ID }

func testDocSchema() Schema[testDocV3] {
	return SchemaFunc[testDocV3](func(x any) (testDocV3, []Issue) {
		d, ok := x.(testDocV3)
		if !ok {
			return testDocV3{}, []Issue{{Path: "", Message: "unsupported value"}}
		}

		return d, nil
	})
}

func v1ToV2() MigrationStep[testDocV3] {
	return MigrationStep[testDocV3]{
		Description: "rename fullName to Name",
		Migrate: func(d testDocV3) (testDocV3, error) {
			return d, nil
		},
	}
}

func v2ToV3() MigrationStep[testDocV3] {
	return MigrationStep[testDocV3]{
		Description: "derive Nickname from Name",
		Migrate: func(d testDocV3) (testDocV3, error) {
			d.Nickname = d.Name
			return d, nil
		},
	}
}

// TestRunMigrationsChainV1ToV3 exercises the documented v1->v3 migration
// chain: two steps applied in order, each recorded in MigrationsApplied.
func TestRunMigrationsChainV1ToV3(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	table := MigrationTable[testDocV3]{
		1: v1ToV2(),
		2: v2ToV3(),
	}

	result, err := RunMigrations(context.Background(), testDocV3{ID: "1", Name: "Ada"}, 1, 3, table, ErrorStrategyThrow)
	is.NoError(err)
	is.True(result.Success)
	is.Equal(3, result.Version)
	is.Equal([]int{1, 2}, result.MigrationsApplied)
	is.Equal("Ada", result.Data.Nickname)
}

func TestRunMigrationsSameVersionIsNoop(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	result, err := RunMigrations(context.Background(), testDocV3{ID: "1"}, 2, 2, MigrationTable[testDocV3]{}, ErrorStrategyThrow)
	is.NoError(err)
	is.True(result.Success)
	is.Equal(2, result.Version)
}

func TestRunMigrationsMissingStepThrows(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	_, err := RunMigrations(context.Background(), testDocV3{ID: "1"}, 1, 3, MigrationTable[testDocV3]{1: v1ToV2()}, ErrorStrategyThrow)

	var migErr *MigrationError
	is.ErrorAs(err, &migErr)
	is.Equal(2, migErr.FromVersion)
}

func TestRunMigrationsWarnStrategyDoesNotError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	result, err := RunMigrations(context.Background(), testDocV3{ID: "1"}, 1, 3, MigrationTable[testDocV3]{1: v1ToV2()}, ErrorStrategyWarn)
	is.NoError(err)
	is.False(result.Success)
	is.Len(result.Warnings, 1)
}

func TestDefineCollectionWithMigrationsAppliesEagerly(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	table := MigrationTable[testDocV3]{
		1: v1ToV2(),
		2: v2ToV3(),
	}

	col := DefineCollectionWithMigrations(MigrationConfig[testDocV3]{
		Name:           "docs-migrated",
		Schema:         testDocSchema(),
		IDOf:           testDocIDOf,
		SchemaVersion:  3,
		Table:          table,
		InitialVersion: 1,
		InitialData:    []testDocV3{{ID: "1", Name: "Ada"}},
	})

	is.Equal(3, col.GetCurrentVersion())
	is.True(col.GetMigrationStatus().Success)

	docs := col.GetAll()
	is.Len(docs, 1)
	is.Equal("Ada", docs[0].Nickname)
}

func TestDefineCollectionWithMigrationsGapPanics(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Panics(func() {
		DefineCollectionWithMigrations(MigrationConfig[testDocV3]{
			Name:          "docs-gap",
			Schema:        testDocSchema(),
			IDOf:          testDocIDOf,
			SchemaVersion: 3,
			Table:         MigrationTable[testDocV3]{1: v1ToV2()}, // missing step 2->3
		})
	})
}

func TestMigrateToVersionDryRunDoesNotMutate(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	setNickname := MigrationStep[testDocV3]{
		Description: "derive Nickname from Name",
		Migrate: func(d testDocV3) (testDocV3, error) {
			d.Nickname = d.Name
			return d, nil
		},
	}

	col := DefineCollectionWithMigrations(MigrationConfig[testDocV3]{
		Name:           "docs-dryrun",
		Schema:         testDocSchema(),
		IDOf:           testDocIDOf,
		SchemaVersion:  1,
		Table:          MigrationTable[testDocV3]{1: setNickname},
		InitialVersion: 1,
		InitialData:    []testDocV3{{ID: "1", Name: "Ada"}},
	})

	result, err := col.MigrateToVersion(2, true)
	is.NoError(err)
	is.True(result.Success)
	is.Equal("", result.Data.Nickname)

	// dry run must not mutate the collection's stored documents
	is.Equal(1, col.GetCurrentVersion())
	is.Empty(col.GetAll()[0].Nickname)
}
