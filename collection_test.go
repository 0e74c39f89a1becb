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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testTodo struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

func testTodoSchema() Schema[testTodo] {
	return SchemaFunc[testTodo](func(x any) (testTodo, []Issue) {
		switch v := x.(type) {
		case testTodo:
			return v, nil
		case map[string]any:
			todo := testTodo{}

			if id, ok := v["id"].(string); ok {
				todo.ID = id
			}

			if text, ok := v["text"].(string); ok {
				todo.Text = text
			}

			if done, ok := v["done"].(bool); ok {
				todo.Done = done
			}

			if todo.ID == "" {
				return todo, []Issue{{Path: "id", Message: "id is required"}}
			}

			return todo, nil
		default:
			return testTodo{}, []Issue{{Path: "", Message: "unsupported value"}}
		}
	})
}

func testTodoID(t testTodo) any { return t.ID }

func TestCollectionInsertAndDuplicateID(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	col := DefineCollection("todos-insert", testTodoSchema(), testTodoID)

	_, err := col.Insert(testTodo{ID: "1", Text: "write spec"})
	is.NoError(err)

	_, err = col.Insert(testTodo{ID: "1", Text: "duplicate"})
	is.Error(err)

	var dup *DuplicateIDError
	is.ErrorAs(err, &dup)
	is.Equal("1", dup.ID)

	is.Len(col.GetAll(), 1)
}

func TestCollectionUpdateAndDelete(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	col := DefineCollection("todos-update", testTodoSchema(), testTodoID)

	_, err := col.Insert(testTodo{ID: "1", Text: "write spec"})
	is.NoError(err)

	updated, err := col.Update("1", map[string]any{"done": true})
	is.NoError(err)
	is.True(updated.Done)

	_, err = col.Update("missing", map[string]any{"done": true})
	var missing *MissingIDError
	is.ErrorAs(err, &missing)

	removed, err := col.Delete("1")
	is.NoError(err)
	is.Equal("1", removed.ID)
	is.Empty(col.GetAll())
}

func TestCollectionWhereFilteredLiveView(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 200*time.Millisecond)
	is := assert.New(t)

	col := DefineCollection("todos-where", testTodoSchema(), testTodoID)

	var snapshots [][]testTodo

	sub := col.Where(map[string]any{"done": true}).Subscribe(NewObserver(
		func(v []testTodo) { snapshots = append(snapshots, v) },
		func(error) {},
		func() {},
	))
	defer sub.Unsubscribe()

	_, err := col.Insert(testTodo{ID: "1", Text: "a", Done: false})
	is.NoError(err)

	_, err = col.Insert(testTodo{ID: "2", Text: "b", Done: true})
	is.NoError(err)

	_, err = col.Update("1", map[string]any{"done": true})
	is.NoError(err)

	is.Len(snapshots, 3)
	is.Empty(snapshots[0])
	is.Len(snapshots[1], 1)
	is.Len(snapshots[2], 2)
}

func TestCollectionFindOne(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	col := DefineCollection("todos-findone", testTodoSchema(), testTodoID)

	_, err := col.Insert(testTodo{ID: "1", Text: "a"})
	is.NoError(err)

	found, ok := col.FindOne(map[string]any{"id": "1"})
	is.True(ok)
	is.Equal("a", found.Text)

	_, ok = col.FindOne(map[string]any{"id": "nope"})
	is.False(ok)
}

func TestCollectionReadinessTransitions(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	col := DefineCollection("todos-readiness", testTodoSchema(), testTodoID)
	col.SetError(assert.AnError)

	is.Equal(ReadinessError, col.Readiness().State)

	col.SetReady()
	is.Equal(ReadinessReady, col.Readiness().State)
}

func TestGetCollectionRegistry(t *testing.T) {
	t.Parallel()
	testWithTimeout(t, 100*time.Millisecond)
	is := assert.New(t)

	DefineCollection("todos-registry", testTodoSchema(), testTodoID)

	got, ok := GetCollection[testTodo]("todos-registry")
	is.True(ok)
	is.Equal("todos-registry", got.Name())

	_, ok = GetCollection[testTodo]("does-not-exist")
	is.False(ok)
}
