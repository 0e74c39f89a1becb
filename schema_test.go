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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testPerson struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func testPersonSchema() Schema[testPerson] {
	return SchemaFunc[testPerson](func(x any) (testPerson, []Issue) {
		p, ok := x.(testPerson)
		if !ok {
			if m, ok := x.(map[string]any); ok {
				name, _ := m["name"].(string)
				age, _ := m["age"].(int)
				p = testPerson{Name: name, Age: age}
			}
		}

		var issues []Issue

		if p.Name == "" {
			issues = append(issues, Issue{Path: "name", Message: "name is required"})
		}

		if p.Age < 0 {
			issues = append(issues, Issue{Path: "age", Message: fmt.Sprintf("age must not be negative, got %d", p.Age)})
		}

		return p, issues
	})
}

func TestSchemaFuncParse(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	schema := testPersonSchema()

	p, err := schema.Parse(testPerson{Name: "ada", Age: 30})
	is.NoError(err)
	is.Equal("ada", p.Name)

	_, err = schema.Parse(testPerson{Name: "", Age: 30})
	is.Error(err)

	var validationErr *ValidationError
	is.ErrorAs(err, &validationErr)
	is.Equal("name", validationErr.Field)
}

func TestSchemaFuncSafeParse(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	schema := testPersonSchema()

	_, ok, issues := schema.SafeParse(testPerson{Name: "grace", Age: -1})
	is.False(ok)
	is.Len(issues, 1)
	is.Equal("age", issues[0].Path)

	_, ok, issues = schema.SafeParse(testPerson{Name: "grace", Age: 40})
	is.True(ok)
	is.Empty(issues)
}
