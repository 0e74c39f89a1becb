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

package reactorozzo

import (
	"context"
	"testing"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/stretchr/testify/assert"

	"github.com/flowbase/reactor"
)

type person struct {
	Name string
	Age  int
}

func (p person) Validate() error {
	return ozzo.ValidateStruct(&p,
		ozzo.Field(&p.Name, ozzo.Required, ozzo.Length(1, 50)),
		ozzo.Field(&p.Age, ozzo.Required, ozzo.Min(18)),
	)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := reactor.Collect(reactor.Pipe1(
		reactor.Just("test"),
		Validate[string](ozzo.Required, ozzo.Length(1, 10)),
	))
	is.Nil(err)
	is.Len(values, 1)
	is.True(values[0].IsOk())
	is.Equal("test", values[0].Unwrap())

	values, err = reactor.Collect(reactor.Pipe1(
		reactor.Just(""),
		Validate[string](ozzo.Required, ozzo.Length(1, 10)),
	))
	is.Nil(err)
	is.Len(values, 1)
	is.True(values[0].IsError())
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := reactor.Collect(reactor.Pipe1(
		reactor.Just(person{Name: "Alice", Age: 30}),
		ValidateStruct[person](),
	))
	is.Nil(err)
	is.Len(values, 1)
	is.True(values[0].IsOk())

	values, err = reactor.Collect(reactor.Pipe1(
		reactor.Just(person{Name: "", Age: 10}),
		ValidateStruct[person](),
	))
	is.Nil(err)
	is.Len(values, 1)
	is.True(values[0].IsError())
}

func TestValidateWithContext(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, _, err := reactor.CollectWithContext(context.Background(), reactor.Pipe1(
		reactor.Just("test"),
		ValidateWithContext[string](ozzo.Required, ozzo.Length(1, 10)),
	))
	is.Nil(err)
	is.Len(values, 1)
	is.True(values[0].IsOk())
}

func TestValidateOrError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	values, err := reactor.Collect(reactor.Pipe1(
		reactor.Just("test"),
		ValidateOrError[string](ozzo.Required, ozzo.Length(1, 10)),
	))
	is.Nil(err)
	is.Equal([]string{"test"}, values)

	values, err = reactor.Collect(reactor.Pipe1(
		reactor.Just(""),
		ValidateOrError[string](ozzo.Required, ozzo.Length(1, 10)),
	))
	is.NotNil(err)
	is.Empty(values)
}

func TestValidateOrSkip(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	strings := []string{"test", "", "valid", "too-long-string-that-exceeds-limit"}

	values, err := reactor.Collect(reactor.Pipe1(
		reactor.FromSlice(strings),
		ValidateOrSkip[string](ozzo.Required, ozzo.Length(1, 10)),
	))
	is.Nil(err)
	is.Equal([]string{"test", "valid"}, values)
}

func TestValidateOrSkip_URLs(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	urls := []string{"https://example.com", "not-a-url", "https://go.dev"}

	values, err := reactor.Collect(reactor.Pipe1(
		reactor.FromSlice(urls),
		ValidateOrSkip[string](ozzo.Required, is.URL),
	))
	is.Nil(err)
	is.Equal([]string{"https://example.com", "https://go.dev"}, values)
}

func TestSchema(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	schema := New[string](ozzo.Required, ozzo.Length(1, 10))

	v, err := schema.Parse("test")
	is.Nil(err)
	is.Equal("test", v)

	_, err = schema.Parse("")
	is.Error(err)

	_, ok, issues := schema.SafeParse("")
	is.False(ok)
	is.NotEmpty(issues)
}

func TestSchemaValidatable(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	schema := NewValidatable[person]()

	_, ok, issues := schema.SafeParse(person{Name: "Bob", Age: 40})
	is.True(ok)
	is.Empty(issues)

	_, ok, issues = schema.SafeParse(person{Name: "", Age: 5})
	is.False(ok)
	is.NotEmpty(issues)
}
