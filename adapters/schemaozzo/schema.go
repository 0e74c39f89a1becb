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

// Package reactorozzo adapts github.com/go-ozzo/ozzo-validation/v4 into the
// reactor.Schema[T] capability interface, so a Collection can be defined
// against field rules or a Validatable type instead of a hand-written
// parse function.
package reactorozzo

import (
	"errors"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/flowbase/reactor"
)

// New adapts a set of field rules into a reactor.Schema[T]: Parse/SafeParse
// type-assert x to T, then validate it against rules.
func New[T any](rules ...ozzo.Rule) reactor.Schema[T] {
	return reactor.SchemaFunc[T](func(x any) (T, []reactor.Issue) {
		v, ok := x.(T)
		if !ok {
			return v, []reactor.Issue{{Message: "value is not of the expected type"}}
		}

		if err := ozzo.Validate(v, rules...); err != nil {
			return v, toIssues(err)
		}

		return v, nil
	})
}

// NewValidatable adapts a type that implements ozzo.Validatable into a
// reactor.Schema[T], delegating to its own Validate method instead of a
// rule list.
func NewValidatable[T ozzo.Validatable]() reactor.Schema[T] {
	return reactor.SchemaFunc[T](func(x any) (T, []reactor.Issue) {
		v, ok := x.(T)
		if !ok {
			return v, []reactor.Issue{{Message: "value is not of the expected type"}}
		}

		if err := v.Validate(); err != nil {
			return v, toIssues(err)
		}

		return v, nil
	})
}

func toIssues(err error) []reactor.Issue {
	var fieldErrors ozzo.Errors
	if errors.As(err, &fieldErrors) {
		issues := make([]reactor.Issue, 0, len(fieldErrors))
		for field, fieldErr := range fieldErrors {
			issues = append(issues, reactor.Issue{Path: field, Message: fieldErr.Error()})
		}

		return issues
	}

	return []reactor.Issue{{Message: err.Error()}}
}
