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
	"errors"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/flowbase/reactor"
)

var (
	ErrValidatable            = errors.New("value does not implement ozzo.Validatable")
	ErrValidatableWithContext = errors.New("value does not implement ozzo.ValidatableWithContext")
)

// Validate validates each item against rules and wraps the outcome in a
// Result instead of raising an operator error, for pipelines that want to
// branch on validity downstream rather than go through catchError.
func Validate[T any](rules ...ozzo.Rule) func(reactor.Observable[T]) reactor.Observable[Result[T]] {
	return reactor.Map(func(v T) Result[T] {
		if err := ozzo.Validate(v, rules...); err != nil {
			return Err[T](err)
		}

		return Ok(v)
	})
}

// ValidateStruct is Validate for a type that implements ozzo.Validatable,
// validating via its own Validate method instead of a rule list. It panics
// at operator-construction time (not per item) if T does not implement
// ozzo.Validatable.
func ValidateStruct[T any]() func(reactor.Observable[T]) reactor.Observable[Result[T]] {
	var zero T
	if _, ok := any(zero).(ozzo.Validatable); !ok {
		panic(ErrValidatable)
	}

	return reactor.Map(func(v T) Result[T] {
		if err := any(v).(ozzo.Validatable).Validate(); err != nil {
			return Err[T](err)
		}

		return Ok(v)
	})
}

// ValidateWithContext is the context-propagating variant of Validate.
func ValidateWithContext[T any](rules ...ozzo.Rule) func(reactor.Observable[T]) reactor.Observable[Result[T]] {
	return reactor.MapWithContext(func(ctx context.Context, v T) (context.Context, Result[T]) {
		if err := ozzo.ValidateWithContext(ctx, v, rules...); err != nil {
			return ctx, Err[T](err)
		}

		return ctx, Ok(v)
	})
}

// ValidateStructWithContext is the context-propagating variant of
// ValidateStruct, requiring ozzo.ValidatableWithContext.
func ValidateStructWithContext[T any]() func(reactor.Observable[T]) reactor.Observable[Result[T]] {
	var zero T
	if _, ok := any(zero).(ozzo.ValidatableWithContext); !ok {
		panic(ErrValidatableWithContext)
	}

	return reactor.MapWithContext(func(ctx context.Context, v T) (context.Context, Result[T]) {
		if err := any(v).(ozzo.ValidatableWithContext).ValidateWithContext(ctx); err != nil {
			return ctx, Err[T](err)
		}

		return ctx, Ok(v)
	})
}

// ValidateOrError raises a reactor.OperatorError in place of a value when
// validation fails, instead of wrapping the outcome in a Result.
func ValidateOrError[T any](rules ...ozzo.Rule) func(reactor.Observable[T]) reactor.Observable[T] {
	return reactor.MapErr(func(v T) (T, error) {
		return v, ozzo.Validate(v, rules...)
	})
}

// ValidateStructOrError is ValidateOrError for an ozzo.Validatable type.
func ValidateStructOrError[T any]() func(reactor.Observable[T]) reactor.Observable[T] {
	var zero T
	if _, ok := any(zero).(ozzo.Validatable); !ok {
		panic(ErrValidatable)
	}

	return reactor.MapErr(func(v T) (T, error) {
		return v, any(v).(ozzo.Validatable).Validate()
	})
}

// ValidateOrSkip silently drops items that fail validation instead of
// raising an error or a Result.
func ValidateOrSkip[T any](rules ...ozzo.Rule) func(reactor.Observable[T]) reactor.Observable[T] {
	return reactor.Filter(func(v T) bool {
		return ozzo.Validate(v, rules...) == nil
	})
}

// ValidateStructOrSkip is ValidateOrSkip for an ozzo.Validatable type.
func ValidateStructOrSkip[T any]() func(reactor.Observable[T]) reactor.Observable[T] {
	var zero T
	if _, ok := any(zero).(ozzo.Validatable); !ok {
		panic(ErrValidatable)
	}

	return reactor.Filter(func(v T) bool {
		return any(v).(ozzo.Validatable).Validate() == nil
	})
}
