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
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"

	"github.com/samber/lo"
)

// Where returns an observable view of the documents matching filter,
// recomputed from scratch after every live mutation and emitted only when the
// matching set differs from the one the subscriber last received. The view
// subscribes to Live() lazily and releases that subscription when its own
// last subscriber unsubscribes — it never outlives the mutation stream it was
// built from.
func (c *collectionImpl[T]) Where(filter map[string]any) Observable[[]T] {
	return Defer(func() Observable[[]T] {
		var last []T
		emitted := false

		return Pipe2(c.Live(), Map(func(docs []T) []T {
			return lo.Filter(docs, func(doc T, _ int) bool {
				return match(toMap(doc), filter)
			})
		}), Filter(func(matched []T) bool {
			if emitted && reflect.DeepEqual(last, matched) {
				return false
			}

			last, emitted = matched, true

			return true
		}))
	})
}

// Find is an alias for Where.
func (c *collectionImpl[T]) Find(filter map[string]any) Observable[[]T] {
	return c.Where(filter)
}

// FindOne returns the first document matching filter, if any, without
// creating a subscription.
func (c *collectionImpl[T]) FindOne(filter map[string]any) (T, bool) {
	for _, doc := range c.GetAll() {
		if match(toMap(doc), filter) {
			return doc, true
		}
	}

	var zero T

	return zero, false
}

// toMap converts a struct (or a map, passed through unchanged) into a
// map[string]any keyed by its JSON field names, used by match and by patch
// merging so the engine never needs reflection over the caller's T
// directly.
func toMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}

	b, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]any{}
	}

	return m
}

// mergePatch overlays patch onto a JSON-field-name view of existing,
// returning the merged map, ready to hand to Schema.Parse.
func mergePatch[T any](existing T, patch map[string]any) map[string]any {
	merged := toMap(existing)
	for k, v := range patch {
		merged[k] = v
	}

	return merged
}

var comparisonOperators = map[string]struct{}{
	"$gte": {}, "$lte": {}, "$gt": {}, "$lt": {}, "$in": {}, "$regex": {},
}

func isOperatorMap(m map[string]any) bool {
	if len(m) == 0 {
		return false
	}

	for k := range m {
		if _, ok := comparisonOperators[k]; !ok {
			return false
		}
	}

	return true
}

// match recursively tests each (key, value) pair in filter against doc.
// If value is an operator map ($gte, $lte, $gt, $lt, $in, $regex), the
// corresponding comparison is applied to doc[key]; if value is a plain
// nested map, match recurses into it; otherwise doc[key] must equal value.
// A nil filter value is ignored.
func match(doc map[string]any, filter map[string]any) bool {
	for key, want := range filter {
		if want == nil {
			continue
		}

		got := doc[key]

		if ops, ok := want.(map[string]any); ok {
			if isOperatorMap(ops) {
				if !matchOperators(got, ops) {
					return false
				}

				continue
			}

			nested, ok := got.(map[string]any)
			if !ok || !match(nested, ops) {
				return false
			}

			continue
		}

		if !reflect.DeepEqual(got, want) {
			return false
		}
	}

	return true
}

func matchOperators(got any, ops map[string]any) bool {
	for op, operand := range ops {
		switch op {
		case "$gte":
			if !compareOrdered(got, operand, func(c int) bool { return c >= 0 }) {
				return false
			}
		case "$lte":
			if !compareOrdered(got, operand, func(c int) bool { return c <= 0 }) {
				return false
			}
		case "$gt":
			if !compareOrdered(got, operand, func(c int) bool { return c > 0 }) {
				return false
			}
		case "$lt":
			if !compareOrdered(got, operand, func(c int) bool { return c < 0 }) {
				return false
			}
		case "$in":
			if !matchIn(got, operand) {
				return false
			}
		case "$regex":
			if !matchRegex(got, operand) {
				return false
			}
		}
	}

	return true
}

// compareOrdered compares got against operand numerically when both are
// numbers, or lexically when both are strings, and applies accept to the
// resulting three-way comparison.
func compareOrdered(got, operand any, accept func(cmp int) bool) bool {
	gotFloat, gotIsNum := toFloat(got)
	wantFloat, wantIsNum := toFloat(operand)

	if gotIsNum && wantIsNum {
		switch {
		case gotFloat < wantFloat:
			return accept(-1)
		case gotFloat > wantFloat:
			return accept(1)
		default:
			return accept(0)
		}
	}

	gotStr, gotIsStr := got.(string)
	wantStr, wantIsStr := operand.(string)

	if gotIsStr && wantIsStr {
		switch {
		case gotStr < wantStr:
			return accept(-1)
		case gotStr > wantStr:
			return accept(1)
		default:
			return accept(0)
		}
	}

	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func matchIn(got, operand any) bool {
	values, ok := operand.([]any)
	if !ok {
		return false
	}

	for _, v := range values {
		if reflect.DeepEqual(got, v) {
			return true
		}
	}

	return false
}

func matchRegex(got, operand any) bool {
	str, ok := got.(string)
	if !ok {
		return false
	}

	pattern := fmt.Sprintf("%v", operand)

	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}

	return re.MatchString(str)
}
