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

// Issue is one field-level failure reported by a Schema.
type Issue struct {
	Path    string
	Message string
	Code    string
}

// Schema is the capability a collection needs from a schema validator: the
// core treats validation errors opaquely except for surfacing Issues, and
// never depends on a concrete validation library directly. Concrete
// implementations (ozzo-validation, protovalidate, hand-written structs,
// …) live in isolated adapter modules and satisfy this interface.
type Schema[T any] interface {
	// Parse validates x and returns the typed value, or a ValidationError
	// wrapping the reported Issues.
	Parse(x any) (T, error)

	// SafeParse validates x without returning an error value: ok reports
	// whether validation succeeded, and issues is non-empty only when it
	// did not.
	SafeParse(x any) (data T, ok bool, issues []Issue)
}

// SchemaFunc adapts a plain validating function into a Schema, for callers
// whose validation logic is a single function rather than a struct.
type SchemaFunc[T any] func(x any) (T, []Issue)

var _ Schema[int] = SchemaFunc[int](nil)

func (f SchemaFunc[T]) Parse(x any) (T, error) {
	data, issues := f(x)
	if len(issues) > 0 {
		return data, &ValidationError{Field: issues[0].Path, Err: newSchemaIssueError(issues)}
	}

	return data, nil
}

func (f SchemaFunc[T]) SafeParse(x any) (T, bool, []Issue) {
	data, issues := f(x)
	return data, len(issues) == 0, issues
}

// schemaIssueError carries the full Issues list produced by a failed
// validation, preserved behind ValidationError.Err so that callers who need
// the structured list can errors.As for it.
type schemaIssueError struct {
	issues []Issue
}

func newSchemaIssueError(issues []Issue) error {
	return &schemaIssueError{issues: issues}
}

func (e *schemaIssueError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}

	msg := e.issues[0].Message
	for _, issue := range e.issues[1:] {
		msg += "; " + issue.Message
	}

	return msg
}

// Issues returns the structured per-field failures behind a
// schemaIssueError, for callers using errors.As.
func (e *schemaIssueError) Issues() []Issue {
	return e.issues
}
