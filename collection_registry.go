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

import "sync"

// registry is a process-wide name-keyed store shared by the collection and
// schema registries. Values are stored as `any` because Go generics cannot
// express a map holding Collection[T] for heterogeneous T; callers recover
// the concrete type with a type assertion in GetCollection/GetSchema.
//
// Re-registration under an existing name replaces the stored value; handles
// already returned to callers by a prior DefineCollection keep referencing
// the original instance (they hold the concrete pointer, not a live lookup)
// — only a fresh GetCollection/GetSchema call observes the replacement.
type registry struct {
	mu      sync.Mutex
	entries map[string]any
}

func newRegistry() *registry {
	return &registry{entries: map[string]any{}}
}

func (r *registry) set(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[name] = value
}

func (r *registry) get(name string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.entries[name]

	return v, ok
}

var (
	collectionRegistry = newRegistry()
	schemaRegistry     = newRegistry()
)

func registerCollection[T any](name string, c Collection[T]) {
	collectionRegistry.set(name, c)
}

func registerSchema[T any](name string, s Schema[T]) {
	schemaRegistry.set(name, s)
}

// GetCollection returns the Collection registered under name, if any. After
// a re-DefineCollection under the same name, GetCollection returns the new
// instance; callers already holding the old Collection[T] handle are
// unaffected.
func GetCollection[T any](name string) (Collection[T], bool) {
	v, ok := collectionRegistry.get(name)
	if !ok {
		return nil, false
	}

	c, ok := v.(Collection[T])

	return c, ok
}

// GetSchema returns the Schema registered under name, if any.
func GetSchema[T any](name string) (Schema[T], bool) {
	v, ok := schemaRegistry.get(name)
	if !ok {
		return nil, false
	}

	s, ok := v.(Schema[T])

	return s, ok
}
