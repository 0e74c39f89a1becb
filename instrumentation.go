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
	"sync"
	"time"

	"github.com/flowbase/reactor/internal/xtime"
)

// RegisteredObservable, RegisteredOperator and RegisteredLiveQuery are the
// entries an Instrumentation registry tracks. RegisteredAtNano is a
// monotonic timestamp suited to high-frequency registration, not a wall
// clock; pair it with a Snapshot's TakenAtNano to compute age.
type RegisteredObservable struct {
	Name            string
	RegisteredAtNano int64
}

type RegisteredOperator struct {
	Name            string
	RegisteredAtNano int64
}

type RegisteredLiveQuery struct {
	Name            string
	RegisteredAtNano int64
}

// Snapshot is one point-in-time read of an Instrumentation registry.
type Snapshot struct {
	TakenAtNano int64
	Observables []RegisteredObservable
	Operators   []RegisteredOperator
	LiveQueries []RegisteredLiveQuery
}

// Instrumentation is an optional diagnostics registry: embedding code that
// never calls Register* or Snapshots pays nothing beyond the struct
// allocation. It is safe for concurrent use.
type Instrumentation struct {
	mu          sync.Mutex
	observables []RegisteredObservable
	operators   []RegisteredOperator
	liveQueries []RegisteredLiveQuery
}

// NewInstrumentation creates an empty diagnostics registry.
func NewInstrumentation() *Instrumentation {
	return &Instrumentation{}
}

// RegisterObservable records that an Observable named name has been
// constructed.
func (d *Instrumentation) RegisterObservable(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observables = append(d.observables, RegisteredObservable{Name: name, RegisteredAtNano: xtime.NowNanoMonotonic()})
}

// RegisterOperator records that an operator named name has been applied.
func (d *Instrumentation) RegisterOperator(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.operators = append(d.operators, RegisteredOperator{Name: name, RegisteredAtNano: xtime.NowNanoMonotonic()})
}

// RegisterLiveQuery records that a collection live query named name has
// been created.
func (d *Instrumentation) RegisterLiveQuery(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.liveQueries = append(d.liveQueries, RegisteredLiveQuery{Name: name, RegisteredAtNano: xtime.NowNanoMonotonic()})
}

// Snapshot returns a defensive copy of the registry's current contents.
func (d *Instrumentation) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	observables := make([]RegisteredObservable, len(d.observables))
	copy(observables, d.observables)

	operators := make([]RegisteredOperator, len(d.operators))
	copy(operators, d.operators)

	liveQueries := make([]RegisteredLiveQuery, len(d.liveQueries))
	copy(liveQueries, d.liveQueries)

	return Snapshot{
		TakenAtNano: xtime.NowNanoMonotonic(),
		Observables: observables,
		Operators:   operators,
		LiveQueries: liveQueries,
	}
}

// Snapshots returns an Observable emitting a Snapshot every period. Nothing
// is scheduled until the first subscribe, and the underlying ticker is
// released on unsubscribe, same as every other timed operator in this
// package.
func (d *Instrumentation) Snapshots(period time.Duration) Observable[Snapshot] {
	return Pipe1(Interval(period), Map(func(int64) Snapshot {
		return d.Snapshot()
	}))
}
