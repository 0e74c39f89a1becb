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

package reactorwebsocket

import "github.com/flowbase/reactor"

// NewObservable returns a receive-only Observable of messages received on
// config.URL. It shares the underlying connection with any other Subject/
// Observable/Observer constructed for the same URL.
func NewObservable[Out any](config Config[struct{}, Out]) reactor.Observable[Out] {
	if config.Serializer == nil {
		config.Serializer = func(struct{}) ([]byte, error) { return nil, nil }
	}

	return NewSubject[struct{}, Out](config)
}
