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

// NewObserver returns a send-only Observer writing messages to config.URL.
// Next drops the error of a failed send; NextWithContext reports it as an
// Error on the internal output Subject, which the returned Observer does not
// expose. Use NewSubject directly when failed sends need to be observed via
// Send.
func NewObserver[In any](config Config[In, struct{}]) reactor.Observer[In] {
	if config.Deserializer == nil {
		config.Deserializer = func([]byte) (struct{}, error) { return struct{}{}, nil }
	}

	if config.OutputConnector == nil {
		config.OutputConnector = func() reactor.Subject[struct{}] {
			return reactor.NewPublishSubject[struct{}]()
		}
	}

	return NewSubject[In, struct{}](config)
}
