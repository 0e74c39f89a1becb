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

// Package reactorwebsocket implements the fromWebSocket source adapter:
// per URL, at most one underlying socket is shared by every subscriber,
// reference-counted the same way reactor.Share reference-counts a
// multicast Observable.
package reactorwebsocket

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/flowbase/reactor"
)

type Serializer[T any] func(T) ([]byte, error)

type Deserializer[T any] func([]byte) (T, error)

// Config configures a websocket-backed Subject.
type Config[In any, Out any] struct {
	URL          string
	Headers      map[string]string
	Protocols    []string
	Serializer   Serializer[In]
	Deserializer Deserializer[Out]
	Dialer       *websocket.Dialer

	// OutputConnector creates the Subject fanning out received messages.
	// Defaults to a PublishSubject: late subscribers do not see messages
	// received before they subscribed.
	OutputConnector func() reactor.Subject[Out]

	// AutoReconnect, when true, redials after the connection drops
	// unexpectedly (not after a clean Complete).
	AutoReconnect bool
	// Retry bounds the number of reconnect attempts. Zero means no
	// reconnection is attempted even if AutoReconnect is true.
	Retry int
	// Backoff computes the delay before reconnect attempt n (1-based). A
	// nil Backoff reconnects immediately.
	Backoff func(attempt int) time.Duration
}

// sharedSocket is the per-URL, reference-counted connection state. Every
// Subscribe on a websocketSubject sharing the same URL increments refCount;
// the underlying socket is closed once it drops to zero.
type sharedSocket[In any, Out any] struct {
	mu       sync.Mutex
	config   Config[In, Out]
	conn     *websocket.Conn
	output   reactor.Subject[Out]
	refCount int
	attempts int
	open     bool
}

var (
	registryMu sync.Mutex
	registry   = map[string]any{}
)

func sharedSocketFor[In any, Out any](config Config[In, Out]) *sharedSocket[In, Out] {
	registryMu.Lock()
	defer registryMu.Unlock()

	if existing, ok := registry[config.URL]; ok {
		if s, ok := existing.(*sharedSocket[In, Out]); ok {
			return s
		}
	}

	s := &sharedSocket[In, Out]{config: config}
	registry[config.URL] = s

	return s
}

// Subject is a reactor.Subject backed by a shared websocket connection: Next
// sends a message, Subscribe receives incoming messages.
type Subject[In any, Out any] struct {
	shared *sharedSocket[In, Out]
}

var _ reactor.Subject[string] = (*Subject[string, string])(nil)

// NewSubject creates a websocket-backed Subject that both sends and
// receives messages on the socket at config.URL. Every NewSubject call for
// the same URL shares one underlying connection.
func NewSubject[In any, Out any](config Config[In, Out]) *Subject[In, Out] {
	if config.URL == "" {
		panic("reactorwebsocket.NewSubject: URL is required")
	}

	if config.Serializer == nil {
		panic("reactorwebsocket.NewSubject: Serializer is required")
	}

	if config.Deserializer == nil {
		panic("reactorwebsocket.NewSubject: Deserializer is required")
	}

	if config.Dialer == nil {
		config.Dialer = websocket.DefaultDialer
	}

	if config.OutputConnector == nil {
		config.OutputConnector = func() reactor.Subject[Out] {
			return reactor.NewPublishSubject[Out]()
		}
	}

	return &Subject[In, Out]{shared: sharedSocketFor(config)}
}

// Implements reactor.Observable[Out].
func (s *Subject[In, Out]) Subscribe(destination reactor.Observer[Out]) reactor.Subscription {
	return s.SubscribeWithContext(context.Background(), destination)
}

// Implements reactor.Observable[Out].
func (s *Subject[In, Out]) SubscribeWithContext(ctx context.Context, destination reactor.Observer[Out]) reactor.Subscription {
	output, err := s.shared.acquire()
	if err != nil {
		destination.ErrorWithContext(ctx, err)

		sub := reactor.NewSubscription(nil)
		sub.Unsubscribe()

		return sub
	}

	sub := output.SubscribeWithContext(ctx, destination)
	sub.Add(s.shared.release)

	return sub
}

// Send transmits value iff the socket is currently open; otherwise it
// returns a reactor.AdapterError describing the closed state.
func (s *Subject[In, Out]) Send(value In) error {
	return s.shared.send(value)
}

func (s *Subject[In, Out]) Next(value In) {
	_ = s.Send(value)
}

func (s *Subject[In, Out]) NextWithContext(ctx context.Context, value In) {
	if err := s.Send(value); err != nil {
		s.shared.output.ErrorWithContext(ctx, err)
	}
}

func (s *Subject[In, Out]) Error(err error)                       { s.shared.output.Error(err) }
func (s *Subject[In, Out]) ErrorWithContext(ctx context.Context, err error) {
	s.shared.output.ErrorWithContext(ctx, err)
}
func (s *Subject[In, Out]) Complete()                              { s.shared.close() }
func (s *Subject[In, Out]) CompleteWithContext(ctx context.Context) { s.shared.close() }
func (s *Subject[In, Out]) IsClosed() bool                         { return !s.shared.isOpen() }
func (s *Subject[In, Out]) HasThrown() bool                        { return s.shared.output.HasThrown() }
func (s *Subject[In, Out]) IsCompleted() bool                      { return s.shared.output.IsCompleted() }
func (s *Subject[In, Out]) HasObserver() bool                      { return s.shared.output.HasObserver() }
func (s *Subject[In, Out]) CountObservers() int                    { return s.shared.output.CountObservers() }
func (s *Subject[In, Out]) AsObservable() reactor.Observable[Out]  { return s }
func (s *Subject[In, Out]) AsObserver() reactor.Observer[In]       { return s }

func (s *sharedSocket[In, Out]) acquire() (reactor.Subject[Out], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refCount++

	if s.output == nil {
		s.output = s.config.OutputConnector()
	}

	if s.conn == nil {
		if err := s.dialLocked(); err != nil {
			return nil, err
		}
	}

	return s.output, nil
}

func (s *sharedSocket[In, Out]) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refCount--

	if s.refCount <= 0 && s.conn != nil {
		s.conn.Close()
		s.conn = nil
		s.open = false
	}
}

// dialLocked must be called with mu held.
func (s *sharedSocket[In, Out]) dialLocked() error {
	headers := http.Header{}
	for k, v := range s.config.Headers {
		headers.Set(k, v)
	}

	for _, p := range s.config.Protocols {
		headers.Add("Sec-WebSocket-Protocol", p)
	}

	conn, _, err := s.config.Dialer.Dial(s.config.URL, headers)
	if err != nil {
		return &reactor.AdapterError{Adapter: "websocket", Err: err}
	}

	s.conn = conn
	s.open = true
	s.attempts = 0

	go s.readLoop(conn)

	return nil
}

func (s *sharedSocket[In, Out]) readLoop(conn *websocket.Conn) {
	conn.SetPongHandler(func(string) error { return nil })

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			s.handleDisconnect(conn, err)
			return
		}

		if messageType == websocket.CloseMessage {
			s.handleDisconnect(conn, nil)
			return
		}

		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}

		value, err := s.config.Deserializer(message)
		if err != nil {
			s.output.ErrorWithContext(context.Background(), &reactor.AdapterError{Adapter: "websocket", Err: err})
			continue
		}

		s.output.NextWithContext(context.Background(), value)
	}
}

func (s *sharedSocket[In, Out]) handleDisconnect(conn *websocket.Conn, cause error) {
	s.mu.Lock()
	wasCurrent := s.conn == conn
	if wasCurrent {
		s.open = false
		s.conn = nil
	}
	shouldReconnect := wasCurrent && s.config.AutoReconnect && s.refCount > 0 && s.attempts < s.config.Retry
	if shouldReconnect {
		s.attempts++
	}
	attempt := s.attempts
	s.mu.Unlock()

	if !wasCurrent {
		return
	}

	if cause != nil && websocket.IsUnexpectedCloseError(cause, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
		s.output.ErrorWithContext(context.Background(), &reactor.AdapterError{Adapter: "websocket", Err: cause})
	}

	if !shouldReconnect {
		if s.refCount <= 0 || !s.config.AutoReconnect {
			s.output.CompleteWithContext(context.Background())
		}

		return
	}

	delay := time.Duration(0)
	if s.config.Backoff != nil {
		delay = s.config.Backoff(attempt)
	}

	time.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.refCount <= 0 || s.conn != nil {
			return
		}

		_ = s.dialLocked()
	})
}

func (s *sharedSocket[In, Out]) send(value In) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open || s.conn == nil {
		return &reactor.AdapterError{Adapter: "websocket", Err: fmt.Errorf("socket for %s is not open", s.config.URL)}
	}

	data, err := s.config.Serializer(value)
	if err != nil {
		return &reactor.AdapterError{Adapter: "websocket", Err: err}
	}

	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return &reactor.AdapterError{Adapter: "websocket", Err: err}
	}

	return nil
}

func (s *sharedSocket[In, Out]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}

	s.open = false
}

func (s *sharedSocket[In, Out]) isOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.open
}
