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

package reactorhttp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowbase/reactor"
)

func TestFromAsyncWithErrorRequest(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "test")
	}))
	defer server.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

	values, err := reactor.Collect(FromAsyncWithError(Request(req, http.DefaultClient)))
	is.Len(values, 1)
	is.Equal(http.StatusOK, values[0].StatusCode)
	b, _ := io.ReadAll(values[0].Body)
	values[0].Body.Close()
	is.Equal("test\n", string(b))
	is.Nil(err)

	req, _ = http.NewRequest(http.MethodGet, "http://invalid.url", nil)

	values, err = reactor.Collect(FromAsyncWithError(Request(req, http.DefaultClient)))
	is.Equal([]*http.Response{}, values)
	is.ErrorContains(err, "dial tcp: lookup invalid.url")

	http.DefaultClient.CloseIdleConnections()
}

func TestFromAsyncSilentRequest(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	req, _ := http.NewRequest(http.MethodGet, "http://invalid.url", nil)

	// The silent variant never surfaces an Error notification: Collect
	// returns a nil error and zero values once the goroutine completes.
	values, err := reactor.Collect(FromAsync(Request(req, http.DefaultClient)))
	is.Equal([]*http.Response{}, values)
	is.Nil(err)

	http.DefaultClient.CloseIdleConnections()
}

func TestRequestJSON(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `"test"`)
	}))
	defer server.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

	values, err := reactor.Collect(RequestJSON[string](req, http.DefaultClient))
	is.Equal([]string{"test"}, values)
	is.Nil(err)

	http.DefaultClient.CloseIdleConnections()
}

func TestRequestJSON_InvalidBody(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `not json`)
	}))
	defer server.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

	values, err := reactor.Collect(RequestJSON[string](req, http.DefaultClient))
	is.Equal([]string{}, values)
	is.Contains(err.Error(), "invalid character")

	http.DefaultClient.CloseIdleConnections()
}

func TestRequestJSON_NilClient(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `"default client"`)
	}))
	defer server.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)

	values, err := reactor.Collect(RequestJSON[string](req, nil))
	is.Equal([]string{"default client"}, values)
	is.Nil(err)

	http.DefaultClient.CloseIdleConnections()
}

func TestFromAsyncTeardownBeforeSettle(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	started := make(chan struct{})
	release := make(chan struct{})

	p := NewPromise(func(ctx context.Context) (int, error) {
		close(started)

		select {
		case <-release:
			return 42, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	})

	received := 0
	sub := FromAsync(p).Subscribe(reactor.NewObserver(
		func(v int) { received = v },
		func(error) {},
		func() {},
	))

	<-started
	sub.Unsubscribe()
	close(release)

	is.Equal(0, received)
}

func TestMemoizeRunsFnOnce(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var calls int32

	p := NewPromise(func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 42, nil
	})

	obs := Memoize(p)

	first, err := reactor.Collect(obs)
	is.NoError(err)
	is.Equal([]int{42}, first)

	second, err := reactor.Collect(obs)
	is.NoError(err)
	is.Equal([]int{42}, second)

	is.EqualValues(1, atomic.LoadInt32(&calls))
}

func TestMemoizeSharesRejection(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	boom := fmt.Errorf("boom")

	p := NewPromise(func(ctx context.Context) (int, error) {
		return 0, boom
	})

	obs := Memoize(p)

	_, err := reactor.Collect(obs)
	is.ErrorContains(err, "boom")

	_, err = reactor.Collect(obs)
	is.ErrorContains(err, "boom")
}
