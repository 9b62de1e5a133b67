package executor_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"httplsp/internal/errs"
	"httplsp/internal/executor"
	"httplsp/internal/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDoer struct {
	calls atomic.Int32
	next  func(*http.Request) (*http.Response, error)
}

func (d *countingDoer) Do(r *http.Request) (*http.Response, error) {
	d.calls.Add(1)
	return d.next(r)
}

func passThrough() *countingDoer {
	return &countingDoer{next: http.DefaultClient.Do}
}

func strPtr(s string) *string { return &s }

func TestExecuteSuccess(t *testing.T) {
	var gotMethod, gotBody, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Get("X-Token")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("X-B", "2")
		w.Header().Add("X-A", "1")
		w.Header().Add("X-A", "3")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	doer := passThrough()
	x := executor.New(executor.WithDoer(doer))

	resp, err := x.Execute(context.Background(), parser.Request{
		Method:  "post",
		URL:     srv.URL + "/items",
		Headers: []parser.Header{{Name: "X-Token", Value: "abc"}},
		Body:    strPtr(`{"name":"a"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), doer.calls.Load())
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "abc", gotHeader)
	assert.Equal(t, `{"name":"a"}`, gotBody)

	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, "Created", resp.StatusText)
	assert.Equal(t, `{"ok":true}`, resp.Body)
	assert.GreaterOrEqual(t, resp.Duration, time.Duration(0))

	// Sorted by name, values of a name in received order.
	var names []string
	for _, h := range resp.Headers {
		names = append(names, h.Name+"="+h.Value)
	}
	require.GreaterOrEqual(t, len(names), 3)
	assert.Equal(t, []string{"X-A=1", "X-A=3", "X-B=2"}, names[len(names)-3:])
}

func TestExecuteRejectsBeforeSending(t *testing.T) {
	cases := []struct {
		name string
		req  parser.Request
	}{
		{"unsupported method", parser.Request{Method: "TRACE", URL: "http://localhost/"}},
		{"bad header name", parser.Request{Method: "GET", URL: "http://localhost/",
			Headers: []parser.Header{{Name: "Bad Header", Value: "x"}}}},
		{"bad header value", parser.Request{Method: "GET", URL: "http://localhost/",
			Headers: []parser.Header{{Name: "X-Ok", Value: "a\x00b"}}}},
		{"bad url", parser.Request{Method: "GET", URL: "http://[::1"}},
		{"relative url", parser.Request{Method: "GET", URL: "/users"}},
		{"unexpanded template", parser.Request{Method: "GET", URL: "{{host}}/users"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doer := passThrough()
			x := executor.New(executor.WithDoer(doer))

			_, err := x.Execute(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrValidation), "got %v", err)
			assert.Equal(t, int32(0), doer.calls.Load())
		})
	}
}

func TestExecuteUnsupportedMethodMessage(t *testing.T) {
	x := executor.New(executor.WithDoer(passThrough()))
	_, err := x.Execute(context.Background(), parser.Request{Method: "TRACE", URL: "http://localhost/"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported HTTP method: TRACE")
}

func TestExecuteTransportError(t *testing.T) {
	doer := &countingDoer{next: func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}}
	x := executor.New(executor.WithDoer(doer))

	_, err := x.Execute(context.Background(), parser.Request{Method: "GET", URL: "http://localhost:1/"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrExecution))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, int32(1), doer.calls.Load(), "transport errors must not be retried")
}

func TestExecuteTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	doer := passThrough()
	x := executor.New(executor.WithDoer(doer), executor.WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := x.Execute(context.Background(), parser.Request{Method: "GET", URL: srv.URL})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrExecution))
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, int32(1), doer.calls.Load())
}

func TestExecuteUnknownStatusText(t *testing.T) {
	doer := &countingDoer{next: func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: 599,
			Status:     "599",
			Header:     http.Header{},
			Body:       http.NoBody,
			Request:    r,
		}, nil
	}}
	x := executor.New(executor.WithDoer(doer))

	resp, err := x.Execute(context.Background(), parser.Request{Method: "GET", URL: "http://localhost/"})
	require.NoError(t, err)
	assert.Equal(t, 599, resp.Status)
	assert.Equal(t, executor.UnknownStatus, resp.StatusText)
	assert.Empty(t, resp.Body)
}

func TestExecuteServerReasonPhrase(t *testing.T) {
	doer := &countingDoer{next: func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: 200,
			Status:     "200 All Good",
			Header:     http.Header{},
			Body:       http.NoBody,
			Request:    r,
		}, nil
	}}
	x := executor.New(executor.WithDoer(doer))

	resp, err := x.Execute(context.Background(), parser.Request{Method: "GET", URL: "http://localhost/"})
	require.NoError(t, err)
	assert.Equal(t, "All Good", resp.StatusText)
}

func TestExecuteHostHeader(t *testing.T) {
	var got *http.Request
	doer := &countingDoer{next: func(r *http.Request) (*http.Response, error) {
		got = r
		return &http.Response{StatusCode: 204, Header: http.Header{}, Body: http.NoBody, Request: r}, nil
	}}
	x := executor.New(executor.WithDoer(doer))

	_, err := x.Execute(context.Background(), parser.Request{
		Method: "GET",
		URL:    "http://127.0.0.1/",
		Headers: []parser.Header{
			{Name: "Host", Value: "api.example.com"},
			{Name: "Accept", Value: "text/plain"},
			{Name: "Accept", Value: "application/json"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "api.example.com", got.Host)
	assert.Empty(t, got.Header.Get("Host"))
	assert.Equal(t, []string{"text/plain", "application/json"}, got.Header.Values("Accept"))
}
