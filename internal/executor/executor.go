package executor

import (
	"context"
	"errors"
	"log"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"httplsp/internal/cache"
	"httplsp/internal/errs"
	"httplsp/internal/parser"

	"github.com/gogama/httpx"
	"github.com/gogama/httpx/request"
	"github.com/gogama/httpx/retry"
	"github.com/gogama/httpx/timeout"
	"golang.org/x/net/http/httpguts"
)

// DefaultTimeout bounds the wall-clock time of a single request.
const DefaultTimeout = 30 * time.Second

// UnknownStatus is reported when neither the transport nor net/http know a
// reason phrase for the status code.
const UnknownStatus = "Unknown"

var allowedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
	http.MethodPatch:   true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// Executor sends a request and captures its response.
type Executor interface {
	Execute(ctx context.Context, req parser.Request) (cache.Response, error)
}

type valueKey int

const (
	attemptStart valueKey = iota
	attemptElapsed
)

// HTTPExecutor sends requests with an httpx client that never retries and
// times out after a fixed duration.
type HTTPExecutor struct {
	client  *httpx.Client
	timeout time.Duration
}

type Option func(*HTTPExecutor)

// WithDoer replaces the transport, typically with a test double.
func WithDoer(doer httpx.HTTPDoer) Option {
	return func(x *HTTPExecutor) { x.client.HTTPDoer = doer }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(x *HTTPExecutor) {
		if d > 0 {
			x.timeout = d
		}
	}
}

func New(opts ...Option) *HTTPExecutor {
	x := &HTTPExecutor{
		client: &httpx.Client{
			HTTPDoer:    &http.Client{},
			RetryPolicy: retry.Never,
			Handlers:    attemptTimer(),
		},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(x)
	}
	x.client.TimeoutPolicy = timeout.Fixed(x.timeout)
	return x
}

// attemptTimer records how long the network exchange of an attempt took,
// from just before the request is written until the body has been read.
func attemptTimer() *httpx.HandlerGroup {
	g := &httpx.HandlerGroup{}
	g.PushBack(httpx.BeforeAttempt, httpx.HandlerFunc(func(_ httpx.Event, e *request.Execution) {
		e.SetValue(attemptStart, time.Now())
	}))
	g.PushBack(httpx.AfterAttempt, httpx.HandlerFunc(func(_ httpx.Event, e *request.Execution) {
		if start, ok := e.Value(attemptStart).(time.Time); ok {
			e.SetValue(attemptElapsed, time.Since(start))
		}
	}))
	return g
}

// Execute validates req, sends it and normalises the response. Validation
// failures are reported before any network activity.
func (x *HTTPExecutor) Execute(ctx context.Context, req parser.Request) (cache.Response, error) {
	const op = "execute"

	plan, err := x.plan(ctx, req)
	if err != nil {
		return cache.Response{}, err
	}

	e, err := x.client.Do(plan)
	if err != nil {
		log.Printf("%s %s failed: %v", plan.Method, req.URL, err)
		if (e != nil && e.Timeout()) || errors.Is(err, context.DeadlineExceeded) {
			return cache.Response{}, errs.Wrap(errs.KindExecution, op, err, "request timed out after %s", x.timeout)
		}
		return cache.Response{}, errs.Wrap(errs.KindExecution, op, err, "request failed")
	}

	elapsed, ok := e.Value(attemptElapsed).(time.Duration)
	if !ok {
		elapsed = e.Duration()
	}

	return cache.Response{
		Status:     e.StatusCode(),
		StatusText: reasonPhrase(e.Response),
		Headers:    responseHeaders(e.Header()),
		Body:       string(e.Body),
		Duration:   elapsed,
	}, nil
}

func (x *HTTPExecutor) plan(ctx context.Context, req parser.Request) (*request.Plan, error) {
	const op = "execute"

	method := strings.ToUpper(req.Method)
	if !allowedMethods[method] {
		return nil, errs.New(errs.KindValidation, op, "unsupported HTTP method: %s", req.Method)
	}

	for _, h := range req.Headers {
		if !httpguts.ValidHeaderFieldName(h.Name) {
			return nil, errs.New(errs.KindValidation, op, "invalid header name %q", h.Name)
		}
		if !httpguts.ValidHeaderFieldValue(h.Value) {
			return nil, errs.New(errs.KindValidation, op, "invalid header value for %q: %q", h.Name, h.Value)
		}
	}

	var body any
	if req.Body != nil {
		body = *req.Body
	}
	plan, err := request.NewPlanWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, errs.Wrap(errs.KindValidation, op, err, "invalid URL %q", req.URL)
	}
	if plan.URL.Scheme == "" || plan.URL.Host == "" {
		return nil, errs.New(errs.KindValidation, op, "invalid URL %q: not absolute", req.URL)
	}

	for _, h := range req.Headers {
		if strings.EqualFold(h.Name, "Host") {
			plan.Host = h.Value
			continue
		}
		plan.Header.Add(h.Name, h.Value)
	}
	return plan, nil
}

// reasonPhrase prefers the phrase sent by the server, then the one net/http
// knows for the code.
func reasonPhrase(resp *http.Response) string {
	if resp == nil {
		return UnknownStatus
	}
	code := strconv.Itoa(resp.StatusCode)
	if phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); phrase != "" {
		return phrase
	}
	if phrase := http.StatusText(resp.StatusCode); phrase != "" {
		return phrase
	}
	return UnknownStatus
}

// responseHeaders flattens h sorted by name. Values of one name keep the
// order they were received in.
func responseHeaders(h http.Header) []parser.Header {
	var headers []parser.Header
	for _, name := range slices.Sorted(maps.Keys(h)) {
		for _, v := range h[name] {
			headers = append(headers, parser.Header{Name: name, Value: v})
		}
	}
	return headers
}
