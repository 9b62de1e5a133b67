// Package commands runs the editor commands that send requests and show
// their cached responses.
package commands

import (
	"context"
	"fmt"
	"log"

	"httplsp/internal/cache"
	"httplsp/internal/errs"
	"httplsp/internal/executor"
	"httplsp/internal/parser"

	"github.com/google/uuid"
)

const (
	Send         = "http.send"
	Show         = "http.show"
	ShowHeaders  = "http.showHeaders"
	SaveResponse = "http.saveResponse"
)

// Names lists every command in the order they are offered to the client.
var Names = []string{Send, Show, ShowHeaders, SaveResponse}

const noCachedResponse = "No cached response for this request. Send it first."

// SendResult is returned by send and both show variants.
type SendResult struct {
	Status     int    `json:"status"`
	Body       string `json:"body"`
	DurationMS int64  `json:"duration_ms"`
}

// SaveResult is returned by saveResponse.
type SaveResult struct {
	SavedTo string `json:"saved_to"`
	Status  int    `json:"status"`
}

// Documents gives access to the current text of open documents.
type Documents interface {
	Content(uri string) (string, bool)
}

type Dispatcher struct {
	docs      Documents
	extractor parser.Extractor
	exec      executor.Executor
	responses cache.Responses
	reporter  Reporter

	sourceSuffix   string
	responseSuffix string
}

type Option func(*Dispatcher)

// WithExtractor sets the extractor used to locate requests.
func WithExtractor(ex parser.Extractor) Option {
	return func(d *Dispatcher) { d.extractor = ex }
}

// WithReporter sets where formatted output is shown.
func WithReporter(r Reporter) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.reporter = r
		}
	}
}

// WithSuffixes sets the document suffix stripped from save paths and the
// suffix appended in its place.
func WithSuffixes(source, response string) Option {
	return func(d *Dispatcher) {
		d.sourceSuffix = source
		d.responseSuffix = response
	}
}

func NewDispatcher(docs Documents, exec executor.Executor, responses cache.Responses, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		docs:           docs,
		exec:           exec,
		responses:      responses,
		reporter:       LogReporter{},
		sourceSuffix:   ".http",
		responseSuffix: ".response",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Execute runs the named command.
func (d *Dispatcher) Execute(ctx context.Context, name string, args []any) (any, error) {
	id := uuid.NewString()
	ctx = withInvocation(ctx, id)
	log.Printf("[%s] %s %v", id, name, args)

	var (
		result any
		err    error
	)
	switch name {
	case Send:
		result, err = orNil(d.Send(ctx, args))
	case Show:
		result, err = orNil(d.Show(args))
	case ShowHeaders:
		result, err = orNil(d.ShowHeaders(args))
	case SaveResponse:
		result, err = orNil(d.SaveResponse(ctx, args))
	default:
		err = errs.New(errs.KindNotFound, "execute", "unknown command %q", name)
	}

	if err != nil {
		log.Printf("[%s] %s failed (%s): %v", id, name, errs.KindOf(err), err)
		return nil, err
	}
	log.Printf("[%s] %s done", id, name)
	return result, nil
}

// Send executes the request at the given line and caches its response.
func (d *Dispatcher) Send(ctx context.Context, args []any) (*SendResult, error) {
	_, resp, err := d.send(ctx, "send", args)
	if err != nil {
		return nil, err
	}
	d.reporter.Report(SeverityInfo, FormatResponse(resp))
	return sendResult(resp), nil
}

// SaveResponse executes the request like Send and reports where its
// response belongs. Writing the file is left to the client.
func (d *Dispatcher) SaveResponse(ctx context.Context, args []any) (*SaveResult, error) {
	target, resp, err := d.send(ctx, "saveResponse", args)
	if err != nil {
		return nil, err
	}
	path := ResponsePath(target.URI, d.sourceSuffix, d.responseSuffix)
	d.reporter.Report(SeverityInfo, fmt.Sprintf("Response would be saved to: %s\n\n%s", path, FormatResponse(resp)))
	return &SaveResult{SavedTo: path, Status: resp.Status}, nil
}

// Show reports the cached response of the request starting at line.
// A miss is reported as a warning and yields a nil result.
func (d *Dispatcher) Show(args []any) (*SendResult, error) {
	return d.show("show", args, FormatResponse)
}

// ShowHeaders is Show without the body.
func (d *Dispatcher) ShowHeaders(args []any) (*SendResult, error) {
	return d.show("showHeaders", args, FormatHeaders)
}

func (d *Dispatcher) show(op string, args []any, format func(cache.Response) string) (*SendResult, error) {
	target, err := ParseArgs(op, args)
	if err != nil {
		return nil, err
	}
	resp, ok := d.responses.Get(target.URI, target.Line)
	if !ok {
		d.reporter.Report(SeverityWarning, noCachedResponse)
		return nil, nil
	}
	d.reporter.Report(SeverityInfo, format(resp))
	return sendResult(resp), nil
}

// send resolves and executes the request, then stores the response under
// the start line of the request. The returned target carries that line.
func (d *Dispatcher) send(ctx context.Context, op string, args []any) (Target, cache.Response, error) {
	target, err := ParseArgs(op, args)
	if err != nil {
		return Target{}, cache.Response{}, err
	}

	content, ok := d.docs.Content(target.URI)
	if !ok {
		return Target{}, cache.Response{}, errs.New(errs.KindNotFound, op, "document not found: %s", target.URI)
	}

	// Locate and expand against the same snapshot of the text.
	b, ok := parser.Locate(d.extractor, content, target.Line)
	if !ok {
		return Target{}, cache.Response{}, errs.New(errs.KindNotFound, op, "no request at line %d", target.Line)
	}
	req, ok := parser.ExtractFull(content, b)
	if !ok {
		return Target{}, cache.Response{}, errs.New(errs.KindNotFound, op, "no request at line %d", target.Line)
	}

	resp, err := d.exec.Execute(ctx, req)
	if err != nil {
		if errs.KindOf(err) == errs.KindExecution {
			d.reporter.Report(SeverityError, fmt.Sprintf("Request failed [%s]: %v", invocation(ctx), err))
		}
		return Target{}, cache.Response{}, err
	}

	d.responses.Put(target.URI, b.StartLine, resp)
	target.Line = b.StartLine
	return target, resp, nil
}

func sendResult(resp cache.Response) *SendResult {
	return &SendResult{
		Status:     resp.Status,
		Body:       resp.Body,
		DurationMS: resp.DurationMS(),
	}
}

type invocationKey struct{}

func withInvocation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationKey{}, id)
}

// invocation returns the id Execute assigned, or a fresh one for direct
// calls, so failure reports can be matched with the log.
func invocation(ctx context.Context) string {
	if id, ok := ctx.Value(invocationKey{}).(string); ok {
		return id
	}
	id := uuid.NewString()
	log.Printf("[%s] direct call", id)
	return id
}

// orNil keeps a nil result nil once it is boxed in an interface.
func orNil[T any](v *T, err error) (any, error) {
	if v == nil {
		return nil, err
	}
	return v, err
}
