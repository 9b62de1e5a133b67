// Package cache keeps the most recent response of every request that was
// sent, addressed by document URI and request start line.
package cache

import (
	"time"

	"httplsp/internal/parser"
)

// Key addresses a cached response. Line is the start line of the request
// at the time it was sent.
type Key struct {
	URI  string
	Line uint32
}

// Response is a captured HTTP response.
type Response struct {
	Status     int
	StatusText string
	Headers    []parser.Header
	Body       string
	Duration   time.Duration
}

// DurationMS returns the elapsed time in whole milliseconds.
func (r Response) DurationMS() int64 {
	return r.Duration.Milliseconds()
}

// Responses is the read/write surface used by commands and UI providers.
type Responses interface {
	Put(uri string, line uint32, resp Response)
	Get(uri string, line uint32) (Response, bool)
	Drop(uri string) int
}
