package parser

import (
	"regexp"
	"strings"
)

// requestLineRe matches `METHOD target [HTTP/x.y]`. The target must be an
// absolute url, an origin-form path or a {{template}} so that ordinary prose
// is not mistaken for a request.
var requestLineRe = regexp.MustCompile(
	`^([A-Z]+)[ \t]+((?:[A-Za-z][A-Za-z0-9+.-]*://|/|\{\{)\S*)(?:[ \t]+HTTP/\d+(?:\.\d+)?)?$`,
)

type scanState int

const (
	stateIdle scanState = iota
	stateHeaders
	stateBody
)

// Scanner is the built-in request grammar for .http files:
//
//	file      = { separator | comment | text | request }
//	separator = "###" { any }
//	request   = request-line { header-line } [ blank { body-line } ]
//
// A request line opens a block unless it appears inside a body; in a body it
// only opens a new block when it follows a blank line. A block ends at its
// last non-blank line before the next block, separator or end of text.
type Scanner struct{}

func (Scanner) Boundaries(text string) []Boundary {
	var (
		boundaries []Boundary
		current    *Boundary
		state      = stateIdle
		last       uint32
		prevBlank  bool
	)

	flush := func() {
		if current != nil {
			current.EndLine = last
			if current.valid() {
				boundaries = append(boundaries, *current)
			}
			current = nil
		}
		state = stateIdle
	}

	for i, line := range splitLines(text) {
		row := uint32(i)
		trimmed := strings.TrimSpace(line)
		blank := trimmed == ""

		switch {
		case strings.HasPrefix(trimmed, "###"):
			flush()
		case blank:
			if state == stateHeaders {
				state = stateBody
			}
		default:
			method, url, ok := parseRequestLine(trimmed)
			if ok && (state != stateBody || prevBlank) {
				flush()
				current = &Boundary{StartLine: row, Method: method, URL: url}
				state = stateHeaders
				last = row
			} else if state != stateIdle {
				last = row
			}
		}
		prevBlank = blank
	}
	flush()

	return boundaries
}

func parseRequestLine(trimmed string) (method string, url string, ok bool) {
	m := requestLineRe.FindStringSubmatch(trimmed)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
