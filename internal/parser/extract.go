package parser

import (
	"strings"
)

var defaultExtractor Extractor = Scanner{}

// ExtractBoundaries returns the request boundaries of text using the
// built-in grammar.
func ExtractBoundaries(text string) []Boundary {
	return defaultExtractor.Boundaries(text)
}

// ExtractFull re-scans the lines of b in text. The request line is skipped;
// lines up to the first blank line are `name: value` headers (comments
// ignored), everything after it is body. It reports false when b starts
// beyond the end of text, which happens when b was computed against older
// text, or when b ends before it starts.
func ExtractFull(text string, b Boundary) (Request, bool) {
	lines := splitLines(text)
	start := int(b.StartLine)
	if start >= len(lines) {
		return Request{}, false
	}
	end := int(b.EndLine)
	if end >= len(lines) {
		end = len(lines) - 1
	}
	if end < start {
		return Request{}, false
	}

	req := Request{Method: b.Method, URL: b.URL}

	var body []string
	inBody := false
	for _, line := range lines[start+1 : end+1] {
		if inBody {
			body = append(body, line)
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			inBody = true
			continue
		}
		if isComment(trimmed) {
			continue
		}
		name, value, found := strings.Cut(trimmed, ":")
		if !found {
			continue
		}
		req.Headers = append(req.Headers, Header{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}

	if len(body) > 0 {
		joined := strings.Join(body, "\n")
		req.Body = &joined
	}
	return req, true
}

// Locate returns the first boundary of text whose block contains line.
func Locate(ex Extractor, text string, line uint32) (Boundary, bool) {
	if ex == nil {
		ex = defaultExtractor
	}
	for _, b := range ex.Boundaries(text) {
		if b.Contains(line) {
			return b, true
		}
	}
	return Boundary{}, false
}

// ResolveAt finds the first request of text whose block contains line.
// Boundaries are always derived from the text passed in.
func ResolveAt(ex Extractor, text string, line uint32) (Request, bool) {
	b, ok := Locate(ex, text, line)
	if !ok {
		return Request{}, false
	}
	return ExtractFull(text, b)
}

func isComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//")
}
