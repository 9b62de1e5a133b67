package commands

import (
	"fmt"
	"strings"

	"httplsp/internal/cache"
)

// FormatResponse renders status, timing, headers and body.
func FormatResponse(resp cache.Response) string {
	var sb strings.Builder
	writePreamble(&sb, resp)
	sb.WriteString("--- Headers ---\n")
	writeHeaders(&sb, resp)
	sb.WriteString("\n--- Body ---\n")
	sb.WriteString(resp.Body)
	return sb.String()
}

// FormatHeaders renders status, timing and headers only.
func FormatHeaders(resp cache.Response) string {
	var sb strings.Builder
	writePreamble(&sb, resp)
	writeHeaders(&sb, resp)
	return strings.TrimSuffix(sb.String(), "\n")
}

func writePreamble(sb *strings.Builder, resp cache.Response) {
	fmt.Fprintf(sb, "HTTP %d %s\n", resp.Status, resp.StatusText)
	fmt.Fprintf(sb, "Duration: %dms\n\n", resp.DurationMS())
}

func writeHeaders(sb *strings.Builder, resp cache.Response) {
	for _, h := range resp.Headers {
		fmt.Fprintf(sb, "%s: %s\n", h.Name, h.Value)
	}
}

// ResponsePath derives where the response of a document is saved: one
// trailing sourceSuffix is replaced by responseSuffix.
func ResponsePath(uri, sourceSuffix, responseSuffix string) string {
	return strings.TrimSuffix(uri, sourceSuffix) + responseSuffix
}
