package parser

// Boundary locates one request block inside a document.
// Lines are 0-based, matching LSP line numbers.
type Boundary struct {
	StartLine uint32
	EndLine   uint32
	Method    string
	URL       string
}

// Contains reports whether line lies within the block.
func (b Boundary) Contains(line uint32) bool {
	return line >= b.StartLine && line <= b.EndLine
}

func (b Boundary) valid() bool {
	return b.StartLine <= b.EndLine && b.Method != "" && b.URL != ""
}

// Header is a single name/value pair. Headers are kept as ordered slices,
// never maps.
type Header struct {
	Name  string
	Value string
}

// Request is a boundary expanded with its headers and body.
type Request struct {
	Method  string
	URL     string
	Headers []Header
	Body    *string
}

// Extractor turns document text into request boundaries in document order.
// Implementations never fail: text without requests yields an empty slice.
type Extractor interface {
	Boundaries(text string) []Boundary
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(text string) []Boundary

func (f ExtractorFunc) Boundaries(text string) []Boundary { return f(text) }
