package parser

import (
	"context"
	"fmt"
	"log"

	sitter "github.com/smacker/go-tree-sitter"
)

// DefaultQuery selects the method, target url and enclosing block of every
// request in the tree-sitter-http grammar.
const DefaultQuery = `
(request
  (method) @method
  (target_url) @url
) @request
`

const (
	methodCapture  = "method"
	urlCapture     = "url"
	requestCapture = "request"
)

// SitterExtractor finds request boundaries by running a tree-sitter query.
// The grammar is supplied by the caller; captures must be named
// @method, @url and @request.
type SitterExtractor struct {
	pool  chan *sitter.Parser
	lang  *sitter.Language
	query *sitter.Query
}

// NewSitterExtractor compiles query against lang and prepares n parsers.
func NewSitterExtractor(lang *sitter.Language, query string, n int) (*SitterExtractor, error) {
	if lang == nil {
		return nil, fmt.Errorf("no language given")
	}
	if n < 1 {
		n = 1
	}
	q, err := sitter.NewQuery([]byte(query), lang)
	if err != nil {
		return nil, fmt.Errorf("failed to compile request query: %w", err)
	}
	se := &SitterExtractor{
		pool:  make(chan *sitter.Parser, n),
		lang:  lang,
		query: q,
	}
	for i := 0; i < n; i++ {
		p := sitter.NewParser()
		p.SetLanguage(lang)
		se.pool <- p
	}
	return se, nil
}

// Boundaries parses text with a pooled parser and collects one boundary per
// query match. A failed parse yields no boundaries.
func (se *SitterExtractor) Boundaries(text string) []Boundary {
	source := []byte(text)

	p := <-se.pool
	defer func() { se.pool <- p }()

	tree, err := p.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		if err != nil {
			log.Printf("tree-sitter parse failed: %v", err)
		}
		return nil
	}
	defer tree.Close()

	return executeQuery(tree.RootNode(), se.query, source)
}

func executeQuery(root *sitter.Node, q *sitter.Query, source []byte) []Boundary {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	var boundaries []Boundary
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		m = qc.FilterPredicates(m, source)

		var b Boundary
		for _, c := range m.Captures {
			switch q.CaptureNameForId(c.Index) {
			case methodCapture:
				b.Method = c.Node.Content(source)
			case urlCapture:
				b.URL = c.Node.Content(source)
			case requestCapture:
				b.StartLine, b.EndLine = nodeRows(c.Node)
			}
		}
		if b.valid() {
			boundaries = append(boundaries, b)
		}
	}
	return boundaries
}

// nodeRows returns the rows a node covers. Nodes that swallow their trailing
// newline end at column 0 of the next row; that row is not part of the block.
func nodeRows(n *sitter.Node) (uint32, uint32) {
	start := n.StartPoint()
	end := n.EndPoint()
	if end.Column == 0 && end.Row > start.Row {
		return start.Row, end.Row - 1
	}
	return start.Row, end.Row
}

// Close releases the pooled parsers and the compiled query. It must not be
// called while Boundaries is running.
func (se *SitterExtractor) Close() error {
	close(se.pool)
	for p := range se.pool {
		p.Close()
	}
	se.query.Close()
	return nil
}
