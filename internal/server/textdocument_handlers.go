package server

import (
	"fmt"
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	s.reporter.attach(context)
	s.manager.Open(params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	uri := params.TextDocument.URI
	text, ok := s.manager.Content(uri)
	if !ok {
		log.Printf("ignoring change for unopened document %s", uri)
		return nil
	}
	text, err := applyChanges(text, params.ContentChanges)
	if err != nil {
		return err
	}
	s.manager.Update(uri, text)
	return nil
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	s.manager.Close(params.TextDocument.URI)
	return nil
}

// applyChanges reduces change events to the full resulting text. Whole
// document events replace the text; ranged events are spliced in order.
func applyChanges(text string, changes []any) (string, error) {
	for _, raw := range changes {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = change.Text
		case protocol.TextDocumentContentChangeEvent:
			if change.Range == nil {
				text = change.Text
				continue
			}
			start, end := change.Range.IndexesIn(text)
			if start < 0 || end < start || end > len(text) {
				return "", fmt.Errorf("change range %v outside document", *change.Range)
			}
			text = text[:start] + change.Text + text[end:]
		default:
			return "", fmt.Errorf("unexpected change event type %T", raw)
		}
	}
	return text, nil
}
