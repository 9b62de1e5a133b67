package server

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"httplsp/internal/commands"
	"httplsp/internal/parser"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var commandTitles = map[string]string{
	commands.Send:         "Send",
	commands.Show:         "Show response",
	commands.ShowHeaders:  "Show headers",
	commands.SaveResponse: "Save response",
}

func requestCommands(uri string, b parser.Boundary) []protocol.Command {
	cmds := make([]protocol.Command, 0, len(commands.Names))
	for _, name := range commands.Names {
		cmds = append(cmds, protocol.Command{
			Title:     commandTitles[name],
			Command:   name,
			Arguments: []any{uri, b.StartLine},
		})
	}
	return cmds
}

func lineRange(line uint32) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: line},
		End:   protocol.Position{Line: line},
	}
}

// textDocumentCodeLens offers every command on the first line of each
// request.
func (s *Server) textDocumentCodeLens(
	context *glsp.Context,
	params *protocol.CodeLensParams,
) ([]protocol.CodeLens, error) {
	uri := params.TextDocument.URI
	var lenses []protocol.CodeLens
	for _, b := range s.manager.Requests(uri) {
		for _, cmd := range requestCommands(uri, b) {
			lenses = append(lenses, protocol.CodeLens{
				Range:   lineRange(b.StartLine),
				Command: &cmd,
			})
		}
	}
	return lenses, nil
}

// textDocumentHover describes the request whose first line is under the
// cursor, with its last response if one is cached.
func (s *Server) textDocumentHover(
	context *glsp.Context,
	params *protocol.HoverParams,
) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	line := params.Position.Line
	for _, b := range s.manager.Requests(uri) {
		if b.StartLine != line {
			continue
		}
		r := lineRange(line)
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: s.hoverText(uri, b),
			},
			Range: &r,
		}, nil
	}
	return nil, nil
}

func (s *Server) hoverText(uri string, b parser.Boundary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** `%s`\n\n", b.Method, b.URL)
	if resp, ok := s.cache.Get(uri, b.StartLine); ok {
		fmt.Fprintf(&sb, "Last response: `%d %s` in %dms\n\n", resp.Status, resp.StatusText, resp.DurationMS())
	}
	links := make([]string, 0, len(commands.Names))
	for _, cmd := range requestCommands(uri, b) {
		links = append(links, commandLink(cmd))
	}
	sb.WriteString(strings.Join(links, " | "))
	return sb.String()
}

// commandLink renders cmd as a markdown link clients execute on click.
func commandLink(cmd protocol.Command) string {
	args, err := json.Marshal(cmd.Arguments)
	if err != nil {
		return cmd.Title
	}
	return fmt.Sprintf("[%s](command:%s?%s)", cmd.Title, cmd.Command, url.QueryEscape(string(args)))
}

// textDocumentCodeAction offers the commands of the request containing the
// start of the selection.
func (s *Server) textDocumentCodeAction(
	context *glsp.Context,
	params *protocol.CodeActionParams,
) (any, error) {
	uri := params.TextDocument.URI
	line := params.Range.Start.Line

	var actions []protocol.CodeAction
	for _, b := range s.manager.Requests(uri) {
		if !b.Contains(line) {
			continue
		}
		for _, cmd := range requestCommands(uri, b) {
			actions = append(actions, protocol.CodeAction{
				Title:   fmt.Sprintf("%s: %s %s", cmd.Title, b.Method, b.URL),
				Command: &cmd,
			})
		}
		break
	}
	return actions, nil
}
