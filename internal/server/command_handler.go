package server

import (
	"context"
	"encoding/json"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) workspaceExecuteCommand(
	ctx *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	s.reporter.attach(ctx)
	return s.dispatcher.Execute(context.Background(), params.Command, normalizeArgs(params.Arguments))
}

// normalizeArgs turns json.Number and raw values into the plain types
// produced by encoding/json so argument checks see float64 lines.
func normalizeArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case json.Number:
			if f, err := v.Float64(); err == nil {
				out[i] = f
				continue
			}
			out[i] = v.String()
		case json.RawMessage:
			var decoded any
			if err := json.Unmarshal(v, &decoded); err == nil {
				out[i] = decoded
				continue
			}
			out[i] = v
		default:
			out[i] = a
		}
	}
	return out
}
