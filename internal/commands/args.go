package commands

import (
	"encoding/json"
	"math"

	"httplsp/internal/errs"
)

// Target addresses a request: a document and a line inside it.
type Target struct {
	URI  string
	Line uint32
}

// ParseArgs validates the positional (uri, line) arguments of a command.
// Numbers decoded from JSON arrive as float64 and must be integral.
func ParseArgs(op string, args []any) (Target, error) {
	if len(args) != 2 {
		return Target{}, errs.New(errs.KindParameter, op, "expected 2 arguments (uri, line), got %d: %v", len(args), args)
	}

	uri, ok := args[0].(string)
	if !ok || uri == "" {
		return Target{}, errs.New(errs.KindParameter, op, "argument uri must be a non-empty string, got %T %v", args[0], args[0])
	}

	line, ok := toLine(args[1])
	if !ok {
		return Target{}, errs.New(errs.KindParameter, op, "argument line must be a non-negative integer, got %T %v", args[1], args[1])
	}
	return Target{URI: uri, Line: line}, nil
}

func toLine(v any) (uint32, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint32:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		f = float64(i)
	default:
		return 0, false
	}
	if f < 0 || f > math.MaxUint32 || f != math.Trunc(f) || math.IsNaN(f) {
		return 0, false
	}
	return uint32(f), true
}
