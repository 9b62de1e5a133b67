package errs

import (
	"errors"
	"fmt"
)

// Kind classifies command failures.
type Kind int

const (
	KindParameter Kind = iota + 1
	KindNotFound
	KindValidation
	KindExecution
)

var (
	// ErrParameter is matched by errors caused by missing or malformed command arguments
	ErrParameter = errors.New("invalid parameters")

	// ErrNotFound is matched when a document or request could not be located
	ErrNotFound = errors.New("not found")

	// ErrValidation is matched when a request is rejected before it is sent
	ErrValidation = errors.New("validation failed")

	// ErrExecution is matched when sending a request failed or timed out
	ErrExecution = errors.New("execution failed")
)

func (k Kind) String() string {
	switch k {
	case KindParameter:
		return "parameter"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindExecution:
		return "execution"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) sentinel() error {
	switch k {
	case KindParameter:
		return ErrParameter
	case KindNotFound:
		return ErrNotFound
	case KindValidation:
		return ErrValidation
	case KindExecution:
		return ErrExecution
	}
	return nil
}

// Error is the failure returned by the command pipeline.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func New(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, op string, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or 0 when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
