package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"httplsp/internal/errs"
)

func TestKindMatching(t *testing.T) {
	cases := []struct {
		kind     errs.Kind
		sentinel error
	}{
		{errs.KindParameter, errs.ErrParameter},
		{errs.KindNotFound, errs.ErrNotFound},
		{errs.KindValidation, errs.ErrValidation},
		{errs.KindExecution, errs.ErrExecution},
	}

	for _, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			err := fmt.Errorf("outer: %w", errs.New(c.kind, "op", "boom"))
			if !errors.Is(err, c.sentinel) {
				t.Errorf("expected %v to match %v", err, c.sentinel)
			}
			if errs.KindOf(err) != c.kind {
				t.Errorf("expected kind %v, got %v", c.kind, errs.KindOf(err))
			}
			for _, other := range cases {
				if other.kind != c.kind && errors.Is(err, other.sentinel) {
					t.Errorf("%v unexpectedly matched %v", err, other.sentinel)
				}
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := errs.Wrap(errs.KindExecution, "send", cause, "request failed")

	if got, want := err.Error(), "send: request failed: dial tcp: connection refused"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable")
	}
	if errs.KindOf(cause) != 0 {
		t.Error("plain errors carry no kind")
	}
}
