package parser_test

import (
	"sync/atomic"
	"testing"

	"httplsp/internal/parser"
)

func TestMemo(t *testing.T) {
	var calls atomic.Int32
	counting := parser.ExtractorFunc(func(text string) []parser.Boundary {
		calls.Add(1)
		return parser.Scanner{}.Boundaries(text)
	})

	m, err := parser.NewMemo(counting, 2)
	if err != nil {
		t.Fatalf("Failed to create memo: %v", err)
	}

	a := "GET https://example.com/a"
	b := "GET https://example.com/b"

	first := m.Boundaries(a)
	first[0].URL = "mutated"
	second := m.Boundaries(a)
	if calls.Load() != 1 {
		t.Errorf("Expected 1 parse, got %d", calls.Load())
	}
	if second[0].URL != "https://example.com/a" {
		t.Errorf("Cached boundaries were mutated: %v", second)
	}

	if got := m.Boundaries(b); got[0].URL != "https://example.com/b" {
		t.Errorf("Expected boundary of b, got %v", got)
	}
	if calls.Load() != 2 {
		t.Errorf("Expected 2 parses, got %d", calls.Load())
	}
	if m.Len() != 2 {
		t.Errorf("Expected 2 cached texts, got %d", m.Len())
	}
}

func TestMemoInvalidSize(t *testing.T) {
	if _, err := parser.NewMemo(parser.Scanner{}, 0); err == nil {
		t.Error("Expected size 0 to be rejected")
	}
}
