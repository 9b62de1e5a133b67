package parser

import (
	"fmt"
	"slices"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
)

// HTTPGrammar is the name an http request grammar is registered under.
// DefaultQuery is written against it.
const HTTPGrammar = "http"

var (
	grammarsMu sync.RWMutex
	grammars   = map[string]func() *sitter.Language{
		"bash": bash.GetLanguage,
	}
)

// RegisterGrammar makes a tree-sitter language available to
// NewGrammarExtractor under name. A later registration replaces an earlier
// one.
func RegisterGrammar(name string, lang func() *sitter.Language) {
	grammarsMu.Lock()
	defer grammarsMu.Unlock()
	grammars[name] = lang
}

// Grammars lists the registered grammar names.
func Grammars() []string {
	grammarsMu.RLock()
	defer grammarsMu.RUnlock()
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewGrammarExtractor looks up a registered grammar and compiles query
// against it. An empty query means DefaultQuery.
func NewGrammarExtractor(grammar, query string, n int) (*SitterExtractor, error) {
	grammarsMu.RLock()
	lang, ok := grammars[grammar]
	grammarsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("grammar %q is not registered (have %v)", grammar, Grammars())
	}
	if query == "" {
		query = DefaultQuery
	}
	return NewSitterExtractor(lang(), query, n)
}
