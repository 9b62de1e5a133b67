package server

import (
	"fmt"
	"io"
	"log"
	"runtime"

	"httplsp/internal/cache"
	"httplsp/internal/commands"
	"httplsp/internal/config"
	"httplsp/internal/executor"
	"httplsp/internal/manager"
	"httplsp/internal/parser"

	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

const Name = "http-lsp"

type Server struct {
	handler    *protocol.Handler
	config     config.Config
	manager    *manager.DocumentManager
	cache      *cache.Cache
	extractor  parser.Extractor
	closer     io.Closer
	dispatcher *commands.Dispatcher
	reporter   *clientReporter
	version    string
}

// New wires the document store, response cache and command dispatcher
// with the default configuration. initialize rebuilds them from the
// client's options.
func New(version string) (*Server, error) {
	s := &Server{
		reporter: &clientReporter{},
		version:  version,
	}
	if err := s.configure(config.Default()); err != nil {
		return nil, err
	}
	s.handler = &protocol.Handler{
		Initialize:              s.initialize,
		Initialized:             s.initialized,
		Shutdown:                s.shutdown,
		SetTrace:                s.setTrace,
		TextDocumentDidOpen:     s.textDocumentDidOpen,
		TextDocumentDidChange:   s.textDocumentDidChange,
		TextDocumentDidClose:    s.textDocumentDidClose,
		TextDocumentCodeLens:    s.textDocumentCodeLens,
		TextDocumentHover:       s.textDocumentHover,
		TextDocumentCodeAction:  s.textDocumentCodeAction,
		WorkspaceExecuteCommand: s.workspaceExecuteCommand,
	}
	return s, nil
}

// NewServer returns the glsp server speaking for s.
func NewServer(version string) (*server.Server, error) {
	s, err := New(version)
	if err != nil {
		return nil, err
	}
	return server.NewServer(s.handler, Name, false), nil
}

// NewExtractor builds the extractor cfg selects. The closer is nil for
// extractors holding no resources.
func NewExtractor(cfg config.Config) (parser.Extractor, io.Closer, error) {
	switch cfg.Extractor {
	case config.ExtractorTreeSitter:
		se, err := parser.NewGrammarExtractor(cfg.Grammar, cfg.Query, runtime.GOMAXPROCS(0))
		if err != nil {
			return nil, nil, err
		}
		return se, se, nil
	case config.ExtractorScanner, "":
		return parser.Scanner{}, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown extractor %q", cfg.Extractor)
	}
}

func (s *Server) configure(cfg config.Config) error {
	ex, closer, err := NewExtractor(cfg)
	if err != nil {
		return err
	}
	memo, err := parser.NewMemo(ex, cfg.ParseCacheSize)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return err
	}

	responses := cache.NewCache()
	dm := manager.NewDocumentManager(memo)
	dm.OnClose(func(uri string) { responses.Drop(uri) })

	exec := executor.New(executor.WithTimeout(cfg.Timeout.Std()))

	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			log.Printf("failed to release extractor: %v", err)
		}
	}

	s.config = cfg
	s.extractor = memo
	s.closer = closer
	s.cache = responses
	s.manager = dm
	s.dispatcher = commands.NewDispatcher(dm, exec, responses,
		commands.WithExtractor(memo),
		commands.WithReporter(s.reporter),
		commands.WithSuffixes(cfg.SourceSuffix, cfg.ResponseSuffix),
	)
	return nil
}
