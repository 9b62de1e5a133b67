package manager

import (
	"log"
	"slices"
	"sync"
	"sync/atomic"

	"httplsp/internal/parser"
)

// Document is an immutable snapshot of an open document together with the
// request boundaries derived from exactly this content.
type Document struct {
	URI        string
	Content    string
	Boundaries []parser.Boundary
}

type entry struct {
	mu  sync.Mutex // serialises writers of one uri
	doc atomic.Pointer[Document]
}

// DocumentManager holds the open documents keyed by URI. Readers never
// block; writers of one URI are serialised, different URIs are independent.
type DocumentManager struct {
	docs      sync.Map // uri -> *entry
	extractor parser.Extractor
	onClose   func(uri string)
}

// NewDocumentManager creates a manager deriving boundaries with ex
// (the built-in scanner when nil).
func NewDocumentManager(ex parser.Extractor) *DocumentManager {
	if ex == nil {
		ex = parser.Scanner{}
	}
	return &DocumentManager{extractor: ex}
}

// OnClose registers a hook run after a document has been removed.
func (dm *DocumentManager) OnClose(fn func(uri string)) {
	dm.onClose = fn
}

func (dm *DocumentManager) snapshot(uri, content string) *Document {
	return &Document{
		URI:        uri,
		Content:    content,
		Boundaries: dm.extractor.Boundaries(content),
	}
}

// Open creates or replaces the document for uri.
func (dm *DocumentManager) Open(uri string, content string) {
	for {
		v, _ := dm.docs.LoadOrStore(uri, &entry{})
		e := v.(*entry)

		e.mu.Lock()
		// A concurrent Close may have dropped e before we got the lock.
		if current, ok := dm.docs.Load(uri); ok && current == e {
			e.doc.Store(dm.snapshot(uri, content))
			e.mu.Unlock()
			return
		}
		e.mu.Unlock()
	}
}

// Update replaces the content of an open document. Unknown URIs are ignored.
func (dm *DocumentManager) Update(uri string, content string) {
	v, ok := dm.docs.Load(uri)
	if !ok {
		log.Printf("Ignoring update of unopened document %s", uri)
		return
	}
	e := v.(*entry)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc.Load() == nil {
		return
	}
	e.doc.Store(dm.snapshot(uri, content))
}

// Close removes the document and runs the close hook.
func (dm *DocumentManager) Close(uri string) {
	if v, ok := dm.docs.Load(uri); ok {
		e := v.(*entry)
		e.mu.Lock()
		dm.docs.CompareAndDelete(uri, e)
		e.doc.Store(nil)
		e.mu.Unlock()
	}
	if dm.onClose != nil {
		dm.onClose(uri)
	}
}

// Snapshot returns the current generation of a document.
func (dm *DocumentManager) Snapshot(uri string) (*Document, bool) {
	v, ok := dm.docs.Load(uri)
	if !ok {
		return nil, false
	}
	doc := v.(*entry).doc.Load()
	return doc, doc != nil
}

// Content returns the full text of a document.
func (dm *DocumentManager) Content(uri string) (string, bool) {
	doc, ok := dm.Snapshot(uri)
	if !ok {
		return "", false
	}
	return doc.Content, true
}

// Requests returns the request boundaries of a document.
func (dm *DocumentManager) Requests(uri string) []parser.Boundary {
	doc, ok := dm.Snapshot(uri)
	if !ok {
		return nil
	}
	return slices.Clone(doc.Boundaries)
}

// URIs lists the open documents.
func (dm *DocumentManager) URIs() []string {
	var uris []string
	dm.docs.Range(func(k, _ any) bool {
		uris = append(uris, k.(string))
		return true
	})
	return uris
}

// CloseAll closes every open document.
func (dm *DocumentManager) CloseAll() {
	for _, uri := range dm.URIs() {
		dm.Close(uri)
	}
}
