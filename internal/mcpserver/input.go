package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/erraggy/refinline/document"
	"github.com/erraggy/refinline/loader"
	"github.com/erraggy/refinline/resolver"
)

// docInput represents the three ways a document can be provided to a tool.
// Exactly one of File, URL, or Content must be set.
type docInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a JSON, YAML, TOML, GraphQL or XML document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch the document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline document content. Inline content may only reference itself"`
	Format  string `json:"format,omitempty"  jsonschema:"Format of inline content: json, yaml, toml, graphql or xml. Default: try json then yaml"`
}

// source describes the input for tool output.
func (in docInput) source() string {
	switch {
	case in.File != "":
		return in.File
	case in.URL != "":
		return in.URL
	default:
		return "<content>"
	}
}

// sessionStores holds the original and resolved stores shared by the tool
// calls of one server session. Cached local documents are tracked by
// modification time; when any of them changes on disk both stores are
// dropped.
type sessionStores struct {
	mu       sync.Mutex
	original *resolver.Store
	resolved *resolver.Store
	modTimes map[document.Identity]time.Time
}

var session = newSessionStores()

func newSessionStores() *sessionStores {
	return &sessionStores{
		original: resolver.NewStore(),
		resolved: resolver.NewStore(),
		modTimes: make(map[document.Identity]time.Time),
	}
}

// acquire returns the stores to resolve with. With caching disabled every
// call gets fresh stores.
func (s *sessionStores) acquire() (original, resolved *resolver.Store) {
	if !cfg.CacheEnabled {
		return resolver.NewStore(), resolver.NewStore()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stale := false
	for id, seen := range s.modTimes {
		info, err := os.Stat(filepath.FromSlash(id.Path()))
		if err != nil || !seen.Equal(info.ModTime()) {
			stale = true
			break
		}
	}
	if stale {
		s.original.Reset()
		s.resolved.Reset()
		clear(s.modTimes)
	}
	return s.original, s.resolved
}

// track records the modification time of every cached local document not
// tracked yet.
func (s *sessionStores) track() {
	if !cfg.CacheEnabled {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.original.Identities() {
		if id.Kind() != document.KindLocal {
			continue
		}
		if _, ok := s.modTimes[id]; ok {
			continue
		}
		if info, err := os.Stat(filepath.FromSlash(id.Path())); err == nil {
			s.modTimes[id] = info.ModTime()
		}
	}
}

// reset clears all cached documents. Used in tests.
func (s *sessionStores) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.original.Reset()
	s.resolved.Reset()
	clear(s.modTimes)
}

// newResolver builds a resolver configured from the server config.
func newResolver() (*resolver.Resolver, error) {
	l, err := loader.New(
		loader.WithHTTPClient(newHTTPClient()),
		loader.WithMaxSize(cfg.MaxInlineSize),
		loader.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return resolver.New(
		resolver.WithLoader(l),
		resolver.WithMaxDepth(cfg.MaxDepth),
		resolver.WithLogger(logger),
	)
}

// resolve loads the document from whichever input was provided and returns
// it with every $ref inlined.
func (in docInput) resolve(ctx context.Context) (any, error) {
	count := 0
	for _, set := range []bool{in.File != "", in.URL != "", in.Content != ""} {
		if set {
			count++
		}
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}

	r, err := newResolver()
	if err != nil {
		return nil, err
	}

	switch {
	case in.Content != "":
		if int64(len(in.Content)) > cfg.MaxInlineSize {
			return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set REFINLINE_MAX_INLINE_SIZE to increase",
				len(in.Content), cfg.MaxInlineSize)
		}
		doc, err := loader.Decode([]byte(in.Content), document.ParseFormat(in.Format))
		if err != nil {
			return nil, err
		}
		return r.ResolveStandalone(doc)

	case in.File != "":
		abs, err := filepath.Abs(in.File)
		if err != nil {
			return nil, fmt.Errorf("invalid file path: %w", err)
		}
		original, resolved := session.acquire()
		defer session.track()
		return r.Resolve(ctx, document.Local(abs), original, resolved)

	default:
		id := document.Parse(in.URL)
		if id.Kind() != document.KindRemote {
			return nil, fmt.Errorf("url must be absolute: %q", in.URL)
		}
		original, resolved := session.acquire()
		defer session.track()
		return r.Resolve(ctx, id, original, resolved)
	}
}
