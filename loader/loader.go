package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/erraggy/refinline"
	"github.com/erraggy/refinline/document"
	"github.com/erraggy/refinline/referrors"
)

const (
	// MaxFileSize is the default maximum size (in bytes) of a loaded document.
	// Set to 10MB which should be sufficient for most specifications.
	MaxFileSize = 10 * 1024 * 1024

	// DefaultTimeout is the default timeout for fetching remote documents.
	DefaultTimeout = 30 * time.Second
)

// Loader turns a document identity into a generic JSON value.
//
// Implementations own all I/O and bytes-to-JSON conversion. They must be safe
// for concurrent use when shared by concurrent resolutions.
type Loader interface {
	Load(ctx context.Context, id document.Identity) (any, error)
}

// Func adapts an ordinary function to the Loader interface.
type Func func(ctx context.Context, id document.Identity) (any, error)

// Load implements Loader.
func (f Func) Load(ctx context.Context, id document.Identity) (any, error) {
	return f(ctx, id)
}

// Standard loads Local identities from the file system and Remote identities
// over HTTP(S) or from file:// URLs, decoding them by their format hint.
type Standard struct {
	client    *http.Client
	userAgent string
	maxSize   int64
	baseDir   string
	logger    refinline.Logger
}

// Ensure Standard implements Loader at compile time.
var _ Loader = (*Standard)(nil)

// New creates a Standard loader.
func New(opts ...Option) (*Standard, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("loader: invalid options: %w", err)
	}

	client := cfg.httpClient
	if client == nil {
		client = &http.Client{Timeout: cfg.timeout}
	}

	return &Standard{
		client:    client,
		userAgent: cfg.userAgent,
		maxSize:   cfg.maxSize,
		baseDir:   cfg.baseDir,
		logger:    refinline.OrNop(cfg.logger),
	}, nil
}

// Load reads and decodes the document identified by id.
func (l *Standard) Load(ctx context.Context, id document.Identity) (any, error) {
	var (
		data []byte
		hint = id.Format()
		err  error
	)

	start := time.Now()
	switch id.Kind() {
	case document.KindLocal:
		data, err = l.readFile(l.localPath(id.Path()))
	case document.KindRemote:
		u := id.URL()
		switch {
		case u == nil:
			err = fmt.Errorf("loader: invalid url %s", id)
		case u.Scheme == "file":
			data, err = l.readFile(filepath.FromSlash(u.Path))
		case u.Scheme == "http" || u.Scheme == "https":
			var contentType string
			data, contentType, err = l.fetch(ctx, id.String())
			if hint == document.FormatUnknown {
				hint = formatFromContentType(contentType)
			}
		default:
			err = fmt.Errorf("loader: unsupported url scheme %q", u.Scheme)
		}
	default:
		err = errors.New("loader: inline documents have no source to load")
	}
	if err != nil {
		return nil, &referrors.LoadError{Document: id.String(), Cause: err}
	}

	value, err := Decode(data, hint)
	if err != nil {
		var decErr *referrors.DecodeError
		if errors.As(err, &decErr) {
			decErr.Document = id.String()
		}
		return nil, err
	}

	l.logger.Debug("loaded document",
		"document", id.String(),
		"format", string(hint),
		"bytes", len(data),
		"elapsed", time.Since(start))
	return value, nil
}

func (l *Standard) localPath(p string) string {
	p = filepath.FromSlash(p)
	if l.baseDir != "" && !filepath.IsAbs(p) {
		return filepath.Join(l.baseDir, p)
	}
	return p
}

// readFile reads at most maxSize bytes, failing on anything larger.
func (l *Standard) readFile(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return l.readLimited(f)
}

func (l *Standard) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxSize {
		return nil, &referrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        l.maxSize,
			Message:      "document too large",
		}
	}
	return data, nil
}
