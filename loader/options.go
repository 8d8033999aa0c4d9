package loader

import (
	"fmt"
	"net/http"
	"time"

	"github.com/erraggy/refinline"
)

// Option is a function that configures a Standard loader
type Option func(*loaderConfig) error

type loaderConfig struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	maxSize    int64
	baseDir    string
	logger     refinline.Logger
}

func applyOptions(opts ...Option) (*loaderConfig, error) {
	cfg := &loaderConfig{
		userAgent: refinline.UserAgent(),
		timeout:   DefaultTimeout,
		maxSize:   MaxFileSize,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithHTTPClient sets the client used for remote documents.
// When set, WithTimeout has no effect; configure the client instead.
// A nil client leaves the default in place.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *loaderConfig) error {
		cfg.httpClient = client
		return nil
	}
}

// WithUserAgent sets the User-Agent header for remote requests
// Default: "refinline/vX.Y.Z"
func WithUserAgent(ua string) Option {
	return func(cfg *loaderConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithTimeout sets the timeout of the default HTTP client
// Default: 30s
func WithTimeout(d time.Duration) Option {
	return func(cfg *loaderConfig) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		cfg.timeout = d
		return nil
	}
}

// WithMaxSize sets the maximum size of a loaded document in bytes
// Default: MaxFileSize (10MB)
func WithMaxSize(n int64) Option {
	return func(cfg *loaderConfig) error {
		if n <= 0 {
			return fmt.Errorf("max size must be positive, got %d", n)
		}
		cfg.maxSize = n
		return nil
	}
}

// WithBaseDir sets the directory relative Local identities are read from.
// Default: the process working directory
func WithBaseDir(dir string) Option {
	return func(cfg *loaderConfig) error {
		cfg.baseDir = dir
		return nil
	}
}

// WithLogger sets the logger for load diagnostics
func WithLogger(l refinline.Logger) Option {
	return func(cfg *loaderConfig) error {
		cfg.logger = l
		return nil
	}
}
