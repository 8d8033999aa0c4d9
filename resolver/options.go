package resolver

import (
	"fmt"

	"github.com/erraggy/refinline"
	"github.com/erraggy/refinline/loader"
)

// MaxRefDepth is the default maximum number of nested $ref hops followed
// while resolving a single top-level document.
const MaxRefDepth = 100

// Option is a function that configures a Resolver
type Option func(*resolverConfig) error

type resolverConfig struct {
	loader       loader.Loader
	logger       refinline.Logger
	maxDepth     int
	detectCycles bool
}

func applyOptions(opts ...Option) (*resolverConfig, error) {
	cfg := &resolverConfig{
		maxDepth:     MaxRefDepth,
		detectCycles: true,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithLoader sets the loader for documents missing from the original store.
// Default: a loader.Standard with default options
func WithLoader(l loader.Loader) Option {
	return func(cfg *resolverConfig) error {
		if l == nil {
			return fmt.Errorf("loader cannot be nil")
		}
		cfg.loader = l
		return nil
	}
}

// WithLogger sets the logger for resolution diagnostics
// Default: refinline.NopLogger
func WithLogger(l refinline.Logger) Option {
	return func(cfg *resolverConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxDepth sets the maximum number of nested $ref hops
// Default: MaxRefDepth (100)
func WithMaxDepth(n int) Option {
	return func(cfg *resolverConfig) error {
		if n <= 0 {
			return fmt.Errorf("max depth must be positive, got %d", n)
		}
		cfg.maxDepth = n
		return nil
	}
}

// WithCycleDetection enables or disables cycle detection. Without it a
// cyclic document graph fails only once the depth limit is reached.
// Default: true
func WithCycleDetection(enabled bool) Option {
	return func(cfg *resolverConfig) error {
		cfg.detectCycles = enabled
		return nil
	}
}
