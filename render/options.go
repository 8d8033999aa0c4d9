package render

import (
	"fmt"
	"text/template"

	"github.com/erraggy/refinline"
)

// Option is a function that configures a Renderer
type Option func(*renderConfig) error

type renderConfig struct {
	goFormat bool
	filename string
	funcs    template.FuncMap
	logger   refinline.Logger
}

func applyOptions(opts ...Option) (*renderConfig, error) {
	cfg := &renderConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// WithGoFormat runs rendered output through goimports.
// Default: false
func WithGoFormat(enabled bool) Option {
	return func(cfg *renderConfig) error {
		cfg.goFormat = enabled
		return nil
	}
}

// WithFilename sets the file name reported to goimports, which uses it to
// decide how to group imports.
// Default: the template name with a ".go" suffix
func WithFilename(name string) Option {
	return func(cfg *renderConfig) error {
		cfg.filename = name
		return nil
	}
}

// WithFuncs adds template functions, replacing built-in ones of the same name.
func WithFuncs(funcs template.FuncMap) Option {
	return func(cfg *renderConfig) error {
		for name, fn := range funcs {
			if fn == nil {
				return fmt.Errorf("template function %q is nil", name)
			}
		}
		cfg.funcs = funcs
		return nil
	}
}

// WithLogger sets the logger for render diagnostics
// Default: refinline.NopLogger
func WithLogger(l refinline.Logger) Option {
	return func(cfg *renderConfig) error {
		cfg.logger = l
		return nil
	}
}
