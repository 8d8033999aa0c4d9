package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/erraggy/refinline"
)

// Renderer executes a text/template against resolved documents.
type Renderer struct {
	tmpl     *template.Template
	custom   map[string]bool
	goFormat bool
	filename string
	logger   refinline.Logger
}

// New creates a Renderer whose templates are named name.
func New(name string, opts ...Option) (*Renderer, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("render: invalid options: %w", err)
	}

	filename := cfg.filename
	if filename == "" {
		filename = name + ".go"
	}

	funcs := Funcs()
	for k, fn := range cfg.funcs {
		funcs[k] = fn
	}

	custom := make(map[string]bool, len(cfg.funcs))
	for k := range cfg.funcs {
		custom[k] = true
	}

	return &Renderer{
		tmpl:     template.New(name).Funcs(funcs).Option("missingkey=default"),
		custom:   custom,
		goFormat: cfg.goFormat,
		filename: filename,
		logger:   refinline.OrNop(cfg.logger),
	}, nil
}

// Parse adds template text to the renderer.
func (r *Renderer) Parse(text string) error {
	if _, err := r.tmpl.Parse(text); err != nil {
		return fmt.Errorf("render: parsing template: %w", err)
	}
	return nil
}

// ParseFile reads and parses a template file.
func (r *Renderer) ParseFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("render: reading template: %w", err)
	}
	return r.Parse(string(data))
}

// Execute renders data to w.
func (r *Renderer) Execute(w io.Writer, data any) error {
	out, err := r.Render(data)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// Render renders data and returns the output. Objects in data are plain
// maps inside the template; keys and toJSON still see them in source order.
// With WithGoFormat the output is run through goimports; if that fails the
// error is returned along with the unformatted output so callers can
// inspect it.
func (r *Renderer) Render(data any) ([]byte, error) {
	root, v := newView(data)
	tmpl := r.tmpl
	if bound := v.funcs(r.custom); len(bound) > 0 {
		clone, err := r.tmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		tmpl = clone.Funcs(bound)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, root); err != nil {
		return nil, fmt.Errorf("render: executing template: %w", err)
	}
	if !r.goFormat {
		return buf.Bytes(), nil
	}

	formatted, err := FormatGo(r.filename, buf.Bytes())
	if err != nil {
		r.logger.Warn("rendered output is not valid Go", "file", r.filename, "error", err)
		return buf.Bytes(), err
	}
	return formatted, nil
}

// FormatGo formats Go source and fixes its imports, adding missing ones and
// removing unused ones, the way goimports does.
func FormatGo(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, nil)
	if err != nil {
		return nil, fmt.Errorf("render: formatting %s: %w", filename, err)
	}
	return out, nil
}
