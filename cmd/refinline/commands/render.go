package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/refinline/document"
	"github.com/erraggy/refinline/internal/cliutil"
	"github.com/erraggy/refinline/render"
	"github.com/erraggy/refinline/resolver"
)

// RenderFlags contains flags for the render command
type RenderFlags struct {
	Template string
	Output   string
	GoFormat bool
	MaxDepth int
	Verbose  bool
}

// SetupRenderFlags creates and configures a FlagSet for the render command.
// Returns the FlagSet and a RenderFlags struct with bound flag variables.
func SetupRenderFlags() (*flag.FlagSet, *RenderFlags) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	flags := &RenderFlags{}

	fs.StringVar(&flags.Template, "t", "", "template file (required)")
	fs.StringVar(&flags.Template, "template", "", "template file (required)")
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.BoolVar(&flags.GoFormat, "gofmt", false, "format the output as Go source and fix its imports")
	fs.IntVar(&flags.MaxDepth, "max-depth", resolver.MaxRefDepth, "maximum nested $ref hops")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose mode: log debug diagnostics to stderr")
	fs.BoolVar(&flags.Verbose, "verbose", false, "verbose mode: log debug diagnostics to stderr")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: refinline render -t <template> [flags] <file|url|->\n\n")
		Writef(output, "Resolve a document and execute a Go text/template against it.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nTemplate Functions:\n")
		Writef(output, "  pascal camel snake kebab title upper lower trim join default\n")
		Writef(output, "  hasKey keys refName fromRef toJSON\n")
		Writef(output, "\nExamples:\n")
		Writef(output, "  refinline render -t models.tmpl -gofmt -o models.go schemas.yaml\n")
		Writef(output, "  refinline render -t docs.md.tmpl https://example.com/api.json\n")
	}

	return fs, flags
}

// HandleRender executes the render command
func HandleRender(ctx context.Context, args []string) error {
	fs, flags := SetupRenderFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("render command requires exactly one file path, URL, or '-' for stdin")
	}
	if flags.Template == "" {
		fs.Usage()
		return fmt.Errorf("template is required (use -t or --template)")
	}

	input := fs.Arg(0)
	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, []string{input, flags.Template}); err != nil {
			return err
		}
	}

	logger := NewLogger(flags.Verbose)
	opts := []render.Option{render.WithGoFormat(flags.GoFormat), render.WithLogger(logger)}
	if flags.Output != "" {
		opts = append(opts, render.WithFilename(flags.Output))
	}
	rnd, err := render.New("render", opts...)
	if err != nil {
		return err
	}
	if err := rnd.ParseFile(flags.Template); err != nil {
		return err
	}

	r, err := newResolver(flags.MaxDepth, logger)
	if err != nil {
		return err
	}

	var value any
	if input == StdinFilePath {
		doc, err := readStdin()
		if err != nil {
			return err
		}
		value, err = r.ResolveStandalone(doc)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", FormatSourcePath(input), err)
		}
	} else {
		value, err = r.Resolve(ctx, document.Parse(input), resolver.NewStore(), resolver.NewStore())
		if err != nil {
			return fmt.Errorf("resolving %s: %w", input, err)
		}
	}

	out, err := rnd.Render(value)
	if err != nil {
		return err
	}
	return writeResult(flags.Output, out, cliutil.ReadableByAll)
}
