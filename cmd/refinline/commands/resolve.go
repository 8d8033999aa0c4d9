package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"slices"

	"github.com/erraggy/refinline/document"
	"github.com/erraggy/refinline/internal/cliutil"
	"github.com/erraggy/refinline/internal/jsonvalue"
	"github.com/erraggy/refinline/resolver"
)

// ResolveFlags contains flags for the resolve command
type ResolveFlags struct {
	Format      string
	Output      string
	Concurrency int
	MaxDepth    int
	Verbose     bool
}

// SetupResolveFlags creates and configures a FlagSet for the resolve command.
// Returns the FlagSet and a ResolveFlags struct with bound flag variables.
func SetupResolveFlags() (*flag.FlagSet, *ResolveFlags) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	flags := &ResolveFlags{}

	fs.StringVar(&flags.Format, "format", cliutil.FormatJSON, "output format: json or yaml")
	fs.StringVar(&flags.Output, "o", "", "output file path (single input only, default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (single input only, default: stdout)")
	fs.IntVar(&flags.Concurrency, "concurrency", 0, "documents resolved in parallel (default: GOMAXPROCS)")
	fs.IntVar(&flags.MaxDepth, "max-depth", resolver.MaxRefDepth, "maximum nested $ref hops")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose mode: log debug diagnostics to stderr")
	fs.BoolVar(&flags.Verbose, "verbose", false, "verbose mode: log debug diagnostics to stderr")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: refinline resolve [flags] <file|url|->...\n\n")
		Writef(output, "Inline every $ref and print the self-contained document.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  refinline resolve api.yaml\n")
		Writef(output, "  refinline resolve -format yaml -o resolved.yaml api.yaml\n")
		Writef(output, "  refinline resolve https://example.com/schemas/pet.json\n")
		Writef(output, "  refinline resolve -concurrency 4 schemas/*.json\n")
		Writef(output, "  cat api.json | refinline resolve -\n")
		Writef(output, "\nMultiple Inputs:\n")
		Writef(output, "  Documents referenced by several inputs are loaded and resolved once.\n")
		Writef(output, "  The output is one object keyed by input. Failed inputs are reported on\n")
		Writef(output, "  stderr and left out.\n")
		Writef(output, "\nStdin:\n")
		Writef(output, "  A document read from stdin may only reference itself.\n")
		Writef(output, "\nExit Codes:\n")
		Writef(output, "  0    All inputs resolved\n")
		Writef(output, "  1    At least one input failed\n")
	}

	return fs, flags
}

// HandleResolve executes the resolve command
func HandleResolve(ctx context.Context, args []string) error {
	fs, flags := SetupResolveFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("resolve command requires at least one file path, URL, or '-' for stdin")
	}
	if err := cliutil.ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	inputs := fs.Args()
	if slices.Contains(inputs, StdinFilePath) && len(inputs) > 1 {
		return fmt.Errorf("'-' cannot be combined with other inputs")
	}
	if flags.Output != "" {
		if len(inputs) > 1 {
			return fmt.Errorf("-o can only be used with a single input")
		}
		if err := ValidateOutputPath(flags.Output, inputs); err != nil {
			return err
		}
	}

	logger := NewLogger(flags.Verbose)
	r, err := newResolver(flags.MaxDepth, logger)
	if err != nil {
		return err
	}

	var value any
	switch {
	case inputs[0] == StdinFilePath:
		doc, err := readStdin()
		if err != nil {
			return err
		}
		if value, err = r.ResolveStandalone(doc); err != nil {
			return fmt.Errorf("resolving %s: %w", FormatSourcePath(StdinFilePath), err)
		}

	case len(inputs) == 1:
		value, err = r.Resolve(ctx, document.Parse(inputs[0]), resolver.NewStore(), resolver.NewStore())
		if err != nil {
			return fmt.Errorf("resolving %s: %w", inputs[0], err)
		}

	default:
		ids := make([]document.Identity, len(inputs))
		for i, in := range inputs {
			ids[i] = document.Parse(in)
		}
		results := r.ResolveAll(ctx, ids, resolver.NewStore(), resolver.NewStore(),
			resolver.BatchOptions{Concurrency: flags.Concurrency})

		combined := jsonvalue.NewObject(len(results))
		for i, res := range results {
			if res.Err == nil {
				combined.Set(inputs[i], res.Value)
			}
		}
		value = combined
		err = resolver.JoinErrors(results)
	}

	data, marshalErr := cliutil.Marshal(value, flags.Format)
	if marshalErr != nil {
		return marshalErr
	}
	if writeErr := writeResult(flags.Output, data, cliutil.OwnerReadWrite); writeErr != nil {
		return writeErr
	}
	if flags.Output != "" {
		logger.Info("wrote resolved document", "path", flags.Output, "bytes", len(data))
	}
	return err
}
