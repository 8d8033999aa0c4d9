package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/refinline/document"
	"github.com/erraggy/refinline/internal/cliutil"
	"github.com/erraggy/refinline/resolver"
)

// formatText prints a target as labelled lines.
const formatText = "text"

// LocateFlags contains flags for the locate command
type LocateFlags struct {
	Base   string
	Format string
}

// SetupLocateFlags creates and configures a FlagSet for the locate command.
// Returns the FlagSet and a LocateFlags struct with bound flag variables.
func SetupLocateFlags() (*flag.FlagSet, *LocateFlags) {
	fs := flag.NewFlagSet("locate", flag.ContinueOnError)
	flags := &LocateFlags{}

	fs.StringVar(&flags.Base, "base", "", "path or URL of the document containing the $ref (default: inline)")
	fs.StringVar(&flags.Format, "format", formatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: refinline locate [flags] <ref>\n\n")
		Writef(output, "Show where a $ref points without loading anything.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  refinline locate '#/components/schemas/Pet'\n")
		Writef(output, "  refinline locate -base specs/api.yaml ../common.yaml#/Error\n")
		Writef(output, "  refinline locate -base https://example.com/v1/api.json -format json other.json\n")
	}

	return fs, flags
}

// locateResult is the structured form of a located target.
type locateResult struct {
	Document string `json:"document" yaml:"document"`
	Kind     string `json:"kind" yaml:"kind"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	HasPath  bool   `json:"hasPath" yaml:"hasPath"`
	Nested   bool   `json:"nested" yaml:"nested"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
}

// HandleLocate executes the locate command
func HandleLocate(args []string) error {
	fs, flags := SetupLocateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("locate command requires exactly one $ref")
	}
	if flags.Format != formatText {
		if err := cliutil.ValidateOutputFormat(flags.Format); err != nil {
			return fmt.Errorf("invalid format %q. Valid formats: %s, %s, %s",
				flags.Format, formatText, cliutil.FormatJSON, cliutil.FormatYAML)
		}
	}

	target, err := resolver.Locate(document.Parse(flags.Base), fs.Arg(0))
	if err != nil {
		return err
	}

	result := locateResult{
		Document: target.Document.String(),
		Kind:     target.Document.Kind().String(),
		Path:     target.Path,
		HasPath:  target.HasPath,
		Nested:   target.Nested,
		Name:     target.Name,
	}

	if flags.Format == formatText {
		Writef(stdout, "Document: %s\n", result.Document)
		Writef(stdout, "Kind: %s\n", result.Kind)
		if result.HasPath {
			Writef(stdout, "Path: /%s\n", result.Path)
			Writef(stdout, "Name: %s\n", result.Name)
		}
		Writef(stdout, "Nested: %t\n", result.Nested)
		return nil
	}

	data, err := cliutil.Marshal(result, flags.Format)
	if err != nil {
		return err
	}
	return writeResult("", data, 0)
}
