// Package commands provides CLI command handlers for refinline.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"

	"github.com/erraggy/refinline"
	"github.com/erraggy/refinline/document"
	"github.com/erraggy/refinline/internal/cliutil"
	"github.com/erraggy/refinline/loader"
	"github.com/erraggy/refinline/resolver"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// Overridden in tests.
var (
	// maxStdinSize bounds how much of stdin is read as a document.
	maxStdinSize int64 = 100 << 20

	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr.
func Writef(w io.Writer, format string, args ...any) {
	cliutil.Writef(w, format, args...)
}

// FormatSourcePath returns a display-friendly path for an input.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatSourcePath(p string) string {
	if p == StdinFilePath {
		return "<stdin>"
	}
	return p
}

// NewLogger returns a logger writing colorized records to stderr. Debug
// records are only emitted when verbose is set.
func NewLogger(verbose bool) refinline.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := tint.NewHandler(stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
	return refinline.NewSlogAdapter(slog.New(handler))
}

// newResolver builds a resolver backed by the standard loader.
func newResolver(maxDepth int, logger refinline.Logger) (*resolver.Resolver, error) {
	l, err := loader.New(loader.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return resolver.New(
		resolver.WithLoader(l),
		resolver.WithMaxDepth(maxDepth),
		resolver.WithLogger(logger),
	)
}

// readStdin decodes a document from stdin. Stdin has no identity, so the
// result can only be resolved standalone.
func readStdin() (any, error) {
	data, err := io.ReadAll(io.LimitReader(stdin, maxStdinSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	if int64(len(data)) > maxStdinSize {
		return nil, fmt.Errorf("stdin exceeds %d bytes", maxStdinSize)
	}
	return loader.Decode(data, document.FormatUnknown)
}

// ValidateOutputPath checks that the output path does not overwrite any input.
func ValidateOutputPath(outputPath string, inputPaths []string) error {
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	for _, inputPath := range inputPaths {
		if inputPath == StdinFilePath || document.Parse(inputPath).Kind() != document.KindLocal {
			continue
		}
		absInputPath, err := filepath.Abs(inputPath)
		if err != nil {
			return fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}
		if absOutputPath == absInputPath {
			return fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
		}
	}
	return nil
}

// writeResult writes data to outputPath, or to stdout when outputPath is empty.
func writeResult(outputPath string, data []byte, perm os.FileMode) error {
	if outputPath == "" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}
	return cliutil.WriteOutput(outputPath, data, perm)
}
