// Package cliutil provides output helpers shared by the CLI and the MCP server.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// Output formats for resolved documents.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// File modes for written output.
const (
	// OwnerReadWrite is used for resolved documents, which may carry
	// sensitive API data.
	OwnerReadWrite os.FileMode = 0o600
	// ReadableByAll is used for generated source code.
	ReadableByAll os.FileMode = 0o644
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// ValidateOutputFormat returns an error unless format is json or yaml.
func ValidateOutputFormat(format string) error {
	if format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format %q. Valid formats: %s, %s", format, FormatJSON, FormatYAML)
	}
	return nil
}

// Marshal encodes a generic JSON value as indented JSON or as YAML. The
// output always ends with a newline.
func Marshal(v any, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling to json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshaling to yaml: %w", err)
		}
		return data, nil
	default:
		return nil, ValidateOutputFormat(format)
	}
}

// WriteOutput writes data to path, refusing to follow a symlink.
func WriteOutput(path string, data []byte, perm os.FileMode) error {
	cleaned := filepath.Clean(path)
	if err := RejectSymlink(cleaned); err != nil {
		return err
	}
	if err := os.WriteFile(cleaned, data, perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// RejectSymlink returns an error if path exists and is a symlink.
func RejectSymlink(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("refusing to write to symlink: %s", path)
	}
	return nil
}
