package cliutil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/refinline/internal/jsonvalue"
)

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "%s: %d refs", "api.yaml", 3)
	assert.Equal(t, "api.yaml: 3 refs", buf.String())
}

type errorWriter struct{}

func (errorWriter) Write([]byte) (int, error) {
	return 0, errors.New("simulated write error")
}

func TestWritef_WriteError(t *testing.T) {
	// must not panic
	Writef(errorWriter{}, "This will fail")
}

func TestMarshal(t *testing.T) {
	doc := map[string]any{
		"b": []any{1.0, "two"},
		"a": map[string]any{"x-refName": "Pet"},
	}

	data, err := Marshal(doc, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, `{
  "a": {
    "x-refName": "Pet"
  },
  "b": [
    1,
    "two"
  ]
}
`, string(data))

	data, err = Marshal(doc, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "x-refName: Pet")
	assert.Contains(t, string(data), "- two")

	_, err = Marshal(doc, "xml")
	assert.Error(t, err)
}

func TestMarshalKeepsObjectOrder(t *testing.T) {
	inner := jsonvalue.NewObject(2)
	inner.Set("y", 1.0)
	inner.Set("b", 2.0)
	doc := jsonvalue.NewObject(2)
	doc.Set("zeta", inner)
	doc.Set("alpha", []any{"x"})

	data, err := Marshal(doc, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, `{
  "zeta": {
    "y": 1,
    "b": 2
  },
  "alpha": [
    "x"
  ]
}
`, string(data))

	data, err = Marshal(doc, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "zeta:\n    y: 1\n    b: 2\nalpha:\n    - x\n", string(data))
}

func TestValidateOutputFormat(t *testing.T) {
	assert.NoError(t, ValidateOutputFormat("json"))
	assert.NoError(t, ValidateOutputFormat("yaml"))
	assert.Error(t, ValidateOutputFormat("text"))
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.json")

	require.NoError(t, WriteOutput(target, []byte("{}"), OwnerReadWrite))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	link := filepath.Join(dir, "link.json")
	require.NoError(t, os.Symlink(target, link))
	err = WriteOutput(link, []byte("[]"), OwnerReadWrite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symlink")
}
