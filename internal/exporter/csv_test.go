package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordercli/internal/engine"
)

func TestCSVWriter_Write(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "honda_15-01-25.csv")

	rows := []engine.Row{
		{"100", "2", "brake pad"},
		{"200", "1", "chain kit"},
	}

	err := NewCSVWriter(nil).Write(path, rows, CSVOptions{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "100;2;brake pad\n200;1;chain kit\n", string(data))
}

func TestCSVWriter_WriteBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	err := NewCSVWriter(nil).Write(path, []engine.Row{{"100", "2"}}, CSVOptions{BOMPrefix: true})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
	assert.Equal(t, "100;2\n", string(data[3:]))
}

func TestCSVWriter_WriteBlankSeparatorRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	rows := []engine.Row{
		{"A", "1"},
		{"", ""},
		{"B", "2"},
	}

	err := NewCSVWriter(nil).Write(path, rows, CSVOptions{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A;1\n;\nB;2\n", string(data))
}

func TestCSVWriter_WriteCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exports", "honda", "out.csv")

	err := NewCSVWriter(nil).Write(path, []engine.Row{{"A"}}, CSVOptions{})
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

// Cells containing the separator must survive a round trip.
func TestCSVWriter_WriteQuotesSeparator(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	rows := []engine.Row{{"100", "pad; front"}}

	err := NewCSVWriter(nil).Write(path, rows, CSVOptions{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "100;\"pad; front\"\n", string(data))
}
