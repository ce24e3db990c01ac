package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ordercli/internal/config"
	"ordercli/internal/engine"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	return config.PathsFromBase(t.TempDir())
}

func TestXLSXWriter_Write(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "honda_15-01-25.xlsx")

	rows := []engine.Row{
		{"100", "2", "brake pad"},
		{"200", "1", "chain kit"},
	}

	require.NoError(t, NewXLSXWriter(nil).Write(path, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"100", "2", "brake pad"},
		{"200", "1", "chain kit"},
	}, got)
}

func TestXLSXWriter_NumericCoercion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")

	rows := []engine.Row{
		{"100", "2", "pad", "25.50", "370001"},
		{"200", "n/a", "kit", "89.00", "client-a"},
	}

	require.NoError(t, NewXLSXWriter(nil).Write(path, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// Quantity and client-code columns become numeric cells when the
	// whole cell is an integer; text cells land in the shared string
	// table.
	for _, ref := range []string{"B1", "E1"} {
		typ, err := f.GetCellType(sheetName, ref)
		require.NoError(t, err)
		assert.NotEqual(t, excelize.CellTypeSharedString, typ, "cell %s should be numeric", ref)
	}

	// Unparseable cells and non-coerced columns stay text.
	for _, ref := range []string{"A1", "B2", "E2"} {
		typ, err := f.GetCellType(sheetName, ref)
		require.NoError(t, err)
		assert.Equal(t, excelize.CellTypeSharedString, typ, "cell %s should be text", ref)
	}
}

func TestXLSXWriter_ColumnWidths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")

	rows := []engine.Row{
		{"X", "a very long designation that dominates its column"},
	}

	require.NoError(t, NewXLSXWriter(nil).Write(path, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	narrow, err := f.GetColWidth(sheetName, "A")
	require.NoError(t, err)
	wide, err := f.GetColWidth(sheetName, "B")
	require.NoError(t, err)

	assert.Greater(t, wide, narrow)
	assert.LessOrEqual(t, wide, widthMax)
}

func TestWriter_DispatchesOnFormat(t *testing.T) {
	paths := testPaths(t)
	writer := NewWriter(paths, nil)

	csvSpec := &engine.OutputSpec{
		FileName: "impression_honda.csv",
		Format:   engine.FormatCSV,
		Rows:     []engine.Row{{"100", "2"}},
		DataRows: 1,
	}
	path, err := writer.Write(csvSpec)
	require.NoError(t, err)
	assert.Equal(t, paths.GetExportPath("impression_honda.csv"), path)

	xlsxSpec := &engine.OutputSpec{
		FileName: "honda_15-01-25.xlsx",
		Format:   engine.FormatXLSX,
		Rows:     []engine.Row{{"100", "2"}},
		DataRows: 1,
	}
	path, err = writer.Write(xlsxSpec)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"100", "2"}}, got)
}

func TestWriter_UnknownFormat(t *testing.T) {
	writer := NewWriter(testPaths(t), nil)

	_, err := writer.Write(&engine.OutputSpec{
		FileName: "out.pdf",
		Format:   engine.OutputFormat("pdf"),
	})
	assert.Error(t, err)
}
