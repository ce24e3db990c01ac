package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"ordercli/internal/engine"
)

const (
	sheetName = "Sheet1"

	// column sizing: content length plus a small margin, capped so one
	// long designation cannot blow up the layout
	widthMargin = 2.0
	widthMax    = 60.0
)

// numericPositions are the columns written as numbers when the cell
// parses, so spreadsheet formulas over quantities and client codes work
// without manual conversion.
var numericPositions = map[int]bool{1: true, 4: true}

// XLSXWriter writes row tables as spreadsheet workbooks
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a new workbook writer instance
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger}
}

// Write writes the rows to fullPath as a single-sheet workbook,
// creating parent directories as needed.
func (w *XLSXWriter) Write(fullPath string, rows []engine.Row) error {
	w.logger.Info("writing XLSX file",
		slog.String("path", fullPath),
		slog.Int("row_count", len(rows)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	widths := make(map[int]float64)
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("cell reference (%d,%d): %w", j+1, i+1, err)
			}
			if err := f.SetCellValue(sheetName, ref, cellValue(j, cell)); err != nil {
				return fmt.Errorf("set cell %s: %w", ref, err)
			}
			if width := float64(len(cell)) + widthMargin; width > widths[j] {
				widths[j] = width
			}
		}
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("column name %d: %w", col+1, err)
		}
		if width > widthMax {
			width = widthMax
		}
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return fmt.Errorf("set column width %s: %w", name, err)
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// cellValue coerces quantity and client-code cells to numbers when the
// whole cell is an integer; everything else stays text.
func cellValue(position int, cell string) interface{} {
	if !numericPositions[position] {
		return cell
	}
	if n, err := strconv.Atoi(strings.TrimSpace(cell)); err == nil && cell != "" {
		return n
	}
	return cell
}
