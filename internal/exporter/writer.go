package exporter

import (
	"fmt"
	"log/slog"

	"ordercli/internal/config"
	"ordercli/internal/engine"
)

// Writer renders an output spec to the exports directory, dispatching
// on the spec's format.
type Writer struct {
	paths  *config.Paths
	csv    *CSVWriter
	xlsx   *XLSXWriter
	logger *slog.Logger
}

// NewWriter creates a writer rooted at the exports directory
func NewWriter(paths *config.Paths, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &Writer{
		paths:  paths,
		csv:    NewCSVWriter(logger),
		xlsx:   NewXLSXWriter(logger),
		logger: logger,
	}
}

// Write renders the spec and returns the full path of the created file
func (w *Writer) Write(spec *engine.OutputSpec) (string, error) {
	fullPath := w.paths.GetExportPath(spec.FileName)

	switch spec.Format {
	case engine.FormatCSV:
		if err := w.csv.Write(fullPath, spec.Rows, CSVOptions{BOMPrefix: true}); err != nil {
			return "", err
		}
	case engine.FormatXLSX:
		if err := w.xlsx.Write(fullPath, spec.Rows); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown output format %q", spec.Format)
	}

	w.logger.Info("export written",
		slog.String("file", spec.FileName),
		slog.Int("data_rows", spec.DataRows))

	return fullPath, nil
}
