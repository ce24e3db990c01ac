// Package exporter renders composed order tables to files.
//
// Two writers share the same input shape:
//
// CSVWriter: semicolon-separated text with an optional UTF-8 BOM so the
// files open cleanly in Excel and in the supplier import tools.
//
// XLSXWriter: spreadsheet output with auto-sized columns and numeric
// cells for the columns that carry quantities and client codes.
//
// Writer ties both together and picks the format from the output spec:
//
//	w := exporter.NewWriter(paths, logger)
//	path, err := w.Write(spec)
package exporter
