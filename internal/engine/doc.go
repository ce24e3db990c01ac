// Package engine implements the per-supplier row transformation and
// aggregation pipeline for supplier order files.
//
// Source files are headerless delimited exports sharing a fixed 7-column
// positional schema (ref, qty, designation, price, client, ean13, order).
// A Profile bundles the transformation toggles for one consumer mode
// (display, print or export); the same pipeline serves all three modes
// with different Profile values.
//
// The pipeline stages, in order:
//
//	Project    column removal and leading-cell prefix stripping, per file
//	Compose    multi-file composition: split mode (per-file sort, blank
//	           separator rows) or merged mode (one global stable sort)
//	Dedup      optional collapse of rows sharing a leading cell, summing
//	           the quantity column
//	Annotate   optional synthetic header row and trailing date footer
//	Name       templated output file name with date/time placeholders
//
// All stages are pure transforms over string cells; numeric parse
// failures are treated as zero and out-of-range column indices as
// silent no-ops, so a malformed row never aborts a run.
//
// Example usage:
//
//	p := engine.ExportDefaults()
//	p.ColumnsToRemove = []engine.ColumnKey{engine.ColumnPrice}
//	p.MergeDuplicates = true
//
//	pipeline := engine.NewPipeline(logger)
//	spec, err := pipeline.Run(ctx, p, "honda", files)
package engine
