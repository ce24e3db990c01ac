package engine

import (
	"sort"

	apperrors "ordercli/internal/errors"
)

// Compose combines the per-file projected row sets into one table.
//
// Split mode sorts each file individually by its leading cell and keeps
// the files apart with one blank separator row between consecutive
// files (never before the first or after the last). Merged mode
// concatenates everything in file-list order and applies a single
// global sort. Both sorts are stable: rows with equal leading cells
// keep their relative input order.
//
// Composition order always follows the caller-supplied file order,
// never download-completion order.
func Compose(fileRows [][]Row, splitFiles bool) ([]Row, error) {
	total := 0
	for _, rows := range fileRows {
		total += len(rows)
	}
	if total == 0 {
		return nil, apperrors.ErrEmptyResult
	}

	if splitFiles {
		return composeSplit(fileRows, total), nil
	}
	return composeMerged(fileRows, total), nil
}

func composeSplit(fileRows [][]Row, total int) []Row {
	out := make([]Row, 0, total+len(fileRows))

	appended := 0
	for _, rows := range fileRows {
		if len(rows) == 0 {
			continue
		}

		if appended > 0 {
			// separator arity matches the surrounding rows
			width := tableWidth(rows)
			if width == 0 {
				width = tableWidth(out)
			}
			out = append(out, make(Row, width))
		}

		sorted := make([]Row, len(rows))
		copy(sorted, rows)
		sortByLeading(sorted)
		out = append(out, sorted...)
		appended++
	}

	return out
}

func composeMerged(fileRows [][]Row, total int) []Row {
	out := make([]Row, 0, total)
	for _, rows := range fileRows {
		out = append(out, rows...)
	}
	sortByLeading(out)
	return out
}

// sortByLeading sorts rows ascending by leading cell, lexicographic and
// case-sensitive. Stability is required for deterministic output when
// keys collide.
func sortByLeading(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Leading() < rows[j].Leading()
	})
}
