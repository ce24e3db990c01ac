package engine

import "strconv"

// qtyPosition is the position of the quantity column after projection.
// The leading cell is always the reference, and suppliers that merge
// duplicates never remove the quantity column, so it sits right after
// the reference in every projected row.
const qtyPosition = 1

// MergeDuplicateRows collapses rows sharing the same leading-cell value
// into one row per distinct reference, in order of first appearance.
// The quantity column is summed across the group (non-numeric cells
// count as zero); every other column keeps the value from the first row
// of the group.
//
// Blank rows are the separators of split composition; they keep their
// positions and never join a group, so a split table survives merging
// with its junctions intact.
//
// Tables narrower than two columns pass through unchanged: there is no
// quantity column to sum.
func MergeDuplicateRows(rows []Row) []Row {
	if tableWidth(rows) < 2 {
		return rows
	}

	type group struct {
		row   Row
		qty   int
		blank bool
	}

	entries := make([]*group, 0, len(rows))
	groups := make(map[string]*group, len(rows))

	for _, row := range rows {
		if row.IsBlank() {
			entries = append(entries, &group{row: row.clone(), blank: true})
			continue
		}

		key := row.Leading()
		g, seen := groups[key]
		if !seen {
			g = &group{row: row.clone()}
			groups[key] = g
			entries = append(entries, g)
		}
		g.qty += parseQty(row)
	}

	out := make([]Row, 0, len(entries))
	for _, g := range entries {
		if !g.blank && len(g.row) > qtyPosition {
			g.row[qtyPosition] = strconv.Itoa(g.qty)
		}
		out = append(out, g.row)
	}

	return out
}

// parseQty reads the quantity cell as an integer, zero when missing or
// non-numeric.
func parseQty(row Row) int {
	if len(row) <= qtyPosition {
		return 0
	}
	n, err := strconv.Atoi(trimCell(row[qtyPosition]))
	if err != nil {
		return 0
	}
	return n
}
