package engine

import "strings"

// Project applies column removal and prefix stripping to one file's
// rows. It is a pure transform: the input rows are never mutated, and
// malformed rows (fewer cells than a configured removal index) lose
// nothing but the columns they actually have.
func Project(file RawFile, profile Profile) []Row {
	positions := profile.removalPositions()

	out := make([]Row, 0, len(file.Rows))
	for _, raw := range file.Rows {
		row := raw.clone()

		// positions are descending, so earlier removals never shift
		// the indices of later ones
		for _, pos := range positions {
			if pos < len(row) {
				row = append(row[:pos], row[pos+1:]...)
			}
		}

		if len(row) > 0 {
			row[0] = stripPrefix(row[0], profile.PrefixesToRemove)
		}

		out = append(out, row)
	}

	return out
}

// stripPrefix removes the first configured prefix matching the start of
// the cell. Prefixes are tested in list order and at most one is
// removed, so a cell is never stripped twice in a single pass.
func stripPrefix(cell string, prefixes []string) string {
	if cell == "" {
		return cell
	}
	for _, prefix := range prefixes {
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(cell, prefix) {
			return cell[len(prefix):]
		}
	}
	return cell
}
