package engine

import (
	"strings"
	"time"
)

// footerDateLayout is the fixed rendering of the trailing date row,
// independent of the profile's DateFormat.
const footerDateLayout = "02/01/06"

// Annotate optionally prepends a synthetic header row and appends a
// trailing date footer. The two annotations are independent; when both
// apply the header is always first and the footer always last.
func Annotate(rows []Row, profile Profile, now time.Time) []Row {
	width := tableWidth(rows)

	out := rows
	if profile.HeaderEnabled {
		if header, ok := headerRow(profile, width, now); ok {
			out = append([]Row{header}, out...)
		}
	}

	if profile.AddDate && width >= 3 {
		separator := make(Row, width)
		dateRow := make(Row, width)
		dateRow[2] = "Le " + now.Format(footerDateLayout)
		out = append(out, separator, dateRow)
	}

	return out
}

// headerRow builds the synthetic header for the table width. A fixed
// text containing the ";" separator yields one value per column,
// truncated or padded with empty cells; otherwise the whole text lands
// in column 0.
func headerRow(profile Profile, width int, now time.Time) (Row, bool) {
	if width == 0 {
		return nil, false
	}

	switch profile.HeaderType {
	case HeaderFixedText, HeaderFixedTextPlusDate:
		content := strings.ReplaceAll(profile.HeaderContent, "{date}", now.Format(profile.DateFormat.Layout()))

		row := make(Row, width)
		if strings.Contains(content, ";") {
			values := strings.Split(content, ";")
			for i := 0; i < width && i < len(values); i++ {
				row[i] = values[i]
			}
		} else {
			row[0] = content
		}
		return row, true

	case HeaderColumnNames:
		names := ColumnNames()
		row := make(Row, width)
		for i := 0; i < width && i < len(names); i++ {
			row[i] = names[i]
		}
		return row, true
	}

	return nil, false
}
