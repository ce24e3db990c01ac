package engine

import "strings"

// ColumnKey identifies one of the 7 logical columns every supplier
// export shares. The position mapping is identical for every supplier
// and every source file; it never varies by content.
type ColumnKey string

const (
	ColumnRef         ColumnKey = "ref"
	ColumnQty         ColumnKey = "qty"
	ColumnDesignation ColumnKey = "designation"
	ColumnPrice       ColumnKey = "price"
	ColumnClient      ColumnKey = "client"
	ColumnEAN13       ColumnKey = "ean13"
	ColumnOrder       ColumnKey = "order"
)

// ColumnCount is the arity of the fixed source schema
const ColumnCount = 7

// columnPositions maps logical columns to their position in a raw row
var columnPositions = map[ColumnKey]int{
	ColumnRef:         0,
	ColumnQty:         1,
	ColumnDesignation: 2,
	ColumnPrice:       3,
	ColumnClient:      4,
	ColumnEAN13:       5,
	ColumnOrder:       6,
}

// Position returns the raw-row index of the column. Unknown keys report
// ok=false and are ignored by the projector.
func (k ColumnKey) Position() (int, bool) {
	pos, ok := columnPositions[k]
	return pos, ok
}

// Valid reports whether the key names one of the 7 schema columns
func (k ColumnKey) Valid() bool {
	_, ok := columnPositions[k]
	return ok
}

// ColumnNames returns the display names used for the ColumnNames header
// type, in schema order.
func ColumnNames() []string {
	return []string{"Ref", "Qty", "Designation", "Price", "Client", "EAN13", "Order"}
}

// Row is one record of a source or derived table. Cells are always
// strings; numeric interpretation happens at aggregation points only.
type Row []string

// Leading returns the leading cell (position 0), or the empty string
// for a zero-width row.
func (r Row) Leading() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// IsBlank reports whether every cell in the row is empty
func (r Row) IsBlank() bool {
	for _, cell := range r {
		if cell != "" {
			return false
		}
	}
	return true
}

// clone returns a copy of the row so stages never alias caller data
func (r Row) clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// RawFile is one downloaded source artifact: an ordered sequence of
// headerless rows. Created by the transport collaborator; the engine
// never mutates it.
type RawFile struct {
	Name string
	Rows []Row
}

// OutputFormat selects the rendering target for an OutputSpec
type OutputFormat string

const (
	FormatCSV  OutputFormat = "csv"
	FormatXLSX OutputFormat = "xlsx"
)

// Extension returns the file extension for the format, dot included
func (f OutputFormat) Extension() string {
	if f == FormatCSV {
		return ".csv"
	}
	return ".xlsx"
}

// HeaderType selects how the synthetic header row is produced
type HeaderType string

const (
	// HeaderFixedText places HeaderContent verbatim (with {date}
	// substitution) into the header row.
	HeaderFixedText HeaderType = "fixed_text"
	// HeaderFixedTextPlusDate behaves like HeaderFixedText; it exists as
	// a distinct configuration label for profiles whose content is
	// expected to carry a {date} token.
	HeaderFixedTextPlusDate HeaderType = "fixed_text_date"
	// HeaderColumnNames uses the fixed schema column names
	HeaderColumnNames HeaderType = "column_names"
)

// DateFormat is one of the six fixed date renderings offered to
// suppliers for header and file-name substitution.
type DateFormat string

const (
	DateDashDMYShort DateFormat = "dd-mm-yy"
	DateDashDMYLong  DateFormat = "dd-mm-yyyy"
	DateDashYMD      DateFormat = "yyyy-mm-dd"
	DateCompactYMD   DateFormat = "yyyymmdd"
	DateCompactDMY   DateFormat = "ddmmyy"
	DateCompactDMYL  DateFormat = "ddmmyyyy"
)

// Layout returns the Go time layout for the format. Unknown values fall
// back to the short dashed form, mirroring the legacy behaviour.
func (f DateFormat) Layout() string {
	switch f {
	case DateDashDMYShort:
		return "02-01-06"
	case DateDashDMYLong:
		return "02-01-2006"
	case DateDashYMD:
		return "2006-01-02"
	case DateCompactYMD:
		return "20060102"
	case DateCompactDMY:
		return "020106"
	case DateCompactDMYL:
		return "02012006"
	default:
		return "02-01-06"
	}
}

// OutputSpec is the terminal artifact of a pipeline run, handed to an
// external renderer (spreadsheet writer or print layout generator).
type OutputSpec struct {
	FileName string       `json:"file_name"`
	Format   OutputFormat `json:"format"`
	Rows     []Row        `json:"rows"`
	// DataRows counts the data rows before annotation; renderers use it
	// to stop borders/grids short of the footer.
	DataRows int `json:"data_rows"`
	// FilesRead / FilesRequested carry the partial-failure accounting
	// for multi-file runs.
	FilesRead      int `json:"files_read"`
	FilesRequested int `json:"files_requested"`
}

// trimCell normalizes a cell before numeric interpretation
func trimCell(s string) string {
	return strings.TrimSpace(s)
}

// tableWidth returns the arity of the first non-empty row, used when a
// stage must fabricate a row of matching width.
func tableWidth(rows []Row) int {
	for _, r := range rows {
		if len(r) > 0 {
			return len(r)
		}
	}
	return 0
}
