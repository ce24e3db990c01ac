package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"ordercli/internal/engine"
	apperrors "ordercli/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// separators tried in order against a delimited payload. Most supplier
// terminals emit ";" but a few older ones use ",".
var separators = []rune{';', ','}

// Reader decodes supplier order files into raw row tables
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a reader with the given logger
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger.With(slog.String("component", "dataprocessing"))}
}

// ReadFile decodes the file at path. Any failure, from the filesystem
// up to the last decode attempt, is wrapped in a SourceReadError so the
// caller can skip the file and keep processing the rest of a batch.
func (r *Reader) ReadFile(path string) (engine.RawFile, error) {
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return engine.RawFile{}, apperrors.NewSourceReadError(name, err)
	}

	return r.Decode(name, data)
}

// Decode decodes an in-memory payload, picking the parser from the file
// extension. Workbook files go through the spreadsheet reader; anything
// else is treated as delimited text.
func (r *Reader) Decode(name string, data []byte) (engine.RawFile, error) {
	var (
		rows []engine.Row
		err  error
	)
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		rows, err = decodeWorkbook(data)
	} else {
		rows, err = r.decodeDelimited(name, data)
	}
	if err != nil {
		return engine.RawFile{}, apperrors.NewSourceReadError(name, err)
	}

	r.logger.Debug("file decoded",
		slog.String("file", name),
		slog.Int("rows", len(rows)))

	return engine.RawFile{Name: name, Rows: rows}, nil
}

// decodeDelimited normalizes the payload to UTF-8 and tries each known
// separator, keeping the first one that yields a multi-column table. A
// payload where no separator produces more than one column falls back
// to the first parse that succeeded at all.
func (r *Reader) decodeDelimited(name string, data []byte) ([]engine.Row, error) {
	text, encoding, err := normalizeText(data)
	if err != nil {
		return nil, fmt.Errorf("decode text: %w", err)
	}
	if encoding != "utf-8" {
		r.logger.Debug("non-utf8 source file",
			slog.String("file", name),
			slog.String("encoding", encoding))
	}

	var fallback []engine.Row
	for _, sep := range separators {
		rows, err := parseDelimited(text, sep)
		if err != nil {
			continue
		}
		if tableHasColumns(rows) {
			return rows, nil
		}
		if fallback == nil {
			fallback = rows
		}
	}

	if fallback == nil {
		return nil, fmt.Errorf("no separator matched")
	}
	return fallback, nil
}

// normalizeText strips the UTF-8 BOM and converts the payload to a
// UTF-8 string. Invalid UTF-8 is retried as Windows-1252 and then
// Latin-1, which maps every byte and therefore cannot fail.
func normalizeText(data []byte) (string, string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}

	if decoded, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil && utf8.Valid(decoded) {
		return string(decoded), "windows-1252", nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", err
	}
	return string(decoded), "latin-1", nil
}

func parseDelimited(text string, sep rune) ([]engine.Row, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sep
	reader.FieldsPerRecord = -1 // ragged rows tolerated
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([]engine.Row, 0, len(records))
	for _, record := range records {
		row := engine.Row(record)
		if row.IsBlank() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// decodeWorkbook reads the first sheet of a spreadsheet payload
func decodeWorkbook(data []byte) ([]engine.Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	rows := make([]engine.Row, 0, len(records))
	for _, record := range records {
		row := engine.Row(record)
		if row.IsBlank() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// tableHasColumns reports whether any row has at least two cells
func tableHasColumns(rows []engine.Row) bool {
	for _, row := range rows {
		if len(row) > 1 {
			return true
		}
	}
	return false
}
