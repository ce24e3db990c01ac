package engine

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "ordercli/internal/errors"
)

// Mode names one of the three consumer modes a Profile serves
type Mode string

const (
	ModeDisplay Mode = "display"
	ModePrint   Mode = "print"
	ModeExport  Mode = "export"
)

// Valid reports whether the mode is one of the three known modes
func (m Mode) Valid() bool {
	return m == ModeDisplay || m == ModePrint || m == ModeExport
}

// Profile is the immutable configuration bundle of transformation
// toggles for one consumer mode. Exactly one Profile is active per
// pipeline run and it is never mutated mid-run.
//
// JSON field names match the per-supplier configuration records stored
// by the supplier store.
type Profile struct {
	Mode Mode `json:"-" validate:"required"`

	ColumnsToRemove  []ColumnKey `json:"columns_to_remove" validate:"dive,oneof=ref qty designation price client ean13 order"`
	PrefixesToRemove []string    `json:"prefixes_to_remove" validate:"dive,max=8"`

	AddDate         bool `json:"add_date"`
	SplitFiles      bool `json:"split_files"`
	MergeDuplicates bool `json:"merge_duplicates"`

	HeaderEnabled bool       `json:"add_output_header"`
	HeaderType    HeaderType `json:"header_type" validate:"omitempty,oneof=fixed_text fixed_text_date column_names"`
	HeaderContent string     `json:"header_content"`

	OutputFormat     OutputFormat `json:"output_format" validate:"omitempty,oneof=csv xlsx"`
	FilenameTemplate string       `json:"output_filename"`
	DateFormat       DateFormat   `json:"date_format" validate:"omitempty,oneof=dd-mm-yy dd-mm-yyyy yyyy-mm-dd yyyymmdd ddmmyy ddmmyyyy"`
}

// validate is shared: Profile validation is structural and has no state
var validate = validator.New()

// Validate checks the profile for the fatal configuration conditions: a
// malformed Profile aborts the whole run before any file is touched.
func (p Profile) Validate() error {
	if !p.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", apperrors.ErrInvalidProfile, p.Mode)
	}

	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidProfile, err)
	}

	if p.HeaderEnabled {
		switch p.HeaderType {
		case HeaderFixedText, HeaderFixedTextPlusDate:
			if p.HeaderContent == "" {
				return fmt.Errorf("%w: header enabled with empty content", apperrors.ErrInvalidProfile)
			}
		case HeaderColumnNames:
			// content unused
		default:
			return fmt.Errorf("%w: header enabled without header type", apperrors.ErrInvalidProfile)
		}
	}

	return nil
}

// removalPositions maps the configured column keys to raw positions,
// sorted descending so per-row removal never shifts later indices.
// Unknown keys are silently dropped.
func (p Profile) removalPositions() []int {
	positions := make([]int, 0, len(p.ColumnsToRemove))
	for _, key := range p.ColumnsToRemove {
		if pos, ok := key.Position(); ok {
			positions = append(positions, pos)
		}
	}
	// insertion sort, descending; the slice is at most 7 entries
	for i := 1; i < len(positions); i++ {
		for j := i; j > 0 && positions[j] > positions[j-1]; j-- {
			positions[j], positions[j-1] = positions[j-1], positions[j]
		}
	}
	return positions
}

// DisplayDefaults returns the Profile defaults for on-screen preview,
// matching the stock display_config of a freshly created supplier.
func DisplayDefaults() Profile {
	return Profile{
		Mode:             ModeDisplay,
		OutputFormat:     FormatXLSX,
		FilenameTemplate: "{supplier}-{date}-visu",
		DateFormat:       DateDashDMYShort,
	}
}

// PrintDefaults returns the Profile defaults for the print layout
func PrintDefaults() Profile {
	return Profile{
		Mode:             ModePrint,
		OutputFormat:     FormatCSV,
		FilenameTemplate: "impression_{supplier}_{date}_{time}",
		DateFormat:       DateDashDMYShort,
	}
}

// ExportDefaults returns the Profile defaults for file export toward
// the ordering system (import_config in the supplier record).
func ExportDefaults() Profile {
	return Profile{
		Mode:             ModeExport,
		OutputFormat:     FormatXLSX,
		FilenameTemplate: "{supplier}_{date}",
		DateFormat:       DateDashDMYShort,
	}
}

// DefaultsForMode returns the stock profile for a consumer mode
func DefaultsForMode(mode Mode) (Profile, error) {
	switch mode {
	case ModeDisplay:
		return DisplayDefaults(), nil
	case ModePrint:
		return PrintDefaults(), nil
	case ModeExport:
		return ExportDefaults(), nil
	default:
		return Profile{}, fmt.Errorf("%w: unknown mode %q", apperrors.ErrInvalidProfile, mode)
	}
}
