package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ordercli/internal/errors"
)

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr bool
	}{
		{
			name:    "stock display profile",
			profile: DisplayDefaults(),
		},
		{
			name:    "stock print profile",
			profile: PrintDefaults(),
		},
		{
			name:    "stock export profile",
			profile: ExportDefaults(),
		},
		{
			name:    "missing mode",
			profile: Profile{},
			wantErr: true,
		},
		{
			name:    "unknown mode",
			profile: Profile{Mode: Mode("preview")},
			wantErr: true,
		},
		{
			name: "unknown column key",
			profile: Profile{
				Mode:            ModeExport,
				ColumnsToRemove: []ColumnKey{"ref", "bogus"},
			},
			wantErr: true,
		},
		{
			name: "prefix over eight characters",
			profile: Profile{
				Mode:             ModeExport,
				PrefixesToRemove: []string{"TOOLONGPREFIX"},
			},
			wantErr: true,
		},
		{
			name: "unknown header type",
			profile: Profile{
				Mode:       ModeExport,
				HeaderType: HeaderType("banner"),
			},
			wantErr: true,
		},
		{
			name: "header enabled without type",
			profile: Profile{
				Mode:          ModeExport,
				HeaderEnabled: true,
			},
			wantErr: true,
		},
		{
			name: "fixed text header with empty content",
			profile: Profile{
				Mode:          ModeExport,
				HeaderEnabled: true,
				HeaderType:    HeaderFixedText,
			},
			wantErr: true,
		},
		{
			name: "column names header needs no content",
			profile: Profile{
				Mode:          ModeExport,
				HeaderEnabled: true,
				HeaderType:    HeaderColumnNames,
			},
		},
		{
			name: "unknown output format",
			profile: Profile{
				Mode:         ModeExport,
				OutputFormat: OutputFormat("pdf"),
			},
			wantErr: true,
		},
		{
			name: "unknown date format",
			profile: Profile{
				Mode:       ModeExport,
				DateFormat: DateFormat("mm/dd/yy"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidProfile)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProfile_RemovalPositions(t *testing.T) {
	profile := Profile{
		Mode:            ModeExport,
		ColumnsToRemove: []ColumnKey{ColumnQty, ColumnOrder, ColumnRef, "bogus"},
	}

	got := profile.removalPositions()
	assert.Equal(t, []int{6, 1, 0}, got)
}

func TestDefaultsForMode(t *testing.T) {
	for _, mode := range []Mode{ModeDisplay, ModePrint, ModeExport} {
		profile, err := DefaultsForMode(mode)
		require.NoError(t, err)
		assert.Equal(t, mode, profile.Mode)
		assert.NoError(t, profile.Validate())
	}

	_, err := DefaultsForMode(Mode("preview"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidProfile)
}

// Profiles round-trip through the JSON shape stored in the supplier
// records.
func TestProfile_JSONFieldNames(t *testing.T) {
	raw := `{
		"columns_to_remove": ["price", "client"],
		"prefixes_to_remove": ["HOP"],
		"add_date": true,
		"split_files": false,
		"merge_duplicates": true,
		"add_output_header": true,
		"header_type": "fixed_text_date",
		"header_content": "Cmd du {date}",
		"output_format": "xlsx",
		"output_filename": "{supplier}_{date}",
		"date_format": "dd-mm-yy"
	}`

	var profile Profile
	require.NoError(t, json.Unmarshal([]byte(raw), &profile))
	profile.Mode = ModeExport

	assert.Equal(t, []ColumnKey{ColumnPrice, ColumnClient}, profile.ColumnsToRemove)
	assert.Equal(t, []string{"HOP"}, profile.PrefixesToRemove)
	assert.True(t, profile.AddDate)
	assert.True(t, profile.MergeDuplicates)
	assert.True(t, profile.HeaderEnabled)
	assert.Equal(t, HeaderFixedTextPlusDate, profile.HeaderType)
	assert.Equal(t, FormatXLSX, profile.OutputFormat)
	assert.Equal(t, DateDashDMYShort, profile.DateFormat)
	assert.NoError(t, profile.Validate())
}
