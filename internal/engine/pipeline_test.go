package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ordercli/internal/errors"
)

func testPipeline() *Pipeline {
	clock := time.Date(2025, time.January, 15, 14, 30, 5, 0, time.UTC)
	return NewPipeline(nil, WithClock(func() time.Time { return clock }))
}

func TestPipeline_RunExport(t *testing.T) {
	profile := Profile{
		Mode:             ModeExport,
		ColumnsToRemove:  []ColumnKey{ColumnPrice, ColumnClient, ColumnEAN13, ColumnOrder},
		PrefixesToRemove: []string{"HOP"},
		MergeDuplicates:  true,
		OutputFormat:     FormatXLSX,
		FilenameTemplate: "{supplier}_{date}",
		DateFormat:       DateDashDMYShort,
	}

	files := []RawFile{
		{Name: "order1.csv", Rows: []Row{
			{"HOP200", "2", "chain kit", "89.00", "dupont", "370001", "CMD1"},
			{"HOP100", "1", "brake pad", "25.50", "martin", "370002", "CMD1"},
		}},
		{Name: "order2.csv", Rows: []Row{
			{"HOP100", "3", "brake pad", "25.50", "durand", "370002", "CMD2"},
		}},
	}

	spec, err := testPipeline().Run(context.Background(), profile, "honda", files)
	require.NoError(t, err)

	assert.Equal(t, "honda_15-01-25.xlsx", spec.FileName)
	assert.Equal(t, FormatXLSX, spec.Format)
	assert.Equal(t, 2, spec.FilesRead)
	assert.Equal(t, 2, spec.FilesRequested)
	assert.Equal(t, 2, spec.DataRows)

	// Merged, sorted on the stripped reference, duplicates summed with
	// the first occurrence supplying the other columns.
	expected := []Row{
		{"100", "4", "brake pad"},
		{"200", "2", "chain kit"},
	}
	assert.Equal(t, expected, spec.Rows)
}

func TestPipeline_RunSplitWithAnnotations(t *testing.T) {
	profile := Profile{
		Mode:             ModePrint,
		SplitFiles:       true,
		AddDate:          true,
		HeaderEnabled:    true,
		HeaderType:       HeaderFixedTextPlusDate,
		HeaderContent:    "Cmd du {date}",
		OutputFormat:     FormatCSV,
		FilenameTemplate: "impression_{supplier}_{date}_{time}",
		DateFormat:       DateDashDMYShort,
	}

	files := []RawFile{
		{Name: "a.csv", Rows: []Row{{"B", "1", "x"}, {"A", "2", "y"}}},
		{Name: "b.csv", Rows: []Row{{"C", "3", "z"}}},
	}

	spec, err := testPipeline().Run(context.Background(), profile, "yamaha", files)
	require.NoError(t, err)

	assert.Equal(t, "impression_yamaha_15-01-25_143005.csv", spec.FileName)
	assert.Equal(t, 4, spec.DataRows)

	expected := []Row{
		{"Cmd du 15-01-25", "", ""},
		{"A", "2", "y"},
		{"B", "1", "x"},
		{"", "", ""},
		{"C", "3", "z"},
		{"", "", ""},
		{"", "", "Le 15/01/25"},
	}
	assert.Equal(t, expected, spec.Rows)
}

// Split composition and duplicate merging can be enabled together; the
// blank separators between files must survive the merge stage with
// their cells untouched.
func TestPipeline_RunSplitWithMerge(t *testing.T) {
	profile := Profile{
		Mode:             ModeDisplay,
		SplitFiles:       true,
		MergeDuplicates:  true,
		OutputFormat:     FormatCSV,
		FilenameTemplate: "{supplier}_{date}",
		DateFormat:       DateDashDMYShort,
	}

	files := []RawFile{
		{Name: "a.csv", Rows: []Row{{"A", "1", "x"}}},
		{Name: "b.csv", Rows: []Row{{"B", "2", "y"}}},
		{Name: "c.csv", Rows: []Row{{"C", "3", "z"}}},
	}

	spec, err := testPipeline().Run(context.Background(), profile, "honda", files)
	require.NoError(t, err)

	expected := []Row{
		{"A", "1", "x"},
		{"", "", ""},
		{"B", "2", "y"},
		{"", "", ""},
		{"C", "3", "z"},
	}
	assert.Equal(t, expected, spec.Rows)
}

func TestPipeline_RunEmptyResult(t *testing.T) {
	profile := ExportDefaults()

	tests := []struct {
		name  string
		files []RawFile
	}{
		{name: "no files"},
		{name: "only empty files", files: []RawFile{{Name: "a.csv"}, {Name: "b.csv"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := testPipeline().Run(context.Background(), profile, "honda", tt.files)
			assert.ErrorIs(t, err, apperrors.ErrEmptyResult)
			assert.Nil(t, spec)
		})
	}
}

func TestPipeline_RunInvalidProfile(t *testing.T) {
	profile := Profile{Mode: Mode("preview")}

	spec, err := testPipeline().Run(context.Background(), profile, "honda", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidProfile)
	assert.Nil(t, spec)
}

func TestPipeline_RunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []RawFile{{Name: "a.csv", Rows: []Row{{"A", "1"}}}}
	spec, err := testPipeline().Run(ctx, ExportDefaults(), "honda", files)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, spec)
}

// The same pipeline serves all three modes; only the Profile changes
// between runs.
func TestPipeline_ModeIndependence(t *testing.T) {
	files := []RawFile{{Name: "a.csv", Rows: []Row{
		{"A", "1", "x", "9.90", "c", "370001", "CMD"},
	}}}

	p := testPipeline()
	for _, mode := range []Mode{ModeDisplay, ModePrint, ModeExport} {
		profile, err := DefaultsForMode(mode)
		require.NoError(t, err)

		spec, err := p.Run(context.Background(), profile, "honda", files)
		require.NoError(t, err, "mode %s", mode)
		assert.Equal(t, 1, spec.DataRows)
	}
}
