package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var annotateClock = time.Date(2025, time.January, 15, 14, 30, 5, 0, time.UTC)

func TestAnnotate_Header(t *testing.T) {
	rows := []Row{{"A", "1", "widget"}}

	tests := []struct {
		name     string
		profile  Profile
		expected Row
	}{
		{
			name: "fixed text lands in column zero",
			profile: Profile{
				HeaderEnabled: true,
				HeaderType:    HeaderFixedText,
				HeaderContent: "Commande fournisseur",
			},
			expected: Row{"Commande fournisseur", "", ""},
		},
		{
			name: "fixed text with date placeholder",
			profile: Profile{
				HeaderEnabled: true,
				HeaderType:    HeaderFixedTextPlusDate,
				HeaderContent: "Cmd du {date}",
				DateFormat:    DateDashDMYShort,
			},
			expected: Row{"Cmd du 15-01-25", "", ""},
		},
		{
			name: "semicolons split the text across columns",
			profile: Profile{
				HeaderEnabled: true,
				HeaderType:    HeaderFixedText,
				HeaderContent: "Ref;Qte;Libelle",
			},
			expected: Row{"Ref", "Qte", "Libelle"},
		},
		{
			name: "split text truncated to table width",
			profile: Profile{
				HeaderEnabled: true,
				HeaderType:    HeaderFixedText,
				HeaderContent: "a;b;c;d;e",
			},
			expected: Row{"a", "b", "c"},
		},
		{
			name: "split text padded to table width",
			profile: Profile{
				HeaderEnabled: true,
				HeaderType:    HeaderFixedText,
				HeaderContent: "a;b",
			},
			expected: Row{"a", "b", ""},
		},
		{
			name: "column names truncated to table width",
			profile: Profile{
				HeaderEnabled: true,
				HeaderType:    HeaderColumnNames,
			},
			expected: Row{"Ref", "Qty", "Designation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Annotate(rows, tt.profile, annotateClock)
			assert.Len(t, got, 2)
			assert.Equal(t, tt.expected, got[0])
			assert.Equal(t, rows[0], got[1])
		})
	}
}

func TestAnnotate_HeaderDisabled(t *testing.T) {
	rows := []Row{{"A", "1"}}
	profile := Profile{HeaderType: HeaderFixedText, HeaderContent: "ignored"}

	got := Annotate(rows, profile, annotateClock)
	assert.Equal(t, rows, got)
}

func TestAnnotate_Footer(t *testing.T) {
	rows := []Row{{"A", "1", "widget"}}
	profile := Profile{AddDate: true}

	got := Annotate(rows, profile, annotateClock)

	expected := []Row{
		{"A", "1", "widget"},
		{"", "", ""},
		{"", "", "Le 15/01/25"},
	}
	assert.Equal(t, expected, got)
}

// Tables narrower than three columns have no cell to carry the date,
// so neither footer row is appended.
func TestAnnotate_FooterNarrowTable(t *testing.T) {
	rows := []Row{{"A", "1"}}
	profile := Profile{AddDate: true}

	got := Annotate(rows, profile, annotateClock)
	assert.Equal(t, rows, got)
}

func TestAnnotate_HeaderAndFooter(t *testing.T) {
	rows := []Row{{"A", "1", "widget"}}
	profile := Profile{
		HeaderEnabled: true,
		HeaderType:    HeaderFixedText,
		HeaderContent: "Commande",
		AddDate:       true,
	}

	got := Annotate(rows, profile, annotateClock)

	expected := []Row{
		{"Commande", "", ""},
		{"A", "1", "widget"},
		{"", "", ""},
		{"", "", "Le 15/01/25"},
	}
	assert.Equal(t, expected, got)
}

func TestAnnotate_EmptyTable(t *testing.T) {
	profile := Profile{
		HeaderEnabled: true,
		HeaderType:    HeaderFixedText,
		HeaderContent: "Commande",
		AddDate:       true,
	}

	got := Annotate(nil, profile, annotateClock)
	assert.Empty(t, got)
}
