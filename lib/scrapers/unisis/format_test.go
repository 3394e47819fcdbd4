package unisis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatDormitoryCell(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Peynir & Zeytin", "Peynir,Zeytin"},
		{"Peynir &amp; Zeytin / Bal", "Peynir,Zeytin,Bal"},
		{"Çorba + Pilav • Ayran | Salata", "Çorba,Pilav,Ayran,Salata"},
		{"Çorba\nPilav\nAyran", "Çorba,Pilav,Ayran"},
		{"Makarna . Yoğurt", "Makarna,Yoğurt"},
		{"/ Çorba // Pilav /", "Çorba,Pilav"},
		{"  ", ""},
		{"", ""},
		{"Tek Yemek", "Tek Yemek"},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, FormatDormitoryCell(test.input), "input: %q", test.input)
	}
}

func TestFormatStaffCell(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Rice / Soup", "Rice,Soup"},
		{"Köfte [11:30-14:00] / Pilav", "Köfte,Pilav"},
		{"Izgara (Self Köşesi) + Ayran", "Izgara,Ayran"},
		{"Çorba | Köfte • Pilav", "Çorba,Köfte,Pilav"},
		{"[12:00] (kapalı)", ""},
		{"", ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, FormatStaffCell(test.input), "input: %q", test.input)
	}
}

// the staff formatter's output must be free of every raw delimiter and
// annotation character, whatever the input
func TestFormatStaffCellNoForbiddenRunes(t *testing.T) {
	inputs := []string{
		"Köfte [11:30-14:00] / Pilav + Ayran • Salata | Çay\nHoşaf · Pide",
		"[[]] //++ •• || ..",
		"A/B+C•D·E|F\nG.H [x] (y)",
	}
	for _, input := range inputs {
		out := FormatStaffCell(input)
		require.False(t, strings.ContainsAny(out, "[]/+•·|\n"), "output: %q", out)
	}
}

// the dormitory formatter never emits doubled, leading or trailing commas
func TestFormatDormitoryCellCommaShape(t *testing.T) {
	inputs := []string{
		",,Çorba,,,Pilav,,",
		"/ & + • Çorba / / Pilav . . .",
		"\n\nÇorba\n\n",
		"&&&",
	}
	for _, input := range inputs {
		out := FormatDormitoryCell(input)
		require.NotContains(t, out, ",,", "output: %q", out)
		require.False(t, strings.HasPrefix(out, ","), "output: %q", out)
		require.False(t, strings.HasSuffix(out, ","), "output: %q", out)
	}
}
