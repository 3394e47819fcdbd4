package unisis

import (
	"regexp"
	"strings"
)

// The two cafeteria tables are rendered with different delimiter
// conventions upstream, so each gets its own normalization rule. Both
// rules share the same raw delimiter set: ampersand (entity or raw),
// slash, plus, bullet variants, pipe variants, newline and period.
var cellDelimiters = regexp.MustCompile(`&amp;|&|/|\+|[•·●◦]|[|¦]|\n|\.`)

var repeatedCommas = regexp.MustCompile(`,{2,}`)

// bracketed serving-time windows, station names and "self-corner"
// labels in the staff table are noise, not content
var bracketedAnnotations = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)

// FormatDormitoryCell normalizes a dormitory-table cell: every
// delimiter becomes a single comma, runs of commas collapse, and
// leading/trailing commas and whitespace are trimmed.
func FormatDormitoryCell(text string) string {
	text = cellDelimiters.ReplaceAllString(text, ",")
	text = repeatedCommas.ReplaceAllString(text, ",")

	parts := strings.Split(text, ",")
	dishes := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dishes = append(dishes, part)
	}
	return strings.Join(dishes, ",")
}

// FormatStaffCell normalizes a staff-table cell: bracketed annotations
// are stripped entirely, delimiters collapse to spaces instead of
// commas, and the remaining whitespace-separated tokens are rejoined
// with commas. Collapsing to spaces first keeps the table's heavy
// delimiter use from producing empty comma-separated slots.
func FormatStaffCell(text string) string {
	text = bracketedAnnotations.ReplaceAllString(text, " ")
	text = cellDelimiters.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), ",")
}
