package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

var turkishFold = strings.NewReplacer(
	"ı", "i", "İ", "i", "I", "i",
	"ğ", "g", "Ğ", "g",
	"ş", "s", "Ş", "s",
	"ö", "o", "Ö", "o",
	"ü", "u", "Ü", "u",
	"ç", "c", "Ç", "c",
)

// NormalizeName folds a label into a matching key: lowercase, Turkish
// diacritics stripped, all whitespace removed. The portal is not
// consistent about casing or dotted/dotless i, so matching happens in
// this folded space.
func NormalizeName(name string) string {
	name = turkishFold.Replace(name)
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}
