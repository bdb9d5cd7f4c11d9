package release

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// romanNumeralRegex matches Roman numerals II-IX when preceded by a space.
// Standalone "I" and "X" are excluded ("I Robot", "SPY x FAMILY"), as is a
// numeral at the start of the string ("VII Days").
var romanNumeralRegex = regexp.MustCompile(`(?i) (ii|iii|iv|v|vi|vii|viii|ix)\b`)

var romanToArabic = map[string]string{
	"II": "2", "III": "3", "IV": "4", "V": "5",
	"VI": "6", "VII": "7", "VIII": "8", "IX": "9",
}

func normalizeRomanNumerals(s string) string {
	return romanNumeralRegex.ReplaceAllStringFunc(s, func(match string) string {
		roman := strings.TrimSpace(match)
		if arabic, ok := romanToArabic[strings.ToUpper(roman)]; ok {
			return " " + arabic
		}
		return match
	})
}

// Leading articles stripped from each title segment. French articles are
// included because Sonarr alternate titles frequently carry them.
var leadingArticles = []string{
	"the ", "a ", "an ",
	"le ", "la ", "les ", "l'", "un ", "une ", "des ",
}

// CleanTitle normalizes a title for matching purposes.
// Lowercases, converts Roman numerals, strips accents and articles,
// and collapses punctuation and whitespace.
func CleanTitle(title string) string {
	s := strings.ToLower(title)

	// Roman numerals before accent removal
	s = normalizeRomanNumerals(s)

	s = removeAccents(s)

	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, ".", " ")

	// Handle subtitles split on colon, stripping articles from each part
	parts := strings.Split(s, ":")
	for i, part := range parts {
		parts[i] = stripLeadingArticle(strings.TrimSpace(part))
	}
	s = strings.Join(parts, " ")

	// Drop remaining punctuation
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	s = b.String()

	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

func stripLeadingArticle(s string) string {
	s = strings.TrimSpace(s)
	for _, art := range leadingArticles {
		if strings.HasPrefix(s, art) {
			return strings.TrimSpace(strings.TrimPrefix(s, art))
		}
	}
	return s
}
