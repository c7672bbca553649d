package release

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// romanNumeral matches II through IX after a space. A leading numeral and
// the single letters I and X are left alone ("VII Days", "I Robot",
// "American History X").
var romanNumeral = regexp.MustCompile(`(?i) (ii|iii|iv|v|vi|vii|viii|ix)\b`)

var romanValues = map[string]string{
	"ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9",
}

// NormalizeRomanNumerals rewrites trailing sequel numerals as digits.
func NormalizeRomanNumerals(s string) string {
	return romanNumeral.ReplaceAllStringFunc(s, func(match string) string {
		if arabic, ok := romanValues[strings.ToLower(strings.TrimSpace(match))]; ok {
			return " " + arabic
		}
		return match
	})
}

// CleanTitle reduces a title to a lowercase comparison key: accents,
// punctuation and leading articles are removed, "&" becomes "and".
func CleanTitle(title string) string {
	s := NormalizeRomanNumerals(strings.ToLower(title))
	s = removeAccents(s)

	s = strings.NewReplacer("&", " and ", "-", " ", "'", "", ".", " ", "_", " ").Replace(s)

	// "Léon: The Professional" has an article after the colon too
	parts := strings.Split(s, ":")
	for i, part := range parts {
		parts[i] = stripLeadingArticle(part)
	}
	s = strings.Join(parts, " ")

	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

func stripLeadingArticle(s string) string {
	s = strings.TrimSpace(s)
	for _, art := range []string{"the ", "a ", "an "} {
		if rest, ok := strings.CutPrefix(s, art); ok {
			return rest
		}
	}
	return s
}

// SearchQuery prepares a title for a metadata search: accents are kept,
// separators become spaces and whitespace is collapsed.
func SearchQuery(title string) string {
	s := strings.NewReplacer("&", "and", "_", " ").Replace(title)
	return strings.Join(strings.Fields(s), " ")
}
