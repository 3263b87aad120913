// Package lookup matches free-text queries against decoded FDB questions and
// renders the stored answer.
package lookup

import (
	"html"
	"regexp"
	"strings"
)

// punctuation characters are folded to spaces before comparison.
const punctuation = ".,!?;:\"'`“”«»„…()[]{}<>/\\|@#$%^&*_+=-"

var (
	breakTags       = regexp.MustCompile(`(?i)<br\s*/?>|</p>`)
	markupTags      = regexp.MustCompile(`<[^>]+>`)
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	lineBreakSpace  = regexp.MustCompile(`[\s\v\x{85}\p{Z}]*\n[\s\v\x{85}\p{Z}]*`)
)

// StripMarkup turns HTML-ish question text into plain text. Line-break markup
// becomes a newline and every run of whitespace around a newline collapses to it.
func StripMarkup(text string) string {
	if text == "" {
		return ""
	}
	plain := html.UnescapeString(text)
	plain = strings.ReplaceAll(plain, "\u00a0", " ")
	plain = breakTags.ReplaceAllString(plain, "\n")
	plain = markupTags.ReplaceAllString(plain, " ")
	plain = horizontalSpace.ReplaceAllString(plain, " ")
	plain = lineBreakSpace.ReplaceAllString(plain, "\n")
	return strings.TrimSpace(plain)
}

// Normalize returns the spaced comparison form of text: markup stripped,
// lower-cased, ё folded to е, punctuation turned into spaces and whitespace
// collapsed. Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	plain := strings.Map(foldRune, strings.ToLower(StripMarkup(text)))
	return strings.Join(strings.Fields(plain), " ")
}

// NormalizeCompact is Normalize with all whitespace removed.
func NormalizeCompact(text string) string {
	return compact(Normalize(text))
}

func compact(normalized string) string {
	return strings.ReplaceAll(normalized, " ", "")
}

func foldRune(r rune) rune {
	if r == 'ё' {
		return 'е'
	}
	if strings.ContainsRune(punctuation, r) {
		return ' '
	}
	return r
}
