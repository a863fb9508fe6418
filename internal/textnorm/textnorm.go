// Package textnorm cleans scraped playlist text for display and folds it for catalog matching.
//
// [CleanTitle] produces the display string. [FoldASCII] and [NormForMatch] are lossy and only
// used to compare a scraped track against catalog candidates.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Segue marks a following segue or note in a title cell.
const Segue = "→"

const (
	dashCutset  = " -–—"
	punctuation = "!\"#$%&()*+,-./:;<=>?@[\\]^_`{|}~"
)

var (
	parenGroup = regexp.MustCompile(`(?s)\(.*?\)`)

	quotes = strings.NewReplacer(`"`, "", "“", "", "”", "", "„", "")

	// letters with no canonical decomposition
	ligatures = strings.NewReplacer(
		"ø", "o", "Ø", "O",
		"æ", "ae", "Æ", "AE",
		"œ", "oe", "Œ", "OE",
		"ß", "ss",
		"ł", "l", "Ł", "L",
		"đ", "d", "Đ", "D",
		"ð", "d", "Ð", "D",
		"þ", "th", "Þ", "TH",
		"ı", "i",
	)
)

// CleanTitle returns the display form of a scraped title.
//
// Anything after the first [Segue] is dropped, along with quotation marks and parenthesized asides.
// Whitespace is collapsed and leading/trailing dashes are trimmed.
func CleanTitle(title string) string {
	if before, _, ok := strings.Cut(title, Segue); ok {
		title = before
	}

	title = quotes.Replace(title)
	title = parenGroup.ReplaceAllString(title, "")
	// unbalanced leftovers such as "Song (live" or "((x))"
	title = strings.NewReplacer("(", "", ")", "").Replace(title)
	title = CollapseSpace(title)

	return strings.TrimSpace(strings.Trim(title, dashCutset))
}

// CollapseSpace trims s and reduces internal whitespace runs to one space.
// Unicode spaces such as U+00A0 count as whitespace.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FoldASCII decomposes accented characters to their base Latin letter and drops combining marks
// and anything left outside ASCII. Unicode spaces become an ASCII space first.
func FoldASCII(s string) string {
	s = ligatures.Replace(s)

	// transformers are stateful, so build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	return strings.Map(func(r rune) rune {
		switch {
		case r <= unicode.MaxASCII:
			return r
		case unicode.IsSpace(r) || unicode.Is(unicode.Zs, r):
			return ' '
		}
		return -1
	}, folded)
}

// NormForMatch folds s to lowercase ASCII with punctuation removed and whitespace collapsed.
//
// The result is only meant for comparisons and is idempotent.
func NormForMatch(s string) string {
	s = strings.ToLower(FoldASCII(s))
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\'':
			return -1
		case strings.ContainsRune(punctuation, r):
			return ' '
		}
		return r
	}, s)

	return CollapseSpace(s)
}
