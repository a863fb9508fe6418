// Package filter decides whether a scraped artist/title pair is a real track or on-air filler.
package filter

import "strings"

// DefaultDenylist holds operational-announcement terms matched case-insensitively against either field.
var DefaultDenylist = []string{
	"station id", "id break", "underwriting", "psa",
	"news", "traffic", "weather", "promo", "ad break",
	"mic break", "dj break", "talk break",
}

// bedMusic is the station's placeholder artist for ambient music under talk segments.
const bedMusic = "behind dj"

// Classifier rejects filler rows using a configurable denylist.
type Classifier struct {
	denylist []string
}

// NewClassifier creates a [Classifier]. A nil or empty denylist falls back to [DefaultDenylist].
func NewClassifier(denylist []string) *Classifier {
	if len(denylist) == 0 {
		denylist = DefaultDenylist
	}

	terms := make([]string, 0, len(denylist))
	for _, term := range denylist {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			terms = append(terms, term)
		}
	}
	return &Classifier{denylist: terms}
}

// Denylist returns a copy of the terms in use.
func (c *Classifier) Denylist() []string {
	return append([]string(nil), c.denylist...)
}

// ShouldSkip reports whether the pair should be dropped. Title is expected to be cleaned already.
func (c *Classifier) ShouldSkip(artist, title string) bool {
	return c.Reason(artist, title) != ""
}

// Reason returns why a pair would be skipped, or "" if it is kept.
func (c *Classifier) Reason(artist, title string) string {
	a := strings.Trim(strings.ToLower(artist), ": ")
	t := strings.ToLower(title)

	if strings.TrimSpace(t) == "" {
		return "empty title"
	}

	if strings.Contains(a, bedMusic) {
		return "music behind dj"
	}

	for _, term := range c.denylist {
		if strings.Contains(a, term) || strings.Contains(t, term) {
			return "denylist:" + term
		}
	}

	return ""
}

var defaultClassifier = NewClassifier(nil)

// ShouldSkip applies the default denylist.
func ShouldSkip(artist, title string) bool {
	return defaultClassifier.ShouldSkip(artist, title)
}
