// package models defines the data model for a playlist capture run
package models

import (
	"fmt"
	"strings"
)

// RawRow is an unfiltered artist/title pair produced by the parser. Either field may be empty.
type RawRow struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// CleanedTrack is a [RawRow] after title cleanup. Title is never empty.
type CleanedTrack struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// String renders the track as "Artist — Title".
func (t CleanedTrack) String() string {
	return fmt.Sprintf("%s — %s", t.Artist, t.Title)
}

// Candidate is a single track returned by a catalog search.
type Candidate struct {
	ArtistNames []string `json:"artist_names"`
	Title       string   `json:"title"`
	ID          string   `json:"id"`
	URL         string   `json:"url,omitempty"`
}

// Artists joins the candidate's artist names with a single space.
func (c Candidate) Artists() string {
	return strings.Join(c.ArtistNames, " ")
}

// Indicator is the confidence tier of a catalog match.
type Indicator int

const (
	Unavailable Indicator = iota // no catalog configured
	NoMatch
	Uncertain
	Confirmed
)

func (i Indicator) String() string {
	switch i {
	case Confirmed:
		return "confirmed"
	case Uncertain:
		return "uncertain"
	case NoMatch:
		return "no_match"
	case Unavailable:
		return "unavailable"
	default:
		return ""
	}
}

// Glyph returns the symbol shown next to a track line. Unavailable has none.
func (i Indicator) Glyph() string {
	switch i {
	case Confirmed:
		return "✅"
	case Uncertain:
		return "🤔"
	case NoMatch:
		return "❌"
	default:
		return ""
	}
}

// MarshalText encodes the indicator by name.
func (i Indicator) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// MatchResult is attached to a [CleanedTrack] by the matcher.
type MatchResult struct {
	Indicator    Indicator `json:"indicator"`
	ReferenceURL string    `json:"reference_url,omitempty"`
	Score        int       `json:"score"`           // Score of the chosen candidate
	Query        string    `json:"query,omitempty"` // Query that produced the candidates
}

// TrackEntry is the final output unit, numbered 1..N in page order.
type TrackEntry struct {
	Index int          `json:"index"`
	Track CleanedTrack `json:"track"`
	Match MatchResult  `json:"match"`
}

// PipelineResult is the outcome of one capture run.
//
// Error and Items are mutually exclusive: a non-empty Error always comes with no items.
type PipelineResult struct {
	URL   string       `json:"url"`
	Error string       `json:"error,omitempty"`
	Items []TrackEntry `json:"items"`
}

// OK reports whether the run produced tracks without error.
func (r *PipelineResult) OK() bool {
	return r.Error == "" && len(r.Items) > 0
}
