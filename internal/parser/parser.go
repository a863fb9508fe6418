package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/playcap/internal/models"
	"golang.org/x/net/html/charset"
)

// Selectors lists the CSS selectors and header synonyms the strategies look for.
type Selectors struct {
	Tables        []string // Tabular containers for [TableStrategy]
	ArtistHeaders []string // Header text naming the artist column
	TitleHeaders  []string // Header text naming the title column
	Artists       []string // Artist-role elements
	Titles        []string // Title-role elements
	Rows          []string // Row containers for [RowStrategy]
}

// DefaultSelectors returns the selectors known to match current and older playlist layouts.
func DefaultSelectors() Selectors {
	return Selectors{
		Tables:        []string{"table", ".playlist", "#playlist", ".songtable"},
		ArtistHeaders: []string{"artist", "performer"},
		TitleHeaders:  []string{"title", "song", "track"},
		Artists:       []string{".playlist_artist", ".artist"},
		Titles:        []string{".playlist_song", ".song", ".title", ".track"},
		Rows:          []string{".playlist_row", ".songrow", ".trackrow", "tr"},
	}
}

// withDefaults fills empty fields from [DefaultSelectors].
func (s Selectors) withDefaults() Selectors {
	d := DefaultSelectors()
	if len(s.Tables) == 0 {
		s.Tables = d.Tables
	}
	if len(s.ArtistHeaders) == 0 {
		s.ArtistHeaders = d.ArtistHeaders
	}
	if len(s.TitleHeaders) == 0 {
		s.TitleHeaders = d.TitleHeaders
	}
	if len(s.Artists) == 0 {
		s.Artists = d.Artists
	}
	if len(s.Titles) == 0 {
		s.Titles = d.Titles
	}
	if len(s.Rows) == 0 {
		s.Rows = d.Rows
	}
	return s
}

func group(selectors []string) string {
	return strings.Join(selectors, ", ")
}

// Strategy extracts rows from one markup shape. It returns nil when the shape is absent.
type Strategy interface {
	Name() string
	Parse(doc *goquery.Document) []models.RawRow
}

// Result holds the rows found and the name of the strategy that found them.
type Result struct {
	Strategy string
	Rows     []models.RawRow
}

// Parser tries its strategies in order and stops at the first that yields rows.
type Parser struct {
	strategies []Strategy
}

// New creates a [Parser] with the table, class and row strategies built from sel.
func New(sel Selectors) *Parser {
	sel = sel.withDefaults()
	return NewWithStrategies(
		&TableStrategy{Selectors: sel},
		&ClassStrategy{Selectors: sel},
		&RowStrategy{Selectors: sel},
	)
}

// NewWithStrategies creates a [Parser] with a custom strategy order.
func NewWithStrategies(strategies ...Strategy) *Parser {
	return &Parser{strategies: strategies}
}

// Strategies returns the strategy names in priority order.
func (p *Parser) Strategies() []string {
	names := make([]string, 0, len(p.strategies))
	for _, s := range p.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Parse decodes body using contentType as a charset hint and extracts rows.
//
// An empty [Result] with a nil error means no strategy matched.
func (p *Parser) Parse(body []byte, contentType string) (*Result, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to detect charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML document: %w", err)
	}

	return p.ParseDocument(doc), nil
}

// ParseDocument runs the strategies against an already parsed document.
func (p *Parser) ParseDocument(doc *goquery.Document) *Result {
	for _, s := range p.strategies {
		if rows := s.Parse(doc); len(rows) > 0 {
			return &Result{Strategy: s.Name(), Rows: rows}
		}
	}
	return &Result{}
}
