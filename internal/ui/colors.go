package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/playcap/internal/formatter"
	"github.com/desertthunder/playcap/internal/models"
)

// Default is the palette used by the CLI.
var Default = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500")

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
}

var _ Painter = (*Palette)(nil)

func NewPalette(t, s, e, w string) *Palette {
	return &Palette{
		title: NewBold(t),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func (p *Palette) On(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(s)
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

func (p *Palette) Title(s string) string { return p.title.Render(s) }
func (p *Palette) OK(s string) string    { return p.ok.Render(s) }
func (p *Palette) Err(s string) string   { return p.err.Render(s) }
func (p *Palette) Warn(s string) string  { return p.warn.Render(s) }

// Entry renders a track line colored by its match indicator. Unavailable lines stay plain.
func (p *Palette) Entry(entry models.TrackEntry) string {
	line := formatter.Line(entry)
	switch entry.Match.Indicator {
	case models.Confirmed:
		return p.ok.Render(line)
	case models.Uncertain:
		return p.warn.Render(line)
	case models.NoMatch:
		return p.err.Render(line)
	default:
		return line
	}
}
