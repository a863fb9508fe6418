package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/playcap/internal/models"
	"github.com/desertthunder/playcap/internal/textnorm"
	"golang.org/x/net/html"
)

// TableStrategy reads tables whose header row names the artist and title columns.
//
// Header text is matched by case-insensitive substring against the synonym lists; the first
// matching header wins for each role. Every matching table contributes, in document order.
type TableStrategy struct {
	Selectors Selectors
}

func (s *TableStrategy) Name() string { return "table" }

func (s *TableStrategy) Parse(doc *goquery.Document) []models.RawRow {
	var rows []models.RawRow
	var used []*goquery.Selection

	doc.Find(group(s.Selectors.Tables)).Each(func(_ int, tbl *goquery.Selection) {
		// containers selected twice (".playlist" wrapping a table) only count once
		for _, u := range used {
			if u.Contains(tbl.Get(0)) {
				return
			}
		}

		headers := headerCells(tbl)
		if len(headers) == 0 {
			return
		}

		aIdx := indexOf(headers, s.Selectors.ArtistHeaders)
		tIdx := indexOf(headers, s.Selectors.TitleHeaders)
		if aIdx < 0 && tIdx < 0 {
			return
		}

		found := 0
		tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.ChildrenFiltered("td")
			if cells.Length() == 0 {
				return
			}

			row := models.RawRow{
				Artist: cellText(cells, aIdx),
				Title:  cellText(cells, tIdx),
			}
			if row.Artist != "" || row.Title != "" {
				rows = append(rows, row)
				found++
			}
		})

		if found > 0 {
			used = append(used, tbl)
		}
	})

	return rows
}

// headerCells returns the lowercased text of every th in the container.
func headerCells(tbl *goquery.Selection) []string {
	var headers []string
	tbl.Find("tr th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.ToLower(text(th)))
	})
	return headers
}

func indexOf(headers, synonyms []string) int {
	for i, h := range headers {
		for _, syn := range synonyms {
			if strings.Contains(h, strings.ToLower(syn)) {
				return i
			}
		}
	}
	return -1
}

func cellText(cells *goquery.Selection, idx int) string {
	if idx < 0 || idx >= cells.Length() {
		return ""
	}
	return text(cells.Eq(idx))
}

// ClassStrategy pairs artist-role and title-role elements positionally.
//
// It only applies when both selections are non-empty and the same length.
type ClassStrategy struct {
	Selectors Selectors
}

func (s *ClassStrategy) Name() string { return "class" }

func (s *ClassStrategy) Parse(doc *goquery.Document) []models.RawRow {
	artists := doc.Find(group(s.Selectors.Artists))
	titles := doc.Find(group(s.Selectors.Titles))

	if artists.Length() == 0 || artists.Length() != titles.Length() {
		return nil
	}

	rows := make([]models.RawRow, 0, artists.Length())
	artists.Each(func(i int, a *goquery.Selection) {
		rows = append(rows, models.RawRow{Artist: text(a), Title: text(titles.Eq(i))})
	})
	return rows
}

// RowStrategy looks inside each row container for a nested artist and title element.
type RowStrategy struct {
	Selectors Selectors
}

func (s *RowStrategy) Name() string { return "row" }

func (s *RowStrategy) Parse(doc *goquery.Document) []models.RawRow {
	var rows []models.RawRow
	artistSel := group(s.Selectors.Artists)
	titleSel := group(s.Selectors.Titles)

	doc.Find(group(s.Selectors.Rows)).Each(func(_ int, row *goquery.Selection) {
		a := row.Find(artistSel).First()
		t := row.Find(titleSel).First()
		if a.Length() == 0 && t.Length() == 0 {
			return
		}
		rows = append(rows, models.RawRow{Artist: text(a), Title: text(t)})
	})
	return rows
}

// text joins the trimmed text nodes under s with single spaces. An empty selection yields "".
func text(s *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range s.Nodes {
		walk(n)
	}
	return textnorm.CollapseSpace(strings.Join(parts, " "))
}
