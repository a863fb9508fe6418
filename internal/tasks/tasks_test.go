package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/playcap/internal/matcher"
	"github.com/desertthunder/playcap/internal/models"
	"github.com/desertthunder/playcap/internal/services"
	"github.com/desertthunder/playcap/internal/shared"
	tu "github.com/desertthunder/playcap/internal/testing"
)

const showURL = "https://wfmu.org/playlists/shows/154876"

const scenarioPage = `<html><body>
<table>
  <tr><th>Artist</th><th>Song</th></tr>
  <tr><td>Sigur Rós</td><td>Svefn-g-englar (live)</td></tr>
</table>
</body></html>`

const mixedPage = `<html><body>
<table>
  <tr><th>Artist</th><th>Title</th></tr>
  <tr><td>Music behind DJ:</td><td>ambient bed</td></tr>
  <tr><td>Sigur Rós</td><td>Svefn-g-englar (live)</td></tr>
  <tr><td>WFMU</td><td>Station ID</td></tr>
  <tr><td>Radiohead</td><td>"Idioteque" → segue into news</td></tr>
</table>
</body></html>`

const fillerPage = `<html><body>
<table>
  <tr><th>Artist</th><th>Title</th></tr>
  <tr><td>Music behind DJ:</td><td>ambient bed</td></tr>
  <tr><td>WFMU</td><td>Station ID</td></tr>
</table>
</body></html>`

const emptyPage = `<html><body><p>This show has no playlist yet.</p></body></html>`

type mockFetcher struct {
	pages map[string]string
	err   error
	calls int
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (*services.Page, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	body, ok := m.pages[url]
	if !ok {
		return nil, &services.FetchError{URL: url, StatusCode: 404}
	}
	return &services.Page{URL: url, Body: []byte(body), ContentType: "text/html; charset=utf-8"}, nil
}

func newEngine(page string, catalog services.Catalog) *ScrapeEngine {
	fetcher := &mockFetcher{pages: map[string]string{showURL: page}}
	var m *matcher.Matcher
	if catalog != nil {
		m = matcher.New(catalog, matcher.Options{Workers: 3})
	}
	return NewScrapeEngine(fetcher, nil, nil, m, nil)
}

func TestScrapeEngine_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("single track scenario", func(t *testing.T) {
		result := newEngine(scenarioPage, nil).Run(ctx, showURL, nil)

		if result.Error != "" {
			t.Fatalf("unexpected error %q", result.Error)
		}
		if len(result.Items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(result.Items))
		}

		entry := result.Items[0]
		if entry.Index != 1 {
			t.Errorf("expected index 1, got %d", entry.Index)
		}
		if got := entry.Track.String(); got != "Sigur Rós — Svefn-g-englar" {
			t.Errorf("expected %q, got %q", "Sigur Rós — Svefn-g-englar", got)
		}
		if entry.Match.Indicator != models.Unavailable || entry.Match.ReferenceURL != "" {
			t.Errorf("expected unavailable match without url, got %+v", entry.Match)
		}
		if !result.OK() {
			t.Error("expected result to be OK")
		}
	})

	t.Run("filler rows dropped", func(t *testing.T) {
		result := newEngine(mixedPage, nil).Run(ctx, showURL, nil)
		if result.Error != "" {
			t.Fatalf("unexpected error %q", result.Error)
		}

		want := []string{"Sigur Rós — Svefn-g-englar", "Radiohead — Idioteque"}
		if len(result.Items) != len(want) {
			t.Fatalf("expected %d items, got %d: %+v", len(want), len(result.Items), result.Items)
		}
		for i, w := range want {
			if got := result.Items[i].Track.String(); got != w {
				t.Errorf("item %d = %q, want %q", i, got, w)
			}
			if result.Items[i].Index != i+1 {
				t.Errorf("item %d index = %d", i, result.Items[i].Index)
			}
		}
	})

	t.Run("catalog matches attached", func(t *testing.T) {
		catalog := &tu.MockCatalog{Results: map[string][]models.Candidate{
			matcher.Queries("Radiohead", "Idioteque")[0]: {{
				ID: "rh1", Title: "Idioteque", ArtistNames: []string{"Radiohead"},
				URL: "https://open.spotify.com/track/rh1",
			}},
		}}
		result := newEngine(mixedPage, catalog).Run(ctx, showURL, nil)
		if len(result.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(result.Items))
		}

		if got := result.Items[0].Match; got.Indicator != models.NoMatch || got.ReferenceURL != "" {
			t.Errorf("expected no_match for first item, got %+v", got)
		}
		if got := result.Items[1].Match; got.Indicator != models.Confirmed || got.ReferenceURL != "https://open.spotify.com/track/rh1" {
			t.Errorf("expected confirmed for second item, got %+v", got)
		}
	})

	t.Run("fetch failure", func(t *testing.T) {
		result := newEngine(scenarioPage, nil).Run(ctx, "https://wfmu.org/playlists/shows/1", nil)

		if !strings.HasPrefix(result.Error, "error fetching URL: ") {
			t.Errorf("unexpected error %q", result.Error)
		}
		if !strings.Contains(result.Error, "404") {
			t.Errorf("expected status in error, got %q", result.Error)
		}
		if len(result.Items) != 0 {
			t.Errorf("expected no items alongside an error, got %d", len(result.Items))
		}
	})

	t.Run("parse empty", func(t *testing.T) {
		result := newEngine(emptyPage, nil).Run(ctx, showURL, nil)
		if result.Error != "no tracks found, page structure may have changed" {
			t.Errorf("unexpected error %q", result.Error)
		}
		if len(result.Items) != 0 {
			t.Errorf("expected no items, got %d", len(result.Items))
		}
	})

	t.Run("filter empty", func(t *testing.T) {
		result := newEngine(fillerPage, nil).Run(ctx, showURL, nil)
		if result.Error != "no valid tracks after filtering" {
			t.Errorf("unexpected error %q", result.Error)
		}
		if result.Items == nil || len(result.Items) != 0 {
			t.Errorf("expected empty non-nil items, got %#v", result.Items)
		}
	})
}

func TestScrapeEngine_RunE(t *testing.T) {
	ctx := context.Background()

	t.Run("typed fetch error", func(t *testing.T) {
		_, err := newEngine(scenarioPage, nil).RunE(ctx, "https://example.com/missing", nil)

		if !errors.Is(err, shared.ErrFetchFailed) {
			t.Errorf("expected ErrFetchFailed, got %v", err)
		}
		var fe *services.FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("expected *services.FetchError, got %T", err)
		}
		if fe.StatusCode != 404 {
			t.Errorf("expected status 404, got %d", fe.StatusCode)
		}
	})

	t.Run("transport error", func(t *testing.T) {
		fetcher := &mockFetcher{err: errors.New("connection refused")}
		_, err := NewScrapeEngine(fetcher, nil, nil, nil, nil).RunE(ctx, showURL, nil)
		if err == nil || err.Error() != "error fetching URL: connection refused" {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("empty errors are distinct", func(t *testing.T) {
		_, parseErr := newEngine(emptyPage, nil).RunE(ctx, showURL, nil)
		_, filterErr := newEngine(fillerPage, nil).RunE(ctx, showURL, nil)

		if !errors.Is(parseErr, shared.ErrParseEmpty) {
			t.Errorf("expected ErrParseEmpty, got %v", parseErr)
		}
		if !errors.Is(filterErr, shared.ErrFilterEmpty) {
			t.Errorf("expected ErrFilterEmpty, got %v", filterErr)
		}
	})

	t.Run("no fetcher", func(t *testing.T) {
		_, err := NewScrapeEngine(nil, nil, nil, nil, nil).RunE(ctx, showURL, nil)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("cancelled before matching", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := newEngine(scenarioPage, nil).RunE(cctx, showURL, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestScrapeEngine_Clean(t *testing.T) {
	e := NewScrapeEngine(nil, nil, nil, nil, nil)
	rows := []models.RawRow{
		{Artist: "  Can  ", Title: "Vitamin C (2004 Remaster)"},
		{Artist: "", Title: "(intro)"},
		{Artist: "Eno", Title: " — "},
		{Artist: "", Title: "Untitled"},
		{Artist: "Music Behind DJ", Title: "Today In History"},
		{Artist: "Neu!", Title: "“Hallogallo”"},
		{Artist: "New\u00a0Order", Title: "Blue\u00a0Monday\u00a0-\u00a0\u00a0(12\" mix)"},
	}

	got := e.Clean(rows)
	want := []models.CleanedTrack{
		{Artist: "Can", Title: "Vitamin C"},
		{Artist: "", Title: "Untitled"},
		{Artist: "Neu!", Title: "Hallogallo"},
		{Artist: "New Order", Title: "Blue Monday"},
	}
	if len(got) != len(want) {
		t.Fatalf("Clean() returned %d tracks %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("track %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestScrapeEngine_Progress(t *testing.T) {
	t.Run("phases in order", func(t *testing.T) {
		progress := make(chan ProgressUpdate, 64)
		items, err := newEngine(mixedPage, nil).RunE(context.Background(), showURL, progress)
		close(progress)
		if err != nil {
			t.Fatalf("RunE() error = %v", err)
		}

		var updates []ProgressUpdate
		for u := range progress {
			updates = append(updates, u)
		}
		if len(updates) == 0 {
			t.Fatal("expected progress updates")
		}
		if updates[0].Phase != Fetch {
			t.Errorf("expected first phase fetch, got %v", updates[0].Phase)
		}
		if last := updates[len(updates)-1]; last.Phase != Done || last.Total != len(items) {
			t.Errorf("unexpected final update %+v", last)
		}

		tracks := 0
		for i, u := range updates {
			if i > 0 && u.Phase < updates[i-1].Phase {
				t.Errorf("phase %v after %v", u.Phase, updates[i-1].Phase)
			}
			if u.Phase == Track {
				tracks++
				entry, ok := u.Data.(models.TrackEntry)
				if !ok || entry.Index != tracks {
					t.Errorf("track update %d carries %+v", tracks, u.Data)
				}
			}
		}
		if tracks != len(items) {
			t.Errorf("expected %d track updates, got %d", len(items), tracks)
		}
	})

	t.Run("non-blocking", func(t *testing.T) {
		progress := make(chan ProgressUpdate)
		done := make(chan error, 1)

		go func() {
			_, err := newEngine(mixedPage, nil).RunE(context.Background(), showURL, progress)
			done <- err
		}()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("RunE() error = %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("RunE() blocked on progress sends")
		}
	})
}

func TestScrapeEngine_Stream(t *testing.T) {
	var b strings.Builder
	b.WriteString("<table><tr><th>Artist</th><th>Title</th></tr>")
	results := map[string][]models.Candidate{}
	for i := 1; i <= 20; i++ {
		artist, title := fmt.Sprintf("Artist %d", i), fmt.Sprintf("Song %d", i)
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td></tr>", artist, title)
		if i%2 == 0 {
			results[matcher.Queries(artist, title)[0]] = []models.Candidate{{ID: fmt.Sprint(i), Title: title, ArtistNames: []string{artist}}}
		}
	}
	b.WriteString("</table>")

	e := newEngine(b.String(), &tu.MockCatalog{Results: results})

	var got []models.TrackEntry
	err := e.Stream(context.Background(), showURL, func(entry models.TrackEntry, total int) {
		if total != 20 {
			t.Errorf("expected total 20, got %d", total)
		}
		got = append(got, entry)
	})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(got))
	}
	for i, entry := range got {
		if entry.Index != i+1 {
			t.Errorf("entry %d has index %d", i, entry.Index)
		}
		want := models.NoMatch
		if entry.Index%2 == 0 {
			want = models.Confirmed
		}
		if entry.Match.Indicator != want {
			t.Errorf("entry %d indicator = %v, want %v", entry.Index, entry.Match.Indicator, want)
		}
	}
}

func TestResolvePlaylistURL(t *testing.T) {
	tc := []struct {
		name    string
		input   string
		host    string
		want    string
		wantErr bool
	}{
		{name: "show id", input: "154876", want: showURL},
		{name: "show id with spaces", input: "  154876\n", want: showURL},
		{name: "show id custom host", input: "42", host: "example.org/", want: "https://example.org/playlists/shows/42"},
		{name: "https url", input: showURL, want: showURL},
		{name: "http url", input: "http://wfmu.org/playlists/shows/1", want: "http://wfmu.org/playlists/shows/1"},
		{name: "empty", input: "  ", wantErr: true},
		{name: "mixed digits", input: "154a876", wantErr: true},
		{name: "ftp url", input: "ftp://wfmu.org/playlists", wantErr: true},
		{name: "no host", input: "https:///playlists", wantErr: true},
		{name: "relative path", input: "/playlists/shows/1", wantErr: true},
		{name: "negative number", input: "-154876", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePlaylistURL(tt.input, tt.host)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v (%q)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolvePlaylistURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolvePlaylistURL() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("round trip", func(t *testing.T) {
		fromID, _ := ResolvePlaylistURL("154876", "")
		fromURL, _ := ResolvePlaylistURL("https://wfmu.org/playlists/shows/154876", "")
		if fromID != fromURL {
			t.Errorf("%q != %q", fromID, fromURL)
		}
	})
}
