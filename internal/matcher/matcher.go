// Package matcher finds the best catalog candidate for a scraped track and rates the match.
//
// Up to three queries are issued per track, in order, stopping at the first that returns
// candidates: a field-scoped query, a plain "artist title" query and an ASCII-folded variant.
// Query failures are recorded on the [Attempt] and treated as "no candidates".
//
// Candidates are scored with [Score] and the best one is mapped to a [models.Indicator] using the
// configured thresholds. A [Matcher] without a catalog reports [models.Unavailable] and never
// issues a query.
package matcher

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playcap/internal/models"
	"github.com/desertthunder/playcap/internal/services"
	"github.com/desertthunder/playcap/internal/textnorm"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Options configures a [Matcher]. Zero fields take the values of [DefaultOptions].
type Options struct {
	Limit       int     // candidates requested per query
	Market      string  // catalog region
	ConfirmedAt int     // minimum score for Confirmed
	UncertainAt int     // minimum score for Uncertain
	Workers     int     // tracks matched concurrently by MatchAll
	RateLimit   float64 // catalog queries per second, 0 for no limit
	Logger      *log.Logger
}

// DefaultOptions returns the defaults observed to work for radio playlists.
func DefaultOptions() Options {
	return Options{
		Limit:       5,
		Market:      "US",
		ConfirmedAt: 4,
		UncertainAt: 2,
		Workers:     4,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Limit <= 0 {
		o.Limit = d.Limit
	}
	if o.Market == "" {
		o.Market = d.Market
	}
	if o.ConfirmedAt <= 0 {
		o.ConfirmedAt = d.ConfirmedAt
	}
	if o.UncertainAt <= 0 {
		o.UncertainAt = d.UncertainAt
	}
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Attempt is the outcome of one catalog query.
type Attempt struct {
	Query      string
	Candidates []models.Candidate
	Err        error // transport failure; Candidates is empty when set
}

// Matcher scores catalog candidates for cleaned tracks.
type Matcher struct {
	catalog services.Catalog
	opts    Options
	limiter *rate.Limiter
}

// New creates a [Matcher]. A nil catalog is valid and yields [models.Unavailable] for every track.
func New(catalog services.Catalog, opts Options) *Matcher {
	opts = opts.withDefaults()

	m := &Matcher{catalog: catalog, opts: opts}
	if opts.RateLimit > 0 {
		m.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return m
}

// Available reports whether a catalog is configured.
func (m *Matcher) Available() bool {
	return m.catalog != nil
}

// Queries returns the query strings tried for a track, in order.
//
// The field-scoped query leaves out the artist clause when the artist is empty.
func Queries(artist, title string) []string {
	plain := textnorm.CollapseSpace(artist + " " + title)

	scoped := fmt.Sprintf(`track:"%s"`, unquote(title))
	if a := unquote(artist); a != "" {
		scoped = fmt.Sprintf(`artist:"%s" %s`, a, scoped)
	}

	return []string{
		scoped,
		plain,
		textnorm.CollapseSpace(textnorm.FoldASCII(plain)),
	}
}

func unquote(s string) string {
	return textnorm.CollapseSpace(strings.ReplaceAll(s, `"`, ""))
}

// Search issues the queries from [Queries] in order until one returns candidates.
//
// Every attempt made is returned, the last one holding the candidates if any were found.
func (m *Matcher) Search(ctx context.Context, artist, title string) []Attempt {
	var attempts []Attempt
	if m.catalog == nil {
		return attempts
	}

	for _, q := range Queries(artist, title) {
		a := m.query(ctx, q)
		attempts = append(attempts, a)

		if a.Err != nil {
			m.opts.Logger.Debug("catalog query failed", "catalog", m.catalog.Name(), "query", q, "err", a.Err)
			continue
		}
		if len(a.Candidates) > 0 {
			break
		}
	}
	return attempts
}

func (m *Matcher) query(ctx context.Context, q string) Attempt {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return Attempt{Query: q, Err: err}
		}
	}

	candidates, err := m.catalog.Search(ctx, q, m.opts.Limit, m.opts.Market)
	if err != nil {
		return Attempt{Query: q, Err: err}
	}
	return Attempt{Query: q, Candidates: candidates}
}

// Match looks up a single track.
func (m *Matcher) Match(ctx context.Context, track models.CleanedTrack) models.MatchResult {
	if m.catalog == nil {
		return models.MatchResult{Indicator: models.Unavailable}
	}

	attempts := m.Search(ctx, track.Artist, track.Title)
	last := attempts[len(attempts)-1]
	if len(last.Candidates) == 0 {
		return models.MatchResult{Indicator: models.NoMatch}
	}

	best, score := Best(track.Artist, track.Title, last.Candidates)
	return models.MatchResult{
		Indicator:    m.Classify(score),
		ReferenceURL: best.URL,
		Score:        score,
		Query:        last.Query,
	}
}

// MatchAll matches tracks concurrently and returns results in input order.
//
// onResult, when non-nil, is called as each track finishes and may be called from several
// goroutines at once. The returned error is only set when ctx is cancelled.
func (m *Matcher) MatchAll(ctx context.Context, tracks []models.CleanedTrack, onResult func(int, models.MatchResult)) ([]models.MatchResult, error) {
	results := make([]models.MatchResult, len(tracks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Workers)

	for i, track := range tracks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = m.Match(gctx, track)
			if onResult != nil {
				onResult(i, results[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// Classify maps a score to an indicator using the configured thresholds.
func (m *Matcher) Classify(score int) models.Indicator {
	switch {
	case score >= m.opts.ConfirmedAt:
		return models.Confirmed
	case score >= m.opts.UncertainAt:
		return models.Uncertain
	default:
		return models.NoMatch
	}
}
