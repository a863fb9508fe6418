package tasks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playcap/internal/filter"
	"github.com/desertthunder/playcap/internal/matcher"
	"github.com/desertthunder/playcap/internal/models"
	"github.com/desertthunder/playcap/internal/parser"
	"github.com/desertthunder/playcap/internal/services"
	"github.com/desertthunder/playcap/internal/shared"
	"github.com/desertthunder/playcap/internal/textnorm"
)

// Engine captures a playlist page.
type Engine interface {
	// Run captures url and reports the outcome as a [models.PipelineResult]; it never returns nil.
	Run(ctx context.Context, url string, progress chan<- ProgressUpdate) *models.PipelineResult

	// RunE captures url and returns the numbered entries or the fatal error.
	RunE(ctx context.Context, url string, progress chan<- ProgressUpdate) ([]models.TrackEntry, error)

	// Stream captures url and calls onTrack for each entry in page order as soon as it is matched.
	// total is the number of entries the run will produce.
	Stream(ctx context.Context, url string, onTrack func(entry models.TrackEntry, total int)) error
}

// ScrapeEngine implements [Engine].
type ScrapeEngine struct {
	fetcher    services.PageFetcher
	parser     *parser.Parser
	classifier *filter.Classifier
	matcher    *matcher.Matcher
	logger     *log.Logger
}

// NewScrapeEngine creates a [ScrapeEngine]. Nil parser, classifier, matcher and logger fall back to
// the defaults; a default matcher has no catalog and reports every track as unavailable.
func NewScrapeEngine(fetcher services.PageFetcher, p *parser.Parser, c *filter.Classifier, m *matcher.Matcher, logger *log.Logger) *ScrapeEngine {
	if p == nil {
		p = parser.New(parser.DefaultSelectors())
	}
	if c == nil {
		c = filter.NewClassifier(nil)
	}
	if m == nil {
		m = matcher.New(nil, matcher.Options{})
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ScrapeEngine{fetcher: fetcher, parser: p, classifier: c, matcher: m, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ScrapeEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run performs a capture and folds any error into the result.
func (e *ScrapeEngine) Run(ctx context.Context, url string, progress chan<- ProgressUpdate) *models.PipelineResult {
	items, err := e.RunE(ctx, url, progress)
	if err != nil {
		e.logger.Error("capture failed", "url", url, "err", err)
		return &models.PipelineResult{URL: url, Error: err.Error(), Items: []models.TrackEntry{}}
	}
	return &models.PipelineResult{URL: url, Items: items}
}

// RunE performs a capture.
func (e *ScrapeEngine) RunE(ctx context.Context, url string, progress chan<- ProgressUpdate) ([]models.TrackEntry, error) {
	return e.run(ctx, url, progress, nil)
}

// Stream performs a capture, handing each entry to onTrack in page order.
//
// onTrack is never called concurrently. Entries already delivered stay delivered if the
// context is cancelled part way through matching.
func (e *ScrapeEngine) Stream(ctx context.Context, url string, onTrack func(entry models.TrackEntry, total int)) error {
	_, err := e.run(ctx, url, nil, onTrack)
	return err
}

func (e *ScrapeEngine) run(ctx context.Context, url string, progress chan<- ProgressUpdate, onTrack func(models.TrackEntry, int)) ([]models.TrackEntry, error) {
	if e.fetcher == nil {
		return nil, fmt.Errorf("%w: page fetcher not initialized", shared.ErrServiceUnavailable)
	}

	tracks, err := e.collect(ctx, url, progress)
	if err != nil {
		return nil, err
	}

	total := len(tracks)
	entries := make([]models.TrackEntry, total)
	for i, t := range tracks {
		entries[i] = models.TrackEntry{Index: i + 1, Track: t}
	}

	e.sendProgress(progress, matchUpdate(total, e.matcher.Available()))

	emit := newInOrder(entries, func(entry models.TrackEntry) {
		e.sendProgress(progress, trackUpdate(total, entry))
		if onTrack != nil {
			onTrack(entry, total)
		}
	})

	results, err := e.matcher.MatchAll(ctx, tracks, emit.done)
	if err != nil {
		return nil, fmt.Errorf("matching interrupted: %w", err)
	}
	for i := range entries {
		entries[i].Match = results[i]
	}

	e.sendProgress(progress, doneUpdate(total))
	e.logger.Info("capture complete", "url", url, "tracks", total)
	return entries, nil
}

// collect fetches, parses and filters the page.
func (e *ScrapeEngine) collect(ctx context.Context, url string, progress chan<- ProgressUpdate) ([]models.CleanedTrack, error) {
	e.sendProgress(progress, fetchUpdate(url))
	e.logger.Info("fetching playlist", "url", url)

	page, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrFetchFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, parseUpdate(len(page.Body)))

	res, err := e.parser.Parse(page.Body, page.ContentType)
	if err != nil {
		return nil, err
	}
	if len(res.Rows) == 0 {
		return nil, shared.ErrParseEmpty
	}
	e.logger.Debug("parsed page", "strategy", res.Strategy, "rows", len(res.Rows))

	tracks := e.Clean(res.Rows)
	e.sendProgress(progress, filterUpdate(len(tracks), len(res.Rows)))
	if len(tracks) == 0 {
		return nil, shared.ErrFilterEmpty
	}
	return tracks, ctx.Err()
}

// Clean normalizes raw rows and drops filler, keeping page order.
//
// A row is dropped when the classifier rejects it or when both fields are empty after cleaning.
func (e *ScrapeEngine) Clean(rows []models.RawRow) []models.CleanedTrack {
	tracks := make([]models.CleanedTrack, 0, len(rows))
	for _, row := range rows {
		artist := textnorm.CollapseSpace(row.Artist)
		title := textnorm.CleanTitle(row.Title)

		if reason := e.classifier.Reason(artist, title); reason != "" {
			e.logger.Debug("dropped row", "artist", row.Artist, "title", row.Title, "reason", reason)
			continue
		}
		if artist == "" && title == "" {
			continue
		}
		tracks = append(tracks, models.CleanedTrack{Artist: artist, Title: title})
	}
	return tracks
}

// inOrder releases matched entries in index order as they complete.
type inOrder struct {
	mu      sync.Mutex
	entries []models.TrackEntry
	ready   []bool
	next    int
	emit    func(models.TrackEntry)
}

func newInOrder(entries []models.TrackEntry, emit func(models.TrackEntry)) *inOrder {
	return &inOrder{
		entries: append([]models.TrackEntry(nil), entries...),
		ready:   make([]bool, len(entries)),
		emit:    emit,
	}
}

func (o *inOrder) done(i int, r models.MatchResult) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.entries[i].Match = r
	o.ready[i] = true
	for o.next < len(o.entries) && o.ready[o.next] {
		o.emit(o.entries[o.next])
		o.next++
	}
}
