// Package tasks runs a playlist capture from page URL to numbered, matched tracks with progress reporting.
//
// # Pipeline
//
// [ScrapeEngine.RunE] composes the stages in order:
//
//  1. Fetch: one GET through a [services.PageFetcher]; failures are fatal and wrapped with
//     [shared.ErrFetchFailed]
//  2. Parse: the layout-tolerant [parser.Parser]; zero rows is fatal ([shared.ErrParseEmpty])
//  3. Filter: titles are cleaned and filler rows dropped by the [filter.Classifier]; nothing left
//     is fatal ([shared.ErrFilterEmpty])
//  4. Match: each surviving track is scored against the catalog by the [matcher.Matcher]
//
// [ScrapeEngine.Run] folds the outcome into a [models.PipelineResult], where an error message and
// items never appear together.
//
// # Progress Reporting
//
// Updates are sent on an optional channel without blocking; a slow reader misses updates rather
// than stalling the run. Track updates are emitted in page order even though matching runs
// concurrently. [ScrapeEngine.Stream] delivers every entry to a callback instead, for callers that
// must not drop lines.
//
// # Input
//
// [ResolvePlaylistURL] accepts a full http(s) URL or a numeric show ID.
package tasks
