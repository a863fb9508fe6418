// Package models defines the value types that flow through a single capture run.
//
// Types, in pipeline order:
//   - [RawRow] : artist/title pair straight from markup extraction, document order
//   - [CleanedTrack] : a RawRow after title cleanup that survived filtering
//   - [Candidate] : one catalog search hit
//   - [MatchResult] : confidence [Indicator] plus a reference URL
//   - [TrackEntry] : numbered CleanedTrack with its MatchResult
//   - [PipelineResult] : the final ordered list or a pipeline-level error
//
// None of these are persisted; every value is created and consumed within one run.
package models
