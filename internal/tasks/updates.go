package tasks

import (
	"fmt"

	"github.com/desertthunder/playcap/internal/models"
)

// ProgressUpdate represents a progress event during a capture.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline stage
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // [models.TrackEntry] for Track updates, nil otherwise
}

// Phase is a pipeline stage.
type Phase int

const (
	Fetch Phase = iota
	Parse
	Filter
	Match
	Track
	Done
)

func (p Phase) String() string {
	switch p {
	case Fetch:
		return "fetch"
	case Parse:
		return "parse"
	case Filter:
		return "filter"
	case Match:
		return "match"
	case Track:
		return "track"
	case Done:
		return "done"
	default:
		return ""
	}
}

func fetchUpdate(url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Fetch,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching %s...", url),
	}
}

func parseUpdate(size int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Parse,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Parsing page (%d bytes)...", size),
	}
}

func filterUpdate(kept, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Filter,
		Step:    kept,
		Total:   total,
		Message: fmt.Sprintf("Kept %d of %d rows", kept, total),
	}
}

func matchUpdate(total int, available bool) ProgressUpdate {
	msg := fmt.Sprintf("Matching %d tracks...", total)
	if !available {
		msg = "Catalog not configured, skipping matching"
	}
	return ProgressUpdate{
		Phase:   Match,
		Step:    0,
		Total:   total,
		Message: msg,
	}
}

func trackUpdate(total int, entry models.TrackEntry) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Track,
		Step:    entry.Index,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", entry.Index, total, entry.Track),
		Data:    entry,
	}
}

func doneUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("Found %d tracks", total),
	}
}
