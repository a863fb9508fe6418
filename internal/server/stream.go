package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playcap/internal/formatter"
	"github.com/desertthunder/playcap/internal/models"
	"github.com/desertthunder/playcap/internal/tasks"
)

// StreamPath serves the playlist event stream.
const StreamPath = "/api/playlist/stream"

// Server-sent event names.
const (
	EventTrack = "track"
	EventError = "error"
	EventDone  = "done"
)

// StreamHandler captures a show and streams one "track" event per line, then "done" or "error".
//
// The show is selected by the show_id query parameter, a numeric ID or a full playlist URL.
type StreamHandler struct {
	engine tasks.Engine
	host   string
	logger *log.Logger
}

// NewStreamHandler creates a [StreamHandler]. host is used to expand numeric show IDs.
func NewStreamHandler(engine tasks.Engine, host string, logger *log.Logger) *StreamHandler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &StreamHandler{engine: engine, host: host, logger: logger}
}

func (h *StreamHandler) Routes() []string {
	return []string{"GET " + StreamPath}
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	events := &eventWriter{w: w, flusher: flusher}

	showID := strings.TrimSpace(r.URL.Query().Get("show_id"))
	if showID == "" {
		events.send(EventError, errorEvent{Message: "Invalid show ID"})
		return
	}

	url, err := tasks.ResolvePlaylistURL(showID, h.host)
	if err != nil {
		events.send(EventError, errorEvent{Message: err.Error()})
		return
	}

	h.logger.Info("streaming playlist", "url", url)

	count := 0
	err = h.engine.Stream(r.Context(), url, func(entry models.TrackEntry, _ int) {
		if events.err != nil {
			return
		}
		events.send(EventTrack, trackEvent{Line: formatter.Line(entry)})
		count++
	})

	switch {
	case events.err != nil:
		h.logger.Warn("client went away", "url", url, "err", events.err)
	case err != nil:
		events.send(EventError, errorEvent{Message: err.Error()})
	default:
		events.send(EventDone, doneEvent{Count: count})
	}
}

type trackEvent struct {
	Line string `json:"line"`
}

type errorEvent struct {
	Message string `json:"message"`
}

type doneEvent struct {
	Count int `json:"count"`
}

// eventWriter writes server-sent events and remembers the first write failure.
type eventWriter struct {
	w       io.Writer
	flusher http.Flusher
	err     error
}

func (e *eventWriter) send(event string, data any) {
	if e.err != nil {
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		e.err = fmt.Errorf("failed to encode %s event: %w", event, err)
		return
	}

	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		e.err = errors.Join(errors.New("failed to write event"), err)
		return
	}
	e.flusher.Flush()
}
