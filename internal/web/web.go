// Package web serves the static front page that consumes the playlist event stream.
//
// The page posts nothing; it opens an EventSource on the stream endpoint with the entered show ID
// and appends each "track" line as it arrives. Nothing is rendered server side.
package web

import (
	_ "embed"
	"net/http"
)

//go:embed index.html
var indexHTML []byte

// IndexHandler serves the front page.
type IndexHandler struct{}

func NewIndexHandler() *IndexHandler {
	return &IndexHandler{}
}

func (h *IndexHandler) Routes() []string {
	return []string{"GET /{$}"}
}

func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}
