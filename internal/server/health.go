package server

import (
	"encoding/json"
	"net/http"
)

// HealthHandler reports liveness and which catalog, if any, is configured.
type HealthHandler struct {
	catalog string
}

// NewHealthHandler creates a [HealthHandler]. An empty catalog name reports "unavailable".
func NewHealthHandler(catalog string) *HealthHandler {
	if catalog == "" {
		catalog = "unavailable"
	}
	return &HealthHandler{catalog: catalog}
}

func (h *HealthHandler) Routes() []string {
	return []string{"GET /health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"catalog": h.catalog,
	})
}
