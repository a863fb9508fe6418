// package services defines the page fetch and catalog search capabilities
package services

import (
	"context"

	"github.com/desertthunder/playcap/internal/models"
)

// Page is the raw result of fetching a playlist page.
type Page struct {
	URL         string
	Body        []byte
	ContentType string // Content-Type header, used as a charset hint
}

// PageFetcher retrieves a playlist page.
type PageFetcher interface {
	// Fetch performs one GET of url. Non-2xx responses and transport failures return a [*FetchError].
	Fetch(ctx context.Context, url string) (*Page, error)
}

// Catalog searches a music catalog for tracks.
type Catalog interface {
	// Search runs a free-text track query and returns at most limit candidates from market.
	// Zero candidates is not an error.
	Search(ctx context.Context, query string, limit int, market string) ([]models.Candidate, error)

	// Name returns the name of the catalog (e.g., "Spotify")
	Name() string
}
