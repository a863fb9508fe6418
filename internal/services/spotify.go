// Spotify Web API implementation of [Catalog]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/search
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/desertthunder/playcap/internal/models"
	"github.com/desertthunder/playcap/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
	spotifyTrackURL = "https://open.spotify.com/track/"

	DefaultSearchTimeout = 10 * time.Second
	maxSearchLimit       = 50
)

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyTrack represents a Spotify track as returned by search.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	DurationMS   int             `json:"duration_ms"`
	Popularity   int             `json:"popularity"`
	URI          string          `json:"uri"`
	ExternalURLs externalURLs    `json:"external_urls"`
}

// SpotifySearchResponse is the body of GET /search?type=track.
type SpotifySearchResponse struct {
	Tracks struct {
		Items []SpotifyTrack `json:"items"`
		Total int            `json:"total"`
		Limit int            `json:"limit"`
	} `json:"tracks"`
}

// SpotifyOpts configures a [SpotifyCatalog].
type SpotifyOpts struct {
	ClientID     string
	ClientSecret string
	BaseURL      string        // defaults to the public Web API
	TokenURL     string        // defaults to the accounts service
	Timeout      time.Duration // per search call
	HTTPClient   *http.Client  // base transport for token and API calls
}

// SpotifyCatalog implements [Catalog] with the client credentials flow.
type SpotifyCatalog struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewSpotifyCatalog creates a catalog client.
//
// It returns (nil, nil) when no credentials are configured, which callers treat as "no catalog".
// A half-configured pair is an error.
func NewSpotifyCatalog(opts SpotifyOpts) (*SpotifyCatalog, error) {
	if opts.ClientID == "" && opts.ClientSecret == "" {
		return nil, nil
	}
	if opts.ClientID == "" {
		return nil, fmt.Errorf("%w: missing spotify client_id", shared.ErrMissingCredentials)
	}
	if opts.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing spotify client_secret", shared.ErrMissingCredentials)
	}

	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.TokenURL == "" {
		opts.TokenURL = spotifyTokenURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSearchTimeout
	}

	config := &clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     opts.TokenURL,
	}

	ctx := context.Background()
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}

	return &SpotifyCatalog{
		baseURL:    opts.BaseURL,
		timeout:    opts.Timeout,
		httpClient: config.Client(ctx),
	}, nil
}

func (s *SpotifyCatalog) Name() string {
	return "Spotify"
}

// Search queries GET /search for tracks.
func (s *SpotifyCatalog) Search(ctx context.Context, query string, limit int, market string) ([]models.Candidate, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", strconv.Itoa(limit))
	if market != "" {
		params.Set("market", market)
	}

	var response SpotifySearchResponse
	if err := s.doRequest(ctx, "/search?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(response.Tracks.Items))
	for _, item := range response.Tracks.Items {
		candidates = append(candidates, item.Candidate())
	}
	return candidates, nil
}

// Candidate converts the track to a [models.Candidate].
func (t SpotifyTrack) Candidate() models.Candidate {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}

	link := t.ExternalURLs.Spotify
	if link == "" && t.ID != "" {
		link = spotifyTrackURL + t.ID
	}

	return models.Candidate{
		ArtistNames: names,
		Title:       t.Name,
		ID:          t.ID,
		URL:         link,
	}
}

// doRequest performs an authenticated GET request to the Spotify API.
func (s *SpotifyCatalog) doRequest(ctx context.Context, endpoint string, result any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
