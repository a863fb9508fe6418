package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/desertthunder/playcap/internal/shared"
)

const (
	DefaultUserAgent    = "playcap/0.1 (+https://github.com/desertthunder/playcap; playlist capture)"
	DefaultFetchTimeout = 20 * time.Second

	maxPageBytes = 10 << 20
)

// FetchError reports a failure reaching the source page.
type FetchError struct {
	URL        string
	StatusCode int   // Set for non-2xx responses
	Err        error // Set for transport failures
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("GET %s: status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets callers match any fetch failure with [shared.ErrFetchFailed].
func (e *FetchError) Is(target error) bool {
	return target == shared.ErrFetchFailed
}

// HTTPFetcher implements [PageFetcher] over HTTP.
type HTTPFetcher struct {
	userAgent  string
	httpClient *http.Client
	maxBytes   int64
}

// NewHTTPFetcher creates a fetcher. Empty or zero arguments fall back to [DefaultUserAgent],
// [DefaultFetchTimeout] and a fresh [http.Client]. A provided client is copied, never modified.
func NewHTTPFetcher(userAgent string, timeout time.Duration, client *http.Client) *HTTPFetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	c := http.Client{}
	if client != nil {
		c = *client
	}
	if c.Timeout == 0 {
		c.Timeout = timeout
	}

	return &HTTPFetcher{userAgent: userAgent, httpClient: &c, maxBytes: maxPageBytes}
}

// Fetch performs a GET request and returns the raw body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if int64(len(body)) > f.maxBytes {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("response body exceeds %d bytes", f.maxBytes)}
	}

	return &Page{
		URL:         url,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
