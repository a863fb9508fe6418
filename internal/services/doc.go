// Package services implements the external capabilities a capture run depends on.
//
// # Page Fetching
//
// [PageFetcher] retrieves raw playlist markup. [HTTPFetcher] performs a single GET with a
// descriptive user agent and a timeout, and never retries. Failures are reported as [*FetchError],
// which matches [shared.ErrFetchFailed] with [errors.Is].
//
// The body is returned as bytes so the parser can detect the charset itself.
//
// # Catalog Search
//
// [Catalog] answers a free-text query with up to limit candidate tracks from one market.
//
// [SpotifyCatalog] implements it against the Spotify Web API search endpoint using the OAuth2
// client credentials flow. The [clientcredentials.Config] client fetches and refreshes app tokens
// on its own; no user login is involved.
//
// A missing catalog is represented by a nil [Catalog], not by an error. See [NewSpotifyCatalog].
package services
