package tasks

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/playcap/internal/shared"
)

// DefaultShowHost is the station host used to expand numeric show IDs.
const DefaultShowHost = "wfmu.org"

// ResolvePlaylistURL turns user input into a playlist URL.
//
// All-digit input is a show ID and expands to https://<host>/playlists/shows/<id>. A well formed
// http or https URL with a host is returned unchanged. Anything else fails with
// [shared.ErrInvalidInput].
func ResolvePlaylistURL(input, host string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", fmt.Errorf("%w: empty playlist identifier", shared.ErrInvalidInput)
	}

	if isDigits(s) {
		host = strings.Trim(strings.TrimSpace(host), "/")
		if host == "" {
			host = DefaultShowHost
		}
		return fmt.Sprintf("https://%s/playlists/shows/%s", host, s), nil
	}

	u, err := url.Parse(s)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q is neither a URL nor a show ID", shared.ErrInvalidInput, s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
