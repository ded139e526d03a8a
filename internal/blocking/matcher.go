// Package blocking decides whether navigation or video playback is blocked
// and carries out the enforcement side effects.
package blocking

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

// ExtractDomain returns the lower-cased hostname of rawURL without a leading "www.".
func ExtractDomain(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrMalformedInput, err)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("%w: no host in %q", common.ErrMalformedInput, rawURL)
	}
	return strings.TrimPrefix(host, "www."), nil
}

// Matches reports whether domain and any list entry contain one another.
// Matching is deliberately loose: "google.com" matches "mail.google.com" and
// the reverse. Empty entries never match.
func Matches(domain string, list model.DomainList) bool {
	for _, entry := range list {
		if entry == "" {
			continue
		}
		if strings.Contains(domain, entry) || strings.Contains(entry, domain) {
			return true
		}
	}
	return false
}

// ShouldBlock reports whether navigating to rawURL is blocked under prefs.
// Focus mode off, unparseable input, a whitelist match or no blacklist match
// all allow the navigation.
func ShouldBlock(rawURL string, prefs model.FocusPreferences) bool {
	if !prefs.FocusModeEnabled {
		return false
	}
	domain, err := ExtractDomain(rawURL)
	if err != nil {
		return false
	}
	if Matches(domain, prefs.Whitelist) {
		return false
	}
	return Matches(domain, prefs.Blacklist)
}

// ShouldBlockVideo reports whether a classified video is blocked.
func ShouldBlockVideo(result model.ClassificationResult, prefs model.FocusPreferences) bool {
	return prefs.BlocksCategory(result.Category)
}
