package scout

import (
	"fmt"
	"net/url"
	"strings"
)

// EnsureScheme prefixes scheme-less website values with https://.
// Values that already carry a scheme pass through unchanged.
func EnsureScheme(website string) string {
	trimmed := strings.TrimSpace(website)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}

// ResolveLink normalizes an anchor href against the page base URL.
// Absolute URLs pass through; root-relative and bare-relative hrefs are
// resolved against the base origin. Returns "" for empty or unparseable
// input.
func ResolveLink(href, base string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	origin, err := Origin(base)
	if err != nil {
		return ""
	}
	if strings.HasPrefix(href, "/") {
		return origin + href
	}
	return origin + "/" + href
}

// Origin returns scheme://host for a URL, adding https:// when the scheme
// is missing.
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(EnsureScheme(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("url %q has no host", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// Domain extracts the hostname from a URL, tolerating missing schemes.
// On parse failure the input is returned as-is.
func Domain(rawURL string) string {
	u, err := url.Parse(EnsureScheme(rawURL))
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Hostname()
}

// JoinPath appends a conventional probe path to a site's origin.
func JoinPath(base, path string) (string, error) {
	origin, err := Origin(base)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return origin + path, nil
}
