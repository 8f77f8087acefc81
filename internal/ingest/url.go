package ingest

import (
	"net/url"
	"strings"
)

// trackingParams are dropped so the same article shared with different
// campaign tags dedups to one row
var trackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"fbclid", "gclid", "msclkid", "ref", "_ga", "_gl", "mc_cid", "mc_eid", "yclid",
}

// NormalizeURL returns the canonical form of an absolute http(s) URL.
// ok is false for relative, non-http or unparseable URLs.
func NormalizeURL(rawURL string) (string, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	scheme := strings.ToLower(parsed.Scheme)
	if (scheme != "http" && scheme != "https") || parsed.Host == "" {
		return "", false
	}

	query := parsed.Query()
	for _, param := range trackingParams {
		query.Del(param)
	}
	parsed.RawQuery = query.Encode()
	parsed.Fragment = ""
	parsed.Scheme = scheme
	parsed.Host = strings.ToLower(parsed.Host)

	return parsed.String(), true
}
