// Package dedupe decides whether an incoming search result is a posting we
// already know. Identity is resolved in three tiers, strongest first:
// upstream (source, job id), canonical apply URL, then content fingerprint.
package dedupe

import (
	"net/url"
	"sort"
	"strings"
)

// Tracking params stripped before URL comparison. utm_* is matched by prefix.
var strippedParams = map[string]bool{
	"fbclid": true,
	"gclid":  true,
	"ref":    true,
	"source": true,
}

// CanonicalURL normalizes an apply URL for identity comparison: tracking
// params removed, remaining params sorted, scheme/host lower-cased. Malformed
// or empty URLs canonicalize to "" so the resolver skips the URL tier.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || strippedParams[lk] {
			q.Del(k)
		}
	}
	// url.Values.Encode sorts keys; sort each key's values too so repeated
	// params compare stably.
	for k := range q {
		sort.Strings(q[k])
	}
	u.RawQuery = q.Encode()
	return u.String()
}
