package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint hashes the identity tuple of a posting. Fields are lower-cased
// and trimmed so cosmetic differences between fetches don't split identity;
// missing fields hash as empty strings.
func Fingerprint(company, title, location, postedAt string) string {
	parts := []string{company, title, location, postedAt}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
