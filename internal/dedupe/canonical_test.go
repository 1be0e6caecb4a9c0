package dedupe_test

import (
	"testing"

	"jobby-engine/internal/dedupe"
)

func TestCanonicalURL_StripsTrackingParams(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "utm params",
			in:   "https://jobs.example.com/p/123?utm_source=linkedin&utm_medium=social&utm_campaign=q3",
			want: "https://jobs.example.com/p/123",
		},
		{
			name: "click ids and ref",
			in:   "https://example.com/apply?fbclid=abc&gclid=def&ref=feed&source=widget",
			want: "https://example.com/apply",
		},
		{
			name: "meaningful params survive and sort",
			in:   "https://example.com/apply?b=2&a=1&utm_term=x",
			want: "https://example.com/apply?a=1&b=2",
		},
		{
			name: "scheme and host lower cased, fragment dropped",
			in:   "HTTPS://Jobs.Example.COM/p/9#section",
			want: "https://jobs.example.com/p/9",
		},
	}
	for _, c := range cases {
		if got := dedupe.CanonicalURL(c.in); got != c.want {
			t.Errorf("%s: CanonicalURL(%q) = %q, want %q", c.name, c.in, got, c.want)
		}
	}
}

func TestCanonicalURL_SameIdentityAfterTracking(t *testing.T) {
	a := dedupe.CanonicalURL("https://example.com/job/42?utm_source=a&utm_content=b")
	b := dedupe.CanonicalURL("https://example.com/job/42?gclid=zzz")
	if a == "" || a != b {
		t.Errorf("tracking variants should canonicalize equal: %q vs %q", a, b)
	}
}

func TestCanonicalURL_Malformed(t *testing.T) {
	for _, in := range []string{"", "   ", "not a url", "/relative/path", "://missing"} {
		if got := dedupe.CanonicalURL(in); got != "" {
			t.Errorf("CanonicalURL(%q) = %q, want empty", in, got)
		}
	}
}

func TestFingerprint_NormalizesCaseAndWhitespace(t *testing.T) {
	a := dedupe.Fingerprint("Acme Corp", "Go Engineer", "Austin, TX", "2026-08-01T00:00:00Z")
	b := dedupe.Fingerprint("  acme corp ", "GO ENGINEER", "austin, tx", "2026-08-01T00:00:00Z")
	if a != b {
		t.Error("fingerprints should match across case and whitespace differences")
	}
}

func TestFingerprint_DistinguishesFields(t *testing.T) {
	a := dedupe.Fingerprint("Acme", "Go Engineer", "Austin", "")
	b := dedupe.Fingerprint("Acme", "Go Engineer", "Dallas", "")
	if a == b {
		t.Error("different locations must not collide")
	}
}
