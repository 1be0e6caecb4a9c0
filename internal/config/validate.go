package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus everything worth
// telling the user about their config.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			if seen[x] {
				continue
			}
			seen[x] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Search.APIKeys = trimList(out.Search.APIKeys)
	out.Search.BaseURL = strings.TrimSpace(out.Search.BaseURL)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be between 1 and 65535, got %d", out.App.Port)
	}
	if strings.TrimSpace(out.App.DataDir) == "" {
		res.addErr("app.data_dir is required")
	}

	if out.Search.BaseURL != "" {
		if u, err := url.Parse(out.Search.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			res.addErr("search.base_url is not a valid URL: %q", out.Search.BaseURL)
		}
	}
	if out.Search.RequestsPerSecond < 0 {
		res.addErr("search.requests_per_second must be >= 0")
	} else if out.Search.RequestsPerSecond > 10 {
		res.addWarn("search.requests_per_second is high (%.1f) and may burn quota quickly.", out.Search.RequestsPerSecond)
	}
	if len(out.Search.APIKeys) == 0 {
		res.addWarn("search.api_keys is empty; keys must come from the keychain or JSEARCH_API_KEYS.")
	}

	return out, res
}
