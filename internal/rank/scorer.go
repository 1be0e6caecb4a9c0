// Package rank scores listings against the user's preference profile. Two
// engines implement the same contract: the fixed weighted rule set and the
// user-configured pattern table. Both are deterministic: no randomness and
// no external calls.
package rank

import (
	"strings"

	"jobby-engine/internal/domain"
	"jobby-engine/internal/textutil"
)

// Result is a scored listing. Disqualified is only ever set by the
// rule-table engine; disqualified listings are not persisted as matches.
type Result struct {
	Score        int
	Disqualified bool
}

type Scorer interface {
	Score(l domain.Listing) Result
}

// ForSettings picks the engine the settings ask for.
func ForSettings(p domain.Profile, s domain.Settings) Scorer {
	if s.ScoringMode == "rules" && len(s.RuleTable) > 0 {
		return NewTableScorer(s.RuleTable)
	}
	return FixedScorer{Profile: p, Weights: s.Weights}
}

// searchText is the blob every rule evaluates: title, flattened description,
// and the structured highlight sections, lower-cased.
func searchText(l domain.Listing) string {
	var b strings.Builder
	b.WriteString(l.Title)
	b.WriteByte(' ')
	b.WriteString(textutil.Flatten(l.Description))
	for _, sec := range [][]string{l.Highlights.Qualifications, l.Highlights.Responsibilities, l.Highlights.Benefits} {
		for _, line := range sec {
			b.WriteByte(' ')
			b.WriteString(line)
		}
	}
	return strings.ToLower(b.String())
}
