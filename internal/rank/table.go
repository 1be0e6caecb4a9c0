package rank

import (
	"log"
	"regexp"

	"jobby-engine/internal/domain"
)

// TableScorer evaluates user-configured (pattern, weight, effect) rows
// against the same search text as the fixed engine. A disqualifying rule
// short-circuits the evaluation; the score accumulated so far is returned
// untouched alongside the flag.
type TableScorer struct {
	rules []compiledRule
}

type compiledRule struct {
	re         *regexp.Regexp
	weight     int
	countOnce  bool
	disqualify bool
}

// NewTableScorer compiles the rule table. Rows with invalid patterns are
// skipped, not fatal, so one bad user regex can't break every run.
func NewTableScorer(rules []domain.ScoringRule) *TableScorer {
	t := &TableScorer{}
	for _, r := range rules {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			log.Printf("[rank] skipping invalid rule pattern %q: %v", r.Pattern, err)
			continue
		}
		w := r.Weight
		if r.Effect == "penalize" && w > 0 {
			w = -w
		}
		t.rules = append(t.rules, compiledRule{
			re:         re,
			weight:     w,
			countOnce:  r.CountOnce,
			disqualify: r.Disqualify,
		})
	}
	return t
}

func (t *TableScorer) Score(l domain.Listing) Result {
	text := searchText(l)
	score := 0

	for _, r := range t.rules {
		if r.countOnce || r.disqualify {
			if !r.re.MatchString(text) {
				continue
			}
			if r.disqualify {
				return Result{Score: clampZero(score), Disqualified: true}
			}
			score += r.weight
			continue
		}
		n := len(r.re.FindAllStringIndex(text, keywordCap))
		score += n * r.weight
	}

	return Result{Score: clampZero(score)}
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
