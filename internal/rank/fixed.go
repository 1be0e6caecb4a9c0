package rank

import (
	"time"

	"jobby-engine/internal/domain"
	"jobby-engine/internal/textutil"
)

// Per-keyword occurrence cap for skill/title/avoid keyword counting.
const keywordCap = 3

// At most this many avoid-keyword hits count toward the penalty, across all
// configured keywords.
const avoidHitsCap = 6

// Industry matches counted, at most.
const industryCap = 2

// FixedScorer is the weighted fixed-rule engine. Every rule contributes a
// signed delta against the profile; the final score is floored at zero.
type FixedScorer struct {
	Profile domain.Profile
	Weights domain.Weights

	// Now overrides the clock for recency scoring in tests.
	Now func() time.Time
}

func (s FixedScorer) Score(l domain.Listing) Result {
	text := searchText(l)
	score := 0

	score += s.keywordScore(text)
	score += s.recencyScore(l)
	score += s.workModeScore(l)
	score += s.seniorityScore(text)
	score += s.salaryScore(l)
	score += s.industryScore(text)
	score += s.educationScore(text)
	score += s.companySizeScore(text)
	score += s.experienceScore(text)
	score += s.citizenshipScore(text)
	score += s.avoidKeywordScore(text)

	if score < 0 {
		score = 0
	}
	return Result{Score: score}
}

// keywordScore counts skill and target-title occurrences, capped per keyword.
func (s FixedScorer) keywordScore(text string) int {
	score := 0
	for _, kw := range s.Profile.Skills {
		score += textutil.CountOccurrences(text, kw, keywordCap) * s.Weights.SkillMatch
	}
	for _, kw := range s.Profile.TargetTitles {
		score += textutil.CountOccurrences(text, kw, keywordCap) * s.Weights.TargetTitle
	}
	return score
}

// recencyScore awards the most generous age bucket the posting falls into.
func (s FixedScorer) recencyScore(l domain.Listing) int {
	if l.PostedAt == nil {
		return 0
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	ageDays := now.Sub(*l.PostedAt).Hours() / 24
	switch {
	case ageDays <= 1:
		return s.Weights.RecencyDay
	case ageDays <= 3:
		return s.Weights.Recency3Day
	case ageDays <= 7:
		return s.Weights.RecencyWeek
	}
	return 0
}

// workModeScore rewards agreement between the listing's remote flag and an
// explicit remote or onsite preference. Hybrid or unset preferences never
// score this rule.
func (s FixedScorer) workModeScore(l domain.Listing) int {
	wantsRemote := s.Profile.RemotePreferred || s.Profile.WorkMode == "remote"
	wantsOnsite := !wantsRemote && s.Profile.WorkMode == "onsite"

	if wantsRemote && l.IsRemote {
		return s.Weights.WorkModeMatch
	}
	if wantsOnsite && !l.IsRemote {
		return s.Weights.WorkModeMatch
	}
	return 0
}

// seniorityScore matches the configured level's keyword family; when the text
// never names a level, an extracted years requirement far above the profile's
// experience counts as a mismatch.
func (s FixedScorer) seniorityScore(text string) int {
	re, ok := seniorityPatterns[s.Profile.Seniority]
	if !ok {
		return 0
	}
	if re.MatchString(text) {
		return s.Weights.SeniorityMatch
	}
	if req := maxYearsRequirement(text); req > 0 && req > s.Profile.YearsExperience+2 {
		return -s.Weights.SeniorityMismatch
	}
	return 0
}

// salaryScore compares ranges when both sides provide one. A listing range
// sitting entirely below the profile minimum is penalized.
func (s FixedScorer) salaryScore(l domain.Listing) int {
	if s.Profile.SalaryMin <= 0 && s.Profile.SalaryMax <= 0 {
		return 0
	}
	if l.SalaryMin == nil && l.SalaryMax == nil {
		return 0
	}

	lMin, lMax := listingRange(l)
	pMin := s.Profile.SalaryMin
	pMax := s.Profile.SalaryMax

	if lMax < pMin {
		return -s.Weights.SalaryBelow
	}
	if lMax >= pMin && (pMax <= 0 || lMin <= pMax) {
		return s.Weights.SalaryOverlap
	}
	return 0
}

func listingRange(l domain.Listing) (min, max float64) {
	switch {
	case l.SalaryMin != nil && l.SalaryMax != nil:
		return *l.SalaryMin, *l.SalaryMax
	case l.SalaryMin != nil:
		return *l.SalaryMin, *l.SalaryMin
	default:
		return *l.SalaryMax, *l.SalaryMax
	}
}

func (s FixedScorer) industryScore(text string) int {
	matched := 0
	for _, kw := range s.Profile.Industries {
		if textutil.Contains(text, kw) {
			matched++
			if matched == industryCap {
				break
			}
		}
	}
	return matched * s.Weights.IndustryMatch
}

// educationScore compares the highest degree the text mentions against the
// profile's level. No degree language means no contribution.
func (s FixedScorer) educationScore(text string) int {
	required := detectEducation(text)
	if required == 0 {
		return 0
	}
	if educationRanks[s.Profile.EducationLevel] >= required {
		return s.Weights.EducationMeet
	}
	return -s.Weights.EducationUnder
}

func (s FixedScorer) companySizeScore(text string) int {
	re, ok := companySizePatterns[s.Profile.CompanySize]
	if !ok {
		return 0
	}
	if re.MatchString(text) {
		return s.Weights.CompanySize
	}
	return 0
}

// experienceScore extracts the largest years requirement in the text and
// compares it to the profile's stated experience.
func (s FixedScorer) experienceScore(text string) int {
	req := maxYearsRequirement(text)
	if req == 0 {
		return 0
	}
	if req <= s.Profile.YearsExperience {
		return s.Weights.ExperienceMeet
	}
	return -s.Weights.ExperienceMismatch
}

// citizenshipScore only arms when the user flagged citizenship-sensitivity.
// The penalty and the visa-friendly boost fire independently.
func (s FixedScorer) citizenshipScore(text string) int {
	if !s.Profile.CitizenshipNotRequired {
		return 0
	}
	score := 0
	if anyMatch(citizenshipPatterns, text) {
		score -= s.Weights.Citizenship
	}
	if anyMatch(visaFriendlyPatterns, text) {
		score += s.Weights.VisaBoost
	}
	return score
}

// avoidKeywordScore sums weighted hits across the avoid list, capped per
// keyword and overall.
func (s FixedScorer) avoidKeywordScore(text string) int {
	hits := 0
	for _, kw := range s.Profile.AvoidKeywords {
		hits += textutil.CountOccurrences(text, kw, keywordCap)
		if hits >= avoidHitsCap {
			hits = avoidHitsCap
			break
		}
	}
	return -hits * s.Weights.AvoidKeyword
}
