package rank

import "regexp"

// Pattern families used by the fixed scorer. All are matched against the
// lower-cased search text, so the (?i) flag only matters for the few that
// carry uppercase alternatives.

var citizenshipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bus\s*citizen`),
	regexp.MustCompile(`\bunited\s*states\s*citizen`),
	regexp.MustCompile(`\bgreen\s*card`),
	regexp.MustCompile(`\bsecurity\s*clearance`),
	regexp.MustCompile(`\bclearance\s*required`),
	regexp.MustCompile(`\bmust\s*be\s*(legally\s*)?authorized\s*to\s*work`),
	regexp.MustCompile(`\bwithout\s*sponsorship`),
	regexp.MustCompile(`\bno\s*visa\s*sponsor`),
	regexp.MustCompile(`\bpermanent\s*resident`),
	regexp.MustCompile(`\bus\s*person\b`),
}

var visaFriendlyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bopt\b`),
	regexp.MustCompile(`\bcpt\b`),
	regexp.MustCompile(`\bf-?1\b`),
	regexp.MustCompile(`\bvisa\s*sponsorship`),
	regexp.MustCompile(`\bsponsorship\s*(is\s*)?(available|provided|offered)`),
	regexp.MustCompile(`\bwill\s*sponsor\b`),
	regexp.MustCompile(`\bh-?1b\s*(transfer|sponsor)`),
}

var seniorityPatterns = map[string]*regexp.Regexp{
	"junior": regexp.MustCompile(`\b(junior|jr\.?|entry[\s-]?level|early\s*career|new\s*grad(uate)?)\b`),
	"mid":    regexp.MustCompile(`\b(mid[\s-]?level|intermediate)\b`),
	"senior": regexp.MustCompile(`\b(senior|sr\.?|lead|staff|principal)\b`),
}

// Degree detection, strongest first. Ranks: phd 3, master 2, bachelor 1.
var educationPatterns = []struct {
	rank int
	re   *regexp.Regexp
}{
	{3, regexp.MustCompile(`\b(ph\.?\s?d|doctorate|doctoral)\b`)},
	{2, regexp.MustCompile(`\b(master'?s?\s*(degree|of|in)|m\.s\.|\bmsc?\b|mba)\b`)},
	{1, regexp.MustCompile(`\b(bachelor'?s?|b\.s\.|\bbs\b|\bba\b|undergraduate\s*degree)\b`)},
}

var educationRanks = map[string]int{
	"bachelor": 1,
	"master":   2,
	"phd":      3,
}

var companySizePatterns = map[string]*regexp.Regexp{
	"startup":    regexp.MustCompile(`\b(start-?up|early[\s-]stage|seed\s*stage|series\s*[ab]\b|fast[\s-]paced)`),
	"enterprise": regexp.MustCompile(`\b(enterprise|fortune\s*500|large\s*(company|organization)|established\s*company|global\s*(company|leader))`),
}

// yearsPattern pulls "N years" / "N+ years" style requirements out of text.
var yearsPattern = regexp.MustCompile(`\b(\d{1,2})\s*\+?\s*(?:years?|yrs?)\b`)

// maxYearsRequirement returns the largest years figure mentioned in text,
// or 0 when none is found.
func maxYearsRequirement(text string) int {
	max := 0
	for _, m := range yearsPattern.FindAllStringSubmatch(text, -1) {
		n := 0
		for _, r := range m[1] {
			n = n*10 + int(r-'0')
		}
		if n > max {
			max = n
		}
	}
	return max
}

// detectEducation returns the rank of the highest degree mentioned in text,
// or 0 when no degree language is found.
func detectEducation(text string) int {
	for _, p := range educationPatterns {
		if p.re.MatchString(text) {
			return p.rank
		}
	}
	return 0
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
