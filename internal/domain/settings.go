package domain

// Weights are the user-tunable coefficients the scoring engine applies per
// rule. All values are magnitudes; the engine decides the sign (penalty rules
// subtract their weight).
type Weights struct {
	SkillMatch         int `json:"weightSkillMatch"`
	TargetTitle        int `json:"weightTargetTitle"`
	RecencyDay         int `json:"weightRecencyDay1"`
	Recency3Day        int `json:"weightRecencyDay3"`
	RecencyWeek        int `json:"weightRecencyWeek"`
	WorkModeMatch      int `json:"weightWorkModeMatch"`
	SeniorityMatch     int `json:"weightSeniorityMatch"`
	SeniorityMismatch  int `json:"weightSeniorityMismatch"`
	SalaryOverlap      int `json:"weightSalaryOverlap"`
	SalaryBelow        int `json:"weightSalaryBelow"`
	IndustryMatch      int `json:"weightIndustryMatch"`
	EducationMeet      int `json:"weightEducationMeet"`
	EducationUnder     int `json:"weightEducationUnder"`
	CompanySize        int `json:"weightCompanySize"`
	ExperienceMeet     int `json:"weightExpMeet"`
	ExperienceMismatch int `json:"weightExpMismatch"`
	Citizenship        int `json:"weightCitizenship"`
	VisaBoost          int `json:"weightOptCptBoost"`
	AvoidKeyword       int `json:"weightAvoidKeyword"`
}

// DefaultWeights are applied whenever no settings row exists yet.
func DefaultWeights() Weights {
	return Weights{
		SkillMatch:         10,
		TargetTitle:        10,
		RecencyDay:         30,
		Recency3Day:        20,
		RecencyWeek:        10,
		WorkModeMatch:      15,
		SeniorityMatch:     10,
		SeniorityMismatch:  15,
		SalaryOverlap:      15,
		SalaryBelow:        20,
		IndustryMatch:      10,
		EducationMeet:      10,
		EducationUnder:     15,
		CompanySize:        5,
		ExperienceMeet:     10,
		ExperienceMismatch: 15,
		Citizenship:        50,
		VisaBoost:          25,
		AvoidKeyword:       15,
	}
}

// ScoringRule is one row of the user-configured pattern table used by the
// rule-table scoring mode.
type ScoringRule struct {
	Pattern    string `json:"pattern"` // regex, case-insensitive
	Weight     int    `json:"weight"`
	Effect     string `json:"effect"` // "add" | "penalize"
	CountOnce  bool   `json:"countOnce"`
	Disqualify bool   `json:"disqualify"`
}

// Settings is the user-owned tuning singleton: scoring weights plus the
// search/scheduling knobs the planner and scheduler inherit.
type Settings struct {
	Weights           Weights       `json:"weights"`
	MinScore          int           `json:"minScore"`    // recommend threshold
	ExpiryDays        int           `json:"expiryDays"`  // match expiry sweep window
	ScoringMode       string        `json:"scoringMode"` // "fixed" | "rules"
	RuleTable         []ScoringRule `json:"ruleTable,omitempty"`
	CronSchedule      string        `json:"cronSchedule"`
	NumPages          int           `json:"numPages"`
	DatePosted        string        `json:"datePosted"` // all | today | 3days | week | month
	Country           string        `json:"country"`
	ExcludePublishers string        `json:"excludePublishers"`
}

func DefaultSettings() Settings {
	return Settings{
		Weights:      DefaultWeights(),
		MinScore:     50,
		ExpiryDays:   30,
		ScoringMode:  "fixed",
		CronSchedule: "0 */4 * * *",
		NumPages:     1,
		DatePosted:   "week",
		Country:      "us",
	}
}
