package domain

import "time"

// Listing is one deduplicated job posting. A listing is created the first
// time the resolver fails to match an incoming result against the store and
// is never deleted by the pipeline; users can only flag it ignored.
type Listing struct {
	ID             int64      `json:"id"`
	Source         string     `json:"source"` // "jsearch"
	SourceJobID    string     `json:"sourceJobId"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	CompanyLogo    string     `json:"companyLogo,omitempty"`
	Location       string     `json:"location"`
	City           string     `json:"city,omitempty"`
	State          string     `json:"state,omitempty"`
	Country        string     `json:"country,omitempty"`
	IsRemote       bool       `json:"isRemote"`
	Description    string     `json:"description"`
	Highlights     Highlights `json:"highlights"`
	ApplyURL       string     `json:"applyUrl"`
	CanonicalURL   string     `json:"canonicalUrl,omitempty"`
	Fingerprint    string     `json:"fingerprint"`
	EmploymentType string     `json:"employmentType,omitempty"`
	SalaryMin      *float64   `json:"salaryMin,omitempty"`
	SalaryMax      *float64   `json:"salaryMax,omitempty"`
	SalaryPeriod   string     `json:"salaryPeriod,omitempty"`
	PostedAt       *time.Time `json:"postedAt,omitempty"`
	FirstSeenAt    time.Time  `json:"firstSeenAt"`
	Ignored        bool       `json:"ignored"`
}

// Highlights are the structured sections some publishers attach to a posting.
type Highlights struct {
	Qualifications   []string `json:"qualifications,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Benefits         []string `json:"benefits,omitempty"`
}

func (h Highlights) Empty() bool {
	return len(h.Qualifications) == 0 && len(h.Responsibilities) == 0 && len(h.Benefits) == 0
}
