package domain

import (
	"fmt"
	"strings"
)

// Profile is the user-owned search preference singleton. The pipeline reads
// a snapshot at run start and never mutates it.
type Profile struct {
	TargetTitles       []string `json:"targetTitles"`       // max 5
	Skills             []string `json:"skills"`             // max 5
	PreferredLocations []string `json:"preferredLocations"` // max 5
	RemotePreferred    bool     `json:"remotePreferred"`
	WorkMode           string   `json:"workMode"`  // remote | onsite | hybrid | ""
	Seniority          string   `json:"seniority"` // junior | mid | senior | ""
	YearsExperience    int      `json:"yearsExperience"`
	RoleTypes          []string `json:"roleTypes"` // FULLTIME, CONTRACTOR, PARTTIME, INTERN
	SalaryMin          float64  `json:"salaryMin"`
	SalaryMax          float64  `json:"salaryMax"`
	EducationLevel     string   `json:"educationLevel"` // bachelor | master | phd | ""
	Industries         []string `json:"industries"`
	CompanySize        string   `json:"companySize"` // startup | enterprise | ""
	AvoidKeywords      []string `json:"avoidKeywords"`

	// CitizenshipNotRequired is set by users who cannot take roles that demand
	// citizenship or clearance; it arms the citizenship/visa scoring rules.
	CitizenshipNotRequired bool `json:"citizenshipNotRequired"`
}

const maxListLen = 5

// Normalize trims and bounds the user-editable lists.
func (p Profile) Normalize() Profile {
	p.TargetTitles = capList(p.TargetTitles, maxListLen)
	p.Skills = capList(p.Skills, maxListLen)
	p.PreferredLocations = capList(p.PreferredLocations, maxListLen)
	return p
}

// Validate rejects values outside the enums the scorer understands. Empty
// strings mean "no preference" and are always fine.
func (p Profile) Validate() error {
	if err := oneOf("workMode", p.WorkMode, "remote", "onsite", "hybrid"); err != nil {
		return err
	}
	if err := oneOf("seniority", p.Seniority, "junior", "mid", "senior"); err != nil {
		return err
	}
	if err := oneOf("educationLevel", p.EducationLevel, "bachelor", "master", "phd"); err != nil {
		return err
	}
	if err := oneOf("companySize", p.CompanySize, "startup", "enterprise"); err != nil {
		return err
	}
	if p.YearsExperience < 0 {
		return fmt.Errorf("yearsExperience must be >= 0")
	}
	if p.SalaryMin < 0 || p.SalaryMax < 0 {
		return fmt.Errorf("salary bounds must be >= 0")
	}
	if p.SalaryMax > 0 && p.SalaryMin > p.SalaryMax {
		return fmt.Errorf("salaryMin exceeds salaryMax")
	}
	return nil
}

func oneOf(field, v string, allowed ...string) error {
	if v == "" {
		return nil
	}
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s", field, strings.Join(allowed, ", "))
}

func capList(xs []string, n int) []string {
	var out []string
	seen := map[string]bool{}
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		key := strings.ToLower(x)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, x)
		if len(out) == n {
			break
		}
	}
	return out
}
