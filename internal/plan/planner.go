// Package plan expands a preference profile into the concrete upstream
// queries one run will issue.
package plan

import (
	"errors"
	"fmt"
	"strings"

	"jobby-engine/internal/domain"
)

// ErrNoTargetTitles means the profile can't drive a run yet. Raised before
// any run record is created.
var ErrNoTargetTitles = errors.New("profile has no target titles")

// How many of the profile's top skills get their own (skill × title) queries.
const topSkills = 2

// Query is one upstream search call: the free-text query plus the shared
// parameters every query of the run inherits from profile and settings.
type Query struct {
	Query        string
	WorkFromHome bool

	NumPages          int
	DatePosted        string
	Country           string
	Radius            int
	EmploymentTypes   string
	JobRequirements   string
	ExcludePublishers string
}

// Plan builds the query set for one run: (title × location) when locations
// are configured, else the bare title; a remote-flagged variant per title
// when remote is preferred; and (title × skill) for the top skills.
func Plan(p domain.Profile, s domain.Settings) ([]Query, error) {
	if len(p.TargetTitles) == 0 {
		return nil, ErrNoTargetTitles
	}

	shared := Query{
		NumPages:          s.NumPages,
		DatePosted:        s.DatePosted,
		Country:           s.Country,
		EmploymentTypes:   strings.Join(p.RoleTypes, ","),
		JobRequirements:   jobRequirements(p),
		ExcludePublishers: s.ExcludePublishers,
	}
	if shared.NumPages <= 0 {
		shared.NumPages = 1
	}
	if shared.DatePosted == "" {
		shared.DatePosted = "week"
	}

	var queries []Query
	add := func(text string, wfh bool) {
		q := shared
		q.Query = text
		q.WorkFromHome = wfh
		queries = append(queries, q)
	}

	for _, title := range p.TargetTitles {
		if len(p.PreferredLocations) > 0 {
			for _, loc := range p.PreferredLocations {
				add(fmt.Sprintf("%s in %s", title, loc), false)
			}
		} else {
			add(title, false)
		}
		if p.RemotePreferred {
			add(title+" remote", true)
		}
	}

	skills := p.Skills
	if len(skills) > topSkills {
		skills = skills[:topSkills]
	}
	for _, skill := range skills {
		for _, title := range p.TargetTitles {
			add(title+" "+skill, false)
		}
	}

	return queries, nil
}

// jobRequirements maps the profile's seniority onto the upstream experience
// filter tags.
func jobRequirements(p domain.Profile) string {
	switch p.Seniority {
	case "junior":
		return "under_3_years_experience"
	case "senior":
		return "more_than_3_years_experience"
	}
	return ""
}
