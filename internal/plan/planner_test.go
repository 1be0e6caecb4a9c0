package plan_test

import (
	"testing"

	"jobby-engine/internal/domain"
	"jobby-engine/internal/plan"
)

func TestPlan_NoTargetTitles(t *testing.T) {
	_, err := plan.Plan(domain.Profile{}, domain.DefaultSettings())
	if err != plan.ErrNoTargetTitles {
		t.Errorf("err = %v, want ErrNoTargetTitles", err)
	}
}

func TestPlan_SingleRemoteTitle(t *testing.T) {
	p := domain.Profile{
		TargetTitles:    []string{"Backend Engineer"},
		RemotePreferred: true,
	}
	queries, err := plan.Plan(p, domain.DefaultSettings())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	// Bare title plus the remote-flagged variant, nothing else.
	if len(queries) != 2 {
		t.Fatalf("got %d queries, want 2: %+v", len(queries), queries)
	}
	if queries[0].Query != "Backend Engineer" || queries[0].WorkFromHome {
		t.Errorf("query 0 = %+v", queries[0])
	}
	if queries[1].Query != "Backend Engineer remote" || !queries[1].WorkFromHome {
		t.Errorf("query 1 = %+v", queries[1])
	}
}

func TestPlan_TitleLocationCrossProduct(t *testing.T) {
	p := domain.Profile{
		TargetTitles:       []string{"SRE", "Platform Engineer"},
		PreferredLocations: []string{"Austin, TX", "Denver, CO"},
	}
	queries, err := plan.Plan(p, domain.DefaultSettings())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	want := []string{
		"SRE in Austin, TX",
		"SRE in Denver, CO",
		"Platform Engineer in Austin, TX",
		"Platform Engineer in Denver, CO",
	}
	if len(queries) != len(want) {
		t.Fatalf("got %d queries, want %d", len(queries), len(want))
	}
	for i, w := range want {
		if queries[i].Query != w {
			t.Errorf("query %d = %q, want %q", i, queries[i].Query, w)
		}
	}
}

func TestPlan_TopSkillsOnly(t *testing.T) {
	p := domain.Profile{
		TargetTitles: []string{"Go Developer"},
		Skills:       []string{"kubernetes", "terraform", "ansible", "puppet"},
	}
	queries, err := plan.Plan(p, domain.DefaultSettings())
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	// One bare title query plus two skill variants; skills beyond the top two
	// are dropped.
	if len(queries) != 3 {
		t.Fatalf("got %d queries, want 3: %+v", len(queries), queries)
	}
	if queries[1].Query != "Go Developer kubernetes" || queries[2].Query != "Go Developer terraform" {
		t.Errorf("skill queries = %q, %q", queries[1].Query, queries[2].Query)
	}
}

func TestPlan_SharedParams(t *testing.T) {
	p := domain.Profile{
		TargetTitles: []string{"Data Engineer"},
		RoleTypes:    []string{"FULLTIME", "CONTRACTOR"},
		Seniority:    "junior",
	}
	s := domain.DefaultSettings()
	s.NumPages = 2
	s.Country = "ca"
	s.ExcludePublishers = "BeeBe,Dice"

	queries, err := plan.Plan(p, s)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	q := queries[0]
	if q.NumPages != 2 || q.Country != "ca" || q.DatePosted != "week" {
		t.Errorf("shared params = %+v", q)
	}
	if q.EmploymentTypes != "FULLTIME,CONTRACTOR" {
		t.Errorf("EmploymentTypes = %q", q.EmploymentTypes)
	}
	if q.JobRequirements != "under_3_years_experience" {
		t.Errorf("JobRequirements = %q", q.JobRequirements)
	}
	if q.ExcludePublishers != "BeeBe,Dice" {
		t.Errorf("ExcludePublishers = %q", q.ExcludePublishers)
	}
}

func TestPlan_DefaultsPagesAndWindow(t *testing.T) {
	p := domain.Profile{TargetTitles: []string{"Engineer"}}
	queries, err := plan.Plan(p, domain.Settings{})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if queries[0].NumPages != 1 || queries[0].DatePosted != "week" {
		t.Errorf("defaults = %+v", queries[0])
	}
}
