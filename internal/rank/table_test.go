package rank_test

import (
	"testing"

	"jobby-engine/internal/domain"
	"jobby-engine/internal/rank"
)

func TestTableScorer_AddCountsCappedMatches(t *testing.T) {
	s := rank.NewTableScorer([]domain.ScoringRule{
		{Pattern: `\bgolang\b`, Weight: 10, Effect: "add"},
	})
	l := domain.Listing{Title: "x", Description: "golang golang golang golang golang"}
	if got := s.Score(l).Score; got != 30 {
		t.Errorf("Score = %d, want 30 (three capped matches)", got)
	}
}

func TestTableScorer_CountOnce(t *testing.T) {
	s := rank.NewTableScorer([]domain.ScoringRule{
		{Pattern: `remote`, Weight: 25, Effect: "add", CountOnce: true},
	})
	l := domain.Listing{Title: "Remote role", Description: "fully remote, remote-first"}
	if got := s.Score(l).Score; got != 25 {
		t.Errorf("Score = %d, want 25", got)
	}
}

func TestTableScorer_PenalizeNegatesWeight(t *testing.T) {
	s := rank.NewTableScorer([]domain.ScoringRule{
		{Pattern: `golang`, Weight: 30, Effect: "add", CountOnce: true},
		{Pattern: `on-?site`, Weight: 20, Effect: "penalize", CountOnce: true},
	})
	l := domain.Listing{Title: "Golang Engineer", Description: "onsite only"}
	if got := s.Score(l).Score; got != 10 {
		t.Errorf("Score = %d, want 10", got)
	}
}

func TestTableScorer_DisqualifyShortCircuits(t *testing.T) {
	s := rank.NewTableScorer([]domain.ScoringRule{
		{Pattern: `golang`, Weight: 30, Effect: "add", CountOnce: true},
		{Pattern: `clearance`, Disqualify: true},
		{Pattern: `remote`, Weight: 100, Effect: "add", CountOnce: true},
	})
	l := domain.Listing{Title: "Golang Engineer", Description: "remote, active clearance required"}
	res := s.Score(l)
	if !res.Disqualified {
		t.Fatal("expected disqualification")
	}
	// Rules after the disqualifier never run.
	if res.Score != 30 {
		t.Errorf("Score = %d, want 30", res.Score)
	}
}

func TestTableScorer_InvalidPatternSkipped(t *testing.T) {
	s := rank.NewTableScorer([]domain.ScoringRule{
		{Pattern: `(`, Weight: 50, Effect: "add"},
		{Pattern: `golang`, Weight: 10, Effect: "add", CountOnce: true},
	})
	l := domain.Listing{Title: "Golang Engineer"}
	if got := s.Score(l).Score; got != 10 {
		t.Errorf("Score = %d, want 10 (bad rule dropped)", got)
	}
}

func TestTableScorer_FloorAtZero(t *testing.T) {
	s := rank.NewTableScorer([]domain.ScoringRule{
		{Pattern: `php`, Weight: 40, Effect: "penalize", CountOnce: true},
	})
	l := domain.Listing{Title: "PHP Developer"}
	if got := s.Score(l).Score; got != 0 {
		t.Errorf("Score = %d, want 0", got)
	}
}

func TestForSettings_PicksEngine(t *testing.T) {
	p := domain.Profile{}
	s := domain.DefaultSettings()

	if _, ok := rank.ForSettings(p, s).(rank.FixedScorer); !ok {
		t.Error("default settings should select the fixed engine")
	}

	s.ScoringMode = "rules"
	s.RuleTable = []domain.ScoringRule{{Pattern: `golang`, Weight: 10}}
	if _, ok := rank.ForSettings(p, s).(*rank.TableScorer); !ok {
		t.Error("rules mode with a table should select the table engine")
	}

	// Rules mode with an empty table falls back to fixed.
	s.RuleTable = nil
	if _, ok := rank.ForSettings(p, s).(rank.FixedScorer); !ok {
		t.Error("rules mode without a table should fall back to fixed")
	}
}
