package scheduler

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"jobby-engine/internal/domain"
	"jobby-engine/internal/plan"
	"jobby-engine/internal/runner"
	"jobby-engine/internal/search"
	"jobby-engine/internal/store"
)

type panickingSearch struct{}

func (panickingSearch) Search(context.Context, plan.Query) ([]search.RawListing, error) {
	panic("upstream client blew up")
}

func TestRunDiscovery_SurvivesRunnerPanic(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "sched.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	if err := st.SaveProfile(ctx, domain.Profile{TargetTitles: []string{"Go Engineer"}}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	s := New(runner.New(st, panickingSearch{}, nil), st)
	s.runDiscovery() // must not let the panic escape

	run, err := st.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if run == nil || run.Status != domain.RunFailed {
		t.Fatalf("run = %+v, want a failed run record", run)
	}
	if !strings.Contains(run.ErrorMessage, "blew up") {
		t.Errorf("ErrorMessage = %q, want the panic value recorded", run.ErrorMessage)
	}
}
