// Package runner coordinates one discovery run: plan the queries, drive the
// search client, resolve identity for every result, score what the run
// discovered, and persist ranked matches incrementally.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"

	"jobby-engine/internal/dedupe"
	"jobby-engine/internal/domain"
	"jobby-engine/internal/events"
	"jobby-engine/internal/plan"
	"jobby-engine/internal/rank"
	"jobby-engine/internal/search"
	"jobby-engine/internal/store"
)

// SearchClient is the upstream dependency, injected so runs are testable
// without the real API.
type SearchClient interface {
	Search(ctx context.Context, q plan.Query) ([]search.RawListing, error)
}

type Runner struct {
	Store  *store.Store
	Search SearchClient
	Hub    *events.Hub

	mu     sync.Mutex
	active map[int64]*cancelToken
}

func New(st *store.Store, sc SearchClient, hub *events.Hub) *Runner {
	return &Runner{
		Store:  st,
		Search: sc,
		Hub:    hub,
		active: make(map[int64]*cancelToken),
	}
}

// Run executes a discovery run synchronously and returns its final summary.
// Configuration problems (no target titles) fail before any Run record
// exists; a run that merely had every query fail returns the failed summary
// with a nil error.
func (r *Runner) Run(ctx context.Context) (domain.Run, error) {
	run, p, s, queries, err := r.prepare(ctx)
	if err != nil {
		return domain.Run{}, err
	}
	return r.executeRun(ctx, run, p, s, queries)
}

// Start launches the same run in the background and returns its id
// immediately. Poll the run row (or the event hub) for progress.
func (r *Runner) Start(ctx context.Context) (int64, error) {
	run, p, s, queries, err := r.prepare(ctx)
	if err != nil {
		return 0, err
	}
	go func() {
		// The run outlives the request that started it.
		if _, err := r.executeRun(context.WithoutCancel(ctx), run, p, s, queries); err != nil {
			log.Printf("[runner] background run %d: %v", run.ID, err)
		}
	}()
	return run.ID, nil
}

// Cancel requests cooperative cancellation for a running run. It takes
// effect at the next per-query checkpoint and never interrupts an in-flight
// upstream call. Returns false when the run isn't active.
func (r *Runner) Cancel(runID int64) bool {
	r.mu.Lock()
	tok, ok := r.active[runID]
	r.mu.Unlock()
	if !ok {
		return false
	}
	tok.cancel()
	return true
}

func (r *Runner) prepare(ctx context.Context) (domain.Run, domain.Profile, domain.Settings, []plan.Query, error) {
	p, err := r.Store.GetProfile(ctx)
	if err != nil {
		return domain.Run{}, domain.Profile{}, domain.Settings{}, nil, fmt.Errorf("load profile: %w", err)
	}
	s, err := r.Store.GetSettings(ctx)
	if err != nil {
		return domain.Run{}, domain.Profile{}, domain.Settings{}, nil, fmt.Errorf("load settings: %w", err)
	}

	// Validation errors surface before any run row exists.
	queries, err := plan.Plan(p, s)
	if err != nil {
		return domain.Run{}, domain.Profile{}, domain.Settings{}, nil, err
	}

	params, _ := json.Marshal(map[string]any{
		"targetTitles": p.TargetTitles,
		"locations":    p.PreferredLocations,
		"remote":       p.RemotePreferred,
		"queries":      len(queries),
	})
	run, err := r.Store.CreateRun(ctx, string(params))
	if err != nil {
		return domain.Run{}, domain.Profile{}, domain.Settings{}, nil, fmt.Errorf("create run: %w", err)
	}

	r.register(run.ID)
	return run, p, s, queries, nil
}

// executeRun is the single execution path behind both entry points.
func (r *Runner) executeRun(ctx context.Context, run domain.Run, p domain.Profile, s domain.Settings, queries []plan.Query) (_ domain.Run, err error) {
	defer r.unregister(run.ID)

	// A panic mid-run still leaves the run marked failed for pollers, then
	// propagates to the caller.
	defer func() {
		if rec := recover(); rec != nil {
			run.Status = domain.RunFailed
			run.ErrorMessage = fmt.Sprint(rec)
			_ = r.Store.UpdateRun(context.WithoutCancel(ctx), run)
			panic(rec)
		}
	}()

	scorer := rank.ForSettings(p, s)
	resolver := dedupe.Resolver{Store: r.Store}
	tok := r.token(run.ID)

	r.publish(events.TypeRunStarted, run)
	log.Printf("[runner] run %d started, %d queries", run.ID, len(queries))

	var (
		runIDs    []int64 // listings discovered this run, discovery order
		seen      = make(map[int64]bool)
		errored   int
		lastErr   string
		cancelled bool
	)

	for _, q := range queries {
		// Cancellation checkpoint: between queries only.
		if tok.requested() || ctx.Err() != nil {
			cancelled = true
			break
		}

		raws, qerr := r.Search.Search(ctx, q)
		if qerr != nil {
			// One bad query must not abort the run.
			errored++
			lastErr = qerr.Error()
			log.Printf("[runner] run %d query %q failed: %v", run.ID, q.Query, qerr)
			continue
		}

		for _, raw := range raws {
			run.TotalFetched++
			res, rerr := resolver.Resolve(ctx, raw.Listing())
			if rerr != nil {
				// Persistence trouble for one listing is logged and skipped.
				log.Printf("[runner] run %d resolve failed title=%q: %v", run.ID, raw.Title, rerr)
				continue
			}
			if res.IsNew {
				run.NewJobs++
			} else {
				run.Duplicates++
			}
			if !seen[res.ListingID] {
				seen[res.ListingID] = true
				runIDs = append(runIDs, res.ListingID)
			}
		}

		// Incremental pass: rescore everything discovered so far and persist,
		// so partial results are visible before the run completes.
		r.persistMatches(ctx, run.ID, runIDs, scorer, s.MinScore)
		if uerr := r.Store.UpdateRun(ctx, run); uerr != nil {
			return run, r.fail(ctx, &run, uerr)
		}
		r.publish(events.TypeRunProgress, run)
	}

	// Final pass before the terminal transition.
	r.persistMatches(ctx, run.ID, runIDs, scorer, s.MinScore)

	switch {
	case cancelled || tok.requested():
		run.Status = domain.RunCancelled
	case len(queries) > 0 && errored == len(queries) && run.TotalFetched == 0:
		run.Status = domain.RunFailed
		run.ErrorMessage = lastErr
	default:
		run.Status = domain.RunCompleted
		run.ErrorMessage = lastErr
	}

	if uerr := r.Store.UpdateRun(ctx, run); uerr != nil {
		return run, r.fail(ctx, &run, uerr)
	}

	r.publish(events.TypeRunFinished, run)
	log.Printf("[runner] run %d %s fetched=%d new=%d dupes=%d",
		run.ID, run.Status, run.TotalFetched, run.NewJobs, run.Duplicates)
	return run, nil
}

// fail marks the run failed on a catastrophic error and hands the error back
// to the caller.
func (r *Runner) fail(ctx context.Context, run *domain.Run, err error) error {
	run.Status = domain.RunFailed
	run.ErrorMessage = err.Error()
	_ = r.Store.UpdateRun(context.WithoutCancel(ctx), *run)
	r.publish(events.TypeRunFinished, *run)
	return err
}

// persistMatches rescores the run's listings, filters to the recommendation
// threshold, and upserts ranked match rows. Individual failures are skipped.
func (r *Runner) persistMatches(ctx context.Context, runID int64, ids []int64, scorer rank.Scorer, minScore int) {
	if len(ids) == 0 {
		return
	}
	listings, err := r.Store.FindByIDs(ctx, ids)
	if err != nil {
		log.Printf("[runner] run %d load listings: %v", runID, err)
		return
	}

	type scored struct {
		id    int64
		score int
	}
	var keep []scored
	for _, l := range listings {
		res := scorer.Score(l)
		if res.Disqualified || res.Score < minScore {
			continue
		}
		keep = append(keep, scored{id: l.ID, score: res.Score})
	}

	sort.SliceStable(keep, func(i, j int) bool {
		if keep[i].score != keep[j].score {
			return keep[i].score > keep[j].score
		}
		return keep[i].id < keep[j].id
	})

	for i, sc := range keep {
		m := domain.Match{RunID: runID, ListingID: sc.id, Score: sc.score, Rank: i + 1}
		if err := r.Store.UpsertMatch(ctx, m); err != nil {
			log.Printf("[runner] run %d upsert match listing=%d: %v", runID, sc.id, err)
		}
	}
}

func (r *Runner) publish(typ string, run domain.Run) {
	if r.Hub == nil {
		return
	}
	r.Hub.PublishEvent(typ, events.RunEvent{
		RunID:        run.ID,
		Status:       string(run.Status),
		TotalFetched: run.TotalFetched,
		NewJobs:      run.NewJobs,
		Duplicates:   run.Duplicates,
	})
}
