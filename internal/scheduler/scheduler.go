// Package scheduler wires the cron jobs: the periodic discovery run and the
// daily match expiry sweep.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"jobby-engine/internal/runner"
	"jobby-engine/internal/store"
)

type Scheduler struct {
	cron   *cron.Cron
	runner *runner.Runner
	store  *store.Store

	mu       sync.Mutex
	runEntry cron.EntryID
	spec     string
}

func New(r *runner.Runner, st *store.Store) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		runner: r,
		store:  st,
	}
}

// Start registers the discovery run on the given cron spec plus the daily
// sweep, then starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(spec, s.runDiscovery)
	if err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", spec, err)
	}
	s.runEntry = id
	s.spec = spec

	if _, err := s.cron.AddFunc("@daily", s.sweepExpired); err != nil {
		return fmt.Errorf("cron.AddFunc(@daily): %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] started, discovery spec: %s", spec)
	return nil
}

// Restart swaps the discovery schedule, called when the user edits the cron
// setting.
func (s *Scheduler) Restart(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if spec == s.spec {
		return nil
	}
	id, err := s.cron.AddFunc(spec, s.runDiscovery)
	if err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", spec, err)
	}
	s.cron.Remove(s.runEntry)
	s.runEntry = id
	s.spec = spec
	log.Printf("[scheduler] discovery rescheduled, spec: %s", spec)
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] stopped")
}

func (s *Scheduler) runDiscovery() {
	// The runner marks the run failed before re-panicking; recovery here
	// keeps a catastrophic run from taking the whole engine down.
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[scheduler] discovery run panicked: %v", rec)
		}
	}()

	log.Println("[scheduler] starting scheduled discovery run")
	run, err := s.runner.Run(context.Background())
	if err != nil {
		log.Printf("[scheduler] discovery run failed: %v", err)
		return
	}
	log.Printf("[scheduler] discovery run %d %s fetched=%d new=%d dupes=%d",
		run.ID, run.Status, run.TotalFetched, run.NewJobs, run.Duplicates)
}

// sweepExpired drops matches whose listing fell out of the expiry window.
// Listings are kept; only their recommendations age out.
func (s *Scheduler) sweepExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		log.Printf("[scheduler] sweep: load settings: %v", err)
		return
	}
	if settings.ExpiryDays <= 0 {
		return
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -settings.ExpiryDays)
	ids, err := s.store.ExpiredListingIDs(ctx, cutoff)
	if err != nil {
		log.Printf("[scheduler] sweep: expired listings: %v", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	n, err := s.store.DeleteMatchesByListingIDs(ctx, ids)
	if err != nil {
		log.Printf("[scheduler] sweep: delete matches: %v", err)
		return
	}
	log.Printf("[scheduler] sweep removed %d matches for %d expired listings", n, len(ids))
}
