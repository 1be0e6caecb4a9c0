package httpapi

import (
	"context"

	"jobby-engine/internal/events"
	"jobby-engine/internal/plan"
	"jobby-engine/internal/runner"
	"jobby-engine/internal/search"
	"jobby-engine/internal/store"
)

// Rescheduler lets the settings handler swap the cron schedule without the
// handlers knowing the scheduler type.
type Rescheduler interface {
	Restart(spec string) error
}

// SearchClient is the slice of the upstream client the job handlers use.
type SearchClient interface {
	Search(ctx context.Context, q plan.Query) ([]search.RawListing, error)
}

type Deps struct {
	Store  *store.Store
	Runner *runner.Runner
	Search SearchClient
	Hub    *events.Hub

	// Nil when the scheduler is disabled.
	Scheduler Rescheduler

	// Keychain writes, injected so handler tests stay off the real keychain.
	// Nil leaves the secrets endpoints answering 503.
	SetSearchKeys    func(keys []string) error
	DeleteSearchKeys func() error
}
