package runner

import "sync"

// cancelToken is the per-run cooperative cancellation signal. Closing is
// idempotent so repeated cancel requests are harmless.
type cancelToken struct {
	once sync.Once
	ch   chan struct{}
}

func newCancelToken() *cancelToken {
	return &cancelToken{ch: make(chan struct{})}
}

func (t *cancelToken) cancel() {
	t.once.Do(func() { close(t.ch) })
}

func (t *cancelToken) requested() bool {
	select {
	case <-t.ch:
		return true
	default:
		return false
	}
}

func (r *Runner) register(runID int64) {
	r.mu.Lock()
	r.active[runID] = newCancelToken()
	r.mu.Unlock()
}

func (r *Runner) unregister(runID int64) {
	r.mu.Lock()
	delete(r.active, runID)
	r.mu.Unlock()
}

// token returns the run's cancellation token. Runs are registered in
// prepare, so this always finds one during executeRun; the fallback keeps a
// misuse from panicking.
func (r *Runner) token(runID int64) *cancelToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tok, ok := r.active[runID]; ok {
		return tok
	}
	tok := newCancelToken()
	r.active[runID] = tok
	return tok
}
