package httpapi

import (
	"errors"
	"net/http"

	"jobby-engine/internal/plan"
	"jobby-engine/internal/runner"
	"jobby-engine/internal/store"
)

type RunsHandler struct {
	Store  *store.Store
	Runner *runner.Runner
}

// Start kicks off a discovery run. Async by default; ?wait=true blocks until
// the run reaches a terminal status and returns the full summary.
func (h RunsHandler) Start(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("wait") == "true" {
		run, err := h.Runner.Run(r.Context())
		if err != nil {
			h.writeStartError(w, r, err)
			return
		}
		writeJSON(w, run)
		return
	}

	id, err := h.Runner.Start(r.Context())
	if err != nil {
		h.writeStartError(w, r, err)
		return
	}
	writeStatusJSON(w, http.StatusAccepted, map[string]any{"runId": id, "status": "running"})
}

func (h RunsHandler) writeStartError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, plan.ErrNoTargetTitles) {
		writeError(w, r, http.StatusUnprocessableEntity, "no_target_titles", err.Error())
		return
	}
	writeError(w, r, http.StatusInternalServerError, "run_failed", err.Error())
}

func (h RunsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	run, err := h.Store.LatestRun(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if run == nil {
		writeError(w, r, http.StatusNotFound, "not_found", "no runs yet")
		return
	}
	writeJSON(w, run)
}

func (h RunsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/runs/", "")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid_id", "invalid run id")
		return
	}
	run, err := h.Store.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if run == nil {
		writeError(w, r, http.StatusNotFound, "not_found", "run not found")
		return
	}
	writeJSON(w, run)
}

// CancelByPath requests cooperative cancellation. Cancelling a run that is
// already terminal (or unknown) is a 409, not an error the caller can fix.
func (h RunsHandler) CancelByPath(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r.URL.Path, "/runs/", "/cancel")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid_id", "invalid run id")
		return
	}
	if !h.Runner.Cancel(id) {
		writeError(w, r, http.StatusConflict, "not_running", "run is not active")
		return
	}
	writeJSON(w, map[string]any{"ok": true, "runId": id})
}
