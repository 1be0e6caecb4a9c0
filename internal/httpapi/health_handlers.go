package httpapi

import (
	"net/http"

	"jobby-engine/internal/store"
)

type HealthHandler struct {
	Store *store.Store
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	n, err := h.Store.CountListings(r.Context())
	if err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "db_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "listings": n})
}
