package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

// SecretsHandler manages the upstream API keys held in the OS keychain. The
// write funcs are injected so the handlers work on hosts without one. New
// keys take effect on the next engine start; the running key pool keeps its
// snapshot.
type SecretsHandler struct {
	Set    func(keys []string) error
	Delete func() error
}

func (h SecretsHandler) PutSearchKeys(w http.ResponseWriter, r *http.Request) {
	if h.Set == nil {
		writeError(w, r, http.StatusServiceUnavailable, "keychain_unavailable", "no keychain configured")
		return
	}
	var body struct {
		Keys []string `json:"keys"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	var keys []string
	for _, k := range body.Keys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		writeError(w, r, http.StatusUnprocessableEntity, "no_keys", "at least one API key is required")
		return
	}
	if err := h.Set(keys); err != nil {
		writeError(w, r, http.StatusInternalServerError, "keychain_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "keys": len(keys)})
}

func (h SecretsHandler) DeleteSearchKeys(w http.ResponseWriter, r *http.Request) {
	if h.Delete == nil {
		writeError(w, r, http.StatusServiceUnavailable, "keychain_unavailable", "no keychain configured")
		return
	}
	if err := h.Delete(); err != nil {
		writeError(w, r, http.StatusInternalServerError, "keychain_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}
