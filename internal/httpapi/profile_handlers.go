package httpapi

import (
	"encoding/json"
	"net/http"

	"jobby-engine/internal/domain"
	"jobby-engine/internal/store"
)

type ProfileHandler struct {
	Store *store.Store
}

func (h ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetProfile(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, p)
}

func (h ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	var p domain.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid_profile", err.Error())
		return
	}
	if err := h.Store.SaveProfile(r.Context(), p); err != nil {
		writeError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, p.Normalize())
}
