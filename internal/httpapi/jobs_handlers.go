package httpapi

import (
	"net/http"
	"strings"

	"jobby-engine/internal/dedupe"
	"jobby-engine/internal/domain"
	"jobby-engine/internal/plan"
	"jobby-engine/internal/rank"
	"jobby-engine/internal/store"
)

type JobsHandler struct {
	Store  *store.Store
	Client SearchClient
}

// Recommended serves the ranked matches of the latest completed run, ignored
// listings filtered out.
func (h JobsHandler) Recommended(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	run, err := h.Store.LatestRunByStatus(r.Context(), domain.RunCompleted)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if run == nil {
		writeJSON(w, map[string]any{"runId": nil, "total": 0, "jobs": []store.RankedMatch{}})
		return
	}

	matches, err := h.Store.MatchesByRun(r.Context(), run.ID, limit, offset)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	total, err := h.Store.CountMatchesByRun(r.Context(), run.ID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if matches == nil {
		matches = []store.RankedMatch{}
	}
	writeJSON(w, map[string]any{"runId": run.ID, "total": total, "jobs": matches})
}

type searchResult struct {
	domain.Listing
	Score int  `json:"score"`
	IsNew bool `json:"isNew"`
}

// Search proxies one ad-hoc query through the upstream client. Results pass
// through the same identity resolution as a run, so they land in the listings
// table, but no run or match rows are written.
func (h JobsHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h.Client == nil {
		writeError(w, r, http.StatusServiceUnavailable, "search_unavailable", "no upstream client configured")
		return
	}

	qs := r.URL.Query()
	text := strings.TrimSpace(qs.Get("q"))
	if text == "" {
		writeError(w, r, http.StatusBadRequest, "missing_query", "q is required")
		return
	}

	settings, err := h.Store.GetSettings(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	profile, err := h.Store.GetProfile(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	q := plan.Query{
		Query:      text,
		NumPages:   settings.NumPages,
		DatePosted: settings.DatePosted,
		Country:    settings.Country,
	}
	if c := qs.Get("country"); c != "" {
		q.Country = c
	}
	if d := qs.Get("datePosted"); d != "" {
		q.DatePosted = d
	}
	if qs.Get("remote") == "true" {
		q.WorkFromHome = true
	}
	q.Radius = queryInt(r, "radius", 0)

	raws, err := h.Client.Search(r.Context(), q)
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "upstream_error", err.Error())
		return
	}

	scorer := rank.ForSettings(profile, settings)
	resolver := dedupe.Resolver{Store: h.Store}

	results := make([]searchResult, 0, len(raws))
	for _, raw := range raws {
		res, rerr := resolver.Resolve(r.Context(), raw.Listing())
		if rerr != nil {
			writeError(w, r, http.StatusInternalServerError, "db_error", rerr.Error())
			return
		}
		l, lerr := h.Store.GetListing(r.Context(), res.ListingID)
		if lerr != nil || l == nil {
			continue
		}
		sc := scorer.Score(*l)
		results = append(results, searchResult{Listing: *l, Score: sc.Score, IsNew: res.IsNew})
	}
	writeJSON(w, map[string]any{"query": text, "jobs": results})
}

func (h JobsHandler) IgnoreByPath(w http.ResponseWriter, r *http.Request) {
	h.setIgnored(w, r, true)
}

func (h JobsHandler) UnignoreByPath(w http.ResponseWriter, r *http.Request) {
	h.setIgnored(w, r, false)
}

func (h JobsHandler) setIgnored(w http.ResponseWriter, r *http.Request, ignored bool) {
	id, ok := pathID(r.URL.Path, "/jobs/", "/ignore")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid_id", "invalid job id")
		return
	}
	l, err := h.Store.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if l == nil {
		writeError(w, r, http.StatusNotFound, "not_found", "job not found")
		return
	}
	if err := h.Store.SetIgnored(r.Context(), id, ignored); err != nil {
		writeError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true, "id": id, "ignored": ignored})
}
