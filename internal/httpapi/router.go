package httpapi

import "net/http"

// NewMux wires every handler. main() wraps the result in the middleware
// chain.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Runs
	rh := RunsHandler{Store: d.Store, Runner: d.Runner}
	mux.HandleFunc("/runs", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Start,
	}))
	mux.HandleFunc("/runs/latest", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.Latest,
	}))
	mux.HandleFunc("/runs/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  rh.GetByPath,    // /runs/{id}
		http.MethodPost: rh.CancelByPath, // /runs/{id}/cancel
	}))

	// Jobs
	jh := JobsHandler{Store: d.Store, Client: d.Search}
	mux.HandleFunc("/jobs/recommended", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Recommended,
	}))
	mux.HandleFunc("/jobs/search", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Search,
	}))
	mux.HandleFunc("/jobs/", methodMux(map[string]http.HandlerFunc{
		http.MethodPost:   jh.IgnoreByPath,   // /jobs/{id}/ignore
		http.MethodDelete: jh.UnignoreByPath, // /jobs/{id}/ignore
	}))

	// Profile and settings
	ph := ProfileHandler{Store: d.Store}
	mux.HandleFunc("/profile", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.Get,
		http.MethodPut: ph.Put,
	}))
	sh := SettingsHandler{Store: d.Store, Scheduler: d.Scheduler}
	mux.HandleFunc("/settings", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Get,
		http.MethodPut: sh.Put,
	}))

	// Secrets
	sec := SecretsHandler{Set: d.SetSearchKeys, Delete: d.DeleteSearchKeys}
	mux.HandleFunc("/secrets/search-keys", methodMux(map[string]http.HandlerFunc{
		http.MethodPut:    sec.PutSearchKeys,
		http.MethodDelete: sec.DeleteSearchKeys,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Health
	hh := HealthHandler{Store: d.Store}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	return mux
}
