package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jobby-engine/internal/domain"
	"jobby-engine/internal/httpapi"
	"jobby-engine/internal/plan"
	"jobby-engine/internal/runner"
	"jobby-engine/internal/search"
	"jobby-engine/internal/store"
)

type stubSearch struct {
	results []search.RawListing
}

func (s stubSearch) Search(_ context.Context, _ plan.Query) ([]search.RawListing, error) {
	return s.results, nil
}

type stubScheduler struct {
	restarted []string
}

func (s *stubScheduler) Restart(spec string) error {
	s.restarted = append(s.restarted, spec)
	return nil
}

func newAPI(t *testing.T, results []search.RawListing) (*httptest.Server, *store.Store, *stubScheduler) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	sched := &stubScheduler{}
	stub := stubSearch{results: results}
	rn := runner.New(st, stub, nil)
	mux := httpapi.NewMux(httpapi.Deps{
		Store:     st,
		Runner:    rn,
		Search:    stub,
		Hub:       nil,
		Scheduler: sched,
	})
	srv := httptest.NewServer(httpapi.Chain(mux, httpapi.RequestID, httpapi.Recover))
	t.Cleanup(srv.Close)
	return srv, st, sched
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res, out
}

func TestProfile_PutThenGet(t *testing.T) {
	srv, _, _ := newAPI(t, nil)

	res, body := doJSON(t, http.MethodPut, srv.URL+"/profile",
		`{"targetTitles":[" Go Engineer ","go engineer"],"remotePreferred":true,"workMode":"remote"}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, body %v", res.StatusCode, body)
	}

	res, body = doJSON(t, http.MethodGet, srv.URL+"/profile", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d", res.StatusCode)
	}
	titles, _ := body["targetTitles"].([]any)
	if len(titles) != 1 || titles[0] != "Go Engineer" {
		t.Errorf("targetTitles = %v", titles)
	}
}

func TestProfile_PutRejectsBadEnum(t *testing.T) {
	srv, _, _ := newAPI(t, nil)
	res, _ := doJSON(t, http.MethodPut, srv.URL+"/profile", `{"workMode":"submarine"}`)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", res.StatusCode)
	}
}

func TestSettings_PutRejectsBadCron(t *testing.T) {
	srv, _, _ := newAPI(t, nil)
	res, _ := doJSON(t, http.MethodPut, srv.URL+"/settings", `{"cronSchedule":"every now and then"}`)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", res.StatusCode)
	}
}

func TestSettings_CronChangeRestartsScheduler(t *testing.T) {
	srv, _, sched := newAPI(t, nil)

	res, _ := doJSON(t, http.MethodPut, srv.URL+"/settings", `{"minScore":40,"cronSchedule":"0 */6 * * *"}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if len(sched.restarted) != 1 || sched.restarted[0] != "0 */6 * * *" {
		t.Errorf("scheduler restarts = %v", sched.restarted)
	}

	// Saving again with the same schedule must not restart.
	res, _ = doJSON(t, http.MethodPut, srv.URL+"/settings", `{"minScore":45,"cronSchedule":"0 */6 * * *"}`)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if len(sched.restarted) != 1 {
		t.Errorf("unexpected extra restart: %v", sched.restarted)
	}
}

func TestRuns_WaitRunsSynchronously(t *testing.T) {
	srv, st, _ := newAPI(t, []search.RawListing{{
		JobID:        "j1",
		Title:        "Go Engineer",
		EmployerName: "Acme",
		Description:  "go all day",
	}})

	if err := st.SaveProfile(context.Background(), domain.Profile{
		TargetTitles: []string{"Go Engineer"},
		Skills:       []string{"go"},
	}); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	set := domain.DefaultSettings()
	set.MinScore = 1
	if err := st.SaveSettings(context.Background(), set); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	res, body := doJSON(t, http.MethodPost, srv.URL+"/runs?wait=true", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", res.StatusCode, body)
	}
	if body["status"] != string(domain.RunCompleted) {
		t.Errorf("run = %v", body)
	}

	res, body = doJSON(t, http.MethodGet, srv.URL+"/jobs/recommended", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("recommended status = %d", res.StatusCode)
	}
	jobs, _ := body["jobs"].([]any)
	if len(jobs) != 1 {
		t.Errorf("recommended jobs = %v", body)
	}
}

func TestRuns_StartWithoutProfile(t *testing.T) {
	srv, _, _ := newAPI(t, nil)
	res, _ := doJSON(t, http.MethodPost, srv.URL+"/runs", "")
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", res.StatusCode)
	}
}

func TestRuns_LatestAndGet(t *testing.T) {
	srv, st, _ := newAPI(t, nil)

	res, _ := doJSON(t, http.MethodGet, srv.URL+"/runs/latest", "")
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("latest with no runs = %d, want 404", res.StatusCode)
	}

	run, err := st.CreateRun(context.Background(), `{}`)
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	run.Status = domain.RunCompleted
	if err := st.UpdateRun(context.Background(), run); err != nil {
		t.Fatalf("UpdateRun: %v", err)
	}

	res, body := doJSON(t, http.MethodGet, srv.URL+"/runs/latest", "")
	if res.StatusCode != http.StatusOK || body["id"] == nil {
		t.Errorf("latest = %d %v", res.StatusCode, body)
	}

	res, _ = doJSON(t, http.MethodGet, srv.URL+"/runs/999", "")
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("missing run = %d, want 404", res.StatusCode)
	}
}

func TestRuns_CancelInactive(t *testing.T) {
	srv, _, _ := newAPI(t, nil)
	res, _ := doJSON(t, http.MethodPost, srv.URL+"/runs/42/cancel", "")
	if res.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", res.StatusCode)
	}
}

func TestJobs_SearchProxyResolvesAndScores(t *testing.T) {
	srv, st, _ := newAPI(t, []search.RawListing{{
		JobID:        "j9",
		Title:        "Go Engineer",
		EmployerName: "Acme",
		ApplyLink:    "https://example.com/j9?utm_source=feed",
		Description:  "go all day",
	}})

	res, body := doJSON(t, http.MethodGet, srv.URL+"/jobs/search?q=golang", "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", res.StatusCode, body)
	}
	jobs, _ := body["jobs"].([]any)
	if len(jobs) != 1 {
		t.Fatalf("jobs = %v", body)
	}
	first, _ := jobs[0].(map[string]any)
	if first["isNew"] != true {
		t.Errorf("first sighting should be new: %v", first)
	}
	if _, ok := first["score"]; !ok {
		t.Errorf("results must carry a score: %v", first)
	}

	// The result lands in the listings table but writes no run rows.
	if n, err := st.CountListings(context.Background()); err != nil || n != 1 {
		t.Errorf("listings = %d (%v), want 1", n, err)
	}
	if run, _ := st.LatestRun(context.Background()); run != nil {
		t.Errorf("ad-hoc search must not create runs, got %+v", run)
	}

	// The same upstream result again resolves instead of re-inserting.
	_, body = doJSON(t, http.MethodGet, srv.URL+"/jobs/search?q=golang", "")
	jobs, _ = body["jobs"].([]any)
	if len(jobs) != 1 {
		t.Fatalf("repeat jobs = %v", body)
	}
	first, _ = jobs[0].(map[string]any)
	if first["isNew"] != false {
		t.Errorf("second sighting should resolve to the stored listing: %v", first)
	}
	if n, _ := st.CountListings(context.Background()); n != 1 {
		t.Errorf("listings after repeat = %d, want 1", n)
	}
}

func TestErrors_FlatBodyEchoesRequestID(t *testing.T) {
	srv, _, _ := newAPI(t, nil)

	res, body := doJSON(t, http.MethodGet, srv.URL+"/jobs/search", "")
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
	if body["code"] != "missing_query" || body["message"] != "q is required" {
		t.Errorf("error body = %v", body)
	}
	if id, _ := body["requestId"].(string); id == "" {
		t.Error("error body should echo the request id")
	}
}

func TestSecrets_PutAndDeleteKeys(t *testing.T) {
	var saved [][]string
	deleted := 0
	mux := httpapi.NewMux(httpapi.Deps{
		SetSearchKeys:    func(keys []string) error { saved = append(saved, keys); return nil },
		DeleteSearchKeys: func() error { deleted++; return nil },
	})
	srv := httptest.NewServer(httpapi.Chain(mux, httpapi.RequestID, httpapi.Recover))
	t.Cleanup(srv.Close)

	res, body := doJSON(t, http.MethodPut, srv.URL+"/secrets/search-keys", `{"keys":[" k1 ","","k2"]}`)
	if res.StatusCode != http.StatusOK || body["ok"] != true {
		t.Fatalf("put = %d %v", res.StatusCode, body)
	}
	if len(saved) != 1 || len(saved[0]) != 2 || saved[0][0] != "k1" || saved[0][1] != "k2" {
		t.Errorf("saved keys = %v, want trimmed [k1 k2]", saved)
	}

	res, _ = doJSON(t, http.MethodPut, srv.URL+"/secrets/search-keys", `{"keys":["  "]}`)
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("blank keys = %d, want 422", res.StatusCode)
	}
	if len(saved) != 1 {
		t.Errorf("blank keys must not reach the keychain: %v", saved)
	}

	res, _ = doJSON(t, http.MethodDelete, srv.URL+"/secrets/search-keys", "")
	if res.StatusCode != http.StatusOK || deleted != 1 {
		t.Errorf("delete = %d, calls %d", res.StatusCode, deleted)
	}
}

func TestSecrets_UnavailableWithoutKeychain(t *testing.T) {
	srv, _, _ := newAPI(t, nil)
	res, body := doJSON(t, http.MethodPut, srv.URL+"/secrets/search-keys", `{"keys":["k1"]}`)
	if res.StatusCode != http.StatusServiceUnavailable || body["code"] != "keychain_unavailable" {
		t.Errorf("put without keychain = %d %v", res.StatusCode, body)
	}
}

func TestJobs_IgnoreToggle(t *testing.T) {
	srv, st, _ := newAPI(t, nil)

	l := domain.Listing{Source: "jsearch", Title: "X", Fingerprint: "fpx", FirstSeenAt: time.Now().UTC()}
	id, err := st.CreateListing(context.Background(), &l)
	if err != nil {
		t.Fatalf("CreateListing: %v", err)
	}

	url := srv.URL + "/jobs/" + jsonInt(id) + "/ignore"
	res, body := doJSON(t, http.MethodPost, url, "")
	if res.StatusCode != http.StatusOK || body["ignored"] != true {
		t.Fatalf("ignore = %d %v", res.StatusCode, body)
	}
	got, _ := st.GetListing(context.Background(), id)
	if got == nil || !got.Ignored {
		t.Error("listing not flagged ignored")
	}

	res, body = doJSON(t, http.MethodDelete, url, "")
	if res.StatusCode != http.StatusOK || body["ignored"] != false {
		t.Fatalf("unignore = %d %v", res.StatusCode, body)
	}

	res, _ = doJSON(t, http.MethodPost, srv.URL+"/jobs/999/ignore", "")
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("missing job = %d, want 404", res.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv, _, _ := newAPI(t, nil)
	res, body := doJSON(t, http.MethodGet, srv.URL+"/health", "")
	if res.StatusCode != http.StatusOK || body["ok"] != true {
		t.Errorf("health = %d %v", res.StatusCode, body)
	}
}

func jsonInt(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
