package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"jobby-engine/internal/config"
	"jobby-engine/internal/events"
	"jobby-engine/internal/httpapi"
	"jobby-engine/internal/runner"
	"jobby-engine/internal/scheduler"
	"jobby-engine/internal/search"
	"jobby-engine/internal/secrets"
	"jobby-engine/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Data dir: env overrides (a desktop shell can pass one), else local.
	dataDir := os.Getenv("JOBBY_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// One engine per data dir. A second instance would race the sqlite file
	// and double-fire the scheduler.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another engine instance already owns %s", dataDir)
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		return fmt.Errorf("config bootstrap failed: %w", err)
	}
	cfg, err := config.Load(userCfgPath)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", userCfgPath, err)
	}
	cfg, validation := config.NormalizeAndValidate(cfg)
	for _, wmsg := range validation.Warnings {
		log.Printf("[config] warning: %s", wmsg)
	}
	if !validation.OK() {
		return fmt.Errorf("config invalid: %s", strings.Join(validation.Errors, "; "))
	}

	st, err := store.Open(filepath.Join(dataDir, "jobby.db"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	keys, err := apiKeys(cfg)
	if err != nil {
		return err
	}
	pool, err := search.NewKeyPool(keys)
	if err != nil {
		return err
	}
	client := search.NewClient(cfg.Search.BaseURL, pool, cfg.Search.RequestsPerSecond)

	hub := events.NewHub()
	rn := runner.New(st, client, hub)

	settings, err := st.GetSettings(context.Background())
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	sched := scheduler.New(rn, st)
	if err := sched.Start(settings.CronSchedule); err != nil {
		return err
	}
	defer sched.Stop()

	if cfg.Scheduler.RunOnStart {
		if id, err := rn.Start(context.Background()); err != nil {
			log.Printf("[main] startup run skipped: %v", err)
		} else {
			log.Printf("[main] startup run %d started", id)
		}
	}

	mux := httpapi.NewMux(httpapi.Deps{
		Store:            st,
		Runner:           rn,
		Search:           client,
		Hub:              hub,
		Scheduler:        sched,
		SetSearchKeys:    secrets.SetSearchKeys,
		DeleteSearchKeys: secrets.DeleteSearchKeys,
	})
	handler := httpapi.Chain(mux,
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
		httpapi.Cors,
	)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("engine listening on http://%s (data=%s)", addr, dataDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
	return g.Wait()
}

// apiKeys resolves the upstream key list: keychain first, then config, then
// the JSEARCH_API_KEYS env var (comma separated).
func apiKeys(cfg config.Config) ([]string, error) {
	if keys, err := secrets.GetSearchKeys(); err == nil && len(keys) > 0 {
		log.Printf("[main] %d API key(s) from keychain", len(keys))
		return keys, nil
	}
	if len(cfg.Search.APIKeys) > 0 {
		return cfg.Search.APIKeys, nil
	}
	if raw := os.Getenv("JSEARCH_API_KEYS"); raw != "" {
		var keys []string
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
		if len(keys) > 0 {
			return keys, nil
		}
	}
	return nil, fmt.Errorf("no search API keys: set them in the keychain, config, or JSEARCH_API_KEYS")
}
