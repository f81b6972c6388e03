package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"product-catalog/internal/catalog"
	"product-catalog/internal/config"
	"product-catalog/internal/db"
	"product-catalog/internal/featureflags"
	mw "product-catalog/internal/http/middleware"
	"product-catalog/internal/logger"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("dotenv: %v", err)
	}
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1) DB init
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	sqlDB, err := db.Init(initCtx, cfg.DatabaseURL)
	if err == nil && cfg.SeedDemoData {
		err = db.SeedDemo(initCtx, sqlDB)
	}
	cancel()
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	defer sqlDB.Close()

	// 2) Feature flags init (non-fatal)
	flagCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	if err := featureflags.Init(flagCtx, cfg.RolloutKey); err != nil {
		logger.Warnf("feature flags init warning: %v", err)
	} else {
		logger.Infof("feature flags ready: offline=%v, logLevel=%s",
			featureflags.Values().Offline.IsEnabled(nil),
			featureflags.Values().LogLevel.GetValue(nil))
		logger.SetLevel(featureflags.Values().LogLevel.GetValue(nil))
		go watchLogLevel(ctx)
	}
	cancel()
	defer featureflags.Shutdown()

	logger.Infof("log level set to %s", logger.GetLevel())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           newRouter(cfg, catalog.NewStore(sqlDB), flagOffline),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("catalog-api listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	logger.Infof("catalog-api stopped")
}

// watchLogLevel follows flips of the LogLevel flag.
func watchLogLevel(ctx context.Context) {
	prev := featureflags.Values().LogLevel.GetValue(nil)
	t := time.NewTicker(5 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			cur := featureflags.Values().LogLevel.GetValue(nil)
			if cur != prev {
				logger.SetLevel(cur)
				logger.Infof("log level changed to %s", logger.GetLevel())
				prev = cur
			}
		}
	}
}

// apiStore is the catalog store plus the readiness probe.
type apiStore interface {
	catalog.ProductStore
	Ping(ctx context.Context) error
}

func flagOffline() bool {
	return featureflags.Values().Offline.IsEnabled(nil)
}

func newRouter(cfg config.Server, store apiStore, offline func() bool) http.Handler {
	r := mux.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.OfflineGate(offline, "/health", "/ready"))
	r.Use(mw.LogRequests(mw.WithSkips("/health", "/ready")))

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/_flags", func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]interface{}{
			"offline":  featureflags.Values().Offline.IsEnabled(nil),
			"logLevel": featureflags.Values().LogLevel.GetValue(nil),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(mw.RateLimit(mw.RateLimitOptions{
		RPS:     cfg.RateRPS,
		Burst:   cfg.RateBurst,
		IdleTTL: 10 * time.Minute,
	}))
	catalog.NewHandler(store).Register(api)

	return mw.CORS(r)
}
