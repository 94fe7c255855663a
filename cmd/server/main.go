package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bullvbear/match-engine/internal/config"
	"github.com/bullvbear/match-engine/internal/gateway"
	"github.com/bullvbear/match-engine/internal/match"
	"github.com/bullvbear/match-engine/internal/metrics"
	"github.com/bullvbear/match-engine/internal/results"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// --- Configuration ---
	var cfg *config.Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.LoadAndValidate(path)
		if err != nil {
			slog.Error("config load failed", "path", path, "err", err)
			os.Exit(1)
		}
		cfg = loaded
		slog.Info("config loaded", "path", path)
	} else {
		cfg = config.Default()
		slog.Info("using default config")
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}

	// --- Advisory critique backend ---
	var advisor results.Advisor
	if cfg.Advisor.URL != "" {
		advisor = results.NewHTTPAdvisor(cfg.Advisor.URL)
		slog.Info("remote advisor enabled", "url", cfg.Advisor.URL)
	} else {
		slog.Info("no advisor configured, heuristic critiques only")
	}
	scorer := results.NewGenerator(cfg, advisor, logger)

	// --- WebSocket hub and match engine ---
	hub := gateway.NewHub(logger)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	engine := match.NewEngine(cfg, hub, scorer, rng, logger)
	hub.Bind(engine)
	go hub.Run()
	engine.PublishState()

	// --- HTTP router ---
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metrics.Middleware)

	// CORS middleware for frontend cross-origin requests.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"match-engine"}`))
	})

	// Prometheus metrics endpoint.
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket endpoint: all gameplay commands flow through here.
		r.Get("/ws", hub.HandleWS)

		// Operational controls.
		r.Post("/start", func(w http.ResponseWriter, _ *http.Request) {
			engine.StartPreMatch()
			w.WriteHeader(http.StatusAccepted)
		})
		r.Post("/reset", func(w http.ResponseWriter, _ *http.Request) {
			engine.Reset(true)
			w.WriteHeader(http.StatusAccepted)
		})
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("match-engine listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down match-engine...")
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
	fmt.Println("match-engine stopped")
}
