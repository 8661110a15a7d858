// Command pagesmith runs the build-and-deploy service: it accepts
// evaluation task briefs over HTTP, generates a static site through a
// provider fallback chain, publishes it to GitHub Pages, and notifies the
// evaluation callback.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/pagesmith/pagesmith/internal/adapter/github"
	pshttp "github.com/pagesmith/pagesmith/internal/adapter/http"
	"github.com/pagesmith/pagesmith/internal/adapter/otel"
	"github.com/pagesmith/pagesmith/internal/adapter/ristretto"
	"github.com/pagesmith/pagesmith/internal/config"
	"github.com/pagesmith/pagesmith/internal/logger"
	"github.com/pagesmith/pagesmith/internal/port/cache"
	"github.com/pagesmith/pagesmith/internal/port/llmprovider"
	"github.com/pagesmith/pagesmith/internal/resilience"
	"github.com/pagesmith/pagesmith/internal/service"

	// Generation providers register themselves with the provider registry.
	_ "github.com/pagesmith/pagesmith/internal/adapter/aipipe"
	_ "github.com/pagesmith/pagesmith/internal/adapter/openai"
	_ "github.com/pagesmith/pagesmith/internal/adapter/openrouter"
)

func main() {
	bootstrap := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(bootstrap)

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Missing .env is fine; production sets real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"github_owner", cfg.GitHub.Owner,
		"queue_size", cfg.Queue.Size,
		"queue_workers", cfg.Queue.Workers,
	)

	ctx := context.Background()

	// --- Telemetry ---

	shutdownTelemetry, err := otel.Setup(ctx, cfg.Telemetry, cfg.Logging.Service)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Infrastructure ---

	var genCache cache.Cache
	if cfg.Cache.Enabled {
		rc, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
		if err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		defer rc.Close()
		genCache = rc
	}

	host := github.NewHost(cfg.GitHub.APIBaseURL, cfg.GitHub.Token, cfg.GitHub.Owner)
	host.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	chain, err := buildChain(cfg)
	if err != nil {
		return fmt.Errorf("providers: %w", err)
	}
	names := make([]string, len(chain))
	for i, p := range chain {
		names[i] = p.Name()
	}
	slog.Info("generation chain configured", "providers", names)

	// --- Services ---

	generator := service.NewGeneratorService(chain, genCache, cfg.Cache.TTL)
	generator.SetMetrics(metrics)
	publisher := service.NewPublisherService(host)
	callback := service.NewCallbackService(cfg.Callback.MaxAttempts, cfg.Callback.BaseDelay, cfg.Callback.Timeout)
	pipeline := service.NewPipelineService(generator, publisher, callback, metrics)

	dispatcher := service.NewDispatcher(cfg.Queue.Size, cfg.Queue.Workers)

	// --- HTTP ---

	handlers := pshttp.NewHandlers(cfg.Auth.Secret, pipeline, dispatcher, metrics, pshttp.HealthInfo{
		Providers:   names,
		GitHubOwner: cfg.GitHub.Owner,
		Degraded:    cfg.OpenAI.APIKey == "" && cfg.AIPipe.Token == "" && cfg.OpenRouter.APIKey == "",
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(pshttp.CORS(cfg.Server.CORSOrigin))
	r.Use(pshttp.Logger)
	if cfg.Telemetry.Enabled {
		r.Use(otel.HTTPMiddleware(cfg.Logging.Service))
	}

	pshttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown failed", "error", err)
	}

	// Queued tasks keep running until drained or the deadline passes.
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelDrain()

	return dispatcher.Shutdown(drainCtx)
}

// buildChain assembles the provider fallback chain in its fixed trial
// order. Every provider is constructed even without credentials; the
// generator skips unconfigured ones at generation time.
func buildChain(cfg *config.Config) ([]llmprovider.Provider, error) {
	entries := []struct {
		name string
		conf map[string]string
	}{
		{"openai", map[string]string{
			"base_url": cfg.OpenAI.BaseURL,
			"api_key":  cfg.OpenAI.APIKey,
			"model":    cfg.OpenAI.Model,
		}},
		{"aipipe", map[string]string{
			"base_url": cfg.AIPipe.BaseURL,
			"token":    cfg.AIPipe.Token,
			"model":    cfg.AIPipe.Model,
		}},
		{"openrouter", map[string]string{
			"base_url": cfg.OpenRouter.BaseURL,
			"api_key":  cfg.OpenRouter.APIKey,
			"model":    cfg.OpenRouter.Model,
		}},
	}

	chain := make([]llmprovider.Provider, 0, len(entries))
	for _, entry := range entries {
		p, err := llmprovider.New(entry.name, entry.conf)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", entry.name, err)
		}
		chain = append(chain, p)
	}
	return chain, nil
}
