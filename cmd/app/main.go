// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openai/openai-go/v2/option"
	"github.com/rs/zerolog"

	"workshop-voice-assistant/internal/config"
	"workshop-voice-assistant/internal/domain/ports/adapter"
	"workshop-voice-assistant/internal/domain/ports/repository"
	aiAdapters "workshop-voice-assistant/internal/infra/adapters/ai"
	ttsAdapters "workshop-voice-assistant/internal/infra/adapters/tts"
	"workshop-voice-assistant/internal/infra/api"
	pg "workshop-voice-assistant/internal/infra/db/postgres"
	"workshop-voice-assistant/internal/infra/db/sqlite"
	"workshop-voice-assistant/internal/infra/logging"
	"workshop-voice-assistant/internal/infra/metrics"
	red "workshop-voice-assistant/internal/infra/redis"
	"workshop-voice-assistant/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted user text)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("app stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) error {
	// ---- Job store ----
	repo, err := openJobRepo(ctx, cfg)
	if err != nil {
		return fmt.Errorf("job store: %w", err)
	}
	defer repo.Close()
	// the jobs table is created out of band by `workshopctl init-db`
	logger.Info().Str("driver", cfg.Database.Driver).Msg("job store ready")

	// ---- AI Adapter ----
	ai, err := newAIAdapter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("ai adapter: %w", err)
	}
	ai = aiAdapters.NewLimitedAI(ai, cfg.AI.ConcurrentLimit)
	logger.Info().Str("provider", ai.Name()).Str("model", cfg.AI.DefaultModel).Msg("AI adapter ready")

	// ---- Speech ----
	tts, err := newSynthesizer(cfg)
	if err != nil {
		return fmt.Errorf("speech adapter: %w", err)
	}
	logger.Info().Str("engine", tts.Name()).Str("lang", cfg.Speech.Lang).Msg("speech adapter ready")

	// ---- Redis (optional) ----
	var limiter adapter.RateLimiter
	if cfg.Redis.URL != "" {
		rc, err := red.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rc.Close()
		limiter = red.NewRateLimiter(rc)
		logger.Info().Int("limit", cfg.Redis.Limit).Dur("window", cfg.Redis.Window).Msg("rate limiting enabled")
	}

	// ---- Use cases ----
	turnUC := usecase.NewTurnUseCase(repo, ai, usecase.TurnOptions{
		Model:             cfg.AI.DefaultModel,
		SystemInstruction: cfg.AI.SystemInstruction,
		MaxPromptTokens:   cfg.AI.MaxPromptTokens,
		Dev:               cfg.Runtime.Dev,
	}, logger)
	speechUC := usecase.NewSpeechUseCase(tts, cfg.Speech.Lang, logger)
	jobUC := usecase.NewJobUseCase(repo)

	// ---- HTTP ----
	auth := api.NewAuthManager(cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	if auth == nil {
		logger.Info().Msg("admin job API disabled (admin.jwt_secret empty)")
	}
	srv := api.NewServer(turnUC, speechUC, jobUC, limiter, auth, api.Options{
		RequestTimeout: cfg.HTTP.RequestTimeout,
		RateLimit:      cfg.Redis.Limit,
		RateWindow:     cfg.Redis.Window,
	}, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	// ---- Graceful shutdown ----
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown requested")
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openJobRepo(ctx context.Context, cfg *config.Config) (repository.JobRepository, error) {
	switch cfg.Database.Driver {
	case "postgres":
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return nil, err
		}
		return pg.NewPostgresJobRepo(pool), nil
	default:
		db, err := sqlite.Open(ctx, cfg.Database.Path, int(cfg.Database.MaxConns))
		if err != nil {
			return nil, err
		}
		return sqlite.NewJobRepo(db), nil
	}
}

func newAIAdapter(ctx context.Context, cfg *config.Config) (adapter.AIServiceAdapter, error) {
	switch cfg.AI.Provider {
	case "gemini":
		return aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens, cfg.AI.Timeout)
	case "openai":
		return aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.OpenAIBaseURL, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens,
			option.WithRequestTimeout(cfg.AI.Timeout))
	case "noop":
		return aiAdapters.NewNoopAIAdapter(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.AI.Provider)
	}
}

func newSynthesizer(cfg *config.Config) (adapter.SpeechSynthesizer, error) {
	switch cfg.Speech.Provider {
	case "openai":
		return ttsAdapters.NewOpenAISynthesizer(cfg.AI.OpenAIKey, cfg.AI.OpenAIBaseURL, cfg.Speech.Model, cfg.Speech.Voice,
			option.WithRequestTimeout(cfg.Speech.Timeout))
	default:
		return ttsAdapters.NewGoogleTranslateTTS(cfg.Speech.TLD, cfg.Speech.Timeout), nil
	}
}
