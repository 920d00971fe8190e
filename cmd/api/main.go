package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"campaignbuilder/internal/http/handlers"
	httpapi "campaignbuilder/internal/http/httpapi"
	"campaignbuilder/internal/infra"
	"campaignbuilder/internal/pipeline"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	jobs, err := pipeline.FromConfig(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise pipeline")
	}

	app := handlers.NewApp(jobs, logger, cfg.MaxUploadBytes)
	router := httpapi.NewRouter(app, httpapi.Options{
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		TrustProxy:      cfg.TrustProxy,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("data_dir", cfg.DataDir).Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
