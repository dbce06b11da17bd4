package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/video-brief/backend/internal/api"
	"github.com/video-brief/backend/internal/config"
	"github.com/video-brief/backend/internal/db"
	"github.com/video-brief/backend/internal/summarize"
	"github.com/video-brief/backend/internal/transcript"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	if cfg.GeminiAPIKey == "" {
		log.Fatal().Msg("GEMINI_API_KEY is required")
	}

	// Ensure data directory exists
	os.MkdirAll(cfg.DataPath, 0755)

	// Summary cache
	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to initialize database")
	}
	defer database.Close()

	// Transcript sources: proxy path first when configured, direct always
	direct := transcript.NewClient()
	var fetcher transcript.Fetcher = transcript.NewService(direct)
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			log.Fatal().Err(err).Str("proxy", cfg.ProxyURL).Msg("invalid proxy URL")
		}
		fetcher = transcript.NewService(transcript.NewProxyFetcher(proxyURL), direct)
		log.Info().Str("proxy", proxyURL.Host).Msg("transcript proxy enabled")
	}

	summarizer := summarize.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)

	router := api.NewRouter(cfg, fetcher, summarizer, database)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info().Str("addr", addr).Str("model", cfg.GeminiModel).Msg("starting server")

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("shutting down")
		database.Close()
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "console" || cfg.LogFormat == "pretty" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
