package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"eco-assistant/config"
	"eco-assistant/internal/application"
	"eco-assistant/internal/server"
	"eco-assistant/internal/speech"
	"eco-assistant/internal/store"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	// Hosting platforms inject the listen port.
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
		cfg.Server.Port = port
	}

	logger := setupLogger(cfg.Log)

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("opening store", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	var stt application.SpeechToText = &application.NoopSTT{}
	var tts application.Synthesizer = &application.NoopSynthesizer{}
	if cfg.OpenAI.APIKey != "" {
		client := speech.NewClient(cfg.OpenAI.APIKey, cfg.Audio.Dir, cfg.OpenAI.Voice, cfg.OpenAI.Language, logger)
		stt, tts = client, client
	} else {
		logger.Warn("no openai api key configured, speech features disabled")
	}

	matcher := application.NewMatcher(st, logger)
	renderer := application.NewRenderer(st, logger)
	svc := application.NewService(matcher, renderer, st, stt, tts, logger)

	baseURL := server.LocalBaseURL(cfg.Server.Port)
	if cfg.Server.Environment == "public" {
		baseURL = server.RequestBaseURL()
	}

	srv := server.New(
		fmt.Sprintf(":%d", cfg.Server.Port),
		svc,
		st,
		cfg.Audio.Dir,
		baseURL,
		logger,
	)

	if err := srv.Start(); err != nil {
		logger.Error("starting server", "error", err)
		os.Exit(1)
	}

	logger.Info("eco assistant running",
		"port", cfg.Server.Port,
		"environment", cfg.Server.Environment,
		"database", cfg.Database.Path,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	if err := srv.Stop(); err != nil {
		logger.Error("stopping server", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
