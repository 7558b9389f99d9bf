package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/audio"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/config"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/logger"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/search"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/storage/db"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/storage/postgres"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/transcriber"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/transcription"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/worker"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/youtube"
)

func main() {
	log := logger.New()

	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL environment variable must be set for the worker")
	}

	database, err := db.NewConnection(db.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer database.Close()
	log.WithField("db", db.MaskDatabaseURL(cfg.DatabaseURL)).Info("connected to database")

	yt := youtube.NewClient(log)
	service := &transcriber.Service{
		YouTube:     yt,
		Strategy:    cfg.Strategy,
		MetadataKey: cfg.YouTubeAPIKey,
		Log:         log,
	}
	if cfg.LemonfoxAPIKey != "" {
		pipeline := &transcription.Pipeline{
			Downloader:       audio.NewDownloader(cfg.TmpDir, cfg.DownloadTimeout, log),
			Speech:           transcription.NewClient(cfg.LemonfoxAPIKey),
			ChunkCeiling:     cfg.ChunkDuration,
			MaxVideoDuration: cfg.MaxVideoDuration,
			Log:              log,
		}
		if cfg.YouTubeAPIKey != "" {
			pipeline.Durations = youtube.DurationLookup{Client: yt, APIKey: cfg.YouTubeAPIKey}
		}
		service.Audio = pipeline
	}

	w := &worker.Worker{
		DBURL:   cfg.DatabaseURL,
		Videos:  postgres.NewVideoRepository(database),
		Chunks:  postgres.NewChunkRepository(database),
		Service: service,
		Log:     log,
	}
	if cfg.OpenAIAPIKey != "" {
		w.Embed = search.NewEmbedder(cfg.OpenAIAPIKey)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		log.WithError(err).Fatal("worker stopped")
	}
	log.Info("worker shut down")
}
