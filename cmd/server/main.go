package main

import (
	"net/http"

	"github.com/joho/godotenv"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/api"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/audio"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/config"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/logger"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/search"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/storage/db"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/storage/postgres"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/transcriber"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/transcription"
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

	service := buildService(cfg, log)

	deps := api.Deps{
		Service: service,
		APIKey:  cfg.ServiceAPIKey,
		Log:     log,
	}

	if cfg.DatabaseURL != "" {
		database, err := db.NewConnection(db.Config{URL: cfg.DatabaseURL})
		if err != nil {
			log.WithError(err).Fatal("failed to initialize database")
		}
		defer database.Close()
		log.WithField("db", db.MaskDatabaseURL(cfg.DatabaseURL)).Info("connected to database")

		deps.Videos = postgres.NewVideoRepository(database)
		deps.Chunks = postgres.NewChunkRepository(database)
		if cfg.OpenAIAPIKey != "" {
			deps.Embed = search.NewEmbedder(cfg.OpenAIAPIKey)
		}
	}

	router := api.NewRouter(deps)

	addr := ":" + cfg.Port
	log.WithField("addr", addr).WithField("strategy", string(cfg.Strategy)).Info("starting HTTP server")
	if err := http.ListenAndServe(addr, router); err != nil {
		log.WithError(err).Fatal("HTTP server error")
	}
}

func buildService(cfg *config.Config, log *logger.Logger) *transcriber.Service {
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
	return service
}
