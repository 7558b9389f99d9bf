package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Strategy selects which transcript acquisition path the service uses.
type Strategy string

const (
	// StrategyCaptions only scrapes YouTube caption tracks.
	StrategyCaptions Strategy = "captions"
	// StrategyAudio always downloads audio and transcribes it.
	StrategyAudio Strategy = "audio"
	// StrategyAuto tries captions first and falls back to audio.
	StrategyAuto Strategy = "auto"
)

type Config struct {
	Port           string
	ServiceAPIKey  string
	LemonfoxAPIKey string
	OpenAIAPIKey   string
	YouTubeAPIKey  string
	DatabaseURL    string
	Strategy       Strategy

	DownloadTimeout  time.Duration
	MaxVideoDuration time.Duration // 0 disables the pre-download guard
	ChunkDuration    time.Duration
	TmpDir           string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:           envOr("PORT", "8080"),
		ServiceAPIKey:  os.Getenv("SERVICE_API_KEY"),
		LemonfoxAPIKey: os.Getenv("LEMONFOX_API_KEY"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		YouTubeAPIKey:  os.Getenv("YOUTUBE_API_KEY"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		TmpDir:         envOr("TMP_DIR", os.TempDir()),
	}

	if cfg.ServiceAPIKey == "" {
		return nil, fmt.Errorf("SERVICE_API_KEY environment variable must be set")
	}

	switch s := Strategy(envOr("STRATEGY", string(StrategyAuto))); s {
	case StrategyCaptions, StrategyAudio, StrategyAuto:
		cfg.Strategy = s
	default:
		return nil, fmt.Errorf("unknown STRATEGY %q (want captions, audio or auto)", s)
	}

	if cfg.Strategy != StrategyCaptions && cfg.LemonfoxAPIKey == "" {
		return nil, fmt.Errorf("LEMONFOX_API_KEY environment variable must be set for strategy %q", cfg.Strategy)
	}

	var err error
	if cfg.DownloadTimeout, err = envDuration("DOWNLOAD_TIMEOUT", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ChunkDuration, err = envDuration("CHUNK_DURATION", 30*time.Minute); err != nil {
		return nil, err
	}

	if raw := os.Getenv("MAX_VIDEO_DURATION"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_VIDEO_DURATION %q: %w", raw, err)
		}
		cfg.MaxVideoDuration = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
