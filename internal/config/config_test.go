package config

import (
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SERVICE_API_KEY", "svc-key")
	t.Setenv("LEMONFOX_API_KEY", "lf-key")
	for _, key := range []string{"STRATEGY", "PORT", "DOWNLOAD_TIMEOUT", "CHUNK_DURATION", "MAX_VIDEO_DURATION", "TMP_DIR"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Strategy != StrategyAuto {
		t.Errorf("Strategy = %q, want auto", cfg.Strategy)
	}
	if cfg.DownloadTimeout != 5*time.Minute {
		t.Errorf("DownloadTimeout = %v, want 5m", cfg.DownloadTimeout)
	}
	if cfg.ChunkDuration != 30*time.Minute {
		t.Errorf("ChunkDuration = %v, want 30m", cfg.ChunkDuration)
	}
	if cfg.MaxVideoDuration != 0 {
		t.Errorf("MaxVideoDuration = %v, want disabled", cfg.MaxVideoDuration)
	}
}

func TestLoadRequiresServiceKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SERVICE_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("Load() expected an error without SERVICE_API_KEY")
	}
}

func TestLoadStrategy(t *testing.T) {
	tests := []struct {
		value   string
		want    Strategy
		wantErr bool
	}{
		{"captions", StrategyCaptions, false},
		{"audio", StrategyAudio, false},
		{"auto", StrategyAuto, false},
		{"whisper", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv("STRATEGY", tt.value)

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && cfg.Strategy != tt.want {
				t.Errorf("Strategy = %q, want %q", cfg.Strategy, tt.want)
			}
		})
	}
}

func TestLoadCaptionsOnlySkipsLemonfoxKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LEMONFOX_API_KEY", "")
	t.Setenv("STRATEGY", "captions")

	if _, err := Load(); err != nil {
		t.Errorf("Load() error = %v, captions-only should not need a transcription key", err)
	}
}

func TestLoadAudioRequiresLemonfoxKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LEMONFOX_API_KEY", "")
	t.Setenv("STRATEGY", "audio")

	if _, err := Load(); err == nil {
		t.Error("Load() expected an error for audio strategy without LEMONFOX_API_KEY")
	}
}

func TestLoadDurations(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DOWNLOAD_TIMEOUT", "90s")
	t.Setenv("CHUNK_DURATION", "10m")
	t.Setenv("MAX_VIDEO_DURATION", "3600")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DownloadTimeout != 90*time.Second {
		t.Errorf("DownloadTimeout = %v, want 90s", cfg.DownloadTimeout)
	}
	if cfg.ChunkDuration != 10*time.Minute {
		t.Errorf("ChunkDuration = %v, want 10m", cfg.ChunkDuration)
	}
	if cfg.MaxVideoDuration != time.Hour {
		t.Errorf("MaxVideoDuration = %v, want 1h", cfg.MaxVideoDuration)
	}

	t.Setenv("DOWNLOAD_TIMEOUT", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Error("Load() expected an error for a malformed DOWNLOAD_TIMEOUT")
	}
}
