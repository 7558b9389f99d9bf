package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/audio"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/config"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/logger"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/transcriber"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/transcription"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/youtube"
)

var strategyFlag string

var rootCmd = &cobra.Command{
	Use:   "yttext <youtube url>",
	Short: "Fetch a plain-text transcript for a YouTube video",
	Long: `yttext resolves a YouTube URL to a flat transcript, scraping the
video's caption tracks when they exist and falling back to audio
transcription when they do not.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&strategyFlag, "strategy", "s", "auto",
		"acquisition strategy: captions, audio or auto")
}

func run(cmd *cobra.Command, args []string) error {
	log := logger.New()

	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("no .env file loaded")
	}

	// The CLI has no caller credential to validate; only the acquisition
	// configuration matters here.
	os.Setenv("SERVICE_API_KEY", "cli")
	os.Setenv("STRATEGY", strategyFlag)
	cfg, err := config.Load()
	if err != nil {
		return err
	}

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

	result, err := service.Transcribe(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if result.Title != "" {
		fmt.Fprintf(os.Stderr, "# %s (%s, via %s)\n", result.Title, result.VideoID, result.Method)
	}
	fmt.Println(result.Transcript)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
