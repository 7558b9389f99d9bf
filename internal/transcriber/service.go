package transcriber

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/config"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/logger"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/youtube"
)

// ErrInvalidURL means no video id could be extracted from the caller's URL.
var ErrInvalidURL = errors.New("could not extract a video id from url")

// Method names recorded in the response envelope so scraping reliability
// can be tracked per acquisition path.
const (
	MethodCaptions = "youtube-captions"
	MethodWhisper  = "whisper-audio"
)

// Result is the orchestrator's successful outcome, before the API layer
// wraps it in the response envelope.
type Result struct {
	Transcript string
	VideoID    string
	Title      string
	Method     string
}

// AudioTranscriber is the audio fallback path as the orchestrator sees it.
type AudioTranscriber interface {
	Transcribe(ctx context.Context, videoID string, pr *youtube.PlayerResponse) (string, error)
}

// Service is the single orchestrator, parameterized by strategy instead of
// one near-identical handler per deployment variant.
type Service struct {
	YouTube     *youtube.Client
	Audio       AudioTranscriber // nil when the audio path is not configured
	Strategy    config.Strategy
	MetadataKey string // Data API key; empty disables the title lookup
	Log         *logger.Logger
}

// Transcribe resolves a YouTube URL to a flat transcript using the
// configured strategy. The title lookup runs concurrently with transcript
// acquisition and its failure never fails the request.
func (s *Service) Transcribe(ctx context.Context, rawURL string) (*Result, error) {
	videoID := youtube.ExtractVideoID(rawURL)
	if videoID == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	log := s.Log.WithField("video_id", videoID)

	var titleCh chan string
	if s.MetadataKey != "" {
		titleCh = make(chan string, 1)
		go func() {
			meta, err := s.YouTube.FetchMetadata(ctx, videoID, s.MetadataKey)
			if err != nil {
				log.WithField("error", err.Error()).Debug("metadata lookup failed")
				titleCh <- ""
				return
			}
			titleCh <- meta.Title
		}()
	}

	transcript, pr, method, err := s.acquire(ctx, videoID, log)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Transcript: transcript,
		VideoID:    videoID,
		Method:     method,
	}
	if pr != nil {
		result.Title = pr.VideoDetails.Title
	}
	if titleCh != nil {
		select {
		case title := <-titleCh:
			if title != "" {
				result.Title = title
			}
		case <-time.After(10 * time.Second):
			log.Debug("metadata lookup still pending, responding without it")
		case <-ctx.Done():
		}
	}
	return result, nil
}

func (s *Service) acquire(ctx context.Context, videoID string, log *logrus.Entry) (string, *youtube.PlayerResponse, string, error) {
	switch s.Strategy {
	case config.StrategyCaptions:
		transcript, pr, err := s.captionTranscript(ctx, videoID, log)
		return transcript, pr, MethodCaptions, err

	case config.StrategyAudio:
		pr := s.playerResponse(ctx, videoID, log)
		if pr != nil && !pr.Playable() {
			return "", pr, "", fmt.Errorf("playability status %q: %w",
				pr.PlayabilityStatus.Status, youtube.ErrVideoNotAccessible)
		}
		transcript, err := s.audioTranscript(ctx, videoID, pr)
		return transcript, pr, MethodWhisper, err

	default: // config.StrategyAuto
		transcript, pr, err := s.captionTranscript(ctx, videoID, log)
		if err == nil {
			return transcript, pr, MethodCaptions, nil
		}
		if errors.Is(err, youtube.ErrVideoNotAccessible) || s.Audio == nil {
			return "", pr, "", err
		}
		log.WithField("error", err.Error()).Info("caption path exhausted, falling back to audio")
		transcript, audioErr := s.audioTranscript(ctx, videoID, pr)
		if audioErr != nil {
			return "", pr, "", audioErr
		}
		return transcript, pr, MethodWhisper, nil
	}
}

// captionTranscript runs the ranked caption strategies: the public
// timedtext endpoint first, then the watch page scrape. Strategy-local
// failures fall through; only exhaustion surfaces.
func (s *Service) captionTranscript(ctx context.Context, videoID string, log *logrus.Entry) (string, *youtube.PlayerResponse, error) {
	transcript, err := s.YouTube.FetchTimedText(ctx, videoID)
	if err == nil {
		return transcript, nil, nil
	}
	log.WithField("error", err.Error()).Debug("timedtext endpoint failed, scraping watch page")

	tracks, pr, err := s.YouTube.LocateCaptionTracks(ctx, videoID)
	if err != nil {
		return "", pr, err
	}

	track, ok := youtube.SelectTrack(tracks)
	if !ok {
		return "", pr, youtube.ErrNoCaptions
	}
	log.WithField("language", track.LanguageCode).Debug("selected caption track")

	transcript, err = s.YouTube.FetchTranscript(ctx, track)
	if err != nil {
		return "", pr, err
	}
	return transcript, pr, nil
}

func (s *Service) audioTranscript(ctx context.Context, videoID string, pr *youtube.PlayerResponse) (string, error) {
	if s.Audio == nil {
		return "", fmt.Errorf("audio transcription is not configured: %w", youtube.ErrNoCaptions)
	}
	return s.Audio.Transcribe(ctx, videoID, pr)
}

// playerResponse fetches and parses the watch page for the audio-only
// strategy. Failures are tolerated; the pipeline falls back to yt-dlp.
func (s *Service) playerResponse(ctx context.Context, videoID string, log *logrus.Entry) *youtube.PlayerResponse {
	html, err := s.YouTube.FetchWatchPage(ctx, videoID)
	if err != nil {
		log.WithField("error", err.Error()).Debug("watch page fetch failed")
		return nil
	}
	pr, err := youtube.ParsePlayerResponse(html)
	if err != nil {
		log.WithField("error", err.Error()).Debug("player response parse failed")
		return nil
	}
	return pr
}
