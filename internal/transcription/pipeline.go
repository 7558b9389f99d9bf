package transcription

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/audio"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/logger"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/youtube"
)

// ErrVideoTooLong is a client error: the video's declared duration exceeds
// the configured ceiling, so the download is refused up front.
var ErrVideoTooLong = errors.New("video exceeds the maximum duration for audio transcription")

// SpeechClient is the external speech-to-text backend as the pipeline sees
// it.
type SpeechClient interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
}

// DurationSource resolves a video's declared duration when the player
// response does not carry one, typically the yt-dlp-only path.
type DurationSource interface {
	VideoDuration(ctx context.Context, videoID string) (time.Duration, error)
}

// Pipeline turns a video without usable captions into a transcript:
// download best-available audio, split when the backend's input ceiling
// requires it, transcribe every chunk and reassemble in order. Every
// artifact it creates is deleted before it returns, on success and failure
// alike.
type Pipeline struct {
	Downloader       *audio.Downloader
	Speech           SpeechClient
	Durations        DurationSource // nil when the Data API is not configured
	ChunkCeiling     time.Duration
	MaxVideoDuration time.Duration // 0 disables the guard
	Log              *logger.Logger
}

// Transcribe runs the full audio path for one video. The player response
// is optional; without it (or without a usable stream URL in it) the
// download falls back to yt-dlp.
func (p *Pipeline) Transcribe(ctx context.Context, videoID string, pr *youtube.PlayerResponse) (string, error) {
	format, haveFormat := pickFormat(pr)

	if p.MaxVideoDuration > 0 {
		declared := declaredDuration(pr, format, haveFormat)
		if declared == 0 && p.Durations != nil {
			if d, err := p.Durations.VideoDuration(ctx, videoID); err == nil {
				declared = d
			}
		}
		if declared > p.MaxVideoDuration {
			return "", fmt.Errorf("declared duration %s over limit %s: %w",
				declared, p.MaxVideoDuration, ErrVideoTooLong)
		}
	}

	audioPath, err := p.acquire(ctx, videoID, format, haveFormat)
	if err != nil {
		return "", err
	}
	defer audio.Cleanup(p.Log, audioPath)

	duration, err := audio.ProbeDuration(ctx, audioPath)
	if err != nil {
		p.Log.WithError(err).WithField("video_id", videoID).Warn("ffprobe failed, assuming single chunk")
		duration = 0
	}

	chunkPaths := []string{audioPath}
	if p.ChunkCeiling > 0 && duration > p.ChunkCeiling {
		spans := audio.PlanChunks(duration, p.ChunkCeiling)
		chunkPaths, err = audio.Split(ctx, audioPath, spans)
		if err != nil {
			return "", fmt.Errorf("splitting audio: %w", err)
		}
		defer audio.Cleanup(p.Log, chunkPaths...)
	} else if strings.HasSuffix(audioPath, ".webm") {
		// Normalize container and bitrate for the backend.
		normalized := strings.TrimSuffix(audioPath, ".webm") + ".mp3"
		if err := audio.Transcode(ctx, audioPath, normalized); err != nil {
			return "", fmt.Errorf("transcoding audio: %w", err)
		}
		defer audio.Cleanup(p.Log, normalized)
		chunkPaths = []string{normalized}
	}

	return p.transcribeChunks(ctx, chunkPaths)
}

// transcribeChunks submits chunks concurrently but assembles the result by
// chunk index, never by completion order. Any single failure fails the
// whole request; no partial transcript is returned.
func (p *Pipeline) transcribeChunks(ctx context.Context, paths []string) (string, error) {
	texts := make([]string, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			texts[i], errs[i] = p.Speech.Transcribe(ctx, path)
		}(i, path)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return "", fmt.Errorf("transcribing chunk %d of %d: %w", i+1, len(paths), err)
		}
	}
	return strings.TrimSpace(strings.Join(texts, " ")), nil
}

func (p *Pipeline) acquire(ctx context.Context, videoID string, format youtube.AdaptiveFormat, haveFormat bool) (string, error) {
	if haveFormat {
		path, err := p.Downloader.DownloadStream(ctx, format.URL, videoID, extForMime(format.MimeType))
		if err == nil {
			return path, nil
		}
		if errors.Is(err, audio.ErrDownloadTimeout) {
			return "", err
		}
		p.Log.WithError(err).WithField("video_id", videoID).Warn("direct stream download failed, falling back to yt-dlp")
	}
	return p.Downloader.DownloadWithYtDlp(ctx, youtube.WatchURL(videoID), videoID)
}

func pickFormat(pr *youtube.PlayerResponse) (youtube.AdaptiveFormat, bool) {
	if pr == nil {
		return youtube.AdaptiveFormat{}, false
	}
	return youtube.SelectAudioFormat(pr.StreamingData.AdaptiveFormats)
}

func declaredDuration(pr *youtube.PlayerResponse, format youtube.AdaptiveFormat, haveFormat bool) time.Duration {
	if haveFormat {
		if d := format.Duration(); d > 0 {
			return d
		}
	}
	if pr != nil {
		if secs, err := strconv.Atoi(pr.VideoDetails.LengthSeconds); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return 0
}

func extForMime(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "audio/webm"):
		return "webm"
	case strings.HasPrefix(mimeType, "audio/mp4"):
		return "m4a"
	default:
		return "mp3"
	}
}
