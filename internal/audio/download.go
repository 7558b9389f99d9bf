package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/logger"
)

// ErrDownloadTimeout is surfaced when the bounded download window elapses
// before the transfer completes. Any partial file is removed first.
var ErrDownloadTimeout = errors.New("audio download timed out")

// Downloader fetches a video's audio into a temp file, either straight from
// a resolved stream URL or through yt-dlp when no stream URL is available.
type Downloader struct {
	TmpDir  string
	Timeout time.Duration

	http *http.Client
	log  *logger.Logger
}

func NewDownloader(tmpDir string, timeout time.Duration, log *logger.Logger) *Downloader {
	return &Downloader{
		TmpDir:  tmpDir,
		Timeout: timeout,
		http:    &http.Client{},
		log:     log,
	}
}

// DownloadStream streams a direct audio URL to disk. The whole transfer is
// bounded by the configured timeout; on expiry the in-flight request is
// cancelled and the partial file deleted.
func (d *Downloader) DownloadStream(ctx context.Context, streamURL, videoID, ext string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	outputPath := filepath.Join(d.TmpDir, fmt.Sprintf("temp_%s.%s", videoID, ext))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return "", fmt.Errorf("building download request: %w", err)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrDownloadTimeout
		}
		return "", fmt.Errorf("requesting audio stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("audio stream returned status %d", resp.StatusCode)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("creating audio file: %w", err)
	}

	_, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil {
		Cleanup(d.log, outputPath)
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrDownloadTimeout
		}
		return "", fmt.Errorf("writing audio file: %w", copyErr)
	}
	if closeErr != nil {
		Cleanup(d.log, outputPath)
		return "", fmt.Errorf("closing audio file: %w", closeErr)
	}

	return outputPath, nil
}

// DownloadWithYtDlp extracts best-available audio through yt-dlp, re-encoded
// to mp3. Used when the player response exposes no usable stream URL.
func (d *Downloader) DownloadWithYtDlp(ctx context.Context, youtubeURL, videoID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	outputPath := filepath.Join(d.TmpDir, fmt.Sprintf("temp_%s.mp3", videoID))

	cmd := exec.CommandContext(ctx, "yt-dlp",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "0",
		"-o", outputPath,
		youtubeURL)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		Cleanup(d.log, outputPath)
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrDownloadTimeout
		}
		return "", fmt.Errorf("error downloading audio: %w\nstderr: %s", err, stderr.String())
	}
	return outputPath, nil
}

// Cleanup removes temporary audio artifacts. Removal failures are logged
// and never propagated, so they cannot mask the error that got us here.
func Cleanup(log *logger.Logger, paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.WithError(err).WithField("path", path).Warn("failed to remove temp audio file")
		}
	}
}
