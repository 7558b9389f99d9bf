package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ChunkSpan is one planned slice of an audio file.
type ChunkSpan struct {
	Start    time.Duration
	Duration time.Duration
}

// PlanChunks splits a total duration into sequential non-overlapping spans
// of at most ceiling each. The spans cover the full duration with no gaps;
// the last span carries the remainder. A total at or under the ceiling
// yields a single span.
func PlanChunks(total, ceiling time.Duration) []ChunkSpan {
	if total <= 0 {
		return nil
	}
	if ceiling <= 0 || total <= ceiling {
		return []ChunkSpan{{Start: 0, Duration: total}}
	}

	var spans []ChunkSpan
	for start := time.Duration(0); start < total; start += ceiling {
		length := ceiling
		if start+length > total {
			length = total - start
		}
		spans = append(spans, ChunkSpan{Start: start, Duration: length})
	}
	return spans
}

// ProbeDuration asks ffprobe for a media file's duration.
func ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w\nstderr: %s", err, stderr.String())
	}

	secs, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing ffprobe duration %q: %w", stdout.String(), err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// Transcode re-encodes audio to mono 64k mp3, the shape the transcription
// backend accepts for long inputs.
func Transcode(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", src,
		"-vn",
		"-ac", "1",
		"-b:a", "64k",
		dst)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg transcode failed: %w\nstderr: %s", err, stderr.String())
	}
	return nil
}

// Split cuts src into one file per span, named <src>.partN.mp3 in span
// order. On any failure the chunks written so far are removed before
// returning.
func Split(ctx context.Context, src string, spans []ChunkSpan) ([]string, error) {
	var paths []string
	for i, span := range spans {
		dst := fmt.Sprintf("%s.part%d.mp3", src, i)
		cmd := exec.CommandContext(ctx, "ffmpeg",
			"-y",
			"-i", src,
			"-ss", formatSeconds(span.Start),
			"-t", formatSeconds(span.Duration),
			"-ac", "1",
			"-b:a", "64k",
			dst)

		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			for _, p := range paths {
				_ = os.Remove(p)
			}
			return nil, fmt.Errorf("ffmpeg split chunk %d failed: %w\nstderr: %s", i, err, stderr.String())
		}
		paths = append(paths, dst)
	}
	return paths, nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
