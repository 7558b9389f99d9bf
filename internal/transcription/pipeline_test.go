package transcription

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/audio"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/logger"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/youtube"
)

// fakeSpeech answers with a canned text per path, after an optional per-path
// delay so completion order can be forced to differ from submission order.
type fakeSpeech struct {
	texts  map[string]string
	errs   map[string]error
	delays map[string]time.Duration
}

func (f *fakeSpeech) Transcribe(ctx context.Context, filePath string) (string, error) {
	if d, ok := f.delays[filePath]; ok {
		time.Sleep(d)
	}
	if err, ok := f.errs[filePath]; ok {
		return "", err
	}
	return f.texts[filePath], nil
}

func TestTranscribeChunksAssemblesByIndex(t *testing.T) {
	// The first chunk finishes last; the assembled transcript must still
	// read in chunk order.
	speech := &fakeSpeech{
		texts: map[string]string{
			"a.mp3": "first part of the talk",
			"b.mp3": "second part of the talk",
			"c.mp3": "third part of the talk",
		},
		delays: map[string]time.Duration{
			"a.mp3": 50 * time.Millisecond,
			"b.mp3": 20 * time.Millisecond,
		},
	}
	p := &Pipeline{Speech: speech, Log: logger.New()}

	got, err := p.transcribeChunks(context.Background(), []string{"a.mp3", "b.mp3", "c.mp3"})
	if err != nil {
		t.Fatalf("transcribeChunks() error = %v", err)
	}
	want := "first part of the talk second part of the talk third part of the talk"
	if got != want {
		t.Errorf("transcribeChunks() = %q, want %q", got, want)
	}
}

func TestTranscribeChunksFailsOnAnyChunk(t *testing.T) {
	backendErr := fmt.Errorf("backend rejected the upload: %w", ErrBackend)
	speech := &fakeSpeech{
		texts: map[string]string{"a.mp3": "fine", "c.mp3": "also fine"},
		errs:  map[string]error{"b.mp3": backendErr},
	}
	p := &Pipeline{Speech: speech, Log: logger.New()}

	got, err := p.transcribeChunks(context.Background(), []string{"a.mp3", "b.mp3", "c.mp3"})
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("transcribeChunks() error = %v, want ErrBackend", err)
	}
	if got != "" {
		t.Errorf("transcribeChunks() returned partial transcript %q on failure", got)
	}
	if !strings.Contains(err.Error(), "chunk 2 of 3") {
		t.Errorf("error %q does not identify the failing chunk", err)
	}
}

func TestTranscribeRefusesOverlongVideo(t *testing.T) {
	var pr youtube.PlayerResponse
	pr.VideoDetails.LengthSeconds = "7200"

	p := &Pipeline{
		Speech:           &fakeSpeech{},
		MaxVideoDuration: time.Hour,
		Log:              logger.New(),
	}

	_, err := p.Transcribe(context.Background(), "abc123XYZ_-", &pr)
	if !errors.Is(err, ErrVideoTooLong) {
		t.Fatalf("Transcribe() error = %v, want ErrVideoTooLong", err)
	}
}

func TestDeclaredDurationPrefersStreamFormat(t *testing.T) {
	var pr youtube.PlayerResponse
	pr.VideoDetails.LengthSeconds = "100"
	format := youtube.AdaptiveFormat{ApproxDurationMs: "250000"}

	if got := declaredDuration(&pr, format, true); got != 250*time.Second {
		t.Errorf("declaredDuration() = %v, want 250s from the stream format", got)
	}
	if got := declaredDuration(&pr, youtube.AdaptiveFormat{}, false); got != 100*time.Second {
		t.Errorf("declaredDuration() = %v, want 100s from video details", got)
	}
	if got := declaredDuration(nil, youtube.AdaptiveFormat{}, false); got != 0 {
		t.Errorf("declaredDuration() = %v, want 0 when nothing is declared", got)
	}
}

func TestTranscribeRemovesTempAudioOnSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake audio bytes"))
	}))
	defer ts.Close()

	dir := t.TempDir()
	audioPath := filepath.Join(dir, "temp_abc123XYZ_-.m4a")

	var pr youtube.PlayerResponse
	pr.StreamingData.AdaptiveFormats = []youtube.AdaptiveFormat{
		{URL: ts.URL, MimeType: `audio/mp4; codecs="mp4a.40.2"`},
	}

	p := &Pipeline{
		Downloader: audio.NewDownloader(dir, 10*time.Second, logger.New()),
		Speech:     &fakeSpeech{texts: map[string]string{audioPath: "the spoken words"}},
		Log:        logger.New(),
	}

	got, err := p.Transcribe(context.Background(), "abc123XYZ_-", &pr)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got != "the spoken words" {
		t.Errorf("Transcribe() = %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir still holds %d files after a successful run", len(entries))
	}
}

type fakeDurations struct {
	duration time.Duration
	err      error
	calls    int
}

func (f *fakeDurations) VideoDuration(ctx context.Context, videoID string) (time.Duration, error) {
	f.calls++
	return f.duration, f.err
}

func TestTranscribeGuardFallsBackToDurationSource(t *testing.T) {
	// No player response at all, so the declared duration can only come
	// from the lookup.
	durations := &fakeDurations{duration: 2 * time.Hour}
	p := &Pipeline{
		Speech:           &fakeSpeech{},
		Durations:        durations,
		MaxVideoDuration: time.Hour,
		Log:              logger.New(),
	}

	_, err := p.Transcribe(context.Background(), "abc123XYZ_-", nil)
	if !errors.Is(err, ErrVideoTooLong) {
		t.Fatalf("Transcribe() error = %v, want ErrVideoTooLong", err)
	}
	if durations.calls != 1 {
		t.Errorf("duration source called %d times, want 1", durations.calls)
	}
}

func TestTranscribeGuardPrefersPlayerResponse(t *testing.T) {
	// When the player response already declares a duration, the lookup is
	// never consulted.
	durations := &fakeDurations{duration: time.Minute}
	var pr youtube.PlayerResponse
	pr.VideoDetails.LengthSeconds = "7200"

	p := &Pipeline{
		Speech:           &fakeSpeech{},
		Durations:        durations,
		MaxVideoDuration: time.Hour,
		Log:              logger.New(),
	}

	if _, err := p.Transcribe(context.Background(), "abc123XYZ_-", &pr); !errors.Is(err, ErrVideoTooLong) {
		t.Fatalf("Transcribe() error = %v, want ErrVideoTooLong", err)
	}
	if durations.calls != 0 {
		t.Errorf("duration source called %d times, want 0", durations.calls)
	}
}
