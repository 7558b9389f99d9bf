package audio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/logger"
)

func TestDownloadStream(t *testing.T) {
	payload := []byte("fake audio bytes")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer ts.Close()

	dir := t.TempDir()
	d := NewDownloader(dir, 10*time.Second, logger.New())

	path, err := d.DownloadStream(context.Background(), ts.URL, "abc123XYZ_-", "webm")
	if err != nil {
		t.Fatalf("DownloadStream() error = %v", err)
	}
	if want := filepath.Join(dir, "temp_abc123XYZ_-.webm"); path != want {
		t.Errorf("DownloadStream() path = %q, want %q", path, want)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("downloaded %q, want %q", got, payload)
	}
}

func TestDownloadStreamTimeoutRemovesPartialFile(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("partial"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-release
	}))
	defer ts.Close()
	defer close(release)

	dir := t.TempDir()
	d := NewDownloader(dir, 100*time.Millisecond, logger.New())

	_, err := d.DownloadStream(context.Background(), ts.URL, "abc123XYZ_-", "webm")
	if !errors.Is(err, ErrDownloadTimeout) {
		t.Fatalf("DownloadStream() error = %v, want ErrDownloadTimeout", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "temp_abc123XYZ_-.webm")); !os.IsNotExist(statErr) {
		t.Errorf("partial file left behind after timeout")
	}
}

func TestDownloadStreamBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	d := NewDownloader(t.TempDir(), time.Second, logger.New())
	if _, err := d.DownloadStream(context.Background(), ts.URL, "abc123XYZ_-", "webm"); err == nil {
		t.Error("DownloadStream() expected an error on non-200 status")
	}
}
