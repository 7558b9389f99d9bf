package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"PT1H2M3S", time.Hour + 2*time.Minute + 3*time.Second},
		{"PT15M33S", 15*time.Minute + 33*time.Second},
		{"PT45S", 45 * time.Second},
		{"PT2H", 2 * time.Hour},
		{"P1DT2H", 26 * time.Hour},
		{"P2D", 48 * time.Hour},
		{"garbage", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseISODuration(tt.input); got != tt.want {
				t.Errorf("parseISODuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFetchMetadata(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "abc123XYZ_-" {
			t.Errorf("id = %q", got)
		}
		w.Write([]byte(`{"items":[{"snippet":{"title":"A Data API Title"},"contentDetails":{"duration":"PT1M35S"}}]}`))
	}))
	defer ts.Close()

	meta, err := testClient(t, ts).FetchMetadata(context.Background(), "abc123XYZ_-", "data-key")
	if err != nil {
		t.Fatalf("FetchMetadata() error = %v", err)
	}
	if meta.Title != "A Data API Title" {
		t.Errorf("Title = %q", meta.Title)
	}
	if meta.Duration != 95*time.Second {
		t.Errorf("Duration = %v, want 95s", meta.Duration)
	}
}

func TestDurationLookup(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"snippet":{"title":"T"},"contentDetails":{"duration":"PT2H"}}]}`))
	}))
	defer ts.Close()

	lookup := DurationLookup{Client: testClient(t, ts), APIKey: "data-key"}
	d, err := lookup.VideoDuration(context.Background(), "abc123XYZ_-")
	if err != nil {
		t.Fatalf("VideoDuration() error = %v", err)
	}
	if d != 2*time.Hour {
		t.Errorf("VideoDuration() = %v, want 2h", d)
	}
}

func TestFetchMetadataUnknownVideo(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer ts.Close()

	if _, err := testClient(t, ts).FetchMetadata(context.Background(), "abc123XYZ_-", "data-key"); err == nil {
		t.Error("FetchMetadata() expected an error for an unknown video")
	}
}
