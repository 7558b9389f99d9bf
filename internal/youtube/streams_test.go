package youtube

import (
	"testing"
	"time"
)

func TestSelectAudioFormat(t *testing.T) {
	webm := AdaptiveFormat{URL: "https://cdn/webm", MimeType: `audio/webm; codecs="opus"`}
	mp4 := AdaptiveFormat{URL: "https://cdn/m4a", MimeType: `audio/mp4; codecs="mp4a.40.2"`}
	ogg := AdaptiveFormat{URL: "https://cdn/ogg", MimeType: "audio/ogg"}
	video := AdaptiveFormat{URL: "https://cdn/vid", MimeType: `video/mp4; codecs="avc1"`}
	noURL := AdaptiveFormat{MimeType: "audio/webm"}

	tests := []struct {
		name    string
		formats []AdaptiveFormat
		want    string
		ok      bool
	}{
		{"webm preferred", []AdaptiveFormat{video, mp4, webm}, webm.URL, true},
		{"mp4 when no webm", []AdaptiveFormat{video, ogg, mp4}, mp4.URL, true},
		{"first audio otherwise", []AdaptiveFormat{video, ogg}, ogg.URL, true},
		{"audio without url skipped", []AdaptiveFormat{noURL, mp4}, mp4.URL, true},
		{"video only", []AdaptiveFormat{video}, "", false},
		{"empty", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectAudioFormat(tt.formats)
			if ok != tt.ok {
				t.Fatalf("SelectAudioFormat() ok = %v, want %v", ok, tt.ok)
			}
			if got.URL != tt.want {
				t.Errorf("SelectAudioFormat() url = %q, want %q", got.URL, tt.want)
			}
		})
	}
}

func TestAdaptiveFormatDuration(t *testing.T) {
	f := AdaptiveFormat{ApproxDurationMs: "95000"}
	if got := f.Duration(); got != 95*time.Second {
		t.Errorf("Duration() = %v, want 95s", got)
	}
	if got := (AdaptiveFormat{}).Duration(); got != 0 {
		t.Errorf("Duration() on empty format = %v, want 0", got)
	}
}
