package youtube

import (
	"strconv"
	"strings"
	"time"
)

// AdaptiveFormat is one entry of streamingData.adaptiveFormats. Only the
// fields needed to pick and download an audio stream are decoded.
type AdaptiveFormat struct {
	URL              string `json:"url"`
	MimeType         string `json:"mimeType"`
	Bitrate          int    `json:"bitrate"`
	ApproxDurationMs string `json:"approxDurationMs"`
}

// Audio reports whether the format carries an audio stream.
func (f AdaptiveFormat) Audio() bool {
	return strings.HasPrefix(f.MimeType, "audio/")
}

// Duration returns the declared stream duration, or 0 when YouTube omitted
// it.
func (f AdaptiveFormat) Duration() time.Duration {
	ms, err := strconv.ParseInt(f.ApproxDurationMs, 10, 64)
	if err != nil {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// SelectAudioFormat picks the audio stream to download: prefer webm, then
// mp4, then whatever audio format comes first. Returns false when the
// player response exposes no audio at all.
func SelectAudioFormat(formats []AdaptiveFormat) (AdaptiveFormat, bool) {
	var audio []AdaptiveFormat
	for _, f := range formats {
		if f.Audio() && f.URL != "" {
			audio = append(audio, f)
		}
	}
	if len(audio) == 0 {
		return AdaptiveFormat{}, false
	}
	for _, f := range audio {
		if strings.HasPrefix(f.MimeType, "audio/webm") {
			return f, true
		}
	}
	for _, f := range audio {
		if strings.HasPrefix(f.MimeType, "audio/mp4") {
			return f, true
		}
	}
	return audio[0], true
}
