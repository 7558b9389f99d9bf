package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// CaptionTrack is one subtitle stream for a video, as it appears in the
// player response. Kind is "asr" for auto-generated tracks and empty for
// manually uploaded ones.
type CaptionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// Manual reports whether the track was uploaded by the channel rather than
// auto-generated.
func (t CaptionTrack) Manual() bool {
	return t.Kind != "asr"
}

// SelectTrack picks the track to fetch: exact "en" first, then any "en-*"
// variant, then the first track. Returns false when there are no tracks.
func SelectTrack(tracks []CaptionTrack) (CaptionTrack, bool) {
	if len(tracks) == 0 {
		return CaptionTrack{}, false
	}
	for _, t := range tracks {
		if t.LanguageCode == "en" {
			return t, true
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en-") {
			return t, true
		}
	}
	return tracks[0], true
}

// FetchTimedText asks the public timedtext endpoint for an English
// transcript directly. Many videos are not served there at all; callers
// treat any failure as a signal to fall through to page scraping.
func (c *Client) FetchTimedText(ctx context.Context, videoID string) (string, error) {
	u := fmt.Sprintf("%s?lang=en&v=%s", c.TimedTextBase, url.QueryEscape(videoID))
	body, status, err := c.get(ctx, u)
	if err != nil {
		return "", fmt.Errorf("timedtext request: %w", err)
	}
	if status != 200 || len(body) == 0 {
		return "", fmt.Errorf("timedtext returned status %d with %d bytes: %w", status, len(body), ErrTranscriptFetch)
	}

	segments, err := DecodeCaptionPayload(body)
	if err != nil {
		return "", err
	}
	return FlattenSegments(segments)
}

// LocateCaptionTracks finds the caption track list for a video. It fetches
// the watch page once, short-circuits on unplayable videos, and returns the
// parsed player response as well so the audio path can reuse it without a
// second fetch.
func (c *Client) LocateCaptionTracks(ctx context.Context, videoID string) ([]CaptionTrack, *PlayerResponse, error) {
	html, err := c.FetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, nil, err
	}

	pr, err := ParsePlayerResponse(html)
	if err != nil {
		return nil, nil, err
	}
	if !pr.Playable() {
		return nil, pr, fmt.Errorf("playability status %q (%s): %w",
			pr.PlayabilityStatus.Status, pr.PlayabilityStatus.Reason, ErrVideoNotAccessible)
	}

	tracks := pr.Captions.Renderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, pr, fmt.Errorf("player response has no caption tracks: %w", ErrNoCaptions)
	}
	return tracks, pr, nil
}

// FetchTranscript downloads and decodes a caption track's payload into a
// flat transcript string.
func (c *Client) FetchTranscript(ctx context.Context, track CaptionTrack) (string, error) {
	body, status, err := c.get(ctx, track.BaseURL)
	if err != nil {
		return "", fmt.Errorf("caption payload request: %w", err)
	}
	if status != 200 {
		return "", fmt.Errorf("caption payload returned status %d: %w", status, ErrTranscriptFetch)
	}

	segments, err := DecodeCaptionPayload(body)
	if err != nil {
		return "", err
	}
	return FlattenSegments(segments)
}
