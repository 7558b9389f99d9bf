package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlayerResponse is the slice of YouTube's embedded player JSON that the
// pipeline needs: playability, caption tracks, audio streams and basic
// video details. Everything else in the blob is ignored.
type PlayerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions struct {
		Renderer struct {
			CaptionTracks []CaptionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	VideoDetails struct {
		VideoID       string `json:"videoId"`
		Title         string `json:"title"`
		LengthSeconds string `json:"lengthSeconds"`
	} `json:"videoDetails"`
	StreamingData struct {
		AdaptiveFormats []AdaptiveFormat `json:"adaptiveFormats"`
	} `json:"streamingData"`
}

// Playable reports whether YouTube will serve the video at all. Statuses
// like LOGIN_REQUIRED and UNPLAYABLE cover private, removed and
// region-blocked videos.
func (pr *PlayerResponse) Playable() bool {
	return pr.PlayabilityStatus.Status == "" || pr.PlayabilityStatus.Status == "OK"
}

// FetchWatchPage downloads the watch page HTML for a video id.
func (c *Client) FetchWatchPage(ctx context.Context, videoID string) ([]byte, error) {
	u := c.WatchBase + "?v=" + url.QueryEscape(videoID)
	body, status, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetching watch page: %w", err)
	}
	if status != 200 {
		return nil, fmt.Errorf("watch page returned status %d: %w", status, ErrTranscriptFetch)
	}
	return body, nil
}

// pageMatcher is one independent strategy for locating the player response
// inside watch page HTML. Each matcher either returns a parsed structure or
// reports no match; adding or retiring a matcher never touches the callers.
type pageMatcher func(html []byte) (*PlayerResponse, bool)

var pageMatchers = []pageMatcher{
	matchScriptAssignment,
	matchNeedleAssignment,
	matchCaptionsBlob,
}

// ParsePlayerResponse runs the ordered matchers over watch page HTML. The
// upstream page format drifts; a matcher that fails structurally just
// falls through to the next one.
func ParsePlayerResponse(html []byte) (*PlayerResponse, error) {
	for _, match := range pageMatchers {
		if pr, ok := match(html); ok {
			return pr, nil
		}
	}
	return nil, fmt.Errorf("no player response found in page: %w", ErrNoCaptions)
}

// matchScriptAssignment walks the page's <script> elements looking for the
// ytInitialPlayerResponse assignment.
func matchScriptAssignment(html []byte) (*PlayerResponse, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, false
	}

	var pr *PlayerResponse
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, "ytInitialPlayerResponse")
		if idx < 0 {
			return true
		}
		brace := strings.Index(text[idx:], "{")
		if brace < 0 {
			return true
		}
		if parsed, ok := decodePlayerJSON([]byte(text[idx+brace:])); ok {
			pr = parsed
			return false
		}
		return true
	})
	return pr, pr != nil
}

// matchNeedleAssignment is a plain byte search for the same assignment,
// kept as a separate matcher because the blob occasionally moves outside
// a well-formed <script> element.
func matchNeedleAssignment(html []byte) (*PlayerResponse, bool) {
	const needle = "ytInitialPlayerResponse ="
	idx := bytes.Index(html, []byte(needle))
	if idx < 0 {
		return nil, false
	}
	rest := html[idx+len(needle):]
	brace := bytes.IndexByte(rest, '{')
	if brace < 0 {
		return nil, false
	}
	return decodePlayerJSON(rest[brace:])
}

// matchCaptionsBlob is the loosest pattern: it finds the raw
// `"captionTracks":` array on its own, for pages where the full player
// response cannot be parsed. Playability cannot be judged from this
// matcher, so the synthesized response always reads as playable.
func matchCaptionsBlob(html []byte) (*PlayerResponse, bool) {
	const needle = `"captionTracks":`
	idx := bytes.Index(html, []byte(needle))
	if idx < 0 {
		return nil, false
	}

	var tracks []CaptionTrack
	dec := json.NewDecoder(bytes.NewReader(html[idx+len(needle):]))
	if err := dec.Decode(&tracks); err != nil || len(tracks) == 0 {
		return nil, false
	}

	pr := &PlayerResponse{}
	pr.Captions.Renderer.CaptionTracks = tracks
	return pr, true
}

// decodePlayerJSON decodes a player response whose first byte is the
// opening brace, tolerating the trailing page garbage after the blob by
// using a json.Decoder that stops at the end of the first value.
func decodePlayerJSON(blob []byte) (*PlayerResponse, bool) {
	var pr PlayerResponse
	dec := json.NewDecoder(bytes.NewReader(blob))
	if err := dec.Decode(&pr); err != nil {
		return nil, false
	}
	// A blob with neither playability nor tracks is page noise, not a
	// player response.
	if pr.PlayabilityStatus.Status == "" && len(pr.Captions.Renderer.CaptionTracks) == 0 &&
		pr.VideoDetails.VideoID == "" {
		return nil, false
	}
	return &pr, true
}
