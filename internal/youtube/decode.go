package youtube

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// TranscriptSegment is one timed piece of a transcript. Timing is
// best-effort; some sources omit it.
type TranscriptSegment struct {
	Text          string
	StartOffsetMs int
	DurationMs    int
}

// minTranscriptLen guards against decode failures masquerading as very
// short videos: anything under this is treated as an empty transcript.
const minTranscriptLen = 10

var (
	textElementRe = regexp.MustCompile(`(?s)<text([^>]*)>(.*?)</text>`)
	startAttrRe   = regexp.MustCompile(`start="([0-9.]+)"`)
	durAttrRe     = regexp.MustCompile(`dur="([0-9.]+)"`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe  = regexp.MustCompile(`\s+`)

	// The five standard entities, decoded in a single left-to-right pass.
	// Deliberately non-recursive: "&amp;amp;" becomes "&amp;", not "&".
	entityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// DecodeCaptionPayload decodes a raw caption payload in either of the two
// shapes YouTube serves: timed-text XML or the JSON event list.
func DecodeCaptionPayload(payload []byte) ([]TranscriptSegment, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty caption payload: %w", ErrTranscriptEmpty)
	}
	if trimmed[0] == '{' {
		return decodeJSONEvents(trimmed)
	}
	return decodeTimedTextXML(trimmed)
}

// decodeTimedTextXML pulls <text> elements out of a timed-text document.
// The payload is scraped markup rather than strict XML, so this matches
// elements directly instead of running a full XML parse.
func decodeTimedTextXML(payload []byte) ([]TranscriptSegment, error) {
	matches := textElementRe.FindAllSubmatch(payload, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no <text> elements in payload: %w", ErrTranscriptEmpty)
	}

	segments := make([]TranscriptSegment, 0, len(matches))
	for _, m := range matches {
		seg := TranscriptSegment{Text: string(m[2])}
		if a := startAttrRe.FindSubmatch(m[1]); a != nil {
			seg.StartOffsetMs = secondsToMs(string(a[1]))
		}
		if a := durAttrRe.FindSubmatch(m[1]); a != nil {
			seg.DurationMs = secondsToMs(string(a[1]))
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

type jsonEvents struct {
	Events []struct {
		StartMs    int `json:"tStartMs"`
		DurationMs int `json:"dDurationMs"`
		Segs       []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func decodeJSONEvents(payload []byte) ([]TranscriptSegment, error) {
	var doc jsonEvents
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("parsing caption event list: %w", err)
	}
	if len(doc.Events) == 0 {
		return nil, fmt.Errorf("caption event list is empty: %w", ErrTranscriptEmpty)
	}

	var segments []TranscriptSegment
	for _, ev := range doc.Events {
		var sb strings.Builder
		for _, s := range ev.Segs {
			sb.WriteString(s.UTF8)
		}
		segments = append(segments, TranscriptSegment{
			Text:          sb.String(),
			StartOffsetMs: ev.StartMs,
			DurationMs:    ev.DurationMs,
		})
	}
	return segments, nil
}

// FlattenSegments turns ordered segments into the flat transcript: strip
// leftover markup, one entity-decode pass, drop segments that trim to
// nothing, join with single spaces and collapse whitespace runs. A result
// shorter than minTranscriptLen is reported as an empty transcript.
func FlattenSegments(segments []TranscriptSegment) (string, error) {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		text := tagRe.ReplaceAllString(seg.Text, " ")
		text = entityReplacer.Replace(text)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}

	transcript := whitespaceRe.ReplaceAllString(strings.Join(parts, " "), " ")
	transcript = strings.TrimSpace(transcript)
	if len(transcript) < minTranscriptLen {
		return "", fmt.Errorf("transcript is %d chars after decoding: %w", len(transcript), ErrTranscriptEmpty)
	}
	return transcript, nil
}

func secondsToMs(s string) int {
	var secs float64
	if _, err := fmt.Sscanf(s, "%f", &secs); err != nil {
		return 0
	}
	return int(secs * 1000)
}
