package youtube

import (
	"errors"
	"testing"
)

func TestDecodeTimedTextXML(t *testing.T) {
	payload := []byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.5" dur="2.0">Hello &amp; welcome</text>
  <text start="2.5" dur="1.5">to the &quot;show&quot;</text>
  <text start="4.0" dur="1.0">   </text>
  <text start="5.0" dur="2.0">it&#39;s &lt;great&gt;</text>
</transcript>`)

	segments, err := DecodeCaptionPayload(payload)
	if err != nil {
		t.Fatalf("DecodeCaptionPayload() error = %v", err)
	}
	if len(segments) != 4 {
		t.Fatalf("got %d segments, want 4", len(segments))
	}
	if segments[0].StartOffsetMs != 500 || segments[0].DurationMs != 2000 {
		t.Errorf("segment timing = (%d, %d), want (500, 2000)",
			segments[0].StartOffsetMs, segments[0].DurationMs)
	}

	got, err := FlattenSegments(segments)
	if err != nil {
		t.Fatalf("FlattenSegments() error = %v", err)
	}
	want := `Hello & welcome to the "show" it's <great>`
	if got != want {
		t.Errorf("FlattenSegments() = %q, want %q", got, want)
	}
}

func TestDecodeJSONEvents(t *testing.T) {
	payload := []byte(`{"events":[
		{"tStartMs":0,"dDurationMs":1500,"segs":[{"utf8":"first "},{"utf8":"part"}]},
		{"tStartMs":1500,"dDurationMs":1000,"segs":[{"utf8":"\n"}]},
		{"tStartMs":2500,"dDurationMs":2000,"segs":[{"utf8":"second part here"}]}
	]}`)

	segments, err := DecodeCaptionPayload(payload)
	if err != nil {
		t.Fatalf("DecodeCaptionPayload() error = %v", err)
	}

	got, err := FlattenSegments(segments)
	if err != nil {
		t.Fatalf("FlattenSegments() error = %v", err)
	}
	want := "first part second part here"
	if got != want {
		t.Errorf("FlattenSegments() = %q, want %q", got, want)
	}
	if segments[0].StartOffsetMs != 0 || segments[2].StartOffsetMs != 2500 {
		t.Errorf("segment ordering lost: %+v", segments)
	}
}

func TestFlattenIdempotentOnCleanText(t *testing.T) {
	segments := []TranscriptSegment{
		{Text: "already clean text"},
		{Text: "with   extra    spaces"},
	}
	got, err := FlattenSegments(segments)
	if err != nil {
		t.Fatalf("FlattenSegments() error = %v", err)
	}
	if got != "already clean text with extra spaces" {
		t.Errorf("FlattenSegments() = %q", got)
	}
}

func TestEntityDecodeIsSinglePass(t *testing.T) {
	// A double-escaped ampersand decodes exactly once: &amp;amp; yields
	// the literal "&amp;", never "&".
	segments := []TranscriptSegment{{Text: "tom &amp;amp; jerry forever"}}
	got, err := FlattenSegments(segments)
	if err != nil {
		t.Fatalf("FlattenSegments() error = %v", err)
	}
	if got != "tom &amp; jerry forever" {
		t.Errorf("FlattenSegments() = %q, want single-pass decode", got)
	}
}

func TestFlattenShortTranscriptIsError(t *testing.T) {
	segments := []TranscriptSegment{{Text: "hi"}}
	if _, err := FlattenSegments(segments); !errors.Is(err, ErrTranscriptEmpty) {
		t.Errorf("FlattenSegments() error = %v, want ErrTranscriptEmpty", err)
	}
}

func TestDecodeEmptyPayload(t *testing.T) {
	if _, err := DecodeCaptionPayload([]byte("   ")); !errors.Is(err, ErrTranscriptEmpty) {
		t.Errorf("DecodeCaptionPayload() error = %v, want ErrTranscriptEmpty", err)
	}
}

func TestDecodeMarkupStripped(t *testing.T) {
	payload := []byte(`<transcript><text start="0" dur="1">some <i>styled</i> words in here</text></transcript>`)
	segments, err := DecodeCaptionPayload(payload)
	if err != nil {
		t.Fatalf("DecodeCaptionPayload() error = %v", err)
	}
	got, err := FlattenSegments(segments)
	if err != nil {
		t.Fatalf("FlattenSegments() error = %v", err)
	}
	if got != "some styled words in here" {
		t.Errorf("FlattenSegments() = %q", got)
	}
}
