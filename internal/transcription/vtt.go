package transcription

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// cue is one WebVTT block: a timing line followed by text lines.
type cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// PlainText flattens a WebVTT document into a single transcript string,
// joining cue texts with single spaces.
func PlainText(vtt string) (string, error) {
	cues, err := parseVTT(vtt)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(cues))
	for _, c := range cues {
		if c.Text != "" {
			parts = append(parts, c.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

// parseVTT parses WebVTT content as the transcription backend returns it:
// possibly JSON-quoted and with literal \n escapes instead of newlines.
func parseVTT(content string) ([]cue, error) {
	content = strings.Trim(content, "\"")
	if strings.Contains(content, "\\n") {
		content = strings.ReplaceAll(content, "\\n", "\n")
	}

	if !strings.HasPrefix(content, "WEBVTT") {
		return nil, fmt.Errorf("invalid VTT format: missing WEBVTT header")
	}
	content = strings.TrimPrefix(content, "WEBVTT")
	content = strings.TrimLeft(content, "\n")

	var cues []cue
	for _, block := range strings.Split(content, "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}

		timestamps := strings.Split(lines[0], " --> ")
		if len(timestamps) != 2 {
			continue
		}

		start, err := parseVTTTimestamp(timestamps[0])
		if err != nil {
			return nil, fmt.Errorf("invalid start timestamp: %w", err)
		}
		end, err := parseVTTTimestamp(timestamps[1])
		if err != nil {
			return nil, fmt.Errorf("invalid end timestamp: %w", err)
		}

		cues = append(cues, cue{
			Start: start,
			End:   end,
			Text:  strings.TrimSpace(strings.Join(lines[1:], " ")),
		})
	}

	return cues, nil
}

// parseVTTTimestamp parses the HH:MM:SS.mmm shape.
func parseVTTTimestamp(timestamp string) (time.Duration, error) {
	parts := strings.Split(timestamp, ":")
	if len(parts) != 3 || len(parts[0]) != 2 {
		return 0, fmt.Errorf("invalid timestamp format: expected HH:MM:SS.mmm")
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours: %w", err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes: %w", err)
	}

	secondParts := strings.Split(parts[2], ".")
	if len(secondParts) != 2 {
		return 0, fmt.Errorf("invalid seconds format: missing milliseconds")
	}
	seconds, err := strconv.Atoi(secondParts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid seconds: %w", err)
	}
	millis, err := strconv.Atoi(secondParts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid milliseconds: %w", err)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}
