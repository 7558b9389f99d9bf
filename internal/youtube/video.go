package youtube

import "regexp"

// Recognized URL shapes, tried in order. Each capturing group is the video
// id; the character class stops the match at '&', '?', '#', '/' or any
// whitespace, so ids never carry query or fragment characters.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:m\.)?youtube\.com/watch\?(?:.*&)?v=([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/v/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`youtube\.com/live/([A-Za-z0-9_-]+)`),
}

// ExtractVideoID pulls the video id out of a YouTube URL. It returns ""
// when no recognized shape matches; callers branch on that rather than on
// an error. Pure string work, no network.
func ExtractVideoID(url string) string {
	for _, p := range idPatterns {
		if m := p.FindStringSubmatch(url); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// WatchURL returns the canonical watch page URL for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
