package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"time"
)

// Metadata is the Data API view of a video: enough for the response title
// and the pre-download duration guard.
type Metadata struct {
	Title    string
	Duration time.Duration
}

// FetchMetadata looks a video up in the YouTube Data API v3. Callers treat
// failures as non-fatal; the title is a best-effort field.
func (c *Client) FetchMetadata(ctx context.Context, videoID, apiKey string) (*Metadata, error) {
	u := fmt.Sprintf("%s/videos?part=snippet,contentDetails&id=%s&key=%s",
		c.DataAPIBase, url.QueryEscape(videoID), url.QueryEscape(apiKey))

	body, status, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("data api request: %w", err)
	}
	if status != 200 {
		return nil, fmt.Errorf("data api returned status %d", status)
	}

	var resp struct {
		Items []struct {
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing data api response: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s not found in data api: %w", videoID, ErrVideoNotAccessible)
	}

	item := resp.Items[0]
	return &Metadata{
		Title:    item.Snippet.Title,
		Duration: parseISODuration(item.ContentDetails.Duration),
	}, nil
}

// DurationLookup binds a Client and Data API key into a single-method
// duration source for callers that never see a player response.
type DurationLookup struct {
	Client *Client
	APIKey string
}

func (l DurationLookup) VideoDuration(ctx context.Context, videoID string) (time.Duration, error) {
	meta, err := l.Client.FetchMetadata(ctx, videoID, l.APIKey)
	if err != nil {
		return 0, err
	}
	return meta.Duration, nil
}

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// parseISODuration handles the P#DT#H#M#S shape the Data API uses; very
// long streams carry a day component. Anything unparseable comes back as 0
// so the duration guard simply does not fire.
func parseISODuration(s string) time.Duration {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	days, _ := strconv.Atoi(m[1])
	hours, _ := strconv.Atoi(m[2])
	mins, _ := strconv.Atoi(m[3])
	secs, _ := strconv.Atoi(m[4])
	return time.Duration(days)*24*time.Hour + time.Duration(hours)*time.Hour +
		time.Duration(mins)*time.Minute + time.Duration(secs)*time.Second
}
