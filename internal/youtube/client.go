package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/logger"
)

// Sentinel conditions surfaced by the caption side of the pipeline. The API
// layer maps these onto the stable status codes.
var (
	ErrVideoNotAccessible = errors.New("video is private, removed or region-blocked")
	ErrNoCaptions         = errors.New("no captions available for this video")
	ErrTranscriptFetch    = errors.New("failed to fetch transcript payload")
	ErrTranscriptEmpty    = errors.New("decoded transcript is empty")
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client talks to YouTube's public surfaces: the watch page, the timedtext
// endpoint and the Data API. Base URLs are fields so tests can point the
// client at a local server.
type Client struct {
	WatchBase     string
	TimedTextBase string
	DataAPIBase   string

	http *http.Client
	log  *logger.Logger
}

func NewClient(log *logger.Logger) *Client {
	return &Client{
		WatchBase:     "https://www.youtube.com/watch",
		TimedTextBase: "https://video.google.com/timedtext",
		DataAPIBase:   "https://www.googleapis.com/youtube/v3",
		http:          &http.Client{Timeout: 30 * time.Second},
		log:           log,
	}
}

// get performs a GET with browser-like headers and a short bounded retry on
// transport errors and 5xx responses. GETs are idempotent so retrying never
// duplicates a side effect. Non-5xx statuses are returned to the caller.
func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	var body []byte
	var status int

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", browserUserAgent)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		status = resp.StatusCode
		if status >= 500 {
			return fmt.Errorf("server error: status %d", status)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 15 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, status, err
	}
	return body, status, nil
}
