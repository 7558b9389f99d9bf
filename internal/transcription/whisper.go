package transcription

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ErrBackend is surfaced when the speech-to-text call itself fails.
var ErrBackend = errors.New("transcription backend call failed")

// Client is the process-wide speech-to-text client. It is constructed once
// from configuration at startup and injected into the pipeline. The backend
// speaks the Whisper transcription API shape.
type Client struct {
	BaseURL string

	apiKey string
	http   *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL: "https://api.lemonfox.ai/v1/audio/transcriptions",
		apiKey:  apiKey,
		// The backend bounds its own processing time; this is a wide
		// safety net around the upload and wait.
		http: &http.Client{Timeout: 15 * time.Minute},
	}
}

// Transcribe submits one audio file and returns its plain-text transcript.
// The backend is asked for VTT so timing survives into the reply, then the
// cues are flattened. Transcription is never retried here: a second submit
// would run the job twice.
func (c *Client) Transcribe(ctx context.Context, filePath string) (string, error) {
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("error reading file: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("error creating form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(fileData)); err != nil {
		return "", fmt.Errorf("error copying file data: %w", err)
	}

	writer.WriteField("language", "english")
	writer.WriteField("response_format", "vtt")
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, body)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w: %w", err, ErrBackend)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w: %w", err, ErrBackend)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d: %s: %w", resp.StatusCode, respBody, ErrBackend)
	}

	text, err := PlainText(string(respBody))
	if err != nil {
		return "", fmt.Errorf("parsing backend reply: %w", err)
	}
	return text, nil
}
