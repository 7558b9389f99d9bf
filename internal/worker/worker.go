package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/api"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/logger"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/search"
	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/storage/models"
)

// VideoStore is the slice of the video repository the worker drives.
type VideoStore interface {
	GetByURL(ctx context.Context, videoURL string) (*models.Video, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SaveTranscript(ctx context.Context, id, transcript, title, method string) error
}

// ChunkStore persists a video's searchable chunks.
type ChunkStore interface {
	SaveChunks(ctx context.Context, videoID string, chunks []models.Chunk) error
}

// Embedder fills in embedding vectors for chunks before they are stored.
type Embedder interface {
	EmbedChunks(ctx context.Context, chunks []models.Chunk) error
}

var _ Embedder = (*search.Embedder)(nil)

// Worker listens for new video rows over Postgres NOTIFY and transcribes
// them through the same orchestrator the HTTP surface uses.
type Worker struct {
	DBURL   string
	Videos  VideoStore
	Chunks  ChunkStore
	Embed   Embedder // nil disables search indexing
	Service api.Transcriber
	Log     *logger.Logger
}

// notification is the row payload the database trigger publishes on the
// new_video channel.
type notification struct {
	ID           string `json:"id"`
	VideoURL     string `json:"video_url"`
	IsSearchable bool   `json:"is_searchable"`
}

// Run blocks listening on the new_video channel until the context is
// cancelled. A failed job marks the row failed and keeps listening.
func (w *Worker) Run(ctx context.Context) error {
	listener := pq.NewListener(w.DBURL, 10*time.Second, time.Minute,
		func(_ pq.ListenerEventType, err error) {
			if err != nil {
				w.Log.WithError(err).Warn("listener event error")
			}
		})
	defer listener.Close()

	if err := listener.Listen("new_video"); err != nil {
		return fmt.Errorf("listen error: %w", err)
	}
	w.Log.Info("listening for new videos on channel new_video")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-listener.Notify:
			if n == nil {
				continue
			}
			if err := w.process(ctx, n.Extra); err != nil {
				w.Log.WithError(err).Error("failed to process video notification")
			}
		case <-time.After(time.Minute):
			go func() {
				if err := listener.Ping(); err != nil {
					w.Log.WithError(err).Warn("listener ping failed")
				}
			}()
		}
	}
}

func (w *Worker) process(ctx context.Context, payload string) error {
	var n notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return fmt.Errorf("json parse error: %w", err)
	}

	log := w.Log.WithField("id", n.ID).WithField("url", n.VideoURL)
	log.Info("processing video notification")

	// Reuse an existing transcript for the same URL instead of paying for
	// a second transcription.
	var transcript, title, method string
	if existing, err := w.Videos.GetByURL(ctx, n.VideoURL); err == nil &&
		existing.Transcript != nil && existing.ID != n.ID {
		log.WithField("existing_id", existing.ID).Info("reusing existing transcript")
		transcript = *existing.Transcript
		if existing.Title != nil {
			title = *existing.Title
		}
		if existing.Method != nil {
			method = *existing.Method
		}
	}

	if transcript == "" {
		if err := w.Videos.UpdateStatus(ctx, n.ID, models.StatusProcessing); err != nil {
			return fmt.Errorf("failed to update status to processing: %w", err)
		}

		result, err := w.Service.Transcribe(ctx, n.VideoURL)
		if err != nil {
			if stErr := w.Videos.UpdateStatus(ctx, n.ID, models.StatusFailed); stErr != nil {
				log.WithError(stErr).Warn("failed to mark video failed")
			}
			return fmt.Errorf("transcription error: %w", err)
		}
		transcript, title, method = result.Transcript, result.Title, result.Method
	}

	if err := w.Videos.SaveTranscript(ctx, n.ID, transcript, title, method); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}

	if n.IsSearchable && w.Embed != nil {
		chunks := search.SplitTranscript(transcript)
		if err := w.Embed.EmbedChunks(ctx, chunks); err != nil {
			return fmt.Errorf("failed to embed chunks: %w", err)
		}
		if err := w.Chunks.SaveChunks(ctx, n.ID, chunks); err != nil {
			return fmt.Errorf("failed to save chunks: %w", err)
		}
	}

	return w.Videos.UpdateStatus(ctx, n.ID, models.StatusCompleted)
}
