package models

import "time"

// Video is one transcription job as stored in Postgres.
type Video struct {
	ID           string    `json:"id"`
	VideoURL     string    `json:"videoUrl"`
	VideoID      string    `json:"videoId"`
	Title        *string   `json:"title,omitempty"`
	Method       *string   `json:"method,omitempty"`
	Transcript   *string   `json:"transcript,omitempty"`
	Status       string    `json:"status"`
	IsSearchable bool      `json:"isSearchable"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Job lifecycle statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Chunk is a searchable slice of a transcript with its embedding vector.
type Chunk struct {
	Index         int
	Text          string
	StartPosition int
	EndPosition   int
	Embedding     []float32
}
