package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/storage/models"
)

// targetChunkLen is the approximate character length of one search chunk.
const targetChunkLen = 500

// overlapSentences is how many trailing sentences of one chunk reappear at
// the start of the next, so a query matching across a boundary still hits.
const overlapSentences = 2

// SplitTranscript slices a flat transcript into overlapping chunks of
// roughly targetChunkLen characters, cut on sentence boundaries. Positions
// are character offsets into the transcript's sentence stream.
func SplitTranscript(transcript string) []models.Chunk {
	sentences := strings.Split(strings.TrimSpace(transcript), ". ")
	if len(sentences) == 0 {
		return nil
	}

	var chunks []models.Chunk
	var current strings.Builder
	chunkStart := 0
	position := 0

	for i, sentence := range sentences {
		current.WriteString(sentence)
		current.WriteString(". ")
		position += len(sentence) + 2

		if i == len(sentences)-1 || current.Len() >= targetChunkLen {
			text := strings.TrimSpace(current.String())
			if text != "" {
				chunks = append(chunks, models.Chunk{
					Index:         len(chunks),
					Text:          text,
					StartPosition: chunkStart,
					EndPosition:   position,
				})
			}
			current.Reset()

			if i < len(sentences)-1 {
				overlapFrom := i - overlapSentences + 1
				if overlapFrom < 0 {
					overlapFrom = 0
				}
				chunkStart = position
				for j := overlapFrom; j <= i; j++ {
					current.WriteString(sentences[j])
					current.WriteString(". ")
					chunkStart -= len(sentences[j]) + 2
				}
			}
		}
	}
	return chunks
}

// EmbedChunks fills in the embedding vector for every chunk, in order.
func (e *Embedder) EmbedChunks(ctx context.Context, chunks []models.Chunk) error {
	for i := range chunks {
		embedding, err := e.Embed(ctx, chunks[i].Text)
		if err != nil {
			return fmt.Errorf("embedding chunk %d: %w", i, err)
		}
		chunks[i].Embedding = embedding
	}
	return nil
}
