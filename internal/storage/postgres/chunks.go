package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/storage/models"
)

type ChunkRepository struct {
	db *sql.DB
}

func NewChunkRepository(db *sql.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// SaveChunks stores a transcript's searchable chunks with their embedding
// vectors, replacing any previous chunks for the same video.
func (r *ChunkRepository) SaveChunks(ctx context.Context, videoID string, chunks []models.Chunk) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning chunk transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM video_chunks WHERE video_id = $1`, videoID); err != nil {
		return fmt.Errorf("clearing previous chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO video_chunks (video_id, chunk_index, chunk_text, chunk_embedding, chunk_start, chunk_end)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("prepare statement failed: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		_, err = stmt.ExecContext(ctx,
			videoID,
			chunk.Index,
			chunk.Text,
			pgvector.NewVector(chunk.Embedding),
			chunk.StartPosition,
			chunk.EndPosition,
		)
		if err != nil {
			return fmt.Errorf("chunk insert failed: %w", err)
		}
	}
	return tx.Commit()
}

// SearchResult is one transcript chunk ranked by cosine similarity.
type SearchResult struct {
	VideoID       string  `json:"videoId"`
	ChunkText     string  `json:"chunkText"`
	StartPosition int     `json:"startPosition"`
	EndPosition   int     `json:"endPosition"`
	Similarity    float64 `json:"similarity"`
}

// Search ranks completed videos' chunks against a query embedding.
func (r *ChunkRepository) Search(ctx context.Context, embedding []float32, limit int) ([]SearchResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			v.video_id,
			vc.chunk_text,
			vc.chunk_start,
			vc.chunk_end,
			1 - (vc.chunk_embedding <=> $1) AS similarity
		FROM video_chunks vc
		JOIN videos v ON v.id = vc.video_id
		WHERE v.status = 'completed'
		ORDER BY vc.chunk_embedding <=> $1
		LIMIT $2
	`, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var res SearchResult
		if err := rows.Scan(
			&res.VideoID, &res.ChunkText, &res.StartPosition, &res.EndPosition, &res.Similarity,
		); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
