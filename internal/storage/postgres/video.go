package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rishab-Kumar09/YouTube-Transcriber/internal/storage/models"
)

type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(ctx context.Context, videoURL, videoID string, isSearchable bool) (string, error) {
	const query = `
		INSERT INTO videos (id, video_url, video_id, status, is_searchable, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, 'pending', $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id
	`

	var id string
	err := r.db.QueryRowContext(ctx, query, videoURL, videoID, isSearchable).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("inserting video: %w", err)
	}
	return id, nil
}

func (r *VideoRepository) Get(ctx context.Context, id string) (*models.Video, error) {
	const query = `
		SELECT id, video_url, video_id, title, method, transcript, status,
		       is_searchable, created_at, updated_at
		FROM videos
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *VideoRepository) GetByURL(ctx context.Context, videoURL string) (*models.Video, error) {
	const query = `
		SELECT id, video_url, video_id, title, method, transcript, status,
		       is_searchable, created_at, updated_at
		FROM videos
		WHERE video_url = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, videoURL))
}

func (r *VideoRepository) List(ctx context.Context) ([]models.Video, error) {
	const query = `
		SELECT id, video_url, video_id, title, method, transcript, status,
		       is_searchable, created_at, updated_at
		FROM videos
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(
			&v.ID, &v.VideoURL, &v.VideoID, &v.Title, &v.Method, &v.Transcript,
			&v.Status, &v.IsSearchable, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning video row: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *VideoRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `
		UPDATE videos
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`
	return r.execOne(ctx, query, id, status, id)
}

// SaveTranscript stores the finished transcript along with the title and
// the acquisition method that produced it.
func (r *VideoRepository) SaveTranscript(ctx context.Context, id, transcript, title, method string) error {
	const query = `
		UPDATE videos
		SET transcript = $1, title = NULLIF($2, ''), method = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
	`
	return r.execOne(ctx, query, id, transcript, title, method, id)
}

func (r *VideoRepository) scanOne(row *sql.Row) (*models.Video, error) {
	var v models.Video
	err := row.Scan(
		&v.ID, &v.VideoURL, &v.VideoID, &v.Title, &v.Method, &v.Transcript,
		&v.Status, &v.IsSearchable, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VideoRepository) execOne(ctx context.Context, query, id string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no video found with ID: %s", id)
	}
	return nil
}
