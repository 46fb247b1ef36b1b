// Package db provides database connection management and repository interfaces.
package db

import (
	"context"
	"fmt"

	"github.com/kvn3toj/bolt/internal/models"
)

// VideoRepository handles database operations for video metadata
type VideoRepository struct {
	db *DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a new video into the database
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	result := r.db.WithContext(ctx).Create(video)
	if result.Error != nil {
		return fmt.Errorf("failed to create video: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a video by its identifier
func (r *VideoRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	var video models.Video
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&video)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &video, nil
}

// List retrieves all videos ordered by creation date (newest first)
func (r *VideoRepository) List(ctx context.Context) ([]*models.Video, error) {
	var videos []*models.Video
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&videos)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list videos: %w", MapGormError(result.Error))
	}
	return videos, nil
}
