package db

import (
	"context"
	"fmt"

	"github.com/kvn3toj/bolt/internal/models"
)

// AnswerRepository handles the insert-only answer audit log
type AnswerRepository struct {
	db *DB
}

// NewAnswerRepository creates a new answer repository
func NewAnswerRepository(db *DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Insert appends an audit row. Rows are never updated or deleted.
func (r *AnswerRepository) Insert(ctx context.Context, record *models.AnswerRecord) error {
	result := r.db.WithContext(ctx).Create(record)
	if result.Error != nil {
		return fmt.Errorf("failed to insert answer record: %w", MapGormError(result.Error))
	}
	return nil
}

// ListByUserVideo retrieves the audit trail for a (user, video) pair,
// oldest first.
func (r *AnswerRepository) ListByUserVideo(ctx context.Context, userID, videoID string) ([]*models.AnswerRecord, error) {
	var records []*models.AnswerRecord
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Order("created_at ASC").
		Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list answer records: %w", MapGormError(result.Error))
	}
	return records, nil
}
