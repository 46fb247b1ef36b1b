package db

import (
	"context"
	"fmt"

	"github.com/kvn3toj/bolt/internal/models"
)

// QuestionRepository handles database operations for interactive questions
type QuestionRepository struct {
	db *DB
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Create inserts a new question into the database
func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	result := r.db.WithContext(ctx).Create(question)
	if result.Error != nil {
		return fmt.Errorf("failed to create question: %w", MapGormError(result.Error))
	}
	return nil
}

// ListByVideo retrieves all questions for a video. Storage order is not
// meaningful; the catalog sorts by anchor timestamp after load.
func (r *QuestionRepository) ListByVideo(ctx context.Context, videoID string) ([]*models.Question, error) {
	var questions []*models.Question
	result := r.db.WithContext(ctx).Where("video_id = ?", videoID).Find(&questions)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list questions: %w", MapGormError(result.Error))
	}
	return questions, nil
}
