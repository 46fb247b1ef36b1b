package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kvn3toj/bolt/internal/models"
)

// ProgressRepository handles database operations for cumulative score records
type ProgressRepository struct {
	db *DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get retrieves the progress record for a (user, video) pair
func (r *ProgressRepository) Get(ctx context.Context, userID, videoID string) (*models.ProgressRecord, error) {
	var record models.ProgressRecord
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&record)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &record, nil
}

// Upsert merges an interaction outcome into the cumulative record for
// (user, video). The points column is incremented inside the database
// so concurrent interactions for the same pair cannot clobber each
// other with a stale read.
func (r *ProgressRepository) Upsert(ctx context.Context, record *models.ProgressRecord, pointsAwarded int) error {
	record.Points = pointsAwarded
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"points":              gorm.Expr("points + ?", pointsAwarded),
			"last_question_id":    record.LastQuestionID,
			"last_answer_correct": record.LastAnswerCorrect,
			"last_interaction_at": record.LastInteractionAt,
		}),
	}).Create(record)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert progress: %w", MapGormError(result.Error))
	}
	return nil
}
