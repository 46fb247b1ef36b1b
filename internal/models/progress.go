package models

import (
	"time"

	"github.com/google/uuid"
)

// ProgressRecord accumulates a user's score on one video.
// Keyed by (user, video); points only ever grow.
type ProgressRecord struct {
	UserID            string    `json:"user_id" gorm:"type:text;primaryKey;column:user_id" validate:"required"`
	VideoID           string    `json:"video_id" gorm:"type:text;primaryKey;column:video_id" validate:"required"`
	LastQuestionID    string    `json:"last_question_id" gorm:"type:text;column:last_question_id"`
	LastAnswerCorrect bool      `json:"last_answer_correct" gorm:"type:integer;column:last_answer_correct"`
	Points            int       `json:"points" gorm:"type:integer;not null;default:0;column:points"`
	LastInteractionAt time.Time `json:"last_interaction_at" gorm:"type:datetime;column:last_interaction_at"`
}

// AnswerRecord is the immutable per-answer audit row, written once per
// resolved interaction and never updated.
type AnswerRecord struct {
	ID             uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	UserID         string    `json:"user_id" gorm:"type:text;not null;index:idx_answers_user_video;column:user_id" validate:"required"`
	VideoID        string    `json:"video_id" gorm:"type:text;not null;index:idx_answers_user_video;column:video_id" validate:"required"`
	QuestionID     string    `json:"question_id" gorm:"type:text;not null;column:question_id" validate:"required"`
	SelectedOption int       `json:"selected_option" gorm:"type:integer;not null;column:selected_option"` // -1 on timeout
	Correct        bool      `json:"correct" gorm:"type:integer;not null;column:correct"`
	CreatedAt      time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// NewAnswerRecord creates an audit row with a generated identifier
func NewAnswerRecord(userID, videoID, questionID string, selected int, correct bool) *AnswerRecord {
	return &AnswerRecord{
		ID:             uuid.New(),
		UserID:         userID,
		VideoID:        videoID,
		QuestionID:     questionID,
		SelectedOption: selected,
		Correct:        correct,
		CreatedAt:      time.Now().UTC(),
	}
}
