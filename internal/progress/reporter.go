// Package progress persists interaction outcomes: a cumulative score
// per user and video, plus an immutable per-answer audit trail.
package progress

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kvn3toj/bolt/internal/db"
	"github.com/kvn3toj/bolt/internal/logger"
	"github.com/kvn3toj/bolt/internal/models"
)

// Reporter records resolved interactions for one user. Writes are
// best-effort: a failed write is logged and never surfaces into
// playback.
type Reporter struct {
	userID   string
	progress *db.ProgressRepository
	answers  *db.AnswerRepository
	log      zerolog.Logger
}

// NewReporter creates a reporter bound to userID. An empty userID
// denotes an anonymous viewer; recording becomes a no-op.
func NewReporter(repos *db.Repositories, userID string) *Reporter {
	return &Reporter{
		userID:   userID,
		progress: repos.Progress,
		answers:  repos.Answers,
		log:      logger.With("progress"),
	}
}

// Record persists one resolved interaction: the score upsert adds the
// awarded points atomically in the database, and the audit row is
// inserted alongside. Failures in either write are independent.
func (r *Reporter) Record(ctx context.Context, question *models.Question, selected int, correct bool, points int) error {
	if r.userID == "" {
		r.log.Debug().Str("question_id", question.ID).Msg("Anonymous viewer, skipping progress record")
		return nil
	}

	record := &models.ProgressRecord{
		UserID:            r.userID,
		VideoID:           question.VideoID,
		LastQuestionID:    question.ID,
		LastAnswerCorrect: correct,
		Points:            points,
		LastInteractionAt: time.Now().UTC(),
	}

	if err := r.progress.Upsert(ctx, record, points); err != nil {
		r.log.Error().Err(err).
			Str("question_id", question.ID).
			Msg("Failed to upsert progress record")
		return err
	}

	answer := models.NewAnswerRecord(r.userID, question.VideoID, question.ID, selected, correct)
	if err := r.answers.Insert(ctx, answer); err != nil {
		// The score already landed; the missing audit row is logged
		// rather than unwinding the upsert.
		r.log.Error().Err(err).
			Str("question_id", question.ID).
			Msg("Failed to insert answer record")
	}

	r.log.Info().
		Str("user_id", r.userID).
		Str("video_id", question.VideoID).
		Str("question_id", question.ID).
		Bool("correct", correct).
		Int("points_awarded", points).
		Msg("Recorded interaction outcome")
	return nil
}

// Summary returns the accumulated progress for a video, or nil when
// the user has not interacted with it yet.
func (r *Reporter) Summary(ctx context.Context, videoID string) (*models.ProgressRecord, error) {
	if r.userID == "" {
		return nil, nil
	}
	record, err := r.progress.Get(ctx, r.userID, videoID)
	if db.IsNotFound(err) {
		return nil, nil
	}
	return record, err
}

// History returns the user's answer audit rows for a video
func (r *Reporter) History(ctx context.Context, videoID string) ([]*models.AnswerRecord, error) {
	if r.userID == "" {
		return nil, nil
	}
	return r.answers.ListByUserVideo(ctx, r.userID, videoID)
}
