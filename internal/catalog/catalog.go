// Package catalog loads and orders the interactive questions anchored
// to a video's timeline. A catalog is loaded once per video and
// read-only for the rest of the playback session.
package catalog

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/kvn3toj/bolt/internal/logger"
	"github.com/kvn3toj/bolt/internal/models"
)

// Source fetches the raw question records for a video
type Source interface {
	FetchQuestions(ctx context.Context, videoID string) ([]*models.Question, error)
}

// Catalog is an immutable, anchor-ordered list of interactive questions
type Catalog struct {
	videoID   string
	questions []*models.Question
}

var validate = validator.New()

// Load fetches, validates, and orders the catalog for a video.
// Malformed records are logged and skipped rather than failing the
// whole load; a fetch failure returns ErrCatalogUnavailable.
func Load(ctx context.Context, src Source, videoID string) (*Catalog, error) {
	log := logger.With("catalog")

	rows, err := src.FetchQuestions(ctx, videoID)
	if err != nil {
		log.Warn().Err(err).Str("video_id", videoID).Msg("Catalog fetch failed")
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	questions := make([]*models.Question, 0, len(rows))
	for _, q := range rows {
		if q == nil {
			continue
		}
		if err := validQuestion(q); err != nil {
			log.Warn().
				Err(err).
				Str("video_id", videoID).
				Str("question_id", q.ID).
				Msg("Skipping malformed question record")
			continue
		}
		questions = append(questions, q)
	}

	// Anchor order with identifier tiebreak keeps iteration
	// deterministic for overlapping anchors.
	sort.Slice(questions, func(i, j int) bool {
		if questions[i].Timestamp != questions[j].Timestamp {
			return questions[i].Timestamp < questions[j].Timestamp
		}
		return questions[i].ID < questions[j].ID
	})

	log.Info().
		Str("video_id", videoID).
		Int("questions", len(questions)).
		Int("skipped", len(rows)-len(questions)).
		Msg("Catalog loaded")

	return &Catalog{videoID: videoID, questions: questions}, nil
}

// validQuestion applies the structural checks a record must pass
// before it can ever be triggered.
func validQuestion(q *models.Question) error {
	if err := validate.Struct(q); err != nil {
		return err
	}
	if q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("correct answer index %d out of range for %d options", q.CorrectAnswer, len(q.Options))
	}
	if math.IsNaN(q.Timestamp) || math.IsInf(q.Timestamp, 0) {
		return fmt.Errorf("anchor timestamp is not finite")
	}
	return nil
}

// Empty returns a catalog with no questions, used when the source is
// unreachable and playback proceeds without interactions.
func Empty(videoID string) *Catalog {
	return &Catalog{videoID: videoID}
}

// VideoID returns the video this catalog belongs to
func (c *Catalog) VideoID() string {
	return c.videoID
}

// Len returns the number of triggerable questions
func (c *Catalog) Len() int {
	return len(c.questions)
}

// Questions returns the anchor-ordered question list. Callers must not
// mutate it.
func (c *Catalog) Questions() []*models.Question {
	return c.questions
}

// Match returns the question whose anchor lies within tolerance of
// position, excluding the given identifier. With overlapping anchors
// the earliest one wins; ties break by identifier order.
func (c *Catalog) Match(position, tolerance float64, excludeID string) *models.Question {
	for _, q := range c.questions {
		if q.ID == excludeID {
			continue
		}
		if math.Abs(q.Timestamp-position) < tolerance {
			return q
		}
	}
	return nil
}
