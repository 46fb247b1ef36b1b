package engine

import (
	"github.com/rs/zerolog"

	"github.com/kvn3toj/bolt/internal/catalog"
	"github.com/kvn3toj/bolt/internal/logger"
	"github.com/kvn3toj/bolt/internal/models"
)

// Scheduler decides which question fires at a given playback position.
// It holds a one-deep dedup window so a question does not retrigger
// while playback lingers inside its tolerance band; a completed seek
// clears the window so scrubbing back re-arms the question.
type Scheduler struct {
	catalog   *catalog.Catalog
	tolerance float64
	lastFired string

	log zerolog.Logger
}

// NewScheduler creates a scheduler over the loaded catalog.
// tolerance is the half-width in seconds of each question's band.
func NewScheduler(cat *catalog.Catalog, tolerance float64) *Scheduler {
	return &Scheduler{
		catalog:   cat,
		tolerance: tolerance,
		log:       logger.With("scheduler"),
	}
}

// Match returns the question to fire at position, or nil. Overlapping
// bands resolve to the earliest anchor, with the catalog's ID ordering
// breaking ties. The question most recently fired is excluded.
func (s *Scheduler) Match(position float64) *models.Question {
	return s.catalog.Match(position, s.tolerance, s.lastFired)
}

// MarkFired records id as the most recently triggered question
func (s *Scheduler) MarkFired(id string) {
	s.lastFired = id
	s.log.Debug().Str("question_id", id).Msg("Question fired")
}

// SeekCompleted clears the dedup window after a confirmed seek
func (s *Scheduler) SeekCompleted() {
	s.lastFired = ""
}
