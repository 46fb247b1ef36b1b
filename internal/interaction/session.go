// Package interaction manages the life cycle of one active interactive
// question: countdown, answer capture, feedback dwell, and closure.
package interaction

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kvn3toj/bolt/internal/logger"
	"github.com/kvn3toj/bolt/internal/models"
)

// Phase is the session's life-cycle state
type Phase string

const (
	// PhaseCountdown accepts answers while the timer runs
	PhaseCountdown Phase = "countdown"

	// PhaseResolved displays feedback; further answers are rejected
	PhaseResolved Phase = "resolved"

	// PhaseClosed is terminal
	PhaseClosed Phase = "closed"
)

// Outcome classifies how the session resolved
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeTimedOut  Outcome = "timed_out"
)

// NoSelection is the sentinel answer index recorded on timeout
const NoSelection = -1

var (
	// ErrAlreadyResolved is returned for answers after resolution.
	// The first resolution stands; nothing is re-scored.
	ErrAlreadyResolved = errors.New("interaction already resolved")

	// ErrInvalidSelection is returned for out-of-range option indexes
	ErrInvalidSelection = errors.New("selected option index out of range")
)

// Session tracks one active question from trigger to close
type Session struct {
	mu sync.Mutex

	question    *models.Question
	phase       Phase
	remaining   int // countdown seconds left
	limit       int // original countdown, cap for stall credit
	selected    int
	outcome     Outcome
	pausedClock bool // whether the trigger paused playback for this session
	resolvedAt  time.Time
	stallStart  time.Time // wall clock when a stall began, zero outside stalls

	log zerolog.Logger
}

// New creates a session in Countdown for the given question.
// pausedClock records whether the trigger paused playback, so closure
// knows whether to resume.
func New(question *models.Question, pausedClock bool) *Session {
	limit := question.EffectiveTimeLimit()
	return &Session{
		question:    question,
		phase:       PhaseCountdown,
		remaining:   limit,
		limit:       limit,
		selected:    NoSelection,
		pausedClock: pausedClock,
		log:         logger.With("interaction"),
	}
}

// Question returns the question driving this session
func (s *Session) Question() *models.Question {
	return s.question
}

// Phase returns the current life-cycle state
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Remaining returns the countdown seconds left
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Selected returns the chosen option index, or NoSelection
func (s *Session) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Outcome returns how the session resolved. Empty while in Countdown
// and for dismissed sessions.
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// PausedClock reports whether the trigger paused playback for this session
func (s *Session) PausedClock() bool {
	return s.pausedClock
}

// PointsAwarded returns the score for the resolved outcome
func (s *Session) PointsAwarded() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == OutcomeCorrect {
		return s.question.EffectivePoints()
	}
	return 0
}

// Tick advances the session by one countdown second. While resolving,
// it also closes the session once the feedback dwell elapses. Returns
// true when the session reached Closed during this tick.
func (s *Session) Tick(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseCountdown:
		s.remaining--
		if s.remaining <= 0 {
			s.remaining = 0
			s.resolveLocked(NoSelection, OutcomeTimedOut, now)
		}
		return false

	case PhaseResolved:
		if now.Sub(s.resolvedAt) >= s.question.FeedbackDwell() {
			s.phase = PhaseClosed
			return true
		}
		return false

	default:
		return false
	}
}

// Answer records the user's selection and resolves the session.
// Scoring happens exactly once; later attempts return ErrAlreadyResolved.
func (s *Session) Answer(index int, now time.Time) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseCountdown {
		return "", ErrAlreadyResolved
	}
	if index < 0 || index >= len(s.question.Options) {
		return "", ErrInvalidSelection
	}

	outcome := OutcomeIncorrect
	if index == s.question.CorrectAnswer {
		outcome = OutcomeCorrect
	}
	s.resolveLocked(index, outcome, now)
	return outcome, nil
}

// Dismiss closes the session without scoring (user closed the overlay).
// Returns true if this call performed the close.
func (s *Session) Dismiss() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseClosed {
		return false
	}
	s.phase = PhaseClosed
	return true
}

// BufferingStarted marks the beginning of a pipeline stall. Only
// non-pausing sessions track stalls; for pausing ones the clock is
// already halted and no stall reaches the countdown.
func (s *Session) BufferingStarted(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseCountdown || s.question.Kind == models.KindPausing {
		return
	}
	s.stallStart = now
}

// BufferingEnded credits the stalled wall-clock seconds back to the
// countdown, capped at the original limit, so the visible timer never
// runs out purely due to a network stall.
func (s *Session) BufferingEnded(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stallStart.IsZero() {
		return
	}

	credit := int(now.Sub(s.stallStart).Seconds())
	s.stallStart = time.Time{}

	if s.phase != PhaseCountdown || credit <= 0 {
		return
	}

	s.remaining += credit
	if s.remaining > s.limit {
		s.remaining = s.limit
	}

	s.log.Debug().
		Str("question_id", s.question.ID).
		Int("credit_seconds", credit).
		Int("remaining", s.remaining).
		Msg("Stall time credited back to countdown")
}

// resolveLocked transitions Countdown to Resolved. Callers hold s.mu.
func (s *Session) resolveLocked(index int, outcome Outcome, now time.Time) {
	s.selected = index
	s.outcome = outcome
	s.phase = PhaseResolved
	s.resolvedAt = now

	s.log.Info().
		Str("question_id", s.question.ID).
		Str("outcome", string(outcome)).
		Int("selected", index).
		Msg("Interaction resolved")
}
