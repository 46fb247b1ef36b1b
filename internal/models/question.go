package models

import (
	"time"
)

// QuestionKind distinguishes interactions that halt playback from
// lightweight overlays that run while the video keeps playing.
type QuestionKind string

const (
	// KindPausing halts playback until the interaction resolves
	KindPausing QuestionKind = "paused"

	// KindNonPausing overlays the interaction without halting playback
	KindNonPausing QuestionKind = "binary"
)

// Defaults applied when a question record leaves a field unset
const (
	DefaultPoints            = 10
	DefaultBinaryTimeLimit   = 10 // seconds
	DefaultMultiTimeLimit    = 30 // seconds
	BinaryFeedbackDwell      = 2 * time.Second
	MultiChoiceFeedbackDwell = 3 * time.Second
)

// Question is an interactive event anchored to a playback timestamp.
// Loaded once per video and read-only for the rest of the session.
type Question struct {
	ID                 string       `json:"id" gorm:"type:text;primaryKey;column:id"`
	VideoID            string       `json:"video_id" gorm:"type:text;not null;index;column:video_id" validate:"required"`
	Timestamp          float64      `json:"timestamp" gorm:"type:real;not null;column:timestamp" validate:"gte=0"` // anchor, seconds
	Kind               QuestionKind `json:"type" gorm:"type:text;not null;column:kind" validate:"oneof=paused binary"`
	Prompt             string       `json:"question" gorm:"type:text;column:prompt"`
	Options            []string     `json:"options" gorm:"type:text;serializer:json;column:options" validate:"min=2"`
	CorrectAnswer      int          `json:"correct_answer" gorm:"type:integer;not null;column:correct_answer" validate:"gte=0"`
	TimeLimit          int          `json:"time_limit" gorm:"type:integer;column:time_limit"` // seconds, 0 means kind default
	Points             int          `json:"points" gorm:"type:integer;column:points"`         // 0 means DefaultPoints
	PauseOnInteraction *bool        `json:"pause_on_interaction,omitempty" gorm:"type:integer;column:pause_on_interaction"` // nil means kind default
	FeedbackCorrect    *string      `json:"feedback_correct,omitempty" gorm:"type:text;column:feedback_correct"`
	FeedbackIncorrect  *string      `json:"feedback_incorrect,omitempty" gorm:"type:text;column:feedback_incorrect"`
	CreatedAt          time.Time    `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// IsBinary reports whether the question is a two-option choice.
// Binary questions use the short countdown and feedback dwell.
func (q *Question) IsBinary() bool {
	return len(q.Options) == 2
}

// EffectiveTimeLimit returns the countdown duration in seconds,
// falling back to the kind default when the record leaves it unset.
func (q *Question) EffectiveTimeLimit() int {
	if q.TimeLimit > 0 {
		return q.TimeLimit
	}
	if q.IsBinary() {
		return DefaultBinaryTimeLimit
	}
	return DefaultMultiTimeLimit
}

// EffectivePoints returns the point value, defaulting when unset
func (q *Question) EffectivePoints() int {
	if q.Points > 0 {
		return q.Points
	}
	return DefaultPoints
}

// EffectivePause reports whether triggering this question should halt
// playback. A record that leaves the flag unset inherits the kind
// default: pausing questions pause, overlays do not.
func (q *Question) EffectivePause() bool {
	if q.PauseOnInteraction != nil {
		return *q.PauseOnInteraction
	}
	return q.Kind == KindPausing
}

// FeedbackDwell returns how long resolved feedback stays on screen
// before the interaction closes.
func (q *Question) FeedbackDwell() time.Duration {
	if q.IsBinary() {
		return BinaryFeedbackDwell
	}
	return MultiChoiceFeedbackDwell
}
