package media

import (
	"github.com/kvn3toj/bolt/internal/models"
)

// EventType identifies a normalized adapter event
type EventType string

const (
	// EventPlay fires when playback starts or resumes
	EventPlay EventType = "play"

	// EventPause fires when playback halts
	EventPause EventType = "pause"

	// EventEnded fires when the media reaches its end
	EventEnded EventType = "ended"

	// EventTimeAdvanced fires as the playhead moves during playback
	EventTimeAdvanced EventType = "time_advanced"

	// EventDurationKnown fires once the pipeline reports media duration
	EventDurationKnown EventType = "duration_known"

	// EventBufferingStart fires when the pipeline stalls
	EventBufferingStart EventType = "buffering_start"

	// EventBufferingEnd fires when a stall resolves
	EventBufferingEnd EventType = "buffering_end"

	// EventSeekCompleted fires exactly once per Seek call
	EventSeekCompleted EventType = "seek_completed"

	// EventError fires on pipeline failures
	EventError EventType = "error"
)

// Event is a normalized adapter notification. State carries the
// PlaybackState snapshot taken after the event was applied, so
// consumers never read adapter state mid-transition.
type Event struct {
	Type  EventType
	Time  float64 // playhead seconds for TimeAdvanced and SeekCompleted
	Err   error   // set for EventError
	State models.PlaybackState
}
