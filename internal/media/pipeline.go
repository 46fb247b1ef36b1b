// Package media wraps the underlying playback pipeline behind an
// adapter that owns transport state and emits a normalized event
// stream for the timeline engine.
package media

// PipelineEventKind identifies a raw callback from the underlying
// media pipeline, mirroring the event set of a standard media element.
type PipelineEventKind string

const (
	PipePlay           PipelineEventKind = "play"
	PipePause          PipelineEventKind = "pause"
	PipeEnded          PipelineEventKind = "ended"
	PipeTimeUpdate     PipelineEventKind = "timeupdate"
	PipeDurationChange PipelineEventKind = "durationchange"
	PipeWaiting        PipelineEventKind = "waiting"
	PipeCanPlay        PipelineEventKind = "canplay"
	PipeSeeked         PipelineEventKind = "seeked"
	PipeError          PipelineEventKind = "error"
)

// PipelineEvent is a raw notification from the media pipeline
type PipelineEvent struct {
	Kind     PipelineEventKind
	Position float64 // seconds, valid for timeupdate and seeked
	Duration float64 // seconds, valid for durationchange
	Err      error   // valid for error
}

// Pipeline is the boundary to the actual media playback engine. The
// adapter issues commands through it and consumes its raw event
// stream; everything above the adapter only ever sees normalized
// events and PlaybackState snapshots.
type Pipeline interface {
	// Load opens the media source and eventually reports duration via
	// a durationchange event
	Load(sourceURL string) error

	// Play starts or resumes playback. May be rejected by the engine.
	Play() error

	// Pause halts playback
	Pause() error

	// Seek moves the playhead and eventually reports completion via a
	// seeked event
	Seek(position float64) error

	// SetRate changes the playback rate
	SetRate(rate float64) error

	// SetVolume changes the output volume in [0,1]
	SetVolume(volume float64) error

	// SetMuted toggles audio output
	SetMuted(muted bool) error

	// Events returns the raw event stream. Closed when the pipeline
	// shuts down.
	Events() <-chan PipelineEvent

	// Close releases the pipeline
	Close() error
}
