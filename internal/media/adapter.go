package media

import (
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kvn3toj/bolt/internal/logger"
	"github.com/kvn3toj/bolt/internal/models"
)

// SupportedRates is the fixed set of playback rates the transport accepts
var SupportedRates = []float64{0.5, 1, 1.5, 2}

const eventBufferSize = 64

// Adapter wraps a Pipeline and owns the PlaybackState. All transport
// writes go through its command methods; consumers receive read-only
// snapshots with every normalized event.
type Adapter struct {
	pipe Pipeline
	log  zerolog.Logger

	mu           sync.RWMutex
	state        models.PlaybackState
	video        *models.Video
	pendingSeeks int
	closed       bool

	events chan Event
	done   chan struct{}
}

// NewAdapter creates an adapter over the given pipeline and starts its
// normalization loop. Callers must Close it to release the pipeline.
func NewAdapter(pipe Pipeline) *Adapter {
	a := &Adapter{
		pipe:   pipe,
		log:    logger.With("media"),
		state:  models.DefaultPlaybackState(),
		events: make(chan Event, eventBufferSize),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// Events returns the normalized event stream. Closed when the adapter closes.
func (a *Adapter) Events() <-chan Event {
	return a.events
}

// State returns a snapshot of the current playback state
func (a *Adapter) State() models.PlaybackState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Video returns the currently loaded media item, or nil
func (a *Adapter) Video() *models.Video {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.video
}

// Load opens the media item in the pipeline. Duration becomes known
// asynchronously through an EventDurationKnown notification.
func (a *Adapter) Load(video *models.Video) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrAdapterClosed
	}

	if err := a.pipe.Load(video.SourceURL); err != nil {
		a.log.Error().Err(err).Str("video_id", video.ID).Str("source", video.SourceURL).Msg("Media load failed")
		return fmt.Errorf("%w: %v", ErrMediaLoad, err)
	}

	a.video = video
	a.state = models.DefaultPlaybackState()

	a.log.Info().Str("video_id", video.ID).Str("title", video.Title).Msg("Media loaded")
	return nil
}

// Play starts or resumes playback. Idempotent while already playing.
// On pipeline rejection the playing flag is rolled back and the caller
// must re-initiate.
func (a *Adapter) Play() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrAdapterClosed
	}
	if a.video == nil {
		return ErrNoMediaLoaded
	}
	if a.state.IsPlaying {
		return nil
	}

	if err := a.pipe.Play(); err != nil {
		a.state.IsPlaying = false
		a.log.Warn().Err(err).Msg("Playback rejected")
		return fmt.Errorf("%w: %v", ErrPlaybackRejected, err)
	}

	a.state.IsPlaying = true
	return nil
}

// Pause halts playback. Idempotent while already paused.
func (a *Adapter) Pause() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrAdapterClosed
	}
	if a.video == nil {
		return ErrNoMediaLoaded
	}
	if !a.state.IsPlaying {
		return nil
	}

	if err := a.pipe.Pause(); err != nil {
		return fmt.Errorf("failed to pause: %w", err)
	}

	a.state.IsPlaying = false
	return nil
}

// Seek moves the playhead. The target is clamped into [0, duration];
// non-finite targets are rejected and the prior position is retained.
// EventSeekCompleted is emitted exactly once per successful call.
func (a *Adapter) Seek(target float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrAdapterClosed
	}
	if a.video == nil {
		return ErrNoMediaLoaded
	}
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return ErrInvalidSeekTarget
	}

	if target < 0 {
		target = 0
	}
	if a.state.Duration > 0 && target > a.state.Duration {
		target = a.state.Duration
	}

	if err := a.pipe.Seek(target); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	// Time updates that arrive before the pipeline confirms the seek
	// describe the old position and must not reach the scheduler.
	a.pendingSeeks++
	return nil
}

// SetVolume clamps the volume into [0,1] and couples the muted flag:
// any positive volume unmutes, zero mutes.
func (a *Adapter) SetVolume(volume float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrAdapterClosed
	}

	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	if err := a.pipe.SetVolume(volume); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}

	muted := volume == 0
	if err := a.pipe.SetMuted(muted); err != nil {
		return fmt.Errorf("failed to set muted: %w", err)
	}

	a.state.Volume = volume
	a.state.Muted = muted
	return nil
}

// SetMuted toggles audio. Unmuting restores volume to 1.0 rather than
// the pre-mute value, matching the shipped player's behavior.
func (a *Adapter) SetMuted(muted bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrAdapterClosed
	}

	volume := 1.0
	if muted {
		volume = 0
	}

	if err := a.pipe.SetMuted(muted); err != nil {
		return fmt.Errorf("failed to set muted: %w", err)
	}
	if err := a.pipe.SetVolume(volume); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}

	a.state.Muted = muted
	a.state.Volume = volume
	return nil
}

// SetRate changes the playback rate. Only rates in SupportedRates are accepted.
func (a *Adapter) SetRate(rate float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrAdapterClosed
	}

	supported := false
	for _, r := range SupportedRates {
		if rate == r {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: %v", ErrUnsupportedRate, rate)
	}

	if err := a.pipe.SetRate(rate); err != nil {
		return fmt.Errorf("failed to set rate: %w", err)
	}

	a.state.PlaybackRate = rate
	return nil
}

// SetFullscreen records the fullscreen flag. Presentation is owned by
// the embedding surface; the engine only tracks the state.
func (a *Adapter) SetFullscreen(fullscreen bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.IsFullscreen = fullscreen
}

// SetSubtitles records the subtitle flag. Boolean passthrough only.
func (a *Adapter) SetSubtitles(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.SubtitlesEnabled = enabled
}

// Close detaches from the pipeline and closes the event stream.
// Idempotent.
func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	close(a.done)
	return a.pipe.Close()
}

// run normalizes raw pipeline events into the adapter event stream
func (a *Adapter) run() {
	defer close(a.events)

	for {
		select {
		case <-a.done:
			return
		case raw, ok := <-a.pipe.Events():
			if !ok {
				return
			}
			a.handle(raw)
		}
	}
}

func (a *Adapter) handle(raw PipelineEvent) {
	a.mu.Lock()

	var out *Event
	switch raw.Kind {
	case PipePlay:
		a.state.IsPlaying = true
		out = &Event{Type: EventPlay}

	case PipePause:
		a.state.IsPlaying = false
		out = &Event{Type: EventPause}

	case PipeEnded:
		a.state.IsPlaying = false
		out = &Event{Type: EventEnded}

	case PipeTimeUpdate:
		if a.pendingSeeks > 0 {
			// Stale position from before an in-flight seek
			break
		}
		a.state.CurrentTime = raw.Position
		out = &Event{Type: EventTimeAdvanced, Time: raw.Position}

	case PipeDurationChange:
		a.state.Duration = raw.Duration
		out = &Event{Type: EventDurationKnown}

	case PipeWaiting:
		if !a.state.IsBuffering {
			a.state.IsBuffering = true
			out = &Event{Type: EventBufferingStart}
		}

	case PipeCanPlay:
		if a.state.IsBuffering {
			a.state.IsBuffering = false
			out = &Event{Type: EventBufferingEnd}
		}

	case PipeSeeked:
		if a.pendingSeeks == 0 {
			// Spurious confirmation, nothing in flight
			break
		}
		a.pendingSeeks--
		a.state.CurrentTime = raw.Position
		out = &Event{Type: EventSeekCompleted, Time: raw.Position}

	case PipeError:
		out = &Event{Type: EventError, Err: raw.Err}
	}

	if out == nil {
		a.mu.Unlock()
		return
	}
	out.State = a.state
	a.mu.Unlock()

	select {
	case a.events <- *out:
	case <-a.done:
	}
}
