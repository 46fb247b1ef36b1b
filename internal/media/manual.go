package media

import (
	"sync"
)

// ManualPipeline is a deterministic Pipeline driven entirely by its
// caller. Time only moves when Advance is called, which makes it the
// reference pipeline for tests and tooling that need reproducible
// playback timelines.
type ManualPipeline struct {
	mu       sync.Mutex
	loaded   bool
	playing  bool
	position float64
	duration float64
	rate     float64
	volume   float64
	muted    bool
	closed   bool

	// LoadErr and PlayErr inject command failures when set
	LoadErr error
	PlayErr error

	events chan PipelineEvent
	done   chan struct{}
}

// NewManualPipeline creates a manual pipeline reporting the given duration
func NewManualPipeline(duration float64) *ManualPipeline {
	return &ManualPipeline{
		duration: duration,
		rate:     1,
		volume:   1,
		events:   make(chan PipelineEvent, eventBufferSize),
		done:     make(chan struct{}),
	}
}

// Load opens the source and reports duration
func (p *ManualPipeline) Load(_ string) error {
	p.mu.Lock()
	if p.LoadErr != nil {
		err := p.LoadErr
		p.mu.Unlock()
		return err
	}
	p.loaded = true
	p.position = 0
	p.mu.Unlock()

	p.emit(PipelineEvent{Kind: PipeDurationChange, Duration: p.duration})
	return nil
}

// Play starts playback
func (p *ManualPipeline) Play() error {
	p.mu.Lock()
	if p.PlayErr != nil {
		err := p.PlayErr
		p.mu.Unlock()
		return err
	}
	p.playing = true
	p.mu.Unlock()

	p.emit(PipelineEvent{Kind: PipePlay})
	return nil
}

// Pause halts playback
func (p *ManualPipeline) Pause() error {
	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()

	p.emit(PipelineEvent{Kind: PipePause})
	return nil
}

// Seek moves the playhead and confirms immediately
func (p *ManualPipeline) Seek(position float64) error {
	p.mu.Lock()
	p.position = position
	p.mu.Unlock()

	p.emit(PipelineEvent{Kind: PipeSeeked, Position: position})
	return nil
}

// SetRate records the playback rate
func (p *ManualPipeline) SetRate(rate float64) error {
	p.mu.Lock()
	p.rate = rate
	p.mu.Unlock()
	return nil
}

// SetVolume records the volume
func (p *ManualPipeline) SetVolume(volume float64) error {
	p.mu.Lock()
	p.volume = volume
	p.mu.Unlock()
	return nil
}

// SetMuted records the muted flag
func (p *ManualPipeline) SetMuted(muted bool) error {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
	return nil
}

// Events returns the raw event stream
func (p *ManualPipeline) Events() <-chan PipelineEvent {
	return p.events
}

// Close shuts the pipeline down. Idempotent. The event channel is
// left open; in-flight emits drain through the done select instead of
// racing a close.
func (p *ManualPipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.done)
	return nil
}

// Advance moves the playhead forward by the given seconds while
// playing, emitting a timeupdate and, at the end of media, an ended
// event.
func (p *ManualPipeline) Advance(seconds float64) {
	p.mu.Lock()
	if !p.playing {
		p.mu.Unlock()
		return
	}

	p.position += seconds
	ended := false
	if p.position >= p.duration {
		p.position = p.duration
		p.playing = false
		ended = true
	}
	pos := p.position
	p.mu.Unlock()

	p.emit(PipelineEvent{Kind: PipeTimeUpdate, Position: pos})
	if ended {
		p.emit(PipelineEvent{Kind: PipeEnded})
	}
}

// Stall signals a buffering stall
func (p *ManualPipeline) Stall() {
	p.emit(PipelineEvent{Kind: PipeWaiting})
}

// Recover signals the end of a stall
func (p *ManualPipeline) Recover() {
	p.emit(PipelineEvent{Kind: PipeCanPlay})
}

// Fail emits a pipeline error
func (p *ManualPipeline) Fail(err error) {
	p.emit(PipelineEvent{Kind: PipeError, Err: err})
}

// Position returns the current playhead position
func (p *ManualPipeline) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

func (p *ManualPipeline) emit(ev PipelineEvent) {
	select {
	case p.events <- ev:
	case <-p.done:
	}
}
