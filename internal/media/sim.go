package media

import (
	"sync"
	"time"
)

const defaultSimGranularity = 250 * time.Millisecond

// SimPipeline is a wall-clock Pipeline that advances the playhead on a
// ticker while playing, standing in for a real decoder. cmd/player
// runs its demonstration session against it.
type SimPipeline struct {
	granularity time.Duration
	speedup     float64

	mu       sync.Mutex
	loaded   bool
	playing  bool
	position float64
	duration float64
	rate     float64
	closed   bool

	events chan PipelineEvent
	done   chan struct{}
}

// NewSimPipeline creates a simulated pipeline for media of the given
// duration. speedup compresses media time relative to wall time
// (speedup 10 plays a 60s video in 6s); values < 1 are treated as 1.
func NewSimPipeline(duration float64, speedup float64) *SimPipeline {
	if speedup < 1 {
		speedup = 1
	}
	p := &SimPipeline{
		granularity: defaultSimGranularity,
		speedup:     speedup,
		duration:    duration,
		rate:        1,
		events:      make(chan PipelineEvent, eventBufferSize),
		done:        make(chan struct{}),
	}
	go p.run()
	return p
}

// Load opens the source and reports duration
func (p *SimPipeline) Load(_ string) error {
	p.mu.Lock()
	p.loaded = true
	p.position = 0
	p.mu.Unlock()

	p.emit(PipelineEvent{Kind: PipeDurationChange, Duration: p.duration})
	return nil
}

// Play starts the simulated clock
func (p *SimPipeline) Play() error {
	p.mu.Lock()
	p.playing = true
	p.mu.Unlock()

	p.emit(PipelineEvent{Kind: PipePlay})
	return nil
}

// Pause halts the simulated clock
func (p *SimPipeline) Pause() error {
	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()

	p.emit(PipelineEvent{Kind: PipePause})
	return nil
}

// Seek moves the playhead and confirms
func (p *SimPipeline) Seek(position float64) error {
	p.mu.Lock()
	p.position = position
	p.mu.Unlock()

	p.emit(PipelineEvent{Kind: PipeSeeked, Position: position})
	return nil
}

// SetRate changes how fast the simulated clock advances
func (p *SimPipeline) SetRate(rate float64) error {
	p.mu.Lock()
	p.rate = rate
	p.mu.Unlock()
	return nil
}

// SetVolume is a no-op for the simulator
func (p *SimPipeline) SetVolume(_ float64) error { return nil }

// SetMuted is a no-op for the simulator
func (p *SimPipeline) SetMuted(_ bool) error { return nil }

// Events returns the raw event stream
func (p *SimPipeline) Events() <-chan PipelineEvent {
	return p.events
}

// Close stops the clock and closes the event stream. Idempotent.
func (p *SimPipeline) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.done)
	return nil
}

func (p *SimPipeline) run() {
	ticker := time.NewTicker(p.granularity)
	defer ticker.Stop()
	defer close(p.events)

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

func (p *SimPipeline) tick() {
	p.mu.Lock()
	if !p.loaded || !p.playing {
		p.mu.Unlock()
		return
	}

	p.position += p.granularity.Seconds() * p.rate * p.speedup
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

func (p *SimPipeline) emit(ev PipelineEvent) {
	select {
	case p.events <- ev:
	case <-p.done:
	}
}
