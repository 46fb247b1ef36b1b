// Package engine runs the playback event loop: it watches the media
// adapter's event stream, fires questions through the scheduler, and
// drives the active interaction's countdown.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kvn3toj/bolt/internal/catalog"
	"github.com/kvn3toj/bolt/internal/interaction"
	"github.com/kvn3toj/bolt/internal/logger"
	"github.com/kvn3toj/bolt/internal/media"
	"github.com/kvn3toj/bolt/internal/models"
)

// ErrNoActiveInteraction is returned when an answer or dismissal
// arrives with no interaction on screen
var ErrNoActiveInteraction = errors.New("no active interaction")

// Reporter receives resolved interactions for persistence. Recording
// must not block the event loop; the engine dispatches asynchronously.
type Reporter interface {
	Record(ctx context.Context, question *models.Question, selected int, correct bool, points int) error
}

// Options configures the engine loop
type Options struct {
	Tolerance    float64       // trigger band half-width, seconds
	TickInterval time.Duration // countdown granularity

	// OnTrigger runs when a question fires, before the countdown starts
	OnTrigger func(*interaction.Session)

	// OnClose runs after an interaction leaves the screen
	OnClose func(*interaction.Session)

	// OnEnded runs when playback reaches the end of the media
	OnEnded func()
}

// Engine coordinates the adapter, scheduler, and at most one active
// interaction. All state transitions happen on the Run goroutine;
// Answer and Dismiss are safe to call from anywhere.
type Engine struct {
	adapter   *media.Adapter
	scheduler *Scheduler
	reporter  Reporter
	opts      Options

	mu     sync.Mutex
	active *interaction.Session
	ctx    context.Context

	wg  sync.WaitGroup
	log zerolog.Logger
}

// New creates an engine over a loaded catalog
func New(adapter *media.Adapter, cat *catalog.Catalog, reporter Reporter, opts Options) *Engine {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	return &Engine{
		adapter:   adapter,
		scheduler: NewScheduler(cat, opts.Tolerance),
		reporter:  reporter,
		opts:      opts,
		ctx:       context.Background(),
		log:       logger.With("engine"),
	}
}

// Run consumes adapter events and countdown ticks until ctx is
// cancelled or the adapter closes its event stream. In-flight progress
// writes are waited for on the way out.
func (e *Engine) Run(ctx context.Context) {
	e.mu.Lock()
	e.ctx = ctx
	e.mu.Unlock()

	ticker := time.NewTicker(e.opts.TickInterval)
	defer ticker.Stop()
	defer e.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-e.adapter.Events():
			if !ok {
				return
			}
			e.handleEvent(ev)
		case now := <-ticker.C:
			e.handleTick(now)
		}
	}
}

// Active returns the interaction currently on screen, or nil
func (e *Engine) Active() *interaction.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Answer forwards the user's selection to the active interaction
func (e *Engine) Answer(index int) (interaction.Outcome, error) {
	e.mu.Lock()
	session := e.active
	e.mu.Unlock()

	if session == nil {
		return "", ErrNoActiveInteraction
	}
	return session.Answer(index, time.Now())
}

// Dismiss closes the active interaction without scoring
func (e *Engine) Dismiss() error {
	e.mu.Lock()
	session := e.active
	e.mu.Unlock()

	if session == nil {
		return ErrNoActiveInteraction
	}
	if session.Dismiss() {
		e.finish(session)
	}
	return nil
}

func (e *Engine) handleEvent(ev media.Event) {
	e.mu.Lock()
	session := e.active
	e.mu.Unlock()

	switch ev.Type {
	case media.EventTimeAdvanced:
		if session == nil && ev.State.IsPlaying {
			e.maybeFire(ev.Time)
		}

	case media.EventSeekCompleted:
		e.scheduler.SeekCompleted()

	case media.EventBufferingStart:
		if session != nil {
			session.BufferingStarted(time.Now())
		}

	case media.EventBufferingEnd:
		if session != nil {
			session.BufferingEnded(time.Now())
		}

	case media.EventEnded:
		e.log.Info().Msg("Playback ended")
		if e.opts.OnEnded != nil {
			e.opts.OnEnded()
		}

	case media.EventError:
		e.log.Error().Err(ev.Err).Msg("Pipeline error")
	}
}

func (e *Engine) handleTick(now time.Time) {
	e.mu.Lock()
	session := e.active
	e.mu.Unlock()

	if session == nil {
		return
	}
	if session.Tick(now) {
		e.finish(session)
	}
}

// maybeFire triggers the question matching the current position, if any
func (e *Engine) maybeFire(position float64) {
	question := e.scheduler.Match(position)
	if question == nil {
		return
	}

	pausedClock := false
	if question.EffectivePause() {
		if err := e.adapter.Pause(); err != nil {
			e.log.Warn().Err(err).Str("question_id", question.ID).Msg("Failed to pause for interaction")
		} else {
			pausedClock = true
		}
	}

	e.scheduler.MarkFired(question.ID)
	session := interaction.New(question, pausedClock)

	e.mu.Lock()
	e.active = session
	e.mu.Unlock()

	e.log.Info().
		Str("question_id", question.ID).
		Float64("position", position).
		Bool("paused_clock", pausedClock).
		Msg("Interaction triggered")

	if e.opts.OnTrigger != nil {
		e.opts.OnTrigger(session)
	}
}

// finish runs the close hooks for a session that reached Closed:
// report the outcome, resume playback the trigger paused, and clear
// the active slot so the scheduler can fire again.
func (e *Engine) finish(session *interaction.Session) {
	e.mu.Lock()
	if e.active != session {
		e.mu.Unlock()
		return
	}
	e.active = nil
	ctx := e.ctx
	e.mu.Unlock()

	if outcome := session.Outcome(); outcome != "" && e.reporter != nil {
		e.dispatchReport(ctx, session, outcome)
	}

	if session.PausedClock() {
		if err := e.adapter.Play(); err != nil {
			e.log.Warn().Err(err).Msg("Failed to resume after interaction")
		}
	}

	if e.opts.OnClose != nil {
		e.opts.OnClose(session)
	}
}

// dispatchReport persists the outcome off the event loop. A cancelled
// context abandons the write rather than stalling shutdown.
func (e *Engine) dispatchReport(ctx context.Context, session *interaction.Session, outcome interaction.Outcome) {
	question := session.Question()
	selected := session.Selected()
	correct := outcome == interaction.OutcomeCorrect
	points := session.PointsAwarded()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		if err := e.reporter.Record(ctx, question, selected, correct, points); err != nil {
			e.log.Error().Err(err).Str("question_id", question.ID).Msg("Failed to record interaction outcome")
		}
	}()
}
