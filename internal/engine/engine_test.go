package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvn3toj/bolt/internal/catalog"
	"github.com/kvn3toj/bolt/internal/interaction"
	"github.com/kvn3toj/bolt/internal/media"
	"github.com/kvn3toj/bolt/internal/models"
)

type stubSource struct {
	questions []*models.Question
}

func (s stubSource) FetchQuestions(_ context.Context, _ string) ([]*models.Question, error) {
	return s.questions, nil
}

type recordCall struct {
	questionID string
	selected   int
	correct    bool
	points     int
}

// recordingReporter captures Record calls for assertion. Calls arrive
// on a goroutine, so reads synchronize through the channel.
type recordingReporter struct {
	mu    sync.Mutex
	calls []recordCall
	ch    chan recordCall
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{ch: make(chan recordCall, 8)}
}

func (r *recordingReporter) Record(_ context.Context, q *models.Question, selected int, correct bool, points int) error {
	call := recordCall{questionID: q.ID, selected: selected, correct: correct, points: points}
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
	r.ch <- call
	return nil
}

func (r *recordingReporter) wait(t *testing.T) recordCall {
	t.Helper()
	select {
	case call := <-r.ch:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a progress record")
		return recordCall{}
	}
}

func (r *recordingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// pausingQuestion leaves the pause flag unset: records at rest carry
// no explicit value and must still halt the clock by kind default.
func pausingQuestion() *models.Question {
	return &models.Question{
		ID:            "q1",
		VideoID:       "video-1",
		Timestamp:     12,
		Kind:          models.KindPausing,
		Prompt:        "Pick one",
		Options:       []string{"A", "B", "C", "D"},
		CorrectAnswer: 2,
	}
}

func overlayQuestion() *models.Question {
	return &models.Question{
		ID:            "q2",
		VideoID:       "video-1",
		Timestamp:     40,
		Kind:          models.KindNonPausing,
		Prompt:        "True or false?",
		Options:       []string{"True", "False"},
		CorrectAnswer: 0,
	}
}

func loadCatalog(t *testing.T, questions ...*models.Question) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(context.Background(), stubSource{questions: questions}, "video-1")
	require.NoError(t, err)
	return cat
}

// setupEngine builds an engine over a manual pipeline with media
// loaded and playing, so trigger paths see an active clock.
func setupEngine(t *testing.T, questions ...*models.Question) (*Engine, *media.Adapter, *recordingReporter) {
	t.Helper()

	pipe := media.NewManualPipeline(120)
	adapter := media.NewAdapter(pipe)
	t.Cleanup(func() { adapter.Close() })

	video := &models.Video{ID: "video-1", Title: "Test Video", SourceURL: "file:///test.mp4", Duration: 120}
	require.NoError(t, adapter.Load(video))
	require.NoError(t, adapter.Play())

	reporter := newRecordingReporter()
	eng := New(adapter, loadCatalog(t, questions...), reporter, Options{Tolerance: 1.5})
	return eng, adapter, reporter
}

func playingAt(position float64) media.Event {
	return media.Event{
		Type:  media.EventTimeAdvanced,
		Time:  position,
		State: models.PlaybackState{IsPlaying: true, CurrentTime: position},
	}
}

func TestSchedulerDedupAndSeekRearm(t *testing.T) {
	sched := NewScheduler(loadCatalog(t, pausingQuestion()), 1.5)

	q := sched.Match(12)
	require.NotNil(t, q)
	assert.Equal(t, "q1", q.ID)

	sched.MarkFired(q.ID)
	assert.Nil(t, sched.Match(12), "fired question stays suppressed inside its band")

	sched.SeekCompleted()
	require.NotNil(t, sched.Match(12), "seek re-arms the question")
}

func TestEngineFiresInsideToleranceBand(t *testing.T) {
	eng, _, _ := setupEngine(t, pausingQuestion())

	eng.handleEvent(playingAt(10))
	assert.Nil(t, eng.Active())

	eng.handleEvent(playingAt(11.2))
	session := eng.Active()
	require.NotNil(t, session)
	assert.Equal(t, "q1", session.Question().ID)
	assert.Equal(t, models.DefaultMultiTimeLimit, session.Remaining())
}

func TestEngineDoesNotFireWhilePaused(t *testing.T) {
	eng, _, _ := setupEngine(t, pausingQuestion())

	eng.handleEvent(media.Event{
		Type:  media.EventTimeAdvanced,
		Time:  12,
		State: models.PlaybackState{IsPlaying: false, CurrentTime: 12},
	})
	assert.Nil(t, eng.Active())
}

func TestEngineSingleActiveInteraction(t *testing.T) {
	near := overlayQuestion()
	near.Timestamp = 12.5
	eng, _, _ := setupEngine(t, pausingQuestion(), near)

	eng.handleEvent(playingAt(12))
	first := eng.Active()
	require.NotNil(t, first)
	assert.Equal(t, "q1", first.Question().ID, "earliest anchor wins the overlap")

	// A second band match while one interaction is on screen is ignored
	eng.handleEvent(playingAt(12.6))
	assert.Same(t, first.Question(), eng.Active().Question())
}

func TestEnginePausingQuestionPausesAndResumes(t *testing.T) {
	eng, adapter, reporter := setupEngine(t, pausingQuestion())

	eng.handleEvent(playingAt(12))
	session := eng.Active()
	require.NotNil(t, session)
	assert.True(t, session.PausedClock())
	assert.False(t, adapter.State().IsPlaying)

	outcome, err := eng.Answer(2)
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeCorrect, outcome)

	// Feedback dwell holds the overlay before close and resume
	now := time.Now()
	eng.handleTick(now.Add(time.Second))
	assert.NotNil(t, eng.Active())

	eng.handleTick(now.Add(models.MultiChoiceFeedbackDwell + time.Second))
	assert.Nil(t, eng.Active())
	assert.True(t, adapter.State().IsPlaying)

	call := reporter.wait(t)
	assert.Equal(t, "q1", call.questionID)
	assert.Equal(t, 2, call.selected)
	assert.True(t, call.correct)
	assert.Equal(t, models.DefaultPoints, call.points)
}

func TestEnginePausingDefaultHaltsClock(t *testing.T) {
	eng, adapter, _ := setupEngine(t, pausingQuestion())

	eng.handleEvent(playingAt(12))
	session := eng.Active()
	require.NotNil(t, session)
	assert.True(t, session.PausedClock(), "unset flag inherits the pausing kind default")
	assert.False(t, adapter.State().IsPlaying)
}

func TestEnginePausingQuestionWithExplicitOptOut(t *testing.T) {
	noPause := false
	q := pausingQuestion()
	q.PauseOnInteraction = &noPause
	eng, adapter, _ := setupEngine(t, q)

	eng.handleEvent(playingAt(12))
	require.NotNil(t, eng.Active())
	assert.False(t, eng.Active().PausedClock())
	assert.True(t, adapter.State().IsPlaying, "explicit opt-out keeps the clock running")
}

func TestEngineFiresEachQuestionOnceInAnchorOrder(t *testing.T) {
	first := overlayQuestion()
	first.ID = "q-early"
	first.Timestamp = 12
	second := overlayQuestion()
	second.ID = "q-late"
	second.Timestamp = 40
	eng, _, reporter := setupEngine(t, second, first)

	fired := make([]string, 0, 2)
	resolveActive := func(position float64) {
		eng.handleEvent(playingAt(position))
		session := eng.Active()
		require.NotNil(t, session)
		fired = append(fired, session.Question().ID)

		_, err := eng.Answer(0)
		require.NoError(t, err)
		eng.handleTick(time.Now().Add(models.BinaryFeedbackDwell))
		require.Nil(t, eng.Active())
		reporter.wait(t)
	}

	// One unseeked pass over both anchors
	resolveActive(12)
	eng.handleEvent(playingAt(25))
	require.Nil(t, eng.Active(), "no anchor in range between the two bands")
	resolveActive(40)

	assert.Equal(t, []string{"q-early", "q-late"}, fired)
	assert.Equal(t, 2, reporter.count())

	// Lingering inside the second band does not refire either question
	eng.handleEvent(playingAt(40.5))
	assert.Nil(t, eng.Active())
}

func TestEngineTimeoutRecordsIncorrect(t *testing.T) {
	eng, _, reporter := setupEngine(t, overlayQuestion())

	eng.handleEvent(playingAt(40))
	require.NotNil(t, eng.Active())

	now := time.Now()
	for i := 0; i < models.DefaultBinaryTimeLimit; i++ {
		eng.handleTick(now)
	}
	require.Equal(t, interaction.OutcomeTimedOut, eng.Active().Outcome())

	eng.handleTick(now.Add(models.BinaryFeedbackDwell))
	assert.Nil(t, eng.Active())

	call := reporter.wait(t)
	assert.Equal(t, interaction.NoSelection, call.selected)
	assert.False(t, call.correct)
	assert.Equal(t, 0, call.points)
}

func TestEngineDismissSkipsReporting(t *testing.T) {
	eng, adapter, reporter := setupEngine(t, pausingQuestion())

	eng.handleEvent(playingAt(12))
	require.NotNil(t, eng.Active())
	require.False(t, adapter.State().IsPlaying)

	require.NoError(t, eng.Dismiss())
	assert.Nil(t, eng.Active())
	assert.True(t, adapter.State().IsPlaying, "dismissal resumes a paused clock")
	assert.Zero(t, reporter.count())
}

func TestEngineSeekReArmsFiredQuestion(t *testing.T) {
	eng, _, reporter := setupEngine(t, pausingQuestion())

	eng.handleEvent(playingAt(12))
	require.NotNil(t, eng.Active())
	_, err := eng.Answer(0)
	require.NoError(t, err)
	eng.handleTick(time.Now().Add(models.MultiChoiceFeedbackDwell))
	require.Nil(t, eng.Active())
	reporter.wait(t)

	// Still inside the band: dedup suppresses a second firing
	eng.handleEvent(playingAt(12.4))
	assert.Nil(t, eng.Active())

	// Scrubbing back clears the window and the question fires again
	eng.handleEvent(media.Event{Type: media.EventSeekCompleted, Time: 5})
	eng.handleEvent(playingAt(12.4))
	assert.NotNil(t, eng.Active())
}

func TestEngineAnswerWithoutActiveInteraction(t *testing.T) {
	eng, _, _ := setupEngine(t, pausingQuestion())

	_, err := eng.Answer(0)
	assert.ErrorIs(t, err, ErrNoActiveInteraction)
	assert.ErrorIs(t, eng.Dismiss(), ErrNoActiveInteraction)
}

func TestEngineRunConsumesAdapterStream(t *testing.T) {
	pipe := media.NewManualPipeline(120)
	adapter := media.NewAdapter(pipe)
	t.Cleanup(func() { adapter.Close() })

	video := &models.Video{ID: "video-1", Title: "Test Video", SourceURL: "file:///test.mp4", Duration: 120}
	require.NoError(t, adapter.Load(video))
	require.NoError(t, adapter.Play())

	reporter := newRecordingReporter()
	triggered := make(chan *interaction.Session, 1)
	eng := New(adapter, loadCatalog(t, overlayQuestion()), reporter, Options{
		Tolerance:    1.5,
		TickInterval: 10 * time.Millisecond,
		OnTrigger:    func(s *interaction.Session) { triggered <- s },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		eng.Run(ctx)
		close(done)
	}()

	pipe.Advance(40)

	select {
	case s := <-triggered:
		assert.Equal(t, "q2", s.Question().ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the trigger")
	}

	_, err := eng.Answer(0)
	require.NoError(t, err)

	// The ticker closes the session after the feedback dwell and the
	// outcome lands on the reporter
	require.Eventually(t, func() bool { return reporter.count() == 1 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the loop to exit")
	}
}
