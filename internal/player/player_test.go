package player

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvn3toj/bolt/internal/config"
	"github.com/kvn3toj/bolt/internal/db"
	"github.com/kvn3toj/bolt/internal/interaction"
	"github.com/kvn3toj/bolt/internal/media"
	"github.com/kvn3toj/bolt/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Player: config.PlayerConfig{
			TriggerTolerance: 1.5,
			TickInterval:     20 * time.Millisecond,
			SkipSeconds:      10,
			DefaultRate:      1.0,
		},
		Database: config.DatabaseConfig{Path: ":memory:", ConnectionTimeout: 5 * time.Second},
		Catalog:  config.CatalogConfig{RequestTimeout: 10 * time.Second},
		Logging:  config.LoggingConfig{Level: "error"},
	}
}

func setupStore(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(sqlDB, "file://../../migrations"))
	return database
}

func seedVideo(t *testing.T, database *db.DB) {
	t.Helper()
	repos := db.NewRepositories(database)
	ctx := context.Background()

	video := &models.Video{ID: "video-1", Title: "Intro", SourceURL: "file:///intro.mp4", Duration: 120}
	require.NoError(t, repos.Videos.Create(ctx, video))
	require.NoError(t, repos.Questions.Create(ctx, &models.Question{
		ID:            "q1",
		VideoID:       "video-1",
		Timestamp:     12,
		Kind:          models.KindNonPausing,
		Prompt:        "True or false?",
		Options:       []string{"True", "False"},
		CorrectAnswer: 0,
	}))
}

func TestOpenLoadsVideoAndCatalog(t *testing.T) {
	database := setupStore(t)
	seedVideo(t, database)

	p := New(testConfig(), database, media.NewManualPipeline(120), "user-1")
	t.Cleanup(func() { _ = p.Close() })

	require.NoError(t, p.Open(context.Background(), "video-1", Hooks{}))
	assert.Equal(t, "Intro", p.Video().Title)
	require.NotNil(t, p.Engine())

	// Duration arrives through the pipeline's first notification
	require.Eventually(t, func() bool {
		return p.Surface().State().Duration == 120.0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestOpenWithUnreachableCatalog(t *testing.T) {
	database := setupStore(t)
	seedVideo(t, database)

	cfg := testConfig()
	cfg.Catalog.BaseURL = "http://127.0.0.1:1"
	cfg.Catalog.RequestTimeout = 200 * time.Millisecond

	p := New(cfg, database, media.NewManualPipeline(120), "user-1")
	t.Cleanup(func() { _ = p.Close() })

	// Playback still opens, just without interactions
	require.NoError(t, p.Open(context.Background(), "video-1", Hooks{}))
	require.NotNil(t, p.Engine())
}

func TestOpenUnknownVideo(t *testing.T) {
	database := setupStore(t)

	p := New(testConfig(), database, media.NewManualPipeline(120), "user-1")
	t.Cleanup(func() { _ = p.Close() })

	err := p.Open(context.Background(), "missing", Hooks{})
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestRunBeforeOpen(t *testing.T) {
	database := setupStore(t)

	p := New(testConfig(), database, media.NewManualPipeline(120), "user-1")
	t.Cleanup(func() { _ = p.Close() })

	assert.ErrorIs(t, p.Run(context.Background()), media.ErrNoMediaLoaded)
}

// TestEndToEndSession plays through a trigger, answer, and score write
// against a real store.
func TestEndToEndSession(t *testing.T) {
	database := setupStore(t)
	seedVideo(t, database)

	pipe := media.NewManualPipeline(120)
	p := New(testConfig(), database, pipe, "user-1")
	t.Cleanup(func() { _ = p.Close() })

	triggered := make(chan *interaction.Session, 1)
	closed := make(chan *interaction.Session, 1)
	require.NoError(t, p.Open(context.Background(), "video-1", Hooks{
		OnTrigger: func(s *interaction.Session) { triggered <- s },
		OnClose:   func(s *interaction.Session) { closed <- s },
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = p.Run(ctx)
		close(done)
	}()

	require.NoError(t, p.Surface().TogglePlay())
	pipe.Advance(12)

	select {
	case s := <-triggered:
		assert.Equal(t, "q1", s.Question().ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the trigger")
	}

	outcome, err := p.Engine().Answer(0)
	require.NoError(t, err)
	assert.Equal(t, interaction.OutcomeCorrect, outcome)

	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the interaction to close")
	}

	require.Eventually(t, func() bool {
		record, err := p.Reporter().Summary(context.Background(), "video-1")
		return err == nil && record != nil && record.Points == models.DefaultPoints
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the engine loop to exit")
	}
}

func TestOnboardingGatePersistsAcrossPlayers(t *testing.T) {
	database := setupStore(t)
	seedVideo(t, database)
	ctx := context.Background()

	first := New(testConfig(), database, media.NewManualPipeline(120), "user-1")
	t.Cleanup(func() { _ = first.Close() })
	require.True(t, first.Onboarding().ShouldShow(ctx))
	first.Onboarding().Complete(ctx)

	second := New(testConfig(), database, media.NewManualPipeline(120), "user-1")
	t.Cleanup(func() { _ = second.Close() })
	assert.False(t, second.Onboarding().ShouldShow(ctx))
}
