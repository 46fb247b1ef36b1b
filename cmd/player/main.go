// Command player runs an interactive playback session against a
// simulated media pipeline: it seeds demo content on first run, plays
// the video, answers triggered questions, and prints the final score.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/kvn3toj/bolt/internal/config"
	"github.com/kvn3toj/bolt/internal/db"
	"github.com/kvn3toj/bolt/internal/interaction"
	"github.com/kvn3toj/bolt/internal/logger"
	"github.com/kvn3toj/bolt/internal/media"
	"github.com/kvn3toj/bolt/internal/models"
	"github.com/kvn3toj/bolt/internal/player"
)

const (
	demoVideoID  = "demo-video"
	demoUserID   = "demo-user"
	demoDuration = 120.0

	// The simulated clock runs well above real time so a full session
	// finishes in a few seconds.
	simSpeedup = 10.0
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)
	log := logger.With("main")

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create data directory")
	}

	database, err := db.New(cfg.Database.Path, cfg.Database.EnableWAL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get database handle")
	}
	if err := db.RunMigrations(sqlDB, cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := seedDemoContent(ctx, database); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed demo content")
	}

	pipe := media.NewSimPipeline(demoDuration, simSpeedup)
	p := player.New(cfg, database, pipe, demoUserID)
	defer p.Close()

	if gate := p.Onboarding(); gate.ShouldShow(ctx) {
		fmt.Println("-- Tutorial --")
		for done := false; !done; done = gate.Advance(ctx) {
			step := gate.Current()
			fmt.Printf("  %s: %s\n", step.Title, step.Description)
		}
	}

	hooks := player.Hooks{
		OnTrigger: func(s *interaction.Session) {
			q := s.Question()
			fmt.Printf("\n[%s] %s\n", q.ID, q.Prompt)
			for i, option := range q.Options {
				fmt.Printf("  %d) %s\n", i, option)
			}

			// The demo answers correctly after a short think
			go func() {
				time.Sleep(500 * time.Millisecond)
				if outcome, err := p.Engine().Answer(q.CorrectAnswer); err == nil {
					fmt.Printf("  answered %d: %s\n", q.CorrectAnswer, outcome)
				}
			}()
		},
		OnClose: func(s *interaction.Session) {
			fmt.Printf("  interaction %s closed (%s)\n", s.Question().ID, s.Outcome())
		},
		// The session is over once the media runs out
		OnEnded: stop,
	}

	if err := p.Open(ctx, demoVideoID, hooks); err != nil {
		log.Fatal().Err(err).Msg("Failed to open video")
	}

	video := p.Video()
	fmt.Printf("Playing %q (%s)\n", video.Title, video.DurationString())

	if err := p.Surface().TogglePlay(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start playback")
	}

	if err := p.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Engine stopped")
	}

	printSummary(p)
	log.Info().Msg("Session finished")
}

// seedDemoContent inserts the demo video and its questions on first
// run. The writes share one transaction so a partial seed never
// survives a crash.
func seedDemoContent(ctx context.Context, database *db.DB) error {
	repos := db.NewRepositories(database)
	if _, err := repos.Videos.GetByID(ctx, demoVideoID); err == nil {
		return nil
	} else if !db.IsNotFound(err) {
		return err
	}

	video := &models.Video{
		ID:        demoVideoID,
		Title:     "Hogares autosostenibles",
		SourceURL: "https://example.com/media/demo.mp4",
		Duration:  demoDuration,
		CreatedAt: time.Now().UTC(),
	}

	questions := []*models.Question{
		{
			ID:            "q1",
			VideoID:       demoVideoID,
			Timestamp:     12,
			Kind:          models.KindNonPausing,
			Prompt:        "¿El video trata sobre hogares autosostenibles?",
			Options:       []string{"Sí", "No"},
			CorrectAnswer: 0,
		},
		{
			ID:            "q2",
			VideoID:       demoVideoID,
			Timestamp:     45,
			Kind:          models.KindPausing,
			Prompt:        "¿Qué se cultiva en el huerto?",
			Options:       []string{"Tomates", "Flores", "Café", "Nada"},
			CorrectAnswer: 0,
		},
		{
			ID:            "q3",
			VideoID:       demoVideoID,
			Timestamp:     90,
			Kind:          models.KindNonPausing,
			Prompt:        "¿Recomendarías este video?",
			Options:       []string{"Sí", "No"},
			CorrectAnswer: 0,
		},
	}

	err := database.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(video).Error; err != nil {
			return db.MapGormError(err)
		}
		for _, q := range questions {
			if err := tx.Create(q).Error; err != nil {
				return db.MapGormError(err)
			}
		}
		return nil
	})
	if db.IsDuplicate(err) {
		// Another process seeded between our existence check and the
		// insert. The content is there, which is all we need.
		return nil
	}
	return err
}

func printSummary(p *player.Player) {
	record, err := p.Reporter().Summary(context.Background(), demoVideoID)
	if err != nil || record == nil {
		return
	}

	history, _ := p.Reporter().History(context.Background(), demoVideoID)
	answered := make([]string, 0, len(history))
	for _, a := range history {
		answered = append(answered, a.QuestionID)
	}

	fmt.Printf("\nScore: %d points (%d answers: %s)\n",
		record.Points, len(history), strings.Join(answered, ", "))
}
