// Package player wires the playback stack together: local store,
// question catalog, media adapter, trigger engine, and control surface.
package player

import (
	"context"
	"fmt"

	"github.com/kvn3toj/bolt/internal/catalog"
	"github.com/kvn3toj/bolt/internal/config"
	"github.com/kvn3toj/bolt/internal/controls"
	"github.com/kvn3toj/bolt/internal/db"
	"github.com/kvn3toj/bolt/internal/engine"
	"github.com/kvn3toj/bolt/internal/interaction"
	"github.com/kvn3toj/bolt/internal/logger"
	"github.com/kvn3toj/bolt/internal/media"
	"github.com/kvn3toj/bolt/internal/models"
	"github.com/kvn3toj/bolt/internal/onboarding"
	"github.com/kvn3toj/bolt/internal/progress"
)

// Hooks surface interaction life-cycle moments to the embedding UI
type Hooks struct {
	OnTrigger func(*interaction.Session)
	OnClose   func(*interaction.Session)
	OnEnded   func()
}

// Player owns one viewing session: a loaded video, its catalog, and
// the engine coordinating triggers against playback.
type Player struct {
	config   *config.Config
	db       *db.DB
	repos    *db.Repositories
	adapter  *media.Adapter
	surface  *controls.Surface
	reporter *progress.Reporter
	gate     *onboarding.Gate
	engine   *engine.Engine
	video    *models.Video
}

// New assembles a player over an open database and media pipeline.
// userID may be empty for anonymous viewing.
func New(cfg *config.Config, database *db.DB, pipe media.Pipeline, userID string) *Player {
	repos := db.NewRepositories(database)
	adapter := media.NewAdapter(pipe)

	return &Player{
		config:   cfg,
		db:       database,
		repos:    repos,
		adapter:  adapter,
		surface:  controls.NewSurface(adapter, cfg.Player.SkipSeconds),
		reporter: progress.NewReporter(repos, userID),
		gate:     onboarding.NewGate(repos.Settings),
	}
}

// source picks the catalog origin: a remote endpoint when configured,
// otherwise the local store.
func (p *Player) source() catalog.Source {
	if p.config.Catalog.BaseURL != "" {
		return catalog.NewHTTPSource(p.config.Catalog.BaseURL, p.config.Catalog.RequestTimeout)
	}
	return catalog.NewStoreSource(p.repos.Questions)
}

// Open loads the video and its question catalog and prepares the
// trigger engine. It must be called before Run.
func (p *Player) Open(ctx context.Context, videoID string, hooks Hooks) error {
	video, err := p.repos.Videos.GetByID(ctx, videoID)
	if err != nil {
		return fmt.Errorf("failed to load video %s: %w", videoID, err)
	}

	// An unreachable catalog degrades to plain playback instead of
	// blocking the video.
	cat, err := catalog.Load(ctx, p.source(), videoID)
	if err != nil {
		logger.Log.Warn().Err(err).Str("video_id", videoID).Msg("Playing without interactions")
		cat = catalog.Empty(videoID)
	}

	if err := p.adapter.Load(video); err != nil {
		return err
	}
	if rate := p.config.Player.DefaultRate; rate != 1.0 {
		if err := p.adapter.SetRate(rate); err != nil {
			return err
		}
	}

	p.video = video
	p.engine = engine.New(p.adapter, cat, p.reporter, engine.Options{
		Tolerance:    p.config.Player.TriggerTolerance,
		TickInterval: p.config.Player.TickInterval,
		OnTrigger:    hooks.OnTrigger,
		OnClose:      hooks.OnClose,
		OnEnded:      hooks.OnEnded,
	})

	logger.Log.Info().
		Str("video_id", video.ID).
		Str("title", video.Title).
		Int("questions", cat.Len()).
		Msg("Player opened")
	return nil
}

// Run drives the trigger engine until ctx is cancelled or the media
// pipeline closes.
func (p *Player) Run(ctx context.Context) error {
	if p.engine == nil {
		return media.ErrNoMediaLoaded
	}
	p.engine.Run(ctx)
	return nil
}

// Video returns the loaded video, or nil before Open
func (p *Player) Video() *models.Video {
	return p.video
}

// Surface returns the transport controls
func (p *Player) Surface() *controls.Surface {
	return p.surface
}

// Engine returns the trigger engine, or nil before Open
func (p *Player) Engine() *engine.Engine {
	return p.engine
}

// Reporter returns the progress reporter for score queries
func (p *Player) Reporter() *progress.Reporter {
	return p.reporter
}

// Onboarding returns the first-visit tutorial gate
func (p *Player) Onboarding() *onboarding.Gate {
	return p.gate
}

// Close releases the media adapter. The database is owned by the
// caller and stays open.
func (p *Player) Close() error {
	return p.adapter.Close()
}
