// Package onboarding drives the first-visit tutorial overlay shown
// before interactive playback, persisting its completion flag so the
// tutorial appears only once.
package onboarding

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kvn3toj/bolt/internal/logger"
	"github.com/kvn3toj/bolt/internal/models"
)

// Step is one screen of the tutorial
type Step struct {
	Title       string
	Description string
}

// Steps is the tutorial sequence, walked in order
var Steps = []Step{
	{
		Title:       "Bienvenido a OpenDaily",
		Description: "Aquí comienza tu viaje",
	},
	{
		Title:       "Más videos de esta playlist",
		Description: "En esta playlist encontrarás videos con los que podrás ganar dinero",
	},
	{
		Title:       "Más videos de esta playlist",
		Description: "Aquí se crea corta y breve descripción sobre la playlist que se está presentando en la parte superior de la pantalla.",
	},
	{
		Title:       "Hogares autosostenibles",
		Description: "Negocio en UPlay, se cultiva y gana dinero para sacar en el ranking.",
	},
}

// completeValue is the stored marker for a finished tutorial
const completeValue = "true"

// Store persists the completion flag between runs
type Store interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
}

// Gate decides whether the tutorial shows and tracks the walk through
// its steps. The stored flag is read once; later calls answer from
// memory.
type Gate struct {
	store   Store
	checked bool
	show    bool
	current int

	log zerolog.Logger
}

// NewGate creates a gate over the given flag store
func NewGate(store Store) *Gate {
	return &Gate{
		store: store,
		log:   logger.With("onboarding"),
	}
}

// ShouldShow reports whether the tutorial should appear. A read
// failure defaults to showing it; the flag write on completion will
// retry persistence anyway.
func (g *Gate) ShouldShow(ctx context.Context) bool {
	if g.checked {
		return g.show
	}

	value, err := g.store.GetValue(ctx, models.SettingOnboardingComplete)
	if err != nil {
		g.log.Warn().Err(err).Msg("Failed to read onboarding flag")
		value = ""
	}

	g.checked = true
	g.show = value != completeValue
	return g.show
}

// Current returns the step on screen
func (g *Gate) Current() Step {
	return Steps[g.current]
}

// StepIndex returns the zero-based position in the sequence
func (g *Gate) StepIndex() int {
	return g.current
}

// Advance moves to the next step. On the last step it completes the
// tutorial instead and reports done.
func (g *Gate) Advance(ctx context.Context) (done bool) {
	if g.current < len(Steps)-1 {
		g.current++
		return false
	}
	g.Complete(ctx)
	return true
}

// Skip abandons the tutorial early. Skipping still marks completion,
// so the overlay does not return on the next visit.
func (g *Gate) Skip(ctx context.Context) {
	g.Complete(ctx)
}

// Complete persists the flag and suppresses future showings
func (g *Gate) Complete(ctx context.Context) {
	g.checked = true
	g.show = false

	if err := g.store.SetValue(ctx, models.SettingOnboardingComplete, completeValue); err != nil {
		g.log.Error().Err(err).Msg("Failed to persist onboarding flag")
		return
	}
	g.log.Info().Msg("Onboarding completed")
}
