// Package controls exposes the user-facing playback operations as
// thin, state-aware wrappers over the media adapter.
package controls

import (
	"github.com/rs/zerolog"

	"github.com/kvn3toj/bolt/internal/logger"
	"github.com/kvn3toj/bolt/internal/media"
	"github.com/kvn3toj/bolt/internal/models"
)

// DefaultSkipSeconds is how far the skip buttons jump
const DefaultSkipSeconds = 10.0

// Surface translates control gestures into adapter commands. Every
// toggle reads the adapter's current state, so external transitions
// (an interaction pausing playback, a stream ending) stay consistent
// with what the user sees.
type Surface struct {
	adapter *media.Adapter
	skip    float64

	log zerolog.Logger
}

// NewSurface creates a control surface over the adapter. skipSeconds
// of zero or less falls back to DefaultSkipSeconds.
func NewSurface(adapter *media.Adapter, skipSeconds float64) *Surface {
	if skipSeconds <= 0 {
		skipSeconds = DefaultSkipSeconds
	}
	return &Surface{
		adapter: adapter,
		skip:    skipSeconds,
		log:     logger.With("controls"),
	}
}

// State returns the adapter's current playback snapshot
func (s *Surface) State() models.PlaybackState {
	return s.adapter.State()
}

// TogglePlay flips between playing and paused
func (s *Surface) TogglePlay() error {
	if s.adapter.State().IsPlaying {
		return s.adapter.Pause()
	}
	return s.adapter.Play()
}

// SkipForward jumps ahead by the configured skip distance.
// The adapter clamps the target to the media duration.
func (s *Surface) SkipForward() error {
	return s.adapter.Seek(s.adapter.State().CurrentTime + s.skip)
}

// SkipBack jumps back by the configured skip distance, clamped at zero
func (s *Surface) SkipBack() error {
	return s.adapter.Seek(s.adapter.State().CurrentTime - s.skip)
}

// SeekTo requests an absolute position, e.g. from a progress bar scrub
func (s *Surface) SeekTo(position float64) error {
	return s.adapter.Seek(position)
}

// SetVolume sets the output level in [0, 1]
func (s *Surface) SetVolume(volume float64) error {
	return s.adapter.SetVolume(volume)
}

// ToggleMute flips the mute flag. Unmuting restores full volume.
func (s *Surface) ToggleMute() error {
	return s.adapter.SetMuted(!s.adapter.State().Muted)
}

// SetRate selects a playback speed from the supported set
func (s *Surface) SetRate(rate float64) error {
	return s.adapter.SetRate(rate)
}

// CycleRate advances to the next supported playback speed, wrapping
// back to the slowest after the fastest.
func (s *Surface) CycleRate() error {
	current := s.adapter.State().PlaybackRate
	for i, rate := range media.SupportedRates {
		if rate == current {
			next := media.SupportedRates[(i+1)%len(media.SupportedRates)]
			return s.adapter.SetRate(next)
		}
	}
	return s.adapter.SetRate(media.SupportedRates[0])
}

// ToggleFullscreen flips the fullscreen flag
func (s *Surface) ToggleFullscreen() {
	state := s.adapter.State()
	s.adapter.SetFullscreen(!state.IsFullscreen)
	s.log.Debug().Bool("fullscreen", !state.IsFullscreen).Msg("Fullscreen toggled")
}

// ToggleSubtitles flips the subtitle flag
func (s *Surface) ToggleSubtitles() {
	s.adapter.SetSubtitles(!s.adapter.State().SubtitlesEnabled)
}
