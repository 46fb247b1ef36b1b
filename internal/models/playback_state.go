package models

// PlaybackState is the single source of truth for transport state.
// It is owned by the media adapter; every other component receives
// read-only snapshots and issues changes through adapter commands.
type PlaybackState struct {
	IsPlaying        bool    `json:"is_playing"`
	IsBuffering      bool    `json:"is_buffering"`
	CurrentTime      float64 `json:"current_time"` // seconds
	Duration         float64 `json:"duration"`     // seconds, 0 until the pipeline reports metadata
	Volume           float64 `json:"volume"`       // [0,1]
	Muted            bool    `json:"muted"`
	PlaybackRate     float64 `json:"playback_rate"`
	IsFullscreen     bool    `json:"is_fullscreen"`
	SubtitlesEnabled bool    `json:"subtitles_enabled"`
}

// DefaultPlaybackState returns the transport state before any media loads
func DefaultPlaybackState() PlaybackState {
	return PlaybackState{
		Volume:       1.0,
		PlaybackRate: 1.0,
	}
}
