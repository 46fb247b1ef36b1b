package media

import "errors"

var (
	// ErrMediaLoad is returned when the pipeline cannot resolve or open
	// the media source. Fatal to the playback session; the UI offers a
	// user-triggered retry.
	ErrMediaLoad = errors.New("failed to load media source")

	// ErrPlaybackRejected is returned when the pipeline refuses to start
	// playback (e.g. an autoplay policy). The playing flag is rolled
	// back and the user must re-initiate.
	ErrPlaybackRejected = errors.New("playback rejected by media pipeline")

	// ErrInvalidSeekTarget is returned for non-finite seek targets.
	// The prior position is retained.
	ErrInvalidSeekTarget = errors.New("seek target is not a finite number")

	// ErrUnsupportedRate is returned for playback rates outside the
	// supported set.
	ErrUnsupportedRate = errors.New("unsupported playback rate")

	// ErrNoMediaLoaded is returned for transport commands issued before
	// a successful Load.
	ErrNoMediaLoaded = errors.New("no media loaded")

	// ErrAdapterClosed is returned for commands issued after Close.
	ErrAdapterClosed = errors.New("adapter is closed")
)
