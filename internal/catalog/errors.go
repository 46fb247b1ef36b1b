package catalog

import "errors"

var (
	// ErrCatalogUnavailable is returned when the question catalog
	// cannot be fetched. Non-fatal to playback: the scheduler simply
	// never fires.
	ErrCatalogUnavailable = errors.New("question catalog unavailable")
)
