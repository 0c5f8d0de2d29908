package gaship

import "errors"

// Errors returned by New. Check them with errors.Is.
var (
	// ErrMissingTrackingID is returned when the tracking id is empty.
	ErrMissingTrackingID = errors.New("gaship: tracking id is required")

	// ErrInvalidBatchLimit is returned for a batch limit below one.
	ErrInvalidBatchLimit = errors.New("gaship: batch limit must be positive")
)
