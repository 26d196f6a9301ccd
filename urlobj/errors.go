package urlobj

import "github.com/urlkit/urlobject/internal/errorutil"

// Error is a sentinel error of the package.
type Error = errorutil.Error

const (
	// ErrInvalidURL is returned when a string is not a well-formed URL.
	ErrInvalidURL Error = "invalid URL"
	// ErrUnknownParameter is returned when a requested query parameter is not set.
	ErrUnknownParameter Error = "unknown parameter"
)
