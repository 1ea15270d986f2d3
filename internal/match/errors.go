package match

import "errors"

// Failures reported while processing a single match page. Each one is fatal for that page.
var (
	// ErrNavigation indicates the page failed to load.
	ErrNavigation = errors.New("navigation failed")
	// ErrTimeout indicates the readiness element never appeared.
	ErrTimeout = errors.New("timed out waiting for page content")
	// ErrMarkupMismatch indicates expected elements were absent or malformed.
	ErrMarkupMismatch = errors.New("markup mismatch")
	// ErrInvalidDate indicates the header date did not match the expected format.
	ErrInvalidDate = errors.New("invalid date")
)
