package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// API and service errors
	ErrAPIRequest      = fmt.Errorf("API request failed")
	ErrTrackNotFound   = fmt.Errorf("track not found")
	ErrNoSearchResults = fmt.Errorf("no search results")
	ErrNoCoverArt      = fmt.Errorf("no cover art available")

	// Subprocess errors
	ErrDownloadFailed = fmt.Errorf("download failed")
	ErrEncodeFailed   = fmt.Errorf("encode failed")

	// Input validation errors
	ErrInvalidInput = fmt.Errorf("invalid input")
)
