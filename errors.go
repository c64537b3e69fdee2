package denoise

import "errors"

var (
	// ErrNotInitialized reports use of a Denoiser that was not created with
	// New.
	ErrNotInitialized = errors.New("denoise: not initialized, use New")

	// ErrNotConfigured reports a Process call before the first
	// LoadParameters.
	ErrNotConfigured = errors.New("denoise: parameters not loaded")

	// ErrProfileNotLearned reports a noise-profile query before any frame
	// contributed to the queried mode.
	ErrProfileNotLearned = errors.New("denoise: noise profile not learned")
)
