package stft

import "errors"

var (
	// ErrEmptyInput is returned when Process is called with zero samples.
	ErrEmptyInput = errors.New("stft: empty input")
	// ErrNilBuffer is returned when the source or destination slice is nil.
	ErrNilBuffer = errors.New("stft: nil buffer")
	// ErrLengthMismatch is returned when dst and src differ in length.
	ErrLengthMismatch = errors.New("stft: buffer length mismatch")
	// ErrAliasedBuffers is returned when dst and src share backing memory.
	ErrAliasedBuffers = errors.New("stft: dst and src must not alias")
	// ErrNilCallback is returned when Process is called without a spectrum callback.
	ErrNilCallback = errors.New("stft: nil spectrum callback")
)
