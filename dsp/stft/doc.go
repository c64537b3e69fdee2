// Package stft provides a streaming short-time Fourier transform engine for
// frame-based spectral processing.
//
// The [Processor] decouples the caller's block size from the FFT frame size:
// Process accepts any positive number of samples per call, internally
// accumulates full frames, and emits the same number of output samples at a
// constant latency of fftSize - hopSize samples. Each complete frame is
// analyzed with a window, transformed, handed to a [SpectrumFunc] callback as
// a packed half spectrum (see the spectrum package for the layout), inverse
// transformed, synthesis windowed, and overlap-added.
//
// Construction validates that the analysis/synthesis window product
// reconstructs without amplitude modulation at the chosen overlap, so an
// identity callback returns the input delayed by the engine latency.
package stft
