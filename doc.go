// Package denoise implements real-time single-channel spectral noise
// reduction.
//
// A [Denoiser] estimates the noise spectrum of an audio stream (captured
// on demand while learning is enabled, or tracked continuously by an
// adaptive estimator) and applies a time-varying per-bin gain that
// suppresses the noise while preserving the remaining signal. Callers feed
// blocks of any size at a fixed sample rate and read back denoised samples
// delayed by a constant [Denoiser.Latency].
//
// Processing is single-threaded and allocation-free in steady state: all
// buffers are sized at construction. Process, LoadParameters, and the
// profile-management calls must be issued from the same goroutine or be
// externally serialized; one instance processes one channel.
//
// [AdaptiveDenoiser] is the low-latency variant that always tracks its
// noise profile continuously and exposes no manual learning surface.
package denoise
