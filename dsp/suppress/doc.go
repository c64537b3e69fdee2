// Package suppress turns power spectra and noise estimates into per-bin
// suppression gains.
//
// [GainEstimator] computes spectral-subtraction gains with a selectable
// oversubtraction strategy, [PostFilter] smooths isolated gain fluctuations
// in low-SNR regions to tame musical noise, and [NoiseFloor] blends gains
// toward a flattened noise shape so the residual sounds white instead of
// colored. All gains stay within [GainFloor, 1].
//
// Parameter setters clamp out-of-range values instead of rejecting them, so
// a control surface can never glitch the audio path. None of the types are
// safe for concurrent use.
package suppress
