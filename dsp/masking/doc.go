// Package masking estimates per-bin psychoacoustic masking from a frame's
// power spectrum.
//
// [Bands] partitions FFT bins into Bark-scale critical bands. [Model] spreads
// per-band energy with the Schroeder spreading function, offsets the result by
// a tonality-dependent amount, floors it at the absolute threshold of hearing
// and reports, per bin, how far the signal sits below its masking threshold as
// a scale factor in [0, 1]. Bins near 1 are fully masked and can be suppressed
// aggressively without audible damage; bins near 0 carry clearly audible
// energy.
package masking
