// Package spectrum provides FFT-adjacent spectrum-domain utilities.
//
// The package intentionally does not implement FFT itself. It operates on
// packed half spectra produced by a real-input transform: a packed spectrum
// for FFT size N is a []float64 of length N with layout
//
//	index 0:            DC (real)
//	index 1:            Nyquist (real)
//	index 2k, 2k+1:     re and im of bin k, for k = 1 .. N/2-1
//
// giving N/2+1 usable bins (see [Bins]). Helpers extract per-bin features,
// spread per-bin values back into packed layout, and keep trailing frame
// history for temporal estimators.
package spectrum
