// Package noise estimates noise power spectra for spectral subtraction.
//
// A [Profile] holds one per-bin noise power estimate with the number of
// frames that contributed to it. The [Learner] folds frames into three
// manual profiles (average, median, maximum) while the caller has learning
// enabled. [MinStatTracker] and [SPPTracker] are continuously running
// adaptive estimators for use without a learning phase: minimum statistics
// tracks the sliding spectral minimum of smoothed power, and the SPP tracker
// gates its updates by a per-bin speech presence probability.
//
// None of the types in this package are safe for concurrent use.
package noise
