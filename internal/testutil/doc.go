// Package testutil provides the deterministic signal generators and slice
// assertions shared by the package test suites.
//
// Generators are pure functions of their arguments, so a failing scenario
// reproduces bit-exactly from its seed and parameters.
package testutil
