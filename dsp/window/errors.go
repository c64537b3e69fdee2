package window

import (
	"errors"
	"fmt"
)

var (
	errEmptyCoeffs      = errors.New("window coefficients must not be empty")
	errZeroCoherentGain = errors.New("window coherent gain is zero")
	errMismatchedLength = errors.New("samples and coefficients must have same length")
)

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window size must be > 0: %d", size)
	}
	return nil
}

func validateOverlap(length, hop int) error {
	if length <= 0 {
		return fmt.Errorf("window size must be > 0: %d", length)
	}
	if hop <= 0 || hop > length {
		return fmt.Errorf("window hop must be in [1, %d]: %d", length, hop)
	}
	if length%hop != 0 {
		return fmt.Errorf("window size must be a multiple of hop: %d %% %d != 0", length, hop)
	}
	return nil
}
