package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-denoise/dsp/core"
)

func ExampleNextPowerOfTwo() {
	fmt.Println(core.NextPowerOfTwo(2029))
	fmt.Println(core.NextPowerOfTwo(2048))

	// Output:
	// 2048
	// 2048
}

func ExampleEnsureLen() {
	buf := make([]float64, 2, 4)
	buf[0], buf[1] = 1, 2
	buf = core.EnsureLen(buf, 4)

	core.Zero(buf[2:])
	fmt.Println(buf)

	// Output:
	// [1 2 0 0]
}
