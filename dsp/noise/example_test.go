package noise_test

import (
	"fmt"

	"github.com/cwbudde/algo-denoise/dsp/noise"
)

func ExampleLearner() {
	learner, err := noise.NewLearner(2)
	if err != nil {
		panic(err)
	}

	for range 5 {
		err = learner.Accumulate([]float64{0.25, 0.01})
		if err != nil {
			panic(err)
		}
	}

	avg := learner.Profile(noise.ModeAverage)
	med := learner.Profile(noise.ModeMedian)

	fmt.Println("average blocks:", avg.Blocks())
	fmt.Println("median available:", med.Available())
	fmt.Println("average power:", avg.Power())
	// Output:
	// average blocks: 5
	// median available: true
	// average power: [0.25 0.01]
}

func ExampleSPPTracker() {
	tracker, err := noise.NewSPPTracker(2)
	if err != nil {
		panic(err)
	}

	for range 50 {
		err = tracker.Update([]float64{0.5, 0.125})
		if err != nil {
			panic(err)
		}
	}

	fmt.Printf("%.3f\n", tracker.Estimate())
	// Output:
	// [0.500 0.125]
}
