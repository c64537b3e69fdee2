// Command denoise reduces stationary background noise in WAV files.
//
// Usage:
//
//	denoise -i noisy.wav -o clean.wav --learn 2
//	denoise -i noisy.wav -o clean.wav --adaptive
//	denoise -i noisy.wav -o clean.wav --preset studio.yaml --residual
//
// With --learn S the first S seconds are treated as noise-only: they feed
// the noise profile, and the profile freezes once the window has passed.
// With --adaptive no learning pass is needed; the noise estimate is
// tracked continuously. Each channel of a multi-channel file runs through
// its own reducer instance.
//
// The reported output is time-aligned with the input: the processing
// latency is compensated by flushing the tail before writing.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	denoise "github.com/cwbudde/algo-denoise"
	"github.com/cwbudde/algo-denoise/dsp/noise"
)

const version = "0.1.0"

// processBlock is the streaming chunk size in samples. The reducer
// decouples its frame size from the call block size, so this only trades
// call overhead against working-set size.
const processBlock = 4096

type options struct {
	input     string
	output    string
	preset    string
	learnSecs float64
	adaptive  bool
	reduction float64
	frameMs   float64
	residual  bool
	verbose   bool
}

// streamProcessor is the surface shared by the manual and the adaptive
// reducer.
type streamProcessor interface {
	Process(dst, src []float64) error
	Latency() int
}

func main() {
	var opts options

	root := &cobra.Command{
		Use:           "denoise",
		Short:         "Spectral noise reduction for WAV files",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &opts)
		},
	}

	root.Flags().StringVarP(&opts.input, "input", "i", "", "input WAV file (16/24-bit PCM)")
	root.Flags().StringVarP(&opts.output, "output", "o", "", "output WAV file")
	root.Flags().StringVarP(&opts.preset, "preset", "p", "", "YAML parameter preset file")
	root.Flags().Float64VarP(&opts.learnSecs, "learn", "l", 0,
		"noise-only lead-in length in seconds feeding the noise profile")
	root.Flags().BoolVarP(&opts.adaptive, "adaptive", "a", false,
		"track the noise estimate continuously instead of learning a profile")
	root.Flags().Float64VarP(&opts.reduction, "reduction", "r", 10, "noise reduction amount in dB [0, 40]")
	root.Flags().Float64Var(&opts.frameMs, "frame-ms", 0,
		"analysis frame length in milliseconds (default 46, adaptive 20)")
	root.Flags().BoolVar(&opts.residual, "residual", false,
		"write the removed noise instead of the cleaned signal")
	root.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	_ = root.MarkFlagRequired("input")
	_ = root.MarkFlagRequired("output")

	err := root.Execute()
	if err != nil {
		logrus.WithError(err).Error("denoise failed")
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, opts *options) error {
	if opts.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	params := denoise.DefaultParameters()

	if opts.preset != "" {
		loaded, err := loadPreset(opts.preset)
		if err != nil {
			return err
		}

		params = loaded

		logrus.WithField("preset", opts.preset).Info("loaded parameter preset")
	}

	if cmd.Flags().Changed("reduction") {
		params.ReductionAmount = opts.reduction
	}

	if opts.residual {
		params.ResidualListen = true
	}

	clip, err := readWAV(opts.input)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"file":        opts.input,
		"sample_rate": clip.rate,
		"channels":    len(clip.channels),
		"bit_depth":   clip.bits,
		"samples":     len(clip.channels[0]),
	}).Info("decoded input")

	if opts.adaptive {
		err = processAdaptive(clip, params, opts)
	} else {
		err = processManual(clip, params, opts)
	}

	if err != nil {
		return err
	}

	err = writeWAV(opts.output, clip)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"file":     opts.output,
		"samples":  len(clip.channels[0]),
		"residual": opts.residual,
	}).Info("wrote output")

	return nil
}

func frameOptions(opts *options) []denoise.Option {
	if opts.frameMs > 0 {
		return []denoise.Option{denoise.WithFrameDuration(opts.frameMs)}
	}

	return nil
}

func processManual(c *clip, params denoise.Parameters, opts *options) error {
	learnSamples := int(opts.learnSecs * float64(c.rate))

	if learnSamples > 0 {
		params.LearnNoise = denoise.LearnAverage
	}

	if learnSamples >= len(c.channels[0]) {
		logrus.WithField("learn_seconds", opts.learnSecs).
			Warn("learning window covers the whole file; the profile never freezes")
	}

	if learnSamples == 0 && params.LearnNoise == denoise.LearnOff &&
		params.NoiseReductionMode == denoise.ReductionManual {
		logrus.Warn("no learning window and learning disabled; no noise profile will be available")
	}

	frozen := params
	frozen.LearnNoise = denoise.LearnOff

	for ch, samples := range c.channels {
		d, err := denoise.New(float64(c.rate), frameOptions(opts)...)
		if err != nil {
			return err
		}

		err = d.LoadParameters(params)
		if err != nil {
			return err
		}

		var onSwitch func() error
		if learnSamples > 0 {
			onSwitch = func() error {
				return d.LoadParameters(frozen)
			}
		}

		out, err := streamFile(d, samples, learnSamples, onSwitch)
		if err != nil {
			return fmt.Errorf("channel %d: %w", ch, err)
		}

		logrus.WithFields(logrus.Fields{
			"channel":        ch,
			"profile_blocks": d.NoiseProfileBlocks(noise.ModeAverage),
			"latency":        d.Latency(),
		}).Debug("channel processed")

		c.channels[ch] = out
	}

	return nil
}

func processAdaptive(c *clip, params denoise.Parameters, opts *options) error {
	if opts.learnSecs > 0 {
		logrus.Warn("--learn is ignored in adaptive mode")
	}

	for ch, samples := range c.channels {
		a, err := denoise.NewAdaptive(float64(c.rate), frameOptions(opts)...)
		if err != nil {
			return err
		}

		err = a.LoadParameters(params)
		if err != nil {
			return err
		}

		out, err := streamFile(a, samples, 0, nil)
		if err != nil {
			return fmt.Errorf("channel %d: %w", ch, err)
		}

		logrus.WithFields(logrus.Fields{
			"channel": ch,
			"latency": a.Latency(),
		}).Debug("channel processed")

		c.channels[ch] = out
	}

	return nil
}

// streamFile pushes samples through p in processBlock chunks and returns
// the latency-compensated output of equal length. When switchAt falls
// inside the stream, onSwitch runs once at that exact sample boundary.
func streamFile(p streamProcessor, samples []float64, switchAt int, onSwitch func() error) ([]float64, error) {
	latency := p.Latency()

	padded := make([]float64, len(samples)+latency)
	copy(padded, samples)

	out := make([]float64, len(padded))

	for start := 0; start < len(padded); {
		if onSwitch != nil && start == switchAt {
			err := onSwitch()
			if err != nil {
				return nil, err
			}

			onSwitch = nil
		}

		end := min(start+processBlock, len(padded))
		if onSwitch != nil && switchAt > start && switchAt < end {
			end = switchAt
		}

		err := p.Process(out[start:end], padded[start:end])
		if err != nil {
			return nil, err
		}

		start = end
	}

	return out[latency:], nil
}
