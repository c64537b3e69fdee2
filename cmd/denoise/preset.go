package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	denoise "github.com/cwbudde/algo-denoise"
	"github.com/cwbudde/algo-denoise/dsp/suppress"
)

// preset mirrors denoise.Parameters with YAML-friendly enum names.
// Pointer fields distinguish "absent" from "zero"; absent keys keep the
// library defaults.
type preset struct {
	LearnNoise            string   `yaml:"learn_noise"`
	NoiseReductionMode    string   `yaml:"noise_reduction_mode"`
	NoiseEstimationMethod string   `yaml:"noise_estimation_method"`
	ReductionAmount       *float64 `yaml:"reduction_amount"`
	NoiseScalingType      string   `yaml:"noise_scaling_type"`
	NoiseRescale          *float64 `yaml:"noise_rescale"`
	SmoothingFactor       *float64 `yaml:"smoothing_factor"`
	TransientProtection   *bool    `yaml:"transient_protection"`
	MaskingDepth          *float64 `yaml:"masking_depth"`
	MaskingElasticity     *float64 `yaml:"masking_elasticity"`
	PostFilterEnabled     *bool    `yaml:"post_filter_enabled"`
	PostFilterThreshold   *float64 `yaml:"post_filter_threshold"`
	WhiteningFactor       *float64 `yaml:"whitening_factor"`
	ResidualListen        *bool    `yaml:"residual_listen"`
}

// loadPreset reads a YAML preset file and overlays it onto the default
// parameters. Enum values use the same names the types print.
func loadPreset(path string) (denoise.Parameters, error) {
	params := denoise.DefaultParameters()

	raw, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("reading preset: %w", err)
	}

	var p preset

	err = yaml.Unmarshal(raw, &p)
	if err != nil {
		return params, fmt.Errorf("parsing preset: %w", err)
	}

	if p.LearnNoise != "" {
		params.LearnNoise, err = parseLearnMode(p.LearnNoise)
		if err != nil {
			return params, err
		}
	}

	if p.NoiseReductionMode != "" {
		params.NoiseReductionMode, err = parseReductionMode(p.NoiseReductionMode)
		if err != nil {
			return params, err
		}
	}

	if p.NoiseEstimationMethod != "" {
		params.NoiseEstimationMethod, err = parseEstimationMethod(p.NoiseEstimationMethod)
		if err != nil {
			return params, err
		}
	}

	if p.NoiseScalingType != "" {
		params.NoiseScalingType, err = parseScalingMode(p.NoiseScalingType)
		if err != nil {
			return params, err
		}
	}

	if p.ReductionAmount != nil {
		params.ReductionAmount = *p.ReductionAmount
	}

	if p.NoiseRescale != nil {
		params.NoiseRescale = *p.NoiseRescale
	}

	if p.SmoothingFactor != nil {
		params.SmoothingFactor = *p.SmoothingFactor
	}

	if p.TransientProtection != nil {
		params.TransientProtection = *p.TransientProtection
	}

	if p.MaskingDepth != nil {
		params.MaskingDepth = *p.MaskingDepth
	}

	if p.MaskingElasticity != nil {
		params.MaskingElasticity = *p.MaskingElasticity
	}

	if p.PostFilterEnabled != nil {
		params.PostFilterEnabled = *p.PostFilterEnabled
	}

	if p.PostFilterThreshold != nil {
		params.PostFilterThreshold = *p.PostFilterThreshold
	}

	if p.WhiteningFactor != nil {
		params.WhiteningFactor = *p.WhiteningFactor
	}

	if p.ResidualListen != nil {
		params.ResidualListen = *p.ResidualListen
	}

	return params, nil
}

func parseLearnMode(s string) (denoise.LearnMode, error) {
	switch s {
	case "off":
		return denoise.LearnOff, nil
	case "average":
		return denoise.LearnAverage, nil
	case "median":
		return denoise.LearnMedian, nil
	case "maximum":
		return denoise.LearnMaximum, nil
	default:
		return 0, fmt.Errorf("unknown learn_noise %q", s)
	}
}

func parseReductionMode(s string) (denoise.ReductionMode, error) {
	switch s {
	case "manual":
		return denoise.ReductionManual, nil
	case "adaptive":
		return denoise.ReductionAdaptive, nil
	default:
		return 0, fmt.Errorf("unknown noise_reduction_mode %q", s)
	}
}

func parseEstimationMethod(s string) (denoise.EstimationMethod, error) {
	switch s {
	case "minimum-statistics":
		return denoise.EstimationMinStat, nil
	case "spp":
		return denoise.EstimationSPP, nil
	default:
		return 0, fmt.Errorf("unknown noise_estimation_method %q", s)
	}
}

func parseScalingMode(s string) (suppress.ScalingMode, error) {
	switch s {
	case "none":
		return suppress.ScalingNone, nil
	case "uniform":
		return suppress.ScalingUniform, nil
	case "critical-bands":
		return suppress.ScalingCriticalBands, nil
	case "masking":
		return suppress.ScalingMasking, nil
	default:
		return 0, fmt.Errorf("unknown noise_scaling_type %q", s)
	}
}
