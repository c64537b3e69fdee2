//go:build js && wasm

// Command wasm exposes the noise reducer to JavaScript for an
// AudioWorklet demo. The exported API mirrors the library lifecycle:
// init(sampleRate), loadParameters(object), process(Float32Array),
// latency(), reset().
package main

import (
	"syscall/js"

	denoise "github.com/cwbudde/algo-denoise"
	"github.com/cwbudde/algo-denoise/dsp/suppress"
)

var (
	reducer *denoise.Denoiser
	inBuf   []float64
	outBuf  []float64
	funcs   []js.Func
)

func main() {
	api := js.Global().Get("Object").New()

	api.Set("init", export(func(args []js.Value) any {
		sr := 48000.0
		if len(args) > 0 {
			sr = args[0].Float()
		}

		d, err := denoise.New(sr)
		if err != nil {
			return err.Error()
		}

		err = d.LoadParameters(denoise.DefaultParameters())
		if err != nil {
			return err.Error()
		}

		reducer = d
		inBuf = nil
		outBuf = nil
		return js.Null()
	}))

	api.Set("loadParameters", export(func(args []js.Value) any {
		if reducer == nil || len(args) < 1 {
			return js.Null()
		}

		p := reducer.Parameters()
		obj := args[0]

		if v := obj.Get("learnNoise"); v.Type() == js.TypeNumber {
			p.LearnNoise = denoise.LearnMode(v.Int())
		}
		if v := obj.Get("noiseReductionMode"); v.Type() == js.TypeNumber {
			p.NoiseReductionMode = denoise.ReductionMode(v.Int())
		}
		if v := obj.Get("noiseEstimationMethod"); v.Type() == js.TypeNumber {
			p.NoiseEstimationMethod = denoise.EstimationMethod(v.Int())
		}
		if v := obj.Get("noiseScalingType"); v.Type() == js.TypeNumber {
			p.NoiseScalingType = suppress.ScalingMode(v.Int())
		}

		numField(obj, "reductionAmount", &p.ReductionAmount)
		numField(obj, "noiseRescale", &p.NoiseRescale)
		numField(obj, "smoothingFactor", &p.SmoothingFactor)
		numField(obj, "maskingDepth", &p.MaskingDepth)
		numField(obj, "maskingElasticity", &p.MaskingElasticity)
		numField(obj, "postFilterThreshold", &p.PostFilterThreshold)
		numField(obj, "whiteningFactor", &p.WhiteningFactor)
		boolField(obj, "transientProtection", &p.TransientProtection)
		boolField(obj, "postFilterEnabled", &p.PostFilterEnabled)
		boolField(obj, "residualListen", &p.ResidualListen)

		err := reducer.LoadParameters(p)
		if err != nil {
			return err.Error()
		}

		return js.Null()
	}))

	api.Set("process", export(func(args []js.Value) any {
		if reducer == nil || len(args) < 1 {
			return js.Global().Get("Float32Array").New(0)
		}

		input := args[0]
		n := input.Length()

		if cap(inBuf) < n {
			inBuf = make([]float64, n)
			outBuf = make([]float64, n)
		}

		for i := 0; i < n; i++ {
			inBuf[i] = input.Index(i).Float()
		}

		err := reducer.Process(outBuf[:n], inBuf[:n])
		if err != nil {
			return err.Error()
		}

		arr := js.Global().Get("Float32Array").New(n)
		for i := 0; i < n; i++ {
			arr.SetIndex(i, float32(outBuf[i]))
		}

		return arr
	}))

	api.Set("latency", export(func(args []js.Value) any {
		if reducer == nil {
			return 0
		}

		return reducer.Latency()
	}))

	api.Set("reset", export(func(args []js.Value) any {
		if reducer != nil {
			reducer.Reset()
		}

		return js.Null()
	}))

	js.Global().Set("AlgoDenoise", api)
	select {}
}

func numField(obj js.Value, key string, dst *float64) {
	if v := obj.Get(key); v.Type() == js.TypeNumber {
		*dst = v.Float()
	}
}

func boolField(obj js.Value, key string, dst *bool) {
	if v := obj.Get(key); v.Type() == js.TypeBoolean {
		*dst = v.Bool()
	}
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
