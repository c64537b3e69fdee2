package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// clip is one decoded PCM file, one sample slice per channel.
type clip struct {
	channels [][]float64
	rate     int
	bits     int
}

// readWAV decodes a 16- or 24-bit PCM WAV file into per-channel float64
// slices scaled to [-1, 1).
func readWAV(path string) (*clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s: not a valid WAV file", path)
	}

	bits := int(dec.BitDepth)
	if bits != 16 && bits != 24 {
		return nil, fmt.Errorf("%s: unsupported bit depth %d, want 16 or 24", path, bits)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading PCM data: %w", err)
	}

	numCh := buf.Format.NumChannels
	if numCh < 1 || len(buf.Data) == 0 {
		return nil, fmt.Errorf("%s: no audio data", path)
	}

	frames := len(buf.Data) / numCh
	scale := 1.0 / float64(int(1)<<(bits-1))

	channels := make([][]float64, numCh)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
		for i := range frames {
			channels[ch][i] = float64(buf.Data[i*numCh+ch]) * scale
		}
	}

	return &clip{channels: channels, rate: buf.Format.SampleRate, bits: bits}, nil
}

// writeWAV encodes the clip as PCM WAV at its original bit depth,
// clipping samples outside [-1, 1).
func writeWAV(path string, c *clip) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}

	numCh := len(c.channels)
	frames := len(c.channels[0])
	limit := float64(int(1) << (c.bits - 1))

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numCh, SampleRate: c.rate},
		Data:           make([]int, frames*numCh),
		SourceBitDepth: c.bits,
	}

	for ch, samples := range c.channels {
		for i, v := range samples {
			s := math.Round(v * limit)
			s = math.Min(math.Max(s, -limit), limit-1)
			buf.Data[i*numCh+ch] = int(s)
		}
	}

	enc := wav.NewEncoder(f, c.rate, c.bits, numCh, 1)

	err = enc.Write(buf)
	if err != nil {
		f.Close()

		return fmt.Errorf("writing PCM data: %w", err)
	}

	err = enc.Close()
	if err != nil {
		f.Close()

		return fmt.Errorf("finalizing output: %w", err)
	}

	return f.Close()
}
