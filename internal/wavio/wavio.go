// Package wavio reads and writes waveform audio files as planar float64
// channel buffers.
//
// Decoding normalizes integer PCM to [-1, 1]. Encoding always writes 32-bit
// IEEE-float samples at the source sample rate; values are cast to float32
// as-is, without clipping or rescaling. Writes go through a temp file in the
// destination directory and a rename, so a failed encode never leaves a
// partial output behind.
package wavio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-audio/wav"
)

const formatIEEEFloat = 3

// Decode reads a WAV file into planar per-channel buffers and reports its
// sample rate. Integer PCM (8/16/24/32 bit) is normalized to [-1, 1];
// 32-bit IEEE-float data is passed through unchanged.
func Decode(path string) ([][]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("wavio: open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("wavio: %s is not a valid wav file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("wavio: decode %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("wavio: %s has no channels", path)
	}

	toFloat, err := sampleToFloatFunc(int(dec.WavAudioFormat), int(dec.BitDepth))
	if err != nil {
		return nil, 0, fmt.Errorf("wavio: %s: %w", path, err)
	}

	numCh := buf.Format.NumChannels
	frames := len(buf.Data) / numCh

	channels := make([][]float64, numCh)
	for ch := range channels {
		channels[ch] = make([]float64, frames)
	}
	for i := range frames {
		for ch := range numCh {
			channels[ch][i] = toFloat(buf.Data[i*numCh+ch])
		}
	}

	return channels, buf.Format.SampleRate, nil
}

// sampleToFloatFunc returns the int-sample to float64 conversion for the
// given wav audio format and bit depth. The upstream decoder hands 32-bit
// IEEE-float samples through as their raw little-endian bit pattern, so that
// case reinterprets rather than scales.
func sampleToFloatFunc(audioFormat, bitDepth int) (func(int) float64, error) {
	if audioFormat == formatIEEEFloat {
		if bitDepth != 32 {
			return nil, fmt.Errorf("unsupported float bit depth %d", bitDepth)
		}
		return func(v int) float64 {
			return float64(math.Float32frombits(uint32(v)))
		}, nil
	}

	switch bitDepth {
	case 8:
		// 8-bit wav samples are unsigned.
		return func(v int) float64 { return (float64(v) - 128) / 128 }, nil
	case 16:
		return func(v int) float64 { return float64(v) / (1 << 15) }, nil
	case 24:
		return func(v int) float64 { return float64(v) / (1 << 23) }, nil
	case 32:
		return func(v int) float64 { return float64(v) / (1 << 31) }, nil
	default:
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
}

// Encode writes planar channel buffers as a 32-bit IEEE-float WAV file.
// All channels must have the same length. The file appears at path only
// after a fully successful write.
func Encode(path string, channels [][]float64, sampleRate int) error {
	if len(channels) == 0 {
		return fmt.Errorf("wavio: encode %s: no channels", path)
	}
	frames := len(channels[0])
	for ch, c := range channels {
		if len(c) != frames {
			return fmt.Errorf("wavio: encode %s: channel %d has %d samples, channel 0 has %d",
				path, ch, len(c), frames)
		}
	}
	if sampleRate <= 0 {
		return fmt.Errorf("wavio: encode %s: invalid sample rate %d", path, sampleRate)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("wavio: encode %s: %w", path, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	enc := wav.NewEncoder(tmp, sampleRate, 32, len(channels), formatIEEEFloat)
	for i := range frames {
		for ch := range channels {
			if err := enc.WriteFrame(float32(channels[ch][i])); err != nil {
				cleanup()
				return fmt.Errorf("wavio: encode %s: %w", path, err)
			}
		}
	}
	if err := enc.Close(); err != nil {
		cleanup()
		return fmt.Errorf("wavio: encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("wavio: encode %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("wavio: encode %s: %w", path, err)
	}

	return nil
}
