package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Analysis summarizes the spectral content of one channel.
type Analysis struct {
	PeakFrequencyHz float64
	PeakMagnitude   float64
	FFTSize         int
}

// MagnitudeSpectrum returns |X[k]| for the non-negative-frequency bins
// [0..Nyquist] of the Hann-windowed signal, zero-padded to the next power
// of two. The bin spacing is sampleRate/fftSize with
// fftSize = 2*(len(result)-1).
func MagnitudeSpectrum(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("spectrum: empty signal")
	}

	fftSize := nextPowerOf2(len(signal))

	windowed := make([]float64, len(signal))
	copy(windowed, signal)
	vecmath.MulBlockInPlace(windowed, hann(len(signal)))

	inData := make([]complex128, fftSize)
	for i, v := range windowed {
		inData[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, inData); err != nil {
		return nil, fmt.Errorf("spectrum: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mags := make([]float64, bins)
	vecmath.Magnitude(mags, re, im)

	return mags, nil
}

// Analyze locates the dominant non-DC frequency of signal.
func Analyze(signal []float64, sampleRate float64) (Analysis, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Analysis{}, fmt.Errorf("spectrum: sample rate must be > 0: %v", sampleRate)
	}

	// Remove the mean first: a DC offset leaks into the lowest bins through
	// the window main lobe and can mask the actual peak.
	detrended := make([]float64, len(signal))
	var mean float64
	for _, v := range signal {
		mean += v
	}
	if len(signal) > 0 {
		mean /= float64(len(signal))
	}
	for i, v := range signal {
		detrended[i] = v - mean
	}

	mags, err := MagnitudeSpectrum(detrended)
	if err != nil {
		return Analysis{}, err
	}

	if len(mags) < 2 {
		return Analysis{}, fmt.Errorf("spectrum: signal too short to analyze")
	}

	fftSize := 2 * (len(mags) - 1)

	// Skip bin 0: DC offset is not a tone.
	peakBin := 1
	for i := 2; i < len(mags); i++ {
		if mags[i] > mags[peakBin] {
			peakBin = i
		}
	}

	return Analysis{
		PeakFrequencyHz: float64(peakBin) * sampleRate / float64(fftSize),
		PeakMagnitude:   mags[peakBin],
		FFTSize:         fftSize,
	}, nil
}

// hann returns the symmetric Hann window of the given size.
func hann(size int) []float64 {
	coeffs := make([]float64, size)
	if size == 1 {
		coeffs[0] = 1
		return coeffs
	}

	for i := range coeffs {
		coeffs[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}

	return coeffs
}

func nextPowerOf2(n int) int {
	if n < 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
