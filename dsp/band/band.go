package band

import (
	"errors"
	"fmt"

	"github.com/cwbudde/radioify/dsp/filter/biquad"
	"github.com/cwbudde/radioify/dsp/filter/design"
)

// DefaultOrder is the Butterworth order used when Spec.Order is zero.
const DefaultOrder = 3

var (
	// ErrInvalidCutoff reports a cutoff frequency outside (0, sampleRate/2).
	ErrInvalidCutoff = errors.New("band: cutoff frequency outside (0, Nyquist)")

	// ErrUnsupportedShape reports a sample buffer whose channel layout cannot
	// be filtered (no channels, nil channel, or ragged channel lengths).
	ErrUnsupportedShape = errors.New("band: unsupported sample buffer shape")
)

// Spec describes a band-limiting filter: everything below LowCutoffHz and
// above HighCutoffHz is attenuated.
type Spec struct {
	LowCutoffHz  float64
	HighCutoffHz float64
	Order        int // Butterworth order per stage; 0 means DefaultOrder
}

func (s Spec) order() int {
	if s.Order < 1 {
		return DefaultOrder
	}

	return s.Order
}

// DesignLowPass computes the Butterworth lowpass cascade for cutoffHz.
// It fails with [ErrInvalidCutoff] when cutoffHz is not strictly between
// 0 and sampleRate/2; the Nyquist frequency itself is rejected, not clamped.
func DesignLowPass(cutoffHz, sampleRate float64, order int) ([]biquad.Coefficients, error) {
	if err := validateCutoff(cutoffHz, sampleRate); err != nil {
		return nil, err
	}
	if order < 1 {
		order = DefaultOrder
	}

	return design.ButterworthLP(cutoffHz, order, sampleRate), nil
}

// DesignHighPass computes the Butterworth highpass cascade for cutoffHz.
// Validation mirrors [DesignLowPass].
func DesignHighPass(cutoffHz, sampleRate float64, order int) ([]biquad.Coefficients, error) {
	if err := validateCutoff(cutoffHz, sampleRate); err != nil {
		return nil, err
	}
	if order < 1 {
		order = DefaultOrder
	}

	return design.ButterworthHP(cutoffHz, order, sampleRate), nil
}

// ApplyCoefficients runs a causal left-to-right IIR pass over one channel and
// returns a new slice of the same length. Filter state starts at zero and is
// discarded afterwards, so repeated calls with identical input and
// coefficients produce identical output.
func ApplyCoefficients(coeffs []biquad.Coefficients, samples []float64) []float64 {
	out := make([]float64, len(samples))
	biquad.NewChain(coeffs).ProcessBlockTo(out, samples)

	return out
}

// ApplyMono band-limits a single channel: a lowpass designed with
// spec.HighCutoffHz runs first, then a highpass designed with
// spec.LowCutoffHz. The cutoff-to-stage assignment looks reversed but is
// what composes the two stages into a band-pass.
func ApplyMono(samples []float64, sampleRate float64, spec Spec) ([]float64, error) {
	lp, err := DesignLowPass(spec.HighCutoffHz, sampleRate, spec.order())
	if err != nil {
		return nil, fmt.Errorf("lowpass stage: %w", err)
	}

	hp, err := DesignHighPass(spec.LowCutoffHz, sampleRate, spec.order())
	if err != nil {
		return nil, fmt.Errorf("highpass stage: %w", err)
	}

	out := ApplyCoefficients(lp, samples)
	biquad.NewChain(hp).ProcessBlock(out)

	return out, nil
}

// Apply band-limits every channel of a planar sample buffer independently.
// Channel order is preserved, no cross-channel mixing occurs, and the output
// has exactly the input's channel count and per-channel length. Each output
// channel is allocated fresh; the input is never modified.
//
// Malformed layouts fail with [ErrUnsupportedShape] before any filtering.
func Apply(channels [][]float64, sampleRate float64, spec Spec) ([][]float64, error) {
	if err := validateShape(channels); err != nil {
		return nil, err
	}

	// Design once, shared across channels. ApplyMono would redo the design
	// per channel; the per-channel chains below keep independent state.
	lp, err := DesignLowPass(spec.HighCutoffHz, sampleRate, spec.order())
	if err != nil {
		return nil, fmt.Errorf("lowpass stage: %w", err)
	}

	hp, err := DesignHighPass(spec.LowCutoffHz, sampleRate, spec.order())
	if err != nil {
		return nil, fmt.Errorf("highpass stage: %w", err)
	}

	out := make([][]float64, len(channels))
	for ch, in := range channels {
		filtered := ApplyCoefficients(lp, in)
		biquad.NewChain(hp).ProcessBlock(filtered)
		out[ch] = filtered
	}

	return out, nil
}

func validateCutoff(cutoffHz, sampleRate float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %v not positive", ErrInvalidCutoff, sampleRate)
	}
	if cutoffHz <= 0 || cutoffHz >= sampleRate/2 {
		return fmt.Errorf("%w: %v Hz at sample rate %v Hz", ErrInvalidCutoff, cutoffHz, sampleRate)
	}

	return nil
}

func validateShape(channels [][]float64) error {
	if len(channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrUnsupportedShape)
	}

	n := len(channels[0])
	for ch, c := range channels {
		if c == nil {
			return fmt.Errorf("%w: channel %d is nil", ErrUnsupportedShape, ch)
		}
		if len(c) != n {
			return fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d",
				ErrUnsupportedShape, ch, len(c), n)
		}
	}

	return nil
}
