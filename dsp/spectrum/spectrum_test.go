package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/radioify/internal/testutil"
)

func TestAnalyze_FindsSineFrequency(t *testing.T) {
	sr := 48000.0
	for _, freq := range []float64{440, 1000, 5000, 12000} {
		sig := testutil.DeterministicSine(freq, sr, 1.0, 16384)

		a, err := Analyze(sig, sr)
		if err != nil {
			t.Fatalf("freq=%v: %v", freq, err)
		}

		// Bin spacing is sr/fftSize; allow one bin of error.
		binHz := sr / float64(a.FFTSize)
		if math.Abs(a.PeakFrequencyHz-freq) > binHz {
			t.Fatalf("freq=%v: peak at %v Hz (bin %v Hz)", freq, a.PeakFrequencyHz, binHz)
		}
	}
}

func TestAnalyze_IgnoresDC(t *testing.T) {
	sr := 48000.0
	sig := testutil.DeterministicSine(1000, sr, 0.2, 8192)
	for i := range sig {
		sig[i] += 0.7 // strong DC offset
	}

	a, err := Analyze(sig, sr)
	if err != nil {
		t.Fatal(err)
	}

	binHz := sr / float64(a.FFTSize)
	if math.Abs(a.PeakFrequencyHz-1000) > binHz {
		t.Fatalf("peak at %v Hz, want ~1000 Hz despite DC", a.PeakFrequencyHz)
	}
}

func TestAnalyze_InvalidInputs(t *testing.T) {
	if _, err := Analyze(nil, 48000); err == nil {
		t.Fatal("expected error for empty signal")
	}
	if _, err := Analyze(make([]float64, 64), 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestMagnitudeSpectrum_BinCount(t *testing.T) {
	sig := make([]float64, 1000)
	mags, err := MagnitudeSpectrum(sig)
	if err != nil {
		t.Fatal(err)
	}
	// 1000 samples pad to 1024 -> 513 non-negative bins.
	if len(mags) != 513 {
		t.Fatalf("bins = %d, want 513", len(mags))
	}
}

func TestGoertzel_DetectsTone(t *testing.T) {
	sr := 48000.0
	sig := testutil.DeterministicSine(1000, sr, 0.5, 48000)

	level, err := ToneLevel(sig, 1000, sr)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(level-0.5) > 0.01 {
		t.Fatalf("tone level %v, want ~0.5", level)
	}

	off, err := ToneLevel(sig, 3000, sr)
	if err != nil {
		t.Fatal(err)
	}
	if off > 0.01 {
		t.Fatalf("off-tone level %v, want ~0", off)
	}
}

func TestGoertzel_InvalidInputs(t *testing.T) {
	if _, err := NewGoertzel(1000, 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewGoertzel(30000, 48000); err == nil {
		t.Fatal("expected error for frequency above Nyquist")
	}
	if _, err := ToneLevel(nil, 1000, 48000); err == nil {
		t.Fatal("expected error for empty signal")
	}
}

func TestGoertzel_Reset(t *testing.T) {
	g, err := NewGoertzel(1000, 48000)
	if err != nil {
		t.Fatal(err)
	}

	g.ProcessBlock(testutil.DeterministicSine(1000, 48000, 1.0, 4800))
	if g.Power() <= 0 {
		t.Fatal("expected positive power after processing a matching tone")
	}

	g.Reset()
	if g.Power() != 0 {
		t.Fatalf("power after reset = %v, want 0", g.Power())
	}
}
