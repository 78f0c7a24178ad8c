package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestResponse_PassthroughUnity(t *testing.T) {
	c := Coefficients{B0: 1}
	sr := 48000.0

	for _, f := range []float64{10, 100, 1000, 10000, 20000} {
		mag := cmplx.Abs(c.Response(f, sr))
		if math.Abs(mag-1) > 1e-12 {
			t.Fatalf("f=%v: |H|=%v, want 1", f, mag)
		}
	}
}

func TestResponse_GainOnly(t *testing.T) {
	c := Coefficients{B0: 2}
	db := c.MagnitudeDB(1000, 48000)
	want := 20 * math.Log10(2)
	if math.Abs(db-want) > 1e-9 {
		t.Fatalf("gain: %v dB, want %v dB", db, want)
	}
}

func TestMagnitudeSquared_MatchesResponse(t *testing.T) {
	c := Coefficients{B0: 0.2, B1: 0.4, B2: 0.2, A1: -0.5, A2: 0.3}
	sr := 44100.0

	for _, f := range []float64{20, 440, 2500, 11025, 20000} {
		closed := c.MagnitudeSquared(f, sr)
		direct := cmplx.Abs(c.Response(f, sr))
		direct *= direct
		if math.Abs(closed-direct) > 1e-9*math.Max(1, direct) {
			t.Fatalf("f=%v: closed=%v, direct=%v", f, closed, direct)
		}
	}
}

func TestChainResponse_ProductOfSections(t *testing.T) {
	coeffs := []Coefficients{
		{B0: 0.3, B1: 0.6, B2: 0.3, A1: -0.4, A2: 0.2},
		{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.6, A2: 0.25},
	}

	chain := NewChain(coeffs)
	sr := 48000.0
	f := 1234.0

	want := coeffs[0].Response(f, sr) * coeffs[1].Response(f, sr)
	got := chain.Response(f, sr)

	if cmplx.Abs(got-want) > 1e-12 {
		t.Fatalf("chain response %v, want %v", got, want)
	}
}
