package wavio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/cwbudde/radioify/internal/testutil"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roundtrip.wav")

	left := testutil.DeterministicSine(440, 44100, 0.8, 2048)
	right := testutil.DeterministicNoise(5, 0.5, 2048)

	if err := Encode(path, [][]float64{left, right}, 44100); err != nil {
		t.Fatal(err)
	}

	channels, rate, err := Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if rate != 44100 {
		t.Fatalf("sample rate = %d, want 44100", rate)
	}
	if len(channels) != 2 {
		t.Fatalf("channels = %d, want 2", len(channels))
	}

	// float32 storage costs ~1e-7 relative precision.
	testutil.RequireSliceNearlyEqual(t, channels[0], left, 1e-6)
	testutil.RequireSliceNearlyEqual(t, channels[1], right, 1e-6)
}

func TestEncode_NoClippingAboveFullScale(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hot.wav")

	// Filter gain can push samples outside [-1, 1]; they must round-trip
	// unclipped since the format is float.
	in := []float64{0, 1.5, -2.25, 0.5}
	if err := Encode(path, [][]float64{in}, 48000); err != nil {
		t.Fatal(err)
	}

	channels, _, err := Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, channels[0], in, 1e-6)
}

func TestDecode_PCM16Normalization(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pcm16.wav")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc := wav.NewEncoder(f, 44100, 16, 1, 1)
	buf := &audio.IntBuffer{
		Data:           []int{0, 16384, -16384, 32767, -32768},
		Format:         &audio.Format{NumChannels: 1, SampleRate: 44100},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	channels, rate, err := Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if rate != 44100 {
		t.Fatalf("sample rate = %d, want 44100", rate)
	}

	want := []float64{0, 0.5, -0.5, 32767.0 / 32768, -1}
	if diff := cmp.Diff(want, channels[0], cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("decoded samples mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.wav")
	if err := os.WriteFile(path, []byte("definitely not a wav"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := Decode(path); err == nil {
		t.Fatal("expected error for invalid wav data")
	}
}

func TestDecode_MissingFile(t *testing.T) {
	if _, _, err := Decode(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEncode_RejectsMalformedInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.wav")

	cases := []struct {
		name     string
		channels [][]float64
		rate     int
	}{
		{"no channels", nil, 44100},
		{"ragged channels", [][]float64{make([]float64, 4), make([]float64, 5)}, 44100},
		{"zero sample rate", [][]float64{make([]float64, 4)}, 0},
	}

	for _, tc := range cases {
		if err := Encode(path, tc.channels, tc.rate); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s: output file exists after failed encode", tc.name)
		}
	}
}

func TestEncode_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clean.wav")

	if err := Encode(path, [][]float64{{0.1, 0.2, 0.3}}, 8000); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("stray temp file %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Fatalf("directory has %d entries, want 1", len(entries))
	}
}
