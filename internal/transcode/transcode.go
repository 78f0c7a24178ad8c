// Package transcode shells out to ffmpeg for the audio formats this tool
// does not decode or encode itself. ffmpeg is the only external codec
// dependency; it is invoked per file with explicit argument lists and the
// caller's context bounds each run.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// DefaultBin is the ffmpeg binary resolved via PATH when no explicit
// path is configured.
const DefaultBin = "ffmpeg"

// Available reports whether the given ffmpeg binary can be resolved.
func Available(bin string) bool {
	if bin == "" {
		bin = DefaultBin
	}
	_, err := exec.LookPath(bin)

	return err == nil
}

// ToMP3 converts a waveform file to MP3. A non-zero ffmpeg exit becomes an
// error carrying the tail of stderr.
func ToMP3(ctx context.Context, bin, inPath, outPath string) error {
	return run(ctx, bin, []string{"-y", "-i", inPath, "-vn", "-codec:a", "libmp3lame", outPath})
}

// ToWAV decodes any ffmpeg-readable audio file to 16-bit PCM WAV, used to
// route non-WAV inputs through the filter pipeline.
func ToWAV(ctx context.Context, bin, inPath, outPath string) error {
	return run(ctx, bin, []string{"-y", "-i", inPath, "-vn", "-codec:a", "pcm_s16le", outPath})
}

func run(ctx context.Context, bin string, args []string) error {
	if bin == "" {
		bin = DefaultBin
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("transcode: %s %v: %w: %s", bin, args, err, tail(stderr.Bytes(), 512))
	}

	return nil
}

// tail returns at most n trailing bytes of b; ffmpeg puts the actionable
// message at the end of a long banner.
func tail(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}

	return b[len(b)-n:]
}
