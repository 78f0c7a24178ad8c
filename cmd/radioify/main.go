// Command radioify band-limits audio files to a radio-like frequency band.
//
// Usage:
//
//	radioify [flags] -pattern "input/*.wav"
//
// Each matching file is run through a Butterworth band filter (high-pass
// at the low cutoff, low-pass at the high cutoff) and written to the
// output directory as <name>_filtered.wav. Unless -skip-mp3 is given, the
// filtered files are also transcoded to MP3 with ffmpeg.
//
// Defaults can be set via environment (RADIOIFY_FFMPEG, RADIOIFY_OUTPUT_DIR,
// RADIOIFY_JOBS) or a .env file; flags override both.
//
// Examples:
//
//	radioify -pattern "songs/*.wav"
//	radioify -pattern "songs/*.mp3" -cutoff-low 300 -cutoff-high 3400
//	radioify -pattern "*.wav" -skip-mp3 -out filtered -jobs 4
//	radioify -pattern "*.wav" -skip-mp3 -analyze
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cwbudde/radioify/dsp/band"
	"github.com/cwbudde/radioify/dsp/spectrum"
	"github.com/cwbudde/radioify/internal/batch"
	"github.com/cwbudde/radioify/internal/config"
	"github.com/cwbudde/radioify/internal/wavio"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// A .env file is optional.
	_ = config.LoadEnv()

	cfg, err := config.FromEnv(ctx)
	if err != nil {
		return err
	}

	pattern := flag.String("pattern", "", "input file glob (required)")
	cutoffLow := flag.Float64("cutoff-low", batch.DefaultLowCutoffHz, "high-pass cutoff in Hz")
	cutoffHigh := flag.Float64("cutoff-high", batch.DefaultHighCutoffHz, "low-pass cutoff in Hz")
	order := flag.Int("order", band.DefaultOrder, "Butterworth filter order")
	skipMP3 := flag.Bool("skip-mp3", false, "keep filtered WAVs without transcoding to MP3")
	outDir := flag.String("out", cfg.OutputDir, "output directory")
	ffmpegBin := flag.String("ffmpeg", cfg.FFmpegBin, "ffmpeg binary for decoding and MP3 encoding")
	jobs := flag.Int("jobs", cfg.Jobs, "parallel filter workers")
	analyze := flag.Bool("analyze", false, "print the spectral peak of each filtered file")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: radioify [flags] -pattern \"input/*.wav\"\n\n")
		fmt.Fprintf(os.Stderr, "Band-limits matching audio files and writes <name>_filtered.wav\n")
		fmt.Fprintf(os.Stderr, "(plus an MP3 unless -skip-mp3) to the output directory.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  radioify -pattern \"songs/*.wav\"\n")
		fmt.Fprintf(os.Stderr, "  radioify -pattern \"songs/*.mp3\" -cutoff-low 300 -cutoff-high 3400\n")
		fmt.Fprintf(os.Stderr, "  radioify -pattern \"*.wav\" -skip-mp3 -out filtered -jobs 4\n")
	}
	flag.Parse()

	if *pattern == "" {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	res, err := batch.Run(ctx, batch.Options{
		Pattern:      *pattern,
		OutputDir:    *outDir,
		LowCutoffHz:  *cutoffLow,
		HighCutoffHz: *cutoffHigh,
		Order:        *order,
		SkipMP3:      *skipMP3,
		FFmpegBin:    *ffmpegBin,
		Jobs:         *jobs,
		Log:          log,
	})
	if err != nil {
		return err
	}

	if *analyze {
		for _, out := range res.Outputs {
			if err := printAnalysis(out); err != nil {
				log.Warn("analysis failed", "file", out, "error", err)
			}
		}
	}

	fmt.Printf("filtered %d, transcoded %d, skipped %d\n",
		res.Filtered, res.Transcoded, res.Skipped)

	return nil
}

// printAnalysis reports the dominant frequency of the first channel.
func printAnalysis(path string) error {
	channels, sampleRate, err := wavio.Decode(path)
	if err != nil {
		return err
	}

	a, err := spectrum.Analyze(channels[0], float64(sampleRate))
	if err != nil {
		return err
	}

	fmt.Printf("%s: peak %.1f Hz (magnitude %.3f, fft %d)\n",
		path, a.PeakFrequencyHz, a.PeakMagnitude, a.FFTSize)

	return nil
}
