// Package batch drives the end-to-end filtering run: discover inputs by
// glob, band-limit each file, write filtered WAV output, and optionally
// transcode the results to MP3.
//
// Per-file failures are logged and skipped; only run-level problems (no
// inputs matched, output directory uncreatable) abort the batch.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cwbudde/radioify/dsp/band"
	"github.com/cwbudde/radioify/internal/transcode"
	"github.com/cwbudde/radioify/internal/wavio"
)

// Default cutoffs match the tool's radio-band preset.
const (
	DefaultLowCutoffHz  = 500
	DefaultHighCutoffHz = 5000
	DefaultOutputDir    = "output"
)

// Options configures one batch run.
type Options struct {
	Pattern      string  // input file glob, required
	OutputDir    string  // created if absent; default "output"
	LowCutoffHz  float64 // default 500
	HighCutoffHz float64 // default 5000
	Order        int     // Butterworth order per stage; default 3
	SkipMP3      bool    // leave filtered WAVs untranscoded
	FFmpegBin    string  // external encoder; default "ffmpeg"
	Jobs         int     // parallel filter workers; default 1
	Log          *slog.Logger
}

// Result accumulates the outcome of a run.
type Result struct {
	Filtered   int      // files successfully filtered and written
	Transcoded int      // filtered files successfully converted to MP3
	Skipped    int      // inputs dropped due to per-file errors
	Outputs    []string // written filtered WAV paths, in input order
}

// Run executes the batch. The returned error is non-nil only for run-level
// failures; per-file problems are reflected in Result.Skipped.
func Run(ctx context.Context, opts Options) (Result, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputDir
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}

	spec := band.Spec{
		LowCutoffHz:  opts.LowCutoffHz,
		HighCutoffHz: opts.HighCutoffHz,
		Order:        opts.Order,
	}
	if spec.LowCutoffHz == 0 {
		spec.LowCutoffHz = DefaultLowCutoffHz
	}
	if spec.HighCutoffHz == 0 {
		spec.HighCutoffHz = DefaultHighCutoffHz
	}

	files, err := filepath.Glob(opts.Pattern)
	if err != nil {
		return Result{}, fmt.Errorf("batch: bad pattern %q: %w", opts.Pattern, err)
	}
	if len(files) == 0 {
		return Result{}, fmt.Errorf("batch: no files match %q", opts.Pattern)
	}
	sort.Strings(files)

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("batch: create output dir: %w", err)
	}

	// Filtering is a pure function of each file, so files fan out over a
	// fixed-size worker pool. outputs is indexed by input position; an empty
	// entry marks a skipped file.
	outputs := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	work := make(chan int)
	for range opts.Jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				outputs[i], errs[i] = filterFile(ctx, files[i], opts.OutputDir, spec, opts.FFmpegBin, log)
			}
		}()
	}
	for i := range files {
		if ctx.Err() != nil {
			break
		}
		work <- i
	}
	close(work)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("batch: %w", err)
	}

	var res Result
	for i, out := range outputs {
		if errs[i] != nil {
			log.Warn("skipping file", "file", files[i], "error", errs[i])
			res.Skipped++
			continue
		}
		log.Info("wrote filtered audio", "file", files[i], "output", out)
		res.Outputs = append(res.Outputs, out)
		res.Filtered++
	}

	if opts.SkipMP3 {
		return res, nil
	}

	for _, out := range res.Outputs {
		mp3 := strings.TrimSuffix(out, filepath.Ext(out)) + ".mp3"
		if err := transcode.ToMP3(ctx, opts.FFmpegBin, out, mp3); err != nil {
			log.Warn("transcode failed", "file", out, "error", err)
			continue
		}
		log.Info("transcoded", "file", out, "output", mp3)
		res.Transcoded++
	}

	return res, nil
}

// filterFile runs the per-file pipeline: decode, band-limit, encode.
// Encoding is atomic, so an error at any stage leaves no output behind.
func filterFile(ctx context.Context, path, outputDir string, spec band.Spec, ffmpegBin string, log *slog.Logger) (string, error) {
	log.Info("processing", "file", path)

	channels, sampleRate, err := decodeInput(ctx, path, ffmpegBin)
	if err != nil {
		return "", err
	}

	filtered, err := band.Apply(channels, float64(sampleRate), spec)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(outputDir, stem(path)+"_filtered.wav")
	if err := wavio.Encode(outPath, filtered, sampleRate); err != nil {
		return "", err
	}

	return outPath, nil
}

// decodeInput reads WAV files directly; anything else is decoded to a
// temporary WAV by ffmpeg first.
func decodeInput(ctx context.Context, path, ffmpegBin string) ([][]float64, int, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return wavio.Decode(path)
	}

	if !transcode.Available(ffmpegBin) {
		return nil, 0, fmt.Errorf("batch: %s is not a wav file and ffmpeg is unavailable", path)
	}

	tmpDir, err := os.MkdirTemp("", "radioify-*")
	if err != nil {
		return nil, 0, err
	}
	defer os.RemoveAll(tmpDir)

	tmpWav := filepath.Join(tmpDir, stem(path)+".wav")
	if err := transcode.ToWAV(ctx, ffmpegBin, path, tmpWav); err != nil {
		return nil, 0, err
	}

	return wavio.Decode(tmpWav)
}

func stem(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}
