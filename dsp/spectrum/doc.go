// Package spectrum provides frequency-domain analysis helpers.
//
// [Analyze] locates the dominant frequency of a channel via an FFT of the
// Hann-windowed signal; the CLI uses it to report what survived the band
// filter. [Goertzel] evaluates a single DFT bin and backs the tone-level
// measurements in tests.
package spectrum
