// Package band applies a Butterworth band-limiting filter to audio buffers.
//
// The filter is two IIR stages in series: a lowpass designed at the band's
// high cutoff followed by a highpass designed at the band's low cutoff.
// [Apply] filters every channel of a planar buffer independently; [ApplyMono]
// is the single-channel form. Both validate their inputs up front and report
// [ErrInvalidCutoff] or [ErrUnsupportedShape]; no other failures exist here.
package band
