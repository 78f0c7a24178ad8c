// Package design computes biquad filter coefficients.
//
// [LowpassRBJ] and [HighpassRBJ] implement the RBJ audio EQ cookbook
// second-order designs. [ButterworthLP] and [ButterworthHP] build maximally
// flat cascades of those sections with per-section Q staging, suitable for
// feeding [github.com/cwbudde/radioify/dsp/filter/biquad.Chain].
//
// Functions in this package report invalid parameters by returning nil or
// zero coefficients; callers that need to distinguish error causes should
// validate parameters first (dsp/band does).
package design
