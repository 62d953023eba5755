// Package sqp implements the SQP (Squishy Picture) still-image codec:
// a fixed-header container format, a chunked LZW entropy coder, a
// banded lossless row-differencer, and a JPEG-style lossy DCT path,
// sharing the common entropy backend.
//
// The public surface is Image's constructors (FromRaw, FromRawLossless,
// FromRawLossy), Encode/Decode, and the Open/Save file convenience
// functions. Reading non-SQP image formats, CLI argument parsing, and
// interactive overwrite prompts are explicitly out of scope for this
// package; see cmd/sqptool for a minimal consumer.
package sqp
