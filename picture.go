package sqp

/*
picture.go

The picture facade (§4.G): the one entry point embedding applications
use, dispatching to the lossless/lossy/uncompressed transforms and the
shared LZW backend based on an Image's CompressionMode. Open/Save are
the thin os.Open/os.Create wrappers spec.md §6 names, grounded on
original_source/sqp/src/lib.rs's equivalents.
*/

import (
	"bytes"
	"io"
	"log"
	"os"
)

// Image is a decoded or to-be-encoded SQP picture. It owns its pixel
// buffer and is immutable after construction from the codec's
// perspective (§3).
type Image struct {
	width   uint32
	height  uint32
	format  ColorFormat
	mode    CompressionMode
	quality uint8
	pixels  []byte
}

// FromRaw constructs an Image from a raw pixel buffer (§6).
//
// quality is required (non-nil) exactly when mode is ModeLossyDct, and
// forbidden otherwise; violating this, or supplying a pixel buffer of
// the wrong length for w, h and format, is a programmer error and
// panics rather than returning an error (§7).
func FromRaw(w, h uint32, format ColorFormat, mode CompressionMode, quality *uint8, pixels []byte) *Image {
	if mode == ModeLossyDct && quality == nil {
		panic("sqp: quality is required for LossyDct mode")
	}
	if mode != ModeLossyDct && quality != nil {
		panic("sqp: quality must not be set outside LossyDct mode")
	}

	wantLen := int(w) * int(h) * format.BytesPerPixel()
	if len(pixels) != wantLen {
		panic("sqp: pixel buffer length does not match width*height*bytes_per_pixel")
	}

	var q uint8
	if quality != nil {
		q = clampQuality(*quality)
	}

	return &Image{
		width:   w,
		height:  h,
		format:  format,
		mode:    mode,
		quality: q,
		pixels:  pixels,
	}
}

// FromRawLossless constructs a lossless-mode Image.
func FromRawLossless(w, h uint32, format ColorFormat, pixels []byte) *Image {
	return FromRaw(w, h, format, ModeLossless, nil, pixels)
}

// FromRawLossy constructs a lossy-DCT-mode Image at the given quality.
func FromRawLossy(w, h uint32, format ColorFormat, quality uint8, pixels []byte) *Image {
	return FromRaw(w, h, format, ModeLossyDct, &quality, pixels)
}

func clampQuality(q uint8) uint8 {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

// Width returns the image width in pixels.
func (img *Image) Width() uint32 { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() uint32 { return img.height }

// ColorFormat returns the image's channel layout.
func (img *Image) ColorFormat() ColorFormat { return img.format }

// Mode returns the image's compression mode.
func (img *Image) Mode() CompressionMode { return img.mode }

// Quality returns the quality setting, 0 if inapplicable.
func (img *Image) Quality() uint8 { return img.quality }

// AsRaw borrows the image's pixel buffer.
func (img *Image) AsRaw() []byte { return img.pixels }

// IntoRaw takes ownership of the pixel buffer, leaving the Image
// empty. Callers must not use img after calling IntoRaw.
func (img *Image) IntoRaw() []byte {
	p := img.pixels
	img.pixels = nil
	return p
}

// Encode writes the SQP container format (§4.B, §4.G) to w and
// returns the number of bytes written.
func (img *Image) Encode(w io.Writer) (int, error) {
	var payload []byte
	switch img.mode {
	case ModeNone:
		payload = img.pixels
	case ModeLossless:
		payload = losslessForward(img.pixels, int(img.width), int(img.height), img.format)
	case ModeLossyDct:
		payload = lossyForward(img.pixels, int(img.width), int(img.height), img.format, img.quality)
	default:
		return 0, ErrBadHeader
	}

	ci, compressed, err := compressLZW(payload)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := writeHeader(&buf, header{
		Width:       img.width,
		Height:      img.height,
		Mode:        img.mode,
		Quality:     img.quality,
		ColorFormat: img.format,
	}); err != nil {
		return 0, err
	}
	if err := writeCompressionInfo(&buf, ci); err != nil {
		return 0, err
	}
	buf.Write(compressed)

	n, err := w.Write(buf.Bytes())
	if err != nil {
		return n, wrapIO(err, "sqp: write encoded image")
	}
	return n, nil
}

// DecodeOptions configures Decode's recoverable-chunk logging (§7).
type DecodeOptions struct {
	// Logger receives a line per chunk that recovered from a
	// BadElement decode error. Defaults to log.Default() if nil.
	Logger *log.Logger
}

// Decode reads the SQP container format from r and reconstructs the
// Image (§4.G). A per-chunk BadElement failure is recovered (the
// chunk is zero-padded and logged) rather than aborting decode; header
// errors and read errors abort.
func Decode(r io.Reader) (*Image, error) {
	return DecodeWithOptions(r, DecodeOptions{})
}

// DecodeWithOptions is Decode with explicit logging configuration.
func DecodeWithOptions(r io.Reader, opts DecodeOptions) (*Image, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	ci, err := readCompressionInfo(r)
	if err != nil {
		return nil, err
	}

	var total int
	for _, c := range ci.Chunks {
		total += int(c.SizeCompressed)
	}
	compressed := make([]byte, total)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, wrapIO(err, "sqp: read compressed payload")
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	raw, err := decompressLZW(ci, compressed, logger)
	if err != nil {
		return nil, err
	}

	w, ht := int(h.Width), int(h.Height)
	var pixels []byte
	switch h.Mode {
	case ModeNone:
		pixels = raw
	case ModeLossless:
		rawLen := w * ht * h.ColorFormat.BytesPerPixel()
		pixels = losslessInverse(padTo(raw, rawLen), w, ht, h.ColorFormat)
	case ModeLossyDct:
		pixels = lossyInverse(raw, w, ht, h.ColorFormat, h.Quality)
	default:
		return nil, ErrBadHeader
	}

	wantLen := w * ht * h.ColorFormat.BytesPerPixel()
	pixels = padTo(pixels, wantLen)

	return &Image{
		width:   h.Width,
		height:  h.Height,
		format:  h.ColorFormat,
		mode:    h.Mode,
		quality: h.Quality,
		pixels:  pixels,
	}, nil
}

// Open reads and decodes an SQP image file (§6).
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapIO(err, "sqp: open")
	}
	defer f.Close()
	return Decode(f)
}

// Save encodes the image and writes it to path (§6).
func (img *Image) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return wrapIO(err, "sqp: create")
	}
	defer f.Close()

	if _, err := img.Encode(f); err != nil {
		return err
	}
	return f.Close()
}
