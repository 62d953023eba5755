package sqp

/*
header.go

The fixed 19-byte SQP header, the compression index that follows it,
and the ColorFormat/CompressionMode enums (§3, §4.B).

Reading is modeled on the pack's other complete image codec,
XC-Zero-simple-png's ParsePng/readChunk: fixed-width fields pulled off
an io.Reader with io.ReadFull, a magic-bytes check up front, and every
I/O failure wrapped with a stack trace rather than returned bare.
*/

import (
	"encoding/binary"
	"io"
)

// Magic is the 8-byte identifier at the start of every SQP stream.
const Magic = "dangoimg"

// headerSize is the fixed byte length of the header (§4.B).
const headerSize = 19

// ColorFormat identifies the channel layout of a pixel buffer.
type ColorFormat uint8

const (
	Rgba8 ColorFormat = iota
	Rgb8
	GrayA8
	Gray8
)

// Channels returns the number of channels per pixel.
func (f ColorFormat) Channels() int {
	switch f {
	case Rgba8:
		return 4
	case Rgb8:
		return 3
	case GrayA8:
		return 2
	case Gray8:
		return 1
	default:
		return 0
	}
}

// BytesPerPixel returns the number of bytes per pixel, equal to
// Channels for all defined formats (one byte per channel).
func (f ColorFormat) BytesPerPixel() int {
	return f.Channels()
}

// HasAlpha reports whether the format carries an alpha channel, and if
// so its channel index.
func (f ColorFormat) HasAlpha() (index int, ok bool) {
	switch f {
	case Rgba8:
		return 3, true
	case GrayA8:
		return 1, true
	default:
		return 0, false
	}
}

func (f ColorFormat) valid() bool {
	switch f {
	case Rgba8, Rgb8, GrayA8, Gray8:
		return true
	default:
		return false
	}
}

func (f ColorFormat) String() string {
	switch f {
	case Rgba8:
		return "Rgba8"
	case Rgb8:
		return "Rgb8"
	case GrayA8:
		return "GrayA8"
	case Gray8:
		return "Gray8"
	default:
		return "Unknown"
	}
}

// CompressionMode selects the payload transform (§3).
type CompressionMode uint8

const (
	ModeNone CompressionMode = iota
	ModeLossless
	ModeLossyDct
)

func (m CompressionMode) valid() bool {
	switch m {
	case ModeNone, ModeLossless, ModeLossyDct:
		return true
	default:
		return false
	}
}

func (m CompressionMode) String() string {
	switch m {
	case ModeNone:
		return "None"
	case ModeLossless:
		return "Lossless"
	case ModeLossyDct:
		return "LossyDct"
	default:
		return "Unknown"
	}
}

// header is the parsed fixed 19-byte prefix of an SQP stream.
type header struct {
	Width       uint32
	Height      uint32
	Mode        CompressionMode
	Quality     uint8
	ColorFormat ColorFormat
}

func writeHeader(w io.Writer, h header) error {
	buf := make([]byte, headerSize)
	copy(buf[0:8], Magic)
	binary.LittleEndian.PutUint32(buf[8:12], h.Width)
	binary.LittleEndian.PutUint32(buf[12:16], h.Height)
	buf[16] = byte(h.Mode)
	buf[17] = h.Quality
	buf[18] = byte(h.ColorFormat)

	if _, err := w.Write(buf); err != nil {
		return wrapIO(err, "sqp: write header")
	}
	return nil
}

func readHeader(r io.Reader) (header, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return header{}, wrapIO(err, "sqp: read header")
	}

	if string(buf[0:8]) != Magic {
		return header{}, ErrInvalidIdentifier
	}

	h := header{
		Width:       binary.LittleEndian.Uint32(buf[8:12]),
		Height:      binary.LittleEndian.Uint32(buf[12:16]),
		Mode:        CompressionMode(buf[16]),
		Quality:     buf[17],
		ColorFormat: ColorFormat(buf[18]),
	}
	if !h.Mode.valid() || !h.ColorFormat.valid() {
		return header{}, ErrBadHeader
	}
	return h, nil
}

// ChunkInfo describes one LZW frame within the compressed payload.
type ChunkInfo struct {
	SizeCompressed uint32
	SizeRaw        uint32
}

// CompressionInfo is the ordered index of chunks following the header.
type CompressionInfo struct {
	Chunks []ChunkInfo
}

func writeCompressionInfo(w io.Writer, ci CompressionInfo) error {
	buf := make([]byte, 4+8*len(ci.Chunks))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(ci.Chunks)))
	off := 4
	for _, c := range ci.Chunks {
		binary.LittleEndian.PutUint32(buf[off:off+4], c.SizeCompressed)
		binary.LittleEndian.PutUint32(buf[off+4:off+8], c.SizeRaw)
		off += 8
	}
	if _, err := w.Write(buf); err != nil {
		return wrapIO(err, "sqp: write compression index")
	}
	return nil
}

func readCompressionInfo(r io.Reader) (CompressionInfo, error) {
	var countBuf [4]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return CompressionInfo{}, wrapIO(err, "sqp: read chunk count")
	}
	count := binary.LittleEndian.Uint32(countBuf[:])

	chunks := make([]ChunkInfo, count)
	entry := make([]byte, 8)
	for i := range chunks {
		if _, err := io.ReadFull(r, entry); err != nil {
			return CompressionInfo{}, wrapIO(err, "sqp: read chunk entry")
		}
		chunks[i] = ChunkInfo{
			SizeCompressed: binary.LittleEndian.Uint32(entry[0:4]),
			SizeRaw:        binary.LittleEndian.Uint32(entry[4:8]),
		}
	}
	return CompressionInfo{Chunks: chunks}, nil
}
