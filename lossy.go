package sqp

/*
lossy.go

Lossy pipeline glue (§4.F): per-channel block decomposition feeding
the §4.E DCT/quantization stage, and zig-zag varint serialization of
the resulting i16 coefficient stream so it can be handed to the LZW
entropy coder like any other byte payload.
*/

import "sync"

// Coefficient layout is channel-major, block-row-major: channel c's
// coefficients are a contiguous run of 64 int16 values per block,
// blocks in row-major order, channels concatenated in format order.

func lossyForwardCoeffs(pixels []byte, w, h int, format ColorFormat, quality uint8) []int16 {
	channels := format.Channels()
	padW, padH := paddedDim(w, h)
	m := quantMatrix(quality)
	blocksX := padW / 8
	blocksY := padH / 8

	perChannel := make([][]int16, channels)
	parallelBlocks(channels, func(c int) {
		plane := extractChannelPlane(pixels, w, h, channels, c, padW, padH)
		out := make([]int16, 0, blocksX*blocksY*64)
		for by := 0; by < blocksY; by++ {
			for bx := 0; bx < blocksX; bx++ {
				var block [64]byte
				for yy := 0; yy < 8; yy++ {
					srcOff := (by*8+yy)*padW + bx*8
					copy(block[yy*8:yy*8+8], plane[srcOff:srcOff+8])
				}
				coef := forwardDCT8x8(block)
				q := quantize(coef, m)
				out = append(out, q[:]...)
			}
		}
		perChannel[c] = out
	})

	coeffs := make([]int16, 0, channels*blocksX*blocksY*64)
	for c := 0; c < channels; c++ {
		coeffs = append(coeffs, perChannel[c]...)
	}
	return coeffs
}

func lossyInverseCoeffs(coeffs []int16, w, h int, format ColorFormat, quality uint8) []byte {
	channels := format.Channels()
	padW, padH := paddedDim(w, h)
	m := quantMatrix(quality)
	blocksX := padW / 8
	blocksY := padH / 8

	// A chunk recovered from a BadElement error (§7) may yield a
	// shorter varint stream than the image needs; pad the coefficient
	// stream with zeros rather than let the block loop below index
	// past the end of a truncated slice.
	want := channels * blocksX * blocksY * 64
	if len(coeffs) < want {
		padded := make([]int16, want)
		copy(padded, coeffs)
		coeffs = padded
	}

	pixels := make([]byte, w*h*channels)
	blocksPerChannel := blocksX * blocksY * 64
	parallelBlocks(channels, func(c int) {
		base := c * blocksPerChannel
		plane := make([]byte, padW*padH)
		idx := base
		for by := 0; by < blocksY; by++ {
			for bx := 0; bx < blocksX; bx++ {
				var q [64]int16
				copy(q[:], coeffs[idx:idx+64])
				idx += 64
				dq := dequantize(q, m)
				block := inverseDCT8x8(dq)
				for yy := 0; yy < 8; yy++ {
					dstOff := (by*8+yy)*padW + bx*8
					copy(plane[dstOff:dstOff+8], block[yy*8:yy*8+8])
				}
			}
		}
		writeChannelPlane(pixels, plane, w, h, channels, c, padW)
	})
	return pixels
}

func extractChannelPlane(pixels []byte, w, h, channels, c, padW, padH int) []byte {
	plane := make([]byte, padW*padH)
	for y := 0; y < h; y++ {
		srcRow := pixels[y*w*channels : (y+1)*w*channels]
		dstRow := plane[y*padW : y*padW+w]
		for x := 0; x < w; x++ {
			dstRow[x] = srcRow[x*channels+c]
		}
	}
	return plane
}

func writeChannelPlane(pixels, plane []byte, w, h, channels, c, padW int) {
	for y := 0; y < h; y++ {
		dstRow := pixels[y*w*channels : (y+1)*w*channels]
		srcRow := plane[y*padW : y*padW+w]
		for x := 0; x < w; x++ {
			dstRow[x*channels+c] = srcRow[x]
		}
	}
}

// lossyForward runs the full lossy pipeline: DCT+quantize every
// channel's padded blocks, then serialize the coefficient stream as
// zig-zag varints (§4.F) for the entropy coder.
func lossyForward(pixels []byte, w, h int, format ColorFormat, quality uint8) []byte {
	coeffs := lossyForwardCoeffs(pixels, w, h, format, quality)
	return serializeVarints(coeffs)
}

// lossyInverse reverses lossyForward.
func lossyInverse(payload []byte, w, h int, format ColorFormat, quality uint8) []byte {
	coeffs := deserializeVarints(payload)
	return lossyInverseCoeffs(coeffs, w, h, format, quality)
}

// zigzagEncode16 maps a signed 16-bit coefficient to an unsigned value
// via the standard zig-zag scheme (§4.F, GLOSSARY).
func zigzagEncode16(n int16) uint32 {
	return uint32((uint16(n) << 1) ^ uint16(n>>15))
}

// zigzagDecode16 reverses zigzagEncode16.
func zigzagDecode16(zz uint32) int16 {
	return int16(int32(zz>>1) ^ -int32(zz&1))
}

func appendVarint(buf []byte, v uint32) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v&0x7f)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

func readVarint(data []byte, pos int) (uint32, int) {
	var result uint32
	var shift uint
	for pos < len(data) {
		b := data[pos]
		pos++
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	return result, pos
}

// serializeVarints encodes a stream of i16 coefficients as
// concatenated zig-zag varints.
func serializeVarints(coeffs []int16) []byte {
	buf := make([]byte, 0, len(coeffs)*2)
	for _, c := range coeffs {
		buf = appendVarint(buf, zigzagEncode16(c))
	}
	return buf
}

// deserializeVarints parses a zig-zag varint stream back into i16
// coefficients, until the buffer is exhausted.
func deserializeVarints(data []byte) []int16 {
	var out []int16
	pos := 0
	for pos < len(data) {
		var v uint32
		v, pos = readVarint(data, pos)
		out = append(out, zigzagDecode16(v))
	}
	return out
}

// parallelBlocks is a small helper used by callers that want to fan
// the per-channel DCT/IDCT passes of lossyForwardCoeffs /
// lossyInverseCoeffs out across goroutines (§5); channels are
// independent of one another, so each channel's plane can be
// processed concurrently and assembled back in channel order.
func parallelBlocks(n int, fn func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			fn(i)
		}()
	}
	wg.Wait()
}
