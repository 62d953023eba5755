package sqp

/*
dct.go

The 8x8 type-II DCT/IDCT and JPEG-style quality-scaled quantization
table (§4.E). The final pixel reconstruction's round-and-clamp step
reuses the teacher's util.go clampFloat technique (clamp a float64 to
the [0,255] byte range), generalized here to add the +128 level shift
the DCT path needs.
*/

import "math"

// baseQuantMatrix is the standard JPEG luminance quantization matrix,
// in row-major 8x8 order (§6 constants).
var baseQuantMatrix = [64]int{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

// quantMatrix scales baseQuantMatrix for the given quality, 1..=100
// (§4.E). Every entry is clamped to a minimum of 1.
func quantMatrix(quality uint8) [64]int {
	q := int(quality)
	var factor int
	if q < 50 {
		factor = 5000 / q
	} else {
		factor = 200 - 2*q
	}

	var m [64]int
	for i, base := range baseQuantMatrix {
		v := (factor*base + 50) / 100
		if v < 1 {
			v = 1
		}
		m[i] = v
	}
	return m
}

var dctCosTable [8][8]float64

func init() {
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			dctCosTable[x][u] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16.0)
		}
	}
}

func dctC(k int) float64 {
	if k == 0 {
		return 1.0 / math.Sqrt(8)
	}
	return math.Sqrt(2) / math.Sqrt(8)
}

// forwardDCT8x8 computes the type-II DCT of an 8x8 block of pixel
// values, centered by subtracting 128 first.
func forwardDCT8x8(block [64]byte) [64]float64 {
	var centered [8][8]float64
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			centered[y][x] = float64(block[y*8+x]) - 128
		}
	}

	var out [64]float64
	for v := 0; v < 8; v++ {
		for u := 0; u < 8; u++ {
			sum := 0.0
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					sum += centered[y][x] * dctCosTable[x][u] * dctCosTable[y][v]
				}
			}
			out[v*8+u] = dctC(u) * dctC(v) * sum
		}
	}
	return out
}

// inverseDCT8x8 reconstructs an 8x8 pixel block from DCT coefficients,
// adding back the 128 level shift and clamping/rounding to u8.
func inverseDCT8x8(coef [64]float64) [64]byte {
	var out [64]byte
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			sum := 0.0
			for v := 0; v < 8; v++ {
				for u := 0; u < 8; u++ {
					sum += dctC(u) * dctC(v) * coef[v*8+u] * dctCosTable[x][u] * dctCosTable[y][v]
				}
			}
			out[y*8+x] = clampFloat(sum + 128)
		}
	}
	return out
}

// quantize rounds each DCT coefficient by its quantization table entry.
func quantize(coef [64]float64, m [64]int) [64]int16 {
	var out [64]int16
	for i, c := range coef {
		out[i] = int16(math.Round(c / float64(m[i])))
	}
	return out
}

// dequantize reverses quantize.
func dequantize(q [64]int16, m [64]int) [64]float64 {
	var out [64]float64
	for i, c := range q {
		out[i] = float64(c) * float64(m[i])
	}
	return out
}

// paddedDim pads w and h by 8 minus w's remainder mod 8 (§4.E),
// unconditionally — even when w is already a multiple of 8, in which
// case this adds a full extra block. Both the unconditional padding
// and the height computation reusing w's remainder rather than h's
// reproduce the reference codec's documented padding quirk (§9) so
// files it wrote remain decodable.
func paddedDim(w, h int) (padW, padH int) {
	pad := 8 - w%8
	return w + pad, h + pad
}
