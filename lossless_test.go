package sqp

import "testing"

func TestBlockHeight(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 2: 1, 3: 1, 4: 2, 9: 3, 10: 4}
	for h, want := range cases {
		if got := blockHeight(h); got != want {
			t.Errorf("blockHeight(%d) = %d, want %d", h, got, want)
		}
	}
}

func TestDifferenceRowsRoundTrip(t *testing.T) {
	h, stride := 9, 4
	rows := make([]byte, h*stride)
	for i := range rows {
		rows[i] = byte(i*37 + 5)
	}

	diffed := differenceRows(rows, h, stride)
	back := undifferenceRows(diffed, h, stride)
	for i := range rows {
		if back[i] != rows[i] {
			t.Fatalf("byte %d: got %d, want %d", i, back[i], rows[i])
		}
	}
}

func TestDifferenceRowsBandStartIsVerbatim(t *testing.T) {
	h, stride := 6, 2
	rows := make([]byte, h*stride)
	for i := range rows {
		rows[i] = byte(100 + i)
	}
	bh := blockHeight(h)
	diffed := differenceRows(rows, h, stride)
	for y := 0; y < h; y++ {
		if y%bh == 0 {
			for i := 0; i < stride; i++ {
				if diffed[y*stride+i] != rows[y*stride+i] {
					t.Errorf("band-start row %d should be verbatim", y)
				}
			}
		}
	}
}

func TestSplitMergeAlphaPlanesRoundTrip(t *testing.T) {
	w, h, channels, alphaIdx := 3, 4, 4, 3
	pixels := make([]byte, w*h*channels)
	for i := range pixels {
		pixels[i] = byte(i * 7)
	}

	nonAlpha, alpha := splitAlphaPlanes(pixels, w, h, channels, alphaIdx)
	back := mergeAlphaPlanes(nonAlpha, alpha, w, h, channels, alphaIdx)
	for i := range pixels {
		if back[i] != pixels[i] {
			t.Fatalf("byte %d: got %d, want %d", i, back[i], pixels[i])
		}
	}
}

func TestLosslessForwardInverseRoundTripRgba(t *testing.T) {
	w, h := 4, 7
	pixels := make([]byte, w*h*4)
	for i := range pixels {
		pixels[i] = byte(i*13 + 1)
	}

	payload := losslessForward(pixels, w, h, Rgba8)
	back := losslessInverse(payload, w, h, Rgba8)
	for i := range pixels {
		if back[i] != pixels[i] {
			t.Fatalf("byte %d: got %d, want %d", i, back[i], pixels[i])
		}
	}
}

func TestLosslessForwardInverseRoundTripRgb(t *testing.T) {
	w, h := 5, 5
	pixels := make([]byte, w*h*3)
	for i := range pixels {
		pixels[i] = byte(255 - i)
	}

	payload := losslessForward(pixels, w, h, Rgb8)
	back := losslessInverse(payload, w, h, Rgb8)
	for i := range pixels {
		if back[i] != pixels[i] {
			t.Fatalf("byte %d: got %d, want %d", i, back[i], pixels[i])
		}
	}
}

func TestTiny2x2RgbaLosslessRoundTrip(t *testing.T) {
	pixels := []byte{
		0xFF, 0xFF, 0xFF, 0xFF,
		0x00, 0x80, 0x00, 0x80,
		0xFF, 0xFF, 0xFF, 0xFF,
		0x00, 0x80, 0x00, 0x80,
	}
	payload := losslessForward(pixels, 2, 2, Rgba8)
	back := losslessInverse(payload, 2, 2, Rgba8)
	for i := range pixels {
		if back[i] != pixels[i] {
			t.Fatalf("byte %d: got %#x, want %#x", i, back[i], pixels[i])
		}
	}
}
