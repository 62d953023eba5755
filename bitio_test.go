package sqp

import "testing"

func TestBitWriterReaderRoundTrip(t *testing.T) {
	cases := []struct {
		value uint64
		bits  int
	}{
		{0, 1},
		{1, 1},
		{0x7FFF, 15},
		{0x8000, 16},
		{0x3FFFD, 18},
		{0xFF, 8},
		{0xFFFFFFFFFFFFFFFF, 64},
		{12345, 24},
	}

	w := NewBitWriter()
	for _, c := range cases {
		if err := w.WriteBits(c.value, c.bits); err != nil {
			t.Fatalf("WriteBits(%d, %d): %v", c.value, c.bits, err)
		}
	}
	w.Flush()

	r := NewBitReader(w.Bytes())
	for i, c := range cases {
		got, err := r.ReadBits(c.bits)
		if err != nil {
			t.Fatalf("case %d: ReadBits(%d): %v", i, c.bits, err)
		}
		want := c.value
		if c.bits < 64 {
			want &= (uint64(1) << uint(c.bits)) - 1
		}
		if got != want {
			t.Errorf("case %d: got %#x, want %#x", i, got, want)
		}
	}
}

func TestBitWriterByteAlignedFastPath(t *testing.T) {
	w := NewBitWriter()
	if err := w.WriteBits(0x0201, 16); err != nil {
		t.Fatal(err)
	}
	w.Flush()
	got := w.Bytes()
	want := []byte{0x01, 0x02}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBitWriterFlushPadsHighBits(t *testing.T) {
	w := NewBitWriter()
	if err := w.WriteBits(0x5, 3); err != nil { // 0b101
		t.Fatal(err)
	}
	w.Flush()
	got := w.Bytes()
	if len(got) != 1 {
		t.Fatalf("expected 1 byte, got %d", len(got))
	}
	if got[0] != 0x5 {
		t.Errorf("got %#x, want %#x", got[0], 0x5)
	}
}

func TestBitWriterRejectsOutOfRangeN(t *testing.T) {
	w := NewBitWriter()
	if err := w.WriteBits(0, 0); err == nil {
		t.Error("expected error for n=0")
	}
	if err := w.WriteBits(0, 65); err == nil {
		t.Error("expected error for n=65")
	}
}

func TestBitReaderByteOffsetTracksConsumption(t *testing.T) {
	w := NewBitWriter()
	_ = w.WriteBits(0x1234, 16)
	_ = w.WriteBits(0x56, 8)
	w.Flush()

	r := NewBitReader(w.Bytes())
	if _, err := r.ReadBits(16); err != nil {
		t.Fatal(err)
	}
	if off := r.ByteOffset(); off != 2 {
		t.Errorf("expected byte offset 2 after reading 16 bits, got %d", off)
	}
}

func TestBitLSBFirstPacking(t *testing.T) {
	// Writing the single bits 1,0,1,1,0,0,0,0 (n=1 each) should pack
	// LSB-first: bit 0 of the byte is the first bit written.
	w := NewBitWriter()
	bits := []uint64{1, 0, 1, 1, 0, 0, 0, 0}
	for _, b := range bits {
		if err := w.WriteBits(b, 1); err != nil {
			t.Fatal(err)
		}
	}
	w.Flush()
	got := w.Bytes()
	if len(got) != 1 {
		t.Fatalf("expected 1 byte, got %d", len(got))
	}
	want := byte(0)
	for i, b := range bits {
		want |= byte(b) << uint(i)
	}
	if got[0] != want {
		t.Errorf("got %08b, want %08b", got[0], want)
	}
}
