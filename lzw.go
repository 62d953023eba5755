package sqp

/*
lzw.go

The chunked, dual-width LZW entropy codec (§4.C). The encoder loop
below keeps the teacher's LZWEncoder.compress shape — a running
"current matched element" plus a dictionary that grows by exactly one
entry per emitted code — but replaces the teacher's GIF-style
ever-widening single code width with SQP's fixed 15-bit/18-bit choice,
signalled by a leading flag bit, and its chunk-at-dictionary-ceiling
framing instead of GIF's clear-code reset.
*/

import (
	"log"
	"sync"

	"github.com/pkg/errors"
)

const (
	// lzwCodeLimit is the dictionary ceiling (§4.C): once next_code
	// reaches this value, the current chunk is closed.
	lzwCodeLimit = 0x3FFFE

	// lzwInitNextCode is the encoder's first assignable code. Code 256
	// is deliberately left unused (§9) to match existing files.
	lzwInitNextCode = 257

	// lzwDecodeInitNextCode is the decoder's first assignable code.
	lzwDecodeInitNextCode = 256

	lzw15BitMax = 0x7FFF
)

func writeLZWCode(bw *BitWriter, code int) error {
	if code > lzw15BitMax {
		if err := bw.WriteBits(1, 1); err != nil {
			return err
		}
		return bw.WriteBits(uint64(code), 18)
	}
	if err := bw.WriteBits(0, 1); err != nil {
		return err
	}
	return bw.WriteBits(uint64(code), 15)
}

func readLZWCode(br *BitReader) (int, error) {
	flag, err := br.ReadBits(1)
	if err != nil {
		return 0, err
	}
	if flag == 1 {
		v, err := br.ReadBits(18)
		return int(v), err
	}
	v, err := br.ReadBits(15)
	return int(v), err
}

// compressLZW runs the chunked LZW encoder over the whole payload and
// returns the chunk index plus the concatenated compressed payload.
func compressLZW(payload []byte) (CompressionInfo, []byte, error) {
	if len(payload) == 0 {
		return CompressionInfo{}, nil, ErrNoChunks
	}

	var chunks []ChunkInfo
	var out []byte

	consumed := 0
	for consumed < len(payload) {
		body, sizeRaw, err := encodeLZWChunk(payload[consumed:])
		if err != nil {
			return CompressionInfo{}, nil, err
		}
		if sizeRaw == 0 {
			// Defensive: a chunk that consumes nothing would loop
			// forever. This cannot happen given lzwCodeLimit's
			// distance from lzwInitNextCode, but fail loudly rather
			// than spin if it ever did.
			return CompressionInfo{}, nil, errors.New("sqp: lzw encoder made no progress")
		}
		chunks = append(chunks, ChunkInfo{
			SizeCompressed: uint32(len(body)),
			SizeRaw:        uint32(sizeRaw),
		})
		out = append(out, body...)
		consumed += sizeRaw
	}

	if len(chunks) == 0 {
		return CompressionInfo{}, nil, ErrNoChunks
	}
	return CompressionInfo{Chunks: chunks}, out, nil
}

// encodeLZWChunk encodes as much of data as fits in one dictionary
// generation, starting from a freshly-initialized 256-entry
// dictionary. It returns the compressed bytes and the number of input
// bytes fully committed (covered by an emitted code). Any trailing
// bytes of data beyond sizeRaw were not consumed and must be
// re-offered, prepended to later input, to the next chunk.
func encodeLZWChunk(data []byte) (payload []byte, sizeRaw int, err error) {
	dict := make(map[string]int, 512)
	for i := 0; i < 256; i++ {
		dict[string([]byte{byte(i)})] = i
	}
	nextCode := lzwInitNextCode

	bw := NewBitWriter()
	var element []byte
	committed := 0
	i := 0

	for i < len(data) {
		c := data[i]
		candidate := append(append([]byte{}, element...), c)
		if _, ok := dict[string(candidate)]; ok {
			element = candidate
			i++
			continue
		}

		if nextCode == lzwCodeLimit {
			// Dictionary exhausted: close the chunk here. The byte
			// that triggered this, and the unmatched element built so
			// far, are left unconsumed for the next chunk.
			break
		}

		code, ok := dict[string(element)]
		if !ok {
			return nil, 0, errors.Errorf("sqp: lzw encoder: element %q missing from dictionary", element)
		}
		if err := writeLZWCode(bw, code); err != nil {
			return nil, 0, err
		}
		dict[string(candidate)] = nextCode
		nextCode++
		committed += len(element)
		element = []byte{c}
		i++
	}

	if i == len(data) {
		// Input exhausted normally: flush the final matched element.
		if len(element) > 0 {
			if code, ok := dict[string(element)]; ok {
				if err := writeLZWCode(bw, code); err != nil {
					return nil, 0, err
				}
				committed += len(element)
			} else {
				// Empty-output fallback (§4.C): should not occur,
				// since element is always a dictionary member by
				// construction, but handled for robustness.
				for _, b := range element {
					if err := writeLZWCode(bw, int(b)); err != nil {
						return nil, 0, err
					}
					committed++
				}
			}
		}
	}

	bw.Flush()
	return bw.Bytes(), committed, nil
}

// decompressLZW reverses compressLZW: it decodes each chunk
// independently (in parallel, one goroutine per chunk) and concatenates the results
// in index order.
func decompressLZW(ci CompressionInfo, payload []byte, logger *log.Logger) ([]byte, error) {
	if logger == nil {
		logger = log.Default()
	}

	results := make([][]byte, len(ci.Chunks))
	var wg sync.WaitGroup
	off := 0
	for idx, c := range ci.Chunks {
		idx, c, start := idx, c, off
		wg.Add(1)
		go func() {
			defer wg.Done()
			chunkPayload := payload[start : start+int(c.SizeCompressed)]
			out, err := decodeLZWChunk(chunkPayload, int(c.SizeRaw))
			if err != nil {
				var bad *BadElementError
				if errors.As(err, &bad) {
					logger.Printf("sqp: chunk %d: recovered from bad lzw element (code=%d offset=%d): kept %d of %d bytes, zero-padded the rest",
						idx, bad.Code, bad.Offset, len(bad.Partial), c.SizeRaw)
					out = padTo(bad.Partial, int(c.SizeRaw))
				} else {
					logger.Printf("sqp: chunk %d: decode failed: %v", idx, err)
					out = make([]byte, c.SizeRaw)
				}
			}
			results[idx] = out
		}()
		off += int(c.SizeCompressed)
	}
	wg.Wait()

	var total int
	for _, r := range results {
		total += len(r)
	}
	out := make([]byte, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func padTo(b []byte, n int) []byte {
	if len(b) >= n {
		return b[:n]
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// decodeLZWChunk decodes a single LZW chunk. On a BadElementError the
// partial output decoded so far is included on the error so the
// caller can pad and continue (§7).
func decodeLZWChunk(payload []byte, sizeRaw int) ([]byte, error) {
	dict := make(map[int][]byte, 512)
	for i := 0; i < 256; i++ {
		dict[i] = []byte{byte(i)}
	}
	nextCode := lzwDecodeInitNextCode

	br := NewBitReader(payload)
	w := dict[0]
	out := make([]byte, 0, sizeRaw)

	for {
		if br.ByteOffset() >= len(payload)-1 {
			break
		}
		code, err := readLZWCode(br)
		if err != nil {
			break
		}

		var entry []byte
		if e, ok := dict[code]; ok {
			entry = e
		} else if code == nextCode {
			entry = append(append([]byte{}, w...), w[0])
		} else {
			return out, &BadElementError{Partial: out, Code: code, Offset: br.ByteOffset()}
		}

		out = append(out, entry...)
		newEntry := append(append([]byte{}, w...), entry[0])
		dict[nextCode] = newEntry
		nextCode++
		w = entry
	}

	if len(out) > sizeRaw {
		out = out[:sizeRaw]
	}
	return out, nil
}
