package sqp

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel error kinds, per spec §7. Callers compare against these with
// errors.Is; every returned error carries a stack trace via
// github.com/pkg/errors so the sentinel survives wrapping.
var (
	// ErrInvalidIdentifier is returned when the 8-byte magic at the
	// start of a stream does not read "dangoimg".
	ErrInvalidIdentifier = errors.New("sqp: invalid file identifier")

	// ErrBadHeader is returned when the header names a compression
	// mode or color format outside the known enum range.
	ErrBadHeader = errors.New("sqp: bad header")

	// ErrNoChunks is returned by the LZW encoder when it is given
	// zero input bytes and therefore produces no chunks.
	ErrNoChunks = errors.New("sqp: compression produced no chunks")
)

// BadElementError is the LZW decoder's recoverable failure: a code was
// read that is neither in the dictionary nor the canonical
// self-reference case. The partial bytes already decoded for the
// current chunk, and the byte offset at which decoding stopped, are
// retained so the caller can pad and continue.
type BadElementError struct {
	Partial []byte
	Code    int
	Offset  int
}

func (e *BadElementError) Error() string {
	return fmt.Sprintf("sqp: bad lzw element: code=%d offset=%d partial=%d bytes", e.Code, e.Offset, len(e.Partial))
}

// wrapIO wraps an underlying reader/writer failure with a stack trace,
// or returns nil if err is nil.
func wrapIO(err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, context)
}
