package charset

import (
	"unicode/utf8"

	"github.com/GriffinCanCode/termhost/internal/shared/types"
)

// StreamDecoder decodes a byte stream delivered in arbitrary chunks.
// A multibyte UTF-8 sequence cut by a chunk boundary is held back until the
// rest of it arrives. Not safe for concurrent use.
type StreamDecoder struct {
	resolver *Resolver
	family   types.ShellFamily
	pending  []byte
}

// NewStreamDecoder creates a stream decoder for a shell family
func NewStreamDecoder(r *Resolver, family types.ShellFamily) *StreamDecoder {
	if r == nil {
		r = defaultResolver
	}
	return &StreamDecoder{resolver: r, family: family}
}

// Decode returns the text for chunk plus any bytes held back from the previous call
func (d *StreamDecoder) Decode(chunk []byte) string {
	buf := chunk
	if len(d.pending) > 0 {
		buf = append(d.pending, chunk...)
		d.pending = nil
	}

	cut := incompleteTail(buf)
	if cut > 0 {
		d.pending = append([]byte(nil), buf[len(buf)-cut:]...)
		buf = buf[:len(buf)-cut]
	}
	return d.resolver.Decode(buf, d.family)
}

// Flush returns whatever is still held back
func (d *StreamDecoder) Flush() string {
	buf := d.pending
	d.pending = nil
	return d.resolver.Decode(buf, d.family)
}

// incompleteTail returns the length of a truncated UTF-8 sequence at the end of b
func incompleteTail(b []byte) int {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(b); i++ {
		c := b[len(b)-i]
		if c < utf8.RuneSelf {
			return 0
		}
		if utf8.RuneStart(c) {
			if utf8.FullRune(b[len(b)-i:]) {
				return 0
			}
			return i
		}
	}
	return 0
}
