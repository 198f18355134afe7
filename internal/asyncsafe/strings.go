package asyncsafe

// Length returns the number of bytes before the first NUL in s.
// A nil buffer has length 0.
func Length(s []byte) int {
	for i, c := range s {
		if c == 0 {
			return i
		}
	}
	return len(s)
}

// Copy copies the terminated value in src, terminator included, into dst and
// returns the index of the terminator written to dst. Chained appends pass
// dst[end:] to the next Copy.
//
// If dst is too small the value is cut so that the terminator still fits; an
// empty dst returns 0 without writing.
func Copy(dst, src []byte) int {
	if len(dst) == 0 {
		return 0
	}
	n := Length(src)
	if n > len(dst)-1 {
		n = len(dst) - 1
	}
	copy(dst, src[:n])
	dst[n] = 0
	return n
}

// Equal reports whether the terminated values a and b are identical.
// Two nil buffers are equal; a nil and a non-nil buffer are not.
func Equal(a, b []byte) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	la, lb := Length(a), Length(b)
	if la != lb {
		return false
	}
	for i := 0; i < la; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// EqualPrefix reports whether the first n bytes of the terminated values a and
// b match. Comparison stops early at a terminator present in both.
func EqualPrefix(a, b []byte, n int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	for i := 0; i < n; i++ {
		ca, cb := byteAt(a, i), byteAt(b, i)
		if ca != cb {
			return false
		}
		if ca == 0 {
			return true
		}
	}
	return true
}

func byteAt(s []byte, i int) byte {
	if i >= len(s) {
		return 0
	}
	return s[i]
}

// Builder appends strings and integers into a caller-owned fixed buffer.
// Writes past the end are dropped and recorded in Truncated; the buffer always
// stays terminated.
type Builder struct {
	buf       []byte
	n         int
	Truncated bool
}

// NewBuilder wraps buf. The zero-length buffer is valid and drops everything.
func NewBuilder(buf []byte) Builder {
	b := Builder{buf: buf}
	if len(buf) > 0 {
		buf[0] = 0
	}
	return b
}

// String appends s.
func (b *Builder) String(s string) *Builder {
	if len(b.buf) == 0 {
		b.Truncated = b.Truncated || s != ""
		return b
	}
	room := len(b.buf) - 1 - b.n
	if len(s) > room {
		s = s[:room]
		b.Truncated = true
	}
	b.n += copy(b.buf[b.n:], s)
	b.buf[b.n] = 0
	return b
}

func (b *Builder) raw(p []byte) *Builder {
	if len(b.buf) == 0 {
		b.Truncated = b.Truncated || len(p) > 0
		return b
	}
	room := len(b.buf) - 1 - b.n
	if len(p) > room {
		p = p[:room]
		b.Truncated = true
	}
	b.n += copy(b.buf[b.n:], p)
	b.buf[b.n] = 0
	return b
}

// Int appends the decimal form of x.
func (b *Builder) Int(x int64) *Builder {
	var tmp [IntBufSize]byte
	n := IntegerToDecimal(tmp[:], x)
	return b.raw(tmp[:n])
}

// Hex appends x as 0x-prefixed hex, zero padded to width digits.
func (b *Builder) Hex(x uint64, width int) *Builder {
	var tmp [HexBufSize]byte
	n := HexToBuffer(tmp[:], x, width)
	return b.raw(tmp[:n])
}

// Bytes returns the built value without the terminator.
func (b *Builder) Bytes() []byte { return b.buf[:b.n] }

// Len returns the built length.
func (b *Builder) Len() int { return b.n }
