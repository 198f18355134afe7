package asyncsafe

import "unsafe"

// IntBufSize fits any int64 in decimal: sign, 19 digits, one byte of slack and
// the terminator.
const IntBufSize = 1 + 19 + 1 + 1

// HexBufSize fits "0x", 16 hex digits and the terminator.
const HexBufSize = 2 + 16 + 1

const hexDigits = "0123456789abcdef"

// DecimalDigitCount returns the number of bytes IntegerToDecimal writes for x,
// sign included, terminator excluded.
func DecimalDigitCount(x int64) int {
	n := 1
	u := uint64(x)
	if x < 0 {
		n++
		u = -u
	}
	for u >= 10 {
		u /= 10
		n++
	}
	return n
}

// IntegerToDecimal writes x in decimal followed by a terminator and returns the
// length without the terminator. buf must hold at least DecimalDigitCount(x)+1
// bytes; IntBufSize is always enough. A short buffer yields 0 and an empty,
// terminated value.
func IntegerToDecimal(buf []byte, x int64) int {
	n := DecimalDigitCount(x)
	if len(buf) < n+1 {
		if len(buf) > 0 {
			buf[0] = 0
		}
		return 0
	}
	// Negating through uint64 keeps math.MinInt64 exact.
	u := uint64(x)
	if x < 0 {
		u = -u
	}
	buf[n] = 0
	i := n - 1
	for {
		buf[i] = byte('0' + u%10)
		u /= 10
		if u == 0 {
			break
		}
		i--
	}
	if x < 0 {
		buf[0] = '-'
	}
	return n
}

// HexToBuffer writes x as "0x" followed by at least width lowercase hex digits
// and a terminator, returning the length without the terminator. width is
// clamped to 16. A short buffer yields 0.
func HexToBuffer(buf []byte, x uint64, width int) int {
	if width > 16 {
		width = 16
	}
	digits := 1
	for v := x >> 4; v != 0; v >>= 4 {
		digits++
	}
	if digits < width {
		digits = width
	}
	n := 2 + digits
	if len(buf) < n+1 {
		if len(buf) > 0 {
			buf[0] = 0
		}
		return 0
	}
	buf[0], buf[1] = '0', 'x'
	for i := n - 1; i >= 2; i-- {
		buf[i] = hexDigits[x&0xf]
		x >>= 4
	}
	buf[n] = 0
	return n
}

// Itoa formats x into buf and returns a string view of it. The view shares
// buf's memory and stays valid only as long as buf is not reused.
func Itoa(buf *[IntBufSize]byte, x int64) string {
	n := IntegerToDecimal(buf[:], x)
	return unsafeString(buf[:n])
}

func unsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}
