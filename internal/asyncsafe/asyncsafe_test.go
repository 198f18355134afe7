package asyncsafe

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []byte
		want int
	}{
		{"nil", nil, 0},
		{"empty", []byte{}, 0},
		{"terminated", []byte("abc\x00def"), 3},
		{"unterminated", []byte("abcd"), 4},
		{"leading terminator", []byte{0, 'a'}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Length(tt.in))
		})
	}
}

func TestCopy_ReturnsTerminatorIndex(t *testing.T) {
	t.Parallel()

	var buf [32]byte
	end := Copy(buf[:], []byte("hello\x00ignored"))
	require.Equal(t, 5, end)
	assert.Equal(t, byte(0), buf[end])

	end += Copy(buf[end:], []byte(", world"))
	assert.Equal(t, "hello, world", string(buf[:end]))
	assert.Equal(t, byte(0), buf[end])
}

func TestCopy_TruncatesToFit(t *testing.T) {
	t.Parallel()

	var buf [4]byte
	end := Copy(buf[:], []byte("abcdef"))
	assert.Equal(t, 3, end)
	assert.Equal(t, "abc", string(buf[:end]))
	assert.Equal(t, byte(0), buf[3])

	assert.Equal(t, 0, Copy(nil, []byte("x")))
}

func TestEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, []byte("a")))
	assert.False(t, Equal([]byte("a"), nil))
	assert.True(t, Equal([]byte("abc\x00x"), []byte("abc")))
	assert.False(t, Equal([]byte("abc"), []byte("abd")))
	assert.False(t, Equal([]byte("ab"), []byte("abc")))
}

func TestEqualPrefix(t *testing.T) {
	t.Parallel()

	assert.True(t, EqualPrefix(nil, nil, 3))
	assert.False(t, EqualPrefix(nil, []byte("a"), 1))
	assert.True(t, EqualPrefix([]byte("PATH=/bin"), []byte("PATH"), 4))
	assert.False(t, EqualPrefix([]byte("PATH=/bin"), []byte("PATX"), 4))
	assert.True(t, EqualPrefix([]byte("ab"), []byte("ab\x00zz"), 10))
	assert.True(t, EqualPrefix([]byte("abc"), []byte("xyz"), 0))
}

func TestEnvironmentLookup(t *testing.T) {
	t.Parallel()

	block := []string{"HOME=/root", "PATH=/bin:/usr/bin", "EMPTY=", "PATHX=no", "HOME=/second"}

	v, ok := EnvironmentLookup(block, "PATH")
	assert.True(t, ok)
	assert.Equal(t, "/bin:/usr/bin", v)

	v, ok = EnvironmentLookup(block, "HOME")
	assert.True(t, ok)
	assert.Equal(t, "/root", v, "first match wins")

	v, ok = EnvironmentLookup(block, "EMPTY")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = EnvironmentLookup(block, "PAT")
	assert.False(t, ok)
	_, ok = EnvironmentLookup(block, "")
	assert.False(t, ok)
	_, ok = EnvironmentLookup(nil, "HOME")
	assert.False(t, ok)
}

func TestGetenv_UsesSnapshot(t *testing.T) {
	t.Setenv("ASYNCSAFE_TEST_VAR", "one")
	RefreshEnviron()
	t.Cleanup(RefreshEnviron)

	v, ok := Getenv("ASYNCSAFE_TEST_VAR")
	require.True(t, ok)
	assert.Equal(t, "one", v)

	setEnviron([]string{"ASYNCSAFE_TEST_VAR=two"})
	v, ok = Getenv("ASYNCSAFE_TEST_VAR")
	require.True(t, ok)
	assert.Equal(t, "two", v)
	assert.Equal(t, []string{"ASYNCSAFE_TEST_VAR=two"}, Environ())
}

func TestIntegerToDecimal(t *testing.T) {
	t.Parallel()

	values := []int64{0, 7, -7, 10, 4242, -100000, math.MaxInt64, math.MinInt64, math.MinInt64 + 1}
	for _, x := range values {
		var buf [IntBufSize]byte
		n := IntegerToDecimal(buf[:], x)
		want := strconv.FormatInt(x, 10)
		assert.Equal(t, want, string(buf[:n]), "value %d", x)
		assert.Equal(t, len(want), DecimalDigitCount(x), "digit count for %d", x)
		assert.Equal(t, byte(0), buf[n], "terminator for %d", x)
	}
}

func TestIntegerToDecimal_MinInt64FitsStaticBuffer(t *testing.T) {
	t.Parallel()

	var buf [IntBufSize]byte
	n := IntegerToDecimal(buf[:], math.MinInt64)
	assert.Equal(t, "-9223372036854775808", string(buf[:n]))
	assert.Less(t, n, IntBufSize)
}

func TestIntegerToDecimal_ShortBuffer(t *testing.T) {
	t.Parallel()

	var buf [3]byte
	assert.Equal(t, 0, IntegerToDecimal(buf[:], 12345))
	assert.Equal(t, byte(0), buf[0])
	assert.Equal(t, 0, IntegerToDecimal(nil, 1))
}

func TestHexToBuffer(t *testing.T) {
	t.Parallel()

	var buf [HexBufSize]byte
	n := HexToBuffer(buf[:], 0x401234, 16)
	assert.Equal(t, "0x0000000000401234", string(buf[:n]))

	n = HexToBuffer(buf[:], 0x10, 0)
	assert.Equal(t, "0x10", string(buf[:n]))

	n = HexToBuffer(buf[:], 0, 0)
	assert.Equal(t, "0x0", string(buf[:n]))

	n = HexToBuffer(buf[:], math.MaxUint64, 32)
	assert.Equal(t, "0xffffffffffffffff", string(buf[:n]))
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	var buf [64]byte
	b := NewBuilder(buf[:])
	b.String("pid ").Int(-12).String(" at ").Hex(0xbeef, 8)
	assert.Equal(t, "pid -12 at 0x0000beef", string(b.Bytes()))
	assert.False(t, b.Truncated)

	var small [6]byte
	s := NewBuilder(small[:])
	s.String("abc").String("defgh")
	assert.Equal(t, "abcde", string(s.Bytes()))
	assert.True(t, s.Truncated)
	assert.Equal(t, byte(0), small[5])
}

func TestItoa(t *testing.T) {
	t.Parallel()

	var buf [IntBufSize]byte
	assert.Equal(t, "4242", Itoa(&buf, 4242))
}

func TestNoAllocations(t *testing.T) {
	block := []string{"A=1", "POSTMORTEM_HANDLER=/bin/true"}
	src := []byte("some message\x00")
	var dst [64]byte
	var num [IntBufSize]byte

	allocs := testing.AllocsPerRun(100, func() {
		_ = Length(src)
		end := Copy(dst[:], src)
		_ = Copy(dst[end:], src[:4])
		_ = Equal(src, dst[:])
		_ = EqualPrefix(src, dst[:], 4)
		_, _ = EnvironmentLookup(block, "POSTMORTEM_HANDLER")
		_, _ = Getenv("HOME")
		_ = IntegerToDecimal(num[:], math.MinInt64)
		_ = Itoa(&num, 99)
		b := NewBuilder(dst[:])
		b.String("x").Int(1).Hex(2, 4)
	})
	assert.Zero(t, allocs)
}
