package conv

// Alloc-free base-10 formatting for console output on MCU builds, where fmt
// is too heavy. Callers supply the scratch buffer.

// Itoa writes the base-10 representation of n into buf and returns the used
// slice. buf should be at least 20 bytes for int64.
func Itoa(buf []byte, n int64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	if n >= 0 {
		return Utoa(buf, uint64(n))
	}
	u := Utoa(buf[1:], uint64(-n))
	// Place the sign immediately before the digits.
	i := len(buf) - len(u) - 1
	buf[i] = '-'
	return buf[i:]
}

// Utoa writes the base-10 representation of n into buf and returns the used
// slice.
func Utoa(buf []byte, n uint64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
		return buf[i:]
	}
	for n > 0 && i > 0 {
		i--
		buf[i] = byte('0' + (n % 10))
		n /= 10
	}
	return buf[i:]
}
