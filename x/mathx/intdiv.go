package mathx

// RoundDiv returns floor((a + b/2)/b), classic rounding for positives.
func RoundDiv[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}

// RoundUpMultiple rounds n up to the next multiple of m (m > 0).
func RoundUpMultiple(n, m int) int {
	if m <= 0 {
		return n
	}
	if r := n % m; r != 0 {
		n += m - r
	}
	return n
}
