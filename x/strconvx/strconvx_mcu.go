//go:build mcu

package strconvx

// Minimal base-10 Atoi for MCU builds; avoids pulling strconv's tables into
// flash. Accepts an optional leading sign.

type parseError struct{}

func (parseError) Error() string { return "invalid syntax" }

var errSyntax = parseError{}

func Atoi(s string) (int, error) {
	if s == "" {
		return 0, errSyntax
	}
	neg := false
	i := 0
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		i = 1
		if len(s) == 1 {
			return 0, errSyntax
		}
	}
	n := 0
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, errSyntax
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}
