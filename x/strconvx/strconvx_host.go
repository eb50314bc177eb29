//go:build !mcu

package strconvx

import "strconv"

// Host builds get the real strconv.

func Atoi(s string) (int, error) { return strconv.Atoi(s) }
