package export

import (
	"strconv"
	"strings"
)

// hexChannel parses one 2-digit channel, tolerating malformed input.
func hexChannel(s string) int {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return int(v)
}

// hexToRGB converts "#RRGGBB" to channel values. Malformed colors resolve
// to black rather than failing a render.
func hexToRGB(color string) (int, int, int) {
	c := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if len(c) != 6 {
		return 0, 0, 0
	}
	return hexChannel(c[0:2]), hexChannel(c[2:4]), hexChannel(c[4:6])
}

// hexNoHash normalizes a theme color to the bare upper-case "RRGGBB" form
// used inside package XML. Malformed values fall back to black.
func hexNoHash(color string) string {
	c := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(color), "#"))
	if len(c) != 6 {
		return "000000"
	}
	for _, r := range c {
		if (r < '0' || r > '9') && (r < 'A' || r > 'F') {
			return "000000"
		}
	}
	return c
}
