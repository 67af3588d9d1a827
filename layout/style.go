package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseColor accepts #rgb, #rrggbb and #rrggbbaa. Alpha is ignored.
func ParseColor(value string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 && len(v) != 8 {
		return Color{}, fmt.Errorf("layout: cannot parse colour %q", value)
	}
	var c [3]int
	for i := range c {
		n, err := strconv.ParseUint(v[2*i:2*i+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("layout: cannot parse colour %q: %w", value, err)
		}
		c[i] = int(n)
	}
	return Color{R: c[0], G: c[1], B: c[2]}, nil
}

// ParseAlign maps an alignment keyword to an Align. start and end are
// accepted as aliases for left and right.
func ParseAlign(value string) (Align, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "left", "start":
		return AlignLeft, true
	case "right", "end":
		return AlignRight, true
	case "center", "centre", "middle":
		return AlignCenter, true
	case "justify", "justified":
		return AlignJustify, true
	}
	return "", false
}
