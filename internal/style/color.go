package style

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	hexPattern  = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	rgbaPattern = regexp.MustCompile(`^rgba\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*([^)\s]+)\s*\)$`)
)

// RGBA renders the colour as rgba(r,g,b,opacity). Hex pairs that cannot be
// decoded contribute 0.
func (c Color) RGBA() string {
	r, g, b := channels(c.Hex)
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", r, g, b, c.Opacity)
}

func channels(hex string) (int, int, int) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	return pair(h, 0), pair(h, 2), pair(h, 4)
}

func pair(h string, at int) int {
	if len(h) < at+2 {
		return 0
	}
	v, err := strconv.ParseUint(h[at:at+2], 16, 8)
	if err != nil {
		return 0
	}
	return int(v)
}

// ParseColor reads a CSS colour value found in a template. It accepts hex
// literals and the rgba(r,g,b,a) form written by the generator. The opacity
// is empty for hex input so that the caller keeps its current value. Hex
// literals keep their case; hex derived from rgba is lower case.
func ParseColor(value string) (Color, bool) {
	v := strings.TrimSpace(value)
	if hexPattern.MatchString(v) {
		return Color{Hex: v}, true
	}
	m := rgbaPattern.FindStringSubmatch(v)
	if m == nil {
		return Color{}, false
	}
	var rgb [3]int
	for i := range rgb {
		n, err := strconv.Atoi(m[i+1])
		if err != nil || n > 255 {
			return Color{}, false
		}
		rgb[i] = n
	}
	return Color{
		Hex:     fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2]),
		Opacity: m[4],
	}, true
}

// Merge overlays the non-empty fields of c on top of base.
func (c Color) Merge(base Color) Color {
	return Color{Hex: or(c.Hex, base.Hex), Opacity: or(c.Opacity, base.Opacity)}
}
