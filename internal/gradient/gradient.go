// Package gradient parses CSS-like color strings — hex, rgb(), and
// linear-gradient() with percentage stops — into fixed-size RGB palettes.
package gradient

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a single 8-bit-per-channel color.
type RGB [3]uint8

// Space selects how two adjacent stops are interpolated.
type Space int

const (
	// SpaceRGB interpolates each channel linearly — matches the original
	// CSS-gradient behavior exactly.
	SpaceRGB Space = iota
	// SpaceLab interpolates in CIE L*a*b* via go-colorful for a
	// perceptually even transition, avoiding the muddy midpoints linear
	// RGB interpolation produces between saturated hues.
	SpaceLab
)

type stop struct {
	pos   float32 // 0..1
	color RGB
}

var stopRe = regexp.MustCompile(`(#[0-9a-fA-F]{3,6}|rgb\(\s*\d+\s*,\s*\d+\s*,\s*\d+\s*\))\s+([\d.]+)%`)

// Parse turns gradientStr into a palette of size entries. A plain color
// (hex or rgb()) yields a solid palette; a "linear-gradient(...)" string is
// split into sorted percentage stops and interpolated across size in the
// given color space. Malformed input degrades to solid black, mirroring
// the original's fallback rather than panicking.
func Parse(gradientStr string, size int, space Space) []RGB {
	if !strings.HasPrefix(gradientStr, "linear-gradient") {
		color, ok := parseSingleColor(gradientStr)
		if !ok {
			color = RGB{0, 0, 0}
		}
		return solid(color, size)
	}

	stops := parseStops(gradientStr)
	if len(stops) == 0 {
		return solid(RGB{0, 0, 0}, size)
	}
	return interpolate(stops, size, space)
}

func solid(c RGB, size int) []RGB {
	out := make([]RGB, size)
	for i := range out {
		out[i] = c
	}
	return out
}

func parseSingleColor(s string) (RGB, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hex := strings.TrimPrefix(s, "#")
		switch len(hex) {
		case 6:
			r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
			g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
			b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
			if err1 != nil || err2 != nil || err3 != nil {
				return RGB{}, false
			}
			return RGB{uint8(r), uint8(g), uint8(b)}, true
		case 3:
			r, err1 := strconv.ParseUint(hex[0:1], 16, 8)
			g, err2 := strconv.ParseUint(hex[1:2], 16, 8)
			b, err3 := strconv.ParseUint(hex[2:3], 16, 8)
			if err1 != nil || err2 != nil || err3 != nil {
				return RGB{}, false
			}
			return RGB{uint8(r * 17), uint8(g * 17), uint8(b * 17)}, true
		default:
			return RGB{}, false
		}
	}
	if strings.HasPrefix(s, "rgb") {
		inner := strings.TrimSuffix(strings.TrimPrefix(s, "rgb("), ")")
		parts := strings.Split(inner, ",")
		if len(parts) != 3 {
			return RGB{}, false
		}
		var vals [3]uint8
		for i, p := range parts {
			n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return RGB{}, false
			}
			vals[i] = uint8(n)
		}
		return RGB(vals), true
	}
	return RGB{}, false
}

func parseStops(gradientStr string) []stop {
	matches := stopRe.FindAllStringSubmatch(gradientStr, -1)
	stops := make([]stop, 0, len(matches))
	for _, m := range matches {
		color, ok := parseSingleColor(m[1])
		if !ok {
			continue
		}
		pct, err := strconv.ParseFloat(m[2], 32)
		if err != nil {
			continue
		}
		stops = append(stops, stop{pos: float32(pct) / 100.0, color: color})
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].pos < stops[j].pos })
	return stops
}

func interpolate(stops []stop, size int, space Space) []RGB {
	if size == 0 {
		return nil
	}
	if len(stops) == 1 {
		return solid(stops[0].color, size)
	}
	out := make([]RGB, size)
	for i := 0; i < size; i++ {
		pos := float32(i) / float32(size-1)
		if size == 1 {
			pos = 0
		}
		endIdx := len(stops) - 1
		for j, s := range stops {
			if s.pos >= pos {
				endIdx = j
				break
			}
		}
		startIdx := endIdx
		if endIdx > 0 {
			startIdx = endIdx - 1
		}
		start, end := stops[startIdx], stops[endIdx]
		var t float32
		if abs(end.pos-start.pos) >= 1e-6 {
			t = (pos - start.pos) / (end.pos - start.pos)
		}
		out[i] = blend(start.color, end.color, t, space)
	}
	return out
}

func blend(a, b RGB, t float32, space Space) RGB {
	if space == SpaceLab {
		ca := colorful.Color{R: float64(a[0]) / 255, G: float64(a[1]) / 255, B: float64(a[2]) / 255}
		cb := colorful.Color{R: float64(b[0]) / 255, G: float64(b[1]) / 255, B: float64(b[2]) / 255}
		blended := ca.BlendLab(cb, float64(t)).Clamped()
		r, g, bl := blended.RGB255()
		return RGB{r, g, bl}
	}
	r := float32(a[0])*(1-t) + float32(b[0])*t
	g := float32(a[1])*(1-t) + float32(b[1])*t
	bch := float32(a[2])*(1-t) + float32(b[2])*t
	return RGB{uint8(r), uint8(g), uint8(bch)}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// HSVToRGB converts an HSV triple (h in [0,360), s and v in [0,1]) to RGB.
func HSVToRGB(h, s, v float32) RGB {
	c := v * s
	x := c * (1 - absf(modf(h/60.0, 2.0)-1.0))
	m := v - c
	var rp, gp, bp float32
	switch {
	case h >= 0 && h < 60:
		rp, gp, bp = c, x, 0
	case h >= 60 && h < 120:
		rp, gp, bp = x, c, 0
	case h >= 120 && h < 180:
		rp, gp, bp = 0, c, x
	case h >= 180 && h < 240:
		rp, gp, bp = 0, x, c
	case h >= 240 && h < 300:
		rp, gp, bp = x, 0, c
	default:
		rp, gp, bp = c, 0, x
	}
	return RGB{
		uint8((rp + m) * 255),
		uint8((gp + m) * 255),
		uint8((bp + m) * 255),
	}
}

func modf(x, y float32) float32 {
	for x >= y {
		x -= y
	}
	for x < 0 {
		x += y
	}
	return x
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
