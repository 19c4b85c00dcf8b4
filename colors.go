package sacred

import (
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/gogpu/gg"
	"github.com/soypat/glgl/math/ms1"
)

// RGB is an 8-bit-per-channel opaque color, the palette unit of both
// symbols. It implements [image/color.Color].
type RGB struct {
	R, G, B uint8
}

var (
	black = RGB{}
	white = RGB{R: 255, G: 255, B: 255}
)

func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// GG converts the color to gg's floating point representation.
func (c RGB) GG() gg.RGBA {
	return gg.RGB(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

// Pattern returns a solid fill source of the color.
func (c RGB) Pattern() gg.Pattern { return gg.NewSolidPattern(c.GG()) }

// InvertRGB inverts each component. Involutive.
func InvertRGB(c RGB) RGB {
	return RGB{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
}

// PolarHue derives a counterpart color by inverting the hue channel in
// HLS space. Applying it twice returns the original color within
// 8-bit rounding.
func PolarHue(c RGB) RGB {
	h, l, s := RGBToHLS(c)
	return HLSToRGB(1-h, l, s)
}

// PolarLightness inverts the lightness channel in HLS space.
func PolarLightness(c RGB) RGB {
	h, l, s := RGBToHLS(c)
	return HLSToRGB(h, 1-l, s)
}

// PolarSaturation inverts the saturation channel in HLS space.
func PolarSaturation(c RGB) RGB {
	h, l, s := RGBToHLS(c)
	return HLSToRGB(h, l, 1-s)
}

// RGBToHLS converts to hue, lightness and saturation, all on [0, 1].
func RGBToHLS(c RGB) (h, l, s float32) {
	r := float32(c.R) / 255
	g := float32(c.G) / 255
	b := float32(c.B) / 255
	maxc := math32.Max(r, math32.Max(g, b))
	minc := math32.Min(r, math32.Min(g, b))
	l = (minc + maxc) / 2
	if minc == maxc {
		return 0, l, 0
	}
	d := maxc - minc
	if l <= 0.5 {
		s = d / (maxc + minc)
	} else {
		s = d / (2 - maxc - minc)
	}
	rc := (maxc - r) / d
	gc := (maxc - g) / d
	bc := (maxc - b) / d
	switch maxc {
	case r:
		h = bc - gc
	case g:
		h = 2 + rc - bc
	default:
		h = 4 + gc - rc
	}
	return modOne(h / 6), l, s
}

// HLSToRGB converts hue, lightness and saturation on [0, 1] back to an
// 8-bit color. Channel values truncate.
func HLSToRGB(h, l, s float32) RGB {
	l = ms1.Clamp(l, 0, 1)
	s = ms1.Clamp(s, 0, 1)
	if s == 0 {
		v := uint8(l * 255)
		return RGB{R: v, G: v, B: v}
	}
	var m2 float32
	if l <= 0.5 {
		m2 = l * (1 + s)
	} else {
		m2 = l + s - l*s
	}
	m1 := 2*l - m2
	return RGB{
		R: uint8(hlsChannel(m1, m2, h+1./3) * 255),
		G: uint8(hlsChannel(m1, m2, h) * 255),
		B: uint8(hlsChannel(m1, m2, h-1./3) * 255),
	}
}

func hlsChannel(m1, m2, hue float32) float32 {
	hue = modOne(hue)
	switch {
	case hue < 1./6:
		return m1 + (m2-m1)*hue*6
	case hue < 0.5:
		return m2
	case hue < 2./3:
		return m1 + (m2-m1)*(2./3-hue)*6
	}
	return m1
}

func modOne(x float32) float32 {
	x = math32.Mod(x, 1)
	if x < 0 {
		x++
	}
	return x
}

// randomPalette fills dst with uniform random colors.
func randomPalette(rng *rand.Rand, dst []RGB) {
	for i := range dst {
		dst[i] = RGB{
			R: uint8(rng.Intn(256)),
			G: uint8(rng.Intn(256)),
			B: uint8(rng.Intn(256)),
		}
	}
}

// MeanRGB returns the component-wise integer-truncated mean.
func MeanRGB(colors []RGB) RGB {
	if len(colors) == 0 {
		return RGB{}
	}
	var r, g, b int
	for _, c := range colors {
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
	}
	n := len(colors)
	return RGB{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n)}
}
