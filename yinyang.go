package sacred

import (
	"image"
	"math"

	"github.com/chewxy/math32"
	"github.com/gogpu/gg"
)

// Yin-yang symbols draw supersampled by this factor. The fixed gap
// keeps the symbol off the image edge.
const (
	yyScale = 4
	yyGap   = 2
)

// YinYangMode selects how the two flow colors are derived and applied.
type YinYangMode uint8

const (
	// YinYangSolid uses both flow colors unchanged.
	YinYangSolid YinYangMode = iota
	// YinYangGradient applies the flow colors as opposed radial
	// gradients.
	YinYangGradient
	// YinYangPolarColor derives the second color by inverting the
	// first's RGB components.
	YinYangPolarColor
	// YinYangPolarHue inverts the first color's hue.
	YinYangPolarHue
	// YinYangPolarLightness inverts the first color's lightness.
	YinYangPolarLightness
	// YinYangPolarSaturation inverts the first color's saturation.
	YinYangPolarSaturation
	// YinYangPattern fills each flow with a tiled image.
	YinYangPattern
)

// YinYangConfig configures one yin-yang render. Immutable per render.
type YinYangConfig struct {
	// Diameter is the symbol diameter in pixels, on [80, 1000].
	Diameter float32
	Mode     YinYangMode
	// FlowColor1 fills the first flow. FlowColor2 fills the second in
	// solid and gradient modes; polar modes derive it from FlowColor1.
	FlowColor1, FlowColor2 RGB
	// RimColor colors the outside edge. The rim is skipped when
	// RimWidth is zero.
	RimColor RGB
	// Pattern1 and Pattern2 tile the flows in YinYangPattern mode.
	Pattern1, Pattern2 image.Image
	// RimWidth is the rim scale on [0, 20]. The rim reduces the flow
	// size.
	RimWidth float32
	// EyeDivisor sizes the eyes: eye radius = flow size / divisor,
	// on [6, 25]. A larger divisor makes a smaller eye.
	EyeDivisor float32
	// CounterClockwise mirrors the apparent rotation.
	CounterClockwise bool
	// Frames on [1, 60]. More than one frame appends layer copies with
	// incremental rotation for animation export.
	Frames int
	// FrameDelayMS is the animation delay between frames on
	// [10, 1000] milliseconds. Ignored for single-frame renders.
	FrameDelayMS int
}

// YinYang is a ready-to-draw yin-yang symbol. Create with
// [Builder.NewYinYang].
type YinYang struct {
	cfg YinYangConfig

	// supersampled measurements
	rimWidth   int
	symbolSize int
	imageSize  int
	finalSize  int
	flowSize   int
	center     float32
	headDiam   float32
	headRadius float32
	eyeRadius  float32
	eyeDiam    float32
	flowOffset float32

	color1, color2 RGB
}

// NewYinYang validates cfg, resolves the flow colors for the selected
// mode and precomputes the symbol measurements.
func (bld *Builder) NewYinYang(cfg YinYangConfig) *YinYang {
	if !inRange(cfg.Diameter, 80, 1000) {
		bld.paramErrorf("yin-yang diameter %v outside [80, 1000]", cfg.Diameter)
	}
	if !inRange(cfg.RimWidth, 0, 20) {
		bld.paramErrorf("yin-yang rim width %v outside [0, 20]", cfg.RimWidth)
	}
	if !inRange(cfg.EyeDivisor, 6, 25) {
		bld.paramErrorf("yin-yang eye divisor %v outside [6, 25]", cfg.EyeDivisor)
	}
	if cfg.Frames < 1 || cfg.Frames > 60 {
		bld.paramErrorf("yin-yang frame count %d outside [1, 60]", cfg.Frames)
	}
	if cfg.Frames > 1 && (cfg.FrameDelayMS < 10 || cfg.FrameDelayMS > 1000) {
		bld.paramErrorf("yin-yang frame delay %dms outside [10, 1000]", cfg.FrameDelayMS)
	}
	if cfg.Mode == YinYangPattern && (cfg.Pattern1 == nil || cfg.Pattern2 == nil) {
		bld.paramErrorf("yin-yang pattern mode requires both patterns")
	}

	y := &YinYang{cfg: cfg}
	y.rimWidth = int(cfg.RimWidth * yyScale)
	y.symbolSize = int(cfg.Diameter * yyScale)
	y.imageSize = y.symbolSize + 2*yyGap
	y.finalSize = y.imageSize / yyScale
	y.center = float32(y.imageSize) / 2
	y.flowSize = y.symbolSize - 2*y.rimWidth
	y.headDiam = float32(y.flowSize) / 2
	y.headRadius = y.headDiam / 2
	y.eyeRadius = float32(y.flowSize) / cfg.EyeDivisor
	y.eyeDiam = 2 * y.eyeRadius
	y.flowOffset = yyGap + float32(y.rimWidth)

	y.color1 = cfg.FlowColor1
	switch cfg.Mode {
	case YinYangPolarColor:
		y.color2 = InvertRGB(cfg.FlowColor1)
	case YinYangPolarHue:
		y.color2 = PolarHue(cfg.FlowColor1)
	case YinYangPolarLightness:
		y.color2 = PolarLightness(cfg.FlowColor1)
	case YinYangPolarSaturation:
		y.color2 = PolarSaturation(cfg.FlowColor1)
	default:
		y.color2 = cfg.FlowColor2
	}
	return y
}

// ImageSize returns the supersampled square canvas size RenderTo
// draws on.
func (y *YinYang) ImageSize() int { return y.imageSize }

// FinalSize returns the square image size after the closing downscale.
func (y *YinYang) FinalSize() int { return y.finalSize }

// FlowColors returns the resolved fill colors of both flows.
func (y *YinYang) FlowColors() (c1, c2 RGB) { return y.color1, y.color2 }

// Frames returns the number of animation frames the render produces.
func (y *YinYang) Frames() int { return y.cfg.Frames }

// FrameDelayMS returns the animation delay between frames.
func (y *YinYang) FrameDelayMS() int { return y.cfg.FrameDelayMS }

// RenderTo draws the symbol onto r: both flow sides, the rim, the
// direction flip, the closing downscale and the rotated animation
// frames when more than one frame is requested.
func (y *YinYang) RenderTo(r Renderer) {
	base := r.NewLayer("Base", LayerNormal)
	y.drawSide(r, base, 0)
	y.drawSide(r, base, 1)

	if y.rimWidth > 0 {
		dim := float32(y.symbolSize)
		r.SelectEllipse(Replace, yyGap, yyGap, dim, dim)
		y.selectFlow(r, Subtract)
		r.Fill(base, y.cfg.RimColor.Pattern())
	}
	r.SelectNone()

	if y.cfg.CounterClockwise {
		r.FlipHorizontal(base)
	}
	r.ScaleTo(y.finalSize, y.finalSize)

	if y.cfg.Frames > 1 {
		rotation := 360 / float32(y.cfg.Frames)
		if y.cfg.CounterClockwise {
			rotation = -rotation
		}
		angle := rotation
		c := float32(y.finalSize) / 2
		for frame := 1; frame < y.cfg.Frames; frame++ {
			cp := r.CopyLayer(base)
			// Keep the angle within a half turn either way.
			if angle > 180 {
				angle -= 360
			} else if angle < -180 {
				angle += 360
			}
			r.RotateLayer(cp, angle*math32.Pi/180, c, c)
			angle += rotation
			// Discard the empty space the rotation introduced.
			r.Crop(y.finalSize, y.finalSize)
		}
	}
}

// selectFlow selects the flow circle, the symbol interior inside the
// rim.
func (y *YinYang) selectFlow(r Renderer, op ChannelOp) {
	a := y.flowOffset
	r.SelectEllipse(op, a, a, float32(y.flowSize), float32(y.flowSize))
}

// drawSide builds one side of the symbol: the flow circle with this
// side's half removed, the head added at one end, the tail subtracted
// at the other, one eye subtracted and the mirrored reflection eye
// added, then fills the shape according to the mode.
func (y *YinYang) drawSide(r Renderer, base Layer, side int) {
	y.selectFlow(r, Replace)
	c := y.center
	eyeOffset := y.headDiam / 2

	rectX := float32(0)
	if side == 1 {
		rectX = c
	}
	r.SelectRectangle(Subtract, rectX, 0, c, float32(y.imageSize))

	headY, tailY := c, y.flowOffset
	if side == 1 {
		headY, tailY = tailY, headY
	}
	r.SelectEllipse(Add, c-y.headRadius, headY, y.headDiam, y.headDiam)
	r.SelectEllipse(Subtract, c-y.headRadius, tailY, y.headDiam, y.headDiam)

	eyeX := c - y.eyeRadius
	eyeY := c + eyeOffset - y.eyeRadius
	mirrorY := c - eyeOffset - y.eyeRadius
	if side == 1 {
		eyeY, mirrorY = mirrorY, eyeY
	}
	r.SelectEllipse(Subtract, eyeX, eyeY, y.eyeDiam, y.eyeDiam)
	r.SelectEllipse(Add, eyeX, mirrorY, y.eyeDiam, y.eyeDiam)

	switch y.cfg.Mode {
	case YinYangGradient:
		r.Fill(base, y.gradient(side))
	case YinYangPattern:
		pat := y.cfg.Pattern1
		if side == 1 {
			pat = y.cfg.Pattern2
		}
		r.Fill(base, TilePattern{Img: pat})
	default:
		fill := y.color1
		if side == 1 {
			fill = y.color2
		}
		r.Fill(base, fill.Pattern())
	}
}

// gradient builds the radial fill for one side, anchored past the head
// and reaching the opposite image corner.
func (y *YinYang) gradient(side int) gg.Pattern {
	c := float64(y.center)
	hr := float64(y.headRadius)
	size := float64(y.imageSize)

	sx, sy := c-hr, c+hr
	ex, ey := size-yyGap, float64(yyGap)
	first, second := y.color1, y.color2
	if side == 1 {
		sx, sy = c+hr, c-hr
		ex, ey = yyGap, size-yyGap
		first, second = second, first
	}
	radius := math.Hypot(ex-sx, ey-sy)
	return gg.NewRadialGradientBrush(sx, sy, 0, radius).
		AddColorStop(0, first.GG()).
		AddColorStop(1, second.GG())
}
