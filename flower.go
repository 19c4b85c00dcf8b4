package sacred

import (
	"math"
	"math/rand"
	"time"

	"github.com/gogpu/gg"
	"github.com/soypat/geometry/ms2"
)

// Flower symbols draw supersampled by this factor and scale back down
// once at the end, standing in for selection anti-aliasing.
const flowerScale = 2

// FlowerType selects which part of the circles is kept.
type FlowerType uint8

const (
	// FlowerLines draws only the circle outlines.
	FlowerLines FlowerType = iota
	// FlowerPetals keeps the solid petal shapes.
	FlowerPetals
	// FlowerCircles keeps the full content of the circles.
	FlowerCircles
)

// FlowerMode selects how the symbol is colored.
type FlowerMode uint8

const (
	FlowerBlackAndWhite FlowerMode = iota
	FlowerPresetColors
	FlowerRandomColors
)

// FlowerRingColors is the palette size of a colored flower: the center
// circle plus six rings, ordered from the center outwards.
const FlowerRingColors = 7

// FlowerConfig configures one Flower of Life render. It is fixed at
// symbol creation; nothing mutates it afterwards.
type FlowerConfig struct {
	// Radius is the symbol radius in pixels, on [60, 18000]. Numbers
	// divisible by 2 and 3 give the cleanest results.
	Radius float32
	Mode   FlowerMode
	Type   FlowerType
	// RingColors colors the rings from the center outwards in
	// FlowerPresetColors mode. Ignored otherwise.
	RingColors [FlowerRingColors]RGB
	// LineWidth is the outline width for FlowerLines, on [1, 20].
	LineWidth float32
	// FrameWidth is the width of the surrounding ring frame, on
	// [0, 100]. Zero disables the frame.
	FrameWidth float32
	// FrameColor colors the frame in FlowerPresetColors mode. In
	// FlowerRandomColors mode the frame gets the mean ring color.
	FrameColor RGB
	// Rand is the source for FlowerRandomColors. A nil source is
	// seeded from the wall clock.
	Rand *rand.Rand
}

// Flower is a ready-to-draw Flower of Life symbol. Create with
// [Builder.NewFlower], inspect the resolved palette with Palette and
// draw with RenderTo.
type Flower struct {
	cfg    FlowerConfig
	layout *FlowerLayout

	// supersampled measurements, truncated to whole pixels
	imageSize      int
	finalSize      int
	center         int
	circleRadius   int
	circleDiameter int
	flowerRadius   int
	lineWidth      int
	frameWidth     int

	palette    [FlowerRingColors]RGB
	frameColor RGB
}

// NewFlower validates cfg and precomputes the symbol layout and
// palette. Range violations panic unless the Builder accumulates.
func (bld *Builder) NewFlower(cfg FlowerConfig) *Flower {
	if !inRange(cfg.Radius, 60, 18000) {
		bld.paramErrorf("flower radius %v outside [60, 18000]", cfg.Radius)
	}
	if cfg.Type == FlowerLines && !inRange(cfg.LineWidth, 1, 20) {
		bld.paramErrorf("flower line width %v outside [1, 20]", cfg.LineWidth)
	}
	if !inRange(cfg.FrameWidth, 0, 100) {
		bld.paramErrorf("flower frame width %v outside [0, 100]", cfg.FrameWidth)
	}
	f := &Flower{cfg: cfg}
	f.frameWidth = int(cfg.FrameWidth * flowerScale)
	f.flowerRadius = int(cfg.Radius * flowerScale)
	f.lineWidth = int(cfg.LineWidth * flowerScale)
	scaleSize := int(cfg.Radius*2+cfg.FrameWidth*2) + 2
	if cfg.Type == FlowerLines {
		scaleSize += f.lineWidth
	}
	f.finalSize = scaleSize
	f.imageSize = scaleSize * flowerScale
	f.center = f.imageSize / 2
	f.circleRadius = int(cfg.Radius / 3 * flowerScale)
	f.circleDiameter = 2 * f.circleRadius
	center := ms2.Vec{X: float32(f.center), Y: float32(f.center)}
	f.layout = bld.NewFlowerLayout(center, float32(f.circleRadius))

	f.palette = cfg.RingColors
	f.frameColor = cfg.FrameColor
	if cfg.Mode == FlowerRandomColors {
		rng := cfg.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		randomPalette(rng, f.palette[:])
		f.frameColor = MeanRGB(f.palette[:])
	}
	return f
}

// Layout returns the circle layout of the symbol.
func (f *Flower) Layout() *FlowerLayout { return f.layout }

// ImageSize returns the supersampled square canvas size RenderTo
// draws on.
func (f *Flower) ImageSize() int { return f.imageSize }

// FinalSize returns the square image size after the closing downscale.
func (f *Flower) FinalSize() int { return f.finalSize }

// Palette returns the resolved ring colors (center outwards) and the
// frame color. In random mode these are the generated values, which
// makes a render reproducible.
func (f *Flower) Palette() (rings [FlowerRingColors]RGB, frame RGB) {
	return f.palette, f.frameColor
}

// RenderTo draws the symbol onto r as one synchronous pass. The colored
// pass runs first when a color mode is selected, then the
// black-and-white pass whose alpha bounds the visible symbol.
func (f *Flower) RenderTo(r Renderer) {
	colored := f.cfg.Mode != FlowerBlackAndWhite
	var colorLayer, gradient, gradientCopy Layer
	if colored {
		colorLayer = f.drawColoredFlower(r)
		gradient = f.drawGradient(r)
		r.SetVisible(gradient, false)
		gradientCopy = r.CopyLayer(gradient)
		r.SetVisible(gradientCopy, false)
		r.SetVisible(colorLayer, false)
	}

	base := r.NewLayer("Base", LayerNormal)
	if f.cfg.Type != FlowerLines {
		r.FillLayer(base, white.Pattern())
	}
	base = f.drawBlackAndWhite(r, base)
	f.maskSymbol(r, base)
	base = r.MergeVisible()

	if colored {
		// Transfer the symbol alpha to the color stack and composite
		// the gradient shading twice over it.
		r.MaskFromAlpha(colorLayer, base)
		r.RemoveLayer(base)
		r.SetVisible(gradient, true)
		r.SetVisible(gradientCopy, true)
		r.SetVisible(colorLayer, true)
		r.MergeVisible()
	} else {
		r.Invert(base)
	}
	r.ScaleTo(f.finalSize, f.finalSize)
}

// drawColoredFlower draws the center circle and all six rings with the
// palette, merging after each ring, and closes with the frame.
func (f *Flower) drawColoredFlower(r Renderer) Layer {
	layer := r.NewLayer("Base", LayerNormal)
	if f.cfg.Type != FlowerLines {
		r.FillLayer(layer, white.Pattern())
	}
	f.drawCircleAt(r, f.layout.Center(), f.palette[0])
	for ring := 1; ring < FlowerRingColors; ring++ {
		for _, p := range f.layout.Ring(ring) {
			f.drawCircleAt(r, p, f.palette[ring])
		}
		layer = r.MergeVisible()
	}
	f.drawFrame(r, f.frameColor)
	return layer
}

// drawBlackAndWhite draws the whole symbol in white. On the white base
// the difference blending flips parity per covering circle, producing
// the black and white flower.
func (f *Flower) drawBlackAndWhite(r Renderer, base Layer) Layer {
	f.drawCircleAt(r, f.layout.Center(), white)
	for ring := 1; ring < FlowerRingColors; ring++ {
		for _, p := range f.layout.Ring(ring) {
			f.drawCircleAt(r, p, white)
		}
		base = r.MergeVisible()
	}
	f.drawFrame(r, white)
	return base
}

// drawCircleAt draws one flower circle centered on p. Lines draw an
// outline ring on a normal layer; petals and circles draw a filled
// disk on a difference layer.
func (f *Flower) drawCircleAt(r Renderer, p ms2.Vec, c RGB) {
	x := p.X - float32(f.circleRadius)
	y := p.Y - float32(f.circleRadius)
	if f.cfg.Type == FlowerLines {
		layer := r.NewLayer("Circle", LayerNormal)
		half := float32(f.lineWidth / 2)
		x -= half
		y -= half
		outer := float32(f.circleDiameter + f.lineWidth)
		inner := float32(f.circleDiameter - f.lineWidth)
		r.SelectEllipse(Add, x, y, outer, outer)
		lw := float32(f.lineWidth)
		r.SelectEllipse(Subtract, x+lw, y+lw, inner, inner)
		r.Fill(layer, c.Pattern())
	} else {
		layer := r.NewLayer("Circle", LayerDifference)
		d := float32(f.circleDiameter)
		r.SelectEllipse(Add, x, y, d, d)
		r.Fill(layer, c.Pattern())
	}
	r.SelectNone()
}

// drawFrame surrounds the flower with a ring of the given color and
// merges it down. A zero frame width draws nothing.
func (f *Flower) drawFrame(r Renderer, c RGB) {
	if f.frameWidth == 0 {
		return
	}
	flowerDim := 2 * f.flowerRadius
	frameDim := flowerDim + 2*f.frameWidth
	x := f.center - f.flowerRadius - f.frameWidth
	xi := f.center - f.flowerRadius
	if f.cfg.Type == FlowerLines {
		flowerDim += f.lineWidth
		frameDim += f.lineWidth
		x -= f.lineWidth / 2
		xi -= f.lineWidth / 2
	}
	r.SelectEllipse(Add, float32(x), float32(x), float32(frameDim), float32(frameDim))
	r.SelectEllipse(Subtract, float32(xi), float32(xi), float32(flowerDim), float32(flowerDim))
	layer := r.NewLayer("Frame", LayerNormal)
	r.Fill(layer, c.Pattern())
	r.MergeDown(layer)
	r.SelectNone()
}

// drawGradient fills a difference layer with a radial white to black
// gradient centered on the symbol. Composited twice it shades the
// colored flower.
func (f *Flower) drawGradient(r Renderer) Layer {
	layer := r.NewLayer("Gradient", LayerDifference)
	c := float64(f.center)
	e := float64(2 * f.flowerRadius)
	radius := math.Hypot(e-c, e-c)
	brush := gg.NewRadialGradientBrush(c, c, 0, radius).
		AddColorStop(0, gg.White).
		AddColorStop(1, gg.Black)
	r.FillLayer(layer, brush)
	return layer
}

// maskSymbol clips base's alpha to the symbol: the twelve perimeter
// circles, the center disk and the frame ring.
func (f *Flower) maskSymbol(r Renderer, base Layer) {
	if f.cfg.Type == FlowerPetals {
		r.ColorToAlpha(base, gg.Black)
	}
	dim := float32(f.circleDiameter)
	var lineOff float32
	if f.cfg.Type == FlowerLines {
		dim += float32(f.lineWidth)
		lineOff = float32(f.lineWidth / 2)
	}
	mask := r.NewLayer("Mask", LayerNormal)
	r.FillLayer(mask, black.Pattern())
	for _, p := range f.layout.Perimeter() {
		x := p.X - float32(f.circleRadius) - lineOff
		y := p.Y - float32(f.circleRadius) - lineOff
		r.SelectEllipse(Add, x, y, dim, dim)
	}
	// Center disk twice the circle diameter, plus a plain circle.
	cx := float32(f.center - f.circleDiameter)
	big := float32(2 * f.circleDiameter)
	r.SelectEllipse(Add, cx, cx, big, big)
	r.SelectEllipse(Add, cx, cx, float32(f.circleDiameter), float32(f.circleDiameter))
	r.Fill(mask, white.Pattern())
	r.SelectNone()
	f.drawFrame(r, white)
	r.SelectWhite(Add, mask)
	r.MaskFromSelection(base)
	r.SelectNone()
	r.RemoveLayer(mask)
}
