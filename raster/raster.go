// Package raster implements the selection/fill/merge drawing model the
// symbols render against. A Surface keeps a stack of NRGBA layers and
// a boolean selection mask; fills paint through the selection, layers
// composite by their blend mode, and the canvas supports the flip,
// rotate, crop and downscale transforms symbol rendering ends with.
package raster

import (
	"image"

	"github.com/chewxy/math32"
	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/glyphworks/sacred"
)

// Layer is one raster layer of a Surface. It satisfies [sacred.Layer].
type Layer struct {
	name    string
	mode    sacred.LayerMode
	visible bool
	pix     *image.NRGBA
}

func (l *Layer) Name() string { return l.name }

// Image exposes the layer's pixels. The returned image is live.
func (l *Layer) Image() *image.NRGBA { return l.pix }

// Surface is a single-use render target. Operations follow the
// selection/layer model: they do not fail, and the whole render runs
// as one synchronous pass.
type Surface struct {
	w, h   int
	sel    []bool
	layers []*Layer // bottom to top
}

var _ sacred.Renderer = (*Surface)(nil)

// New returns a surface with a w by h canvas, no layers and an empty
// selection.
func New(w, h int) *Surface {
	if w <= 0 || h <= 0 {
		panic("raster: non-positive surface size")
	}
	return &Surface{w: w, h: h, sel: make([]bool, w*h)}
}

// Size returns the current canvas size.
func (s *Surface) Size() (w, h int) { return s.w, s.h }

func (s *Surface) newPix() *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, s.w, s.h))
}

func (s *Surface) NewLayer(name string, mode sacred.LayerMode) sacred.Layer {
	l := &Layer{name: name, mode: mode, visible: true, pix: s.newPix()}
	s.layers = append(s.layers, l)
	return l
}

func (s *Surface) CopyLayer(sl sacred.Layer) sacred.Layer {
	src := s.layer(sl)
	cp := &Layer{name: src.name + " copy", mode: src.mode, visible: src.visible, pix: s.newPix()}
	copy(cp.pix.Pix, src.pix.Pix)
	s.layers = append(s.layers, cp)
	return cp
}

func (s *Surface) RemoveLayer(sl sacred.Layer) {
	idx := s.index(sl)
	s.layers = append(s.layers[:idx], s.layers[idx+1:]...)
}

func (s *Surface) SetVisible(sl sacred.Layer, visible bool) {
	s.layer(sl).visible = visible
}

func (s *Surface) MergeDown(sl sacred.Layer) sacred.Layer {
	idx := s.index(sl)
	for lower := idx - 1; lower >= 0; lower-- {
		if !s.layers[lower].visible {
			continue
		}
		dst := s.layers[lower]
		composite(dst.pix, s.layers[idx].pix, s.layers[idx].mode)
		s.layers = append(s.layers[:idx], s.layers[idx+1:]...)
		return dst
	}
	return sl
}

func (s *Surface) MergeVisible() sacred.Layer {
	var bottom *Layer
	remaining := s.layers[:0]
	for _, l := range s.layers {
		if !l.visible {
			remaining = append(remaining, l)
			continue
		}
		if bottom == nil {
			bottom = l
			remaining = append(remaining, l)
			continue
		}
		composite(bottom.pix, l.pix, l.mode)
	}
	s.layers = remaining
	return bottom
}

// layer resolves a handle, panicking on foreign or removed handles.
// A bad handle is a programming error in the draw program.
func (s *Surface) layer(sl sacred.Layer) *Layer {
	l, ok := sl.(*Layer)
	if !ok {
		panic("raster: layer handle from another renderer")
	}
	return l
}

func (s *Surface) index(sl sacred.Layer) int {
	l := s.layer(sl)
	for i, cand := range s.layers {
		if cand == l {
			return i
		}
	}
	panic("raster: layer not on surface: " + l.name)
}

// combine merges a shape given by inside into the selection. Replace
// clears the selection first and then adds. Intersect visits the whole
// canvas since pixels outside the shape's bounds drop out too.
func (s *Surface) combine(op sacred.ChannelOp, bounds image.Rectangle, inside func(x, y int) bool) {
	if op == sacred.Replace {
		clear(s.sel)
		op = sacred.Add
	}
	r := bounds.Intersect(image.Rect(0, 0, s.w, s.h))
	if op == sacred.Intersect {
		r = image.Rect(0, 0, s.w, s.h)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * s.w
		for x := r.Min.X; x < r.Max.X; x++ {
			in := inside(x, y)
			i := row + x
			switch op {
			case sacred.Add:
				s.sel[i] = s.sel[i] || in
			case sacred.Subtract:
				s.sel[i] = s.sel[i] && !in
			case sacred.Intersect:
				s.sel[i] = s.sel[i] && in
			}
		}
	}
}

func (s *Surface) SelectEllipse(op sacred.ChannelOp, x, y, w, h float32) {
	if w <= 0 || h <= 0 {
		if op == sacred.Replace {
			clear(s.sel)
		}
		return
	}
	rx, ry := w/2, h/2
	cx, cy := x+rx, y+ry
	bounds := image.Rect(int(math32.Floor(x)), int(math32.Floor(y)),
		int(math32.Ceil(x+w)), int(math32.Ceil(y+h)))
	s.combine(op, bounds, func(px, py int) bool {
		nx := (float32(px) + 0.5 - cx) / rx
		ny := (float32(py) + 0.5 - cy) / ry
		return nx*nx+ny*ny <= 1
	})
}

func (s *Surface) SelectRectangle(op sacred.ChannelOp, x, y, w, h float32) {
	bounds := image.Rect(int(math32.Floor(x)), int(math32.Floor(y)),
		int(math32.Ceil(x+w)), int(math32.Ceil(y+h)))
	s.combine(op, bounds, func(px, py int) bool {
		fx, fy := float32(px)+0.5, float32(py)+0.5
		return fx >= x && fx < x+w && fy >= y && fy < y+h
	})
}

func (s *Surface) SelectWhite(op sacred.ChannelOp, sl sacred.Layer) {
	pix := s.layer(sl).pix.Pix
	s.combine(op, image.Rect(0, 0, s.w, s.h), func(x, y int) bool {
		i := (y*s.w + x) * 4
		return pix[i] == 255 && pix[i+1] == 255 && pix[i+2] == 255 && pix[i+3] == 255
	})
}

func (s *Surface) SelectNone() { clear(s.sel) }

// Selected reports whether the pixel at (x, y) is selected.
func (s *Surface) Selected(x, y int) bool {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return false
	}
	return s.sel[y*s.w+x]
}

func (s *Surface) Fill(sl sacred.Layer, fill gg.Pattern) {
	pix := s.layer(sl).pix.Pix
	for y := 0; y < s.h; y++ {
		row := y * s.w
		for x := 0; x < s.w; x++ {
			if !s.sel[row+x] {
				continue
			}
			src := rgbaBytes(fill.ColorAt(float64(x)+0.5, float64(y)+0.5))
			i := (row + x) * 4
			over(pix[i:i+4:i+4], src)
		}
	}
}

func (s *Surface) FillLayer(sl sacred.Layer, fill gg.Pattern) {
	pix := s.layer(sl).pix.Pix
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			src := rgbaBytes(fill.ColorAt(float64(x)+0.5, float64(y)+0.5))
			i := (y*s.w + x) * 4
			copy(pix[i:i+4], src[:])
		}
	}
}

func (s *Surface) MaskFromSelection(sl sacred.Layer) {
	pix := s.layer(sl).pix.Pix
	for i := range s.sel {
		if !s.sel[i] {
			pix[i*4+3] = 0
		}
	}
}

func (s *Surface) MaskFromAlpha(dst, src sacred.Layer) {
	dp := s.layer(dst).pix.Pix
	sp := s.layer(src).pix.Pix
	for i := 3; i < len(dp); i += 4 {
		dp[i] = uint8((int(dp[i])*int(sp[i]) + 127) / 255)
	}
}

// ColorToAlpha makes the given color transparent, scaling the
// remaining channels so compositing over that color restores the
// original pixels.
func (s *Surface) ColorToAlpha(sl sacred.Layer, c gg.RGBA) {
	pix := s.layer(sl).pix.Pix
	kr, kg, kb := float32(c.R), float32(c.G), float32(c.B)
	for i := 0; i < len(pix); i += 4 {
		pr := float32(pix[i]) / 255
		pg := float32(pix[i+1]) / 255
		pb := float32(pix[i+2]) / 255
		a := math32.Max(channelAlpha(pr, kr), math32.Max(channelAlpha(pg, kg), channelAlpha(pb, kb)))
		if a <= 0 {
			pix[i+3] = 0
			continue
		}
		pix[i] = uint8(((pr-kr)/a + kr) * 255)
		pix[i+1] = uint8(((pg-kg)/a + kg) * 255)
		pix[i+2] = uint8(((pb-kb)/a + kb) * 255)
		pix[i+3] = uint8(a * float32(pix[i+3]))
	}
}

// channelAlpha is the minimum alpha that lets channel value p be
// reached by compositing over the removal value k.
func channelAlpha(p, k float32) float32 {
	switch {
	case p > k:
		return (p - k) / (1 - k)
	case p < k:
		return (k - p) / k
	}
	return 0
}

func (s *Surface) Invert(sl sacred.Layer) {
	pix := s.layer(sl).pix.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = 255 - pix[i]
		pix[i+1] = 255 - pix[i+1]
		pix[i+2] = 255 - pix[i+2]
	}
}

func (s *Surface) FlipHorizontal(sl sacred.Layer) {
	pix := s.layer(sl).pix.Pix
	for y := 0; y < s.h; y++ {
		row := y * s.w * 4
		for x := 0; x < s.w/2; x++ {
			a := row + x*4
			b := row + (s.w-1-x)*4
			for k := 0; k < 4; k++ {
				pix[a+k], pix[b+k] = pix[b+k], pix[a+k]
			}
		}
	}
}

func (s *Surface) RotateLayer(sl sacred.Layer, angle, cx, cy float32) {
	l := s.layer(sl)
	sin, cos := math32.Sincos(angle)
	c, sn := float64(cos), float64(sin)
	fx, fy := float64(cx), float64(cy)
	// Clockwise rotation about (cx, cy) in screen coordinates.
	m := f64.Aff3{
		c, -sn, fx - c*fx + sn*fy,
		sn, c, fy - sn*fx - c*fy,
	}
	dst := s.newPix()
	draw.BiLinear.Transform(dst, m, l.pix, l.pix.Bounds(), draw.Src, nil)
	l.pix = dst
}

func (s *Surface) Crop(w, h int) {
	if w == s.w && h == s.h {
		return
	}
	s.resize(w, h, func(dst, src *image.NRGBA) {
		draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Src)
	})
}

func (s *Surface) ScaleTo(w, h int) {
	if w == s.w && h == s.h {
		return
	}
	s.resize(w, h, func(dst, src *image.NRGBA) {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	})
}

func (s *Surface) resize(w, h int, cp func(dst, src *image.NRGBA)) {
	s.w, s.h = w, h
	for _, l := range s.layers {
		dst := s.newPix()
		cp(dst, l.pix)
		l.pix = dst
	}
	s.sel = make([]bool, w*h)
}

// Layers returns the layer stack bottom to top.
func (s *Surface) Layers() []*Layer { return s.layers }

// Image flattens the visible layers bottom to top into a single image.
func (s *Surface) Image() *image.NRGBA {
	out := s.newPix()
	for _, l := range s.layers {
		if l.visible {
			composite(out, l.pix, l.mode)
		}
	}
	return out
}

// Frames returns each visible layer flattened on its own, bottom to
// top. Animated renders keep one layer per frame.
func (s *Surface) Frames() []*image.NRGBA {
	var frames []*image.NRGBA
	for _, l := range s.layers {
		if !l.visible {
			continue
		}
		f := s.newPix()
		copy(f.Pix, l.pix.Pix)
		frames = append(frames, f)
	}
	return frames
}

// composite blends src onto dst in place according to mode. Normal
// layers composite source-over. Difference layers clip to the backdrop:
// they never paint where dst is transparent and they keep dst's alpha,
// which is what confines the gradient shading to the masked symbol.
func composite(dst, src *image.NRGBA, mode sacred.LayerMode) {
	dp, sp := dst.Pix, src.Pix
	for i := 0; i < len(dp); i += 4 {
		sa := int(sp[i+3])
		if sa == 0 {
			continue
		}
		if mode == sacred.LayerDifference {
			if dp[i+3] == 0 {
				continue
			}
			for k := 0; k < 3; k++ {
				b := int(absDiff(dp[i+k], sp[i+k]))
				dp[i+k] = uint8((int(dp[i+k])*(255-sa) + b*sa) / 255)
			}
			continue
		}
		over(dp[i:i+4:i+4], [4]uint8{sp[i], sp[i+1], sp[i+2], sp[i+3]})
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// over composites a non-premultiplied source pixel onto dst in place.
func over(dst []uint8, src [4]uint8) {
	sa := int(src[3])
	if sa == 255 {
		copy(dst, src[:])
		return
	}
	if sa == 0 {
		return
	}
	da := int(dst[3])
	outA := sa + da*(255-sa)/255
	if outA == 0 {
		dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
		return
	}
	for k := 0; k < 3; k++ {
		sc := int(src[k])
		dc := int(dst[k])
		dst[k] = uint8((sc*sa*255 + dc*da*(255-sa)) / (outA * 255))
	}
	dst[3] = uint8(outA)
}

func rgbaBytes(c gg.RGBA) [4]uint8 {
	return [4]uint8{clamp8(c.R), clamp8(c.G), clamp8(c.B), clamp8(c.A)}
}

func clamp8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
