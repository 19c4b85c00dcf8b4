package sacred

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
)

// ChannelOp combines a new selection shape with the current selection.
type ChannelOp uint8

const (
	// Replace discards the current selection.
	Replace ChannelOp = iota
	// Add unions the shape with the current selection.
	Add
	// Subtract removes the shape from the current selection.
	Subtract
	// Intersect keeps only the overlap of shape and selection.
	Intersect
)

func (op ChannelOp) String() string {
	switch op {
	case Replace:
		return "replace"
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Intersect:
		return "intersect"
	}
	return "unknown"
}

// LayerMode is the blend mode a layer composites with during merges.
type LayerMode uint8

const (
	// LayerNormal composites source-over.
	LayerNormal LayerMode = iota
	// LayerDifference composites the per-channel absolute difference.
	// Overlapping same-colored fills cancel out, which is what carves
	// petals out of stacked circles.
	LayerDifference
)

func (m LayerMode) String() string {
	if m == LayerDifference {
		return "difference"
	}
	return "normal"
}

// Layer is an opaque handle to a renderer-owned layer.
type Layer interface {
	Name() string
}

// Renderer consumes the ordered draw primitives a symbol emits. The
// vocabulary is the selection/fill/merge model of raster image hosts:
// shapes are selected with boolean channel ops, fills paint through the
// selection onto a layer, and layers composite by their blend mode.
//
// Implementations are single use: one symbol render per instance.
type Renderer interface {
	// NewLayer pushes a new fully transparent layer on top of the stack
	// and returns its handle.
	NewLayer(name string, mode LayerMode) Layer
	// CopyLayer duplicates a layer, placing the copy on top.
	CopyLayer(l Layer) Layer
	RemoveLayer(l Layer)
	SetVisible(l Layer, visible bool)
	// MergeDown composites l onto the first visible layer below it and
	// returns the surviving layer.
	MergeDown(l Layer) Layer
	// MergeVisible composites all visible layers into the bottom-most
	// visible layer and returns it.
	MergeVisible() Layer

	SelectEllipse(op ChannelOp, x, y, w, h float32)
	SelectRectangle(op ChannelOp, x, y, w, h float32)
	// SelectWhite adds the pure-white pixels of l to the selection.
	SelectWhite(op ChannelOp, l Layer)
	SelectNone()

	// Fill paints the fill source through the current selection.
	Fill(l Layer, fill gg.Pattern)
	// FillLayer replaces the whole layer content, ignoring selection.
	FillLayer(l Layer, fill gg.Pattern)

	// MaskFromSelection restricts l's alpha to the current selection.
	MaskFromSelection(l Layer)
	// MaskFromAlpha multiplies dst's alpha by src's alpha.
	MaskFromAlpha(dst, src Layer)
	// ColorToAlpha turns the given color transparent on l.
	ColorToAlpha(l Layer, c gg.RGBA)
	// Invert inverts l's color channels in place.
	Invert(l Layer)

	FlipHorizontal(l Layer)
	// RotateLayer rotates l clockwise by angle radians about (cx, cy).
	RotateLayer(l Layer, angle, cx, cy float32)
	// Crop truncates the canvas and all layers to w by h pixels.
	Crop(w, h int)
	// ScaleTo resamples the canvas and all layers to w by h pixels.
	// Symbols draw supersampled and scale down once at the end.
	ScaleTo(w, h int)
}

// TilePattern repeats an image endlessly in both directions. It
// implements [gg.Pattern] and serves as the fill source of the
// yin-yang pattern mode.
type TilePattern struct {
	Img image.Image
}

func (t TilePattern) ColorAt(x, y float64) gg.RGBA {
	b := t.Img.Bounds()
	if b.Empty() {
		return gg.Transparent
	}
	ix := b.Min.X + mod(int(x), b.Dx())
	iy := b.Min.Y + mod(int(y), b.Dy())
	return gg.FromColor(t.Img.At(ix, iy))
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}

// Op is one recorded draw primitive.
type Op struct {
	Kind   string
	Target string // layer name, when the op addresses a layer
	Op     ChannelOp
	Mode   LayerMode
	Args   [4]float32
}

func (o Op) String() string {
	return fmt.Sprintf("%s %s op=%s mode=%s args=%v", o.Kind, o.Target, o.Op, o.Mode, o.Args)
}

// Recorder implements [Renderer] by recording the draw program instead
// of rasterizing it. Useful for inspecting and testing the primitive
// sequence a symbol emits.
type Recorder struct {
	Ops []Op
}

type recLayer string

func (r recLayer) Name() string { return string(r) }

func (rec *Recorder) record(o Op) { rec.Ops = append(rec.Ops, o) }

func (rec *Recorder) NewLayer(name string, mode LayerMode) Layer {
	rec.record(Op{Kind: "newLayer", Target: name, Mode: mode})
	return recLayer(name)
}

func (rec *Recorder) CopyLayer(l Layer) Layer {
	name := l.Name() + " copy"
	rec.record(Op{Kind: "copyLayer", Target: name})
	return recLayer(name)
}

func (rec *Recorder) RemoveLayer(l Layer) {
	rec.record(Op{Kind: "removeLayer", Target: l.Name()})
}

func (rec *Recorder) SetVisible(l Layer, visible bool) {
	v := float32(0)
	if visible {
		v = 1
	}
	rec.record(Op{Kind: "setVisible", Target: l.Name(), Args: [4]float32{v}})
}

func (rec *Recorder) MergeDown(l Layer) Layer {
	rec.record(Op{Kind: "mergeDown", Target: l.Name()})
	return l
}

func (rec *Recorder) MergeVisible() Layer {
	rec.record(Op{Kind: "mergeVisible"})
	return recLayer("merged")
}

func (rec *Recorder) SelectEllipse(op ChannelOp, x, y, w, h float32) {
	rec.record(Op{Kind: "selectEllipse", Op: op, Args: [4]float32{x, y, w, h}})
}

func (rec *Recorder) SelectRectangle(op ChannelOp, x, y, w, h float32) {
	rec.record(Op{Kind: "selectRectangle", Op: op, Args: [4]float32{x, y, w, h}})
}

func (rec *Recorder) SelectWhite(op ChannelOp, l Layer) {
	rec.record(Op{Kind: "selectWhite", Target: l.Name(), Op: op})
}

func (rec *Recorder) SelectNone() { rec.record(Op{Kind: "selectNone"}) }

func (rec *Recorder) Fill(l Layer, fill gg.Pattern) {
	rec.record(Op{Kind: "fill", Target: l.Name()})
}

func (rec *Recorder) FillLayer(l Layer, fill gg.Pattern) {
	rec.record(Op{Kind: "fillLayer", Target: l.Name()})
}

func (rec *Recorder) MaskFromSelection(l Layer) {
	rec.record(Op{Kind: "maskFromSelection", Target: l.Name()})
}

func (rec *Recorder) MaskFromAlpha(dst, src Layer) {
	rec.record(Op{Kind: "maskFromAlpha", Target: dst.Name()})
}

func (rec *Recorder) ColorToAlpha(l Layer, c gg.RGBA) {
	rec.record(Op{Kind: "colorToAlpha", Target: l.Name()})
}

func (rec *Recorder) Invert(l Layer) {
	rec.record(Op{Kind: "invert", Target: l.Name()})
}

func (rec *Recorder) FlipHorizontal(l Layer) {
	rec.record(Op{Kind: "flipHorizontal", Target: l.Name()})
}

func (rec *Recorder) RotateLayer(l Layer, angle, cx, cy float32) {
	rec.record(Op{Kind: "rotateLayer", Target: l.Name(), Args: [4]float32{angle, cx, cy}})
}

func (rec *Recorder) Crop(w, h int) {
	rec.record(Op{Kind: "crop", Args: [4]float32{float32(w), float32(h)}})
}

func (rec *Recorder) ScaleTo(w, h int) {
	rec.record(Op{Kind: "scaleTo", Args: [4]float32{float32(w), float32(h)}})
}

// Count returns how many recorded ops have the given kind.
func (rec *Recorder) Count(kind string) int {
	n := 0
	for _, o := range rec.Ops {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

var _ Renderer = (*Recorder)(nil)
