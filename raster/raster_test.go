package raster_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gg"

	"github.com/glyphworks/sacred"
	"github.com/glyphworks/sacred/raster"
)

var (
	whitePat = gg.NewSolidPattern(gg.White)
	blackPat = gg.NewSolidPattern(gg.Black)
)

func TestSelectionChannelOps(t *testing.T) {
	s := raster.New(4, 4)
	s.SelectRectangle(sacred.Replace, 0, 0, 2, 2)
	if !s.Selected(0, 0) || !s.Selected(1, 1) || s.Selected(2, 2) {
		t.Error("replace selection wrong")
	}
	s.SelectRectangle(sacred.Add, 2, 2, 2, 2)
	if !s.Selected(1, 1) || !s.Selected(3, 3) || s.Selected(2, 0) {
		t.Error("add selection wrong")
	}
	s.SelectRectangle(sacred.Subtract, 0, 0, 1, 1)
	if s.Selected(0, 0) || !s.Selected(1, 1) {
		t.Error("subtract selection wrong")
	}
	s.SelectRectangle(sacred.Intersect, 1, 1, 1, 1)
	if !s.Selected(1, 1) || s.Selected(3, 3) || s.Selected(0, 1) {
		t.Error("intersect selection wrong")
	}
	s.SelectRectangle(sacred.Replace, 3, 3, 4, 4)
	if s.Selected(1, 1) || !s.Selected(3, 3) {
		t.Error("replace does not clear the previous selection")
	}
	s.SelectNone()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if s.Selected(x, y) {
				t.Fatalf("pixel (%d,%d) still selected after SelectNone", x, y)
			}
		}
	}
}

func TestSelectEllipse(t *testing.T) {
	s := raster.New(10, 10)
	s.SelectEllipse(sacred.Replace, 0, 0, 10, 10)
	if !s.Selected(5, 5) || !s.Selected(5, 0) || !s.Selected(0, 5) {
		t.Error("disk center or axis extremes not selected")
	}
	if s.Selected(0, 0) || s.Selected(9, 9) {
		t.Error("disk corners selected")
	}
}

func TestFillRespectsSelection(t *testing.T) {
	s := raster.New(4, 4)
	l := s.NewLayer("base", sacred.LayerNormal)
	s.SelectRectangle(sacred.Replace, 0, 0, 2, 4)
	s.Fill(l, whitePat)
	img := s.Image()
	if got := img.NRGBAAt(0, 0); got.R != 255 || got.A != 255 {
		t.Errorf("selected pixel not filled: %v", got)
	}
	if got := img.NRGBAAt(3, 0); got.A != 0 {
		t.Errorf("unselected pixel filled: %v", got)
	}
}

func TestFillLayerIgnoresSelection(t *testing.T) {
	s := raster.New(3, 3)
	l := s.NewLayer("base", sacred.LayerNormal)
	s.SelectRectangle(sacred.Replace, 0, 0, 1, 1)
	s.FillLayer(l, blackPat)
	img := s.Image()
	if got := img.NRGBAAt(2, 2); got.A != 255 || got.R != 0 {
		t.Errorf("FillLayer skipped unselected pixel: %v", got)
	}
}

func TestDifferenceMergeParity(t *testing.T) {
	s := raster.New(4, 4)
	base := s.NewLayer("base", sacred.LayerNormal)
	s.SelectRectangle(sacred.Replace, 0, 0, 4, 4)
	s.Fill(base, whitePat)

	// One white difference layer covering the left half flips it to
	// black; a second overlapping layer flips the overlap back.
	d1 := s.NewLayer("d1", sacred.LayerDifference)
	s.SelectRectangle(sacred.Replace, 0, 0, 2, 4)
	s.Fill(d1, whitePat)
	d2 := s.NewLayer("d2", sacred.LayerDifference)
	s.SelectRectangle(sacred.Replace, 1, 0, 2, 4)
	s.Fill(d2, whitePat)

	merged := s.MergeVisible()
	if merged != base {
		t.Fatal("MergeVisible did not keep the bottom layer handle")
	}
	img := s.Image()
	cases := []struct {
		x    int
		want uint8
	}{
		{0, 0},   // covered once
		{1, 255}, // covered twice
		{2, 0},   // covered once
		{3, 255}, // uncovered
	}
	for _, tc := range cases {
		got := img.NRGBAAt(tc.x, 0)
		if got.R != tc.want || got.G != tc.want || got.B != tc.want {
			t.Errorf("x=%d: got %v, want grey %d", tc.x, got, tc.want)
		}
	}
}

func TestMergeDown(t *testing.T) {
	s := raster.New(2, 2)
	bottom := s.NewLayer("bottom", sacred.LayerNormal)
	s.SelectRectangle(sacred.Replace, 0, 0, 2, 2)
	s.Fill(bottom, blackPat)
	hidden := s.NewLayer("hidden", sacred.LayerNormal)
	s.SetVisible(hidden, false)
	top := s.NewLayer("top", sacred.LayerNormal)
	s.SelectRectangle(sacred.Replace, 0, 0, 1, 2)
	s.Fill(top, whitePat)

	got := s.MergeDown(top)
	if got != bottom {
		t.Fatal("MergeDown skipped past the hidden layer incorrectly")
	}
	img := s.Image()
	if px := img.NRGBAAt(0, 0); px.R != 255 {
		t.Errorf("merged pixel %v, want white", px)
	}
	if px := img.NRGBAAt(1, 0); px.R != 0 || px.A != 255 {
		t.Errorf("untouched pixel %v, want black", px)
	}
}

func TestSelectWhiteAndMaskFromSelection(t *testing.T) {
	s := raster.New(3, 1)
	l := s.NewLayer("mask", sacred.LayerNormal)
	s.SelectRectangle(sacred.Replace, 0, 0, 1, 1)
	s.Fill(l, whitePat)
	s.SelectRectangle(sacred.Replace, 1, 0, 1, 1)
	s.Fill(l, gg.NewSolidPattern(gg.RGB(1, 1, 0.5)))

	target := s.NewLayer("target", sacred.LayerNormal)
	s.FillLayer(target, blackPat)

	s.SelectWhite(sacred.Replace, l)
	s.MaskFromSelection(target)
	img := s.Layers()[1].Image()
	if img.NRGBAAt(0, 0).A != 255 {
		t.Error("white pixel not kept by mask")
	}
	if img.NRGBAAt(1, 0).A != 0 || img.NRGBAAt(2, 0).A != 0 {
		t.Error("non-white pixels kept by mask")
	}
}

func TestMaskFromAlpha(t *testing.T) {
	s := raster.New(2, 1)
	dst := s.NewLayer("dst", sacred.LayerNormal)
	s.SelectRectangle(sacred.Replace, 0, 0, 2, 1)
	s.Fill(dst, whitePat)
	src := s.NewLayer("src", sacred.LayerNormal)
	s.SelectRectangle(sacred.Replace, 0, 0, 1, 1)
	s.Fill(src, blackPat)

	s.MaskFromAlpha(dst, src)
	img := s.Layers()[0].Image()
	if img.NRGBAAt(0, 0).A != 255 {
		t.Error("opaque source alpha lost")
	}
	if img.NRGBAAt(1, 0).A != 0 {
		t.Error("transparent source alpha not propagated")
	}
}

func TestColorToAlphaBlack(t *testing.T) {
	s := raster.New(3, 1)
	l := s.NewLayer("l", sacred.LayerNormal)
	s.SelectRectangle(sacred.Replace, 0, 0, 1, 1)
	s.Fill(l, blackPat)
	s.SelectRectangle(sacred.Replace, 1, 0, 1, 1)
	s.Fill(l, gg.NewSolidPattern(gg.RGB(0.5, 0.5, 0.5)))
	s.SelectRectangle(sacred.Replace, 2, 0, 1, 1)
	s.Fill(l, whitePat)

	s.ColorToAlpha(l, gg.Black)
	img := s.Layers()[0].Image()
	if a := img.NRGBAAt(0, 0).A; a != 0 {
		t.Errorf("black pixel alpha %d, want fully transparent", a)
	}
	mid := img.NRGBAAt(1, 0)
	if mid.A < 126 || mid.A > 129 {
		t.Errorf("mid grey alpha %d, want about half", mid.A)
	}
	if mid.R < 250 {
		t.Errorf("mid grey channel %d, want boosted toward white", mid.R)
	}
	if px := img.NRGBAAt(2, 0); px.A != 255 || px.R != 255 {
		t.Errorf("white pixel changed: %v", px)
	}
}

func TestInvert(t *testing.T) {
	s := raster.New(1, 1)
	l := s.NewLayer("l", sacred.LayerNormal)
	s.SelectRectangle(sacred.Replace, 0, 0, 1, 1)
	s.Fill(l, gg.NewSolidPattern(gg.RGB(1, 0, 0.5)))
	s.Invert(l)
	px := s.Layers()[0].Image().NRGBAAt(0, 0)
	if px.R != 0 || px.G != 255 || px.A != 255 {
		t.Errorf("inverted pixel %v", px)
	}
}

func TestFlipHorizontal(t *testing.T) {
	s := raster.New(3, 1)
	l := s.NewLayer("l", sacred.LayerNormal)
	s.SelectRectangle(sacred.Replace, 0, 0, 1, 1)
	s.Fill(l, whitePat)
	s.FlipHorizontal(l)
	img := s.Layers()[0].Image()
	if img.NRGBAAt(0, 0).A != 0 || img.NRGBAAt(2, 0).A != 255 {
		t.Error("flip did not move the pixel to the far column")
	}
}

func TestCropAndScale(t *testing.T) {
	s := raster.New(8, 8)
	l := s.NewLayer("l", sacred.LayerNormal)
	s.FillLayer(l, whitePat)
	s.SelectRectangle(sacred.Replace, 0, 0, 8, 8)

	s.Crop(4, 4)
	if w, h := s.Size(); w != 4 || h != 4 {
		t.Fatalf("size after crop %dx%d, want 4x4", w, h)
	}
	if s.Selected(0, 0) {
		t.Error("selection survived resize")
	}
	if s.Layers()[0].Image().NRGBAAt(3, 3).R != 255 {
		t.Error("crop lost layer content")
	}

	s.ScaleTo(2, 2)
	if w, h := s.Size(); w != 2 || h != 2 {
		t.Fatalf("size after scale %dx%d, want 2x2", w, h)
	}
	if px := s.Layers()[0].Image().NRGBAAt(1, 1); px.R != 255 || px.A != 255 {
		t.Errorf("scaled pixel %v, want white", px)
	}
}

func TestRotateLayerQuarterTurn(t *testing.T) {
	const dim = 9
	s := raster.New(dim, dim)
	l := s.NewLayer("l", sacred.LayerNormal)
	// A white pixel straight up from center lands to the right after a
	// clockwise quarter turn.
	s.SelectRectangle(sacred.Replace, 4, 1, 1, 1)
	s.Fill(l, whitePat)
	c := float32(dim) / 2
	s.RotateLayer(l, 3.14159265/2, c, c)
	img := s.Layers()[0].Image()
	if img.NRGBAAt(7, 4).A < 128 {
		t.Errorf("rotated pixel weak or missing: %v", img.NRGBAAt(7, 4))
	}
	if img.NRGBAAt(4, 1).A > 127 {
		t.Error("source position still strongly set after rotation")
	}
}

func TestCopyLayerNaming(t *testing.T) {
	s := raster.New(2, 2)
	l := s.NewLayer("Gradient", sacred.LayerNormal)
	cp := s.CopyLayer(l)
	if cp.Name() != "Gradient copy" {
		t.Errorf("copy named %q", cp.Name())
	}
	s.RemoveLayer(l)
	if got := len(s.Layers()); got != 1 {
		t.Errorf("layer count %d after remove, want 1", got)
	}
}

func TestTilePattern(t *testing.T) {
	s := raster.New(4, 1)
	l := s.NewLayer("l", sacred.LayerNormal)
	tile := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	tile.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	tile.SetNRGBA(1, 0, color.NRGBA{A: 255})
	s.SelectRectangle(sacred.Replace, 0, 0, 4, 1)
	s.Fill(l, sacred.TilePattern{Img: tile})
	img := s.Layers()[0].Image()
	if img.NRGBAAt(0, 0).R != 255 || img.NRGBAAt(1, 0).R != 0 {
		t.Error("tile content wrong")
	}
	if img.NRGBAAt(2, 0) != img.NRGBAAt(0, 0) {
		t.Error("pattern does not repeat")
	}
}
