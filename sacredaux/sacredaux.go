// Package sacredaux provides auxiliary rendering helpers to get users
// of sacred going quickly: symbol to PNG and animated GIF, with an
// in-memory raster surface wired up for you.
package sacredaux

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/glyphworks/sacred"
	"github.com/glyphworks/sacred/raster"
)

type RenderConfig struct {
	// PNGOutput receives the flattened still image.
	PNGOutput io.Writer
	// GIFOutput receives the animation. Only meaningful for yin-yang
	// symbols rendered with more than one frame.
	GIFOutput io.Writer
	Silent    bool
}

// Symbol is a renderable sacred-geometry symbol. Both [sacred.Flower]
// and [sacred.YinYang] implement it.
type Symbol interface {
	RenderTo(r sacred.Renderer)
	ImageSize() int
	FinalSize() int
}

// Render is an auxiliary function to aid users in rendering symbols
// quickly. Ideally users should implement their own rendering functions
// since applications may vary widely.
func Render(s Symbol, cfg RenderConfig) (err error) {
	if cfg.PNGOutput == nil && cfg.GIFOutput == nil {
		return errors.New("Render requires output parameter in config")
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	dim := s.ImageSize()
	surf := raster.New(dim, dim)
	watch := stopwatch()
	s.RenderTo(surf)
	log("rasterized symbol at", dim, "px in", watch())

	if cfg.PNGOutput != nil {
		watch = stopwatch()
		err = png.Encode(cfg.PNGOutput, surf.Image())
		if err != nil {
			return fmt.Errorf("encoding PNG: %s", err)
		}
		log("wrote", outputName(cfg.PNGOutput, "PNG"), "in", watch())
	}

	if cfg.GIFOutput != nil {
		frames := surf.Frames()
		if len(frames) < 2 {
			return errors.New("GIF output requires a multi-frame render")
		}
		delay := 10 // centiseconds
		if y, ok := s.(*sacred.YinYang); ok {
			delay = y.FrameDelayMS() / 10
		}
		watch = stopwatch()
		err = encodeGIF(cfg.GIFOutput, frames, delay)
		if err != nil {
			return fmt.Errorf("encoding GIF: %s", err)
		}
		log("wrote", outputName(cfg.GIFOutput, "GIF"), "with", len(frames), "frames in", watch())
	}
	return nil
}

func outputName(w io.Writer, fallback string) string {
	if fp, ok := w.(*os.File); ok {
		return fp.Name()
	}
	return fallback
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// RenderPNGFile renders the symbol and saves the result to a PNG file
// with said filename.
func RenderPNGFile(filename string, s Symbol) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = Render(s, RenderConfig{PNGOutput: fp, Silent: true})
	if err != nil {
		return err
	}
	return fp.Sync()
}

// RenderGIFFile renders an animated yin-yang and saves the animation to
// a GIF file with said filename.
func RenderGIFFile(filename string, y *sacred.YinYang) error {
	if y.Frames() < 2 {
		return errors.New("animated GIF requires at least 2 frames")
	}
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = Render(y, RenderConfig{GIFOutput: fp, Silent: true})
	if err != nil {
		return err
	}
	return fp.Sync()
}

// encodeGIF palettizes the frames over a white background and writes
// the looping animation. Rotated frames have transparent corners, so
// each frame composites onto white before quantization.
func encodeGIF(w io.Writer, frames []*image.NRGBA, delayCS int) error {
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		b := frame.Bounds()
		flat := image.NewRGBA(b)
		draw.Draw(flat, b, image.White, image.Point{}, draw.Src)
		draw.Draw(flat, b, frame, b.Min, draw.Over)
		pal := image.NewPaletted(b, palette.Plan9)
		draw.FloydSteinberg.Draw(pal, b, flat, b.Min)
		anim.Image = append(anim.Image, pal)
		anim.Delay = append(anim.Delay, delayCS)
	}
	return gif.EncodeAll(w, &anim)
}
