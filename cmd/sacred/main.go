// Command sacred renders Flower of Life and yin-yang symbols to PNG
// and animated GIF files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/ncruces/zenity"

	"github.com/glyphworks/sacred"
	"github.com/glyphworks/sacred/sacredaux"
)

type flags struct {
	symbol string
	output string
	dialog bool

	// flower
	radius     float64
	flowerMode string
	flowerType string
	lineWidth  float64
	frameWidth float64
	frameColor string
	seed       int64

	// yin-yang
	diameter   float64
	yyMode     string
	color1     string
	color2     string
	rimColor   string
	rimWidth   float64
	eyeDivisor float64
	ccw        bool
	frames     int
	delayMS    int
}

func main() {
	var f flags
	flag.StringVar(&f.symbol, "symbol", "flower", "symbol to render: flower or yinyang")
	flag.StringVar(&f.output, "o", "", "output file, .png or .gif (default <symbol>.png)")
	flag.BoolVar(&f.dialog, "dialog", false, "pick colors interactively instead of from flags")

	flag.Float64Var(&f.radius, "radius", 120, "flower radius in pixels [60, 18000]")
	flag.StringVar(&f.flowerMode, "flower-mode", "bw", "flower coloring: bw, preset or random")
	flag.StringVar(&f.flowerType, "type", "petals", "flower type: lines, petals or circles")
	flag.Float64Var(&f.lineWidth, "line-width", 2, "flower outline width for type lines [1, 20]")
	flag.Float64Var(&f.frameWidth, "frame-width", 10, "flower frame width, 0 disables [0, 100]")
	flag.StringVar(&f.frameColor, "frame-color", "#000000", "flower frame color for preset mode")
	flag.Int64Var(&f.seed, "seed", 0, "random palette seed, 0 seeds from the clock")

	flag.Float64Var(&f.diameter, "diameter", 256, "yin-yang diameter in pixels [80, 1000]")
	flag.StringVar(&f.yyMode, "yy-mode", "solid", "yin-yang coloring: solid, gradient, polar, polar-hue, polar-lightness or polar-saturation")
	flag.StringVar(&f.color1, "color1", "#000000", "first flow color")
	flag.StringVar(&f.color2, "color2", "#ffffff", "second flow color")
	flag.StringVar(&f.rimColor, "rim-color", "#000000", "rim color")
	flag.Float64Var(&f.rimWidth, "rim", 2, "rim width, 0 disables [0, 20]")
	flag.Float64Var(&f.eyeDivisor, "eye", 8, "eye divisor, larger makes smaller eyes [6, 25]")
	flag.BoolVar(&f.ccw, "ccw", false, "mirror the symbol to flow counter-clockwise")
	flag.IntVar(&f.frames, "frames", 1, "animation frame count, 1 renders a still [1, 60]")
	flag.IntVar(&f.delayMS, "delay", 100, "animation frame delay in milliseconds [10, 1000]")
	flag.Parse()

	if err := run(f); err != nil {
		if f.dialog {
			zenity.Error(err.Error(), zenity.Title("Render failed"))
		}
		log.Fatal(err)
	}
}

func run(f flags) error {
	var bld sacred.Builder
	bld.NoValidationPanic = true

	var s sacredaux.Symbol
	var yy *sacred.YinYang
	switch f.symbol {
	case "flower":
		s = newFlower(&bld, f)
	case "yinyang":
		yy = newYinYang(&bld, f)
		s = yy
	default:
		return fmt.Errorf("unknown symbol %q", f.symbol)
	}
	if err := bld.Err(); err != nil {
		return err
	}

	output := f.output
	if output == "" {
		output = f.symbol + ".png"
		if f.frames > 1 {
			output = f.symbol + ".gif"
		}
	}
	var err error
	if strings.HasSuffix(output, ".gif") {
		if yy == nil {
			return errors.New("animated GIF output is only available for yinyang")
		}
		err = sacredaux.RenderGIFFile(output, yy)
	} else {
		err = sacredaux.RenderPNGFile(output, s)
	}
	if err != nil {
		return err
	}
	fmt.Println("rendered", f.symbol, "to", output)
	return nil
}

func newFlower(bld *sacred.Builder, f flags) *sacred.Flower {
	cfg := sacred.FlowerConfig{
		Radius:     float32(f.radius),
		LineWidth:  float32(f.lineWidth),
		FrameWidth: float32(f.frameWidth),
		FrameColor: parseColor(f.frameColor),
	}
	switch f.flowerMode {
	case "bw":
		cfg.Mode = sacred.FlowerBlackAndWhite
	case "preset":
		cfg.Mode = sacred.FlowerPresetColors
		for i := range cfg.RingColors {
			name := fmt.Sprintf("ring %d of %d", i+1, len(cfg.RingColors))
			cfg.RingColors[i] = pickColor(f, name, sacred.RGB{R: 255})
		}
	case "random":
		cfg.Mode = sacred.FlowerRandomColors
		if f.seed != 0 {
			cfg.Rand = rand.New(rand.NewSource(f.seed))
		}
	default:
		log.Fatalf("unknown flower mode %q", f.flowerMode)
	}
	switch f.flowerType {
	case "lines":
		cfg.Type = sacred.FlowerLines
	case "petals":
		cfg.Type = sacred.FlowerPetals
	case "circles":
		cfg.Type = sacred.FlowerCircles
	default:
		log.Fatalf("unknown flower type %q", f.flowerType)
	}
	fl := bld.NewFlower(cfg)
	if cfg.Mode == sacred.FlowerRandomColors && bld.Err() == nil {
		rings, frame := fl.Palette()
		log.Printf("random palette: rings=%v frame=%v", rings, frame)
	}
	return fl
}

func newYinYang(bld *sacred.Builder, f flags) *sacred.YinYang {
	cfg := sacred.YinYangConfig{
		Diameter:         float32(f.diameter),
		FlowColor1:       pickColor(f, "first flow", parseColor(f.color1)),
		FlowColor2:       pickColor(f, "second flow", parseColor(f.color2)),
		RimColor:         parseColor(f.rimColor),
		RimWidth:         float32(f.rimWidth),
		EyeDivisor:       float32(f.eyeDivisor),
		CounterClockwise: f.ccw,
		Frames:           f.frames,
		FrameDelayMS:     f.delayMS,
	}
	switch f.yyMode {
	case "solid":
		cfg.Mode = sacred.YinYangSolid
	case "gradient":
		cfg.Mode = sacred.YinYangGradient
	case "polar":
		cfg.Mode = sacred.YinYangPolarColor
	case "polar-hue":
		cfg.Mode = sacred.YinYangPolarHue
	case "polar-lightness":
		cfg.Mode = sacred.YinYangPolarLightness
	case "polar-saturation":
		cfg.Mode = sacred.YinYangPolarSaturation
	default:
		log.Fatalf("unknown yin-yang mode %q", f.yyMode)
	}
	return bld.NewYinYang(cfg)
}

// pickColor asks the user for a color in dialog mode and falls back to
// the flag value otherwise or on cancel.
func pickColor(f flags, what string, fallback sacred.RGB) sacred.RGB {
	if !f.dialog {
		return fallback
	}
	c, err := zenity.SelectColor(
		zenity.Title("Pick the "+what+" color"),
		zenity.Color(fallback),
	)
	if err != nil {
		if !errors.Is(err, zenity.ErrCanceled) {
			log.Println("color dialog:", err)
		}
		return fallback
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return sacred.RGB{R: n.R, G: n.G, B: n.B}
}

func parseColor(s string) sacred.RGB {
	s = strings.TrimPrefix(s, "#")
	var c sacred.RGB
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		fmt.Fprintf(os.Stderr, "bad color %q, using black\n", s)
		return sacred.RGB{}
	}
	return c
}
