// Package sacred generates sacred geometry symbols as ordered draw
// programs. The two symbols implemented are the Flower of Life and the
// yin-yang glyph. Symbol types compute circle placements from a center
// point and a base radius and issue selection/fill/merge primitives
// against a [Renderer], which rasterizes them.
package sacred

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// Angle step used by ring construction. Zero angle points up and
// angles increase clockwise.
const deg60 = math32.Pi / 3

// Builder wraps symbol and layout construction logic.
// Provides error handling strategies with panics or error accumulation
// during symbol generation.
type Builder struct {
	// NoValidationPanic makes out-of-range parameters accumulate as
	// errors retrievable with Err instead of panicking.
	NoValidationPanic bool
	accumErrs         []error
}

func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

// ClearErrors discards accumulated errors so the Builder can be reused.
func (bld *Builder) ClearErrors() {
	bld.accumErrs = bld.accumErrs[:0]
}

func (bld *Builder) paramErrorf(msg string, args ...any) {
	if !bld.NoValidationPanic {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

func inRange(v, min, max float32) bool {
	return !math32.IsNaN(v) && v >= min && v <= max
}
