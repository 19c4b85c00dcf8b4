package sacred

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
)

// PointOnCircle returns the point on the circle of given radius around
// focus that corresponds to a rotation angle in radians. Zero angle is
// straight up from the focus; angles increase clockwise.
func PointOnCircle(focus ms2.Vec, angle, radius float32) ms2.Vec {
	sin, cos := math32.Sincos(angle)
	return ms2.Vec{X: focus.X + sin*radius, Y: focus.Y - cos*radius}
}

// Circle is a single draw command of a symbol layout: a circle of
// radius R centered on Center belonging to ring Ring (0 is the center
// circle).
type Circle struct {
	Ring   int
	Center ms2.Vec
	R      float32
}

// FlowerLayout holds the circle centers of a Flower of Life symbol:
// a center circle surrounded by six concentric hexagonal rings, all
// sharing the base circle radius. Construction is pure geometry; the
// layout emits no pixels on its own.
type FlowerLayout struct {
	center ms2.Vec
	radius float32
	rings  [7][]ms2.Vec
	// The 12 outermost focus points. Even slots are hexagon vertices at
	// distance 2r from the center, odd slots are edge midpoints at √3·r.
	perimeter [12]ms2.Vec
}

// NewFlowerLayout computes the full ring layout for a Flower of Life
// with the given center and base circle radius.
func (bld *Builder) NewFlowerLayout(center ms2.Vec, radius float32) *FlowerLayout {
	if math32.IsNaN(radius) || radius <= 0 {
		bld.paramErrorf("non-positive circle radius %v in flower layout", radius)
	}
	l := &FlowerLayout{center: center, radius: radius}
	l.compute()
	return l
}

func (l *FlowerLayout) compute() {
	c, r := l.center, l.radius
	l.rings[0] = []ms2.Vec{c}
	ring := func(ringRadius float32) []ms2.Vec {
		pts := make([]ms2.Vec, 6)
		for k := range pts {
			pts[k] = PointOnCircle(c, float32(k)*deg60, ringRadius)
		}
		return pts
	}
	l.rings[1] = ring(r)
	l.rings[2] = ring(2 * r)

	// Ring three composes two 60° steps: rotate around the center, then
	// rotate again around the reached point with the next angle.
	ring3 := make([]ms2.Vec, 6)
	for k := 0; k < 6; k++ {
		p := PointOnCircle(c, float32(k)*deg60, r)
		ring3[k] = PointOnCircle(p, float32(k+1)*deg60, r)
	}
	l.rings[3] = ring3

	// Ring four hangs two circles off each ring-three center.
	ring4 := make([]ms2.Vec, 0, 12)
	for k := 0; k < 6; k++ {
		ring4 = append(ring4,
			PointOnCircle(ring3[k], float32(k)*deg60, r),
			PointOnCircle(ring3[k], float32(k+1)*deg60, r),
		)
	}
	l.rings[4] = ring4
	l.rings[5] = ring(3 * r)

	// Perimeter interleaves ring-three centers with points rotated one
	// step backwards off them.
	for k := 0; k < 6; k++ {
		l.perimeter[2*k+1] = ring3[k]
		l.perimeter[2*k] = PointOnCircle(ring3[k], float32(k-1)*deg60, r)
	}

	// Ring six walks the hexagon edge: six groups of three circles, each
	// reached by a double rotation off consecutive perimeter points.
	ring6 := make([]ms2.Vec, 0, 18)
	for g := 0; g < 6; g++ {
		k := 2 * g
		a1 := float32(g) * deg60
		a2 := a1 + deg60
		for j := 0; j < 3; j++ {
			i, kk := j, k
			if i+kk > 11 {
				// Out-of-range perimeter slots wrap to slot zero.
				i, kk = 0, 0
			}
			p := PointOnCircle(l.perimeter[i+kk], a1, r)
			ring6 = append(ring6, PointOnCircle(p, a2, r))
		}
	}
	l.rings[6] = ring6
}

// Center returns the layout's shared focus point.
func (l *FlowerLayout) Center() ms2.Vec { return l.center }

// CircleRadius returns the base circle radius shared by all rings.
func (l *FlowerLayout) CircleRadius() float32 { return l.radius }

// RingCount returns the number of rings including the center circle.
func (l *FlowerLayout) RingCount() int { return len(l.rings) }

// Ring returns the circle centers of ring i. Ring 0 is the single
// center circle. The returned slice is owned by the layout.
func (l *FlowerLayout) Ring(i int) []ms2.Vec { return l.rings[i] }

// Perimeter returns the 12 outermost focus points used for ring six
// and for the bounding mask.
func (l *FlowerLayout) Perimeter() [12]ms2.Vec { return l.perimeter }

// Circles returns every circle of the layout in draw order as
// (ring, center, radius) commands.
func (l *FlowerLayout) Circles() []Circle {
	var cmds []Circle
	for ring, pts := range l.rings {
		for _, p := range pts {
			cmds = append(cmds, Circle{Ring: ring, Center: p, R: l.radius})
		}
	}
	return cmds
}

// Bounds returns a box containing every circle of the layout.
func (l *FlowerLayout) Bounds() ms2.Box {
	// The outermost ring centers sit at 3r from the center; circles
	// reach one radius further.
	r := 4 * l.radius
	return ms2.Box{
		Min: ms2.Sub(l.center, ms2.Vec{X: r, Y: r}),
		Max: ms2.Add(l.center, ms2.Vec{X: r, Y: r}),
	}
}
