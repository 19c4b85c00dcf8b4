package sacred_test

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"

	"github.com/glyphworks/sacred"
)

const layoutTol = 1e-3

func TestPointOnCircle(t *testing.T) {
	focus := ms2.Vec{X: 0, Y: 0}
	const r = 10
	sqrt3 := math32.Sqrt(3)
	// One full ring at 60° steps.
	tests := []struct {
		angleDeg float32
		want     ms2.Vec
	}{
		{0, ms2.Vec{X: 0, Y: -10}},
		{60, ms2.Vec{X: sqrt3 / 2 * r, Y: -5}},
		{120, ms2.Vec{X: sqrt3 / 2 * r, Y: 5}},
		{180, ms2.Vec{X: 0, Y: 10}},
		{240, ms2.Vec{X: -sqrt3 / 2 * r, Y: 5}},
		{300, ms2.Vec{X: -sqrt3 / 2 * r, Y: -5}},
	}
	for _, tc := range tests {
		got := sacred.PointOnCircle(focus, tc.angleDeg*math32.Pi/180, r)
		if !vecNear(got, tc.want, layoutTol) {
			t.Errorf("angle %v°: got %+v, want %+v", tc.angleDeg, got, tc.want)
		}
	}
	// A full turn comes back to the starting point.
	start := sacred.PointOnCircle(focus, 0, r)
	full := sacred.PointOnCircle(focus, 2*math32.Pi, r)
	if !vecNear(start, full, layoutTol) {
		t.Errorf("full turn ends at %+v, started at %+v", full, start)
	}
}

func TestPointOnCircleDistance(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		focus := ms2.Vec{X: rng.Float32() * 100, Y: rng.Float32() * 100}
		radius := 1 + rng.Float32()*50
		angle := rng.Float32() * 2 * math32.Pi
		p := sacred.PointOnCircle(focus, angle, radius)
		d := ms2.Norm(ms2.Sub(p, focus))
		if math32.Abs(d-radius) > layoutTol*radius {
			t.Errorf("distance %v from focus, want %v (angle=%v)", d, radius, angle)
		}
	}
}

func TestFlowerLayoutRingSizes(t *testing.T) {
	var bld sacred.Builder
	l := bld.NewFlowerLayout(ms2.Vec{X: 200, Y: 200}, 30)
	wantSizes := []int{1, 6, 6, 6, 12, 6, 18}
	if l.RingCount() != len(wantSizes) {
		t.Fatalf("got %d rings, want %d", l.RingCount(), len(wantSizes))
	}
	total := 0
	for i, want := range wantSizes {
		got := len(l.Ring(i))
		if got != want {
			t.Errorf("ring %d has %d circles, want %d", i, got, want)
		}
		total += got
	}
	if circles := l.Circles(); len(circles) != total {
		t.Errorf("Circles returned %d commands, want %d", len(circles), total)
	}
}

func TestFlowerLayoutRingDistances(t *testing.T) {
	center := ms2.Vec{X: 100, Y: 100}
	const r = 24
	var bld sacred.Builder
	l := bld.NewFlowerLayout(center, r)

	// Concentric rings sit at fixed distances from the center.
	ringDist := map[int]float32{1: r, 2: 2 * r, 5: 3 * r}
	for ring, want := range ringDist {
		for k, p := range l.Ring(ring) {
			d := ms2.Norm(ms2.Sub(p, center))
			if math32.Abs(d-want) > layoutTol*want {
				t.Errorf("ring %d point %d at distance %v, want %v", ring, k, d, want)
			}
		}
	}

	// The first point of ring one is straight up from the center.
	top := l.Ring(1)[0]
	if !vecNear(top, ms2.Vec{X: center.X, Y: center.Y - r}, layoutTol) {
		t.Errorf("ring 1 starts at %+v, want straight up from center", top)
	}

	// Consecutive hexagon vertices are one radius apart, and the ring
	// closes: last to first is also one side.
	ring1 := l.Ring(1)
	for k := range ring1 {
		next := ring1[(k+1)%len(ring1)]
		side := ms2.Norm(ms2.Sub(next, ring1[k]))
		if math32.Abs(side-r) > layoutTol*r {
			t.Errorf("hexagon side %d-%d is %v, want %v", k, (k+1)%6, side, r)
		}
	}
}

func TestFlowerLayoutPerimeter(t *testing.T) {
	center := ms2.Vec{X: 0, Y: 0}
	const r = 10
	var bld sacred.Builder
	l := bld.NewFlowerLayout(center, r)
	sqrt3 := math32.Sqrt(3)
	for k, p := range l.Perimeter() {
		want := 2 * float32(r) // even slots: hexagon vertices
		if k%2 == 1 {
			want = sqrt3 * r // odd slots: edge midpoints
		}
		d := ms2.Norm(ms2.Sub(p, center))
		if math32.Abs(d-want) > layoutTol*want {
			t.Errorf("perimeter %d at distance %v, want %v", k, d, want)
		}
	}
}

func TestFlowerLayoutBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	var bld sacred.Builder
	for i := 0; i < 20; i++ {
		center := ms2.Vec{X: rng.Float32() * 500, Y: rng.Float32() * 500}
		radius := 1 + rng.Float32()*100
		l := bld.NewFlowerLayout(center, radius)
		bb := l.Bounds()
		for _, cmd := range l.Circles() {
			lo := ms2.Sub(cmd.Center, ms2.Vec{X: cmd.R, Y: cmd.R})
			hi := ms2.Add(cmd.Center, ms2.Vec{X: cmd.R, Y: cmd.R})
			if lo.X < bb.Min.X-layoutTol || lo.Y < bb.Min.Y-layoutTol ||
				hi.X > bb.Max.X+layoutTol || hi.Y > bb.Max.Y+layoutTol {
				t.Fatalf("ring %d circle at %+v escapes bounds %+v", cmd.Ring, cmd.Center, bb)
			}
		}
	}
}

func TestFlowerLayoutBadRadius(t *testing.T) {
	bld := sacred.Builder{NoValidationPanic: true}
	bld.NewFlowerLayout(ms2.Vec{}, 0)
	if err := bld.Err(); err == nil {
		t.Error("expected error for zero radius")
	}
	bld.ClearErrors()
	bld.NewFlowerLayout(ms2.Vec{}, math32.NaN())
	if err := bld.Err(); err == nil {
		t.Error("expected error for NaN radius")
	}
	bld.ClearErrors()
	if err := bld.Err(); err != nil {
		t.Errorf("ClearErrors left error %v", err)
	}
}

func TestBuilderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid radius without NoValidationPanic")
		}
	}()
	var bld sacred.Builder
	bld.NewFlowerLayout(ms2.Vec{}, -1)
}

func vecNear(a, b ms2.Vec, tol float32) bool {
	return ms2.Norm(ms2.Sub(a, b)) <= tol
}
