/*
 * overlap_test.go, part of hardpack.
 *
 * Copyright 2024 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package overlap

import (
	"errors"
	"math"
	"testing"

	hp "github.com/rmera/hardpack"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ hp.Overlapper = (*Checker)(nil)

func TestSegmentDistance(Te *testing.T) {
	cases := []struct {
		name           string
		p1, q1, p2, q2 r3.Vec
		want           float64
	}{
		{"points", r3.Vec{}, r3.Vec{}, r3.Vec{X: 3, Y: 4}, r3.Vec{X: 3, Y: 4}, 25},
		{"crossing", r3.Vec{X: -1}, r3.Vec{X: 1}, r3.Vec{Y: -1, Z: 2}, r3.Vec{Y: 1, Z: 2}, 4},
		{"parallel", r3.Vec{X: -1}, r3.Vec{X: 1}, r3.Vec{X: -1, Y: 1}, r3.Vec{X: 1, Y: 1}, 1},
		{"collinear gap", r3.Vec{X: -1}, r3.Vec{X: 1}, r3.Vec{X: 2}, r3.Vec{X: 4}, 1},
		{"point to segment", r3.Vec{X: 0.5, Y: 2}, r3.Vec{X: 0.5, Y: 2}, r3.Vec{X: -1}, r3.Vec{X: 1}, 4},
		{"end to end", r3.Vec{}, r3.Vec{X: 1}, r3.Vec{X: 2, Y: 1}, r3.Vec{X: 3, Y: 1}, 2},
	}
	for _, c := range cases {
		got := SegmentDistance2(c.p1, c.q1, c.p2, c.q2)
		if math.Abs(got-c.want) > 1e-9 {
			Te.Errorf("%s: squared distance %g, expected %g", c.name, got, c.want)
		}
		//symmetric
		if back := SegmentDistance2(c.p2, c.q2, c.p1, c.q1); math.Abs(back-got) > 1e-9 {
			Te.Errorf("%s: not symmetric, %g vs %g", c.name, got, back)
		}
	}
}

func TestPairOverlapSpheres(Te *testing.T) {
	box := hp.CubicBox(10)
	s := hp.Sphere(1)
	z := r3.Vec{Z: 1}
	if !PairOverlap(box, r3.Vec{}, z, s, r3.Vec{X: 0.99}, z, s) {
		Te.Error("spheres at 0.99 should overlap")
	}
	if PairOverlap(box, r3.Vec{}, z, s, r3.Vec{X: 1.0}, z, s) {
		Te.Error("touching spheres should not overlap")
	}
	//across the periodic boundary
	if !PairOverlap(box, r3.Vec{X: -4.8}, z, s, r3.Vec{X: 4.8}, z, s) {
		Te.Error("spheres overlapping through the boundary were missed")
	}
	big := hp.Sphere(3)
	if !PairOverlap(box, r3.Vec{}, z, s, r3.Vec{Y: 1.9}, z, big) {
		Te.Error("a sphere of d=1 and one of d=3 at 1.9 should overlap")
	}
}

func TestPairOverlapSpherocylinders(Te *testing.T) {
	box := hp.CubicBox(20)
	sc := hp.Spherocylinder(1, 4)
	x := r3.Vec{X: 1}
	y := r3.Vec{Y: 1}
	z := r3.Vec{Z: 1}
	//side by side, parallel
	if !PairOverlap(box, r3.Vec{}, z, sc, r3.Vec{X: 0.9, Z: 1.5}, z, sc) {
		Te.Error("parallel spherocylinders at 0.9 should overlap")
	}
	if PairOverlap(box, r3.Vec{}, z, sc, r3.Vec{X: 1.1, Z: 1.5}, z, sc) {
		Te.Error("parallel spherocylinders at 1.1 should not overlap")
	}
	//tip to tip along the axis: centers 5 apart is contact
	if PairOverlap(box, r3.Vec{}, z, sc, r3.Vec{Z: 5.01}, z, sc) {
		Te.Error("aligned spherocylinders beyond contact overlap")
	}
	if !PairOverlap(box, r3.Vec{}, z, sc, r3.Vec{Z: 4.99}, z, sc) {
		Te.Error("aligned spherocylinders within contact do not overlap")
	}
	//T configuration: centers are closer than the extent, but the cores are 1.05 apart
	if PairOverlap(box, r3.Vec{}, x, sc, r3.Vec{Y: 1.05}, z, sc) {
		Te.Error("rods in a T configuration 1.05 apart should not overlap")
	}
	if PairOverlap(box, r3.Vec{}, x, sc, r3.Vec{Z: 1.05}, y, sc) {
		Te.Error("crossed rods 1.05 apart should not overlap")
	}
	if !PairOverlap(box, r3.Vec{}, x, sc, r3.Vec{Z: 0.95}, y, sc) {
		Te.Error("crossed rods 0.95 apart should overlap")
	}
	//a sphere near the middle of a rod
	s := hp.Sphere(1)
	if !PairOverlap(box, r3.Vec{}, z, sc, r3.Vec{X: 0.95, Z: 1}, z, s) {
		Te.Error("sphere touching the side of a rod missed")
	}
}

func newSystem(Te *testing.T, l float64, shape hp.Shape, pos []r3.Vec) *hp.System {
	S, err := hp.NewSystem(hp.CubicBox(l), []hp.Shape{shape}, len(pos))
	if err != nil {
		Te.Fatal(err)
	}
	for i, v := range pos {
		S.SetPosition(i, v)
	}
	return S
}

func TestChecker(Te *testing.T) {
	S := newSystem(Te, 10, hp.Sphere(1), []r3.Vec{{}, {X: 0.5}, {X: 3}, {X: 3.9}, {X: -3}})
	C := New()
	if n := C.OverlapCount(S); n != 2 {
		Te.Errorf("expected 2 overlapping pairs, got %d", n)
	}
	p := C.Pairs(S)
	if len(p) != 2 || p[0] != [2]int{0, 1} || p[1] != [2]int{2, 3} {
		Te.Errorf("wrong pairs %v", p)
	}
	if !C.ParticleOverlaps(S, 4, r3.Vec{X: -0.5}, hp.Identity) {
		Te.Error("moving particle 4 next to particle 0 should overlap")
	}
	if C.ParticleOverlaps(S, 4, r3.Vec{X: -2}, hp.Identity) {
		Te.Error("particle 4 at x=-2 should be free")
	}
	//particle 0 is skipped, but particle 1 is still there
	if !C.ParticleOverlaps(S, 0, r3.Vec{Y: 0.01}, hp.Identity) {
		Te.Error("particle 0 displaced slightly should still overlap particle 1")
	}
	gap, idx := C.LowestGap(S)
	if idx != [2]int{0, 1} || math.Abs(gap+0.5) > 1e-9 {
		Te.Errorf("lowest gap %g at %v", gap, idx)
	}
	var none Checker
	E := newSystem(Te, 10, hp.Sphere(1), nil)
	if none.OverlapCount(E) != 0 {
		Te.Error("an empty system has overlaps")
	}
}

func TestCheckerRotation(Te *testing.T) {
	S := newSystem(Te, 20, hp.Spherocylinder(1, 4), []r3.Vec{{}, {X: 1.5}})
	C := New()
	if C.OverlapCount(S) != 0 {
		Te.Fatal("parallel rods 1.5 apart overlap")
	}
	//tilt particle 1 by 90 degrees around y, so it points along x, into particle 0
	h := math.Sqrt(0.5)
	q := quat.Number{Real: h, Jmag: h}
	if !C.ParticleOverlaps(S, 1, S.Position(1), q) {
		Te.Error("rotated rod should overlap")
	}
	S.SetOrientation(1, q)
	if C.OverlapCount(S) != 1 {
		Te.Error("OverlapCount disagrees with ParticleOverlaps")
	}
}

func TestCheckBox(Te *testing.T) {
	if err := CheckBox(hp.CubicBox(4), 1); err != nil {
		Te.Error(err)
	}
	if err := CheckBox(hp.CubicBox(1.5), 1); !errors.Is(err, hp.ErrInvalidTarget) {
		Te.Errorf("a box of 1.5 for particles of extent 1 gave %v", err)
	}
}
