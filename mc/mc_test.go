/*
 * mc_test.go, part of hardpack.
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

package mc

import (
	"testing"

	hp "github.com/rmera/hardpack"
	"github.com/rmera/hardpack/lattice"
	"github.com/rmera/hardpack/overlap"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ hp.Mover = (*Integrator)(nil)
var _ hp.Tunable = (*Integrator)(nil)

func TestDiluteSpheres(Te *testing.T) {
	S, err := lattice.Cubic(27, hp.Sphere(1), 0.01, 1)
	if err != nil {
		Te.Fatal(err)
	}
	I := New(nil)
	c := I.Advance(S, 20)
	if c[hp.Rotate].Total() != 0 {
		Te.Errorf("spheres got %d rotation moves", c[hp.Rotate].Total())
	}
	if c[hp.Translate].Total() != 27*20 {
		Te.Errorf("expected %d translation moves, got %d", 27*20, c[hp.Translate].Total())
	}
	r, ok := c[hp.Translate].Ratio()
	if !ok || r < 0.99 {
		Te.Errorf("acceptance %g in a dilute system with small moves", r)
	}
	if I.Counts() != c {
		Te.Errorf("accumulated counts %v differ from the only call %v", I.Counts(), c)
	}
	I.Advance(S, 1)
	if I.Counts()[hp.Translate].Total() != 27*21 {
		Te.Error("counts are not accumulated")
	}
	I.ResetCounts()
	if I.Counts()[hp.Translate].Total() != 0 {
		Te.Error("counts were not reset")
	}
}

func TestNoOverlapsCreated(Te *testing.T) {
	for _, shape := range []hp.Shape{hp.Sphere(1), hp.Spherocylinder(1, 1.5)} {
		S, err := lattice.Cubic(64, shape, 0.1, 3)
		if err != nil {
			Te.Fatal(err)
		}
		o := DefaultOptions()
		o.Translate(0.8)
		o.Rotate(0.8)
		I := New(o)
		C := overlap.New()
		for i := 0; i < 10; i++ {
			I.Advance(S, 5)
			if n := C.OverlapCount(S); n != 0 {
				Te.Fatalf("%s: %d overlaps after %d steps", shape, n, 5*(i+1))
			}
		}
		if shape.Anisotropic() && I.Counts()[hp.Rotate].Accepted == 0 {
			Te.Errorf("%s: no rotation move was accepted", shape)
		}
		for i := 0; i < S.Len(); i++ {
			s := S.Box.Fractional(S.Position(i))
			if s.X < -0.5 || s.X >= 0.5 || s.Y < -0.5 || s.Y >= 0.5 || s.Z < -0.5 || s.Z >= 0.5 {
				Te.Errorf("particle %d outside the box: %v", i, s)
			}
		}
	}
}

func TestAcceptanceDropsWithAmplitude(Te *testing.T) {
	ratio := func(d float64) float64 {
		S, err := lattice.Cubic(64, hp.Sphere(1), 0.3, 5)
		if err != nil {
			Te.Fatal(err)
		}
		o := DefaultOptions()
		o.Translate(d)
		I := New(o)
		I.Advance(S, 10)
		r, _ := I.Counts()[hp.Translate].Ratio()
		return r
	}
	small, large := ratio(0.05), ratio(1.0)
	if !(small > large) {
		Te.Errorf("acceptance with d=0.05 (%g) should be above the one with d=1 (%g)", small, large)
	}
}

func TestSeedReproducible(Te *testing.T) {
	run := func() *hp.System {
		S, _ := lattice.Cubic(27, hp.Spherocylinder(1, 1), 0.05, 2)
		o := DefaultOptions()
		o.Seed(42)
		New(o).Advance(S, 10)
		return S
	}
	A, B := run(), run()
	for i := 0; i < A.Len(); i++ {
		if A.Position(i) != B.Position(i) || A.Orientation(i) != B.Orientation(i) {
			Te.Fatalf("runs with the same seed differ at particle %d", i)
		}
	}
}

func TestOverlappingParticleOnlyMovesOut(Te *testing.T) {
	S, err := hp.NewSystem(hp.CubicBox(10), []hp.Shape{hp.Sphere(1)}, 2)
	if err != nil {
		Te.Fatal(err)
	}
	S.SetPosition(1, r3.Vec{X: 0.5})
	o := DefaultOptions()
	o.Translate(2)
	I := New(o)
	C := overlap.New()
	for i := 0; i < 50 && C.OverlapCount(S) > 0; i++ {
		I.Advance(S, 1)
	}
	if C.OverlapCount(S) != 0 {
		Te.Error("the overlap was never resolved")
	}
	I.SetMoveSize(hp.Translate, -1)
	if I.MoveSize(hp.Translate) != 0 {
		Te.Error("negative move sizes should be clamped to 0")
	}
}

func TestEmpty(Te *testing.T) {
	S, _ := hp.NewSystem(hp.CubicBox(3), []hp.Shape{hp.Sphere(1)}, 0)
	c := New(nil).Advance(S, 100)
	if c != (hp.MoveCounts{}) {
		Te.Errorf("moves in an empty system: %v", c)
	}
}
