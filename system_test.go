/*
 * system_test.go, part of hardpack.
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

package hardpack

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestShapes(Te *testing.T) {
	s := Sphere(1)
	if math.Abs(s.Volume()-math.Pi/6) > tol {
		Te.Errorf("unit sphere volume %g", s.Volume())
	}
	sc := Spherocylinder(1, 2)
	if math.Abs(sc.Volume()-(math.Pi/6+math.Pi/2)) > tol {
		Te.Errorf("spherocylinder volume %g", sc.Volume())
	}
	if s.Anisotropic() || !sc.Anisotropic() {
		Te.Error("wrong anisotropy")
	}
	if sc.Extent() != 3 {
		Te.Errorf("extent %g", sc.Extent())
	}
	if (Shape{Name: "bad", Diameter: -1}).Check() == nil {
		Te.Error("negative diameter accepted")
	}
}

func TestSystemSetBox(Te *testing.T) {
	S, err := NewSystem(CubicBox(10), []Shape{Sphere(1)}, 3)
	if err != nil {
		Te.Fatal(err)
	}
	S.SetPosition(0, r3.Vec{X: 1, Y: 2, Z: 3})
	S.SetPosition(1, r3.Vec{X: 6, Y: -4, Z: 0})
	if p := S.Position(1); !close3(p, r3.Vec{X: -4, Y: -4}) {
		Te.Errorf("SetPosition did not wrap: %v", p)
	}
	C := S.Copy()
	S.SetBox(CubicBox(5))
	if p := S.Position(0); !close3(p, r3.Vec{X: 0.5, Y: 1, Z: 1.5}) {
		Te.Errorf("affine rescale gave %v", p)
	}
	if p := C.Position(0); !close3(p, r3.Vec{X: 1, Y: 2, Z: 3}) {
		Te.Errorf("Copy shares state with the original: %v", p)
	}
	if math.Abs(S.PackingFraction()-3*(math.Pi/6)/125) > tol {
		Te.Errorf("packing fraction %g", S.PackingFraction())
	}
	if err := S.Check(); err != nil {
		Te.Error(err)
	}
}

func TestAxis(Te *testing.T) {
	S, err := NewSystem(CubicBox(10), []Shape{Spherocylinder(1, 1)}, 1)
	if err != nil {
		Te.Fatal(err)
	}
	if a := S.Axis(0); !close3(a, r3.Vec{Z: 1}) {
		Te.Errorf("reference axis %v", a)
	}
	//90 degrees around x takes z to -y
	h := math.Sqrt(0.5)
	S.SetOrientation(0, quat.Number{Real: 2 * h, Imag: 2 * h}) //not normalized on purpose
	if a := S.Axis(0); !close3(a, r3.Vec{Y: -1}) {
		Te.Errorf("rotated axis %v", a)
	}
}

func TestTargetVolume(Te *testing.T) {
	v, err := TargetVolume(100, math.Pi/6, 0.5)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(v-100*math.Pi/3) > tol {
		Te.Errorf("target volume %g", v)
	}
	bad := []struct {
		n   int
		vp  float64
		phi float64
	}{
		{100, 1, 0},
		{100, 1, -0.1},
		{100, 1, 1.2},
		{100, 0, 0.5},
		{-1, 1, 0.5},
		{0, 1, 0.5},
	}
	for _, b := range bad {
		if _, err := TargetVolume(b.n, b.vp, b.phi); !errors.Is(err, ErrInvalidTarget) {
			Te.Errorf("TargetVolume(%d, %g, %g) gave %v", b.n, b.vp, b.phi, err)
		}
	}
	S, _ := NewSystem(CubicBox(10), []Shape{Sphere(1)}, 10)
	T, err := TargetBox(S, 0.3)
	if err != nil {
		Te.Fatal(err)
	}
	S.SetBox(T)
	if math.Abs(S.PackingFraction()-0.3) > 1e-12 {
		Te.Errorf("packing fraction after TargetBox %g", S.PackingFraction())
	}
}
