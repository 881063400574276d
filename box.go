/*
 * box.go, part of hardpack.
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
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Box is a triclinic periodic box centered at the origin. The edge
// lengths and tilt factors follow the HOOMD convention, so the lattice vectors are
// a1=(Lx,0,0), a2=(XY*Ly,Ly,0) and a3=(XZ*Lz,YZ*Lz,Lz).
type Box struct {
	Lx, Ly, Lz float64
	XY, XZ, YZ float64
}

// CubicBox returns a cubic box with edge l.
func CubicBox(l float64) Box {
	return Box{Lx: l, Ly: l, Lz: l}
}

// Volume returns the volume of the box. Tilts don't change it.
func (B Box) Volume() float64 {
	return B.Lx * B.Ly * B.Lz
}

// Valid returns true if all edges are positive and finite, and the tilts finite.
func (B Box) Valid() bool {
	for _, v := range []float64{B.Lx, B.Ly, B.Lz} {
		if !(v > 0) || math.IsInf(v, 0) {
			return false
		}
	}
	for _, v := range []float64{B.XY, B.XZ, B.YZ} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Equal returns true if both boxes are exactly the same.
func (B Box) Equal(o Box) bool {
	return B == o
}

func (B Box) String() string {
	return fmt.Sprintf("Box{L: %.4f %.4f %.4f, tilt: %.4f %.4f %.4f}", B.Lx, B.Ly, B.Lz, B.XY, B.XZ, B.YZ)
}

// LatticeVectors returns the three vectors spanning the box.
func (B Box) LatticeVectors() [3]r3.Vec {
	return [3]r3.Vec{
		{X: B.Lx},
		{X: B.XY * B.Ly, Y: B.Ly},
		{X: B.XZ * B.Lz, Y: B.YZ * B.Lz, Z: B.Lz},
	}
}

// Widths returns the perpendicular distances between opposite faces
// of the box. For an orthorhombic box they are just the edge lengths.
func (B Box) Widths() r3.Vec {
	a := B.LatticeVectors()
	v := B.Volume()
	return r3.Vec{
		X: v / r3.Norm(r3.Cross(a[1], a[2])),
		Y: v / r3.Norm(r3.Cross(a[2], a[0])),
		Z: v / r3.Norm(r3.Cross(a[0], a[1])),
	}
}

// MinWidth returns the smallest of the box widths.
func (B Box) MinWidth() float64 {
	w := B.Widths()
	return floats.Min([]float64{w.X, w.Y, w.Z})
}

// Fractional returns the coordinates of p in units of the lattice vectors.
// Points inside the box have fractional coordinates in [-0.5,0.5).
func (B Box) Fractional(p r3.Vec) r3.Vec {
	s3 := p.Z / B.Lz
	s2 := (p.Y - B.YZ*p.Z) / B.Ly
	s1 := (p.X - B.XY*B.Ly*s2 - B.XZ*p.Z) / B.Lx
	return r3.Vec{X: s1, Y: s2, Z: s3}
}

// Cartesian is the inverse of Fractional.
func (B Box) Cartesian(s r3.Vec) r3.Vec {
	return r3.Vec{
		X: s.X*B.Lx + s.Y*B.XY*B.Ly + s.Z*B.XZ*B.Lz,
		Y: s.Y*B.Ly + s.Z*B.YZ*B.Lz,
		Z: s.Z * B.Lz,
	}
}

// Wrap returns the periodic image of p that lies inside the box.
func (B Box) Wrap(p r3.Vec) r3.Vec {
	s := B.Fractional(p)
	s.X -= math.Floor(s.X + 0.5)
	s.Y -= math.Floor(s.Y + 0.5)
	s.Z -= math.Floor(s.Z + 0.5)
	return B.Cartesian(s)
}

// MinImage returns the minimum image of the separation vector d.
// The result is exact as long as the interaction range is below half the
// smallest box width, which overlap.CheckBox enforces.
func (B Box) MinImage(d r3.Vec) r3.Vec {
	s := B.Fractional(d)
	s.X -= math.Round(s.X)
	s.Y -= math.Round(s.Y)
	s.Z -= math.Round(s.Z)
	return B.Cartesian(s)
}

// WithVolume returns a box with the same shape (edge ratios and tilts) as B,
// and volume v.
func (B Box) WithVolume(v float64) (Box, error) {
	if !(v > 0) || math.IsInf(v, 0) {
		return B, NewError(fmt.Sprintf("can't set a box volume of %g", v), ErrInvalidTarget, "Box.WithVolume")
	}
	if !B.Valid() {
		return B, NewError(fmt.Sprintf("can't rescale invalid box %s", B), ErrInvalidTarget, "Box.WithVolume")
	}
	f := math.Cbrt(v / B.Volume())
	ret := B
	ret.Lx *= f
	ret.Ly *= f
	ret.Lz *= f
	return ret, nil
}

// Interpolate returns the box a fraction alpha of the way from B to target.
// Edge lengths are interpolated geometrically and tilts linearly, so the volume goes
// as V(alpha)=V*(Vt/V)^alpha, which is monotonic in alpha. alpha>=1 returns
// target exactly, alpha<=0 returns B.
func (B Box) Interpolate(target Box, alpha float64) Box {
	if alpha >= 1 {
		return target
	}
	if alpha <= 0 {
		return B
	}
	geo := func(a, b float64) float64 { return a * math.Pow(b/a, alpha) }
	lin := func(a, b float64) float64 { return a + alpha*(b-a) }
	return Box{
		Lx: geo(B.Lx, target.Lx),
		Ly: geo(B.Ly, target.Ly),
		Lz: geo(B.Lz, target.Lz),
		XY: lin(B.XY, target.XY),
		XZ: lin(B.XZ, target.XZ),
		YZ: lin(B.YZ, target.YZ),
	}
}
