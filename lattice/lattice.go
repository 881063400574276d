/*
 * lattice.go, part of hardpack.
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

// Package lattice builds initial, overlap-free configurations.
package lattice

import (
	"fmt"
	"math"
	"math/rand/v2"

	hp "github.com/rmera/hardpack"
	"github.com/rmera/hardpack/overlap"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sites returns the number of sites per edge of the smallest
// simple cubic lattice with at least n sites.
func Sites(n int) int {
	k := int(math.Round(math.Cbrt(float64(n))))
	for k*k*k < n {
		k++
	}
	return k
}

// Cubic returns n particles of the given shape on a simple cubic lattice, in a cubic box
// sized so the packing fraction is phi. The lattice is filled in order and the last layers
// may be incomplete. Anisotropic particles get uniformly random orientations, drawn with
// the given seed. The lattice spacing has to be at least the extent of the shape, so
// no orientation can produce overlaps; otherwise an error wrapping hardpack.ErrInvalidTarget
// is returned.
func Cubic(n int, shape hp.Shape, phi float64, seed uint64) (*hp.System, error) {
	if err := shape.Check(); err != nil {
		return nil, hp.ErrDecorate(err, "lattice.Cubic")
	}
	if n == 0 {
		//nothing to place, any valid box will do.
		return hp.NewSystem(hp.CubicBox(2*shape.Extent()), []hp.Shape{shape}, 0)
	}
	v, err := hp.TargetVolume(n, shape.Volume(), phi)
	if err != nil {
		return nil, hp.ErrDecorate(err, "lattice.Cubic")
	}
	l := math.Cbrt(v)
	k := Sites(n)
	a := l / float64(k)
	if a < shape.Extent() {
		return nil, hp.NewError(fmt.Sprintf("lattice spacing %.4f smaller than the extent %.4f of %s; packing fraction %g is too high for a lattice start", a, shape.Extent(), shape, phi), hp.ErrInvalidTarget, "lattice.Cubic")
	}
	box := hp.CubicBox(l)
	if err := overlap.CheckBox(box, shape.Extent()); err != nil {
		return nil, hp.ErrDecorate(err, "lattice.Cubic")
	}
	S, err := hp.NewSystem(box, []hp.Shape{shape}, n)
	if err != nil {
		return nil, hp.ErrDecorate(err, "lattice.Cubic")
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))
	i := 0
	for x := 0; x < k && i < n; x++ {
		for y := 0; y < k && i < n; y++ {
			for z := 0; z < k && i < n; z++ {
				p := r3.Vec{
					X: (float64(x)+0.5)*a - l/2,
					Y: (float64(y)+0.5)*a - l/2,
					Z: (float64(z)+0.5)*a - l/2,
				}
				S.SetPosition(i, p)
				if shape.Anisotropic() {
					S.SetOrientation(i, RandomOrientation(rng))
				}
				i++
			}
		}
	}
	return S, nil
}

// RandomOrientation returns a unit quaternion uniformly distributed over all rotations
// (Shoemake's method).
func RandomOrientation(rng *rand.Rand) quat.Number {
	u1, u2, u3 := rng.Float64(), rng.Float64(), rng.Float64()
	a := math.Sqrt(1 - u1)
	b := math.Sqrt(u1)
	return quat.Number{
		Real: a * math.Sin(2*math.Pi*u2),
		Imag: a * math.Cos(2*math.Pi*u2),
		Jmag: b * math.Sin(2*math.Pi*u3),
		Kmag: b * math.Cos(2*math.Pi*u3),
	}
}
