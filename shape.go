/*
 * shape.go, part of hardpack.
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
)

// Shape is a hard spherocylinder: a cylinder of the given Length capped
// with two hemispheres of the given Diameter. A sphere is a spherocylinder
// of Length 0. The cylinder axis is the body-frame z axis.
type Shape struct {
	Name     string
	Diameter float64
	Length   float64
}

// Sphere returns a sphere of diameter d.
func Sphere(d float64) Shape {
	return Shape{Name: "sphere", Diameter: d}
}

// Spherocylinder returns a spherocylinder with diameter d
// and cylinder length l.
func Spherocylinder(d, l float64) Shape {
	return Shape{Name: "spherocylinder", Diameter: d, Length: l}
}

// Volume returns the volume of one particle with shape S.
func (S Shape) Volume() float64 {
	d := S.Diameter
	return math.Pi*d*d*d/6 + math.Pi*d*d*S.Length/4
}

// Extent is the largest distance between two points of the shape.
func (S Shape) Extent() float64 {
	return S.Diameter + S.Length
}

// Anisotropic is true if the orientation of the particle matters.
func (S Shape) Anisotropic() bool {
	return S.Length > 0
}

// Check returns an error if the shape is not physical.
func (S Shape) Check() error {
	if !(S.Diameter > 0) || math.IsInf(S.Diameter, 0) {
		return NewError(fmt.Sprintf("shape %q has diameter %g", S.Name, S.Diameter), nil, "Shape.Check")
	}
	if S.Length < 0 || math.IsNaN(S.Length) || math.IsInf(S.Length, 0) {
		return NewError(fmt.Sprintf("shape %q has length %g", S.Name, S.Length), nil, "Shape.Check")
	}
	return nil
}

func (S Shape) String() string {
	if S.Anisotropic() {
		return fmt.Sprintf("%s(d=%g, l=%g)", S.Name, S.Diameter, S.Length)
	}
	return fmt.Sprintf("%s(d=%g)", S.Name, S.Diameter)
}
