/*
 * system.go, part of hardpack.
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

	v3 "github.com/rmera/hardpack/v3"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Identity is the unit quaternion of a particle in its reference orientation.
var Identity = quat.Number{Real: 1}

// System is a configuration of hard particles: a periodic box plus the position,
// orientation and type of each particle. Particle i has shape Shapes[Types[i]].
// A System is owned by a single run loop at any time, nothing here is safe for concurrent
// mutation.
type System struct {
	Box    Box
	Pos    *v3.Matrix
	Orient []quat.Number
	Types  []int
	Shapes []Shape
}

// NewSystem returns a system with n particles of type 0 at the origin, in the reference
// orientation, inside box. Callers are expected to place the particles.
func NewSystem(box Box, shapes []Shape, n int) (*System, error) {
	if n < 0 {
		return nil, NewError(fmt.Sprintf("negative number of particles %d", n), nil, "NewSystem")
	}
	if !box.Valid() {
		return nil, NewError(fmt.Sprintf("invalid box %s", box), nil, "NewSystem")
	}
	if len(shapes) == 0 {
		return nil, NewError("at least one shape is needed", nil, "NewSystem")
	}
	for _, v := range shapes {
		if err := v.Check(); err != nil {
			return nil, ErrDecorate(err, "NewSystem")
		}
	}
	S := &System{
		Box:    box,
		Pos:    v3.Zeros(n),
		Orient: make([]quat.Number, n),
		Types:  make([]int, n),
		Shapes: append([]Shape(nil), shapes...),
	}
	for i := range S.Orient {
		S.Orient[i] = Identity
	}
	return S, nil
}

// Len returns the number of particles.
func (S *System) Len() int {
	return len(S.Types)
}

// Copy returns a deep copy of the system.
func (S *System) Copy() *System {
	return &System{
		Box:    S.Box,
		Pos:    S.Pos.Clone(),
		Orient: append([]quat.Number(nil), S.Orient...),
		Types:  append([]int(nil), S.Types...),
		Shapes: append([]Shape(nil), S.Shapes...),
	}
}

// Position returns the center of particle i.
func (S *System) Position(i int) r3.Vec {
	return S.Pos.Vec(i)
}

// SetPosition puts particle i at p, wrapped into the box.
func (S *System) SetPosition(i int, p r3.Vec) {
	S.Pos.SetVec(i, S.Box.Wrap(p))
}

// Orientation returns the orientation of particle i.
func (S *System) Orientation(i int) quat.Number {
	return S.Orient[i]
}

// SetOrientation sets the orientation of particle i to q, normalized.
func (S *System) SetOrientation(i int, q quat.Number) {
	S.Orient[i] = Normalize(q)
}

// Shape returns the shape of particle i.
func (S *System) Shape(i int) Shape {
	return S.Shapes[S.Types[i]]
}

// Axis returns the unit vector along the body axis of particle i, in the lab frame.
func (S *System) Axis(i int) r3.Vec {
	return Axis(S.Orient[i])
}

// SetBox replaces the box, rescaling the particle positions affinely
// so their fractional coordinates are kept. Orientations don't change.
func (S *System) SetBox(b Box) {
	old := S.Box
	S.Pos.Apply(func(i int, p r3.Vec) r3.Vec {
		return b.Cartesian(old.Fractional(p))
	})
	S.Box = b
}

// ParticleVolume returns the total volume of all the particles.
func (S *System) ParticleVolume() float64 {
	var v float64
	for _, t := range S.Types {
		v += S.Shapes[t].Volume()
	}
	return v
}

// PackingFraction returns the ratio of particle volume to box volume.
func (S *System) PackingFraction() float64 {
	return S.ParticleVolume() / S.Box.Volume()
}

// MaxExtent returns the largest extent among the shapes in use.
func (S *System) MaxExtent() float64 {
	var m float64
	used := make([]bool, len(S.Shapes))
	for _, t := range S.Types {
		used[t] = true
	}
	for i, v := range S.Shapes {
		if used[i] && v.Extent() > m {
			m = v.Extent()
		}
	}
	return m
}

// Anisotropic returns true if any particle has an anisotropic shape.
func (S *System) Anisotropic() bool {
	for _, t := range S.Types {
		if S.Shapes[t].Anisotropic() {
			return true
		}
	}
	return false
}

// Check verifies the internal consistency of the system.
func (S *System) Check() error {
	n := S.Len()
	if S.Pos.NVecs() != n || len(S.Orient) != n {
		return NewError(fmt.Sprintf("inconsistent system: %d types, %d positions, %d orientations", n, S.Pos.NVecs(), len(S.Orient)), nil, "System.Check")
	}
	if !S.Box.Valid() {
		return NewError(fmt.Sprintf("invalid box %s", S.Box), nil, "System.Check")
	}
	for i, t := range S.Types {
		if t < 0 || t >= len(S.Shapes) {
			return NewError(fmt.Sprintf("particle %d has type %d but there are %d shapes", i, t, len(S.Shapes)), nil, "System.Check")
		}
	}
	return nil
}

// Normalize returns q scaled to unit norm. The zero quaternion gives Identity.
func Normalize(q quat.Number) quat.Number {
	a := quat.Abs(q)
	if a == 0 {
		return Identity
	}
	return quat.Scale(1/a, q)
}

// Axis returns the lab-frame direction of the body z axis for orientation q.
func Axis(q quat.Number) r3.Vec {
	return r3.Rotation(q).Rotate(r3.Vec{Z: 1})
}
