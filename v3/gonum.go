/*
 * gonum.go, part of hardpack.
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

//gonum.go contains the Matrix type and the few methods that need to reach
//into the underlying gonum Dense.

package v3

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Matrix is a set of vectors in 3D space, backed by a gonum Dense.
// Within the package it is understood that a "vector" is a row vector, i.e. the
// cartesian coordinates of a point in 3D space.
type Matrix struct {
	*mat.Dense
}

// Zeros returns a zero-filled Matrix with vecs vectors.
func Zeros(vecs int) *Matrix {
	if vecs == 0 {
		return &Matrix{new(mat.Dense)}
	}
	return &Matrix{mat.NewDense(vecs, 3, nil)}
}

// NVecs returns the number of vectors in F.
func (F *Matrix) NVecs() int {
	if F.Dense == nil || F.Dense.IsEmpty() {
		return 0
	}
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

// Vec returns the ith vector as an r3.Vec.
func (F *Matrix) Vec(i int) r3.Vec {
	raw := F.RawMatrix()
	k := i * raw.Stride
	return r3.Vec{X: raw.Data[k], Y: raw.Data[k+1], Z: raw.Data[k+2]}
}

// SetVec puts v in the ith vector of F.
func (F *Matrix) SetVec(i int, v r3.Vec) {
	if i >= F.NVecs() || i < 0 {
		panic(ErrIndexOutOfRange)
	}
	raw := F.RawMatrix()
	k := i * raw.Stride
	raw.Data[k] = v.X
	raw.Data[k+1] = v.Y
	raw.Data[k+2] = v.Z
}

// Copy copies A into the receiver. Both need the same number of vectors.
func (F *Matrix) Copy(A *Matrix) {
	if F.NVecs() != A.NVecs() {
		panic(ErrShape)
	}
	if F.NVecs() == 0 {
		return
	}
	F.Dense.Copy(A.Dense)
}

// Clone returns a deep copy of F.
func (F *Matrix) Clone() *Matrix {
	ret := Zeros(F.NVecs())
	ret.Copy(F)
	return ret
}

// PanicMsg is a message used for panics, even though it does satisfy the error interface.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix    = PanicMsg("hardpack/v3: A Matrix should have 3 columns")
	ErrShape           = PanicMsg("hardpack/v3: Dimension mismatch")
	ErrIndexOutOfRange = PanicMsg("hardpack/v3: index out of range")
)
