/*
 * gocoords.go, part of hardpack.
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

package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Apply replaces each vector v of F by f(i, v).
func (F *Matrix) Apply(f func(i int, v r3.Vec) r3.Vec) {
	for i := 0; i < F.NVecs(); i++ {
		F.SetVec(i, f(i, F.Vec(i)))
	}
}

// String returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r := F.NVecs()
	if r == 0 {
		return "[ ]"
	}
	v := make([]string, 0, r+2)
	v = append(v, "\n[")
	for i := 0; i < r; i++ {
		p := F.Vec(i)
		v = append(v, fmt.Sprintf(" %6.2f %6.2f %6.2f", p.X, p.Y, p.Z))
	}
	v = append(v, " ]")
	return strings.Join(v, "\n")
}
