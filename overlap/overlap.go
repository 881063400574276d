/*
 * overlap.go, part of hardpack.
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

// Package overlap implements exact overlap tests for hard spheres and
// spherocylinders in a periodic box.
package overlap

import (
	"fmt"
	"math"

	hp "github.com/rmera/hardpack"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const eps = 1e-12

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// SegmentDistance2 returns the squared distance between the closest points of the
// segments p1-q1 and p2-q2. Degenerate segments (points) are fine.
func SegmentDistance2(p1, q1, p2, q2 r3.Vec) float64 {
	d1 := r3.Sub(q1, p1)
	d2 := r3.Sub(q2, p2)
	r := r3.Sub(p1, p2)
	a := r3.Dot(d1, d1)
	e := r3.Dot(d2, d2)
	f := r3.Dot(d2, r)
	var s, t float64
	switch {
	case a <= eps && e <= eps:
		return r3.Dot(r, r)
	case a <= eps:
		t = clamp01(f / e)
	default:
		c := r3.Dot(d1, r)
		if e <= eps {
			s = clamp01(-c / a)
			break
		}
		b := r3.Dot(d1, d2)
		denom := a*e - b*b
		if denom > eps {
			s = clamp01((b*f - c*e) / denom)
		}
		//parallel segments fall through with s=0
		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = clamp01(-c / a)
		} else if t > 1 {
			t = 1
			s = clamp01((b - c) / a)
		}
	}
	c1 := r3.Add(p1, r3.Scale(s, d1))
	c2 := r3.Add(p2, r3.Scale(t, d2))
	dc := r3.Sub(c1, c2)
	return r3.Dot(dc, dc)
}

// gap2 returns the squared distance between the cores (segments) of two
// particles, whose centers are separated by rij (already minimum-imaged).
func gap2(rij, ui r3.Vec, si hp.Shape, uj r3.Vec, sj hp.Shape) float64 {
	hi := r3.Scale(si.Length/2, ui)
	hj := r3.Scale(sj.Length/2, uj)
	return SegmentDistance2(r3.Scale(-1, hi), hi, r3.Sub(rij, hj), r3.Add(rij, hj))
}

// PairOverlap returns true if a particle with shape si at ri with axis ui
// overlaps a particle with shape sj at rj with axis uj, in box. Touching particles
// do not overlap.
func PairOverlap(box hp.Box, ri, ui r3.Vec, si hp.Shape, rj, uj r3.Vec, sj hp.Shape) bool {
	rij := box.MinImage(r3.Sub(rj, ri))
	reach := (si.Extent() + sj.Extent()) / 2
	d2 := r3.Dot(rij, rij)
	if d2 >= reach*reach {
		return false
	}
	sigma := (si.Diameter + sj.Diameter) / 2
	if !si.Anisotropic() && !sj.Anisotropic() {
		return d2 < sigma*sigma
	}
	return gap2(rij, ui, si, uj, sj) < sigma*sigma
}

// Checker runs overlap tests on whole systems. It implements hardpack.Overlapper.
// The zero value is ready to use. All checks are O(N) per particle, which is fine
// for the system sizes this library is meant for.
type Checker struct{}

// New returns a new Checker.
func New() *Checker {
	return new(Checker)
}

// OverlapCount returns the number of overlapping pairs in S.
func (C *Checker) OverlapCount(S *hp.System) int {
	n := S.Len()
	count := 0
	for i := 0; i < n; i++ {
		ri := S.Position(i)
		ui := S.Axis(i)
		si := S.Shape(i)
		for j := i + 1; j < n; j++ {
			if PairOverlap(S.Box, ri, ui, si, S.Position(j), S.Axis(j), S.Shape(j)) {
				count++
			}
		}
	}
	return count
}

// Pairs returns the overlapping pairs in S, i<j.
func (C *Checker) Pairs(S *hp.System) [][2]int {
	var ret [][2]int
	n := S.Len()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if PairOverlap(S.Box, S.Position(i), S.Axis(i), S.Shape(i), S.Position(j), S.Axis(j), S.Shape(j)) {
				ret = append(ret, [2]int{i, j})
			}
		}
	}
	return ret
}

// ParticleOverlaps returns true if particle i of S, placed at pos with orientation
// orient instead of its current pose, would overlap any other particle.
func (C *Checker) ParticleOverlaps(S *hp.System, i int, pos r3.Vec, orient quat.Number) bool {
	si := S.Shape(i)
	ui := hp.Axis(orient)
	for j := 0; j < S.Len(); j++ {
		if j == i {
			continue
		}
		if PairOverlap(S.Box, pos, ui, si, S.Position(j), S.Axis(j), S.Shape(j)) {
			return true
		}
	}
	return false
}

// LowestGap returns the smallest surface-to-surface distance in S, and the pair
// where it happens. Overlapping pairs give negative gaps. With less than 2 particles
// the gap is +Inf and the pair {-1,-1}.
func (C *Checker) LowestGap(S *hp.System) (gap float64, indexes [2]int) {
	gap = math.Inf(1)
	indexes = [2]int{-1, -1}
	n := S.Len()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			si, sj := S.Shape(i), S.Shape(j)
			rij := S.Box.MinImage(r3.Sub(S.Position(j), S.Position(i)))
			g := math.Sqrt(gap2(rij, S.Axis(i), si, S.Axis(j), sj)) - (si.Diameter+sj.Diameter)/2
			if g < gap {
				gap = g
				indexes = [2]int{i, j}
			}
		}
	}
	return
}

// CheckBox returns an error wrapping hardpack.ErrInvalidTarget if box is too thin
// for the minimum image convention with particles of the given extent, that is, if a particle
// could touch two images of another one.
func CheckBox(box hp.Box, extent float64) error {
	if !box.Valid() {
		return hp.NewError(fmt.Sprintf("invalid box %s", box), hp.ErrInvalidTarget, "overlap.CheckBox")
	}
	if w := box.MinWidth(); w < 2*extent {
		return hp.NewError(fmt.Sprintf("box width %.4f below twice the particle extent %.4f", w, extent), hp.ErrInvalidTarget, "overlap.CheckBox")
	}
	return nil
}
