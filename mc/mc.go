/*
 * mc.go, part of hardpack.
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

// Package mc implements the hard-particle Monte Carlo trial-move engine.
//
// One step is N trial moves, N being the number of particles. Each trial move picks
// a particle at random and either translates it (uniformly within a ball of radius d)
// or rotates it (around a random axis, by an angle uniform in [-a,a]).
// The move is accepted if, and only if, the new pose overlaps no other particle.
package mc

import (
	"math"
	"math/rand/v2"

	hp "github.com/rmera/hardpack"
	"github.com/rmera/hardpack/overlap"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Options for the Integrator.
type Options struct {
	translate float64
	rotate    float64
	moveRatio float64
	seed      uint64
}

// DefaultOptions returns translation and rotation amplitudes of 0.1 (length units
// and radians, respectively), an even split between translation and rotation moves,
// and seed 1.
func DefaultOptions() *Options {
	return &Options{translate: 0.1, rotate: 0.1, moveRatio: 0.5, seed: 1}
}

// Translate returns the translation amplitude and sets it, if a positive value is given.
func (O *Options) Translate(d ...float64) float64 {
	if len(d) > 0 && d[0] > 0 {
		O.translate = d[0]
	}
	return O.translate
}

// Rotate returns the rotation amplitude (radians) and sets it, if a positive value is given.
func (O *Options) Rotate(a ...float64) float64 {
	if len(a) > 0 && a[0] > 0 {
		O.rotate = a[0]
	}
	return O.rotate
}

// MoveRatio returns the fraction of trial moves that are translations, and sets it
// if a value in [0,1] is given. It only matters for systems with anisotropic particles,
// spheres are only translated.
func (O *Options) MoveRatio(r ...float64) float64 {
	if len(r) > 0 && r[0] >= 0 && r[0] <= 1 {
		O.moveRatio = r[0]
	}
	return O.moveRatio
}

// Seed returns the seed of the random number generator, and sets it if given.
func (O *Options) Seed(s ...uint64) uint64 {
	if len(s) > 0 {
		O.seed = s[0]
	}
	return O.seed
}

// Integrator is the trial-move engine. It implements hardpack.Mover
// and hardpack.Tunable.
type Integrator struct {
	size      [hp.NMoveKinds]float64
	moveRatio float64
	rng       *rand.Rand
	checker   *overlap.Checker
	counts    hp.MoveCounts
}

// New returns an integrator with the given options, or the defaults if o is nil.
func New(o *Options) *Integrator {
	if o == nil {
		o = DefaultOptions()
	}
	I := &Integrator{
		moveRatio: o.moveRatio,
		rng:       rand.New(rand.NewPCG(o.seed, 0x9e3779b97f4a7c15)),
		checker:   overlap.New(),
	}
	I.size[hp.Translate] = o.translate
	I.size[hp.Rotate] = o.rotate
	return I
}

// Counts returns the move counts accumulated since the last call to ResetCounts.
func (I *Integrator) Counts() hp.MoveCounts {
	return I.counts
}

// ResetCounts sets the accumulated counts to zero.
func (I *Integrator) ResetCounts() {
	I.counts = hp.MoveCounts{}
}

// MoveSize returns the amplitude of the moves of kind k.
func (I *Integrator) MoveSize(k hp.MoveKind) float64 {
	return I.size[k]
}

// SetMoveSize sets the amplitude of the moves of kind k. Negative values are set to 0.
func (I *Integrator) SetMoveSize(k hp.MoveKind, size float64) {
	I.size[k] = math.Max(size, 0)
}

// Advance runs nsteps steps on S, and returns the counts for those steps only.
// The counts are also added to the ones returned by Counts.
func (I *Integrator) Advance(S *hp.System, nsteps int) hp.MoveCounts {
	var c hp.MoveCounts
	n := S.Len()
	if n == 0 {
		return c
	}
	ratio := I.moveRatio
	if !S.Anisotropic() {
		ratio = 1
	}
	for step := 0; step < nsteps; step++ {
		for m := 0; m < n; m++ {
			i := I.rng.IntN(n)
			kind := hp.Translate
			if ratio < 1 && I.rng.Float64() >= ratio {
				kind = hp.Rotate
			}
			if kind == hp.Rotate && !S.Shape(i).Anisotropic() {
				//spheres in a mixture: nothing to rotate, and we don't count it.
				continue
			}
			if I.trial(S, i, kind) {
				c[kind].Accepted++
			} else {
				c[kind].Rejected++
			}
		}
	}
	I.counts = I.counts.Add(c)
	return c
}

// trial attempts one move of the given kind on particle i. It returns true if
// the move was accepted, in which case S has been updated.
func (I *Integrator) trial(S *hp.System, i int, kind hp.MoveKind) bool {
	pos := S.Position(i)
	orient := S.Orientation(i)
	switch kind {
	case hp.Translate:
		pos = r3.Add(pos, r3.Scale(I.size[hp.Translate], I.inBall()))
	case hp.Rotate:
		angle := I.size[hp.Rotate] * (2*I.rng.Float64() - 1)
		rot := quat.Number(r3.NewRotation(angle, I.onSphere()))
		orient = hp.Normalize(quat.Mul(rot, orient))
	}
	if I.checker.ParticleOverlaps(S, i, pos, orient) {
		return false
	}
	S.SetPosition(i, pos)
	S.Orient[i] = orient
	return true
}

// inBall returns a point uniformly distributed in the unit ball.
func (I *Integrator) inBall() r3.Vec {
	for {
		v := r3.Vec{X: 2*I.rng.Float64() - 1, Y: 2*I.rng.Float64() - 1, Z: 2*I.rng.Float64() - 1}
		if r3.Dot(v, v) <= 1 {
			return v
		}
	}
}

// onSphere returns a point uniformly distributed on the unit sphere.
func (I *Integrator) onSphere() r3.Vec {
	for {
		v := I.inBall()
		n := r3.Norm(v)
		if n > 1e-6 {
			return r3.Scale(1/n, v)
		}
	}
}
