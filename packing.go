/*
 * packing.go, part of hardpack.
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

// CheckPackingFraction returns an error wrapping ErrInvalidTarget unless phi is in (0,1].
func CheckPackingFraction(phi float64) error {
	if !(phi > 0) || phi > 1 {
		return NewError(fmt.Sprintf("packing fraction %g not in (0,1]", phi), ErrInvalidTarget, "CheckPackingFraction")
	}
	return nil
}

// TargetVolume returns the box volume at which n particles of volume vParticle
// have packing fraction phi, i.e. n*vParticle/phi.
func TargetVolume(n int, vParticle, phi float64) (float64, error) {
	if err := CheckPackingFraction(phi); err != nil {
		return 0, ErrDecorate(err, "TargetVolume")
	}
	if n < 0 {
		return 0, NewError(fmt.Sprintf("negative number of particles %d", n), ErrInvalidTarget, "TargetVolume")
	}
	if !(vParticle > 0) || math.IsInf(vParticle, 0) {
		return 0, NewError(fmt.Sprintf("particle volume %g", vParticle), ErrInvalidTarget, "TargetVolume")
	}
	v := float64(n) * vParticle / phi
	if !(v > 0) {
		return 0, NewError(fmt.Sprintf("target volume %g for %d particles", v, n), ErrInvalidTarget, "TargetVolume")
	}
	return v, nil
}

// TargetBox returns the box of S rescaled, keeping its shape, so the system
// has packing fraction phi. It works with mixtures, since it uses the total particle volume.
func TargetBox(S *System, phi float64) (Box, error) {
	if err := CheckPackingFraction(phi); err != nil {
		return Box{}, ErrDecorate(err, "TargetBox")
	}
	n := S.Len()
	if n == 0 {
		return Box{}, NewError("no particles to derive a target volume from", ErrInvalidTarget, "TargetBox")
	}
	v, err := TargetVolume(n, S.ParticleVolume()/float64(n), phi)
	if err != nil {
		return Box{}, ErrDecorate(err, "TargetBox")
	}
	b, err := S.Box.WithVolume(v)
	if err != nil {
		return Box{}, ErrDecorate(err, "TargetBox")
	}
	return b, nil
}
