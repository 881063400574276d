/*
 * compress.go, part of hardpack.
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

// Package compress drives a hard-particle system to a target box.
//
// The Compressor shrinks (or grows) the box a bounded fraction of its volume at a time,
// and only when the configuration has no more overlaps than tolerated. Moving particles
// in between is somebody else's job (a hardpack.Mover, usually driven by a Sim).
// Compression is complete when the box equals the target exactly and no particles overlap.
package compress

import (
	"fmt"
	"math"

	hp "github.com/rmera/hardpack"
	"github.com/rmera/hardpack/overlap"
)

// Options for the Compressor.
type Options struct {
	minScale    float64
	maxOverlaps int
	period      uint64
}

// DefaultOptions returns a minimum scale factor of 0.99 (at most 1% volume change per tick),
// no tolerated overlaps, and a tick every 10 steps.
func DefaultOptions() *Options {
	return &Options{minScale: 0.99, maxOverlaps: 0, period: 10}
}

// MinScale returns the smallest ratio between the volumes before and after a tick
// (or after and before, when expanding), and sets it if a value in (0,1) is given.
func (O *Options) MinScale(s ...float64) float64 {
	if len(s) > 0 && s[0] > 0 && s[0] < 1 {
		O.minScale = s[0]
	}
	return O.minScale
}

// MaxOverlaps returns the number of overlapping pairs above which a tick is skipped,
// and sets it if a non-negative value is given.
func (O *Options) MaxOverlaps(n ...int) int {
	if len(n) > 0 && n[0] >= 0 {
		O.maxOverlaps = n[0]
	}
	return O.maxOverlaps
}

// Period returns the number of steps between ticks, and sets it if a positive value is given.
func (O *Options) Period(k ...uint64) uint64 {
	if len(k) > 0 && k[0] > 0 {
		O.period = k[0]
	}
	return O.period
}

// Compressor is the box-compression controller. It changes the box of
// the system it was created with, and nothing else.
type Compressor struct {
	sys     *hp.System
	target  hp.Box
	ov      hp.Overlapper
	o       Options
	v0      float64
	ticks   int
	skipped int
}

// NewCompressor returns a compressor taking the box of S to target. If ov is nil, an
// overlap.Checker is used. The error wraps hardpack.ErrInvalidTarget if the target box
// is degenerate, or if either the target or the current box of S is too small for its particles.
func NewCompressor(S *hp.System, target hp.Box, ov hp.Overlapper, o *Options) (*Compressor, error) {
	if o == nil {
		o = DefaultOptions()
	}
	if ov == nil {
		ov = overlap.New()
	}
	if !target.Valid() || !(target.Volume() > 0) {
		return nil, hp.NewError(fmt.Sprintf("target box %s", target), hp.ErrInvalidTarget, "NewCompressor")
	}
	if S.Len() > 0 {
		//both ends must be wide enough for minimum-image overlap counts.
		for _, b := range []hp.Box{S.Box, target} {
			if err := overlap.CheckBox(b, S.MaxExtent()); err != nil {
				return nil, hp.ErrDecorate(err, "NewCompressor")
			}
		}
	}
	return &Compressor{sys: S, target: target, ov: ov, o: *o, v0: S.Box.Volume()}, nil
}

// NewCompressorPhi returns a compressor taking S to packing fraction phi, keeping the
// shape of its current box.
func NewCompressorPhi(S *hp.System, phi float64, ov hp.Overlapper, o *Options) (*Compressor, error) {
	target, err := hp.TargetBox(S, phi)
	if err != nil {
		return nil, hp.ErrDecorate(err, "NewCompressorPhi")
	}
	return NewCompressor(S, target, ov, o)
}

// Target returns the target box.
func (C *Compressor) Target() hp.Box {
	return C.target
}

// Period returns the number of steps between ticks.
func (C *Compressor) Period() uint64 {
	return C.o.period
}

// Ticks returns the number of ticks evaluated so far, including the skipped ones.
func (C *Compressor) Ticks() int {
	return C.ticks
}

// Skipped returns the number of ticks skipped because of overlaps.
func (C *Compressor) Skipped() int {
	return C.skipped
}

// Direction is -1 if the system still needs to be compressed, 1 if it needs
// to be expanded, and 0 otherwise. A change of box shape at constant volume gives 0
// even if the boxes differ.
func (C *Compressor) Direction() int {
	v, vt := C.sys.Box.Volume(), C.target.Volume()
	switch {
	case vt < v:
		return -1
	case vt > v:
		return 1
	}
	return 0
}

// Progress is the fraction of the way, in log-volume, from the initial box to the target.
func (C *Compressor) Progress() float64 {
	if C.sys.Box.Equal(C.target) {
		return 1
	}
	total := math.Log(C.target.Volume() / C.v0)
	if total == 0 {
		return 0
	}
	return 1 - math.Log(C.target.Volume()/C.sys.Box.Volume())/total
}

// Complete returns true if the box of the system is exactly the target and
// no particles overlap. An empty system is always complete.
func (C *Compressor) Complete() bool {
	if C.sys.Len() == 0 {
		return true
	}
	return C.sys.Box.Equal(C.target) && C.ov.OverlapCount(C.sys) == 0
}

// Update runs a tick if step is a multiple of the period. A tick does nothing if the box is
// already the target. If more pairs than tolerated overlap, the tick is skipped. Otherwise the
// box moves toward the target, and snaps to it when it is within reach. Each tick changes the
// volume and every edge length by at most a factor MinScale, and each tilt factor by at most
// |ln MinScale|, so a change of shape at constant volume also takes several ticks.
// Update returns true if the box was changed.
func (C *Compressor) Update(step uint64) bool {
	if step%C.o.period != 0 {
		return false
	}
	S := C.sys
	if S.Box.Equal(C.target) {
		return false
	}
	C.ticks++
	if S.Len() > 0 && C.ov.OverlapCount(S) > C.o.maxOverlaps {
		C.skipped++
		return false
	}
	S.SetBox(S.Box.Interpolate(C.target, C.alpha()))
	return true
}

// alpha is the interpolation parameter for the next tick: 1 if the target is within
// one bounded step, otherwise the fraction of the way at which the largest change, in log
// volume, log edge length or tilt, is exactly |ln MinScale|.
func (C *Compressor) alpha() float64 {
	B, T := C.sys.Box, C.target
	logr := func(a, b float64) float64 { return math.Abs(math.Log(b / a)) }
	dist := max(
		logr(B.Volume(), T.Volume()),
		logr(B.Lx, T.Lx), logr(B.Ly, T.Ly), logr(B.Lz, T.Lz),
		math.Abs(T.XY-B.XY), math.Abs(T.XZ-B.XZ), math.Abs(T.YZ-B.YZ),
	)
	if dist == 0 {
		return 1
	}
	return math.Min(1, math.Abs(math.Log(C.o.minScale))/dist)
}
