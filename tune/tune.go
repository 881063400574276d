/*
 * tune.go, part of hardpack.
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

// Package tune adjusts the trial-move amplitudes of a Monte Carlo engine so the
// acceptance ratio of each move kind approaches a target value.
//
// Every Period steps, the acceptance ratio observed since the previous evaluation is
// compared with the target, and the amplitude is multiplied by
//
//	f = (gamma + observed/target) / (gamma + 1)
//
// clamped to [1/MaxFactor, MaxFactor]. gamma damps the update: with gamma=0 the
// update is proportional, larger values make it more conservative. A window without
// attempts of one kind leaves that amplitude untouched. The counts are reset after
// each evaluation, so every window is independent.
//
// The tuner is either Active or Frozen. Freezing is permanent. It happens when Freeze
// is called, or when the step given to Tune reaches the stop step (if one is set).
// Production runs should use frozen amplitudes, since tuning breaks detailed balance.
package tune

import (
	"fmt"
	"math"

	hp "github.com/rmera/hardpack"
	"gonum.org/v1/gonum/stat"
)

// State of a Tuner.
type State int

const (
	Active State = iota
	Frozen
)

func (s State) String() string {
	if s == Frozen {
		return "frozen"
	}
	return "active"
}

// Options for the Tuner.
type Options struct {
	target    float64
	period    uint64
	stop      uint64
	gamma     float64
	maxFactor float64
	max       [hp.NMoveKinds]float64
	min       [hp.NMoveKinds]float64
}

// DefaultOptions returns a target acceptance of 0.2, evaluations every 100 steps,
// no automatic freezing, gamma=1, at most a factor 2 per update,
// translations of at most 1.0 and rotations of at most 0.5 radians.
func DefaultOptions() *Options {
	O := &Options{
		target:    0.2,
		period:    100,
		gamma:     1,
		maxFactor: 2,
	}
	O.max[hp.Translate] = 1.0
	O.max[hp.Rotate] = 0.5
	O.min[hp.Translate] = 1e-6
	O.min[hp.Rotate] = 1e-6
	return O
}

// Target returns the target acceptance ratio, and sets it if given.
// Values outside (0,1) are rejected by New.
func (O *Options) Target(r ...float64) float64 {
	if len(r) > 0 {
		O.target = r[0]
	}
	return O.target
}

// Period returns the number of steps between evaluations, and sets it if given.
func (O *Options) Period(m ...uint64) uint64 {
	if len(m) > 0 {
		O.period = m[0]
	}
	return O.period
}

// Stop returns the step at which the tuner freezes itself, and sets it if given.
// 0 means never.
func (O *Options) Stop(t ...uint64) uint64 {
	if len(t) > 0 {
		O.stop = t[0]
	}
	return O.stop
}

// Gamma returns the damping of the update, and sets it if a non-negative value is given.
func (O *Options) Gamma(g ...float64) float64 {
	if len(g) > 0 && g[0] >= 0 {
		O.gamma = g[0]
	}
	return O.gamma
}

// MaxFactor returns the largest change allowed in one update, and sets it if a value
// larger than 1 is given.
func (O *Options) MaxFactor(f ...float64) float64 {
	if len(f) > 0 && f[0] > 1 {
		O.maxFactor = f[0]
	}
	return O.maxFactor
}

// MaxSize returns the largest amplitude for moves of kind k, and sets it if a positive value is given.
func (O *Options) MaxSize(k hp.MoveKind, s ...float64) float64 {
	if len(s) > 0 && s[0] > 0 {
		O.max[k] = s[0]
	}
	return O.max[k]
}

// MinSize returns the smallest amplitude for moves of kind k, and sets it if a positive value is given.
func (O *Options) MinSize(k hp.MoveKind, s ...float64) float64 {
	if len(s) > 0 && s[0] > 0 {
		O.min[k] = s[0]
	}
	return O.min[k]
}

// Tuner is the move-size controller.
type Tuner struct {
	o       Options
	state   State
	updates int
	history [hp.NMoveKinds][]float64
	ratios  [hp.NMoveKinds][]float64
}

// New returns an active Tuner with the given options, or the defaults if o is nil.
func New(o *Options) (*Tuner, error) {
	if o == nil {
		o = DefaultOptions()
	}
	if !(o.target > 0) || o.target >= 1 {
		return nil, Error{fmt.Sprintf("target acceptance ratio %g not in (0,1)", o.target), []string{"New"}, true}
	}
	if o.period == 0 {
		return nil, Error{"the evaluation period must be positive", []string{"New"}, true}
	}
	for _, k := range hp.MoveKinds {
		if o.min[k] > o.max[k] {
			return nil, Error{fmt.Sprintf("%s: minimum amplitude %g larger than the maximum %g", k, o.min[k], o.max[k]), []string{"New"}, true}
		}
	}
	return &Tuner{o: *o}, nil
}

// State returns the current state of the tuner.
func (T *Tuner) State() State {
	return T.state
}

// Freeze stops the tuner for good.
func (T *Tuner) Freeze() {
	T.state = Frozen
}

// Updates returns the number of evaluations that changed at least one amplitude.
func (T *Tuner) Updates() int {
	return T.updates
}

// History returns a copy of the amplitudes set for moves of kind k, in order.
func (T *Tuner) History(k hp.MoveKind) []float64 {
	return append([]float64(nil), T.history[k]...)
}

// Ratios returns a copy of the acceptance ratios observed for moves of kind k,
// one per update of that kind.
func (T *Tuner) Ratios(k hp.MoveKind) []float64 {
	return append([]float64(nil), T.ratios[k]...)
}

// Tune evaluates the acceptance of t and rescales its amplitudes, if step is an
// evaluation step and the tuner is active. It returns true if any amplitude was changed.
func (T *Tuner) Tune(step uint64, t hp.Tunable) bool {
	if T.state == Frozen {
		return false
	}
	if T.o.stop > 0 && step >= T.o.stop {
		T.state = Frozen
		return false
	}
	if step == 0 || step%T.o.period != 0 {
		return false
	}
	counts := t.Counts()
	updated := false
	for _, k := range hp.MoveKinds {
		observed, ok := counts[k].Ratio()
		if !ok {
			continue
		}
		size := T.o.scale(k, t.MoveSize(k), observed)
		t.SetMoveSize(k, size)
		T.history[k] = append(T.history[k], size)
		T.ratios[k] = append(T.ratios[k], observed)
		updated = true
	}
	t.ResetCounts()
	if updated {
		T.updates++
	}
	return updated
}

// scale returns the new amplitude for moves of kind k, given the current
// one and the observed acceptance.
func (O *Options) scale(k hp.MoveKind, size, observed float64) float64 {
	f := (O.gamma + observed/O.target) / (O.gamma + 1)
	f = math.Max(1/O.maxFactor, math.Min(O.maxFactor, f))
	size *= f
	return math.Max(O.min[k], math.Min(O.max[k], size))
}

// Stable returns true if the relative standard deviation of the last window amplitudes
// of kind k is at most tol. It returns false if fewer than window updates have happened.
func (T *Tuner) Stable(k hp.MoveKind, window int, tol float64) bool {
	h := T.history[k]
	if window < 2 || len(h) < window {
		return false
	}
	mean, std := stat.MeanStdDev(h[len(h)-window:], nil)
	if mean == 0 {
		return false
	}
	return std/mean <= tol
}

// Error is the error type for the tune package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

// Error returns a string with an error message.
func (err Error) Error() string {
	return "tune: " + err.message
}

// Decorate will add the dec string to the decoration slice of strings of the error,
// and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or it can be ignored
func (err Error) Critical() bool { return err.critical }
