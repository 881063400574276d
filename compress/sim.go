/*
 * sim.go, part of hardpack.
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

package compress

import (
	"log"

	hp "github.com/rmera/hardpack"
	"github.com/rmera/hardpack/overlap"
	"github.com/rmera/hardpack/tune"
)

// FrameWriter takes snapshots of a system, usually to a trajectory file.
type FrameWriter interface {
	WNext(S *hp.System) error
}

// Recorder receives the state of a simulation every RecordEvery steps.
type Recorder interface {
	Record(sm *Sim) error
}

// DefaultChunk is the number of steps Run advances between completion checks when
// no chunk is given.
const DefaultChunk = 100

// Sim holds everything a run needs. Only System and Mover are required.
// After each step, the Compressor and then the Tuner are updated, on their own cadences,
// and then the Writer, Recorder and log hooks are called. The box only
// changes between steps.
type Sim struct {
	System     *hp.System
	Mover      hp.Mover
	Tuner      *tune.Tuner
	Compressor *Compressor

	//Overlapper is used for the reported overlap counts. If nil, the
	//compressor's one (or an overlap.Checker) is used.
	Overlapper hp.Overlapper

	Writer     FrameWriter
	WriteEvery uint64

	Recorder    Recorder
	RecordEvery uint64

	//Logger defaults to the standard logger.
	Logger   *log.Logger
	LogEvery uint64

	//Step is the number of steps run so far.
	Step uint64

	window hp.MoveCounts
}

// NewSim returns a Sim for S and the given mover, with no controllers or hooks set.
func NewSim(S *hp.System, m hp.Mover) *Sim {
	return &Sim{System: S, Mover: m}
}

// Window returns the move counts accumulated since the last record.
func (sm *Sim) Window() hp.MoveCounts {
	return sm.window
}

// Overlaps returns the current number of overlapping pairs.
func (sm *Sim) Overlaps() int {
	switch {
	case sm.Overlapper != nil:
		return sm.Overlapper.OverlapCount(sm.System)
	case sm.Compressor != nil:
		return sm.Compressor.ov.OverlapCount(sm.System)
	}
	return overlap.New().OverlapCount(sm.System)
}

// MoveSizes returns the current amplitudes of the mover, if it exposes them.
// The second value is false otherwise.
func (sm *Sim) MoveSizes() ([hp.NMoveKinds]float64, bool) {
	var ret [hp.NMoveKinds]float64
	t, ok := sm.Mover.(hp.Tunable)
	if !ok {
		return ret, false
	}
	for _, k := range hp.MoveKinds {
		ret[k] = t.MoveSize(k)
	}
	return ret, true
}

func (sm *Sim) logger() *log.Logger {
	if sm.Logger == nil {
		return log.Default()
	}
	return sm.Logger
}

// Steps advances the simulation n steps. It only returns early if
// a hook returns an error.
func (sm *Sim) Steps(n uint64) error {
	tunable, _ := sm.Mover.(hp.Tunable)
	for i := uint64(0); i < n; i++ {
		sm.window = sm.window.Add(sm.Mover.Advance(sm.System, 1))
		sm.Step++
		if sm.Compressor != nil {
			sm.Compressor.Update(sm.Step)
		}
		if sm.Tuner != nil && tunable != nil {
			sm.Tuner.Tune(sm.Step, tunable)
		}
		if err := sm.hooks(); err != nil {
			return err
		}
	}
	return nil
}

func (sm *Sim) hooks() error {
	if sm.Writer != nil && sm.WriteEvery > 0 && sm.Step%sm.WriteEvery == 0 {
		if err := sm.Writer.WNext(sm.System); err != nil {
			return hp.ErrDecorate(err, "Sim.Steps")
		}
	}
	if sm.LogEvery > 0 && sm.Step%sm.LogEvery == 0 {
		sm.logProgress()
	}
	if sm.Recorder != nil && sm.RecordEvery > 0 && sm.Step%sm.RecordEvery == 0 {
		err := sm.Recorder.Record(sm)
		sm.window = hp.MoveCounts{}
		if err != nil {
			return hp.ErrDecorate(err, "Sim.Steps")
		}
	}
	return nil
}

func (sm *Sim) logProgress() {
	S := sm.System
	msg := "step %d volume %.4f phi %.4f overlaps %d"
	args := []any{sm.Step, S.Box.Volume(), S.PackingFraction(), sm.Overlaps()}
	if sizes, ok := sm.MoveSizes(); ok {
		msg += " d %.4g a %.4g"
		args = append(args, sizes[hp.Translate], sizes[hp.Rotate])
	}
	if sm.Compressor != nil {
		msg += " progress %.3f skipped %d/%d"
		args = append(args, sm.Compressor.Progress(), sm.Compressor.Skipped(), sm.Compressor.Ticks())
	}
	sm.logger().Printf(msg, args...)
}

// Run advances the simulation, chunk steps at a time, until the compression is
// complete or the step counter reaches budget. A simulation that is already complete
// returns nil without moving anything. If the budget is exhausted first, the error is
// a *hardpack.CompressionError, and the system should not be used as a compressed one.
func (sm *Sim) Run(budget, chunk uint64) error {
	C := sm.Compressor
	if C == nil {
		return hp.NewError("Run needs a compressor", nil, "Sim.Run")
	}
	if chunk == 0 {
		chunk = DefaultChunk
	}
	for !C.Complete() {
		if sm.Step >= budget {
			err := &hp.CompressionError{
				Step:         sm.Step,
				Budget:       budget,
				Volume:       sm.System.Box.Volume(),
				TargetVolume: C.Target().Volume(),
				Overlaps:     sm.Overlaps(),
			}
			sm.logger().Printf("compression failed: %s", err)
			return err
		}
		if err := sm.Steps(min(chunk, budget-sm.Step)); err != nil {
			return hp.ErrDecorate(err, "Sim.Run")
		}
	}
	if sm.LogEvery > 0 {
		sm.logger().Printf("compression complete at step %d, phi %.4f", sm.Step, sm.System.PackingFraction())
	}
	return nil
}
