/*
 * run.go, part of hardpack.
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

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	hp "github.com/rmera/hardpack"
	"github.com/rmera/hardpack/compress"
	"github.com/rmera/hardpack/lattice"
	"github.com/rmera/hardpack/mc"
	"github.com/rmera/hardpack/packplot"
	"github.com/rmera/hardpack/runlog"
	"github.com/rmera/hardpack/traj/stf"
	"github.com/rmera/hardpack/tune"
)

// initRun places the particles on a lattice and writes the snapshot.
func initRun(conf *Config) error {
	shape, err := conf.ParticleShape()
	if err != nil {
		return err
	}
	S, err := lattice.Cubic(conf.Particles, shape, conf.InitialPhi, conf.Seed)
	if err != nil {
		return err
	}
	log.Printf("placed %d %s on a cubic lattice, box %s, phi %.4f", S.Len(), shape, S.Box, S.PackingFraction())
	return stf.WriteSnapshot(conf.Output, S, stageHeader("init", 0, S))
}

func stageHeader(stage string, step uint64, S *hp.System) map[string]string {
	return map[string]string{
		"stage": stage,
		"step":  strconv.FormatUint(step, 10),
		"phi":   strconv.FormatFloat(S.PackingFraction(), 'g', 8, 64),
	}
}

func shapesString(S *hp.System) string {
	s := make([]string, len(S.Shapes))
	for i, v := range S.Shapes {
		s[i] = v.String()
	}
	return strings.Join(s, ";")
}

// newSim reads the input snapshot and sets up the mover, the tuner and the
// output hooks. The returned function closes whatever the hooks opened.
func newSim(ctx context.Context, conf *Config, kind string) (*compress.Sim, *runlog.Store, string, func(), error) {
	nop := func() {}
	if conf.Input == "" {
		return nil, nil, "", nop, fmt.Errorf("an input snapshot is needed")
	}
	S, _, err := stf.ReadLast(conf.Input)
	if err != nil {
		return nil, nil, "", nop, err
	}
	if err := S.Check(); err != nil {
		return nil, nil, "", nop, err
	}
	mo := mc.DefaultOptions()
	mo.Translate(conf.Translate)
	mo.Rotate(conf.Rotate)
	mo.MoveRatio(conf.MoveRatio)
	mo.Seed(conf.Seed)
	to := tune.DefaultOptions()
	to.Target(conf.TuneTarget)
	to.Period(conf.TunePeriod)
	to.Stop(conf.TuneStop)
	to.Gamma(conf.Gamma)
	to.MaxFactor(conf.MaxFactor)
	to.MaxSize(hp.Translate, conf.MaxTranslate)
	to.MaxSize(hp.Rotate, conf.MaxRotate)
	T, err := tune.New(to)
	if err != nil {
		return nil, nil, "", nop, err
	}
	sm := compress.NewSim(S, mc.New(mo))
	sm.Tuner = T
	sm.LogEvery = conf.LogEvery

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	if conf.Trajectory != "" {
		W, err := stf.NewWriter(conf.Trajectory, S.Len(), S.Shapes, map[string]string{"stage": kind})
		if err != nil {
			return nil, nil, "", nop, err
		}
		closers = append(closers, func() {
			if err := W.Close(); err != nil {
				log.Printf("closing trajectory %s: %v", conf.Trajectory, err)
			}
		})
		sm.Writer = W
		sm.WriteEvery = conf.WriteEvery
	}
	var store *runlog.Store
	var runID string
	if conf.RunLog != "" {
		store = runlog.NewStore(conf.RunLog)
		if err := store.Init(ctx); err != nil {
			closeAll()
			return nil, nil, "", nop, err
		}
		closers = append(closers, func() { _ = store.Close() })
		runID, err = store.StartRun(ctx, runlog.Run{
			Kind:      kind,
			Particles: S.Len(),
			Shapes:    shapesString(S),
			TargetPhi: conf.TargetPhi,
			Seed:      conf.Seed,
		})
		if err != nil {
			closeAll()
			return nil, nil, "", nop, err
		}
		sm.Recorder = &runlog.Recorder{Store: store, RunID: runID, Ctx: ctx}
		sm.RecordEvery = conf.RecordEvery
	}
	return sm, store, runID, closeAll, nil
}

// finish records the end of the run and draws the plots, if asked for.
func finish(ctx context.Context, conf *Config, sm *compress.Sim, store *runlog.Store, runID string, complete bool) error {
	if store == nil {
		return nil
	}
	if err := store.FinishRun(ctx, runID, sm.Step, complete); err != nil {
		return err
	}
	samples, err := store.Samples(ctx, runID)
	if err != nil {
		return err
	}
	log.Printf("run %s: %s", runID, runlog.Summarize(samples, conf.TuneStop))
	if conf.Plot == "" || len(samples) == 0 {
		return nil
	}
	if err := packplot.CompressionCurve(samples, "Compression", conf.Plot+"_phi.png"); err != nil {
		return err
	}
	if err := packplot.MoveSizes(samples, "Move sizes", conf.Plot+"_sizes.png"); err != nil {
		return err
	}
	return packplot.Acceptance(samples, conf.TuneTarget, "Acceptance", conf.Plot+"_acceptance.png")
}

// compressRun compresses the input snapshot to the target packing fraction. The output
// snapshot is only written if the compression completes.
func compressRun(ctx context.Context, conf *Config) error {
	sm, store, runID, closeAll, err := newSim(ctx, conf, "compress")
	if err != nil {
		return err
	}
	defer closeAll()
	co := compress.DefaultOptions()
	co.MinScale(conf.MinScale)
	co.MaxOverlaps(conf.MaxOverlaps)
	co.Period(conf.CompressPeriod)
	C, err := compress.NewCompressorPhi(sm.System, conf.TargetPhi, nil, co)
	if err != nil {
		return err
	}
	sm.Compressor = C
	log.Printf("compressing %d particles from phi %.4f to %.4f (box %s)", sm.System.Len(), sm.System.PackingFraction(), conf.TargetPhi, C.Target())
	runErr := sm.Run(conf.Budget, conf.Chunk)
	var cerr *hp.CompressionError
	if runErr != nil && !errors.As(runErr, &cerr) {
		return runErr
	}
	if err := finish(ctx, conf, sm, store, runID, runErr == nil); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	return stf.WriteSnapshot(conf.Output, sm.System, stageHeader("compress", sm.Step, sm.System))
}

// equilibrateRun runs the input snapshot at constant volume for the configured number
// of steps. Tuning stops at tune_stop, if given.
func equilibrateRun(ctx context.Context, conf *Config) error {
	sm, store, runID, closeAll, err := newSim(ctx, conf, "equilibrate")
	if err != nil {
		return err
	}
	defer closeAll()
	if err := sm.Steps(conf.Steps); err != nil {
		return err
	}
	if sm.Tuner.State() == tune.Frozen {
		sizes, _ := sm.MoveSizes()
		log.Printf("tuning frozen with d=%.4g a=%.4g", sizes[hp.Translate], sizes[hp.Rotate])
	}
	if n := sm.Overlaps(); n > 0 {
		return fmt.Errorf("%d overlapping pairs after equilibration", n)
	}
	if err := finish(ctx, conf, sm, store, runID, true); err != nil {
		return err
	}
	return stf.WriteSnapshot(conf.Output, sm.System, stageHeader("equilibrate", sm.Step, sm.System))
}
