/*
 * tune_test.go, part of hardpack.
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

package tune

import (
	"math"
	"testing"

	hp "github.com/rmera/hardpack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// model is a Tunable whose acceptance ratio for a move of amplitude s
// is exp(-s/scale[k]). Kinds with scale 0 are never attempted.
type model struct {
	size   [hp.NMoveKinds]float64
	scale  [hp.NMoveKinds]float64
	counts hp.MoveCounts
	resets int
}

func (m *model) Counts() hp.MoveCounts                   { return m.counts }
func (m *model) ResetCounts()                            { m.counts = hp.MoveCounts{}; m.resets++ }
func (m *model) MoveSize(k hp.MoveKind) float64          { return m.size[k] }
func (m *model) SetMoveSize(k hp.MoveKind, size float64) { m.size[k] = size }

// run simulates nsteps steps with attempts moves of each active kind per step.
func (m *model) run(nsteps, attempts int) {
	for _, k := range hp.MoveKinds {
		if m.scale[k] == 0 {
			continue
		}
		total := uint64(nsteps * attempts)
		acc := uint64(math.Round(float64(total) * math.Exp(-m.size[k]/m.scale[k])))
		m.counts[k] = m.counts[k].Add(hp.Counter{Accepted: acc, Rejected: total - acc})
	}
}

func TestNewErrors(t *testing.T) {
	for _, r := range []float64{0, 1, -0.1, 1.5, math.NaN()} {
		o := DefaultOptions()
		o.Target(r)
		_, err := New(o)
		assert.Error(t, err, "target %g", r)
	}
	o := DefaultOptions()
	o.Period(0)
	_, err := New(o)
	assert.Error(t, err)
	T, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, Active, T.State())
}

func TestConvergence(t *testing.T) {
	T, err := New(nil)
	require.NoError(t, err)
	m := &model{}
	m.size = [hp.NMoveKinds]float64{0.01, 0.4}
	m.scale = [hp.NMoveKinds]float64{0.1, 0.05}
	var step uint64
	for i := 0; i < 60; i++ {
		m.run(100, 1000)
		step += 100
		assert.True(t, T.Tune(step, m))
	}
	//exp(-s/scale) = 0.2 at s = scale*ln(5)
	for _, k := range hp.MoveKinds {
		want := m.scale[k] * math.Log(5)
		assert.InEpsilon(t, want, m.size[k], 0.01, "%s amplitude", k)
		r := T.Ratios(k)
		assert.InDelta(t, 0.2, r[len(r)-1], 0.005)
		assert.True(t, T.Stable(k, 10, 0.01), "%s not stable: %v", k, T.History(k)[50:])
	}
	assert.Equal(t, 60, T.Updates())
	assert.Equal(t, 60, m.resets)
}

func TestUpdateFactorClamped(t *testing.T) {
	T, err := New(nil)
	require.NoError(t, err)
	m := &model{}
	m.size = [hp.NMoveKinds]float64{0.001, 0.001}
	m.scale = [hp.NMoveKinds]float64{1000, 1000}
	m.run(100, 10)
	T.Tune(100, m)
	//acceptance ~1 would give a factor of 3 with gamma=1
	assert.InDelta(t, 0.002, m.size[hp.Translate], 1e-12)
	for i := 2; i < 40; i++ {
		m.run(100, 10)
		T.Tune(uint64(100*i), m)
	}
	assert.Equal(t, 1.0, m.size[hp.Translate])
	assert.Equal(t, 0.5, m.size[hp.Rotate])
}

func TestSkipAndCadence(t *testing.T) {
	T, err := New(nil)
	require.NoError(t, err)
	m := &model{}
	m.size = [hp.NMoveKinds]float64{0.3, 0.3}
	m.scale = [hp.NMoveKinds]float64{0.1, 0}
	m.run(50, 100)
	assert.False(t, T.Tune(50, m), "not an evaluation step")
	assert.Equal(t, 0, m.resets)
	m.run(50, 100)
	assert.True(t, T.Tune(100, m))
	assert.Equal(t, 0.3, m.size[hp.Rotate], "a kind without attempts must not change")
	assert.Empty(t, T.History(hp.Rotate))
	assert.Len(t, T.History(hp.Translate), 1)
	assert.Less(t, m.size[hp.Translate], 0.3)
	//an evaluation with no attempts at all changes nothing, but still resets.
	assert.False(t, T.Tune(200, m))
	assert.Equal(t, 2, m.resets)
	assert.Equal(t, 1, T.Updates())
}

func TestFreeze(t *testing.T) {
	o := DefaultOptions()
	o.Stop(500)
	T, err := New(o)
	require.NoError(t, err)
	m := &model{}
	m.size = [hp.NMoveKinds]float64{0.01, 0.01}
	m.scale = [hp.NMoveKinds]float64{0.1, 0.1}
	for step := uint64(100); step <= 1000; step += 100 {
		m.run(100, 100)
		T.Tune(step, m)
	}
	assert.Equal(t, Frozen, T.State())
	assert.Equal(t, 4, T.Updates())
	frozen := m.size
	m.run(100, 100)
	assert.False(t, T.Tune(1100, m))
	assert.Equal(t, frozen, m.size)

	U, err := New(nil)
	require.NoError(t, err)
	U.Freeze()
	assert.False(t, U.Tune(100, m))
	assert.Equal(t, "frozen", U.State().String())
}
