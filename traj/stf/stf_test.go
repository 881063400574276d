/*
 * stf_test.go, part of hardpack.
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

package stf

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	hp "github.com/rmera/hardpack"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

var _ hp.Traj = (*StfR)(nil)

func testSystem(Te *testing.T) *hp.System {
	S, err := hp.NewSystem(hp.Box{Lx: 6, Ly: 7, Lz: 8, XY: 0.1, XZ: -0.2, YZ: 0.05}, []hp.Shape{hp.Sphere(1), hp.Spherocylinder(0.8, 2.5)}, 4)
	if err != nil {
		Te.Fatal(err)
	}
	S.SetPosition(0, r3.Vec{X: 1.23456789, Y: -2.5, Z: 3.1})
	S.SetPosition(1, r3.Vec{X: -2.9, Y: 0.333333333, Z: -0.1})
	S.SetPosition(2, r3.Vec{X: 0.5, Y: 2, Z: -3})
	S.SetPosition(3, r3.Vec{X: 2, Y: 1, Z: 1})
	S.Types[1] = 1
	S.Types[3] = 1
	S.SetOrientation(1, quat.Number{Real: 0.3, Imag: -0.2, Jmag: 0.9, Kmag: 0.1})
	S.SetOrientation(3, quat.Number{Real: 1, Kmag: 1})
	return S
}

func TestWriteRead(Te *testing.T) {
	for _, name := range []string{"traj.stf", "traj.stz", "traj.stl"} {
		name = filepath.Join(Te.TempDir(), name)
		S := testSystem(Te)
		W, err := NewWriter(name, S.Len(), S.Shapes, map[string]string{"run": "test"})
		if err != nil {
			Te.Fatal(err)
		}
		for i := 0; i < 3; i++ {
			if err := W.WNext(S); err != nil {
				Te.Fatal(err)
			}
			S.SetPosition(0, r3.Add(S.Position(0), r3.Vec{X: 0.1}))
		}
		if err := W.Close(); err != nil {
			Te.Fatal(err)
		}
		R, m, err := New(name)
		if err != nil {
			Te.Fatal(err)
		}
		if m["run"] != "test" || m["prec"] != "4" || m["qprec"] != "6" {
			Te.Errorf("wrong header %v", m)
		}
		if R.Len() != 4 || len(R.Shapes()) != 2 || R.Shapes()[1] != hp.Spherocylinder(0.8, 2.5) {
			Te.Errorf("wrong particles or shapes: %d %v", R.Len(), R.Shapes())
		}
		T, err := R.System()
		if err != nil {
			Te.Fatal(err)
		}
		ref := testSystem(Te)
		frames := 0
		for ; ; frames++ {
			err := R.Next(T)
			if err != nil {
				if _, ok := err.(hp.LastFrameError); !ok {
					Te.Fatal(err)
				}
				break
			}
			if T.Box != ref.Box {
				Te.Errorf("frame %d: box %s, expected %s", frames, T.Box, ref.Box)
			}
			for i := 0; i < T.Len(); i++ {
				if T.Types[i] != ref.Types[i] {
					Te.Errorf("frame %d particle %d: type %d", frames, i, T.Types[i])
				}
				if d := r3.Norm(r3.Sub(T.Position(i), ref.Position(i))); d > 1e-4 {
					Te.Errorf("frame %d particle %d: position %v, expected %v", frames, i, T.Position(i), ref.Position(i))
				}
				if d := quat.Abs(quat.Sub(T.Orientation(i), ref.Orientation(i))); d > 1e-5 {
					Te.Errorf("frame %d particle %d: orientation %v, expected %v", frames, i, T.Orientation(i), ref.Orientation(i))
				}
			}
			ref.SetPosition(0, r3.Add(ref.Position(0), r3.Vec{X: 0.1}))
		}
		if frames != 3 {
			Te.Errorf("%s: read %d frames, expected 3", name, frames)
		}
		if R.Readable() {
			Te.Error("the reader should be closed after the last frame")
		}
	}
}

func TestSnapshot(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "snap.stf")
	S := testSystem(Te)
	if err := WriteSnapshot(name, S, map[string]string{"phi": "0.1"}); err != nil {
		Te.Fatal(err)
	}
	T, m, err := ReadLast(name)
	if err != nil {
		Te.Fatal(err)
	}
	if m["phi"] != "0.1" || m["prec"] != "full" {
		Te.Errorf("wrong header %v", m)
	}
	if T.Box != S.Box {
		Te.Errorf("box %s, expected %s", T.Box, S.Box)
	}
	for i := 0; i < S.Len(); i++ {
		if T.Position(i) != S.Position(i) || T.Orientation(i) != S.Orientation(i) || T.Types[i] != S.Types[i] {
			Te.Errorf("particle %d differs: %v %v", i, T.Position(i), T.Orientation(i))
		}
	}
}

func TestReadLast(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "last.stf")
	S := testSystem(Te)
	W, err := NewWriter(name, S.Len(), S.Shapes, map[string]string{"prec": "6"})
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		S.SetBox(S.Box.Interpolate(hp.CubicBox(5), 0.5))
		if err := W.WNext(S); err != nil {
			Te.Fatal(err)
		}
	}
	W.Close()
	T, _, err := ReadLast(name)
	if err != nil {
		Te.Fatal(err)
	}
	if T.Box != S.Box {
		Te.Errorf("ReadLast box %s, expected %s", T.Box, S.Box)
	}
}

func TestNextKeepsSystemOnError(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "mix.stf")
	S := testSystem(Te)
	if err := WriteSnapshot(name, S, nil); err != nil {
		Te.Fatal(err)
	}
	R, _, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer R.Close()
	//only one shape, while the file uses two
	T, err := hp.NewSystem(hp.CubicBox(10), []hp.Shape{hp.Sphere(1)}, S.Len())
	if err != nil {
		Te.Fatal(err)
	}
	if err := R.Next(T); err == nil {
		Te.Fatal("a frame with more types than the system has shapes was read")
	}
	if T.Box != hp.CubicBox(10) {
		Te.Errorf("box changed to %s after a failed read", T.Box)
	}
	for i := 0; i < T.Len(); i++ {
		if T.Types[i] != 0 || T.Position(i) != (r3.Vec{}) {
			Te.Errorf("particle %d changed after a failed read", i)
		}
	}
}

func TestErrors(Te *testing.T) {
	dir := Te.TempDir()
	S := testSystem(Te)
	if _, err := NewWriter(filepath.Join(dir, "a.stf"), 4, []hp.Shape{{Name: "bad name", Diameter: 1}}, nil); err == nil {
		Te.Error("a shape name with spaces was accepted")
	}
	if _, err := NewWriter(filepath.Join(dir, "b.stf"), 4, S.Shapes, map[string]string{"prec": "x"}); err == nil {
		Te.Error("an invalid precision was accepted")
	}
	W, err := NewWriter(filepath.Join(dir, "c.stf"), 3, S.Shapes, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if err := W.WNext(S); err == nil {
		Te.Error("a system of the wrong size was written")
	} else if _, ok := err.(hp.TrajError); !ok {
		Te.Errorf("error %v is not a TrajError", err)
	}
	W.Close()
	if err := W.WNext(S); err == nil {
		Te.Error("wrote to a closed trajectory")
	}
	if _, _, err := New(filepath.Join(dir, "missing.stf")); !os.IsNotExist(err) {
		Te.Errorf("opening a missing file gave %v", err)
	}
	empty := filepath.Join(dir, "empty.stf")
	W, err = NewWriter(empty, 4, S.Shapes, nil)
	if err != nil {
		Te.Fatal(err)
	}
	W.Close()
	if _, _, err := ReadLast(empty); err == nil {
		Te.Error("ReadLast on a trajectory with no frames should fail")
	}
}

func TestErrDecorate(Te *testing.T) {
	err := errDecorate(Error{"bad line", "a.stf", []string{"Next"}, true}, "ReadLast")
	e, ok := err.(Error)
	if !ok {
		Te.Fatalf("decorated error %v lost its type", err)
	}
	if d := e.Decorate(""); len(d) != 2 || d[1] != "ReadLast" {
		Te.Errorf("decorations %v", d)
	}
	err = errDecorate(hp.NewError("bad box", hp.ErrInvalidTarget, "NewSystem"), "System")
	if d := err.(hp.Error).Decorate(""); len(d) != 2 || d[1] != "System" {
		Te.Errorf("hardpack error decorations %v", d)
	}
}

func TestEncodeNumbers(Te *testing.T) {
	W := &StfW{prec: 2, qprec: Full}
	line := string(W.encode(nil, 1, r3.Vec{X: 1.234, Y: -0.004, Z: 10}, quat.Number{Real: math.Sqrt(0.5), Jmag: math.Sqrt(0.5)}))
	want := "1 123 0 1000 0.7071067811865476 0 0.7071067811865476 0\n"
	if line != want {
		Te.Errorf("encoded %q, expected %q", line, want)
	}
}
