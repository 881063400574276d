/*
 * stf.go, part of hardpack.
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
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
	"log"
	"maps"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	hp "github.com/rmera/hardpack"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	lzwLitwidth int = 8

	//DefaultPrec is the precision used for positions if none is given.
	DefaultPrec = 4
	//DefaultQPrec is the precision used for quaternions if none is given.
	DefaultQPrec = 6
	//Full is the value of prec or qprec that means full float64 precision.
	Full = -1
)

// StfW writes an stf trajectory.
type StfW struct {
	f         *os.File
	h         io.WriteCloser
	w         *bufio.Writer
	nparts    int
	ntypes    int
	filename  string
	writeable bool
	prec      int
	qprec     int
	line      []byte
}

// NewWriter creates the file name and writes the header for a trajectory of
// n particles of the given shapes (indexed by the types in each frame).
// The precisions are read from the "prec" and "qprec" keys of header, if present.
// Other keys in header are written as metadata.
func NewWriter(name string, n int, shapes []hp.Shape, header map[string]string) (*StfW, error) {
	if len(shapes) == 0 {
		return nil, Error{"no shapes given", name, []string{"NewWriter"}, true}
	}
	shapestr, err := encodeShapes(shapes)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	S := &StfW{nparts: n, ntypes: len(shapes), filename: name, prec: DefaultPrec, qprec: DefaultQPrec}
	meta := make(map[string]string, len(header)+3)
	for k, v := range header {
		if strings.ContainsAny(k, "=\n") || strings.Contains(v, "\n") || strings.HasPrefix(k, "**") {
			return nil, Error{fmt.Sprintf("invalid header entry %q=%q", k, v), name, []string{"NewWriter"}, true}
		}
		meta[k] = v
	}
	if p, ok := meta["prec"]; ok {
		if S.prec, err = parsePrec(p); err != nil {
			return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
		}
	}
	if p, ok := meta["qprec"]; ok {
		if S.qprec, err = parsePrec(p); err != nil {
			return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
		}
	}
	meta["prec"] = precString(S.prec)
	meta["qprec"] = precString(S.qprec)
	meta["shapes"] = shapestr

	S.f, err = os.Create(name)
	if err != nil {
		return nil, err
	}
	S.h, err = anyWriter(name, S.f)
	if err != nil {
		S.f.Close()
		return nil, Error{"can't start compression " + err.Error(), name, []string{"NewWriter"}, true}
	}
	S.w = bufio.NewWriter(S.h)
	for _, k := range slices.Sorted(maps.Keys(meta)) {
		fmt.Fprintf(S.w, "%s=%s\n", k, meta[k])
	}
	fmt.Fprintf(S.w, "** %d\n", S.nparts)
	S.writeable = true
	return S, nil
}

func anyWriter(name string, f io.Writer) (io.WriteCloser, error) {
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		return lzw.NewWriter(f, lzw.MSB, lzwLitwidth), nil
	case 'z':
		return gzip.NewWriterLevel(f, gzip.BestCompression)
	case 'r':
		return flate.NewWriter(f, flate.BestCompression)
	default:
		return zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	}
}

// Len returns the number of particles per frame.
func (S *StfW) Len() int {
	return S.nparts
}

// WNext writes the current configuration of s as a new frame.
func (S *StfW) WNext(s *hp.System) error {
	if !S.writeable {
		return Error{TrajUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if s == nil {
		return Error{NilSystem, S.filename, []string{"WNext"}, true}
	}
	if s.Len() != S.nparts {
		return Error{fmt.Sprintf("%d particles given, but %d expected", s.Len(), S.nparts), S.filename, []string{"WNext"}, true}
	}
	for i := 0; i < S.nparts; i++ {
		t := s.Types[i]
		if t < 0 || t >= S.ntypes {
			return Error{fmt.Sprintf("particle %d has type %d, but only %d shapes are in the header", i, t, S.ntypes), S.filename, []string{"WNext"}, true}
		}
		S.line = S.encode(S.line[:0], t, s.Position(i), s.Orientation(i))
		if _, err := S.w.Write(S.line); err != nil {
			return err
		}
	}
	b := s.Box
	S.line = append(S.line[:0], '*')
	for _, v := range []float64{b.Lx, b.Ly, b.Lz, b.XY, b.XZ, b.YZ} {
		S.line = append(S.line, ' ')
		S.line = strconv.AppendFloat(S.line, v, 'g', -1, 64)
	}
	S.line = append(S.line, '\n')
	_, err := S.w.Write(S.line)
	return err
}

func (S *StfW) encode(dst []byte, t int, p r3.Vec, q quat.Number) []byte {
	dst = strconv.AppendInt(dst, int64(t), 10)
	for _, v := range []float64{p.X, p.Y, p.Z} {
		dst = append(dst, ' ')
		dst = appendNumber(dst, v, S.prec)
	}
	for _, v := range []float64{q.Real, q.Imag, q.Jmag, q.Kmag} {
		dst = append(dst, ' ')
		dst = appendNumber(dst, v, S.qprec)
	}
	return append(dst, '\n')
}

func appendNumber(dst []byte, v float64, prec int) []byte {
	if prec == Full {
		return strconv.AppendFloat(dst, v, 'g', -1, 64)
	}
	return strconv.AppendInt(dst, int64(math.RoundToEven(v*math.Pow10(prec))), 10)
}

// Close flushes the remaining frames and closes the file. The writer
// can't be used after this call.
func (S *StfW) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	err := S.w.Flush()
	if err2 := S.h.Close(); err == nil {
		err = err2
	}
	if err2 := S.f.Close(); err == nil {
		err = err2
	}
	return err
}

// StfR reads an stf trajectory.
type StfR struct {
	f        *os.File
	dec      io.ReadCloser
	h        *bufio.Reader
	nparts   int
	shapes   []hp.Shape
	filename string
	prec     int
	qprec    int
	readable bool
	buf      frame
}

type frame struct {
	types  []int
	pos    []r3.Vec
	orient []quat.Number
}

// zstdCloser makes a *zstd.Decoder an io.ReadCloser.
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

func anyReader(name string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		return lzw.NewReader(r, lzw.MSB, lzwLitwidth), nil
	case 'z':
		return gzip.NewReader(r)
	case 'r':
		return flate.NewReader(r), nil
	default:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zstdCloser{d}, nil
	}
}

// New opens an stf trajectory for reading, and returns the handle and a map
// with the header, including the prec, qprec and shapes keys.
func New(name string) (*StfR, map[string]string, error) {
	S := &StfR{filename: name, nparts: -1, prec: DefaultPrec, qprec: DefaultQPrec}
	var err error
	S.f, err = os.Open(name)
	if err != nil {
		return nil, nil, err
	}
	S.dec, err = anyReader(name, bufio.NewReader(S.f))
	if err != nil {
		S.f.Close()
		return nil, nil, Error{"can't start decompression " + err.Error(), name, []string{"New"}, true}
	}
	S.h = bufio.NewReader(S.dec)
	m, err := S.readHeader()
	if err != nil {
		S.dec.Close()
		S.f.Close()
		return nil, nil, errDecorate(err, "New")
	}
	S.readable = true
	return S, m, nil
}

func (S *StfR) readHeader() (map[string]string, error) {
	m := make(map[string]string)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			return nil, Error{"can't read header: " + err.Error(), S.filename, []string{"readHeader"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			f := strings.Fields(str)
			if len(f) < 2 {
				return nil, Error{fmt.Sprintf("can't read the number of particles from '%s'", str), S.filename, []string{"readHeader"}, true}
			}
			S.nparts, err = strconv.Atoi(f[1])
			if err != nil || S.nparts < 0 {
				return nil, Error{fmt.Sprintf("can't read the number of particles from '%s'", str), S.filename, []string{"readHeader"}, true}
			}
			break
		}
		k, v, ok := strings.Cut(str, "=")
		if !ok {
			return nil, Error{fmt.Sprintf("malformed header line '%s'", str), S.filename, []string{"readHeader"}, true}
		}
		m[k] = v
	}
	var err error
	if p, ok := m["prec"]; ok {
		if S.prec, err = parsePrec(p); err != nil {
			return nil, Error{err.Error(), S.filename, []string{"readHeader"}, true}
		}
	} else {
		log.Printf("stf file %s has no precision in its header, will assume %d", S.filename, DefaultPrec) //just a heads-up
	}
	if p, ok := m["qprec"]; ok {
		if S.qprec, err = parsePrec(p); err != nil {
			return nil, Error{err.Error(), S.filename, []string{"readHeader"}, true}
		}
	}
	if S.shapes, err = decodeShapes(m["shapes"]); err != nil {
		return nil, Error{err.Error(), S.filename, []string{"readHeader"}, true}
	}
	S.buf = frame{types: make([]int, S.nparts), pos: make([]r3.Vec, S.nparts), orient: make([]quat.Number, S.nparts)}
	return m, nil
}

// Readable returns true if the handle is readable (if it is possible to call Next on it)
func (S *StfR) Readable() bool {
	return S.readable
}

// Len returns the number of particles in each frame of the trajectory.
func (S *StfR) Len() int {
	return S.nparts
}

// Shapes returns the particle shapes listed in the header.
func (S *StfR) Shapes() []hp.Shape {
	return slices.Clone(S.shapes)
}

// System returns a new system with the right number of particles
// and shapes to receive the frames of the trajectory.
func (S *StfR) System() (*hp.System, error) {
	s, err := hp.NewSystem(hp.CubicBox(1), S.Shapes(), S.nparts)
	if err != nil {
		return nil, errDecorate(err, "System")
	}
	return s, nil
}

// Next reads the next frame into s, replacing its box, particle types, positions and orientations.
// If s is nil, the frame is read, checked and discarded. s is only modified if the whole
// frame could be read. At the end of the trajectory, the returned error is a
// hardpack.LastFrameError, and the handle is closed.
func (S *StfR) Next(s *hp.System) error {
	if !S.readable {
		return Error{TrajUnIniRead, S.filename, []string{"Next"}, true}
	}
	if s != nil && s.Len() != S.nparts {
		return Error{fmt.Sprintf("system with %d particles given, but the trajectory has %d", s.Len(), S.nparts), S.filename, []string{"Next"}, true}
	}
	for i := 0; i < S.nparts; i++ {
		str, err := S.h.ReadString('\n')
		if err != nil {
			if err == io.EOF && i == 0 && str == "" {
				//nothing bad happened here, the trajectory just ended.
				S.Close()
				return newlastFrameError(S.filename, "Next")
			}
			return Error{fmt.Sprintf("%s: %s", ReadError, err), S.filename, []string{"Next"}, true}
		}
		if err := S.decode(str, i); err != nil {
			return Error{err.Error(), S.filename, []string{"Next"}, true}
		}
	}
	str, err := S.h.ReadString('\n')
	if err != nil && !(err == io.EOF && str != "") {
		if S.nparts == 0 && err == io.EOF && str == "" {
			S.Close()
			return newlastFrameError(S.filename, "Next")
		}
		return Error{"can't read the frame termination mark: " + err.Error(), S.filename, []string{"Next"}, true}
	}
	if !strings.HasPrefix(str, "*") {
		return Error{WrongFormat + ": wrong number of particles in frame", S.filename, []string{"Next"}, true}
	}
	box, err := decodeBox(str)
	if err != nil {
		return Error{err.Error(), S.filename, []string{"Next"}, true}
	}
	if s == nil {
		return nil
	}
	for i := 0; i < S.nparts; i++ {
		if S.buf.types[i] >= len(s.Shapes) {
			return Error{fmt.Sprintf("particle %d has type %d, but the system has only %d shapes", i, S.buf.types[i], len(s.Shapes)), S.filename, []string{"Next"}, true}
		}
	}
	s.Box = box
	copy(s.Types, S.buf.types)
	copy(s.Orient, S.buf.orient)
	for i, p := range S.buf.pos {
		s.Pos.SetVec(i, p)
	}
	return nil
}

func (S *StfR) decode(str string, i int) error {
	f := strings.Fields(str)
	if len(f) != 8 {
		return fmt.Errorf("%s: %d fields in particle line '%s', expected 8", WrongFormat, len(f), strings.TrimSpace(str))
	}
	t, err := strconv.Atoi(f[0])
	if err != nil || t < 0 || t >= len(S.shapes) {
		return fmt.Errorf("%s: invalid particle type '%s'", WrongFormat, f[0])
	}
	var v [7]float64
	for j := range v {
		prec := S.prec
		if j >= 3 {
			prec = S.qprec
		}
		if v[j], err = parseNumber(f[j+1], prec); err != nil {
			return fmt.Errorf("%s: can't parse field %d (%s): %w", WrongFormat, j+1, f[j+1], err)
		}
	}
	S.buf.types[i] = t
	S.buf.pos[i] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	S.buf.orient[i] = quat.Number{Real: v[3], Imag: v[4], Jmag: v[5], Kmag: v[6]}
	if S.qprec != Full {
		//the rounding leaves it slightly off the unit sphere.
		S.buf.orient[i] = hp.Normalize(S.buf.orient[i])
	}
	return nil
}

func parseNumber(s string, prec int) (float64, error) {
	if prec == Full {
		return strconv.ParseFloat(s, 64)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return float64(n) / math.Pow10(prec), nil
}

func decodeBox(str string) (hp.Box, error) {
	f := strings.Fields(strings.TrimPrefix(strings.TrimSpace(str), "*"))
	if len(f) != 6 {
		return hp.Box{}, fmt.Errorf("%s: box line '%s' should have 6 numbers", WrongFormat, strings.TrimSpace(str))
	}
	var v [6]float64
	for i, s := range f {
		var err error
		if v[i], err = strconv.ParseFloat(s, 64); err != nil {
			return hp.Box{}, fmt.Errorf("%s: can't parse box field %d (%s)", WrongFormat, i, s)
		}
	}
	b := hp.Box{Lx: v[0], Ly: v[1], Lz: v[2], XY: v[3], XZ: v[4], YZ: v[5]}
	if !b.Valid() {
		return hp.Box{}, fmt.Errorf("%s: invalid box %s", WrongFormat, b)
	}
	return b, nil
}

// Close closes the object, and marks it as unreadable
func (S *StfR) Close() {
	if !S.readable {
		return
	}
	S.dec.Close()
	S.f.Close()
	S.readable = false
}

func parsePrec(p string) (int, error) {
	if p == "full" {
		return Full, nil
	}
	prec, err := strconv.Atoi(p)
	if err != nil || prec < 0 || prec > 12 {
		return 0, fmt.Errorf("invalid precision '%s'", p)
	}
	return prec, nil
}

func precString(p int) string {
	if p == Full {
		return "full"
	}
	return strconv.Itoa(p)
}

func encodeShapes(shapes []hp.Shape) (string, error) {
	str := make([]string, len(shapes))
	for i, s := range shapes {
		if err := s.Check(); err != nil {
			return "", err
		}
		if s.Name == "" || strings.ContainsAny(s.Name, ":;=\n \t") {
			return "", fmt.Errorf("shape name '%s' can't be written in an stf header", s.Name)
		}
		str[i] = fmt.Sprintf("%s:%s:%s", s.Name, strconv.FormatFloat(s.Diameter, 'g', -1, 64), strconv.FormatFloat(s.Length, 'g', -1, 64))
	}
	return strings.Join(str, ";"), nil
}

func decodeShapes(str string) ([]hp.Shape, error) {
	if str == "" {
		return nil, fmt.Errorf("%s: no shapes in header", WrongFormat)
	}
	var ret []hp.Shape
	for _, f := range strings.Split(str, ";") {
		parts := strings.Split(f, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%s: malformed shape '%s'", WrongFormat, f)
		}
		d, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: diameter of shape '%s': %w", WrongFormat, f, err)
		}
		l, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s: length of shape '%s': %w", WrongFormat, f, err)
		}
		s := hp.Shape{Name: parts[0], Diameter: d, Length: l}
		if err := s.Check(); err != nil {
			return nil, err
		}
		ret = append(ret, s)
	}
	return ret, nil
}

// ReadLast returns the last frame of the trajectory name, and its header.
func ReadLast(name string) (*hp.System, map[string]string, error) {
	R, m, err := New(name)
	if err != nil {
		return nil, nil, err
	}
	defer R.Close()
	s, err := R.System()
	if err != nil {
		return nil, nil, errDecorate(err, "ReadLast")
	}
	frames := 0
	for {
		err = R.Next(s)
		if err == nil {
			frames++
			continue
		}
		if _, ok := err.(hp.LastFrameError); ok {
			break
		}
		return nil, nil, errDecorate(err, "ReadLast")
	}
	if frames == 0 {
		return nil, nil, Error{"no frames in file", name, []string{"ReadLast"}, true}
	}
	return s, m, nil
}

// WriteSnapshot writes s as a single-frame stf file, in full precision, so
// reading it back with ReadLast gives exactly the same configuration.
func WriteSnapshot(name string, s *hp.System, header map[string]string) error {
	h := maps.Clone(header)
	if h == nil {
		h = make(map[string]string)
	}
	h["prec"] = "full"
	h["qprec"] = "full"
	W, err := NewWriter(name, s.Len(), s.Shapes, h)
	if err != nil {
		return errDecorate(err, "WriteSnapshot")
	}
	if err = W.WNext(s); err != nil {
		W.Close()
		return errDecorate(err, "WriteSnapshot")
	}
	return W.Close()
}

//Errors

// errDecorate returns err decorated with the caller's name.
func errDecorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.deco = e.Decorate(caller)
		return e
	}
	return hp.ErrDecorate(err, caller)
}

// Error is the general structure for stf trajectory errors. It fullfills hardpack.Error and hardpack.TrajError
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("stf file %s error: %s", err.filename, err.message)
}

// Decorate Adds new information to the error
func (E Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// FileName returns the file to which the failing trajectory was associated
func (err Error) FileName() string { return err.filename }

// Format returns the format of the file (always "stf") associated to the error
func (err Error) Format() string { return "stf" }

// Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	ReadError      = "Error reading frame"
	NilSystem      = "Given nil system"
	WrongFormat    = "Wrong format in the STF file or frame"
)

// lastFrameError implements hardpack.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

// NormalLastFrameTermination does nothing
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "stf" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	return &lastFrameError{fileName: filename, deco: []string{caller}}
}
