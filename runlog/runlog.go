/*
 * runlog.go, part of hardpack.
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

// Package runlog keeps a record of compression and equilibration runs
// in an SQLite database: one row per run, and the samples taken during it.
package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	hp "github.com/rmera/hardpack"
	"github.com/rmera/hardpack/compress"
	"gonum.org/v1/gonum/stat"

	_ "modernc.org/sqlite"
)

// Sample is the state of a run at one step. The ratios are the acceptance
// since the previous sample, NaN if no moves of that kind were attempted.
type Sample struct {
	Step            uint64
	Volume          float64
	PackingFraction float64
	Overlaps        int
	TranslateSize   float64
	RotateSize      float64
	TranslateRatio  float64
	RotateRatio     float64
}

// SampleFrom takes a sample of the current state of sm.
func SampleFrom(sm *compress.Sim) Sample {
	S := sm.System
	s := Sample{
		Step:            sm.Step,
		Volume:          S.Box.Volume(),
		PackingFraction: S.PackingFraction(),
		Overlaps:        sm.Overlaps(),
		TranslateRatio:  math.NaN(),
		RotateRatio:     math.NaN(),
	}
	if sizes, ok := sm.MoveSizes(); ok {
		s.TranslateSize = sizes[hp.Translate]
		s.RotateSize = sizes[hp.Rotate]
	}
	w := sm.Window()
	if r, ok := w[hp.Translate].Ratio(); ok {
		s.TranslateRatio = r
	}
	if r, ok := w[hp.Rotate].Ratio(); ok {
		s.RotateRatio = r
	}
	return s
}

// Run describes one run.
type Run struct {
	ID        string
	Kind      string //"compress" or "equilibrate"
	Particles int
	Shapes    string
	TargetPhi float64
	Seed      uint64
	Started   time.Time
	Finished  time.Time //zero while running
	Steps     uint64
	Complete  bool
}

// Store is an SQLite run log. It is safe for concurrent use.
type Store struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewStore returns a store for the database file in path. Init must be called before using it.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init opens the database, creating the tables if needed.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("runlog: sqlite path is required")
	}
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db
	return nil
}

// StartRun records the beginning of a run, and returns its new ID.
// The ID and Started fields of r are ignored.
func (s *Store) StartRun(ctx context.Context, r Run) (string, error) {
	db, err := s.getDB()
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, kind, particles, shapes, target_phi, seed, started)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, r.Kind, r.Particles, r.Shapes, r.TargetPhi, int64(r.Seed), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", err
	}
	return id, nil
}

// FinishRun marks a run as finished after steps steps.
func (s *Store) FinishRun(ctx context.Context, runID string, steps uint64, complete bool) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE runs SET finished = ?, steps = ?, complete = ? WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339Nano), int64(steps), complete, runID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("runlog: no run %s", runID)
	}
	return nil
}

// GetRun returns the run with the given ID. The bool is false if there is none.
func (s *Store) GetRun(ctx context.Context, runID string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}
	var r Run
	var seed int64
	var started string
	var finished sql.NullString
	var steps sql.NullInt64
	err = db.QueryRowContext(ctx, `
		SELECT id, kind, particles, shapes, target_phi, seed, started, finished, steps, complete
		FROM runs WHERE id = ?
	`, runID).Scan(&r.ID, &r.Kind, &r.Particles, &r.Shapes, &r.TargetPhi, &seed, &started, &finished, &steps, &r.Complete)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}
	r.Seed = uint64(seed)
	if r.Started, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, false, fmt.Errorf("runlog: start time of run %s: %w", runID, err)
	}
	if finished.Valid {
		if r.Finished, err = time.Parse(time.RFC3339Nano, finished.String); err != nil {
			return Run{}, false, fmt.Errorf("runlog: end time of run %s: %w", runID, err)
		}
	}
	r.Steps = uint64(steps.Int64)
	return r, true, nil
}

// Record stores a sample for the given run.
func (s *Store) Record(ctx context.Context, runID string, sm Sample) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO samples (run_id, step, volume, phi, overlaps, translate_size, rotate_size, translate_ratio, rotate_ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, step) DO UPDATE SET
			volume = excluded.volume,
			phi = excluded.phi,
			overlaps = excluded.overlaps,
			translate_size = excluded.translate_size,
			rotate_size = excluded.rotate_size,
			translate_ratio = excluded.translate_ratio,
			rotate_ratio = excluded.rotate_ratio
	`, runID, int64(sm.Step), sm.Volume, sm.PackingFraction, sm.Overlaps, sm.TranslateSize, sm.RotateSize,
		nullable(sm.TranslateRatio), nullable(sm.RotateRatio))
	return err
}

// Samples returns the samples of a run, ordered by step.
func (s *Store) Samples(ctx context.Context, runID string) ([]Sample, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT step, volume, phi, overlaps, translate_size, rotate_size, translate_ratio, rotate_ratio
		FROM samples WHERE run_id = ? ORDER BY step
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ret []Sample
	for rows.Next() {
		var sm Sample
		var step int64
		var tr, rr sql.NullFloat64
		if err := rows.Scan(&step, &sm.Volume, &sm.PackingFraction, &sm.Overlaps, &sm.TranslateSize, &sm.RotateSize, &tr, &rr); err != nil {
			return nil, err
		}
		sm.Step = uint64(step)
		sm.TranslateRatio = fromNullable(tr)
		sm.RotateRatio = fromNullable(rr)
		ret = append(ret, sm)
	}
	return ret, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("runlog: store is not initialized")
	}
	return s.db, nil
}

func nullable(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			particles INTEGER NOT NULL,
			shapes TEXT NOT NULL,
			target_phi REAL NOT NULL,
			seed INTEGER NOT NULL,
			started TEXT NOT NULL,
			finished TEXT,
			steps INTEGER,
			complete INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS samples (
			run_id TEXT NOT NULL REFERENCES runs(id),
			step INTEGER NOT NULL,
			volume REAL NOT NULL,
			phi REAL NOT NULL,
			overlaps INTEGER NOT NULL,
			translate_size REAL NOT NULL,
			rotate_size REAL NOT NULL,
			translate_ratio REAL,
			rotate_ratio REAL,
			PRIMARY KEY (run_id, step)
		);
	`)
	return err
}

// Recorder stores the samples of a compress.Sim in a Store. It implements compress.Recorder.
type Recorder struct {
	Store *Store
	RunID string
	Ctx   context.Context
}

// Record takes a sample of sm and stores it.
func (R *Recorder) Record(sm *compress.Sim) error {
	ctx := R.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return R.Store.Record(ctx, R.RunID, SampleFrom(sm))
}

// Summary of the samples of a run.
type Summary struct {
	Samples         int
	LastStep        uint64
	FinalPhi        float64
	MeanTranslate   float64 //mean acceptance ratios, NaN if there are no data.
	MeanRotate      float64
	StdDevTranslate float64
	StdDevRotate    float64
}

// Summarize returns statistics on the acceptance ratios of the
// samples from step from on.
func Summarize(samples []Sample, from uint64) Summary {
	var ret Summary
	var tr, rr []float64
	for _, s := range samples {
		if s.Step < from {
			continue
		}
		ret.Samples++
		ret.LastStep = s.Step
		ret.FinalPhi = s.PackingFraction
		if !math.IsNaN(s.TranslateRatio) {
			tr = append(tr, s.TranslateRatio)
		}
		if !math.IsNaN(s.RotateRatio) {
			rr = append(rr, s.RotateRatio)
		}
	}
	ret.MeanTranslate, ret.StdDevTranslate = meanStd(tr)
	ret.MeanRotate, ret.StdDevRotate = meanStd(rr)
	return ret
}

func meanStd(x []float64) (float64, float64) {
	switch len(x) {
	case 0:
		return math.NaN(), math.NaN()
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

func (s Summary) String() string {
	return fmt.Sprintf("%d samples up to step %d, final phi %.4f, acceptance translate %.3f±%.3f rotate %.3f±%.3f",
		s.Samples, s.LastStep, s.FinalPhi, s.MeanTranslate, s.StdDevTranslate, s.MeanRotate, s.StdDevRotate)
}
