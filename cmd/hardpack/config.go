/*
 * config.go, part of hardpack.
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
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	hp "github.com/rmera/hardpack"
)

// Config holds the parameters of a run. Lengths are in the same units as the particle diameter.
type Config struct {
	// System, for init
	Particles  int     `toml:"particles"`
	Shape      string  `toml:"shape"` // possible values: sphere, spherocylinder
	Diameter   float64 `toml:"diameter"`
	Length     float64 `toml:"length"` // cylinder length, ignored for spheres
	InitialPhi float64 `toml:"initial_phi"`
	Seed       uint64  `toml:"seed"`

	// Compression
	TargetPhi      float64 `toml:"target_phi"`
	MinScale       float64 `toml:"min_scale"`
	MaxOverlaps    int     `toml:"max_overlaps"`
	CompressPeriod uint64  `toml:"compress_period"`
	Budget         uint64  `toml:"budget"` // steps
	Chunk          uint64  `toml:"chunk"`  // steps between completion checks

	// Trial moves
	Translate float64 `toml:"translate"`
	Rotate    float64 `toml:"rotate"` // unit: rad
	MoveRatio float64 `toml:"move_ratio"`

	// Tuning
	TuneTarget   float64 `toml:"tune_target"`
	TunePeriod   uint64  `toml:"tune_period"`
	TuneStop     uint64  `toml:"tune_stop"` // 0: never freeze
	Gamma        float64 `toml:"gamma"`
	MaxFactor    float64 `toml:"max_factor"`
	MaxTranslate float64 `toml:"max_translate"`
	MaxRotate    float64 `toml:"max_rotate"`

	// Equilibration
	Steps uint64 `toml:"steps"`

	// Files and output
	Input       string `toml:"input"`  // snapshot to start from
	Output      string `toml:"output"` // snapshot written at the end
	Trajectory  string `toml:"trajectory"`
	WriteEvery  uint64 `toml:"write_every"`
	RunLog      string `toml:"runlog"` // sqlite database
	RecordEvery uint64 `toml:"record_every"`
	Plot        string `toml:"plot"` // prefix for the plots, needs a run log
	LogEvery    uint64 `toml:"log_every"`
}

// DefaultConf returns the default parameters.
func DefaultConf() *Config {
	return &Config{
		Particles:      100,
		Shape:          "sphere",
		Diameter:       1,
		InitialPhi:     0.01,
		Seed:           1,
		TargetPhi:      0.57,
		MinScale:       0.99,
		CompressPeriod: 10,
		Budget:         1000000,
		Chunk:          1000,
		Translate:      0.1,
		Rotate:         0.1,
		MoveRatio:      0.5,
		TuneTarget:     0.2,
		TunePeriod:     100,
		Gamma:          1,
		MaxFactor:      2,
		MaxTranslate:   1,
		MaxRotate:      0.5,
		Steps:          10000,
		Output:         "snapshot.stf",
		WriteEvery:     1000,
		RecordEvery:    100,
		LogEvery:       10000,
	}
}

// ParseConfig parses the TOML config file whose path is provided. The values in the
// file overwrite the default ones. An empty path gives the defaults.
func ParseConfig(path string) (*Config, error) {
	conf := DefaultConf()
	if path == "" {
		return conf, nil
	}
	md, err := toml.DecodeFile(path, conf)
	if err != nil {
		return nil, err
	}
	if u := md.Undecoded(); len(u) > 0 {
		keys := make([]string, len(u))
		for i, k := range u {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return conf, nil
}

// ParticleShape returns the shape described by the configuration.
func (c *Config) ParticleShape() (hp.Shape, error) {
	var s hp.Shape
	switch strings.ToLower(c.Shape) {
	case "sphere":
		s = hp.Sphere(c.Diameter)
	case "spherocylinder", "rod":
		s = hp.Spherocylinder(c.Diameter, c.Length)
	default:
		return s, fmt.Errorf("unknown shape %q", c.Shape)
	}
	return s, s.Check()
}

// Validate checks the parameters that the library would otherwise silently
// replace by defaults.
func (c *Config) Validate() error {
	switch {
	case c.Particles < 0:
		return fmt.Errorf("negative number of particles %d", c.Particles)
	case c.MinScale <= 0 || c.MinScale >= 1:
		return fmt.Errorf("min_scale %g not in (0,1)", c.MinScale)
	case c.MaxOverlaps < 0:
		return fmt.Errorf("negative max_overlaps %d", c.MaxOverlaps)
	case c.CompressPeriod == 0 || c.TunePeriod == 0:
		return fmt.Errorf("compress_period and tune_period must be positive")
	case c.Translate <= 0 || c.Rotate <= 0:
		return fmt.Errorf("move amplitudes must be positive")
	case c.MoveRatio < 0 || c.MoveRatio > 1:
		return fmt.Errorf("move_ratio %g not in [0,1]", c.MoveRatio)
	case c.Plot != "" && c.RunLog == "":
		return fmt.Errorf("plots are made from the run log, a runlog file is needed")
	}
	if _, err := c.ParticleShape(); err != nil {
		return err
	}
	return nil
}
