/*
 * commands.go, part of hardpack.
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
	"github.com/spf13/cobra"
)

var (
	configPath string
	conf       *Config

	// values of the flags that override the config file
	flags = DefaultConf()

	rootCmd = &cobra.Command{
		Use:   "hardpack",
		Short: "Compress and equilibrate hard-particle systems",
		Long: `hardpack builds dense configurations of hard spheres and spherocylinders
by Monte Carlo box compression, tuning the trial-move amplitudes on the way.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Place the particles on a dilute cubic lattice and write a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initRun(conf)
		},
	}
	compressCmd = &cobra.Command{
		Use:   "compress",
		Short: "Compress a snapshot to the target packing fraction",
		Long: `compress runs Monte Carlo on the input snapshot while shrinking the box toward
the target packing fraction. It fails, without writing the output snapshot, if the
target is not reached with zero overlaps within the step budget.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return compressRun(cmd.Context(), conf)
		},
	}
	equilibrateCmd = &cobra.Command{
		Use:   "equilibrate",
		Short: "Run a snapshot at constant volume, tuning the moves for the first tune_stop steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return equilibrateRun(cmd.Context(), conf)
		},
	}
)

// overrides maps the flags that can replace config values.
var overrides = map[string]func(c *Config){
	"particles":  func(c *Config) { c.Particles = flags.Particles },
	"shape":      func(c *Config) { c.Shape = flags.Shape },
	"length":     func(c *Config) { c.Length = flags.Length },
	"seed":       func(c *Config) { c.Seed = flags.Seed },
	"phi0":       func(c *Config) { c.InitialPhi = flags.InitialPhi },
	"phi":        func(c *Config) { c.TargetPhi = flags.TargetPhi },
	"budget":     func(c *Config) { c.Budget = flags.Budget },
	"steps":      func(c *Config) { c.Steps = flags.Steps },
	"tune-stop":  func(c *Config) { c.TuneStop = flags.TuneStop },
	"input":      func(c *Config) { c.Input = flags.Input },
	"output":     func(c *Config) { c.Output = flags.Output },
	"trajectory": func(c *Config) { c.Trajectory = flags.Trajectory },
	"runlog":     func(c *Config) { c.RunLog = flags.RunLog },
	"plot":       func(c *Config) { c.Plot = flags.Plot },
	"log-every":  func(c *Config) { c.LogEvery = flags.LogEvery },
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "TOML file with the run parameters")
	pf.Uint64Var(&flags.Seed, "seed", flags.Seed, "random seed")
	pf.StringVarP(&flags.Input, "input", "i", "", "input snapshot")
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "output snapshot")
	pf.StringVar(&flags.Trajectory, "trajectory", "", "stf trajectory to write")
	pf.StringVar(&flags.RunLog, "runlog", "", "sqlite run log")
	pf.StringVar(&flags.Plot, "plot", "", "prefix for the plots (needs --runlog)")
	pf.Uint64Var(&flags.LogEvery, "log-every", flags.LogEvery, "steps between progress messages, 0 for none")
	pf.Uint64Var(&flags.TuneStop, "tune-stop", 0, "step at which the move sizes are frozen, 0 for never")

	initCmd.Flags().IntVarP(&flags.Particles, "particles", "n", flags.Particles, "number of particles")
	initCmd.Flags().StringVar(&flags.Shape, "shape", flags.Shape, "sphere or spherocylinder")
	initCmd.Flags().Float64Var(&flags.Length, "length", 0, "cylinder length of spherocylinders")
	initCmd.Flags().Float64Var(&flags.InitialPhi, "phi0", flags.InitialPhi, "initial packing fraction")

	compressCmd.Flags().Float64Var(&flags.TargetPhi, "phi", flags.TargetPhi, "target packing fraction")
	compressCmd.Flags().Uint64Var(&flags.Budget, "budget", flags.Budget, "maximum number of steps")

	equilibrateCmd.Flags().Uint64Var(&flags.Steps, "steps", flags.Steps, "number of steps")

	rootCmd.AddCommand(initCmd, compressCmd, equilibrateCmd)
}

// loadConfig reads the config file, applies the flags given and checks the result.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := ParseConfig(configPath)
	if err != nil {
		return err
	}
	for name, apply := range overrides {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			apply(c)
		}
	}
	if err := c.Validate(); err != nil {
		return err
	}
	conf = c
	return nil
}
