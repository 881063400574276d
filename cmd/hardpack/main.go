/*
 * main.go, part of hardpack.
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

// Command hardpack prepares dense configurations of hard spheres and spherocylinders.
//
// The work is split in stages that communicate through stf snapshots:
//
//	hardpack init        --config run.toml   # lattice, dilute
//	hardpack compress    --config run.toml --input init.stf --output dense.stf
//	hardpack equilibrate --config run.toml --input dense.stf --output eq.stf
//
// Parameters are read from a TOML file, and the command line flags override them.
package main

import (
	"log"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("hardpack: %v", err)
		os.Exit(1)
	}
}
