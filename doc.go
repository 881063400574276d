/*
 * doc.go, part of hardpack.
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

/*
Package hardpack is the main package of the hardpack library. It provides the
particle, box and system types used to densify hard-particle configurations with
Monte Carlo, and the interfaces through which the compression and tuning
controllers talk to the trial-move engine.

	**hardpack Capabilities**

	Hard spheres and hard spherocylinders (a sphere is a spherocylinder of length 0),
	in a triclinic periodic box with HOOMD-style tilt factors.

	Exact overlap tests under the minimum image convention (package overlap).

	A trial-move engine with translation and rotation moves and per-move-type
	accept/reject counters (package mc).

	A move-size tuner that drives the acceptance ratio towards a target, and that can
	be frozen so production runs keep a fixed amplitude (package tune).

	A box compressor that shrinks (or expands) the box towards a target packing
	fraction without ever leaving the system with unresolved overlaps, and the step
	driver that ties everything together (package compress).

	Lattice initialization (package lattice), compressed snapshot/trajectory files
	(package traj/stf), a SQLite run log (package runlog) and plots of the
	compression (package packplot).

Particle positions are kept in a v3.Matrix (an Nx3 gonum Dense). Orientations are
unit quaternions (gonum's quat.Number); the body axis of a spherocylinder is the
body-frame z axis.
*/
package hardpack
