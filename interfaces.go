/*
 * interfaces.go, part of hardpack.
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

package hardpack

// Overlapper counts the overlapping pairs in a system.
type Overlapper interface {
	//OverlapCount returns the number of overlapping particle pairs
	//in the current configuration of s.
	OverlapCount(s *System) int
}

// Mover is a trial-move engine. It owns the move amplitudes.
type Mover interface {
	//Advance runs nsteps Monte Carlo steps on s, mutating it in place,
	//and returns the accept/reject counts of those steps.
	Advance(s *System, nsteps int) MoveCounts
}

// Tunable is anything with per-move-kind amplitudes and
// counters that a tuner can read, reset and rescale.
type Tunable interface {
	//Counts returns the counts accumulated since the last ResetCounts.
	Counts() MoveCounts
	ResetCounts()
	MoveSize(k MoveKind) float64
	SetMoveSize(k MoveKind, size float64)
}

// Traj is an interface for any trajectory object.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//Next reads the next frame into s (positions, orientations, types and box).
	//If s is nil, the frame is read and discarded.
	Next(s *System) error

	//Returns the number of particles per frame
	Len() int
}

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing its type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call also returns the "decoration" slice of strings resulting from the current call. If passed an empty string, it should just return the current value.
}

// TrajError is the interface for errors in trajectories
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError has a useless function to distinguish the harmless errors (i.e. last frame) so  they can be
// filtered in a typeswitch that looks for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just to separate this interface from other TrajError's
}
