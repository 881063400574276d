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
Package stf implements the simple trajectory format for hard-particle systems.
stf aims to produce reasonably small files that are very easy to read and write, so readers
and writers can be implemented in other languages and programs, while still being fast.

An STF file is compressed with z-standard (zstd) and may only contain ASCII symbols. Files with
names ending in 'z' are gzip-compressed, 'l' uses lzw and 'r' raw deflate, for compatibility,
but zstd is the default and the recommended choice.

The file starts with a header of key=value lines, terminated by a line that starts with "**",
followed by one or more spaces and the number of particles per frame. The header must contain:

	prec=4
	qprec=6
	shapes=sphere:1:0;rod:1:2.5

prec and qprec are the precisions (see below) of the positions and the orientations.
Instead of an integer, either can be "full", in which case the numbers are written as
decimal floating point with as many digits as needed to recover them exactly. shapes lists the
particle types, in order, as name:diameter:length triplets separated by ';' (a length of 0
is a sphere). Any other key is user metadata and is ignored by the reader.

After the header comes one line per particle, per frame:

	type x y z qr qi qj qk

type is the 0-based index in the shapes list, x y z the cartesian position of the particle
center, multiplied by 10 to the power of prec and rounded to an integer, and qr qi qj qk the
unit quaternion of the particle orientation, multiplied by 10 to the power of qprec and rounded.
Each frame ends with a line

	* Lx Ly Lz xy xz yz

with the box edge lengths and tilt factors of the periodic box, in full precision.

The "**" sequence may only be used as the header terminator.
*/
package stf
