/*
 * moves.go, part of hardpack.
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

import "fmt"

// MoveKind identifies a type of trial move.
type MoveKind int

const (
	Translate MoveKind = iota
	Rotate
	NMoveKinds int = 2
)

// MoveKinds lists all the move kinds, in order.
var MoveKinds = [NMoveKinds]MoveKind{Translate, Rotate}

func (k MoveKind) String() string {
	switch k {
	case Translate:
		return "translate"
	case Rotate:
		return "rotate"
	default:
		return fmt.Sprintf("MoveKind(%d)", int(k))
	}
}

// Counter holds the accepted and rejected trial moves of one kind.
type Counter struct {
	Accepted uint64
	Rejected uint64
}

// Total returns the number of attempted moves.
func (C Counter) Total() uint64 {
	return C.Accepted + C.Rejected
}

// Ratio returns the acceptance ratio. The second value is false when no
// moves were attempted, in which case the ratio is meaningless.
func (C Counter) Ratio() (float64, bool) {
	t := C.Total()
	if t == 0 {
		return 0, false
	}
	return float64(C.Accepted) / float64(t), true
}

// Add returns the sum of both counters.
func (C Counter) Add(o Counter) Counter {
	return Counter{Accepted: C.Accepted + o.Accepted, Rejected: C.Rejected + o.Rejected}
}

// MoveCounts holds one Counter per move kind.
type MoveCounts [NMoveKinds]Counter

// Add returns the kind-wise sum of M and o.
func (M MoveCounts) Add(o MoveCounts) MoveCounts {
	var ret MoveCounts
	for i := range M {
		ret[i] = M[i].Add(o[i])
	}
	return ret
}

// Of returns the counter for kind k.
func (M MoveCounts) Of(k MoveKind) Counter {
	return M[k]
}
