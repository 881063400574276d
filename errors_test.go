/*
 * errors_test.go, part of hardpack.
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

import (
	"errors"
	"io"
	"slices"
	"testing"
)

func TestErrDecorate(Te *testing.T) {
	err := ErrDecorate(NewError("bad box", ErrInvalidTarget, "WithVolume"), "TargetBox")
	err = ErrDecorate(err, "NewCompressor")
	e, ok := err.(Error)
	if !ok {
		Te.Fatalf("decorated error %v lost its type", err)
	}
	want := []string{"WithVolume", "TargetBox", "NewCompressor"}
	if d := e.Decorate(""); !slices.Equal(d, want) {
		Te.Errorf("decorations %v, expected %v", d, want)
	}
	if !errors.Is(err, ErrInvalidTarget) {
		Te.Error("decoration hid the sentinel")
	}
	if ErrDecorate(io.EOF, "Next") != io.EOF {
		Te.Error("a foreign error was changed")
	}
	if ErrDecorate(nil, "Next") != nil {
		Te.Error("nil became an error")
	}
}
