/*
 * errors.go, part of hardpack.
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
	"fmt"
)

// Sentinels for errors.Is. The concrete errors returned by the library
// carry more information and unwrap to one of these.
var (
	//ErrInvalidTarget is returned at setup time for a target that can't be reached:
	//non-positive volumes, packing fractions outside (0,1], or boxes too small
	//for the particles under periodic boundaries.
	ErrInvalidTarget = errors.New("invalid target")

	//ErrCompressionTimeout means that the step budget ran out before the box reached
	//the target with zero overlaps. The system is not usable downstream.
	ErrCompressionTimeout = errors.New("compression did not complete within the step budget")
)

// CError is the error type for the hardpack package.
type CError struct {
	message  string
	deco     []string
	critical bool
	kind     error
}

// NewError returns a CError with the given message, marked as critical,
// that unwraps to kind (which can be nil).
func NewError(message string, kind error, deco ...string) CError {
	return CError{message: message, deco: deco, critical: true, kind: kind}
}

// Error returns a string with the error message.
func (err CError) Error() string {
	if err.kind != nil {
		return fmt.Sprintf("hardpack: %s: %s", err.kind.Error(), err.message)
	}
	return "hardpack: " + err.message
}

// Decorate returns the decoration slice of the error with dec appended.
// err itself is a copy, so keep the result, or use ErrDecorate.
func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or it can be ignored
func (err CError) Critical() bool { return err.critical }

// Unwrap allows errors.Is to find the sentinel.
func (err CError) Unwrap() error { return err.kind }

// CompressionError reports a compression run that ran out of steps.
type CompressionError struct {
	Step         uint64
	Budget       uint64
	Volume       float64
	TargetVolume float64
	Overlaps     int
}

func (err *CompressionError) Error() string {
	return fmt.Sprintf("hardpack: %s: step %d of %d, volume %.4f (target %.4f), %d overlaps", ErrCompressionTimeout.Error(), err.Step, err.Budget, err.Volume, err.TargetVolume, err.Overlaps)
}

// Unwrap returns ErrCompressionTimeout
func (err *CompressionError) Unwrap() error { return ErrCompressionTimeout }

// ErrDecorate returns err decorated with the caller's name. A CError is returned
// as a decorated copy. Other Error implementations are decorated in place, which
// only sticks if their Decorate has a pointer receiver. Other errors are returned unchanged.
func ErrDecorate(err error, caller string) error {
	switch e := err.(type) {
	case nil:
		return nil
	case CError:
		e.deco = e.Decorate(caller)
		return e
	case Error:
		e.Decorate(caller)
		return e
	}
	return err
}
