// SPDX-License-Identifier: MIT
// Package sparse: sentinel error set.
// All operations return these sentinels (possibly wrapped with call-site
// context via %w); tests and callers match them with errors.Is.
// No public operation panics on user-triggered error conditions.

package sparse

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING & PREFIXING
// Every message is prefixed with "sparse: ". Sentinels are wrapped with a
// "<Type>.<Method>: " tag at the detection site; never compare by string.
//
// ERROR PRIORITY (checked in this order by every operation):
// nil operand -> rank -> shape/dimension -> index range.

var (
	// ErrIndexOutOfRange indicates a structural index outside [0, dim).
	// Never clamped silently.
	ErrIndexOutOfRange = errors.New("sparse: index out of range")

	// ErrShapeMismatch indicates operands whose dimensions or structures
	// disagree where equal shapes are required (sum, sub, dot, contraction,
	// dense construction with the wrong element count).
	ErrShapeMismatch = errors.New("sparse: shape mismatch")

	// ErrInvalidRank indicates an operation invoked on a tensor whose rank
	// does not meet its precondition, or a rank/slot selector out of range.
	ErrInvalidRank = errors.New("sparse: invalid rank")

	// ErrInvalidDimensions indicates a non-positive dimension or an empty
	// structure at construction time.
	ErrInvalidDimensions = errors.New("sparse: dimensions must be > 0")

	// ErrNilOperand indicates a nil receiver or argument.
	ErrNilOperand = errors.New("sparse: nil operand")
)

// sparseErrorf tags err with the operation name, preserving the sentinel.
func sparseErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// rowErrorf tags err with a Row method and the offending explicit index.
func rowErrorf(method string, j int, err error) error {
	return fmt.Errorf("Row.%s(%d): %w", method, j, err)
}

// matrixErrorf tags err with a Matrix method and coordinates.
func matrixErrorf(method string, i, j int, err error) error {
	return fmt.Errorf("Matrix.%s(%d,%d): %w", method, i, j, err)
}
