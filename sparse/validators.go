// SPDX-License-Identifier: MIT
// Package: sparse
//
// Purpose:
//  - Provide a single source of truth for index, dimension and slot checks.
//  - Return sentinels wrapped with the validator tag; call sites add their
//    own operation tag on top.
//
// Determinism & Performance:
//  - All checks are pure and allocate only on failure.

package sparse

import "fmt"

// validatorErrorf wraps a sentinel with the validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateIndex ensures 0 <= i < dim.
// Complexity: O(1).
func ValidateIndex(i, dim int) error {
	if i < 0 || i >= dim {
		return fmt.Errorf("ValidateIndex: %d not in [0,%d): %w", i, dim, ErrIndexOutOfRange)
	}

	return nil
}

// ValidateDim ensures a declared dimension is positive.
// Complexity: O(1).
func ValidateDim(dim int) error {
	if dim <= 0 {
		return validatorErrorf("ValidateDim", ErrInvalidDimensions)
	}

	return nil
}

// ValidateSameDim ensures two rank-1 operands share a dimension.
// Complexity: O(1).
func ValidateSameDim(a, b int) error {
	if a != b {
		return fmt.Errorf("ValidateSameDim: %d != %d: %w", a, b, ErrShapeMismatch)
	}

	return nil
}

// ValidateSameStructure ensures two tensors have identical structures.
// Complexity: O(rank).
func ValidateSameStructure(a, b Structure) error {
	if !a.Equal(b) {
		return fmt.Errorf("ValidateSameStructure: %v != %v: %w", a, b, ErrShapeMismatch)
	}

	return nil
}

// ValidateSplit ensures a split point leaves both sides non-empty: 0 < at < dim.
// Complexity: O(1).
func ValidateSplit(at, dim int) error {
	if at <= 0 || at >= dim {
		return fmt.Errorf("ValidateSplit: %d not in (0,%d): %w", at, dim, ErrIndexOutOfRange)
	}

	return nil
}

// ValidateSlot ensures a 1-based slot number addresses a rank: 1 <= slot <= rank.
// Complexity: O(1).
func ValidateSlot(slot, rank int) error {
	if slot < 1 || slot > rank {
		return fmt.Errorf("ValidateSlot: slot %d not in [1,%d]: %w", slot, rank, ErrInvalidRank)
	}

	return nil
}

// validatePath checks a full or partial index path against a structure.
// A path longer than the structure is an ErrInvalidRank.
func validatePath(s Structure, path []int) error {
	if len(path) > len(s) {
		return fmt.Errorf("validatePath: %d indices for rank %d: %w", len(path), len(s), ErrInvalidRank)
	}
	for r, i := range path {
		if i < 0 || i >= s[r] {
			return fmt.Errorf("validatePath: rank %d index %d not in [0,%d): %w", r, i, s[r], ErrIndexOutOfRange)
		}
	}

	return nil
}
