// SPDX-License-Identifier: MIT

package sparse

import (
	"fmt"
	"slices"
)

// Structure is the ordered list of per-rank dimensions of a tensor.
// len(Structure) is the rank; Structure[0] is the outermost dimension.
type Structure []int

// Rank returns the number of index dimensions.
func (s Structure) Rank() int { return len(s) }

// Size returns the dense element count (product of dimensions).
func (s Structure) Size() int {
	n := 1
	for _, d := range s {
		n *= d
	}

	return n
}

// Validate checks rank >= 1 and every dimension > 0.
func (s Structure) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("structure %v: %w", []int(s), ErrInvalidDimensions)
	}
	for r, d := range s {
		if d <= 0 {
			return fmt.Errorf("structure %v: rank %d has dimension %d: %w", []int(s), r, d, ErrInvalidDimensions)
		}
	}

	return nil
}

// Equal reports element-wise equality.
func (s Structure) Equal(o Structure) bool { return slices.Equal(s, o) }

// Clone returns an independent copy.
func (s Structure) Clone() Structure { return slices.Clone(s) }

// Strides returns row-major strides: stride[r] = product of s[r+1:].
func (s Structure) Strides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}
	strides[len(s)-1] = 1
	for r := len(s) - 2; r >= 0; r-- {
		strides[r] = strides[r+1] * s[r+1]
	}

	return strides
}

// Without returns a copy of s with rank r removed.
// The caller guarantees 0 <= r < len(s).
func (s Structure) Without(r int) Structure {
	out := make(Structure, 0, len(s)-1)
	out = append(out, s[:r]...)

	return append(out, s[r+1:]...)
}

// Concat returns s followed by o (the structure of a tensor product).
func (s Structure) Concat(o Structure) Structure {
	out := make(Structure, 0, len(s)+len(o))
	out = append(out, s...)

	return append(out, o...)
}

// String renders the structure as "[d0 d1 ...]".
func (s Structure) String() string { return fmt.Sprint([]int(s)) }
