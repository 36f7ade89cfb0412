// SPDX-License-Identifier: MIT

package arith

// Number is the set of built-in kinds Numeric can model.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~float32 | ~float64
}

// Numeric is the stateless strategy over Go's built-in numeric kinds.
// All operations map to the language operators; IsZero is exact (x == 0).
type Numeric[T Number] struct{}

// Compile-time conformance.
var (
	_ Arithmetic[float64] = Numeric[float64]{}
	_ Arithmetic[int]     = Numeric[int]{}
)

// Named instantiations for the common element types.
type (
	Float64 = Numeric[float64]
	Float32 = Numeric[float32]
	Int     = Numeric[int]
	Int64   = Numeric[int64]
)

// Zero returns 0.
func (Numeric[T]) Zero() T { return 0 }

// IsZero reports x == 0 exactly.
func (Numeric[T]) IsZero(x T) bool { return x == 0 }

// Add returns a + b. Integer overflow wraps.
func (Numeric[T]) Add(a, b T) T { return a + b }

// Sub returns a - b.
func (Numeric[T]) Sub(a, b T) T { return a - b }

// Neg returns -a.
func (Numeric[T]) Neg(a T) T { return -a }

// Mul returns a * b.
func (Numeric[T]) Mul(a, b T) T { return a * b }

// Abs returns |a|. For the most negative integer the result wraps, as in Go.
func (Numeric[T]) Abs(a T) T {
	if a < 0 {
		return -a
	}

	return a
}

// Equal reports a == b; NaN is never equal to itself.
func (Numeric[T]) Equal(a, b T) bool { return a == b }

// Less reports a < b.
func (Numeric[T]) Less(a, b T) bool { return a < b }
