// SPDX-License-Identifier: MIT

// Package arith defines the arithmetic strategy consumed by every sparse
// container in lvsparse.
//
// Purpose:
//   - Separate "what a number is" from "how a sparse container stores it".
//   - Resolve every arithmetic operation statically: containers take the
//     strategy as a type parameter, so Add/Mul/IsZero are ordinary method
//     calls on a zero-size value, inlined per instantiation.
//
// Contract:
//   - A strategy MUST be usable through its zero value (stateless).
//   - IsZero(Zero()) == true.
//   - Add and Mul are commutative for the numeric domain the strategy models.
//   - Equal/Less expose the element type's equality and ordering; tolerance
//     comparisons are built on Abs, Sub and Less.
package arith

// Arithmetic is the operation set a sparse container needs from its
// element type T.
type Arithmetic[T any] interface {
	// Zero returns the additive identity (the implicit value of absent entries).
	Zero() T

	// IsZero reports whether x must be treated as absent.
	IsZero(x T) bool

	// Add returns a + b.
	Add(a, b T) T

	// Sub returns a - b.
	Sub(a, b T) T

	// Neg returns -a.
	Neg(a T) T

	// Mul returns a * b.
	Mul(a, b T) T

	// Abs returns |a|.
	Abs(a T) T

	// Equal reports exact equality of a and b.
	Equal(a, b T) bool

	// Less reports a < b.
	Less(a, b T) bool
}

// Within reports |a-b| <= eps under strategy A.
// Complexity: O(1).
func Within[T any, A Arithmetic[T]](a, b, eps T) bool {
	var ar A
	d := ar.Abs(ar.Sub(a, b))

	return !ar.Less(eps, d) // d <= eps
}
