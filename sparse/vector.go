// SPDX-License-Identifier: MIT

// Package sparse - Vector: hash-map backed rank-1 container.
//
// Purpose:
//   - O(1) random access At/Set keyed by explicit index.
//   - Dot product by probing the larger operand with the keys of the smaller
//     one: O(min(|a|,|b|)), no ordering required.
//   - Deterministic iteration: All/Indices/ToArray visit keys in ascending order.
//
// Complexity quicksheet:
//   - At/Set: O(1) average; Add/Sub: O(|a|+|b|); Dot: O(min(|a|,|b|));
//     All: O(n log n) (sorts keys once).

package sparse

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/katalvlaran/lvsparse/arith"
)

// ---------- error context tags ----------

const (
	ctxVecNew   = "NewVector"
	ctxVecAt    = "Vector.At"
	ctxVecSet   = "Vector.Set"
	ctxVecAdd   = "Vector.Add"
	ctxVecSub   = "Vector.Sub"
	ctxVecDot   = "Vector.Dot"
	ctxVecSwap  = "Vector.Swap"
	ctxVecSplit = "Vector.Split"
	ctxVecMerge = "Vector.Merge"
)

// Vector is a sparse rank-1 container over [0, dim).
// Only non-zero values (under A) are stored.
type Vector[T any, A arith.Arithmetic[T]] struct {
	dim     int       // declared width
	entries map[int]T // explicit index -> non-zero value
}

// NewVector returns an empty vector of dimension dim.
//
// Errors:
//   - ErrInvalidDimensions if dim <= 0.
//
// Complexity: O(1) (+ map presize when WithCapacity is given).
func NewVector[T any, A arith.Arithmetic[T]](dim int, opts ...Option) (*Vector[T, A], error) {
	if err := ValidateDim(dim); err != nil {
		return nil, sparseErrorf(ctxVecNew, err)
	}
	o := gatherOptions(opts...)

	return newVector[T, A](dim, o.capacity), nil
}

// newVector skips validation; internal callers guarantee dim > 0.
func newVector[T any, A arith.Arithmetic[T]](dim, capHint int) *Vector[T, A] {
	return &Vector[T, A]{dim: dim, entries: make(map[int]T, capHint)}
}

// Dim returns the declared dimension.
func (v *Vector[T, A]) Dim() int { return v.dim }

// Count returns the number of stored non-zero entries.
func (v *Vector[T, A]) Count() int { return len(v.entries) }

// IsEmpty reports Count() == 0 (the zero vector).
func (v *Vector[T, A]) IsEmpty() bool { return len(v.entries) == 0 }

// At returns the value at i, or Zero() when absent.
func (v *Vector[T, A]) At(i int) (T, error) {
	var ar A
	if err := ValidateIndex(i, v.dim); err != nil {
		return ar.Zero(), sparseErrorf(ctxVecAt, err)
	}
	if x, ok := v.entries[i]; ok {
		return x, nil
	}

	return ar.Zero(), nil
}

// Set stores x at i; a zero x removes any entry at i.
func (v *Vector[T, A]) Set(i int, x T) error {
	if err := ValidateIndex(i, v.dim); err != nil {
		return sparseErrorf(ctxVecSet, err)
	}
	v.put(i, x)

	return nil
}

// Increment adds x to the value at i (assembly accumulate).
func (v *Vector[T, A]) Increment(i int, x T) error {
	if err := ValidateIndex(i, v.dim); err != nil {
		return sparseErrorf("Vector.Increment", err)
	}
	var ar A
	cur, ok := v.get(i)
	if !ok {
		cur = ar.Zero()
	}
	v.put(i, ar.Add(cur, x))

	return nil
}

// put writes without bounds checks, enforcing the sparsity invariant.
func (v *Vector[T, A]) put(i int, x T) {
	var ar A
	if ar.IsZero(x) {
		delete(v.entries, i)
		return
	}
	v.entries[i] = x
}

// get reads without bounds checks.
func (v *Vector[T, A]) get(i int) (T, bool) {
	x, ok := v.entries[i]
	return x, ok
}

// Indices returns the stored indices in ascending order.
func (v *Vector[T, A]) Indices() []int {
	return slices.Sorted(maps.Keys(v.entries))
}

// All yields (index, value) pairs in ascending index order.
func (v *Vector[T, A]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for _, i := range v.Indices() {
			if !yield(i, v.entries[i]) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (v *Vector[T, A]) Clone() *Vector[T, A] {
	return &Vector[T, A]{dim: v.dim, entries: maps.Clone(v.entries)}
}

// Add returns v + o as a new vector. Cancelled entries are dropped.
//
// Errors: ErrNilOperand, ErrShapeMismatch (dims differ).
// Complexity: O(|v|+|o|).
func (v *Vector[T, A]) Add(o *Vector[T, A]) (*Vector[T, A], error) {
	return v.combine(o, false, ctxVecAdd)
}

// Sub returns v - o as a new vector. Cancelled entries are dropped.
func (v *Vector[T, A]) Sub(o *Vector[T, A]) (*Vector[T, A], error) {
	return v.combine(o, true, ctxVecSub)
}

// combine implements Add/Sub: copy v, then fold o in entry by entry.
func (v *Vector[T, A]) combine(o *Vector[T, A], subtract bool, tag string) (*Vector[T, A], error) {
	if o == nil {
		return nil, sparseErrorf(tag, ErrNilOperand)
	}
	if err := ValidateSameDim(v.dim, o.dim); err != nil {
		return nil, sparseErrorf(tag, err)
	}
	var ar A
	out := v.Clone()
	for i, y := range o.entries {
		x, ok := out.entries[i]
		if !ok {
			x = ar.Zero()
		}
		if subtract {
			out.put(i, ar.Sub(x, y))
		} else {
			out.put(i, ar.Add(x, y))
		}
	}

	return out, nil
}

// Negate returns -v.
func (v *Vector[T, A]) Negate() *Vector[T, A] {
	var ar A
	out := newVector[T, A](v.dim, len(v.entries))
	for i, x := range v.entries {
		out.put(i, ar.Neg(x))
	}

	return out
}

// Scale returns k*v. Scale(Zero()) yields an empty vector.
func (v *Vector[T, A]) Scale(k T) *Vector[T, A] {
	var ar A
	out := newVector[T, A](v.dim, len(v.entries))
	if ar.IsZero(k) {
		return out
	}
	for i, x := range v.entries {
		out.put(i, ar.Mul(k, x))
	}

	return out
}

// Dot returns Σ v[k]*o[k] over keys stored in both operands.
//
// Implementation:
//   - Stage 1: pick the operand with fewer entries.
//   - Stage 2: probe the other operand's map for each of its keys.
//
// Complexity: O(min(|v|,|o|)).
func (v *Vector[T, A]) Dot(o *Vector[T, A]) (T, error) {
	var ar A
	if o == nil {
		return ar.Zero(), sparseErrorf(ctxVecDot, ErrNilOperand)
	}
	if err := ValidateSameDim(v.dim, o.dim); err != nil {
		return ar.Zero(), sparseErrorf(ctxVecDot, err)
	}

	small, large := v.entries, o.entries
	if len(large) < len(small) {
		small, large = large, small
	}
	sum := ar.Zero()
	for i, x := range small {
		if y, ok := large[i]; ok {
			sum = ar.Add(sum, ar.Mul(x, y))
		}
	}

	return sum, nil
}

// NormSquared returns Σ x*x over stored values.
func (v *Vector[T, A]) NormSquared() T {
	var ar A
	sum := ar.Zero()
	for _, x := range v.entries {
		sum = ar.Add(sum, ar.Mul(x, x))
	}

	return sum
}

// Equal reports identical dims, key sets and exactly equal values.
func (v *Vector[T, A]) Equal(o *Vector[T, A]) bool {
	var ar A
	return v.equalWith(o, ar.Equal)
}

// EqualApprox reports identical dims and key sets with |v[k]-o[k]| <= eps.
func (v *Vector[T, A]) EqualApprox(o *Vector[T, A], eps T) bool {
	return v.equalWith(o, func(a, b T) bool { return arith.Within[T, A](a, b, eps) })
}

func (v *Vector[T, A]) equalWith(o *Vector[T, A], same func(a, b T) bool) bool {
	if o == nil || v.dim != o.dim || len(v.entries) != len(o.entries) {
		return false
	}
	for i, x := range v.entries {
		y, ok := o.entries[i]
		if !ok || !same(x, y) {
			return false
		}
	}

	return true
}

// Swap exchanges the values at i and j (present/absent pairs move the value).
func (v *Vector[T, A]) Swap(i, j int) error {
	if err := ValidateIndex(i, v.dim); err != nil {
		return sparseErrorf(ctxVecSwap, err)
	}
	if err := ValidateIndex(j, v.dim); err != nil {
		return sparseErrorf(ctxVecSwap, err)
	}
	xi, okI := v.entries[i]
	xj, okJ := v.entries[j]
	delete(v.entries, i)
	delete(v.entries, j)
	if okI {
		v.entries[j] = xi
	}
	if okJ {
		v.entries[i] = xj
	}

	return nil
}

// Split moves every entry with index >= at into a new vector, rebased to 0.
// The receiver keeps [0, at) and its dimension becomes at; the returned
// vector has dimension Dim()-at.
//
// Errors: ErrIndexOutOfRange unless 0 < at < Dim().
func (v *Vector[T, A]) Split(at int) (*Vector[T, A], error) {
	if err := ValidateSplit(at, v.dim); err != nil {
		return nil, sparseErrorf(ctxVecSplit, err)
	}
	right := newVector[T, A](v.dim-at, 0)
	for i, x := range v.entries {
		if i >= at {
			right.entries[i-at] = x
			delete(v.entries, i)
		}
	}
	v.dim = at

	return right, nil
}

// Merge appends o after the receiver: o's index k lands at Dim()+k and the
// dimension grows by o.Dim(). o is not modified.
func (v *Vector[T, A]) Merge(o *Vector[T, A]) error {
	if o == nil {
		return sparseErrorf(ctxVecMerge, ErrNilOperand)
	}
	if o == v {
		o = v.Clone()
	}
	for k, x := range o.entries {
		v.entries[v.dim+k] = x
	}
	v.dim += o.dim

	return nil
}

// ToArray returns the dense form, absent entries filled with Zero().
func (v *Vector[T, A]) ToArray() []T {
	var ar A
	out := make([]T, v.dim)
	for i := range out {
		out[i] = ar.Zero()
	}
	for i, x := range v.entries {
		out[i] = x
	}

	return out
}

// Row converts the vector to an ordered Row of the same width.
func (v *Vector[T, A]) Row() *Row[T, A] {
	r := newRow[T, A](v.dim, len(v.entries))
	for _, i := range v.Indices() {
		r.idx = append(r.idx, i)
		r.val = append(r.val, v.entries[i])
	}

	return r
}

// String renders "{i:v, ...}/dim" in ascending index order.
func (v *Vector[T, A]) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	first := true
	for i, x := range v.All() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%d:%v", i, x)
	}
	fmt.Fprintf(&sb, "}/%d", v.dim)

	return sb.String()
}
