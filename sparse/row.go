// SPDX-License-Identifier: MIT

// Package sparse - Row: ordered rank-1 container used for matrix rows.
//
// Purpose:
//   - Keep entries in strictly increasing explicit-index order inside two
//     parallel contiguous slices (idx, val), so sums/differences/dots are
//     O(n+m) two-pointer merges with no hashing.
//   - Accelerate sequential access (typical row scans during assembly) with a
//     cursor remembering the last accessed position.
//
// Cursor contract:
//   - Every At/Set/Swap leaves the cursor on the position it touched (or on
//     the insertion point for an absent index).
//   - Insert/remove shift positions; the cursor is reset to the touched
//     position, and any out-of-range cursor is clamped on the next access.
//
// Complexity quicksheet:
//   - At/Set: O(d) where d is the distance from the cursor (O(1) for
//     sequential scans); insert/remove add O(n) for the shift.
//   - Add/Sub/Dot: O(n+m). Split: O(log n + moved). Merge: O(m).

package sparse

import (
	"fmt"
	"iter"
	"slices"
	"sort"
	"strings"

	"github.com/katalvlaran/lvsparse/arith"
)

const (
	ctxRowNew   = "NewRow"
	opAt        = "At"
	opSet       = "Set"
	opIncrement = "Increment"
	opSwap      = "Swap"
	opSplit     = "Split"
	opMerge     = "Merge"
	opAdd       = "Add"
	opSub       = "Sub"
	opDot       = "Dot"
)

// Row is an ordered sparse rank-1 container over [0, width).
type Row[T any, A arith.Arithmetic[T]] struct {
	width  int
	idx    []int // strictly increasing explicit indices
	val    []T   // val[p] is the value at idx[p]; never zero under A
	cursor int   // last accessed position (may be stale; clamped on use)
}

// NewRow returns an empty row of the given width.
//
// Errors: ErrInvalidDimensions if width <= 0.
func NewRow[T any, A arith.Arithmetic[T]](width int, opts ...Option) (*Row[T, A], error) {
	if err := ValidateDim(width); err != nil {
		return nil, sparseErrorf(ctxRowNew, err)
	}
	o := gatherOptions(opts...)

	return newRow[T, A](width, o.capacity), nil
}

func newRow[T any, A arith.Arithmetic[T]](width, capHint int) *Row[T, A] {
	return &Row[T, A]{
		width: width,
		idx:   make([]int, 0, capHint),
		val:   make([]T, 0, capHint),
	}
}

// Width returns the declared dimension.
func (r *Row[T, A]) Width() int { return r.width }

// Count returns the number of stored entries.
func (r *Row[T, A]) Count() int { return len(r.idx) }

// IsEmpty reports Count() == 0.
func (r *Row[T, A]) IsEmpty() bool { return len(r.idx) == 0 }

// locate finds explicit index j.
// It returns the position of j when found, otherwise the insertion point
// that keeps idx sorted. The scan direction is chosen from the cursor.
func (r *Row[T, A]) locate(j int) (pos int, found bool) {
	n := len(r.idx)
	if n == 0 {
		r.cursor = 0
		return 0, false
	}
	c := min(max(r.cursor, 0), n-1) // revalidate a stale cursor

	switch {
	case r.idx[c] == j:
		r.cursor = c
		return c, true

	case r.idx[c] < j: // forward scan
		p := c + 1
		for p < n && r.idx[p] < j {
			p++
		}
		if p < n && r.idx[p] == j {
			r.cursor = p
			return p, true
		}
		r.cursor = min(p, n-1)
		return p, false

	default: // backward scan
		p := c
		for p > 0 && r.idx[p-1] > j {
			p--
		}
		if p > 0 && r.idx[p-1] == j {
			r.cursor = p - 1
			return p - 1, true
		}
		r.cursor = p
		return p, false
	}
}

// insertAt places (j, x) at position p; the caller guarantees ordering.
func (r *Row[T, A]) insertAt(p, j int, x T) {
	r.idx = slices.Insert(r.idx, p, j)
	r.val = slices.Insert(r.val, p, x)
	r.cursor = p
}

// removeAt drops position p.
func (r *Row[T, A]) removeAt(p int) {
	r.idx = slices.Delete(r.idx, p, p+1)
	r.val = slices.Delete(r.val, p, p+1)
	r.cursor = p // may equal len; clamped on next access
}

// At returns the value at explicit index j, or Zero() when absent.
func (r *Row[T, A]) At(j int) (T, error) {
	var ar A
	if err := ValidateIndex(j, r.width); err != nil {
		return ar.Zero(), rowErrorf(opAt, j, err)
	}
	if p, ok := r.locate(j); ok {
		return r.val[p], nil
	}

	return ar.Zero(), nil
}

// Set stores x at j; a zero x removes the entry (no-op when absent).
func (r *Row[T, A]) Set(j int, x T) error {
	if err := ValidateIndex(j, r.width); err != nil {
		return rowErrorf(opSet, j, err)
	}
	r.put(j, x)

	return nil
}

// put writes without bounds checks.
func (r *Row[T, A]) put(j int, x T) {
	var ar A
	p, found := r.locate(j)
	switch {
	case ar.IsZero(x):
		if found {
			r.removeAt(p)
		}
	case found:
		r.val[p] = x
	default:
		r.insertAt(p, j, x)
	}
}

// Increment adds x to the value at j.
func (r *Row[T, A]) Increment(j int, x T) error {
	if err := ValidateIndex(j, r.width); err != nil {
		return rowErrorf(opIncrement, j, err)
	}
	var ar A
	p, found := r.locate(j)
	if !found {
		if !ar.IsZero(x) {
			r.insertAt(p, j, x)
		}
		return nil
	}
	if s := ar.Add(r.val[p], x); ar.IsZero(s) {
		r.removeAt(p)
	} else {
		r.val[p] = s
	}

	return nil
}

// All yields (explicit index, value) in ascending order.
func (r *Row[T, A]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for p := range r.idx {
			if !yield(r.idx[p], r.val[p]) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (r *Row[T, A]) Clone() *Row[T, A] {
	return &Row[T, A]{
		width:  r.width,
		idx:    slices.Clone(r.idx),
		val:    slices.Clone(r.val),
		cursor: r.cursor,
	}
}

// appendNZ appends (j, x) when x is non-zero. Used by merges that emit in order.
func (r *Row[T, A]) appendNZ(j int, x T) {
	var ar A
	if ar.IsZero(x) {
		return
	}
	r.idx = append(r.idx, j)
	r.val = append(r.val, x)
}

// Add returns r + o via a sorted two-pointer merge.
//
// Implementation:
//   - Stage 1: validate widths.
//   - Stage 2: walk both index slices; emit the smaller index, or the sum
//     when both hold the same index; drop zero sums.
//
// Errors: ErrNilOperand, ErrShapeMismatch.
// Complexity: O(n+m) time, O(n+m) space.
func (r *Row[T, A]) Add(o *Row[T, A]) (*Row[T, A], error) {
	var ar A
	if err := r.checkOperand(o, opAdd); err != nil {
		return nil, err
	}

	return r.mergeWith(o, ar.Add, func(y T) T { return y }), nil
}

// Sub returns r - o via a sorted two-pointer merge.
func (r *Row[T, A]) Sub(o *Row[T, A]) (*Row[T, A], error) {
	var ar A
	if err := r.checkOperand(o, opSub); err != nil {
		return nil, err
	}

	return r.mergeWith(o, ar.Sub, ar.Neg), nil
}

// AddScaled returns r + k*o (axpy). Used by sparse matrix products and
// row-wise assembly.
func (r *Row[T, A]) AddScaled(k T, o *Row[T, A]) (*Row[T, A], error) {
	var ar A
	if err := r.checkOperand(o, "AddScaled"); err != nil {
		return nil, err
	}
	if ar.IsZero(k) {
		return r.Clone(), nil
	}

	return r.mergeWith(o,
		func(x, y T) T { return ar.Add(x, ar.Mul(k, y)) },
		func(y T) T { return ar.Mul(k, y) },
	), nil
}

func (r *Row[T, A]) checkOperand(o *Row[T, A], op string) error {
	if o == nil {
		return fmt.Errorf("Row.%s: %w", op, ErrNilOperand)
	}
	if err := ValidateSameDim(r.width, o.width); err != nil {
		return fmt.Errorf("Row.%s: %w", op, err)
	}

	return nil
}

// mergeWith is the shared two-pointer kernel: both(x, y) combines a shared
// index, only(y) maps an index present only in o.
func (r *Row[T, A]) mergeWith(o *Row[T, A], both func(x, y T) T, only func(y T) T) *Row[T, A] {
	out := newRow[T, A](r.width, len(r.idx)+len(o.idx))
	p, q := 0, 0
	n, m := len(r.idx), len(o.idx)
	for p < n || q < m {
		switch {
		case q >= m || (p < n && r.idx[p] < o.idx[q]):
			out.appendNZ(r.idx[p], r.val[p])
			p++
		case p >= n || o.idx[q] < r.idx[p]:
			out.appendNZ(o.idx[q], only(o.val[q]))
			q++
		default: // same explicit index
			out.appendNZ(r.idx[p], both(r.val[p], o.val[q]))
			p++
			q++
		}
	}

	return out
}

// Dot returns Σ r[k]*o[k] via a sorted two-pointer walk.
// Complexity: O(n+m).
func (r *Row[T, A]) Dot(o *Row[T, A]) (T, error) {
	var ar A
	if err := r.checkOperand(o, opDot); err != nil {
		return ar.Zero(), err
	}
	sum := ar.Zero()
	p, q := 0, 0
	for p < len(r.idx) && q < len(o.idx) {
		switch {
		case r.idx[p] < o.idx[q]:
			p++
		case r.idx[p] > o.idx[q]:
			q++
		default:
			sum = ar.Add(sum, ar.Mul(r.val[p], o.val[q]))
			p++
			q++
		}
	}

	return sum, nil
}

// DotVector returns Σ r[k]*v[k] probing v's map for each row entry.
func (r *Row[T, A]) DotVector(v *Vector[T, A]) (T, error) {
	var ar A
	if v == nil {
		return ar.Zero(), fmt.Errorf("Row.DotVector: %w", ErrNilOperand)
	}
	if err := ValidateSameDim(r.width, v.dim); err != nil {
		return ar.Zero(), fmt.Errorf("Row.DotVector: %w", err)
	}

	return r.dotVector(v), nil
}

func (r *Row[T, A]) dotVector(v *Vector[T, A]) T {
	var ar A
	sum := ar.Zero()
	for p, j := range r.idx {
		if y, ok := v.get(j); ok {
			sum = ar.Add(sum, ar.Mul(r.val[p], y))
		}
	}

	return sum
}

// Negate returns -r.
func (r *Row[T, A]) Negate() *Row[T, A] {
	var ar A
	out := newRow[T, A](r.width, len(r.idx))
	for p, j := range r.idx {
		out.appendNZ(j, ar.Neg(r.val[p]))
	}

	return out
}

// Scale returns k*r; Scale(Zero()) yields an empty row.
func (r *Row[T, A]) Scale(k T) *Row[T, A] {
	var ar A
	out := newRow[T, A](r.width, len(r.idx))
	if ar.IsZero(k) {
		return out
	}
	for p, j := range r.idx {
		out.appendNZ(j, ar.Mul(k, r.val[p]))
	}

	return out
}

// NormSquared returns Σ x*x.
func (r *Row[T, A]) NormSquared() T {
	var ar A
	sum := ar.Zero()
	for _, x := range r.val {
		sum = ar.Add(sum, ar.Mul(x, x))
	}

	return sum
}

// Equal reports identical width, indices and exactly equal values.
func (r *Row[T, A]) Equal(o *Row[T, A]) bool {
	var ar A
	return r.equalWith(o, ar.Equal)
}

// EqualApprox reports identical width and indices with |a-b| <= eps per entry.
func (r *Row[T, A]) EqualApprox(o *Row[T, A], eps T) bool {
	return r.equalWith(o, func(a, b T) bool { return arith.Within[T, A](a, b, eps) })
}

func (r *Row[T, A]) equalWith(o *Row[T, A], same func(a, b T) bool) bool {
	if o == nil || r.width != o.width || !slices.Equal(r.idx, o.idx) {
		return false
	}
	for p := range r.val {
		if !same(r.val[p], o.val[p]) {
			return false
		}
	}

	return true
}

// Swap exchanges the values at explicit indices i and j.
//   - both present: values swap in place;
//   - one present: the value moves to the other index;
//   - both absent: no-op.
func (r *Row[T, A]) Swap(i, j int) error {
	if err := ValidateIndex(i, r.width); err != nil {
		return rowErrorf(opSwap, i, err)
	}
	if err := ValidateIndex(j, r.width); err != nil {
		return rowErrorf(opSwap, j, err)
	}
	if i == j {
		return nil
	}
	pi, fi := r.locate(i)
	pj, fj := r.locate(j)
	switch {
	case fi && fj:
		r.val[pi], r.val[pj] = r.val[pj], r.val[pi]
	case fi:
		r.move(pi, j)
	case fj:
		r.move(pj, i)
	}

	return nil
}

// move relocates the entry at position p to explicit index to (absent).
func (r *Row[T, A]) move(p, to int) {
	x := r.val[p]
	r.removeAt(p)
	q, _ := r.locate(to)
	r.insertAt(q, to, x)
}

// Split removes every entry with explicit index >= at and returns them as
// a new Row rebased to 0 with width Width()-at. The receiver's width
// becomes at.
//
// Errors: ErrIndexOutOfRange unless 0 < at < Width().
// Complexity: O(log n) search + O(moved) copy.
func (r *Row[T, A]) Split(at int) (*Row[T, A], error) {
	if err := ValidateSplit(at, r.width); err != nil {
		return nil, rowErrorf(opSplit, at, err)
	}
	p := sort.SearchInts(r.idx, at) // first position with idx >= at
	right := newRow[T, A](r.width-at, len(r.idx)-p)
	for k := p; k < len(r.idx); k++ {
		right.idx = append(right.idx, r.idx[k]-at)
		right.val = append(right.val, r.val[k])
	}
	r.idx = slices.Clip(r.idx[:p])
	r.val = slices.Clip(r.val[:p])
	r.width = at
	r.cursor = 0

	return right, nil
}

// Merge appends o's entries shifted by Width() and grows the width by
// o.Width(). o is not modified. Merge is the inverse of Split.
func (r *Row[T, A]) Merge(o *Row[T, A]) error {
	if o == nil {
		return rowErrorf(opMerge, r.width, ErrNilOperand)
	}
	if o == r {
		o = r.Clone()
	}
	for p, j := range o.idx {
		r.idx = append(r.idx, r.width+j)
		r.val = append(r.val, o.val[p])
	}
	r.width += o.width

	return nil
}

// grow widens the row by n without adding entries.
func (r *Row[T, A]) grow(n int) { r.width += n }

// ToArray returns the dense form.
func (r *Row[T, A]) ToArray() []T {
	var ar A
	out := make([]T, r.width)
	for k := range out {
		out[k] = ar.Zero()
	}
	for p, j := range r.idx {
		out[j] = r.val[p]
	}

	return out
}

// Vector converts the row into a hash-map backed Vector.
func (r *Row[T, A]) Vector() *Vector[T, A] {
	v := newVector[T, A](r.width, len(r.idx))
	for p, j := range r.idx {
		v.entries[j] = r.val[p]
	}

	return v
}

// String renders "[j:v, ...]/width".
func (r *Row[T, A]) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for p, j := range r.idx {
		if p > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d:%v", j, r.val[p])
	}
	fmt.Fprintf(&sb, "]/%d", r.width)

	return sb.String()
}
