// SPDX-License-Identifier: MIT

package sparse

import (
	"fmt"
	"maps"
	"slices"

	"github.com/katalvlaran/lvsparse/arith"
)

const (
	ctxMatAdd      = "Matrix.Add"
	ctxMatSub      = "Matrix.Sub"
	ctxMatMul      = "Matrix.Mul"
	ctxMatMulVec   = "Matrix.MulVec"
	ctxMatVecMul   = "Matrix.VecMul"
	ctxMatMulDense = "Matrix.MulDense"
	ctxMatTrace    = "Matrix.Trace"
	ctxSwapRows    = "Matrix.SwapRows"
	ctxSwapCols    = "Matrix.SwapColumns"
	ctxSplitRow    = "Matrix.SplitAtRow"
	ctxSplitCol    = "Matrix.SplitAtColumn"
	ctxMergeRows   = "Matrix.MergeRows"
	ctxMergeCols   = "Matrix.MergeColumns"
)

// validateSameShape checks operand presence and equal rows×cols.
func (m *Matrix[T, A]) validateSameShape(o *Matrix[T, A], tag string) error {
	if o == nil {
		return sparseErrorf(tag, ErrNilOperand)
	}
	if m.rows != o.rows || m.cols != o.cols {
		return fmt.Errorf("%s: %dx%d vs %dx%d: %w", tag, m.rows, m.cols, o.rows, o.cols, ErrShapeMismatch)
	}

	return nil
}

// Add returns m + o. Rows are merged with Row.Add over the union of
// occupied row indices; rows that cancel completely are not stored.
//
// Errors: ErrNilOperand, ErrShapeMismatch.
// Complexity: O(nnz(m)+nnz(o)).
func (m *Matrix[T, A]) Add(o *Matrix[T, A]) (*Matrix[T, A], error) {
	if err := m.validateSameShape(o, ctxMatAdd); err != nil {
		return nil, err
	}

	return m.combine(o, false), nil
}

// Sub returns m - o.
func (m *Matrix[T, A]) Sub(o *Matrix[T, A]) (*Matrix[T, A], error) {
	if err := m.validateSameShape(o, ctxMatSub); err != nil {
		return nil, err
	}

	return m.combine(o, true), nil
}

func (m *Matrix[T, A]) combine(o *Matrix[T, A], subtract bool) *Matrix[T, A] {
	out := newMatrix[T, A](m.rows, m.cols, m.rowCap)
	for i, r := range m.data {
		q, ok := o.data[i]
		if !ok {
			out.data[i] = r.Clone()
			continue
		}
		var sum *Row[T, A]
		if subtract {
			sum, _ = r.Sub(q) // widths equal by shape check
		} else {
			sum, _ = r.Add(q)
		}
		out.store(i, sum)
	}
	for i, q := range o.data {
		if _, ok := m.data[i]; ok {
			continue
		}
		if subtract {
			out.data[i] = q.Negate()
		} else {
			out.data[i] = q.Clone()
		}
	}

	return out
}

// Negate returns -m.
func (m *Matrix[T, A]) Negate() *Matrix[T, A] {
	out := newMatrix[T, A](m.rows, m.cols, m.rowCap)
	for i, r := range m.data {
		out.store(i, r.Negate())
	}

	return out
}

// Scale returns k*m.
func (m *Matrix[T, A]) Scale(k T) *Matrix[T, A] {
	out := newMatrix[T, A](m.rows, m.cols, m.rowCap)
	for i, r := range m.data {
		out.store(i, r.Scale(k))
	}

	return out
}

// Equal reports identical shape, occupied rows and exactly equal rows.
func (m *Matrix[T, A]) Equal(o *Matrix[T, A]) bool {
	return m.equalWith(o, func(a, b *Row[T, A]) bool { return a.Equal(b) })
}

// EqualApprox is Equal with per-entry tolerance eps.
func (m *Matrix[T, A]) EqualApprox(o *Matrix[T, A], eps T) bool {
	return m.equalWith(o, func(a, b *Row[T, A]) bool { return a.EqualApprox(b, eps) })
}

func (m *Matrix[T, A]) equalWith(o *Matrix[T, A], same func(a, b *Row[T, A]) bool) bool {
	if o == nil || m.rows != o.rows || m.cols != o.cols || len(m.data) != len(o.data) {
		return false
	}
	for i, r := range m.data {
		q, ok := o.data[i]
		if !ok || !same(r, q) {
			return false
		}
	}

	return true
}

// Transpose returns mᵀ (cols×rows). Rows of the result are built in
// ascending order so every append keeps the row sorted.
// Complexity: O(nnz + rows log rows).
func (m *Matrix[T, A]) Transpose() *Matrix[T, A] {
	out := newMatrix[T, A](m.cols, m.rows, m.rowCap)
	for _, i := range m.RowIndices() {
		r := m.data[i]
		for p, j := range r.idx {
			t, ok := out.data[j]
			if !ok {
				t = newRow[T, A](m.rows, 0)
				out.data[j] = t
			}
			t.idx = append(t.idx, i)
			t.val = append(t.val, r.val[p])
		}
	}

	return out
}

// Trace returns Σ m[i][i] (the rank-2 self-contraction).
//
// Errors: ErrShapeMismatch when the matrix is not square.
func (m *Matrix[T, A]) Trace() (T, error) {
	var ar A
	if m.rows != m.cols {
		return ar.Zero(), fmt.Errorf("%s: %dx%d: %w", ctxMatTrace, m.rows, m.cols, ErrShapeMismatch)
	}
	sum := ar.Zero()
	for i, r := range m.data {
		if p, ok := r.locate(i); ok {
			sum = ar.Add(sum, r.val[p])
		}
	}

	return sum, nil
}

// SwapRows exchanges rows i and j (absent rows move as absence).
func (m *Matrix[T, A]) SwapRows(i, j int) error {
	if err := ValidateIndex(i, m.rows); err != nil {
		return sparseErrorf(ctxSwapRows, err)
	}
	if err := ValidateIndex(j, m.rows); err != nil {
		return sparseErrorf(ctxSwapRows, err)
	}
	ri, okI := m.data[i]
	rj, okJ := m.data[j]
	delete(m.data, i)
	delete(m.data, j)
	if okI {
		m.data[j] = ri
	}
	if okJ {
		m.data[i] = rj
	}

	return nil
}

// SwapColumns exchanges columns i and j in every occupied row.
// Complexity: O(Σ row scan) over occupied rows only.
func (m *Matrix[T, A]) SwapColumns(i, j int) error {
	if err := ValidateIndex(i, m.cols); err != nil {
		return sparseErrorf(ctxSwapCols, err)
	}
	if err := ValidateIndex(j, m.cols); err != nil {
		return sparseErrorf(ctxSwapCols, err)
	}
	for _, r := range m.data {
		_ = r.Swap(i, j) // indices validated above
	}

	return nil
}

// SplitAtRow moves rows >= at into a new matrix (rebased to row 0) and
// shrinks the receiver to at rows.
//
// Errors: ErrIndexOutOfRange unless 0 < at < Rows().
func (m *Matrix[T, A]) SplitAtRow(at int) (*Matrix[T, A], error) {
	if err := ValidateSplit(at, m.rows); err != nil {
		return nil, sparseErrorf(ctxSplitRow, err)
	}
	bottom := newMatrix[T, A](m.rows-at, m.cols, m.rowCap)
	for i, r := range m.data {
		if i >= at {
			bottom.data[i-at] = r
			delete(m.data, i)
		}
	}
	m.rows = at

	return bottom, nil
}

// SplitAtColumn moves columns >= at into a new matrix (rebased to column 0)
// and shrinks the receiver to at columns. Rows emptied on either side are
// not stored.
//
// Errors: ErrIndexOutOfRange unless 0 < at < Cols().
func (m *Matrix[T, A]) SplitAtColumn(at int) (*Matrix[T, A], error) {
	if err := ValidateSplit(at, m.cols); err != nil {
		return nil, sparseErrorf(ctxSplitCol, err)
	}
	right := newMatrix[T, A](m.rows, m.cols-at, m.rowCap)
	for _, i := range m.RowIndices() {
		r := m.data[i]
		tail, _ := r.Split(at) // at validated against cols == width
		right.store(i, tail)
		m.store(i, r)
	}
	m.cols = at

	return right, nil
}

// MergeRows appends o below the receiver (inverse of SplitAtRow).
//
// Errors: ErrNilOperand, ErrShapeMismatch (column counts differ).
func (m *Matrix[T, A]) MergeRows(o *Matrix[T, A]) error {
	if o == nil {
		return sparseErrorf(ctxMergeRows, ErrNilOperand)
	}
	if err := ValidateSameDim(m.cols, o.cols); err != nil {
		return sparseErrorf(ctxMergeRows, err)
	}
	if o == m {
		o = m.Clone()
	}
	for i, r := range o.data {
		m.data[m.rows+i] = r.Clone()
	}
	m.rows += o.rows

	return nil
}

// MergeColumns appends o to the right of the receiver (inverse of SplitAtColumn).
//
// Errors: ErrNilOperand, ErrShapeMismatch (row counts differ).
func (m *Matrix[T, A]) MergeColumns(o *Matrix[T, A]) error {
	if o == nil {
		return sparseErrorf(ctxMergeCols, ErrNilOperand)
	}
	if err := ValidateSameDim(m.rows, o.rows); err != nil {
		return sparseErrorf(ctxMergeCols, err)
	}
	if o == m {
		o = m.Clone()
	}
	keys := slices.Sorted(maps.Keys(m.data))
	for _, i := range keys {
		r := m.data[i]
		if q, ok := o.data[i]; ok {
			_ = r.Merge(q)
			continue
		}
		r.grow(o.cols)
	}
	for i, q := range o.data {
		if _, ok := m.data[i]; ok {
			continue
		}
		r := newRow[T, A](m.cols, q.Count())
		_ = r.Merge(q)
		m.data[i] = r
	}
	m.cols += o.cols

	return nil
}

// MulVec returns m·v. Only occupied rows are visited.
//
// Errors: ErrNilOperand, ErrShapeMismatch (v.Dim() != Cols()).
// Complexity: O(nnz(m)).
func (m *Matrix[T, A]) MulVec(v *Vector[T, A]) (*Vector[T, A], error) {
	if v == nil {
		return nil, sparseErrorf(ctxMatMulVec, ErrNilOperand)
	}
	if err := ValidateSameDim(m.cols, v.dim); err != nil {
		return nil, sparseErrorf(ctxMatMulVec, err)
	}
	out := newVector[T, A](m.rows, len(m.data))
	for i, r := range m.data {
		out.put(i, r.dotVector(v))
	}

	return out, nil
}

// VecMul returns vᵀ·m. Only rows i with v[i] != 0 and row i occupied
// contribute.
//
// Errors: ErrNilOperand, ErrShapeMismatch (v.Dim() != Rows()).
func (m *Matrix[T, A]) VecMul(v *Vector[T, A]) (*Vector[T, A], error) {
	if v == nil {
		return nil, sparseErrorf(ctxMatVecMul, ErrNilOperand)
	}
	if err := ValidateSameDim(m.rows, v.dim); err != nil {
		return nil, sparseErrorf(ctxMatVecMul, err)
	}
	acc := newRow[T, A](m.cols, 0)
	for _, i := range v.Indices() {
		r, ok := m.data[i]
		if !ok {
			continue
		}
		acc, _ = acc.AddScaled(v.entries[i], r)
	}

	return acc.Vector(), nil
}

// MulDense returns m·x for a dense x, producing a dense result. This is the
// hand-off used by iterative solvers outside this package.
//
// Errors: ErrShapeMismatch (len(x) != Cols()).
func (m *Matrix[T, A]) MulDense(x []T) ([]T, error) {
	if err := ValidateSameDim(m.cols, len(x)); err != nil {
		return nil, sparseErrorf(ctxMatMulDense, err)
	}
	var ar A
	y := make([]T, m.rows)
	for i := range y {
		y[i] = ar.Zero()
	}
	for i, r := range m.data {
		sum := ar.Zero()
		for p, j := range r.idx {
			sum = ar.Add(sum, ar.Mul(r.val[p], x[j]))
		}
		y[i] = sum
	}

	return y, nil
}

// Mul returns the sparse product m·o.
//
// Implementation:
//   - Stage 1: validate m.Cols() == o.Rows().
//   - Stage 2: for each occupied row i of m, accumulate Σ_k m[i][k]·o.row(k)
//     with Row.AddScaled (sorted merges, no dense scratch).
//
// Errors: ErrNilOperand, ErrShapeMismatch.
// Complexity: O(Σ_i Σ_k nnz(o.row(k))) merges.
func (m *Matrix[T, A]) Mul(o *Matrix[T, A]) (*Matrix[T, A], error) {
	if o == nil {
		return nil, sparseErrorf(ctxMatMul, ErrNilOperand)
	}
	if err := ValidateSameDim(m.cols, o.rows); err != nil {
		return nil, sparseErrorf(ctxMatMul, err)
	}
	out := newMatrix[T, A](m.rows, o.cols, m.rowCap)
	for i, r := range m.data {
		acc := newRow[T, A](o.cols, 0)
		for p, k := range r.idx {
			q, ok := o.data[k]
			if !ok {
				continue
			}
			acc, _ = acc.AddScaled(r.val[p], q)
		}
		out.store(i, acc)
	}

	return out, nil
}

// Identity returns the n×n identity under strategy A, with one supplied as
// the multiplicative unit (the strategy has no One()).
func Identity[T any, A arith.Arithmetic[T]](n int, one T) (*Matrix[T, A], error) {
	m, err := NewMatrix[T, A](n, n)
	if err != nil {
		return nil, sparseErrorf("Identity", err)
	}
	for i := 0; i < n; i++ {
		_ = m.Set(i, i, one)
	}

	return m, nil
}
