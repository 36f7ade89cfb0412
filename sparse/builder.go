// SPDX-License-Identifier: MIT

// Package sparse - dense constructors and cross-container conversions.
//
// Every constructor skips zero values (under A), so the sparsity invariant
// holds from the first moment. Conversions always deep-copy.

package sparse

import (
	"fmt"

	"github.com/katalvlaran/lvsparse/arith"
)

const (
	ctxVecFromDense = "VectorFromDense"
	ctxRowFromDense = "RowFromDense"
	ctxMatFromDense = "MatrixFromDense"
	ctxTenFromDense = "TensorFromDense"
	ctxVecFromTen   = "VectorFromTensor"
	ctxMatFromTen   = "MatrixFromTensor"
)

// VectorFromDense builds a vector of dimension len(data).
//
// Errors: ErrInvalidDimensions for empty data.
func VectorFromDense[T any, A arith.Arithmetic[T]](data []T) (*Vector[T, A], error) {
	if err := ValidateDim(len(data)); err != nil {
		return nil, sparseErrorf(ctxVecFromDense, err)
	}
	v := newVector[T, A](len(data), 0)
	for i, x := range data {
		v.put(i, x)
	}

	return v, nil
}

// RowFromDense builds a row of width len(data).
//
// Errors: ErrInvalidDimensions for empty data.
func RowFromDense[T any, A arith.Arithmetic[T]](data []T) (*Row[T, A], error) {
	if err := ValidateDim(len(data)); err != nil {
		return nil, sparseErrorf(ctxRowFromDense, err)
	}
	r := newRow[T, A](len(data), 0)
	for j, x := range data {
		r.appendNZ(j, x)
	}

	return r, nil
}

// MatrixFromDense builds a len(data)×len(data[0]) matrix.
//
// Errors:
//   - ErrInvalidDimensions for no rows or empty rows.
//   - ErrShapeMismatch for ragged input.
func MatrixFromDense[T any, A arith.Arithmetic[T]](data [][]T) (*Matrix[T, A], error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return nil, sparseErrorf(ctxMatFromDense, ErrInvalidDimensions)
	}
	cols := len(data[0])
	m := newMatrix[T, A](len(data), cols, 0)
	for i, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("%s: row %d has %d columns, want %d: %w",
				ctxMatFromDense, i, len(row), cols, ErrShapeMismatch)
		}
		r := newRow[T, A](cols, 0)
		for j, x := range row {
			r.appendNZ(j, x)
		}
		m.store(i, r)
	}

	return m, nil
}

// TensorFromDense builds a tensor from row-major data.
//
// Errors:
//   - ErrInvalidDimensions for an invalid structure.
//   - ErrShapeMismatch when len(data) != structure.Size().
func TensorFromDense[T any, A arith.Arithmetic[T]](data []T, structure Structure, opts ...Option) (*Tensor[T, A], error) {
	if err := structure.Validate(); err != nil {
		return nil, sparseErrorf(ctxTenFromDense, err)
	}
	if len(data) != structure.Size() {
		return nil, fmt.Errorf("%s: %d values for structure %v: %w",
			ctxTenFromDense, len(data), structure, ErrShapeMismatch)
	}
	o := gatherOptions(opts...)

	var ar A
	t := newTensor[T, A](structure, o.capacity)
	idx := make([]int, len(structure))
	for _, x := range data {
		if !ar.IsZero(x) {
			t.put(x, idx)
		}
		// advance the row-major odometer
		for r := len(idx) - 1; r >= 0; r-- {
			idx[r]++
			if idx[r] < structure[r] {
				break
			}
			idx[r] = 0
		}
	}

	return t, nil
}

// Tensor converts v into a rank-1 tensor of structure [Dim()].
func (v *Vector[T, A]) Tensor() *Tensor[T, A] {
	t := newTensor[T, A](Structure{v.dim}, 1)
	leaf := t.nodes[rootID].values
	for i, x := range v.entries {
		leaf[i] = x
	}

	return t
}

// Tensor converts m into a rank-2 tensor of structure [Rows() Cols()].
func (m *Matrix[T, A]) Tensor() *Tensor[T, A] {
	t := newTensor[T, A](Structure{m.rows, m.cols}, len(m.data)+1)
	for _, i := range m.RowIndices() {
		r := m.data[i]
		c := t.ensureChild(rootID, i)
		vals := t.nodes[c].values
		for p, j := range r.idx {
			vals[j] = r.val[p]
		}
	}

	return t
}

// VectorFromTensor converts a rank-1 tensor into a Vector.
//
// Errors: ErrNilOperand, ErrInvalidRank (Rank() != 1).
func VectorFromTensor[T any, A arith.Arithmetic[T]](t *Tensor[T, A]) (*Vector[T, A], error) {
	if t == nil {
		return nil, sparseErrorf(ctxVecFromTen, ErrNilOperand)
	}
	if t.Rank() != 1 {
		return nil, sparseErrorf(ctxVecFromTen, ErrInvalidRank)
	}
	leaf := t.nodes[rootID].values
	v := newVector[T, A](t.structure[0], len(leaf))
	for i, x := range leaf {
		v.entries[i] = x
	}

	return v, nil
}

// MatrixFromTensor converts a rank-2 tensor into a Matrix.
//
// Errors: ErrNilOperand, ErrInvalidRank (Rank() != 2).
func MatrixFromTensor[T any, A arith.Arithmetic[T]](t *Tensor[T, A]) (*Matrix[T, A], error) {
	if t == nil {
		return nil, sparseErrorf(ctxMatFromTen, ErrNilOperand)
	}
	if t.Rank() != 2 {
		return nil, sparseErrorf(ctxMatFromTen, ErrInvalidRank)
	}
	m := newMatrix[T, A](t.structure[0], t.structure[1], 0)
	for i, c := range t.nodes[rootID].children {
		vals := t.nodes[c].values
		r := newRow[T, A](m.cols, len(vals))
		for _, j := range sortedKeys(vals) {
			r.idx = append(r.idx, j)
			r.val = append(r.val, vals[j])
		}
		m.store(i, r)
	}

	return m, nil
}
