// SPDX-License-Identifier: MIT

// Package sparse - gonum interop (float64 only).
//
// Purpose:
//   - Hand an assembled sparse system to gonum's dense kernels
//     (ToMatDense / ToVecDense) and bring results back (MatrixFromMat /
//     VectorFromMat).
//   - MatView exposes a sparse matrix as a read-only mat.Matrix without
//     densifying it, so gonum routines that only call At/Dims can read it
//     directly.

package sparse

import (
	"github.com/katalvlaran/lvsparse/arith"
	"gonum.org/v1/gonum/mat"
)

const (
	ctxMatrixFromMat = "MatrixFromMat"
	ctxVectorFromMat = "VectorFromMat"
)

// ToMatDense returns the dense gonum copy of m.
// Complexity: O(rows*cols).
func ToMatDense[A arith.Arithmetic[float64]](m *Matrix[float64, A]) *mat.Dense {
	d := mat.NewDense(m.rows, m.cols, nil)
	for c, x := range m.All() {
		d.Set(c.Row, c.Col, x)
	}

	return d
}

// MatrixFromMat copies any mat.Matrix into a sparse matrix, skipping zeros
// under A.
//
// Errors: ErrNilOperand, ErrInvalidDimensions (a zero dimension).
// Complexity: O(rows*cols) reads of src.At.
func MatrixFromMat[A arith.Arithmetic[float64]](src mat.Matrix) (*Matrix[float64, A], error) {
	if src == nil {
		return nil, sparseErrorf(ctxMatrixFromMat, ErrNilOperand)
	}
	r, c := src.Dims()
	if r <= 0 || c <= 0 {
		return nil, sparseErrorf(ctxMatrixFromMat, ErrInvalidDimensions)
	}
	if v, ok := src.(MatView[A]); ok {
		return v.m.Clone(), nil
	}
	m := newMatrix[float64, A](r, c, 0)
	for i := 0; i < r; i++ {
		row := newRow[float64, A](c, 0)
		for j := 0; j < c; j++ {
			row.appendNZ(j, src.At(i, j))
		}
		m.store(i, row)
	}

	return m, nil
}

// ToVecDense returns the dense gonum copy of v.
func ToVecDense[A arith.Arithmetic[float64]](v *Vector[float64, A]) *mat.VecDense {
	d := mat.NewVecDense(v.dim, nil)
	for i, x := range v.entries {
		d.SetVec(i, x)
	}

	return d
}

// VectorFromMat copies a mat.Vector into a sparse vector.
//
// Errors: ErrNilOperand, ErrInvalidDimensions (zero length).
func VectorFromMat[A arith.Arithmetic[float64]](src mat.Vector) (*Vector[float64, A], error) {
	if src == nil {
		return nil, sparseErrorf(ctxVectorFromMat, ErrNilOperand)
	}
	n := src.Len()
	if err := ValidateDim(n); err != nil {
		return nil, sparseErrorf(ctxVectorFromMat, err)
	}
	v := newVector[float64, A](n, 0)
	for i := 0; i < n; i++ {
		v.put(i, src.AtVec(i))
	}

	return v, nil
}

// MatView is a read-only mat.Matrix over a sparse matrix. It shares
// storage with the matrix it was taken from.
type MatView[A arith.Arithmetic[float64]] struct {
	m *Matrix[float64, A]
}

// AsMat returns a mat.Matrix view of m.
func AsMat[A arith.Arithmetic[float64]](m *Matrix[float64, A]) MatView[A] {
	return MatView[A]{m: m}
}

// Dims implements mat.Matrix.
func (v MatView[A]) Dims() (r, c int) { return v.m.rows, v.m.cols }

// At implements mat.Matrix. Like gonum's own types it panics on an
// out-of-range index.
func (v MatView[A]) At(i, j int) float64 {
	if i < 0 || i >= v.m.rows {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= v.m.cols {
		panic(mat.ErrColAccess)
	}
	r, ok := v.m.data[i]
	if !ok {
		return 0
	}
	x, _ := r.At(j)

	return x
}

// T implements mat.Matrix.
func (v MatView[A]) T() mat.Matrix { return mat.Transpose{Matrix: v} }
