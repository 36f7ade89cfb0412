// SPDX-License-Identifier: MIT

// Package sparse - Matrix: rank-2 container of ordered Rows.
//
// Purpose:
//   - Map row index -> *Row; absent rows are all-zero and cost nothing.
//   - Expose row writes through an explicit get-or-create slot (RowSlot)
//     bound to (owner, row index). It is Existing while the owner stores a
//     row at that index and Absent otherwise. Writing a non-zero through an
//     Absent slot materializes the row; a row emptied through a slot is
//     removed.
//
// Invariants:
//   - every stored row is non-empty and has width == Cols();
//   - stored row keys lie in [0, Rows()).
//
// Stored *Row values are never handed out; callers receive copies (RowAt)
// or slots (Lookup), so a row can only be emptied through code that prunes.

package sparse

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/katalvlaran/lvsparse/arith"
)

const (
	ctxMatNew = "NewMatrix"
	ctxLookup = "Lookup"
	ctxSetRow = "SetRow"
	ctxRowAt  = "RowAt"
)

// Coord addresses a matrix entry.
type Coord struct {
	Row, Col int
}

// Matrix is a sparse rank-2 container.
type Matrix[T any, A arith.Arithmetic[T]] struct {
	rows, cols int
	data       map[int]*Row[T, A]
	rowCap     int // capacity hint for materialized rows
}

// NewMatrix returns an empty rows×cols matrix.
//
// Errors: ErrInvalidDimensions if rows <= 0 or cols <= 0.
func NewMatrix[T any, A arith.Arithmetic[T]](rows, cols int, opts ...Option) (*Matrix[T, A], error) {
	if rows <= 0 || cols <= 0 {
		return nil, sparseErrorf(ctxMatNew, ErrInvalidDimensions)
	}
	o := gatherOptions(opts...)

	return newMatrix[T, A](rows, cols, o.capacity), nil
}

func newMatrix[T any, A arith.Arithmetic[T]](rows, cols, rowCap int) *Matrix[T, A] {
	return &Matrix[T, A]{rows: rows, cols: cols, data: make(map[int]*Row[T, A]), rowCap: rowCap}
}

// Rows returns the row dimension.
func (m *Matrix[T, A]) Rows() int { return m.rows }

// Cols returns the column dimension.
func (m *Matrix[T, A]) Cols() int { return m.cols }

// Count returns the number of occupied rows.
func (m *Matrix[T, A]) Count() int { return len(m.data) }

// IsEmpty reports that no entry is stored.
func (m *Matrix[T, A]) IsEmpty() bool { return len(m.data) == 0 }

// NNZ returns the total number of stored entries.
func (m *Matrix[T, A]) NNZ() int {
	n := 0
	for _, r := range m.data {
		n += r.Count()
	}

	return n
}

// RowIndices returns occupied row indices in ascending order.
func (m *Matrix[T, A]) RowIndices() []int {
	return slices.Sorted(maps.Keys(m.data))
}

// ---------- get-or-create slot ----------

// RowSlot is the get-or-create handle returned by Lookup. It addresses row
// index of its owner and resolves the stored row on every access, so it
// stays valid across other writes, swaps and splits of the owner. The slot
// is Existing while the owner stores a row at index, Absent otherwise.
type RowSlot[T any, A arith.Arithmetic[T]] struct {
	owner *Matrix[T, A]
	index int
}

// Lookup returns the slot for row i. It never allocates a row.
//
// Errors: ErrIndexOutOfRange.
func (m *Matrix[T, A]) Lookup(i int) (*RowSlot[T, A], error) {
	if err := ValidateIndex(i, m.rows); err != nil {
		return nil, matrixErrorf(ctxLookup, i, 0, err)
	}

	return &RowSlot[T, A]{owner: m, index: i}, nil
}

// current returns the row the owner stores at the slot index, nil when Absent.
func (s *RowSlot[T, A]) current() *Row[T, A] { return s.owner.data[s.index] }

// check reports ErrIndexOutOfRange when the owner shrank below the slot
// index (SplitAtRow) or j is not a column of the owner.
func (s *RowSlot[T, A]) check(op string, j int) error {
	if err := ValidateIndex(s.index, s.owner.rows); err != nil {
		return matrixErrorf(op, s.index, j, err)
	}
	if err := ValidateIndex(j, s.owner.cols); err != nil {
		return matrixErrorf(op, s.index, j, err)
	}

	return nil
}

// Exists reports whether the owner currently stores a row at the slot index.
func (s *RowSlot[T, A]) Exists() bool { return s.current() != nil }

// Index returns the row index this slot addresses.
func (s *RowSlot[T, A]) Index() int { return s.index }

// Count returns the stored entry count of the row (0 when Absent).
func (s *RowSlot[T, A]) Count() int {
	r := s.current()
	if r == nil {
		return 0
	}

	return r.Count()
}

// At reads column j; an Absent slot reads Zero().
func (s *RowSlot[T, A]) At(j int) (T, error) {
	var ar A
	if err := s.check(opAt, j); err != nil {
		return ar.Zero(), err
	}
	r := s.current()
	if r == nil {
		return ar.Zero(), nil
	}
	x, _ := r.At(j) // bounds already checked

	return x, nil
}

// Set writes column j.
//   - Absent + non-zero: materializes the row in the owner, slot becomes Existing.
//   - Absent + zero: no-op.
//   - Existing and the row becomes empty: the row is removed, slot becomes Absent.
//
// Errors: ErrIndexOutOfRange (column, or slot index no longer in the owner).
func (s *RowSlot[T, A]) Set(j int, x T) error {
	if err := s.check(opSet, j); err != nil {
		return err
	}
	var ar A
	r := s.current()
	if r == nil {
		if ar.IsZero(x) {
			return nil
		}
		r = s.materialize()
	}
	r.put(j, x)
	s.settle(r)

	return nil
}

// Increment adds x to column j with the same materialize/prune rules as Set.
func (s *RowSlot[T, A]) Increment(j int, x T) error {
	if err := s.check(opIncrement, j); err != nil {
		return err
	}
	var ar A
	if ar.IsZero(x) {
		return nil
	}
	r := s.current()
	if r == nil {
		r = s.materialize()
	}
	_ = r.Increment(j, x) // bounds already checked
	s.settle(r)

	return nil
}

// materialize inserts a fresh row into the owner at the slot index.
func (s *RowSlot[T, A]) materialize() *Row[T, A] {
	r := newRow[T, A](s.owner.cols, s.owner.rowCap)
	s.owner.data[s.index] = r

	return r
}

// settle removes r from the owner once it is empty.
func (s *RowSlot[T, A]) settle(r *Row[T, A]) {
	if r.IsEmpty() {
		delete(s.owner.data, s.index)
	}
}

// ---------- element access ----------

// At returns m[i][j], Zero() when absent.
func (m *Matrix[T, A]) At(i, j int) (T, error) {
	var ar A
	if err := ValidateIndex(i, m.rows); err != nil {
		return ar.Zero(), matrixErrorf(opAt, i, j, err)
	}
	if err := ValidateIndex(j, m.cols); err != nil {
		return ar.Zero(), matrixErrorf(opAt, i, j, err)
	}
	r, ok := m.data[i]
	if !ok {
		return ar.Zero(), nil
	}
	x, _ := r.At(j)

	return x, nil
}

// Set writes m[i][j] = x through the row slot.
func (m *Matrix[T, A]) Set(i, j int, x T) error {
	s, err := m.Lookup(i)
	if err != nil {
		return err
	}

	return s.Set(j, x)
}

// Increment adds x to m[i][j] (assembly accumulate).
func (m *Matrix[T, A]) Increment(i, j int, x T) error {
	s, err := m.Lookup(i)
	if err != nil {
		return err
	}

	return s.Increment(j, x)
}

// RowAt returns a copy of row i. An absent row yields an empty placeholder
// row of width Cols() that is not stored and not counted.
func (m *Matrix[T, A]) RowAt(i int) (*Row[T, A], error) {
	if err := ValidateIndex(i, m.rows); err != nil {
		return nil, matrixErrorf(ctxRowAt, i, 0, err)
	}
	if r, ok := m.data[i]; ok {
		return r.Clone(), nil
	}

	return newRow[T, A](m.cols, 0), nil
}

// SetRow stores a deep copy of r as row i; an empty r removes row i.
//
// Errors: ErrNilOperand, ErrIndexOutOfRange, ErrShapeMismatch (width != Cols()).
func (m *Matrix[T, A]) SetRow(i int, r *Row[T, A]) error {
	if r == nil {
		return matrixErrorf(ctxSetRow, i, 0, ErrNilOperand)
	}
	if err := ValidateIndex(i, m.rows); err != nil {
		return matrixErrorf(ctxSetRow, i, 0, err)
	}
	if err := ValidateSameDim(r.width, m.cols); err != nil {
		return matrixErrorf(ctxSetRow, i, 0, err)
	}
	m.store(i, r.Clone())

	return nil
}

// store puts r (owned) at i, or removes i when r is empty.
func (m *Matrix[T, A]) store(i int, r *Row[T, A]) {
	if r == nil || r.IsEmpty() {
		delete(m.data, i)
		return
	}
	m.data[i] = r
}

// All yields every stored entry in row-major order.
func (m *Matrix[T, A]) All() iter.Seq2[Coord, T] {
	return func(yield func(Coord, T) bool) {
		for _, i := range m.RowIndices() {
			r := m.data[i]
			for p, j := range r.idx {
				if !yield(Coord{Row: i, Col: j}, r.val[p]) {
					return
				}
			}
		}
	}
}

// Clone returns a deep copy.
func (m *Matrix[T, A]) Clone() *Matrix[T, A] {
	out := newMatrix[T, A](m.rows, m.cols, m.rowCap)
	for i, r := range m.data {
		out.data[i] = r.Clone()
	}

	return out
}

// ToArray returns the dense rows×cols form, absent entries Zero().
func (m *Matrix[T, A]) ToArray() [][]T {
	out := make([][]T, m.rows)
	for i := range out {
		if r, ok := m.data[i]; ok {
			out[i] = r.ToArray()
			continue
		}
		out[i] = newRow[T, A](m.cols, 0).ToArray()
	}

	return out
}

// String renders one line per row of the dense form.
func (m *Matrix[T, A]) String() string {
	var sb strings.Builder
	for _, row := range m.ToArray() {
		sb.WriteString("[")
		for j, x := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%v", x)
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}
