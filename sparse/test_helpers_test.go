// SPDX-License-Identifier: MIT
// Package sparse_test contains shared fixtures.
//
// Purpose:
//   - Fix the float64 instantiations used across tests.
//   - Provide must* constructors that abort the test on error and a
//     deterministic random fill for property tests.

package sparse_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvsparse/arith"
	"github.com/katalvlaran/lvsparse/sparse"
	"github.com/stretchr/testify/require"
)

type (
	vec = sparse.Vector[float64, arith.Float64]
	row = sparse.Row[float64, arith.Float64]
	mtx = sparse.Matrix[float64, arith.Float64]
	ten = sparse.Tensor[float64, arith.Float64]
)

func mustVec(t testing.TB, data ...float64) *vec {
	t.Helper()
	v, err := sparse.VectorFromDense[float64, arith.Float64](data)
	require.NoError(t, err)

	return v
}

func mustRow(t testing.TB, data ...float64) *row {
	t.Helper()
	r, err := sparse.RowFromDense[float64, arith.Float64](data)
	require.NoError(t, err)

	return r
}

func mustMatrix(t testing.TB, data [][]float64) *mtx {
	t.Helper()
	m, err := sparse.MatrixFromDense[float64, arith.Float64](data)
	require.NoError(t, err)

	return m
}

func mustTensor(t testing.TB, data []float64, structure ...int) *ten {
	t.Helper()
	x, err := sparse.TensorFromDense[float64, arith.Float64](data, sparse.Structure(structure))
	require.NoError(t, err)
	requireArena(t, x)

	return x
}

// requireArena fails the test when the tensor's arena invariants are broken.
func requireArena(t testing.TB, x *ten) {
	t.Helper()
	require.NoError(t, sparse.CheckTensor_TestOnly(x))
}

// randomDense returns n values where roughly density of them are non-zero
// small integers (exact in float64, so sums compare exactly).
func randomDense(rng *rand.Rand, n int, density float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		if rng.Float64() < density {
			out[i] = float64(rng.Intn(9) - 4)
		}
	}

	return out
}

// eachIndex calls fn with every index tuple of s in row-major order.
// fn must not retain idx.
func eachIndex(s sparse.Structure, fn func(idx []int)) {
	idx := make([]int, len(s))
	for n := s.Size(); n > 0; n-- {
		fn(idx)
		for r := len(s) - 1; r >= 0; r-- {
			idx[r]++
			if idx[r] < s[r] {
				break
			}
			idx[r] = 0
		}
	}
}

// denseOffset returns the row-major offset of idx in s.
func denseOffset(s sparse.Structure, idx []int) int {
	off := 0
	for r, st := range s.Strides() {
		off += idx[r] * st
	}

	return off
}

// withIndex returns a copy of idx with k inserted at position r.
func withIndex(idx []int, r, k int) []int {
	out := make([]int, 0, len(idx)+1)
	out = append(out, idx[:r]...)
	out = append(out, k)

	return append(out, idx[r:]...)
}

// denseContract is the brute-force reference for sparse.Contract over
// row-major dense data (1-based slots).
func denseContract(a []float64, sa sparse.Structure, slotA int, b []float64, sb sparse.Structure, slotB int) []float64 {
	ra, rb := slotA-1, slotB-1
	so := sa.Without(ra).Concat(sb.Without(rb))
	out := make([]float64, 0, so.Size())
	split := len(sa) - 1
	eachIndex(so, func(idx []int) {
		sum := 0.0
		for k := 0; k < sa[ra]; k++ {
			ia := withIndex(idx[:split], ra, k)
			ib := withIndex(idx[split:], rb, k)
			sum += a[denseOffset(sa, ia)] * b[denseOffset(sb, ib)]
		}
		out = append(out, sum)
	})

	return out
}

// denseSelfContract is the brute-force reference for sparse.SelfContract.
func denseSelfContract(data []float64, s sparse.Structure, s1, s2 int) []float64 {
	lo, hi := min(s1, s2)-1, max(s1, s2)-1
	so := s.Without(hi).Without(lo)
	out := make([]float64, 0, so.Size())
	eachIndex(so, func(idx []int) {
		sum := 0.0
		for k := 0; k < s[lo]; k++ {
			full := withIndex(withIndex(idx, lo, k), hi, k)
			sum += data[denseOffset(s, full)]
		}
		out = append(out, sum)
	})

	return out
}
