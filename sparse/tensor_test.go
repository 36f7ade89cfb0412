// SPDX-License-Identifier: MIT

package sparse_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvsparse/arith"
	"github.com/katalvlaran/lvsparse/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTensor_SetMaterializesAndPrunes(t *testing.T) {
	x, err := sparse.NewTensor[float64, arith.Float64](sparse.Structure{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 3, x.Rank())

	exists, missing := sparse.Locate_TestOnly(x, 1, 2)
	assert.False(t, exists)
	assert.Equal(t, 2, missing)

	// reading never allocates
	v, err := x.At(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
	cells, _ := sparse.ArenaStats_TestOnly(x)
	assert.Equal(t, 1, cells)

	require.NoError(t, x.Set(5, 1, 2, 3))
	exists, _ = sparse.Locate_TestOnly(x, 1, 2)
	assert.True(t, exists)
	assert.Equal(t, 1, x.Count())
	assert.Equal(t, 1, x.NNZ())
	requireArena(t, x)

	require.NoError(t, x.Set(6, 1, 0, 0))
	exists, missing = sparse.Locate_TestOnly(x, 1, 1)
	assert.False(t, exists)
	assert.Equal(t, 1, missing)

	// removing the last value of a chain prunes every emptied ancestor
	require.NoError(t, x.Set(0, 1, 2, 3))
	exists, _ = sparse.Locate_TestOnly(x, 1, 2)
	assert.False(t, exists)
	exists, _ = sparse.Locate_TestOnly(x, 1)
	assert.True(t, exists)
	require.NoError(t, x.Set(0, 1, 0, 0))
	assert.True(t, x.IsEmpty())
	requireArena(t, x)

	// freed cells are reused
	_, free := sparse.ArenaStats_TestOnly(x)
	assert.Equal(t, 3, free)
	require.NoError(t, x.Set(1, 0, 0, 0))
	cellsAfter, freeAfter := sparse.ArenaStats_TestOnly(x)
	assert.Equal(t, 4, cellsAfter)
	assert.Equal(t, 1, freeAfter)
	requireArena(t, x)
}

func TestTensor_IndexErrors(t *testing.T) {
	x, err := sparse.NewTensor[float64, arith.Float64](sparse.Structure{2, 2})
	require.NoError(t, err)

	_, err = x.At(0)
	require.ErrorIs(t, err, sparse.ErrInvalidRank)
	require.ErrorIs(t, x.Set(1, 0, 0, 0), sparse.ErrInvalidRank)
	_, err = x.At(0, 2)
	require.ErrorIs(t, err, sparse.ErrIndexOutOfRange)
	require.ErrorIs(t, x.Increment(1, -1, 0), sparse.ErrIndexOutOfRange)

	for _, s := range []sparse.Structure{nil, {}, {2, 0}, {-1}} {
		_, err = sparse.NewTensor[float64, arith.Float64](s)
		require.ErrorIs(t, err, sparse.ErrInvalidDimensions, "structure %v", s)
	}
}

func TestTensor_ChildAndSetChild(t *testing.T) {
	x := mustTensor(t, []float64{
		1, 0, 0, 2,
		0, 0, 0, 0,
		0, 3, 0, 0,
	}, 3, 2, 2)

	c, err := x.Child(2)
	require.NoError(t, err)
	assert.Equal(t, sparse.Structure{2, 2}, c.Structure())
	assert.Equal(t, []float64{0, 3, 0, 0}, c.ToArray())

	empty, err := x.Child(1) // absent: empty copy, not stored
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, 2, x.Count())

	// mutating the copy leaves x untouched
	require.NoError(t, c.Set(9, 0, 0))
	v, _ := x.At(2, 0, 0)
	assert.Equal(t, 0.0, v)

	require.NoError(t, x.SetChild(1, c))
	require.NoError(t, c.Set(7, 1, 1))
	assert.Equal(t, []float64{
		1, 0, 0, 2,
		9, 3, 0, 0,
		0, 3, 0, 0,
	}, x.ToArray())
	requireArena(t, x)

	// an empty replacement removes the slot
	require.NoError(t, x.SetChild(0, empty))
	assert.Equal(t, 2, x.Count())
	requireArena(t, x)

	_, err = x.Child(3)
	require.ErrorIs(t, err, sparse.ErrIndexOutOfRange)
	require.ErrorIs(t, x.SetChild(0, mustTensor(t, []float64{1, 2}, 2)), sparse.ErrShapeMismatch)
	require.ErrorIs(t, x.SetChild(0, nil), sparse.ErrNilOperand)
	_, err = mustTensor(t, []float64{1, 2}, 2).Child(0)
	require.ErrorIs(t, err, sparse.ErrInvalidRank)
}

func TestTensor_InPlaceArithmetic(t *testing.T) {
	a := mustTensor(t, []float64{1, 0, 2, 0, 0, 3, 0, 4}, 2, 2, 2)
	b := mustTensor(t, []float64{-1, 0, 0, 5, 0, -3, 0, -4}, 2, 2, 2)

	require.NoError(t, a.AddInPlace(b))
	assert.Equal(t, []float64{0, 0, 2, 5, 0, 0, 0, 0}, a.ToArray())
	assert.Equal(t, 1, a.Count(), "second top-level slot cancelled out")
	requireArena(t, a)

	require.NoError(t, a.SubInPlace(a))
	assert.True(t, a.IsEmpty())
	requireArena(t, a)

	c := b.Clone()
	c.NegateInPlace()
	sum, err := b.Add(c)
	require.NoError(t, err)
	assert.True(t, sum.IsEmpty())

	c.ScaleInPlace(2)
	assert.Equal(t, []float64{2, 0, 0, -10, 0, 6, 0, 8}, c.ToArray())
	c.ScaleInPlace(0)
	assert.True(t, c.IsEmpty())
	requireArena(t, c)

	d, err := b.Sub(b.Scale(-1))
	require.NoError(t, err)
	assert.True(t, d.Equal(b.Scale(2)))
	assert.True(t, b.Negate().Equal(b.Scale(-1)))

	require.ErrorIs(t, b.AddInPlace(mustTensor(t, []float64{1, 2}, 2)), sparse.ErrShapeMismatch)
	require.ErrorIs(t, b.SubInPlace(nil), sparse.ErrNilOperand)
}

func TestTensor_Equality(t *testing.T) {
	a := mustTensor(t, []float64{1.0000001, 0, 0, 2}, 2, 2)
	b := mustTensor(t, []float64{1.0, 0, 0, 2}, 2, 2)
	assert.True(t, a.EqualApprox(b, 1e-6))
	assert.False(t, a.EqualApprox(b, 1e-9))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a.Clone()))
	assert.False(t, a.Equal(mustTensor(t, []float64{1.0000001, 0, 0, 2}, 4)))
	assert.False(t, a.Equal(mustTensor(t, []float64{1.0000001, 0, 1, 2}, 2, 2)))
	assert.False(t, a.Equal(nil))
}

func TestTensor_ReduceRank(t *testing.T) {
	// t[i][j][k] = 100i + 10j + k + 1 where stored; a few zero holes
	data := make([]float64, 2*3*2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 2; k++ {
				if (i+j+k)%3 != 0 {
					data[i*6+j*2+k] = float64(100*i + 10*j + k + 1)
				}
			}
		}
	}
	x := mustTensor(t, data, 2, 3, 2)

	for rank := 0; rank < 3; rank++ {
		for e := 0; e < x.Structure()[rank]; e++ {
			r, err := x.ReduceRank(rank, e)
			require.NoError(t, err)
			require.Equal(t, x.Structure().Without(rank), r.Structure())
			requireArena(t, r)

			for idx, v := range r.All() {
				full := make([]int, 0, 3)
				full = append(full, idx[:rank]...)
				full = append(full, e)
				full = append(full, idx[rank:]...)
				want, err := x.At(full...)
				require.NoError(t, err)
				require.Equal(t, want, v, "rank %d element %d at %v", rank, e, idx)
			}
			// and every source entry with index e at rank shows up
			n := 0
			for idx := range x.All() {
				if idx[rank] == e {
					n++
				}
			}
			require.Equal(t, n, r.NNZ())
		}
	}

	_, err := x.ReduceRank(3, 0)
	require.ErrorIs(t, err, sparse.ErrInvalidRank)
	_, err = x.ReduceRank(1, 3)
	require.ErrorIs(t, err, sparse.ErrIndexOutOfRange)
	_, err = mustTensor(t, []float64{1}, 1).ReduceRank(0, 0)
	require.ErrorIs(t, err, sparse.ErrInvalidRank)
}

func TestTensor_ReduceRankMayBeEmpty(t *testing.T) {
	x := mustTensor(t, []float64{1, 0, 0, 0}, 2, 2)
	r, err := x.ReduceRank(1, 1)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.True(t, r.IsEmpty())
	requireArena(t, r)
}

func TestTensor_ProductOfVectors(t *testing.T) {
	a := mustTensor(t, []float64{2, 0}, 2)
	b := mustTensor(t, []float64{0, 3}, 2)

	p, err := sparse.TensorProduct(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Rank())
	assert.Equal(t, 1, p.NNZ())
	v, err := p.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
	assert.Equal(t, []float64{0, 6, 0, 0}, p.ToArray())
	requireArena(t, p)

	_, err = sparse.TensorProduct(a, nil)
	require.ErrorIs(t, err, sparse.ErrNilOperand)
}

func TestTensor_ProductStructure(t *testing.T) {
	a := mustTensor(t, []float64{1, 0, 0, 2}, 2, 2)
	b := mustTensor(t, []float64{0, 1, 1}, 3)
	p, err := sparse.TensorProduct(a, b)
	require.NoError(t, err)
	assert.Equal(t, sparse.Structure{2, 2, 3}, p.Structure())
	assert.Equal(t, []float64{
		0, 1, 1, 0, 0, 0,
		0, 0, 0, 0, 2, 2,
	}, p.ToArray())
	requireArena(t, p)

	self, err := sparse.TensorProduct(b, b)
	require.NoError(t, err)
	assert.Equal(t, 4, self.NNZ())
}

func TestTensor_TraceOfMatrix(t *testing.T) {
	x := mustTensor(t, []float64{1, 0, 0, 2}, 2, 2)
	tr, err := sparse.Trace(x)
	require.NoError(t, err)
	assert.Equal(t, 3.0, tr)

	_, err = sparse.Trace(mustTensor(t, []float64{1, 2}, 2))
	require.ErrorIs(t, err, sparse.ErrInvalidRank)
	_, err = sparse.Trace(mustTensor(t, []float64{1, 2, 3, 4, 5, 6}, 2, 3))
	require.ErrorIs(t, err, sparse.ErrShapeMismatch)
}

func TestContract_MatrixVector(t *testing.T) {
	m := mustTensor(t, []float64{1, 2, 0, 3}, 2, 2)
	v := mustTensor(t, []float64{5, 7}, 2)

	// slot 2 of m with v: m·v
	mv, err := sparse.Contract(m, 2, v, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{19, 21}, mv.ToArray())

	// slot 1 of m with v: vᵀ·m, and the rank-1 operand may come first
	vm, err := sparse.Contract(v, 1, m, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 31}, vm.ToArray())
	vm2, err := sparse.Contract(m, 1, v, 1)
	require.NoError(t, err)
	assert.True(t, vm.Equal(vm2))
}

func TestContract_MatrixMatrix(t *testing.T) {
	a := mustMatrix(t, [][]float64{{1, 2, 0}, {0, 1, 3}})
	b := mustMatrix(t, [][]float64{{1, 0}, {0, 2}, {4, 0}})

	c, err := sparse.Contract(a.Tensor(), 2, b.Tensor(), 1)
	require.NoError(t, err)
	requireArena(t, c)
	got, err := sparse.MatrixFromTensor(c)
	require.NoError(t, err)

	want, err := a.Mul(b)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}

func TestContract_Errors(t *testing.T) {
	v := mustTensor(t, []float64{1, 2}, 2)
	w := mustTensor(t, []float64{1, 2, 3}, 3)
	m := mustTensor(t, []float64{1, 2, 3, 4}, 2, 2)

	_, err := sparse.Contract(v, 1, v, 1)
	require.ErrorIs(t, err, sparse.ErrInvalidRank)
	_, err = sparse.Contract(m, 3, v, 1)
	require.ErrorIs(t, err, sparse.ErrInvalidRank)
	_, err = sparse.Contract(m, 0, v, 1)
	require.ErrorIs(t, err, sparse.ErrInvalidRank)
	_, err = sparse.Contract(m, 1, w, 1)
	require.ErrorIs(t, err, sparse.ErrShapeMismatch)
	_, err = sparse.Contract(nil, 1, w, 1)
	require.ErrorIs(t, err, sparse.ErrNilOperand)

	_, err = sparse.ContractScalar(v, m)
	require.ErrorIs(t, err, sparse.ErrInvalidRank)
	_, err = sparse.ContractScalar(v, w)
	require.ErrorIs(t, err, sparse.ErrShapeMismatch)
}

func TestContract_RankAndScalarPath(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 40; trial++ {
		ra, rb := 1+rng.Intn(4), 1+rng.Intn(4)
		sa := make(sparse.Structure, ra)
		sb := make(sparse.Structure, rb)
		for i := range sa {
			sa[i] = 1 + rng.Intn(3)
		}
		for i := range sb {
			sb[i] = 1 + rng.Intn(3)
		}
		slotA, slotB := 1+rng.Intn(ra), 1+rng.Intn(rb)
		sb[slotB-1] = sa[slotA-1]

		da, db := randomDense(rng, sa.Size(), 0.5), randomDense(rng, sb.Size(), 0.5)
		a := mustTensor(t, da, sa...)
		b := mustTensor(t, db, sb...)

		if ra == 1 && rb == 1 {
			s, err := sparse.ContractScalar(a, b)
			require.NoError(t, err)
			va, _ := sparse.VectorFromTensor(a)
			vb, _ := sparse.VectorFromTensor(b)
			dot, _ := va.Dot(vb)
			require.Equal(t, dot, s)
			continue
		}
		c, err := sparse.Contract(a, slotA, b, slotB)
		require.NoError(t, err)
		require.Equal(t, ra+rb-2, c.Rank())
		require.Equal(t, denseContract(da, sa, slotA, db, sb, slotB), c.ToArray(),
			"structures %v·%v slots %d,%d", sa, sb, slotA, slotB)
		requireArena(t, c)
	}
}

func TestContract_RankThreeMatchesDense(t *testing.T) {
	sa := sparse.Structure{2, 3, 2}
	sb := sparse.Structure{3, 2, 2}
	da := []float64{
		1, 0, 2, -1, 0, 3,
		0, 4, 0, 0, 5, -2,
	}
	db := []float64{
		1, 2, 0, 0,
		0, -1, 3, 0,
		2, 0, 0, 1,
	}
	a := mustTensor(t, da, sa...)
	b := mustTensor(t, db, sb...)
	for slotA := 1; slotA <= 3; slotA++ {
		for slotB := 1; slotB <= 3; slotB++ {
			if sa[slotA-1] != sb[slotB-1] {
				continue
			}
			c, err := sparse.Contract(a, slotA, b, slotB)
			require.NoError(t, err)
			assert.Equal(t, sa.Without(slotA-1).Concat(sb.Without(slotB-1)), c.Structure())
			assert.Equal(t, denseContract(da, sa, slotA, db, sb, slotB), c.ToArray(), "slots %d,%d", slotA, slotB)
			requireArena(t, c)
		}
	}
}

func TestSelfContract_MatchesDense(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 30; trial++ {
		rank := 3 + rng.Intn(2)
		s := make(sparse.Structure, rank)
		for i := range s {
			s[i] = 1 + rng.Intn(3)
		}
		s1 := 1 + rng.Intn(rank)
		s2 := 1 + rng.Intn(rank-1)
		if s2 >= s1 {
			s2++
		}
		s[s2-1] = s[s1-1]

		data := randomDense(rng, s.Size(), 0.5)
		x := mustTensor(t, data, s...)
		r, err := sparse.SelfContract(x, s1, s2)
		require.NoError(t, err)
		require.Equal(t, rank-2, r.Rank())
		require.Equal(t, denseSelfContract(data, s, s1, s2), r.ToArray(),
			"structure %v slots %d,%d", s, s1, s2)
		requireArena(t, r)
	}
}

func TestSelfContract(t *testing.T) {
	// t[i][j][k] with structure 2x3x2; contracting slots 1 and 3 gives
	// r[j] = Σ_i t[i][j][i]
	data := []float64{
		1, 2, 3, 4, 5, 6,
		7, 8, 9, 10, 11, 12,
	}
	x := mustTensor(t, data, 2, 3, 2)
	r, err := sparse.SelfContract(x, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, sparse.Structure{3}, r.Structure())
	assert.Equal(t, []float64{1 + 8, 3 + 10, 5 + 12}, r.ToArray())
	requireArena(t, r)

	_, err = sparse.SelfContract(x, 1, 1)
	require.ErrorIs(t, err, sparse.ErrInvalidRank)
	_, err = sparse.SelfContract(x, 1, 2)
	require.ErrorIs(t, err, sparse.ErrShapeMismatch)
	_, err = sparse.SelfContract(mustTensor(t, []float64{1, 0, 0, 1}, 2, 2), 1, 2)
	require.ErrorIs(t, err, sparse.ErrInvalidRank)
	_, err = sparse.SelfContract(x, 1, 4)
	require.ErrorIs(t, err, sparse.ErrInvalidRank)
}

func TestTensor_AllAndString(t *testing.T) {
	x := mustTensor(t, []float64{0, 1, 2, 0}, 2, 2)
	var paths [][]int
	for p, v := range x.All() {
		paths = append(paths, p)
		assert.NotZero(t, v)
	}
	assert.Equal(t, [][]int{{0, 1}, {1, 0}}, paths)
	assert.Equal(t, "Tensor[2 2]{[0 1]:1, [1 0]:2}", x.String())

	// early break
	n := 0
	for range x.All() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestTensor_CapacityOption(t *testing.T) {
	x, err := sparse.NewTensor[float64, arith.Float64](sparse.Structure{4, 4}, sparse.WithCapacity(8))
	require.NoError(t, err)
	require.NoError(t, x.Increment(2, 1, 1))
	require.NoError(t, x.Increment(3, 1, 1))
	v, _ := x.At(1, 1)
	assert.Equal(t, 5.0, v)
	require.NoError(t, x.Increment(-5, 1, 1))
	assert.True(t, x.IsEmpty())
	requireArena(t, x)
}
