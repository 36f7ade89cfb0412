// Package sparse stores vectors, matrices and rank-N tensors by their
// non-zero entries only, and implements their algebra.
//
// 🚀 What is in the box?
//
//	• Vector : hash-map backed rank-1 container (O(1) random access).
//	• Row    : ordered rank-1 container with a sequential-access cursor;
//	           the hot path for assembling sparse linear systems.
//	• Matrix : rank-2 container of Rows with split/merge/swap and products.
//	• Tensor : arena-backed rank-N container with tensor product,
//	           contraction, self-contraction and rank reduction.
//
// ✨ Guarantees:
//   - Sparsity: a zero value (per the arithmetic strategy) is never stored;
//     Set(.., zero) removes, and substructures that become empty are pruned.
//   - Static arithmetic: every container is generic over (T, A) where A is an
//     arith.Arithmetic[T] strategy type; no runtime type dispatch.
//   - Determinism: iteration (All, ToArray, String) is in ascending index order.
//   - Safety: public methods return sentinel errors (ErrIndexOutOfRange,
//     ErrShapeMismatch, ErrInvalidRank, ...) instead of panicking.
//
// ⚙️ Usage:
//
//	v, _ := sparse.NewVector[float64, arith.Float64](5)
//	_ = v.Set(2, 3.0)
//
//	m, _ := sparse.MatrixFromDense[float64, arith.Float64]([][]float64{{1, 0}, {0, 2}})
//	tr, _ := m.Trace() // 3
//
//	a, _ := sparse.TensorFromDense[float64, arith.Float64]([]float64{2, 0}, sparse.Structure{2})
//	b, _ := sparse.TensorFromDense[float64, arith.Float64]([]float64{0, 3}, sparse.Structure{2})
//	p, _ := sparse.TensorProduct(a, b) // rank 2, single entry p[0][1] = 6
//
// Arithmetic results are always non-nil containers; an all-zero result is
// an empty container (IsEmpty() == true), never nil.
//
// Containers are not safe for concurrent mutation; callers serialize.
package sparse
