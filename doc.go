// Package lvsparse is a generic sparse tensor algebra engine: vectors,
// ordered rows, matrices and rank-N tensors that store only their non-zero
// entries, keyed by explicit structural indices.
//
// 🚀 What is in the module?
//
//	• arith/  : arithmetic strategies. A strategy type (Float64, Int,
//	            Snap64, ...) supplies Zero/IsZero/Add/Mul/... and is a
//	            zero-size type parameter of every container.
//	• sparse/ : Vector, Row, Matrix and Tensor with sum, difference,
//	            negation, scaling, dot products, tensor product,
//	            contraction, rank reduction, split/merge/swap and
//	            tolerance equality; dense and gonum conversions.
//	• examples/poisson : assembles a 1-D Poisson system with Increment
//	            and solves it through gonum.
//
// ✨ Why lvsparse?
//
//   - Sparse by construction: zeros are never stored and empty
//     substructures are pruned as soon as they appear.
//   - Statically typed arithmetic: no interface boxing or type switches
//     on the hot path.
//   - Explicit errors: sentinel errors matched with errors.Is.
//   - Deterministic iteration in ascending index order.
//
// Quick start:
//
//	m, _ := sparse.NewMatrix[float64, arith.Float64](3, 3)
//	_ = m.Increment(0, 0, 2)
//	_ = m.Increment(0, 1, -1)
//	y, _ := m.MulVec(x)
package lvsparse
