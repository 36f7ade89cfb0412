// SPDX-License-Identifier: MIT

// Package sparse - tensor product and contraction.
//
// Slots are 1-based positions among a tensor's ranks, counted from the
// outermost. Contraction over one matched pair of slots is computed as
//
//	Σ_i  reduce(a, slotA, i) ⊗ reduce(b, slotB, i)
//
// where a rank-1 operand reduces to the scalar a[i] and scales the other side
// instead of entering a tensor product.

package sparse

import "github.com/katalvlaran/lvsparse/arith"

const (
	ctxProduct      = "TensorProduct"
	ctxContract     = "Contract"
	ctxContractScal = "ContractScalar"
	ctxSelfContract = "SelfContract"
	ctxTensorTrace  = "Trace"
)

// TensorProduct returns a ⊗ b with structure a.Structure()++b.Structure():
// for every stored scalar x of a, a copy of b scaled by x is grafted at x's
// position. a and b may be the same tensor.
//
// Errors: ErrNilOperand.
// Complexity: O(nnz(a) * (nodes(b) + nnz(b))).
func TensorProduct[T any, A arith.Arithmetic[T]](a, b *Tensor[T, A]) (*Tensor[T, A], error) {
	if a == nil || b == nil {
		return nil, sparseErrorf(ctxProduct, ErrNilOperand)
	}
	out := newTensor[T, A](a.structure.Concat(b.structure), 0)
	if a.IsEmpty() || b.IsEmpty() {
		return out, nil
	}
	out.product(rootID, a, rootID, b)

	return out, nil
}

// product mirrors a's subtree aID under t's node dID; at a's leaves it
// grafts scaled copies of b.
func (t *Tensor[T, A]) product(dID nodeID, a *Tensor[T, A], aID nodeID, b *Tensor[T, A]) {
	if a.isLeaf(aID) {
		vals := a.nodes[aID].values
		for _, k := range sortedKeys(vals) {
			x := vals[k]
			c := t.ensureChild(dID, k)
			t.graft(c, b, rootID, &x)
			if t.size(c) == 0 {
				t.detach(c)
			}
		}
		return
	}
	children := a.nodes[aID].children
	for _, k := range sortedKeys(children) {
		c := t.ensureChild(dID, k)
		t.product(c, a, children[k], b)
		if t.size(c) == 0 {
			t.detach(c)
		}
	}
}

// Contract contracts slot slotA of a with slot slotB of b. The result has
// rank a.Rank()+b.Rank()-2 and structure a's without slotA followed by b's
// without slotB.
//
// Errors:
//   - ErrNilOperand.
//   - ErrInvalidRank if a slot is not in [1, Rank()] or the result would
//     have rank 0 (use ContractScalar for two rank-1 operands).
//   - ErrShapeMismatch if the two slot dimensions differ.
//
// Implementation:
//   - Stage 1: validate and allocate the result.
//   - Stage 2: for every i in the slot range reduce both operands to i;
//     skip empty reductions, otherwise accumulate the product (or the scaled
//     reduction when one side is rank 1) into the result.
func Contract[T any, A arith.Arithmetic[T]](a *Tensor[T, A], slotA int, b *Tensor[T, A], slotB int) (*Tensor[T, A], error) {
	if a == nil || b == nil {
		return nil, sparseErrorf(ctxContract, ErrNilOperand)
	}
	if err := ValidateSlot(slotA, a.Rank()); err != nil {
		return nil, sparseErrorf(ctxContract, err)
	}
	if err := ValidateSlot(slotB, b.Rank()); err != nil {
		return nil, sparseErrorf(ctxContract, err)
	}
	if a.Rank()+b.Rank()-2 < 1 {
		return nil, sparseErrorf(ctxContract, ErrInvalidRank)
	}
	ra, rb := slotA-1, slotB-1
	dim := a.structure[ra]
	if err := ValidateSameDim(dim, b.structure[rb]); err != nil {
		return nil, sparseErrorf(ctxContract, err)
	}

	var ar A
	out := newTensor[T, A](a.structure.Without(ra).Concat(b.structure.Without(rb)), 0)
	for i := 0; i < dim; i++ {
		switch {
		case a.Rank() == 1:
			x, ok := a.nodes[rootID].values[i]
			if !ok {
				continue
			}
			side, _ := b.ReduceRank(rb, i) // rank and index validated above
			out.addScaled(x, side)
		case b.Rank() == 1:
			y, ok := b.nodes[rootID].values[i]
			if !ok {
				continue
			}
			side, _ := a.ReduceRank(ra, i)
			out.addScaled(y, side)
		default:
			left, _ := a.ReduceRank(ra, i)
			if left.IsEmpty() {
				continue
			}
			right, _ := b.ReduceRank(rb, i)
			if right.IsEmpty() {
				continue
			}
			term, _ := TensorProduct(left, right)
			out.accumulate(rootID, term, rootID, ar.Add, func(y T) T { return y })
		}
	}

	return out, nil
}

// addScaled performs t += k*src (src has t's structure and is not t).
func (t *Tensor[T, A]) addScaled(k T, src *Tensor[T, A]) {
	var ar A
	t.accumulate(rootID, src, rootID,
		func(x, y T) T { return ar.Add(x, ar.Mul(k, y)) },
		func(y T) T { return ar.Mul(k, y) })
}

// ContractScalar contracts two rank-1 tensors: Σ a[i]*b[i] (the dot product).
//
// Errors: ErrNilOperand, ErrInvalidRank (an operand is not rank 1),
// ErrShapeMismatch.
func ContractScalar[T any, A arith.Arithmetic[T]](a, b *Tensor[T, A]) (T, error) {
	var ar A
	if a == nil || b == nil {
		return ar.Zero(), sparseErrorf(ctxContractScal, ErrNilOperand)
	}
	if a.Rank() != 1 || b.Rank() != 1 {
		return ar.Zero(), sparseErrorf(ctxContractScal, ErrInvalidRank)
	}
	if err := ValidateSameDim(a.structure[0], b.structure[0]); err != nil {
		return ar.Zero(), sparseErrorf(ctxContractScal, err)
	}
	small, large := a.nodes[rootID].values, b.nodes[rootID].values
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

// SelfContract contracts two distinct slots of t with equal dimensions:
// Σ_i reduce(reduce(t, s_hi, i), s_lo, i). The result has rank Rank()-2.
//
// Errors: ErrNilOperand; ErrInvalidRank (Rank() < 3, slot out of range or
// s1 == s2; use Trace for rank 2); ErrShapeMismatch (slot dims differ).
func SelfContract[T any, A arith.Arithmetic[T]](t *Tensor[T, A], s1, s2 int) (*Tensor[T, A], error) {
	if t == nil {
		return nil, sparseErrorf(ctxSelfContract, ErrNilOperand)
	}
	if t.Rank() < 3 || s1 == s2 {
		return nil, sparseErrorf(ctxSelfContract, ErrInvalidRank)
	}
	if err := ValidateSlot(s1, t.Rank()); err != nil {
		return nil, sparseErrorf(ctxSelfContract, err)
	}
	if err := ValidateSlot(s2, t.Rank()); err != nil {
		return nil, sparseErrorf(ctxSelfContract, err)
	}
	lo, hi := min(s1, s2)-1, max(s1, s2)-1
	dim := t.structure[lo]
	if err := ValidateSameDim(dim, t.structure[hi]); err != nil {
		return nil, sparseErrorf(ctxSelfContract, err)
	}

	var ar A
	out := newTensor[T, A](t.structure.Without(hi).Without(lo), 0)
	for i := 0; i < dim; i++ {
		outer, _ := t.ReduceRank(hi, i)
		if outer.IsEmpty() {
			continue
		}
		term, _ := outer.ReduceRank(lo, i)
		out.accumulate(rootID, term, rootID, ar.Add, func(y T) T { return y })
	}

	return out, nil
}

// Trace returns Σ t[i][i] for a square rank-2 tensor.
//
// Errors: ErrNilOperand, ErrInvalidRank (Rank() != 2), ErrShapeMismatch.
func Trace[T any, A arith.Arithmetic[T]](t *Tensor[T, A]) (T, error) {
	var ar A
	if t == nil {
		return ar.Zero(), sparseErrorf(ctxTensorTrace, ErrNilOperand)
	}
	if t.Rank() != 2 {
		return ar.Zero(), sparseErrorf(ctxTensorTrace, ErrInvalidRank)
	}
	if err := ValidateSameDim(t.structure[0], t.structure[1]); err != nil {
		return ar.Zero(), sparseErrorf(ctxTensorTrace, err)
	}
	sum := ar.Zero()
	for i, c := range t.nodes[rootID].children {
		if x, ok := t.nodes[c].values[i]; ok {
			sum = ar.Add(sum, x)
		}
	}

	return sum, nil
}
