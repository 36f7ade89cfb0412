// SPDX-License-Identifier: MIT

// Package sparse - Tensor element-wise arithmetic and equality.
//
// In-place forms mutate the receiver and prune emptied substructures on the
// way back up the recursion; functional forms clone first. Every result is
// non-nil; a full cancellation leaves an empty tensor with the same
// structure.

package sparse

import "github.com/katalvlaran/lvsparse/arith"

const (
	ctxTenAdd = "Tensor.Add"
	ctxTenSub = "Tensor.Sub"
)

// AddInPlace performs t += o.
//
// Errors: ErrNilOperand, ErrShapeMismatch (structures differ).
// Complexity: O(nodes(o) + nnz(o)) map probes.
func (t *Tensor[T, A]) AddInPlace(o *Tensor[T, A]) error {
	var ar A
	return t.foldIn(o, ctxTenAdd, ar.Add, func(y T) T { return y })
}

// SubInPlace performs t -= o.
func (t *Tensor[T, A]) SubInPlace(o *Tensor[T, A]) error {
	var ar A
	return t.foldIn(o, ctxTenSub, ar.Sub, ar.Neg)
}

func (t *Tensor[T, A]) foldIn(o *Tensor[T, A], tag string, both func(x, y T) T, only func(y T) T) error {
	if o == nil {
		return sparseErrorf(tag, ErrNilOperand)
	}
	if err := ValidateSameStructure(t.structure, o.structure); err != nil {
		return sparseErrorf(tag, err)
	}
	if o == t {
		o = t.Clone()
	}
	t.accumulate(rootID, o, rootID, both, only)

	return nil
}

// accumulate folds src's subtree sID into t's node dID.
//
// Implementation:
//   - Stage 1 (leaf): combine values key by key; zero results are deleted.
//   - Stage 2 (inner): descend into matching children (creating missing
//     ones), then detach any child the fold left empty.
func (t *Tensor[T, A]) accumulate(dID nodeID, src *Tensor[T, A], sID nodeID, both func(x, y T) T, only func(y T) T) {
	var ar A
	if src.isLeaf(sID) {
		vals := t.nodes[dID].values
		for key, y := range src.nodes[sID].values {
			var r T
			if x, ok := vals[key]; ok {
				r = both(x, y)
			} else {
				r = only(y)
			}
			if ar.IsZero(r) {
				delete(vals, key)
				continue
			}
			vals[key] = r
		}
		return
	}
	for _, key := range sortedKeys(src.nodes[sID].children) {
		c := t.ensureChild(dID, key)
		t.accumulate(c, src, src.nodes[sID].children[key], both, only)
		if t.size(c) == 0 {
			t.detach(c)
		}
	}
}

// NegateInPlace performs t = -t.
func (t *Tensor[T, A]) NegateInPlace() {
	var ar A
	t.mapValues(rootID, ar.Neg)
}

// ScaleInPlace performs t = k*t. A zero k empties the tensor.
func (t *Tensor[T, A]) ScaleInPlace(k T) {
	var ar A
	if ar.IsZero(k) {
		t.reset()
		return
	}
	t.mapValues(rootID, func(x T) T { return ar.Mul(k, x) })
}

// mapValues replaces every stored value x by f(x), dropping zeros and
// detaching children left empty.
func (t *Tensor[T, A]) mapValues(id nodeID, f func(T) T) {
	var ar A
	if t.isLeaf(id) {
		vals := t.nodes[id].values
		for key, x := range vals {
			if y := f(x); ar.IsZero(y) {
				delete(vals, key)
			} else {
				vals[key] = y
			}
		}
		return
	}
	for _, key := range sortedKeys(t.nodes[id].children) {
		c := t.nodes[id].children[key]
		t.mapValues(c, f)
		if t.size(c) == 0 {
			t.detach(c)
		}
	}
}

// Add returns t + o as a new tensor.
func (t *Tensor[T, A]) Add(o *Tensor[T, A]) (*Tensor[T, A], error) {
	out := t.Clone()
	if err := out.AddInPlace(o); err != nil {
		return nil, err
	}

	return out, nil
}

// Sub returns t - o as a new tensor.
func (t *Tensor[T, A]) Sub(o *Tensor[T, A]) (*Tensor[T, A], error) {
	out := t.Clone()
	if err := out.SubInPlace(o); err != nil {
		return nil, err
	}

	return out, nil
}

// Negate returns -t.
func (t *Tensor[T, A]) Negate() *Tensor[T, A] {
	out := t.Clone()
	out.NegateInPlace()

	return out
}

// Scale returns k*t.
func (t *Tensor[T, A]) Scale(k T) *Tensor[T, A] {
	out := t.Clone()
	out.ScaleInPlace(k)

	return out
}

// Equal reports identical structures, key sets at every level and exactly
// equal leaf values. A structure mismatch is simply false.
func (t *Tensor[T, A]) Equal(o *Tensor[T, A]) bool {
	var ar A
	return t.equalWith(o, ar.Equal)
}

// EqualApprox is Equal with |a-b| <= eps at the leaves.
func (t *Tensor[T, A]) EqualApprox(o *Tensor[T, A], eps T) bool {
	return t.equalWith(o, func(a, b T) bool { return arith.Within[T, A](a, b, eps) })
}

func (t *Tensor[T, A]) equalWith(o *Tensor[T, A], same func(a, b T) bool) bool {
	if o == nil || !t.structure.Equal(o.structure) {
		return false
	}

	return t.sameSubtree(rootID, o, rootID, same)
}

func (t *Tensor[T, A]) sameSubtree(id nodeID, o *Tensor[T, A], oid nodeID, same func(a, b T) bool) bool {
	if t.size(id) != o.size(oid) {
		return false
	}
	if t.isLeaf(id) {
		ov := o.nodes[oid].values
		for key, x := range t.nodes[id].values {
			y, ok := ov[key]
			if !ok || !same(x, y) {
				return false
			}
		}
		return true
	}
	oc := o.nodes[oid].children
	for key, c := range t.nodes[id].children {
		d, ok := oc[key]
		if !ok || !t.sameSubtree(c, o, d, same) {
			return false
		}
	}

	return true
}
