// SPDX-License-Identifier: MIT

package sparse

const ctxTenReduce = "Tensor.ReduceRank"

// ReduceRank fixes the index of 0-based rank `rank` to `element` and returns
// the resulting rank-(N-1) tensor, structure Structure().Without(rank).
// The result may be empty.
//
// Errors:
//   - ErrInvalidRank if Rank() < 2 or rank not in [0, Rank()).
//   - ErrIndexOutOfRange if element not in [0, Structure()[rank]).
//
// Implementation:
//   - One recursion keyed on the remaining depth to the target level.
//     depth > 0 copies the current level into the result and descends;
//     depth == 0 picks `element` at the current node.
//
// Complexity: O(nodes above the target level + size of the kept subtrees).
func (t *Tensor[T, A]) ReduceRank(rank, element int) (*Tensor[T, A], error) {
	if len(t.structure) < 2 || rank < 0 || rank >= len(t.structure) {
		return nil, sparseErrorf(ctxTenReduce, ErrInvalidRank)
	}
	if err := ValidateIndex(element, t.structure[rank]); err != nil {
		return nil, sparseErrorf(ctxTenReduce, err)
	}
	out := newTensor[T, A](t.structure.Without(rank), 0)
	out.reduceFrom(t, rootID, rank, element, noNode, 0)

	return out, nil
}

// reduceFrom writes the reduction of src's node sID into t at position
// (dParent, key); dParent == noNode addresses t's root.
func (t *Tensor[T, A]) reduceFrom(src *Tensor[T, A], sID nodeID, depth, element int, dParent nodeID, key int) {
	if depth == 0 {
		if src.isLeaf(sID) {
			// dParent is a leaf of t: the picked scalar lands at key.
			if x, ok := src.nodes[sID].values[element]; ok {
				t.nodes[dParent].values[key] = x
			}
			return
		}
		sc, ok := src.child(sID, element)
		if !ok {
			return
		}
		d := t.slotAt(dParent, key)
		t.graft(d, src, sc, nil)
		if d != rootID && t.size(d) == 0 {
			t.detach(d)
		}
		return
	}

	d := t.slotAt(dParent, key)
	children := src.nodes[sID].children
	for _, k := range sortedKeys(children) {
		t.reduceFrom(src, children[k], depth-1, element, d, k)
	}
	if d != rootID && t.size(d) == 0 {
		t.detach(d)
	}
}

// slotAt returns the node at (parent, key), the root when parent == noNode.
func (t *Tensor[T, A]) slotAt(parent nodeID, key int) nodeID {
	if parent == noNode {
		return rootID
	}

	return t.ensureChild(parent, key)
}
