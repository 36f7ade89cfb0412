// SPDX-License-Identifier: MIT

// Package sparse - Tensor: arena-backed sparse container of arbitrary rank.
//
// Purpose:
//   - Store a rank-N tensor as a tree of nodes kept in a per-tensor arena
//     (a slice addressed by nodeID). Level L nodes map key -> child nodeID;
//     leaf nodes (level rank-1) map key -> value, i.e. they are the vector
//     base case of every recursive operation.
//   - Record each node's superior as a parent nodeID plus its key in that
//     parent, so "remove me from my owner when I become empty" is an explicit
//     upward walk (prune) instead of a live back-pointer.
//   - Make lazy materialization explicit: locate() returns a tagged slot
//     (Existing | Absent), materialize() creates the missing chain.
//
// Invariants:
//   - every non-root node is non-empty;
//   - keys at level L lie in [0, structure[L]);
//   - a node at level L has subtree shape structure[L+1:];
//   - subtrees are never shared between parents or tensors (copies only).
//
// Complexity quicksheet:
//   - At/Set: O(rank) map probes; Clone: O(nodes + nnz);
//     All/ToArray: O(nodes log fan-out + nnz).

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
	ctxTenNew      = "NewTensor"
	ctxTenAt       = "Tensor.At"
	ctxTenSet      = "Tensor.Set"
	ctxTenInc      = "Tensor.Increment"
	ctxTenChild    = "Tensor.Child"
	ctxTenSetChild = "Tensor.SetChild"
)

// nodeID addresses a node inside one tensor's arena.
type nodeID int

const (
	noNode nodeID = -1 // "no superior" / freed marker
	rootID nodeID = 0  // the root is allocated first and never freed
)

// node is one arena cell. Exactly one of children/values is non-nil for a
// live node; a freed node has level == -1.
type node[T any] struct {
	parent   nodeID         // superior, noNode for the root
	key      int            // index of this node inside its superior
	level    int            // 0 for the root
	children map[int]nodeID // inner levels
	values   map[int]T      // leaf level (rank-1)
}

// Tensor is a sparse container of rank len(Structure()) >= 1.
type Tensor[T any, A arith.Arithmetic[T]] struct {
	structure Structure
	nodes     []node[T]
	free      []nodeID
}

// NewTensor returns an empty tensor with the given structure.
//
// Errors: ErrInvalidDimensions (empty structure or a dimension <= 0).
// Complexity: O(rank) (+ arena presize when WithCapacity is given).
func NewTensor[T any, A arith.Arithmetic[T]](structure Structure, opts ...Option) (*Tensor[T, A], error) {
	if err := structure.Validate(); err != nil {
		return nil, sparseErrorf(ctxTenNew, err)
	}
	o := gatherOptions(opts...)

	return newTensor[T, A](structure, o.capacity), nil
}

// newTensor skips validation; callers pass a valid structure they own or
// one that is cloned here.
func newTensor[T any, A arith.Arithmetic[T]](structure Structure, capHint int) *Tensor[T, A] {
	t := &Tensor[T, A]{
		structure: structure.Clone(),
		nodes:     make([]node[T], 0, max(capHint, 1)),
	}
	t.alloc(noNode, 0, 0) // root

	return t
}

// ---------- arena primitives ----------

func (t *Tensor[T, A]) leafLevel() int { return len(t.structure) - 1 }

func (t *Tensor[T, A]) isLeaf(id nodeID) bool { return t.nodes[id].level == t.leafLevel() }

// size returns the number of keys stored in node id.
func (t *Tensor[T, A]) size(id nodeID) int {
	n := &t.nodes[id]
	if n.values != nil {
		return len(n.values)
	}

	return len(n.children)
}

// alloc creates a node, reusing a freed cell when available.
// Callers must not hold *node pointers across alloc (the arena may grow).
func (t *Tensor[T, A]) alloc(parent nodeID, key, level int) nodeID {
	n := node[T]{parent: parent, key: key, level: level}
	if level == t.leafLevel() {
		n.values = make(map[int]T)
	} else {
		n.children = make(map[int]nodeID)
	}
	if k := len(t.free); k > 0 {
		id := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[id] = n
		return id
	}
	t.nodes = append(t.nodes, n)

	return nodeID(len(t.nodes) - 1)
}

// release frees id and its whole subtree (does not unlink it from its parent).
func (t *Tensor[T, A]) release(id nodeID) {
	for _, c := range t.nodes[id].children {
		t.release(c)
	}
	t.nodes[id] = node[T]{parent: noNode, level: -1}
	t.free = append(t.free, id)
}

// detach unlinks id from its superior and frees its subtree.
func (t *Tensor[T, A]) detach(id nodeID) {
	p, key := t.nodes[id].parent, t.nodes[id].key
	delete(t.nodes[p].children, key)
	t.release(id)
}

// prune walks up from id removing every node left empty; the root stays.
func (t *Tensor[T, A]) prune(id nodeID) {
	for id != rootID && t.size(id) == 0 {
		p := t.nodes[id].parent
		t.detach(id)
		id = p
	}
}

// child returns the child of parent at key.
func (t *Tensor[T, A]) child(parent nodeID, key int) (nodeID, bool) {
	c, ok := t.nodes[parent].children[key]
	return c, ok
}

// ensureChild returns the child at key, allocating it when absent.
func (t *Tensor[T, A]) ensureChild(parent nodeID, key int) nodeID {
	if c, ok := t.child(parent, key); ok {
		return c
	}
	c := t.alloc(parent, key, t.nodes[parent].level+1)
	t.nodes[parent].children[key] = c

	return c
}

// reset drops every entry, leaving an empty root.
func (t *Tensor[T, A]) reset() {
	t.nodes = t.nodes[:0]
	t.free = t.free[:0]
	t.alloc(noNode, 0, 0)
}

// ---------- get-or-create slot ----------

type slotKind uint8

const (
	slotExisting slotKind = iota // node holds the addressed node
	slotAbsent                   // node is the deepest existing ancestor
)

// slot is the tagged result of locate.
type slot struct {
	kind slotKind
	node nodeID
	rest []int // Absent only: keys still to create below node
}

// locate resolves a node-addressing prefix (len(prefix) <= rank-1) without
// allocating. Indices must already be validated.
func (t *Tensor[T, A]) locate(prefix []int) slot {
	id := rootID
	for d, key := range prefix {
		c, ok := t.child(id, key)
		if !ok {
			return slot{kind: slotAbsent, node: id, rest: prefix[d:]}
		}
		id = c
	}

	return slot{kind: slotExisting, node: id}
}

// materialize creates the missing chain of an Absent slot and returns the
// addressed node. Existing slots return their node unchanged.
func (t *Tensor[T, A]) materialize(s slot) nodeID {
	id := s.node
	if s.kind == slotExisting {
		return id
	}
	for _, key := range s.rest {
		id = t.ensureChild(id, key)
	}

	return id
}

// ---------- public accessors ----------

// Structure returns a copy of the per-rank dimensions.
func (t *Tensor[T, A]) Structure() Structure { return t.structure.Clone() }

// Rank returns the number of index dimensions.
func (t *Tensor[T, A]) Rank() int { return len(t.structure) }

// Count returns the number of occupied top-level slots.
func (t *Tensor[T, A]) Count() int { return t.size(rootID) }

// IsEmpty reports that the tensor stores no entry.
func (t *Tensor[T, A]) IsEmpty() bool { return t.size(rootID) == 0 }

// NNZ returns the total number of stored scalars.
func (t *Tensor[T, A]) NNZ() int { return t.nnz(rootID) }

func (t *Tensor[T, A]) nnz(id nodeID) int {
	if t.isLeaf(id) {
		return len(t.nodes[id].values)
	}
	n := 0
	for _, c := range t.nodes[id].children {
		n += t.nnz(c)
	}

	return n
}

// validateFull checks a complete index path (len == rank).
func (t *Tensor[T, A]) validateFull(idx []int) error {
	if len(idx) != len(t.structure) {
		return fmt.Errorf("%d indices for rank %d: %w", len(idx), len(t.structure), ErrInvalidRank)
	}

	return validatePath(t.structure, idx)
}

// At returns the scalar at idx (len(idx) == Rank()), Zero() when absent.
//
// Errors: ErrInvalidRank (wrong index count), ErrIndexOutOfRange.
func (t *Tensor[T, A]) At(idx ...int) (T, error) {
	var ar A
	if err := t.validateFull(idx); err != nil {
		return ar.Zero(), sparseErrorf(ctxTenAt, err)
	}
	last := len(idx) - 1
	s := t.locate(idx[:last])
	if s.kind == slotAbsent {
		return ar.Zero(), nil
	}
	if x, ok := t.nodes[s.node].values[idx[last]]; ok {
		return x, nil
	}

	return ar.Zero(), nil
}

// Set stores x at idx. A zero x removes the entry and prunes every
// substructure left empty; a non-zero x materializes missing substructures.
//
// Errors: ErrInvalidRank, ErrIndexOutOfRange.
func (t *Tensor[T, A]) Set(x T, idx ...int) error {
	if err := t.validateFull(idx); err != nil {
		return sparseErrorf(ctxTenSet, err)
	}
	t.put(x, idx)

	return nil
}

// put writes a validated full index path.
func (t *Tensor[T, A]) put(x T, idx []int) {
	var ar A
	last := len(idx) - 1
	s := t.locate(idx[:last])
	if ar.IsZero(x) {
		if s.kind == slotExisting {
			delete(t.nodes[s.node].values, idx[last])
			t.prune(s.node)
		}
		return
	}
	leaf := t.materialize(s)
	t.nodes[leaf].values[idx[last]] = x
}

// Increment adds x to the scalar at idx.
func (t *Tensor[T, A]) Increment(x T, idx ...int) error {
	if err := t.validateFull(idx); err != nil {
		return sparseErrorf(ctxTenInc, err)
	}
	cur, _ := t.At(idx...)
	var ar A
	t.put(ar.Add(cur, x), idx)

	return nil
}

// Child returns a deep copy of the rank-(N-1) subtensor at top-level index
// i. An absent slot yields an empty tensor (not stored anywhere).
//
// Errors: ErrInvalidRank (Rank() < 2), ErrIndexOutOfRange.
func (t *Tensor[T, A]) Child(i int) (*Tensor[T, A], error) {
	if len(t.structure) < 2 {
		return nil, sparseErrorf(ctxTenChild, ErrInvalidRank)
	}
	if err := ValidateIndex(i, t.structure[0]); err != nil {
		return nil, sparseErrorf(ctxTenChild, err)
	}
	out := newTensor[T, A](t.structure[1:], 0)
	if c, ok := t.child(rootID, i); ok {
		out.graft(rootID, t, c, nil)
	}

	return out, nil
}

// SetChild replaces the subtensor at top-level index i with a deep copy of
// sub (the copy gets this tensor as its new owner). An empty sub removes
// the slot.
//
// Errors: ErrNilOperand, ErrInvalidRank, ErrShapeMismatch
// (sub.Structure() != Structure()[1:]), ErrIndexOutOfRange.
func (t *Tensor[T, A]) SetChild(i int, sub *Tensor[T, A]) error {
	if sub == nil {
		return sparseErrorf(ctxTenSetChild, ErrNilOperand)
	}
	if len(t.structure) < 2 {
		return sparseErrorf(ctxTenSetChild, ErrInvalidRank)
	}
	if err := ValidateSameStructure(t.structure[1:], sub.structure); err != nil {
		return sparseErrorf(ctxTenSetChild, err)
	}
	if err := ValidateIndex(i, t.structure[0]); err != nil {
		return sparseErrorf(ctxTenSetChild, err)
	}
	if c, ok := t.child(rootID, i); ok {
		t.detach(c)
	}
	if sub.IsEmpty() {
		return nil
	}
	c := t.ensureChild(rootID, i)
	t.graft(c, sub, rootID, nil)
	t.prune(c)

	return nil
}

// graft copies the subtree of src rooted at sID into t's node dID, scaling
// every value by *k when k != nil. dID and sID must have the same remaining
// depth, and src must not alias the subtree being written.
func (t *Tensor[T, A]) graft(dID nodeID, src *Tensor[T, A], sID nodeID, k *T) {
	var ar A
	if src.isLeaf(sID) {
		vals := t.nodes[dID].values
		for key, x := range src.nodes[sID].values {
			if k != nil {
				x = ar.Mul(*k, x)
			}
			if ar.IsZero(x) {
				delete(vals, key)
				continue
			}
			vals[key] = x
		}
		return
	}
	for _, key := range sortedKeys(src.nodes[sID].children) {
		sc := src.nodes[sID].children[key]
		c := t.ensureChild(dID, key)
		t.graft(c, src, sc, k)
		if t.size(c) == 0 {
			t.detach(c)
		}
	}
}

// Clone returns a deep copy (arena copied cell by cell).
func (t *Tensor[T, A]) Clone() *Tensor[T, A] {
	out := &Tensor[T, A]{
		structure: t.structure.Clone(),
		nodes:     make([]node[T], len(t.nodes)),
		free:      slices.Clone(t.free),
	}
	for id, n := range t.nodes {
		n.children = maps.Clone(n.children)
		n.values = maps.Clone(n.values)
		out.nodes[id] = n
	}

	return out
}

// All yields (index path, value) for every stored scalar in lexicographic
// order. Each yielded path is a fresh slice.
func (t *Tensor[T, A]) All() iter.Seq2[[]int, T] {
	return func(yield func([]int, T) bool) {
		path := make([]int, 0, len(t.structure))
		t.walk(rootID, path, func(p []int, x T) bool {
			return yield(slices.Clone(p), x)
		})
	}
}

// walk visits stored scalars under id in ascending key order; fn may stop
// the walk by returning false.
func (t *Tensor[T, A]) walk(id nodeID, path []int, fn func([]int, T) bool) bool {
	if t.isLeaf(id) {
		vals := t.nodes[id].values
		for _, key := range sortedKeys(vals) {
			if !fn(append(path, key), vals[key]) {
				return false
			}
		}
		return true
	}
	children := t.nodes[id].children
	for _, key := range sortedKeys(children) {
		if !t.walk(children[key], append(path, key), fn) {
			return false
		}
	}

	return true
}

// ToArray returns the dense form flattened in row-major order (length
// Structure().Size()), absent entries Zero(). Entry idx lives at offset
// Σ idx[r]*Structure().Strides()[r]; slicing by the strides recovers the
// nested view.
func (t *Tensor[T, A]) ToArray() []T {
	var ar A
	out := make([]T, t.structure.Size())
	for k := range out {
		out[k] = ar.Zero()
	}
	strides := t.structure.Strides()
	t.walk(rootID, make([]int, 0, len(t.structure)), func(p []int, x T) bool {
		off := 0
		for r, i := range p {
			off += i * strides[r]
		}
		out[off] = x
		return true
	})

	return out
}

// String renders "Tensor[d0 d1 ...]{[i j ...]:v, ...}".
func (t *Tensor[T, A]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tensor%v{", t.structure)
	first := true
	for p, x := range t.All() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%v:%v", p, x)
	}
	sb.WriteString("}")

	return sb.String()
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[int]V) []int {
	return slices.Sorted(maps.Keys(m))
}
