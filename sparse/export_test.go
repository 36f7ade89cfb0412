// SPDX-License-Identifier: MIT

package sparse

// Test bridge (white-box) for sparse_test.
//
// Purpose:
//   - Expose the Row cursor and the Tensor arena/slot internals so external
//     tests can assert cursor movement, lazy materialization and pruning
//     without widening the production API.

import (
	"fmt"

	"github.com/katalvlaran/lvsparse/arith"
)

// PanicCapacityInvalid_TestOnly is the WithCapacity panic message.
const PanicCapacityInvalid_TestOnly = panicCapacityInvalid

// RowCursor_TestOnly returns the current cursor position of r.
func RowCursor_TestOnly[T any, A arith.Arithmetic[T]](r *Row[T, A]) int { return r.cursor }

// SetRowCursor_TestOnly forces the cursor (stale cursors must be clamped).
func SetRowCursor_TestOnly[T any, A arith.Arithmetic[T]](r *Row[T, A], c int) { r.cursor = c }

// ArenaStats_TestOnly returns the arena length and the free-list length.
func ArenaStats_TestOnly[T any, A arith.Arithmetic[T]](t *Tensor[T, A]) (cells, free int) {
	return len(t.nodes), len(t.free)
}

// Locate_TestOnly resolves a node-addressing prefix. It reports whether the
// node exists and, when it does not, how many keys would be materialized.
func Locate_TestOnly[T any, A arith.Arithmetic[T]](t *Tensor[T, A], prefix ...int) (exists bool, missing int) {
	s := t.locate(prefix)
	return s.kind == slotExisting, len(s.rest)
}

// CheckTensor_TestOnly verifies the arena invariants:
//   - parent/key/level links of every reachable node are consistent;
//   - every reachable non-root node is non-empty;
//   - keys lie inside the structure and leaf values are non-zero;
//   - reachable + free cells account for the whole arena.
func CheckTensor_TestOnly[T any, A arith.Arithmetic[T]](t *Tensor[T, A]) error {
	var ar A
	reachable := 0
	var visit func(id nodeID) error
	visit = func(id nodeID) error {
		reachable++
		n := t.nodes[id]
		if n.level < 0 {
			return fmt.Errorf("node %d is freed but reachable", id)
		}
		if id != rootID && t.size(id) == 0 {
			return fmt.Errorf("node %d at level %d is empty", id, n.level)
		}
		dim := t.structure[n.level]
		if t.isLeaf(id) {
			if n.values == nil || n.children != nil {
				return fmt.Errorf("leaf %d has wrong storage", id)
			}
			for key, x := range n.values {
				if key < 0 || key >= dim {
					return fmt.Errorf("leaf %d key %d outside [0,%d)", id, key, dim)
				}
				if ar.IsZero(x) {
					return fmt.Errorf("leaf %d stores zero at %d", id, key)
				}
			}
			return nil
		}
		if n.children == nil || n.values != nil {
			return fmt.Errorf("inner node %d has wrong storage", id)
		}
		for key, c := range n.children {
			if key < 0 || key >= dim {
				return fmt.Errorf("node %d key %d outside [0,%d)", id, key, dim)
			}
			cn := t.nodes[c]
			if cn.parent != id || cn.key != key || cn.level != n.level+1 {
				return fmt.Errorf("node %d: bad links (parent %d key %d level %d)", c, cn.parent, cn.key, cn.level)
			}
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(rootID); err != nil {
		return err
	}
	for _, id := range t.free {
		if t.nodes[id].level != -1 {
			return fmt.Errorf("free cell %d is live", id)
		}
	}
	if reachable+len(t.free) != len(t.nodes) {
		return fmt.Errorf("arena leak: %d reachable + %d free != %d cells", reachable, len(t.free), len(t.nodes))
	}

	return nil
}
