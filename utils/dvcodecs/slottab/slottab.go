// Package slottab implements the fixed-size slot index tables that both
// the animation file and the effect bank use to locate per-asset data.
package slottab

import (
	"fmt"
	"iter"
)

// Table is an immutable slot table. Offsets narrower than 32 bits are
// widened on load; a slot whose stored offset equals the sentinel is
// treated as absent.
type Table struct {
	slots    []uint32
	sentinel uint32
}

// New builds a table over the given offsets. The slice is retained, not
// copied; callers must not mutate it afterwards.
func New(slots []uint32, sentinel uint32) *Table {
	return &Table{slots: slots, sentinel: sentinel}
}

// NewFromUint16 widens a 16-bit slot table, e.g. the animation index.
func NewFromUint16(slots []uint16, sentinel uint16) *Table {
	widened := make([]uint32, len(slots))
	for i, v := range slots {
		widened[i] = uint32(v)
	}
	return &Table{slots: widened, sentinel: uint32(sentinel)}
}

// Len returns the number of slots, absent ones included.
func (t *Table) Len() int {
	return len(t.slots)
}

// Lookup returns the offset stored for id and whether the slot is
// occupied. An id outside [0, Len) is a programming error and panics.
func (t *Table) Lookup(id int) (uint32, bool) {
	if id < 0 || id >= len(t.slots) {
		panic(fmt.Sprintf("slottab: slot id %d out of range [0, %d)", id, len(t.slots)))
	}
	v := t.slots[id]
	if v == t.sentinel {
		return 0, false
	}
	return v, true
}

// All iterates occupied slots as (id, offset) pairs in ascending id
// order. The sequence is finite and restartable.
func (t *Table) All() iter.Seq2[int, uint32] {
	return func(yield func(int, uint32) bool) {
		for id, v := range t.slots {
			if v == t.sentinel {
				continue
			}
			if !yield(id, v) {
				return
			}
		}
	}
}
