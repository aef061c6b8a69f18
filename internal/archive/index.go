package archive

import "github.com/ossyrian/mintypak/internal/pak"

// Index is the derived lookup over a record table: id to slot, and the
// parent-id adjacency the virtual tree is assembled from. It is built
// in one pass and never mutated afterwards.
type Index struct {
	slots    map[uint32]int      // live record id -> slot index
	children map[uint32][]uint32 // parent id -> child ids, slot order
}

// BuildIndex scans every slot in order and indexes the live records.
// Dead, empty, and invalid slots are skipped entirely; they are
// invisible to all downstream lookups. Malformed slots must not bring
// the session down, so they are dropped the same way: on a duplicate
// id the lowest slot index wins, and a record claiming the synthetic
// root id or naming itself as its own parent is excluded (either would
// make the tree walk recurse without bound).
func BuildIndex(records []pak.Record) *Index {
	idx := &Index{
		slots:    make(map[uint32]int),
		children: make(map[uint32][]uint32),
	}
	for slot := range records {
		rec := &records[slot]
		if !rec.Live() {
			continue
		}
		if rec.ID == pak.RootID || rec.ParentID == rec.ID {
			continue
		}
		if _, dup := idx.slots[rec.ID]; dup {
			continue
		}
		idx.slots[rec.ID] = slot
		idx.children[rec.ParentID] = append(idx.children[rec.ParentID], rec.ID)
	}
	return idx
}

// Slot returns the slot index of the live record with the given id.
func (idx *Index) Slot(id uint32) (int, bool) {
	slot, ok := idx.slots[id]
	return slot, ok
}

// Children returns the child ids recorded under the given parent id,
// in slot order. The returned slice is shared; callers must not
// modify it.
func (idx *Index) Children(parentID uint32) []uint32 {
	return idx.children[parentID]
}

// Len returns the number of live records in the index.
func (idx *Index) Len() int {
	return len(idx.slots)
}
