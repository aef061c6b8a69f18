package archive

import (
	"slices"

	"github.com/ossyrian/mintypak/internal/pak"
)

// Entry is one node of the virtual tree: a directory or file addressed
// by its separator-joined virtual path. Entries are immutable once the
// session is loaded.
type Entry struct {
	Name     string      // decoded name component, lower-cased
	Path     string      // full virtual path, lower-cased
	Record   *pak.Record // backing live record
	Children []*Entry    // nil for files, ordered by id for directories
}

// IsDirectory reports whether the entry is a directory.
func (e *Entry) IsDirectory() bool {
	return e.Record.IsDirectory()
}

// buildChildren assembles the entries under parentID, recursing into
// directories. Child order within a directory is ascending id: the
// on-disk table does not define one, so the tree imposes a
// deterministic order itself. Ids missing from the name table (never
// the case for live records) are skipped rather than faulted.
func buildChildren(idx *Index, records []pak.Record, names map[uint32]string, parentID uint32, parentPath string) []*Entry {
	ids := slices.Clone(idx.Children(parentID))
	slices.Sort(ids)

	entries := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		slot, ok := idx.Slot(id)
		if !ok {
			continue
		}
		rec := &records[slot]
		name, ok := names[id]
		if !ok {
			continue
		}

		path := name
		if parentPath != "" {
			path = parentPath + pak.Separator + name
		}

		entry := &Entry{Name: name, Path: path, Record: rec}
		if rec.IsDirectory() {
			entry.Children = buildChildren(idx, records, names, id, path)
		}
		entries = append(entries, entry)
	}
	return entries
}

// buildTree returns the top-level entries: the children of the
// synthetic root, which contributes no name component of its own.
func buildTree(idx *Index, records []pak.Record, names map[uint32]string) []*Entry {
	return buildChildren(idx, records, names, pak.RootID, "")
}

// walk visits every entry depth-first.
func walk(entries []*Entry, fn func(*Entry)) {
	for _, e := range entries {
		fn(e)
		walk(e.Children, fn)
	}
}
