package tree

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortChildren reorders a parent's children by label using locale-aware
// collation (undetermined locale, case-insensitive), the way a host would
// present sibling keys to a user. It is a plain permutation under the hood:
// membership and sizes are untouched and the epoch advances only when the
// order actually changes.
func (e *Engine) SortChildren(parentID NodeID) error {
	if gerr := e.guard(); gerr != nil {
		return gerr
	}
	parent, lerr := e.lookup(parentID)
	if lerr != nil {
		return lerr
	}
	if parent.state != ChildResolved {
		return wrapErr(ErrChildrenNotMaterialized, "sort under unmaterialized parent")
	}
	if len(parent.children) < 2 {
		return nil
	}

	type entry struct {
		id    NodeID
		label string
	}
	entries := make([]entry, 0, len(parent.children))
	for _, childID := range parent.children {
		child, ok := e.store.get(childID)
		if !ok {
			return e.freeze(&Error{
				Kind: ErrKindCorrupt,
				Msg:  "child list references a node missing from the store",
				Err:  ErrCorrupt,
			})
		}
		entries = append(entries, entry{childID, child.label})
	}

	coll := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(entries, func(i, j int) bool {
		return coll.CompareString(entries[i].label, entries[j].label) < 0
	})

	order := make([]NodeID, len(entries))
	for i, en := range entries {
		order[i] = en.id
	}
	return e.ReorderChildren(parentID, order)
}
