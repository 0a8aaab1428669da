package model

// Tree answers hierarchy queries over one user's folders.
// It is built from a snapshot of folder rows; mutations go through the
// store, and callers rebuild the tree after writes.
type Tree struct {
	folders []Folder
	byID    map[string]Folder
}

// NewTree builds a Tree from a user's folders, preserving their order.
func NewTree(folders []Folder) *Tree {
	byID := make(map[string]Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}
	return &Tree{folders: folders, byID: byID}
}

// Contains reports whether the folder exists in the tree.
func (t *Tree) Contains(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// ChildrenOf returns folders with the given parent ID in insertion order.
// Pass nil for root level folders.
func (t *Tree) ChildrenOf(parentID *string) []Folder {
	var result []Folder
	for _, f := range t.folders {
		if ptrEqual(f.ParentID, parentID) {
			result = append(result, f)
		}
	}
	return result
}

// PathTo returns the ancestor chain from the root down to and including
// the given folder. Returns ErrNotFound for an unknown id.
func (t *Tree) PathTo(id string) ([]Folder, error) {
	f, ok := t.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	path := []Folder{f}
	// Bounded by the folder count; creation rejects cycles but a
	// corrupted store must not hang us.
	for steps := 0; f.ParentID != nil && steps < len(t.folders); steps++ {
		parent, ok := t.byID[*f.ParentID]
		if !ok {
			break
		}
		path = append([]Folder{parent}, path...)
		f = parent
	}
	return path, nil
}

// IsDescendant reports whether candidate sits below ancestor in the tree.
// A folder is not its own descendant.
func (t *Tree) IsDescendant(candidateID, ancestorID string) bool {
	f, ok := t.byID[candidateID]
	if !ok {
		return false
	}
	for steps := 0; f.ParentID != nil && steps < len(t.folders); steps++ {
		if *f.ParentID == ancestorID {
			return true
		}
		parent, ok := t.byID[*f.ParentID]
		if !ok {
			return false
		}
		f = parent
	}
	return false
}

// ptrEqual compares two string pointers for equality.
func ptrEqual(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
