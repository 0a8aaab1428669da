package model_test

import (
	"errors"
	"testing"

	"linkvault/internal/model"
)

func stringPtr(s string) *string { return &s }

// testTree builds:
//
//	root1
//	└── child
//	    └── grandchild
//	root2
func testTree() *model.Tree {
	return model.NewTree([]model.Folder{
		{ID: "root1", UserID: "u1", Name: "Root One"},
		{ID: "child", UserID: "u1", Name: "Child", ParentID: stringPtr("root1")},
		{ID: "grandchild", UserID: "u1", Name: "Grandchild", ParentID: stringPtr("child")},
		{ID: "root2", UserID: "u1", Name: "Root Two"},
	})
}

func TestTree_ChildrenOf(t *testing.T) {
	tree := testTree()

	tests := []struct {
		name     string
		parentID *string
		wantIDs  []string
	}{
		{"root level", nil, []string{"root1", "root2"}},
		{"nested", stringPtr("root1"), []string{"child"}},
		{"leaf has no children", stringPtr("grandchild"), nil},
		{"unknown parent", stringPtr("nope"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tree.ChildrenOf(tt.parentID)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("expected %d folders, got %d", len(tt.wantIDs), len(got))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("position %d: expected %q, got %q", i, id, got[i].ID)
				}
			}
		})
	}
}

func TestTree_PathTo(t *testing.T) {
	tree := testTree()

	path, err := tree.PathTo("grandchild")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantIDs := []string{"root1", "child", "grandchild"}
	if len(path) != len(wantIDs) {
		t.Fatalf("expected path length %d, got %d", len(wantIDs), len(path))
	}
	for i, id := range wantIDs {
		if path[i].ID != id {
			t.Errorf("position %d: expected %q, got %q", i, id, path[i].ID)
		}
	}
}

func TestTree_PathToRoot(t *testing.T) {
	tree := testTree()

	path, err := tree.PathTo("root2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 1 || path[0].ID != "root2" {
		t.Errorf("expected single-element path, got %v", path)
	}
}

func TestTree_PathToUnknown(t *testing.T) {
	tree := testTree()

	if _, err := tree.PathTo("nope"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTree_PathToTerminatesOnCorruptCycle(t *testing.T) {
	// A cycle cannot be built through the service, but a corrupted
	// store must not hang the traversal.
	tree := model.NewTree([]model.Folder{
		{ID: "a", ParentID: stringPtr("b")},
		{ID: "b", ParentID: stringPtr("a")},
	})

	path, err := tree.PathTo("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) > 3 {
		t.Errorf("expected bounded path, got length %d", len(path))
	}
}

func TestTree_IsDescendant(t *testing.T) {
	tree := testTree()

	tests := []struct {
		name        string
		candidateID string
		ancestorID  string
		want        bool
	}{
		{"direct child", "child", "root1", true},
		{"transitive", "grandchild", "root1", true},
		{"not related", "root2", "root1", false},
		{"self is not descendant", "root1", "root1", false},
		{"inverted", "root1", "grandchild", false},
		{"unknown candidate", "nope", "root1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tree.IsDescendant(tt.candidateID, tt.ancestorID); got != tt.want {
				t.Errorf("IsDescendant(%q, %q) = %v, want %v",
					tt.candidateID, tt.ancestorID, got, tt.want)
			}
		})
	}
}

func TestNewSharedLink_DistinctTokens(t *testing.T) {
	a := model.NewSharedLink("l1")
	b := model.NewSharedLink("l1")

	if a.Token == b.Token {
		t.Error("expected distinct tokens for repeated shares")
	}
	if len(a.Token) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(a.Token))
	}
	if a.LinkID != "l1" || b.LinkID != "l1" {
		t.Error("expected both shares to reference the same link")
	}
}
