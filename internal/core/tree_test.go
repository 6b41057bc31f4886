package core

import (
	"testing"
)

func ptr(v int64) *int64 { return &v }

// sampleCategories returns name-sorted flat rows matching what the storage
// layer feeds the tree builder:
//
//	Food & Dining (1)
//	  Coffee & Snacks (3)
//	  Groceries (2)
//	Income (6, type Income)
//	  Salary (7, type Income)
//	Transportation (4)
//	  Gas (5)
func sampleCategories() []Category {
	return []Category{
		{ID: 3, Name: "Coffee & Snacks", ParentID: ptr(1)},
		{ID: 1, Name: "Food & Dining"},
		{ID: 5, Name: "Gas", ParentID: ptr(4)},
		{ID: 2, Name: "Groceries", ParentID: ptr(1)},
		{ID: 6, Name: "Income", CategoryType: CategoryTypeIncome},
		{ID: 7, Name: "Salary", ParentID: ptr(6), CategoryType: CategoryTypeIncome},
		{ID: 4, Name: "Transportation"},
	}
}

func TestBuildTree(t *testing.T) {
	tree := BuildTree(sampleCategories())

	if len(tree) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(tree))
	}
	// Roots preserve input (name-sorted) order.
	wantRoots := []string{"Food & Dining", "Income", "Transportation"}
	for i, name := range wantRoots {
		if tree[i].Name != name {
			t.Fatalf("root %d: expected %q, got %q", i, name, tree[i].Name)
		}
	}

	food := tree[0]
	if len(food.Children) != 2 {
		t.Fatalf("expected 2 children under Food & Dining, got %d", len(food.Children))
	}
	if food.Children[0].Name != "Coffee & Snacks" || food.Children[1].Name != "Groceries" {
		t.Fatalf("children out of order: %q, %q", food.Children[0].Name, food.Children[1].Name)
	}
}

func TestBuildTreeOrphanBecomesRoot(t *testing.T) {
	tree := BuildTree([]Category{
		{ID: 10, Name: "Dangling", ParentID: ptr(99)},
	})
	if len(tree) != 1 || tree[0].Name != "Dangling" {
		t.Fatalf("orphan row should surface as a root, got %+v", tree)
	}
}

func TestDescendantsSelfInclusive(t *testing.T) {
	tree := BuildTree(sampleCategories())
	desc := Descendants(tree)

	food := desc[1]
	for _, id := range []int64{1, 2, 3} {
		if !food[id] {
			t.Fatalf("descendants of Food & Dining missing %d", id)
		}
	}
	if food[4] || food[5] {
		t.Fatalf("Transportation subtree leaked into Food & Dining descendants")
	}
	if len(desc[2]) != 1 || !desc[2][2] {
		t.Fatalf("leaf descendant set should contain only itself, got %v", desc[2])
	}
}

func TestSubtree(t *testing.T) {
	tree := BuildTree(sampleCategories())

	sub := Subtree(tree, 1)
	if sub == nil || sub.Name != "Food & Dining" || len(sub.Children) != 2 {
		t.Fatalf("unexpected subtree for Food & Dining: %+v", sub)
	}
	if leaf := Subtree(tree, 5); leaf == nil || leaf.Name != "Gas" {
		t.Fatalf("expected Gas leaf, got %+v", leaf)
	}
	if Subtree(tree, 99) != nil {
		t.Fatalf("expected nil for unknown id")
	}
}

func TestTreeIndexPath(t *testing.T) {
	tree := BuildTree(sampleCategories())
	ix := NewTreeIndex(tree)

	cases := []struct {
		id   int64
		want string
	}{
		{1, "Food & Dining"},
		{2, "Food & Dining > Groceries"},
		{5, "Transportation > Gas"},
	}
	for _, tc := range cases {
		if got := ix.Path(tc.id); got != tc.want {
			t.Fatalf("Path(%d) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestTreeIndexParentLinks(t *testing.T) {
	tree := BuildTree(sampleCategories())
	ix := NewTreeIndex(tree)

	if p := ix.ParentOf[2]; p == nil || *p != 1 {
		t.Fatalf("Groceries parent should be 1, got %v", p)
	}
	if p := ix.ParentOf[1]; p != nil {
		t.Fatalf("root parent should be nil, got %v", *p)
	}
	if got := ix.ChildrenOf[1]; len(got) != 2 || got[0] != 3 || got[1] != 2 {
		t.Fatalf("unexpected children of Food & Dining: %v", got)
	}
}

func TestSplitPath(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Food & Dining", []string{"Food & Dining"}},
		{"Food & Dining > Groceries", []string{"Food & Dining", "Groceries"}},
		{"  A>B >  C ", []string{"A", "B", "C"}},
	}
	for _, tc := range cases {
		got := SplitPath(tc.in)
		if len(got) != len(tc.want) {
			t.Fatalf("SplitPath(%q) = %v, want %v", tc.in, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("SplitPath(%q) = %v, want %v", tc.in, got, tc.want)
			}
		}
	}
}
