package core

import (
	"fmt"
	"strings"
)

// PathSeparator joins category names into a human-addressable path,
// e.g. "Food & Dining > Groceries".
const PathSeparator = " > "

// SplitPath splits a category path into trimmed segments. Resolution is
// case-sensitive and exact-match per segment.
func SplitPath(path string) []string {
	raw := strings.Split(path, ">")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		parts = append(parts, strings.TrimSpace(p))
	}
	return parts
}

// BuildTree assembles flat category rows into a forest. Sibling order
// follows the input order; callers wanting alphabetical listings must feed
// name-sorted rows. Rows whose parent is absent from the input are treated
// as roots rather than dropped.
func BuildTree(flat []Category) []*CategoryTreeNode {
	nodes := make(map[int64]*CategoryTreeNode, len(flat))
	ordered := make([]*CategoryTreeNode, 0, len(flat))
	for _, c := range flat {
		n := &CategoryTreeNode{
			ID:           c.ID,
			Name:         c.Name,
			ParentID:     c.ParentID,
			CategoryType: c.CategoryType,
		}
		nodes[c.ID] = n
		ordered = append(ordered, n)
	}

	var roots []*CategoryTreeNode
	for _, n := range ordered {
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[*n.ParentID]
		if !ok {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}
	return roots
}

// TreeNodeInfo is the per-node data kept by a TreeIndex.
type TreeNodeInfo struct {
	Name         string
	CategoryType CategoryType
}

// TreeIndex provides O(1) id-keyed lookups over a category forest.
type TreeIndex struct {
	Info       map[int64]TreeNodeInfo
	ParentOf   map[int64]*int64
	ChildrenOf map[int64][]int64
}

// NewTreeIndex walks the forest once and indexes every node.
func NewTreeIndex(tree []*CategoryTreeNode) *TreeIndex {
	ix := &TreeIndex{
		Info:       make(map[int64]TreeNodeInfo),
		ParentOf:   make(map[int64]*int64),
		ChildrenOf: make(map[int64][]int64),
	}
	var walk func(n *CategoryTreeNode, parent *int64)
	walk = func(n *CategoryTreeNode, parent *int64) {
		ix.Info[n.ID] = TreeNodeInfo{Name: n.Name, CategoryType: n.CategoryType}
		ix.ParentOf[n.ID] = parent
		for _, child := range n.Children {
			id := n.ID
			ix.ChildrenOf[n.ID] = append(ix.ChildrenOf[n.ID], child.ID)
			walk(child, &id)
		}
	}
	for _, root := range tree {
		walk(root, nil)
	}
	return ix
}

// Name returns the display name for a category id, falling back to a
// placeholder when the id is not in the tree.
func (ix *TreeIndex) Name(id int64) string {
	if info, ok := ix.Info[id]; ok {
		return info.Name
	}
	return fmt.Sprintf("Category %d", id)
}

// Path walks parent links upward and joins names from root to the node.
func (ix *TreeIndex) Path(id int64) string {
	var parts []string
	cur := &id
	for cur != nil {
		info, ok := ix.Info[*cur]
		if !ok {
			break
		}
		parts = append(parts, info.Name)
		cur = ix.ParentOf[*cur]
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, PathSeparator)
}

// Descendants computes, for every node, the self-inclusive set of ids
// transitively reachable downward.
func Descendants(tree []*CategoryTreeNode) map[int64]map[int64]bool {
	result := make(map[int64]map[int64]bool)
	var walk func(n *CategoryTreeNode) []int64
	walk = func(n *CategoryTreeNode) []int64 {
		ids := []int64{n.ID}
		for _, child := range n.Children {
			ids = append(ids, walk(child)...)
		}
		set := make(map[int64]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		result[n.ID] = set
		return ids
	}
	for _, root := range tree {
		walk(root)
	}
	return result
}

// Subtree finds the node with the given id and returns it with its entire
// subtree, or nil when the id is not present.
func Subtree(tree []*CategoryTreeNode, id int64) *CategoryTreeNode {
	for _, n := range tree {
		if n.ID == id {
			return n
		}
		if found := Subtree(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}
