package catalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gastronom/internal/models"
)

var (
	ErrSelfParent      = errors.New("category cannot be its own parent")
	ErrDanglingParent  = errors.New("category parent does not exist")
	ErrCycle           = errors.New("category parent relation contains a cycle")
	ErrUnknownCategory = errors.New("category not found in tree")
)

// Tree is an arena of category nodes keyed by id. Parents are stored as
// nullable keys into the same arena, so traversal is lookup-and-walk and
// cycles are guarded explicitly at construction time.
type Tree struct {
	nodes    map[uuid.UUID]*models.Category
	children map[uuid.UUID][]uuid.UUID
	roots    []uuid.UUID
}

// NewTree builds a Tree from a flat category list. It rejects self-parents,
// parents that are not in the list, and cycles; a valid input is a forest.
func NewTree(categories []*models.Category) (*Tree, error) {
	t := &Tree{
		nodes:    make(map[uuid.UUID]*models.Category, len(categories)),
		children: make(map[uuid.UUID][]uuid.UUID),
	}

	for _, c := range categories {
		if _, dup := t.nodes[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %s", c.ID)
		}
		t.nodes[c.ID] = c
	}

	for _, c := range categories {
		if c.ParentID == nil {
			t.roots = append(t.roots, c.ID)
			continue
		}
		if *c.ParentID == c.ID {
			return nil, fmt.Errorf("category %s: %w", c.ID, ErrSelfParent)
		}
		if _, ok := t.nodes[*c.ParentID]; !ok {
			return nil, fmt.Errorf("category %s parent %s: %w", c.ID, *c.ParentID, ErrDanglingParent)
		}
		t.children[*c.ParentID] = append(t.children[*c.ParentID], c.ID)
	}

	// Every node must be reachable from a root; anything left over sits on
	// a cycle.
	seen := make(map[uuid.UUID]bool, len(t.nodes))
	stack := append([]uuid.UUID(nil), t.roots...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		stack = append(stack, t.children[id]...)
	}
	if len(seen) != len(t.nodes) {
		return nil, ErrCycle
	}

	return t, nil
}

// Get looks up a node by id.
func (t *Tree) Get(id uuid.UUID) (*models.Category, bool) {
	c, ok := t.nodes[id]
	return c, ok
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Roots returns all top-level categories.
func (t *Tree) Roots() []*models.Category {
	out := make([]*models.Category, 0, len(t.roots))
	for _, id := range t.roots {
		out = append(out, t.nodes[id])
	}
	return out
}

// Children returns the direct children of a node.
func (t *Tree) Children(id uuid.UUID) []*models.Category {
	ids := t.children[id]
	out := make([]*models.Category, 0, len(ids))
	for _, cid := range ids {
		out = append(out, t.nodes[cid])
	}
	return out
}

// IsLeaf reports whether a node has no children. Unknown ids are not leaves.
func (t *Tree) IsLeaf(id uuid.UUID) bool {
	if _, ok := t.nodes[id]; !ok {
		return false
	}
	return len(t.children[id]) == 0
}

// Ancestors returns the chain from the node's parent up to its root.
func (t *Tree) Ancestors(id uuid.UUID) ([]*models.Category, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, ErrUnknownCategory
	}
	var out []*models.Category
	for node.ParentID != nil {
		node = t.nodes[*node.ParentID]
		out = append(out, node)
	}
	return out, nil
}

// Descendants returns every node below the given one, depth-first.
func (t *Tree) Descendants(id uuid.UUID) ([]*models.Category, error) {
	if _, ok := t.nodes[id]; !ok {
		return nil, ErrUnknownCategory
	}
	var out []*models.Category
	stack := append([]uuid.UUID(nil), t.children[id]...)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, t.nodes[next])
		stack = append(stack, t.children[next]...)
	}
	return out, nil
}

// ValidateReparent checks whether moving a node under newParent keeps the
// forest acyclic. A nil newParent makes the node a root and always passes.
func (t *Tree) ValidateReparent(id uuid.UUID, newParent *uuid.UUID) error {
	if _, ok := t.nodes[id]; !ok {
		return ErrUnknownCategory
	}
	if newParent == nil {
		return nil
	}
	if *newParent == id {
		return ErrSelfParent
	}
	node, ok := t.nodes[*newParent]
	if !ok {
		return ErrDanglingParent
	}
	// Walking up from the new parent must never reach the moved node.
	for node.ParentID != nil {
		if *node.ParentID == id {
			return ErrCycle
		}
		node = t.nodes[*node.ParentID]
	}
	return nil
}
