package ast

import "github.com/funvibe/quadgen/internal/symtab"

// Store owns the nodes of one procedure's AST: allocation and freeing.
// It does no (de)serialisation. Lifetimes match spec.md §3: nodes live for the
// compilation of one procedure and are freed together.
type Store struct {
	free []*Node // freed nodes available for reissue
	live int
}

// NewStore returns an empty AST arena.
func NewStore() *Store {
	return &Store{}
}

// Alloc returns a zeroed node of the given kind at pos.
func (s *Store) Alloc(kind Kind, pos Pos) *Node {
	var n *Node
	if l := len(s.free); l > 0 {
		n = s.free[l-1]
		s.free = s.free[:l-1]
		*n = Node{}
	} else {
		n = &Node{}
	}
	n.Kind = kind
	n.Pos = pos
	s.live++
	return n
}

// LeafSym allocates a leaf node carrying a symbol-table reference —
// the node shape used for symtab, identifier, and literal leaves.
func (s *Store) LeafSym(kind Kind, pos Pos, sym *symtab.Symbol) *Node {
	n := s.Alloc(kind, pos)
	n.Sym = sym
	return n
}

// LeafNamtab allocates a leaf node carrying a name-table reference —
// the node shape used before a first-pass identifier has been bound.
func (s *Store) LeafNamtab(kind Kind, pos Pos, nt *symtab.NameEntry) *Node {
	n := s.Alloc(kind, pos)
	n.Namtab = nt
	return n
}

// Free returns n to the arena's free list without touching its
// children; callers that own a whole subtree should use FreeTree.
func (s *Store) Free(n *Node) {
	if n == nil {
		return
	}
	s.free = append(s.free, n)
	s.live--
}

// FreeTree recursively frees n and all of its descendants (children
// and following siblings reachable from n's own child list), the
// complement to recursive subtree allocation.
func (s *Store) FreeTree(n *Node) {
	if n == nil {
		return
	}
	for c := n.Child; c != nil; {
		next := c.Next
		s.FreeTree(c)
		c = next
	}
	s.Free(n)
}

// Live returns the number of nodes currently allocated (not on the
// free list). Used by tests to confirm FreeTree balances Alloc.
func (s *Store) Live() int { return s.live }
