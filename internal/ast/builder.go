package ast

import "github.com/funvibe/quadgen/internal/symtab"

// Internal allocates an internal node of kind at pos with the given
// children linked first-child/next-sibling, in order. Nil children are
// skipped so optional clauses (e.g. a missing otherwise) can be passed
// straight through without a branch at each call site.
func (s *Store) Internal(kind Kind, pos Pos, children ...*Node) *Node {
	n := s.Alloc(kind, pos)
	var tail *Node
	for _, c := range children {
		if c == nil {
			continue
		}
		if tail == nil {
			n.Child = c
		} else {
			tail.Next = c
		}
		tail = c
	}
	return n
}

// Link appends rest after head's sibling chain, returning head. A
// convenience for callers assembling list-shaped nodes (ast_list,
// iterator lists, when-clause chains) element by element.
func Link(head *Node, rest ...*Node) *Node {
	if head == nil {
		if len(rest) == 0 {
			return nil
		}
		head = rest[0]
		rest = rest[1:]
	}
	tail := head
	for tail.Next != nil {
		tail = tail.Next
	}
	for _, n := range rest {
		tail.Next = n
		tail = n
	}
	return head
}

// Ident is a convenience for building a leaf node around a bound
// identifier symbol, the commonest leaf shape fixtures construct.
func (s *Store) Ident(pos Pos, sym *symtab.Symbol) *Node {
	return s.LeafSym(Symtab, pos, sym)
}
