package ast

import (
	"testing"

	"github.com/funvibe/quadgen/internal/symtab"
)

func TestInternalLinksChildrenAndSkipsNil(t *testing.T) {
	store := NewStore()
	table := symtab.New("test")
	name := "x"
	sym := table.EnterSymbol(&name, symtab.KindIdentifier)

	leaf := store.Ident(Pos{Line: 1}, sym)
	n := store.Internal(Assign, Pos{Line: 1}, leaf, nil, nil)

	if n.Child != leaf {
		t.Fatal("want the sole non-nil child linked as Child")
	}
	if leaf.Next != nil {
		t.Fatal("want no trailing sibling when every other child was nil")
	}
}

func TestInternalPreservesChildOrder(t *testing.T) {
	store := NewStore()
	a := store.Alloc(Placeholder, Pos{})
	b := store.Alloc(Placeholder, Pos{})
	c := store.Alloc(Placeholder, Pos{})

	n := store.Internal(List, Pos{}, a, b, c)

	got := n.Children()
	if len(got) != 3 || got[0] != a || got[1] != b || got[2] != c {
		t.Fatalf("want children in order [a,b,c], got %v", got)
	}
}

func TestNthChildOutOfRangeReturnsNil(t *testing.T) {
	store := NewStore()
	a := store.Alloc(Placeholder, Pos{})
	n := store.Internal(List, Pos{}, a)

	if n.NthChild(0) != a {
		t.Fatal("want NthChild(0) to return the only child")
	}
	if n.NthChild(5) != nil {
		t.Fatal("want an out-of-range NthChild to return nil")
	}
}

func TestIsLeafDistinguishesSymtabAndNamtabFromInternal(t *testing.T) {
	store := NewStore()
	table := symtab.New("test")
	name := "x"
	sym := table.EnterSymbol(&name, symtab.KindIdentifier)

	leaf := store.Ident(Pos{}, sym)
	if !leaf.IsLeaf() {
		t.Fatal("want a symtab leaf to report IsLeaf")
	}

	internal := store.Internal(List, Pos{}, leaf)
	if internal.IsLeaf() {
		t.Fatal("want an internal node with children to not report IsLeaf")
	}
}

func TestLinkAppendsToExistingSiblingChain(t *testing.T) {
	store := NewStore()
	a := store.Alloc(Placeholder, Pos{})
	b := store.Alloc(Placeholder, Pos{})
	c := store.Alloc(Placeholder, Pos{})
	a.Next = b

	head := Link(a, c)
	if head != a {
		t.Fatal("want Link to return the original head")
	}
	if b.Next != c {
		t.Fatal("want rest appended after the existing tail")
	}
}

func TestLinkFromNilHeadUsesFirstRestElement(t *testing.T) {
	a := &Node{Kind: Placeholder}
	b := &Node{Kind: Placeholder}

	head := Link(nil, a, b)
	if head != a {
		t.Fatal("want the first rest element promoted to head when head is nil")
	}
	if a.Next != b {
		t.Fatal("want the remaining rest elements appended")
	}
}

func TestAllocReissuesFreedNodes(t *testing.T) {
	store := NewStore()
	n := store.Alloc(Placeholder, Pos{Line: 1})
	n.Sym = nil
	store.Free(n)

	if store.Live() != 0 {
		t.Fatalf("want Live() 0 after freeing the only allocated node, got %d", store.Live())
	}

	reissued := store.Alloc(List, Pos{Line: 2})
	if reissued != n {
		t.Fatal("want Alloc to reissue the freed node rather than allocate fresh")
	}
	if reissued.Kind != List || reissued.Pos.Line != 2 {
		t.Fatal("want the reissued node fully zeroed before its new kind/pos are set")
	}
}

func TestFreeTreeFreesWholeSubtreeAndBalancesLive(t *testing.T) {
	store := NewStore()
	leaf1 := store.Alloc(Placeholder, Pos{})
	leaf2 := store.Alloc(Placeholder, Pos{})
	child := store.Internal(List, Pos{}, leaf1, leaf2)
	root := store.Internal(List, Pos{}, child)

	before := store.Live()
	if before != 4 {
		t.Fatalf("want 4 live nodes (root, child, leaf1, leaf2), got %d", before)
	}

	store.FreeTree(root)
	if store.Live() != 0 {
		t.Fatalf("want Live() 0 after freeing the whole subtree, got %d", store.Live())
	}
}

func TestFreeTreeOnNilIsANoop(t *testing.T) {
	store := NewStore()
	store.FreeTree(nil)
	if store.Live() != 0 {
		t.Fatal("want Live() unaffected by freeing a nil tree")
	}
}
