package codegen

import (
	"bytes"
	"io"
	"testing"

	"github.com/funvibe/quadgen/internal/ast"
	"github.com/funvibe/quadgen/internal/config"
	"github.com/funvibe/quadgen/internal/diagnostics"
	"github.com/funvibe/quadgen/internal/loopstack"
	"github.com/funvibe/quadgen/internal/pool"
	"github.com/funvibe/quadgen/internal/quads"
	"github.com/funvibe/quadgen/internal/symtab"
)

// Testable property 8: both local LHS rewrites (augmented-assignment,
// nested-LHS collapsing) are sound whether or not they actually fire —
// the value finally stored through the base container must be the
// same either way, and a rewrite must never fire somewhere its
// preconditions (single-level chain, memory-mode sink, rewrites
// enabled) don't hold.

func TestAugmentedRewriteFiresOnSingleLevelIndexedChain(t *testing.T) {
	g, store, table := newTestGen(t)
	s := newVar(table, "s")
	pos := ast.Pos{Line: 1}
	lhs := store.Internal(ast.Of, pos, identAt(store, pos, s), intAt(store, table, pos, 2))
	rhs := intAt(store, table, pos, 5)
	n := store.Internal(ast.AssignOp, pos, lhs, store.Alloc(ast.Add, pos), rhs)

	g.GenSinisterAssign(n)
	got := quadList(g)

	var sawSof, sawErase bool
	for _, q := range got {
		switch q.Opcode {
		case quads.OpSof, quads.OpSofa:
			sawSof = true
		case quads.OpErase:
			sawErase = true
		}
	}
	if !sawSof {
		t.Fatal("want the rewritten store-back opcode (q_sof/q_sofa)")
	}
	if !sawErase {
		t.Fatal("want the rewrite's explicit key erase (q_erase)")
	}
}

func TestAugmentedRewriteDeclinesForPlainSymbol(t *testing.T) {
	g, store, table := newTestGen(t)
	total := newVar(table, "total")
	pos := ast.Pos{Line: 1}
	n := store.Internal(ast.AssignOp, pos, identAt(store, pos, total), store.Alloc(ast.Add, pos), intAt(store, table, pos, 1))

	g.GenSinisterAssign(n)
	got := quadList(g)

	for _, q := range got {
		if q.Opcode == quads.OpErase {
			t.Fatal("a plain-symbol augmented assignment has no key to erase")
		}
	}
	last := got[len(got)-1]
	if last.Opcode != quads.OpAssign {
		t.Fatalf("want the final quadruple to store into total via q_assign, got %v", last.Opcode)
	}
}

func TestAugmentedRewriteDeclinesForNestedChain(t *testing.T) {
	g, store, table := newTestGen(t)
	m := newVar(table, "m")
	pos := ast.Pos{Line: 1}
	inner := store.Internal(ast.Of, pos, identAt(store, pos, m), intAt(store, table, pos, 1))
	lhs := store.Internal(ast.Of, pos, inner, intAt(store, table, pos, 2))
	n := store.Internal(ast.AssignOp, pos, lhs, store.Alloc(ast.Add, pos), intAt(store, table, pos, 5))

	g.GenSinisterAssign(n)
	got := quadList(g)

	// tryAugmentedRewrite must decline (container is itself an Of
	// chain), falling back through the general two-walk path into
	// genLHSIndexed, which performs the *nested*-LHS rewrite instead:
	// the outer container's load becomes a kill-form opcode and an
	// explicit omega-assign releases it.
	var sawKof, sawOmegaAssign bool
	for _, q := range got {
		if q.Opcode == quads.OpKof || q.Opcode == quads.OpKofa {
			sawKof = true
		}
		if q.Opcode == quads.OpAssign && q.Operand[0].Sym == table.Omega {
			sawOmegaAssign = true
		}
	}
	if !sawKof {
		t.Fatal("want the nested-LHS rewrite's kill-form load for the depth-2 chain")
	}
	if !sawOmegaAssign {
		t.Fatal("want the nested-LHS rewrite's explicit omega release of the intermediate container")
	}
}

func TestNestedLHSRewriteDeclinesInFileMode(t *testing.T) {
	g, store, table := newFileModeTestGen(t)
	m := newVar(table, "m")
	pos := ast.Pos{Line: 1}
	inner := store.Internal(ast.Of, pos, identAt(store, pos, m), intAt(store, table, pos, 1))
	lhs := store.Internal(ast.Of, pos, inner, intAt(store, table, pos, 2))
	n := store.Internal(ast.Assign, pos, lhs, intAt(store, table, pos, 77))

	g.GenSinisterAssign(n)

	sink, ok := g.Emit.MemSink()
	if ok || sink != nil {
		t.Fatal("file-mode generator must not report a mem sink")
	}
}

func TestNestedLHSRewriteDeclinesWhenDisabled(t *testing.T) {
	settings := config.Default()
	settings.DisableRewrites = true
	g, store, table := newTestGenWith(t, settings)
	m := newVar(table, "m")
	pos := ast.Pos{Line: 1}
	inner := store.Internal(ast.Of, pos, identAt(store, pos, m), intAt(store, table, pos, 1))
	lhs := store.Internal(ast.Of, pos, inner, intAt(store, table, pos, 2))
	n := store.Internal(ast.Assign, pos, lhs, intAt(store, table, pos, 77))

	g.GenSinisterAssign(n)
	got := quadList(g)

	for _, q := range got {
		if q.Opcode == quads.OpKof || q.Opcode == quads.OpKofa {
			t.Fatal("want the plain load opcode when rewrites are disabled, not the kill form")
		}
	}
}

// guardAlias must copy the RHS before any store when the value being
// assigned is literally the outermost LHS identifier, so the chain's
// own intermediate stores never see their own partial effect.
func TestGuardAliasCopiesSelfReferentialAssignment(t *testing.T) {
	g, store, table := newTestGen(t)
	m := newVar(table, "m")
	pos := ast.Pos{Line: 1}
	lhs := store.Internal(ast.Of, pos, identAt(store, pos, m), intAt(store, table, pos, 1))
	n := store.Internal(ast.Assign, pos, lhs, identAt(store, pos, m))

	g.GenSinisterAssign(n)
	got := quadList(g)

	if got[0].Opcode != quads.OpAssign {
		t.Fatalf("want a leading copy-to-temp before the indexed store, got %v", got[0].Opcode)
	}
	if got[0].Operand[0].Sym != m {
		t.Fatalf("want the copy's source to be m itself, got %v", got[0].Operand[0].Sym)
	}
	storeSym := got[0].Operand[2].Sym
	var sawStoreFromCopy bool
	for _, q := range got[1:] {
		if (q.Opcode == quads.OpSof || q.Opcode == quads.OpSofa) && q.Operand[2].Sym == storeSym {
			sawStoreFromCopy = true
		}
	}
	if !sawStoreFromCopy {
		t.Fatal("want the indexed store to use the copied temp, not m directly")
	}
}

func newFileModeTestGen(t *testing.T) (*Generator, *ast.Store, *symtab.Table) {
	t.Helper()
	store := ast.NewStore()
	table := symtab.New("test")
	p := pool.New(table)
	loops := loopstack.New()
	report := diagnostics.NewReporter(io.Discard)

	var buf fileModeBuffer
	buf.Buffer = &bytes.Buffer{}
	sink, err := quads.OpenFileSink(buf, quads.NewSymbolIndex())
	if err != nil {
		t.Fatalf("open file sink: %v", err)
	}
	emit := quads.OpenEmit(quads.NewPool(), sink)

	settings := config.Default()
	settings.UseIntermediateFiles = true
	g := New(store, table, emit, p, loops, report, settings)
	return g, store, table
}

type fileModeBuffer struct {
	*bytes.Buffer
}

func (fileModeBuffer) Close() error { return nil }
