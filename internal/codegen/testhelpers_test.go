package codegen

import (
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

// newTestGen returns a Generator wired to a fresh in-memory sink and
// default settings (rewrites on), the fixture every codegen test
// builds its AST fragments against.
func newTestGen(t *testing.T) (*Generator, *ast.Store, *symtab.Table) {
	t.Helper()
	return newTestGenWith(t, config.Default())
}

func newTestGenWith(t *testing.T, settings config.Settings) (*Generator, *ast.Store, *symtab.Table) {
	t.Helper()
	store := ast.NewStore()
	table := symtab.New("test")
	p := pool.New(table)
	loops := loopstack.New()
	report := diagnostics.NewReporter(io.Discard)
	sink := quads.NewMemSink()
	emit := quads.OpenEmit(quads.NewPool(), sink)
	g := New(store, table, emit, p, loops, report, settings)
	return g, store, table
}

// quadList returns the emitted quadruples in order, for the tests that
// want to assert on the sequence directly. Panics if called against a
// file-mode generator, which no test in this package calls it on.
func quadList(g *Generator) []*quads.Quad {
	sink, ok := g.Emit.MemSink()
	if !ok {
		panic("codegen: quadList requires a memory-mode generator")
	}
	var out []*quads.Quad
	for q := sink.Head; q != nil; q = q.Next {
		out = append(out, q)
	}
	return out
}

// newVar declares a fresh bound-variable symbol.
func newVar(table *symtab.Table, name string) *symtab.Symbol {
	sym := table.EnterSymbol(&name, symtab.KindIdentifier)
	sym.HasLValue = true
	sym.HasRValue = true
	return sym
}

func identAt(store *ast.Store, pos ast.Pos, sym *symtab.Symbol) *ast.Node {
	return store.Ident(pos, sym)
}

func intAt(store *ast.Store, table *symtab.Table, pos ast.Pos, n int64) *ast.Node {
	return store.Ident(pos, table.IntLiteral(n))
}
