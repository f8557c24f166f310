package codegen

import (
	"testing"

	"github.com/funvibe/quadgen/internal/ast"
	"github.com/funvibe/quadgen/internal/quads"
)

// Testable property 1: every quadruple a generator emits for a node
// carries that node's own source position, not its parent's or a
// sibling's — essential for a VM abend to blame the right line.
func TestPositionPreservedAcrossBinop(t *testing.T) {
	g, store, table := newTestGen(t)
	pos := ast.Pos{Line: 7, Column: 3}
	x := newVar(table, "x")
	n := store.Internal(ast.Add, pos, identAt(store, ast.Pos{Line: 1}, x), intAt(store, table, ast.Pos{Line: 2}, 1))

	g.GenExpr(n)

	emitted := quadList(g)
	if len(emitted) != 1 {
		t.Fatalf("want 1 quadruple, got %d", len(emitted))
	}
	if emitted[0].FilePos.Line != 7 || emitted[0].FilePos.Column != 3 {
		t.Fatalf("want pos {7 3}, got %+v", emitted[0].FilePos)
	}
}

// A plain `x := <value>` assignment (no direct-target operator to
// fuse into) lowers through the base LHS generator, which attributes
// the store quadruple to the LHS symbol's own node — not the
// enclosing assignment statement's position — so a multi-line
// assignment still blames the specific target written to.
func TestPositionPreservedAcrossAssign(t *testing.T) {
	g, store, table := newTestGen(t)
	x := newVar(table, "x")
	lhsPos := ast.Pos{Line: 10}
	rhsPos := ast.Pos{Line: 11}
	assignPos := ast.Pos{Line: 12}

	n := store.Internal(ast.Assign, assignPos, identAt(store, lhsPos, x), intAt(store, table, rhsPos, 5))
	g.GenSinisterAssign(n)

	found := quadList(g)
	if len(found) != 1 || found[0].Opcode != quads.OpAssign {
		t.Fatalf("want single q_assign, got %+v", found)
	}
	if found[0].FilePos != (quads.Pos{Line: 10}) {
		t.Fatalf("assignment quadruple should carry the LHS symbol's own position, got %+v", found[0].FilePos)
	}
}

// When the RHS is a binop/unop, GenSinisterAssign targets it directly
// rather than routing through a temp plus a copy, so the single
// surviving quadruple carries the operator expression's own position,
// matching what GenExpr would have emitted for that operator anyway.
func TestPositionPreservedAcrossDirectTargetBinop(t *testing.T) {
	g, store, table := newTestGen(t)
	x := newVar(table, "x")
	a := newVar(table, "a")
	lhsPos := ast.Pos{Line: 20}
	addPos := ast.Pos{Line: 21}
	assignPos := ast.Pos{Line: 22}

	rhs := store.Internal(ast.Add, addPos, identAt(store, ast.Pos{Line: 1}, a), intAt(store, table, ast.Pos{Line: 2}, 1))
	n := store.Internal(ast.Assign, assignPos, identAt(store, lhsPos, x), rhs)
	g.GenSinisterAssign(n)

	found := quadList(g)
	if len(found) != 1 {
		t.Fatalf("want the direct-target optimisation to emit a single quadruple, got %d", len(found))
	}
	if found[0].FilePos != addPos {
		t.Fatalf("want the fused add quadruple at the operator's own position, got %+v", found[0].FilePos)
	}
}

// Each arm of a case statement branches and re-joins at the labels
// built for that arm specifically; the goeq comparing the selector to
// an arm's value should carry that arm's own position, not the case
// statement's.
func TestPositionPreservedAcrossCaseArms(t *testing.T) {
	g, store, table := newTestGen(t)
	selVar := newVar(table, "sel")
	casePos := ast.Pos{Line: 1}
	armPos := ast.Pos{Line: 2}

	arm := store.Internal(ast.When, armPos, intAt(store, table, ast.Pos{Line: 2}, 1),
		store.Internal(ast.List, armPos))
	n := store.Internal(ast.CaseStmt, casePos, identAt(store, ast.Pos{Line: 1}, selVar), arm)

	g.GenStmt(n)

	var sawArmGoeq bool
	for _, q := range quadList(g) {
		if q.Opcode == quads.OpGoeq {
			sawArmGoeq = true
			if q.FilePos != armPos {
				t.Fatalf("want arm comparison at %+v, got %+v", armPos, q.FilePos)
			}
		}
	}
	if !sawArmGoeq {
		t.Fatal("expected a q_goeq comparison for the single when arm")
	}
}
