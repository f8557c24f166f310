package codegen

import (
	"github.com/funvibe/quadgen/internal/ast"
	"github.com/funvibe/quadgen/internal/quads"
)

// isComparisonKind reports whether kind is one of the fused
// comparison/membership forms gen_boolean special-cases: =, /=, <,
// <=, >, >=, in, notin, incs, subset.
func isComparisonKind(k ast.Kind) bool {
	switch k {
	case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge, ast.In, ast.NotIn, ast.Incs, ast.Subset:
		return true
	default:
		return false
	}
}

// GenBoolean implements C6: emits code whose post-condition is that
// control reaches trueLabel if n is logically true and falseLabel
// otherwise. fallLabel is whichever of the two labels the caller will
// place immediately after the emitted block, so the generator can omit
// the corresponding terminal unconditional jump.
func (g *Generator) GenBoolean(n *ast.Node, trueLabel, falseLabel, fallLabel int) {
	switch {
	case n.Kind == ast.And:
		g.genAnd(n, trueLabel, falseLabel, fallLabel)
	case n.Kind == ast.Or:
		g.genOr(n, trueLabel, falseLabel, fallLabel)
	case n.Kind == ast.Not:
		g.GenBoolean(n.Child, falseLabel, trueLabel, fallLabel)
	case isComparisonKind(n.Kind):
		g.genComparisonBranch(n, trueLabel, falseLabel, fallLabel)
	default:
		g.genFallbackBranch(n, trueLabel, falseLabel, fallLabel)
	}
}

// genAnd lowers `left and right`: right is only evaluated once left
// is true, so left branches to a fresh label on success and straight
// to falseLabel on failure; the fresh label then falls through to
// lowering right against the caller's original goals.
func (g *Generator) genAnd(n *ast.Node, trueLabel, falseLabel, fallLabel int) {
	left, right := n.Child, n.Child.Next
	mid := g.Pool.NewLabel()
	g.GenBoolean(left, mid, falseLabel, mid)
	g.Emit.EmitLabel(posOf(n), mid)
	g.GenBoolean(right, trueLabel, falseLabel, fallLabel)
}

// genOr lowers `left or right`: left branches straight to trueLabel on
// success and falls to a fresh label on failure, where right is then
// lowered against the caller's original goals.
func (g *Generator) genOr(n *ast.Node, trueLabel, falseLabel, fallLabel int) {
	left, right := n.Child, n.Child.Next
	mid := g.Pool.NewLabel()
	g.GenBoolean(left, trueLabel, mid, mid)
	g.Emit.EmitLabel(posOf(n), mid)
	g.GenBoolean(right, trueLabel, falseLabel, fallLabel)
}

// genComparisonBranch lowers one of the fused comparison/membership
// kinds directly to a branch, picking the true-branch or false-branch
// opcode form depending on which of the two labels is the fall-through
// so only one branch quadruple (plus, sometimes, one unconditional
// jump) is ever emitted.
func (g *Generator) genComparisonBranch(n *ast.Node, trueLabel, falseLabel, fallLabel int) {
	lhs, rhs := n.Child, n.Child.Next
	a := g.GenExpr(lhs)
	b := g.GenExpr(rhs)
	if ast.FlipOperands[n.Kind] {
		a, b = b, a
	}

	if trueLabel == fallLabel {
		op := ast.FalseOpcode[n.Kind]
		g.Emit.EmitBranch(op, posOf(n), falseLabel, a, b)
		return
	}
	op := ast.TrueOpcode[n.Kind]
	g.Emit.EmitBranch(op, posOf(n), trueLabel, a, b)
	if falseLabel != fallLabel {
		g.Emit.EmitGo(posOf(n), falseLabel)
	}
}

// genFallbackBranch handles any expression used in boolean context
// that has no dedicated comparison opcode: evaluate it to a symbol and
// branch on its truth value with q_gotrue/q_gofalse.
func (g *Generator) genFallbackBranch(n *ast.Node, trueLabel, falseLabel, fallLabel int) {
	sym := g.GenExpr(n)
	if trueLabel == fallLabel {
		g.Emit.EmitBranch(quads.OpGofalse, posOf(n), falseLabel, sym, nil)
		return
	}
	g.Emit.EmitBranch(quads.OpGotrue, posOf(n), trueLabel, sym, nil)
	if falseLabel != fallLabel {
		g.Emit.EmitGo(posOf(n), falseLabel)
	}
}
