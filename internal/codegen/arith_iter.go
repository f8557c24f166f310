package codegen

import (
	"github.com/funvibe/quadgen/internal/ast"
	"github.com/funvibe/quadgen/internal/quads"
	"github.com/funvibe/quadgen/internal/symtab"
)

// isArithKind reports whether n is an arithmetic set/tuple former
// (`[first, second..last]`), the one source shape C9 drives with a
// direct counter loop rather than a materialise-then-drain iterator.
func isArithKind(k ast.Kind) bool {
	return k == ast.ArithSet || k == ast.ArithTup
}

// isIntLiteral reports whether n is a compile-time-known integer
// literal leaf, the condition under which genArithCounterLoop can fold
// the increment and skip the runtime q_intcheck for that endpoint.
func isIntLiteral(n *ast.Node) bool {
	return IsConstant(n) && n.Sym.Type == symtab.TypeInteger
}

// literalIntValue returns the machine value of an integer literal leaf
// produced by isIntLiteral.
func literalIntValue(n *ast.Node) int64 {
	return n.Sym.Aux.(*symtab.LiteralAux).Integer.Machine
}

// genArithCounterLoop lowers an ArithSet/ArithTup node as a direct
// counter loop, grounded on geniter.c's arithmetic iterator: no
// materialised set/tuple and no generic q_iter/q_inext pair, just a
// counter that starts one increment below first and is advanced and
// range-checked at the top of every pass. body runs once per logical
// iteration with the counter symbol live.
//
// When bound is non-nil the counter IS bound (the for-loop's own
// pattern variable, reused directly rather than copied into a shadow
// temp); when nil, a fresh temporary is minted and returned.
//
// failLabel, when non-zero, is the label branched to once the range is
// exhausted (the caller already owns it, e.g. a for-loop's per-clause
// exit label); zero mints a fresh one. beforeLoopback, when non-nil, is
// invoked after body and before the unconditional jump back to the
// loop top, the hook a for-loop's outermost clause uses to splice its
// continue label in between.
func (g *Generator) genArithCounterLoop(n *ast.Node, bound *symtab.Symbol, failLabel int, beforeLoopback func(), body func(counter *symtab.Symbol)) *symtab.Symbol {
	pos := posOf(n)
	first := n.Child
	second := first.Next
	last := second.Next

	firstVal := g.GenExpr(first)
	firstLit := isIntLiteral(first)
	var checkOperands []*symtab.Symbol
	if !firstLit {
		checkOperands = append(checkOperands, firstVal)
	}

	var incr *symtab.Symbol
	var incrLit bool
	var incrSign int // -1, 0, 1; only meaningful when incrLit
	switch {
	case second.Kind == ast.Placeholder:
		incr = g.Table.One
		incrLit = true
		incrSign = 1
	case firstLit && isIntLiteral(second):
		incr = g.Table.IntLiteral(literalIntValue(second) - literalIntValue(first))
		incrLit = true
		incrSign = sign(literalIntValue(second) - literalIntValue(first))
	default:
		secondVal := g.GenExpr(second)
		if !isIntLiteral(second) {
			checkOperands = append(checkOperands, secondVal)
		}
		incr = g.Pool.NewTemp()
		g.Emit.EmitSSS(quads.OpSub, pos, secondVal, firstVal, incr)
		g.freeIfTemp(secondVal)
	}

	lastVal := g.GenExpr(last)
	if !isIntLiteral(last) {
		checkOperands = append(checkOperands, lastVal)
	}

	if len(checkOperands) > 0 {
		var ops [3]*symtab.Symbol
		copy(ops[:], checkOperands)
		g.Emit.EmitSSS(quads.OpIntcheck, pos, ops[0], ops[1], ops[2])
	}

	counter := bound
	if counter == nil {
		counter = g.Pool.NewTemp()
	}
	g.Emit.EmitSSS(quads.OpSub, pos, firstVal, incr, counter)
	g.freeIfTemp(firstVal)

	top := g.Pool.NewLabel()
	fail := failLabel
	if fail == 0 {
		fail = g.Pool.NewLabel()
	}

	g.Emit.EmitLabel(pos, top)
	g.Emit.EmitSSS(quads.OpAdd, pos, counter, incr, counter)
	g.emitArithOverrunCheck(pos, fail, counter, lastVal, incr, incrLit, incrSign)

	body(counter)
	if beforeLoopback != nil {
		beforeLoopback()
	}
	g.Emit.EmitGo(pos, top)
	g.Emit.EmitLabel(pos, fail)

	g.freeIfTemp(incr)
	g.freeIfTemp(lastVal)
	if bound == nil {
		g.Pool.FreeTemp(counter)
	}
	return counter
}

// emitArithOverrunCheck emits the loop-top range test that branches to
// fail once counter has stepped past last. A statically known
// increment sign (incrLit) only ever needs one direction's compare,
// exactly geniter.c's increment==1 fast path generalised to any known
// sign; a runtime-computed increment falls back to the full
// sign-tested form geniter.c's general case uses, since the direction
// of overrun isn't known until the increment itself is evaluated.
func (g *Generator) emitArithOverrunCheck(pos quads.Pos, fail int, counter, last, incr *symtab.Symbol, incrLit bool, incrSign int) {
	if incrLit {
		switch {
		case incrSign > 0:
			g.Emit.EmitBranch(quads.OpGolt, pos, fail, last, counter)
		case incrSign < 0:
			g.Emit.EmitBranch(quads.OpGolt, pos, fail, counter, last)
		default:
			g.Emit.EmitGo(pos, fail)
		}
		return
	}

	flip := g.Pool.NewLabel()
	found := g.Pool.NewLabel()
	g.Emit.EmitBranch(quads.OpGole, pos, flip, incr, g.Table.Zero)
	g.Emit.EmitBranch(quads.OpGolt, pos, fail, last, counter)
	g.Emit.EmitGo(pos, found)
	g.Emit.EmitLabel(pos, flip)
	g.Emit.EmitBranch(quads.OpGoeq, pos, fail, incr, g.Table.Zero)
	g.Emit.EmitBranch(quads.OpGolt, pos, fail, counter, last)
	g.Emit.EmitLabel(pos, found)
}

func sign(n int64) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
