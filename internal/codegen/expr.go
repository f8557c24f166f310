package codegen

import (
	"github.com/funvibe/quadgen/internal/ast"
	"github.com/funvibe/quadgen/internal/quads"
	"github.com/funvibe/quadgen/internal/symtab"
)

// GenExpr implements C7: lowers an expression-position AST node to the
// quadruples computing its value, returning the symbol (a temporary or
// an already-bound symbol) holding that value.
func (g *Generator) GenExpr(n *ast.Node) *symtab.Symbol {
	if n == nil {
		return g.Table.Omega
	}
	switch n.Kind {
	case ast.Symtab, ast.Namtab:
		return g.leafValue(n)

	case ast.Add, ast.Sub, ast.Mult, ast.Div, ast.Expon, ast.Mod, ast.Min, ast.Max,
		ast.With, ast.Less, ast.Lessf, ast.Npow, ast.Domain, ast.Range:
		return g.genBinop(n)

	case ast.Uminus, ast.Ufrom, ast.Not, ast.Arb, ast.Pow, ast.Nelt:
		return g.genUnop(n)

	case ast.Of, ast.Ofa, ast.Kof, ast.Kofa:
		return g.genComponentRef(n)

	case ast.Slice, ast.End:
		return g.genSliceOrTail(n)

	case ast.From, ast.Fromb, ast.Frome:
		return g.genFrom(n)

	case ast.Eq, ast.Ne, ast.Lt, ast.Le, ast.Gt, ast.Ge, ast.In, ast.NotIn, ast.Incs, ast.Subset,
		ast.And, ast.Or:
		return g.materializeBoolean(n)

	case ast.EnumSet, ast.EnumTup:
		return g.genEnumerated(n)

	case ast.GenSet, ast.GenTup, ast.GenSetNoExp, ast.GenTupNoExp:
		return g.genFormer(n)

	case ast.ArithSet, ast.ArithTup:
		return g.genArithFormer(n)

	case ast.Exists, ast.Forall:
		return g.genQuantifier(n)

	case ast.Apply, ast.BinApply:
		return g.genApply(n)

	case ast.IfExpr:
		return g.genIfExpr(n)

	case ast.Loop, ast.While, ast.Until, ast.For:
		return g.genLoopExpr(n)

	case ast.CaseExpr:
		return g.genCaseExpr(n)

	case ast.GuardExpr:
		return g.genGuardExpr(n)

	case ast.Call:
		return g.genCall(n)

	case ast.Assign, ast.AssignOp, ast.Cassign:
		return g.genAssignExpr(n)

	case ast.InitObj:
		return g.genInitObj(n)

	case ast.Slot, ast.SlotOf, ast.SlotCall:
		return g.genSlotExpr(n)

	case ast.Menviron:
		return g.genMenviron(n)

	case ast.Self:
		return g.selfValue(n)

	case ast.Question:
		return g.genUndefinedLiteral(n)

	case ast.List:
		return g.genExprList(n)

	default:
		return g.trap(n)
	}
}

// leafValue returns a symbol leaf's bound symbol directly; no
// quadruple is emitted since a leaf is already a value.
func (g *Generator) leafValue(n *ast.Node) *symtab.Symbol {
	if n.Sym != nil {
		return n.Sym
	}
	if n.Namtab != nil && n.Namtab.SymtabPtr != nil {
		return n.Namtab.SymtabPtr
	}
	return g.Table.Omega
}

func (g *Generator) selfValue(n *ast.Node) *symtab.Symbol {
	t := g.Pool.NewTemp()
	g.Emit.EmitSSS(quads.OpSelf, posOf(n), t, nil, nil)
	return t
}

func (g *Generator) genUndefinedLiteral(n *ast.Node) *symtab.Symbol {
	return g.Table.Omega
}

// genExprList lowers a statement/expression list used in expression
// position: every element but the last is generated for effect, the
// last supplies the value.
func (g *Generator) genExprList(n *ast.Node) *symtab.Symbol {
	var last *symtab.Symbol = g.Table.Omega
	for c := n.Child; c != nil; c = c.Next {
		last = g.GenExpr(c)
	}
	return last
}

// genBinop lowers the plain two-operand arithmetic/set operators that
// have a single dedicated opcode and no boolean short-circuit meaning.
func (g *Generator) genBinop(n *ast.Node) *symtab.Symbol {
	a := g.GenExpr(n.Child)
	g.Pool.Park(a)
	b := g.GenExpr(n.Child.Next)
	g.Pool.Unpark(a)
	t := g.Pool.NewTemp()
	g.Emit.EmitSSS(ast.DefaultOpcode[n.Kind], posOf(n), a, b, t)
	g.freeIfTemp(a)
	g.freeIfTemp(b)
	return t
}

// genUnop lowers the one-operand operators (unary minus, unary from,
// not, arb, pow, #).
func (g *Generator) genUnop(n *ast.Node) *symtab.Symbol {
	a := g.GenExpr(n.Child)
	t := g.Pool.NewTemp()
	g.Emit.EmitSSS(ast.DefaultOpcode[n.Kind], posOf(n), a, nil, t)
	g.freeIfTemp(a)
	return t
}

// genBinopInto and genUnopInto are the destination-passing half of
// C7's `gen_expr(ast, target?)` contract for the two operator families
// it matters most for: a plain `x := a + b` needs only the add
// quadruple itself, targeting x directly, rather than a temp plus a
// trailing copy into x. Only GenSinisterAssign's plain-symbol-target
// fast path calls these; every other caller goes through GenExpr and
// gets the temp-allocating form.
func (g *Generator) genBinopInto(n *ast.Node, target *symtab.Symbol) {
	a := g.GenExpr(n.Child)
	g.Pool.Park(a)
	b := g.GenExpr(n.Child.Next)
	g.Pool.Unpark(a)
	g.Emit.EmitSSS(ast.DefaultOpcode[n.Kind], posOf(n), a, b, target)
	g.freeIfTemp(a)
	g.freeIfTemp(b)
}

func (g *Generator) genUnopInto(n *ast.Node, target *symtab.Symbol) {
	a := g.GenExpr(n.Child)
	g.Emit.EmitSSS(ast.DefaultOpcode[n.Kind], posOf(n), a, nil, target)
	g.freeIfTemp(a)
}

// genComponentRef lowers string/map/tuple component reference: `of`
// forms kill the index temp immediately after use since the reference
// does not outlive the statement, mirroring q_kof/q_kofa's documented
// "kill temp after assignment" behaviour.
func (g *Generator) genComponentRef(n *ast.Node) *symtab.Symbol {
	base := g.GenExpr(n.Child)
	g.Pool.Park(base)
	key := g.GenExpr(n.Child.Next)
	g.Pool.Unpark(base)
	t := g.Pool.NewTemp()
	g.Emit.EmitSSS(ast.DefaultOpcode[n.Kind], posOf(n), base, key, t)
	g.freeIfTemp(key)
	if n.Kind == ast.Kof || n.Kind == ast.Kofa {
		g.freeIfTemp(base)
	}
	return t
}

func (g *Generator) genSliceOrTail(n *ast.Node) *symtab.Symbol {
	base := g.GenExpr(n.Child)
	var idx *symtab.Symbol
	if n.Child.Next != nil {
		idx = g.GenExpr(n.Child.Next)
	}
	t := g.Pool.NewTemp()
	g.Emit.EmitSSS(ast.DefaultOpcode[n.Kind], posOf(n), base, idx, t)
	g.freeIfTemp(idx)
	return t
}

func (g *Generator) genFrom(n *ast.Node) *symtab.Symbol {
	base := g.GenExpr(n.Child)
	t := g.Pool.NewTemp()
	g.Emit.EmitSSS(ast.DefaultOpcode[n.Kind], posOf(n), base, nil, t)
	return t
}

// materializeBoolean lowers a comparison/and/or expression used in a
// value position (not merely as a branch condition): generate it into
// the two-label boolean form writing True/False into a fresh temp.
func (g *Generator) materializeBoolean(n *ast.Node) *symtab.Symbol {
	t := g.Pool.NewTemp()
	trueLabel := g.Pool.NewLabel()
	falseLabel := g.Pool.NewLabel()
	doneLabel := g.Pool.NewLabel()
	g.GenBoolean(n, trueLabel, falseLabel, trueLabel)
	g.Emit.EmitLabel(posOf(n), trueLabel)
	g.Emit.EmitSSS(quads.OpAssign, posOf(n), g.Table.True, nil, t)
	g.Emit.EmitGo(posOf(n), doneLabel)
	g.Emit.EmitLabel(posOf(n), falseLabel)
	g.Emit.EmitSSS(quads.OpAssign, posOf(n), g.Table.False, nil, t)
	g.Emit.EmitLabel(posOf(n), doneLabel)
	return t
}

// genEnumerated lowers `{e1, ..., en}` / `[e1, ..., en]`: every element
// is evaluated left to right then folded with q_with, mirroring the
// element-count literal genexpr.c materialises for the opcode's
// element-count operand.
func (g *Generator) genEnumerated(n *ast.Node) *symtab.Symbol {
	t := g.Pool.NewTemp()
	opcode := quads.OpSet
	if n.Kind == ast.EnumTup {
		opcode = quads.OpTuple
	}
	count := 0
	for c := n.Child; c != nil; c = c.Next {
		count++
	}
	countSym := g.Table.IntLiteral(int64(count))
	g.Emit.EmitSSS(opcode, posOf(n), countSym, nil, t)
	for c := n.Child; c != nil; c = c.Next {
		elem := g.GenExpr(c)
		g.Emit.EmitSSS(quads.OpWith, posOf(c), t, elem, t)
		g.freeIfTemp(elem)
	}
	return t
}

// genFormer lowers a general set/tuple former `{expr : iter | cond}`:
// delegate bound-variable iteration to C9, evaluate the body
// expression (if present — the *-NoExp variants reuse the iterator's
// bound variable as the body) per accepted tuple, and fold into the
// result with q_with.
func (g *Generator) genFormer(n *ast.Node) *symtab.Symbol {
	t := g.Pool.NewTemp()
	opcode := quads.OpSet
	if n.Kind == ast.GenTup || n.Kind == ast.GenTupNoExp {
		opcode = quads.OpTuple
	}
	g.Emit.EmitISS(opcode, posOf(n), 0, nil, t)

	body := n.Child
	iterList := body.Next
	var guard *ast.Node
	var valueExpr *ast.Node
	noExp := n.Kind == ast.GenSetNoExp || n.Kind == ast.GenTupNoExp
	if noExp {
		iterList = body
	} else {
		valueExpr = body
	}
	if iterList.Next != nil {
		guard = iterList.Next
	}

	g.GenIterValues(iterList, func() {
		if guard != nil {
			skip := g.Pool.NewLabel()
			cont := g.Pool.NewLabel()
			g.GenBoolean(guard, cont, skip, cont)
			g.Emit.EmitLabel(posOf(guard), cont)
			g.emitFormerElement(n, valueExpr, iterList, t)
			g.Emit.EmitLabel(posOf(guard), skip)
			return
		}
		g.emitFormerElement(n, valueExpr, iterList, t)
	})
	return t
}

func (g *Generator) emitFormerElement(n, valueExpr, iterList *ast.Node, t *symtab.Symbol) {
	var elem *symtab.Symbol
	if valueExpr != nil {
		elem = g.GenExpr(valueExpr)
	} else {
		elem = g.iterBoundValue(iterList)
	}
	g.Emit.EmitSSS(quads.OpWith, posOf(n), t, elem, t)
	g.freeIfTemp(elem)
}

// genArithFormer lowers an arithmetic set/tuple former `[first,
// second..last]` used as a value: the same counter loop that drives a
// for-loop over an arithmetic range (genArithCounterLoop) runs here
// too, folding each counter value into a freshly initialised set/tuple
// via q_with, since genexpr.c has no separate handling for arithmetic
// formers — they are materialised by the same iterator-construction
// logic used for iteration.
func (g *Generator) genArithFormer(n *ast.Node) *symtab.Symbol {
	opcode := quads.OpSet
	if n.Kind == ast.ArithTup {
		opcode = quads.OpTuple
	}
	t := g.Pool.NewTemp()
	g.Emit.EmitISS(opcode, posOf(n), 0, nil, t)

	g.genArithCounterLoop(n, nil, 0, nil, func(counter *symtab.Symbol) {
		g.Emit.EmitSSS(quads.OpWith, posOf(n), t, counter, t)
	})
	return t
}

// genQuantifier lowers `exists`/`forall`: short-circuiting iteration
// that stops at the first counter-example (forall) or witness
// (exists), materialising the boolean result into a fresh temp.
func (g *Generator) genQuantifier(n *ast.Node) *symtab.Symbol {
	t := g.Pool.NewTemp()
	iterList := n.Child
	cond := iterList.Next

	wantTrue := n.Kind == ast.Exists
	shortCircuitLabel := g.Pool.NewLabel()
	doneLabel := g.Pool.NewLabel()

	defaultVal := g.Table.True
	shortVal := g.Table.False
	if wantTrue {
		defaultVal, shortVal = g.Table.False, g.Table.True
	}

	g.GenIterValues(iterList, func() {
		trueLabel, falseLabel := g.Pool.NewLabel(), g.Pool.NewLabel()
		fall := falseLabel
		if wantTrue {
			fall = trueLabel
		}
		g.GenBoolean(cond, trueLabel, falseLabel, fall)
		if wantTrue {
			g.Emit.EmitLabel(posOf(cond), trueLabel)
			g.Emit.EmitGo(posOf(n), shortCircuitLabel)
			g.Emit.EmitLabel(posOf(cond), falseLabel)
		} else {
			g.Emit.EmitLabel(posOf(cond), falseLabel)
			g.Emit.EmitGo(posOf(n), shortCircuitLabel)
			g.Emit.EmitLabel(posOf(cond), trueLabel)
		}
	})
	g.Emit.EmitSSS(quads.OpAssign, posOf(n), defaultVal, nil, t)
	g.Emit.EmitGo(posOf(n), doneLabel)
	g.Emit.EmitLabel(posOf(n), shortCircuitLabel)
	g.Emit.EmitSSS(quads.OpAssign, posOf(n), shortVal, nil, t)
	g.Emit.EmitLabel(posOf(n), doneLabel)
	return t
}

// isArithOpKind reports whether k is one of the arithmetic binary
// opcodes apply/binapply can fold directly, rather than a general
// procedure-valued expression that must be called per element.
func isArithOpKind(k ast.Kind) bool {
	switch k {
	case ast.Add, ast.Sub, ast.Mult, ast.Div, ast.Expon, ast.Mod, ast.Min, ast.Max,
		ast.With, ast.Less, ast.Lessf, ast.Npow:
		return true
	default:
		return false
	}
}

// genApply lowers `S op/` (apply) and `x op/ S` (binapply): fold op
// over source's elements through C9's anonymous-source iterator.
// apply has no seed, so it takes its accumulator's initial value from
// the first element it sees, tracked with a first-pass flag; binapply
// seeds the accumulator directly from the given expression and folds
// every element in with no first-element case.
func (g *Generator) genApply(n *ast.Node) *symtab.Symbol {
	source := n.Child
	opNode := source.Next
	seedNode := opNode.Next
	pos := posOf(n)
	t := g.Pool.NewTemp()

	if n.Kind == ast.BinApply {
		seed := g.GenExpr(seedNode)
		g.Emit.EmitSSS(quads.OpAssign, pos, seed, nil, t)
		g.freeIfTemp(seed)
		g.genIterSource(source, func(val *symtab.Symbol) {
			g.foldApplyStep(opNode, t, val)
		})
		return t
	}

	flag := g.Pool.NewTemp()
	g.Emit.EmitSSS(quads.OpAssign, pos, g.Table.True, nil, flag)
	g.Emit.EmitSSS(quads.OpAssign, pos, g.Table.Omega, nil, t)

	g.genIterSource(source, func(val *symtab.Symbol) {
		firstLabel := g.Pool.NewLabel()
		afterLabel := g.Pool.NewLabel()
		g.Emit.EmitBranch(quads.OpGotrue, pos, firstLabel, flag, nil)
		g.foldApplyStep(opNode, t, val)
		g.Emit.EmitGo(pos, afterLabel)
		g.Emit.EmitLabel(pos, firstLabel)
		g.Emit.EmitSSS(quads.OpAssign, pos, g.Table.False, nil, flag)
		g.Emit.EmitSSS(quads.OpAssign, pos, val, nil, t)
		g.Emit.EmitLabel(pos, afterLabel)
	})
	g.freeIfTemp(flag)
	return t
}

// foldApplyStep folds one source element into accumulator t: a
// recognised arithmetic operator lowers straight to its opcode against
// (t, val); any other opNode is evaluated as a callable and invoked
// with (t, val) as its argument tuple, t receiving the result.
func (g *Generator) foldApplyStep(opNode *ast.Node, t, val *symtab.Symbol) {
	pos := posOf(opNode)
	if isArithOpKind(opNode.Kind) {
		g.Emit.EmitSSS(ast.DefaultOpcode[opNode.Kind], pos, t, val, t)
		return
	}
	proc := g.GenExpr(opNode)
	args := g.genArgTuple(nil)
	g.Emit.EmitSSS(quads.OpWith, pos, args, t, args)
	g.Emit.EmitSSS(quads.OpWith, pos, args, val, args)
	g.Emit.EmitSSS(quads.OpCall, pos, proc, args, t)
	g.freeIfTemp(args)
}

func (g *Generator) genIfExpr(n *ast.Node) *symtab.Symbol {
	t := g.Pool.NewTemp()
	cond := n.Child
	thenExpr := cond.Next
	elseExpr := thenExpr.Next

	elseLabel := g.Pool.NewLabel()
	doneLabel := g.Pool.NewLabel()
	thenLabel := g.Pool.NewLabel()
	g.GenBoolean(cond, thenLabel, elseLabel, thenLabel)

	// Fallthrough from a true condition straight into the then-arm:
	g.Emit.EmitLabel(posOf(cond), thenLabel)
	thenVal := g.GenExpr(thenExpr)
	g.Emit.EmitSSS(quads.OpAssign, posOf(thenExpr), thenVal, nil, t)
	g.Emit.EmitGo(posOf(n), doneLabel)

	g.Emit.EmitLabel(posOf(n), elseLabel)
	if elseExpr != nil {
		elseVal := g.GenExpr(elseExpr)
		g.Emit.EmitSSS(quads.OpAssign, posOf(elseExpr), elseVal, nil, t)
	} else {
		g.Emit.EmitSSS(quads.OpAssign, posOf(n), g.Table.Omega, nil, t)
	}
	g.Emit.EmitLabel(posOf(n), doneLabel)
	return t
}

// genLoopExpr lowers a loop used in expression position: a value
// target temp is pushed on the loop stack so `exit expr` inside the
// body has somewhere to store its value; see stmt.go for the shared
// loop-body lowering this also drives in statement position.
func (g *Generator) genLoopExpr(n *ast.Node) *symtab.Symbol {
	t := g.Pool.NewTemp()
	g.Emit.EmitSSS(quads.OpAssign, posOf(n), g.Table.Omega, nil, t)
	g.genLoopCommon(n, t)
	return t
}

func (g *Generator) genCaseExpr(n *ast.Node) *symtab.Symbol {
	t := g.Pool.NewTemp()
	g.genCaseCommon(n, t)
	return t
}

func (g *Generator) genGuardExpr(n *ast.Node) *symtab.Symbol {
	t := g.Pool.NewTemp()
	g.genGuardCommon(n, t)
	return t
}

// genCall lowers a procedure call used as an expression: the call's
// result slot is the temp returned.
func (g *Generator) genCall(n *ast.Node) *symtab.Symbol {
	proc := g.GenExpr(n.Child)
	args := g.genArgTuple(n.Child.Next)
	t := g.Pool.NewTemp()
	g.Emit.EmitSSS(quads.OpCall, posOf(n), proc, args, t)
	g.freeIfTemp(args)
	return t
}

// genArgTuple folds a call's argument list into a tuple the way an
// enumerated tuple former does.
func (g *Generator) genArgTuple(args *ast.Node) *symtab.Symbol {
	t := g.Pool.NewTemp()
	count := 0
	for c := args; c != nil; c = c.Next {
		count++
	}
	var p quads.Pos
	if args != nil {
		p = posOf(args)
	}
	g.Emit.EmitISS(quads.OpTuple, p, int32(count), nil, t)
	for c := args; c != nil; c = c.Next {
		elem := g.GenExpr(c)
		g.Emit.EmitSSS(quads.OpWith, posOf(c), t, elem, t)
		g.freeIfTemp(elem)
	}
	return t
}

func (g *Generator) genAssignExpr(n *ast.Node) *symtab.Symbol {
	return g.GenSinisterAssign(n)
}

// genInitObj lowers object construction: q_initobj allocates the
// instance, q_lcall InitObj initialises its slots, q_lcall Create runs
// the class's constructor (only when one exists) with the call's
// arguments threaded through, and q_initend hands the finished object
// back.
func (g *Generator) genInitObj(n *ast.Node) *symtab.Symbol {
	pos := posOf(n)
	class := g.GenExpr(n.Child)
	t := g.Pool.NewTemp()

	g.Emit.EmitSSS(quads.OpInitobj, pos, t, class, nil)

	noArgs := g.genArgTuple(nil)
	g.Emit.EmitSSS(quads.OpLcall, pos, g.literalMethodSym("InitObj"), noArgs, nil)
	g.freeIfTemp(noArgs)

	if aux, ok := class.Aux.(*symtab.ProcAux); ok && aux.HasCreate {
		args := g.genArgTuple(n.Child.Next)
		g.Emit.EmitSSS(quads.OpLcall, pos, g.literalMethodSym("Create"), args, nil)
		g.freeIfTemp(args)
	}

	g.Emit.EmitSSS(quads.OpInitend, pos, t, class, nil)
	return t
}

// literalMethodSym interns name as a singleton KindMethod symbol,
// minting it on first use the way enter_symbol would for a
// compiler-synthesised method reference like "InitObj"/"Create".
func (g *Generator) literalMethodSym(name string) *symtab.Symbol {
	if ne := g.Table.GetNamtab(name); ne.SymtabPtr != nil {
		return ne.SymtabPtr
	}
	return g.Table.EnterSymbol(&name, symtab.KindMethod)
}

// genSlotExpr lowers a bare slot reference, a slot call, or a
// call-slot-reference (method dispatch): the disambiguating factor is
// n.Kind, since all three share the `object.slot` shape. The slot name
// is carried as a namtab reference rather than a bound symbol, so it
// rides as that name entry's interned symbol: the second operand of
// q_slot, the third of q_slotof, and the first of the method q_call.
func (g *Generator) genSlotExpr(n *ast.Node) *symtab.Symbol {
	obj := g.GenExpr(n.Child)
	slotSym := slotNameSymbol(n.Child.Next)
	t := g.Pool.NewTemp()
	if n.Kind == ast.Slot {
		g.Emit.EmitSSS(quads.OpSlot, posOf(n), obj, slotSym, t)
		return t
	}

	// Ambiguous slot reference: `obj.slot` resolves to either a plain
	// instance variable or a method, and only q_slotof (a runtime test,
	// not a value computation) can tell which. A method branches to
	// methodLabel and is called there; falling through means an
	// instance variable, read the ordinary way via q_slot.
	pos := posOf(n)
	args := g.genArgTuple(n.Child.Next.Next)
	methodLabel := g.Pool.NewLabel()
	doneLabel := g.Pool.NewLabel()

	g.Emit.EmitBranch(quads.OpSlotof, pos, methodLabel, obj, slotSym)
	g.Emit.EmitSSS(quads.OpSlot, pos, obj, slotSym, t)
	g.Emit.EmitGo(pos, doneLabel)

	g.Emit.EmitLabel(pos, methodLabel)
	g.Emit.EmitSSS(quads.OpCall, pos, slotSym, args, t)
	g.Emit.EmitLabel(pos, doneLabel)

	g.freeIfTemp(args)
	return t
}

// slotNameSymbol resolves a slot-name node to the symbol carrying its
// interned identity, whether the node is already bound (Symtab leaf)
// or still a raw name reference (Namtab leaf).
func slotNameSymbol(n *ast.Node) *symtab.Symbol {
	if n == nil {
		return nil
	}
	if n.Sym != nil {
		return n.Sym
	}
	if n.Namtab != nil {
		return n.Namtab.SymtabPtr
	}
	return nil
}

func (g *Generator) genMenviron(n *ast.Node) *symtab.Symbol {
	t := g.Pool.NewTemp()
	g.Emit.EmitSSS(quads.OpMenviron, posOf(n), t, nil, nil)
	return t
}

// freeIfTemp releases sym back to the pool if it is a temporary the
// generator itself minted; bound user symbols and literals are left
// alone.
func (g *Generator) freeIfTemp(sym *symtab.Symbol) {
	if sym != nil && sym.IsTemp {
		g.Pool.FreeTemp(sym)
	}
}
