package codegen

import (
	"github.com/funvibe/quadgen/internal/ast"
	"github.com/funvibe/quadgen/internal/diagnostics"
	"github.com/funvibe/quadgen/internal/quads"
	"github.com/funvibe/quadgen/internal/symtab"
)

// caseDispatch is the label set genCaseCommon builds for a case node
// and, when every arm value is a constant, caches across repeat visits
// of the same *ast.Node (spec.md testable property 7): arm value
// comparisons then always branch to the same per-arm label, so a node
// lowered twice reuses its labels instead of minting fresh ones (the
// comparisons and arm bodies are emitted again). Guard lowering does
// not use it.
type caseDispatch struct {
	labels         []int
	otherwiseLabel int
	hasOtherwise   bool
	doneLabel      int
}

// GenStmtList lowers a statement list in sequence, discarding the
// value of any expression statement.
func (g *Generator) GenStmtList(n *ast.Node) {
	if n == nil {
		return
	}
	if n.Kind == ast.List {
		for c := n.Child; c != nil; c = c.Next {
			g.GenStmt(c)
		}
		return
	}
	g.GenStmt(n)
}

// GenStmt implements the statement half of C8: lowers n for effect,
// discarding any value it produces.
func (g *Generator) GenStmt(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.List:
		g.GenStmtList(n)

	case ast.Assign, ast.AssignOp, ast.Cassign:
		g.GenSinisterAssign(n)

	case ast.IfStmt:
		g.genIfStmt(n)

	case ast.Loop, ast.While, ast.Until, ast.For:
		g.genLoopCommon(n, nil)

	case ast.CaseStmt:
		g.genCaseCommon(n, nil)

	case ast.GuardStmt:
		g.genGuardCommon(n, nil)

	case ast.Call:
		g.GenExpr(n)

	case ast.Return:
		g.genReturn(n)

	case ast.Stop:
		g.Emit.EmitSSS(quads.OpStopall, posOf(n), nil, nil, nil)

	case ast.Exit:
		g.genExit(n)

	case ast.Continue:
		g.genContinue(n)

	case ast.Assert:
		g.genAssert(n)

	case ast.Slot, ast.SlotOf, ast.SlotCall:
		g.GenExpr(n)

	case ast.Penviron:
		g.GenExpr(n)

	default:
		// Any expression-shaped kind reaching statement position is
		// lowered for effect, its value discarded.
		g.GenExpr(n)
	}
}

func (g *Generator) genIfStmt(n *ast.Node) {
	cond := n.Child
	thenBody := cond.Next
	elseBody := thenBody.Next

	elseLabel := g.Pool.NewLabel()
	doneLabel := g.Pool.NewLabel()
	thenLabel := g.Pool.NewLabel()
	g.GenBoolean(cond, thenLabel, elseLabel, thenLabel)

	g.Emit.EmitLabel(posOf(cond), thenLabel)
	g.GenStmtList(thenBody)
	g.Emit.EmitGo(posOf(n), doneLabel)

	g.Emit.EmitLabel(posOf(n), elseLabel)
	if elseBody != nil {
		g.GenStmtList(elseBody)
	}
	g.Emit.EmitLabel(posOf(n), doneLabel)
}

// genLoopCommon implements the shared half of the loop/while/until/for
// statement AND expression generators: push a loop-stack frame so
// exit/continue lowering and (for loop expressions) `exit expr` have
// somewhere to target, drive the appropriate loop shape, then pop.
func (g *Generator) genLoopCommon(n *ast.Node, valueTarget *symtab.Symbol) {
	exitLabel := g.Pool.NewLabel()
	continueLabel := g.Pool.NewLabel()
	g.Loops.Push(exitLabel, continueLabel, valueTarget)
	defer g.Loops.Pop()

	pos := posOf(n)
	switch n.Kind {
	case ast.Loop:
		bodyLabel := g.Pool.NewLabel()
		g.Emit.EmitLabel(pos, bodyLabel)
		g.GenStmtList(n.Child)
		g.Emit.EmitLabel(pos, continueLabel)
		g.Emit.EmitGo(pos, bodyLabel)
		g.Emit.EmitLabel(pos, exitLabel)

	case ast.While:
		cond, body := n.Child, n.Child.Next
		topLabel := g.Pool.NewLabel()
		bodyLabel := g.Pool.NewLabel()
		g.Emit.EmitLabel(pos, topLabel)
		g.GenBoolean(cond, bodyLabel, exitLabel, bodyLabel)
		g.Emit.EmitLabel(posOf(cond), bodyLabel)
		g.GenStmtList(body)
		g.Emit.EmitLabel(pos, continueLabel)
		g.Emit.EmitGo(pos, topLabel)
		g.Emit.EmitLabel(pos, exitLabel)

	case ast.Until:
		cond, body := n.Child, n.Child.Next
		topLabel := g.Pool.NewLabel()
		bodyLabel := g.Pool.NewLabel()
		g.Emit.EmitLabel(pos, topLabel)
		g.GenBoolean(cond, exitLabel, bodyLabel, bodyLabel)
		g.Emit.EmitLabel(posOf(cond), bodyLabel)
		g.GenStmtList(body)
		g.Emit.EmitLabel(pos, continueLabel)
		g.Emit.EmitGo(pos, topLabel)
		g.Emit.EmitLabel(pos, exitLabel)

	case ast.For:
		iterList, body := n.Child, n.Child.Next
		clauses := clausesOf(iterList)
		g.genForOuter(clauses, 0, body, exitLabel, continueLabel, pos)
		// A looping outermost clause already defines exitLabel as its own
		// exhaustion label; only a map clause or no clause leaves it out.
		if len(clauses) == 0 || clauses[0].isMap {
			g.Emit.EmitLabel(pos, exitLabel)
		}
	}
}

// genForOuter drives the i'th generator clause of a for-loop, binding
// its pattern and recursing into the remaining clauses before
// lowering the body, so `for [x in s, y in t]` iterates t innermost
// for every x. Only the outermost clause (i == 0) is wired to
// continueLabel, since `continue` restarts the whole for-loop's next
// combination rather than just the innermost generator.
func (g *Generator) genForOuter(clauses []iterClause, i int, body *ast.Node, exitLabel, continueLabel int, pos quads.Pos) {
	if i >= len(clauses) {
		g.GenStmtList(body)
		return
	}
	clause := clauses[i]
	clausePos := posOf(clause.source)

	// A map-lookup clause binds once and has no loop of its own: evaluate
	// and bind, then guard and recurse. Since there's nothing to loop
	// back to, an outermost map clause's continueLabel is just the point
	// right after its (one-shot) body.
	if clause.isMap {
		val := g.GenExpr(clause.source)
		g.bindPattern(clause.pattern, val)
		g.freeIfTemp(val)
		g.applyClauseGuard(clause, func() {
			g.genForOuter(clauses, i+1, body, exitLabel, continueLabel, pos)
		})
		if i == 0 {
			g.Emit.EmitLabel(pos, continueLabel)
		}
		return
	}

	localExit := exitLabel
	if i > 0 {
		localExit = g.Pool.NewLabel()
	}

	if isArithKind(clause.source.Kind) && clause.pattern.Kind != ast.EnumTup {
		bound := g.boundSymbol(clause.pattern)
		beforeLoopback := func() {
			if i == 0 {
				g.Emit.EmitLabel(pos, continueLabel)
			}
		}
		g.genArithCounterLoop(clause.source, bound, localExit, beforeLoopback, func(*symtab.Symbol) {
			g.applyClauseGuard(clause, func() {
				g.genForOuter(clauses, i+1, body, exitLabel, continueLabel, pos)
			})
		})
		return
	}

	srcSym := g.GenExpr(clause.source)
	iterState := g.Pool.NewTemp()
	g.Emit.EmitSSS(quads.OpIter, clausePos, srcSym, iterState, nil)
	valTemp := g.Pool.NewTemp()
	loopLabel := g.Pool.NewLabel()

	g.Emit.EmitLabel(clausePos, loopLabel)
	g.Emit.EmitIterNext(clausePos, iterState, valTemp, localExit)
	g.bindPattern(clause.pattern, valTemp)

	g.applyClauseGuard(clause, func() {
		g.genForOuter(clauses, i+1, body, exitLabel, continueLabel, pos)
	})

	if i == 0 {
		g.Emit.EmitLabel(pos, continueLabel)
	}
	g.Emit.EmitGo(clausePos, loopLabel)
	g.Emit.EmitLabel(clausePos, localExit)

	g.freeIfTemp(srcSym)
	g.Pool.FreeTemp(iterState)
	g.Pool.FreeTemp(valTemp)
}

// genCaseCommon implements the shared half of the case statement and
// expression generators (C8/C7): when every arm's selector value is a
// constant literal (C5's classifier), the per-arm comparison labels
// are built once and cached per node (property 7); otherwise-less
// case statements whose selector matches nothing fall straight
// through to doneLabel.
func (g *Generator) genCaseCommon(n *ast.Node, target *symtab.Symbol) {
	selector := n.Child
	selSym := g.GenExpr(selector)

	disp, cached := g.caseMaps[n]
	if !cached {
		disp = &caseDispatch{doneLabel: g.Pool.NewLabel()}
		allConst := true
		for w := selector.Next; w != nil; w = w.Next {
			if w.Child.Kind == ast.Placeholder {
				disp.otherwiseLabel = g.Pool.NewLabel()
				disp.hasOtherwise = true
				continue
			}
			if !IsConstant(w.Child) {
				allConst = false
			}
			disp.labels = append(disp.labels, g.Pool.NewLabel())
		}
		if allConst {
			g.caseMaps[n] = disp
		}
	}

	idx := 0
	for w := selector.Next; w != nil; w = w.Next {
		if w.Child.Kind == ast.Placeholder {
			continue
		}
		val := g.GenExpr(w.Child)
		g.Emit.EmitBranch(quads.OpGoeq, posOf(w), disp.labels[idx], selSym, val)
		idx++
	}
	if disp.hasOtherwise {
		g.Emit.EmitGo(posOf(n), disp.otherwiseLabel)
	} else {
		g.Emit.EmitGo(posOf(n), disp.doneLabel)
	}

	idx = 0
	for w := selector.Next; w != nil; w = w.Next {
		if w.Child.Kind == ast.Placeholder {
			g.Emit.EmitLabel(posOf(w), disp.otherwiseLabel)
		} else {
			g.Emit.EmitLabel(posOf(w), disp.labels[idx])
			idx++
		}
		g.genArmBody(w, target)
		g.Emit.EmitGo(posOf(w), disp.doneLabel)
	}
	g.Emit.EmitLabel(posOf(n), disp.doneLabel)
}

// genGuardCommon implements the shared half of the guard
// statement/expression generators: a chain of boolean-guarded arms
// tried in order, falling to an optional otherwise arm.
func (g *Generator) genGuardCommon(n *ast.Node, target *symtab.Symbol) {
	doneLabel := g.Pool.NewLabel()
	for w := n.Child; w != nil; w = w.Next {
		if w.Child.Kind == ast.Placeholder {
			g.genArmBody(w, target)
			g.Emit.EmitGo(posOf(w), doneLabel)
			continue
		}
		nextLabel := g.Pool.NewLabel()
		bodyLabel := g.Pool.NewLabel()
		g.GenBoolean(w.Child, bodyLabel, nextLabel, bodyLabel)
		g.Emit.EmitLabel(posOf(w), bodyLabel)
		g.genArmBody(w, target)
		g.Emit.EmitGo(posOf(w), doneLabel)
		g.Emit.EmitLabel(posOf(w), nextLabel)
	}
	g.Emit.EmitLabel(posOf(n), doneLabel)
}

// genArmBody lowers one case/guard arm's body: an expression when
// target is non-nil (expression-form case/guard), a statement list
// otherwise.
func (g *Generator) genArmBody(w *ast.Node, target *symtab.Symbol) {
	body := w.Child.Next
	if target != nil {
		val := g.GenExpr(body)
		g.Emit.EmitSSS(quads.OpAssign, posOf(body), val, nil, target)
		return
	}
	g.GenStmtList(body)
}

func (g *Generator) genReturn(n *ast.Node) {
	if n.Child != nil {
		val := g.GenExpr(n.Child)
		g.Emit.EmitSSS(quads.OpReturn, posOf(n), val, nil, nil)
		return
	}
	g.Emit.EmitSSS(quads.OpReturn, posOf(n), g.Table.Omega, nil, nil)
}

// genExit lowers `exit` / `exit expr`: the innermost loop frame's
// value target receives the expression's value, if both an expression
// and a target exist; otherwise the value (if any) is silently
// discarded, since a statement-form loop has nowhere to put it
// (spec.md §4.4).
func (g *Generator) genExit(n *ast.Node) {
	frame, ok := g.Loops.Top()
	if !ok {
		g.Report.Report(diagnostics.NewErrorMessage(diagPosOf(n), "exit used outside a loop"))
		return
	}
	if n.Child != nil {
		val := g.GenExpr(n.Child)
		if frame.ValueTarget != nil {
			g.Emit.EmitSSS(quads.OpAssign, posOf(n), val, nil, frame.ValueTarget)
		}
	}
	g.Emit.EmitGo(posOf(n), frame.ExitLabel)
}

func (g *Generator) genContinue(n *ast.Node) {
	frame, ok := g.Loops.Top()
	if !ok {
		g.Report.Report(diagnostics.NewErrorMessage(diagPosOf(n), "continue used outside a loop"))
		return
	}
	g.Emit.EmitGo(posOf(n), frame.ContinueLabel)
}

func (g *Generator) genAssert(n *ast.Node) {
	for c := n.Child; c != nil; c = c.Next {
		sym := g.GenExpr(c)
		g.Emit.EmitSSS(quads.OpAssert, posOf(c), sym, nil, nil)
	}
}
