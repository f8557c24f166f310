package codegen

import (
	"github.com/funvibe/quadgen/internal/ast"
	"github.com/funvibe/quadgen/internal/quads"
	"github.com/funvibe/quadgen/internal/symtab"
)

// iterClause is one generator clause of an iterator list. A
// `pattern in source` clause iterates: pattern is either a single
// symbol leaf (the common case) or an enumerated-tuple node for
// multi-variable unpacking (`[x, y] in m`). A `pattern = expr`
// map-lookup clause (isMap) is a one-shot binding, not an iteration:
// it runs exactly once per outer combination. cond holds an optional
// per-clause `| guard`, evaluated (and, on failure, skipping the rest
// of the chain for that combination) after the clause's own
// pattern is bound.
type iterClause struct {
	pattern *ast.Node
	source  *ast.Node
	cond    *ast.Node
	isMap   bool
}

func clausesOf(iterList *ast.Node) []iterClause {
	var out []iterClause
	for c := iterList.Child; c != nil; c = c.Next {
		if c.Kind == ast.MapIter {
			out = append(out, iterClause{pattern: c.Child, source: c.Child.Next, isMap: true})
			continue
		}
		pattern := c.Child
		source := pattern.Next
		cond := source.Next
		if cond != nil && cond.Kind == ast.Placeholder {
			cond = nil
		}
		out = append(out, iterClause{pattern: pattern, source: source, cond: cond})
	}
	return out
}

// applyClauseGuard wraps then with clause's `| cond` guard, if any:
// then only runs when cond is true, and control always rejoins after
// then either way, matching a failed guard acting like an empty
// iteration step rather than aborting the whole chain.
func (g *Generator) applyClauseGuard(clause iterClause, then func()) {
	if clause.cond == nil {
		then()
		return
	}
	pos := posOf(clause.cond)
	passLabel := g.Pool.NewLabel()
	skipLabel := g.Pool.NewLabel()
	g.GenBoolean(clause.cond, passLabel, skipLabel, passLabel)
	g.Emit.EmitLabel(pos, passLabel)
	then()
	g.Emit.EmitLabel(pos, skipLabel)
}

// GenIterValues implements C9's driver for the value-producing
// iteration forms shared by set/tuple formers and quantifiers: for
// every combination of bound values produced by the (possibly nested)
// generator clauses in iterList, bind the pattern variables and invoke
// body. Nested clauses compose left to right, the way `[x in s, y in
// t]` iterates t innermost for each x.
func (g *Generator) GenIterValues(iterList *ast.Node, body func()) {
	g.genIterChain(clausesOf(iterList), body)
}

func (g *Generator) genIterChain(clauses []iterClause, body func()) {
	if len(clauses) == 0 {
		body()
		return
	}
	clause := clauses[0]
	rest := clauses[1:]

	// A map-lookup clause binds once, with no loop of its own: evaluate
	// its expr directly and bind it, then apply the clause's guard (if
	// any) before recursing into the rest of the chain.
	if clause.isMap {
		val := g.GenExpr(clause.source)
		g.bindPattern(clause.pattern, val)
		g.freeIfTemp(val)
		g.applyClauseGuard(clause, func() {
			g.genIterChain(rest, body)
		})
		return
	}

	// An arithmetic source with a plain (non-unpacking) pattern iterates
	// directly through its own counter loop, binding the pattern
	// variable straight to the counter rather than materialising a set
	// and draining it generically.
	if isArithKind(clause.source.Kind) && clause.pattern.Kind != ast.EnumTup {
		bound := g.boundSymbol(clause.pattern)
		g.genArithCounterLoop(clause.source, bound, 0, nil, func(*symtab.Symbol) {
			g.applyClauseGuard(clause, func() {
				g.genIterChain(rest, body)
			})
		})
		return
	}

	g.genIterSource(clause.source, func(val *symtab.Symbol) {
		g.bindPattern(clause.pattern, val)
		g.applyClauseGuard(clause, func() {
			g.genIterChain(rest, body)
		})
	})
}

// genIterSource drives anonymous single-source iteration (C9's
// gen_iter_values shape): no bound pattern, just a callback invoked
// once per element. Used by genIterChain's non-arithmetic clauses and
// directly by apply/binapply's fold loop, which has no pattern to bind
// at all.
func (g *Generator) genIterSource(source *ast.Node, body func(val *symtab.Symbol)) {
	if isArithKind(source.Kind) {
		g.genArithCounterLoop(source, nil, 0, nil, body)
		return
	}

	srcSym := g.GenExpr(source)
	g.Pool.Park(srcSym)
	iterState := g.Pool.NewTemp()
	pos := posOf(source)
	g.Emit.EmitSSS(quads.OpIter, pos, srcSym, iterState, nil)

	valTemp := g.Pool.NewTemp()
	loopLabel := g.Pool.NewLabel()
	exitLabel := g.Pool.NewLabel()

	g.Emit.EmitLabel(pos, loopLabel)
	g.Emit.EmitIterNext(pos, iterState, valTemp, exitLabel)

	body(valTemp)

	g.Emit.EmitGo(pos, loopLabel)
	g.Emit.EmitLabel(pos, exitLabel)

	g.Pool.Unpark(srcSym)
	g.freeIfTemp(srcSym)
	g.Pool.FreeTemp(iterState)
	g.Pool.FreeTemp(valTemp)
}

// bindPattern assigns the value a clause produced to its bound
// variable(s): a plain symbol leaf gets a direct q_assign; an
// enumerated-tuple pattern unpacks each element with q_of, the same
// component-extraction opcode ordinary tuple indexing uses.
func (g *Generator) bindPattern(pattern *ast.Node, value *symtab.Symbol) {
	if pattern.Kind == ast.EnumTup {
		i := int32(1)
		for c := pattern.Child; c != nil; c = c.Next {
			idx := g.Table.IntLiteral(int64(i))
			elem := g.boundSymbol(c)
			g.Emit.EmitSSS(quads.OpOf, posOf(c), value, idx, elem)
			i++
		}
		return
	}
	target := g.boundSymbol(pattern)
	g.Emit.EmitSSS(quads.OpAssign, posOf(pattern), value, nil, target)
}

func (g *Generator) boundSymbol(n *ast.Node) *symtab.Symbol {
	if n.Sym != nil {
		return n.Sym
	}
	if n.Namtab != nil && n.Namtab.SymtabPtr != nil {
		return n.Namtab.SymtabPtr
	}
	return g.Table.Omega
}

// iterBoundValue returns the value bound by a single-clause iterator
// list's pattern, for the `*-NoExp` former variants that reuse the
// bound variable itself as the body expression. Chained clauses use
// the innermost clause's binding.
func (g *Generator) iterBoundValue(iterList *ast.Node) *symtab.Symbol {
	clauses := clausesOf(iterList)
	if len(clauses) == 0 {
		return g.Table.Omega
	}
	last := clauses[len(clauses)-1]
	return g.boundSymbol(last.pattern)
}
