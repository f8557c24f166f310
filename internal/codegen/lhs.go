package codegen

// lhs.go implements C10: the sinister (left-hand-side) code generator
// and its two local rewrites (nested-LHS collapsing, augmented-
// assignment rewriting).
//
// ast.AssignOp carries its binary operator as a bare Kind-tagged
// middle child with no children of its own: Child = lhs, Child.Next =
// op tag, Child.Next.Next = rhs. ast.Assign and ast.Cassign (constant
// initialisation — semantically distinct at the type-check stage, but
// identical at this stage) have just Child = lhs, Child.Next = rhs.

import (
	"github.com/funvibe/quadgen/internal/ast"
	"github.com/funvibe/quadgen/internal/quads"
	"github.com/funvibe/quadgen/internal/symtab"
)

var kofOpcode = map[ast.Kind]quads.Opcode{ast.Of: quads.OpKof, ast.Ofa: quads.OpKofa}
var sofOpcode = map[ast.Kind]quads.Opcode{ast.Of: quads.OpSof, ast.Ofa: quads.OpSofa}

// GenSinisterAssign lowers an assignment (plain, augmented, or
// constant-init) and returns the symbol holding the assigned value, so
// uses of assignment in expression position (`x := y := 1`) have
// something to chain off of.
func (g *Generator) GenSinisterAssign(n *ast.Node) *symtab.Symbol {
	lhs := n.Child
	pos := posOf(n)

	switch n.Kind {
	case ast.Assign, ast.Cassign:
		rhs := lhs.Next
		if lhs.Kind == ast.Symtab || lhs.Kind == ast.Namtab {
			if target := g.boundSymbol(lhs); target != nil {
				switch rhs.Kind {
				case ast.Add, ast.Sub, ast.Mult, ast.Div, ast.Expon, ast.Mod, ast.Min, ast.Max,
					ast.With, ast.Less, ast.Lessf, ast.Npow, ast.Domain, ast.Range:
					g.genBinopInto(rhs, target)
					return target
				case ast.Uminus, ast.Ufrom, ast.Not, ast.Arb, ast.Pow, ast.Nelt:
					g.genUnopInto(rhs, target)
					return target
				}
			}
		}
		val := g.GenExpr(rhs)
		g.genLHS(lhs, val)
		return val

	case ast.AssignOp:
		opTag := lhs.Next
		rhs := opTag.Next
		if result, ok := g.tryAugmentedRewrite(lhs, opTag.Kind, rhs, pos); ok {
			return result
		}
		cur := g.GenExpr(lhs)
		rval := g.GenExpr(rhs)
		result := g.Pool.NewTemp()
		g.Emit.EmitSSS(ast.DefaultOpcode[opTag.Kind], pos, cur, rval, result)
		g.freeIfTemp(cur)
		g.freeIfTemp(rval)
		g.genLHS(lhs, result)
		return result
	}
	return g.trap(n)
}

// genLHS is the base LHS lowering: it walks one LHS-shaped node and
// emits the idiom its kind requires to store value into it.
func (g *Generator) genLHS(lhs *ast.Node, value *symtab.Symbol) {
	pos := posOf(lhs)
	switch lhs.Kind {
	case ast.Placeholder:
		// nothing bound, nothing stored.

	case ast.Symtab, ast.Namtab:
		target := g.boundSymbol(lhs)
		g.Emit.EmitSSS(quads.OpAssign, pos, value, nil, target)

	case ast.EnumTup:
		g.genLHSTuple(lhs, value)

	case ast.Of, ast.Ofa:
		g.genLHSIndexed(lhs, value)

	case ast.Slice:
		g.genLHSSlice(lhs, value)

	case ast.End:
		g.genLHSTail(lhs, value)

	case ast.Slot, ast.SlotOf:
		g.genLHSSlot(lhs, value)

	default:
		g.trap(lhs)
	}
}

// genLHSTuple lowers `[x1,...,xn] := value`: copy value to a temp,
// unpack each position with q_tupof, recursing for nested patterns and
// skipping placeholders, then release the copy.
func (g *Generator) genLHSTuple(lhs *ast.Node, value *symtab.Symbol) {
	pos := posOf(lhs)
	t := g.Pool.NewTemp()
	g.Emit.EmitSSS(quads.OpAssign, pos, value, nil, t)

	i := int64(1)
	for c := lhs.Child; c != nil; c = c.Next {
		idx := g.Table.IntLiteral(i)
		i++
		if c.Kind == ast.Placeholder {
			continue
		}
		elem := g.Pool.NewTemp()
		g.Emit.EmitSSS(quads.OpTupof, posOf(c), t, idx, elem)
		g.genLHS(c, elem)
		g.freeIfTemp(elem)
	}
	g.Emit.EmitSSS(quads.OpAssign, pos, g.Table.Omega, nil, t)
	g.Pool.FreeTemp(t)
}

type indexLink struct {
	kind ast.Kind
	key  *ast.Node
	pos  quads.Pos
}

// indexChain walks a chain of Of/Ofa applications down to its base,
// returning the links outermost-first reversed to innermost-first (so
// index 0 is the link closest to base) plus the base node itself.
func indexChain(lhs *ast.Node) (base *ast.Node, links []indexLink) {
	n := lhs
	for n.Kind == ast.Of || n.Kind == ast.Ofa {
		links = append(links, indexLink{kind: n.Kind, key: n.Child.Next, pos: posOf(n)})
		n = n.Child
	}
	for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
		links[i], links[j] = links[j], links[i]
	}
	return n, links
}

// genLHSIndexed lowers `a(i1)...(iL) := value` (a chain of Of/Ofa
// applications): one load per intermediate container, then one store
// per link threading the updated value back up to the base, mirroring
// the table's "if target was a temporary, recurse LHS with it" rule
// without actually re-walking the chain a second time.
//
// When rewrites are enabled and the active sink is memory-mode, this
// also performs the nested-LHS rewrite (spec's `new_gen_lhs`): the
// intermediate loads become kill-after-use (kof/kofa) and each
// intermediate container is released with an explicit omega-assign
// once its updated value has been threaded into its parent. A
// file-mode sink can't have its already-appended quadruples rewritten
// in place, so the rewrite declines there and the plain load opcodes
// stand.
func (g *Generator) genLHSIndexed(lhs *ast.Node, value *symtab.Symbol) {
	base, links := indexChain(lhs)
	value = g.guardAlias(base, value)

	rewrite := len(links) > 1 && g.Settings.RewritesEnabled()
	if _, memMode := g.Emit.MemSink(); !memMode {
		rewrite = false
	}

	containers := make([]*symtab.Symbol, len(links))
	keys := make([]*symtab.Symbol, len(links))
	loadQuads := make([]*quads.Quad, len(links))

	containers[0] = g.GenExpr(base)
	for i, lk := range links {
		keys[i] = g.GenExpr(lk.key)
		if i+1 < len(links) {
			t := g.Pool.NewTemp()
			loadQuads[i] = g.Emit.EmitSSS(ast.DefaultOpcode[lk.kind], lk.pos, containers[i], keys[i], t)
			containers[i+1] = t
		}
	}

	cur := value
	for i := len(links) - 1; i >= 0; i-- {
		g.Emit.EmitSSS(sofOpcode[links[i].kind], links[i].pos, containers[i], keys[i], cur)
		g.freeIfTemp(keys[i])
		cur = containers[i]
	}

	if rewrite {
		for i := 0; i < len(links)-1; i++ {
			loadQuads[i].Opcode = kofOpcode[links[i].kind]
		}
		for i := 1; i < len(containers); i++ {
			g.Emit.EmitSSS(quads.OpAssign, links[i-1].pos, g.Table.Omega, nil, containers[i])
		}
	}
	for i := 1; i < len(containers); i++ {
		g.freeIfTemp(containers[i])
	}
}

// guardAlias implements the table's aliasing-copy rule: if value is
// exactly the outermost LHS identifier, the inner stores would
// otherwise see their own partial effect as they walk back up, so the
// source is copied to a temp before anything is emitted.
func (g *Generator) guardAlias(base *ast.Node, value *symtab.Symbol) *symtab.Symbol {
	baseSym := g.boundSymbol(base)
	if baseSym == nil || value != baseSym {
		return value
	}
	t := g.Pool.NewTemp()
	g.Emit.EmitSSS(quads.OpAssign, posOf(base), value, nil, t)
	return t
}

// genLHSSlice lowers `a(b..e) := value`. q_sslice only carries three
// operands (container, b, e), so the value being stored rides on a
// trailing noop quadruple rather than a fourth operand slot.
func (g *Generator) genLHSSlice(lhs *ast.Node, value *symtab.Symbol) {
	container := lhs.Child
	b := container.Next
	e := b.Next
	pos := posOf(lhs)

	target := g.GenExpr(container)
	bSym := g.GenExpr(b)
	eSym := g.GenExpr(e)
	g.Emit.EmitSSS(quads.OpSslice, pos, target, bSym, eSym)
	g.Emit.EmitSSS(quads.OpNoop, pos, value, nil, nil)
	g.freeIfTemp(bSym)
	g.freeIfTemp(eSym)
	if target.IsTemp {
		g.genLHS(container, target)
	}
}

// genLHSTail lowers `a(b..) := value`.
func (g *Generator) genLHSTail(lhs *ast.Node, value *symtab.Symbol) {
	container := lhs.Child
	b := container.Next
	pos := posOf(lhs)

	target := g.GenExpr(container)
	bSym := g.GenExpr(b)
	g.Emit.EmitSSS(quads.OpSend, pos, target, bSym, value)
	g.freeIfTemp(bSym)
	if target.IsTemp {
		g.genLHS(container, target)
	}
}

// genLHSSlot lowers `obj.slot := value`.
func (g *Generator) genLHSSlot(lhs *ast.Node, value *symtab.Symbol) {
	obj := g.GenExpr(lhs.Child)
	slotSym := slotNameSymbol(lhs.Child.Next)
	g.Emit.EmitSSS(quads.OpSslot, posOf(lhs), obj, slotSym, value)
	g.freeIfTemp(obj)
}

// tryAugmentedRewrite implements the augmented-assignment rewrite for
// the common single-level case `a(i) op:= rhs` (a chain of depth one):
// the RHS is evaluated before the container/key, the current value is
// loaded once, combined with rhs, stored back through the same
// container/key already in hand, and the intermediate key's runtime
// value is released with an explicit erase. Chains of depth greater
// than one decline: confirming and rewriting that general shape needs
// the same tail surgery the nested-LHS rewrite performs, and the
// straightforward two-walk fallback in GenSinisterAssign already
// produces correct code for them.
func (g *Generator) tryAugmentedRewrite(lhs *ast.Node, opKind ast.Kind, rhs *ast.Node, pos quads.Pos) (*symtab.Symbol, bool) {
	if !g.Settings.RewritesEnabled() {
		return nil, false
	}
	if lhs.Kind != ast.Of && lhs.Kind != ast.Ofa {
		return nil, false
	}
	container := lhs.Child
	if container.Kind == ast.Of || container.Kind == ast.Ofa {
		return nil, false
	}

	rval := g.GenExpr(rhs)
	containerSym := g.GenExpr(container)
	keySym := g.GenExpr(lhs.Child.Next)

	cur := g.Pool.NewTemp()
	g.Emit.EmitSSS(ast.DefaultOpcode[lhs.Kind], pos, containerSym, keySym, cur)

	result := g.Pool.NewTemp()
	g.Emit.EmitSSS(ast.DefaultOpcode[opKind], pos, cur, rval, result)
	g.freeIfTemp(cur)
	g.freeIfTemp(rval)

	g.Emit.EmitSSS(sofOpcode[lhs.Kind], pos, containerSym, keySym, result)
	g.Emit.EmitSSS(quads.OpErase, pos, keySym, nil, nil)
	g.freeIfTemp(keySym)
	return result, true
}
