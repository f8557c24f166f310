package quads

import "github.com/funvibe/quadgen/internal/symtab"

// EmitContext is the quadruple store (C2): the single point through
// which the code generator appends instructions, mirroring quads.c's
// open_emit/emit/emitiss/emitssi/close_emit family. It owns the quad
// pool and the active sink, and tracks the running count open_emit
// returns to its caller as the new procedure's quad count.
type EmitContext struct {
	pool  *Pool
	sink  Sink
	count int
}

// OpenEmit begins a fresh emission run against sink, mirroring
// open_emit's job of resetting the running count for one procedure.
func OpenEmit(pool *Pool, sink Sink) *EmitContext {
	return &EmitContext{pool: pool, sink: sink}
}

// Count returns the number of quadruples appended so far in this run.
func (ec *EmitContext) Count() int { return ec.count }

// emit builds and appends one quadruple. It does not check the
// operand kinds against OperandTypes; the caller's choice of Emit*
// helper alone decides each operand's kind.
func (ec *EmitContext) emit(op Opcode, pos Pos, operands [3]Operand) *Quad {
	q := ec.pool.Get()
	q.Opcode = op
	q.Operand = operands
	q.FilePos = pos
	ec.sink.Append(q)
	ec.count++
	return q
}

// EmitSSS emits a three-symbol-operand quadruple, the common case
// (arithmetic, comparisons, with/less, the call family).
func (ec *EmitContext) EmitSSS(op Opcode, pos Pos, a, b, c *symtab.Symbol) *Quad {
	return ec.emit(op, pos, [3]Operand{Sym(a), Sym(b), Sym(c)})
}

// EmitISS emits a quadruple whose first operand is an immediate
// integer and whose remaining two are symbols, mirroring quads.c's
// emitiss (used for e.g. tuple/set element counts).
func (ec *EmitContext) EmitISS(op Opcode, pos Pos, i int32, b, c *symtab.Symbol) *Quad {
	return ec.emit(op, pos, [3]Operand{Int(i), Sym(b), Sym(c)})
}

// EmitSSI emits a quadruple whose first two operands are symbols and
// whose third is an immediate integer, mirroring quads.c's emitssi.
func (ec *EmitContext) EmitSSI(op Opcode, pos Pos, a, b *symtab.Symbol, i int32) *Quad {
	return ec.emit(op, pos, [3]Operand{Sym(a), Sym(b), Int(i)})
}

// EmitLabel emits a q_label marker quadruple.
func (ec *EmitContext) EmitLabel(pos Pos, lbl int) *Quad {
	return ec.emit(OpLabel, pos, [3]Operand{Label(lbl), Unused, Unused})
}

// EmitGo emits an unconditional branch to lbl.
func (ec *EmitContext) EmitGo(pos Pos, lbl int) *Quad {
	return ec.emit(OpGo, pos, [3]Operand{Label(lbl), Unused, Unused})
}

// EmitBranch emits a conditional branch (q_gotrue/q_gofalse and the
// comparison-fused q_goeq..q_gonincs family) with one or two test
// operands.
func (ec *EmitContext) EmitBranch(op Opcode, pos Pos, lbl int, test1, test2 *symtab.Symbol) *Quad {
	return ec.emit(op, pos, [3]Operand{Label(lbl), Sym(test1), Sym(test2)})
}

// EmitIterNext emits a q_inext: pull the next value from iterState
// into valDest, branching to exhausted once the source is drained.
func (ec *EmitContext) EmitIterNext(pos Pos, iterState, valDest *symtab.Symbol, exhausted int) *Quad {
	return ec.emit(OpInext, pos, [3]Operand{Sym(iterState), Sym(valDest), Label(exhausted)})
}

// EmitRaw appends a fully pre-built quadruple, for callers (the LHS
// rewriter) that construct a replacement quadruple directly rather
// than through the Emit* helpers.
func (ec *EmitContext) EmitRaw(q *Quad) {
	ec.sink.Append(q)
	ec.count++
}

// MemSink returns the active sink as a *MemSink, and whether it is
// one. The LHS rewriter's nested-LHS optimisation rewrites
// already-appended quadruples in place, which only a linked in-memory
// list supports; file-mode emission is append-only, so that rewrite
// consults this and declines when it reports false. The
// augmented-assignment rewrite only appends and does not consult it.
func (ec *EmitContext) MemSink() (*MemSink, bool) {
	m, ok := ec.sink.(*MemSink)
	return m, ok
}

// Close finalises the active sink.
func (ec *EmitContext) Close() error {
	return ec.sink.Close()
}

// KillQuads returns a memory-mode list back to the pool, mirroring
// kill_quads; a no-op if this context's sink was file-backed, since
// file-mode streams are reclaimed by discarding the file instead.
func (ec *EmitContext) KillQuads(head *Quad) {
	if _, ok := ec.sink.(*MemSink); !ok {
		return
	}
	ec.pool.KillList(head)
}
